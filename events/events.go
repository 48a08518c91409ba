package events

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	mutex   = &sync.Mutex{}
	events  []Event
	logFile *os.File
)

func Init() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
		return
	}

	// Create log file with current timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join("logs", fmt.Sprintf("events_%s.log", timestamp))

	var err error
	logFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Failed to open log file: %v", err)
		return
	}

	logFile.WriteString(fmt.Sprintf("=== Event Log Started at %s ===\n", time.Now().Format("2006-01-02 15:04:05")))
}

func LogEvent(event Event) {
	mutex.Lock()
	defer mutex.Unlock()
	events = append(events, event)

	if logFile == nil {
		return
	}

	// Format: [timestamp] EVENT_TYPE: source (details)
	logLine := fmt.Sprintf("[%s] %s: %s",
		event.Timestamp.Format("2006-01-02 15:04:05"),
		strings.ToUpper(event.Type),
		event.Source)
	if event.Details != "" {
		logLine += fmt.Sprintf(" (%s)", event.Details)
	}
	logLine += "\n"

	if _, err := logFile.WriteString(logLine); err != nil {
		log.Printf("Failed to write to log file: %v", err)
	}
}

// GetEvents returns the recent events (last 50)
func GetEvents() []Event {
	mutex.Lock()
	defer mutex.Unlock()

	start := 0
	if len(events) > 50 {
		start = len(events) - 50
	}
	return events[start:]
}

// Close flushes and closes the event log file.
func Close() {
	mutex.Lock()
	defer mutex.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
