package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

//go:generate go tool templ generate

func SetupHandlers() {
	http.HandleFunc("/events", handleEvents)
	http.HandleFunc("/manual-event", handleManualEvent)

	// HTMX endpoints
	http.HandleFunc("/events/list", handleEventsList)
}

// HTMX Handlers

func handleEventsList(w http.ResponseWriter, r *http.Request) {
	eventsList := GetEvents()

	// Reverse the events to show newest first
	reversed := make([]Event, len(eventsList))
	for i, j := 0, len(eventsList)-1; i < len(eventsList); i, j = i+1, j-1 {
		reversed[i] = eventsList[j]
	}

	w.Header().Set("Content-Type", "text/html")
	err := EventsList(reversed).Render(r.Context(), w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// JSON API handlers

func handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetEvents())
}

func handleManualEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var data struct {
		Type    string `json:"type"`
		Source  string `json:"source"`
		Details string `json:"details"`
	}

	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if data.Type == "" || data.Source == "" {
		http.Error(w, "Type and source are required", http.StatusBadRequest)
		return
	}

	event := Event{
		Type:      data.Type,
		Source:    data.Source,
		Details:   data.Details,
		Timestamp: time.Now(),
	}
	LogEvent(event)

	w.WriteHeader(http.StatusOK)
}

// Helper functions for templates

func formatEventType(eventType string) string {
	parts := strings.Split(eventType, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func getEventTypeClass(eventType string) string {
	switch eventType {
	case "dataset_uploaded", "layout_uploaded":
		return "bg-blue-100 text-blue-800"
	case "classification_started":
		return "bg-indigo-100 text-indigo-800"
	case "classification_finished":
		return "bg-green-100 text-green-800"
	case "classification_failed":
		return "bg-red-100 text-red-800"
	case "export_generated":
		return "bg-purple-100 text-purple-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}
