package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhelmig/windfarm-analysis-station/analysis"
	"github.com/jhelmig/windfarm-analysis-station/events"
	"github.com/jhelmig/windfarm-analysis-station/live"
)

func init() {
	events.Init()
	analysis.Init()
}

func main() {
	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutting down gracefully...")
		if err := analysis.CloseStationDatabase(); err != nil {
			log.Printf("Error closing station database: %v", err)
		}
		events.Close()
		os.Exit(0)
	}()

	// Serve static files
	http.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	http.HandleFunc("/", serveFrontend)

	events.SetupHandlers()
	live.SetupHandlers()
	analysis.SetupHandlers()

	log.Printf("Analysis station started at http://127.0.0.1:8080")
	http.ListenAndServe(":8080", nil)
}

func serveFrontend(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/analysis", http.StatusFound)
}
