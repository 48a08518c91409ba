package analysis

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/jhelmig/windfarm-analysis-station/classification"
	"github.com/jhelmig/windfarm-analysis-station/views"
)

//go:generate go tool templ generate

var (
	tempDir = "temp_uploads"

	currentConfig    = classification.DefaultConfig()
	currentConfigMux = &sync.Mutex{}
)

func Init() {
	// Create temp directory for uploaded CSV files
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		log.Printf("Failed to create temp directory: %v", err)
	}

	// Initialize the station database
	if err := InitStationDatabase(); err != nil {
		log.Fatalf("Failed to initialize station database: %v", err)
	}

	log.Println("Analysis module initialized")
}

func SetupHandlers() {
	http.HandleFunc("/analysis", serveAnalysisPage)
	http.HandleFunc("/analysis/upload", handleDatasetUpload)
	http.HandleFunc("/analysis/upload-layout", handleLayoutUpload)
	http.HandleFunc("/analysis/classify", handleClassify)
	http.HandleFunc("/analysis/config", handleConfig)
	http.HandleFunc("/analysis/datasets", handleGetDatasets)
	http.HandleFunc("/analysis/summary", handleGetSummary)
	http.HandleFunc("/analysis/results", handleGetResults)
	http.HandleFunc("/analysis/states", handleGetStates)
	http.HandleFunc("/analysis/availability", handleGetAvailability)
	http.HandleFunc("/analysis/fleet", handleGetFleetSummary)
	http.HandleFunc("/analysis/report", handleGetTurbineReport)
	http.HandleFunc("/analysis/statistics", handleGetStatistics)
	http.HandleFunc("/analysis/adjacent", handleGetAdjacent)
	http.HandleFunc("/analysis/metmasts", handleGetMetmasts)
	http.HandleFunc("/analysis/export-xlsx", handleXLSXExport)
	http.HandleFunc("/analysis/export-csv", handleCSVExport)
}

func serveAnalysisPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	views.AnalysisPage().Render(r.Context(), w)
}

// GetConfig returns the thresholds used for the next classification run.
func GetConfig() classification.Config {
	currentConfigMux.Lock()
	defer currentConfigMux.Unlock()
	return currentConfig
}

// SetConfig replaces the thresholds used for the next classification run.
func SetConfig(cfg classification.Config) {
	currentConfigMux.Lock()
	defer currentConfigMux.Unlock()
	currentConfig = cfg
}
