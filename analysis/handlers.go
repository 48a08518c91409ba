package analysis

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhelmig/windfarm-analysis-station/classification"
	"github.com/jhelmig/windfarm-analysis-station/events"
	"github.com/jhelmig/windfarm-analysis-station/live"
	"github.com/jhelmig/windfarm-analysis-station/scada"
)

func handleDatasetUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form
	err := r.ParseMultipartForm(64 << 20) // 64 MB max
	if err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("dataset")
	if err != nil {
		http.Error(w, "Failed to get file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := header.Filename
	if strings.ToLower(filepath.Ext(filename)) != ".csv" {
		http.Error(w, "Invalid file format. Please upload a SCADA export CSV file.", http.StatusBadRequest)
		return
	}

	dataset, err := scada.ParseDataset(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to import dataset: %v", err), http.StatusBadRequest)
		return
	}

	session := &Session{
		ID:         uuid.New().String(),
		Name:       filename,
		UploadedAt: time.Now(),
		Dataset:    dataset,
	}
	registerSession(session)

	summary := dataset.Summary()
	if err := saveDatasetRecord(DatasetRecord{
		ID:         session.ID,
		Name:       session.Name,
		UploadedAt: session.UploadedAt,
		Records:    summary.TotalRecords,
		Turbines:   summary.UniqueTurbines,
	}); err != nil {
		log.Printf("Failed to save dataset record: %v", err)
	}

	events.LogEvent(events.Event{
		Type:      "dataset_uploaded",
		Source:    "Analysis",
		Details:   fmt.Sprintf("%s (%d records)", filename, summary.TotalRecords),
		Timestamp: time.Now(),
	})

	response := map[string]interface{}{
		"status":     "success",
		"message":    fmt.Sprintf("Successfully imported %d records from %s", summary.TotalRecords, filename),
		"dataset_id": session.ID,
		"summary":    summary,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func handleLayoutUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	datasetID := r.FormValue("datasetId")
	if datasetID == "" {
		http.Error(w, "Dataset ID required", http.StatusBadRequest)
		return
	}

	session, err := getSession(datasetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	file, header, err := r.FormFile("layout")
	if err != nil {
		http.Error(w, "Failed to get file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	layout, err := scada.ParseLayout(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to import layout: %v", err), http.StatusBadRequest)
		return
	}

	session.Dataset.SetLayout(layout)
	if err := updateDatasetLayout(datasetID, true); err != nil {
		log.Printf("Failed to update dataset layout flag: %v", err)
	}

	events.LogEvent(events.Event{
		Type:      "layout_uploaded",
		Source:    "Analysis",
		Details:   fmt.Sprintf("%s (%d turbines)", header.Filename, len(layout)),
		Timestamp: time.Now(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "success",
		"message":  fmt.Sprintf("Layout with %d turbine positions applied", len(layout)),
		"turbines": len(layout),
	})
}

func handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		DatasetID string                 `json:"dataset_id"`
		Config    *classification.Config `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if request.DatasetID == "" {
		http.Error(w, "Dataset ID required", http.StatusBadRequest)
		return
	}

	session, err := getSession(request.DatasetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	cfg := GetConfig()
	if request.Config != nil {
		// Per-run override keeps the startup windows of the stored config.
		override := *request.Config
		override.StartupLookback = cfg.StartupLookback
		override.PostLowWindWindow = cfg.PostLowWindWindow
		override.PostAlarmWindow = cfg.PostAlarmWindow
		cfg = override
	}

	events.LogEvent(events.Event{
		Type:      "classification_started",
		Source:    "Analysis",
		Details:   session.Name,
		Timestamp: time.Now(),
	})

	classifier := classification.NewClassifier(cfg)
	started := time.Now()
	results := classifier.ClassifyWithProgress(session.Dataset, func(done, total int) {
		live.Broadcast(live.Progress{
			DatasetID: session.ID,
			Done:      done,
			Total:     total,
			Percent:   float64(done) / float64(total) * 100,
			Timestamp: time.Now(),
		})
	})

	finishedAt := time.Now()
	if err := setSessionResults(session.ID, results, finishedAt); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := saveResults(session.ID, session.Dataset, results); err != nil {
		log.Printf("Failed to persist classification results: %v", err)
	}
	if err := markDatasetClassified(session.ID, finishedAt); err != nil {
		log.Printf("Failed to mark dataset classified: %v", err)
	}

	live.Broadcast(live.Progress{
		DatasetID: session.ID,
		Done:      len(results),
		Total:     len(results),
		Percent:   100,
		Finished:  true,
		Timestamp: finishedAt,
	})

	events.LogEvent(events.Event{
		Type:      "classification_finished",
		Source:    "Analysis",
		Details:   fmt.Sprintf("%s in %s", session.Name, finishedAt.Sub(started).Round(time.Millisecond)),
		Timestamp: finishedAt,
	})

	counts := make(map[string]int)
	for state, count := range classification.StateCounts(results) {
		counts[string(state)] = count
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "success",
		"message":      fmt.Sprintf("Classified %d records", len(results)),
		"dataset_id":   session.ID,
		"state_counts": counts,
		"duration_ms":  finishedAt.Sub(started).Milliseconds(),
	})
}

func handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg := GetConfig()
		response := configResponse(cfg)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	case http.MethodPost:
		var request struct {
			classification.Config
			StartupLookbackMin   *float64 `json:"startup_lookback_min"`
			PostLowWindWindowMin *float64 `json:"post_low_wind_window_min"`
			PostAlarmWindowMin   *float64 `json:"post_alarm_window_min"`
		}
		request.Config = GetConfig()
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid JSON request", http.StatusBadRequest)
			return
		}
		cfg := request.Config
		if request.StartupLookbackMin != nil {
			cfg.StartupLookback = time.Duration(*request.StartupLookbackMin * float64(time.Minute))
		}
		if request.PostLowWindWindowMin != nil {
			cfg.PostLowWindWindow = time.Duration(*request.PostLowWindWindowMin * float64(time.Minute))
		}
		if request.PostAlarmWindowMin != nil {
			cfg.PostAlarmWindow = time.Duration(*request.PostAlarmWindowMin * float64(time.Minute))
		}
		SetConfig(cfg)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(configResponse(cfg))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func configResponse(cfg classification.Config) map[string]interface{} {
	return map[string]interface{}{
		"production_threshold_kw":        cfg.ProductionThresholdKW,
		"cut_in_wind_speed":              cfg.CutInWindSpeed,
		"alarm_threshold_seconds":        cfg.AlarmThresholdSeconds,
		"curtailment_threshold_seconds":  cfg.CurtailmentThresholdSecs,
		"wind_speed_deviation_threshold": cfg.WindSpeedDeviationThresh,
		"max_adjacent_turbines":          cfg.MaxAdjacentTurbines,
		"adjacency_distance_threshold":   cfg.AdjacencyDistanceThreshold,
		"startup_lookback_min":           cfg.StartupLookback.Minutes(),
		"post_low_wind_window_min":       cfg.PostLowWindWindow.Minutes(),
		"post_alarm_window_min":          cfg.PostAlarmWindow.Minutes(),
	}
}

func handleGetDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := getDatasetRecords()
	if err != nil {
		http.Error(w, "Failed to get datasets", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []DatasetRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func handleGetSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	response := map[string]interface{}{
		"dataset_id": session.ID,
		"name":       session.Name,
		"summary":    session.Dataset.Summary(),
		"classified": session.Classified(),
	}
	if session.Classified() {
		counts := make(map[string]int)
		for state, count := range classification.StateCounts(session.Results) {
			counts[string(state)] = count
		}
		response["state_counts"] = counts
		response["classified_at"] = session.ClassifiedAt
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func handleGetResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	datasetID := r.URL.Query().Get("datasetId")
	if datasetID == "" {
		http.Error(w, "Dataset ID required", http.StatusBadRequest)
		return
	}

	query := ResultQuery{
		DatasetID: datasetID,
		StationID: r.URL.Query().Get("stationId"),
	}
	if from, ok := parseTimeParam(r.URL.Query().Get("from")); ok {
		query.From = &from
	}
	if to, ok := parseTimeParam(r.URL.Query().Get("to")); ok {
		query.To = &to
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		query.Page = page
	}
	if pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		query.PageSize = pageSize
	}

	rows, total, err := queryResults(query)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to query results: %v", err), http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []ResultRow{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total":   total,
		"results": rows,
	})
}

func handleGetStates(w http.ResponseWriter, r *http.Request) {
	type stateInfo struct {
		State string `json:"state"`
		Code  int    `json:"code"`
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	var states []stateInfo
	for _, state := range classification.AllStates() {
		meta := state.Meta()
		states = append(states, stateInfo{
			State: string(state),
			Code:  meta.Code,
			Name:  meta.Name,
			Color: meta.Color,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(states)
}

func handleGetAvailability(w http.ResponseWriter, r *http.Request) {
	session, ok := classifiedSessionFromQuery(w, r)
	if !ok {
		return
	}

	metrics := CalculateAvailability(session.Dataset, session.Results, r.URL.Query().Get("stationId"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}

func handleGetFleetSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := classifiedSessionFromQuery(w, r)
	if !ok {
		return
	}

	rows := FleetSummary(session.Dataset, session.Results)
	if rows == nil {
		rows = []FleetSummaryRow{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func handleGetTurbineReport(w http.ResponseWriter, r *http.Request) {
	session, ok := classifiedSessionFromQuery(w, r)
	if !ok {
		return
	}

	stationID := r.URL.Query().Get("stationId")
	if stationID == "" {
		http.Error(w, "Station ID required", http.StatusBadRequest)
		return
	}
	if len(session.Dataset.StationIndices(stationID)) == 0 {
		http.Error(w, fmt.Sprintf("Unknown turbine %q", stationID), http.StatusNotFound)
		return
	}

	report := GenerateTurbineReport(session.Dataset, session.Results, stationID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	stats := CalculateTurbineStatistics(session.Dataset)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func handleGetAdjacent(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	stationID := r.URL.Query().Get("stationId")
	if stationID == "" {
		http.Error(w, "Station ID required", http.StatusBadRequest)
		return
	}

	ds := session.Dataset
	resolver := classification.NewAdjacencyResolver(ds.Turbines(), ds.Layout, GetConfig())
	adjacent := resolver.Adjacent(stationID)
	if adjacent == nil {
		adjacent = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"station_id":  stationID,
		"adjacent":    adjacent,
		"from_layout": ds.HasLayout(),
	})
}

func handleGetMetmasts(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	columns := session.Dataset.MetmastColumns
	if columns == nil {
		columns = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dataset_id": session.ID,
		"metmasts":   columns,
	})
}

func handleXLSXExport(w http.ResponseWriter, r *http.Request) {
	session, ok := classifiedSessionFromQuery(w, r)
	if !ok {
		return
	}

	buf, err := ExportXLSX(session.Dataset, session.Results, r.URL.Query().Get("stationId"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate XLSX export: %v", err), http.StatusInternalServerError)
		return
	}

	logExportEvent(session, "xlsx")

	filename := exportFilename(session.Name, "xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

func handleCSVExport(w http.ResponseWriter, r *http.Request) {
	session, ok := classifiedSessionFromQuery(w, r)
	if !ok {
		return
	}

	buf, err := ExportCSVZip(session.Dataset, session.Results, r.URL.Query().Get("stationId"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate CSV export: %v", err), http.StatusInternalServerError)
		return
	}

	logExportEvent(session, "zip")

	filename := exportFilename(session.Name, "zip")
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

func sessionFromQuery(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	datasetID := r.URL.Query().Get("datasetId")
	if datasetID == "" {
		http.Error(w, "Dataset ID required", http.StatusBadRequest)
		return nil, false
	}

	session, err := getSession(datasetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func classifiedSessionFromQuery(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	session, ok := sessionFromQuery(w, r)
	if !ok {
		return nil, false
	}
	if !session.Classified() {
		http.Error(w, "Dataset has not been classified yet", http.StatusConflict)
		return nil, false
	}
	return session, true
}

func parseTimeParam(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func exportFilename(datasetName, ext string) string {
	base := strings.TrimSuffix(datasetName, filepath.Ext(datasetName))
	if base == "" {
		base = "dataset"
	}
	return fmt.Sprintf("%s_classified_%s.%s", base, time.Now().Format("20060102_150405"), ext)
}

func logExportEvent(session *Session, format string) {
	events.LogEvent(events.Event{
		Type:      "export_generated",
		Source:    "Analysis",
		Details:   fmt.Sprintf("%s (%s)", session.Name, format),
		Timestamp: time.Now(),
	})
}
