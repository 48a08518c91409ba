package analysis

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jhelmig/windfarm-analysis-station/classification"
	"github.com/jhelmig/windfarm-analysis-station/scada"
)

const stationDatabasePath = "data/analysis_station.db"

var stationDB *sql.DB

// InitStationDatabase opens the station database and bootstraps its schema.
func InitStationDatabase() error {
	if err := os.MkdirAll("data", 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var err error
	stationDB, err = sql.Open("sqlite3", stationDatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open station database: %w", err)
	}

	if err := stationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping station database: %w", err)
	}

	if err := createStationSchema(); err != nil {
		return fmt.Errorf("failed to create station schema: %w", err)
	}

	log.Println("Station database initialized successfully")
	return nil
}

func createStationSchema() error {
	var count int
	err := stationDB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='datasets'").Scan(&count)
	if err == nil && count > 0 {
		log.Println("Station database schema already exists")
		return nil
	}

	log.Println("Initializing station database schema...")
	schema := `
		CREATE TABLE datasets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			uploaded_at DATETIME NOT NULL,
			records INTEGER NOT NULL,
			turbines INTEGER NOT NULL,
			has_layout INTEGER NOT NULL DEFAULT 0,
			classified_at DATETIME
		);

		CREATE TABLE results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset_id TEXT NOT NULL,
			station_id TEXT NOT NULL,
			ts DATETIME NOT NULL,
			power_min REAL,
			power_mean REAL,
			wind_speed REAL,
			alarm_time REAL,
			operational_state TEXT NOT NULL,
			state_category TEXT NOT NULL,
			state_subcategory TEXT NOT NULL,
			state_reason TEXT NOT NULL,
			is_producing INTEGER NOT NULL,
			FOREIGN KEY(dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
		);

		CREATE INDEX results_dataset_idx ON results (dataset_id);
		CREATE INDEX results_station_idx ON results (dataset_id, station_id);
		CREATE INDEX results_ts_idx ON results (dataset_id, ts);
	`
	if _, err := stationDB.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	log.Println("Station database schema created successfully")
	return nil
}

// GetStationDatabase returns the station database connection.
func GetStationDatabase() *sql.DB {
	return stationDB
}

// CloseStationDatabase closes the station database connection.
func CloseStationDatabase() error {
	if stationDB != nil {
		return stationDB.Close()
	}
	return nil
}

// DatasetRecord is one row of the dataset registry.
type DatasetRecord struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	Records      int        `json:"records"`
	Turbines     int        `json:"turbines"`
	HasLayout    bool       `json:"has_layout"`
	ClassifiedAt *time.Time `json:"classified_at,omitempty"`
}

func saveDatasetRecord(rec DatasetRecord) error {
	_, err := stationDB.Exec(`
		INSERT INTO datasets (id, name, uploaded_at, records, turbines, has_layout)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.UploadedAt, rec.Records, rec.Turbines, boolToInt(rec.HasLayout))
	return err
}

func updateDatasetLayout(datasetID string, hasLayout bool) error {
	_, err := stationDB.Exec("UPDATE datasets SET has_layout = ? WHERE id = ?", boolToInt(hasLayout), datasetID)
	return err
}

func markDatasetClassified(datasetID string, at time.Time) error {
	_, err := stationDB.Exec("UPDATE datasets SET classified_at = ? WHERE id = ?", at, datasetID)
	return err
}

func getDatasetRecords() ([]DatasetRecord, error) {
	rows, err := stationDB.Query(`
		SELECT id, name, uploaded_at, records, turbines, has_layout, classified_at
		FROM datasets
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DatasetRecord
	for rows.Next() {
		var rec DatasetRecord
		var hasLayout int
		var classifiedAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.UploadedAt, &rec.Records, &rec.Turbines, &hasLayout, &classifiedAt); err != nil {
			return nil, err
		}
		rec.HasLayout = hasLayout != 0
		if classifiedAt.Valid {
			rec.ClassifiedAt = &classifiedAt.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// saveResults replaces the stored classification of a dataset in one
// transaction, keeping re-runs idempotent at the storage level.
func saveResults(datasetID string, ds *scada.Dataset, results []classification.Result) error {
	tx, err := stationDB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM results WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("failed to clear previous results: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO results (
			dataset_id, station_id, ts, power_min, power_mean, wind_speed, alarm_time,
			operational_state, state_category, state_subcategory, state_reason, is_producing
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, obs := range ds.Observations {
		r := results[i]
		_, err := stmt.Exec(
			datasetID, obs.StationID, obs.Timestamp,
			nullableFloat(obs.PowerMin), nullableFloat(obs.PowerMean),
			nullableFloat(obs.WindSpeed), nullableFloat(obs.EffectiveAlarmTime),
			string(r.State), r.Category, string(r.Subcategory), r.Reason, boolToInt(r.IsProducing),
		)
		if err != nil {
			return fmt.Errorf("failed to insert result row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// ResultRow is one stored classification row returned to browsing clients.
type ResultRow struct {
	StationID   string    `json:"station_id"`
	Timestamp   time.Time `json:"timestamp"`
	PowerMin    *float64  `json:"power_min"`
	PowerMean   *float64  `json:"power_mean"`
	WindSpeed   *float64  `json:"wind_speed"`
	AlarmTime   *float64  `json:"alarm_time"`
	State       string    `json:"operational_state"`
	Category    string    `json:"state_category"`
	Subcategory string    `json:"state_subcategory"`
	Reason      string    `json:"state_reason"`
	IsProducing bool      `json:"is_producing"`
}

// ResultQuery narrows and pages a stored-result lookup.
type ResultQuery struct {
	DatasetID string
	StationID string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

func queryResults(q ResultQuery) ([]ResultRow, int, error) {
	where := "dataset_id = ?"
	args := []interface{}{q.DatasetID}
	if q.StationID != "" {
		where += " AND station_id = ?"
		args = append(args, q.StationID)
	}
	if q.From != nil {
		where += " AND ts >= ?"
		args = append(args, *q.From)
	}
	if q.To != nil {
		where += " AND ts <= ?"
		args = append(args, *q.To)
	}

	var total int
	if err := stationDB.QueryRow("SELECT COUNT(*) FROM results WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 100
	}
	if q.Page < 1 {
		q.Page = 1
	}
	offset := (q.Page - 1) * q.PageSize

	query := `
		SELECT station_id, ts, power_min, power_mean, wind_speed, alarm_time,
		       operational_state, state_category, state_subcategory, state_reason, is_producing
		FROM results
		WHERE ` + where + `
		ORDER BY station_id, ts
		LIMIT ? OFFSET ?
	`
	args = append(args, q.PageSize, offset)

	rows, err := stationDB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []ResultRow
	for rows.Next() {
		var row ResultRow
		var powerMin, powerMean, windSpeed, alarmTime sql.NullFloat64
		var isProducing int
		err := rows.Scan(&row.StationID, &row.Timestamp, &powerMin, &powerMean, &windSpeed, &alarmTime,
			&row.State, &row.Category, &row.Subcategory, &row.Reason, &isProducing)
		if err != nil {
			return nil, 0, err
		}
		row.PowerMin = nullFloatPtr(powerMin)
		row.PowerMean = nullFloatPtr(powerMean)
		row.WindSpeed = nullFloatPtr(windSpeed)
		row.AlarmTime = nullFloatPtr(alarmTime)
		row.IsProducing = isProducing != 0
		result = append(result, row)
	}
	return result, total, rows.Err()
}

func storedStateCounts(datasetID string) (map[string]int, error) {
	rows, err := stationDB.Query(`
		SELECT operational_state, COUNT(*)
		FROM results
		WHERE dataset_id = ?
		GROUP BY operational_state
	`, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		counts[state] = count
	}
	return counts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableFloat maps NaN to SQL NULL; sqlite cannot store NaN in a REAL.
func nullableFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
