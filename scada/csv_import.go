package scada

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted in SCADA exports, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02.01.2006 15:04:05",
	"2006-01-02 15:04",
}

// ParseDataset reads a SCADA CSV export into a Dataset. A missing required
// column rejects the whole file; unparseable numeric values coerce to NaN so
// that classification can handle them per row.
func ParseDataset(reader io.Reader) (*Dataset, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := colIndex[name]; !ok {
			colIndex[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	metmastCols := discoverMetmastColumns(header)

	var observations []Observation
	line := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record at line %d: %w", line+1, err)
		}
		line++

		if len(record) < len(header) {
			// Short rows cannot be mapped to the header, skip them.
			continue
		}

		stationID := strings.TrimSpace(record[colIndex[ColStationID]])
		if stationID == "" {
			continue
		}

		timestamp, err := parseTimestamp(record[colIndex[ColTimestamp]])
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp at line %d: %w", line, err)
		}

		obs := Observation{
			StationID:           stationID,
			Timestamp:           timestamp,
			EffectiveAlarmTime:  coerceFloat(record[colIndex[ColEffectiveAlarmTime]]),
			AlarmText:           strings.TrimSpace(record[colIndex[ColAlarmText]]),
			InternalCurtailment: coerceFloat(record[colIndex[ColInternalCurtailment]]),
			ExternalCurtailment: coerceFloat(record[colIndex[ColExternalCurtailment]]),
			EnergyAccum:         coerceFloat(record[colIndex[ColEnergyAccum]]),
			PowerMean:           coerceFloat(record[colIndex[ColPowerMean]]),
			PowerMin:            coerceFloat(record[colIndex[ColPowerMin]]),
			PowerMax:            coerceFloat(record[colIndex[ColPowerMax]]),
			WindSpeed:           coerceFloat(record[colIndex[ColWindSpeed]]),
			WindDirection:       coerceFloat(record[colIndex[ColWindDirection]]),
		}

		if len(metmastCols) > 0 {
			obs.Metmast = make(map[string]float64, len(metmastCols))
			for _, col := range metmastCols {
				obs.Metmast[col] = coerceFloat(record[colIndex[col]])
			}
		}

		observations = append(observations, obs)
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("no valid SCADA records found")
	}

	return NewDataset(observations, metmastCols), nil
}

// ParseLayout reads a farm layout CSV (StationId, X-Coordinate, Y-Coordinate).
func ParseLayout(reader io.Reader) ([]LayoutEntry, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read layout header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	required := []string{"StationId", "X-Coordinate", "Y-Coordinate"}
	var missing []string
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required layout columns: %s", strings.Join(missing, ", "))
	}

	var entries []LayoutEntry
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read layout record: %w", err)
		}
		if len(record) < len(header) {
			continue
		}

		stationID := strings.TrimSpace(record[colIndex["StationId"]])
		if stationID == "" {
			continue
		}

		x := coerceFloat(record[colIndex["X-Coordinate"]])
		y := coerceFloat(record[colIndex["Y-Coordinate"]])
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}

		entries = append(entries, LayoutEntry{StationID: stationID, X: x, Y: y})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid layout entries found")
	}

	return entries, nil
}

// discoverMetmastColumns returns the metmast wind speed columns present in a
// header, in header order.
func discoverMetmastColumns(header []string) []string {
	var cols []string
	for _, name := range header {
		if strings.HasPrefix(name, MetmastWindPrefix) {
			cols = append(cols, name)
		}
	}
	return cols
}

// coerceFloat parses a numeric cell, mapping empty and unparseable values to
// NaN rather than failing the load.
func coerceFloat(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") || strings.EqualFold(value, "null") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
