package analysis

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jhelmig/windfarm-analysis-station/classification"
	"github.com/jhelmig/windfarm-analysis-station/scada"
)

var exportHeader = []string{
	"StationId", "TimeStamp", "PowerMin_kW", "PowerMean_kW", "PowerMax_kW",
	"WindSpeed_ms", "WindDirection_deg", "AlarmTime_s", "AlarmText",
	"ExternalCurtailment_s", "InternalCurtailment_s",
	"OperationalState", "StateCategory", "StateSubcategory", "StateReason", "IsProducing",
}

// ExportXLSX writes the classified dataset into an XLSX workbook: one data
// sheet plus a state summary sheet. stationID filters to one turbine when
// non-empty.
func ExportXLSX(ds *scada.Dataset, results []classification.Result, stationID string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const dataSheet = "Classified Data"
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("failed to rename data sheet: %w", err)
	}

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(dataSheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	rowNum := 2
	for i, obs := range ds.Observations {
		if stationID != "" && obs.StationID != stationID {
			continue
		}
		values := exportRowValues(&obs, results[i])
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("failed to address data cell: %w", err)
			}
			if err := f.SetCellValue(dataSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write data cell: %w", err)
			}
		}
		rowNum++
	}

	const summarySheet = "State Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := f.SetCellValue(summarySheet, "A1", "OperationalState"); err != nil {
		return nil, fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := f.SetCellValue(summarySheet, "B1", "Records"); err != nil {
		return nil, fmt.Errorf("failed to write summary header: %w", err)
	}

	row := 2
	for _, entry := range summaryCounts(ds, results, stationID) {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), entry.state); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), entry.count); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ExportCSVZip writes the classified dataset into a ZIP holding a data CSV
// and a state summary CSV.
func ExportCSVZip(ds *scada.Dataset, results []classification.Result, stationID string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	dataFile, err := w.Create("classified_data.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create data CSV in zip: %w", err)
	}
	dataWriter := csv.NewWriter(dataFile)
	if err := dataWriter.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write data CSV header: %w", err)
	}
	for i, obs := range ds.Observations {
		if stationID != "" && obs.StationID != stationID {
			continue
		}
		record := make([]string, 0, len(exportHeader))
		for _, value := range exportRowValues(&obs, results[i]) {
			record = append(record, formatExportValue(value))
		}
		if err := dataWriter.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write data CSV row: %w", err)
		}
	}
	dataWriter.Flush()
	if err := dataWriter.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush data CSV: %w", err)
	}

	summaryFile, err := w.Create("state_summary.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create summary CSV in zip: %w", err)
	}
	summaryWriter := csv.NewWriter(summaryFile)
	if err := summaryWriter.Write([]string{"OperationalState", "Records"}); err != nil {
		return nil, fmt.Errorf("failed to write summary CSV header: %w", err)
	}
	for _, entry := range summaryCounts(ds, results, stationID) {
		if err := summaryWriter.Write([]string{entry.state, strconv.Itoa(entry.count)}); err != nil {
			return nil, fmt.Errorf("failed to write summary CSV row: %w", err)
		}
	}
	summaryWriter.Flush()
	if err := summaryWriter.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush summary CSV: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zip writer: %w", err)
	}
	return buf, nil
}

func exportRowValues(obs *scada.Observation, r classification.Result) []interface{} {
	return []interface{}{
		obs.StationID,
		obs.Timestamp.Format("2006-01-02 15:04:05"),
		obs.PowerMin,
		obs.PowerMean,
		obs.PowerMax,
		obs.WindSpeed,
		obs.WindDirection,
		obs.EffectiveAlarmTime,
		obs.AlarmText,
		obs.ExternalCurtailment,
		obs.InternalCurtailment,
		string(r.State),
		r.Category,
		r.SubcategoryLabel,
		r.Reason,
		r.IsProducing,
	}
}

func formatExportValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

type stateCount struct {
	state string
	count int
}

func summaryCounts(ds *scada.Dataset, results []classification.Result, stationID string) []stateCount {
	counts := make(map[string]int)
	for i, obs := range ds.Observations {
		if stationID != "" && obs.StationID != stationID {
			continue
		}
		counts[string(results[i].State)]++
	}

	entries := make([]stateCount, 0, len(counts))
	for state, count := range counts {
		entries = append(entries, stateCount{state: state, count: count})
	}
	sort.Slice(entries, func(a, b int) bool {
		return classification.State(entries[a].state).Meta().Code < classification.State(entries[b].state).Meta().Code
	})
	return entries
}
