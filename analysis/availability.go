package analysis

import (
	"math"
	"time"

	"github.com/jhelmig/windfarm-analysis-station/classification"
	"github.com/jhelmig/windfarm-analysis-station/scada"
)

// AvailabilityMetrics breaks classified records down by state family, as
// percentages of the record count. Availability counts producing plus
// explained stops; unexplained loss counts verification-pending plus
// unexpected stops.
type AvailabilityMetrics struct {
	TotalRecords           int     `json:"total_records"`
	ProducingPct           float64 `json:"producing_pct"`
	ExplainedStopPct       float64 `json:"explained_stop_pct"`
	VerificationPendingPct float64 `json:"verification_pending_pct"`
	UnexpectedStopPct      float64 `json:"unexpected_stop_pct"`
	DataMissingPct         float64 `json:"data_missing_pct"`
	AvailabilityPct        float64 `json:"availability_pct"`
	UnexplainedLossPct     float64 `json:"unexplained_loss_pct"`
}

// CalculateAvailability computes availability metrics over the classified
// dataset, optionally restricted to one turbine (empty stationID means all).
func CalculateAvailability(ds *scada.Dataset, results []classification.Result, stationID string) AvailabilityMetrics {
	var counts [5]int
	total := 0
	for i, obs := range ds.Observations {
		if stationID != "" && obs.StationID != stationID {
			continue
		}
		total++
		switch results[i].State {
		case classification.StateProducing:
			counts[0]++
		case classification.StateExplained:
			counts[1]++
		case classification.StateVerificationPending:
			counts[2]++
		case classification.StateUnexpected:
			counts[3]++
		case classification.StateDataMissing:
			counts[4]++
		}
	}

	if total == 0 {
		return AvailabilityMetrics{}
	}

	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }
	return AvailabilityMetrics{
		TotalRecords:           total,
		ProducingPct:           pct(counts[0]),
		ExplainedStopPct:       pct(counts[1]),
		VerificationPendingPct: pct(counts[2]),
		UnexpectedStopPct:      pct(counts[3]),
		DataMissingPct:         pct(counts[4]),
		AvailabilityPct:        pct(counts[0] + counts[1]),
		UnexplainedLossPct:     pct(counts[2] + counts[3]),
	}
}

// TurbineReport is the investigation-panel summary for one turbine.
type TurbineReport struct {
	StationID    string              `json:"station_id"`
	TotalRecords int                 `json:"total_records"`
	TimeStart    time.Time           `json:"time_start"`
	TimeEnd      time.Time           `json:"time_end"`
	Latest       LatestStatus        `json:"latest_status"`
	Availability AvailabilityMetrics `json:"availability_metrics"`
	Alarms       AlarmAnalysis       `json:"alarm_analysis"`
	Curtailment  CurtailmentAnalysis `json:"curtailment_analysis"`
	Production   ProductionAnalysis  `json:"production_analysis"`
	AvgWindSpeed float64             `json:"avg_wind_speed"`
	StateCounts  map[string]int      `json:"state_distribution"`
}

// LatestStatus is the turbine's most recent classified record.
type LatestStatus struct {
	Timestamp   time.Time `json:"timestamp"`
	State       string    `json:"operational_state"`
	Category    string    `json:"state_category"`
	PowerOutput float64   `json:"power_output"`
	WindSpeed   float64   `json:"wind_speed"`
	IsProducing bool      `json:"is_producing"`
}

// AlarmAnalysis aggregates the turbine's alarm activity.
type AlarmAnalysis struct {
	AlarmRecords   int     `json:"total_alarm_records"`
	AlarmTimeHours float64 `json:"total_alarm_time_hours"`
	AlarmPct       float64 `json:"alarm_percentage"`
}

// CurtailmentAnalysis aggregates external and internal curtailment hours.
type CurtailmentAnalysis struct {
	ExternalHours float64 `json:"external_curtailment_hours"`
	InternalHours float64 `json:"internal_curtailment_hours"`
	TotalHours    float64 `json:"total_curtailment_hours"`
}

// ProductionAnalysis aggregates producing records and typical output.
type ProductionAnalysis struct {
	ProducingRecords      int     `json:"producing_records"`
	ProductionPct         float64 `json:"production_percentage"`
	AvgPowerWhenProducing float64 `json:"avg_power_when_producing"`
}

// GenerateTurbineReport builds the full per-turbine report from a classified
// dataset. Returns a zero report when the turbine has no records.
func GenerateTurbineReport(ds *scada.Dataset, results []classification.Result, stationID string) TurbineReport {
	indices := ds.StationIndices(stationID)
	report := TurbineReport{
		StationID:   stationID,
		StateCounts: make(map[string]int),
	}
	if len(indices) == 0 {
		return report
	}

	report.TotalRecords = len(indices)
	report.TimeStart = ds.Observations[indices[0]].Timestamp
	report.TimeEnd = ds.Observations[indices[len(indices)-1]].Timestamp
	report.Availability = CalculateAvailability(ds, results, stationID)

	var alarmTime, extCurtailment, intCurtailment float64
	var windSum float64
	windCount := 0
	var producingPowerSum float64
	producingCount := 0

	for _, idx := range indices {
		obs := &ds.Observations[idx]
		r := results[idx]
		report.StateCounts[string(r.State)]++

		if obs.EffectiveAlarmTime > 0 {
			report.Alarms.AlarmRecords++
		}
		alarmTime += zeroNaN(obs.EffectiveAlarmTime)
		extCurtailment += zeroNaN(obs.ExternalCurtailment)
		intCurtailment += zeroNaN(obs.InternalCurtailment)

		if !math.IsNaN(obs.WindSpeed) {
			windSum += obs.WindSpeed
			windCount++
		}
		if r.IsProducing {
			producingCount++
			if !math.IsNaN(obs.PowerMean) {
				producingPowerSum += obs.PowerMean
			}
		}
	}

	report.Alarms.AlarmTimeHours = alarmTime / 3600
	report.Alarms.AlarmPct = float64(report.Alarms.AlarmRecords) / float64(len(indices)) * 100
	report.Curtailment = CurtailmentAnalysis{
		ExternalHours: extCurtailment / 3600,
		InternalHours: intCurtailment / 3600,
		TotalHours:    (extCurtailment + intCurtailment) / 3600,
	}
	report.Production.ProducingRecords = producingCount
	report.Production.ProductionPct = float64(producingCount) / float64(len(indices)) * 100
	if producingCount > 0 {
		report.Production.AvgPowerWhenProducing = producingPowerSum / float64(producingCount)
	}
	if windCount > 0 {
		report.AvgWindSpeed = windSum / float64(windCount)
	}

	latestIdx := indices[len(indices)-1]
	latest := &ds.Observations[latestIdx]
	report.Latest = LatestStatus{
		Timestamp:   latest.Timestamp,
		State:       string(results[latestIdx].State),
		Category:    results[latestIdx].Category,
		PowerOutput: zeroNaN(latest.PowerMean),
		WindSpeed:   zeroNaN(latest.WindSpeed),
		IsProducing: results[latestIdx].IsProducing,
	}

	return report
}

// FleetSummaryRow is one turbine's line in the fleet overview table.
type FleetSummaryRow struct {
	StationID          string    `json:"station_id"`
	CurrentState       string    `json:"current_state"`
	CurrentPowerKW     float64   `json:"current_power_kw"`
	CurrentWindMS      float64   `json:"current_wind_ms"`
	AvailabilityPct    float64   `json:"availability_pct"`
	ProducingPct       float64   `json:"producing_pct"`
	UnexplainedLossPct float64   `json:"unexplained_loss_pct"`
	TotalRecords       int       `json:"total_records"`
	LastUpdate         time.Time `json:"last_update"`
}

// FleetSummary builds the one-row-per-turbine overview of a classified
// dataset.
func FleetSummary(ds *scada.Dataset, results []classification.Result) []FleetSummaryRow {
	summary := make([]FleetSummaryRow, 0, len(ds.Turbines()))
	for _, stationID := range ds.Turbines() {
		indices := ds.StationIndices(stationID)
		if len(indices) == 0 {
			continue
		}
		latestIdx := indices[len(indices)-1]
		latest := &ds.Observations[latestIdx]
		availability := CalculateAvailability(ds, results, stationID)

		summary = append(summary, FleetSummaryRow{
			StationID:          stationID,
			CurrentState:       results[latestIdx].Category,
			CurrentPowerKW:     zeroNaN(latest.PowerMean),
			CurrentWindMS:      zeroNaN(latest.WindSpeed),
			AvailabilityPct:    availability.AvailabilityPct,
			ProducingPct:       availability.ProducingPct,
			UnexplainedLossPct: availability.UnexplainedLossPct,
			TotalRecords:       len(indices),
			LastUpdate:         latest.Timestamp,
		})
	}
	return summary
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
