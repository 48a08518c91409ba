package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhelmig/windfarm-analysis-station/classification"
	"github.com/jhelmig/windfarm-analysis-station/scada"
)

func classifiedFixture() (*scada.Dataset, []classification.Result) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: base, PowerMin: 150, PowerMean: 400, WindSpeed: 7.0},
		{StationID: "WTG01", Timestamp: base.Add(10 * time.Minute), PowerMin: 160, PowerMean: 420, WindSpeed: 7.1},
		{StationID: "WTG01", Timestamp: base.Add(20 * time.Minute), PowerMin: 0, PowerMean: 0, WindSpeed: 2.0, EffectiveAlarmTime: 300, AlarmText: "Grid fault"},
		{StationID: "WTG01", Timestamp: base.Add(30 * time.Minute), PowerMin: 0, PowerMean: 0, WindSpeed: 6.8},
		{StationID: "WTG02", Timestamp: base, PowerMin: 0, PowerMean: 0, WindSpeed: 2.0},
	}
	ds := scada.NewDataset(observations, nil)
	classifier := classification.NewClassifier(classification.DefaultConfig())
	return ds, classifier.Classify(ds)
}

func TestCalculateAvailability(t *testing.T) {
	ds, results := classifiedFixture()

	metrics := CalculateAvailability(ds, results, "WTG01")
	require.Equal(t, 4, metrics.TotalRecords)

	// Two producing rows plus one alarm row are "available"; percentages sum
	// over the state families.
	assert.InDelta(t, 50.0, metrics.ProducingPct, 1e-9)
	assert.InDelta(t, metrics.ProducingPct+metrics.ExplainedStopPct, metrics.AvailabilityPct, 1e-9)
	assert.InDelta(t, metrics.VerificationPendingPct+metrics.UnexpectedStopPct, metrics.UnexplainedLossPct, 1e-9)
	assert.InDelta(t, 100.0,
		metrics.ProducingPct+metrics.ExplainedStopPct+metrics.VerificationPendingPct+
			metrics.UnexpectedStopPct+metrics.DataMissingPct, 1e-9)
}

func TestCalculateAvailabilityEmptySelection(t *testing.T) {
	ds, results := classifiedFixture()
	metrics := CalculateAvailability(ds, results, "WTG77")
	assert.Zero(t, metrics.TotalRecords)
	assert.Zero(t, metrics.AvailabilityPct)
}

func TestGenerateTurbineReport(t *testing.T) {
	ds, results := classifiedFixture()

	report := GenerateTurbineReport(ds, results, "WTG01")
	assert.Equal(t, "WTG01", report.StationID)
	assert.Equal(t, 4, report.TotalRecords)
	assert.Equal(t, 1, report.Alarms.AlarmRecords)
	assert.InDelta(t, 300.0/3600, report.Alarms.AlarmTimeHours, 1e-9)
	assert.Equal(t, 2, report.Production.ProducingRecords)
	assert.InDelta(t, 410.0, report.Production.AvgPowerWhenProducing, 1e-9)
	assert.False(t, report.Latest.IsProducing)
	assert.Equal(t, report.TimeEnd, report.Latest.Timestamp)
}

func TestGenerateTurbineReportUnknownTurbine(t *testing.T) {
	ds, results := classifiedFixture()
	report := GenerateTurbineReport(ds, results, "WTG77")
	assert.Zero(t, report.TotalRecords)
	assert.Empty(t, report.StateCounts)
}

func TestFleetSummary(t *testing.T) {
	ds, results := classifiedFixture()

	rows := FleetSummary(ds, results)
	require.Len(t, rows, 2)
	assert.Equal(t, "WTG01", rows[0].StationID)
	assert.Equal(t, 4, rows[0].TotalRecords)
	assert.Equal(t, "WTG02", rows[1].StationID)
	assert.Equal(t, 1, rows[1].TotalRecords)
}
