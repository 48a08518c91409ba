package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

func TestCalculateTurbineStatistics(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: base, WindSpeed: 4.0, PowerMean: 100, PowerMin: 50, PowerMax: 200},
		{StationID: "WTG01", Timestamp: base.Add(10 * time.Minute), WindSpeed: 6.0, PowerMean: 300, PowerMin: 150, PowerMax: 500},
		{StationID: "WTG01", Timestamp: base.Add(20 * time.Minute), WindSpeed: 8.0, PowerMean: 500, PowerMin: 250, PowerMax: 800},
	}
	ds := scada.NewDataset(observations, nil)

	stats := CalculateTurbineStatistics(ds)
	require.Contains(t, stats, "WTG01")

	wind := stats["WTG01"].WindSpeedStats
	require.NotNil(t, wind)
	assert.Equal(t, 3, wind.Count)
	assert.InDelta(t, 6.0, wind.Mean, 1e-9)
	assert.InDelta(t, 6.0, wind.Median, 1e-9)
	assert.InDelta(t, 4.0, wind.Min, 1e-9)
	assert.InDelta(t, 8.0, wind.Max, 1e-9)
	assert.InDelta(t, 4.0, wind.Range, 1e-9)
	assert.InDelta(t, 8.0/3.0, wind.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(8.0/3.0), wind.StdDev, 1e-9)
}

func TestCalculateTurbineStatisticsSkipsNaN(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: base, WindSpeed: 5.0, PowerMean: math.NaN(), PowerMin: math.NaN(), PowerMax: math.NaN()},
		{StationID: "WTG01", Timestamp: base.Add(10 * time.Minute), WindSpeed: math.NaN(), PowerMean: math.NaN(), PowerMin: math.NaN(), PowerMax: math.NaN()},
	}
	ds := scada.NewDataset(observations, nil)

	stats := CalculateTurbineStatistics(ds)
	wind := stats["WTG01"].WindSpeedStats
	require.NotNil(t, wind)
	assert.Equal(t, 1, wind.Count)

	// All-NaN series yield no statistics at all.
	assert.Nil(t, stats["WTG01"].PowerMeanStats)
}

func TestCalculateDataStatisticsMedianEven(t *testing.T) {
	stats := calculateDataStatistics([]float64{4, 1, 3, 2})
	require.NotNil(t, stats)
	assert.InDelta(t, 2.5, stats.Median, 1e-9)
}

func TestCalculateDataStatisticsEmpty(t *testing.T) {
	assert.Nil(t, calculateDataStatistics(nil))
}
