package classification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

func startupHistory(base time.Time, step time.Duration, winds []float64, alarms []float64) []scada.Observation {
	history := make([]scada.Observation, len(winds))
	for i := range winds {
		history[i] = scada.Observation{
			StationID:          "WTG01",
			Timestamp:          base.Add(time.Duration(i) * step),
			WindSpeed:          winds[i],
			EffectiveAlarmTime: alarms[i],
		}
	}
	return history
}

func TestDetectStartupPostLowWindAtWindowEdge(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	// Low wind exactly 20 minutes before the current record.
	history := startupHistory(base, 10*time.Minute,
		[]float64{2.0, 6.0, 6.0},
		[]float64{0, 0, 0})

	check := DetectStartup(history, 2, DefaultConfig())
	assert.Equal(t, StartupPostLowWind, check.Trigger)
	assert.Contains(t, check.Reason, "20 min after low wind")
}

func TestDetectStartupPostLowWindExpired(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	// Low wind 21 minutes back: outside the 20 minute window.
	history := []scada.Observation{
		{StationID: "WTG01", Timestamp: base, WindSpeed: 2.0},
		{StationID: "WTG01", Timestamp: base.Add(21 * time.Minute), WindSpeed: 6.0},
	}

	check := DetectStartup(history, 1, DefaultConfig())
	assert.False(t, check.IsStartup())
}

func TestDetectStartupPostAlarm(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	history := startupHistory(base, 10*time.Minute,
		[]float64{6.0, 6.0},
		[]float64{300, 0})

	check := DetectStartup(history, 1, DefaultConfig())
	assert.Equal(t, StartupPostAlarm, check.Trigger)
	assert.Contains(t, check.Reason, "10 min after alarm")
}

func TestDetectStartupPostAlarmExpired(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	history := []scada.Observation{
		{StationID: "WTG01", Timestamp: base, WindSpeed: 6.0, EffectiveAlarmTime: 300},
		{StationID: "WTG01", Timestamp: base.Add(16 * time.Minute), WindSpeed: 6.0},
	}

	check := DetectStartup(history, 1, DefaultConfig())
	assert.False(t, check.IsStartup())
}

func TestDetectStartupLowWindPrecedesAlarm(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	// Both triggers inside their windows; low wind wins.
	history := startupHistory(base, 10*time.Minute,
		[]float64{2.0, 6.0},
		[]float64{300, 0})

	check := DetectStartup(history, 1, DefaultConfig())
	assert.Equal(t, StartupPostLowWind, check.Trigger)
}

func TestDetectStartupIgnoresRowsBeyondLookback(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	// Low wind 40 minutes back: outside the 30 minute lookback entirely.
	history := []scada.Observation{
		{StationID: "WTG01", Timestamp: base, WindSpeed: 2.0},
		{StationID: "WTG01", Timestamp: base.Add(40 * time.Minute), WindSpeed: 6.0},
	}

	check := DetectStartup(history, 1, DefaultConfig())
	assert.False(t, check.IsStartup())
}

func TestDetectStartupEmptyWindow(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	history := []scada.Observation{
		{StationID: "WTG01", Timestamp: base, WindSpeed: 6.0},
	}

	// First record of a turbine has no lookback window.
	assert.False(t, DetectStartup(history, 0, DefaultConfig()).IsStartup())
}
