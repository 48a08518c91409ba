package classification

import "time"

// Config carries the classification thresholds. Zero values are meaningful
// (a production threshold of 0 kW means any positive minimum power counts as
// producing), so callers should start from DefaultConfig and override.
type Config struct {
	ProductionThresholdKW      float64 `json:"production_threshold_kw"`
	CutInWindSpeed             float64 `json:"cut_in_wind_speed"`
	AlarmThresholdSeconds      float64 `json:"alarm_threshold_seconds"`
	CurtailmentThresholdSecs   float64 `json:"curtailment_threshold_seconds"`
	WindSpeedDeviationThresh   float64 `json:"wind_speed_deviation_threshold"`
	MaxAdjacentTurbines        int     `json:"max_adjacent_turbines"`
	AdjacencyDistanceThreshold float64 `json:"adjacency_distance_threshold"`

	StartupLookback   time.Duration `json:"-"`
	PostLowWindWindow time.Duration `json:"-"`
	PostAlarmWindow   time.Duration `json:"-"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		ProductionThresholdKW:      0,
		CutInWindSpeed:             4.0,
		AlarmThresholdSeconds:      0,
		CurtailmentThresholdSecs:   0,
		WindSpeedDeviationThresh:   2.0,
		MaxAdjacentTurbines:        5,
		AdjacencyDistanceThreshold: 300.0,
		StartupLookback:            30 * time.Minute,
		PostLowWindWindow:          20 * time.Minute,
		PostAlarmWindow:            15 * time.Minute,
	}
}
