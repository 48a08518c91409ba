package scada

import "time"

// Column names of the SCADA export contract. The ingest layer validates the
// required set wholesale before anything downstream runs.
const (
	ColStationID           = "StationId"
	ColTimestamp           = "TimeStamp"
	ColEffectiveAlarmTime  = "EffectiveAlarmTime"
	ColAlarmText           = "UK Text"
	ColInternalCurtailment = "Duration 2006(s)"
	ColEnergyAccum         = "wtc_kWG1TotE_accum"
	ColPowerMean           = "wtc_ActPower_mean"
	ColPowerMin            = "wtc_ActPower_min"
	ColPowerMax            = "wtc_ActPower_max"
	ColWindSpeed           = "wtc_AcWindSp_mean"
	ColWindDirection       = "wtc_ActualWindDirection_mean"
	ColExternalCurtailment = "wtc_PowerRed_timeon"

	// MetmastWindPrefix marks the optional per-mast wind speed columns
	// (prefix + numeric mast ID). Direction columns follow the same scheme.
	MetmastWindPrefix      = "met_WindSpeedRot_mean_"
	MetmastDirectionPrefix = "met_WinddirectionRot_mean_"
)

// RequiredColumns lists the columns every SCADA export must carry.
var RequiredColumns = []string{
	ColStationID,
	ColTimestamp,
	ColEffectiveAlarmTime,
	ColAlarmText,
	ColInternalCurtailment,
	ColEnergyAccum,
	ColPowerMean,
	ColPowerMin,
	ColPowerMax,
	ColWindSpeed,
	ColWindDirection,
	ColExternalCurtailment,
}

// Observation is one turbine-timestamp record. Numeric fields use NaN for
// missing or unparseable values; downstream classification treats NaN as a
// first-class branch, never an error.
type Observation struct {
	StationID           string             `json:"station_id"`
	Timestamp           time.Time          `json:"timestamp"`
	EffectiveAlarmTime  float64            `json:"effective_alarm_time"`
	AlarmText           string             `json:"alarm_text"`
	InternalCurtailment float64            `json:"internal_curtailment"`
	ExternalCurtailment float64            `json:"external_curtailment"`
	EnergyAccum         float64            `json:"energy_accum"`
	PowerMean           float64            `json:"power_mean"`
	PowerMin            float64            `json:"power_min"`
	PowerMax            float64            `json:"power_max"`
	WindSpeed           float64            `json:"wind_speed"`
	WindDirection       float64            `json:"wind_direction"`
	Metmast             map[string]float64 `json:"metmast,omitempty"`
}

// LayoutEntry is one turbine position in the farm layout file.
type LayoutEntry struct {
	StationID string  `json:"station_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Summary describes a loaded dataset at a glance.
type Summary struct {
	TotalRecords    int       `json:"total_records"`
	UniqueTurbines  int       `json:"unique_turbines"`
	TimeRangeStart  time.Time `json:"time_range_start"`
	TimeRangeEnd    time.Time `json:"time_range_end"`
	MetmastColumns  []string  `json:"metmast_columns"`
	LayoutAvailable bool      `json:"layout_available"`
}
