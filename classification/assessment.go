package classification

import (
	"fmt"
	"math"
)

// Assessment is the sensor/wind assessor's verdict for one record. When
// SensorError is set, Wind was decided from the references alone; the
// turbine's own reading is considered untrustworthy.
type Assessment struct {
	SensorError bool          `json:"sensor_error"`
	ErrorType   Subcategory   `json:"error_type,omitempty"`
	Wind        WindCondition `json:"wind_condition"`
	Reason      string        `json:"reason"`
}

// AssessWind compares a turbine's own wind reading against the aggregated
// reference. Sensor-error detection strictly precedes the wind-sufficiency
// decision. Every branch produces a reason a human auditor can follow.
func AssessWind(turbineWind float64, ref ReferenceSample, cfg Config) Assessment {
	if math.IsNaN(turbineWind) {
		return assessMissingReading(ref, cfg)
	}

	if ref.Count > 0 {
		deviation := math.Abs(turbineWind - ref.Mean)
		if deviation > cfg.WindSpeedDeviationThresh {
			return assessDeviatingSensor(turbineWind, ref, cfg)
		}
		return assessConsistentSensor(turbineWind, ref, cfg)
	}

	// No references at all: trust the turbine reading, but only tentatively.
	if turbineWind < cfg.CutInWindSpeed {
		return Assessment{
			Wind: WindSuspectedLow,
			Reason: fmt.Sprintf("Suspected low wind on turbine sensor (%.1f m/s). No references to verify sensor or confirm wind.",
				turbineWind),
		}
	}
	return Assessment{
		Wind: WindSufficientSuspected,
		Reason: fmt.Sprintf("Suspected sufficient wind on turbine sensor (%.1f m/s). No references to verify sensor or confirm wind.",
			turbineWind),
	}
}

// assessMissingReading covers a NaN turbine reading: always a sensor anomaly;
// the wind condition comes from the references when any exist.
func assessMissingReading(ref ReferenceSample, cfg Config) Assessment {
	const base = "Sensor error: Turbine wind speed data missing/invalid (NaN)."

	if ref.Count == 0 {
		return Assessment{
			SensorError: true,
			ErrorType:   SubSensorErrorAnomalous,
			Wind:        WindSufficientSuspected,
			Reason:      base + " No references available to determine wind conditions.",
		}
	}
	if ref.Mean < cfg.CutInWindSpeed {
		return Assessment{
			SensorError: true,
			ErrorType:   SubSensorErrorAnomalous,
			Wind:        WindConfirmedLow,
			Reason:      fmt.Sprintf("%s Refs (%.1f m/s, %d refs) indicate low wind.", base, ref.Mean, ref.Count),
		}
	}
	return Assessment{
		SensorError: true,
		ErrorType:   SubSensorErrorAnomalous,
		Wind:        WindSufficientConfirmed,
		Reason:      fmt.Sprintf("%s Refs (%.1f m/s, %d refs) indicate sufficient wind.", base, ref.Mean, ref.Count),
	}
}

// assessDeviatingSensor covers |turbine - ref| above the deviation threshold.
// The error subtype depends on which side the turbine reads; the wind
// condition follows the references only.
func assessDeviatingSensor(turbineWind float64, ref ReferenceSample, cfg Config) Assessment {
	assessment := Assessment{SensorError: true}

	var deviationReason string
	if turbineWind < ref.Mean-cfg.WindSpeedDeviationThresh {
		assessment.ErrorType = SubSensorErrorLow
		deviationReason = fmt.Sprintf("Sensor error (low): Turbine %.1f vs Refs %.1f (%d refs).",
			turbineWind, ref.Mean, ref.Count)
	} else {
		assessment.ErrorType = SubSensorErrorAnomalous
		deviationReason = fmt.Sprintf("Sensor error (anom): Turbine %.1f vs Refs %.1f (%d refs).",
			turbineWind, ref.Mean, ref.Count)
	}

	if ref.Mean < cfg.CutInWindSpeed {
		assessment.Wind = WindConfirmedLow
		assessment.Reason = deviationReason + " Refs indicate low wind; turbine sensor unreliable."
	} else {
		assessment.Wind = WindSufficientConfirmed
		assessment.Reason = deviationReason + " Refs indicate sufficient wind; turbine sensor unreliable."
	}
	return assessment
}

// assessConsistentSensor covers a turbine reading within tolerance of the
// references: no sensor error, wind condition from both readings.
func assessConsistentSensor(turbineWind float64, ref ReferenceSample, cfg Config) Assessment {
	turbineLow := turbineWind < cfg.CutInWindSpeed
	refLow := ref.Mean < cfg.CutInWindSpeed

	switch {
	case turbineLow && refLow:
		return Assessment{
			Wind: WindConfirmedLow,
			Reason: fmt.Sprintf("Low wind: Turbine %.1f, Refs %.1f (%d refs). Sensor consistent.",
				turbineWind, ref.Mean, ref.Count),
		}
	case turbineLow && !refLow:
		return Assessment{
			Wind: WindSuspectedLow,
			Reason: fmt.Sprintf("Turbine low (%.1f), refs higher (%.1f, %d refs). Sensor reads low, refs higher (in tolerance).",
				turbineWind, ref.Mean, ref.Count),
		}
	case !turbineLow && !refLow:
		return Assessment{
			Wind: WindSufficientConfirmed,
			Reason: fmt.Sprintf("Sufficient wind: Turbine %.1f, Refs %.1f (%d refs). Sensor consistent.",
				turbineWind, ref.Mean, ref.Count),
		}
	default:
		// Turbine sufficient, refs low: within tolerance the turbine's own
		// reading wins.
		return Assessment{
			Wind: WindSufficientConfirmed,
			Reason: fmt.Sprintf("Turbine sufficient (%.1f), refs lower (%.1f, %d refs). Sensor reads sufficient, refs lower (in tolerance).",
				turbineWind, ref.Mean, ref.Count),
		}
	}
}
