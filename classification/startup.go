package classification

import (
	"fmt"
	"math"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

// StartupTrigger names the event a startup sequence is recovering from.
type StartupTrigger string

const (
	StartupNone        StartupTrigger = ""
	StartupPostLowWind StartupTrigger = "POST_LOW_WIND"
	StartupPostAlarm   StartupTrigger = "POST_ALARM"
)

// StartupCheck is the detector's verdict for one record.
type StartupCheck struct {
	Trigger StartupTrigger
	Reason  string
}

// IsStartup reports whether a startup sequence was detected.
func (s StartupCheck) IsStartup() bool {
	return s.Trigger != StartupNone
}

// DetectStartup inspects a turbine's trailing lookback window for a low-wind
// or alarm event the turbine could still be recovering from. history must be
// the turbine's own observations sorted ascending by time, and position the
// current record's index within it; only earlier rows are consulted. An empty
// window is simply not a startup. Post-low-wind takes precedence when both
// triggers hold.
func DetectStartup(history []scada.Observation, position int, cfg Config) StartupCheck {
	if position <= 0 || position >= len(history) {
		return StartupCheck{}
	}

	current := history[position].Timestamp
	windowStart := current.Add(-cfg.StartupLookback)

	var lastLowWind, lastAlarm *scada.Observation
	for i := position - 1; i >= 0; i-- {
		obs := &history[i]
		if obs.Timestamp.Before(windowStart) || !obs.Timestamp.Before(current) {
			if obs.Timestamp.Before(windowStart) {
				break
			}
			continue
		}
		if lastLowWind == nil && !math.IsNaN(obs.WindSpeed) && obs.WindSpeed < cfg.CutInWindSpeed {
			lastLowWind = obs
		}
		if lastAlarm == nil && obs.EffectiveAlarmTime > cfg.AlarmThresholdSeconds {
			lastAlarm = obs
		}
		if lastLowWind != nil && lastAlarm != nil {
			break
		}
	}

	if lastLowWind != nil {
		elapsed := current.Sub(lastLowWind.Timestamp)
		if elapsed <= cfg.PostLowWindWindow {
			return StartupCheck{
				Trigger: StartupPostLowWind,
				Reason:  fmt.Sprintf("Startup: %.0f min after low wind", elapsed.Minutes()),
			}
		}
	}
	if lastAlarm != nil {
		elapsed := current.Sub(lastAlarm.Timestamp)
		if elapsed <= cfg.PostAlarmWindow {
			return StartupCheck{
				Trigger: StartupPostAlarm,
				Reason:  fmt.Sprintf("Startup: %.0f min after alarm", elapsed.Minutes()),
			}
		}
	}
	return StartupCheck{}
}
