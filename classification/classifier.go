package classification

import (
	"fmt"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

// Result is the classification attached to one observation. It never mutates
// the raw sensor fields; presentation layers zip it back onto the input row.
type Result struct {
	State            State       `json:"operational_state"`
	Category         string      `json:"state_category"`
	Subcategory      Subcategory `json:"state_subcategory"`
	SubcategoryLabel string      `json:"state_subcategory_label"`
	Reason           string      `json:"state_reason"`
	IsProducing      bool        `json:"is_producing"`
}

// ProgressFunc receives (records classified so far, total records). Called
// from the classifying goroutine; implementations must be fast.
type ProgressFunc func(done, total int)

// Classifier applies the hierarchical operational-state rules to a dataset.
// It holds no dataset state itself; everything derived (adjacency, reference
// index) is built per Classify call, making the operation a pure function of
// (observations, layout, config).
type Classifier struct {
	cfg Config
}

// NewClassifier returns a classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config returns the thresholds the classifier runs with.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify runs the full rule chain over every record of the dataset and
// returns one Result per observation, aligned with the input order. A dataset
// that loaded successfully is always classified in full: per-row anomalies
// land in the sensor-error/unknown branches instead of aborting the run.
func (c *Classifier) Classify(ds *scada.Dataset) []Result {
	return c.ClassifyWithProgress(ds, nil)
}

// ClassifyWithProgress is Classify with a progress callback, invoked after
// each turbine's rows are done.
func (c *Classifier) ClassifyWithProgress(ds *scada.Dataset, progress ProgressFunc) []Result {
	results := make([]Result, len(ds.Observations))
	if len(ds.Observations) == 0 {
		return results
	}

	resolver := NewAdjacencyResolver(ds.Turbines(), ds.Layout, c.cfg)
	refIndex := NewReferenceIndex(ds, resolver)

	done := 0
	total := len(ds.Observations)
	for _, stationID := range ds.Turbines() {
		indices := ds.StationIndices(stationID)

		// The turbine's history in ascending time order; startup detection
		// looks back through it, so the per-turbine order is load-bearing.
		history := make([]scada.Observation, len(indices))
		for pos, idx := range indices {
			history[pos] = ds.Observations[idx]
		}

		for pos, idx := range indices {
			obs := &ds.Observations[idx]
			ref := refIndex.Sample(stationID, obs.Timestamp)
			assessment := AssessWind(obs.WindSpeed, ref, c.cfg)
			results[idx] = c.classifyRecord(obs, assessment, history, pos)
		}

		done += len(indices)
		if progress != nil {
			progress(done, total)
		}
	}

	return results
}

// classifyRecord walks the rule chain in strict precedence order and stops at
// the first match.
func (c *Classifier) classifyRecord(obs *scada.Observation, assessment Assessment, history []scada.Observation, position int) Result {
	// Rule 1: producing. NaN minimum power fails the comparison and falls
	// through, which is what we want.
	if obs.PowerMin > c.cfg.ProductionThresholdKW {
		return Result{
			State:            StateProducing,
			Category:         StateProducing.Meta().Name,
			Subcategory:      SubNormalOperation,
			SubcategoryLabel: SubNormalOperation.Label(),
			Reason:           fmt.Sprintf("Minimum power output: %.1f kW", obs.PowerMin),
			IsProducing:      true,
		}
	}

	// Rule 2: active alarm.
	if obs.EffectiveAlarmTime > c.cfg.AlarmThresholdSeconds {
		alarmText := obs.AlarmText
		if alarmText == "" {
			alarmText = "N/A"
		}
		return explained(SubAlarmActive,
			fmt.Sprintf("Active alarm: %.0fs - %s", obs.EffectiveAlarmTime, alarmText))
	}

	// Rule 3: curtailment. External takes reason precedence when both run.
	externalCurtailed := obs.ExternalCurtailment > c.cfg.CurtailmentThresholdSecs
	internalCurtailed := obs.InternalCurtailment > c.cfg.CurtailmentThresholdSecs
	if externalCurtailed || internalCurtailed {
		reason := "Internal (OEM) curtailment active"
		if externalCurtailed {
			reason = "External curtailment active"
		}
		return explained(SubCurtailmentActive, reason)
	}

	// Rule 4: unreliable wind sensor.
	if assessment.SensorError {
		errorType := assessment.ErrorType
		if errorType == "" {
			errorType = SubSensorErrorAnomalous
		}
		return Result{
			State:            StateUnexpected,
			Category:         StateUnexpected.Meta().Name,
			Subcategory:      errorType,
			SubcategoryLabel: errorType.Label(),
			Reason:           assessment.Reason,
		}
	}

	// Rule 5: low wind confirmed by references.
	if assessment.Wind == WindConfirmedLow {
		return explained(SubConfirmedLowWind, assessment.Reason)
	}

	// Rules 6-7: startup sequences.
	if startup := DetectStartup(history, position, c.cfg); startup.IsStartup() {
		if startup.Trigger == StartupPostLowWind {
			return explained(SubStartupPostLowWind, startup.Reason)
		}
		return explained(SubStartupPostAlarm, startup.Reason)
	}

	// Rule 8: low wind per the turbine's own sensor, unverified.
	if assessment.Wind == WindSuspectedLow {
		return Result{
			State:            StateVerificationPending,
			Category:         StateVerificationPending.Meta().Name,
			Subcategory:      SubSuspectedLowWind,
			SubcategoryLabel: SubSuspectedLowWind.Label(),
			Reason:           assessment.Reason,
		}
	}

	// Rule 9: enough wind, no alarm, no curtailment, still not producing.
	if assessment.Wind == WindSufficientConfirmed || assessment.Wind == WindSufficientSuspected {
		return Result{
			State:            StateUnexpected,
			Category:         StateUnexpected.Meta().Name,
			Subcategory:      SubMechanicalControlIssue,
			SubcategoryLabel: SubMechanicalControlIssue.Label(),
			Reason:           "Not producing despite " + assessment.Reason,
		}
	}

	// Rule 10: nothing matched. The assessor's condition space makes this
	// unreachable, but a single anomalous row must never abort the run.
	reason := assessment.Reason
	if reason == "" {
		reason = "Assessment details not available"
	}
	return Result{
		State:            StateUnexpected,
		Category:         StateUnexpected.Meta().Name,
		Subcategory:      SubUnknownNonProduction,
		SubcategoryLabel: SubUnknownNonProduction.Label(),
		Reason:           "Unknown non-production. Assessment: " + reason,
	}
}

func explained(subcategory Subcategory, reason string) Result {
	return Result{
		State:            StateExplained,
		Category:         StateExplained.Meta().Name,
		Subcategory:      subcategory,
		SubcategoryLabel: subcategory.Label(),
		Reason:           reason,
	}
}

// StateCounts tallies results per operational state.
func StateCounts(results []Result) map[State]int {
	counts := make(map[State]int)
	for _, r := range results {
		counts[r.State]++
	}
	return counts
}
