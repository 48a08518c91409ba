package classification

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fleetScenario builds the three-turbine end-to-end scenario: A producing,
// B alarmed, C stopped in confirmed low wind.
func fleetScenario() *scada.Dataset {
	observations := []scada.Observation{
		{
			StationID: "WTG01", Timestamp: t0,
			PowerMin: 150, PowerMean: 400, PowerMax: 800, WindSpeed: 1.5,
		},
		{
			StationID: "WTG02", Timestamp: t0,
			PowerMin: 0, PowerMean: 0, PowerMax: 0, WindSpeed: 2.5,
			EffectiveAlarmTime: 120, AlarmText: "Grid fault",
		},
		{
			StationID: "WTG03", Timestamp: t0,
			PowerMin: 0, PowerMean: 0, PowerMax: 0, WindSpeed: 2.0,
		},
	}
	return scada.NewDataset(observations, nil)
}

func TestClassifyEndToEndScenario(t *testing.T) {
	classifier := NewClassifier(DefaultConfig())
	results := classifier.Classify(fleetScenario())
	require.Len(t, results, 3)

	a := results[0]
	assert.Equal(t, StateProducing, a.State)
	assert.Equal(t, SubNormalOperation, a.Subcategory)
	assert.True(t, a.IsProducing)
	assert.Contains(t, a.Reason, "150.0 kW")

	b := results[1]
	assert.Equal(t, StateExplained, b.State)
	assert.Equal(t, SubAlarmActive, b.Subcategory)
	assert.Contains(t, b.Reason, "120")
	assert.Contains(t, b.Reason, "Grid fault")
	assert.False(t, b.IsProducing)

	// C's references are A (1.5) and B (2.5): mean 2.0, both below cut-in.
	c := results[2]
	assert.Equal(t, StateExplained, c.State)
	assert.Equal(t, SubConfirmedLowWind, c.Subcategory)
	assert.Contains(t, c.Reason, "2 refs")
}

func TestClassifyProducingDominatesAlarm(t *testing.T) {
	observations := []scada.Observation{
		{
			StationID: "WTG01", Timestamp: t0,
			PowerMin: 50, PowerMean: 200, PowerMax: 400, WindSpeed: 8.0,
			EffectiveAlarmTime: 400, AlarmText: "Pitch warning",
		},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.Equal(t, StateProducing, results[0].State)
	assert.True(t, results[0].IsProducing)
}

func TestClassifyAlarmDominatesCurtailment(t *testing.T) {
	observations := []scada.Observation{
		{
			StationID: "WTG01", Timestamp: t0,
			PowerMin: 0, PowerMean: 0, PowerMax: 0, WindSpeed: 8.0,
			EffectiveAlarmTime: 60, AlarmText: "Converter trip",
			ExternalCurtailment: 600,
		},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.Equal(t, SubAlarmActive, results[0].Subcategory)
}

func TestClassifyCurtailmentExternalReasonWins(t *testing.T) {
	observations := []scada.Observation{
		{
			StationID: "WTG01", Timestamp: t0,
			PowerMin: 0, PowerMean: 0, PowerMax: 0, WindSpeed: 8.0,
			ExternalCurtailment: 600, InternalCurtailment: 300,
		},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.Equal(t, SubCurtailmentActive, results[0].Subcategory)
	assert.Equal(t, "External curtailment active", results[0].Reason)
}

func TestClassifySensorErrorBeforeLowWind(t *testing.T) {
	// Turbine reads 1.0 m/s while both neighbours read 8.0: sensor error,
	// and the refs say the wind was fine.
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: t0, PowerMin: 0, WindSpeed: 1.0},
		{StationID: "WTG02", Timestamp: t0, PowerMin: 200, PowerMean: 300, WindSpeed: 8.0},
		{StationID: "WTG03", Timestamp: t0, PowerMin: 200, PowerMean: 300, WindSpeed: 8.0},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.Equal(t, StateUnexpected, results[0].State)
	assert.Equal(t, SubSensorErrorLow, results[0].Subcategory)
}

func TestClassifyMechanicalControlIssue(t *testing.T) {
	// Sufficient confirmed wind, no alarm, no curtailment, not producing.
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: t0, PowerMin: 0, PowerMean: 0, WindSpeed: 8.0},
		{StationID: "WTG02", Timestamp: t0, PowerMin: 200, PowerMean: 300, WindSpeed: 8.5},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.Equal(t, StateUnexpected, results[0].State)
	assert.Equal(t, SubMechanicalControlIssue, results[0].Subcategory)
	assert.Contains(t, results[0].Reason, "Not producing despite")
}

func TestClassifySuspectedLowWindWithoutReferences(t *testing.T) {
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: t0, PowerMin: 0, PowerMean: 0, WindSpeed: 2.0},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.Equal(t, StateVerificationPending, results[0].State)
	assert.Equal(t, SubSuspectedLowWind, results[0].Subcategory)
}

func TestClassifyStartupAfterLowWind(t *testing.T) {
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: t0, PowerMin: 0, PowerMean: 0, WindSpeed: 2.0},
		{StationID: "WTG02", Timestamp: t0, PowerMin: 0, PowerMean: 0, WindSpeed: 2.0},
		// Ten minutes later the wind has picked up but WTG01 hasn't loaded yet.
		{StationID: "WTG01", Timestamp: t0.Add(10 * time.Minute), PowerMin: 0, PowerMean: 0, WindSpeed: 6.0},
		{StationID: "WTG02", Timestamp: t0.Add(10 * time.Minute), PowerMin: 300, PowerMean: 500, WindSpeed: 6.0},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.Equal(t, StateExplained, results[2].State)
	assert.Equal(t, SubStartupPostLowWind, results[2].Subcategory)
	assert.Contains(t, results[2].Reason, "10 min after low wind")
}

func TestClassifyNaNPowerFallsThroughProducing(t *testing.T) {
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: t0, PowerMin: math.NaN(), PowerMean: math.NaN(), WindSpeed: 8.0},
	}
	ds := scada.NewDataset(observations, nil)

	results := NewClassifier(DefaultConfig()).Classify(ds)
	assert.NotEqual(t, StateProducing, results[0].State)
}

func TestClassifyIdempotent(t *testing.T) {
	ds := fleetScenario()
	classifier := NewClassifier(DefaultConfig())

	first := classifier.Classify(ds)
	second := classifier.Classify(ds)
	assert.Equal(t, first, second)
}

func TestClassifyRowCountAndOrderInvariance(t *testing.T) {
	observations := []scada.Observation{
		{StationID: "WTG01", Timestamp: t0, PowerMin: 150, PowerMean: 400, WindSpeed: 7.0},
		{StationID: "WTG02", Timestamp: t0, PowerMin: 0, PowerMean: 0, WindSpeed: 7.5, EffectiveAlarmTime: 90, AlarmText: "Yaw error"},
		{StationID: "WTG03", Timestamp: t0, PowerMin: 0, PowerMean: 0, WindSpeed: 2.0},
		{StationID: "WTG01", Timestamp: t0.Add(10 * time.Minute), PowerMin: 180, PowerMean: 420, WindSpeed: 7.2},
		{StationID: "WTG02", Timestamp: t0.Add(10 * time.Minute), PowerMin: 0, PowerMean: 0, WindSpeed: 7.4},
	}

	classifier := NewClassifier(DefaultConfig())
	baseline := classifier.Classify(scada.NewDataset(observations, nil))
	require.Len(t, baseline, len(observations))

	byKey := make(map[string]Result, len(observations))
	for i, obs := range observations {
		byKey[obs.StationID+obs.Timestamp.String()] = baseline[i]
	}

	shuffled := make([]scada.Observation, len(observations))
	copy(shuffled, observations)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(a, b int) {
		shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
	})

	results := classifier.Classify(scada.NewDataset(shuffled, nil))
	require.Len(t, results, len(shuffled))
	for i, obs := range shuffled {
		assert.Equal(t, byKey[obs.StationID+obs.Timestamp.String()], results[i],
			"row %s@%s changed with input order", obs.StationID, obs.Timestamp)
	}
}

func TestClassifyProgressCallback(t *testing.T) {
	ds := fleetScenario()
	var done, total int
	calls := 0

	NewClassifier(DefaultConfig()).ClassifyWithProgress(ds, func(d, n int) {
		done, total = d, n
		calls++
	})

	assert.Equal(t, 3, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, calls) // one per turbine
}

func TestStateCounts(t *testing.T) {
	results := []Result{
		{State: StateProducing},
		{State: StateProducing},
		{State: StateExplained},
	}
	counts := StateCounts(results)
	assert.Equal(t, 2, counts[StateProducing])
	assert.Equal(t, 1, counts[StateExplained])
}
