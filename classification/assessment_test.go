package classification

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessWindSensorErrorLow(t *testing.T) {
	// Deviation 3.0 above the 2.0 threshold, turbine reading below the refs.
	a := AssessWind(3.0, ReferenceSample{Mean: 6.0, Count: 3}, DefaultConfig())

	assert.True(t, a.SensorError)
	assert.Equal(t, SubSensorErrorLow, a.ErrorType)
	assert.Equal(t, WindSufficientConfirmed, a.Wind)
	assert.Contains(t, a.Reason, "Sensor error (low): Turbine 3.0 vs Refs 6.0 (3 refs).")
}

func TestAssessWindSensorErrorAnomalousHigh(t *testing.T) {
	a := AssessWind(9.0, ReferenceSample{Mean: 6.0, Count: 3}, DefaultConfig())

	assert.True(t, a.SensorError)
	assert.Equal(t, SubSensorErrorAnomalous, a.ErrorType)
	assert.Equal(t, WindSufficientConfirmed, a.Wind)
}

func TestAssessWindDeviationBoundaryInclusive(t *testing.T) {
	// Deviation of exactly 2.0 is within tolerance.
	a := AssessWind(4.0, ReferenceSample{Mean: 6.0, Count: 2}, DefaultConfig())

	assert.False(t, a.SensorError)
	assert.Equal(t, WindSufficientConfirmed, a.Wind)
}

func TestAssessWindConsistentSufficientConfirmed(t *testing.T) {
	// Turbine 4.5 >= cut-in, deviation 1.5 within tolerance, refs >= cut-in.
	a := AssessWind(4.5, ReferenceSample{Mean: 6.0, Count: 2}, DefaultConfig())

	assert.False(t, a.SensorError)
	assert.Equal(t, WindSufficientConfirmed, a.Wind)
}

func TestAssessWindConfirmedLow(t *testing.T) {
	a := AssessWind(2.0, ReferenceSample{Mean: 2.0, Count: 2}, DefaultConfig())

	assert.False(t, a.SensorError)
	assert.Equal(t, WindConfirmedLow, a.Wind)
	assert.Contains(t, a.Reason, "Low wind: Turbine 2.0, Refs 2.0 (2 refs). Sensor consistent.")
}

func TestAssessWindTurbineLowRefsHigherInTolerance(t *testing.T) {
	// Turbine below cut-in, refs above it, but within the deviation band.
	a := AssessWind(3.5, ReferenceSample{Mean: 4.5, Count: 2}, DefaultConfig())

	assert.False(t, a.SensorError)
	assert.Equal(t, WindSuspectedLow, a.Wind)
}

func TestAssessWindNoReferences(t *testing.T) {
	low := AssessWind(2.5, ReferenceSample{}, DefaultConfig())
	assert.False(t, low.SensorError)
	assert.Equal(t, WindSuspectedLow, low.Wind)

	sufficient := AssessWind(6.5, ReferenceSample{}, DefaultConfig())
	assert.False(t, sufficient.SensorError)
	assert.Equal(t, WindSufficientSuspected, sufficient.Wind)
}

func TestAssessWindMissingReading(t *testing.T) {
	cfg := DefaultConfig()

	lowRefs := AssessWind(math.NaN(), ReferenceSample{Mean: 2.0, Count: 3}, cfg)
	assert.True(t, lowRefs.SensorError)
	assert.Equal(t, SubSensorErrorAnomalous, lowRefs.ErrorType)
	assert.Equal(t, WindConfirmedLow, lowRefs.Wind)

	highRefs := AssessWind(math.NaN(), ReferenceSample{Mean: 7.0, Count: 3}, cfg)
	assert.True(t, highRefs.SensorError)
	assert.Equal(t, WindSufficientConfirmed, highRefs.Wind)

	noRefs := AssessWind(math.NaN(), ReferenceSample{}, cfg)
	assert.True(t, noRefs.SensorError)
	assert.Equal(t, WindSufficientSuspected, noRefs.Wind)
	assert.Contains(t, noRefs.Reason, "No references available")
}
