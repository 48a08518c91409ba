package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

func TestAdjacencyFromLayoutClosestFirst(t *testing.T) {
	layout := []scada.LayoutEntry{
		{StationID: "WTG01", X: 0, Y: 0},
		{StationID: "WTG02", X: 100, Y: 0},
		{StationID: "WTG03", X: 200, Y: 0},
		{StationID: "WTG04", X: 0, Y: 250},
		{StationID: "WTG05", X: 1000, Y: 1000},
	}
	turbines := []string{"WTG01", "WTG02", "WTG03", "WTG04", "WTG05"}
	cfg := DefaultConfig()
	cfg.MaxAdjacentTurbines = 3

	resolver := NewAdjacencyResolver(turbines, layout, cfg)

	// WTG05 is 1414m away, beyond the 300m threshold.
	assert.Equal(t, []string{"WTG02", "WTG03", "WTG04"}, resolver.Adjacent("WTG01"))
}

func TestAdjacencyFromLayoutDeterministic(t *testing.T) {
	layout := []scada.LayoutEntry{
		{StationID: "WTG01", X: 0, Y: 0},
		{StationID: "WTG02", X: 50, Y: 0},
		{StationID: "WTG03", X: 150, Y: 0},
		{StationID: "WTG04", X: 250, Y: 0},
	}
	turbines := []string{"WTG01", "WTG02", "WTG03", "WTG04"}
	cfg := DefaultConfig()
	cfg.MaxAdjacentTurbines = 3

	first := NewAdjacencyResolver(turbines, layout, cfg).Adjacent("WTG01")
	for i := 0; i < 10; i++ {
		again := NewAdjacencyResolver(turbines, layout, cfg).Adjacent("WTG01")
		require.Equal(t, first, again)
	}
	assert.Equal(t, []string{"WTG02", "WTG03", "WTG04"}, first)
}

func TestAdjacencyLayoutRespectsDistanceThreshold(t *testing.T) {
	layout := []scada.LayoutEntry{
		{StationID: "WTG01", X: 0, Y: 0},
		{StationID: "WTG02", X: 300, Y: 0},
		{StationID: "WTG03", X: 301, Y: 0},
	}
	resolver := NewAdjacencyResolver([]string{"WTG01", "WTG02", "WTG03"}, layout, DefaultConfig())

	// 300m is inside the threshold, 301m is not.
	assert.Equal(t, []string{"WTG02"}, resolver.Adjacent("WTG01"))
}

func TestAdjacencyNumericSuffixFallback(t *testing.T) {
	turbines := []string{"WTG01", "WTG02", "WTG03", "WTG09", "WTG10"}
	cfg := DefaultConfig()
	cfg.MaxAdjacentTurbines = 2

	resolver := NewAdjacencyResolver(turbines, nil, cfg)

	// Suffix distance <= 2: WTG01 and WTG03 qualify for WTG02; WTG09 does not.
	assert.Equal(t, []string{"WTG01", "WTG03"}, resolver.Adjacent("WTG02"))
	// WTG10 pairs only with WTG09.
	assert.Equal(t, []string{"WTG09"}, resolver.Adjacent("WTG10"))
}

func TestAdjacencyNumericSuffixNoPeersIsEmptyNotNil(t *testing.T) {
	turbines := []string{"WTG01", "WTG99"}
	cfg := DefaultConfig()
	cfg.MaxAdjacentTurbines = 2

	resolver := NewAdjacencyResolver(turbines, nil, cfg)

	adjacent := resolver.Adjacent("WTG99")
	assert.NotNil(t, adjacent)
	assert.Empty(t, adjacent)
}

func TestAdjacencyFirstOthersDegradedMode(t *testing.T) {
	turbines := []string{"ALPHA", "BRAVO", "CHARLIE", "DELTA"}
	cfg := DefaultConfig()
	cfg.MaxAdjacentTurbines = 2

	resolver := NewAdjacencyResolver(turbines, nil, cfg)

	// No layout, no digits: first N others in dataset order.
	assert.Equal(t, []string{"ALPHA", "CHARLIE"}, resolver.Adjacent("BRAVO"))
}

func TestAdjacencyUnknownTurbine(t *testing.T) {
	resolver := NewAdjacencyResolver([]string{"WTG01"}, nil, DefaultConfig())
	assert.Empty(t, resolver.Adjacent("WTG77"))
}

func TestAdjacencyLayoutMissingTargetFallsBack(t *testing.T) {
	layout := []scada.LayoutEntry{
		{StationID: "WTG01", X: 0, Y: 0},
		{StationID: "WTG02", X: 100, Y: 0},
	}
	turbines := []string{"WTG01", "WTG02", "WTG03"}
	cfg := DefaultConfig()
	cfg.MaxAdjacentTurbines = 5

	resolver := NewAdjacencyResolver(turbines, layout, cfg)

	// WTG03 has no layout entry, so it resolves via the numeric suffix.
	assert.Equal(t, []string{"WTG01", "WTG02"}, resolver.Adjacent("WTG03"))
}
