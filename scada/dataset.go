package scada

import (
	"sort"
	"time"
)

// Dataset is an immutable in-memory snapshot of a SCADA export. Observations
// keep their input order; derived lookups are built once at construction.
type Dataset struct {
	Observations   []Observation
	MetmastColumns []string
	Layout         []LayoutEntry

	turbines   []string
	stationIdx map[string][]int
}

// NewDataset builds a Dataset from parsed observations. The observation slice
// is kept in input order; per-turbine indices are sorted by timestamp so that
// trailing-window lookbacks see history in causal order.
func NewDataset(observations []Observation, metmastColumns []string) *Dataset {
	ds := &Dataset{
		Observations:   observations,
		MetmastColumns: metmastColumns,
	}
	ds.buildIndexes()
	return ds
}

func (ds *Dataset) buildIndexes() {
	ds.stationIdx = make(map[string][]int)
	for i, obs := range ds.Observations {
		ds.stationIdx[obs.StationID] = append(ds.stationIdx[obs.StationID], i)
	}
	for stationID, indices := range ds.stationIdx {
		ds.turbines = append(ds.turbines, stationID)
		sort.SliceStable(indices, func(a, b int) bool {
			return ds.Observations[indices[a]].Timestamp.Before(ds.Observations[indices[b]].Timestamp)
		})
	}
	sort.Strings(ds.turbines)
}

// SetLayout attaches farm layout coordinates to the dataset.
func (ds *Dataset) SetLayout(entries []LayoutEntry) {
	ds.Layout = entries
}

// HasLayout reports whether layout coordinates are available.
func (ds *Dataset) HasLayout() bool {
	return len(ds.Layout) > 0
}

// Turbines returns the unique turbine IDs in the dataset, sorted.
func (ds *Dataset) Turbines() []string {
	return ds.turbines
}

// TimeRange returns the earliest and latest timestamps in the dataset.
func (ds *Dataset) TimeRange() (time.Time, time.Time) {
	if len(ds.Observations) == 0 {
		return time.Time{}, time.Time{}
	}
	start, end := ds.Observations[0].Timestamp, ds.Observations[0].Timestamp
	for _, obs := range ds.Observations[1:] {
		if obs.Timestamp.Before(start) {
			start = obs.Timestamp
		}
		if obs.Timestamp.After(end) {
			end = obs.Timestamp
		}
	}
	return start, end
}

// StationIndices returns the observation indices of one turbine in ascending
// timestamp order.
func (ds *Dataset) StationIndices(stationID string) []int {
	return ds.stationIdx[stationID]
}

// FilterByTime returns the observation indices falling inside [start, end].
func (ds *Dataset) FilterByTime(start, end time.Time) []int {
	var indices []int
	for i, obs := range ds.Observations {
		if !obs.Timestamp.Before(start) && !obs.Timestamp.After(end) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Summary derives the at-a-glance statistics of the dataset.
func (ds *Dataset) Summary() Summary {
	start, end := ds.TimeRange()
	return Summary{
		TotalRecords:    len(ds.Observations),
		UniqueTurbines:  len(ds.turbines),
		TimeRangeStart:  start,
		TimeRangeEnd:    end,
		MetmastColumns:  ds.MetmastColumns,
		LayoutAvailable: ds.HasLayout(),
	}
}
