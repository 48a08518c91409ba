package classification

import (
	"math"
	"time"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

// ReferenceSample is the aggregated reference wind for one (turbine,
// timestamp). Count 0 means "no reference available" and is distinct from a
// mean of zero.
type ReferenceSample struct {
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// ReferenceIndex aggregates reference wind speeds from adjacent-turbine
// anemometers and independent metmasts. Built once per dataset; sampling is a
// pure lookup afterwards.
type ReferenceIndex struct {
	resolver *AdjacencyResolver

	// windByTime maps timestamp -> station -> that station's own wind reading.
	windByTime map[time.Time]map[string]float64
	// metmastByTime maps timestamp -> one non-NaN reading per metmast column.
	metmastByTime map[time.Time][]float64
}

// NewReferenceIndex indexes the dataset's turbine and metmast wind readings.
// Each metmast column contributes at most one value per timestamp; NaN
// readings are excluded everywhere.
func NewReferenceIndex(ds *scada.Dataset, resolver *AdjacencyResolver) *ReferenceIndex {
	ix := &ReferenceIndex{
		resolver:      resolver,
		windByTime:    make(map[time.Time]map[string]float64),
		metmastByTime: make(map[time.Time][]float64),
	}

	metmastSeen := make(map[time.Time]map[string]bool)
	for _, obs := range ds.Observations {
		ts := obs.Timestamp

		if !math.IsNaN(obs.WindSpeed) {
			byStation, ok := ix.windByTime[ts]
			if !ok {
				byStation = make(map[string]float64)
				ix.windByTime[ts] = byStation
			}
			byStation[obs.StationID] = obs.WindSpeed
		}

		for _, col := range ds.MetmastColumns {
			value, ok := obs.Metmast[col]
			if !ok || math.IsNaN(value) {
				continue
			}
			seen, ok := metmastSeen[ts]
			if !ok {
				seen = make(map[string]bool, len(ds.MetmastColumns))
				metmastSeen[ts] = seen
			}
			if seen[col] {
				continue
			}
			seen[col] = true
			ix.metmastByTime[ts] = append(ix.metmastByTime[ts], value)
		}
	}

	return ix
}

// Sample returns the mean and count of the unioned reference readings for a
// turbine at a timestamp: its adjacent turbines' wind speeds plus the metmast
// readings. A timestamp with no matching rows yields {0, 0}.
func (ix *ReferenceIndex) Sample(stationID string, ts time.Time) ReferenceSample {
	var sum float64
	var count int

	if byStation, ok := ix.windByTime[ts]; ok {
		for _, adjacent := range ix.resolver.Adjacent(stationID) {
			if wind, ok := byStation[adjacent]; ok {
				sum += wind
				count++
			}
		}
	}

	for _, value := range ix.metmastByTime[ts] {
		sum += value
		count++
	}

	if count == 0 {
		return ReferenceSample{}
	}
	return ReferenceSample{Mean: sum / float64(count), Count: count}
}
