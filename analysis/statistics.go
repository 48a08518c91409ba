package analysis

import (
	"math"
	"sort"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

// TurbineStatistics bundles the descriptive statistics of one turbine's
// sensor series. NaN readings are excluded from every series.
type TurbineStatistics struct {
	WindSpeedStats *DataStatistics `json:"wind_speed_stats"`
	PowerMeanStats *DataStatistics `json:"power_mean_stats"`
	PowerMinStats  *DataStatistics `json:"power_min_stats"`
	PowerMaxStats  *DataStatistics `json:"power_max_stats"`
}

// DataStatistics represents statistical measures for a data series.
type DataStatistics struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Median   float64 `json:"median"`
}

// CalculateTurbineStatistics computes per-turbine sensor statistics over the
// whole dataset.
func CalculateTurbineStatistics(ds *scada.Dataset) map[string]*TurbineStatistics {
	result := make(map[string]*TurbineStatistics, len(ds.Turbines()))

	for _, stationID := range ds.Turbines() {
		indices := ds.StationIndices(stationID)
		if len(indices) == 0 {
			continue
		}

		windSpeeds := make([]float64, 0, len(indices))
		powerMeans := make([]float64, 0, len(indices))
		powerMins := make([]float64, 0, len(indices))
		powerMaxs := make([]float64, 0, len(indices))

		for _, idx := range indices {
			obs := &ds.Observations[idx]
			if !math.IsNaN(obs.WindSpeed) {
				windSpeeds = append(windSpeeds, obs.WindSpeed)
			}
			if !math.IsNaN(obs.PowerMean) {
				powerMeans = append(powerMeans, obs.PowerMean)
			}
			if !math.IsNaN(obs.PowerMin) {
				powerMins = append(powerMins, obs.PowerMin)
			}
			if !math.IsNaN(obs.PowerMax) {
				powerMaxs = append(powerMaxs, obs.PowerMax)
			}
		}

		result[stationID] = &TurbineStatistics{
			WindSpeedStats: calculateDataStatistics(windSpeeds),
			PowerMeanStats: calculateDataStatistics(powerMeans),
			PowerMinStats:  calculateDataStatistics(powerMins),
			PowerMaxStats:  calculateDataStatistics(powerMaxs),
		}
	}

	return result
}

// calculateDataStatistics computes the descriptive statistics of one series.
// Returns nil for an empty series.
func calculateDataStatistics(data []float64) *DataStatistics {
	if len(data) == 0 {
		return nil
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	count := len(data)
	sum := 0.0
	for _, value := range data {
		sum += value
	}
	mean := sum / float64(count)

	sumSquaredDiff := 0.0
	for _, value := range data {
		diff := value - mean
		sumSquaredDiff += diff * diff
	}
	variance := sumSquaredDiff / float64(count)

	var median float64
	if count%2 == 0 {
		median = (sorted[count/2-1] + sorted[count/2]) / 2
	} else {
		median = sorted[count/2]
	}

	return &DataStatistics{
		Count:    count,
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      sorted[0],
		Max:      sorted[count-1],
		Range:    sorted[count-1] - sorted[0],
		Median:   median,
	}
}
