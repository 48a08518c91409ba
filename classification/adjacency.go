package classification

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/jhelmig/windfarm-analysis-station/scada"
)

var stationNumberPattern = regexp.MustCompile(`(\d+)`)

// AdjacencyResolver answers "which turbines are next to this one". With layout
// coordinates it returns the closest peers within a distance threshold; without
// them it falls back to a numeric-suffix heuristic on the station IDs and
// finally to the first few turbines of the dataset. Adjacency is invariant
// across timestamps, so the per-turbine sets are computed eagerly and cached.
type AdjacencyResolver struct {
	maxAdjacent       int
	distanceThreshold float64
	turbines          []string
	layout            []scada.LayoutEntry
	layoutByID        map[string]scada.LayoutEntry
	cache             map[string][]string
}

// NewAdjacencyResolver builds a resolver over the dataset's turbines and the
// optional layout table, resolving every turbine up front.
func NewAdjacencyResolver(turbines []string, layout []scada.LayoutEntry, cfg Config) *AdjacencyResolver {
	r := &AdjacencyResolver{
		maxAdjacent:       cfg.MaxAdjacentTurbines,
		distanceThreshold: cfg.AdjacencyDistanceThreshold,
		turbines:          turbines,
		layout:            layout,
		layoutByID:        make(map[string]scada.LayoutEntry, len(layout)),
		cache:             make(map[string][]string, len(turbines)),
	}
	for _, entry := range layout {
		if _, ok := r.layoutByID[entry.StationID]; !ok {
			r.layoutByID[entry.StationID] = entry
		}
	}
	for _, id := range turbines {
		r.cache[id] = r.resolve(id)
	}
	return r
}

// Adjacent returns the cached adjacency set for a turbine, closest first.
// Unknown turbines resolve to an empty list, never an error.
func (r *AdjacencyResolver) Adjacent(stationID string) []string {
	if adjacent, ok := r.cache[stationID]; ok {
		return adjacent
	}
	return nil
}

func (r *AdjacencyResolver) resolve(stationID string) []string {
	if target, ok := r.layoutByID[stationID]; ok {
		return r.fromLayout(target)
	}
	if adjacent := r.fromNumericSuffix(stationID); adjacent != nil {
		return adjacent
	}
	return r.firstOthers(stationID)
}

// fromLayout computes Euclidean distances to every other turbine in the layout
// and keeps the closest maxAdjacent within the distance threshold. Ties keep
// layout file order (stable sort).
func (r *AdjacencyResolver) fromLayout(target scada.LayoutEntry) []string {
	type candidate struct {
		id       string
		distance float64
	}
	var candidates []candidate
	for _, entry := range r.layout {
		if entry.StationID == target.StationID {
			continue
		}
		dx := entry.X - target.X
		dy := entry.Y - target.Y
		distance := math.Sqrt(dx*dx + dy*dy)
		if distance <= r.distanceThreshold {
			candidates = append(candidates, candidate{id: entry.StationID, distance: distance})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].distance < candidates[b].distance
	})

	if len(candidates) > r.maxAdjacent {
		candidates = candidates[:r.maxAdjacent]
	}
	adjacent := make([]string, 0, len(candidates))
	for _, c := range candidates {
		adjacent = append(adjacent, c.id)
	}
	return adjacent
}

// fromNumericSuffix selects turbines whose embedded number is within
// maxAdjacent of the target's. Returns nil when the target ID carries no
// number, letting the caller fall through to the degraded mode.
func (r *AdjacencyResolver) fromNumericSuffix(stationID string) []string {
	match := stationNumberPattern.FindString(stationID)
	if match == "" {
		return nil
	}
	base, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}

	var adjacent []string
	for _, other := range r.turbines {
		if other == stationID {
			continue
		}
		otherMatch := stationNumberPattern.FindString(other)
		if otherMatch == "" {
			continue
		}
		num, err := strconv.Atoi(otherMatch)
		if err != nil {
			continue
		}
		if abs(num-base) <= r.maxAdjacent {
			adjacent = append(adjacent, other)
			if len(adjacent) == r.maxAdjacent {
				break
			}
		}
	}
	if adjacent == nil {
		return []string{}
	}
	return adjacent
}

// firstOthers is the explicit degraded mode: the first maxAdjacent turbines of
// the dataset's natural ordering, excluding the target.
func (r *AdjacencyResolver) firstOthers(stationID string) []string {
	adjacent := make([]string, 0, r.maxAdjacent)
	for _, other := range r.turbines {
		if other == stationID {
			continue
		}
		adjacent = append(adjacent, other)
		if len(adjacent) == r.maxAdjacent {
			break
		}
	}
	return adjacent
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
