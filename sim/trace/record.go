// Package trace provides per-round recording for agent population runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Metric names recorded by the matching model.
const (
	MetricMatchCount = "match_count"
	MetricMatches    = "matches"
)

// Metric names recorded by the load model.
const (
	MetricBlockingCount  = "blocking_count"
	MetricTotalLoad      = "total_load"
	MetricTotalAddedLoad = "total_added_load"
	MetricLoadAverage    = "load_average"
	MetricOpenCapacity   = "open_capacity"
)

// Pair is an unordered pair of matched agent IDs, stored with A < B.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// NewPair returns the canonical Pair for two agent IDs.
func NewPair(x, y int) Pair {
	if x > y {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Contains reports whether id is one of the pair's members.
func (p Pair) Contains(id int) bool {
	return p.A == id || p.B == id
}

// RoundRecord is an immutable snapshot of aggregate metrics for one step.
// Step 0 is the state after setup, before any stimulus.
type RoundRecord struct {
	Step    int                `json:"step"`
	Metrics map[string]float64 `json:"metrics"`
	Matches []Pair             `json:"matches,omitempty"` // matching model only
}

// Value returns the named scalar metric.
// MetricMatches resolves to the number of recorded pairs.
func (r RoundRecord) Value(name string) (float64, bool) {
	if name == MetricMatches {
		return float64(len(r.Matches)), r.Metrics != nil
	}
	v, ok := r.Metrics[name]
	return v, ok
}
