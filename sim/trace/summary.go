package trace

import "fmt"

// Report is a named scalar handed to the presentation layer at the end of a run.
type Report struct {
	Metric string  `json:"metric"`
	Step   int     `json:"step"`
	Value  float64 `json:"value"`
}

// Summarize builds one Report per requested metric from the final record.
// Returns an error for an empty trace or an unknown metric name.
func Summarize(st *SimulationTrace, metrics ...string) ([]Report, error) {
	if st == nil || len(st.Records) == 0 {
		return nil, fmt.Errorf("no rounds recorded")
	}
	last := st.Records[len(st.Records)-1]
	reports := make([]Report, 0, len(metrics))
	for _, name := range metrics {
		v, ok := last.Value(name)
		if !ok {
			return nil, fmt.Errorf("unknown metric %q for model %q", name, st.Model)
		}
		reports = append(reports, Report{Metric: name, Step: last.Step, Value: v})
	}
	return reports, nil
}
