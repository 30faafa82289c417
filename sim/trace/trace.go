package trace

// SimulationTrace collects round records during a run, indexed by step.
type SimulationTrace struct {
	Model   string        `json:"model"`
	Records []RoundRecord `json:"records"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(model string) *SimulationTrace {
	return &SimulationTrace{
		Model:   model,
		Records: make([]RoundRecord, 0),
	}
}

// Record appends a round record.
func (st *SimulationTrace) Record(record RoundRecord) {
	st.Records = append(st.Records, record)
}

// Len returns the number of recorded rounds, including the initial record.
func (st *SimulationTrace) Len() int {
	return len(st.Records)
}

// Stimulated returns the records produced after at least one step,
// dropping the pre-stimulus record 0.
func (st *SimulationTrace) Stimulated() []RoundRecord {
	if len(st.Records) <= 1 {
		return nil
	}
	return st.Records[1:]
}

// Series returns the per-round values of a metric, including record 0.
// Rounds missing the metric are skipped.
func (st *SimulationTrace) Series(name string) []float64 {
	values := make([]float64, 0, len(st.Records))
	for _, r := range st.Records {
		if v, ok := r.Value(name); ok {
			values = append(values, v)
		}
	}
	return values
}
