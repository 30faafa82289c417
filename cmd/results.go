package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	sim "github.com/agent-sim/agent-sim/sim"
	"github.com/agent-sim/agent-sim/sim/trace"
)

// Results is the document handed to presentation tooling after a run.
type Results struct {
	RunID      string                 `json:"run_id"`
	Model      string                 `json:"model"`
	Seed       int64                  `json:"seed"`
	Agents     int                    `json:"agents"`
	Steps      int                    `json:"steps"`
	WallTimeMs int64                  `json:"wall_time_ms"`
	Reports    []trace.Report         `json:"reports"`
	Trace      *trace.SimulationTrace `json:"trace"`
}

// NewResults assembles a Results document with a fresh run ID.
func NewResults(s *sim.Scenario, st *trace.SimulationTrace, reports []trace.Report, elapsed time.Duration) *Results {
	return &Results{
		RunID:      uuid.NewString(),
		Model:      s.Model,
		Seed:       s.Seed,
		Agents:     s.Agents,
		Steps:      s.Steps,
		WallTimeMs: elapsed.Milliseconds(),
		Reports:    reports,
		Trace:      st,
	}
}

// Print writes the reports (not the per-round trace) to w.
func (r *Results) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Reports ===")
	fmt.Fprintf(w, "Run ID   : %s\n", r.RunID)
	fmt.Fprintf(w, "Model    : %s (%d agents, %d steps, seed %d)\n", r.Model, r.Agents, r.Steps, r.Seed)
	for _, rep := range r.Reports {
		fmt.Fprintf(w, "%-16s : %.4f (step %d)\n", rep.Metric, rep.Value, rep.Step)
	}
}

// Save writes the full results, including every round record, as indented JSON.
func (r *Results) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
