package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/agent-sim/agent-sim/sim"
	"github.com/agent-sim/agent-sim/sim/trace"
)

// newFlagCommand returns a fresh command carrying the scenario flags, parsed from args.
func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	registerScenarioFlags(c)
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestResolveScenario_DefaultsWhenNoFlagsChanged(t *testing.T) {
	// GIVEN no flags
	c := newFlagCommand(t)

	// WHEN the scenario is resolved
	s, err := resolveScenario(c)
	require.NoError(t, err)

	// THEN the stock matching scenario is used
	assert.Equal(t, sim.DefaultScenario(sim.ModelMatching), *s)
}

func TestResolveScenario_ChangedFlagsOverride(t *testing.T) {
	c := newFlagCommand(t, "--model", "load", "--agents", "7", "--capacity", "3", "--max-demand", "9", "--seed", "5")

	s, err := resolveScenario(c)
	require.NoError(t, err)

	assert.Equal(t, sim.ModelLoad, s.Model)
	assert.Equal(t, 7, s.Agents)
	assert.Equal(t, int64(5), s.Seed)
	assert.Equal(t, 3.0, s.Load.ProcessingCapacity)
	assert.Equal(t, 9, s.Load.MaxDemand)
	assert.Equal(t, 2.0, s.Load.MaxDemandFactor, "unchanged flags must not overwrite defaults")
	assert.Equal(t, 50, s.Steps)
	assert.NoError(t, s.Validate())
}

func TestResolveScenario_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: matching
seed: 3
steps: 4
agents: 10
matching:
  strategy: unrestricted
  selectivity: 50
`), 0o644))

	c := newFlagCommand(t, "--config", path, "--selectivity", "20")
	s, err := resolveScenario(c)
	require.NoError(t, err)

	assert.Equal(t, int64(3), s.Seed, "file seed is kept when --seed is not passed")
	assert.Equal(t, 10, s.Agents)
	assert.Equal(t, "unrestricted", s.Matching.Strategy)
	assert.Equal(t, 20.0, s.Matching.Selectivity)
}

func TestResolveScenario_BadFile(t *testing.T) {
	c := newFlagCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := resolveScenario(c)
	assert.Error(t, err)
}

func TestResults_PrintAndSave(t *testing.T) {
	// GIVEN a finished load run
	s := sim.DefaultScenario(sim.ModelLoad)
	s.Steps = 3
	st, reps, err := sim.RunScenario(&s)
	require.NoError(t, err)
	results := NewResults(&s, st, reps, 5*time.Millisecond)

	// WHEN printed
	var buf bytes.Buffer
	results.Print(&buf)

	// THEN the report header and metric appear
	assert.Contains(t, buf.String(), "Simulation Reports")
	assert.Contains(t, buf.String(), trace.MetricOpenCapacity)
	assert.Contains(t, buf.String(), results.RunID)

	// AND the saved JSON round-trips the trace length
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, results.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Results
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, results.RunID, decoded.RunID)
	assert.Len(t, decoded.Trace.Records, 4)
	assert.Equal(t, int64(5), decoded.WallTimeMs)
}

func TestNewResults_UniqueRunIDs(t *testing.T) {
	s := sim.DefaultScenario(sim.ModelLoad)
	a := NewResults(&s, trace.NewSimulationTrace(s.Model), nil, 0)
	b := NewResults(&s, trace.NewSimulationTrace(s.Model), nil, 0)
	assert.NotEqual(t, a.RunID, b.RunID)
}
