package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/agent-sim/agent-sim/sim/trace"
)

// Model names accepted by NewModel and scenario files.
const (
	ModelMatching = "matching"
	ModelLoad     = "load"
)

// ValidModels is the set of recognized model names.
var ValidModels = map[string]bool{ModelMatching: true, ModelLoad: true}

// Model is one population dynamic driven by the Clock.
//
// Step advances every agent independently; Update then computes the
// population-level aggregate exactly once and returns it as a record.
// Update is also called right after Setup to capture the initial state.
type Model interface {
	Name() string
	Setup()
	Step()
	Update(step int) trace.RoundRecord
}

// Clock drives a Model through a fixed number of steps.
type Clock struct {
	Model Model
}

// NewClock creates a Clock for m.
func NewClock(m Model) *Clock {
	return &Clock{Model: m}
}

// Run executes Setup, then steps × (Step, Update), recording after setup and
// after every step. The returned trace holds steps+1 records; record 0 is the
// pre-stimulus state.
func (c *Clock) Run(steps int) (*trace.SimulationTrace, error) {
	if steps < 0 {
		return nil, configError("step count must be non-negative, got %d", steps)
	}
	st := trace.NewSimulationTrace(c.Model.Name())

	c.Model.Setup()
	st.Record(c.Model.Update(0))
	logrus.Infof("[step %05d] %s model set up", 0, c.Model.Name())

	for step := 1; step <= steps; step++ {
		c.Model.Step()
		st.Record(c.Model.Update(step))
	}
	logrus.Infof("[step %05d] Simulation ended", steps)
	return st, nil
}
