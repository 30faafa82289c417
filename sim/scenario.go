package sim

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/agent-sim/agent-sim/sim/trace"
)

// Scenario is the top-level run configuration.
// Loaded from YAML via LoadScenario(path).
type Scenario struct {
	Model    string       `yaml:"model"`
	Seed     int64        `yaml:"seed"`
	Steps    int          `yaml:"steps"`
	Agents   int          `yaml:"agents"`
	Matching MatchingSpec `yaml:"matching,omitempty"`
	Load     LoadSpec     `yaml:"load,omitempty"`
	Reports  []string     `yaml:"reports,omitempty"` // empty = model default
}

// MatchingSpec holds matching model parameters.
type MatchingSpec struct {
	Strategy    string  `yaml:"strategy"`
	Selectivity float64 `yaml:"selectivity"`
}

// LoadSpec holds load model parameters.
type LoadSpec struct {
	ProcessingCapacity float64 `yaml:"processing_capacity"`
	MaxDemand          int     `yaml:"max_demand,omitempty"`
	MaxDemandFactor    float64 `yaml:"max_demand_factor,omitempty"`
}

// modelMetrics lists the metric names each model records per round.
var modelMetrics = map[string]map[string]bool{
	ModelMatching: {
		trace.MetricMatchCount: true,
		trace.MetricMatches:    true,
	},
	ModelLoad: {
		trace.MetricBlockingCount:  true,
		trace.MetricTotalLoad:      true,
		trace.MetricTotalAddedLoad: true,
		trace.MetricLoadAverage:    true,
		trace.MetricOpenCapacity:   true,
	},
}

// DefaultScenario returns the stock parameters for the named model.
// Unknown names return a Scenario that fails Validate.
func DefaultScenario(model string) Scenario {
	switch model {
	case ModelMatching:
		return Scenario{
			Model: ModelMatching, Seed: 42, Steps: 1000, Agents: 400,
			Matching: MatchingSpec{Strategy: string(StrategyPartitioned), Selectivity: 2},
		}
	case ModelLoad:
		return Scenario{
			Model: ModelLoad, Seed: 42, Steps: 50, Agents: 4,
			Load: LoadSpec{ProcessingCapacity: 10, MaxDemandFactor: 2},
		}
	default:
		return Scenario{Model: model}
	}
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// MatchingConfig projects the scenario onto a MatchingConfig.
func (s *Scenario) MatchingConfig() MatchingConfig {
	return NewMatchingConfig(s.Agents, InterestStrategy(s.Matching.Strategy), s.Matching.Selectivity)
}

// LoadConfig projects the scenario onto a LoadConfig.
func (s *Scenario) LoadConfig() LoadConfig {
	return NewLoadConfig(s.Agents, s.Load.ProcessingCapacity, s.Load.MaxDemand, s.Load.MaxDemandFactor)
}

// ReportMetrics returns the metrics to report at the end of a run.
func (s *Scenario) ReportMetrics() []string {
	if len(s.Reports) > 0 {
		return s.Reports
	}
	if s.Model == ModelLoad {
		return []string{trace.MetricOpenCapacity}
	}
	return []string{trace.MetricMatchCount}
}

// Validate checks that the scenario describes a runnable model.
func (s *Scenario) Validate() error {
	if !ValidModels[s.Model] {
		return configError("unknown model %q; valid: matching, load", s.Model)
	}
	if s.Steps < 0 {
		return configError("step count must be non-negative, got %d", s.Steps)
	}
	for _, name := range s.Reports {
		if !modelMetrics[s.Model][name] {
			return configError("metric %q is not recorded by model %q", name, s.Model)
		}
	}
	switch s.Model {
	case ModelMatching:
		if s.Load != (LoadSpec{}) {
			logrus.Warnf("load section ignored for model %q", s.Model)
		}
		return s.MatchingConfig().Validate()
	default:
		if s.Matching != (MatchingSpec{}) {
			logrus.Warnf("matching section ignored for model %q", s.Model)
		}
		if s.Load.MaxDemand != 0 && s.Load.MaxDemandFactor != 0 {
			logrus.Warnf("max_demand=%d overrides max_demand_factor=%f", s.Load.MaxDemand, s.Load.MaxDemandFactor)
		}
		return s.LoadConfig().Validate()
	}
}

// NewModel builds the scenario's model bound to rng.
func (s *Scenario) NewModel(rng *PartitionedRNG) (Model, error) {
	switch s.Model {
	case ModelMatching:
		return NewMatchingModel(s.MatchingConfig(), rng)
	case ModelLoad:
		return NewLoadModel(s.LoadConfig(), rng)
	default:
		return nil, configError("unknown model %q; valid: matching, load", s.Model)
	}
}

// RunScenario validates s, runs it to completion and summarizes the requested reports.
func RunScenario(s *Scenario) (*trace.SimulationTrace, []trace.Report, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	m, err := s.NewModel(NewPartitionedRNG(NewSimulationKey(s.Seed)))
	if err != nil {
		return nil, nil, err
	}
	st, err := NewClock(m).Run(s.Steps)
	if err != nil {
		return nil, nil, err
	}
	reports, err := trace.Summarize(st, s.ReportMetrics()...)
	if err != nil {
		return nil, nil, err
	}
	return st, reports, nil
}
