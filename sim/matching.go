package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/agent-sim/agent-sim/sim/trace"
)

// MatchPass pairs agents with reciprocal interest in one greedy pass.
//
// Roots are visited in ascending index order; each root scans the agents after
// it, also in ascending order, and takes the first mutual partner. Both interest
// sets are cleared on a match, so an agent joins at most one pair per pass. The
// result is not a maximum matching. For a fixed set of interest sets the output
// is fully deterministic.
//
// MatchPass is the only writer to agents while it runs.
func MatchPass(agents []MatchAgent) []trace.Pair {
	matches := make([]trace.Pair, 0)
	for i := 0; i < len(agents)-1; i++ {
		a := &agents[i]
		if len(a.InterestIDs) == 0 {
			continue
		}
		for j := i + 1; j < len(agents); j++ {
			b := &agents[j]
			if !a.CheckMatch(b) {
				continue
			}
			matches = append(matches, trace.NewPair(a.ID, b.ID))
			clear(a.InterestIDs)
			clear(b.InterestIDs)
			a.Matched = true
			b.Matched = true
			break
		}
	}
	return matches
}

// MatchingModel runs the mutual-interest matching market.
type MatchingModel struct {
	Config MatchingConfig
	Agents []MatchAgent

	rng *rand.Rand
}

// NewMatchingModel validates cfg and binds the model to the run's RNG.
func NewMatchingModel(cfg MatchingConfig, rng *PartitionedRNG) (*MatchingModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MatchingModel{
		Config: cfg,
		rng:    rng.ForSubsystem(SubsystemInterest),
	}, nil
}

// Name implements Model.
func (m *MatchingModel) Name() string { return ModelMatching }

// Setup creates the population.
func (m *MatchingModel) Setup() {
	m.Agents = make([]MatchAgent, m.Config.Agents)
	for i := range m.Agents {
		m.Agents[i] = NewMatchAgent(i, m.Config.Selectivity)
	}
}

// Step lets every agent nominate peers. Agents read only IDs of others,
// so visitation order does not affect correctness.
func (m *MatchingModel) Step() {
	for i := range m.Agents {
		m.Agents[i].GatherInterest(m.Config.Strategy, len(m.Agents), m.rng)
	}
}

// Update runs the matching pass and records match_count and matches.
func (m *MatchingModel) Update(step int) trace.RoundRecord {
	matches := MatchPass(m.Agents)
	logrus.Debugf("[step %05d] %d matches among %d agents", step, len(matches), len(m.Agents))
	return trace.RoundRecord{
		Step: step,
		Metrics: map[string]float64{
			trace.MetricMatchCount: float64(len(matches)),
		},
		Matches: matches,
	}
}
