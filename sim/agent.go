package sim

import (
	"math/rand"
	"sort"
)

// IDSet is a set of agent IDs.
type IDSet map[int]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. Safe on a nil set.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MatchAgent is one participant of the matching market.
type MatchAgent struct {
	ID          int
	Selectivity float64
	// InterestIDs is overwritten every round and cleared when the agent is matched.
	InterestIDs IDSet
	// Matched becomes true the first time the agent is paired and stays true.
	// It is informational only: a matched agent keeps nominating and can be
	// paired again in later rounds.
	Matched bool
}

// NewMatchAgent creates an agent with an empty interest set.
func NewMatchAgent(id int, selectivity float64) MatchAgent {
	return MatchAgent{
		ID:          id,
		Selectivity: selectivity,
		InterestIDs: IDSet{},
	}
}

// GatherInterest replaces the agent's interest set with a fresh nomination.
func (a *MatchAgent) GatherInterest(strategy InterestStrategy, populationSize int, rng *rand.Rand) {
	a.InterestIDs = strategy.Interest(a.ID, populationSize, a.Selectivity, rng)
}

// CheckMatch reports whether a and b are distinct and list each other.
func (a *MatchAgent) CheckMatch(b *MatchAgent) bool {
	return a.ID != b.ID && b.InterestIDs.Has(a.ID) && a.InterestIDs.Has(b.ID)
}

// LoadAgent is one participant of the load/backlog model.
type LoadAgent struct {
	ID                 int
	ProcessingCapacity float64
	MaxDemand          int
	CurrentLoad        float64 // backlog carried between rounds, never negative
	AddedLoad          float64 // demand drawn this round
	IsBlocking         bool    // CurrentLoad > ProcessingCapacity
}

// NewLoadAgent creates an idle agent.
func NewLoadAgent(id int, capacity float64, maxDemand int) LoadAgent {
	return LoadAgent{
		ID:                 id,
		ProcessingCapacity: capacity,
		MaxDemand:          maxDemand,
	}
}

// AddLoad draws this round's demand and applies the leaky-bucket update.
func (a *LoadAgent) AddLoad(rng *rand.Rand) {
	a.AddedLoad = DrawDemand(rng, a.MaxDemand)
	a.CurrentLoad = max(a.CurrentLoad+a.AddedLoad-a.ProcessingCapacity, 0)
	a.IsBlocking = a.CurrentLoad > a.ProcessingCapacity
}
