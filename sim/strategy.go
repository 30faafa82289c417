package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// InterestStrategy selects how an agent builds its interest set each round.
// The set of strategies is closed; selection happens once per run.
type InterestStrategy string

const (
	// StrategyUnrestricted draws from the whole population.
	StrategyUnrestricted InterestStrategy = "unrestricted"
	// StrategyPartitioned draws only from agents whose ID has the same parity.
	StrategyPartitioned InterestStrategy = "partitioned"
)

// validInterestStrategies maps accepted strategy names.
var validInterestStrategies = map[InterestStrategy]bool{
	StrategyUnrestricted: true,
	StrategyPartitioned:  true,
}

// IsValidInterestStrategy returns true if name is a recognized strategy.
func IsValidInterestStrategy(name string) bool {
	return validInterestStrategies[InterestStrategy(name)]
}

// Pool returns the candidate IDs the strategy considers for agent id,
// in ascending order and including id itself.
func (s InterestStrategy) Pool(id, populationSize int) []int {
	switch s {
	case StrategyUnrestricted:
		pool := make([]int, populationSize)
		for i := range pool {
			pool[i] = i
		}
		return pool
	case StrategyPartitioned:
		pool := make([]int, 0, populationSize/2+1)
		for i := id % 2; i < populationSize; i += 2 {
			pool = append(pool, i)
		}
		return pool
	default:
		panic(fmt.Sprintf("InterestStrategy.Pool: unknown strategy %q", s))
	}
}

// InterestCount returns floor(poolSize × selectivity / 100).
func InterestCount(poolSize int, selectivity float64) int {
	return int(math.Floor(float64(poolSize) * selectivity / 100))
}

// Interest returns a uniform sample without replacement from the agent's pool.
// The agent's own ID is removed from the pool before sampling, so the result
// holds min(InterestCount, poolSize-1) peers and never contains id.
func (s InterestStrategy) Interest(id, populationSize int, selectivity float64, rng *rand.Rand) IDSet {
	pool := s.Pool(id, populationSize)
	n := InterestCount(len(pool), selectivity)
	if n == 0 {
		return IDSet{}
	}

	peers := pool[:0]
	for _, p := range pool {
		if p != id {
			peers = append(peers, p)
		}
	}
	n = min(n, len(peers))

	// Partial Fisher-Yates: the first n slots end up holding the sample.
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(peers)-i)
		peers[i], peers[j] = peers[j], peers[i]
	}
	return NewIDSet(peers[:n]...)
}
