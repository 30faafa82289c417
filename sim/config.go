package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every configuration error. All such errors are
// reported before any round executes.
var ErrInvalidConfig = errors.New("invalid configuration")

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// MatchingConfig groups parameters of the mutual-interest matching model.
type MatchingConfig struct {
	Agents      int              // population size (must be > 0)
	Strategy    InterestStrategy // applied uniformly to every agent
	Selectivity float64          // percentage of the pool an agent nominates, in [0, 100]
}

// NewMatchingConfig creates a MatchingConfig with all fields explicitly set.
func NewMatchingConfig(agents int, strategy InterestStrategy, selectivity float64) MatchingConfig {
	return MatchingConfig{
		Agents:      agents,
		Strategy:    strategy,
		Selectivity: selectivity,
	}
}

// Validate checks population size, strategy and selectivity range.
func (c MatchingConfig) Validate() error {
	if c.Agents <= 0 {
		return configError("population size must be positive, got %d", c.Agents)
	}
	if !IsValidInterestStrategy(string(c.Strategy)) {
		return configError("unknown interest strategy %q; valid: unrestricted, partitioned", c.Strategy)
	}
	if math.IsNaN(c.Selectivity) || c.Selectivity < 0 || c.Selectivity > 100 {
		return configError("selectivity must be in [0, 100], got %f", c.Selectivity)
	}
	return nil
}

// LoadConfig groups parameters of the capacity-constrained load model.
type LoadConfig struct {
	Agents             int     // population size (must be > 0)
	ProcessingCapacity float64 // backlog drained per round (must be > 0)
	MaxDemand          int     // raw demand bound; 0 = derive from MaxDemandFactor
	MaxDemandFactor    float64 // MaxDemand = int(MaxDemandFactor × ProcessingCapacity) when MaxDemand is 0
}

// NewLoadConfig creates a LoadConfig with all fields explicitly set.
func NewLoadConfig(agents int, capacity float64, maxDemand int, maxDemandFactor float64) LoadConfig {
	return LoadConfig{
		Agents:             agents,
		ProcessingCapacity: capacity,
		MaxDemand:          maxDemand,
		MaxDemandFactor:    maxDemandFactor,
	}
}

// EffectiveMaxDemand returns the demand bound each agent is created with.
// A direct MaxDemand takes precedence over the factor.
func (c LoadConfig) EffectiveMaxDemand() int {
	if c.MaxDemand != 0 {
		return c.MaxDemand
	}
	return int(c.MaxDemandFactor * c.ProcessingCapacity)
}

// Validate checks population size, capacity and the derived demand bound.
// A demand bound below 1 would normalize by a zero maximum and is rejected.
func (c LoadConfig) Validate() error {
	if c.Agents <= 0 {
		return configError("population size must be positive, got %d", c.Agents)
	}
	if math.IsNaN(c.ProcessingCapacity) || math.IsInf(c.ProcessingCapacity, 0) || c.ProcessingCapacity <= 0 {
		return configError("processing capacity must be a finite positive number, got %f", c.ProcessingCapacity)
	}
	if c.MaxDemand < 0 {
		return configError("max demand must be non-negative, got %d", c.MaxDemand)
	}
	if math.IsNaN(c.MaxDemandFactor) || math.IsInf(c.MaxDemandFactor, 0) || c.MaxDemandFactor < 0 {
		return configError("max demand factor must be a finite non-negative number, got %f", c.MaxDemandFactor)
	}
	if d := c.EffectiveMaxDemand(); d < 1 {
		return configError("max demand must be at least 1, got %d (max_demand=%d, max_demand_factor=%f)",
			d, c.MaxDemand, c.MaxDemandFactor)
	}
	return nil
}
