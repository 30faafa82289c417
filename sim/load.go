package sim

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/agent-sim/agent-sim/sim/trace"
)

// DemandMean is the mean of the exponential draws behind each demand sample.
const DemandMean = 0.42

// DrawDemand samples one round of demand for an agent with bound maxDemand.
//
// maxDemand exponential values are drawn, sorted and normalized by their
// maximum, so the largest is exactly 1. One of them is picked uniformly and
// scaled by maxDemand. The result lies in (0, maxDemand].
// maxDemand must be at least 1.
func DrawDemand(rng *rand.Rand, maxDemand int) float64 {
	samples := make([]float64, maxDemand)
	for i := range samples {
		samples[i] = rng.ExpFloat64() * DemandMean
	}
	sort.Float64s(samples)
	peak := floats.Max(samples)
	if peak == 0 {
		return 0
	}
	for i := range samples {
		samples[i] /= peak
	}
	return samples[rng.Intn(len(samples))] * float64(maxDemand)
}

// LoadAggregate holds the population-level load metrics for one round.
type LoadAggregate struct {
	BlockingCount  int
	TotalLoad      float64
	TotalAddedLoad float64
	LoadAverage    float64
	OpenCapacity   float64
}

// AggregateLoad reduces finalized agent state into round metrics.
// OpenCapacity sums ProcessingCapacity - CurrentLoad over non-blocking agents.
func AggregateLoad(agents []LoadAgent) LoadAggregate {
	var agg LoadAggregate
	if len(agents) == 0 {
		return agg
	}
	loads := make([]float64, len(agents))
	added := make([]float64, len(agents))
	open := make([]float64, 0, len(agents))
	for i, a := range agents {
		loads[i] = a.CurrentLoad
		added[i] = a.AddedLoad
		if a.IsBlocking {
			agg.BlockingCount++
			continue
		}
		open = append(open, a.ProcessingCapacity-a.CurrentLoad)
	}
	agg.TotalLoad = floats.Sum(loads)
	agg.TotalAddedLoad = floats.Sum(added)
	agg.LoadAverage = agg.TotalLoad / float64(len(agents))
	agg.OpenCapacity = floats.Sum(open)
	return agg
}

// Metrics returns the aggregate keyed by trace metric name.
func (agg LoadAggregate) Metrics() map[string]float64 {
	return map[string]float64{
		trace.MetricBlockingCount:  float64(agg.BlockingCount),
		trace.MetricTotalLoad:      agg.TotalLoad,
		trace.MetricTotalAddedLoad: agg.TotalAddedLoad,
		trace.MetricLoadAverage:    agg.LoadAverage,
		trace.MetricOpenCapacity:   agg.OpenCapacity,
	}
}

// LoadModel runs the capacity-constrained backlog model.
type LoadModel struct {
	Config LoadConfig
	Agents []LoadAgent

	rng *rand.Rand
}

// NewLoadModel validates cfg and binds the model to the run's RNG.
func NewLoadModel(cfg LoadConfig, rng *PartitionedRNG) (*LoadModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LoadModel{
		Config: cfg,
		rng:    rng.ForSubsystem(SubsystemDemand),
	}, nil
}

// Name implements Model.
func (m *LoadModel) Name() string { return ModelLoad }

// Setup creates the population with zero backlog.
func (m *LoadModel) Setup() {
	maxDemand := m.Config.EffectiveMaxDemand()
	m.Agents = make([]LoadAgent, m.Config.Agents)
	for i := range m.Agents {
		m.Agents[i] = NewLoadAgent(i, m.Config.ProcessingCapacity, maxDemand)
	}
}

// Step applies one round of demand to every agent in index order.
func (m *LoadModel) Step() {
	for i := range m.Agents {
		m.Agents[i].AddLoad(m.rng)
	}
}

// Update aggregates the population into a round record.
func (m *LoadModel) Update(step int) trace.RoundRecord {
	agg := AggregateLoad(m.Agents)
	logrus.Debugf("[step %05d] blocking=%d total_load=%.3f open_capacity=%.3f",
		step, agg.BlockingCount, agg.TotalLoad, agg.OpenCapacity)
	return trace.RoundRecord{Step: step, Metrics: agg.Metrics()}
}
