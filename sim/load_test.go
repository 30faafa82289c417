package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agent-sim/agent-sim/sim/trace"
)

func TestDrawDemand_WithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, maxDemand := range []int{1, 2, 20, 150} {
		for i := 0; i < 200; i++ {
			d := DrawDemand(rng, maxDemand)
			assert.GreaterOrEqual(t, d, 0.0)
			assert.LessOrEqual(t, d, float64(maxDemand))
		}
	}
}

func TestDrawDemand_SingleSample_NormalizesToBound(t *testing.T) {
	// A single draw is its own maximum, so it normalizes to exactly 1.
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		assert.Equal(t, 1.0, DrawDemand(rng, 1))
	}
}

func TestDrawDemand_SameSeedSameValue(t *testing.T) {
	a := DrawDemand(rand.New(rand.NewSource(5)), 20)
	b := DrawDemand(rand.New(rand.NewSource(5)), 20)
	assert.Equal(t, a, b)
}

func TestDrawDemand_ReachesBound(t *testing.T) {
	// The largest normalized sample is exactly 1, so over many draws the
	// bound itself is hit (probability 1/maxDemand per draw).
	rng := rand.New(rand.NewSource(9))
	hit := false
	for i := 0; i < 500 && !hit; i++ {
		hit = DrawDemand(rng, 4) == 4.0
	}
	assert.True(t, hit, "expected at least one draw equal to max demand")
}

func TestLoadAgent_AddLoad_LeakyBucket(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	a := NewLoadAgent(0, 3, 12)
	for i := 0; i < 300; i++ {
		prev := a.CurrentLoad
		a.AddLoad(rng)

		assert.InDelta(t, max(prev+a.AddedLoad-a.ProcessingCapacity, 0), a.CurrentLoad, 1e-9)
		assert.GreaterOrEqual(t, a.CurrentLoad, 0.0)
		assert.Equal(t, a.CurrentLoad > a.ProcessingCapacity, a.IsBlocking)
	}
}

func TestAggregateLoad_HandBuiltPopulation(t *testing.T) {
	// GIVEN an idle, a loaded and a blocking agent
	agents := []LoadAgent{
		{ID: 0, ProcessingCapacity: 10, CurrentLoad: 0, AddedLoad: 4},
		{ID: 1, ProcessingCapacity: 10, CurrentLoad: 5, AddedLoad: 7},
		{ID: 2, ProcessingCapacity: 10, CurrentLoad: 15, AddedLoad: 20, IsBlocking: true},
	}

	// WHEN aggregated
	agg := AggregateLoad(agents)

	// THEN blocking agents are excluded from open capacity only
	assert.Equal(t, 1, agg.BlockingCount)
	assert.InDelta(t, 20.0, agg.TotalLoad, 1e-9)
	assert.InDelta(t, 31.0, agg.TotalAddedLoad, 1e-9)
	assert.InDelta(t, 20.0/3.0, agg.LoadAverage, 1e-9)
	assert.InDelta(t, 15.0, agg.OpenCapacity, 1e-9)

	m := agg.Metrics()
	assert.Len(t, m, 5)
	assert.Equal(t, 1.0, m[trace.MetricBlockingCount])
	assert.InDelta(t, 15.0, m[trace.MetricOpenCapacity], 1e-9)
}

func TestAggregateLoad_Empty(t *testing.T) {
	assert.Equal(t, LoadAggregate{}, AggregateLoad(nil))
}

// A zero demand bound is rejected before any round runs.
func TestNewLoadModel_ZeroDemandBound_Rejected(t *testing.T) {
	_, err := NewLoadModel(NewLoadConfig(2, 10, 0, 0), NewPartitionedRNG(NewSimulationKey(1)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// Demand below capacity drains completely in one round.
func TestLoadModel_DemandBelowCapacity_NoBacklog(t *testing.T) {
	// GIVEN one agent whose demand can never exceed its capacity
	m, err := NewLoadModel(NewLoadConfig(1, 10, 5, 0), NewPartitionedRNG(NewSimulationKey(42)))
	require.NoError(t, err)

	// WHEN run for one round
	st, err := NewClock(m).Run(1)
	require.NoError(t, err)

	// THEN backlog is zero, agent is not blocking, open capacity is full
	assert.Equal(t, 0.0, m.Agents[0].CurrentLoad)
	assert.False(t, m.Agents[0].IsBlocking)
	assert.Greater(t, m.Agents[0].AddedLoad, 0.0)
	r := st.Records[1]
	assert.Equal(t, 0.0, r.Metrics[trace.MetricBlockingCount])
	assert.Equal(t, 0.0, r.Metrics[trace.MetricTotalLoad])
	assert.Equal(t, 10.0, r.Metrics[trace.MetricOpenCapacity])
}

func TestLoadModel_InitialRecordIsIdle(t *testing.T) {
	m, err := NewLoadModel(NewLoadConfig(4, 10, 0, 2), NewPartitionedRNG(NewSimulationKey(42)))
	require.NoError(t, err)
	st, err := NewClock(m).Run(0)
	require.NoError(t, err)

	require.Equal(t, 1, st.Len())
	r := st.Records[0]
	assert.Equal(t, 0.0, r.Metrics[trace.MetricTotalLoad])
	assert.Equal(t, 40.0, r.Metrics[trace.MetricOpenCapacity])
	for _, a := range m.Agents {
		assert.Equal(t, 20, a.MaxDemand)
	}
}

func TestLoadModel_Invariants(t *testing.T) {
	// GIVEN an overloaded population (demand up to 4× capacity)
	m, err := NewLoadModel(NewLoadConfig(8, 3, 0, 4), NewPartitionedRNG(NewSimulationKey(77)))
	require.NoError(t, err)
	m.Setup()

	sawBlocking := false
	for step := 1; step <= 200; step++ {
		m.Step()
		r := m.Update(step)

		// THEN per-agent invariants hold every round
		blocking := 0
		for _, a := range m.Agents {
			require.GreaterOrEqual(t, a.CurrentLoad, 0.0)
			require.Equal(t, a.CurrentLoad > a.ProcessingCapacity, a.IsBlocking)
			if a.IsBlocking {
				blocking++
			}
		}
		assert.Equal(t, float64(blocking), r.Metrics[trace.MetricBlockingCount])
		assert.InDelta(t, r.Metrics[trace.MetricTotalLoad]/8, r.Metrics[trace.MetricLoadAverage], 1e-9)
		assert.GreaterOrEqual(t, r.Metrics[trace.MetricOpenCapacity], 0.0)
		sawBlocking = sawBlocking || blocking > 0
	}
	assert.True(t, sawBlocking, "an overloaded population should block at some point")
}
