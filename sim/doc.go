// Package sim provides the round-based simulation engine for agent populations.
//
// # Reading Guide
//
// Start with these files:
//   - clock.go: the Model interface and the Clock that drives setup, steps and recording
//   - matching.go: the mutual-interest matching market and its greedy one-pass matcher
//   - load.go: the capacity-constrained backlog model and its demand draw
//
// # Randomness
//
// Every stochastic operation draws from a *rand.Rand obtained from the run's
// PartitionedRNG (rng.go). Nothing reads global random state, so a run is
// reproducible from its seed and configuration.
//
// # Records
//
// Per-round aggregates are stored in sim/trace, which holds pure data types and
// has no dependency on this package.
package sim
