// Package gce provides the Type Ia supernova delay-time-distribution engine
// of a galactic chemical-evolution simulator.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - kernel.go: the DTD kernel builder — validates keyword parameters and
//     fixes one of four models (exponential, power_law, prompt_delayed,
//     single_degenerate) at setup
//   - events.go: the per-step event engine — dispatches on the kernel model
//     and returns the expected SNIa count for the current timestep
//   - box.go: the outer step loop that forms stellar mass from an analytic
//     star-formation history and queries the engine every step
//
// # Architecture
//
// A Kernel is built once from validated configuration and is immutable for
// the rest of the run. The only mutable state is the white-dwarf mass
// Reservoir used by the exponential model; it is owned by the outer loop and
// mutated exclusively through Kernel.Events. The other three models are pure
// functions of the star-formation history, so a run can be resumed from the
// history alone.
//
// Supporting collaborators live alongside the engine:
//   - imf.go: piecewise power-law initial-mass-function integrals
//   - lifetime.go: stellar lifetime fit and its inversion
//   - greggio.go: the single-degenerate semi-analytic rate derivation
//   - grid.go: the uniform simulation time grid
package gce
