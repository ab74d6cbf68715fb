// Tracks per-run SNIa statistics for final reporting.

package gce

import "fmt"

// Metrics aggregates the event engine's output over a run, for evaluating a
// DTD configuration and debugging behavior over time.
type Metrics struct {
	PerStep     []float64 // expected SNIa count per timestep
	TotalEvents float64   // sum of all per-step counts
	PeakRate    float64   // largest single-step count
	PeakStep    int       // timestep of the peak
}

// NewMetrics sizes the per-step record for nSteps timesteps.
func NewMetrics(nSteps int) *Metrics {
	return &Metrics{PerStep: make([]float64, nSteps)}
}

// Observe records one step's expected SNIa count. Steps outside the sized
// record are dropped entirely so the aggregates never disagree with PerStep.
func (m *Metrics) Observe(tstep int, count float64) {
	if tstep < 0 || tstep >= len(m.PerStep) {
		return
	}
	m.PerStep[tstep] = count
	m.TotalEvents += count
	if count > m.PeakRate {
		m.PeakRate = count
		m.PeakStep = tstep
	}
}

// Print displays aggregated metrics at the end of the run.
func (m *Metrics) Print(grid TimeGrid, reservoir Reservoir) {
	fmt.Println("=== SNIa Metrics ===")
	fmt.Printf("Total expected SNIa  : %.6g\n", m.TotalEvents)
	fmt.Printf("Peak rate            : %.6g events/step at t=%.0f Myr\n", m.PeakRate, float64(m.PeakStep)*grid.DT)
	if len(reservoir) > 0 {
		fmt.Printf("Reservoir remaining  : %.6g Msun\n", reservoir.Total())
	}
}
