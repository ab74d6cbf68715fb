package gce

import (
	"math"

	"github.com/sirupsen/logrus"
)

// expDecay is exp(-t/tau), guarded against a zero tau.
func expDecay(t, tau float64) float64 {
	if tau <= 0 {
		return 0
	}
	return math.Exp(-t / tau)
}

// Mass-bin edges for the per-cohort mass split: low-mass stars, white-dwarf
// progenitors feeding the single-degenerate channel, and core-collapse
// progenitors.
var massBinEdges = [4]float64{0.1, 3.2, 8, 100}

// Box is the outer simulation loop: it forms stellar mass from the analytic
// star-formation history each step, keeps the history arrays the event engine
// reads, and asks the engine for the step's SNIa count. Steps run strictly in
// order; each depends on the previous step's reservoir and cumulative mass.
type Box struct {
	cfg   BoxConfig
	state *State

	Metrics *Metrics
}

// NewBox prepares a run over the configured grid.
func NewBox(cfg BoxConfig) *Box {
	n := cfg.Grid.NSteps()
	st := &State{
		Mstar:    make([][]float64, n),
		SFR:      make([]float64, n),
		SNIaMass: cfg.SNIaMass,
	}
	for i := range st.Mstar {
		st.Mstar[i] = make([]float64, len(massBinEdges)-1)
	}
	st.SFR[0] = cfg.SFH.Rate(0)
	if cfg.Kernel.Model == Exponential {
		// Entry for the (empty) step-0 cohort keeps reservoir indices aligned
		// with formation steps.
		st.Reservoir = Reservoir{0}
	}
	return &Box{cfg: cfg, state: st, Metrics: NewMetrics(n)}
}

// State exposes the run's bookkeeping, e.g. for inspection after Run.
func (b *Box) State() *State {
	return b.state
}

// Run walks the grid from step 1 to the end, forming stars and collecting
// SNIa counts.
func (b *Box) Run() *Metrics {
	times := b.cfg.Grid.Times()
	for tstep := 1; tstep < len(times); tstep++ {
		b.Step(tstep, times[tstep])
	}
	logrus.Infof("box run complete: %.4g SNIa over %.0f Myr, %.4g Msun formed",
		b.Metrics.TotalEvents, b.cfg.Grid.TimeTot, b.state.MstarTot)
	return b.Metrics
}

// Step forms the cohort for one timestep and records its SNIa count.
func (b *Box) Step(tstep int, t float64) {
	st := b.state
	sfr := b.cfg.SFH.Rate(t)
	st.SFR[tstep] = sfr
	formed := sfr * b.cfg.Grid.DT
	for j := 0; j < len(massBinEdges)-1; j++ {
		st.Mstar[tstep][j] = formed * b.cfg.IMF.MassIntegral(massBinEdges[j], massBinEdges[j+1])
	}
	st.MstarTot += formed

	if b.cfg.Kernel.Model == Exponential {
		// The cohort's white-dwarf progenitor mass seeds this step's
		// reservoir entry; snia_fraction of it is eligible to explode.
		wd := st.Mstar[tstep][1]
		st.Reservoir = append(st.Reservoir, b.cfg.Kernel.Exp.SNIaFraction*wd)
	}

	count := b.cfg.Kernel.Events(tstep, st)
	b.Metrics.Observe(tstep, count)
	logrus.Debugf("step %d (t=%.0f Myr): sfr=%.3g formed=%.3g snia=%.4g", tstep, t, sfr, formed, count)
}
