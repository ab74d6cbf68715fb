package gce

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Reservoir tracks white-dwarf mass accumulated from stellar populations and
// not yet exploded, one entry per formation step. Only the exponential model
// uses it, and only Kernel.Events may mutate it.
type Reservoir []float64

// Clone returns an independent copy of the reservoir.
func (r Reservoir) Clone() Reservoir {
	c := make(Reservoir, len(r))
	copy(c, r)
	return c
}

// Total returns the mass still held in the reservoir.
func (r Reservoir) Total() float64 {
	return floats.Sum(r)
}

// State is the per-call view of the outer simulation loop's bookkeeping. The
// loop must supply history depth of at least tstep in Mstar and SFR.
type State struct {
	Mstar     [][]float64 // stellar mass formed, [step][mass bin], Msun
	MstarTot  float64     // cumulative stellar mass formed, Msun
	SFR       []float64   // star-formation rate per step, Msun/Myr
	SNIaMass  float64     // mass released per SNIa event, Msun
	Reservoir Reservoir   // white-dwarf mass per formation step (exponential model)
}

// Events returns the expected number of SNIa events at timestep tstep.
//
// The exponential model mutates st.Reservoir: the count is taken from the
// pre-decay reservoir and the eligible entries are then scaled by 1-DMwd.
// That order is load-bearing — reversing it breaks mass conservation across
// the depletion tail. The other three models are pure functions of the
// supplied history. Boundary indices (no population old enough yet) yield a
// zero count, never an error.
func (k *Kernel) Events(tstep int, st *State) float64 {
	switch k.Model {
	case Exponential:
		return k.exponentialEvents(tstep, st)
	case PowerLaw, SingleDegenerate:
		return k.convolutionEvents(tstep, st)
	case PromptDelayed:
		return k.promptDelayedEvents(tstep, st)
	}
	return 0
}

func (k *Kernel) exponentialEvents(tstep int, st *State) float64 {
	indMin := tstep - int(math.Ceil(k.Exp.MinSNIaTime/k.Grid.DT))
	if indMin <= 0 {
		return 0
	}
	if indMin > len(st.Reservoir) {
		indMin = len(st.Reservoir)
	}
	eligible := st.Reservoir[:indMin]
	count := floats.Sum(eligible) * k.Exp.DMwd / st.SNIaMass
	floats.Scale(1-k.Exp.DMwd, eligible)
	return count
}

// convolutionEvents convolves the rate kernel with the reversed
// star-formation-mass history: the population formed i steps ago contributes
// through Ria[i].
func (k *Kernel) convolutionEvents(tstep int, st *State) float64 {
	n := tstep
	if n > len(k.Ria) {
		n = len(k.Ria)
	}
	var count float64
	for i := 0; i < n; i++ {
		step := tstep - i
		if step >= len(st.Mstar) {
			continue
		}
		count += k.Ria[i] * floats.Sum(st.Mstar[step])
	}
	return count
}

func (k *Kernel) promptDelayedEvents(tstep int, st *State) float64 {
	ind := tstep - int(math.Ceil(k.PD.MinSNIaTime/k.Grid.DT))
	var prompt float64
	if ind > 0 && ind < len(st.SFR) {
		prompt = st.SFR[ind] * k.PD.B
	}
	return (prompt + st.MstarTot*k.PD.A) * k.Grid.DT
}
