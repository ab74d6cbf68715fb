package gce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents_ExponentialTooYoung(t *testing.T) {
	// GIVEN an exponential kernel (min delay 150 Myr, dt 30 Myr) and a
	// reservoir with deposited mass
	k, err := BuildDTD(testGrid(t), Exponential, nil, BuildOpts{})
	assert.NoError(t, err)
	st := &State{SNIaMass: 1.4, Reservoir: Reservoir{0.5, 0.5, 0.5, 0.5}}
	before := st.Reservoir.Clone()

	// WHEN tstep = 4, so ind_min_t = 4 - 5 = -1
	count := k.Events(4, st)

	// THEN no population is old enough: zero events, reservoir untouched
	assert.Equal(t, 0.0, count)
	assert.Equal(t, before, st.Reservoir)

	// AND the boundary step itself (ind_min_t == 0) is also "too young"
	count = k.Events(5, st)
	assert.Equal(t, 0.0, count)
	assert.Equal(t, before, st.Reservoir)
}

func TestEvents_ExponentialDecayOrder(t *testing.T) {
	// GIVEN one eligible reservoir entry of 1 Msun
	k, err := BuildDTD(testGrid(t), Exponential, nil, BuildOpts{})
	assert.NoError(t, err)
	st := &State{SNIaMass: 1.4, Reservoir: Reservoir{1.0}}

	// WHEN the first eligible step runs
	count := k.Events(6, st)

	// THEN the count comes from the pre-decay reservoir and the entry is
	// depleted by dMwd afterwards
	dMwd := 30.0 / 1500
	assert.InEpsilon(t, 1.0*dMwd/1.4, count, 1e-12)
	assert.InEpsilon(t, 1.0-dMwd, st.Reservoir[0], 1e-12)
}

func TestEvents_ExponentialMassConservation(t *testing.T) {
	// GIVEN a single cohort depositing 1 Msun of eligible white-dwarf mass
	k, err := BuildDTD(testGrid(t), Exponential, nil, BuildOpts{})
	assert.NoError(t, err)
	const deposit = 1.0
	st := &State{SNIaMass: 1.4, Reservoir: Reservoir{deposit}}

	// WHEN the reservoir decays over many steps
	var exploded float64
	for tstep := 6; tstep < 6+4000; tstep++ {
		exploded += k.Events(tstep, st) * st.SNIaMass
	}

	// THEN the cumulative exploded mass converges to the deposit: the
	// geometric depletion tail conserves mass
	assert.InDelta(t, deposit, exploded, 1e-9)
	assert.InDelta(t, 0.0, st.Reservoir[0], 1e-12)
}

func TestEvents_ExponentialOnlyEligibleEntriesDecay(t *testing.T) {
	// GIVEN three cohorts where only the first is older than the minimum delay
	k, err := BuildDTD(testGrid(t), Exponential, nil, BuildOpts{})
	assert.NoError(t, err)
	st := &State{SNIaMass: 1.4, Reservoir: Reservoir{1.0, 1.0, 1.0}}

	// WHEN tstep = 6 (ind_min_t = 1)
	k.Events(6, st)

	// THEN only reservoir[0] was depleted
	assert.Less(t, st.Reservoir[0], 1.0)
	assert.Equal(t, 1.0, st.Reservoir[1])
	assert.Equal(t, 1.0, st.Reservoir[2])
}

func TestEvents_ConvolutionArithmetic(t *testing.T) {
	// GIVEN a hand-built rate kernel and mass history
	grid := testGrid(t)
	k := &Kernel{Model: PowerLaw, Grid: grid, Ria: []float64{0.5, 0.25}}
	st := &State{Mstar: [][]float64{{0}, {10}, {20}, {30}}}

	// WHEN events are computed at tstep = 3
	count := k.Events(3, st)

	// THEN the kernel convolves against the reversed history:
	// ria[0]*mstar(3) + ria[1]*mstar(2)
	assert.InEpsilon(t, 0.5*30+0.25*20, count, 1e-12)

	// AND a population formed i steps ago beyond the kernel length adds nothing
	st2 := &State{Mstar: [][]float64{{100}, {0}, {0}, {0}}}
	assert.Equal(t, 0.0, k.Events(3, st2))
}

func TestEvents_ConvolutionStateless(t *testing.T) {
	// GIVEN the same state twice
	k := &Kernel{Model: SingleDegenerate, Grid: testGrid(t), Ria: []float64{0.1, 0.2, 0.3}}
	st := &State{Mstar: [][]float64{{1}, {2}, {3}, {4}}}

	// THEN repeated calls return identical counts and mutate nothing
	first := k.Events(3, st)
	second := k.Events(3, st)
	assert.Equal(t, first, second)
}

func TestEvents_PromptDelayedArithmetic(t *testing.T) {
	// GIVEN a prompt-delayed kernel with min delay 40 Myr on a 30 Myr grid
	grid := testGrid(t)
	k, err := BuildDTD(grid, PromptDelayed, map[string]any{
		"A": 1e-6, "B": 100.0, "min_snia_time": 40.0,
	}, BuildOpts{})
	assert.NoError(t, err)

	// WHEN tstep = 5 (ind = 5 - ceil(40/30) = 3)
	st := &State{SFR: []float64{0, 0, 0, 2, 0, 0}, MstarTot: 1e6}
	count := k.Events(5, st)

	// THEN count = (B*sfr[3] + A*mstar_tot) * dt
	assert.InEpsilon(t, (100.0*2+1e-6*1e6)*30, count, 1e-12)
}

func TestEvents_PromptDelayedBeforeMinDelay(t *testing.T) {
	// GIVEN tstep at or below the minimum delay index
	grid := testGrid(t)
	k, err := BuildDTD(grid, PromptDelayed, nil, BuildOpts{})
	assert.NoError(t, err)
	st := &State{SFR: []float64{5, 5, 5}, MstarTot: 1000}

	// WHEN ind <= 0 the prompt term is dropped, the delayed term remains
	count := k.Events(2, st)
	assert.InEpsilon(t, 1000*4.4e-8*30, count, 1e-12)
}

func TestEvents_NonNegativeAcrossModels(t *testing.T) {
	// Expected counts are never negative for any model or step.
	grid := testGrid(t)
	st := func() *State {
		n := grid.NSteps()
		st := &State{Mstar: make([][]float64, n), SFR: make([]float64, n), SNIaMass: 1.4}
		for i := range st.Mstar {
			st.Mstar[i] = []float64{10, 5, 2}
			st.SFR[i] = 1
			st.MstarTot += 17
			st.Reservoir = append(st.Reservoir, 0.1)
		}
		return st
	}

	for _, model := range []Model{Exponential, PowerLaw, PromptDelayed, SingleDegenerate} {
		k, err := BuildDTD(grid, model, nil, BuildOpts{})
		assert.NoError(t, err, "model %s", model)
		state := st()
		for tstep := 1; tstep < grid.NSteps(); tstep++ {
			if count := k.Events(tstep, state); count < 0 {
				t.Fatalf("%s: negative count %g at tstep %d", model, count, tstep)
			}
		}
	}
}
