package gce

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Single-degenerate SNIa rate following the Greggio (2005) formalism: a white
// dwarf accreting from a non-degenerate secondary until the Chandrasekhar
// mass. The rate is derived analytically on a 1 Myr fine grid and then
// re-binned onto the simulation grid.

// sdParams holds the single_degenerate keyword values after defaulting.
type sdParams struct {
	A           float64 // overall rate coefficient
	Gam         float64 // secondary mass-ratio distribution exponent
	Eps         float64 // envelope-accretion efficiency
	Normalize   bool    // rescale the 10 Gyr cumulative to NiaPerMstar
	NiaPerMstar float64
}

const (
	sdFineStart   = 29.0 // Myr; lifetime of an 8 Msun star, the channel's upper primary mass
	sdM1Up        = 8.0  // Msun; upper primary mass
	chandrasekhar = 1.4
)

// buildSingleDegenerate derives the fine-grid rate and re-bins it onto the
// simulation grid.
func buildSingleDegenerate(grid TimeGrid, p sdParams, imf *IMF, massFromLifetime func(float64) float64) ([]float64, error) {
	times := grid.Times()
	tEnd := times[len(times)-1]
	if tEnd < sdFineStart {
		return nil, &NormalizationError{
			Model:  SingleDegenerate,
			Reason: fmt.Sprintf("grid ends at %g Myr, before the first explosions at %g Myr", tEnd, sdFineStart),
		}
	}
	t2 := fineGrid(tEnd)
	ria1, err := singleDegenerateFineRate(t2, p, imf, massFromLifetime)
	if err != nil {
		return nil, err
	}
	ria := rebinFine(t2, ria1, grid.DT)

	if p.Normalize {
		var window float64
		for i := range ria {
			if times[i] <= NiaWindow {
				window += ria[i]
			}
		}
		if window <= 0 {
			return nil, &NormalizationError{
				Model:  SingleDegenerate,
				Reason: fmt.Sprintf("cumulative rate over the %g Myr window is %g", NiaWindow, window),
			}
		}
		floats.Scale(p.NiaPerMstar/window, ria)
	}
	return ria, nil
}

// fineGrid returns 1 Myr spaced times from sdFineStart to tEnd inclusive.
func fineGrid(tEnd float64) []float64 {
	n := int(math.Floor(tEnd-sdFineStart)) + 1
	t2 := make([]float64, n)
	for i := range t2 {
		t2[i] = sdFineStart + float64(i)
	}
	return t2
}

// singleDegenerateFineRate computes the SNIa rate per Msun formed on the fine
// grid, normalized to unit sum and scaled by k_alpha and the coefficient A.
func singleDegenerateFineRate(t2 []float64, p sdParams, imf *IMF, massFromLifetime func(float64) float64) ([]float64, error) {
	n := len(t2)
	m2 := make([]float64, n)
	for i, t := range t2 {
		m2[i] = massFromLifetime(t)
	}

	// Secondary core mass: elementwise maximum of the three empirical
	// branches, which keeps the floor continuous across the whole grid.
	m1low := make([]float64, n)
	for i := range t2 {
		core := math.Max(0.3, math.Max(0.3+0.1*(m2[i]-2), 0.5+0.15*(m2[i]-3)))
		envelope := m2[i] - core
		mwdn := chandrasekhar - p.Eps*envelope
		// Minimum primary: floor function of the minimum WD mass, never below
		// 2 Msun, never below the mass the elapsed time already requires.
		m1low[i] = math.Max(math.Max(2, 2+10*(mwdn-0.6)), m2[i])
	}

	nm2 := make([]float64, n)
	bounds := imf.bounds()
	for j := range imf.Alpha {
		final := j == len(imf.Alpha)-1
		idx := segmentMembers(m1low, bounds[j], bounds[j+1], final)
		alpha := imf.Alpha[j]
		for _, i := range idx {
			if m1low[i] >= sdM1Up {
				continue // no primaries left between m1low and the 8 Msun cap
			}
			nm2[i] = math.Pow(m2[i], -alpha) *
				(math.Pow(m2[i]/m1low[i], alpha+p.Gam) - math.Pow(m2[i]/sdM1Up, alpha+p.Gam))
		}
	}

	// Secondary mass–time relation converts the mass distribution to an
	// appearance rate in time.
	dfdt := make([]float64, n)
	for i := range t2 {
		dm2dt := math.Pow(10, 4.28) * math.Pow(t2[i], 1.44)
		dfdt[i] = nm2[i] / dm2dt
	}
	total := floats.Sum(dfdt)
	if total <= 0 || math.IsNaN(total) {
		return nil, &NormalizationError{
			Model:  SingleDegenerate,
			Reason: fmt.Sprintf("fine-grid rate sum is %g", total),
		}
	}
	scale := imf.KAlpha() * p.A / total
	floats.Scale(scale, dfdt)
	return dfdt, nil
}

// segmentMembers returns the fine-grid indices whose minimum primary mass
// falls in the IMF segment [lo, hi). Masses are rounded to 5 decimals for
// boundary stability. Every segment except the final (unbounded) one gives up
// the last index of its range to the next segment's integral, so no index is
// counted twice at a boundary.
func segmentMembers(m1low []float64, lo, hi float64, final bool) []int {
	var idx []int
	for i, m := range m1low {
		r := round5(m)
		if final {
			if r >= lo {
				idx = append(idx, i)
			}
		} else if r >= lo && r < hi {
			idx = append(idx, i)
		}
	}
	if !final && len(idx) > 0 {
		idx = idx[:len(idx)-1]
	}
	return idx
}

func round5(x float64) float64 {
	return math.Round(x*1e5) / 1e5
}

// rebinFine sums contiguous fine-grid entries into dt-wide coarse bins. Bin
// boundaries sit at fine times that are exact multiples of dt; the first bin
// absorbs everything before the first boundary. The result is an exact
// partition of the fine range up to the last boundary.
func rebinFine(t2, ria1 []float64, dt float64) []float64 {
	var boundaries []int
	for i := range t2 {
		if i > 0 && math.Mod(t2[i], dt) == 0 {
			boundaries = append(boundaries, i)
		}
	}
	if len(boundaries) == 0 {
		return []float64{floats.Sum(ria1)}
	}
	ria := make([]float64, 0, len(boundaries))
	ria = append(ria, floats.Sum(ria1[:boundaries[0]]))
	for i := 0; i+1 < len(boundaries); i++ {
		ria = append(ria, floats.Sum(ria1[boundaries[i]:boundaries[i+1]]))
	}
	return ria
}
