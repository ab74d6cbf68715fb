package gce

import (
	"fmt"
	"math"
)

// IMF is a piecewise power-law initial mass function, dN/dm ∝ m^-alpha per
// segment, continuous at the segment breaks and normalized so the total mass
// formed over [MassMin, MassMax] is 1 Msun. All integrals are closed-form.
type IMF struct {
	Alpha   []float64 // power-law slope per segment (positive convention)
	Breaks  []float64 // internal segment boundaries, len(Alpha)-1, strictly increasing
	MassMin float64   // lower mass limit in Msun
	MassMax float64   // upper mass limit in Msun

	coeff []float64 // per-segment normalization, continuity + unit total mass
}

// NewIMF validates the segments and precomputes the normalization.
func NewIMF(alpha, breaks []float64, massMin, massMax float64) (*IMF, error) {
	if len(alpha) == 0 {
		return nil, fmt.Errorf("imf: need at least one power-law segment")
	}
	if len(breaks) != len(alpha)-1 {
		return nil, fmt.Errorf("imf: %d slopes require %d breaks, got %d", len(alpha), len(alpha)-1, len(breaks))
	}
	if massMin <= 0 || massMax <= massMin {
		return nil, fmt.Errorf("imf: invalid mass range [%f, %f]", massMin, massMax)
	}
	prev := massMin
	for _, b := range breaks {
		if b <= prev || b >= massMax {
			return nil, fmt.Errorf("imf: break %f outside (%f, %f) or not increasing", b, prev, massMax)
		}
		prev = b
	}

	imf := &IMF{Alpha: alpha, Breaks: breaks, MassMin: massMin, MassMax: massMax}
	imf.coeff = make([]float64, len(alpha))
	imf.coeff[0] = 1
	for j := 1; j < len(alpha); j++ {
		b := breaks[j-1]
		imf.coeff[j] = imf.coeff[j-1] * math.Pow(b, alpha[j]-alpha[j-1])
	}
	mtot := imf.integrate(massMin, massMax, 1)
	if mtot <= 0 {
		return nil, fmt.Errorf("imf: non-positive total mass integral")
	}
	for j := range imf.coeff {
		imf.coeff[j] /= mtot
	}
	return imf, nil
}

// DefaultIMF returns the Kroupa-like default: slopes {1.3, 2.3} with a break
// at 0.5 Msun over 0.1–100 Msun.
func DefaultIMF() *IMF {
	imf, err := NewIMF([]float64{1.3, 2.3}, []float64{0.5}, 0.1, 100)
	if err != nil {
		panic(err) // constants above are valid
	}
	return imf
}

// bounds returns the full boundary list MassMin, Breaks..., MassMax.
func (imf *IMF) bounds() []float64 {
	b := make([]float64, 0, len(imf.Alpha)+1)
	b = append(b, imf.MassMin)
	b = append(b, imf.Breaks...)
	b = append(b, imf.MassMax)
	return b
}

// integrate computes ∫ m^k φ(m) dm over [lo, hi] clipped to the IMF range.
// k=0 counts stars, k=1 sums mass.
func (imf *IMF) integrate(lo, hi float64, k float64) float64 {
	lo = math.Max(lo, imf.MassMin)
	hi = math.Min(hi, imf.MassMax)
	if hi <= lo {
		return 0
	}
	bounds := imf.bounds()
	var total float64
	for j := range imf.Alpha {
		segLo := math.Max(lo, bounds[j])
		segHi := math.Min(hi, bounds[j+1])
		if segHi <= segLo {
			continue
		}
		p := k - imf.Alpha[j] + 1
		if math.Abs(p) < 1e-12 {
			total += imf.coeff[j] * math.Log(segHi/segLo)
		} else {
			total += imf.coeff[j] * (math.Pow(segHi, p) - math.Pow(segLo, p)) / p
		}
	}
	return total
}

// NumberIntegral returns the number of stars formed per Msun of stars in the
// mass range [lo, hi].
func (imf *IMF) NumberIntegral(lo, hi float64) float64 {
	return imf.integrate(lo, hi, 0)
}

// MassIntegral returns the fraction of formed stellar mass in [lo, hi].
func (imf *IMF) MassIntegral(lo, hi float64) float64 {
	return imf.integrate(lo, hi, 1)
}

// KAlpha is the total number of stars per Msun of stars formed (total IMF
// number over total IMF mass).
func (imf *IMF) KAlpha() float64 {
	return imf.NumberIntegral(imf.MassMin, imf.MassMax) / imf.MassIntegral(imf.MassMin, imf.MassMax)
}
