package gce

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Model identifies the SNIa delay-time-distribution model.
type Model int

const (
	Exponential Model = iota // decaying white-dwarf mass reservoir
	PowerLaw                 // t^slope rate kernel, convolved with the SFH
	PromptDelayed            // A*mstar_tot + B*sfr two-component model
	SingleDegenerate         // Greggio (2005) semi-analytic derivation
)

func (m Model) String() string {
	switch m {
	case Exponential:
		return "exponential"
	case PowerLaw:
		return "power_law"
	case PromptDelayed:
		return "prompt_delayed"
	case SingleDegenerate:
		return "single_degenerate"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel maps a config name to a Model.
func ParseModel(name string) (Model, error) {
	switch name {
	case "exponential":
		return Exponential, nil
	case "power_law":
		return PowerLaw, nil
	case "prompt_delayed":
		return PromptDelayed, nil
	case "single_degenerate":
		return SingleDegenerate, nil
	}
	return 0, fmt.Errorf("unknown DTD model %q (want exponential, power_law, prompt_delayed, or single_degenerate)", name)
}

// NiaWindow is the mass-normalization window in Myr: array kernels are
// normalized so the cumulative rate over the first 10 Gyr matches
// nia_per_mstar.
const NiaWindow = 10000.0

// modelKeywords declares the keyword schema per model. Validation happens
// against this table before construction, never by catching call errors.
var modelKeywords = map[Model][]string{
	Exponential:      {"min_snia_time", "timescale", "snia_fraction"},
	PowerLaw:         {"min_snia_time", "nia_per_mstar", "slope"},
	PromptDelayed:    {"A", "B", "min_snia_time"},
	SingleDegenerate: {"A", "gam", "eps", "normalize", "nia_per_mstar"},
}

// keywordGuide lists every model's valid keywords, one line per model.
func keywordGuide() string {
	models := []Model{Exponential, PowerLaw, PromptDelayed, SingleDegenerate}
	var b strings.Builder
	b.WriteString("valid keywords:\n")
	for _, m := range models {
		fmt.Fprintf(&b, "  %s: %s\n", m, strings.Join(modelKeywords[m], ", "))
	}
	return b.String()
}

// ExponentialKernel holds the exponential-decay parameterization. No rate
// array is precomputed; the event engine applies the decay lazily.
type ExponentialKernel struct {
	MinSNIaTime  float64 // minimum delay before any explosion, Myr
	Timescale    float64 // e-folding time of the reservoir, Myr
	SNIaFraction float64 // fraction of the white-dwarf cohort mass eligible to explode
	DMwd         float64 // fractional reservoir decay per step, DT/Timescale
}

// PromptDelayedKernel holds the two-component Scannapieco & Bildsten style
// coefficients.
type PromptDelayedKernel struct {
	A           float64 // delayed coefficient, scales cumulative stellar mass
	B           float64 // prompt coefficient, scales the recent SFR
	MinSNIaTime float64 // minimum delay before the prompt term engages, Myr
}

// Kernel is the DTD parameterization fixed at setup. Exactly one of the
// model-specific fields is populated, selected by the Model tag; Events
// dispatches on the tag exhaustively. A built Kernel is never mutated.
type Kernel struct {
	Model Model
	Grid  TimeGrid

	Exp *ExponentialKernel   // Exponential only
	PD  *PromptDelayedKernel // PromptDelayed only

	// Ria holds the expected SNIa per Msun formed, indexed by elapsed steps
	// since formation, length NSteps-1. PowerLaw and SingleDegenerate only.
	Ria []float64
}

// BuildOpts supplies the external collaborators needed by the
// single-degenerate derivation. Zero values select the package defaults.
type BuildOpts struct {
	IMF              *IMF                  // defaults to DefaultIMF()
	MassFromLifetime func(float64) float64 // defaults to MassFromLifetime
}

// BuildDTD constructs the kernel for the selected model. params holds keyword
// arguments; unset keywords take the model's documented default. A keyword
// outside the model's schema fails with *InvalidParameterError, and a
// degenerate normalization with *NormalizationError. Building twice with the
// same inputs yields identical kernels.
func BuildDTD(grid TimeGrid, model Model, params map[string]any, opts BuildOpts) (*Kernel, error) {
	if err := validateKeywords(model, params); err != nil {
		return nil, err
	}
	if opts.IMF == nil {
		opts.IMF = DefaultIMF()
	}
	if opts.MassFromLifetime == nil {
		opts.MassFromLifetime = MassFromLifetime
	}

	k := &Kernel{Model: model, Grid: grid}
	switch model {
	case Exponential:
		p := newParamReader(params)
		minT := p.float("min_snia_time", 150)
		timescale := p.float("timescale", 1500)
		frac := p.float("snia_fraction", 0.078)
		if err := p.err(); err != nil {
			return nil, err
		}
		if timescale <= 0 {
			return nil, fmt.Errorf("timescale must be positive, got %f", timescale)
		}
		k.Exp = &ExponentialKernel{
			MinSNIaTime:  minT,
			Timescale:    timescale,
			SNIaFraction: frac,
			DMwd:         grid.DT / timescale,
		}
	case PowerLaw:
		p := newParamReader(params)
		minT := p.float("min_snia_time", 40)
		niaPerMstar := p.float("nia_per_mstar", 2.2e-3)
		slope := p.float("slope", -1.0)
		if err := p.err(); err != nil {
			return nil, err
		}
		ria, err := buildPowerLaw(grid, minT, niaPerMstar, slope)
		if err != nil {
			return nil, err
		}
		k.Ria = ria
	case PromptDelayed:
		p := newParamReader(params)
		a := p.float("A", 4.4e-8)
		bb := p.float("B", 2.6e3)
		minT := p.float("min_snia_time", 40)
		if err := p.err(); err != nil {
			return nil, err
		}
		k.PD = &PromptDelayedKernel{A: a, B: bb, MinSNIaTime: minT}
	case SingleDegenerate:
		p := newParamReader(params)
		a := p.float("A", 5e-4)
		gam := p.float("gam", 2.0)
		eps := p.float("eps", 1.0)
		normalize := p.bool("normalize", false)
		niaPerMstar := p.float("nia_per_mstar", 1.54e-3)
		if err := p.err(); err != nil {
			return nil, err
		}
		ria, err := buildSingleDegenerate(grid, sdParams{
			A: a, Gam: gam, Eps: eps,
			Normalize: normalize, NiaPerMstar: niaPerMstar,
		}, opts.IMF, opts.MassFromLifetime)
		if err != nil {
			return nil, err
		}
		k.Ria = ria
	default:
		return nil, fmt.Errorf("unknown DTD model %v", model)
	}

	logrus.Debugf("built %s DTD kernel: dt=%.1f Myr, %d steps", model, grid.DT, grid.NSteps())
	return k, nil
}

// buildPowerLaw fills ria[i] = t[i]^slope above the minimum delay, normalizes
// the 10 Gyr cumulative to niaPerMstar, and drops the final grid point.
func buildPowerLaw(grid TimeGrid, minSNIaTime, niaPerMstar, slope float64) ([]float64, error) {
	times := grid.Times()
	ria := make([]float64, len(times))
	for i, t := range times {
		if t >= minSNIaTime {
			ria[i] = math.Pow(t, slope)
		}
	}
	var window float64
	for i, t := range times {
		if t <= NiaWindow {
			window += ria[i]
		}
	}
	if window <= 0 || math.IsInf(window, 0) || math.IsNaN(window) {
		return nil, &NormalizationError{
			Model:  PowerLaw,
			Reason: fmt.Sprintf("rate sum over the %g Myr window is %g (min_snia_time=%g, slope=%g)", NiaWindow, window, minSNIaTime, slope),
		}
	}
	floats.Scale(niaPerMstar/window, ria)
	return ria[:len(ria)-1], nil
}

// validateKeywords checks every supplied keyword against the model's schema.
func validateKeywords(model Model, params map[string]any) error {
	allowed, ok := modelKeywords[model]
	if !ok {
		return fmt.Errorf("unknown DTD model %v", model)
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys) // deterministic reporting
	for _, key := range keys {
		found := false
		for _, kw := range allowed {
			if kw == key {
				found = true
				break
			}
		}
		if !found {
			return &InvalidParameterError{Model: model, Keyword: key}
		}
	}
	return nil
}

// paramReader extracts typed keyword values, collecting the first type error.
type paramReader struct {
	params  map[string]any
	badKey  string
	badWant string
	badGot  any
}

func newParamReader(params map[string]any) *paramReader {
	return &paramReader{params: params}
}

func (p *paramReader) float(key string, def float64) float64 {
	v, ok := p.params[key]
	if !ok {
		return def
	}
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	}
	p.fail(key, "number", v)
	return def
}

func (p *paramReader) bool(key string, def bool) bool {
	v, ok := p.params[key]
	if !ok {
		return def
	}
	if x, ok := v.(bool); ok {
		return x
	}
	p.fail(key, "bool", v)
	return def
}

func (p *paramReader) fail(key, want string, got any) {
	if p.badKey == "" {
		p.badKey = key
		p.badWant = want
		p.badGot = got
	}
}

func (p *paramReader) err() error {
	if p.badKey == "" {
		return nil
	}
	return fmt.Errorf("keyword %q: want %s, got %T (%v)", p.badKey, p.badWant, p.badGot, p.badGot)
}
