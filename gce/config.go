package gce

import "fmt"

// SFHMode selects the analytic star-formation-history prescription.
type SFHMode string

const (
	SFHConstant    SFHMode = "constant"    // flat SFR for the whole run
	SFHExponential SFHMode = "exponential" // SFR0 * exp(-t/Tau)
)

// SFHConfig parameterizes the analytic star-formation history.
type SFHConfig struct {
	Mode SFHMode // constant (default) or exponential
	SFR0 float64 // star-formation rate at t=0, Msun/Myr (must be >= 0)
	Tau  float64 // e-folding time for the exponential mode, Myr (must be > 0 when used)
}

// Rate returns the star-formation rate at time t Myr.
func (c SFHConfig) Rate(t float64) float64 {
	if c.Mode == SFHExponential {
		return c.SFR0 * expDecay(t, c.Tau)
	}
	return c.SFR0
}

// Validate checks the prescription parameters.
func (c SFHConfig) Validate() error {
	switch c.Mode {
	case SFHConstant, SFHExponential:
	default:
		return fmt.Errorf("unknown SFH mode %q", c.Mode)
	}
	if c.SFR0 < 0 {
		return fmt.Errorf("sfr0 must be non-negative, got %f", c.SFR0)
	}
	if c.Mode == SFHExponential && c.Tau <= 0 {
		return fmt.Errorf("sfh tau must be positive, got %f", c.Tau)
	}
	return nil
}

// BoxConfig groups everything a Box run needs.
type BoxConfig struct {
	Grid     TimeGrid
	SFH      SFHConfig
	Kernel   *Kernel // DTD kernel built once via BuildDTD
	IMF      *IMF    // defaults to DefaultIMF()
	SNIaMass float64 // mass released per SNIa event, Msun (default 1.4)
}

// NewBoxConfig applies defaults and validates.
func NewBoxConfig(grid TimeGrid, sfh SFHConfig, kernel *Kernel, imf *IMF, sniaMass float64) (BoxConfig, error) {
	if kernel == nil {
		return BoxConfig{}, fmt.Errorf("box config: kernel is required")
	}
	if err := sfh.Validate(); err != nil {
		return BoxConfig{}, fmt.Errorf("box config: %w", err)
	}
	if imf == nil {
		imf = DefaultIMF()
	}
	if sniaMass == 0 {
		sniaMass = 1.4
	}
	if sniaMass < 0 {
		return BoxConfig{}, fmt.Errorf("box config: snia_mass must be positive, got %f", sniaMass)
	}
	return BoxConfig{Grid: grid, SFH: sfh, Kernel: kernel, IMF: imf, SNIaMass: sniaMass}, nil
}
