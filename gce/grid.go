package gce

import (
	"fmt"
	"math"
)

// TimeGrid describes the uniform simulation time grid in Myr.
// Step i corresponds to time i*DT; the grid spans [0, TimeTot].
type TimeGrid struct {
	DT      float64 // timestep width in Myr (must be > 0)
	TimeTot float64 // total simulated time in Myr (must be a positive multiple of DT)
}

// NewTimeGrid validates and returns a TimeGrid.
func NewTimeGrid(dt, timeTot float64) (TimeGrid, error) {
	if dt <= 0 {
		return TimeGrid{}, fmt.Errorf("dt must be positive, got %f", dt)
	}
	if timeTot <= 0 {
		return TimeGrid{}, fmt.Errorf("time_tot must be positive, got %f", timeTot)
	}
	steps := timeTot / dt
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		return TimeGrid{}, fmt.Errorf("time_tot (%f) must be a multiple of dt (%f)", timeTot, dt)
	}
	return TimeGrid{DT: dt, TimeTot: timeTot}, nil
}

// NSteps returns the number of grid points, including t=0.
func (g TimeGrid) NSteps() int {
	return int(math.Round(g.TimeTot/g.DT)) + 1
}

// Times returns the grid points t[i] = i*DT.
func (g TimeGrid) Times() []float64 {
	t := make([]float64, g.NSteps())
	for i := range t {
		t[i] = float64(i) * g.DT
	}
	return t
}
