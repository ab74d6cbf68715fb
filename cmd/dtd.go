package cmd

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/hayescr/flexce/gce"
)

// plotPoints caps the width of the terminal rate plot.
const plotPoints = 100

// dtdCmd builds the kernel only and reports its parameterization, without
// running the box. For the array models it renders the rate curve.
var dtdCmd = &cobra.Command{
	Use:   "dtd",
	Short: "Build the selected DTD kernel and print its parameterization",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		grid, kernel := buildKernel()

		fmt.Printf("model: %s (dt=%.0f Myr, %d steps)\n", kernel.Model, grid.DT, grid.NSteps())
		switch kernel.Model {
		case gce.Exponential:
			e := kernel.Exp
			fmt.Printf("min_snia_time=%.0f Myr, timescale=%.0f Myr, snia_fraction=%g, dMwd=%g\n",
				e.MinSNIaTime, e.Timescale, e.SNIaFraction, e.DMwd)
		case gce.PromptDelayed:
			p := kernel.PD
			fmt.Printf("A=%g, B=%g, min_snia_time=%.0f Myr\n", p.A, p.B, p.MinSNIaTime)
		case gce.PowerLaw, gce.SingleDegenerate:
			printRateCurve(grid, kernel.Ria)
		}
	},
}

// printRateCurve reports the cumulative rate over the normalization window
// and plots the rate per step.
func printRateCurve(grid gce.TimeGrid, ria []float64) {
	var window float64
	for i, r := range ria {
		if float64(i)*grid.DT <= gce.NiaWindow {
			window += r
		}
	}
	fmt.Printf("rate bins: %d, SNIa per Msun over %g Myr: %g\n", len(ria), gce.NiaWindow, window)

	stride := len(ria) / plotPoints
	if stride < 1 {
		stride = 1
	}
	series := make([]float64, 0, plotPoints)
	for i := 0; i < len(ria); i += stride {
		series = append(series, ria[i])
	}
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Caption(fmt.Sprintf("SNIa rate per Msun formed vs delay (1 pt = %.0f Myr)", float64(stride)*grid.DT)),
	))
}
