package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hayescr/flexce/gce"
)

var (
	// CLI flags shared by the run and dtd subcommands
	dt            float64 // Timestep width (Myr)
	timeTot       float64 // Total simulated time (Myr)
	dtdModel      string  // DTD model name
	dtdConfigPath string  // Optional YAML file with DTD keyword parameters
	logLevel      string  // Log verbosity level

	// CLI flags for the star-formation history
	sfhMode  string  // "constant" or "exponential"
	sfr0     float64 // SFR at t=0 (Msun/Myr)
	sfhTau   float64 // e-folding time for the exponential SFH (Myr)
	sniaMass float64 // Mass released per SNIa event (Msun)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "flexce",
	Short: "Galactic chemical-evolution simulator: Type Ia supernova DTD engine",
}

// setupLogging parses the --log flag and configures logrus.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildKernel assembles the DTD kernel from the CLI flags and optional YAML
// bundle, exiting on configuration errors.
func buildKernel() (gce.TimeGrid, *gce.Kernel) {
	grid, err := gce.NewTimeGrid(dt, timeTot)
	if err != nil {
		logrus.Fatalf("Invalid time grid: %v", err)
	}

	model := dtdModel
	params := map[string]any{}
	if dtdConfigPath != "" {
		bundle, err := LoadDTDBundle(dtdConfigPath)
		if err != nil {
			logrus.Fatalf("Unable to read DTD config: %v", err)
		}
		if bundle.Model != "" {
			model = bundle.Model
		}
		params = bundle.Params
	}

	m, err := gce.ParseModel(model)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	kernel, err := gce.BuildDTD(grid, m, params, gce.BuildOpts{})
	if err != nil {
		logrus.Fatalf("Building %s DTD failed: %v", m, err)
	}
	return grid, kernel
}

// runCmd executes a full box run using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the chemical-evolution box with the selected SNIa DTD",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		grid, kernel := buildKernel()

		sfh := gce.SFHConfig{Mode: gce.SFHMode(sfhMode), SFR0: sfr0, Tau: sfhTau}
		cfg, err := gce.NewBoxConfig(grid, sfh, kernel, nil, sniaMass)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting run: dtd=%s, dt=%.0f Myr, time_tot=%.0f Myr, sfh=%s",
			kernel.Model, grid.DT, grid.TimeTot, sfh.Mode)
		startTime := time.Now()

		box := gce.NewBox(cfg)
		metrics := box.Run()
		metrics.Print(grid, box.State().Reservoir)

		logrus.Infof("Run complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, dtdCmd} {
		c.Flags().Float64Var(&dt, "dt", 30, "Timestep width (Myr)")
		c.Flags().Float64Var(&timeTot, "time-total", 12000, "Total simulated time (Myr)")
		c.Flags().StringVar(&dtdModel, "dtd", "exponential", "DTD model (exponential, power_law, prompt_delayed, single_degenerate)")
		c.Flags().StringVar(&dtdConfigPath, "dtd-config", "", "YAML file with DTD keyword parameters")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}

	runCmd.Flags().StringVar(&sfhMode, "sfh", string(gce.SFHConstant), "Star-formation history (constant, exponential)")
	runCmd.Flags().Float64Var(&sfr0, "sfr", 1.0, "Star-formation rate at t=0 (Msun/Myr)")
	runCmd.Flags().Float64Var(&sfhTau, "sfh-tau", 4000, "SFH e-folding time for the exponential mode (Myr)")
	runCmd.Flags().Float64Var(&sniaMass, "snia-mass", 1.4, "Mass released per SNIa event (Msun)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dtdCmd)
}
