package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/kpmqt/internal/compute"
	"github.com/san-kum/kpmqt/internal/config"
)

var (
	dataDir  string
	logLevel string
	pretty   bool

	configFile  string
	preset      string
	backend     string
	workers     int
	concurrency int
	seed        int64
	trials      int
	moments     int
	momentsKG   int
	energies    int
	steps       int
	timeStep    float64
	kernel      string
	dims        []int
	anderson    float64
	vacancies   float64
	spinFlip    float64
	orbitals    []int
	calcVAC0    bool
	calcVAC     bool
	calcMSD     bool
	calcSpin    bool
	calcLDOS    bool
	calcKG      bool
	progress    bool

	benchReps int
	benchDims []int
)

var log zerolog.Logger

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "kpmqt",
		Short:         "linear-scaling quantum transport with the kernel polynomial method",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = newLogger(logConfig{Level: logLevel, Pretty: pretty})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kpmqt", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "human readable log output")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute the configured observables and store the run",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "preset as geometry/name, e.g. square/anderson")
	runCmd.Flags().StringVar(&backend, "backend", compute.KindAuto, "execution backend (serial, parallel, auto)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "workers of the parallel backend (0 = all CPUs)")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 1, "random vectors in flight")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	runCmd.Flags().IntVar(&trials, "trials", config.DefaultRandomVectors, "number of random vectors")
	runCmd.Flags().IntVar(&moments, "moments", config.DefaultMoments, "number of Chebyshev moments")
	runCmd.Flags().IntVar(&momentsKG, "moments-kg", config.DefaultMomentsKG, "number of Kubo-Greenwood moments")
	runCmd.Flags().IntVar(&energies, "energies", config.DefaultEnergyPoints, "number of energy points")
	runCmd.Flags().IntVar(&steps, "steps", 0, "number of correlation time steps")
	runCmd.Flags().Float64Var(&timeStep, "dt", config.DefaultTimeStepFs, "correlation time step in fs")
	runCmd.Flags().StringVar(&kernel, "kernel", "jackson", "damping kernel (jackson, lorentz, none)")
	runCmd.Flags().IntSliceVar(&dims, "dims", nil, "lattice dimensions, e.g. 128,128")
	runCmd.Flags().Float64Var(&anderson, "anderson", 0, "Anderson disorder strength W in eV")
	runCmd.Flags().Float64Var(&vacancies, "vacancies", 0, "vacancy concentration")
	runCmd.Flags().Float64Var(&spinFlip, "spin-flip", 0, "spin-flip hopping in eV (implies a spinful lattice)")
	runCmd.Flags().IntSliceVar(&orbitals, "orbitals", nil, "local orbitals for the LDOS")
	runCmd.Flags().BoolVar(&calcVAC0, "vac0", false, "velocity autocorrelation at t = 0")
	runCmd.Flags().BoolVar(&calcVAC, "vac", false, "velocity autocorrelation")
	runCmd.Flags().BoolVar(&calcMSD, "msd", false, "mean-square displacement")
	runCmd.Flags().BoolVar(&calcSpin, "spin", false, "spin polarization")
	runCmd.Flags().BoolVar(&calcLDOS, "ldos", false, "local density of states")
	runCmd.Flags().BoolVar(&calcKG, "kg", false, "Kubo-Greenwood conductivity")
	runCmd.Flags().BoolVar(&progress, "progress", false, "show a live progress view")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and curves to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [series]",
		Short: "export one series of a run to CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [series]",
		Short: "draw one series of a run as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [geometry]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list execution backends",
		RunE:  listBackends,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time operator application on every backend",
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntSliceVar(&benchDims, "dims", []int{512, 512}, "lattice dimensions")
	benchCmd.Flags().IntVar(&benchReps, "reps", 50, "applications per backend")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "workers of the parallel backend (0 = all CPUs)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, backendsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
