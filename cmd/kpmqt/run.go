package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/kpmqt/internal/compute"
	"github.com/san-kum/kpmqt/internal/config"
	"github.com/san-kum/kpmqt/internal/hamiltonian"
	"github.com/san-kum/kpmqt/internal/observables"
	"github.com/san-kum/kpmqt/internal/storage"
	"github.com/san-kum/kpmqt/internal/viz"
)

// resolveConfig layers defaults, preset, config file and explicit flags in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.Lookup(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (see kpmqt presets)", preset)
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("trials") {
		cfg.NumberOfRandomVectors = trials
	}
	if flags.Changed("moments") {
		cfg.NumberOfMoments = moments
	}
	if flags.Changed("moments-kg") {
		cfg.NumberOfMomentsKG = momentsKG
	}
	if flags.Changed("energies") {
		cfg.NumberOfEnergyPoints = energies
	}
	if flags.Changed("steps") {
		cfg.NumberOfStepsCorrelation = steps
	}
	if flags.Changed("dt") {
		cfg.TimeStepFs = timeStep
	}
	if flags.Changed("kernel") {
		cfg.Kernel = kernel
	}
	if flags.Changed("dims") {
		cfg.Lattice.Dims = dims
	}
	if flags.Changed("anderson") {
		cfg.Lattice.Anderson = anderson
	}
	if flags.Changed("vacancies") {
		cfg.Lattice.VacancyConcentration = vacancies
	}
	if flags.Changed("spin-flip") {
		cfg.Lattice.Spin = true
		cfg.Lattice.SpinFlip = spinFlip
	}
	if flags.Changed("orbitals") {
		cfg.LocalOrbitals = orbitals
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	cfg.CalculateVAC0 = cfg.CalculateVAC0 || calcVAC0
	cfg.CalculateVAC = cfg.CalculateVAC || calcVAC
	cfg.CalculateMSD = cfg.CalculateMSD || calcMSD
	cfg.CalculateSpin = cfg.CalculateSpin || calcSpin
	cfg.CalculateLDOS = cfg.CalculateLDOS || calcLDOS
	cfg.CalculateMomentsKG = cfg.CalculateMomentsKG || calcKG

	return cfg, cfg.Validate()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	st := storage.New(dataDir, log)
	if err := st.Init(); err != nil {
		return err
	}

	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}

	be, err := compute.New(cfg.Backend, cfg.Workers)
	if err != nil {
		return err
	}
	defer be.Cleanup()

	h, err := hamiltonian.New(m, be)
	if err != nil {
		return err
	}
	calc, err := observables.NewCalculator(h, m, cfg.Options())
	if err != nil {
		return err
	}

	log.Info().
		Str("name", cfg.Name).
		Ints("dims", cfg.Lattice.Dims).
		Int("orbitals", m.N).
		Float64("energy_max", m.EnergyMax).
		Msg("model built")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ens := observables.NewEnsemble(calc, log)
	var res *observables.Result
	if progress {
		res, err = runWithProgress(ctx, cfg.Name, ens, progressTotal(cfg))
	} else {
		res, err = ens.Run(ctx)
	}
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg, m.N, res)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("run " + runID))
	fmt.Println(viz.KeyValue("backend", res.Backend))
	fmt.Println(viz.KeyValue("orbitals", fmt.Sprint(m.N)))
	fmt.Println(viz.KeyValue("trials", fmt.Sprint(res.Trials)))
	fmt.Println(viz.KeyValue("elapsed", res.Elapsed.String()))
	fmt.Println(viz.KeyValue("series", fmt.Sprint(storage.Series(res))))
	for name, v := range res.Summary() {
		fmt.Println(viz.KeyValue(name, fmt.Sprintf("%.6g", v)))
	}
	return nil
}

// progressTotal counts the work items the ensemble reports: one per random
// vector plus one per local orbital when the LDOS is computed.
func progressTotal(cfg *config.Config) int {
	total := cfg.NumberOfRandomVectors
	if cfg.CalculateLDOS {
		total += len(cfg.LocalOrbitals)
	}
	return total
}

func runWithProgress(ctx context.Context, title string, ens *observables.Ensemble, total int) (*observables.Result, error) {
	p := tea.NewProgram(viz.NewProgress(title, total), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	ens.OnProgress(func(done, total int) {
		p.Send(viz.TrialMsg{Done: done, Total: total})
	})

	type outcome struct {
		res *observables.Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := ens.Run(ctx)
		p.Send(viz.FinishedMsg{Err: err})
		ch <- outcome{res, err}
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Msg("progress view stopped")
	}
	out := <-ch
	return out.res, out.err
}
