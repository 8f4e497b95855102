package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/kpmqt/internal/analysis"
	"github.com/san-kum/kpmqt/internal/compute"
	"github.com/san-kum/kpmqt/internal/config"
	"github.com/san-kum/kpmqt/internal/observables"
	"github.com/san-kum/kpmqt/internal/storage"
	"github.com/san-kum/kpmqt/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tORBITALS\tTRIALS\tBACKEND\tELAPSED\tSERIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%.2fs\t%v\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Orbitals,
			run.Trials,
			run.Backend,
			run.Elapsed,
			run.Series,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir, log)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	res, err := st.LoadResult(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("run: " + meta.ID))
	fmt.Println(viz.KeyValue("name", meta.Name))
	fmt.Println(viz.KeyValue("energies", viz.Range(res.Energies)+" eV"))
	fmt.Println(viz.KeyValue("dos", viz.SparklineChart(res.DOS, 40)))
	fmt.Println()

	mid := len(res.Energies) / 2
	caption := func(what string) string {
		return fmt.Sprintf("%s vs energy, E in %s eV", what, viz.Range(res.Energies))
	}
	timeCaption := func(what string, times []float64) string {
		e := 0.0
		if mid < len(res.Energies) {
			e = res.Energies[mid]
		}
		return fmt.Sprintf("%s at E = %.3g eV, t in %s fs", what, e, viz.Range(times))
	}

	fmt.Println(viz.Plot(res.DOS, caption("density of states (1/eV)")))
	fmt.Println()
	for i, l := range res.LDOS {
		fmt.Println(viz.Plot(l, caption(fmt.Sprintf("ldos of orbital %d", res.LocalOrbitals[i]))))
		fmt.Println()
	}
	if len(res.VAC0) > 0 {
		fmt.Println(viz.Plot(res.VAC0, caption("vac0 (Å²/fs²)")))
		fmt.Println()
	}
	if len(res.VAC) > 0 {
		fmt.Println(viz.Plot(res.Diffusion(mid), timeCaption("diffusion from vac (Å²/fs)", res.CorrelationTimes)))
		fmt.Println()
	}
	if len(res.MSD) > 0 {
		fmt.Println(viz.PlotMany(msdCurves(res), timeCaption("msd (Å²) at three energies", res.Times)))
		fmt.Println()
		fmt.Println(viz.Plot(res.DiffusionMSD(mid), timeCaption("diffusion from msd (Å²/fs)", res.Times)))
		fmt.Println()
	}
	if len(res.Spin) > 0 {
		fmt.Println(viz.Plot(res.Spin, fmt.Sprintf("spin polarization, t in %s fs", viz.Range(res.Times))))
		fmt.Println()
	}
	if len(res.Conductivity) > 0 {
		fmt.Println(viz.Plot(res.Conductivity, caption("conductivity (e²/h)")))
		fmt.Println()
	}
	return nil
}

// msdCurves picks the quarter, centre and three-quarter energies.
func msdCurves(res *observables.Result) [][]float64 {
	n := len(res.Energies)
	var out [][]float64
	for _, idx := range []int{n / 4, n / 2, 3 * n / 4} {
		out = append(out, analysis.Column(res.MSD, idx))
	}
	return out
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, res)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, res, args[1])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportSVG(os.Stdout, res, args[1])
}

func listPresets(cmd *cobra.Command, args []string) error {
	geometries := config.Geometries()
	if len(args) == 1 {
		geometries = []string{args[0]}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDIMS\tDISORDER\tMOMENTS\tOUTPUTS")
	found := false
	for _, g := range geometries {
		for _, name := range config.ListPresets(g) {
			found = true
			cfg := config.GetPreset(g, name)
			fmt.Fprintf(w, "%s/%s\t%v\t%g\t%d\t%v\n", g, name, cfg.Lattice.Dims, cfg.Lattice.Anderson, cfg.NumberOfMoments, outputs(cfg))
		}
	}
	if !found {
		fmt.Printf("no presets for geometry: %s\n", args[0])
		return nil
	}
	return w.Flush()
}

func outputs(cfg *config.Config) []string {
	out := []string{observables.SeriesDOS}
	flags := []struct {
		on   bool
		name string
	}{
		{cfg.CalculateLDOS, observables.SeriesLDOS},
		{cfg.CalculateVAC0, observables.SeriesVAC0},
		{cfg.CalculateVAC, observables.SeriesVAC},
		{cfg.CalculateMSD, observables.SeriesMSD},
		{cfg.CalculateSpin, observables.SeriesSpin},
		{cfg.CalculateMomentsKG, observables.SeriesKG},
	}
	for _, f := range flags {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}

func listBackends(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tAVAILABLE")
	for _, kind := range compute.Kinds() {
		b, err := compute.New(kind, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%v\n", kind, b.Name(), b.Available())
		b.Cleanup()
	}
	fmt.Fprintf(w, "\nCPUs\t%d\t\n", runtime.NumCPU())
	return w.Flush()
}

func benchBackends(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Lattice.Dims = benchDims
	cfg.Lattice.Anderson = 1
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking H·v on %v lattice, %d orbitals\n\n", benchDims, m.N)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tREPS\tTIME\tPER APPLY\tORBITALS/SEC")

	for _, kind := range []string{compute.KindSerial, compute.KindParallel} {
		be, err := compute.New(kind, workers)
		if err != nil {
			return err
		}
		elapsed, err := timeApply(m, be, benchReps)
		be.Cleanup()
		if err != nil {
			return err
		}
		per := elapsed / time.Duration(benchReps)
		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%.3g\n",
			be.Name(), benchReps, elapsed.Round(time.Microsecond), per.Round(time.Microsecond),
			float64(m.N)*float64(benchReps)/elapsed.Seconds())
	}
	return w.Flush()
}
