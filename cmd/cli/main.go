package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hybrid-sizer/internal/config"
	"hybrid-sizer/internal/data"
	"hybrid-sizer/internal/dispatch"
	"hybrid-sizer/internal/model"
	"hybrid-sizer/internal/optimize"
	"hybrid-sizer/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "optimize":
		cmdOptimize(os.Args[2:])
	case "dispatch":
		cmdDispatch(os.Args[2:])
	case "windows":
		cmdWindows(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli optimize --input input.xlsx --out results/results.xlsx")
	fmt.Println("  cli optimize --config examples/config.yaml --profiles examples/profiles.csv --out results/results.xlsx")
	fmt.Println("  cli dispatch --input input.xlsx --pv 1000 --hydro 200 --bess 250 --out results/dispatch.csv")
	fmt.Println("  cli windows --input input.xlsx --pv 1000 --hydro 200")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - optimize sweeps the capacity grid and writes a results workbook")
	fmt.Println("  - dispatch simulates one system and writes its hourly CSV trace")
	fmt.Println("  - windows ranks every hydro operating window for one system")
}

// loadInputs resolves the two input modes: an Excel workbook carrying
// everything, or a YAML config plus a CSV profile file.
func loadInputs(workbookPath, cfgPath, profilesPath string) (optimize.Inputs, error) {
	if workbookPath != "" {
		wb, err := data.ReadWorkbook(workbookPath)
		if err != nil {
			return optimize.Inputs{}, err
		}
		return optimize.Inputs{
			Project: wb.Project,
			Techs:   wb.Techs,
			Series:  wb.Series,
			Space:   wb.Space,
		}, nil
	}
	if cfgPath == "" || profilesPath == "" {
		return optimize.Inputs{}, fmt.Errorf("either --input or both --config and --profiles are required")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return optimize.Inputs{}, err
	}
	series, err := data.LoadSeriesCSV(profilesPath)
	if err != nil {
		return optimize.Inputs{}, err
	}
	return optimize.Inputs{
		Project: cfg.Project.ToModel(),
		Techs:   cfg.Technologies(),
		Series:  series,
		Space:   cfg.Space(),
		Workers: cfg.Workers,
	}, nil
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	workbookPath := fs.String("input", "", "Path to input workbook (.xlsx)")
	cfgPath := fs.String("config", "", "Path to YAML config (with --profiles)")
	profilesPath := fs.String("profiles", "", "Path to hourly profiles CSV (with --config)")
	outPath := fs.String("out", "results/results.xlsx", "Output workbook path")
	workers := fs.Int("workers", 0, "Parallel workers (0=all cores)")
	force := fs.Bool("force", false, "Run even when the space exceeds max combinations")
	_ = fs.Parse(args)

	in, err := loadInputs(*workbookPath, *cfgPath, *profilesPath)
	if err != nil {
		fatal(err)
	}
	if *workers > 0 {
		in.Workers = *workers
	}
	if err := in.Validate(); err != nil {
		fatal(err)
	}

	total := in.Space.Combinations()
	fmt.Printf("Grid: %d combinations over %d hours\n", total, in.Series.Hours())
	if in.ExceedsMaxCombinations() {
		if !*force {
			fmt.Printf("Space exceeds max combinations (%d > %d); pass --force to run anyway\n",
				total, in.Space.MaxCombinations)
			os.Exit(2)
		}
		fmt.Printf("Warning: space exceeds max combinations (%d > %d)\n", total, in.Space.MaxCombinations)
	}

	var mu sync.Mutex
	lastPercent := -1
	in.Progress = func(done, total int) {
		percent := done * 100 / total
		mu.Lock()
		if percent/10 > lastPercent/10 {
			lastPercent = percent
			fmt.Printf("  ... %d%% (%d/%d)\n", percent, done, total)
		}
		mu.Unlock()
	}

	out, err := optimize.Search(context.Background(), in)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Completed in %.1fs\n\n", out.Elapsed.Seconds())

	if out.Optimal == nil {
		fmt.Println("No feasible solution meets the unmet-load target.")
	} else {
		printOptimal(out.Optimal, len(out.Results))
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := report.WriteResults(*outPath, in.Project, in.Techs, in.Series, out); err != nil {
		fatal(err)
	}
	fmt.Printf("\nWrote results workbook: %s\n", *outPath)
}

func printOptimal(opt *optimize.Result, total int) {
	fmt.Printf("Optimal system (iteration %d of %d):\n", opt.Iteration, total)
	fmt.Printf("  PV:          %.0f kW\n", opt.Candidate.PVKW)
	fmt.Printf("  Wind:        %.0f kW\n", opt.Candidate.WindKW)
	fmt.Printf("  Hydro:       %.0f kW (window %s)\n", opt.Candidate.HydroKW, opt.Window)
	fmt.Printf("  BESS:        %.0f kW / %.0f kWh\n", opt.Candidate.StoragePowerKW, opt.StorageEnergyKWh)
	fmt.Printf("  NPC:         $%.2f\n", opt.Cost.NPC)
	fmt.Printf("  Annualized:  $%.2f/yr\n", opt.Cost.Annualized)
	fmt.Printf("  LCOE:        $%.4f/kWh ($%.2f/MWh)\n", opt.Cost.LCOE, opt.Cost.LCOE*1000)
	fmt.Printf("  Unmet load:  %.2f%%\n", opt.Totals.UnmetPercent)
	fmt.Printf("  RE mix:      PV %.1f%% / Wind %.1f%% / Hydro %.1f%%\n",
		opt.Mix.PVFraction, opt.Mix.WindFraction, opt.Mix.HydroFraction)
}

// capacityFlags defines the shared system-capacity flags for the dispatch
// and windows subcommands.
func capacityFlags(fs *flag.FlagSet) (pv, wind, hydro, bess *float64, windowStart *int) {
	pv = fs.Float64("pv", 0, "PV capacity (kW)")
	wind = fs.Float64("wind", 0, "Wind capacity (kW)")
	hydro = fs.Float64("hydro", 0, "Hydro capacity (kW)")
	bess = fs.Float64("bess", 0, "BESS power capacity (kW)")
	windowStart = fs.Int("window-start", -1, "Hydro window start hour (-1=search)")
	return
}

func cmdDispatch(args []string) {
	fs := flag.NewFlagSet("dispatch", flag.ExitOnError)
	workbookPath := fs.String("input", "", "Path to input workbook (.xlsx)")
	cfgPath := fs.String("config", "", "Path to YAML config (with --profiles)")
	profilesPath := fs.String("profiles", "", "Path to hourly profiles CSV (with --config)")
	outPath := fs.String("out", "results/dispatch.csv", "Output CSV path")
	pv, wind, hydro, bess, windowStart := capacityFlags(fs)
	_ = fs.Parse(args)

	in, err := loadInputs(*workbookPath, *cfgPath, *profilesPath)
	if err != nil {
		fatal(err)
	}

	if err := in.Techs.Validate(); err != nil {
		fatal(err)
	}
	if err := in.Series.Validate(); err != nil {
		fatal(err)
	}

	cand := model.Candidate{PVKW: *pv, WindKW: *wind, HydroKW: *hydro, StoragePowerKW: *bess}
	if err := cand.Validate(); err != nil {
		fatal(err)
	}

	var window dispatch.Window
	if *windowStart >= 0 {
		window = dispatch.Window{Start: *windowStart, End: *windowStart + in.Techs.Hydro.HoursPerDay}
		if err := window.Validate(); err != nil {
			fatal(err)
		}
	} else {
		window = optimize.BestWindow(in.Series, cand, in.Techs).Window
	}

	sim := dispatch.Simulate(in.Series, cand, in.Techs, window)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := dispatch.WriteTraceCSV(*outPath, sim.Trace); err != nil {
		fatal(err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(sim.Trace), *outPath)
	fmt.Printf("Hydro window: %s\n", window)
	fmt.Printf("Served %.0f of %.0f kWh (unmet %.2f%%), excess %.0f kWh\n",
		sim.Totals.ServedKWh, sim.Totals.LoadKWh, sim.Totals.UnmetPercent, sim.Totals.ExcessKWh)
}

func cmdWindows(args []string) {
	fs := flag.NewFlagSet("windows", flag.ExitOnError)
	workbookPath := fs.String("input", "", "Path to input workbook (.xlsx)")
	cfgPath := fs.String("config", "", "Path to YAML config (with --profiles)")
	profilesPath := fs.String("profiles", "", "Path to hourly profiles CSV (with --config)")
	pv, wind, hydro, bess, _ := capacityFlags(fs)
	_ = fs.Parse(args)

	in, err := loadInputs(*workbookPath, *cfgPath, *profilesPath)
	if err != nil {
		fatal(err)
	}

	if err := in.Techs.Validate(); err != nil {
		fatal(err)
	}
	if err := in.Series.Validate(); err != nil {
		fatal(err)
	}

	cand := model.Candidate{PVKW: *pv, WindKW: *wind, HydroKW: *hydro, StoragePowerKW: *bess}
	if err := cand.Validate(); err != nil {
		fatal(err)
	}

	ranked := optimize.RankWindows(in.Series, cand, in.Techs)
	fmt.Printf("%-5s %-13s %-8s\n", "rank", "window", "unmet%")
	for i, w := range ranked {
		fmt.Printf("%-5d %-13s %-8.3f\n", i+1, w.Window, w.UnmetPercent)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
