package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/game"
	"github.com/pthm-cable/bloom/traits"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 18000, "Stop after N ticks (0 = unlimited)")
	species := flag.String("species", "", "Pollinator species (empty = config default)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output generation stats via slog")
	autoApproach := flag.Bool("auto-approach", true, "Start a new approach whenever the pollinator is idle")
	autoselect := flag.Bool("autoselect", true, "Advance a generation every autoselect interval")
	listSpecies := flag.Bool("list-species", false, "Print known pollinator species and exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *listSpecies {
		for _, name := range traits.Species() {
			slog.Info("species", "name", name)
		}
		return
	}

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:         rngSeed,
		Species:      *species,
		OutputDir:    *outputDir,
		LogStats:     *logStats,
		AutoApproach: *autoApproach,
		Autoselect:   *autoselect,
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"species", g.Snapshot().Pollinator.Species,
		"population", g.PopulationSize(),
		"output_dir", *outputDir,
	)

	for {
		g.Update()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			snap := g.Snapshot()
			slog.Info("max ticks reached",
				"tick", snap.Tick,
				"generation", snap.Generation,
				"hall_of_fame_top", g.HallOfFame().TopFitness(),
			)
			return
		}
	}
}
