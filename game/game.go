// Package game wires the simulation systems into a tick loop and exposes
// host commands and snapshots.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/environment"
	"github.com/pthm-cable/bloom/pollinator"
	"github.com/pthm-cable/bloom/systems"
	"github.com/pthm-cable/bloom/telemetry"
)

// Options configures a new game.
type Options struct {
	Seed         int64
	Species      string // empty = config default
	OutputDir    string // empty = no experiment output
	LogStats     bool
	AutoApproach bool // start a new approach whenever the controller is idle
	Autoselect   bool

	// StatsCallback, if set, receives every flushed generation.
	StatsCallback func(telemetry.GenerationStats)
}

// Game is the simulation core: one field of flowers, one pollinator.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	env        *environment.Environment
	field      *systems.Field
	pollinator *pollinator.Pollinator
	controller *systems.InteractionController
	evolver    *systems.Evolver

	populationSize int
	autoselect     bool
	autoApproach   bool

	// Events raised by systems during a step, and those awaiting the host
	events telemetry.EventBuffer
	outbox telemetry.EventBuffer

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	hallOfFame       *telemetry.HallOfFame
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.GenerationStats)
}

// NewGameWithOptions creates a game from the given config.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:              cfg,
		rng:              rng,
		populationSize:   clampPopulation(cfg, cfg.Population.Initial),
		autoselect:       opts.Autoselect,
		autoApproach:     opts.AutoApproach,
		collector:        telemetry.NewCollector(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, bookmarkParams(cfg)),
		hallOfFame:       telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	// Gust noise is seeded from the simulation stream so a seed fixes everything
	g.env = environment.New(environmentParams(cfg, rng.Int63()))

	g.field = systems.NewField(fieldParams(cfg))
	g.field.Layout(g.populationSize, rng)

	species := opts.Species
	if species == "" {
		species = cfg.Pollinator.Species
	}
	g.pollinator, _ = g.newPollinator(species)

	g.controller = systems.NewInteractionController(controllerParams(cfg))
	g.evolver = systems.NewEvolver(evolverParams(cfg))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	return g, nil
}

// newPollinator builds a pollinator, warning when the species is unknown.
func (g *Game) newPollinator(species string) (*pollinator.Pollinator, bool) {
	p, ok := pollinator.New(species, movement(g.cfg), g.rng)
	if !ok {
		slog.Warn("unknown pollinator species, using generic profile", "species", species)
	}
	return p, ok
}

// tickContext bundles the state handed to systems.
func (g *Game) tickContext() *systems.TickContext {
	return &systems.TickContext{
		Field:      g.field,
		Pollinator: g.pollinator,
		Env:        g.env,
		Rng:        g.rng,
		Events:     &g.events,
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.env.Tick()
}

// Generation returns the current generation number.
func (g *Game) Generation() int {
	return g.evolver.Generation()
}

// Phase returns the interaction phase.
func (g *Game) Phase() systems.Phase {
	return g.controller.Phase()
}

// PopulationSize returns the target flower count.
func (g *Game) PopulationSize() int {
	return g.populationSize
}

// HallOfFame returns the fittest flowers seen so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// Events drains the events raised since the last call.
func (g *Game) Events() []telemetry.Event {
	return g.outbox.Drain()
}

// Unload writes final output and closes files.
func (g *Game) Unload() {
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
