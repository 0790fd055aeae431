package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/telemetry"
)

// Host commands. Numeric inputs are clamped, never rejected; a clamp that
// changes the requested value is logged.

// BeginApproach launches the pollinator at the best flower.
func (g *Game) BeginApproach() error {
	err := g.controller.BeginApproach(g.tickContext())
	if err != nil {
		slog.Warn("approach not started", "error", err)
		g.controller.SetMessage("no flower to visit")
	}
	g.processEvents()
	return err
}

// AdvanceGeneration replaces the flower population with the next generation.
func (g *Game) AdvanceGeneration() error {
	err := g.advanceGeneration()
	if err != nil {
		slog.Warn("generation not advanced", "error", err)
	}
	return err
}

// SetWindStrength sets wind strength in [0, 1] and returns the applied value.
func (g *Game) SetWindStrength(v float64) float64 {
	g.env.Wind.SetStrength(v)
	applied := g.env.Wind.Strength()
	warnClamped("wind_strength", v, applied)
	return applied
}

// SetWindDirection sets the wind direction in degrees and returns the
// normalized value.
func (g *Game) SetWindDirection(deg float64) float64 {
	g.env.Wind.SetDirection(deg)
	return g.env.Wind.Direction()
}

// SetTimeOfDay sets the time of day in [0, 1] and returns the applied value.
func (g *Game) SetTimeOfDay(v float64) float64 {
	applied := g.env.SetTimeOfDay(v)
	warnClamped("time_of_day", v, applied)
	return applied
}

// SetTimeSpeed sets how fast the day cycle runs. The magnitude is clamped
// and the current direction of travel is kept.
func (g *Game) SetTimeSpeed(v float64) float64 {
	applied := g.env.SetTimeSpeed(v)
	if math.Abs(applied) != math.Abs(v) {
		slog.Warn("value clamped", "field", "time_speed", "requested", v, "applied", applied)
	}
	return applied
}

// SetPollinatorSpecies replaces the pollinator with a new one of the given
// species. Memory starts empty and the controller returns to idle.
// Returns false when the species was unknown and the generic profile is used.
func (g *Game) SetPollinatorSpecies(name string) bool {
	g.controller.Reset(g.pollinator)
	p, ok := g.newPollinator(name)
	g.pollinator = p
	g.controller.SetMessage("")
	return ok
}

// SetPopulationSize clamps n to the configured bounds, lays out a fresh
// field and returns to idle. Returns the applied size.
func (g *Game) SetPopulationSize(n int) int {
	applied := clampPopulation(g.cfg, n)
	if applied != n {
		slog.Warn("value clamped", "field", "population_size", "requested", n, "applied", applied)
	}
	g.populationSize = applied
	g.field.Layout(applied, g.rng)
	g.pollinator.ClearMemory()
	g.controller.Reset(g.pollinator)
	g.controller.SetMessage("")
	g.collector.Reset(g.Tick(), g.evolver.Generation())
	return applied
}

// ResetField restarts the experiment: generation 1, ids from 1, a fresh
// layout, empty memory and an idle controller. Records from the previous
// experiment are dropped since flower ids start over.
func (g *Game) ResetField() {
	g.evolver.ResetGeneration()
	g.field.Reset()
	g.field.Layout(g.populationSize, g.rng)
	g.pollinator.ClearMemory()
	g.controller.Reset(g.pollinator)
	g.controller.SetMessage("")
	g.collector.Reset(g.Tick(), g.evolver.Generation())
	g.hallOfFame.Clear()
	g.bookmarkDetector = telemetry.NewBookmarkDetector(g.cfg.Telemetry.BookmarkHistorySize, bookmarkParams(g.cfg))
}

// SetAutoselection toggles periodic automatic generations.
func (g *Game) SetAutoselection(on bool) {
	g.autoselect = on
}

// Autoselection reports whether automatic generations are enabled.
func (g *Game) Autoselection() bool {
	return g.autoselect
}

func clampPopulation(cfg *config.Config, n int) int {
	return components.ClampInt(n, cfg.Population.Min, cfg.Population.Max)
}

func warnClamped(field string, requested, applied float64) {
	if requested != applied {
		slog.Warn("value clamped", "field", field, "requested", requested, "applied", applied)
	}
}
