package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/bloom/systems"
)

// Update runs a single tick of the simulation.
func (g *Game) Update() {
	// 1. Day cycle and wind
	g.env.Advance()

	// 2. Nectar regenerates on every flower regardless of phase
	g.field.RegenAll()

	// 3. Interaction cycle
	g.controller.Step(g.tickContext())

	// 4. Periodic autoselection
	if g.autoselectDue() {
		if err := g.advanceGeneration(); err != nil {
			slog.Warn("autoselection skipped", "tick", g.Tick(), "error", err)
		}
	}

	// 5. Movement
	if phase := g.controller.Phase(); phase != systems.PhaseIdle {
		g.pollinator.Update(g.env.Wind, phase == systems.PhaseProbe)
	}

	// 6. Scripted approaches for headless runs
	if g.autoApproach && g.controller.Phase() == systems.PhaseIdle {
		if err := g.controller.BeginApproach(g.tickContext()); err != nil && !errors.Is(err, systems.ErrNoTarget) {
			slog.Error("auto approach failed", "error", err)
		}
	}

	g.processEvents()
}

func (g *Game) autoselectDue() bool {
	interval := int64(g.cfg.Interaction.AutoselectInterval)
	return g.autoselect && interval > 0 && g.Tick()%interval == 0
}

// advanceGeneration breeds the next generation and records telemetry for
// the outgoing one.
func (g *Game) advanceGeneration() error {
	// Probe events from this tick belong to the outgoing generation
	g.processEvents()

	report, err := g.evolver.Advance(g.tickContext(), g.controller, g.populationSize)
	if err != nil {
		return err
	}
	g.controller.SetMessage(generationMessage(report))
	g.flushGeneration(report)
	g.processEvents()
	return nil
}
