package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/bloom/systems"
	"github.com/pthm-cable/bloom/telemetry"
)

// processEvents folds events raised by systems into telemetry and queues
// them for the host.
func (g *Game) processEvents() {
	for _, e := range g.events.Drain() {
		g.collector.RecordEvent(e)

		if e.Type == telemetry.EventPollination && g.outputManager != nil {
			rec := telemetry.NewInteractionRecord(e, g.evolver.Generation(), g.pollinator.Species(), g.env.TimeOfDay)
			if err := g.outputManager.WriteInteraction(rec); err != nil {
				slog.Error("failed to write interaction", "error", err)
			}
		}

		g.outbox.Push(e)
	}
}

// flushGeneration records stats for the generation that was just replaced
// and handles bookmarks.
func (g *Game) flushGeneration(report systems.GenerationReport) {
	stats := g.collector.Flush(g.Tick(), report.Generation, report.EliteCount, report.Previous)

	g.hallOfFame.ConsiderAll(stats.Generation, report.Previous)

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation stats", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

func generationMessage(report systems.GenerationReport) string {
	return fmt.Sprintf("generation %d: elites=%d", report.Generation, report.EliteCount)
}
