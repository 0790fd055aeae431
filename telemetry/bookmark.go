package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSuccessSurge      BookmarkType = "success_surge"
	BookmarkReachBreakthrough BookmarkType = "reach_breakthrough"
	BookmarkTraitConvergence  BookmarkType = "trait_convergence"
	BookmarkFitnessRecord     BookmarkType = "fitness_record"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkParams holds detection thresholds.
type BookmarkParams struct {
	SurgeMultiplier   float64 // Success rate over rolling mean that counts as a surge
	SurgeMinAttempts  int     // Probes needed before rate-based bookmarks fire
	ConvergenceStdDev float64 // Spur length spread below which the population has converged
}

// BookmarkDetector detects notable generations.
type BookmarkDetector struct {
	params BookmarkParams

	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	bestFitness float64
	converged   bool // latched until spread widens again
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, params BookmarkParams) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a rolling average
	}
	if params.SurgeMinAttempts < 1 {
		params.SurgeMinAttempts = 1
	}
	return &BookmarkDetector{
		params:      params,
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Success surge: success rate > multiplier x rolling average
		if b := bd.checkSuccessSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Reach breakthrough: reach failures vanish after dominating
		if b := bd.checkReachBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Fitness record: best generation so far
		if b := bd.checkFitnessRecord(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Trait convergence does not need history
	if b := bd.checkTraitConvergence(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.FitnessMax > bd.bestFitness {
		bd.bestFitness = stats.FitnessMax
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// latest returns the most recently added stats.
func (bd *BookmarkDetector) latest() GenerationStats {
	idx := bd.historyIdx - 1
	if idx < 0 {
		idx = bd.historySize - 1
	}
	return bd.history[idx]
}

func (bd *BookmarkDetector) checkSuccessSurge(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 || stats.Probes < bd.params.SurgeMinAttempts {
		return nil
	}

	var totalSuccesses, totalProbes int
	for _, h := range history {
		totalSuccesses += h.Successes
		totalProbes += h.Probes
	}
	if totalProbes == 0 {
		return nil
	}

	avgRate := float64(totalSuccesses) / float64(totalProbes)
	if avgRate == 0 {
		if stats.Successes == 0 {
			return nil
		}
		return &Bookmark{
			Type:        BookmarkSuccessSurge,
			Generation:  stats.Generation,
			Tick:        stats.EndTick,
			Description: fmt.Sprintf("First successes: %d of %d probes", stats.Successes, stats.Probes),
		}
	}

	if stats.SuccessRate > avgRate*bd.params.SurgeMultiplier {
		return &Bookmark{
			Type:        BookmarkSuccessSurge,
			Generation:  stats.Generation,
			Tick:        stats.EndTick,
			Description: fmt.Sprintf("Success rate %.2f is %.1fx average (%.2f)", stats.SuccessRate, stats.SuccessRate/avgRate, avgRate),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkReachBreakthrough(stats GenerationStats) *Bookmark {
	prev := bd.latest()
	if prev.Probes < bd.params.SurgeMinAttempts || stats.Probes < bd.params.SurgeMinAttempts {
		return nil
	}

	prevRate := float64(prev.ReachFailures) / float64(prev.Probes)
	if prevRate >= 0.5 && stats.ReachFailures == 0 {
		return &Bookmark{
			Type:        BookmarkReachBreakthrough,
			Generation:  stats.Generation,
			Tick:        stats.EndTick,
			Description: fmt.Sprintf("Reach failures fell from %.0f%% to none (spur mean %.2f)", prevRate*100, stats.SpurMean),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkFitnessRecord(stats GenerationStats) *Bookmark {
	if bd.bestFitness <= 0 || stats.FitnessMax <= bd.bestFitness {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFitnessRecord,
		Generation:  stats.Generation,
		Tick:        stats.EndTick,
		Description: fmt.Sprintf("Best flower fitness %.0f beats previous record %.0f", stats.FitnessMax, bd.bestFitness),
	}
}

func (bd *BookmarkDetector) checkTraitConvergence(stats GenerationStats) *Bookmark {
	if stats.Population < 2 {
		return nil
	}

	if stats.SpurStd >= bd.params.ConvergenceStdDev {
		bd.converged = false
		return nil
	}
	if bd.converged {
		return nil
	}

	bd.converged = true
	return &Bookmark{
		Type:        BookmarkTraitConvergence,
		Generation:  stats.Generation,
		Tick:        stats.EndTick,
		Description: fmt.Sprintf("Spur length converged at %.2f (std %.3f)", stats.SpurMean, stats.SpurStd),
	}
}
