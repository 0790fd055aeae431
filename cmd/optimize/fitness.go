package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/game"
	"github.com/pthm-cable/bloom/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	species    string
	baseConfig *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, species string, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		species:     species,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Generations scored at the end of a run. Early generations are still
// adapting to the pollinator and are skipped.
const (
	tailGenerations   = 4
	qualityMinProbes  = 1
	qualityWeightSpur = 0.5
	qualityWeightHue  = 0.5
)

// runResult holds the results from a single simulation run.
type runResult struct {
	generations []telemetry.GenerationStats // collected via StatsCallback
	hallOfFame  *telemetry.HallOfFame
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	quality    float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness:    computeFitness(result.generations),
				quality:    computeQuality(result.generations),
				hallOfFame: result.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g, err := game.NewGameWithOptions(cfg, game.Options{
		Seed:         seed,
		Species:      fe.species,
		AutoApproach: true,
		Autoselect:   true,
		StatsCallback: func(stats telemetry.GenerationStats) {
			result.generations = append(result.generations, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.Update()
	}

	result.hallOfFame = g.HallOfFame()
	return result
}

// copyConfig returns an independent copy of the base config.
// Config holds only value fields, so a struct copy is enough.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// tail returns the last tailGenerations generations that saw at least one probe.
func tail(gens []telemetry.GenerationStats) []telemetry.GenerationStats {
	var probed []telemetry.GenerationStats
	for _, g := range gens {
		if g.Probes >= qualityMinProbes {
			probed = append(probed, g)
		}
	}
	if len(probed) > tailGenerations {
		probed = probed[len(probed)-tailGenerations:]
	}
	return probed
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(tailSuccessRate × (1.0 + 0.2 × quality))
// Late success rate dominates; quality separates configs with similar rates.
func computeFitness(gens []telemetry.GenerationStats) float64 {
	t := tail(gens)
	if len(t) == 0 {
		return 0
	}
	rates := make([]float64, len(t))
	for i, g := range t {
		rates[i] = g.SuccessRate
	}
	return -(stat.Mean(rates, nil) * (1.0 + 0.2*computeQuality(gens)))
}

// computeQuality scores how settled the late population is, in [0, 1].
// Tight spur lengths and a concentrated hue both count as settled.
func computeQuality(gens []telemetry.GenerationStats) float64 {
	t := tail(gens)
	if len(t) == 0 {
		return 0
	}

	spur := make([]float64, len(t))
	hue := make([]float64, len(t))
	for i, g := range t {
		spur[i] = math.Exp(-g.SpurStd / 0.1)
		hue[i] = g.HueConcentration
	}

	quality := qualityWeightSpur*stat.Mean(spur, nil) +
		qualityWeightHue*stat.Mean(hue, nil)
	return components.Clamp01(quality)
}
