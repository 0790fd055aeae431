package telemetry

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/bloom/flora"
)

// Collector accumulates events within a generation and produces
// GenerationStats when the generation is replaced.
type Collector struct {
	generation     int
	generationTick int64

	// Event counters for the current generation
	approaches    int
	probes        int
	successes     int
	reachFailures int
	contactSum    float64
	penaltySum    float64
}

// NewCollector creates a collector starting at generation 1.
func NewCollector() *Collector {
	return &Collector{generation: 1}
}

// Generation returns the generation being collected.
func (c *Collector) Generation() int { return c.generation }

// RecordEvent folds an event into the current counters.
func (c *Collector) RecordEvent(e Event) {
	switch e.Type {
	case EventApproach:
		c.approaches++
	case EventPollination:
		c.probes++
		if e.Success {
			c.successes++
		}
		if !e.ReachOK {
			c.reachFailures++
		}
		c.contactSum += e.ContactProb
		c.penaltySum += e.WindPenalty
	}
}

// Flush produces GenerationStats for the outgoing population and resets
// counters for the next generation.
func (c *Collector) Flush(currentTick int64, nextGeneration, eliteCount int, population []flora.State) GenerationStats {
	stats := GenerationStats{
		Generation:    c.generation,
		StartTick:     c.generationTick,
		EndTick:       currentTick,
		Population:    len(population),
		EliteCount:    eliteCount,
		Approaches:    c.approaches,
		Probes:        c.probes,
		Successes:     c.successes,
		ReachFailures: c.reachFailures,
	}
	if c.probes > 0 {
		stats.SuccessRate = float64(c.successes) / float64(c.probes)
		stats.MeanContact = c.contactSum / float64(c.probes)
		stats.MeanWindPenalty = c.penaltySum / float64(c.probes)
	}

	fillTraitStats(&stats, population)

	c.generation = nextGeneration
	c.generationTick = currentTick
	c.approaches = 0
	c.probes = 0
	c.successes = 0
	c.reachFailures = 0
	c.contactSum = 0
	c.penaltySum = 0

	return stats
}

// Reset discards the current counters and restarts at the given generation.
func (c *Collector) Reset(currentTick int64, generation int) {
	*c = Collector{generation: generation, generationTick: currentTick}
}

// fillTraitStats computes population trait distributions.
func fillTraitStats(s *GenerationStats, population []flora.State) {
	n := len(population)
	if n == 0 {
		return
	}

	fitness := make([]float64, n)
	seeds := make([]float64, n)
	spur := make([]float64, n)
	uv := make([]float64, n)
	scent := make([]float64, n)
	petals := make([]float64, n)
	capacity := make([]float64, n)
	regen := make([]float64, n)
	nectar := make([]float64, n)
	hues := make([]float64, n)

	for i, f := range population {
		fitness[i] = float64(f.Fitness)
		seeds[i] = float64(f.SeedCount)
		spur[i] = f.SpurLength
		uv[i] = f.UVIndex
		scent[i] = f.ScentIntensity
		petals[i] = float64(f.PetalCount)
		capacity[i] = f.NectarCapacity
		regen[i] = f.RegenRate
		nectar[i] = f.Nectar
		hues[i] = f.Hue
	}

	s.FitnessMax = floats.Max(fitness)
	s.FitnessTotal = floats.Sum(fitness)
	s.FitnessMean = stat.Mean(fitness, nil)
	sorted := slices.Clone(fitness)
	slices.Sort(sorted)
	s.FitnessMedian = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.SeedsTotal = int(floats.Sum(seeds))

	s.SpurMean, s.SpurStd = stat.PopMeanStdDev(spur, nil)
	s.UVMean, s.UVStd = stat.PopMeanStdDev(uv, nil)
	s.ScentMean, s.ScentStd = stat.PopMeanStdDev(scent, nil)
	s.PetalMean = stat.Mean(petals, nil)
	s.CapacityMean = stat.Mean(capacity, nil)
	s.RegenMean = stat.Mean(regen, nil)
	s.NectarMean = stat.Mean(nectar, nil)
	s.HueMean, s.HueConcentration = CircularHueStats(hues)
}

// CircularHueStats returns the circular mean hue in [0, 360) and the mean
// resultant length in [0, 1] (1 = every hue identical).
func CircularHueStats(hues []float64) (mean, concentration float64) {
	if len(hues) == 0 {
		return 0, 0
	}
	sin := make([]float64, len(hues))
	cos := make([]float64, len(hues))
	for i, h := range hues {
		rad := h * math.Pi / 180
		sin[i] = math.Sin(rad)
		cos[i] = math.Cos(rad)
	}
	sy := stat.Mean(sin, nil)
	sx := stat.Mean(cos, nil)

	concentration = math.Hypot(sx, sy)
	mean = math.Atan2(sy, sx) * 180 / math.Pi
	if mean < 0 {
		mean += 360
	}
	return mean, concentration
}
