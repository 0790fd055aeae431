package flora

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/bloom/components"
)

// Mutation and crossover jitter half-widths.
const (
	hueMutation      = 30.0   // Hue jitter in degrees, independent of scale
	capacityMutation = 0.1    // Nectar capacity jitter
	regenMutation    = 0.001  // Regen rate jitter
	blendJitter      = 0.05   // Jitter added to blended traits
	regenBlendJitter = 0.0005 // Jitter added to the blended regen rate
	hueBlendJitter   = 20.0   // Jitter around the parents' hue midpoint
	minBlend         = 0.3
	maxBlend         = 0.7
)

// IDGenerator hands out flower ids. Ids are never reused until Reset.
type IDGenerator struct {
	nextID int
}

// NewIDGenerator creates a generator starting at 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{nextID: 1}
}

// Next returns the next unique id.
func (g *IDGenerator) Next() int {
	id := g.nextID
	g.nextID++
	return id
}

// Peek returns the id the next call to Next will hand out.
func (g *IDGenerator) Peek() int {
	return g.nextID
}

// Reset restarts the sequence at 1.
func (g *IDGenerator) Reset() {
	g.nextID = 1
}

// petalStep returns -1, 0 or +1 with equal probability.
func petalStep(rng *rand.Rand) int {
	return rng.Intn(3) - 1
}

// jitter returns v plus uniform noise of half-width s.
func jitter(rng *rand.Rand, v, s float64) float64 {
	return v + components.Uniform(rng, -s, s)
}

// Mutate jitters the phenotype and resets fitness and economy. A flower's
// fitness history does not survive mutation.
func (f *Flower) Mutate(scale float64, rng *rand.Rand) {
	f.SpurLength = jitter(rng, f.SpurLength, scale)
	f.Hue = jitter(rng, f.Hue, hueMutation)
	f.UVIndex = jitter(rng, f.UVIndex, scale)
	f.ScentIntensity = jitter(rng, f.ScentIntensity, scale)
	f.PetalCount += petalStep(rng)
	f.NectarCapacity = jitter(rng, f.NectarCapacity, capacityMutation)
	f.RegenRate = jitter(rng, f.RegenRate, regenMutation)

	f.SeedCount = 0
	f.Successes = 0
	f.Visits = 0
	f.Pollen = neutralPollen
	f.Clamp()
	f.Nectar = f.NectarCapacity * initialNectarFrac
}

// Crossover blends two parents into a child with the given id.
//
// One blend weight in [0.3, 0.7] is drawn per call and shared by spur, UV,
// scent, nectar capacity and regen rate. Hue is the plain midpoint plus
// jitter; petals round the midpoint and step by at most one. The child sits
// on a's center until the caller relocates it.
func Crossover(a, b *Flower, id int, rng *rand.Rand) *Flower {
	w := components.Uniform(rng, minBlend, maxBlend)
	mix := func(x, y float64) float64 { return x*w + y*(1-w) }

	p := Params{
		SpurLength:     jitter(rng, mix(a.SpurLength, b.SpurLength), blendJitter),
		Hue:            jitter(rng, (a.Hue+b.Hue)/2, hueBlendJitter),
		UVIndex:        jitter(rng, mix(a.UVIndex, b.UVIndex), blendJitter),
		ScentIntensity: jitter(rng, mix(a.ScentIntensity, b.ScentIntensity), blendJitter),
		PetalCount:     int(math.Round(float64(a.PetalCount+b.PetalCount)/2)) + petalStep(rng),
		NectarCapacity: jitter(rng, mix(a.NectarCapacity, b.NectarCapacity), blendJitter),
		RegenRate:      jitter(rng, mix(a.RegenRate, b.RegenRate), regenBlendJitter),
		Pollen:         neutralPollen,
	}

	return New(id, a.Center, p)
}
