// Package flora models flowers: phenotype, nectar and pollen economy,
// attractiveness scoring and the stochastic pollination outcome.
package flora

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/environment"
	"github.com/pthm-cable/bloom/traits"
)

// Phenotype bounds.
const (
	MinPetals         = 3
	MaxPetals         = 12
	MinNectarCapacity = 0.3
	MaxNectarCapacity = 1.2
	MinRegenRate      = 0.0005
	MaxRegenRate      = 0.01
)

// Attractiveness weights. Night favors scent over color.
const (
	colorWeight      = 0.45
	scentWeight      = 0.30
	uvWeight         = 0.25
	colorDayFactor   = 1.1
	colorNightFactor = 0.7
	scentDayFactor   = 0.9
	scentNightFactor = 1.4
)

// Pollination economy.
const (
	successNectar     = 0.25 // Max nectar handed over on a successful probe
	failNectar        = 0.08 // Max nectar handed over on a failed probe
	failRefuelFactor  = 0.6  // Fraction of failed-probe nectar that becomes energy
	pollenLoadPerHit  = 0.3
	pollenDrainOnHit  = 0.2
	pollenDrainOnMiss = 0.05
	initialNectarFrac = 0.8
	neutralPollen     = 0.5
)

// Visitor is the pollinator side of an interaction.
type Visitor interface {
	Profile() traits.Profile
	Refuel(amount float64)
	CarryPollen(amount float64)
	RememberFlower(id int, success bool)
}

// Params holds the constructor inputs for a flower. Zero-valued fields are
// not defaults; use DefaultParams as the starting point.
type Params struct {
	SpurLength     float64
	Hue            float64
	UVIndex        float64
	ScentIntensity float64
	PetalCount     int
	NectarCapacity float64
	RegenRate      float64
	Pollen         float64
}

// DefaultParams returns the phenotype used when nothing else is specified.
func DefaultParams() Params {
	return Params{
		SpurLength:     0.5,
		Hue:            20,
		UVIndex:        0.5,
		ScentIntensity: 0.5,
		PetalCount:     6,
		NectarCapacity: 1.0,
		RegenRate:      0.002,
		Pollen:         neutralPollen,
	}
}

// Flower is a single plant in the field.
type Flower struct {
	ID     int
	Center components.Vec2

	// Phenotype
	SpurLength     float64
	Hue            float64
	UVIndex        float64
	ScentIntensity float64
	PetalCount     int
	NectarCapacity float64
	RegenRate      float64

	// Economy and fitness
	Nectar    float64
	Pollen    float64
	SeedCount int
	Successes int
	Visits    int
}

// Result is the outcome of a single probe.
type Result struct {
	FlowerID    int
	Success     bool
	ReachOK     bool
	ContactProb float64
	WindPenalty float64
	Attract     float64
}

// New creates a flower with the given id, center and phenotype.
// Nectar starts at 80% of capacity.
func New(id int, center components.Vec2, p Params) *Flower {
	f := &Flower{
		ID:             id,
		Center:         center,
		SpurLength:     p.SpurLength,
		Hue:            p.Hue,
		UVIndex:        p.UVIndex,
		ScentIntensity: p.ScentIntensity,
		PetalCount:     p.PetalCount,
		NectarCapacity: p.NectarCapacity,
		RegenRate:      p.RegenRate,
		Pollen:         p.Pollen,
	}
	f.Clamp()
	f.Nectar = f.NectarCapacity * initialNectarFrac
	return f
}

// Clamp forces every bounded field back into range.
func (f *Flower) Clamp() {
	f.SpurLength = components.Clamp01(f.SpurLength)
	f.Hue = components.WrapDegrees(f.Hue)
	f.UVIndex = components.Clamp01(f.UVIndex)
	f.ScentIntensity = components.Clamp01(f.ScentIntensity)
	f.PetalCount = components.ClampInt(f.PetalCount, MinPetals, MaxPetals)
	f.NectarCapacity = components.Clamp(f.NectarCapacity, MinNectarCapacity, MaxNectarCapacity)
	f.RegenRate = components.Clamp(f.RegenRate, MinRegenRate, MaxRegenRate)
	f.Nectar = components.Clamp(f.Nectar, 0, f.NectarCapacity)
	f.Pollen = components.Clamp01(f.Pollen)
	if f.SeedCount < 0 {
		f.SeedCount = 0
	}
	if f.Successes < 0 {
		f.Successes = 0
	}
	if f.Visits < 0 {
		f.Visits = 0
	}
}

// NectarReach returns the proboscis reach needed to access the nectar.
func (f *Flower) NectarReach() float64 {
	return 0.4 + 0.6*f.SpurLength
}

// GuidePoint returns the UV nectar guide above the center. Stronger UV
// patterns sit further out.
func (f *Flower) GuidePoint() components.Vec2 {
	r := 18 + 32*f.UVIndex
	return r2.Add(f.Center, components.V(0, -r))
}

// AttractivenessFor scores the flower for a sensory profile at a time of day.
func (f *Flower) AttractivenessFor(p traits.Profile, timeOfDay float64) float64 {
	colorScore := p.PreferHue(f.Hue)
	uvScore := f.UVIndex * p.UVAffinity
	scentScore := f.ScentIntensity * p.ScentSensitivity

	wColor := colorWeight * colorDayFactor
	wScent := scentWeight * scentDayFactor
	if environment.IsNight(timeOfDay) {
		wColor = colorWeight * colorNightFactor
		wScent = scentWeight * scentNightFactor
	}

	return components.Clamp01(wColor*colorScore + uvWeight*uvScore + wScent*scentScore)
}

// RegenNectar refills nectar by the regen rate, up to capacity.
func (f *Flower) RegenNectar() {
	f.Nectar = components.Clamp(f.Nectar+f.RegenRate, 0, f.NectarCapacity)
}

// ProvideNectar withdraws up to maxAmount of nectar and returns what was taken.
func (f *Flower) ProvideNectar(maxAmount float64) float64 {
	take := math.Min(f.Nectar, math.Max(0, maxAmount))
	f.Nectar -= take
	return take
}

// Fitness is the selection score: successes count double, plus seeds.
func (f *Flower) Fitness() int {
	return 2*f.Successes + f.SeedCount
}

// TryPollination resolves one probe by v. Reach failure always fails,
// whatever the contact probability. wind may be nil for still air.
func (f *Flower) TryPollination(v Visitor, wind *environment.Wind, timeOfDay float64, rng *rand.Rand) Result {
	f.Visits++

	prof := v.Profile()
	reachOK := prof.EffectiveReach() >= f.NectarReach()

	var windPenalty float64
	if wind != nil {
		windPenalty = wind.ContactPenalty(prof.TurbulenceTolerance)
	}

	attract := f.AttractivenessFor(prof, timeOfDay)

	nectarFactor := 1.0
	if f.Nectar <= 0 {
		nectarFactor = 0.6
	}

	baseContact := 0.25 + 0.6*attract
	contactProb := components.Clamp01(baseContact * nectarFactor * (1 - windPenalty) * (0.6 + 0.6*f.Pollen))

	// Always draw so the random stream does not depend on reach
	draw := rng.Float64()
	success := reachOK && draw < contactProb

	if success {
		f.SeedCount += int(math.Floor(1 + 4*attract))
		f.Pollen = math.Max(0, f.Pollen-pollenDrainOnHit)
		v.CarryPollen(pollenLoadPerHit)
		v.Refuel(f.ProvideNectar(successNectar))
		f.Successes++
	} else {
		f.Pollen = math.Max(0, f.Pollen-pollenDrainOnMiss*(0.5+windPenalty))
		v.Refuel(f.ProvideNectar(failNectar) * failRefuelFactor)
	}

	v.RememberFlower(f.ID, success)

	return Result{
		FlowerID:    f.ID,
		Success:     success,
		ReachOK:     reachOK,
		ContactProb: contactProb,
		WindPenalty: windPenalty,
		Attract:     attract,
	}
}

// State is a read-only copy of a flower for snapshots.
type State struct {
	ID             int
	X, Y           float64
	SpurLength     float64
	Hue            float64
	UVIndex        float64
	ScentIntensity float64
	PetalCount     int
	NectarCapacity float64
	RegenRate      float64
	Nectar         float64
	Pollen         float64
	SeedCount      int
	Successes      int
	Visits         int
	Fitness        int
}

// Snapshot returns a copy of the flower's state.
func (f *Flower) Snapshot() State {
	return State{
		ID:             f.ID,
		X:              f.Center.X,
		Y:              f.Center.Y,
		SpurLength:     f.SpurLength,
		Hue:            f.Hue,
		UVIndex:        f.UVIndex,
		ScentIntensity: f.ScentIntensity,
		PetalCount:     f.PetalCount,
		NectarCapacity: f.NectarCapacity,
		RegenRate:      f.RegenRate,
		Nectar:         f.Nectar,
		Pollen:         f.Pollen,
		SeedCount:      f.SeedCount,
		Successes:      f.Successes,
		Visits:         f.Visits,
		Fitness:        f.Fitness(),
	}
}
