// Package pollinator models the single active pollinator: its species
// profile, movement and energy, target selection and learned flower memory.
package pollinator

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/environment"
	"github.com/pthm-cable/bloom/flora"
	"github.com/pthm-cable/bloom/traits"
)

// Movement holds the movement and energy tuning of a pollinator.
type Movement struct {
	MaxSpeed       float64
	SpeedCost      float64
	HoverCost      float64
	CruiseCost     float64
	BaseTurnRate   float64
	HoverTurnRate  float64
	ApproachEnergy float64
}

// DefaultMovement returns the stock movement tuning.
func DefaultMovement() Movement {
	return Movement{
		MaxSpeed:       2.6,
		SpeedCost:      0.0008,
		HoverCost:      0.0015,
		CruiseCost:     0.0004,
		BaseTurnRate:   0.12,
		HoverTurnRate:  0.25,
		ApproachEnergy: 0.4,
	}
}

// Target selection weights.
const (
	emptyNectarFactor = 0.5 // Score multiplier for a flower with no nectar
	memoryWeight      = 0.3 // Weight of learned affinity in the target score
	farPenalty        = 0.3 // Distance penalty at the far edge of the field
)

// Pollinator is the active pollinator agent.
type Pollinator struct {
	profile traits.Profile
	move    Movement

	Pos        components.Vec2
	Vel        components.Vec2
	Energy     float64
	PollenLoad float64

	target       components.Vec2
	hasTarget    bool
	targetFlower int // 0 = none

	memory memory
}

// New creates a pollinator of the given species at a random spawn point.
// Returns ok=false when the species is unrecognized and the generic profile
// was used.
func New(species string, move Movement, rng *rand.Rand) (*Pollinator, bool) {
	p := &Pollinator{
		move:   move,
		Energy: 1.0,
		memory: newMemory(),
	}
	ok := p.SetSpecies(species)
	p.Pos = components.V(components.Uniform(rng, 80, 200), components.Uniform(rng, 80, 300))
	return p, ok
}

// SetSpecies assigns the species profile and clears memory.
func (p *Pollinator) SetSpecies(species string) bool {
	prof, ok := traits.ProfileFor(species)
	p.profile = prof
	p.memory.clear()
	return ok
}

// Profile returns the species trait profile.
func (p *Pollinator) Profile() traits.Profile { return p.profile }

// Species returns the species name.
func (p *Pollinator) Species() string { return p.profile.Species }

// Movement returns the movement tuning.
func (p *Pollinator) Movement() Movement { return p.move }

// Target returns the current steering target, if any.
func (p *Pollinator) Target() (components.Vec2, bool) {
	return p.target, p.hasTarget
}

// SetTarget points the pollinator at a position.
func (p *Pollinator) SetTarget(pt components.Vec2) {
	p.target = pt
	p.hasTarget = true
}

// TargetFlower returns the id of the flower being visited, or 0.
// The id is a weak reference: resolve it through the current population.
func (p *Pollinator) TargetFlower() int { return p.targetFlower }

// ClearTarget drops both the target point and the target flower.
func (p *Pollinator) ClearTarget() {
	p.target = components.Vec2{}
	p.hasTarget = false
	p.targetFlower = 0
}

// PickTarget selects the best-scoring flower and aims at its guide point.
// The first flower wins ties. Returns nil when there are no candidates.
func (p *Pollinator) PickTarget(flowers []*flora.Flower, timeOfDay, fieldWidth float64) *flora.Flower {
	var best *flora.Flower
	bestScore := -1.0

	for _, f := range flowers {
		if score := p.Score(f, timeOfDay, fieldWidth); score > bestScore {
			bestScore = score
			best = f
		}
	}

	if best != nil {
		p.SetTarget(best.GuidePoint())
		p.targetFlower = best.ID
	}
	return best
}

// Score rates a flower as a target: attractiveness discounted by empty
// nectar and distance, plus learned affinity.
func (p *Pollinator) Score(f *flora.Flower, timeOfDay, fieldWidth float64) float64 {
	attract := f.AttractivenessFor(p.profile, timeOfDay)

	nectarFactor := 1.0
	if f.Nectar <= 0 {
		nectarFactor = emptyNectarFactor
	}

	distancePenalty := 1.0
	if fieldWidth > 0 {
		distancePenalty = 1.0 - (1.0-farPenalty)*components.Dist(p.Pos, f.Center)/fieldWidth
	}

	return attract*nectarFactor*distancePenalty + p.Affinity(f.ID)*memoryWeight
}

// PrepareApproach moves the pollinator to a launch point, stops it and
// guarantees enough energy to fly.
func (p *Pollinator) PrepareApproach(rng *rand.Rand) {
	p.Pos = components.V(components.Uniform(rng, 40, 180), components.Uniform(rng, 60, 300))
	p.Vel = components.Vec2{}
	p.Energy = math.Max(p.Energy, p.move.ApproachEnergy)
}

// Update advances movement and energy by one tick. probing selects the
// hover cost. No-op without a target.
func (p *Pollinator) Update(wind *environment.Wind, probing bool) {
	if !p.hasTarget {
		return
	}

	hover := p.profile.HoverSkill

	speedCost := r2.Norm(p.Vel) * p.move.SpeedCost
	hoverCost := p.move.CruiseCost
	if probing {
		hoverCost = p.move.HoverCost * (1.0 - hover)
	}
	p.Energy = math.Max(0, p.Energy-speedCost-hoverCost)

	energyFactor := 0.6 + 0.4*p.Energy

	desired := components.SetMag(r2.Sub(p.target, p.Pos), p.move.MaxSpeed*energyFactor)
	acc := components.Limit(r2.Sub(desired, p.Vel), p.move.BaseTurnRate+p.move.HoverTurnRate*hover)

	if wind != nil {
		acc = r2.Add(acc, wind.Gust(p.profile.TurbulenceTolerance))
	}

	p.Vel = components.Limit(r2.Add(p.Vel, acc), p.move.MaxSpeed)
	p.Pos = r2.Add(p.Pos, p.Vel)
}

// Refuel adds energy, clamped to [0, 1].
func (p *Pollinator) Refuel(amount float64) {
	p.Energy = components.Clamp01(p.Energy + amount)
}

// CarryPollen adds to the pollen load.
func (p *Pollinator) CarryPollen(amount float64) {
	p.PollenLoad = math.Max(0, p.PollenLoad+amount)
}

// RememberFlower records an interaction outcome for a flower.
func (p *Pollinator) RememberFlower(id int, success bool) {
	p.memory.remember(id, success)
}

// Affinity returns the learned affinity for a flower, 0 if never visited.
func (p *Pollinator) Affinity(id int) float64 {
	return p.memory.affinity(id)
}

// MemorySize returns the number of remembered flowers.
func (p *Pollinator) MemorySize() int {
	return len(p.memory)
}

// ClearMemory forgets every flower.
func (p *Pollinator) ClearMemory() {
	p.memory.clear()
}

// State is a read-only copy of the pollinator for snapshots.
type State struct {
	Species      string
	X, Y         float64
	VX, VY       float64
	Energy       float64
	PollenLoad   float64
	HasTarget    bool
	TargetX      float64
	TargetY      float64
	TargetFlower int
	Remembered   int
}

// Snapshot returns a copy of the pollinator's state.
func (p *Pollinator) Snapshot() State {
	return State{
		Species:      p.profile.Species,
		X:            p.Pos.X,
		Y:            p.Pos.Y,
		VX:           p.Vel.X,
		VY:           p.Vel.Y,
		Energy:       p.Energy,
		PollenLoad:   p.PollenLoad,
		HasTarget:    p.hasTarget,
		TargetX:      p.target.X,
		TargetY:      p.target.Y,
		TargetFlower: p.targetFlower,
		Remembered:   len(p.memory),
	}
}
