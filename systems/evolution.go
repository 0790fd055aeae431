package systems

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/pthm-cable/bloom/flora"
	"github.com/pthm-cable/bloom/telemetry"
)

// ErrEmptyPopulation is returned when a generation is requested from an
// empty field.
var ErrEmptyPopulation = errors.New("empty flower population")

// EvolverParams tunes selection, crossover placement and mutation.
type EvolverParams struct {
	EliteFraction  float64
	MinElites      int
	MutationScale  float64
	RelocateJitter float64
	Bounds         Bounds // Placement rectangle for children
}

// DefaultEvolverParams returns the stock tuning for a 1000x650 field.
func DefaultEvolverParams() EvolverParams {
	return EvolverParams{
		EliteFraction:  0.4,
		MinElites:      2,
		MutationScale:  0.12,
		RelocateJitter: 40,
		Bounds:         Bounds{MinX: 60, MaxX: 940, MinY: 60, MaxY: 490},
	}
}

// GenerationReport summarizes one generation replacement.
type GenerationReport struct {
	Generation int // Generation number after the advance
	EliteCount int
	Elites     []flora.State // Ranked best first
	Previous   []flora.State // Outgoing population in field order
}

// Evolver breeds successive flower generations and tracks the generation
// counter.
type Evolver struct {
	params     EvolverParams
	generation int
}

// NewEvolver creates an evolver at generation 1.
func NewEvolver(params EvolverParams) *Evolver {
	if params.MinElites < 1 {
		params.MinElites = 1
	}
	return &Evolver{params: params, generation: 1}
}

// Generation returns the current generation number.
func (ev *Evolver) Generation() int { return ev.generation }

// ResetGeneration restarts counting at 1.
func (ev *Evolver) ResetGeneration() { ev.generation = 1 }

// EliteCount returns how many elites a population of the given target size
// keeps, before capping at the current population length.
func (ev *Evolver) EliteCount(populationSize int) int {
	return max(ev.params.MinElites, int(math.Floor(ev.params.EliteFraction*float64(populationSize))))
}

// Rank returns the flowers sorted by descending fitness. Equal fitness
// keeps field order.
func Rank(flowers []*flora.Flower) []*flora.Flower {
	sorted := slices.Clone(flowers)
	slices.SortStableFunc(sorted, func(a, b *flora.Flower) int {
		return cmp.Compare(b.Fitness(), a.Fitness())
	})
	return sorted
}

// Advance replaces the field's population with populationSize children of
// the current elites. The pollinator's memory is cleared and the
// controller returns to idle. An empty field is left untouched and
// ErrEmptyPopulation is returned.
func (ev *Evolver) Advance(ctx *TickContext, ic *InteractionController, populationSize int) (GenerationReport, error) {
	current := ctx.Field.Flowers()
	if len(current) == 0 {
		return GenerationReport{}, ErrEmptyPopulation
	}

	ranked := Rank(current)
	eliteCount := min(ev.EliteCount(populationSize), len(ranked))
	elites := ranked[:eliteCount]

	report := GenerationReport{
		EliteCount: eliteCount,
		Elites:     snapshotAll(elites),
		Previous:   snapshotAll(current),
	}

	next := make([]*flora.Flower, 0, max(populationSize, 0))
	for len(next) < populationSize {
		a := elites[ctx.Rng.Intn(len(elites))]
		b := elites[ctx.Rng.Intn(len(elites))]
		child := flora.Crossover(a, b, ctx.Field.IDs().Next(), ctx.Rng)
		child.Center = Relocate(child.Center, ev.params.RelocateJitter, ev.params.Bounds, ctx.Rng)
		child.Mutate(ev.params.MutationScale, ctx.Rng)
		next = append(next, child)
	}

	ctx.Field.Replace(next)
	ev.generation++
	report.Generation = ev.generation

	if ctx.Pollinator != nil {
		ctx.Pollinator.ClearMemory()
	}
	if ic != nil {
		ic.Reset(ctx.Pollinator)
	}

	ctx.Events.Push(telemetry.NewGenerationEvent(ctx.Env.Tick(), ev.generation, eliteCount))
	return report, nil
}

func snapshotAll(flowers []*flora.Flower) []flora.State {
	out := make([]flora.State, len(flowers))
	for i, f := range flowers {
		out[i] = f.Snapshot()
	}
	return out
}
