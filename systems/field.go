package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/flora"
)

// Plot places a flower in the field world.
type Plot struct {
	Flower *flora.Flower
}

// FieldParams holds the field geometry used for layout and relocation.
type FieldParams struct {
	Width      float64
	Height     float64
	PadX       float64
	PadY       float64
	HUDBand    float64
	GridJitter float64
}

// DefaultFieldParams returns the stock 1000x650 field.
func DefaultFieldParams() FieldParams {
	return FieldParams{
		Width:      1000,
		Height:     650,
		PadX:       80,
		PadY:       80,
		HUDBand:    120,
		GridJitter: 20,
	}
}

// Field owns the current flower population. Flowers are ECS entities so
// that a flower id held elsewhere stops resolving once its generation is
// replaced.
type Field struct {
	params FieldParams

	world      *ecs.World
	plotMap    *ecs.Map1[Plot]
	plotFilter *ecs.Filter1[Plot]

	order []ecs.Entity       // insertion order, drives iteration
	byID  map[int]ecs.Entity // flower id -> entity
	ids   *flora.IDGenerator
}

// NewField creates an empty field.
func NewField(params FieldParams) *Field {
	world := ecs.NewWorld()
	return &Field{
		params:     params,
		world:      world,
		plotMap:    ecs.NewMap1[Plot](world),
		plotFilter: ecs.NewFilter1[Plot](world),
		byID:       make(map[int]ecs.Entity),
		ids:        flora.NewIDGenerator(),
	}
}

// Params returns the field geometry.
func (fd *Field) Params() FieldParams { return fd.params }

// IDs returns the field's flower id sequence.
func (fd *Field) IDs() *flora.IDGenerator { return fd.ids }

// Layout replaces the population with n random founders on a jittered grid.
func (fd *Field) Layout(n int, rng *rand.Rand) {
	p := fd.params
	flowers := make([]*flora.Flower, 0, n)
	if n <= 0 {
		fd.Replace(flowers)
		return
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))
	gridW := p.Width - 2*p.PadX
	gridH := p.Height - 2*p.PadY - p.HUDBand
	stepX := gridW / float64(cols+1)
	stepY := gridH / float64(rows+1)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if len(flowers) >= n {
				break
			}
			x := p.PadX + float64(c+1)*stepX + components.Uniform(rng, -p.GridJitter, p.GridJitter)
			y := p.PadY + float64(r+1)*stepY + components.Uniform(rng, -p.GridJitter, p.GridJitter)
			flowers = append(flowers, flora.New(fd.ids.Next(), components.V(x, y), randomFounder(rng)))
		}
	}

	fd.Replace(flowers)
}

// randomFounder draws a first-generation phenotype.
func randomFounder(rng *rand.Rand) flora.Params {
	return flora.Params{
		SpurLength:     components.Uniform(rng, 0.2, 0.9),
		Hue:            components.Uniform(rng, 0, 360),
		UVIndex:        components.Uniform(rng, 0.2, 0.9),
		ScentIntensity: components.Uniform(rng, 0.2, 0.9),
		PetalCount:     int(math.Floor(components.Uniform(rng, 5, 9))),
		NectarCapacity: components.Uniform(rng, 0.5, 1.1),
		RegenRate:      components.Uniform(rng, 0.001, 0.006),
		Pollen:         components.Uniform(rng, 0.3, 0.7),
	}
}

// Replace swaps the whole population in one step. Every previous flower
// entity is removed before the new ones are inserted.
func (fd *Field) Replace(flowers []*flora.Flower) {
	for _, e := range fd.order {
		if fd.world.Alive(e) {
			fd.world.RemoveEntity(e)
		}
	}
	fd.order = fd.order[:0]
	clear(fd.byID)

	for _, f := range flowers {
		e := fd.plotMap.NewEntity(&Plot{Flower: f})
		fd.order = append(fd.order, e)
		fd.byID[f.ID] = e
	}
}

// Flowers returns the current population in insertion order.
func (fd *Field) Flowers() []*flora.Flower {
	out := make([]*flora.Flower, 0, len(fd.order))
	for _, e := range fd.order {
		out = append(out, fd.plotMap.Get(e).Flower)
	}
	return out
}

// Len returns the number of flowers in the field.
func (fd *Field) Len() int { return len(fd.order) }

// Lookup resolves a flower id. Ids from a replaced generation fail.
func (fd *Field) Lookup(id int) (*flora.Flower, bool) {
	e, ok := fd.byID[id]
	if !ok || !fd.world.Alive(e) {
		return nil, false
	}
	return fd.plotMap.Get(e).Flower, true
}

// RegenAll regenerates nectar on every flower.
func (fd *Field) RegenAll() {
	query := fd.plotFilter.Query()
	for query.Next() {
		query.Get().Flower.RegenNectar()
	}
}

// Reset restarts the id sequence at 1. The population is left untouched;
// callers relayout afterwards.
func (fd *Field) Reset() {
	fd.ids.Reset()
}

// Relocate returns a point near base, jittered and kept inside the field
// margins.
func Relocate(base components.Vec2, jitter float64, bounds Bounds, rng *rand.Rand) components.Vec2 {
	x := components.Clamp(base.X+components.Uniform(rng, -jitter, jitter), bounds.MinX, bounds.MaxX)
	y := components.Clamp(base.Y+components.Uniform(rng, -jitter, jitter), bounds.MinY, bounds.MaxY)
	return components.V(x, y)
}

// Bounds is an axis-aligned placement rectangle.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}
