package environment

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bloom/components"
)

// Wind tuning constants.
const (
	maxContactPenalty = 0.7  // Wind alone never blocks pollination
	gustScale         = 0.2  // Gust vector scale relative to magnitude
	steadyScale       = 0.03 // Steady push along the base direction per unit strength
)

// Wind is a base direction plus a smoothly varying gust derived from noise.
type Wind struct {
	strength  float64
	direction float64 // degrees, [0, 360)
	baseDir   components.Vec2
	gustSeed  int64
	frequency float64
	noise     opensimplex.Noise
	tick      int64
}

// NewWind creates a wind field. The gust seed is fixed for the lifetime of the wind.
func NewWind(strength, directionDeg float64, gustSeed int64, frequency float64) *Wind {
	w := &Wind{
		gustSeed:  gustSeed,
		frequency: frequency,
		noise:     opensimplex.NewNormalized(gustSeed),
	}
	w.SetStrength(strength)
	w.SetDirection(directionDeg)
	return w
}

// SetStrength sets the wind strength, clamped to [0, 1].
func (w *Wind) SetStrength(v float64) {
	w.strength = components.Clamp01(v)
}

// SetDirection sets the base direction in degrees.
func (w *Wind) SetDirection(deg float64) {
	w.direction = components.WrapDegrees(deg)
	w.baseDir = components.FromAngle(w.direction * math.Pi / 180)
}

// Strength returns the wind strength in [0, 1].
func (w *Wind) Strength() float64 { return w.strength }

// Direction returns the base direction in degrees.
func (w *Wind) Direction() float64 { return w.direction }

// DirectionAngle returns the base direction in radians.
func (w *Wind) DirectionAngle() float64 { return w.direction * math.Pi / 180 }

// GustSeed returns the noise seed of this wind field.
func (w *Wind) GustSeed() int64 { return w.gustSeed }

// sync aligns the gust noise with the environment's tick count.
func (w *Wind) sync(tick int64) {
	w.tick = tick
}

// noiseSample returns the gust noise in [0, 1] for the current tick.
func (w *Wind) noiseSample() float64 {
	return w.noise.Eval2(float64(w.tick)*w.frequency, 0)
}

// Gust returns the wind acceleration felt by a flyer with the given tolerance.
// Higher tolerance dampens the gust; the steady component is unaffected.
func (w *Wind) Gust(tolerance float64) components.Vec2 {
	n := w.noiseSample()
	mag := w.strength * (0.6 + 0.4*n) * (1 - 0.5*tolerance)
	gust := r2.Scale(mag*gustScale, components.FromAngle(n*2*math.Pi))
	steady := r2.Scale(w.strength*steadyScale, w.baseDir)
	return r2.Add(gust, steady)
}

// ContactPenalty returns the fraction subtracted from contact probability,
// capped at 0.7.
func (w *Wind) ContactPenalty(tolerance float64) float64 {
	return components.Clamp(w.strength*(0.6-0.4*tolerance), 0, maxContactPenalty)
}
