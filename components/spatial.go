// Package components defines the small value types shared by the simulation packages.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a point or direction in field coordinates (pixels, y grows downward).
type Vec2 = r2.Vec

// V returns a vector with the given components.
func V(x, y float64) Vec2 {
	return r2.Vec{X: x, Y: y}
}

// FromAngle returns the unit vector pointing along angle (radians).
func FromAngle(angle float64) Vec2 {
	return r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Dist returns the distance between two points.
func Dist(a, b Vec2) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// SetMag returns v rescaled to length m. A zero vector stays zero.
func SetMag(v Vec2, m float64) Vec2 {
	l := r2.Norm(v)
	if l == 0 {
		return Vec2{}
	}
	return r2.Scale(m/l, v)
}

// Limit returns v with its length capped at max.
func Limit(v Vec2, max float64) Vec2 {
	if l := r2.Norm(v); l > max && l > 0 {
		return r2.Scale(max/l, v)
	}
	return v
}
