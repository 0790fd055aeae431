// Package environment models the wind field and the day/night cycle.
package environment

import (
	"math"

	"github.com/pthm-cable/bloom/components"
)

// Environment holds the time-of-day cycle and the wind field.
// Its state is a pure function of the accumulated tick count and the
// host's settings.
type Environment struct {
	TimeOfDay float64 // 0 = deep night, 1 = full day
	timeSpeed float64
	maxSpeed  float64
	tick      int64

	Wind *Wind
}

// Params configures a new environment.
type Params struct {
	TimeOfDay     float64
	TimeSpeed     float64
	MaxTimeSpeed  float64
	WindStrength  float64
	WindDirection float64 // degrees
	GustSeed      int64
	GustFrequency float64
}

// New creates an environment.
func New(p Params) *Environment {
	e := &Environment{
		maxSpeed: p.MaxTimeSpeed,
		Wind:     NewWind(p.WindStrength, p.WindDirection, p.GustSeed, p.GustFrequency),
	}
	if e.maxSpeed <= 0 {
		e.maxSpeed = math.Inf(1)
	}
	e.SetTimeOfDay(p.TimeOfDay)
	e.timeSpeed = components.Clamp(p.TimeSpeed, -e.maxSpeed, e.maxSpeed)
	return e
}

// Advance moves the environment forward one tick.
// Time of day ping-pongs between 0 and 1, reversing at each bound.
func (e *Environment) Advance() {
	e.tick++
	e.Wind.sync(e.tick)

	e.TimeOfDay = components.Clamp01(e.TimeOfDay + e.timeSpeed)
	if e.TimeOfDay >= 1 || e.TimeOfDay <= 0 {
		e.timeSpeed = -e.timeSpeed
	}
}

// Tick returns the number of ticks advanced so far.
func (e *Environment) Tick() int64 { return e.tick }

// IsNight reports whether the current time of day counts as night.
func (e *Environment) IsNight() bool {
	return IsNight(e.TimeOfDay)
}

// IsNight reports whether a time of day counts as night.
func IsNight(timeOfDay float64) bool {
	return timeOfDay < 0.5
}

// TimeSpeed returns the signed day-cycle speed.
func (e *Environment) TimeSpeed() float64 { return e.timeSpeed }

// SetTimeOfDay sets the time of day, clamped to [0, 1].
// Returns the applied value.
func (e *Environment) SetTimeOfDay(v float64) float64 {
	e.TimeOfDay = components.Clamp01(v)
	return e.TimeOfDay
}

// SetTimeSpeed sets the magnitude of the day-cycle speed, keeping the
// current direction of travel. Returns the applied signed speed.
func (e *Environment) SetTimeSpeed(v float64) float64 {
	mag := components.Clamp(math.Abs(v), 0, e.maxSpeed)
	if e.timeSpeed < 0 {
		mag = -mag
	}
	e.timeSpeed = mag
	return e.timeSpeed
}
