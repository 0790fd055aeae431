package game

import (
	"github.com/pthm-cable/bloom/flora"
	"github.com/pthm-cable/bloom/pollinator"
)

// EnvironmentState is the environment part of a snapshot.
type EnvironmentState struct {
	TimeOfDay     float64
	TimeSpeed     float64
	IsNight       bool
	WindStrength  float64
	WindDirection float64 // degrees
}

// Snapshot is a read-only view of the simulation for renderers and HUDs.
type Snapshot struct {
	Tick           int64
	Generation     int
	PopulationSize int
	Autoselection  bool

	Flowers     []flora.State
	Pollinator  pollinator.State
	Phase       string
	Environment EnvironmentState

	// Attractiveness of the current target to the pollinator, 0 without one
	TargetAttract float64

	LastResult    flora.Result
	HasLastResult bool
	Message       string
}

// Snapshot captures the current simulation state.
func (g *Game) Snapshot() Snapshot {
	flowers := g.field.Flowers()
	states := make([]flora.State, len(flowers))
	for i, f := range flowers {
		states[i] = f.Snapshot()
	}

	var attract float64
	if f, ok := g.field.Lookup(g.pollinator.TargetFlower()); ok {
		attract = f.AttractivenessFor(g.pollinator.Profile(), g.env.TimeOfDay)
	}

	res, hasRes := g.controller.LastResult()

	return Snapshot{
		Tick:           g.Tick(),
		Generation:     g.evolver.Generation(),
		PopulationSize: g.populationSize,
		Autoselection:  g.autoselect,
		Flowers:        states,
		Pollinator:     g.pollinator.Snapshot(),
		Phase:          g.controller.Phase().String(),
		Environment: EnvironmentState{
			TimeOfDay:     g.env.TimeOfDay,
			TimeSpeed:     g.env.TimeSpeed(),
			IsNight:       g.env.IsNight(),
			WindStrength:  g.env.Wind.Strength(),
			WindDirection: g.env.Wind.Direction(),
		},
		TargetAttract: attract,
		LastResult:    res,
		HasLastResult: hasRes,
		Message:       g.controller.Message(),
	}
}
