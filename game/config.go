package game

import (
	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/environment"
	"github.com/pthm-cable/bloom/pollinator"
	"github.com/pthm-cable/bloom/systems"
	"github.com/pthm-cable/bloom/telemetry"
)

// The helpers below translate the loaded config into per-system parameters.

func fieldParams(cfg *config.Config) systems.FieldParams {
	return systems.FieldParams{
		Width:      cfg.Field.Width,
		Height:     cfg.Field.Height,
		PadX:       cfg.Field.PadX,
		PadY:       cfg.Field.PadY,
		HUDBand:    cfg.Field.HUDBand,
		GridJitter: cfg.Field.GridJitter,
	}
}

func movement(cfg *config.Config) pollinator.Movement {
	p := cfg.Pollinator
	return pollinator.Movement{
		MaxSpeed:       p.MaxSpeed,
		SpeedCost:      p.SpeedCost,
		HoverCost:      p.HoverCost,
		CruiseCost:     p.CruiseCost,
		BaseTurnRate:   p.BaseTurnRate,
		HoverTurnRate:  p.HoverTurnRate,
		ApproachEnergy: p.ApproachEnergy,
	}
}

func environmentParams(cfg *config.Config, gustSeed int64) environment.Params {
	e := cfg.Environment
	return environment.Params{
		TimeOfDay:     e.TimeOfDay,
		TimeSpeed:     e.TimeSpeed,
		MaxTimeSpeed:  e.MaxTimeSpeed,
		WindStrength:  e.WindStrength,
		WindDirection: e.WindDirection,
		GustSeed:      gustSeed,
		GustFrequency: e.GustFrequency,
	}
}

func controllerParams(cfg *config.Config) systems.ControllerParams {
	return systems.ControllerParams{
		ProximityThreshold: cfg.Interaction.ProximityThreshold,
		ResultDwellTicks:   cfg.Interaction.ResultDwellTicks,
	}
}

func evolverParams(cfg *config.Config) systems.EvolverParams {
	ev := cfg.Evolution
	d := cfg.Derived
	return systems.EvolverParams{
		EliteFraction:  ev.EliteFraction,
		MinElites:      ev.MinElites,
		MutationScale:  ev.MutationScale,
		RelocateJitter: ev.RelocateJitter,
		Bounds:         systems.Bounds{MinX: d.MinX, MaxX: d.MaxX, MinY: d.MinY, MaxY: d.MaxY},
	}
}

func bookmarkParams(cfg *config.Config) telemetry.BookmarkParams {
	t := cfg.Telemetry
	return telemetry.BookmarkParams{
		SurgeMultiplier:   t.SurgeMultiplier,
		SurgeMinAttempts:  t.SurgeMinAttempts,
		ConvergenceStdDev: t.ConvergenceStdDev,
	}
}
