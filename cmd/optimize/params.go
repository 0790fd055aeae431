// Package main provides CMA-ES calibration of the flower selection parameters.
package main

import (
	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Selection
			{Name: "elite_fraction", Path: "evolution.elite_fraction", Min: 0.1, Max: 0.8, Default: 0.4},
			{Name: "mutation_scale", Path: "evolution.mutation_scale", Min: 0.01, Max: 0.4, Default: 0.12},
			{Name: "relocate_jitter", Path: "evolution.relocate_jitter", Min: 0, Max: 120, Default: 40},
			// Pacing
			{Name: "autoselect_interval", Path: "interaction.autoselect_interval", Min: 600, Max: 4000, Default: 1800},
			{Name: "initial_population", Path: "population.initial", Min: 4, Max: 25, Default: 12},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = components.Clamp(v[i], spec.Min, spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Evolution.EliteFraction = clamped[0]
	cfg.Evolution.MutationScale = clamped[1]
	cfg.Evolution.RelocateJitter = clamped[2]
	cfg.Interaction.AutoselectInterval = int(clamped[3])
	cfg.Population.Initial = components.ClampInt(int(clamped[4]+0.5), cfg.Population.Min, cfg.Population.Max)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Evolution.EliteFraction,
		cfg.Evolution.MutationScale,
		cfg.Evolution.RelocateJitter,
		float64(cfg.Interaction.AutoselectInterval),
		float64(cfg.Population.Initial),
	}
}

// EvalRecord is one row of the calibration log. Parameter columns follow
// Specs order.
type EvalRecord struct {
	Eval               int     `csv:"eval"`
	Fitness            float64 `csv:"fitness"`
	Quality            float64 `csv:"quality"`
	SuccessRate        float64 `csv:"success_rate"`
	EliteFraction      float64 `csv:"elite_fraction"`
	MutationScale      float64 `csv:"mutation_scale"`
	RelocateJitter     float64 `csv:"relocate_jitter"`
	AutoselectInterval float64 `csv:"autoselect_interval"`
	InitialPopulation  float64 `csv:"initial_population"`
}

// Record builds a log row from clamped parameter values. The success rate
// is recovered from fitness = -(rate × (1 + 0.2×quality)).
func (pv *ParamVector) Record(eval int, fitness, quality float64, values []float64) EvalRecord {
	return EvalRecord{
		Eval:               eval,
		Fitness:            fitness,
		Quality:            quality,
		SuccessRate:        -fitness / (1.0 + 0.2*quality),
		EliteFraction:      values[0],
		MutationScale:      values[1],
		RelocateJitter:     values[2],
		AutoselectInterval: values[3],
		InitialPopulation:  values[4],
	}
}
