// Package main provides CMA-ES calibration of the selection parameters that
// drive flower adaptation toward a given pollinator.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/telemetry"
)

type options struct {
	configPath string
	maxTicks   int64
	seeds      int
	maxEvals   int
	population int
	species    string
	outputDir  string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.Int64Var(&o.maxTicks, "max-ticks", 36000, "Simulation duration per run in ticks")
	flag.IntVar(&o.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 100, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&o.species, "species", "", "Pollinator species (empty = config default)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(o); err != nil {
		slog.Error("calibration failed", "error", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, o.maxTicks, evalSeeds(o.seeds), o.species, baseCfg)

	evalLog, err := newEvalLog(filepath.Join(o.outputDir, "optimize_log.csv"))
	if err != nil {
		return err
	}
	defer evalLog.Close()

	var (
		evals       int
		bestFitness = math.Inf(1)
		bestValues  []float64
		start       = time.Now()
	)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			evals++
			if fitness < bestFitness {
				bestFitness = fitness
				bestValues = values
			}

			rec := params.Record(evals, fitness, evaluator.LastQuality(), values)
			if err := evalLog.Write(rec); err != nil {
				slog.Error("failed to write evaluation", "error", err)
			}

			elapsed := time.Since(start)
			remaining := time.Duration(o.maxEvals-evals) * (elapsed / time.Duration(evals))
			slog.Info("evaluation",
				"eval", evals,
				"max_evals", o.maxEvals,
				"success_rate", rec.SuccessRate,
				"quality", rec.Quality,
				"best_fitness", bestFitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   cmaPopulation(o.population, params.Dim()),
	}
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	slog.Info("starting calibration",
		"params", params.Dim(),
		"population", method.Population,
		"max_evals", o.maxEvals,
		"seeds", o.seeds,
		"ticks_per_run", o.maxTicks,
		"species", o.species,
	)

	result, err := optimize.Minimize(problem, initX, &optimize.Settings{FuncEvaluations: o.maxEvals}, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if bestValues == nil && result != nil {
		bestValues = params.Clamp(params.Denormalize(result.X))
	}
	if bestValues == nil {
		return errors.New("no evaluations completed")
	}

	slog.Info("calibration complete",
		"evals", evals,
		"duration", formatDuration(time.Since(start)),
		"best_fitness", bestFitness,
	)
	for i, spec := range params.Specs {
		slog.Info("best parameter", "name", spec.Name, "path", spec.Path, "value", bestValues[i])
	}

	return writeResults(o, params, bestValues, evaluator.BestHallOfFame())
}

// writeResults saves the base config with the best values applied and the
// hall of fame from the best run.
func writeResults(o options, params *ParamVector, best []float64, hof *telemetry.HallOfFame) error {
	bestCfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	params.ApplyToConfig(bestCfg, best)
	if err := bestCfg.WriteYAML(filepath.Join(o.outputDir, "best_config.yaml")); err != nil {
		return err
	}

	if hof == nil {
		return nil
	}
	data, err := json.MarshalIndent(hof, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	return os.WriteFile(filepath.Join(o.outputDir, "hall_of_fame.json"), data, 0644)
}

// evalSeeds returns n fixed seeds so evaluations are comparable.
func evalSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	return seeds
}

// cmaPopulation returns the requested CMA-ES population, or 4 + 1.5·dim.
func cmaPopulation(requested, dim int) int {
	if requested > 0 {
		return requested
	}
	return 4 + 3*dim/2
}

// formatDuration formats a duration as 1h02m05s, or 2m05s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
