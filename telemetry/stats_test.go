package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/bloom/flora"
)

func TestCircularHueStats(t *testing.T) {
	tests := []struct {
		name      string
		hues      []float64
		wantMean  float64
		wantConc  float64
		checkMean bool
	}{
		{"empty", nil, 0, 0, true},
		{"single", []float64{120}, 120, 1, true},
		{"identical", []float64{45, 45, 45}, 45, 1, true},
		{"wraps zero", []float64{350, 10}, 0, math.Cos(10 * math.Pi / 180), true},
		{"opposite", []float64{90, 270}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, conc := CircularHueStats(tt.hues)
			if math.Abs(conc-tt.wantConc) > 1e-9 {
				t.Errorf("concentration = %v, want %v", conc, tt.wantConc)
			}
			if !tt.checkMean {
				return
			}
			// 0 and 360 are the same hue
			d := math.Abs(mean - tt.wantMean)
			if d > 180 {
				d = 360 - d
			}
			if d > 1e-6 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector()

	c.RecordEvent(NewApproachEvent(5, 1, "Bee"))
	c.RecordEvent(NewPollinationEvent(10, 1, true, true, 0.8, 0.1, 2.0))
	c.RecordEvent(NewApproachEvent(20, 2, "Bee"))
	c.RecordEvent(NewPollinationEvent(30, 2, false, false, 0.4, 0.3, 0.8))
	c.RecordEvent(NewGenerationEvent(40, 2, 4))

	population := []flora.State{
		{ID: 1, SpurLength: 0.2, UVIndex: 0.5, ScentIntensity: 0.5, Hue: 10, Fitness: 6, SeedCount: 4, PetalCount: 6},
		{ID: 2, SpurLength: 0.4, UVIndex: 0.5, ScentIntensity: 0.5, Hue: 10, Fitness: 0, SeedCount: 0, PetalCount: 8},
	}
	stats := c.Flush(100, 2, 2, population)

	if stats.Generation != 1 {
		t.Errorf("Generation = %d, want 1", stats.Generation)
	}
	if stats.EndTick != 100 {
		t.Errorf("EndTick = %d, want 100", stats.EndTick)
	}
	if stats.Approaches != 2 || stats.Probes != 2 || stats.Successes != 1 || stats.ReachFailures != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 2/2/1/1",
			stats.Approaches, stats.Probes, stats.Successes, stats.ReachFailures)
	}
	if math.Abs(stats.SuccessRate-0.5) > 1e-12 {
		t.Errorf("SuccessRate = %v, want 0.5", stats.SuccessRate)
	}
	if math.Abs(stats.MeanContact-0.6) > 1e-12 {
		t.Errorf("MeanContact = %v, want 0.6", stats.MeanContact)
	}
	if math.Abs(stats.MeanWindPenalty-0.2) > 1e-12 {
		t.Errorf("MeanWindPenalty = %v, want 0.2", stats.MeanWindPenalty)
	}
	if stats.FitnessMax != 6 || stats.FitnessTotal != 6 || stats.FitnessMean != 3 {
		t.Errorf("fitness max/total/mean = %v/%v/%v, want 6/6/3",
			stats.FitnessMax, stats.FitnessTotal, stats.FitnessMean)
	}
	if stats.SeedsTotal != 4 {
		t.Errorf("SeedsTotal = %d, want 4", stats.SeedsTotal)
	}
	if math.Abs(stats.SpurMean-0.3) > 1e-12 {
		t.Errorf("SpurMean = %v, want 0.3", stats.SpurMean)
	}
	if math.Abs(stats.SpurStd-0.1) > 1e-12 {
		t.Errorf("SpurStd = %v, want 0.1 (population std)", stats.SpurStd)
	}
	if stats.PetalMean != 7 {
		t.Errorf("PetalMean = %v, want 7", stats.PetalMean)
	}
	if math.Abs(stats.HueConcentration-1) > 1e-9 {
		t.Errorf("HueConcentration = %v, want 1", stats.HueConcentration)
	}

	// Counters reset for the next generation
	next := c.Flush(200, 3, 2, nil)
	if next.Generation != 2 || next.Probes != 0 || next.StartTick != 100 {
		t.Errorf("after flush: generation=%d probes=%d start=%d, want 2/0/100",
			next.Generation, next.Probes, next.StartTick)
	}
	if next.FitnessMax != 0 || next.Population != 0 {
		t.Error("empty population should leave trait stats zero")
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()
	c.RecordEvent(NewPollinationEvent(1, 1, true, true, 0.5, 0, 2))
	c.Reset(50, 1)

	stats := c.Flush(60, 2, 2, nil)
	if stats.Probes != 0 || stats.StartTick != 50 || stats.Generation != 1 {
		t.Errorf("after reset: probes=%d start=%d generation=%d, want 0/50/1",
			stats.Probes, stats.StartTick, stats.Generation)
	}
}

func TestNewInteractionRecord(t *testing.T) {
	e := NewPollinationEvent(42, 7, true, true, 0.66, 0.12, 2.0)
	rec := NewInteractionRecord(e, 3, "Bee", 0.7)

	want := InteractionRecord{
		Tick:        42,
		Generation:  3,
		Species:     "Bee",
		FlowerID:    7,
		Success:     true,
		ReachOK:     true,
		ContactProb: 0.66,
		WindPenalty: 0.12,
		TimeOfDay:   0.7,
	}
	if rec != want {
		t.Errorf("NewInteractionRecord() = %+v, want %+v", rec, want)
	}
}
