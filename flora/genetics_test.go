package flora

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/bloom/components"
)

// checkBounds reports the first bounded field that is out of range.
func checkBounds(t *testing.T, f *Flower) {
	t.Helper()
	switch {
	case f.SpurLength < 0 || f.SpurLength > 1:
		t.Fatalf("spur length %v out of range", f.SpurLength)
	case f.Hue < 0 || f.Hue >= 360:
		t.Fatalf("hue %v out of range", f.Hue)
	case f.UVIndex < 0 || f.UVIndex > 1:
		t.Fatalf("uv index %v out of range", f.UVIndex)
	case f.ScentIntensity < 0 || f.ScentIntensity > 1:
		t.Fatalf("scent %v out of range", f.ScentIntensity)
	case f.PetalCount < MinPetals || f.PetalCount > MaxPetals:
		t.Fatalf("petal count %d out of range", f.PetalCount)
	case f.NectarCapacity < MinNectarCapacity || f.NectarCapacity > MaxNectarCapacity:
		t.Fatalf("nectar capacity %v out of range", f.NectarCapacity)
	case f.RegenRate < MinRegenRate || f.RegenRate > MaxRegenRate:
		t.Fatalf("regen rate %v out of range", f.RegenRate)
	case f.Nectar < 0 || f.Nectar > f.NectarCapacity:
		t.Fatalf("nectar %v outside [0, %v]", f.Nectar, f.NectarCapacity)
	case f.Pollen < 0 || f.Pollen > 1:
		t.Fatalf("pollen %v out of range", f.Pollen)
	}
}

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator()
	for want := 1; want <= 5; want++ {
		if got := g.Next(); got != want {
			t.Fatalf("Next() = %d, want %d", got, want)
		}
	}
	if g.Peek() != 6 {
		t.Errorf("Peek() = %d, want 6", g.Peek())
	}
	g.Reset()
	if got := g.Next(); got != 1 {
		t.Errorf("Next() after Reset = %d, want 1", got)
	}
}

func TestMutateStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		f := New(i, components.V(0, 0), Params{
			SpurLength:     rng.Float64(),
			Hue:            rng.Float64() * 360,
			UVIndex:        rng.Float64(),
			ScentIntensity: rng.Float64(),
			PetalCount:     MinPetals + rng.Intn(MaxPetals-MinPetals+1),
			NectarCapacity: components.Uniform(rng, MinNectarCapacity, MaxNectarCapacity),
			RegenRate:      components.Uniform(rng, MinRegenRate, MaxRegenRate),
			Pollen:         rng.Float64(),
		})
		f.Mutate(rng.Float64(), rng)
		checkBounds(t, f)
	}
}

func TestMutateResetsFitnessAndEconomy(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	f := New(1, components.V(0, 0), DefaultParams())
	f.SeedCount = 12
	f.Successes = 4
	f.Visits = 9
	f.Pollen = 0.1
	f.Nectar = 0

	f.Mutate(0.12, rng)

	if f.SeedCount != 0 || f.Successes != 0 || f.Visits != 0 {
		t.Errorf("fitness counters not reset: seeds=%d successes=%d visits=%d", f.SeedCount, f.Successes, f.Visits)
	}
	if f.Pollen != 0.5 {
		t.Errorf("pollen = %v, want 0.5", f.Pollen)
	}
	if math.Abs(f.Nectar-0.8*f.NectarCapacity) > 1e-12 {
		t.Errorf("nectar = %v, want %v", f.Nectar, 0.8*f.NectarCapacity)
	}
	if f.ID != 1 {
		t.Errorf("mutation changed id to %d", f.ID)
	}
}

func TestMutateJitterWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		f := New(1, components.V(0, 0), DefaultParams())
		f.Mutate(0.12, rng)
		if math.Abs(f.SpurLength-0.5) > 0.12+1e-9 {
			t.Fatalf("spur jitter %v exceeds scale 0.12", f.SpurLength-0.5)
		}
		if d := components.CircularDistance(f.Hue, 20); d > 30+1e-9 {
			t.Fatalf("hue jitter %v exceeds 30 degrees", d)
		}
		if f.PetalCount < 5 || f.PetalCount > 7 {
			t.Fatalf("petal count %d moved by more than one", f.PetalCount)
		}
	}
}

func TestCrossoverStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	random := func(id int) *Flower {
		return New(id, components.V(rng.Float64()*1000, rng.Float64()*650), Params{
			SpurLength:     rng.Float64(),
			Hue:            rng.Float64() * 360,
			UVIndex:        rng.Float64(),
			ScentIntensity: rng.Float64(),
			PetalCount:     MinPetals + rng.Intn(MaxPetals-MinPetals+1),
			NectarCapacity: components.Uniform(rng, MinNectarCapacity, MaxNectarCapacity),
			RegenRate:      components.Uniform(rng, MinRegenRate, MaxRegenRate),
			Pollen:         rng.Float64(),
		})
	}

	for i := 0; i < 5000; i++ {
		a, b := random(1), random(2)
		child := Crossover(a, b, 3, rng)
		checkBounds(t, child)

		if child.ID != 3 {
			t.Fatalf("child id = %d, want 3", child.ID)
		}
		if child.Center != a.Center {
			t.Fatalf("child center %v, want parent a center %v", child.Center, a.Center)
		}
		if child.Pollen != 0.5 {
			t.Fatalf("child pollen = %v, want 0.5", child.Pollen)
		}
		if child.SeedCount != 0 || child.Successes != 0 || child.Visits != 0 {
			t.Fatalf("child inherited fitness: %+v", child.Snapshot())
		}
	}
}

func TestCrossoverBlendsBetweenParents(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := New(1, components.V(100, 100), Params{
		SpurLength: 0.2, Hue: 100, UVIndex: 0.2, ScentIntensity: 0.2,
		PetalCount: 4, NectarCapacity: 0.4, RegenRate: 0.002, Pollen: 0.5,
	})
	b := New(2, components.V(200, 200), Params{
		SpurLength: 0.8, Hue: 200, UVIndex: 0.8, ScentIntensity: 0.8,
		PetalCount: 10, NectarCapacity: 1.0, RegenRate: 0.008, Pollen: 0.5,
	})

	for i := 0; i < 1000; i++ {
		c := Crossover(a, b, 3, rng)

		// w in [0.3, 0.7] keeps the blend in [0.38, 0.62], plus 0.05 jitter
		if c.SpurLength < 0.33 || c.SpurLength > 0.67 {
			t.Fatalf("spur %v outside blend range", c.SpurLength)
		}
		if c.Hue < 130 || c.Hue > 170 {
			t.Fatalf("hue %v outside midpoint 150 +/- 20", c.Hue)
		}
		if c.PetalCount < 6 || c.PetalCount > 8 {
			t.Fatalf("petals %d outside midpoint 7 +/- 1", c.PetalCount)
		}
	}
}

func TestCrossoverSharesBlendWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	a := New(1, components.V(0, 0), Params{
		SpurLength: 0, Hue: 0, UVIndex: 0, ScentIntensity: 0,
		PetalCount: 6, NectarCapacity: 0.3, RegenRate: 0.0005, Pollen: 0.5,
	})
	b := New(2, components.V(0, 0), Params{
		SpurLength: 1, Hue: 0, UVIndex: 1, ScentIntensity: 1,
		PetalCount: 6, NectarCapacity: 0.3, RegenRate: 0.0005, Pollen: 0.5,
	})

	// With parents at 0 and 1 every blended trait equals 1-w plus jitter,
	// so spur, uv and scent can never be further apart than twice the jitter.
	for i := 0; i < 1000; i++ {
		c := Crossover(a, b, 3, rng)
		if math.Abs(c.SpurLength-c.UVIndex) > 0.1+1e-9 || math.Abs(c.UVIndex-c.ScentIntensity) > 0.1+1e-9 {
			t.Fatalf("blend weight not shared: spur=%v uv=%v scent=%v", c.SpurLength, c.UVIndex, c.ScentIntensity)
		}
	}
}

func TestCrossoverDeterministic(t *testing.T) {
	a := New(1, components.V(10, 10), DefaultParams())
	b := New(2, components.V(20, 20), Params{
		SpurLength: 0.9, Hue: 300, UVIndex: 0.1, ScentIntensity: 0.9,
		PetalCount: 9, NectarCapacity: 1.1, RegenRate: 0.005, Pollen: 0.5,
	})

	c1 := Crossover(a, b, 3, rand.New(rand.NewSource(77)))
	c2 := Crossover(a, b, 3, rand.New(rand.NewSource(77)))
	if c1.Snapshot() != c2.Snapshot() {
		t.Errorf("same seed produced different children:\n%+v\n%+v", c1.Snapshot(), c2.Snapshot())
	}
}
