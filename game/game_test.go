package game

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/systems"
	"github.com/pthm-cable/bloom/telemetry"
	"github.com/pthm-cable/bloom/traits"
)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := NewGameWithOptions(config.Default(), opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions() error: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameDefaults(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	snap := g.Snapshot()

	if len(snap.Flowers) != 12 || snap.PopulationSize != 12 {
		t.Errorf("flowers = %d (size %d), want 12", len(snap.Flowers), snap.PopulationSize)
	}
	if snap.Generation != 1 {
		t.Errorf("generation = %d, want 1", snap.Generation)
	}
	if snap.Phase != "idle" {
		t.Errorf("phase = %q, want idle", snap.Phase)
	}
	if snap.Pollinator.Species != traits.Bee {
		t.Errorf("species = %q, want Bee", snap.Pollinator.Species)
	}
	if snap.Environment.TimeOfDay != 0.7 || snap.Environment.WindDirection != 330 {
		t.Errorf("environment = %+v", snap.Environment)
	}
	if snap.HasLastResult {
		t.Error("fresh game has a last result")
	}
}

func TestUpdateAdvancesTick(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	for i := 0; i < 10; i++ {
		g.Update()
	}
	if g.Tick() != 10 {
		t.Errorf("Tick() = %d, want 10", g.Tick())
	}
	// Idle pollinator does not move or spend energy
	if g.Snapshot().Pollinator.Energy != 1 {
		t.Errorf("idle pollinator energy = %v, want 1", g.Snapshot().Pollinator.Energy)
	}
}

func TestBeginApproach(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	if err := g.BeginApproach(); err != nil {
		t.Fatalf("BeginApproach() error: %v", err)
	}
	if g.Phase() != systems.PhaseApproach {
		t.Errorf("phase = %v, want approach", g.Phase())
	}
	events := g.Events()
	if len(events) != 1 || events[0].Type != telemetry.EventApproach {
		t.Errorf("events = %+v, want one approach event", events)
	}
	if g.Snapshot().TargetAttract <= 0 {
		t.Error("snapshot missing target attractiveness")
	}
}

func TestApproachCompletesProbe(t *testing.T) {
	cfg := config.Default()
	g, err := NewGameWithOptions(cfg, Options{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	if err := g.BeginApproach(); err != nil {
		t.Fatal(err)
	}
	var probed bool
	for i := 0; i < 3000 && !probed; i++ {
		g.Update()
		for _, e := range g.Events() {
			if e.Type == telemetry.EventPollination {
				probed = true
			}
		}
	}
	if !probed {
		t.Fatalf("no probe within 3000 ticks (phase %v)", g.Phase())
	}
	snap := g.Snapshot()
	if !snap.HasLastResult || snap.Message == "" {
		t.Errorf("snapshot after probe: result=%v message=%q", snap.HasLastResult, snap.Message)
	}

	visits := 0
	for _, f := range snap.Flowers {
		visits += f.Visits
	}
	if visits != 1 {
		t.Errorf("total visits = %d, want 1", visits)
	}
}

func TestAdvanceGeneration(t *testing.T) {
	var flushed []telemetry.GenerationStats
	g := newTestGame(t, Options{
		Seed:          4,
		StatsCallback: func(s telemetry.GenerationStats) { flushed = append(flushed, s) },
	})
	g.Events()

	if err := g.AdvanceGeneration(); err != nil {
		t.Fatalf("AdvanceGeneration() error: %v", err)
	}
	snap := g.Snapshot()
	if snap.Generation != 2 {
		t.Errorf("generation = %d, want 2", snap.Generation)
	}
	if len(snap.Flowers) != 12 {
		t.Errorf("flowers = %d, want 12", len(snap.Flowers))
	}
	if !strings.HasPrefix(snap.Message, "generation 2: elites=4") {
		t.Errorf("message = %q", snap.Message)
	}
	if len(flushed) != 1 || flushed[0].Generation != 1 || flushed[0].Population != 12 {
		t.Errorf("flushed stats = %+v", flushed)
	}

	events := g.Events()
	if len(events) != 1 || events[0].Type != telemetry.EventGeneration || events[0].Generation != 2 {
		t.Errorf("events = %+v, want one generation event", events)
	}
}

func TestAutoselection(t *testing.T) {
	cfg := config.Default()
	cfg.Interaction.AutoselectInterval = 100
	g, err := NewGameWithOptions(cfg, Options{Seed: 5, Autoselect: true})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	for i := 0; i < 250; i++ {
		g.Update()
	}
	if g.Generation() != 3 {
		t.Errorf("generation = %d after 250 ticks, want 3", g.Generation())
	}

	g.SetAutoselection(false)
	for i := 0; i < 200; i++ {
		g.Update()
	}
	if g.Generation() != 3 {
		t.Errorf("generation = %d with autoselection off, want 3", g.Generation())
	}
}

func TestSetPopulationSize(t *testing.T) {
	tests := []struct {
		requested, want int
	}{
		{1, 4},
		{4, 4},
		{10, 10},
		{25, 25},
		{40, 25},
	}
	for _, tt := range tests {
		g := newTestGame(t, Options{Seed: 6})
		if got := g.SetPopulationSize(tt.requested); got != tt.want {
			t.Errorf("SetPopulationSize(%d) = %d, want %d", tt.requested, got, tt.want)
		}
		if n := len(g.Snapshot().Flowers); n != tt.want {
			t.Errorf("SetPopulationSize(%d): field has %d flowers", tt.requested, n)
		}
		if g.Phase() != systems.PhaseIdle {
			t.Errorf("phase = %v, want idle", g.Phase())
		}
	}
}

func TestResetField(t *testing.T) {
	g := newTestGame(t, Options{Seed: 7})
	if err := g.AdvanceGeneration(); err != nil {
		t.Fatal(err)
	}
	if err := g.BeginApproach(); err != nil {
		t.Fatal(err)
	}

	g.ResetField()
	snap := g.Snapshot()
	if snap.Generation != 1 {
		t.Errorf("generation = %d, want 1", snap.Generation)
	}
	if snap.Phase != "idle" {
		t.Errorf("phase = %q, want idle", snap.Phase)
	}
	if snap.Flowers[0].ID != 1 {
		t.Errorf("first flower id = %d, want 1", snap.Flowers[0].ID)
	}
	if snap.Pollinator.Remembered != 0 || snap.Pollinator.TargetFlower != 0 {
		t.Errorf("pollinator not reset: %+v", snap.Pollinator)
	}
}

func TestEnvironmentCommandsClamp(t *testing.T) {
	g := newTestGame(t, Options{Seed: 8})

	if got := g.SetWindStrength(2); got != 1 {
		t.Errorf("SetWindStrength(2) = %v, want 1", got)
	}
	if got := g.SetWindStrength(-1); got != 0 {
		t.Errorf("SetWindStrength(-1) = %v, want 0", got)
	}
	if got := g.SetWindDirection(-30); got != 330 {
		t.Errorf("SetWindDirection(-30) = %v, want 330", got)
	}
	if got := g.SetTimeOfDay(1.5); got != 1 {
		t.Errorf("SetTimeOfDay(1.5) = %v, want 1", got)
	}
	if got := g.SetTimeSpeed(0.5); got != 0.01 {
		t.Errorf("SetTimeSpeed(0.5) = %v, want 0.01", got)
	}
	if got := g.SetTimeSpeed(0.002); got != 0.002 {
		t.Errorf("SetTimeSpeed(0.002) = %v, want 0.002", got)
	}
}

func TestSetPollinatorSpecies(t *testing.T) {
	g := newTestGame(t, Options{Seed: 9})
	if err := g.BeginApproach(); err != nil {
		t.Fatal(err)
	}

	if !g.SetPollinatorSpecies(traits.HawkMoth) {
		t.Error("HawkMoth should be recognized")
	}
	snap := g.Snapshot()
	if snap.Pollinator.Species != traits.HawkMoth || snap.Phase != "idle" {
		t.Errorf("after species change: species=%q phase=%q", snap.Pollinator.Species, snap.Phase)
	}

	if g.SetPollinatorSpecies("Bat") {
		t.Error("unknown species reported as recognized")
	}
	if got := g.Snapshot().Pollinator.Species; got != "Bat" {
		t.Errorf("generic profile species = %q, want Bat", got)
	}
}

func TestDeterministicRuns(t *testing.T) {
	newRun := func() *Game {
		cfg := config.Default()
		cfg.Interaction.AutoselectInterval = 500
		g, err := NewGameWithOptions(cfg, Options{Seed: 42, AutoApproach: true, Autoselect: true})
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(g.Unload)
		g.SetWindStrength(0.6)
		return g
	}

	a, b := newRun(), newRun()
	for i := 0; i < 2000; i++ {
		a.Update()
		b.Update()

		sa, sb := a.Snapshot(), b.Snapshot()
		if !reflect.DeepEqual(sa, sb) {
			t.Fatalf("seeded runs diverged at tick %d:\n%+v\n%+v", sa.Tick, sa, sb)
		}
		if ea, eb := a.Events(), b.Events(); !reflect.DeepEqual(ea, eb) {
			t.Fatalf("seeded runs emitted different events at tick %d:\n%+v\n%+v", sa.Tick, ea, eb)
		}
	}
	if a.Generation() != 5 {
		t.Errorf("generation = %d, want 5", a.Generation())
	}
}

func TestSetPopulationSizeRestartsCollector(t *testing.T) {
	var flushed []telemetry.GenerationStats
	g := newTestGame(t, Options{
		Seed:          12,
		StatsCallback: func(s telemetry.GenerationStats) { flushed = append(flushed, s) },
	})

	if err := g.BeginApproach(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		g.Update()
	}
	resizedAt := g.Tick()
	g.SetPopulationSize(10)

	if err := g.AdvanceGeneration(); err != nil {
		t.Fatal(err)
	}
	if len(flushed) != 1 {
		t.Fatalf("flushed %d generations, want 1", len(flushed))
	}
	got := flushed[0]
	if got.Approaches != 0 || got.Probes != 0 {
		t.Errorf("interactions against the old layout leaked: approaches=%d probes=%d", got.Approaches, got.Probes)
	}
	if got.StartTick != resizedAt || got.Population != 10 {
		t.Errorf("start tick = %d population = %d, want %d and 10", got.StartTick, got.Population, resizedAt)
	}
}

func TestResetFieldClearsRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	g, err := NewGameWithOptions(config.Default(), Options{Seed: 13, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	// advance sets one flower's successes and breeds the next generation
	advance := func(successes int) {
		t.Helper()
		g.field.Flowers()[0].Successes = successes
		if err := g.AdvanceGeneration(); err != nil {
			t.Fatal(err)
		}
	}

	advance(3)
	if g.HallOfFame().TopFitness() != 6 {
		t.Fatalf("top fitness = %d before reset, want 6", g.HallOfFame().TopFitness())
	}

	g.ResetField()
	if n := g.HallOfFame().Size(); n != 0 {
		t.Errorf("hall of fame size = %d after reset, want 0", n)
	}

	// Below the old record of 6, so only a fresh detector reports 5 > 4
	advance(2)
	advance(2)
	g.field.Flowers()[0].SeedCount = 1
	advance(2)

	for _, e := range g.HallOfFame().Entries() {
		if e.Flower.Fitness == 6 {
			t.Errorf("pre-reset flower %d survived in hall of fame", e.Flower.ID)
		}
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "fitness_record"); n != 1 {
		t.Errorf("fitness_record bookmarks = %d, want 1:\n%s", n, data)
	}
}

func TestExperimentOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	cfg := config.Default()
	cfg.Interaction.AutoselectInterval = 400
	g, err := NewGameWithOptions(cfg, Options{Seed: 10, OutputDir: dir, AutoApproach: true, Autoselect: true})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1200; i++ {
		g.Update()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "generations.csv", "interactions.csv", "bookmarks.csv", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("generations.csv has %d lines, want header + 3 generations", len(lines))
	}
}
