package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/pthm-cable/bloom/flora"
)

// HallEntry records a high-fitness flower and the generation it bloomed in.
type HallEntry struct {
	Generation int
	Flower     flora.State
}

// HallOfFame keeps the fittest flowers seen across every generation.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates a retiring flower for entry.
// Returns true if the flower was added to the hall.
func (hof *HallOfFame) Consider(generation int, f flora.State) bool {
	// Flowers that never set seed are not candidates
	if f.Fitness <= 0 {
		return false
	}

	entry := HallEntry{Generation: generation, Flower: f}

	// Find insertion point (sorted descending by fitness, earlier entries win ties)
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Flower.Fitness < f.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}

	return true
}

// ConsiderAll evaluates a whole outgoing population.
func (hof *HallOfFame) ConsiderAll(generation int, flowers []flora.State) int {
	added := 0
	for _, f := range flowers {
		if hof.Consider(generation, f) {
			added++
		}
	}
	return added
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the highest fitness in the hall, 0 if empty.
func (hof *HallOfFame) TopFitness() int {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Flower.Fitness
}

// Clear empties the hall.
func (hof *HallOfFame) Clear() {
	hof.entries = hof.entries[:0]
}

// hallEntryJSON is the JSON-serializable representation of a hall entry.
type hallEntryJSON struct {
	Generation     int     `json:"generation"`
	FlowerID       int     `json:"flower_id"`
	Fitness        int     `json:"fitness"`
	Successes      int     `json:"successes"`
	SeedCount      int     `json:"seed_count"`
	Visits         int     `json:"visits"`
	SpurLength     float64 `json:"spur_length"`
	Hue            float64 `json:"hue"`
	UVIndex        float64 `json:"uv_index"`
	ScentIntensity float64 `json:"scent_intensity"`
	PetalCount     int     `json:"petal_count"`
	NectarCapacity float64 `json:"nectar_capacity"`
	RegenRate      float64 `json:"regen_rate"`
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		f := e.Flower
		export[i] = hallEntryJSON{
			Generation:     e.Generation,
			FlowerID:       f.ID,
			Fitness:        f.Fitness,
			Successes:      f.Successes,
			SeedCount:      f.SeedCount,
			Visits:         f.Visits,
			SpurLength:     f.SpurLength,
			Hue:            f.Hue,
			UVIndex:        f.UVIndex,
			ScentIntensity: f.ScentIntensity,
			PetalCount:     f.PetalCount,
			NectarCapacity: f.NectarCapacity,
			RegenRate:      f.RegenRate,
		}
	}
	return json.MarshalIndent(map[string][]hallEntryJSON{"flowers": export}, "", "  ")
}
