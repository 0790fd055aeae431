package telemetry

import "log/slog"

// GenerationStats holds aggregated statistics for one flower generation.
type GenerationStats struct {
	Generation int   `csv:"generation"`
	StartTick  int64 `csv:"-"`
	EndTick    int64 `csv:"end_tick"`

	Population int `csv:"population"`
	EliteCount int `csv:"elites"`

	// Interactions during the generation
	Approaches      int     `csv:"approaches"`
	Probes          int     `csv:"probes"`
	Successes       int     `csv:"successes"`
	ReachFailures   int     `csv:"reach_failures"`
	SuccessRate     float64 `csv:"success_rate"`
	MeanContact     float64 `csv:"mean_contact"`
	MeanWindPenalty float64 `csv:"mean_wind_penalty"`

	// Fitness of the outgoing population
	FitnessMax    float64 `csv:"fitness_max"`
	FitnessMean   float64 `csv:"fitness_mean"`
	FitnessMedian float64 `csv:"fitness_p50"`
	FitnessTotal  float64 `csv:"fitness_total"`
	SeedsTotal    int     `csv:"seeds_total"`

	// Trait distribution
	SpurMean         float64 `csv:"spur_mean"`
	SpurStd          float64 `csv:"spur_std"`
	UVMean           float64 `csv:"uv_mean"`
	UVStd            float64 `csv:"uv_std"`
	ScentMean        float64 `csv:"scent_mean"`
	ScentStd         float64 `csv:"scent_std"`
	PetalMean        float64 `csv:"petal_mean"`
	CapacityMean     float64 `csv:"capacity_mean"`
	RegenMean        float64 `csv:"regen_mean"`
	NectarMean       float64 `csv:"nectar_mean"`
	HueMean          float64 `csv:"hue_mean"`
	HueConcentration float64 `csv:"hue_concentration"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int64("start_tick", s.StartTick),
		slog.Int64("end_tick", s.EndTick),
		slog.Int("population", s.Population),
		slog.Int("elites", s.EliteCount),
		slog.Int("approaches", s.Approaches),
		slog.Int("probes", s.Probes),
		slog.Int("successes", s.Successes),
		slog.Int("reach_failures", s.ReachFailures),
		slog.Float64("success_rate", s.SuccessRate),
		slog.Float64("mean_contact", s.MeanContact),
		slog.Float64("mean_wind_penalty", s.MeanWindPenalty),
		slog.Float64("fitness_max", s.FitnessMax),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_p50", s.FitnessMedian),
		slog.Float64("fitness_total", s.FitnessTotal),
		slog.Int("seeds_total", s.SeedsTotal),
		slog.Float64("spur_mean", s.SpurMean),
		slog.Float64("spur_std", s.SpurStd),
		slog.Float64("uv_mean", s.UVMean),
		slog.Float64("uv_std", s.UVStd),
		slog.Float64("scent_mean", s.ScentMean),
		slog.Float64("scent_std", s.ScentStd),
		slog.Float64("petal_mean", s.PetalMean),
		slog.Float64("capacity_mean", s.CapacityMean),
		slog.Float64("regen_mean", s.RegenMean),
		slog.Float64("nectar_mean", s.NectarMean),
		slog.Float64("hue_mean", s.HueMean),
		slog.Float64("hue_concentration", s.HueConcentration),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"end_tick", s.EndTick,
		"population", s.Population,
		"elites", s.EliteCount,
		"probes", s.Probes,
		"successes", s.Successes,
		"reach_failures", s.ReachFailures,
		"success_rate", s.SuccessRate,
		"mean_contact", s.MeanContact,
		"fitness_max", s.FitnessMax,
		"fitness_mean", s.FitnessMean,
		"spur_mean", s.SpurMean,
		"spur_std", s.SpurStd,
		"uv_mean", s.UVMean,
		"scent_mean", s.ScentMean,
		"hue_mean", s.HueMean,
		"hue_concentration", s.HueConcentration,
	)
}

// InteractionRecord is one probe outcome, written to interactions.csv.
type InteractionRecord struct {
	Tick        int64   `csv:"tick"`
	Generation  int     `csv:"generation"`
	Species     string  `csv:"species"`
	FlowerID    int     `csv:"flower_id"`
	Success     bool    `csv:"success"`
	ReachOK     bool    `csv:"reach_ok"`
	ContactProb float64 `csv:"contact_prob"`
	WindPenalty float64 `csv:"wind_penalty"`
	TimeOfDay   float64 `csv:"time_of_day"`
}

// NewInteractionRecord builds a record from a pollination event.
func NewInteractionRecord(e Event, generation int, species string, timeOfDay float64) InteractionRecord {
	return InteractionRecord{
		Tick:        e.Tick,
		Generation:  generation,
		Species:     species,
		FlowerID:    e.FlowerID,
		Success:     e.Success,
		ReachOK:     e.ReachOK,
		ContactProb: e.ContactProb,
		WindPenalty: e.WindPenalty,
		TimeOfDay:   timeOfDay,
	}
}
