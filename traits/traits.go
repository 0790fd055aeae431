// Package traits defines pollinator species and their sensory/behavioral profiles.
package traits

import "github.com/pthm-cable/bloom/components"

// Recognized species names.
const (
	Butterfly   = "Butterfly"
	Bee         = "Bee"
	Hummingbird = "Hummingbird"
	HawkMoth    = "HawkMoth"
	Generic     = "Generic"
)

// Profile is the fixed trait set of a pollinator species.
type Profile struct {
	Species             string
	ProboscisLength     float64   // Effective reach into a spur, 0..1
	ColorPreferences    []float64 // Hue anchors in degrees
	UVAffinity          float64
	ScentSensitivity    float64
	HoverSkill          float64
	TurbulenceTolerance float64
}

// profiles holds the recognized species in display order.
var profiles = []Profile{
	{
		Species:             Butterfly,
		ProboscisLength:     0.65,
		ColorPreferences:    []float64{20, 60, 120, 300},
		UVAffinity:          0.4,
		ScentSensitivity:    0.6,
		HoverSkill:          0.4,
		TurbulenceTolerance: 0.4,
	},
	{
		Species:             Bee,
		ProboscisLength:     0.35,
		ColorPreferences:    []float64{60, 90, 120},
		UVAffinity:          0.8,
		ScentSensitivity:    0.7,
		HoverSkill:          0.2,
		TurbulenceTolerance: 0.6,
	},
	{
		Species:             Hummingbird,
		ProboscisLength:     0.85,
		ColorPreferences:    []float64{0, 10, 350},
		UVAffinity:          0.2,
		ScentSensitivity:    0.3,
		HoverSkill:          0.9,
		TurbulenceTolerance: 0.7,
	},
	{
		Species:             HawkMoth,
		ProboscisLength:     0.95,
		ColorPreferences:    []float64{280, 320},
		UVAffinity:          0.6,
		ScentSensitivity:    0.9,
		HoverSkill:          0.8,
		TurbulenceTolerance: 0.8,
	},
}

// genericProfile is the balanced fallback for unrecognized species.
var genericProfile = Profile{
	Species:             Generic,
	ProboscisLength:     0.5,
	ColorPreferences:    []float64{60, 120, 240},
	UVAffinity:          0.5,
	ScentSensitivity:    0.5,
	HoverSkill:          0.5,
	TurbulenceTolerance: 0.5,
}

// ProfileFor returns the profile for a species name.
// Unrecognized names return the generic profile with ok=false; the
// returned profile keeps the requested name.
func ProfileFor(species string) (p Profile, ok bool) {
	for _, prof := range profiles {
		if prof.Species == species {
			return prof.clone(), true
		}
	}
	p = genericProfile.clone()
	p.Species = species
	return p, false
}

// Species returns the recognized species names in display order.
func Species() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Species
	}
	return names
}

// clone copies the anchor slice so callers cannot mutate the table.
func (p Profile) clone() Profile {
	anchors := make([]float64, len(p.ColorPreferences))
	copy(anchors, p.ColorPreferences)
	p.ColorPreferences = anchors
	return p
}

// PreferHue scores a hue against the color anchors: 1 at an anchor,
// falling linearly to 0 at 180 degrees from the nearest one.
func (p Profile) PreferHue(h float64) float64 {
	minDist := 180.0
	for _, anchor := range p.ColorPreferences {
		if d := components.CircularDistance(h, anchor); d < minDist {
			minDist = d
		}
	}
	return 1.0 - minDist/180
}

// EffectiveReach returns the proboscis reach including the hover bonus.
func (p Profile) EffectiveReach() float64 {
	return p.ProboscisLength * (0.9 + 0.2*p.HoverSkill)
}
