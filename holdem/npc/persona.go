package npc

import "fmt"

// PersonalityProfile defines the tunable parameters for a RuleBrain.
type PersonalityProfile struct {
	Aggression float64 `json:"aggression"` // 0.0–1.0: tendency to bet/raise vs check/call
	Tightness  float64 `json:"tightness"`  // 0.0–1.0: hand range width (1.0 = only premiums)
	Bluffing   float64 `json:"bluffing"`   // 0.0–1.0: bluff frequency
	Randomness float64 `json:"randomness"` // 0.0–1.0: decision noise
}

func (p PersonalityProfile) validate() error {
	for name, v := range map[string]float64{
		"aggression": p.Aggression,
		"tightness":  p.Tightness,
		"bluffing":   p.Bluffing,
		"randomness": p.Randomness,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %.2f out of [0,1]", name, v)
		}
	}
	return nil
}

// Persona defines a named NPC character.
type Persona struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Tagline string             `json:"tagline"`
	Tier    int                `json:"tier"` // 1=shark, 2=regular, 3=filler
	Brain   PersonalityProfile `json:"brain"`
}

// DefaultPersonas is the built-in roster used when no personas file is configured.
var DefaultPersonas = []*Persona{
	{ID: "rock", Name: "ROCK", Tagline: "folds until the nuts", Tier: 2,
		Brain: PersonalityProfile{Aggression: 0.25, Tightness: 0.85, Bluffing: 0.05, Randomness: 0.1}},
	{ID: "station", Name: "STATION", Tagline: "calls everything", Tier: 3,
		Brain: PersonalityProfile{Aggression: 0.10, Tightness: 0.10, Bluffing: 0.05, Randomness: 0.3}},
	{ID: "lag", Name: "LAG", Tagline: "loose and aggressive", Tier: 1,
		Brain: PersonalityProfile{Aggression: 0.75, Tightness: 0.30, Bluffing: 0.55, Randomness: 0.2}},
	{ID: "tag", Name: "TAG", Tagline: "tight and aggressive", Tier: 1,
		Brain: PersonalityProfile{Aggression: 0.65, Tightness: 0.65, Bluffing: 0.20, Randomness: 0.1}},
}
