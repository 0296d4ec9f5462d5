package config

import (
	_ "embed"
)

//go:embed defaults/pixelwar.yaml
var defaultSimYAML []byte

// DefaultSimConfig returns the default simulation configuration.
// It mirrors defaults/pixelwar.yaml and is used when the embedded file fails to parse.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Board: BoardConfig{
			Width:    0,
			Height:   0,
			Species:  16,
			Scenario: "classic",
		},
		Stats: StatRanges{
			Health:        StatRange{Min: 20, Max: 100},
			Strength:      StatRange{Min: 0, Max: 100},
			Desire:        StatRange{Min: 0, Max: 100},
			Frequency:     StatRange{Min: 0, Max: 100},
			Expectancy:    StatRange{Min: 200, Max: 1000},
			ModifierRange: 10,
		},
		Combat: CombatConfig{
			EngagementThreshold: 50,
			DesireNoise:         25,
			CadenceThreshold:    100,
			StrengthNoise:       20,
			TieBand:             5,
			DrawDamage:          2,
			RoutThreshold:       60,
			DamageScale:         1.0,
		},
		Aging: AgingConfig{
			Enabled:   true,
			DeathRamp: 0.002,
		},
	}
}
