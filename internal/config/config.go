// Package config provides YAML-based simulation configuration loading and
// aggression presets for the pixelwar simulator.
package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is returned by Validate when a configuration value is unusable.
var ErrInvalid = errors.New("config: invalid value")

// SimConfig contains all configuration for a simulation run.
type SimConfig struct {
	Board  BoardConfig  `yaml:"board"`
	Stats  StatRanges   `yaml:"stats"`
	Combat CombatConfig `yaml:"combat"`
	Aging  AgingConfig  `yaml:"aging"`
}

// BoardConfig defines the default board setup. CLI flags override these.
type BoardConfig struct {
	Width    int    `yaml:"width"`    // 0 = fit to terminal
	Height   int    `yaml:"height"`   // 0 = fit to terminal
	Species  int    `yaml:"species"`  // Population size
	Scenario string `yaml:"scenario"` // Registered scenario ID
}

// StatRange is an inclusive [Min, Max] range for one genome baseline.
type StatRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// StatRanges bounds the randomly generated genome baselines.
type StatRanges struct {
	Health        StatRange `yaml:"health"`
	Strength      StatRange `yaml:"strength"`
	Desire        StatRange `yaml:"desire"`
	Frequency     StatRange `yaml:"frequency"`
	Expectancy    StatRange `yaml:"expectancy"`     // In ticks
	ModifierRange int       `yaml:"modifier_range"` // Per-cell modifiers roll in [-n, n]
}

// CombatConfig holds the thresholds used by the combat resolver.
type CombatConfig struct {
	EngagementThreshold int     `yaml:"engagement_threshold"` // desire+mod+noise must exceed this
	DesireNoise         int     `yaml:"desire_noise"`         // Per-encounter noise in [-n, n]
	CadenceThreshold    int     `yaml:"cadence_threshold"`    // frequency+mod rolled against [0, n)
	StrengthNoise       int     `yaml:"strength_noise"`       // Per-side noise in [-n, n]
	TieBand             int     `yaml:"tie_band"`             // |diff| <= band is a draw
	DrawDamage          int     `yaml:"draw_damage"`          // Health lost by both sides on a draw
	RoutThreshold       int     `yaml:"rout_threshold"`       // |diff| > this captures instantly
	DamageScale         float64 `yaml:"damage_scale"`         // Damage per point of strength differential
}

// AgingConfig controls old-age turnover.
type AgingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	DeathRamp float64 `yaml:"death_ramp"` // Death chance added per tick past expectancy
}

// Validate checks that the config can drive a simulation.
func (c SimConfig) Validate() error {
	if c.Board.Width < 0 || c.Board.Height < 0 {
		return fmt.Errorf("%w: board dimensions must not be negative", ErrInvalid)
	}
	if c.Board.Species < 1 {
		return fmt.Errorf("%w: board.species must be at least 1", ErrInvalid)
	}

	ranges := map[string]StatRange{
		"health":     c.Stats.Health,
		"strength":   c.Stats.Strength,
		"desire":     c.Stats.Desire,
		"frequency":  c.Stats.Frequency,
		"expectancy": c.Stats.Expectancy,
	}
	for name, r := range ranges {
		if r.Min < 0 || r.Max > math.MaxUint16 || r.Min > r.Max {
			return fmt.Errorf("%w: stats.%s range [%d, %d]", ErrInvalid, name, r.Min, r.Max)
		}
	}
	if c.Stats.ModifierRange < 0 || c.Stats.ModifierRange > math.MaxInt8 {
		return fmt.Errorf("%w: stats.modifier_range %d outside [0, %d]", ErrInvalid, c.Stats.ModifierRange, math.MaxInt8)
	}
	// A cell's starting health is base+modifier and must stay positive.
	if c.Stats.Health.Min <= c.Stats.ModifierRange {
		return fmt.Errorf("%w: stats.health.min must exceed modifier_range", ErrInvalid)
	}

	cc := c.Combat
	if cc.DesireNoise < 0 || cc.StrengthNoise < 0 || cc.TieBand < 0 || cc.DrawDamage < 0 {
		return fmt.Errorf("%w: combat noise, tie band and draw damage must not be negative", ErrInvalid)
	}
	if cc.CadenceThreshold < 1 {
		return fmt.Errorf("%w: combat.cadence_threshold must be at least 1", ErrInvalid)
	}
	if cc.RoutThreshold < cc.TieBand {
		return fmt.Errorf("%w: combat.rout_threshold below tie_band", ErrInvalid)
	}
	if cc.DamageScale <= 0 {
		return fmt.Errorf("%w: combat.damage_scale must be positive", ErrInvalid)
	}
	if c.Aging.DeathRamp < 0 {
		return fmt.Errorf("%w: aging.death_ramp must not be negative", ErrInvalid)
	}
	return nil
}

// AggressionPreset represents a named combat tuning.
type AggressionPreset string

const (
	AggressionCalm   AggressionPreset = "calm"
	AggressionNormal AggressionPreset = "normal"
	AggressionSavage AggressionPreset = "savage"
	AggressionFixed  AggressionPreset = "fixed" // Conquest only, no old-age turnover
)

// ParseAggressionPreset converts a flag value to a preset.
// An empty string maps to AggressionNormal.
func ParseAggressionPreset(s string) (AggressionPreset, error) {
	switch AggressionPreset(s) {
	case "":
		return AggressionNormal, nil
	case AggressionCalm, AggressionNormal, AggressionSavage, AggressionFixed:
		return AggressionPreset(s), nil
	default:
		return "", fmt.Errorf("%w: unknown aggression preset %q", ErrInvalid, s)
	}
}

// ApplyAggressionPreset modifies the combat config based on a preset.
// AggressionNormal leaves the loaded values untouched.
func ApplyAggressionPreset(cfg *SimConfig, preset AggressionPreset) {
	switch preset {
	case AggressionCalm:
		cfg.Combat.EngagementThreshold = 70
		cfg.Combat.CadenceThreshold = 200
		cfg.Combat.RoutThreshold = 80
	case AggressionSavage:
		cfg.Combat.EngagementThreshold = 25
		cfg.Combat.CadenceThreshold = 60
		cfg.Combat.RoutThreshold = 40
		cfg.Combat.DamageScale = 1.5
	case AggressionFixed:
		cfg.Aging.Enabled = false
	}
}
