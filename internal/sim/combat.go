package sim

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/pixelwar/internal/config"
)

// OutcomeKind classifies a resolved engagement.
type OutcomeKind uint8

const (
	OutcomeDraw OutcomeKind = iota // Both sides lose DrawDamage, no capture
	OutcomeHit                     // Loser takes damage proportional to the differential
	OutcomeRout                    // Loser's health is depleted outright
)

// String returns the string representation of an outcome.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDraw:
		return "draw"
	case OutcomeHit:
		return "hit"
	case OutcomeRout:
		return "rout"
	default:
		return "unknown"
	}
}

// Engagement records one fight between an attacker and a neighbor.
type Engagement struct {
	Attacker Coord
	Defender Coord
	Dir      Direction // From attacker to defender
	Kind     OutcomeKind
	Winner   GenomeID // Undefined for draws
	Damage   int      // Health the loser actually lost; the defender's loss for a draw
	Recoil   int      // Health the attacker actually lost in a draw
	Captured bool     // The loser changed owner
}

// Resolver decides whether a cell attacks a neighbor and applies the outcome.
//
// Engagement rules, per candidate neighbor in canonical direction order:
//  1. Desire: desire+modifier+noise must exceed EngagementThreshold, noise
//     drawn per pairing from [-DesireNoise, DesireNoise].
//  2. Cadence: the attacker must not have fought this tick and must roll
//     below frequency+modifier on [0, CadenceThreshold). A failed roll ends
//     the attacker's turn.
//  3. Outcome: both strengths get independent noise. |diff| within TieBand is
//     a draw; above RoutThreshold the loser is captured outright; otherwise the
//     loser takes ceil(|diff|*DamageScale), capped at its remaining health.
//  4. A loser at zero health is captured by the winner's species.
//  5. Both sides are marked as fought.
type Resolver struct {
	cfg config.CombatConfig
	rng *rand.Rand
}

// NewResolver creates a resolver sharing the simulation's random source.
func NewResolver(cfg config.CombatConfig, rng *rand.Rand) *Resolver {
	return &Resolver{cfg: cfg, rng: rng}
}

// attack runs one attacker's turn against its enemy neighbors. It returns
// the engagement and true if a fight happened.
func (r *Resolver) attack(g *Grid, at Coord, candidates []neighbor) (Engagement, bool) {
	atkIdx := g.index(at)
	attacker := &g.cells[atkIdx]
	if attacker.Fought {
		return Engagement{}, false
	}
	atkGenome := g.pop.Genome(attacker.Genome)
	atkStats := attacker.Stats(atkGenome)

	for _, nb := range candidates {
		defender := &g.cells[nb.idx]
		if defender.Fought {
			continue
		}
		if !r.wantsToEngage(atkStats) {
			continue
		}
		if !r.passesCadence(atkStats) {
			return Engagement{}, false
		}
		eng := r.fight(g, attacker, defender)
		eng.Attacker = at
		eng.Defender = nb.at
		eng.Dir = nb.dir
		return eng, true
	}
	return Engagement{}, false
}

// wantsToEngage is the per-pairing desire test.
func (r *Resolver) wantsToEngage(s Stats) bool {
	return s.Desire+symmetricNoise(r.rng, r.cfg.DesireNoise) > r.cfg.EngagementThreshold
}

// passesCadence is the frequency gate.
func (r *Resolver) passesCadence(s Stats) bool {
	return r.rng.Intn(r.cfg.CadenceThreshold) < s.Frequency
}

// fight resolves the outcome between two cells and applies it in place.
func (r *Resolver) fight(g *Grid, attacker, defender *Cell) Engagement {
	atkStr := attacker.Stats(g.pop.Genome(attacker.Genome)).Strength + symmetricNoise(r.rng, r.cfg.StrengthNoise)
	defStr := defender.Stats(g.pop.Genome(defender.Genome)).Strength + symmetricNoise(r.rng, r.cfg.StrengthNoise)

	attacker.Fought = true
	defender.Fought = true

	diff := atkStr - defStr
	gap := diff
	if gap < 0 {
		gap = -gap
	}

	if gap <= r.cfg.TieBand {
		// Draws never capture: health bottoms out at 1.
		drain := func(c *Cell) int {
			before := c.Health
			c.Health = max(c.Health-r.cfg.DrawDamage, 1)
			return before - c.Health
		}
		return Engagement{Kind: OutcomeDraw, Recoil: drain(attacker), Damage: drain(defender)}
	}

	winner, loser := attacker, defender
	if diff < 0 {
		winner, loser = defender, attacker
	}

	eng := Engagement{Winner: winner.Genome}
	if gap > r.cfg.RoutThreshold {
		eng.Kind = OutcomeRout
		eng.Damage = loser.Health
		loser.Health = 0
	} else {
		eng.Kind = OutcomeHit
		dmg := int(math.Ceil(float64(gap) * r.cfg.DamageScale))
		if dmg > loser.Health {
			dmg = loser.Health
		}
		eng.Damage = dmg
		loser.Health -= dmg
	}

	if loser.Health <= 0 {
		r.capture(g, loser, winner.Genome)
		eng.Captured = true
	}
	return eng
}

// capture hands a depleted cell to the winning species. Modifiers are rolled
// fresh rather than inherited from the winner.
func (r *Resolver) capture(g *Grid, loser *Cell, winner GenomeID) {
	loser.assign(winner, g.pop.Genome(winner), RollModifiers(r.rng, g.modRange))
}

// symmetricNoise draws uniformly from [-n, n]; n <= 0 yields 0 without consuming randomness.
func symmetricNoise(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(2*n+1) - n
}
