package npc

import (
	"math/rand"

	"holdem-fair/card"
	"holdem-fair/holdem"
)

// RuleBrain makes decisions based on a PersonalityProfile with tunable parameters.
type RuleBrain struct {
	Persona   *Persona
	evaluator holdem.HandEvaluator
	rng       *rand.Rand
}

// NewRuleBrain creates a RuleBrain from a persona definition.
func NewRuleBrain(persona *Persona, seed int64) *RuleBrain {
	return &RuleBrain{
		Persona:   persona,
		evaluator: holdem.NewLibraryEvaluator(),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (b *RuleBrain) Name() string { return b.Persona.Name }

// Decide implements BrainDecider. Every decision it returns is one of view.LegalActions.
func (b *RuleBrain) Decide(view GameView) Decision {
	p := b.Persona.Brain

	// Add randomness noise to parameters for this decision
	aggression := clamp01(p.Aggression + (b.rng.Float64()-0.5)*p.Randomness*0.4)
	tightness := clamp01(p.Tightness + (b.rng.Float64()-0.5)*p.Randomness*0.3)

	if len(view.LegalActions) == 0 {
		return Decision{Action: holdem.PlayerActionTypeFold}
	}
	_, canFold := view.Legal(holdem.PlayerActionTypeFold)
	_, canCheck := view.Legal(holdem.PlayerActionTypeCheck)
	call, canCall := view.Legal(holdem.PlayerActionTypeCall)
	raise, canRaise := view.Legal(holdem.PlayerActionTypeRaise)

	strength := b.estimateHandStrength(view)

	// Preflop: tight players fold more marginal hands
	if view.Round == holdem.RoundPreFlop {
		foldThreshold := tightness * 0.6
		if strength < foldThreshold && canFold {
			if canCheck {
				return Decision{Action: holdem.PlayerActionTypeCheck}
			}
			return Decision{Action: holdem.PlayerActionTypeFold}
		}
	}

	aggressivePlay := strength > (1.0-aggression)*0.5
	if aggressivePlay && canRaise {
		return Decision{Action: holdem.PlayerActionTypeRaise, Amount: b.raiseTo(view, raise, aggression)}
	}

	// Bluff attempt
	if !aggressivePlay && canRaise && b.rng.Float64() < p.Bluffing*0.3 {
		return Decision{Action: holdem.PlayerActionTypeRaise, Amount: b.raiseTo(view, raise, 0.4)}
	}

	if canCheck {
		return Decision{Action: holdem.PlayerActionTypeCheck}
	}
	if canCall {
		// Loose players call more often; tight players fold facing bets.
		// A call that puts the whole stack in needs a real hand.
		callThreshold := tightness * 0.4
		if call.MinAmount >= view.MyStack {
			callThreshold = 0.6
		}
		if strength > callThreshold || b.rng.Float64() < (1.0-tightness)*0.5 {
			return Decision{Action: holdem.PlayerActionTypeCall}
		}
	}
	return Decision{Action: holdem.PlayerActionTypeFold}
}

// estimateHandStrength returns a 0.0–1.0 heuristic. Preflop it scores the hole cards;
// once the board is out it maps the made hand's ranking onto the scale.
func (b *RuleBrain) estimateHandStrength(view GameView) float64 {
	if len(view.HoleCards) < 2 {
		return 0.3
	}
	if len(view.Community) >= 3 {
		all := make([]card.Card, 0, 7)
		all = append(all, view.HoleCards...)
		all = append(all, view.Community...)
		if h, err := b.evaluator.Evaluate(all); err == nil {
			s := float64(h.Ranking) / float64(holdem.HandStraightFlush)
			return clamp01(s + (b.rng.Float64()-0.5)*0.1)
		}
	}

	c0, c1 := view.HoleCards[0], view.HoleCards[1]
	rank0, rank1 := c0.Rank.Value(), c1.Rank.Value()

	strength := (float64(rank0) + float64(rank1)) / 28.0

	// Pair bonus
	if rank0 == rank1 {
		strength += 0.25
	}
	// Suited bonus
	if c0.Suit == c1.Suit {
		strength += 0.05
	}
	// Connected bonus
	gap := rank0 - rank1
	if gap < 0 {
		gap = -gap
	}
	if gap <= 2 {
		strength += 0.05
	}
	return clamp01(strength)
}

// raiseTo sizes a raise-to total between the legal bounds: 2x to 3.5x the bet
// facing, or a fraction of the pot when nothing is bet yet.
func (b *RuleBrain) raiseTo(view GameView, bounds holdem.LegalAction, aggression float64) int64 {
	var target int64
	if view.CurrentBet > 0 {
		target = int64(float64(view.CurrentBet) * (2.0 + aggression*1.5))
	} else {
		target = int64(float64(view.Pot) * (0.33 + aggression*0.67))
	}
	if target < bounds.MinAmount {
		target = bounds.MinAmount
	}
	if target > bounds.MaxAmount {
		target = bounds.MaxAmount
	}
	return target
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
