package npc

import (
	"holdem-fair/card"
	"holdem-fair/holdem"
)

// GameView is a read-only projection of the hand visible to the NPC.
type GameView struct {
	Round        holdem.Round
	HoleCards    []card.Card
	Community    []card.Card
	Pot          int64
	CurrentBet   int64
	MyBet        int64
	MyStack      int64
	MinRaise     int64
	LegalActions []holdem.LegalAction
	ActiveCount  int
	IsDealer     bool
}

// Legal returns the bounds for typ, if the action is currently allowed.
func (v GameView) Legal(typ holdem.ActionType) (holdem.LegalAction, bool) {
	for _, la := range v.LegalActions {
		if la.Type == typ {
			return la, true
		}
	}
	return holdem.LegalAction{}, false
}

// Decision is what a BrainDecider returns.
type Decision struct {
	Action holdem.ActionType
	Amount int64
}

// GameAction converts the decision into an action for playerID.
func (d Decision) GameAction(playerID string) holdem.GameAction {
	return holdem.GameAction{Type: d.Action, PlayerID: playerID, Amount: d.Amount}
}

// BrainDecider is the core interface all NPC types implement.
type BrainDecider interface {
	// Decide is called when it's the NPC's turn.
	Decide(view GameView) Decision
	// Name returns a human-readable identifier for debugging.
	Name() string
}
