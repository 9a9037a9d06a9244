package npc

import (
	"testing"

	"holdem-fair/holdem"
)

// Bots drive whole hands through the real betting machine; every decision must be accepted.
func TestManager_BotsOnlyTakeLegalActions(t *testing.T) {
	dealer := 0
	e, err := holdem.NewGameEngine(holdem.Config{Players: 6, ForcedDealer: &dealer, Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	m := NewManager(NewDefaultRegistry(), 5, nil)
	for _, p := range e.Roster().Players() {
		if m.SpawnRandom(p.ID) == nil {
			t.Fatalf("default registry is empty")
		}
	}

	for hand := 0; hand < 20; hand++ {
		if err := e.StartNewHand(); err != nil {
			t.Fatalf("hand %d: %v", hand, err)
		}
		rm, err := e.NewRoundManager()
		if err != nil {
			t.Fatal(err)
		}
		for steps := 0; !rm.IsHandComplete(); steps++ {
			if steps > 500 {
				t.Fatalf("hand %d did not finish", hand)
			}
			if rm.IsRoundComplete() {
				rm.AdvanceRound()
				continue
			}
			p := rm.CurrentPlayer()
			if p == nil {
				t.Fatalf("hand %d: nobody to act", hand)
			}
			d := m.OnTurn(p.ID, e.GameState(), rm.CurrentState(), rm.LegalActions(p.ID))
			if !rm.HandleAction(d.GameAction(p.ID)) {
				t.Fatalf("hand %d: %s chose illegal %s %d", hand, p.ID, d.Action, d.Amount)
			}
		}
		if _, err := rm.Settle(e.GameState().CommunityCards, holdem.NewLibraryEvaluator()); err != nil {
			t.Fatalf("hand %d settle: %v", hand, err)
		}
		var total int64
		for _, p := range e.Roster().Players() {
			total += p.Stack()
		}
		if total != 6*holdem.DefaultStartingStack {
			t.Fatalf("hand %d: chips not conserved, total %d", hand, total)
		}
		if e.Roster().Len()-countBusted(e) < 2 {
			break
		}
	}
}

func countBusted(e *holdem.GameEngine) int {
	n := 0
	for _, p := range e.Roster().Players() {
		if p.Stack() == 0 {
			n++
		}
	}
	return n
}

func TestBuildGameView_HidesOpponents(t *testing.T) {
	dealer := 0
	e, err := holdem.NewGameEngine(holdem.Config{Players: 3, ForcedDealer: &dealer})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.StartNewHand(); err != nil {
		t.Fatal(err)
	}
	rm, _ := e.NewRoundManager()
	view := BuildGameView("1", e.GameState(), rm.CurrentState(), rm.LegalActions("1"))
	if len(view.HoleCards) != 2 || view.HoleCards[0].Hidden {
		t.Fatalf("npc must see its own cards")
	}
	if len(view.Community) != 0 {
		t.Fatalf("no board preflop, got %d cards", len(view.Community))
	}
	if view.Pot != 3 || view.CurrentBet != 2 || view.ActiveCount != 3 || !view.IsDealer {
		t.Fatalf("unexpected view: %+v", view)
	}
	if len(view.LegalActions) == 0 {
		t.Fatalf("seat 0 is first to act three-handed")
	}
}
