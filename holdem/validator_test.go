package holdem

import "testing"

func activeAt(seat int, stack, bet int64) Player {
	return Player{ID: "p", Position: seat, stack: stack, bet: bet, status: PlayerStatusActive}
}

func TestIsValidAction(t *testing.T) {
	state := BettingState{CurrentBet: 10, MinRaise: 10, CurrentPlayer: 1, LastRaisePlayer: 3}
	cases := []struct {
		name   string
		action GameAction
		player Player
		state  BettingState
		want   bool
	}{
		{"fold always legal", GameAction{Type: PlayerActionTypeFold}, activeAt(1, 100, 0), state, true},
		{"out of turn", GameAction{Type: PlayerActionTypeFold}, activeAt(2, 100, 0), state, false},
		{"folded player", GameAction{Type: PlayerActionTypeFold}, Player{Position: 1, stack: 100, status: PlayerStatusFolded}, state, false},
		{"all-in player", GameAction{Type: PlayerActionTypeCall}, Player{Position: 1, status: PlayerStatusAllIn}, state, false},
		{"check facing a bet", GameAction{Type: PlayerActionTypeCheck}, activeAt(1, 100, 0), state, false},
		{"check when matched", GameAction{Type: PlayerActionTypeCheck}, activeAt(1, 100, 10), state, true},
		{"check unopened", GameAction{Type: PlayerActionTypeCheck}, activeAt(1, 100, 0), BettingState{CurrentPlayer: 1, LastRaisePlayer: InvalidSeat}, true},
		{"call facing a bet", GameAction{Type: PlayerActionTypeCall}, activeAt(1, 100, 0), state, true},
		{"call when matched", GameAction{Type: PlayerActionTypeCall}, activeAt(1, 100, 10), state, false},
		{"call short stack", GameAction{Type: PlayerActionTypeCall}, activeAt(1, 4, 0), state, true},
		{"raise below minimum", GameAction{Type: PlayerActionTypeRaise, Amount: 19}, activeAt(1, 100, 0), state, false},
		{"raise at minimum", GameAction{Type: PlayerActionTypeRaise, Amount: 20}, activeAt(1, 100, 0), state, true},
		{"raise over stack", GameAction{Type: PlayerActionTypeRaise, Amount: 120}, activeAt(1, 100, 10), state, false},
		{"raise whole stack", GameAction{Type: PlayerActionTypeRaise, Amount: 110}, activeAt(1, 100, 10), state, true},
		{"raiser cannot re-raise", GameAction{Type: PlayerActionTypeRaise, Amount: 40}, activeAt(3, 100, 0), BettingState{CurrentBet: 10, MinRaise: 10, CurrentPlayer: 3, LastRaisePlayer: 3}, false},
		{"unknown type", GameAction{Type: PlayerActionTypeNone}, activeAt(1, 100, 0), state, false},
	}
	for _, tc := range cases {
		if got := IsValidAction(tc.action, tc.player, tc.state); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestLegalActions(t *testing.T) {
	state := BettingState{CurrentBet: 10, MinRaise: 10, CurrentPlayer: 1, LastRaisePlayer: InvalidSeat}

	got := legalActions(activeAt(1, 15, 0), state)
	if len(got) != 2 || got[0].Type != PlayerActionTypeCall || got[1].Type != PlayerActionTypeFold {
		t.Fatalf("short stack facing a bet may only call or fold: %+v", got)
	}
	if got[0].MinAmount != 10 {
		t.Fatalf("call amount %d want 10", got[0].MinAmount)
	}

	got = legalActions(activeAt(1, 5, 0), state)
	if got[0].Type != PlayerActionTypeCall || got[0].MinAmount != 5 {
		t.Fatalf("call is capped at the stack: %+v", got)
	}

	if got := legalActions(activeAt(2, 100, 0), state); got != nil {
		t.Fatalf("no actions out of turn, got %+v", got)
	}
}
