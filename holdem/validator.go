package holdem

// IsValidAction reports whether action is legal for player in state.
// It is a pure function of its inputs.
func IsValidAction(action GameAction, player Player, state BettingState) bool {
	if player.status != PlayerStatusActive {
		return false
	}
	if state.CurrentPlayer != player.Position {
		return false
	}

	switch action.Type {
	case PlayerActionTypeFold:
		return true
	case PlayerActionTypeCheck:
		return state.CurrentBet == 0 || player.bet == state.CurrentBet
	case PlayerActionTypeCall:
		return state.CurrentBet-player.bet > 0 && player.stack > 0
	case PlayerActionTypeRaise:
		if action.Amount < state.CurrentBet+state.MinRaise {
			return false
		}
		if action.Amount-player.bet > player.stack {
			return false
		}
		return state.LastRaisePlayer != player.Position
	default:
		return false
	}
}

// LegalAction is one action a player may take, with its amount bounds.
// For RAISE, MinAmount/MaxAmount bound the raise-to total; for CALL, MinAmount
// is the chips the call moves.
type LegalAction struct {
	Type      ActionType
	MinAmount int64
	MaxAmount int64
}

// legalActions projects IsValidAction over the action types.
func legalActions(player Player, state BettingState) []LegalAction {
	if player.status != PlayerStatusActive || state.CurrentPlayer != player.Position {
		return nil
	}
	out := make([]LegalAction, 0, 4)
	probe := GameAction{PlayerID: player.ID}

	probe.Type = PlayerActionTypeCheck
	if IsValidAction(probe, player, state) {
		out = append(out, LegalAction{Type: PlayerActionTypeCheck})
	}
	probe.Type = PlayerActionTypeCall
	if IsValidAction(probe, player, state) {
		toCall := state.CurrentBet - player.bet
		if toCall > player.stack {
			toCall = player.stack
		}
		out = append(out, LegalAction{Type: PlayerActionTypeCall, MinAmount: toCall, MaxAmount: toCall})
	}
	probe.Type = PlayerActionTypeRaise
	probe.Amount = state.CurrentBet + state.MinRaise
	if IsValidAction(probe, player, state) {
		out = append(out, LegalAction{
			Type:      PlayerActionTypeRaise,
			MinAmount: probe.Amount,
			MaxAmount: player.bet + player.stack,
		})
	}
	out = append(out, LegalAction{Type: PlayerActionTypeFold})
	return out
}
