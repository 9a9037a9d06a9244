package holdem

import (
	"maps"

	"go.uber.org/zap"
)

// BettingState is the observable state of the betting machine.
type BettingState struct {
	Round            Round
	CurrentBet       int64
	Pot              int64
	MinRaise         int64
	CurrentPlayer    int
	LastRaisePlayer  int
	ActionsThisRound map[string]GameAction
	SidePots         []SidePot
	Players          []Player
}

// RoundManager runs the betting for one hand over a caller-owned roster.
// It is not safe for concurrent use; callers serialize HandleAction.
type RoundManager struct {
	roster *Roster
	rule   seatingRule
	dealer int
	blinds Blinds
	logger *zap.Logger

	sbSeat int
	bbSeat int

	round           Round
	currentBet      int64
	pot             int64
	minRaise        int64
	currentPlayer   int
	lastRaisePlayer int
	actions         map[string]GameAction
	sidePots        []SidePot
	settled         bool
}

// NewRoundManager assigns roles for the button at dealer, posts blinds and
// points at the first player to act pre-flop.
func NewRoundManager(roster *Roster, dealer int, blinds Blinds, opts ...Option) *RoundManager {
	o := applyOptions(opts)
	rm := &RoundManager{
		roster:          roster,
		rule:            ruleFor(roster.count(dealtIn)),
		dealer:          dealer,
		blinds:          blinds,
		logger:          o.logger,
		round:           RoundPreFlop,
		lastRaisePlayer: InvalidSeat,
		currentPlayer:   InvalidSeat,
		actions:         make(map[string]GameAction),
	}
	rm.sbSeat, rm.bbSeat = assignRoles(roster, rm.rule, dealer)
	rm.postBlinds()
	rm.currentPlayer = rm.rule.firstToAct(roster, RoundPreFlop, dealer)
	rm.logger.Debug("betting started",
		zap.String("table", rm.rule.name()),
		zap.Int("dealer", dealer),
		zap.Int("small_blind", rm.sbSeat),
		zap.Int("big_blind", rm.bbSeat),
		zap.Int("first_to_act", rm.currentPlayer))
	return rm
}

func (rm *RoundManager) postBlinds() {
	if p := rm.roster.Seat(rm.sbSeat); p != nil && p.CanAct() {
		rm.pot += p.placeBet(rm.blinds.Small)
	}
	if p := rm.roster.Seat(rm.bbSeat); p != nil && p.CanAct() {
		rm.pot += p.placeBet(rm.blinds.Big)
	}
	rm.currentBet = rm.blinds.Big
	rm.minRaise = rm.blinds.Big
	rm.updateSidePots()
}

// HandleAction applies action if it is legal and returns whether it was applied.
// Illegal actions leave the state unchanged.
func (rm *RoundManager) HandleAction(action GameAction) bool {
	p := rm.roster.ByID(action.PlayerID)
	if p == nil {
		return false
	}
	if !IsValidAction(action, *p, rm.state()) {
		rm.logger.Debug("action rejected",
			zap.String("player", action.PlayerID),
			zap.Stringer("type", action.Type),
			zap.Int64("amount", action.Amount))
		return false
	}

	switch action.Type {
	case PlayerActionTypeFold:
		p.fold()
	case PlayerActionTypeCheck:
		// no-op
	case PlayerActionTypeCall:
		toCall := rm.currentBet - p.bet
		if toCall >= p.stack {
			rm.pot += p.placeBet(p.stack)
		} else {
			rm.pot += p.placeBet(toCall)
		}
		action.Amount = p.bet
	case PlayerActionTypeRaise:
		newBet := min(action.Amount, p.stack+p.bet)
		rm.pot += p.placeBet(newBet - p.bet)
		rm.minRaise = newBet - rm.currentBet
		rm.currentBet = newBet
		rm.lastRaisePlayer = p.Position
	}

	rm.actions[p.ID] = action
	rm.updateSidePots()
	rm.advanceTurn(p.Position)
	return true
}

// HandleAllIn pushes the player's whole stack. amount must cover the stack.
// A push that raises by at least the minimum raise reopens the betting;
// a shorter push only lifts the bet to call.
func (rm *RoundManager) HandleAllIn(playerID string, amount int64) bool {
	p := rm.roster.ByID(playerID)
	if p == nil || !p.CanAct() || p.Position != rm.currentPlayer {
		return false
	}
	if p.stack <= 0 || amount < p.stack {
		return false
	}

	rm.pot += p.placeBet(p.stack)

	recorded := GameAction{Type: PlayerActionTypeCall, PlayerID: p.ID, Amount: p.bet}
	if p.bet > rm.currentBet {
		increment := p.bet - rm.currentBet
		if increment >= rm.minRaise {
			rm.minRaise = increment
			rm.lastRaisePlayer = p.Position
		}
		rm.currentBet = p.bet
		recorded.Type = PlayerActionTypeRaise
	}
	rm.actions[p.ID] = recorded
	rm.updateSidePots()
	rm.advanceTurn(p.Position)
	rm.logger.Debug("all-in",
		zap.String("player", p.ID),
		zap.Int64("bet", p.bet),
		zap.Int64("current_bet", rm.currentBet))
	return true
}

func (rm *RoundManager) advanceTurn(from int) {
	if next := rm.rule.nextToAct(rm.roster, from); next != InvalidSeat {
		rm.currentPlayer = next
	}
}

// IsRoundComplete reports whether every player still able to act has acted
// this round and matched the current bet. All-in players are exempt.
func (rm *RoundManager) IsRoundComplete() bool {
	for _, seat := range rm.rule.actingOrder(rm.roster, rm.round, rm.dealer) {
		p := rm.roster.Seat(seat)
		if !p.CanAct() {
			continue
		}
		if _, acted := rm.actions[p.ID]; !acted {
			return false
		}
		if p.bet != rm.currentBet {
			return false
		}
	}
	return true
}

// AdvanceRound moves to the next street and resets per-round betting.
// At the river it is a no-op.
func (rm *RoundManager) AdvanceRound() Round {
	if rm.round == RoundRiver {
		return rm.round
	}
	rm.round++
	rm.currentBet = 0
	rm.minRaise = rm.blinds.Big
	rm.lastRaisePlayer = InvalidSeat
	rm.actions = make(map[string]GameAction)
	for _, p := range rm.roster.seats {
		if p != nil {
			p.resetBet()
		}
	}
	rm.updateSidePots()
	rm.currentPlayer = rm.rule.firstToAct(rm.roster, rm.round, rm.dealer)
	rm.logger.Debug("round advanced",
		zap.Stringer("round", rm.round),
		zap.Int("first_to_act", rm.currentPlayer),
		zap.Int64("pot", rm.pot))
	return rm.round
}

// IsHandComplete reports whether no further betting can happen.
func (rm *RoundManager) IsHandComplete() bool {
	if rm.roster.count(func(p *Player) bool { return p.InHand() }) <= 1 {
		return true
	}
	active := 0
	matched := true
	for _, p := range rm.roster.seats {
		if p == nil || !p.CanAct() {
			continue
		}
		active++
		if p.bet != rm.currentBet {
			matched = false
		}
	}
	if active <= 1 && matched {
		return true
	}
	return rm.round == RoundRiver && rm.IsRoundComplete()
}

func (rm *RoundManager) updateSidePots() {
	rm.sidePots = ComputeSidePots(contributions(rm.roster))
}

func (rm *RoundManager) state() BettingState {
	return BettingState{
		Round:            rm.round,
		CurrentBet:       rm.currentBet,
		Pot:              rm.pot,
		MinRaise:         rm.minRaise,
		CurrentPlayer:    rm.currentPlayer,
		LastRaisePlayer:  rm.lastRaisePlayer,
		ActionsThisRound: rm.actions,
		SidePots:         rm.sidePots,
	}
}

// CurrentState returns a deep copy of the betting state, players included.
func (rm *RoundManager) CurrentState() BettingState {
	s := rm.state()
	s.ActionsThisRound = maps.Clone(rm.actions)
	s.SidePots = cloneSidePots(rm.sidePots)
	s.Players = rm.roster.snapshot()
	return s
}

func (rm *RoundManager) Round() Round { return rm.round }
func (rm *RoundManager) Pot() int64   { return rm.pot }
func (rm *RoundManager) Dealer() int  { return rm.dealer }

// CurrentPlayer returns the player whose turn it is, nil when nobody can act.
func (rm *RoundManager) CurrentPlayer() *Player {
	p := rm.roster.Seat(rm.currentPlayer)
	if p == nil || !p.CanAct() {
		return nil
	}
	return p
}

// LegalActions lists what playerID may do now; empty when it is not their turn.
func (rm *RoundManager) LegalActions(playerID string) []LegalAction {
	p := rm.roster.ByID(playerID)
	if p == nil {
		return nil
	}
	return legalActions(*p, rm.state())
}

func cloneSidePots(in []SidePot) []SidePot {
	if in == nil {
		return []SidePot{}
	}
	out := make([]SidePot, len(in))
	for i, sp := range in {
		out[i] = SidePot{
			Amount:            sp.Amount,
			EligiblePlayerIDs: append([]string{}, sp.EligiblePlayerIDs...),
		}
	}
	return out
}
