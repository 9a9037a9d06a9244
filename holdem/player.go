package holdem

import (
	"strconv"

	"holdem-fair/card"
)

type Player struct {
	ID       string
	Position int

	IsDealer     bool
	IsSmallBlind bool
	IsBigBlind   bool

	stack     int64
	bet       int64 // this betting round
	committed int64 // this hand
	status    PlayerStatus

	holeCards card.CardList
}

// NewPlayer creates an ACTIVE player at seat position with the given stack.
func NewPlayer(position int, stack int64) *Player {
	p := &Player{
		ID:       strconv.Itoa(position + 1),
		Position: position,
		stack:    stack,
	}
	if stack <= 0 {
		p.status = PlayerStatusSittingOut
	}
	return p
}

func (p *Player) Stack() int64           { return p.stack }
func (p *Player) Bet() int64             { return p.bet }
func (p *Player) Committed() int64       { return p.committed }
func (p *Player) Status() PlayerStatus   { return p.status }
func (p *Player) HoleCards() []card.Card { return p.holeCards }

// CanAct reports whether the player may still take betting actions.
func (p *Player) CanAct() bool { return p.status == PlayerStatusActive }

// InHand reports whether the player still contests the pot.
func (p *Player) InHand() bool {
	return p.status == PlayerStatusActive || p.status == PlayerStatusAllIn
}

// DealtIn reports whether the player takes part in the current hand, folded or not.
func (p *Player) DealtIn() bool {
	return p.status != PlayerStatusSittingOut && p.status != PlayerStatusLeft
}

// SetStack adjusts chips between hands (rebuys, replay fixtures).
func (p *Player) SetStack(stack int64) {
	p.stack = stack
	if stack > 0 && p.status == PlayerStatusSittingOut {
		p.status = PlayerStatusActive
	}
}

// Leave marks the seat as permanently vacated.
func (p *Player) Leave() { p.status = PlayerStatusLeft }

func (p *Player) ResetForNewHand() {
	p.bet = 0
	p.committed = 0
	p.holeCards = make(card.CardList, 0, holeCardCount)
	p.IsDealer, p.IsSmallBlind, p.IsBigBlind = false, false, false
	switch {
	case p.status == PlayerStatusLeft:
	case p.stack <= 0:
		p.status = PlayerStatusSittingOut
	default:
		p.status = PlayerStatusActive
	}
}

func (p *Player) addHoleCard(cards ...card.Card) {
	p.holeCards = append(p.holeCards, cards...)
}

// placeBet moves up to amount from stack into the current bet and returns what moved.
// A player whose stack reaches zero is ALL_IN.
func (p *Player) placeBet(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if p.stack <= amount {
		amount = p.stack
	}
	p.stack -= amount
	p.bet += amount
	p.committed += amount
	if p.stack == 0 {
		p.status = PlayerStatusAllIn
	}
	return amount
}

func (p *Player) resetBet() {
	p.bet = 0
}

func (p *Player) fold() { p.status = PlayerStatusFolded }

func (p *Player) clone() Player {
	cp := *p
	cp.holeCards = p.holeCards.Clone()
	return cp
}
