package holdem

import "holdem-fair/card"

// GameState is a deep copy of the engine's view of the hand.
type GameState struct {
	HandNumber int

	Players            []Player
	DealerPosition     int // button of the hand in play (initial button before the first hand)
	NextDealerPosition int
	SmallBlindPosition int
	BigBlindPosition   int

	CommunityCards []card.Card
	BurnedCards    []card.Card
	RemainingCards int
	Deck           []card.Card

	ServerSeedHash     string
	NextServerSeedHash string
	ClientSeed         string
}

func (e *GameEngine) GameState() GameState {
	s := GameState{
		HandNumber:         e.handNumber,
		Players:            e.roster.snapshot(),
		DealerPosition:     e.handDealer,
		NextDealerPosition: e.dealer,
		SmallBlindPosition: e.sbSeat,
		BigBlindPosition:   e.bbSeat,
		CommunityCards:     append([]card.Card{}, e.communityCards...),
		BurnedCards:        append([]card.Card{}, e.burnedCards...),
		Deck:               []card.Card{},
		NextServerSeedHash: e.NextServerSeedHash(),
		ClientSeed:         e.ClientSeed(),
	}
	if e.deck != nil {
		s.RemainingCards = e.deck.RemainingCards()
		s.Deck = e.deck.Cards()
		s.ServerSeedHash = e.deck.ServerSeedHash()
	}
	return s
}

// Player returns the snapshot entry for id.
func (s GameState) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// BoardFor returns the community cards visible during round.
func BoardFor(board []card.Card, round Round) []card.Card {
	n := 0
	switch round {
	case RoundFlop:
		n = 3
	case RoundTurn:
		n = 4
	case RoundRiver:
		n = 5
	}
	if n > len(board) {
		n = len(board)
	}
	return append([]card.Card{}, board[:n]...)
}

// ViewFor redacts the state for one seat during round: the viewer's hole cards
// are face up, everyone else's are face down with identity cleared, burns are
// hidden, the board is cut to round and the remaining deck is dropped.
func (s GameState) ViewFor(playerID string, round Round) GameState {
	v := s
	v.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		cards := make(card.CardList, len(p.holeCards))
		for j, c := range p.holeCards {
			if p.ID == playerID {
				cards[j] = c.Revealed()
			} else {
				cards[j] = card.Card{Hidden: true}
			}
		}
		p.holeCards = cards
		v.Players[i] = p
	}
	v.BurnedCards = make([]card.Card, len(s.BurnedCards))
	for i := range v.BurnedCards {
		v.BurnedCards[i] = card.Card{Hidden: true}
	}
	v.CommunityCards = BoardFor(s.CommunityCards, round)
	v.Deck = nil
	return v
}
