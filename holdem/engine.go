package holdem

import (
	"fmt"
	"math/rand"
	"time"

	"holdem-fair/card"

	"go.uber.org/zap"
)

// GameEngine deals hands for one table: button, blinds, hole cards and board.
// Betting is delegated to a RoundManager created per hand over the same roster.
type GameEngine struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger

	roster *Roster

	serverSeeds []string
	deck        *DeckManager // current hand
	pending     *DeckManager // committed for the next hand

	dealer     int // button for the next hand
	handDealer int // button of the hand in play
	sbSeat     int
	bbSeat     int
	handNumber int

	communityCards card.CardList
	burnedCards    card.CardList

	rounds *RoundManager
}

func NewGameEngine(cfg Config, opts ...Option) (*GameEngine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &GameEngine{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(seed)),
		logger:      o.logger,
		roster:      NewUniformRoster(cfg.Players, cfg.StartingStack),
		serverSeeds: o.serverSeeds,
		sbSeat:      InvalidSeat,
		bbSeat:      InvalidSeat,
	}
	if cfg.ForcedDealer != nil {
		e.dealer = *cfg.ForcedDealer
	} else {
		e.dealer = e.rng.Intn(cfg.Players)
	}
	e.handDealer = e.dealer
	e.pending = e.newDeck()
	return e, nil
}

func (e *GameEngine) newDeck() *DeckManager {
	if len(e.serverSeeds) > 0 {
		seed := e.serverSeeds[0]
		e.serverSeeds = e.serverSeeds[1:]
		return NewDeckManagerWithSeed(seed, e.cfg.ClientSeed)
	}
	return NewDeckManager(e.cfg.ClientSeed)
}

// StartNewHand deals a new hand. It fails while the previous hand's betting is
// unfinished, and until a finished hand has been settled.
func (e *GameEngine) StartNewHand() error {
	if e.rounds != nil {
		if !e.rounds.IsHandComplete() {
			return ErrHandInProgress
		}
		if !e.rounds.settled {
			return ErrHandNotSettled
		}
	}

	for _, p := range e.roster.seats {
		p.ResetForNewHand()
	}
	seated := e.roster.count(dealtIn)
	if seated < MinPlayers {
		return ErrNotEnoughPlayers
	}

	// A busted seat cannot hold the button.
	if p := e.roster.Seat(e.dealer); p == nil || !p.DealtIn() {
		e.dealer = e.roster.nextSeat(e.dealer, dealtIn)
	}

	e.rounds = nil
	e.deck, e.pending = e.pending, nil
	e.communityCards = make(card.CardList, 0, 5)
	e.burnedCards = make(card.CardList, 0, 3)
	e.handDealer = e.dealer
	e.handNumber++
	e.sbSeat, e.bbSeat = assignRoles(e.roster, ruleFor(seated), e.handDealer)

	if err := e.dealHoleCards(); err != nil {
		return fmt.Errorf("deal hole cards: %w", err)
	}
	if err := e.dealBoard(); err != nil {
		return err
	}

	e.dealer = (e.handDealer + 1) % e.roster.Len()
	e.pending = e.newDeck()

	e.logger.Info("hand started",
		zap.Int("hand", e.handNumber),
		zap.Int("dealer", e.handDealer),
		zap.Int("players", seated),
		zap.String("seed_hash", e.deck.ServerSeedHash()))
	return nil
}

// dealHoleCards deals one card per pass, two passes, starting left of the button.
func (e *GameEngine) dealHoleCards() error {
	for pass := 0; pass < holeCardCount; pass++ {
		var err error
		e.roster.WalkOnce(e.handDealer+1, func(p *Player) bool {
			if !p.DealtIn() {
				return false
			}
			var c card.Card
			c, err = e.deck.DrawCard(true)
			if err != nil {
				return true
			}
			p.addHoleCard(c)
			return false
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// dealBoard burns before the flop, the turn and the river.
func (e *GameEngine) dealBoard() error {
	streets := []struct {
		name  string
		cards int
	}{{"flop", 3}, {"turn", 1}, {"river", 1}}
	for _, st := range streets {
		burn, err := e.deck.DrawCard(true)
		if err != nil {
			return fmt.Errorf("burn before %s: %w", st.name, err)
		}
		e.burnedCards.Add(burn)
		for i := 0; i < st.cards; i++ {
			c, err := e.deck.DrawCard(false)
			if err != nil {
				return fmt.Errorf("deal %s: %w", st.name, err)
			}
			e.communityCards.Add(c)
		}
	}
	return nil
}

// NewRoundManager hands the roster to the betting machine for the current hand.
// Repeated calls during a hand return the same manager.
func (e *GameEngine) NewRoundManager() (*RoundManager, error) {
	if e.deck == nil {
		return nil, ErrNoHand
	}
	if e.rounds == nil {
		e.rounds = NewRoundManager(e.roster, e.handDealer, e.cfg.blinds(), WithLogger(e.logger))
	}
	return e.rounds, nil
}

// SetClientSeed replaces the client seed for the next hand's deck.
func (e *GameEngine) SetClientSeed(seed string) error {
	e.cfg.ClientSeed = seed
	return e.pending.SetClientSeed(seed)
}

// ServerSeedHash is the commitment for the hand in play.
func (e *GameEngine) ServerSeedHash() string {
	if e.deck == nil {
		return ""
	}
	return e.deck.ServerSeedHash()
}

// NextServerSeedHash is the commitment for the next hand, available before it is dealt.
func (e *GameEngine) NextServerSeedHash() string { return e.pending.ServerSeedHash() }

// RevealServerSeed discloses the seed of the hand in play.
func (e *GameEngine) RevealServerSeed() string {
	if e.deck == nil {
		return ""
	}
	return e.deck.RevealServerSeed()
}

func (e *GameEngine) ClientSeed() string {
	if e.deck == nil {
		return e.cfg.ClientSeed
	}
	return e.deck.ClientSeed()
}

func (e *GameEngine) Roster() *Roster     { return e.roster }
func (e *GameEngine) Config() Config      { return e.cfg }
func (e *GameEngine) HandNumber() int     { return e.handNumber }
func (e *GameEngine) DealerPosition() int { return e.handDealer }
