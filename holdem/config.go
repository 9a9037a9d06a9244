package holdem

import "fmt"

type Config struct {
	// Table
	Players       int
	StartingStack int64

	// Blinds
	SmallBlind int64
	BigBlind   int64

	// Client contribution to the shuffle seed.
	ClientSeed string

	// Dealer RNG seed (0 => time-based)
	Seed int64

	// ForcedDealer pins the first button, used by replay.
	ForcedDealer *int
}

func (c Config) withDefaults() Config {
	if c.StartingStack == 0 {
		c.StartingStack = DefaultStartingStack
	}
	if c.SmallBlind == 0 && c.BigBlind == 0 {
		c.SmallBlind = DefaultSmallBlind
		c.BigBlind = DefaultBigBlind
	}
	return c
}

func (c Config) validate() error {
	if c.Players < MinPlayers || c.Players > MaxPlayers {
		return InvalidPlayerCountError(c.Players)
	}
	if c.StartingStack <= 0 {
		return fmt.Errorf("StartingStack must be > 0")
	}
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.ForcedDealer != nil && (*c.ForcedDealer < 0 || *c.ForcedDealer >= c.Players) {
		return fmt.Errorf("ForcedDealer %d out of range", *c.ForcedDealer)
	}
	return nil
}

func (c Config) blinds() Blinds {
	return Blinds{Small: c.SmallBlind, Big: c.BigBlind}
}

// Blinds are the forced bets posted at the start of each hand.
type Blinds struct {
	Small int64
	Big   int64
}
