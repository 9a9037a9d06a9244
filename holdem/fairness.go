package holdem

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"holdem-fair/card"
)

// VerifyDeal checks a revealed server seed against its published commitment and,
// when deck is non-empty, that deck is the full order the seeds produce.
func VerifyDeal(serverSeed, clientSeed, committedHash string, deck []card.Card) error {
	got := SeedCommitment(serverSeed)
	want := strings.ToLower(strings.TrimSpace(committedHash))
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return ErrSeedHashMismatch
	}
	if len(deck) == 0 {
		return nil
	}
	expected := ShuffledDeck(serverSeed, clientSeed)
	if len(deck) != len(expected) {
		return fmt.Errorf("%w: %d cards, want %d", ErrDeckMismatch, len(deck), len(expected))
	}
	for i := range expected {
		if !expected[i].Equal(deck[i]) {
			return fmt.Errorf("%w: position %d is %s, want %s", ErrDeckMismatch, i, deck[i].Code(), expected[i].Code())
		}
	}
	return nil
}

// DealOrder is the sequence cards leave a seeded deck: top first.
func DealOrder(serverSeed, clientSeed string) []card.Card {
	deck := ShuffledDeck(serverSeed, clientSeed)
	out := make([]card.Card, len(deck))
	for i := range deck {
		out[i] = deck[len(deck)-1-i]
	}
	return out
}
