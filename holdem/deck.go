package holdem

import (
	"crypto/rand"
	"encoding/hex"

	"holdem-fair/card"

	"golang.org/x/crypto/blake2b"
)

// DeckManager owns one hand's deck: a 52-card order fixed by (serverSeed, clientSeed).
// The server seed stays secret until RevealServerSeed; ServerSeedHash is the
// commitment published before any card is seen.
type DeckManager struct {
	serverSeed string
	clientSeed string

	cards card.CardList // remaining, top of deck at the end
	drawn int
}

// NewDeckManager generates a fresh server seed and shuffles.
func NewDeckManager(clientSeed string) *DeckManager {
	return NewDeckManagerWithSeed(rand.Text(), clientSeed)
}

// NewDeckManagerWithSeed rebuilds a deck from known seeds, for verification and replay.
func NewDeckManagerWithSeed(serverSeed, clientSeed string) *DeckManager {
	d := &DeckManager{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
	}
	d.cards = ShuffledDeck(serverSeed, clientSeed)
	return d
}

// Shuffle rebuilds the ordered deck and reapplies the seeded pass.
// Repeated calls yield the same order; it fails once any card has been drawn.
func (d *DeckManager) Shuffle() error {
	if d.drawn > 0 {
		return ErrShuffleAfterDraw
	}
	d.cards = ShuffledDeck(d.serverSeed, d.clientSeed)
	return nil
}

// SetClientSeed replaces the client seed before the first draw and reshuffles.
func (d *DeckManager) SetClientSeed(seed string) error {
	if d.drawn > 0 {
		return ErrShuffleAfterDraw
	}
	d.clientSeed = seed
	return d.Shuffle()
}

// DrawCard pops the top card.
func (d *DeckManager) DrawCard(hidden bool) (card.Card, error) {
	c, ok := d.cards.PopCard()
	if !ok {
		return card.Card{}, ErrDeckExhausted
	}
	d.drawn++
	c.Hidden = hidden
	return c, nil
}

// DrawCards draws up to n cards, stopping early when the deck runs out.
func (d *DeckManager) DrawCards(n int, hidden bool) []card.Card {
	if n <= 0 {
		return nil
	}
	if n > d.cards.Count() {
		n = d.cards.Count()
	}
	out := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		c, err := d.DrawCard(hidden)
		if err != nil {
			break
		}
		out = append(out, c)
	}
	return out
}

func (d *DeckManager) RemainingCards() int { return d.cards.Count() }
func (d *DeckManager) DrawnCount() int     { return d.drawn }

// Cards returns a copy of the remaining deck, bottom first.
func (d *DeckManager) Cards() []card.Card { return d.cards.Clone() }

func (d *DeckManager) ServerSeedHash() string   { return SeedCommitment(d.serverSeed) }
func (d *DeckManager) RevealServerSeed() string { return d.serverSeed }
func (d *DeckManager) ClientSeed() string       { return d.clientSeed }

// SeedCommitment is the hex BLAKE2b-256 digest of a server seed.
func SeedCommitment(serverSeed string) string {
	sum := blake2b.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// ShuffledDeck returns the full deck order for a seed pair, bottom first.
// Fisher–Yates from the last index down, j drawn from the seed stream.
func ShuffledDeck(serverSeed, clientSeed string) card.CardList {
	deck := card.NewStandardDeck()
	stream := newSeedStream(serverSeed + clientSeed)
	for i := len(deck) - 1; i > 0; i-- {
		j := stream.intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// seedStream is a 32-bit LCG seeded by a multiplicative string hash.
// Reproducibility is the only requirement; unpredictability comes from the server seed.
type seedStream struct {
	state uint32
}

func newSeedStream(seed string) *seedStream {
	var h uint32
	for i := 0; i < len(seed); i++ {
		h = h*31 + uint32(seed[i])
	}
	return &seedStream{state: h}
}

func (s *seedStream) next() uint32 {
	s.state = s.state*1664525 + 1013904223
	return s.state
}

// intn maps the next value onto [0, n).
func (s *seedStream) intn(n int) int {
	return int(uint64(s.next()) * uint64(n) >> 32)
}
