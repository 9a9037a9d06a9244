package card

// Suit order is fixed: it defines the canonical deck order before shuffling.
type Suit byte

const (
	Spade   Suit = iota // ♠
	Club                // ♣
	Heart               // ♥
	Diamond             // ♦
)

var Suits = []Suit{Spade, Club, Heart, Diamond}

func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠"
	case Club:
		return "♣"
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	}
	return "?"
}

// Letter returns the ascii suit letter used by Parse.
func (s Suit) Letter() byte {
	switch s {
	case Spade:
		return 's'
	case Club:
		return 'c'
	case Heart:
		return 'h'
	case Diamond:
		return 'd'
	}
	return '?'
}

func (s Suit) Valid() bool { return s <= Diamond }
