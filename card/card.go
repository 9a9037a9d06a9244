package card

import (
	"fmt"
	"strings"
)

// Card is a playing card. Hidden only controls display; identity is (Suit, Rank).
type Card struct {
	Suit   Suit
	Rank   Rank
	Hidden bool
}

func New(s Suit, r Rank) Card { return Card{Suit: s, Rank: r} }

func (c Card) String() string {
	if c.Hidden {
		return "??"
	}
	if !c.Valid() {
		return "Invalid"
	}
	return c.Rank.String() + c.Suit.String()
}

// Code returns the ascii form accepted by Parse ("As", "10h").
func (c Card) Code() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

func (c Card) Valid() bool { return c.Suit.Valid() && c.Rank.Valid() }

// Equal compares suit and rank, ignoring Hidden.
func (c Card) Equal(o Card) bool { return c.Suit == o.Suit && c.Rank == o.Rank }

func (c Card) Value() int { return c.Rank.Value() }

// Concealed returns a copy flagged hidden.
func (c Card) Concealed() Card {
	c.Hidden = true
	return c
}

// Revealed returns a copy with Hidden cleared.
func (c Card) Revealed() Card {
	c.Hidden = false
	return c
}

// Parse 将字符串 (如 "As", "Td", "10h") 转换为 Card
func Parse(cardStr string) (Card, error) {
	cardStr = strings.TrimSpace(cardStr)
	if len(cardStr) < 2 {
		return Card{}, fmt.Errorf("invalid card string: %s", cardStr)
	}

	var suit Suit
	switch cardStr[len(cardStr)-1] {
	case 's', 'S':
		suit = Spade
	case 'c', 'C':
		suit = Club
	case 'h', 'H':
		suit = Heart
	case 'd', 'D':
		suit = Diamond
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", cardStr[len(cardStr)-1])
	}

	var rank Rank
	switch strings.ToUpper(cardStr[:len(cardStr)-1]) {
	case "A":
		rank = Ace
	case "2":
		rank = Two
	case "3":
		rank = Three
	case "4":
		rank = Four
	case "5":
		rank = Five
	case "6":
		rank = Six
	case "7":
		rank = Seven
	case "8":
		rank = Eight
	case "9":
		rank = Nine
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		return Card{}, fmt.Errorf("invalid rank: %s", cardStr[:len(cardStr)-1])
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(cardStr string) Card {
	c, err := Parse(cardStr)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseList parses space or comma separated card codes.
func ParseList(s string) (CardList, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	out := make(CardList, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
