package holdem

import (
	"fmt"
	"strings"

	"holdem-fair/card"

	"github.com/paulhankin/poker"
)

// HandEvaluator ranks 5 to 7 cards. The betting core never calls it;
// bots and tooling do.
type HandEvaluator interface {
	Evaluate(cards []card.Card) (Hand, error)
}

// LibraryEvaluator evaluates hands with github.com/paulhankin/poker.
type LibraryEvaluator struct{}

func NewLibraryEvaluator() LibraryEvaluator { return LibraryEvaluator{} }

func (LibraryEvaluator) Evaluate(cards []card.Card) (Hand, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Hand{}, fmt.Errorf("evaluate: need 5 to 7 cards, got %d", len(cards))
	}
	pcs := make([]poker.Card, len(cards))
	for i, c := range cards {
		pc, err := toLibraryCard(c)
		if err != nil {
			return Hand{}, err
		}
		pcs[i] = pc
	}

	var score int16
	switch len(pcs) {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], pcs)
		score = poker.Eval7(&a7)
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], pcs)
		score = poker.Eval5(&a5)
	default:
		score = bestOfFive(pcs)
	}

	label, err := poker.Describe(pcs)
	if err != nil {
		return Hand{}, fmt.Errorf("describe hand: %w", err)
	}
	return Hand{
		Cards:   append([]card.Card{}, cards...),
		Ranking: rankingFromLabel(label),
		Value:   int(score),
		Label:   label,
	}, nil
}

// Compare returns >0 when a beats b, <0 when b beats a, 0 on a tie.
func Compare(a, b Hand) int { return a.Value - b.Value }

func toLibraryCard(c card.Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit {
	case card.Club:
		s = poker.Club
	case card.Diamond:
		s = poker.Diamond
	case card.Heart:
		s = poker.Heart
	case card.Spade:
		s = poker.Spade
	default:
		return 0, fmt.Errorf("invalid suit %d", c.Suit)
	}
	// Library ranks run 1..13 with the ace low.
	r := poker.Rank(c.Rank)
	if c.Rank == card.Ace {
		r = poker.Rank(1)
	}
	return poker.MakeCard(s, r)
}

func bestOfFive(pcs []poker.Card) int16 {
	n := len(pcs)
	best := int16(-1 << 15)
	var five [5]poker.Card
	choose := [5]int{}
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := range five {
				five[i] = pcs[choose[i]]
			}
			if score := poker.Eval5(&five); score > best {
				best = score
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			choose[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
	return best
}

func rankingFromLabel(label string) HandRanking {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "royal"):
		return HandRoyalFlush
	case strings.Contains(l, "straight flush"):
		return HandStraightFlush
	case strings.Contains(l, "four of a kind"), strings.Contains(l, "quad"):
		return HandFourOfKind
	case strings.Contains(l, "full house"):
		return HandFullHouse
	case strings.Contains(l, "flush"):
		return HandFlush
	case strings.Contains(l, "straight"):
		return HandStraight
	case strings.Contains(l, "three of a kind"), strings.Contains(l, "trips"):
		return HandThreeOfKind
	case strings.Contains(l, "two pair"):
		return HandTwoPair
	case strings.Contains(l, "pair"):
		return HandOnePair
	default:
		return HandHighCard
	}
}
