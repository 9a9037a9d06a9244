package holdem

import "sort"

// SidePot is one layer of the pot and the players who may win it.
type SidePot struct {
	Amount            int64
	EligiblePlayerIDs []string
}

// Contribution is one player's chips committed to the hand.
type Contribution struct {
	PlayerID string
	Amount   int64
	Folded   bool
	AllIn    bool
}

// ComputeSidePots layers contributions by all-in level.
// The layer for level L holds what every contributor put in between the previous
// level and L; it is open to non-folded players who reached L. Chips above the
// highest all-in level form a final layer for the players still able to bet.
// The result sums to the total contributed. The input is not modified.
func ComputeSidePots(contribs []Contribution) []SidePot {
	levels := make([]int64, 0, len(contribs))
	seen := make(map[int64]bool, len(contribs))
	for _, c := range contribs {
		if c.AllIn && !c.Folded && c.Amount > 0 && !seen[c.Amount] {
			seen[c.Amount] = true
			levels = append(levels, c.Amount)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]SidePot, 0, len(levels)+1)
	prev := int64(0)
	for _, level := range levels {
		layer := SidePot{EligiblePlayerIDs: []string{}}
		for _, c := range contribs {
			layer.Amount += min(c.Amount, level) - min(c.Amount, prev)
			if !c.Folded && c.Amount >= level {
				layer.EligiblePlayerIDs = append(layer.EligiblePlayerIDs, c.PlayerID)
			}
		}
		if layer.Amount > 0 {
			pots = append(pots, layer)
		}
		prev = level
	}

	rest := SidePot{EligiblePlayerIDs: []string{}}
	for _, c := range contribs {
		if c.Amount > prev {
			rest.Amount += c.Amount - prev
		}
		if !c.Folded && !c.AllIn && c.Amount > prev {
			rest.EligiblePlayerIDs = append(rest.EligiblePlayerIDs, c.PlayerID)
		}
	}
	if rest.Amount == 0 {
		return pots
	}
	if len(rest.EligiblePlayerIDs) == 0 && len(pots) > 0 {
		// Only folded chips sit above the top all-in level.
		pots[len(pots)-1].Amount += rest.Amount
		return pots
	}
	return append(pots, rest)
}

// TotalPot sums the layers.
func TotalPot(pots []SidePot) int64 {
	var total int64
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

func contributions(r *Roster) []Contribution {
	out := make([]Contribution, 0, r.Len())
	for _, p := range r.seats {
		if p == nil || !p.DealtIn() {
			continue
		}
		out = append(out, Contribution{
			PlayerID: p.ID,
			Amount:   p.committed,
			Folded:   p.status == PlayerStatusFolded,
			AllIn:    p.status == PlayerStatusAllIn,
		})
	}
	return out
}
