package holdem

import (
	"holdem-fair/card"

	"go.uber.org/zap"
)

// ShowdownResult is one contender's outcome. Hand is nil when the pot was
// won without a showdown.
type ShowdownResult struct {
	PlayerID  string
	Position  int
	HoleCards []card.Card
	Hand      *Hand
	IsWinner  bool
	WinAmount int64
}

type PotResult struct {
	Amount     int64
	Winners    []string
	WinAmounts []int64
}

type SettlementResult struct {
	Showdown      bool
	PlayerResults []ShowdownResult
	PotResults    []PotResult
}

// Settle awards the hand's pots once betting is over and credits the winners' stacks.
// board must hold all five community cards when more than one player is left.
// Odd chips go to the first winner in seat order.
func (rm *RoundManager) Settle(board []card.Card, ev HandEvaluator) (*SettlementResult, error) {
	if rm.settled {
		return nil, ErrInvalidState("hand already settled")
	}
	if !rm.IsHandComplete() {
		return nil, ErrInvalidState("betting not finished")
	}

	contenders := make([]*Player, 0, rm.roster.Len())
	for _, p := range rm.roster.seats {
		if p != nil && p.InHand() {
			contenders = append(contenders, p)
		}
	}
	if len(contenders) == 0 {
		return nil, ErrInvalidState("no winner")
	}

	pots := ComputeSidePots(contributions(rm.roster))
	out := &SettlementResult{
		Showdown:   len(contenders) > 1,
		PotResults: make([]PotResult, 0, len(pots)),
	}

	results := make(map[string]*ShowdownResult, len(contenders))
	for _, p := range contenders {
		r := &ShowdownResult{PlayerID: p.ID, Position: p.Position}
		if out.Showdown {
			r.HoleCards = make([]card.Card, len(p.holeCards))
			for i, c := range p.holeCards {
				r.HoleCards[i] = c.Revealed()
			}
		}
		results[p.ID] = r
	}

	if out.Showdown {
		if len(board) != 5 {
			return nil, ErrInvalidState("need 5 community cards for showdown")
		}
		for _, p := range contenders {
			all := make([]card.Card, 0, 7)
			all = append(all, p.holeCards...)
			all = append(all, board...)
			h, err := ev.Evaluate(all)
			if err != nil {
				return nil, err
			}
			results[p.ID].Hand = &h
		}
	}

	for _, pot := range pots {
		winners := rm.potWinners(pot, contenders, results)
		pr := PotResult{Amount: pot.Amount, Winners: winners}
		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		for i, id := range winners {
			amt := share
			if i == 0 {
				amt += remainder
			}
			pr.WinAmounts = append(pr.WinAmounts, amt)
			results[id].IsWinner = true
			results[id].WinAmount += amt
			rm.roster.ByID(id).stack += amt
		}
		out.PotResults = append(out.PotResults, pr)
	}

	for _, p := range contenders {
		out.PlayerResults = append(out.PlayerResults, *results[p.ID])
	}
	rm.settled = true
	rm.logger.Debug("hand settled",
		zap.Bool("showdown", out.Showdown),
		zap.Int("pots", len(out.PotResults)),
		zap.Int64("pot", rm.pot))
	return out, nil
}

// potWinners picks the best hands among the pot's eligible contenders, in seat order.
// A pot nobody left can claim goes to the strongest remaining contender.
func (rm *RoundManager) potWinners(pot SidePot, contenders []*Player, results map[string]*ShowdownResult) []string {
	eligible := make(map[string]bool, len(pot.EligiblePlayerIDs))
	for _, id := range pot.EligiblePlayerIDs {
		eligible[id] = true
	}
	group := make([]*ShowdownResult, 0, len(contenders))
	for _, p := range contenders {
		if eligible[p.ID] {
			group = append(group, results[p.ID])
		}
	}
	if len(group) == 0 {
		for _, p := range contenders {
			group = append(group, results[p.ID])
		}
	}

	winners := []*ShowdownResult{group[0]}
	for _, r := range group[1:] {
		if r.Hand == nil || winners[0].Hand == nil {
			continue
		}
		switch c := Compare(*r.Hand, *winners[0].Hand); {
		case c > 0:
			winners = []*ShowdownResult{r}
		case c == 0:
			winners = append(winners, r)
		}
	}
	ids := make([]string, len(winners))
	for i, w := range winners {
		ids[i] = w.PlayerID
	}
	return ids
}
