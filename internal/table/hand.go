package table

import (
	"context"
	"time"

	"holdem-fair/holdem"
	"holdem-fair/internal/ledger"
	"holdem-fair/replay"

	"go.uber.org/zap"
)

const ledgerWriteTimeout = 5 * time.Second

func (t *Table) handleHandEnd(now time.Time) {
	gs := t.engine.GameState()
	result, err := t.rounds.Settle(gs.CommunityCards, t.eval)
	if err != nil {
		t.logger.Error("settle failed", zap.String("hand_id", t.handID), zap.Error(err))
		return
	}
	t.lastResult = result

	stacks := make(map[string]int64, len(gs.Players))
	for _, p := range t.engine.Roster().Players() {
		stacks[p.ID] = p.Stack()
	}
	t.handSpec.ServerSeed = t.engine.RevealServerSeed()

	rec := ledger.HandRecord{
		HandID:         t.handID,
		TableID:        t.ID,
		HandNumber:     t.engine.HandNumber(),
		PlayedAt:       t.handStart,
		ServerSeedHash: t.engine.ServerSeedHash(),
		ServerSeed:     t.handSpec.ServerSeed,
		ClientSeed:     t.handSpec.ClientSeed,
		Spec:           t.handSpec,
		FinalStacks:    stacks,
		Summary:        summarize(result),
	}
	t.persistHand(rec)
	t.logger.Info("hand settled",
		zap.String("hand_id", t.handID),
		zap.Bool("showdown", result.Showdown),
		zap.Strings("winners", winnerIDs(result)))

	t.dispatchHandEndHooks(HandEndInfo{
		TableID:    t.ID,
		HandID:     t.handID,
		HandNumber: rec.HandNumber,
		Result:     result,
		Stacks:     stacks,
		Record:     rec,
	})

	if t.cfg.AutoStart && t.fundedSeats() >= holdem.MinPlayers {
		t.nextHandAt = now.Add(t.cfg.HandDelay)
	}
}

// persistHand replays the recorded hand to build its step tape and writes both
// to the ledger. A hand whose replay disagrees with the table is still stored;
// the audit endpoint reports the mismatch.
func (t *Table) persistHand(rec ledger.HandRecord) {
	tape, err := replay.Run(rec.Spec)
	if err != nil {
		t.logger.Error("replay of live hand failed", zap.String("hand_id", rec.HandID), zap.Error(err))
	} else if err := replay.Verify(rec.Spec, rec.FinalStacks); err != nil {
		t.logger.Error("replay disagrees with table", zap.String("hand_id", rec.HandID), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), ledgerWriteTimeout)
	defer cancel()
	if err := t.ledger.SaveHand(ctx, rec, ledger.StepsFromTape(tape)); err != nil {
		t.logger.Error("ledger write failed", zap.String("hand_id", rec.HandID), zap.Error(err))
	}
}

func (t *Table) fundedSeats() int {
	n := 0
	for _, p := range t.engine.Roster().Players() {
		if p.Stack() > 0 && p.Status() != holdem.PlayerStatusLeft {
			n++
		}
	}
	return n
}

func summarize(result *holdem.SettlementResult) map[string]any {
	var pot int64
	for _, pr := range result.PotResults {
		pot += pr.Amount
	}
	hands := make(map[string]string)
	for _, r := range result.PlayerResults {
		if r.Hand != nil {
			hands[r.PlayerID] = r.Hand.Ranking.String()
		}
	}
	out := map[string]any{
		"showdown": result.Showdown,
		"pot":      pot,
		"pots":     len(result.PotResults),
		"winners":  winnerIDs(result),
	}
	if len(hands) > 0 {
		out["hands"] = hands
	}
	return out
}

func winnerIDs(result *holdem.SettlementResult) []string {
	out := make([]string, 0, 2)
	for _, r := range result.PlayerResults {
		if r.IsWinner {
			out = append(out, r.PlayerID)
		}
	}
	return out
}

// Snapshot is a consistent read of the table between events.
type Snapshot struct {
	TableID  string
	HandID   string
	InHand   bool
	Game     holdem.GameState
	Betting  *holdem.BettingState
	Legal    []holdem.LegalAction // for the player to act
	Deadline time.Time
	Result   *holdem.SettlementResult // last settled hand
}

// Snapshot returns the full table state. Hidden cards stay hidden only in ViewFor.
func (t *Table) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		TableID:  t.ID,
		HandID:   t.handID,
		Game:     t.engine.GameState(),
		Deadline: t.actionDeadline,
		Result:   t.lastResult,
	}
	if t.rounds != nil {
		bs := t.rounds.CurrentState()
		s.Betting = &bs
		s.InHand = !t.rounds.IsHandComplete()
		if cur := t.rounds.CurrentPlayer(); cur != nil && s.InHand {
			s.Legal = t.rounds.LegalActions(cur.ID)
		}
	}
	return s
}

// ViewFor is the snapshot as playerID may see it: own hole cards and the
// board dealt so far. A showdown reveals the whole board.
func (t *Table) ViewFor(playerID string) Snapshot {
	s := t.Snapshot()
	round := holdem.RoundPreFlop
	if s.Betting != nil {
		round = s.Betting.Round
	}
	if !s.InHand && s.Result != nil && s.Result.Showdown {
		round = holdem.RoundRiver
	}
	s.Game = s.Game.ViewFor(playerID, round)
	if s.Betting != nil {
		s.Betting.Players = s.Game.Players
		cur := s.Betting.CurrentPlayer
		if !s.InHand || cur < 0 || cur >= len(s.Game.Players) || s.Game.Players[cur].ID != playerID {
			s.Legal = nil
		}
	}
	return s
}
