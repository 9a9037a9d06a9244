package replay

import (
	"encoding/base64"
	"errors"
	"fmt"

	"holdem-fair/card"
	"holdem-fair/holdem"
)

const tapeVersion = 1

// Run re-executes a recorded hand and returns its tape. The deal is rebuilt from
// the revealed seeds, so a tape only exists for a hand whose commitment checks out.
func Run(spec HandSpec) (*Tape, error) {
	ns, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}
	if spec.CommittedHash != "" {
		if err := holdem.VerifyDeal(spec.ServerSeed, spec.ClientSeed, spec.CommittedHash, nil); err != nil {
			return nil, specError("hash_mismatch", "%v", err)
		}
	}

	engine, err := holdem.NewGameEngine(ns.cfg, holdem.WithServerSeeds(spec.ServerSeed))
	if err != nil {
		return nil, specError("engine_init_failed", "%v", err)
	}
	for i, s := range ns.stacks {
		engine.Roster().Seat(i).SetStack(s)
	}
	if err := engine.StartNewHand(); err != nil {
		return nil, specError("start_hand_failed", "%v", err)
	}
	rm, err := engine.NewRoundManager()
	if err != nil {
		return nil, specError("start_hand_failed", "%v", err)
	}

	gs := engine.GameState()
	b := newTapeBuilder(engine, rm)
	tape := &Tape{
		TapeVersion:    tapeVersion,
		ServerSeedHash: engine.ServerSeedHash(),
		ServerSeed:     engine.RevealServerSeed(),
		ClientSeed:     engine.ClientSeed(),
		DealerPosition: gs.DealerPosition,
		HoleCards:      make(map[string][]string, len(gs.Players)),
		Board:          cardCodes(gs.CommunityCards),
	}
	for _, p := range gs.Players {
		if len(p.HoleCards()) > 0 {
			tape.HoleCards[p.ID] = cardCodes(p.HoleCards())
		}
	}
	if err := b.add(Step{Kind: StepDeal}); err != nil {
		return nil, err
	}

	for stepIdx, action := range ns.actions {
		if err := b.advanceRounds(); err != nil {
			return nil, err
		}
		if rm.IsHandComplete() {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "no_action_expected",
				Message:   "hand is already complete; no further actions are allowed",
			}
		}
		if action.hasRound && action.round != rm.Round() {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "round_mismatch",
				Message:   fmt.Sprintf("expected round %s, got %s", rm.Round(), action.round),
				Expected:  expectedState(rm),
			}
		}
		cur := rm.CurrentPlayer()
		if cur == nil || cur.ID != action.playerID {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "out_of_turn",
				Message:   fmt.Sprintf("expected player %s, got %s", currentID(cur), action.playerID),
				Expected:  expectedState(rm),
			}
		}

		var ok bool
		name := action.action.String()
		if action.allIn {
			name = actionAllIn
			amount := action.amount
			if amount == 0 {
				amount = cur.Stack()
			}
			ok = rm.HandleAllIn(action.playerID, amount)
		} else {
			ok = rm.HandleAction(holdem.GameAction{Type: action.action, PlayerID: action.playerID, Amount: action.amount})
		}
		if !ok {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "illegal_action",
				Message:   fmt.Sprintf("action %s is not legal for player %s", name, action.playerID),
				Expected:  expectedState(rm),
			}
		}

		played := rm.CurrentState().ActionsThisRound[action.playerID]
		if err := b.add(Step{Kind: StepAction, PlayerID: action.playerID, Action: name, Amount: played.Amount}); err != nil {
			return nil, err
		}
	}

	if err := b.advanceRounds(); err != nil {
		return nil, err
	}
	if rm.IsHandComplete() {
		res, err := rm.Settle(gs.CommunityCards, holdem.NewLibraryEvaluator())
		if err != nil {
			return nil, &ReplayError{StepIndex: len(ns.actions), Reason: "settle_failed", Message: err.Error()}
		}
		tape.Complete = true
		tape.Settlement = res
		if err := b.add(Step{Kind: StepSettle}); err != nil {
			return nil, err
		}
	}
	tape.Steps = b.steps
	return tape, nil
}

// Verify replays spec and reports whether it yields the expected final stacks.
func Verify(spec HandSpec, wantStacks map[string]int64) error {
	tape, err := Run(spec)
	if err != nil {
		return err
	}
	got := tape.FinalStacks()
	for id, want := range wantStacks {
		if got[id] != want {
			return &ReplayError{
				StepIndex: len(tape.Steps) - 1,
				Reason:    "stack_mismatch",
				Message:   fmt.Sprintf("player %s ends with %d, recorded %d", id, got[id], want),
			}
		}
	}
	return nil
}

// IsReplayError reports whether err is a *ReplayError with the given reason.
func IsReplayError(err error, reason string) bool {
	var re *ReplayError
	return errors.As(err, &re) && re.Reason == reason
}

func expectedState(rm *holdem.RoundManager) *ExpectedState {
	st := rm.CurrentState()
	exp := &ExpectedState{Round: st.Round.String()}
	cur := rm.CurrentPlayer()
	if cur == nil {
		return exp
	}
	exp.PlayerID = cur.ID
	for _, la := range rm.LegalActions(cur.ID) {
		exp.LegalActions = append(exp.LegalActions, la.Type.String())
		switch la.Type {
		case holdem.PlayerActionTypeCall:
			exp.CallAmount = la.MinAmount
		case holdem.PlayerActionTypeRaise:
			exp.MinRaiseTo = la.MinAmount
		}
	}
	return exp
}

func currentID(p *holdem.Player) string {
	if p == nil {
		return "none"
	}
	return p.ID
}

func cardCodes(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}

type tapeBuilder struct {
	engine *holdem.GameEngine
	rm     *holdem.RoundManager
	steps  []Step
}

func newTapeBuilder(engine *holdem.GameEngine, rm *holdem.RoundManager) *tapeBuilder {
	return &tapeBuilder{
		engine: engine,
		rm:     rm,
		steps:  make([]Step, 0, 32),
	}
}

// advanceRounds moves past every finished street that still leaves betting to do.
func (b *tapeBuilder) advanceRounds() error {
	for !b.rm.IsHandComplete() && b.rm.IsRoundComplete() && b.rm.Round() != holdem.RoundRiver {
		b.rm.AdvanceRound()
		if err := b.add(Step{Kind: StepRound}); err != nil {
			return err
		}
	}
	return nil
}

// add fills the table fields of s from the current state and appends it with its envelope.
func (b *tapeBuilder) add(s Step) error {
	st := b.rm.CurrentState()
	gs := b.engine.GameState()
	s.Seq = len(b.steps) + 1
	s.Round = st.Round.String()
	s.Pot = st.Pot
	s.CurrentBet = st.CurrentBet
	s.MinRaise = st.MinRaise
	s.CurrentPlayer = st.CurrentPlayer
	s.Board = cardCodes(holdem.BoardFor(gs.CommunityCards, st.Round))
	s.SidePots = st.SidePots
	s.Stacks = make(map[string]int64, len(st.Players))
	for _, p := range st.Players {
		s.Stacks[p.ID] = p.Stack()
	}
	if s.Kind == StepSettle {
		s.Board = cardCodes(gs.CommunityCards)
	}

	bin, err := EncodeStep(s)
	if err != nil {
		return &ReplayError{StepIndex: s.Seq - 1, Reason: "encode_failed", Message: err.Error()}
	}
	s.EnvelopeB64 = base64.StdEncoding.EncodeToString(bin)
	b.steps = append(b.steps, s)
	return nil
}
