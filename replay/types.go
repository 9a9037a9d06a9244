package replay

import "holdem-fair/holdem"

// HandSpec is everything needed to re-run one hand: table setup, the revealed
// seeds with the commitment published before the deal, and the actions in order.
type HandSpec struct {
	Players        int          `json:"players"`
	StartingStack  int64        `json:"starting_stack"`
	Stacks         []int64      `json:"stacks,omitempty"` // per seat, overrides StartingStack
	SmallBlind     int64        `json:"small_blind"`
	BigBlind       int64        `json:"big_blind"`
	DealerPosition int          `json:"dealer_position"`
	ServerSeed     string       `json:"server_seed"`
	ClientSeed     string       `json:"client_seed"`
	CommittedHash  string       `json:"committed_hash,omitempty"`
	Actions        []ActionSpec `json:"actions"`
}

type ActionSpec struct {
	Round    string `json:"round,omitempty"`
	PlayerID string `json:"player_id"`
	Type     string `json:"type"` // CHECK, CALL, RAISE, FOLD or ALL_IN
	Amount   int64  `json:"amount,omitempty"`
}

// Step kinds.
const (
	StepDeal   = "deal"
	StepAction = "action"
	StepRound  = "round"
	StepSettle = "settle"
)

// Step is the table after one event of the hand.
type Step struct {
	Seq           int              `json:"seq"`
	Kind          string           `json:"kind"`
	Round         string           `json:"round"`
	PlayerID      string           `json:"player_id,omitempty"`
	Action        string           `json:"action,omitempty"`
	Amount        int64            `json:"amount,omitempty"`
	Pot           int64            `json:"pot"`
	CurrentBet    int64            `json:"current_bet"`
	MinRaise      int64            `json:"min_raise"`
	CurrentPlayer int              `json:"current_player"`
	Board         []string         `json:"board"`
	Stacks        map[string]int64 `json:"stacks"`
	SidePots      []holdem.SidePot `json:"side_pots,omitempty"`
	EnvelopeB64   string           `json:"envelope_b64,omitempty"`
}

type Tape struct {
	TapeVersion    int                      `json:"tape_version"`
	ServerSeedHash string                   `json:"server_seed_hash"`
	ServerSeed     string                   `json:"server_seed"`
	ClientSeed     string                   `json:"client_seed"`
	DealerPosition int                      `json:"dealer_position"`
	HoleCards      map[string][]string      `json:"hole_cards"`
	Board          []string                 `json:"board"`
	Steps          []Step                   `json:"steps"`
	Complete       bool                     `json:"complete"`
	Settlement     *holdem.SettlementResult `json:"settlement,omitempty"`
}

// FinalStacks returns the stacks after the last step.
func (t *Tape) FinalStacks() map[string]int64 {
	if t == nil || len(t.Steps) == 0 {
		return nil
	}
	return t.Steps[len(t.Steps)-1].Stacks
}
