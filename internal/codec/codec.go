// Package codec maps table snapshots and client requests to the JSON frames
// spoken over the websocket gateway.
package codec

import (
	"fmt"
	"strings"
	"time"

	"holdem-fair/card"
	"holdem-fair/holdem"
	"holdem-fair/internal/table"
)

// Server frame kinds.
const (
	KindView  = "view"
	KindError = "error"
)

// ServerEnvelope wraps every frame the server sends.
type ServerEnvelope struct {
	TableID    string      `json:"table_id"`
	ServerSeq  uint64      `json:"server_seq"`
	ServerTsMs int64       `json:"server_ts_ms"`
	Kind       string      `json:"kind"`
	View       *TableView  `json:"view,omitempty"`
	Error      *ErrorFrame `json:"error,omitempty"`
}

type ErrorFrame struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// ClientEnvelope is a request from a seated player.
type ClientEnvelope struct {
	Type   string `json:"type"` // CHECK, CALL, RAISE, FOLD, ALL_IN, START, CLIENT_SEED
	Amount int64  `json:"amount,omitempty"`
	Seed   string `json:"seed,omitempty"`
}

// TableView is one player's redacted view of the table.
type TableView struct {
	HandID             string       `json:"hand_id,omitempty"`
	HandNumber         int          `json:"hand_number"`
	InHand             bool         `json:"in_hand"`
	Round              string       `json:"round,omitempty"`
	DealerPosition     int          `json:"dealer_position"`
	SmallBlindPosition int          `json:"small_blind_position"`
	BigBlindPosition   int          `json:"big_blind_position"`
	CurrentPlayer      int          `json:"current_player"`
	CurrentBet         int64        `json:"current_bet"`
	MinRaise           int64        `json:"min_raise"`
	Pot                int64        `json:"pot"`
	SidePots           []PotView    `json:"side_pots,omitempty"`
	Board              []string     `json:"board"`
	Players            []PlayerView `json:"players"`
	Legal              []LegalView  `json:"legal,omitempty"`
	DeadlineMs         int64        `json:"deadline_ms,omitempty"`
	ServerSeedHash     string       `json:"server_seed_hash,omitempty"`
	NextServerSeedHash string       `json:"next_server_seed_hash"`
	ClientSeed         string       `json:"client_seed"`
	Result             *ResultView  `json:"result,omitempty"`
}

type PlayerView struct {
	ID        string   `json:"id"`
	Position  int      `json:"position"`
	Stack     int64    `json:"stack"`
	Bet       int64    `json:"bet"`
	Status    string   `json:"status"`
	HoleCards []string `json:"hole_cards,omitempty"`
}

type PotView struct {
	Amount   int64    `json:"amount"`
	Eligible []string `json:"eligible"`
}

type LegalView struct {
	Type      string `json:"type"`
	MinAmount int64  `json:"min_amount,omitempty"`
	MaxAmount int64  `json:"max_amount,omitempty"`
}

type ResultView struct {
	Showdown bool              `json:"showdown"`
	Winners  map[string]int64  `json:"winners"`
	Hands    map[string]string `json:"hands,omitempty"`
}

// WrapServerEnvelope creates a ServerEnvelope with common fields
func WrapServerEnvelope(tableID string, serverSeq uint64, kind string) *ServerEnvelope {
	return &ServerEnvelope{
		TableID:    tableID,
		ServerSeq:  serverSeq,
		ServerTsMs: time.Now().UnixMilli(),
		Kind:       kind,
	}
}

// SnapshotToView converts a player's table.ViewFor snapshot.
func SnapshotToView(s table.Snapshot) *TableView {
	v := &TableView{
		HandID:             s.HandID,
		HandNumber:         s.Game.HandNumber,
		InHand:             s.InHand,
		DealerPosition:     s.Game.DealerPosition,
		SmallBlindPosition: s.Game.SmallBlindPosition,
		BigBlindPosition:   s.Game.BigBlindPosition,
		CurrentPlayer:      holdem.InvalidSeat,
		Board:              CardCodes(s.Game.CommunityCards),
		ServerSeedHash:     s.Game.ServerSeedHash,
		NextServerSeedHash: s.Game.NextServerSeedHash,
		ClientSeed:         s.Game.ClientSeed,
	}
	if !s.Deadline.IsZero() && s.InHand {
		v.DeadlineMs = s.Deadline.UnixMilli()
	}
	if b := s.Betting; b != nil {
		v.Round = b.Round.String()
		v.CurrentBet = b.CurrentBet
		v.MinRaise = b.MinRaise
		v.Pot = b.Pot
		if s.InHand {
			v.CurrentPlayer = b.CurrentPlayer
		}
		for _, p := range b.SidePots {
			v.SidePots = append(v.SidePots, PotView{Amount: p.Amount, Eligible: append([]string{}, p.EligiblePlayerIDs...)})
		}
	}
	for _, p := range s.Game.Players {
		pv := PlayerView{
			ID:       p.ID,
			Position: p.Position,
			Stack:    p.Stack(),
			Bet:      p.Bet(),
			Status:   p.Status().String(),
		}
		if len(p.HoleCards()) > 0 {
			pv.HoleCards = CardCodes(p.HoleCards())
		}
		v.Players = append(v.Players, pv)
	}
	for _, la := range s.Legal {
		v.Legal = append(v.Legal, LegalView{Type: la.Type.String(), MinAmount: la.MinAmount, MaxAmount: la.MaxAmount})
	}
	if r := s.Result; r != nil && !s.InHand {
		v.Result = &ResultView{Showdown: r.Showdown, Winners: map[string]int64{}}
		for _, pr := range r.PlayerResults {
			if pr.IsWinner {
				v.Result.Winners[pr.PlayerID] = pr.WinAmount
			}
			if pr.Hand != nil {
				if v.Result.Hands == nil {
					v.Result.Hands = map[string]string{}
				}
				v.Result.Hands[pr.PlayerID] = pr.Hand.Ranking.String()
			}
		}
	}
	return v
}

// CardCodes renders cards as "As", "10h"; face-down cards as "??".
func CardCodes(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		if c.Hidden {
			out[i] = "??"
			continue
		}
		out[i] = c.Code()
	}
	return out
}

// Request is a decoded client message.
type Request struct {
	Kind   RequestKind
	Action holdem.GameAction
	Seed   string
}

type RequestKind int

const (
	RequestAction RequestKind = iota
	RequestAllIn
	RequestStart
	RequestClientSeed
)

// ParseClientEnvelope validates env for playerID.
func ParseClientEnvelope(playerID string, env ClientEnvelope) (Request, error) {
	name := strings.ToUpper(strings.TrimSpace(env.Type))
	name = strings.ReplaceAll(name, "-", "_")
	switch name {
	case "ALL_IN", "ALLIN":
		return Request{Kind: RequestAllIn, Action: holdem.GameAction{PlayerID: playerID}}, nil
	case "START":
		return Request{Kind: RequestStart}, nil
	case "CLIENT_SEED":
		return Request{Kind: RequestClientSeed, Seed: env.Seed}, nil
	}
	typ, ok := holdem.ParseActionType(name)
	if !ok {
		return Request{}, fmt.Errorf("unknown request type %q", env.Type)
	}
	return Request{Kind: RequestAction, Action: holdem.GameAction{Type: typ, PlayerID: playerID, Amount: env.Amount}}, nil
}
