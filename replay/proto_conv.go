package replay

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeStep serializes a step as a protobuf Struct. The envelope field itself is not encoded.
// Map keys are written in sorted order so equal steps give equal bytes.
func EncodeStep(s Step) ([]byte, error) {
	st, err := structpb.NewStruct(stepFields(s))
	if err != nil {
		return nil, fmt.Errorf("build step struct: %w", err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

// DecodeStep is the inverse of EncodeStep into a generic map; numbers decode as float64.
func DecodeStep(bin []byte) (map[string]any, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(bin, &st); err != nil {
		return nil, fmt.Errorf("decode step: %w", err)
	}
	return st.AsMap(), nil
}

func stepFields(s Step) map[string]any {
	board := make([]any, len(s.Board))
	for i, c := range s.Board {
		board[i] = c
	}
	stacks := make(map[string]any, len(s.Stacks))
	for id, v := range s.Stacks {
		stacks[id] = v
	}
	pots := make([]any, len(s.SidePots))
	for i, p := range s.SidePots {
		ids := make([]any, len(p.EligiblePlayerIDs))
		for j, id := range p.EligiblePlayerIDs {
			ids[j] = id
		}
		pots[i] = map[string]any{"amount": p.Amount, "eligible": ids}
	}

	m := map[string]any{
		"seq":            s.Seq,
		"kind":           s.Kind,
		"round":          s.Round,
		"pot":            s.Pot,
		"current_bet":    s.CurrentBet,
		"min_raise":      s.MinRaise,
		"current_player": s.CurrentPlayer,
		"board":          board,
		"stacks":         stacks,
		"side_pots":      pots,
	}
	if s.PlayerID != "" {
		m["player_id"] = s.PlayerID
		m["action"] = s.Action
		m["amount"] = s.Amount
	}
	return m
}
