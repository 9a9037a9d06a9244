package replay

import (
	"errors"
	"fmt"
	"strings"

	"holdem-fair/holdem"
)

// actionAllIn is the replay-only action name routed to RoundManager.HandleAllIn.
const actionAllIn = "ALL_IN"

type normalizedAction struct {
	round    holdem.Round
	hasRound bool
	playerID string
	allIn    bool
	action   holdem.ActionType
	amount   int64
}

type normalizedSpec struct {
	cfg     holdem.Config
	stacks  []int64
	actions []normalizedAction
}

func normalizeSpec(spec HandSpec) (normalizedSpec, error) {
	var out normalizedSpec

	if spec.Players < holdem.MinPlayers || spec.Players > holdem.MaxPlayers {
		return out, specError("invalid_table", "players must be between %d and %d, got %d", holdem.MinPlayers, holdem.MaxPlayers, spec.Players)
	}
	if spec.DealerPosition < 0 || spec.DealerPosition >= spec.Players {
		return out, specError("invalid_dealer", "dealer_position %d out of range", spec.DealerPosition)
	}
	if strings.TrimSpace(spec.ServerSeed) == "" {
		return out, specError("invalid_seed", "server_seed is required")
	}
	if len(spec.Stacks) > 0 && len(spec.Stacks) != spec.Players {
		return out, specError("invalid_stacks", "stacks has %d entries for %d players", len(spec.Stacks), spec.Players)
	}
	for i, s := range spec.Stacks {
		if s < 0 {
			return out, specError("invalid_stacks", "seat %d stack must be >= 0", i)
		}
	}

	dealer := spec.DealerPosition
	out.cfg = holdem.Config{
		Players:       spec.Players,
		StartingStack: spec.StartingStack,
		SmallBlind:    spec.SmallBlind,
		BigBlind:      spec.BigBlind,
		ClientSeed:    spec.ClientSeed,
		ForcedDealer:  &dealer,
		Seed:          1,
	}
	out.stacks = append([]int64(nil), spec.Stacks...)

	out.actions = make([]normalizedAction, 0, len(spec.Actions))
	for i, a := range spec.Actions {
		na, err := normalizeAction(a)
		if err != nil {
			return out, &ReplayError{StepIndex: i, Reason: "invalid_action", Message: err.Error()}
		}
		out.actions = append(out.actions, na)
	}
	return out, nil
}

func normalizeAction(a ActionSpec) (normalizedAction, error) {
	na := normalizedAction{
		playerID: strings.TrimSpace(a.PlayerID),
		amount:   a.Amount,
	}
	if na.playerID == "" {
		return na, errors.New("player_id is required")
	}
	if a.Round != "" {
		r, ok := holdem.ParseRound(normalizeName(a.Round))
		if !ok {
			return na, fmt.Errorf("unknown round %q", a.Round)
		}
		na.round, na.hasRound = r, true
	}

	name := normalizeName(a.Type)
	if name == actionAllIn || name == "ALLIN" {
		na.allIn = true
		return na, nil
	}
	t, ok := holdem.ParseActionType(name)
	if !ok {
		return na, fmt.Errorf("unknown action type %q", a.Type)
	}
	na.action = t
	return na, nil
}

// normalizeName upper-cases and maps "pre-flop"/"preflop" spellings onto the dictionary names.
func normalizeName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "PREFLOP" {
		return "PRE_FLOP"
	}
	return s
}
