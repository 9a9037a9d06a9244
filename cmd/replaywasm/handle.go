// Command replaywasm exposes hand replay and deal verification to browsers,
// so players can check a hand without trusting the server.
package main

import (
	"encoding/json"
	"errors"

	"holdem-fair/card"
	"holdem-fair/holdem"
	"holdem-fair/replay"
)

type runRequest struct {
	Spec replay.HandSpec `json:"spec"`
}

type runResponse struct {
	OK    bool                `json:"ok"`
	Tape  *replay.WireTape    `json:"tape,omitempty"`
	Error *replay.ReplayError `json:"error,omitempty"`
}

type verifyRequest struct {
	ServerSeed    string `json:"server_seed"`
	ClientSeed    string `json:"client_seed"`
	CommittedHash string `json:"committed_hash"`
}

type verifyResponse struct {
	OK        bool                `json:"ok"`
	DealOrder []string            `json:"deal_order,omitempty"`
	Error     *replay.ReplayError `json:"error,omitempty"`
}

func badRequest(msg string) runResponse {
	return runResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_request", Message: msg}}
}

func handleRun(raw string) runResponse {
	var req runRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return runResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_json", Message: err.Error()}}
	}
	tape, err := replay.Run(req.Spec)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return runResponse{Error: replayErr}
		}
		return runResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: "replay_failed", Message: err.Error()}}
	}
	return runResponse{OK: true, Tape: replay.ToWireTape(tape)}
}

func handleVerify(raw string) verifyResponse {
	var req verifyRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return verifyResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_json", Message: err.Error()}}
	}
	if err := holdem.VerifyDeal(req.ServerSeed, req.ClientSeed, req.CommittedHash, nil); err != nil {
		return verifyResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: "hash_mismatch", Message: err.Error()}}
	}
	return verifyResponse{OK: true, DealOrder: card.CardList(holdem.DealOrder(req.ServerSeed, req.ClientSeed)).Codes()}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		fallback := runResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "marshal_failed", Message: err.Error()},
		}
		b2, _ := json.Marshal(fallback)
		return string(b2)
	}
	return string(b)
}
