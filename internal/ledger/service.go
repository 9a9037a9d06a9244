// Package ledger persists finished hands with their fairness disclosure so any
// hand can be re-run and checked later.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"holdem-fair/replay"

	"go.uber.org/zap"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

var ErrNotFound = errors.New("not found")

type Service interface {
	Close() error
	SaveHand(ctx context.Context, rec HandRecord, steps []StepItem) error
	GetHand(ctx context.Context, handID string) (*HandRecord, error)
	GetHandSteps(ctx context.Context, handID string) ([]StepItem, error)
	ListRecent(ctx context.Context, tableID string, limit int) ([]HandRecord, error)
}

// HandRecord is one finished hand: the seeds, the commitment published before
// the deal, the replayable spec and the stacks it ended with.
type HandRecord struct {
	HandID         string           `json:"hand_id"`
	TableID        string           `json:"table_id"`
	HandNumber     int              `json:"hand_number"`
	PlayedAt       time.Time        `json:"played_at"`
	ServerSeedHash string           `json:"server_seed_hash"`
	ServerSeed     string           `json:"server_seed"`
	ClientSeed     string           `json:"client_seed"`
	Spec           replay.HandSpec  `json:"spec"`
	FinalStacks    map[string]int64 `json:"final_stacks"`
	Summary        map[string]any   `json:"summary,omitempty"`
}

type StepItem struct {
	Seq         int    `json:"seq"`
	Kind        string `json:"kind"`
	EnvelopeB64 string `json:"envelope_b64"`
}

// StepsFromTape lifts the encoded steps out of a replay tape.
func StepsFromTape(tape *replay.Tape) []StepItem {
	if tape == nil {
		return nil
	}
	out := make([]StepItem, 0, len(tape.Steps))
	for _, s := range tape.Steps {
		out = append(out, StepItem{Seq: s.Seq, Kind: s.Kind, EnvelopeB64: s.EnvelopeB64})
	}
	return out
}

// Options selects and configures a backend.
type Options struct {
	Mode        string // memory | sqlite | postgres
	SQLitePath  string
	DatabaseURL string
	Logger      *zap.Logger
}

// NewService opens the backend named by opts.Mode and returns it with its label.
func NewService(opts Options) (Service, string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ledger")

	switch mode := strings.ToLower(strings.TrimSpace(opts.Mode)); mode {
	case "", "memory":
		return &noopService{}, "memory-noop", nil
	case "local", "sqlite":
		service, err := NewSQLiteService(opts.SQLitePath, logger)
		if err != nil {
			return nil, "", err
		}
		return service, "sqlite", nil
	case "postgres":
		service, err := NewPostgresService(opts.DatabaseURL, logger)
		if err != nil {
			return nil, "", err
		}
		return service, "postgres", nil
	default:
		return nil, "", fmt.Errorf("unknown ledger mode %q", mode)
	}
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) SaveHand(_ context.Context, _ HandRecord, _ []StepItem) error { return nil }

func (n *noopService) GetHand(_ context.Context, _ string) (*HandRecord, error) {
	return nil, ErrNotFound
}

func (n *noopService) GetHandSteps(_ context.Context, _ string) ([]StepItem, error) {
	return nil, ErrNotFound
}

func (n *noopService) ListRecent(_ context.Context, _ string, _ int) ([]HandRecord, error) {
	return []HandRecord{}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}
