package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresSchema is applied by operators before the service starts.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS ledger_hands (
    hand_id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    hand_number INTEGER NOT NULL,
    played_at_ms BIGINT NOT NULL,
    server_seed_hash TEXT NOT NULL,
    server_seed TEXT NOT NULL,
    client_seed TEXT NOT NULL,
    spec_json TEXT NOT NULL,
    final_stacks_json TEXT NOT NULL,
    summary_json TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_ledger_hands_table_played
ON ledger_hands (table_id, played_at_ms DESC);

CREATE TABLE IF NOT EXISTS ledger_hand_steps (
    hand_id TEXT NOT NULL REFERENCES ledger_hands(hand_id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL,
    envelope_b64 TEXT NOT NULL,
    PRIMARY KEY (hand_id, seq)
);
`

type PostgresService struct {
	sqlStore
}

func NewPostgresService(dsn string, logger *zap.Logger) (*PostgresService, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	var schemaReady bool
	if err := db.QueryRowContext(ctx, `
SELECT EXISTS (
    SELECT 1
    FROM information_schema.tables
    WHERE table_schema = 'public'
      AND table_name = 'ledger_hands'
)`).Scan(&schemaReady); err != nil {
		_ = db.Close()
		return nil, err
	}
	if !schemaReady {
		_ = db.Close()
		return nil, fmt.Errorf("ledger schema not initialized: missing table ledger_hands")
	}
	logger.Info("postgres ledger ready")
	return &PostgresService{sqlStore{db: db, logger: logger, numbered: true}}, nil
}
