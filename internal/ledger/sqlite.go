package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type SQLiteService struct {
	sqlStore
}

func NewSQLiteService(dbPath string, logger *zap.Logger) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// one connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("sqlite ledger ready", zap.String("path", dbPath))
	return &SQLiteService{sqlStore{db: db, logger: logger}}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS ledger_hands (
    hand_id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    hand_number INTEGER NOT NULL,
    played_at_ms INTEGER NOT NULL,
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
`)
	return err
}
