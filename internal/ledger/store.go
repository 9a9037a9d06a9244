package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// sqlStore is the query layer shared by the sqlite and postgres backends.
// Queries are written with ? placeholders and rebound for postgres.
type sqlStore struct {
	db       *sql.DB
	logger   *zap.Logger
	numbered bool
}

func (s *sqlStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlStore) q(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) SaveHand(ctx context.Context, rec HandRecord, steps []StepItem) error {
	if strings.TrimSpace(rec.HandID) == "" {
		return fmt.Errorf("save hand: empty hand id")
	}
	specJSON, err := json.Marshal(rec.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}
	stacksJSON, err := json.Marshal(rec.FinalStacks)
	if err != nil {
		return fmt.Errorf("marshal stacks: %w", err)
	}
	summary := rec.Summary
	if summary == nil {
		summary = map[string]any{}
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	playedAt := rec.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.q(`
INSERT INTO ledger_hands (
    hand_id, table_id, hand_number, played_at_ms,
    server_seed_hash, server_seed, client_seed,
    spec_json, final_stacks_json, summary_json
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id) DO UPDATE
SET table_id = excluded.table_id,
    hand_number = excluded.hand_number,
    played_at_ms = excluded.played_at_ms,
    server_seed_hash = excluded.server_seed_hash,
    server_seed = excluded.server_seed,
    client_seed = excluded.client_seed,
    spec_json = excluded.spec_json,
    final_stacks_json = excluded.final_stacks_json,
    summary_json = excluded.summary_json
`), rec.HandID, rec.TableID, rec.HandNumber, playedAt.UTC().UnixMilli(),
		rec.ServerSeedHash, rec.ServerSeed, rec.ClientSeed,
		string(specJSON), string(stacksJSON), string(summaryJSON)); err != nil {
		return fmt.Errorf("upsert hand: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM ledger_hand_steps WHERE hand_id = ?`), rec.HandID); err != nil {
		return fmt.Errorf("clear steps: %w", err)
	}
	for _, st := range steps {
		if _, err := tx.ExecContext(ctx, s.q(`
INSERT INTO ledger_hand_steps (hand_id, seq, kind, envelope_b64)
VALUES (?, ?, ?, ?)
`), rec.HandID, st.Seq, st.Kind, st.EnvelopeB64); err != nil {
			return fmt.Errorf("insert step %d: %w", st.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("hand saved", zap.String("hand_id", rec.HandID), zap.Int("steps", len(steps)))
	return nil
}

const handColumns = `hand_id, table_id, hand_number, played_at_ms, server_seed_hash, server_seed, client_seed,
    spec_json, final_stacks_json, summary_json`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHand(row rowScanner) (*HandRecord, error) {
	var (
		rec                              HandRecord
		playedAtMs                       int64
		specJSON, stacksJSON, summaryRaw string
	)
	if err := row.Scan(
		&rec.HandID, &rec.TableID, &rec.HandNumber, &playedAtMs,
		&rec.ServerSeedHash, &rec.ServerSeed, &rec.ClientSeed,
		&specJSON, &stacksJSON, &summaryRaw,
	); err != nil {
		return nil, err
	}
	rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	if err := json.Unmarshal([]byte(specJSON), &rec.Spec); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}
	if err := json.Unmarshal([]byte(stacksJSON), &rec.FinalStacks); err != nil {
		return nil, fmt.Errorf("decode stacks: %w", err)
	}
	if summaryRaw != "" {
		_ = json.Unmarshal([]byte(summaryRaw), &rec.Summary)
	}
	return &rec, nil
}

func (s *sqlStore) GetHand(ctx context.Context, handID string) (*HandRecord, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+handColumns+` FROM ledger_hands WHERE hand_id = ?`), handID)
	rec, err := scanHand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *sqlStore) GetHandSteps(ctx context.Context, handID string) ([]StepItem, error) {
	if _, err := s.GetHand(ctx, handID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.q(`
SELECT seq, kind, envelope_b64
FROM ledger_hand_steps
WHERE hand_id = ?
ORDER BY seq ASC
`), handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StepItem, 0, 32)
	for rows.Next() {
		var it StepItem
		if err := rows.Scan(&it.Seq, &it.Kind, &it.EnvelopeB64); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *sqlStore) ListRecent(ctx context.Context, tableID string, limit int) ([]HandRecord, error) {
	limit = clampLimit(limit)
	var (
		rows *sql.Rows
		err  error
	)
	if tableID == "" {
		rows, err = s.db.QueryContext(ctx, s.q(`SELECT `+handColumns+`
FROM ledger_hands
ORDER BY played_at_ms DESC, hand_number DESC
LIMIT ?`), limit)
	} else {
		rows, err = s.db.QueryContext(ctx, s.q(`SELECT `+handColumns+`
FROM ledger_hands
WHERE table_id = ?
ORDER BY played_at_ms DESC, hand_number DESC
LIMIT ?`), tableID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HandRecord, 0, limit)
	for rows.Next() {
		rec, err := scanHand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
