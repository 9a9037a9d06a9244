package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"holdem-fair/holdem"
	"holdem-fair/replay"

	"github.com/stretchr/testify/require"
)

func testSpec() replay.HandSpec {
	return replay.HandSpec{
		Players:        3,
		StartingStack:  1000,
		SmallBlind:     1,
		BigBlind:       2,
		DealerPosition: 0,
		ServerSeed:     "ledger-seed",
		ClientSeed:     "client",
		CommittedHash:  holdem.SeedCommitment("ledger-seed"),
		Actions: []replay.ActionSpec{
			{PlayerID: "1", Type: "FOLD"},
			{PlayerID: "2", Type: "FOLD"},
		},
	}
}

func newTestLedger(t *testing.T) *SQLiteService {
	t.Helper()
	svc, err := NewSQLiteService(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func recordFor(t *testing.T, handID string, handNumber int, playedAt time.Time) (HandRecord, []StepItem) {
	t.Helper()
	spec := testSpec()
	tape, err := replay.Run(spec)
	require.NoError(t, err)
	return HandRecord{
		HandID:         handID,
		TableID:        "table-1",
		HandNumber:     handNumber,
		PlayedAt:       playedAt,
		ServerSeedHash: tape.ServerSeedHash,
		ServerSeed:     tape.ServerSeed,
		ClientSeed:     tape.ClientSeed,
		Spec:           spec,
		FinalStacks:    tape.FinalStacks(),
		Summary:        map[string]any{"showdown": false},
	}, StepsFromTape(tape)
}

func TestSQLite_SaveAndLoad(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	played := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec, steps := recordFor(t, "hand-1", 1, played)

	require.NoError(t, svc.SaveHand(ctx, rec, steps))

	got, err := svc.GetHand(ctx, "hand-1")
	require.NoError(t, err)
	require.Equal(t, rec.Spec, got.Spec)
	require.Equal(t, rec.FinalStacks, got.FinalStacks)
	require.Equal(t, played, got.PlayedAt)
	require.Equal(t, map[string]int64{"1": 1000, "2": 999, "3": 1001}, got.FinalStacks)

	gotSteps, err := svc.GetHandSteps(ctx, "hand-1")
	require.NoError(t, err)
	require.Equal(t, steps, gotSteps)
}

func TestSQLite_SaveIsUpsert(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	rec, steps := recordFor(t, "hand-1", 1, time.Now())

	require.NoError(t, svc.SaveHand(ctx, rec, steps))
	rec.Summary = map[string]any{"note": "again"}
	require.NoError(t, svc.SaveHand(ctx, rec, steps[:1]))

	got, err := svc.GetHand(ctx, "hand-1")
	require.NoError(t, err)
	require.Equal(t, "again", got.Summary["note"])
	gotSteps, err := svc.GetHandSteps(ctx, "hand-1")
	require.NoError(t, err)
	require.Len(t, gotSteps, 1)
}

func TestSQLite_NotFound(t *testing.T) {
	svc := newTestLedger(t)
	_, err := svc.GetHand(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetHandSteps(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListRecent(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		rec, steps := recordFor(t, "hand-"+string(rune('0'+i)), i, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, svc.SaveHand(ctx, rec, steps))
	}
	other, steps := recordFor(t, "other", 1, base)
	other.TableID = "table-2"
	require.NoError(t, svc.SaveHand(ctx, other, steps))

	items, err := svc.ListRecent(ctx, "table-1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "hand-3", items[0].HandID)
	require.Equal(t, "hand-2", items[1].HandID)

	all, err := svc.ListRecent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestNewService_Modes(t *testing.T) {
	svc, label, err := NewService(Options{Mode: "memory"})
	require.NoError(t, err)
	require.Equal(t, "memory-noop", label)
	_, err = svc.GetHand(context.Background(), "x")
	require.ErrorIs(t, err, ErrNotFound)

	svc, label, err = NewService(Options{Mode: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.Equal(t, "sqlite", label)
	require.NoError(t, svc.Close())

	_, _, err = NewService(Options{Mode: "mongo"})
	require.Error(t, err)
	_, _, err = NewService(Options{Mode: "postgres"})
	require.Error(t, err)
}

func TestPostgresPlaceholders(t *testing.T) {
	s := &sqlStore{numbered: true}
	require.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", s.q("SELECT a FROM t WHERE x = ? AND y = ?"))
	s.numbered = false
	require.Equal(t, "x = ?", s.q("x = ?"))
}

func newTestServer(t *testing.T) (*httptest.Server, *SQLiteService) {
	t.Helper()
	svc := newTestLedger(t)
	srv := httptest.NewServer(NewHTTPHandler(svc, nil).Routes())
	t.Cleanup(srv.Close)
	return srv, svc
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHTTP_HandAndSteps(t *testing.T) {
	srv, svc := newTestServer(t)
	rec, steps := recordFor(t, "hand-1", 1, time.Now())
	require.NoError(t, svc.SaveHand(context.Background(), rec, steps))

	var hand HandRecord
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/audit/hands/hand-1", &hand))
	require.Equal(t, "hand-1", hand.HandID)
	require.Equal(t, rec.ServerSeedHash, hand.ServerSeedHash)

	var stepsResp struct {
		HandID string     `json:"hand_id"`
		Steps  []StepItem `json:"steps"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/audit/hands/hand-1/steps", &stepsResp))
	require.Equal(t, steps, stepsResp.Steps)

	var list struct {
		Items []HandRecord `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/audit/hands?table=table-1&limit=5", &list))
	require.Len(t, list.Items, 1)

	var errResp errorResponse
	require.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/audit/hands/nope", &errResp))
	require.Equal(t, "hand not found", errResp.Error)
}

func TestHTTP_Verify(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	good, steps := recordFor(t, "good", 1, time.Now())
	require.NoError(t, svc.SaveHand(ctx, good, steps))

	tampered, _ := recordFor(t, "tampered", 2, time.Now())
	tampered.FinalStacks["3"] = 5000
	require.NoError(t, svc.SaveHand(ctx, tampered, nil))

	badSeed, _ := recordFor(t, "bad-seed", 3, time.Now())
	badSeed.ServerSeed = "other-seed"
	require.NoError(t, svc.SaveHand(ctx, badSeed, nil))

	var resp verifyResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/audit/hands/good/verify", &resp))
	require.True(t, resp.Verified)
	require.Nil(t, resp.Failure)

	resp = verifyResponse{}
	getJSON(t, srv.URL+"/api/audit/hands/tampered/verify", &resp)
	require.False(t, resp.Verified)
	require.Equal(t, "stack_mismatch", resp.Failure.Reason)

	resp = verifyResponse{}
	getJSON(t, srv.URL+"/api/audit/hands/bad-seed/verify", &resp)
	require.False(t, resp.Verified)
	require.Equal(t, "hash_mismatch", resp.Failure.Reason)
}

func TestHTTP_Replay(t *testing.T) {
	srv, _ := newTestServer(t)

	body, err := json.Marshal(testSpec())
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/audit/replay", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tape replay.WireTape
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tape))
	require.True(t, tape.Complete)
	require.NotEmpty(t, tape.Steps)

	bad := testSpec()
	bad.Actions[0].PlayerID = "3"
	body, err = json.Marshal(bad)
	require.NoError(t, err)
	resp2, err := http.Post(srv.URL+"/api/audit/replay", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp2.StatusCode)

	var replayErr replay.ReplayError
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&replayErr))
	require.Equal(t, "out_of_turn", replayErr.Reason)
}
