package codec

import (
	"testing"
	"time"

	"holdem-fair/card"
	"holdem-fair/holdem"
	"holdem-fair/internal/table"

	"github.com/stretchr/testify/require"
)

func TestSnapshotToView_RedactsOpponents(t *testing.T) {
	dealer := 0
	tbl, err := table.New("v", table.Config{
		Engine:        holdem.Config{Players: 3, ForcedDealer: &dealer},
		ActionTimeout: time.Minute,
	}, nil, nil, nil)
	require.NoError(t, err)
	t.Cleanup(tbl.Stop)

	before := SnapshotToView(tbl.ViewFor("1"))
	require.False(t, before.InHand)
	require.Equal(t, holdem.InvalidSeat, before.CurrentPlayer)
	require.Len(t, before.NextServerSeedHash, 64)

	require.NoError(t, tbl.StartHand())
	v := SnapshotToView(tbl.ViewFor("1"))
	require.True(t, v.InHand)
	require.Equal(t, "PRE_FLOP", v.Round)
	require.Empty(t, v.Board)
	require.Equal(t, int64(3), v.Pot)
	require.Equal(t, 0, v.CurrentPlayer)
	require.NotEmpty(t, v.Legal)
	require.Len(t, v.Players, 3)
	for _, c := range v.Players[0].HoleCards {
		require.NotEqual(t, "??", c)
	}
	require.Equal(t, []string{"??", "??"}, v.Players[1].HoleCards)
	require.NotZero(t, v.DeadlineMs)

	// not their turn: no legal actions
	other := SnapshotToView(tbl.ViewFor("2"))
	require.Empty(t, other.Legal)

	require.NoError(t, tbl.Act(holdem.GameAction{Type: holdem.PlayerActionTypeFold, PlayerID: "1"}))
	require.NoError(t, tbl.Act(holdem.GameAction{Type: holdem.PlayerActionTypeFold, PlayerID: "2"}))
	done := SnapshotToView(tbl.ViewFor("2"))
	require.False(t, done.InHand)
	require.NotNil(t, done.Result)
	require.False(t, done.Result.Showdown)
	require.Equal(t, map[string]int64{"3": 3}, done.Result.Winners)
	require.Empty(t, done.Board)
}

func TestParseClientEnvelope(t *testing.T) {
	req, err := ParseClientEnvelope("2", ClientEnvelope{Type: "raise", Amount: 8})
	require.NoError(t, err)
	require.Equal(t, RequestAction, req.Kind)
	require.Equal(t, holdem.GameAction{Type: holdem.PlayerActionTypeRaise, PlayerID: "2", Amount: 8}, req.Action)

	req, err = ParseClientEnvelope("2", ClientEnvelope{Type: "all-in"})
	require.NoError(t, err)
	require.Equal(t, RequestAllIn, req.Kind)
	require.Equal(t, "2", req.Action.PlayerID)

	req, err = ParseClientEnvelope("2", ClientEnvelope{Type: "CLIENT_SEED", Seed: "abc"})
	require.NoError(t, err)
	require.Equal(t, RequestClientSeed, req.Kind)
	require.Equal(t, "abc", req.Seed)

	req, err = ParseClientEnvelope("2", ClientEnvelope{Type: "start"})
	require.NoError(t, err)
	require.Equal(t, RequestStart, req.Kind)

	_, err = ParseClientEnvelope("2", ClientEnvelope{Type: "NONE"})
	require.Error(t, err)
	_, err = ParseClientEnvelope("2", ClientEnvelope{Type: "bet"})
	require.Error(t, err)
}

func TestCardCodes(t *testing.T) {
	cards := []card.Card{card.MustParse("As"), card.MustParse("10h").Concealed(), card.MustParse("2c")}
	require.Equal(t, []string{"As", "??", "2c"}, CardCodes(cards))
}
