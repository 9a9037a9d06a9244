package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"holdem-fair/holdem"
	"holdem-fair/internal/codec"
	"holdem-fair/internal/lobby"
	"holdem-fair/internal/table"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *lobby.Lobby) {
	t.Helper()
	lby := lobby.New(nil, nil)
	t.Cleanup(lby.StopAll)
	gw := New(lby, nil)

	dealer := 0
	_, err := lby.Create("t1", table.Config{
		Engine:        holdem.Config{Players: 3, ForcedDealer: &dealer},
		ActionTimeout: time.Minute,
	}, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	gw.Mount(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, lby
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads frames until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(*codec.ServerEnvelope) bool) *codec.ServerEnvelope {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var env codec.ServerEnvelope
		require.NoError(t, conn.ReadJSON(&env))
		if match(&env) {
			return &env
		}
	}
}

func isView(env *codec.ServerEnvelope) bool { return env.Kind == codec.KindView }

func TestGateway_PlayOverWebsocket(t *testing.T) {
	srv, _ := newTestServer(t)
	p1 := dial(t, srv, "/ws/t1?player=1")
	p2 := dial(t, srv, "/ws/t1?player=2")

	first := readUntil(t, p1, isView)
	require.False(t, first.View.InHand)
	require.Equal(t, "t1", first.TableID)
	readUntil(t, p2, isView)

	require.NoError(t, p1.WriteJSON(codec.ClientEnvelope{Type: "START"}))
	dealt := readUntil(t, p1, func(env *codec.ServerEnvelope) bool { return isView(env) && env.View.InHand })
	require.Equal(t, 0, dealt.View.CurrentPlayer)
	require.NotEmpty(t, dealt.View.Legal)
	require.NotEqual(t, "??", dealt.View.Players[0].HoleCards[0])
	require.Equal(t, []string{"??", "??"}, dealt.View.Players[1].HoleCards)

	other := readUntil(t, p2, func(env *codec.ServerEnvelope) bool { return isView(env) && env.View.InHand })
	require.Empty(t, other.View.Legal)
	require.Equal(t, []string{"??", "??"}, other.View.Players[0].HoleCards)

	// out of turn
	require.NoError(t, p2.WriteJSON(codec.ClientEnvelope{Type: "FOLD"}))
	rejected := readUntil(t, p2, func(env *codec.ServerEnvelope) bool { return env.Kind == codec.KindError })
	require.Equal(t, CodeRejected, rejected.Error.Code)
	require.Contains(t, rejected.Error.Message, table.ErrNotYourTurn.Error())

	require.NoError(t, p1.WriteJSON(codec.ClientEnvelope{Type: "bogus"}))
	bad := readUntil(t, p1, func(env *codec.ServerEnvelope) bool { return env.Kind == codec.KindError })
	require.Equal(t, CodeBadRequest, bad.Error.Code)

	require.NoError(t, p1.WriteJSON(codec.ClientEnvelope{Type: "FOLD"}))
	readUntil(t, p2, func(env *codec.ServerEnvelope) bool { return isView(env) && len(env.View.Legal) > 0 })
	require.NoError(t, p2.WriteJSON(codec.ClientEnvelope{Type: "FOLD"}))
	done := readUntil(t, p1, func(env *codec.ServerEnvelope) bool {
		return isView(env) && !env.View.InHand && env.View.Result != nil
	})
	require.Equal(t, map[string]int64{"3": 3}, done.View.Result.Winners)
}

func TestGateway_RejectsUnknownTableOrPlayer(t *testing.T) {
	srv, _ := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url+"/ws/nope?player=1", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"/ws/t1?player=42", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGateway_ListsTables(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/tables")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
