// Package gateway lets players sit at a table over a websocket: the server
// pushes each player's redacted view after every change, players send actions.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"holdem-fair/internal/codec"
	"holdem-fair/internal/lobby"
	"holdem-fair/internal/table"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4096
)

// Error codes sent in error frames.
const (
	CodeBadRequest int32 = 1
	CodeRejected   int32 = 2
	CodeClosed     int32 = 3
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID       string
	PlayerID string
	Conn     *websocket.Conn
	Send     chan *codec.ServerEnvelope
	Gateway  *Gateway
	Table    *table.Table
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]map[string]*Connection // tableID -> playerID -> conn
	nextConnID  uint64
	serverSeq   uint64
	lobby       *lobby.Lobby
	logger      *zap.Logger
}

func New(lby *lobby.Lobby, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		connections: make(map[string]map[string]*Connection),
		lobby:       lby,
		logger:      logger.Named("gateway"),
	}
	lby.OnCreate(g.watch)
	for _, t := range lby.Tables() {
		g.watch(t)
	}
	return g
}

// Mount registers the websocket endpoint and the table listing on r.
func (g *Gateway) Mount(r chi.Router) {
	r.Get("/ws/{tableID}", g.HandleWebSocket)
	r.Get("/api/tables", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": g.lobby.List()})
	})
}

func (g *Gateway) watch(t *table.Table) {
	t.AddChangeHook(func() { g.broadcastViews(t) })
}

// HandleWebSocket seats the connection at /ws/{tableID}?player=ID.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	t := g.lobby.Get(chi.URLParam(r, "tableID"))
	if t == nil {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}
	playerID := r.URL.Query().Get("player")
	if _, ok := t.Snapshot().Game.Player(playerID); !ok {
		http.Error(w, "unknown player", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	c := &Connection{
		ID:       fmt.Sprintf("conn_%d", atomic.AddUint64(&g.nextConnID, 1)),
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan *codec.ServerEnvelope, 64),
		Gateway:  g,
		Table:    t,
	}

	g.mu.Lock()
	seats := g.connections[t.ID]
	if seats == nil {
		seats = make(map[string]*Connection)
		g.connections[t.ID] = seats
	}
	if old := seats[playerID]; old != nil {
		close(old.Send)
	}
	seats[playerID] = c
	g.mu.Unlock()

	g.logger.Info("player connected", zap.String("conn", c.ID), zap.String("table", t.ID), zap.String("player", playerID))
	go c.writePump()
	c.sendView()
	go c.readPump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(readLimit)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env codec.ClientEnvelope
		if err := c.Conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Gateway.logger.Debug("read error", zap.String("conn", c.ID), zap.Error(err))
			}
			return
		}
		c.handleMessage(env)
	}
}

func (c *Connection) handleMessage(env codec.ClientEnvelope) {
	req, err := codec.ParseClientEnvelope(c.PlayerID, env)
	if err != nil {
		c.sendError(CodeBadRequest, err.Error())
		return
	}

	switch req.Kind {
	case codec.RequestAction:
		err = c.Table.Act(req.Action)
	case codec.RequestAllIn:
		err = c.Table.AllIn(c.PlayerID)
	case codec.RequestStart:
		err = c.Table.StartHand()
	case codec.RequestClientSeed:
		err = c.Table.SetClientSeed(req.Seed)
		if err == nil {
			c.sendView()
		}
	}
	switch {
	case err == nil:
	case errors.Is(err, table.ErrTableClosed):
		c.sendError(CodeClosed, err.Error())
	default:
		c.sendError(CodeRejected, err.Error())
	}
}

func (c *Connection) sendView() {
	env := codec.WrapServerEnvelope(c.Table.ID, c.Gateway.nextSeq(), codec.KindView)
	env.View = codec.SnapshotToView(c.Table.ViewFor(c.PlayerID))
	c.enqueue(env)
}

func (c *Connection) sendError(code int32, msg string) {
	env := codec.WrapServerEnvelope(c.Table.ID, c.Gateway.nextSeq(), codec.KindError)
	env.Error = &codec.ErrorFrame{Code: code, Message: msg}
	c.enqueue(env)
}

// enqueue drops the frame when the client is not keeping up.
func (c *Connection) enqueue(env *codec.ServerEnvelope) {
	c.Gateway.mu.RLock()
	defer c.Gateway.mu.RUnlock()
	if c.Gateway.connections[c.Table.ID][c.PlayerID] != c {
		return
	}
	select {
	case c.Send <- env:
	default:
		c.Gateway.logger.Debug("send buffer full", zap.String("conn", c.ID))
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	seats := g.connections[c.Table.ID]
	if seats[c.PlayerID] == c {
		delete(seats, c.PlayerID)
		close(c.Send)
	}
	g.logger.Info("player disconnected", zap.String("conn", c.ID), zap.String("player", c.PlayerID))
}

func (g *Gateway) broadcastViews(t *table.Table) {
	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.connections[t.ID]))
	for _, c := range g.connections[t.ID] {
		conns = append(conns, c)
	}
	g.mu.RUnlock()
	for _, c := range conns {
		c.sendView()
	}
}

func (g *Gateway) nextSeq() uint64 {
	return atomic.AddUint64(&g.serverSeq, 1)
}
