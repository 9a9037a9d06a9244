// Package lobby keeps the tables a server runs.
package lobby

import (
	"fmt"
	"sort"
	"sync"

	"holdem-fair/holdem/npc"
	"holdem-fair/internal/ledger"
	"holdem-fair/internal/table"

	"go.uber.org/zap"
)

// Lobby manages all tables
type Lobby struct {
	mu       sync.RWMutex
	tables   map[string]*table.Table
	onCreate []func(*table.Table)

	ledger ledger.Service
	logger *zap.Logger
}

// TableInfo is the listing entry for one table.
type TableInfo struct {
	ID                 string `json:"id"`
	Players            int    `json:"players"`
	HandNumber         int    `json:"hand_number"`
	InHand             bool   `json:"in_hand"`
	NextServerSeedHash string `json:"next_server_seed_hash"`
}

func New(ledgerService ledger.Service, logger *zap.Logger) *Lobby {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lobby{
		tables: make(map[string]*table.Table),
		ledger: ledgerService,
		logger: logger.Named("lobby"),
	}
}

// Create opens a table under id. Bot managers are per table since seats are
// addressed by player ID; bots may be nil.
func (l *Lobby) Create(id string, cfg table.Config, bots *npc.Manager) (*table.Table, error) {
	l.mu.Lock()
	if _, exists := l.tables[id]; exists {
		l.mu.Unlock()
		return nil, fmt.Errorf("table %q already exists", id)
	}
	t, err := table.New(id, cfg, l.ledger, bots, l.logger)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.tables[id] = t
	hooks := append([]func(*table.Table){}, l.onCreate...)
	l.mu.Unlock()

	for _, fn := range hooks {
		fn(t)
	}
	l.logger.Info("table opened", zap.String("table", id))
	return t, nil
}

// OnCreate registers fn to run for every table created afterwards.
func (l *Lobby) OnCreate(fn func(*table.Table)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onCreate = append(l.onCreate, fn)
}

// Get returns a table by ID
func (l *Lobby) Get(id string) *table.Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables[id]
}

// Tables returns the open tables ordered by ID.
func (l *Lobby) Tables() []*table.Table {
	l.mu.RLock()
	out := make([]*table.Table, 0, len(l.tables))
	for _, t := range l.tables {
		out = append(out, t)
	}
	l.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Lobby) List() []TableInfo {
	tables := l.Tables()
	out := make([]TableInfo, 0, len(tables))
	for _, t := range tables {
		s := t.Snapshot()
		out = append(out, TableInfo{
			ID:                 t.ID,
			Players:            len(s.Game.Players),
			HandNumber:         s.Game.HandNumber,
			InHand:             s.InHand,
			NextServerSeedHash: s.Game.NextServerSeedHash,
		})
	}
	return out
}

// Close stops a table and forgets it.
func (l *Lobby) Close(id string) {
	l.mu.Lock()
	t := l.tables[id]
	delete(l.tables, id)
	l.mu.Unlock()
	if t != nil {
		t.Stop()
		l.logger.Info("table closed", zap.String("table", id))
	}
}

func (l *Lobby) StopAll() {
	for _, t := range l.Tables() {
		l.Close(t.ID)
	}
}
