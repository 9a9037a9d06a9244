// Package table runs a single holdem table as an actor: one goroutine owns the
// engine and betting machine, players and bots submit events to it.
package table

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"holdem-fair/holdem"
	"holdem-fair/holdem/npc"
	"holdem-fair/internal/ledger"
	"holdem-fair/replay"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTableClosed   = errors.New("table closed")
	ErrNoHandPlaying = errors.New("no hand in play")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalAction = errors.New("illegal action")
	ErrUnknownPlayer = errors.New("unknown player")
)

const (
	defaultActionTimeout = 30 * time.Second
	defaultHandDelay     = 3 * time.Second
	tickInterval         = 200 * time.Millisecond
)

type Config struct {
	Engine        holdem.Config
	ActionTimeout time.Duration
	// HandDelay is the pause between a settled hand and the next deal when AutoStart is set.
	// Zero selects the default.
	HandDelay time.Duration
	AutoStart bool
	// InstantBots skips the simulated think time of bot seats and the pause between hands.
	InstantBots bool
}

// Table represents a single poker table with an actor model
type Table struct {
	ID  string
	cfg Config

	mu       sync.RWMutex
	engine   *holdem.GameEngine
	rounds   *holdem.RoundManager
	eval     holdem.HandEvaluator
	closed   bool
	stopOnce sync.Once

	events chan event
	done   chan struct{}

	// per-hand recording
	handID     string
	handStart  time.Time
	handSpec   replay.HandSpec
	lastResult *holdem.SettlementResult

	turnSeq        uint64
	actionDeadline time.Time
	nextHandAt     time.Time

	ledger ledger.Service
	bots   *npc.Manager
	logger *zap.Logger

	handEndHooks []HandEndHook
	changeHooks  []func()
}

type eventType int

const (
	eventAction eventType = iota
	eventAllIn
	eventStartHand
	eventClientSeed
	eventClose
)

type event struct {
	typ      eventType
	action   holdem.GameAction
	seed     string
	turnSeq  uint64 // bot decisions only; stale turns are dropped
	response chan error
}

// HandEndInfo is emitted when a hand settlement is finalized.
type HandEndInfo struct {
	TableID    string
	HandID     string
	HandNumber int
	Result     *holdem.SettlementResult
	Stacks     map[string]int64
	Record     ledger.HandRecord
}

// HandEndHook is a post-settlement callback.
type HandEndHook func(info HandEndInfo)

// New creates a table and starts its actor. ledgerService and bots may be nil.
func New(id string, cfg Config, ledgerService ledger.Service, bots *npc.Manager, logger *zap.Logger) (*Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = defaultActionTimeout
	}
	switch {
	case cfg.InstantBots:
		cfg.HandDelay = 0
	case cfg.HandDelay <= 0:
		cfg.HandDelay = defaultHandDelay
	}
	if ledgerService == nil {
		svc, _, err := ledger.NewService(ledger.Options{Mode: "memory"})
		if err != nil {
			return nil, fmt.Errorf("create ledger: %w", err)
		}
		ledgerService = svc
	}
	logger = logger.With(zap.String("table", id))

	engine, err := holdem.NewGameEngine(cfg.Engine, holdem.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	t := &Table{
		ID:     id,
		cfg:    cfg,
		engine: engine,
		eval:   holdem.NewLibraryEvaluator(),
		events: make(chan event, 64),
		done:   make(chan struct{}),
		ledger: ledgerService,
		bots:   bots,
		logger: logger,
	}
	go t.run()

	logger.Info("table created",
		zap.Int("players", engine.Config().Players),
		zap.Int64("sb", engine.Config().SmallBlind),
		zap.Int64("bb", engine.Config().BigBlind),
		zap.String("next_seed_hash", engine.NextServerSeedHash()))
	return t, nil
}

// run is the main actor loop
func (t *Table) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case e := <-t.events:
			err := t.handleEvent(e)
			if e.response != nil {
				e.response <- err
			}
		case now := <-ticker.C:
			t.tick(now)
		case <-t.done:
			t.logger.Info("table actor stopped")
			return
		}
	}
}

func (t *Table) handleEvent(e event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed && e.typ != eventClose {
		return ErrTableClosed
	}
	switch e.typ {
	case eventAction:
		if e.turnSeq != 0 && e.turnSeq != t.turnSeq {
			return nil
		}
		return t.handleAction(e.action, false)
	case eventAllIn:
		return t.handleAction(e.action, true)
	case eventStartHand:
		return t.handleStartHand(time.Now())
	case eventClientSeed:
		return t.engine.SetClientSeed(e.seed)
	case eventClose:
		t.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.typ)
	}
}

func (t *Table) submit(e event) error {
	if e.response == nil {
		e.response = make(chan error, 1)
	}
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrTableClosed
	}

	select {
	case t.events <- e:
	case <-t.done:
		return ErrTableClosed
	}
	select {
	case err := <-e.response:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

// StartHand deals the next hand.
func (t *Table) StartHand() error {
	return t.submit(event{typ: eventStartHand})
}

// Act submits a CHECK, CALL, RAISE or FOLD for the player whose turn it is.
func (t *Table) Act(action holdem.GameAction) error {
	return t.submit(event{typ: eventAction, action: action})
}

// AllIn commits the player's whole stack.
func (t *Table) AllIn(playerID string) error {
	return t.submit(event{typ: eventAllIn, action: holdem.GameAction{PlayerID: playerID}})
}

// SetClientSeed replaces the client seed used from the next hand on.
func (t *Table) SetClientSeed(seed string) error {
	return t.submit(event{typ: eventClientSeed, seed: seed})
}

// Stop shuts down the table actor
func (t *Table) Stop() {
	_ = t.submit(event{typ: eventClose})
}

func (t *Table) stopLocked() {
	t.stopOnce.Do(func() {
		t.closed = true
		close(t.done)
	})
}

func (t *Table) handleStartHand(now time.Time) error {
	if t.rounds != nil && !t.rounds.IsHandComplete() {
		return holdem.ErrHandInProgress
	}
	t.nextHandAt = time.Time{}

	startStacks := make([]int64, 0, t.engine.Roster().Len())
	for _, p := range t.engine.Roster().Players() {
		startStacks = append(startStacks, p.Stack())
	}
	if err := t.engine.StartNewHand(); err != nil {
		return err
	}
	rm, err := t.engine.NewRoundManager()
	if err != nil {
		return err
	}
	t.rounds = rm
	t.lastResult = nil
	t.handID = uuid.NewString()
	t.handStart = now
	cfg := t.engine.Config()
	t.handSpec = replay.HandSpec{
		Players:        cfg.Players,
		StartingStack:  cfg.StartingStack,
		Stacks:         startStacks,
		SmallBlind:     cfg.SmallBlind,
		BigBlind:       cfg.BigBlind,
		DealerPosition: t.engine.DealerPosition(),
		ClientSeed:     t.engine.ClientSeed(),
		CommittedHash:  t.engine.ServerSeedHash(),
		Actions:        make([]replay.ActionSpec, 0, 16),
	}
	t.logger.Info("hand dealt",
		zap.String("hand_id", t.handID),
		zap.Int("hand", t.engine.HandNumber()),
		zap.Int("dealer", t.engine.DealerPosition()))

	t.afterChangeLocked(now)
	return nil
}

func (t *Table) handleAction(action holdem.GameAction, allIn bool) error {
	rm := t.rounds
	if rm == nil || rm.IsHandComplete() {
		return ErrNoHandPlaying
	}
	if t.engine.Roster().ByID(action.PlayerID) == nil {
		return ErrUnknownPlayer
	}
	cur := rm.CurrentPlayer()
	if cur == nil || cur.ID != action.PlayerID {
		return ErrNotYourTurn
	}

	round := rm.Round()
	rec := replay.ActionSpec{Round: round.String(), PlayerID: action.PlayerID}
	var ok bool
	if allIn {
		amount := cur.Stack()
		ok = rm.HandleAllIn(action.PlayerID, amount)
		rec.Type, rec.Amount = "ALL_IN", amount
	} else {
		ok = rm.HandleAction(action)
		rec.Type, rec.Amount = action.Type.String(), action.Amount
	}
	if !ok {
		return fmt.Errorf("%w: %s %d", ErrIllegalAction, rec.Type, rec.Amount)
	}
	t.handSpec.Actions = append(t.handSpec.Actions, rec)
	t.logger.Debug("action",
		zap.String("hand_id", t.handID),
		zap.String("player", action.PlayerID),
		zap.String("type", rec.Type),
		zap.Int64("amount", rec.Amount),
		zap.Stringer("round", round))

	t.afterChangeLocked(time.Now())
	return nil
}

// afterChangeLocked advances finished streets, settles a finished hand or
// arms the timer for the next player to act.
func (t *Table) afterChangeLocked(now time.Time) {
	defer t.notifyChangeLocked()
	rm := t.rounds
	for !rm.IsHandComplete() && rm.IsRoundComplete() && rm.Round() != holdem.RoundRiver {
		rm.AdvanceRound()
	}
	if rm.IsHandComplete() {
		t.actionDeadline = time.Time{}
		t.handleHandEnd(now)
		return
	}

	cur := rm.CurrentPlayer()
	if cur == nil {
		return
	}
	t.turnSeq++
	t.actionDeadline = now.Add(t.cfg.ActionTimeout)
	if t.bots != nil && t.bots.IsNPC(cur.ID) {
		t.scheduleBotAction(cur.ID)
	}
}

func (t *Table) tick(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	if err := t.handleTimeout(now); err != nil {
		t.logger.Warn("timeout handler failed", zap.Error(err))
	}
	if !t.nextHandAt.IsZero() && !now.Before(t.nextHandAt) {
		if err := t.handleStartHand(now); err != nil {
			t.nextHandAt = time.Time{}
			t.logger.Info("auto start stopped", zap.Error(err))
		}
	}
}

func (t *Table) handleTimeout(now time.Time) error {
	if t.actionDeadline.IsZero() || now.Before(t.actionDeadline) {
		return nil
	}
	t.actionDeadline = time.Time{}
	if t.rounds == nil {
		return nil
	}
	cur := t.rounds.CurrentPlayer()
	if cur == nil {
		return nil
	}
	action := pickTimeoutAction(cur.ID, t.rounds.LegalActions(cur.ID))
	t.logger.Info("action timeout",
		zap.String("hand_id", t.handID),
		zap.String("player", cur.ID),
		zap.Stringer("auto", action.Type))
	return t.handleAction(action, false)
}

// pickTimeoutAction checks when free, folds otherwise.
func pickTimeoutAction(playerID string, legal []holdem.LegalAction) holdem.GameAction {
	for _, la := range legal {
		if la.Type == holdem.PlayerActionTypeCheck {
			return holdem.GameAction{Type: holdem.PlayerActionTypeCheck, PlayerID: playerID}
		}
	}
	return holdem.GameAction{Type: holdem.PlayerActionTypeFold, PlayerID: playerID}
}

// scheduleBotAction asks the bot's brain now and injects the decision back into
// the actor queue after the persona's think delay.
func (t *Table) scheduleBotAction(playerID string) {
	decision := t.bots.OnTurn(playerID, t.engine.GameState(), t.rounds.CurrentState(), t.rounds.LegalActions(playerID))
	action := decision.GameAction(playerID)
	seq := t.turnSeq
	delay := t.bots.GetThinkDelay(playerID)
	if t.cfg.InstantBots {
		delay = 0
	}

	go func() {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-t.done:
				return
			}
		}
		if err := t.submit(event{typ: eventAction, action: action, turnSeq: seq}); err != nil && !errors.Is(err, ErrTableClosed) {
			t.logger.Warn("bot action rejected", zap.String("player", playerID), zap.Error(err))
		}
	}()
}

// SeatBot hands playerID's seat to a bot persona; an empty personaID picks one at random.
func (t *Table) SeatBot(playerID, personaID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bots == nil {
		return fmt.Errorf("bot manager not available")
	}
	if t.engine.Roster().ByID(playerID) == nil {
		return ErrUnknownPlayer
	}
	if personaID == "" {
		if t.bots.SpawnRandom(playerID) == nil {
			return fmt.Errorf("no personas registered")
		}
		return nil
	}
	persona := t.bots.Registry().Get(personaID)
	if persona == nil {
		return fmt.Errorf("unknown persona %q", personaID)
	}
	t.bots.Spawn(playerID, persona)
	return nil
}

// AddHandEndHook registers a callback run after each settled hand.
func (t *Table) AddHandEndHook(hook HandEndHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handEndHooks = append(t.handEndHooks, hook)
}

func (t *Table) dispatchHandEndHooks(info HandEndInfo) {
	hooks := append([]HandEndHook(nil), t.handEndHooks...)
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		go func(cb HandEndHook) {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Error("hand end hook panic", zap.Any("panic", r))
				}
			}()
			cb(info)
		}(hook)
	}
}

// AddChangeHook registers a callback run after every state change: deals,
// actions, timeouts and settlements.
func (t *Table) AddChangeHook(hook func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.changeHooks = append(t.changeHooks, hook)
}

func (t *Table) notifyChangeLocked() {
	for _, hook := range t.changeHooks {
		go hook()
	}
}

func (t *Table) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}
