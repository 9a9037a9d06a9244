package npc

import (
	"math/rand"
	"sync"
	"time"

	"holdem-fair/holdem"

	"go.uber.org/zap"
)

// NPCInstance represents an NPC occupying a seat.
type NPCInstance struct {
	PlayerID   string
	Persona    *Persona
	Brain      BrainDecider
	ThinkDelay time.Duration
}

// Manager manages NPC lifecycle and decision-making at a table.
type Manager struct {
	registry  *PersonaRegistry
	instances map[string]*NPCInstance // keyed by player ID
	mu        sync.RWMutex
	rng       *rand.Rand
	logger    *zap.Logger
}

// NewManager creates an NPC manager. seed drives brain seeds and think delays.
func NewManager(registry *PersonaRegistry, seed int64, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		registry:  registry,
		instances: make(map[string]*NPCInstance),
		rng:       rand.New(rand.NewSource(seed)),
		logger:    logger.Named("npc"),
	}
}

// Registry returns the underlying PersonaRegistry.
func (m *Manager) Registry() *PersonaRegistry {
	return m.registry
}

// Spawn puts persona in charge of playerID's seat.
func (m *Manager) Spawn(playerID string, persona *Persona) *NPCInstance {
	m.mu.Lock()
	seed := m.rng.Int63()
	// Think delay: 1–3 seconds base, plus random jitter.
	baseMs := 1000 + int(persona.Brain.Randomness*2000)
	jitterMs := m.rng.Intn(1000)
	inst := &NPCInstance{
		PlayerID:   playerID,
		Persona:    persona,
		Brain:      NewRuleBrain(persona, seed),
		ThinkDelay: time.Duration(baseMs+jitterMs) * time.Millisecond,
	}
	m.instances[playerID] = inst
	m.mu.Unlock()

	m.logger.Info("npc spawned", zap.String("persona", persona.Name), zap.String("player", playerID))
	return inst
}

// SpawnRandom seats a random registered persona at playerID. It returns nil
// when the registry is empty.
func (m *Manager) SpawnRandom(playerID string) *NPCInstance {
	all := m.registry.All()
	if len(all) == 0 {
		return nil
	}
	m.mu.Lock()
	persona := all[m.rng.Intn(len(all))]
	m.mu.Unlock()
	return m.Spawn(playerID, persona)
}

// OnTurn builds the NPC's view of the hand and asks its brain for a decision.
func (m *Manager) OnTurn(playerID string, gs holdem.GameState, bs holdem.BettingState, legal []holdem.LegalAction) Decision {
	inst := m.GetInstance(playerID)
	if inst == nil {
		m.logger.Warn("turn for unknown npc", zap.String("player", playerID))
		return Decision{Action: holdem.PlayerActionTypeFold}
	}

	view := BuildGameView(playerID, gs, bs, legal)
	decision := inst.Brain.Decide(view)
	m.logger.Debug("npc decided",
		zap.String("persona", inst.Persona.Name),
		zap.Stringer("action", decision.Action),
		zap.Int64("amount", decision.Amount))
	return decision
}

// GetInstance returns the NPC instance for a given player ID, or nil.
func (m *Manager) GetInstance(playerID string) *NPCInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[playerID]
}

// IsNPC checks if a player ID belongs to an NPC.
func (m *Manager) IsNPC(playerID string) bool {
	return m.GetInstance(playerID) != nil
}

// Despawn removes an NPC from tracking.
func (m *Manager) Despawn(playerID string) {
	m.mu.Lock()
	inst := m.instances[playerID]
	delete(m.instances, playerID)
	m.mu.Unlock()

	if inst != nil {
		m.logger.Info("npc despawned", zap.String("persona", inst.Persona.Name), zap.String("player", playerID))
	}
}

// GetThinkDelay returns the simulated thinking delay for an NPC.
func (m *Manager) GetThinkDelay(playerID string) time.Duration {
	if inst := m.GetInstance(playerID); inst != nil {
		return inst.ThinkDelay
	}
	return time.Second
}

// BuildGameView projects the engine and betting snapshots onto what playerID may see.
func BuildGameView(playerID string, gs holdem.GameState, bs holdem.BettingState, legal []holdem.LegalAction) GameView {
	seen := gs.ViewFor(playerID, bs.Round)
	view := GameView{
		Round:        bs.Round,
		Community:    seen.CommunityCards,
		Pot:          bs.Pot,
		CurrentBet:   bs.CurrentBet,
		MinRaise:     bs.MinRaise,
		LegalActions: legal,
	}

	players := bs.Players
	if len(players) == 0 {
		players = seen.Players
	}
	for _, p := range players {
		if p.InHand() {
			view.ActiveCount++
		}
		if p.ID == playerID {
			view.MyBet = p.Bet()
			view.MyStack = p.Stack()
			view.IsDealer = p.IsDealer
		}
	}
	if me, ok := seen.Player(playerID); ok {
		view.HoleCards = me.HoleCards()
	}
	return view
}
