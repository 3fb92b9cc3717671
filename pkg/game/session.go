package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dnextcom/overcooked-clone/pkg/game/orders"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/dnextcom/overcooked-clone/pkg/workers"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultTickInterval = time.Second
	// DefaultSpawnIntervalTicks is the number of ticks between order spawns.
	DefaultSpawnIntervalTicks = 8
	DefaultMaxOrders          = 5
	DefaultGameTime           = 120.0
)

// SessionManager owns the authoritative session state. All mutation happens
// under one mutex: message handlers run short read-validate-mutate sections,
// and the tick loop is a second producer under the same discipline. Outbound
// I/O goes through the broadcast channel, never inside the critical section.
type SessionManager struct {
	mu            sync.Mutex
	state         *types.SessionState
	stationIDs    []string
	clock         clockwork.Clock
	tickInterval  time.Duration
	spawnInterval int
	maxOrders     int
	spawnTimer    int
	broadcastChan chan<- workers.BroadcastMessage
}

// NewSessionManagerOptions contains options for creating a new SessionManager.
type NewSessionManagerOptions struct {
	State         *types.SessionState
	StationIDs    []string
	Clock         clockwork.Clock
	TickInterval  time.Duration
	SpawnInterval int
	MaxOrders     int
	BroadcastChan chan<- workers.BroadcastMessage
}

func NewSessionManager(opts NewSessionManagerOptions) *SessionManager {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	tickInterval := opts.TickInterval
	if tickInterval == 0 {
		tickInterval = DefaultTickInterval
	}
	spawnInterval := opts.SpawnInterval
	if spawnInterval == 0 {
		spawnInterval = DefaultSpawnIntervalTicks
	}
	maxOrders := opts.MaxOrders
	if maxOrders == 0 {
		maxOrders = DefaultMaxOrders
	}
	return &SessionManager{
		state:         opts.State,
		stationIDs:    opts.StationIDs,
		clock:         clock,
		tickInterval:  tickInterval,
		spawnInterval: spawnInterval,
		maxOrders:     maxOrders,
		broadcastChan: opts.BroadcastChan,
	}
}

// Start runs the session loop until the context is canceled.
func (sm *SessionManager) Start(ctx context.Context) error {
	ticker := sm.clock.NewTicker(sm.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			sm.tick()
		}
	}
}

// tick runs one iteration of the session loop: age the timer, age and expire
// orders, spawn new ones, rebroadcast the snapshot. The guard checks
// participant count and the timer directly; there is no stored phase.
func (sm *SessionManager) tick() {
	sm.mu.Lock()
	if len(sm.state.Players) == 0 || sm.state.GameTime <= 0 {
		sm.mu.Unlock()
		return
	}

	dt := sm.tickInterval.Seconds()
	sm.state.GameTime -= dt
	if sm.state.GameTime < 0 {
		sm.state.GameTime = 0
	}

	// Expiry applies no score change here. The client-local order book
	// penalizes expiry, but that path is inert in networked play; the
	// asymmetry is a documented protocol property, not an oversight.
	remaining := sm.state.Orders[:0]
	for _, order := range sm.state.Orders {
		order.RemainingTime -= dt
		if order.RemainingTime <= 0 {
			log.Debug("Order %s expired", order.ID)
			continue
		}
		remaining = append(remaining, order)
	}
	sm.state.Orders = remaining

	sm.spawnTimer++
	if sm.spawnTimer >= sm.spawnInterval {
		sm.spawnTimer = 0
		if len(sm.state.Orders) < sm.maxOrders {
			order := orders.RandomOrder()
			sm.state.Orders = append(sm.state.Orders, order)
			log.Debug("New order %s: %s", order.ID, order.RecipeType)
		}
	}

	snapshot := sm.snapshotLocked()
	sm.mu.Unlock()

	sm.broadcastState(snapshot)
}

// HandleConnect adds a participant with default state, sends it the welcome
// message with its assigned id, and rebroadcasts the snapshot.
func (sm *SessionManager) HandleConnect(clientID string) {
	sm.mu.Lock()
	sm.state.AddPlayer(clientID, types.NewPlayerState())
	snapshot := sm.snapshotLocked()
	sm.mu.Unlock()

	log.Info("Player connected: %s", clientID)

	sm.send(workers.BroadcastMessage{
		Type: messages.MessageTypeServerConnected,
		Message: &messages.ServerConnected{
			ClientID: clientID,
			Stations: sm.stationIDs,
		},
		TargetClientID: clientID,
	})
	sm.broadcastState(snapshot)
}

// HandleDisconnect removes the participant and rebroadcasts the snapshot.
func (sm *SessionManager) HandleDisconnect(clientID string) {
	sm.mu.Lock()
	sm.state.RemovePlayer(clientID)
	snapshot := sm.snapshotLocked()
	sm.mu.Unlock()

	log.Info("Player disconnected: %s", clientID)

	sm.broadcastState(snapshot)
}

// HandleMessage dispatches one client message. Invalid payloads and unknown
// ids are dropped without a reply; the protocol has no negative
// acknowledgements.
func (sm *SessionManager) HandleMessage(clientID string, msg *messages.Message) {
	switch msg.Type {
	case messages.MessageTypeClientPosition:
		position := &messages.ClientPosition{}
		if err := json.Unmarshal(msg.Payload, position); err != nil {
			log.Error("Failed to unmarshal position message: %v", err)
			return
		}
		sm.handlePosition(clientID, position)
	case messages.MessageTypeClientInteract:
		interact := &messages.ClientInteract{}
		if err := json.Unmarshal(msg.Payload, interact); err != nil {
			log.Error("Failed to unmarshal interact message: %v", err)
			return
		}
		sm.handleInteraction(clientID, interact.StationID)
	case messages.MessageTypeClientWork:
		work := &messages.ClientWork{}
		if err := json.Unmarshal(msg.Payload, work); err != nil {
			log.Error("Failed to unmarshal work message: %v", err)
			return
		}
		sm.handleInteraction(clientID, work.StationID)
	case messages.MessageTypeStationUpdate:
		update := &messages.ClientStationUpdate{}
		if err := json.Unmarshal(msg.Payload, update); err != nil {
			log.Error("Failed to unmarshal station update message: %v", err)
			return
		}
		sm.handleStationUpdate(clientID, update)
	case messages.MessageTypeClientOrderComplete:
		complete := &messages.ClientOrderComplete{}
		if err := json.Unmarshal(msg.Payload, complete); err != nil {
			log.Error("Failed to unmarshal order complete message: %v", err)
			return
		}
		sm.handleOrderComplete(clientID, complete)
	case messages.MessageTypeClientPlayerInfo:
		info := &messages.ClientPlayerInfo{}
		if err := json.Unmarshal(msg.Payload, info); err != nil {
			log.Error("Failed to unmarshal player info message: %v", err)
			return
		}
		sm.handlePlayerInfo(clientID, info)
	default:
		log.Error("Unhandled message type: %s", msg.Type)
	}
}

// handlePosition applies a position + held-item report. The client is
// authoritative for its own position.
func (sm *SessionManager) handlePosition(clientID string, position *messages.ClientPosition) {
	sm.mu.Lock()
	player, ok := sm.state.Players[clientID]
	if !ok {
		sm.mu.Unlock()
		log.Warn("Client %s is not in the session state", clientID)
		return
	}
	player.Position = types.Position{X: position.X, Y: position.Y, Z: position.Z}
	player.HeldItem = position.HeldItem.Copy()
	snapshot := sm.snapshotLocked()
	sm.mu.Unlock()

	sm.broadcastState(snapshot)
}

func (sm *SessionManager) handlePlayerInfo(clientID string, info *messages.ClientPlayerInfo) {
	sm.mu.Lock()
	player, ok := sm.state.Players[clientID]
	if !ok {
		sm.mu.Unlock()
		log.Warn("Client %s is not in the session state", clientID)
		return
	}
	player.Colors = info.Colors
	snapshot := sm.snapshotLocked()
	sm.mu.Unlock()

	sm.broadcastState(snapshot)
}

// handleInteraction relays an interact or work claim to the other
// participants. It carries no outcome, purely a replay signal.
func (sm *SessionManager) handleInteraction(clientID string, stationID string) {
	sm.mu.Lock()
	_, ok := sm.state.Stations[stationID]
	sm.mu.Unlock()
	if !ok {
		log.Debug("Interaction on unknown station %s from %s", stationID, clientID)
		return
	}

	sm.send(workers.BroadcastMessage{
		Type: messages.MessageTypeServerInteraction,
		Message: &messages.ServerInteraction{
			PlayerID:  clientID,
			StationID: stationID,
		},
		ExcludeClientID: clientID,
	})
}

// handleStationUpdate overwrites the station's shared content with the acting
// client's claim and replicates it to the other participants. The claim is
// trusted verbatim; there is no server-side rule re-validation.
func (sm *SessionManager) handleStationUpdate(clientID string, update *messages.ClientStationUpdate) {
	sm.mu.Lock()
	station, ok := sm.state.Stations[update.ID]
	if !ok {
		sm.mu.Unlock()
		log.Debug("Station update for unknown station %s from %s", update.ID, clientID)
		return
	}
	station.HeldItem = update.State.HeldItem.Copy()
	station.Progress = update.State.Progress
	snapshot := sm.snapshotLocked()
	sm.mu.Unlock()

	sm.send(workers.BroadcastMessage{
		Type: messages.MessageTypeStationUpdate,
		Message: &messages.ServerStationUpdate{
			ID:    update.ID,
			State: update.State,
		},
		ExcludeClientID: clientID,
	})
	sm.broadcastState(snapshot)
}

// handleOrderComplete applies a goal-completion claim. Acceptance is keyed on
// order existence, which makes duplicate claims no-ops, and the claimed score
// is an absolute total that overwrites the authoritative score. A claim for
// an order that is already gone is silently ignored.
func (sm *SessionManager) handleOrderComplete(clientID string, complete *messages.ClientOrderComplete) {
	sm.mu.Lock()
	if sm.state.FindOrder(complete.OrderID) == nil {
		sm.mu.Unlock()
		log.Debug("Stale order complete claim for %s from %s", complete.OrderID, clientID)
		return
	}
	sm.state.Score = complete.Score
	sm.state.RemoveOrder(complete.OrderID)
	snapshot := sm.snapshotLocked()
	sm.mu.Unlock()

	log.Info("Order %s completed by %s, score is now %d", complete.OrderID, clientID, complete.Score)

	sm.broadcastState(snapshot)
}

// StateSnapshot returns a deep copy of the current session state.
func (sm *SessionManager) StateSnapshot() *types.SessionState {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.snapshotLocked()
}

// snapshotLocked stamps and deep-copies the state. Callers must hold mu.
func (sm *SessionManager) snapshotLocked() *types.SessionState {
	sm.state.Timestamp = sm.clock.Now().UnixMilli()
	return sm.state.Copy()
}

func (sm *SessionManager) broadcastState(snapshot *types.SessionState) {
	sm.send(workers.BroadcastMessage{
		Type:    messages.MessageTypeServerStateSync,
		Message: snapshot,
	})
}

// send queues a broadcast without blocking the caller. The channel is
// generously buffered; a full channel means the writer is gone, so dropping
// is preferable to stalling a handler.
func (sm *SessionManager) send(msg workers.BroadcastMessage) {
	select {
	case sm.broadcastChan <- msg:
	default:
		log.Warn("Broadcast channel full, dropping %s message", msg.Type)
	}
}
