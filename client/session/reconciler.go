package session

import (
	"encoding/json"
	"fmt"

	"github.com/dnextcom/overcooked-clone/client/world"
	"github.com/dnextcom/overcooked-clone/pkg/game/orders"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/dnextcom/overcooked-clone/pkg/queue"
)

// Reconciler merges inbound authoritative state into the locally predicted
// world. The server is sole authority for score, timer, and orders; remote
// positions become interpolation targets, never snaps.
type Reconciler struct {
	localClientID string
	world         world.World
	orderBook     *orders.OrderBook
	gameTime      float64
}

type NewReconcilerOptions struct {
	LocalClientID string
	World         world.World
	OrderBook     *orders.OrderBook
}

func NewReconciler(opts NewReconcilerOptions) *Reconciler {
	// the server owns the order lifecycle from here on
	opts.OrderBook.DisableSpawning = true
	return &Reconciler{
		localClientID: opts.LocalClientID,
		world:         opts.World,
		orderBook:     opts.OrderBook,
	}
}

// GameTime returns the last authoritative countdown value.
func (r *Reconciler) GameTime() float64 {
	return r.gameTime
}

// ProcessMessages drains the server message queue and applies each message.
// Called at the start of the frame so a snapshot never observes a
// half-updated local frame.
func (r *Reconciler) ProcessMessages(messageQueue queue.Queue) error {
	pending, err := messageQueue.ReadAllMessages()
	if err != nil {
		return fmt.Errorf("failed to read server messages: %v", err)
	}
	for _, item := range pending {
		msg, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast queue item to message")
			continue
		}
		if err := r.applyMessage(msg); err != nil {
			log.Error("Failed to apply %s message: %v", msg.Type, err)
		}
	}
	return nil
}

func (r *Reconciler) applyMessage(msg *messages.Message) error {
	switch msg.Type {
	case messages.MessageTypeServerStateSync:
		state := &types.SessionState{}
		if err := json.Unmarshal(msg.Payload, state); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %v", err)
		}
		r.ApplyStateSync(state)
	case messages.MessageTypeServerInteraction:
		event := &messages.ServerInteraction{}
		if err := json.Unmarshal(msg.Payload, event); err != nil {
			return fmt.Errorf("failed to unmarshal interaction: %v", err)
		}
		r.ApplyInteraction(event)
	case messages.MessageTypeStationUpdate:
		update := &messages.ServerStationUpdate{}
		if err := json.Unmarshal(msg.Payload, update); err != nil {
			return fmt.Errorf("failed to unmarshal station update: %v", err)
		}
		r.ApplyStationUpdate(update)
	default:
		return fmt.Errorf("unexpected message type: %s", msg.Type)
	}
	return nil
}

// ApplyStateSync applies an authoritative snapshot: remote proxies are
// retargeted or created, departed participants are pruned, and score, timer,
// and orders are overwritten unconditionally.
func (r *Reconciler) ApplyStateSync(state *types.SessionState) {
	for id, player := range state.Players {
		if id == r.localClientID {
			continue
		}
		r.world.ApplyRemotePlayer(id, player)
	}
	for _, id := range r.world.RemotePlayerIDs() {
		if _, ok := state.Players[id]; !ok {
			log.Debug("Removing departed player %s", id)
			r.world.RemoveRemotePlayer(id)
		}
	}

	r.orderBook.Score = state.Score
	r.orderBook.Orders = state.Orders
	r.gameTime = state.GameTime
}

// ApplyInteraction replays another participant's action. The server excludes
// the sender from this broadcast, so a local id here means a routing bug and
// is skipped rather than replayed.
func (r *Reconciler) ApplyInteraction(event *messages.ServerInteraction) {
	if event.PlayerID == r.localClientID {
		return
	}
	r.world.PlayInteraction(event.PlayerID, event.StationID)
}

// ApplyStationUpdate resolves a station content claim against the local
// station by kind-equality: empty clears, same kind merges only the
// ingredient list so the visual object survives, different kind replaces.
func (r *Reconciler) ApplyStationUpdate(update *messages.ServerStationUpdate) {
	station := r.world.Station(update.ID)
	if station == nil {
		log.Debug("Station update for unknown station %s", update.ID)
		return
	}

	incoming := update.State.HeldItem
	switch {
	case incoming == nil:
		station.Item = nil
	case station.Item != nil && station.Item.SameKind(incoming):
		station.Item.Ingredients = append(station.Item.Ingredients[:0], incoming.Ingredients...)
	default:
		station.Item = incoming.Copy()
	}
	station.Progress = update.State.Progress
}
