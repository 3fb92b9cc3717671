package world

import (
	"sort"

	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/log"
)

// interpolationRate controls how quickly a remote proxy closes the gap to its
// target per second. High enough to track 10 updates/s without visible lag.
const interpolationRate = 10.0

// HeadlessWorld implements World without any rendering. It backs the bot
// client and the sync layer's tests.
type HeadlessWorld struct {
	localPosition types.Position
	localHeldItem *types.Item
	remotePlayers map[string]*RemotePlayer
	stations      map[string]*Station
	interactions  []string
}

func NewHeadlessWorld(stationIDs []string) *HeadlessWorld {
	stations := make(map[string]*Station, len(stationIDs))
	for _, id := range stationIDs {
		stations[id] = &Station{ID: id}
	}
	return &HeadlessWorld{
		remotePlayers: make(map[string]*RemotePlayer),
		stations:      stations,
	}
}

func (w *HeadlessWorld) LocalPosition() types.Position {
	return w.localPosition
}

func (w *HeadlessWorld) LocalHeldItem() *types.Item {
	return w.localHeldItem
}

// SetLocalPosition stands in for the movement prediction step.
func (w *HeadlessWorld) SetLocalPosition(position types.Position) {
	w.localPosition = position
}

// SetLocalHeldItem stands in for local pickup/drop resolution.
func (w *HeadlessWorld) SetLocalHeldItem(item *types.Item) {
	w.localHeldItem = item
}

func (w *HeadlessWorld) ApplyRemotePlayer(id string, state *types.PlayerState) {
	proxy, ok := w.remotePlayers[id]
	if !ok {
		proxy = &RemotePlayer{
			ID:       id,
			Position: state.Position,
		}
		w.remotePlayers[id] = proxy
	}
	proxy.Target = state.Position
	proxy.HeldItem = state.HeldItem.Copy()
	proxy.Colors = state.Colors
}

func (w *HeadlessWorld) RemoveRemotePlayer(id string) {
	delete(w.remotePlayers, id)
}

func (w *HeadlessWorld) RemotePlayerIDs() []string {
	ids := make([]string, 0, len(w.remotePlayers))
	for id := range w.remotePlayers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RemotePlayer returns the proxy for the given id, nil if absent.
func (w *HeadlessWorld) RemotePlayer(id string) *RemotePlayer {
	return w.remotePlayers[id]
}

func (w *HeadlessWorld) Station(id string) *Station {
	return w.stations[id]
}

func (w *HeadlessWorld) PlayInteraction(playerID string, stationID string) {
	log.Trace("Player %s acted on station %s", playerID, stationID)
	w.interactions = append(w.interactions, playerID+":"+stationID)
}

// Interactions returns the replayed actions in arrival order.
func (w *HeadlessWorld) Interactions() []string {
	return w.interactions
}

// Update advances remote-proxy interpolation by dt seconds. Runs every frame
// regardless of message arrival.
func (w *HeadlessWorld) Update(dt float64) {
	factor := interpolationRate * dt
	if factor > 1 {
		factor = 1
	}
	for _, proxy := range w.remotePlayers {
		proxy.Position.X += (proxy.Target.X - proxy.Position.X) * factor
		proxy.Position.Y += (proxy.Target.Y - proxy.Position.Y) * factor
		proxy.Position.Z += (proxy.Target.Z - proxy.Position.Z) * factor
	}
}
