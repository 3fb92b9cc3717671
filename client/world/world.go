package world

import (
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
)

// Station is the local representation of a shared station. Item is the
// station's content; the sync layer mutates it in place when only the
// ingredient list changes so the visual object survives the update.
type Station struct {
	ID       string
	Item     *types.Item
	Progress float64
}

// RemotePlayer is the visual proxy for another participant. Position is never
// snapped to the snapshot value; Target is what the per-frame interpolation
// moves toward.
type RemotePlayer struct {
	ID       string
	Position types.Position
	Target   types.Position
	HeldItem *types.Item
	Colors   map[string]uint32
}

// World is the surface the sync layer consumes from the rendering and physics
// layer. Implementations own the visuals; the sync layer only feeds them data.
type World interface {
	// LocalPosition returns the locally predicted position of this client's
	// own character.
	LocalPosition() types.Position
	// LocalHeldItem returns this client's held item, nil when empty-handed.
	LocalHeldItem() *types.Item
	// ApplyRemotePlayer updates (or creates, if unseen) the proxy for another
	// participant, retargeting its interpolation.
	ApplyRemotePlayer(id string, state *types.PlayerState)
	// RemoveRemotePlayer destroys the proxy for a departed participant.
	RemoveRemotePlayer(id string)
	// RemotePlayerIDs lists the proxies currently present.
	RemotePlayerIDs() []string
	// Station returns the local station with the given id, nil if unknown.
	Station(id string) *Station
	// PlayInteraction replays another participant's action on a station.
	PlayInteraction(playerID string, stationID string)
}
