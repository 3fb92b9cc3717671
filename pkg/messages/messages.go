package messages

import (
	"encoding/json"

	"github.com/dnextcom/overcooked-clone/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 4096
)

// Message types. Client action types match the playerAction vocabulary;
// stationUpdate travels in both directions under the same name.
const (
	MessageTypeClientPosition      = "position"
	MessageTypeClientInteract      = "interact"
	MessageTypeClientWork          = "work"
	MessageTypeClientOrderComplete = "orderComplete"
	MessageTypeClientPlayerInfo    = "playerInfo"
	MessageTypeStationUpdate       = "stationUpdate"
	MessageTypeServerConnected     = "connected"
	MessageTypeServerStateSync     = "stateSync"
	MessageTypeServerInteraction   = "interaction"
)

// ServerClientID is the ClientID used on messages originating from the server.
const ServerClientID = ""

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID string          `json:"clientID"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// ClientPosition is a throttled position + held-item report.
// The client is authoritative for its own position.
type ClientPosition struct {
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Z        float64     `json:"z"`
	HeldItem *types.Item `json:"heldItem"`
}

// ClientInteract is a discrete interaction claim against a station.
type ClientInteract struct {
	StationID string `json:"stationId"`
}

// ClientWork is a discrete work claim (e.g. chopping) against a station.
type ClientWork struct {
	StationID string `json:"stationId"`
}

// ClientStationUpdate is a station content claim: the acting client reports
// the station's resulting content after a local interaction resolved.
type ClientStationUpdate struct {
	ID    string             `json:"id"`
	State types.StationState `json:"state"`
}

// ClientOrderComplete is a goal-completion claim. Score is the absolute
// post-delivery total, not a delta; the server overwrites with it.
type ClientOrderComplete struct {
	OrderID string `json:"orderId"`
	Score   int    `json:"score"`
}

// ClientPlayerInfo carries the appearance descriptor, sent once near connect.
type ClientPlayerInfo struct {
	Colors map[string]uint32 `json:"colors"`
}

// ServerConnected is the welcome message assigning the connection id.
type ServerConnected struct {
	ClientID string   `json:"clientId"`
	Stations []string `json:"stations"`
}

// ServerInteraction is a replay signal broadcast to participants other than
// the actor. It carries no outcome.
type ServerInteraction struct {
	PlayerID  string `json:"playerId"`
	StationID string `json:"stationId"`
}

// ServerStationUpdate replicates a station content claim to other clients.
type ServerStationUpdate struct {
	ID    string             `json:"id"`
	State types.StationState `json:"state"`
}
