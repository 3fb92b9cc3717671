package session

import (
	"fmt"
	"time"

	"github.com/dnextcom/overcooked-clone/client/world"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/jonboulle/clockwork"
)

const (
	// PositionThrottle bounds position proposals to ~10/s regardless of the
	// local frame rate.
	PositionThrottle = 100 * time.Millisecond
	// movementThresholdSq is the squared planar displacement below which a
	// position on its own is not worth reporting.
	movementThresholdSq = 0.001
)

// MessageSender sends a typed payload to the server.
type MessageSender interface {
	SendMessage(messageType string, payload interface{}) error
}

// ActionForwarder observes locally-predicted state transitions and proposes
// them to the server. Position reports are throttled; discrete actions are
// forwarded immediately.
type ActionForwarder struct {
	sender MessageSender
	world  world.World
	clock  clockwork.Clock

	lastSentAt   time.Time
	lastPosition types.Position
	lastHeldKind string
	sentAny      bool
	// followUpPending forces an unthrottled position report on the next
	// update, closing the window where a snapshot can show the pre-action
	// held item on other clients.
	followUpPending bool
}

type NewActionForwarderOptions struct {
	Sender MessageSender
	World  world.World
	Clock  clockwork.Clock
}

func NewActionForwarder(opts NewActionForwarderOptions) *ActionForwarder {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ActionForwarder{
		sender: opts.Sender,
		world:  opts.World,
		clock:  clock,
	}
}

// Update runs once per frame after local prediction. It emits a position
// proposal when the throttle allows and the position or held item changed,
// or unconditionally when a follow-up is pending after an action.
func (f *ActionForwarder) Update() error {
	position := f.world.LocalPosition()
	heldKind := heldItemKind(f.world.LocalHeldItem())

	if f.followUpPending {
		f.followUpPending = false
		return f.sendPosition(position, heldKind)
	}

	if f.sentAny && f.clock.Since(f.lastSentAt) < PositionThrottle {
		return nil
	}

	dx := position.X - f.lastPosition.X
	dz := position.Z - f.lastPosition.Z
	moved := dx*dx+dz*dz > movementThresholdSq
	heldChanged := heldKind != f.lastHeldKind

	if f.sentAny && !moved && !heldChanged {
		return nil
	}

	return f.sendPosition(position, heldKind)
}

func (f *ActionForwarder) sendPosition(position types.Position, heldKind string) error {
	err := f.sender.SendMessage(messages.MessageTypeClientPosition, &messages.ClientPosition{
		X:        position.X,
		Y:        position.Y,
		Z:        position.Z,
		HeldItem: f.world.LocalHeldItem().Copy(),
	})
	if err != nil {
		return fmt.Errorf("failed to send position: %v", err)
	}
	f.lastSentAt = f.clock.Now()
	f.lastPosition = position
	f.lastHeldKind = heldKind
	f.sentAny = true
	return nil
}

// ForwardInteract proposes a discrete interaction on a station, followed by a
// content claim with the station's post-action state. The next Update sends an
// unthrottled position report.
func (f *ActionForwarder) ForwardInteract(stationID string) error {
	if err := f.sender.SendMessage(messages.MessageTypeClientInteract, &messages.ClientInteract{
		StationID: stationID,
	}); err != nil {
		return fmt.Errorf("failed to send interact: %v", err)
	}
	f.followUpPending = true
	return f.forwardStationContent(stationID)
}

// ForwardWork proposes a discrete work action (e.g. chopping) on a station,
// followed by a content claim, same as ForwardInteract.
func (f *ActionForwarder) ForwardWork(stationID string) error {
	if err := f.sender.SendMessage(messages.MessageTypeClientWork, &messages.ClientWork{
		StationID: stationID,
	}); err != nil {
		return fmt.Errorf("failed to send work: %v", err)
	}
	f.followUpPending = true
	return f.forwardStationContent(stationID)
}

func (f *ActionForwarder) forwardStationContent(stationID string) error {
	station := f.world.Station(stationID)
	if station == nil {
		return fmt.Errorf("unknown station %s", stationID)
	}
	err := f.sender.SendMessage(messages.MessageTypeStationUpdate, &messages.ClientStationUpdate{
		ID: stationID,
		State: types.StationState{
			HeldItem: station.Item.Copy(),
			Progress: station.Progress,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send station update: %v", err)
	}
	return nil
}

// ForwardOrderComplete proposes a goal completion. Score is the absolute
// post-delivery total, matching the server's overwrite semantics.
func (f *ActionForwarder) ForwardOrderComplete(orderID string, score int) error {
	err := f.sender.SendMessage(messages.MessageTypeClientOrderComplete, &messages.ClientOrderComplete{
		OrderID: orderID,
		Score:   score,
	})
	if err != nil {
		return fmt.Errorf("failed to send order complete: %v", err)
	}
	return nil
}

// ForwardPlayerInfo reports the appearance descriptor, sent once near connect.
func (f *ActionForwarder) ForwardPlayerInfo(colors map[string]uint32) error {
	err := f.sender.SendMessage(messages.MessageTypeClientPlayerInfo, &messages.ClientPlayerInfo{
		Colors: colors,
	})
	if err != nil {
		return fmt.Errorf("failed to send player info: %v", err)
	}
	return nil
}

func heldItemKind(item *types.Item) string {
	if item == nil {
		return ""
	}
	return item.Kind
}
