package session

import (
	"testing"
	"time"

	"github.com/dnextcom/overcooked-clone/client/world"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	messageType string
	payload     interface{}
}

type fakeSender struct {
	sent []sentMessage
}

func (s *fakeSender) SendMessage(messageType string, payload interface{}) error {
	s.sent = append(s.sent, sentMessage{messageType: messageType, payload: payload})
	return nil
}

func (s *fakeSender) countByType(messageType string) int {
	count := 0
	for _, msg := range s.sent {
		if msg.messageType == messageType {
			count++
		}
	}
	return count
}

func newTestForwarder(t *testing.T) (*ActionForwarder, *fakeSender, *world.HeadlessWorld, *clockwork.FakeClock) {
	t.Helper()
	sender := &fakeSender{}
	w := world.NewHeadlessWorld([]string{"counter_0_4", "delivery_4_4"})
	clock := clockwork.NewFakeClock()
	forwarder := NewActionForwarder(NewActionForwarderOptions{
		Sender: sender,
		World:  w,
		Clock:  clock,
	})
	return forwarder, sender, w, clock
}

func TestUpdateSendsInitialPosition(t *testing.T) {
	forwarder, sender, _, _ := newTestForwarder(t)

	require.NoError(t, forwarder.Update())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, messages.MessageTypeClientPosition, sender.sent[0].messageType)
}

func TestUpdateThrottlesPositionRate(t *testing.T) {
	forwarder, sender, w, clock := newTestForwarder(t)

	// simulate a 60fps frame loop for one second while moving constantly
	frame := 16 * time.Millisecond
	frames := int(time.Second / frame)
	for i := 0; i < frames; i++ {
		w.SetLocalPosition(types.Position{X: float64(i), Z: float64(i)})
		require.NoError(t, forwarder.Update())
		clock.Advance(frame)
	}

	elapsed := time.Duration(frames) * frame
	maxSends := int(elapsed/PositionThrottle) + 1
	assert.LessOrEqual(t, sender.countByType(messages.MessageTypeClientPosition), maxSends)
}

func TestUpdateSkipsWhenNothingChanged(t *testing.T) {
	forwarder, sender, _, clock := newTestForwarder(t)

	require.NoError(t, forwarder.Update())
	clock.Advance(2 * PositionThrottle)
	require.NoError(t, forwarder.Update())

	assert.Len(t, sender.sent, 1)
}

func TestUpdateSendsOnHeldItemChange(t *testing.T) {
	forwarder, sender, w, clock := newTestForwarder(t)

	require.NoError(t, forwarder.Update())
	clock.Advance(2 * PositionThrottle)

	// no movement, only the held item changes
	w.SetLocalHeldItem(&types.Item{Kind: types.IngredientTomato})
	require.NoError(t, forwarder.Update())

	require.Len(t, sender.sent, 2)
	position, ok := sender.sent[1].payload.(*messages.ClientPosition)
	require.True(t, ok)
	require.NotNil(t, position.HeldItem)
	assert.Equal(t, types.IngredientTomato, position.HeldItem.Kind)
}

func TestForwardInteractSendsClaimAndContent(t *testing.T) {
	forwarder, sender, w, _ := newTestForwarder(t)
	w.Station("counter_0_4").Item = &types.Item{Kind: types.ItemKindPlate}

	require.NoError(t, forwarder.ForwardInteract("counter_0_4"))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, messages.MessageTypeClientInteract, sender.sent[0].messageType)
	assert.Equal(t, messages.MessageTypeStationUpdate, sender.sent[1].messageType)
	update, ok := sender.sent[1].payload.(*messages.ClientStationUpdate)
	require.True(t, ok)
	assert.Equal(t, "counter_0_4", update.ID)
	require.NotNil(t, update.State.HeldItem)
	assert.Equal(t, types.ItemKindPlate, update.State.HeldItem.Kind)
}

func TestForwardInteractForcesUnthrottledFollowUp(t *testing.T) {
	forwarder, sender, _, _ := newTestForwarder(t)

	// a send right before the action arms the throttle
	require.NoError(t, forwarder.Update())
	require.NoError(t, forwarder.ForwardInteract("counter_0_4"))

	// no time has passed, but the follow-up must go out anyway
	require.NoError(t, forwarder.Update())

	assert.Equal(t, 2, sender.countByType(messages.MessageTypeClientPosition))
}

func TestForwardWorkSendsClaimAndContent(t *testing.T) {
	forwarder, sender, w, _ := newTestForwarder(t)
	w.Station("counter_0_4").Progress = 50

	require.NoError(t, forwarder.ForwardWork("counter_0_4"))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, messages.MessageTypeClientWork, sender.sent[0].messageType)
	update, ok := sender.sent[1].payload.(*messages.ClientStationUpdate)
	require.True(t, ok)
	assert.Equal(t, 50.0, update.State.Progress)
}

func TestForwardInteractUnknownStation(t *testing.T) {
	forwarder, _, _, _ := newTestForwarder(t)

	assert.Error(t, forwarder.ForwardInteract("nowhere_0_0"))
}

func TestForwardOrderComplete(t *testing.T) {
	forwarder, sender, _, _ := newTestForwarder(t)

	require.NoError(t, forwarder.ForwardOrderComplete("5", 80))

	require.Len(t, sender.sent, 1)
	claim, ok := sender.sent[0].payload.(*messages.ClientOrderComplete)
	require.True(t, ok)
	assert.Equal(t, "5", claim.OrderID)
	assert.Equal(t, 80, claim.Score)
}

func TestForwardPlayerInfo(t *testing.T) {
	forwarder, sender, _, _ := newTestForwarder(t)

	colors := map[string]uint32{"shirt": 0xff0000}
	require.NoError(t, forwarder.ForwardPlayerInfo(colors))

	require.Len(t, sender.sent, 1)
	info, ok := sender.sent[0].payload.(*messages.ClientPlayerInfo)
	require.True(t, ok)
	assert.Equal(t, colors, info.Colors)
}
