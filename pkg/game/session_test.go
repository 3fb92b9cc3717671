package game

import (
	"testing"
	"time"

	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/dnextcom/overcooked-clone/pkg/workers"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(t *testing.T) (*SessionManager, chan workers.BroadcastMessage) {
	t.Helper()
	state := types.NewSessionState(DefaultGameTime)
	stationIDs := LoadLevel(state, DefaultLevel())
	broadcastChan := make(chan workers.BroadcastMessage, 256)
	sm := NewSessionManager(NewSessionManagerOptions{
		State:         state,
		StationIDs:    stationIDs,
		Clock:         clockwork.NewFakeClock(),
		TickInterval:  time.Second,
		SpawnInterval: DefaultSpawnIntervalTicks,
		MaxOrders:     DefaultMaxOrders,
		BroadcastChan: broadcastChan,
	})
	return sm, broadcastChan
}

func drainBroadcasts(ch chan workers.BroadcastMessage) []workers.BroadcastMessage {
	var msgs []workers.BroadcastMessage
	for {
		select {
		case msg := <-ch:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func lastStateSync(t *testing.T, msgs []workers.BroadcastMessage) *types.SessionState {
	t.Helper()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == messages.MessageTypeServerStateSync {
			snapshot, ok := msgs[i].Message.(*types.SessionState)
			require.True(t, ok)
			return snapshot
		}
	}
	t.Fatal("no stateSync broadcast found")
	return nil
}

func TestTickDoesNothingWithoutParticipants(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)

	sm.tick()

	assert.Equal(t, DefaultGameTime, sm.state.GameTime)
	assert.Empty(t, drainBroadcasts(broadcastChan))
}

func TestTickDecrementsTimerAndFloorsAtZero(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	sm.state.GameTime = 1.5
	drainBroadcasts(broadcastChan)

	sm.tick()
	assert.Equal(t, 0.5, sm.state.GameTime)

	sm.tick()
	assert.Equal(t, 0.0, sm.state.GameTime)

	// session has ended, the tick guard stops the clock
	sm.tick()
	assert.Equal(t, 0.0, sm.state.GameTime)
}

func TestTickExpiresOrdersAfterCeilingOfRemainingTime(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	sm.state.Orders = []*types.Order{{ID: "5", RecipeType: "Salad", RemainingTime: 2}}
	drainBroadcasts(broadcastChan)

	sm.tick()
	require.Len(t, sm.state.Orders, 1)

	sm.tick()
	assert.Empty(t, sm.state.Orders)
	// expiry applies no score change in the authoritative model
	assert.Equal(t, 0, sm.state.Score)

	snapshot := lastStateSync(t, drainBroadcasts(broadcastChan))
	assert.Empty(t, snapshot.Orders)
}

func TestTickSpawnsOrderAfterSpawnInterval(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	drainBroadcasts(broadcastChan)

	for i := 0; i < DefaultSpawnIntervalTicks-1; i++ {
		sm.tick()
	}
	assert.Empty(t, sm.state.Orders)

	sm.tick()
	require.Len(t, sm.state.Orders, 1)
	assert.Positive(t, sm.state.Orders[0].RemainingTime)

	snapshot := lastStateSync(t, drainBroadcasts(broadcastChan))
	require.Len(t, snapshot.Orders, 1)
}

func TestTickDoesNotSpawnBeyondMaxOrders(t *testing.T) {
	sm, _ := newTestSessionManager(t)
	sm.HandleConnect("p1")
	for i := 0; i < DefaultMaxOrders; i++ {
		sm.state.Orders = append(sm.state.Orders, &types.Order{ID: string(rune('a' + i)), RemainingTime: 100})
	}

	for i := 0; i < DefaultSpawnIntervalTicks; i++ {
		sm.tick()
	}

	assert.Len(t, sm.state.Orders, DefaultMaxOrders)
}

func TestHandleOrderCompleteOverwritesScore(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	sm.state.Score = 30
	sm.state.Orders = []*types.Order{{ID: "5", RecipeType: "Salad", RemainingTime: 60}}
	drainBroadcasts(broadcastChan)

	sm.handleOrderComplete("p1", &messages.ClientOrderComplete{OrderID: "5", Score: 80})

	// overwrite, not increment
	assert.Equal(t, 80, sm.state.Score)
	assert.Empty(t, sm.state.Orders)

	snapshot := lastStateSync(t, drainBroadcasts(broadcastChan))
	assert.Equal(t, 80, snapshot.Score)
}

func TestHandleOrderCompleteIsIdempotent(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	sm.state.Orders = []*types.Order{{ID: "5", RecipeType: "Salad", RemainingTime: 60}}
	drainBroadcasts(broadcastChan)

	sm.handleOrderComplete("p1", &messages.ClientOrderComplete{OrderID: "5", Score: 80})
	drainBroadcasts(broadcastChan)

	// a raced duplicate carries a different total; it must not apply
	sm.handleOrderComplete("p2", &messages.ClientOrderComplete{OrderID: "5", Score: 160})

	assert.Equal(t, 80, sm.state.Score)
	assert.Empty(t, drainBroadcasts(broadcastChan))
}

func TestHandleOrderCompleteUnknownOrderIsNoOp(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	sm.state.Orders = []*types.Order{{ID: "5", RecipeType: "Salad", RemainingTime: 60}}
	drainBroadcasts(broadcastChan)

	sm.handleOrderComplete("p1", &messages.ClientOrderComplete{OrderID: "999", Score: 500})

	assert.Equal(t, 0, sm.state.Score)
	assert.Len(t, sm.state.Orders, 1)
	assert.Empty(t, drainBroadcasts(broadcastChan))
}

func TestHandlePositionUpdatesPlayer(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	drainBroadcasts(broadcastChan)

	sm.handlePosition("p1", &messages.ClientPosition{
		X: 1, Y: 0, Z: -2,
		HeldItem: &types.Item{Kind: types.IngredientTomato},
	})

	player := sm.state.Players["p1"]
	assert.Equal(t, types.Position{X: 1, Y: 0, Z: -2}, player.Position)
	require.NotNil(t, player.HeldItem)
	assert.Equal(t, types.IngredientTomato, player.HeldItem.Kind)

	snapshot := lastStateSync(t, drainBroadcasts(broadcastChan))
	assert.Equal(t, 1.0, snapshot.Players["p1"].Position.X)
}

func TestHandlePositionUnknownPlayerIsDropped(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)

	sm.handlePosition("ghost", &messages.ClientPosition{X: 1})

	assert.Empty(t, sm.state.Players)
	assert.Empty(t, drainBroadcasts(broadcastChan))
}

func TestHandleStationUpdateOverwritesAndReplicates(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	sm.HandleConnect("p2")
	drainBroadcasts(broadcastChan)

	stationID := StationID(StationTypeCounter, -2, 4)
	sm.handleStationUpdate("p1", &messages.ClientStationUpdate{
		ID: stationID,
		State: types.StationState{
			HeldItem: &types.Item{Kind: types.ItemKindPlate, Ingredients: []string{types.IngredientChoppedTomato}},
			Progress: 50,
		},
	})

	station := sm.state.Stations[stationID]
	require.NotNil(t, station.HeldItem)
	assert.Equal(t, types.ItemKindPlate, station.HeldItem.Kind)
	assert.Equal(t, 50.0, station.Progress)

	msgs := drainBroadcasts(broadcastChan)
	var replicated *workers.BroadcastMessage
	for i := range msgs {
		if msgs[i].Type == messages.MessageTypeStationUpdate {
			replicated = &msgs[i]
		}
	}
	require.NotNil(t, replicated, "station update must be replicated")
	// no echo back to the acting client
	assert.Equal(t, "p1", replicated.ExcludeClientID)
}

func TestHandleStationUpdateUnknownStationIsDropped(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	drainBroadcasts(broadcastChan)

	sm.handleStationUpdate("p1", &messages.ClientStationUpdate{ID: "nowhere_0_0"})

	assert.Empty(t, drainBroadcasts(broadcastChan))
}

func TestHandleInteractionReplicatesToOthers(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	drainBroadcasts(broadcastChan)

	stationID := StationID(StationTypeChoppingBoard, 2, -4)
	sm.handleInteraction("p1", stationID)

	msgs := drainBroadcasts(broadcastChan)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.MessageTypeServerInteraction, msgs[0].Type)
	assert.Equal(t, "p1", msgs[0].ExcludeClientID)
	event, ok := msgs[0].Message.(*messages.ServerInteraction)
	require.True(t, ok)
	assert.Equal(t, "p1", event.PlayerID)
	assert.Equal(t, stationID, event.StationID)
}

func TestHandleDisconnectRemovesPlayerFromSnapshots(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)
	sm.HandleConnect("p1")
	sm.HandleConnect("p2")
	drainBroadcasts(broadcastChan)

	sm.HandleDisconnect("p2")

	snapshot := lastStateSync(t, drainBroadcasts(broadcastChan))
	assert.Len(t, snapshot.Players, 1)
	assert.NotContains(t, snapshot.Players, "p2")

	sm.tick()
	snapshot = lastStateSync(t, drainBroadcasts(broadcastChan))
	assert.NotContains(t, snapshot.Players, "p2")
}

func TestHandleConnectSendsWelcomeWithStations(t *testing.T) {
	sm, broadcastChan := newTestSessionManager(t)

	sm.HandleConnect("p1")

	msgs := drainBroadcasts(broadcastChan)
	require.NotEmpty(t, msgs)
	assert.Equal(t, messages.MessageTypeServerConnected, msgs[0].Type)
	assert.Equal(t, "p1", msgs[0].TargetClientID)
	welcome, ok := msgs[0].Message.(*messages.ServerConnected)
	require.True(t, ok)
	assert.Equal(t, "p1", welcome.ClientID)
	assert.Len(t, welcome.Stations, len(DefaultLevel()))
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	sm, _ := newTestSessionManager(t)
	sm.HandleConnect("p1")

	snapshot := sm.StateSnapshot()
	snapshot.Players["p1"].Position.X = 99
	snapshot.Score = 1000

	assert.Equal(t, 0.0, sm.state.Players["p1"].Position.X)
	assert.Equal(t, 0, sm.state.Score)
}
