package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientnetwork "github.com/dnextcom/overcooked-clone/client/network"
	clientsession "github.com/dnextcom/overcooked-clone/client/session"
	"github.com/dnextcom/overcooked-clone/client/world"
	"github.com/dnextcom/overcooked-clone/pkg/game/orders"
	"github.com/dnextcom/overcooked-clone/pkg/game/recipes"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/queue"
)

const (
	frameInterval = 33 * time.Millisecond
	// levelExtent bounds the bot's random wandering to the kitchen area.
	levelExtent = 5.0
)

// bot is a headless client that wanders the kitchen, pokes stations, and
// occasionally claims a delivery. Useful for exercising a server without a
// real client attached.
type bot struct {
	networkManager *clientnetwork.NetworkManager
	world          *world.HeadlessWorld
	forwarder      *clientsession.ActionForwarder
	reconciler     *clientsession.Reconciler
	orderBook      *orders.OrderBook
	target         types.Position
	stationIDs     []string
}

func main() {
	serverURL := flag.String("server", fmt.Sprintf("ws://%s:%d/", clientnetwork.DefaultServerHostname, clientnetwork.DefaultServerPort), "Server websocket URL")
	logLevel := flag.String("log-level", "info", "Log level")
	duration := flag.Duration("duration", 0, "How long to run (0 means until interrupted)")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)

	messageQueue := queue.NewInMemoryQueue(1024)
	networkManager := clientnetwork.NewNetworkManager(*serverURL, messageQueue)
	if err := networkManager.Start(); err != nil {
		panic(fmt.Sprintf("Failed to connect: %v", err))
	}
	defer networkManager.Stop()

	w := world.NewHeadlessWorld(networkManager.StationIDs())
	orderBook := orders.NewOrderBook()
	b := &bot{
		networkManager: networkManager,
		world:          w,
		orderBook:      orderBook,
		stationIDs:     networkManager.StationIDs(),
		forwarder: clientsession.NewActionForwarder(clientsession.NewActionForwarderOptions{
			Sender: networkManager,
			World:  w,
		}),
		reconciler: clientsession.NewReconciler(clientsession.NewReconcilerOptions{
			LocalClientID: networkManager.ClientID(),
			World:         w,
			OrderBook:     orderBook,
		}),
	}

	if err := b.forwarder.ForwardPlayerInfo(randomColors()); err != nil {
		log.Error("Failed to send player info: %v", err)
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	log.Info("Bot %s joined, %d stations", networkManager.ClientID(), len(b.stationIDs))
	for {
		select {
		case <-stopChan:
			log.Info("Bot stopping")
			return
		case <-deadline:
			log.Info("Bot done")
			return
		case err := <-networkManager.ClientErrChan():
			log.Error("Connection lost: %v", err)
			return
		case <-ticker.C:
			if err := b.frame(frameInterval.Seconds()); err != nil {
				log.Error("Frame error: %v", err)
			}
		}
	}
}

// frame runs one simulation step: apply inbound state, act, report.
func (b *bot) frame(dt float64) error {
	if err := b.reconciler.ProcessMessages(b.networkManager.ServerMessageQueue()); err != nil {
		return err
	}
	b.world.Update(dt)

	b.wander(dt)

	// poke a random station now and then
	if rand.Float64() < 0.02 && len(b.stationIDs) > 0 {
		stationID := b.stationIDs[rand.Intn(len(b.stationIDs))]
		b.mutateStation(stationID)
		if err := b.forwarder.ForwardInteract(stationID); err != nil {
			return err
		}
	}

	// try a delivery when holding a plate that matches an open order
	if held := b.world.LocalHeldItem(); held != nil && held.Kind == types.ItemKindPlate {
		if result := b.orderBook.DeliverPlate(held.Ingredients); result.Success {
			b.world.SetLocalHeldItem(nil)
			if err := b.forwarder.ForwardOrderComplete(result.OrderID, result.Score); err != nil {
				return err
			}
			log.Info("Delivered order %s, score %d", result.OrderID, result.Score)
		}
	}

	return b.forwarder.Update()
}

// wander moves toward a random target, picking a new one on arrival.
func (b *bot) wander(dt float64) {
	position := b.world.LocalPosition()
	dx := b.target.X - position.X
	dz := b.target.Z - position.Z
	if dx*dx+dz*dz < 0.1 {
		b.target = types.Position{
			X: (rand.Float64()*2 - 1) * levelExtent,
			Z: (rand.Float64()*2 - 1) * levelExtent,
		}
		return
	}
	speed := 2.0 * dt
	position.X += clamp(dx, speed)
	position.Z += clamp(dz, speed)
	b.world.SetLocalPosition(position)
}

// mutateStation fakes a local interaction outcome so the content claim has
// something to carry: pick up a plate with a random recipe, or clear.
func (b *bot) mutateStation(stationID string) {
	station := b.world.Station(stationID)
	if station == nil {
		return
	}
	if rand.Float64() < 0.5 {
		kinds := recipes.Types()
		recipe := recipes.Recipes[kinds[rand.Intn(len(kinds))]]
		plate := &types.Item{Kind: types.ItemKindPlate, Ingredients: recipe.Ingredients}
		station.Item = nil
		b.world.SetLocalHeldItem(plate)
	} else {
		station.Item = &types.Item{Kind: types.IngredientTomato}
	}
}

func clamp(delta, limit float64) float64 {
	if delta > limit {
		return limit
	}
	if delta < -limit {
		return -limit
	}
	return delta
}

func randomColors() map[string]uint32 {
	return map[string]uint32{
		"body":  rand.Uint32() & 0xffffff,
		"shirt": rand.Uint32() & 0xffffff,
		"pants": rand.Uint32() & 0xffffff,
	}
}
