package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dnextcom/overcooked-clone/pkg/api"
	"github.com/dnextcom/overcooked-clone/pkg/config"
	"github.com/dnextcom/overcooked-clone/pkg/game"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/network"
	"github.com/dnextcom/overcooked-clone/pkg/workers"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	port := flag.Int("port", 0, "WebSocket port to listen on (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := types.NewSessionState(cfg.GameTime)
	stationIDs := game.LoadLevel(state, game.DefaultLevel())

	broadcastChan := make(chan workers.BroadcastMessage, workers.BroadcastChannelSize)

	sessionManager := game.NewSessionManager(game.NewSessionManagerOptions{
		State:         state,
		StationIDs:    stationIDs,
		TickInterval:  cfg.TickInterval,
		SpawnInterval: cfg.SpawnIntervalTicks,
		MaxOrders:     cfg.MaxOrders,
		BroadcastChan: broadcastChan,
	})

	clientManager := network.NewClientManager()

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port:           cfg.Port,
		ClientManager:  clientManager,
		MessageHandler: sessionManager.HandleMessage,
	})
	go func() {
		if err := wsServer.Start(ctx); err != nil {
			log.Error("WebSocket server error: %v", err)
			stop()
		}
	}()

	broadcastWorker := workers.NewBroadcastWorker(workers.NewBroadcastWorkerOptions{
		ClientManager: clientManager,
		BroadcastChan: broadcastChan,
	})
	go broadcastWorker.Start(ctx)

	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ConnectionEventChan: clientManager.GetConnectionEventChan(),
		ConnectHandler:      sessionManager.HandleConnect,
		DisconnectHandler:   sessionManager.HandleDisconnect,
	})
	go connectionEventWorker.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:            cfg.APIPort,
		SessionProvider: sessionManager,
	})
	go apiServer.Start()
	defer apiServer.Stop(context.Background())

	log.Info("Starting session manager")
	if err := sessionManager.Start(ctx); err != nil {
		log.Error("Session manager error: %v", err)
	}
}
