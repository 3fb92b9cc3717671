package network

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/dnextcom/overcooked-clone/pkg/queue"
)

const (
	DefaultServerHostname = "localhost"
	DefaultServerPort     = 3001

	connectTimeout = 10 * time.Second
)

// NetworkManager owns the connection to the session server. Inbound messages
// land on the server message queue; the session layer drains them each frame.
type NetworkManager struct {
	serverMessageQueue queue.Queue
	wsClient           *WSClient
	wsClientErrChan    chan error
	cancelClientCtx    context.CancelFunc
	clientWaitGroup    *sync.WaitGroup
	clientID           string
	stationIDs         []string
	clientIDMutex      sync.Mutex
	connectedChan      <-chan *messages.ServerConnected
}

// NewNetworkManager creates a new network manager.
func NewNetworkManager(serverAddr string, messageQueue queue.Queue) *NetworkManager {
	connectedChan := make(chan *messages.ServerConnected)
	wsClient := NewWSClient(serverAddr, messageQueue, connectedChan)

	return &NetworkManager{
		serverMessageQueue: messageQueue,
		wsClient:           wsClient,
		wsClientErrChan:    make(chan error),
		clientWaitGroup:    &sync.WaitGroup{},
		connectedChan:      connectedChan,
	}
}

// Start connects to the server and blocks until the welcome message assigns
// this client its id.
func (m *NetworkManager) Start() error {
	if err := m.wsClient.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelClientCtx = cancel

	m.clientWaitGroup.Add(1)
	go func(ctx context.Context) {
		defer m.clientWaitGroup.Done()
		if err := m.wsClient.HandleMessages(ctx); err != nil {
			select {
			case m.wsClientErrChan <- err:
			default:
			}
		}
	}(ctx)

	select {
	case err := <-m.wsClientErrChan:
		return fmt.Errorf("failed to start client: %v", err)
	case <-time.After(connectTimeout):
		return fmt.Errorf("timed out waiting for server welcome message")
	case connected := <-m.connectedChan:
		m.clientIDMutex.Lock()
		m.clientID = connected.ClientID
		m.stationIDs = connected.Stations
		m.clientIDMutex.Unlock()
		log.Info("Connected to server with client ID %s", connected.ClientID)
	}

	return nil
}

// Stop stops the network manager and clears the server message queue.
func (m *NetworkManager) Stop() error {
	if m.cancelClientCtx == nil {
		log.Warn("Network manager already stopped")
		return nil
	}
	m.cancelClientCtx()

	m.wsClient.Close()

	log.Debug("Waiting for client to stop")
	m.clientWaitGroup.Wait()
	if err := m.serverMessageQueue.ClearQueue(); err != nil {
		return fmt.Errorf("failed to clear server message queue: %v", err)
	}

	m.clientID = ""
	m.cancelClientCtx = nil

	log.Info("Network manager stopped")

	return nil
}

func (m *NetworkManager) ServerMessageQueue() queue.Queue {
	return m.serverMessageQueue
}

func (m *NetworkManager) ClientErrChan() <-chan error {
	return m.wsClientErrChan
}

// ClientID returns the id the server assigned to this connection.
func (m *NetworkManager) ClientID() string {
	m.clientIDMutex.Lock()
	defer m.clientIDMutex.Unlock()
	return m.clientID
}

// StationIDs returns the station ids announced in the welcome message.
func (m *NetworkManager) StationIDs() []string {
	m.clientIDMutex.Lock()
	defer m.clientIDMutex.Unlock()
	return m.stationIDs
}

// SendMessage sends a typed payload to the server under this client's id.
func (m *NetworkManager) SendMessage(messageType string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	msg := &messages.Message{
		ClientID: m.ClientID(),
		Type:     messageType,
		Payload:  b,
	}

	if err := m.wsClient.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send %s message: %v", messageType, err)
	}

	return nil
}
