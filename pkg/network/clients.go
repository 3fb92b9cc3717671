package network

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// ConnectionEventChannelSize represents the size of the connection event channel
	ConnectionEventChannelSize = 1024
)

// Client represents a connected client
type Client struct {
	ID   string
	Conn *websocket.Conn
}

// ConnectionEventType represents the type of a connection event
type ConnectionEventType int

const (
	ConnectionEventTypeConnect ConnectionEventType = iota
	ConnectionEventTypeDisconnect
)

// ConnectionEvent represents an event that happened to a connection
type ConnectionEvent struct {
	ClientID string
	Type     ConnectionEventType
}

// ClientManager manages connected clients
type ClientManager struct {
	clients             map[string]*Client
	clientsLock         sync.RWMutex
	connectionEventChan chan ConnectionEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:             make(map[string]*Client),
		connectionEventChan: make(chan ConnectionEvent, ConnectionEventChannelSize),
	}
}

// GetConnectionEventChan returns a one-way channel for receiving connection events
func (cm *ClientManager) GetConnectionEventChan() <-chan ConnectionEvent {
	return cm.connectionEventChan
}

// GetClients returns a slice of all connected clients.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

// GetClientByID retrieves a client by its ID
func (cm *ClientManager) GetClientByID(clientID string) *Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return cm.clients[clientID]
}

func (cm *ClientManager) Exists(clientID string) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}

// ConnectClient adds a new client to the manager and returns its
// connection-scoped id.
func (cm *ClientManager) ConnectClient(conn *websocket.Conn) string {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID := uuid.NewString()
	cm.clients[clientID] = &Client{
		ID:   clientID,
		Conn: conn,
	}

	cm.connectionEventChan <- ConnectionEvent{
		ClientID: clientID,
		Type:     ConnectionEventTypeConnect,
	}

	return clientID
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return
	}

	delete(cm.clients, clientID)

	cm.connectionEventChan <- ConnectionEvent{
		ClientID: client.ID,
		Type:     ConnectionEventTypeDisconnect,
	}
}
