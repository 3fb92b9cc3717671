package network

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/dnextcom/overcooked-clone/pkg/queue"
	"github.com/gorilla/websocket"
)

// WSClient represents a WebSocket client.
type WSClient struct {
	serverAddr    string
	messageQueue  queue.Queue
	connectedChan chan<- *messages.ServerConnected
	conn          *websocket.Conn
}

// NewWSClient creates a new WebSocket client.
func NewWSClient(serverAddr string, messageQueue queue.Queue, connectedChan chan<- *messages.ServerConnected) *WSClient {
	return &WSClient{
		serverAddr:    serverAddr,
		messageQueue:  messageQueue,
		connectedChan: connectedChan,
	}
}

// Connect establishes a connection to the WebSocket server.
func (c *WSClient) Connect() error {
	log.Info("Connecting to WebSocket server at %s", c.serverAddr)
	conn, _, err := websocket.DefaultDialer.Dial(c.serverAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	c.conn = conn
	return nil
}

// HandleMessages handles incoming messages from the WebSocket server.
func (c *WSClient) HandleMessages(ctx context.Context) error {
	defer c.conn.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", c.conn.RemoteAddr().String(), err)
			}
			log.Trace("Connection closed for %s", c.conn.RemoteAddr().String())
			return err
		}

		if err := c.handleMessage(message); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

// handleMessage processes a received message. The welcome message resolves the
// pending connect; everything else is queued for the session layer to drain in
// arrival order.
func (c *WSClient) handleMessage(b []byte) error {
	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return fmt.Errorf("failed to deserialize message: %v", err)
	}
	log.Trace("Received message from WebSocket server of type %s", msg.Type)

	switch msg.Type {
	case messages.MessageTypeServerConnected:
		connected := &messages.ServerConnected{}
		if err := json.Unmarshal(msg.Payload, connected); err != nil {
			return fmt.Errorf("failed to deserialize server connected message: %v", err)
		}
		c.connectedChan <- connected
	case messages.MessageTypeServerStateSync,
		messages.MessageTypeServerInteraction,
		messages.MessageTypeStationUpdate:
		if err := c.messageQueue.Enqueue(msg); err != nil {
			return fmt.Errorf("failed to enqueue message: %v", err)
		}
	default:
		return fmt.Errorf("received unexpected message type from WebSocket server: %s", msg.Type)
	}

	return nil
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	return c.conn.Close()
}

// SendMessage sends a message to the WebSocket server.
func (c *WSClient) SendMessage(msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("failed to write message: %v", err)
	}

	return nil
}
