package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/messages"
	"github.com/dnextcom/overcooked-clone/pkg/network"
)

const (
	// BroadcastChannelSize represents the size of the broadcast channel
	BroadcastChannelSize = 1024
)

// BroadcastMessage is an outbound message queued by the session manager.
// Writes happen on this worker's goroutine so no I/O runs inside the
// session's critical section and connection writes are serialized.
type BroadcastMessage struct {
	Type    string
	Message interface{}
	// TargetClientID, when set, restricts delivery to a single client.
	TargetClientID string
	// ExcludeClientID, when set, suppresses the echo back to the acting
	// client to avoid redundant self-correction.
	ExcludeClientID string
}

type BroadcastWorker struct {
	clientManager *network.ClientManager
	broadcastChan <-chan BroadcastMessage
}

type NewBroadcastWorkerOptions struct {
	ClientManager *network.ClientManager
	BroadcastChan <-chan BroadcastMessage
}

func NewBroadcastWorker(opts NewBroadcastWorkerOptions) *BroadcastWorker {
	return &BroadcastWorker{
		clientManager: opts.ClientManager,
		broadcastChan: opts.BroadcastChan,
	}
}

func (w *BroadcastWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.broadcastChan:
			if err := w.handleBroadcast(msg); err != nil {
				log.Error("Failed to handle %s broadcast: %v", msg.Type, err)
			}
		}
	}
}

func (w *BroadcastWorker) handleBroadcast(b BroadcastMessage) error {
	payload, err := json.Marshal(b.Message)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	msg := &messages.Message{
		ClientID: messages.ServerClientID,
		Type:     b.Type,
		Payload:  payload,
	}

	if b.TargetClientID != "" {
		client := w.clientManager.GetClientByID(b.TargetClientID)
		if client == nil {
			log.Trace("Client %s is gone, dropping %s message", b.TargetClientID, b.Type)
			return nil
		}
		if err := network.WriteMessageToWS(client.Conn, msg); err != nil {
			return fmt.Errorf("failed to write message to client %s: %v", client.ID, err)
		}
		return nil
	}

	for _, client := range w.clientManager.GetClients() {
		if client.ID == b.ExcludeClientID {
			continue
		}
		if err := network.WriteMessageToWS(client.Conn, msg); err != nil {
			log.Error("Failed to write message to client %s: %v", client.ID, err)
			continue
		}
	}

	return nil
}
