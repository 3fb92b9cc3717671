package workers

import (
	"context"

	"github.com/dnextcom/overcooked-clone/pkg/log"
	"github.com/dnextcom/overcooked-clone/pkg/network"
)

type ConnectionEventWorker struct {
	connectionEventChan <-chan network.ConnectionEvent
	connectHandler      func(clientID string)
	disconnectHandler   func(clientID string)
}

type NewConnectionEventWorkerOptions struct {
	ConnectionEventChan <-chan network.ConnectionEvent
	ConnectHandler      func(clientID string)
	DisconnectHandler   func(clientID string)
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker dispatches connect and disconnect events from the transport
// to the session's handlers.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		connectionEventChan: opts.ConnectionEventChan,
		connectHandler:      opts.ConnectHandler,
		disconnectHandler:   opts.DisconnectHandler,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.connectionEventChan:
			switch event.Type {
			case network.ConnectionEventTypeConnect:
				w.connectHandler(event.ClientID)
			case network.ConnectionEventTypeDisconnect:
				w.disconnectHandler(event.ClientID)
			default:
				log.Error("Unknown connection event type: %v", event.Type)
			}
		}
	}
}
