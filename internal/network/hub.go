package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
	"github.com/overwatch-sim/overwatch/server/internal/platform/metrics"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("observer connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("observer disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes a GameEvent and sends it to all clients as an
// envelope of type "event".
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	h.BroadcastJSON("event", event)
}

// BroadcastJSON wraps a payload in a typed envelope and broadcasts it.
func (h *Hub) BroadcastJSON(msgType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    msgType,
		"payload": payload,
	})
	if err != nil {
		h.logger.Error("failed to serialize %s broadcast: %v", msgType, err)
		return
	}
	h.broadcast <- data
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes
// new events to every connected client. The hub runs independently from
// the engine's tick loop while observing the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(100 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessed := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				allEvents := eventLog.Replay()
				if len(allEvents) > lastProcessed {
					for _, event := range allEvents[lastProcessed:] {
						h.BroadcastEvent(event)
					}
					lastProcessed = len(allEvents)
				}
			}
		}
	}()
}
