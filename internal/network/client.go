package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/overwatch-sim/overwatch/server/internal/engine"
	"github.com/overwatch-sim/overwatch/server/internal/platform/metrics"
	"github.com/overwatch-sim/overwatch/server/internal/radio"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// CommandDispatcher executes a structured command on the engine's logical
// thread and returns its result.
type CommandDispatcher interface {
	Do(cmd engine.Command) engine.Result
}

// ClientMessage is the envelope for messages arriving from the frontend.
type ClientMessage struct {
	Type    string          `json:"type"`    // "command" | "pong"
	Command *engine.Command `json:"command"` // for type "command"
}

// CommandReply echoes the routed result back with a radio line attached.
type CommandReply struct {
	Type     string        `json:"type"` // "result"
	Result   engine.Result `json:"result"`
	Dialogue string        `json:"dialogue,omitempty"`
	Speaker  string        `json:"speaker,omitempty"`
}

// Client holds one active WebSocket connection.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	dispatcher CommandDispatcher
	responder  *radio.Responder
}

// NewClient creates a new WebSocket client.
func NewClient(hub *Hub, conn *websocket.Conn, dispatcher CommandDispatcher, responder *radio.Responder) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		dispatcher: dispatcher,
		responder:  responder,
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("websocket read: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.logger.Error("failed to parse client message: %v", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case "command":
		if msg.Command == nil {
			c.hub.logger.Warn("command message without command body")
			return
		}
		res := c.dispatcher.Do(*msg.Command)
		reply := CommandReply{
			Type:     "result",
			Result:   res,
			Dialogue: c.responder.Acknowledge(msg.Command.Action, res.Success),
			Speaker:  "alpha",
		}
		if data, err := json.Marshal(reply); err == nil {
			select {
			case c.send <- data:
			default:
			}
		}
	case "pong":
		// Heartbeat response, nothing to do.
	default:
		c.hub.logger.Warn("unknown client message type: %s", msg.Type)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
