package network

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

func TestBroadcastJSONWrapsPayloadInEnvelope(t *testing.T) {
	h := NewHub(logger.NewNop())

	h.BroadcastJSON("dialogue", map[string]string{"speaker": "alpha", "text": "Tango down."})

	select {
	case raw := <-h.broadcast:
		var env struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("Expected valid JSON envelope: %v", err)
		}
		if env.Type != "dialogue" {
			t.Errorf("Expected dialogue envelope, got %q", env.Type)
		}
		if env.Payload["text"] != "Tango down." {
			t.Errorf("Expected payload carried through, got %v", env.Payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected a broadcast message")
	}
}

func TestBroadcastEventUsesEventEnvelope(t *testing.T) {
	h := NewHub(logger.NewNop())

	h.BroadcastEvent(events.GameEvent{
		ID:      "evt-1",
		Type:    events.EventTypeUnitKilled,
		ActorID: "friendly-1",
	})

	select {
	case raw := <-h.broadcast:
		var env struct {
			Type    string          `json:"type"`
			Payload events.GameEvent `json:"payload"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("Expected valid JSON envelope: %v", err)
		}
		if env.Type != "event" || env.Payload.ID != "evt-1" {
			t.Errorf("Expected event envelope with evt-1, got type=%q id=%q", env.Type, env.Payload.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected a broadcast message")
	}
}
