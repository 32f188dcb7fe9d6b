// Package events provides the append-only event log for the simulation.
// The engine never calls rendering, audio, or network code directly: it
// appends events here, and collaborators (WebSocket hub, persistence)
// observe them.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a simulation event.
type EventType string

const (
	EventTypeTimeTick           EventType = "TIME_TICK"
	EventTypeUnitSpawned        EventType = "UNIT_SPAWNED"
	EventTypeCommandIssued      EventType = "COMMAND_ISSUED"
	EventTypeBulletFired        EventType = "BULLET_FIRED"
	EventTypeUnitKilled         EventType = "UNIT_KILLED"
	EventTypeAirstrikeRequested EventType = "AIRSTRIKE_REQUESTED"
	EventTypeAirstrikeImpact    EventType = "AIRSTRIKE_IMPACT"
	EventTypeGameOver           EventType = "GAME_OVER"
)

// GameEvent represents an immutable record of something that happened in
// the simulation.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`            // who caused it (unit id or SYSTEM_*)
	TargetID  string      `json:"target_id,omitempty"` // who was affected (optional)
	Payload   interface{} `json:"payload"`             // event-specific data
	Tick      int64       `json:"tick"`                // simulation tick it occurred on
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of simulation events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to persistent storage off the tick path.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// Replay returns the full history of events, oldest first. The engine's
// collaborators poll this to pick up new events.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// GetByType returns all events of a specific type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GetByActor returns all events caused by a specific actor.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// Len returns the number of events appended so far.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
