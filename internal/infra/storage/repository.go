// Package storage provides the persistence layer for the simulation
// server. It implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the domain event structure for persistence.
// The domain package does NOT import this; the adapter in cmd translates.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	GameID    string                 `json:"game_id" db:"game_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Tick      int64                  `json:"tick" db:"tick"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetByGameID retrieves all events for a specific game (for replay).
	GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error)

	// GetByActorID retrieves all events caused by an actor.
	GetByActorID(ctx context.Context, gameID, actorID string) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error)
}

// UnitSnapshot represents the persisted state of a unit for quick reads
// and after-action review.
type UnitSnapshot struct {
	UnitID      string    `json:"unit_id" db:"unit_id"`
	GameID      string    `json:"game_id" db:"game_id"`
	Callsign    string    `json:"callsign" db:"callsign"`
	Team        string    `json:"team" db:"team"`
	X           float64   `json:"x" db:"x"`
	Z           float64   `json:"z" db:"z"`
	Facing      float64   `json:"facing" db:"facing"`
	Alive       bool      `json:"alive" db:"alive"`
	State       string    `json:"state" db:"state"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// SnapshotRepository defines the interface for unit state snapshots.
type SnapshotRepository interface {
	// Upsert updates or inserts a unit snapshot.
	Upsert(ctx context.Context, snapshot UnitSnapshot) error

	// GetByUnitID retrieves a specific unit's snapshot.
	GetByUnitID(ctx context.Context, unitID string) (*UnitSnapshot, error)

	// GetByGameID retrieves all snapshots for a game.
	GetByGameID(ctx context.Context, gameID string) ([]UnitSnapshot, error)
}
