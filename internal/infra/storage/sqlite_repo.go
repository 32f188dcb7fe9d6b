package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, game_id, timestamp, event_type, actor_id, target_id, payload, tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.GameID, event.Timestamp, event.EventType, event.ActorID,
		event.TargetID, string(payloadBytes), event.Tick,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.GameID, &e.Timestamp, &e.EventType, &e.ActorID,
			&e.TargetID, &payloadStr, &e.Tick,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error) {
	query := `SELECT id, game_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE game_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID)
}

func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, gameID, actorID string) ([]GameEvent, error) {
	query := `SELECT id, game_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE game_id = ? AND actor_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID, actorID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error) {
	query := `SELECT id, game_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE game_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID, eventType)
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot UnitSnapshot) error {
	query := `
		INSERT INTO units (unit_id, game_id, callsign, team, x, z, facing, alive, state, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(unit_id) DO UPDATE SET
			callsign=excluded.callsign,
			team=excluded.team,
			x=excluded.x,
			z=excluded.z,
			facing=excluded.facing,
			alive=excluded.alive,
			state=excluded.state,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.UnitID, snapshot.GameID, snapshot.Callsign, snapshot.Team,
		snapshot.X, snapshot.Z, snapshot.Facing, snapshot.Alive, snapshot.State, time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetByUnitID(ctx context.Context, unitID string) (*UnitSnapshot, error) {
	query := `SELECT unit_id, game_id, callsign, team, x, z, facing, alive, state, last_updated FROM units WHERE unit_id = ?`
	var s UnitSnapshot
	err := r.db.QueryRowContext(ctx, query, unitID).Scan(
		&s.UnitID, &s.GameID, &s.Callsign, &s.Team, &s.X, &s.Z, &s.Facing, &s.Alive, &s.State, &s.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSnapshotRepository) GetByGameID(ctx context.Context, gameID string) ([]UnitSnapshot, error) {
	query := `SELECT unit_id, game_id, callsign, team, x, z, facing, alive, state, last_updated FROM units WHERE game_id = ?`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []UnitSnapshot
	for rows.Next() {
		var s UnitSnapshot
		if err := rows.Scan(&s.UnitID, &s.GameID, &s.Callsign, &s.Team, &s.X, &s.Z, &s.Facing, &s.Alive, &s.State, &s.LastUpdated); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
