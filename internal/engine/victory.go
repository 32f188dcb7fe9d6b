// Package engine - victory.go
// Terminal-phase detection. Runs after any tick that applied kills.
package engine

import (
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

// Phase is the mission's overall state.
type Phase string

const (
	PhaseActive  Phase = "ACTIVE"
	PhaseVictory Phase = "VICTORY"
	PhaseDefeat  Phase = "DEFEAT"
)

// GameOverPayload announces the terminal phase.
type GameOverPayload struct {
	Outcome Phase `json:"outcome"`
}

// VictoryEvaluator counts living members per team and latches the first
// terminal transition. Once terminal, every call is a no-op: several kills
// in one tick still produce exactly one game-over event.
type VictoryEvaluator struct {
	roster   *Roster
	eventLog *events.EventLog
	logger   *logger.Logger
	phase    Phase
}

// NewVictoryEvaluator creates the evaluator in the active phase.
func NewVictoryEvaluator(roster *Roster, eventLog *events.EventLog, log *logger.Logger) *VictoryEvaluator {
	return &VictoryEvaluator{
		roster:   roster,
		eventLog: eventLog,
		logger:   log,
		phase:    PhaseActive,
	}
}

// Phase returns the current phase.
func (ve *VictoryEvaluator) Phase() Phase {
	return ve.phase
}

// Evaluate checks terminal conditions. Defeat wins ties: if both rosters
// are wiped in the same tick, the mission is lost.
func (ve *VictoryEvaluator) Evaluate(tick int64) Phase {
	if ve.phase != PhaseActive {
		return ve.phase
	}

	switch {
	case ve.roster.LivingCount(unit.TeamFriendly) == 0:
		ve.phase = PhaseDefeat
	case ve.roster.LivingCount(unit.TeamEnemy) == 0:
		ve.phase = PhaseVictory
	default:
		return PhaseActive
	}

	ve.logger.Event("GAME_OVER", "SYSTEM_OVERWATCH", string(ve.phase))
	ve.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeGameOver,
		ActorID:   "SYSTEM_OVERWATCH",
		Tick:      tick,
		Payload:   GameOverPayload{Outcome: ve.phase},
	})
	return ve.phase
}
