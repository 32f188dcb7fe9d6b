// Package engine contains the per-tick tactical simulation.
//
// ARCHITECTURAL RULE: the engine is a single logical thread. Step and
// ExecuteCommand must be called from one goroutine (the Ticker serializes
// them for the server). All delayed effects are logical countdowns
// decremented by the supplied tick delta, never platform timers, so
// outcomes are reproducible under synthetic deltas.
package engine

import (
	"math/rand"
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

// Engine is the central orchestrator that wires the event log to the
// simulation systems.
type Engine struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	roster   *Roster

	// Sub-systems
	movement  *MovementSystem
	combat    *CombatSystem
	airstrike *AirstrikeSystem
	router    *CommandRouter
	victory   *VictoryEvaluator

	tick    int64
	simTime float64 // accumulated simulation seconds
}

// NewEngine initializes the simulation systems and dependencies. The seed
// fixes both combat and airstrike rolls, making runs reproducible.
func NewEngine(eventLog *events.EventLog, log *logger.Logger, seed int64) *Engine {
	roster := NewRoster()
	rng := rand.New(rand.NewSource(seed))

	airstrike := NewAirstrikeSystem(roster, eventLog, log, rng)
	return &Engine{
		eventLog:  eventLog,
		logger:    log,
		roster:    roster,
		movement:  NewMovementSystem(roster, log),
		combat:    NewCombatSystem(roster, eventLog, log, rng),
		airstrike: airstrike,
		router:    NewCommandRouter(roster, airstrike, eventLog, log),
		victory:   NewVictoryEvaluator(roster, eventLog, log),
	}
}

// Register adds a unit to the roster and announces the spawn.
func (e *Engine) Register(u *unit.Unit) {
	e.roster.Add(u)
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeUnitSpawned,
		ActorID:   u.ID,
		Tick:      e.tick,
		Payload:   u,
	})
	e.logger.Info("unit registered: %s (%s)", u.Callsign, u.Team)
}

// Step advances the simulation by dt seconds of logical time.
//
// Evaluation order within the tick is fixed: movement and targeting for
// all units, then fire attempts and bullet timers, then the airstrike
// countdowns, then the victory evaluator if anything died. Kills are fully
// applied before evaluation; no kill processing issues new fire attempts
// within the same pass.
func (e *Engine) Step(dt float64) {
	if e.victory.Phase() != PhaseActive {
		return // terminal: every component is a no-op
	}

	e.tick++
	e.simTime += dt

	e.movement.Advance(dt)
	kills := e.combat.Resolve(dt, e.tick)
	kills += e.airstrike.Advance(dt, e.tick)

	if kills > 0 {
		e.victory.Evaluate(e.tick)
	}
}

// ExecuteCommand routes one structured player command. After the mission
// reaches a terminal phase commands no longer mutate anything.
func (e *Engine) ExecuteCommand(cmd Command) Result {
	if p := e.victory.Phase(); p != PhaseActive {
		return Result{Success: false, Message: "mission is over: " + string(p)}
	}
	return e.router.Dispatch(cmd, e.tick)
}

// Roster exposes unit state for snapshots and perception layers.
func (e *Engine) Roster() *Roster {
	return e.roster
}

// Airstrike exposes the fire-support controller state.
func (e *Engine) Airstrike() *AirstrikeSystem {
	return e.airstrike
}

// Phase returns the current mission phase.
func (e *Engine) Phase() Phase {
	return e.victory.Phase()
}

// Tick returns the number of steps taken so far.
func (e *Engine) Tick() int64 {
	return e.tick
}

// SimTime returns accumulated simulation seconds.
func (e *Engine) SimTime() float64 {
	return e.simTime
}

// EventLog exposes the log so transports can poll for new events.
func (e *Engine) EventLog() *events.EventLog {
	return e.eventLog
}
