// Package engine - command_router.go
// Maps a structured command to a set of friendly units and an action.
// Free-text parsing (voice or typed) happens upstream; the router only
// ever sees already-structured commands.
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/domain/rules"
	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
	"github.com/overwatch-sim/overwatch/server/internal/platform/metrics"
)

// Command actions.
const (
	ActionMove      = "move"
	ActionHold      = "hold"
	ActionEngage    = "engage"
	ActionCeaseFire = "cease_fire"
	ActionAirstrike = "airstrike"
)

// moveSpreadRadius offsets each unit of a group order so they do not
// stack on one point.
const moveSpreadRadius = 2.0

// CommandParams carries action-specific parameters.
type CommandParams struct {
	Type string `json:"type,omitempty"` // airstrike munition
}

// Command is one structured player order.
type Command struct {
	Action string        `json:"action"`
	Unit   string        `json:"unit,omitempty"` // callsign, or "all"/"squad"
	Coord  *unit.Vec     `json:"coordinate,omitempty"`
	Params CommandParams `json:"params"`
}

// Result is the user-facing outcome of a routed command. Failures are
// result values, never errors: there is no fatal path in the router.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Units   int    `json:"units"` // living units the order applied to
}

// CommandRouter dispatches structured commands onto the roster.
type CommandRouter struct {
	roster    *Roster
	airstrike *AirstrikeSystem
	eventLog  *events.EventLog
	logger    *logger.Logger
}

// NewCommandRouter creates the router.
func NewCommandRouter(roster *Roster, airstrike *AirstrikeSystem, eventLog *events.EventLog, log *logger.Logger) *CommandRouter {
	return &CommandRouter{
		roster:    roster,
		airstrike: airstrike,
		eventLog:  eventLog,
		logger:    log,
	}
}

// Dispatch routes one command. A selector matching zero living units is
// not an error: the order simply applies to nobody.
func (cr *CommandRouter) Dispatch(cmd Command, tick int64) Result {
	var res Result
	switch cmd.Action {
	case ActionMove:
		res = cr.move(cmd)
	case ActionHold:
		res = cr.hold(cmd)
	case ActionEngage:
		res = cr.engage(cmd)
	case ActionCeaseFire:
		res = cr.ceaseFire(cmd)
	case ActionAirstrike:
		munition := Munition(cmd.Params.Type)
		res = cr.airstrike.Request(cmd.Coord, munition, tick)
	default:
		res = Result{Success: false, Message: fmt.Sprintf("unrecognized action %q", cmd.Action)}
	}

	metrics.Get().RecordCommand(res.Success)
	cr.logger.Event("COMMAND", "player",
		fmt.Sprintf("%s %s -> %s", cmd.Action, cmd.Unit, res.Message))

	cr.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeCommandIssued,
		ActorID:   "player",
		Tick:      tick,
		Payload: map[string]interface{}{
			"command": cmd,
			"result":  res,
		},
	})
	return res
}

// selectUnits resolves a target selector to living friendlies. An exact
// callsign match narrows to that one unit if alive (empty set if dead);
// anything else, including "all"/"squad" or an unknown name, falls back
// to every living friendly.
func (cr *CommandRouter) selectUnits(selector string) []*unit.Unit {
	name := strings.TrimSpace(selector)
	if name != "" {
		for _, u := range cr.roster.All() {
			if u.Team != unit.TeamFriendly {
				continue
			}
			if strings.EqualFold(u.Callsign, name) {
				if u.Alive {
					return []*unit.Unit{u}
				}
				return nil
			}
		}
	}
	return cr.roster.Living(unit.TeamFriendly)
}

func (cr *CommandRouter) move(cmd Command) Result {
	if cmd.Coord == nil {
		return Result{Success: false, Message: "move order needs coordinates"}
	}

	selected := cr.selectUnits(cmd.Unit)
	for i, u := range selected {
		dest := spreadDestination(*cmd.Coord, i, len(selected))
		u.Destination = &dest
		u.Holding = false
		u.State = unit.StateMoving
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("moving %d unit(s) to (%.0f, %.0f)", len(selected), cmd.Coord.X, cmd.Coord.Z),
		Units:   len(selected),
	}
}

func (cr *CommandRouter) hold(cmd Command) Result {
	selected := cr.selectUnits(cmd.Unit)
	for _, u := range selected {
		// Hold clears movement only; an existing engagement target is
		// kept (cease_fire is the order that drops it).
		u.Destination = nil
		u.Holding = true
		if u.State == unit.StateMoving {
			u.State = unit.StateIdle
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("%d unit(s) holding position", len(selected)),
		Units:   len(selected),
	}
}

func (cr *CommandRouter) engage(cmd Command) Result {
	selected := cr.selectUnits(cmd.Unit)
	for _, u := range selected {
		u.EngageEnabled = true
		// Acquire immediately rather than waiting for the next tick.
		if t := cr.roster.NearestOpponent(u, rules.SightRadius); t != nil {
			u.TargetID = t.ID
			if u.Destination == nil {
				u.Facing = u.Pos.AngleTo(t.Pos)
				u.State = unit.StateEngaging
			}
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("%d unit(s) weapons free", len(selected)),
		Units:   len(selected),
	}
}

func (cr *CommandRouter) ceaseFire(cmd Command) Result {
	selected := cr.selectUnits(cmd.Unit)
	for _, u := range selected {
		u.EngageEnabled = false
		u.TargetID = ""
		if u.State == unit.StateEngaging {
			u.State = unit.StateIdle
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("%d unit(s) holding fire", len(selected)),
		Units:   len(selected),
	}
}

// spreadDestination fans a group order out on a small ring so units do
// not stack on a single point. Offsets are deterministic by slot.
func spreadDestination(coord unit.Vec, i, n int) unit.Vec {
	if n <= 1 {
		return coord
	}
	angle := 2 * math.Pi * float64(i) / float64(n)
	return unit.Vec{
		X: coord.X + math.Cos(angle)*moveSpreadRadius,
		Z: coord.Z + math.Sin(angle)*moveSpreadRadius,
	}
}
