// Package engine - movement_system.go
// Per-tick unit movement and autonomous target acquisition.
package engine

import (
	"math"

	"github.com/overwatch-sim/overwatch/server/internal/domain/rules"
	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

// MovementSystem advances unit positions toward their destinations and
// maintains each unit's engagement target.
type MovementSystem struct {
	roster *Roster
	logger *logger.Logger
}

// NewMovementSystem creates the movement system.
func NewMovementSystem(roster *Roster, log *logger.Logger) *MovementSystem {
	return &MovementSystem{roster: roster, logger: log}
}

// Advance runs one tick of movement and targeting for every living unit.
func (ms *MovementSystem) Advance(dt float64) {
	for _, u := range ms.roster.All() {
		if !u.Alive {
			continue
		}
		ms.advanceMovement(u, dt)
		ms.advanceTargeting(u)

		// A moving unit retains that state even while engaged; only a
		// non-moving unit with a target shows as engaging.
		if u.State != unit.StateMoving {
			if u.TargetID != "" {
				u.State = unit.StateEngaging
			} else {
				u.State = unit.StateIdle
			}
		}
	}
}

func (ms *MovementSystem) advanceMovement(u *unit.Unit, dt float64) {
	if u.Destination == nil {
		return
	}

	dest := *u.Destination
	remaining := u.Pos.DistanceTo(dest)
	if remaining <= rules.ArrivalTolerance {
		// Snap to the destination and come to rest.
		u.Pos = dest
		u.Destination = nil
		u.State = unit.StateIdle
		ms.logger.Event("UNIT_ARRIVED", u.ID, u.Callsign+" reached destination")
		return
	}

	heading := u.Pos.AngleTo(dest)
	step := u.Speed * dt
	if step > remaining {
		step = remaining
	}
	u.Pos.X += math.Cos(heading) * step
	u.Pos.Z += math.Sin(heading) * step
	u.Facing = heading
	u.State = unit.StateMoving
}

func (ms *MovementSystem) advanceTargeting(u *unit.Unit) {
	// Drop a target that died or was never valid; liveness is always
	// checked through the roster, never via a held reference.
	if u.TargetID != "" {
		t := ms.roster.ByID(u.TargetID)
		if t == nil || !t.Alive {
			u.TargetID = ""
		}
	}

	if !u.EngageEnabled {
		return
	}

	// A holding unit keeps its current engagement but does not drift to
	// a nearer contact.
	if u.Holding && u.TargetID != "" {
		ms.faceTarget(u)
		return
	}

	nearest := ms.roster.NearestOpponent(u, rules.SightRadius)
	if nearest == nil {
		u.TargetID = ""
		return
	}
	if u.TargetID != nearest.ID {
		ms.logger.Event("TARGET_ACQUIRED", u.ID, u.Callsign+" tracking "+nearest.Callsign)
	}
	u.TargetID = nearest.ID
	ms.faceTarget(u)
}

func (ms *MovementSystem) faceTarget(u *unit.Unit) {
	// Face the target only when stationary; a moving unit faces its heading.
	if u.Destination != nil {
		return
	}
	if t := ms.roster.ByID(u.TargetID); t != nil {
		u.Facing = u.Pos.AngleTo(t.Pos)
	}
}
