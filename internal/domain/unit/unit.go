// Package unit defines the core domain entities for combat units.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package unit

import "math"

// Team identifies which side of the engagement a unit fights for.
type Team string

const (
	TeamFriendly Team = "friendly"
	TeamEnemy    Team = "enemy"
)

// Opposing returns the other team.
func (t Team) Opposing() Team {
	if t == TeamFriendly {
		return TeamEnemy
	}
	return TeamFriendly
}

// State identifies the behavioral state of a unit.
type State string

const (
	StateIdle     State = "idle"
	StateMoving   State = "moving"
	StateEngaging State = "engaging"
	StateDead     State = "dead"
)

// Vec is a point or direction on the ground plane. The engine operates
// purely in continuous x/z space; grid labels are an input concern.
type Vec struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// DistanceTo returns the euclidean distance to another point.
func (v Vec) DistanceTo(other Vec) float64 {
	dx := other.X - v.X
	dz := other.Z - v.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// AngleTo returns the heading from this point to another, in radians.
func (v Vec) AngleTo(other Vec) float64 {
	return math.Atan2(other.Z-v.Z, other.X-v.X)
}

// Unit represents the state of one soldier on the field.
//
// Units are created once at mission start and never destroyed: a killed
// unit persists as an inert roster entry so its id stays valid for any
// already-scheduled deferred resolution.
type Unit struct {
	ID       string `json:"id"`
	Callsign string `json:"callsign"` // display + selector name
	Team     Team   `json:"team"`

	Pos    Vec     `json:"pos"`
	Facing float64 `json:"facing"` // radians
	Alive  bool    `json:"alive"`
	State  State   `json:"state"`

	// Orders
	Destination   *Vec   `json:"destination,omitempty"`
	TargetID      string `json:"target_id,omitempty"` // engagement target, resolved via the roster
	Holding       bool   `json:"holding"`             // suppresses re-targeting drift, not engagement
	EngageEnabled bool   `json:"engage_enabled"`      // autonomous target acquisition

	// Combat profile
	Speed        float64 `json:"speed"`         // distance units per second
	FireInterval float64 `json:"fire_interval"` // seconds between shots (1/fire-rate)
	Accuracy     float64 `json:"accuracy"`      // hit probability at zero range, [0,1]

	// SinceLastShot accumulates elapsed simulation time since the unit
	// last fired. Advanced by the combat resolver.
	SinceLastShot float64 `json:"-"`
}

// New creates a living unit at a spawn position.
func New(id, callsign string, team Team, pos Vec, facing float64) *Unit {
	return &Unit{
		ID:       id,
		Callsign: callsign,
		Team:     team,
		Pos:      pos,
		Facing:   facing,
		Alive:    true,
		State:    StateIdle,

		Speed:        5.0,
		FireInterval: 1.0,
		Accuracy:     0.8,
	}
}

// Kill marks the unit dead and strips all intent. A dead unit has no
// destination, no engagement target, and never produces fire attempts
// or movement.
func (u *Unit) Kill() {
	u.Alive = false
	u.State = StateDead
	u.Destination = nil
	u.TargetID = ""
	u.Holding = false
	u.EngageEnabled = false
}

// DistanceTo returns the distance from this unit to another.
func (u *Unit) DistanceTo(other *Unit) float64 {
	return u.Pos.DistanceTo(other.Pos)
}
