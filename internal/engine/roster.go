package engine

import (
	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
)

// Roster owns every unit entity, living or dead, keyed by stable id.
// Units are never removed: killed units persist as inert entries so ids
// stay valid for deferred bullet resolution.
//
// Iteration order is the registration order, which keeps tick outcomes
// reproducible under a fixed RNG seed.
type Roster struct {
	order []*unit.Unit
	byID  map[string]*unit.Unit
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		byID: make(map[string]*unit.Unit),
	}
}

// Add registers a unit. A duplicate id replaces the lookup entry but the
// original keeps its slot; missions should not reuse ids.
func (r *Roster) Add(u *unit.Unit) {
	if _, exists := r.byID[u.ID]; !exists {
		r.order = append(r.order, u)
	}
	r.byID[u.ID] = u
}

// ByID resolves a unit by stable id. Returns nil if unknown.
func (r *Roster) ByID(id string) *unit.Unit {
	return r.byID[id]
}

// ByCallsign resolves a unit by callsign, alive or dead. Returns nil if
// no unit carries it.
func (r *Roster) ByCallsign(callsign string) *unit.Unit {
	for _, u := range r.order {
		if u.Callsign == callsign {
			return u
		}
	}
	return nil
}

// All returns every unit in registration order, including the dead.
func (r *Roster) All() []*unit.Unit {
	return r.order
}

// Living returns the living members of one team.
func (r *Roster) Living(team unit.Team) []*unit.Unit {
	var result []*unit.Unit
	for _, u := range r.order {
		if u.Alive && u.Team == team {
			result = append(result, u)
		}
	}
	return result
}

// LivingCount counts the living members of one team.
func (r *Roster) LivingCount(team unit.Team) int {
	n := 0
	for _, u := range r.order {
		if u.Alive && u.Team == team {
			n++
		}
	}
	return n
}

// NearestOpponent returns the closest living member of the opposing team
// within radius, or nil if none is in range.
func (r *Roster) NearestOpponent(from *unit.Unit, radius float64) *unit.Unit {
	var best *unit.Unit
	bestDist := radius
	for _, u := range r.order {
		if !u.Alive || u.Team != from.Team.Opposing() {
			continue
		}
		if d := from.DistanceTo(u); d <= bestDist {
			bestDist = d
			best = u
		}
	}
	return best
}
