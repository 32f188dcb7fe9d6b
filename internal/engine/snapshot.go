package engine

import "github.com/overwatch-sim/overwatch/server/internal/domain/unit"

// StrikeSnapshot is the externally visible fire-support state.
type StrikeSnapshot struct {
	State             StrikeState `json:"state"`
	CooldownRemaining float64     `json:"cooldown_remaining"`
}

// StateSnapshot is a copy of the observable engine state, safe to
// serialize outside the tick thread.
type StateSnapshot struct {
	Tick    int64          `json:"tick"`
	SimTime float64        `json:"sim_time"`
	Phase   Phase          `json:"phase"`
	Strike  StrikeSnapshot `json:"strike"`
	Units   []unit.Unit    `json:"units"`
}

// Snapshot copies the current state of every unit plus the mission phase.
func (e *Engine) Snapshot() StateSnapshot {
	snap := StateSnapshot{
		Tick:    e.tick,
		SimTime: e.simTime,
		Phase:   e.victory.Phase(),
		Strike: StrikeSnapshot{
			State:             e.airstrike.State(),
			CooldownRemaining: e.airstrike.CooldownRemaining(),
		},
	}
	for _, u := range e.roster.All() {
		snap.Units = append(snap.Units, *u)
	}
	return snap
}
