// Package engine - airstrike_system.go
// Airstrike request validation, inbound/cooldown countdowns, and
// area-of-effect resolution.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/domain/rules"
	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
	"github.com/overwatch-sim/overwatch/server/internal/platform/metrics"
)

// StrikeState is the airstrike controller's state machine position.
type StrikeState string

const (
	StrikeReady    StrikeState = "READY"
	StrikeInbound  StrikeState = "INBOUND"
	StrikeCooldown StrikeState = "COOLDOWN"
)

// Munition selects the airstrike variant.
type Munition string

const (
	MunitionPrecision Munition = "precision"
	MunitionCluster   Munition = "cluster"
)

// Airstrike timing and blast parameters.
const (
	precisionDelay  = 3.0
	precisionRadius = 6.0
	clusterDelay    = 5.0
	clusterRadius   = 12.0
	strikeCooldown  = 30.0
)

// AirstrikeRequestedPayload is broadcast when a strike is accepted.
type AirstrikeRequestedPayload struct {
	Target   unit.Vec `json:"target"`
	Munition Munition `json:"munition"`
	Delay    float64  `json:"delay"`
	Radius   float64  `json:"radius"`
}

// AirstrikeImpactPayload carries the single impact event with its
// casualty list.
type AirstrikeImpactPayload struct {
	Target     unit.Vec `json:"target"`
	Munition   Munition `json:"munition"`
	Radius     float64  `json:"radius"`
	Casualties []string `json:"casualties"` // unit ids, both teams
}

// AirstrikeSystem sequences airstrikes. At most one request is inbound at
// a time; the cooldown clock starts at request time and runs concurrently
// with the impact countdown.
type AirstrikeSystem struct {
	roster   *Roster
	eventLog *events.EventLog
	logger   *logger.Logger
	rng      *rand.Rand

	state        StrikeState
	target       unit.Vec
	munition     Munition
	radius       float64
	impactLeft   float64
	cooldownLeft float64
}

// NewAirstrikeSystem creates the controller in the READY state.
func NewAirstrikeSystem(roster *Roster, eventLog *events.EventLog, log *logger.Logger, rng *rand.Rand) *AirstrikeSystem {
	return &AirstrikeSystem{
		roster:   roster,
		eventLog: eventLog,
		logger:   log,
		rng:      rng,
		state:    StrikeReady,
	}
}

// State returns the controller's current state.
func (as *AirstrikeSystem) State() StrikeState {
	return as.state
}

// CooldownRemaining returns the seconds left on the cooldown clock.
func (as *AirstrikeSystem) CooldownRemaining() float64 {
	if as.cooldownLeft < 0 {
		return 0
	}
	return as.cooldownLeft
}

// Request validates and accepts an airstrike call. A request while the
// controller is not READY always fails and never mutates the pending
// strike or the cooldown clock.
func (as *AirstrikeSystem) Request(coord *unit.Vec, munition Munition, tick int64) Result {
	if coord == nil {
		return Result{Success: false, Message: "no target: specify strike coordinates"}
	}
	if as.state != StrikeReady {
		return Result{
			Success: false,
			Message: fmt.Sprintf("still recharging: %.0f seconds remaining", as.CooldownRemaining()),
		}
	}

	delay := precisionDelay
	radius := precisionRadius
	if munition == MunitionCluster {
		delay = clusterDelay
		radius = clusterRadius
	} else {
		munition = MunitionPrecision
	}

	as.state = StrikeInbound
	as.target = *coord
	as.munition = munition
	as.radius = radius
	as.impactLeft = delay
	// The cooldown window is measured from the request, not the impact.
	as.cooldownLeft = strikeCooldown

	metrics.Get().RecordStrike()
	as.logger.Event("AIRSTRIKE_REQUESTED", "SYSTEM_FIRE_SUPPORT",
		fmt.Sprintf("%s strike inbound, impact in %.0fs", munition, delay))

	as.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeAirstrikeRequested,
		ActorID:   "SYSTEM_FIRE_SUPPORT",
		Tick:      tick,
		Payload: AirstrikeRequestedPayload{
			Target:   as.target,
			Munition: munition,
			Delay:    delay,
			Radius:   radius,
		},
	})

	return Result{
		Success: true,
		Message: fmt.Sprintf("airstrike inbound: impact in %.0f seconds", delay),
	}
}

// Advance runs the pending countdowns for one tick and resolves the impact
// when its timer expires. Returns the number of kills applied.
func (as *AirstrikeSystem) Advance(dt float64, tick int64) int {
	if as.state == StrikeReady {
		return 0
	}

	as.cooldownLeft -= dt

	kills := 0
	if as.state == StrikeInbound {
		as.impactLeft -= dt
		if as.impactLeft <= 0 {
			kills = as.resolveImpact(tick)
		}
	}

	if as.state == StrikeCooldown && as.cooldownLeft <= 0 {
		as.state = StrikeReady
		as.logger.Event("AIRSTRIKE_READY", "SYSTEM_FIRE_SUPPORT", "air support recharged")
	}
	return kills
}

// resolveImpact rolls lethality for every unit in blast range. Friendly
// fire is permitted and line of sight is ignored.
func (as *AirstrikeSystem) resolveImpact(tick int64) int {
	var casualties []string
	for _, u := range as.roster.All() {
		if !u.Alive {
			continue
		}
		d := u.Pos.DistanceTo(as.target)
		chance := rules.StrikeKillChance(d, as.radius)
		if chance <= 0 {
			continue
		}
		if as.rng.Float64() < chance {
			as.killUnit(u, tick)
			casualties = append(casualties, u.ID)
		}
	}

	as.logger.Event("AIRSTRIKE_IMPACT", "SYSTEM_FIRE_SUPPORT",
		fmt.Sprintf("%s impact, %d casualties", as.munition, len(casualties)))

	as.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeAirstrikeImpact,
		ActorID:   "SYSTEM_FIRE_SUPPORT",
		Tick:      tick,
		Payload: AirstrikeImpactPayload{
			Target:     as.target,
			Munition:   as.munition,
			Radius:     as.radius,
			Casualties: casualties,
		},
	})

	// The cooldown may already have partially (or fully) elapsed.
	if as.cooldownLeft <= 0 {
		as.state = StrikeReady
	} else {
		as.state = StrikeCooldown
	}
	return len(casualties)
}

func (as *AirstrikeSystem) killUnit(u *unit.Unit, tick int64) {
	u.Kill()
	metrics.Get().RecordKill()

	as.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeUnitKilled,
		ActorID:   "airstrike",
		TargetID:  u.ID,
		Tick:      tick,
		Payload: UnitKilledPayload{
			UnitID:   u.ID,
			Callsign: u.Callsign,
			Team:     u.Team,
			KilledBy: "airstrike",
		},
	})
}
