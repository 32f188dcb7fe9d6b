// Package engine - combat_system.go
// Fire-rate gating, hit rolls, and deferred bullet resolution.
package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/domain/rules"
	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
	"github.com/overwatch-sim/overwatch/server/internal/platform/metrics"
)

// Bullet is an in-flight shot. The hit outcome is decided the instant the
// shot is fired and never re-rolled; only whether it is applied depends on
// the target's liveness when the flight countdown expires.
type Bullet struct {
	ShooterID  string   `json:"shooter_id"`
	TargetID   string   `json:"target_id"`
	Origin     unit.Vec `json:"origin"`
	Velocity   unit.Vec `json:"velocity"`
	WillHit    bool     `json:"hit"`
	FlightLeft float64  `json:"-"` // seconds until resolution
}

// BulletFiredPayload is broadcast so the client can draw the tracer.
type BulletFiredPayload struct {
	ShooterID string   `json:"shooter_id"`
	TargetID  string   `json:"target_id"`
	Origin    unit.Vec `json:"origin"`
	Velocity  unit.Vec `json:"velocity"`
	Hit       bool     `json:"hit"`
}

// UnitKilledPayload records a death for clients and the after-action log.
type UnitKilledPayload struct {
	UnitID   string    `json:"unit_id"`
	Callsign string    `json:"callsign"`
	Team     unit.Team `json:"team"`
	KilledBy string    `json:"killed_by"` // unit id or "airstrike"
}

// CombatSystem evaluates fire attempts and advances pending bullets.
type CombatSystem struct {
	roster   *Roster
	eventLog *events.EventLog
	logger   *logger.Logger
	rng      *rand.Rand
	bullets  []*Bullet
}

// NewCombatSystem creates the combat resolver with its own RNG stream.
func NewCombatSystem(roster *Roster, eventLog *events.EventLog, log *logger.Logger, rng *rand.Rand) *CombatSystem {
	return &CombatSystem{
		roster:   roster,
		eventLog: eventLog,
		logger:   log,
		rng:      rng,
	}
}

// Resolve runs one combat tick: fire-rate-gated attempts first, then every
// pending bullet timer. Returns the number of kills applied this tick.
func (cs *CombatSystem) Resolve(dt float64, tick int64) int {
	for _, u := range cs.roster.All() {
		if !u.Alive {
			continue
		}
		u.SinceLastShot += dt

		if u.TargetID == "" {
			continue
		}
		target := cs.roster.ByID(u.TargetID)
		if target == nil || !target.Alive {
			continue
		}
		if u.SinceLastShot < u.FireInterval {
			continue
		}
		cs.fire(u, target, tick)
	}

	return cs.advanceBullets(dt, tick)
}

// fire rolls the hit outcome and spawns the bullet.
func (cs *CombatSystem) fire(shooter, target *unit.Unit, tick int64) {
	d := shooter.DistanceTo(target)
	chance := rules.EffectiveAccuracy(shooter.Accuracy, d)
	hit := cs.rng.Float64() < chance

	heading := shooter.Pos.AngleTo(target.Pos)
	b := &Bullet{
		ShooterID: shooter.ID,
		TargetID:  target.ID,
		Origin:    shooter.Pos,
		Velocity: unit.Vec{
			X: math.Cos(heading) * rules.ProjectileSpeed,
			Z: math.Sin(heading) * rules.ProjectileSpeed,
		},
		WillHit:    hit,
		FlightLeft: rules.BulletFlightTime(d),
	}
	cs.bullets = append(cs.bullets, b)
	shooter.SinceLastShot = 0
	metrics.Get().RecordShot()

	cs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeBulletFired,
		ActorID:   shooter.ID,
		TargetID:  target.ID,
		Tick:      tick,
		Payload: BulletFiredPayload{
			ShooterID: b.ShooterID,
			TargetID:  b.TargetID,
			Origin:    b.Origin,
			Velocity:  b.Velocity,
			Hit:       b.WillHit,
		},
	})
}

// advanceBullets decrements every flight countdown by dt and applies the
// hits whose timers expired. A scheduled hit against a target that died in
// the meantime is silently dropped.
func (cs *CombatSystem) advanceBullets(dt float64, tick int64) int {
	kills := 0
	kept := cs.bullets[:0]
	for _, b := range cs.bullets {
		b.FlightLeft -= dt
		if b.FlightLeft > 0 {
			kept = append(kept, b)
			continue
		}
		if !b.WillHit {
			continue
		}
		target := cs.roster.ByID(b.TargetID)
		if target == nil || !target.Alive {
			continue
		}
		cs.killUnit(target, b.ShooterID, tick)
		kills++
	}
	cs.bullets = kept
	return kills
}

func (cs *CombatSystem) killUnit(target *unit.Unit, killedBy string, tick int64) {
	target.Kill()
	metrics.Get().RecordKill()
	cs.logger.Event("UNIT_KILLED", killedBy, target.Callsign+" is down")

	cs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeUnitKilled,
		ActorID:   killedBy,
		TargetID:  target.ID,
		Tick:      tick,
		Payload: UnitKilledPayload{
			UnitID:   target.ID,
			Callsign: target.Callsign,
			Team:     target.Team,
			KilledBy: killedBy,
		},
	})
}

// PendingBullets returns the number of bullets still in flight.
func (cs *CombatSystem) PendingBullets() int {
	return len(cs.bullets)
}
