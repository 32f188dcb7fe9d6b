package engine

import (
	"testing"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(events.NewEventLog(nil), logger.NewNop(), seed)
}

func spawn(e *Engine, id, callsign string, team unit.Team, x, z float64) *unit.Unit {
	u := unit.New(id, callsign, team, unit.Vec{X: x, Z: z}, 0)
	e.Register(u)
	return u
}

// stepFor advances the engine in fixed synthetic increments.
func stepFor(e *Engine, seconds, dt float64) {
	for elapsed := 0.0; elapsed < seconds; elapsed += dt {
		e.Step(dt)
	}
}

func TestPointBlankEngagementEndsInVictory(t *testing.T) {
	e := newTestEngine(1)

	// Co-located shooter and target: effective accuracy is exactly the
	// base, and base 1.0 means every roll hits.
	shooter := spawn(e, "friendly-1", "Alpha-1", unit.TeamFriendly, 0, 0)
	shooter.Accuracy = 1.0
	shooter.FireInterval = 0.5
	target := spawn(e, "enemy-1", "Hostile-1", unit.TeamEnemy, 0, 0)

	res := e.ExecuteCommand(Command{Action: ActionEngage, Unit: "all"})
	if !res.Success {
		t.Fatalf("Expected engage order to succeed, got %q", res.Message)
	}

	// One fire interval to the first shot plus the bullet fuse.
	stepFor(e, 2.0, 0.05)

	if target.Alive {
		t.Errorf("Expected target dead after point blank engagement")
	}
	if e.Phase() != PhaseVictory {
		t.Errorf("Expected VICTORY phase, got %s", e.Phase())
	}

	overs := e.EventLog().GetByType(events.EventTypeGameOver)
	if len(overs) != 1 {
		t.Errorf("Expected exactly one game over event, got %d", len(overs))
	}
}

func TestRangedEngagementKillsContactInSight(t *testing.T) {
	e := newTestEngine(1)

	shooter := spawn(e, "friendly-1", "Alpha-1", unit.TeamFriendly, 0, 0)
	shooter.Accuracy = 1.0
	shooter.FireInterval = 0.5
	target := spawn(e, "enemy-1", "Hostile-1", unit.TeamEnemy, 10, 0)

	e.ExecuteCommand(Command{Action: ActionEngage, Unit: "all"})

	if shooter.TargetID != target.ID {
		t.Fatalf("Expected contact at 10 units acquired, got %q", shooter.TargetID)
	}

	// At 10 units the hit chance is 1 - 10/60 per shot; the shooter keeps
	// firing every interval, so a bounded run ends the mission.
	for i := 0; i < 2000 && e.Phase() == PhaseActive; i++ {
		e.Step(0.05)
	}

	if target.Alive {
		t.Errorf("Expected target dead after sustained fire")
	}
	if e.Phase() != PhaseVictory {
		t.Errorf("Expected VICTORY, got %s", e.Phase())
	}
	if n := len(e.EventLog().GetByType(events.EventTypeGameOver)); n != 1 {
		t.Errorf("Expected exactly one game over event, got %d", n)
	}
}

func TestTerminalPhaseFreezesEverything(t *testing.T) {
	e := newTestEngine(1)
	shooter := spawn(e, "friendly-1", "Alpha-1", unit.TeamFriendly, 0, 0)
	shooter.Accuracy = 1.0
	shooter.FireInterval = 0.1
	spawn(e, "enemy-1", "Hostile-1", unit.TeamEnemy, 0, 0)

	e.ExecuteCommand(Command{Action: ActionEngage, Unit: "all"})
	stepFor(e, 2.0, 0.05)

	if e.Phase() != PhaseVictory {
		t.Fatalf("Expected terminal phase, got %s", e.Phase())
	}

	tickBefore := e.Tick()
	timeBefore := e.SimTime()
	e.Step(0.05)
	if e.Tick() != tickBefore || e.SimTime() != timeBefore {
		t.Errorf("Expected Step to be a no-op after game over")
	}

	res := e.ExecuteCommand(Command{Action: ActionMove, Unit: "all", Coord: &unit.Vec{X: 5, Z: 5}})
	if res.Success {
		t.Errorf("Expected commands rejected after game over, got success")
	}

	if shooter.Destination != nil {
		t.Errorf("Expected no mutation from a rejected post-game command")
	}
}

func TestPassiveFriendliesDoNotFire(t *testing.T) {
	e := newTestEngine(1)
	f := spawn(e, "friendly-1", "Alpha-1", unit.TeamFriendly, 0, 0)
	f.Accuracy = 1.0
	f.FireInterval = 0.1
	spawn(e, "enemy-1", "Hostile-1", unit.TeamEnemy, 5, 0)

	// No engage order: acquisition stays off and no shots happen.
	stepFor(e, 1.0, 0.05)

	if shots := e.EventLog().GetByType(events.EventTypeBulletFired); len(shots) != 0 {
		t.Errorf("Expected no shots without an engage order, got %d", len(shots))
	}
}

func TestSnapshotCopiesRoster(t *testing.T) {
	e := newTestEngine(1)
	spawn(e, "friendly-1", "Alpha-1", unit.TeamFriendly, 1, 2)
	spawn(e, "enemy-1", "Hostile-1", unit.TeamEnemy, 3, 4)

	snap := e.Snapshot()
	if len(snap.Units) != 2 {
		t.Fatalf("Expected 2 units in snapshot, got %d", len(snap.Units))
	}
	if snap.Phase != PhaseActive {
		t.Errorf("Expected ACTIVE phase in snapshot, got %s", snap.Phase)
	}
	if snap.Strike.State != StrikeReady {
		t.Errorf("Expected READY strike state in snapshot, got %s", snap.Strike.State)
	}

	// Mutating the copy must not touch the live roster.
	snap.Units[0].Pos.X = 999
	if e.Roster().ByID("friendly-1").Pos.X == 999 {
		t.Errorf("Expected snapshot units to be copies")
	}
}
