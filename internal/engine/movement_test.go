package engine

import (
	"math"
	"testing"

	"github.com/overwatch-sim/overwatch/server/internal/domain/rules"
	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

func newMovementFixture() (*Roster, *MovementSystem) {
	roster := NewRoster()
	return roster, NewMovementSystem(roster, logger.NewNop())
}

func TestMovementAdvancesTowardDestination(t *testing.T) {
	roster, ms := newMovementFixture()
	u := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	u.Speed = 5.0
	u.Destination = &unit.Vec{X: 10, Z: 0}
	roster.Add(u)

	ms.Advance(1.0)

	if math.Abs(u.Pos.X-5.0) > 1e-9 {
		t.Errorf("Expected unit at x=5 after 1s at speed 5, got %f", u.Pos.X)
	}
	if u.State != unit.StateMoving {
		t.Errorf("Expected moving state, got %s", u.State)
	}
	if u.Facing != 0 {
		t.Errorf("Expected facing along +X heading, got %f", u.Facing)
	}
}

func TestMovementSnapsInsideArrivalTolerance(t *testing.T) {
	roster, ms := newMovementFixture()
	u := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	u.Speed = 5.0
	dest := unit.Vec{X: rules.ArrivalTolerance * 0.5, Z: 0}
	u.Destination = &dest
	roster.Add(u)

	ms.Advance(0.05)

	if u.Pos != dest {
		t.Errorf("Expected snap to destination, got %+v", u.Pos)
	}
	if u.Destination != nil {
		t.Errorf("Expected destination cleared on arrival")
	}
	if u.State != unit.StateIdle {
		t.Errorf("Expected idle after arrival, got %s", u.State)
	}
}

func TestMovementStepNeverOvershoots(t *testing.T) {
	roster, ms := newMovementFixture()
	u := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	u.Speed = 100.0 // a single big step would blow past the destination
	u.Destination = &unit.Vec{X: 3, Z: 0}
	roster.Add(u)

	ms.Advance(1.0)

	if u.Pos.X > 3.0+1e-9 {
		t.Errorf("Expected step clamped at destination, got x=%f", u.Pos.X)
	}
}

func TestTargetAcquisitionAtSightRadius(t *testing.T) {
	roster, ms := newMovementFixture()
	f := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	f.EngageEnabled = true
	roster.Add(f)

	near := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{X: rules.SightRadius - 1, Z: 0}, 0)
	far := unit.New("enemy-2", "Hostile-2", unit.TeamEnemy, unit.Vec{X: rules.SightRadius + 20, Z: 0}, 0)
	roster.Add(near)
	roster.Add(far)

	ms.Advance(0.05)

	if f.TargetID != near.ID {
		t.Errorf("Expected nearest contact in range acquired, got %q", f.TargetID)
	}
	if f.State != unit.StateEngaging {
		t.Errorf("Expected engaging state, got %s", f.State)
	}
}

func TestNoAcquisitionBeyondSightRadius(t *testing.T) {
	roster, ms := newMovementFixture()
	f := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	f.EngageEnabled = true
	roster.Add(f)
	roster.Add(unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{X: rules.SightRadius + 1, Z: 0}, 0))

	ms.Advance(0.05)

	if f.TargetID != "" {
		t.Errorf("Expected no target beyond sight radius, got %q", f.TargetID)
	}
	if f.State != unit.StateIdle {
		t.Errorf("Expected idle state, got %s", f.State)
	}
}

func TestDeadTargetIsDropped(t *testing.T) {
	roster, ms := newMovementFixture()
	f := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	roster.Add(f)
	e := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{X: 10, Z: 0}, 0)
	roster.Add(e)
	f.TargetID = e.ID

	e.Kill()
	ms.Advance(0.05)

	if f.TargetID != "" {
		t.Errorf("Expected dead target dropped, still tracking %q", f.TargetID)
	}
}

func TestHoldingUnitDoesNotDriftToNearerContact(t *testing.T) {
	roster, ms := newMovementFixture()
	f := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	f.EngageEnabled = true
	f.Holding = true
	roster.Add(f)

	current := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{X: 20, Z: 0}, 0)
	closer := unit.New("enemy-2", "Hostile-2", unit.TeamEnemy, unit.Vec{X: 5, Z: 0}, 0)
	roster.Add(current)
	roster.Add(closer)
	f.TargetID = current.ID

	ms.Advance(0.05)

	if f.TargetID != current.ID {
		t.Errorf("Expected holding unit to keep its target, got %q", f.TargetID)
	}
}

func TestDeadUnitsDoNotMove(t *testing.T) {
	roster, ms := newMovementFixture()
	u := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	u.Destination = &unit.Vec{X: 10, Z: 0}
	roster.Add(u)
	u.Kill()

	ms.Advance(1.0)

	if u.Pos.X != 0 {
		t.Errorf("Expected dead unit to stay put, got x=%f", u.Pos.X)
	}
}
