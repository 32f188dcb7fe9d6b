package engine

import (
	"testing"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
)

func TestRosterLookups(t *testing.T) {
	r := NewRoster()
	a := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{}, 0)
	b := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{}, 0)
	r.Add(a)
	r.Add(b)

	if r.ByID("friendly-1") != a {
		t.Errorf("Expected id lookup to find Alpha-1")
	}
	if r.ByCallsign("Hostile-1") != b {
		t.Errorf("Expected callsign lookup to find Hostile-1")
	}
	if r.ByID("nobody") != nil {
		t.Errorf("Expected nil for unknown id")
	}
}

func TestRosterKeepsDeadUnits(t *testing.T) {
	r := NewRoster()
	a := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{}, 0)
	r.Add(a)
	a.Kill()

	if r.ByID("friendly-1") == nil {
		t.Errorf("Expected dead unit to stay resolvable by id")
	}
	if len(r.All()) != 1 {
		t.Errorf("Expected dead unit kept in the roster")
	}
	if r.LivingCount(unit.TeamFriendly) != 0 {
		t.Errorf("Expected zero living friendlies")
	}
}

func TestNearestOpponentRespectsRadius(t *testing.T) {
	r := NewRoster()
	f := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{X: 0, Z: 0}, 0)
	near := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{X: 8, Z: 0}, 0)
	nearer := unit.New("enemy-2", "Hostile-2", unit.TeamEnemy, unit.Vec{X: 4, Z: 0}, 0)
	far := unit.New("enemy-3", "Hostile-3", unit.TeamEnemy, unit.Vec{X: 100, Z: 0}, 0)
	r.Add(f)
	r.Add(near)
	r.Add(nearer)
	r.Add(far)

	if got := r.NearestOpponent(f, 30); got != nearer {
		t.Errorf("Expected the closest contact, got %v", got)
	}
	if got := r.NearestOpponent(f, 2); got != nil {
		t.Errorf("Expected nil when nothing is in radius, got %v", got)
	}

	nearer.Kill()
	if got := r.NearestOpponent(f, 30); got != near {
		t.Errorf("Expected dead contacts skipped, got %v", got)
	}
}
