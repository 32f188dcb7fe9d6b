package engine

import (
	"testing"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

func newVictoryFixture() (*Roster, *VictoryEvaluator, *events.EventLog) {
	roster := NewRoster()
	eventLog := events.NewEventLog(nil)
	return roster, NewVictoryEvaluator(roster, eventLog, logger.NewNop()), eventLog
}

func TestNoVerdictWhileBothSidesLive(t *testing.T) {
	roster, ve, _ := newVictoryFixture()
	roster.Add(unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{}, 0))
	roster.Add(unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{}, 0))

	if got := ve.Evaluate(1); got != PhaseActive {
		t.Errorf("Expected ACTIVE with both sides alive, got %s", got)
	}
}

func TestEnemyWipeIsVictory(t *testing.T) {
	roster, ve, eventLog := newVictoryFixture()
	roster.Add(unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{}, 0))
	h := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{}, 0)
	roster.Add(h)
	h.Kill()

	if got := ve.Evaluate(1); got != PhaseVictory {
		t.Errorf("Expected VICTORY, got %s", got)
	}
	overs := eventLog.GetByType(events.EventTypeGameOver)
	if len(overs) != 1 {
		t.Fatalf("Expected one game over event, got %d", len(overs))
	}
	if p := overs[0].Payload.(GameOverPayload); p.Outcome != PhaseVictory {
		t.Errorf("Expected VICTORY outcome in payload, got %s", p.Outcome)
	}
}

func TestFriendlyWipeIsDefeat(t *testing.T) {
	roster, ve, _ := newVictoryFixture()
	f := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{}, 0)
	roster.Add(f)
	roster.Add(unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{}, 0))
	f.Kill()

	if got := ve.Evaluate(1); got != PhaseDefeat {
		t.Errorf("Expected DEFEAT, got %s", got)
	}
}

func TestMutualWipeIsDefeat(t *testing.T) {
	roster, ve, _ := newVictoryFixture()
	f := unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{}, 0)
	h := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{}, 0)
	roster.Add(f)
	roster.Add(h)
	f.Kill()
	h.Kill()

	if got := ve.Evaluate(1); got != PhaseDefeat {
		t.Errorf("Expected a mutual wipe to count as DEFEAT, got %s", got)
	}
}

func TestVerdictLatchesOnce(t *testing.T) {
	roster, ve, eventLog := newVictoryFixture()
	roster.Add(unit.New("friendly-1", "Alpha-1", unit.TeamFriendly, unit.Vec{}, 0))
	h := unit.New("enemy-1", "Hostile-1", unit.TeamEnemy, unit.Vec{}, 0)
	roster.Add(h)
	h.Kill()

	ve.Evaluate(1)
	ve.Evaluate(2)
	ve.Evaluate(3)

	if n := len(eventLog.GetByType(events.EventTypeGameOver)); n != 1 {
		t.Errorf("Expected the verdict to latch with a single event, got %d", n)
	}
}
