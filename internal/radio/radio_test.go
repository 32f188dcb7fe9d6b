package radio

import (
	"strings"
	"testing"
)

func TestAcknowledgeKnownActions(t *testing.T) {
	r := NewResponder(1)

	for _, action := range []string{"move", "hold", "engage", "cease_fire", "airstrike"} {
		line := r.Acknowledge(action, true)
		if line == "" {
			t.Errorf("Expected an acknowledgment line for %q", action)
		}
		if contains(clarifyLines, line) {
			t.Errorf("Expected a real ack for %q, got clarify line %q", action, line)
		}
	}
}

func TestFailedOrderAsksForClarification(t *testing.T) {
	r := NewResponder(1)

	line := r.Acknowledge("move", false)
	if !contains(clarifyLines, line) {
		t.Errorf("Expected a clarify line for a failed order, got %q", line)
	}

	// An action nobody recognizes also asks for a repeat.
	line = r.Acknowledge("dance", true)
	if !contains(clarifyLines, line) {
		t.Errorf("Expected a clarify line for an unknown action, got %q", line)
	}
}

func TestFriendlyDownNamesTheCasualty(t *testing.T) {
	r := NewResponder(1)

	for i := 0; i < 20; i++ {
		line := r.FriendlyDown("Alpha-3")
		if strings.Contains(line, "{callsign}") {
			t.Fatalf("Expected placeholder substituted, got %q", line)
		}
	}
}

func TestGameOverLines(t *testing.T) {
	r := NewResponder(1)

	if line := r.GameOver(true); !contains(victoryLines, line) {
		t.Errorf("Expected a victory line, got %q", line)
	}
	if line := r.GameOver(false); !contains(defeatLines, line) {
		t.Errorf("Expected a defeat line, got %q", line)
	}
}

func TestSameSeedSameChatter(t *testing.T) {
	a := NewResponder(42)
	b := NewResponder(42)

	for i := 0; i < 10; i++ {
		if a.EnemyDown() != b.EnemyDown() {
			t.Fatalf("Expected identical seeds to produce identical chatter")
		}
	}
}

func contains(lines []string, s string) bool {
	for _, l := range lines {
		if l == s {
			return true
		}
	}
	return false
}
