// Package radio generates the squad's voice-line acknowledgments. Speech
// synthesis itself happens client-side; this only picks the text.
package radio

import (
	"math/rand"
	"strings"
)

var ackLines = map[string][]string{
	"move": {
		"Copy, moving to position.",
		"Roger, advancing now.",
		"Moving.",
		"Copy that, relocating.",
		"On the move.",
	},
	"hold": {
		"Roger, holding position.",
		"Copy, holding.",
		"Staying put.",
		"Position held.",
	},
	"engage": {
		"Copy, engaging targets.",
		"Weapons free.",
		"Engaging.",
		"Opening fire.",
	},
	"cease_fire": {
		"Copy, holding fire.",
		"Weapons hold.",
		"Ceasing fire.",
	},
	"airstrike": {
		"Airstrike inbound.",
		"Copy, calling in air support.",
		"Ordnance on the way.",
	},
}

var (
	clarifyLines = []string{
		"Say again?",
		"Did not copy.",
		"Repeat command.",
	}
	killEnemyLines = []string{
		"Tango down.",
		"Target eliminated.",
		"Hostile neutralized.",
	}
	killFriendlyLines = []string{
		"Man down!",
		"{callsign} is down!",
		"We lost {callsign}!",
	}
	victoryLines = []string{
		"Area secure.",
		"All hostiles eliminated.",
		"Mission complete.",
	}
	defeatLines = []string{
		"Mission failed.",
		"We're done.",
	}
)

// Responder picks voice lines with its own RNG so chatter does not
// perturb the simulation's rolls.
type Responder struct {
	rng *rand.Rand
}

// NewResponder creates a responder.
func NewResponder(seed int64) *Responder {
	return &Responder{rng: rand.New(rand.NewSource(seed))}
}

func (r *Responder) pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[r.rng.Intn(len(lines))]
}

// Acknowledge returns a radio line for a successful order, or a clarify
// line when the order was not understood.
func (r *Responder) Acknowledge(action string, ok bool) string {
	if !ok {
		return r.pick(clarifyLines)
	}
	if lines, found := ackLines[action]; found {
		return r.pick(lines)
	}
	return r.pick(clarifyLines)
}

// EnemyDown returns a kill confirmation.
func (r *Responder) EnemyDown() string {
	return r.pick(killEnemyLines)
}

// FriendlyDown returns a casualty callout for the named teammate.
func (r *Responder) FriendlyDown(callsign string) string {
	line := r.pick(killFriendlyLines)
	return strings.ReplaceAll(line, "{callsign}", callsign)
}

// GameOver returns the end-of-mission line.
func (r *Responder) GameOver(victory bool) string {
	if victory {
		return r.pick(victoryLines)
	}
	return r.pick(defeatLines)
}
