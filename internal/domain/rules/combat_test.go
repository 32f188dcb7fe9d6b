package rules

import (
	"math"
	"testing"
)

func TestEffectiveAccuracyFalloff(t *testing.T) {
	// Point blank keeps the base accuracy untouched.
	if got := EffectiveAccuracy(0.8, 0); got != 0.8 {
		t.Errorf("Expected full accuracy at zero range, got %f", got)
	}

	// Halfway to max range halves the hit chance.
	if got := EffectiveAccuracy(0.8, MaxEffectiveRange/2); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Expected 0.4 at half range, got %f", got)
	}
}

func TestEffectiveAccuracyZeroAtMaxRange(t *testing.T) {
	if got := EffectiveAccuracy(1.0, MaxEffectiveRange); got != 0 {
		t.Errorf("Expected zero accuracy at max effective range, got %f", got)
	}

	// Beyond max range must clamp to zero, never go negative.
	if got := EffectiveAccuracy(1.0, MaxEffectiveRange*3); got != 0 {
		t.Errorf("Expected zero accuracy beyond max range, got %f", got)
	}
}

func TestBulletFlightTime(t *testing.T) {
	// A shot at 40 units travels 0.5s plus the fixed fuse.
	want := 40.0/ProjectileSpeed + BulletFuse
	if got := BulletFlightTime(40); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected flight time %f, got %f", want, got)
	}

	// Even a zero-range shot keeps the fuse so the hit lands a tick late.
	if got := BulletFlightTime(0); got != BulletFuse {
		t.Errorf("Expected bare fuse for zero distance, got %f", got)
	}
}

func TestStrikeKillChance(t *testing.T) {
	// Ground zero is always lethal.
	if got := StrikeKillChance(0, 12); got != 1.0 {
		t.Errorf("Expected certain kill at ground zero, got %f", got)
	}

	// Halfway out the blast radius: 1 - 0.5*0.5.
	if got := StrikeKillChance(6, 12); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Expected 0.75 at half radius, got %f", got)
	}

	// At and beyond the radius nothing is affected.
	if got := StrikeKillChance(12, 12); got != 0 {
		t.Errorf("Expected zero chance at blast radius, got %f", got)
	}
	if got := StrikeKillChance(20, 12); got != 0 {
		t.Errorf("Expected zero chance outside blast radius, got %f", got)
	}
}
