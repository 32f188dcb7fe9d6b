// Package rules contains the pure calculation logic for combat mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

// Fixed simulation parameters. These are engine constants, not tunables:
// the mission descriptor may override per-unit speed/fire-rate/accuracy,
// but ranges and projectile behavior are the same for everyone.
const (
	// SightRadius is the autonomous target acquisition range, independent
	// of any cosmetic field-of-view cone used only for display.
	SightRadius = 30.0

	// MaxEffectiveRange is the distance at which effective accuracy
	// reaches zero.
	MaxEffectiveRange = 60.0

	// ProjectileSpeed is the fixed bullet speed in distance units/second.
	ProjectileSpeed = 80.0

	// BulletFuse pads every bullet's flight time so the visual tracer
	// lands before the hit is applied.
	BulletFuse = 0.1

	// ArrivalTolerance is the remaining distance below which a moving
	// unit snaps to its destination.
	ArrivalTolerance = 0.5
)

// EffectiveAccuracy computes the hit probability for a shot at distance d.
// Accuracy falls off linearly with range and is exactly 0 for every
// d >= MaxEffectiveRange, never negative.
func EffectiveAccuracy(base, d float64) float64 {
	falloff := 1.0 - d/MaxEffectiveRange
	if falloff < 0 {
		falloff = 0
	}
	return base * falloff
}

// BulletFlightTime returns the seconds a bullet fired at distance d stays
// in flight before its hit (or miss) resolves.
func BulletFlightTime(d float64) float64 {
	return d/ProjectileSpeed + BulletFuse
}

// StrikeKillChance computes the lethal probability for a unit at distance d
// from an airstrike impact point with the given blast radius: 1.0 at the
// center, 0.5 at the boundary, 0 at or beyond it.
func StrikeKillChance(d, radius float64) float64 {
	if radius <= 0 || d >= radius {
		return 0
	}
	return 1.0 - 0.5*(d/radius)
}
