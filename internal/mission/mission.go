// Package mission loads the mission descriptor consumed once at
// initialization: spawn lists, per-team combat profiles, and opaque
// terrain blocks. Terrain is passed through to clients untouched; it does
// not affect gunfire or movement resolution at the engine level.
package mission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
)

// Spawn places one unit at mission start.
type Spawn struct {
	X        float64 `yaml:"x" json:"x"`
	Z        float64 `yaml:"z" json:"z"`
	Rotation float64 `yaml:"rotation,omitempty" json:"rotation,omitempty"`
}

// Profile sets the combat numbers shared by a team's spawns. Zero values
// fall back to the defaults below.
type Profile struct {
	Speed    float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	FireRate float64 `yaml:"fireRate,omitempty" json:"fire_rate,omitempty"` // shots per second
	Accuracy float64 `yaml:"accuracy,omitempty" json:"accuracy,omitempty"`  // at zero range
}

// Default combat profiles. Friendlies shoot straighter; hostiles make up
// for it in numbers.
var (
	defaultFriendly = Profile{Speed: 5.0, FireRate: 1.0, Accuracy: 0.85}
	defaultEnemy    = Profile{Speed: 4.5, FireRate: 0.8, Accuracy: 0.65}
)

// Mission is the full descriptor.
type Mission struct {
	Name           string                   `yaml:"name" json:"name"`
	FriendlySpawns []Spawn                  `yaml:"friendlySpawns" json:"friendly_spawns"`
	EnemySpawns    []Spawn                  `yaml:"enemySpawns" json:"enemy_spawns"`
	Friendly       Profile                  `yaml:"friendly,omitempty" json:"friendly,omitempty"`
	Enemy          Profile                  `yaml:"enemy,omitempty" json:"enemy,omitempty"`
	Terrain        []map[string]interface{} `yaml:"terrain,omitempty" json:"terrain,omitempty"`
}

// Parse decodes a YAML mission descriptor.
func Parse(data []byte) (*Mission, error) {
	var m Mission
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mission: %w", err)
	}
	if len(m.FriendlySpawns) == 0 {
		return nil, fmt.Errorf("mission %q has no friendly spawns", m.Name)
	}
	if len(m.EnemySpawns) == 0 {
		return nil, fmt.Errorf("mission %q has no enemy spawns", m.Name)
	}
	return &m, nil
}

// Load reads and parses a mission file.
func Load(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission file: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in patrol mission: the four-man Alpha squad
// on the south edge, a hostile fire team holding the north.
func Default() *Mission {
	return &Mission{
		Name: "Patrol",
		FriendlySpawns: []Spawn{
			{X: -6, Z: -35},
			{X: -2, Z: -35},
			{X: 2, Z: -35},
			{X: 6, Z: -35},
		},
		EnemySpawns: []Spawn{
			{X: -8, Z: 30, Rotation: -1.5708},
			{X: 0, Z: 34, Rotation: -1.5708},
			{X: 8, Z: 30, Rotation: -1.5708},
		},
	}
}

// BuildUnits materializes the roster entries: Alpha-1..n for friendlies,
// Hostile-1..n for the opposing team. Hostiles spawn with autonomous
// acquisition enabled; friendlies stay passive until ordered to engage.
func BuildUnits(m *Mission) []*unit.Unit {
	fp := withDefaults(m.Friendly, defaultFriendly)
	ep := withDefaults(m.Enemy, defaultEnemy)

	var units []*unit.Unit
	for i, s := range m.FriendlySpawns {
		u := unit.New(
			fmt.Sprintf("friendly-%d", i+1),
			fmt.Sprintf("Alpha-%d", i+1),
			unit.TeamFriendly,
			unit.Vec{X: s.X, Z: s.Z},
			s.Rotation,
		)
		applyProfile(u, fp)
		units = append(units, u)
	}
	for i, s := range m.EnemySpawns {
		u := unit.New(
			fmt.Sprintf("enemy-%d", i+1),
			fmt.Sprintf("Hostile-%d", i+1),
			unit.TeamEnemy,
			unit.Vec{X: s.X, Z: s.Z},
			s.Rotation,
		)
		applyProfile(u, ep)
		u.EngageEnabled = true
		units = append(units, u)
	}
	return units
}

func withDefaults(p, def Profile) Profile {
	if p.Speed <= 0 {
		p.Speed = def.Speed
	}
	if p.FireRate <= 0 {
		p.FireRate = def.FireRate
	}
	if p.Accuracy <= 0 {
		p.Accuracy = def.Accuracy
	}
	return p
}

func applyProfile(u *unit.Unit, p Profile) {
	u.Speed = p.Speed
	u.FireInterval = 1.0 / p.FireRate
	u.Accuracy = p.Accuracy
}
