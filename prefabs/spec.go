package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSpec      = errors.New("prefabs: invalid spec")
	ErrUnknownArchetype = errors.New("prefabs: unknown archetype")
	ErrUnknownItem      = errors.New("prefabs: unknown item")
	ErrUnknownLevel     = errors.New("prefabs: unknown level")
)

// LoadSpec reads and decodes filename without schema validation.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type HullSpec struct {
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

type MeleeSpec struct {
	Damage float64 `yaml:"damage"`
	Force  float64 `yaml:"force"`
	// RequireTarget defaults to true when omitted.
	RequireTarget *bool `yaml:"require_target"`
}

type HitboxSpec struct {
	Group string     `yaml:"group"`
	Bone  string     `yaml:"bone"`
	Min   [3]float64 `yaml:"min"`
	Max   [3]float64 `yaml:"max"`
}

// NPCSpec is an agent archetype.
type NPCSpec struct {
	Name            string       `yaml:"name"`
	Model           string       `yaml:"model"`
	Dress           []string     `yaml:"dress"`
	Speed           RangeSpec    `yaml:"speed"`
	SpawnHealth     float64      `yaml:"spawn_health"`
	MeleeStrikeTime float64      `yaml:"melee_strike_time"`
	UseWeapon       bool         `yaml:"use_weapon"`
	Weapon          string       `yaml:"weapon"`
	Melee           *MeleeSpec   `yaml:"melee"`
	Script          string       `yaml:"script"`
	Hull            HullSpec     `yaml:"hull"`
	EyeHeight       float64      `yaml:"eye_height"`
	Hitboxes        []HitboxSpec `yaml:"hitboxes"`
}

func (s *NPCSpec) applyDefaults() {
	if s.Model == "" {
		s.Model = "models/citizen/citizen"
	}
	if s.Speed.Min == 0 && s.Speed.Max == 0 {
		s.Speed = RangeSpec{Min: 100, Max: 500}
	}
	if s.Speed.Max < s.Speed.Min {
		s.Speed.Max = s.Speed.Min
	}
	if s.MeleeStrikeTime <= 0 {
		s.MeleeStrikeTime = 1
	}
	if s.Hull.Height <= 0 {
		s.Hull.Height = 72
	}
	if s.Hull.Radius <= 0 {
		s.Hull.Radius = 8
	}
	if s.EyeHeight <= 0 {
		s.EyeHeight = 64
	}
	if s.Melee != nil && s.Melee.RequireTarget == nil {
		required := true
		s.Melee.RequireTarget = &required
	}
}

// ItemSpec is a carriable item.
type ItemSpec struct {
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"`
	Bucket       int     `yaml:"bucket"`
	BucketWeight int     `yaml:"bucket_weight"`
	HoldType     int     `yaml:"hold_type"`
	Handedness   int     `yaml:"handedness"`
	Damage       float64 `yaml:"damage"`
	Force        float64 `yaml:"force"`
	Range        float64 `yaml:"range"`
	Radius       float64 `yaml:"radius"`
	FireInterval float64 `yaml:"fire_interval"`
}

func (s *ItemSpec) applyDefaults() {
	if s.Kind == "" {
		s.Kind = "carriable"
	}
	if s.Bucket == 0 && s.BucketWeight == 0 {
		s.Bucket, s.BucketWeight = 1, 100
	}
	if s.Range <= 0 {
		s.Range = 4096
	}
	if s.Radius <= 0 {
		s.Radius = 2
	}
}

type BoxSpec struct {
	Min     [3]float64 `yaml:"min"`
	Max     [3]float64 `yaml:"max"`
	Layer   string     `yaml:"layer"`
	Surface string     `yaml:"surface"`
}

type LevelNPCSpec struct {
	Archetype    string       `yaml:"archetype"`
	Position     [3]float64   `yaml:"position"`
	Yaw          float64      `yaml:"yaw"`
	Path         [][3]float64 `yaml:"path"`
	Loop         bool         `yaml:"loop"`
	FollowPlayer bool         `yaml:"follow_player"`
	Items        []string     `yaml:"items"`
}

type LevelPlayerSpec struct {
	Position [3]float64 `yaml:"position"`
	Health   float64    `yaml:"health"`
}

// LevelSpec lays out level geometry, agents and players.
type LevelSpec struct {
	Name    string            `yaml:"name"`
	Boxes   []BoxSpec         `yaml:"boxes"`
	NPCs    []LevelNPCSpec    `yaml:"npcs"`
	Players []LevelPlayerSpec `yaml:"players"`
}

func (s *LevelSpec) applyDefaults() {
	for i := range s.Boxes {
		if s.Boxes[i].Layer == "" {
			s.Boxes[i].Layer = "static"
		}
		if s.Boxes[i].Surface == "" {
			s.Boxes[i].Surface = "default"
		}
	}
	for i := range s.Players {
		if s.Players[i].Health <= 0 {
			s.Players[i].Health = 100
		}
	}
}

func npcPath(name string) string   { return "npcs/" + baseName(name) + ".yaml" }
func itemPath(name string) string  { return "items/" + baseName(name) + ".yaml" }
func levelPath(name string) string { return "levels/" + baseName(name) + ".yaml" }

func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
}

// LoadNPCSpec loads, validates and completes the named archetype.
func LoadNPCSpec(name string) (NPCSpec, error) {
	spec, err := loadValidated[NPCSpec](npcPath(name), "npc")
	if err != nil {
		return NPCSpec{}, err
	}
	if spec.Name == "" {
		spec.Name = baseName(name)
	}
	spec.applyDefaults()
	return spec, nil
}

func LoadItemSpec(name string) (ItemSpec, error) {
	spec, err := loadValidated[ItemSpec](itemPath(name), "item")
	if err != nil {
		return ItemSpec{}, err
	}
	if spec.Name == "" {
		spec.Name = baseName(name)
	}
	spec.applyDefaults()
	return spec, nil
}

func LoadLevelSpec(name string) (LevelSpec, error) {
	spec, err := loadValidated[LevelSpec](levelPath(name), "level")
	if err != nil {
		return LevelSpec{}, err
	}
	if spec.Name == "" {
		spec.Name = baseName(name)
	}
	spec.applyDefaults()
	return spec, nil
}
