package entity

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/prefabs"
	"github.com/milk9111/npccore/steer"
)

// Level is what LoadLevel put into the worlds.
type Level struct {
	Name    string
	Players []ecs.Entity
	NPCs    []ecs.Entity
}

// SpawnNPC spawns the named archetype and, for weapon users, its weapon
// already selected.
func SpawnNPC(w *ecs.World, phys *physics.World, reg *prefabs.Registry, archetype string, pos mgl64.Vec3, yaw float64) (ecs.Entity, error) {
	spec, err := reg.NPC(archetype)
	if err != nil {
		return 0, fmt.Errorf("npc: load spec: %w", err)
	}
	entity, err := NewNPC(w, phys, spec, pos, yaw)
	if err != nil {
		return 0, err
	}
	if !spec.UseWeapon {
		return entity, nil
	}
	if _, err := GiveItem(w, reg, entity, spec.Weapon, true); err != nil {
		return 0, fmt.Errorf("npc %s: weapon: %w", spec.Name, err)
	}
	return entity, nil
}

// GiveItem spawns the named item straight into holder's inventory.
func GiveItem(w *ecs.World, reg *prefabs.Registry, holder ecs.Entity, name string, active bool) (ecs.Entity, error) {
	spec, err := reg.Item(name)
	if err != nil {
		return 0, fmt.Errorf("item: load spec: %w", err)
	}
	item, err := NewItem(w, spec)
	if err != nil {
		return 0, err
	}
	if err := Equip(w, holder, item, active); err != nil {
		ecs.DestroyEntity(w, item)
		return 0, err
	}
	return item, nil
}

// LoadLevel adds the level geometry to phys and spawns its players and
// agents. Agents that follow the player chase the nearest one.
func LoadLevel(w *ecs.World, phys *physics.World, reg *prefabs.Registry, spec prefabs.LevelSpec) (*Level, error) {
	level := &Level{Name: spec.Name}

	for i, b := range spec.Boxes {
		layer, err := physics.ParseLayer(b.Layer)
		if err != nil {
			return nil, fmt.Errorf("level %s: box %d: %w", spec.Name, i, err)
		}
		box := cube.Box(b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
		phys.AddStatic(box, layer, physics.LookupSurface(b.Surface))
	}

	for i, p := range spec.Players {
		player, err := NewPlayer(w, phys, mgl64.Vec3(p.Position), p.Health)
		if err != nil {
			return nil, fmt.Errorf("level %s: player %d: %w", spec.Name, i, err)
		}
		level.Players = append(level.Players, player)
	}

	for i, n := range spec.NPCs {
		pos := mgl64.Vec3(n.Position)
		npc, err := SpawnNPC(w, phys, reg, n.Archetype, pos, n.Yaw)
		if err != nil {
			return nil, fmt.Errorf("level %s: npc %d: %w", spec.Name, i, err)
		}
		for _, name := range n.Items {
			if _, err := GiveItem(w, reg, npc, name, false); err != nil {
				return nil, fmt.Errorf("level %s: npc %d: %w", spec.Name, i, err)
			}
		}

		steering, _ := ecs.Get(w, npc, component.SteeringComponent.Kind())
		switch {
		case len(n.Path) > 0:
			points := make([]mgl64.Vec3, len(n.Path))
			for j, p := range n.Path {
				points[j] = mgl64.Vec3(p)
			}
			steering.Steer = steer.NewPath(points, n.Loop)
		case n.FollowPlayer:
			if target, ok := nearest(w, level.Players, pos); ok {
				steering.Steer = &steer.Follow{Target: FollowEntity(w, target)}
			}
		}
		level.NPCs = append(level.NPCs, npc)
	}

	return level, nil
}

// FollowEntity resolves target's position each tick until it dies or runs
// out of health.
func FollowEntity(w *ecs.World, target ecs.Entity) func() (mgl64.Vec3, bool) {
	return func() (mgl64.Vec3, bool) {
		if !ecs.IsAlive(w, target) {
			return mgl64.Vec3{}, false
		}
		if health, ok := ecs.Get(w, target, component.HealthComponent.Kind()); ok && health.Current <= 0 {
			return mgl64.Vec3{}, false
		}
		tf, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return mgl64.Vec3{}, false
		}
		return tf.Position, true
	}
}

func nearest(w *ecs.World, candidates []ecs.Entity, pos mgl64.Vec3) (ecs.Entity, bool) {
	best, bestDist := ecs.NoEntity, 0.0
	for _, e := range candidates {
		tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		d := tf.Position.Sub(pos).Len()
		if best == ecs.NoEntity || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, best != ecs.NoEntity
}
