package entity

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
)

const (
	playerHeight = 72.0
	playerRadius = 16.0
)

// NewPlayer spawns a player body agents can chase, strike and shoot.
func NewPlayer(w *ecs.World, phys *physics.World, pos mgl64.Vec3, health float64) (ecs.Entity, error) {
	if health <= 0 {
		health = 100
	}
	entity := ecs.CreateEntity(w)
	fail := func(what string, err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("player: add %s: %w", what, err)
	}

	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return fail("player tag", err)
	}

	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health}); err != nil {
		return fail("health", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: pos,
		Rotation: mgl64.QuatIdent(),
	}); err != nil {
		return fail("transform", err)
	}

	if err := ecs.Add(w, entity, component.MotionComponent.Kind(), &component.Motion{}); err != nil {
		return fail("motion", err)
	}

	if err := ecs.Add(w, entity, component.ColliderComponent.Kind(), &component.Collider{
		Height:  playerHeight,
		Radius:  playerRadius,
		Surface: "flesh",
	}); err != nil {
		return fail("collider", err)
	}

	box := cube.Box(-playerRadius, -playerRadius, 0, playerRadius, playerRadius, playerHeight)
	if _, err := phys.Add(entity, physics.LayerActor, box, pos, physics.LookupSurface("flesh")); err != nil {
		return fail("body", err)
	}

	return entity, nil
}

// MovePlayer teleports a player, keeping its body in sync.
func MovePlayer(w *ecs.World, phys *physics.World, player ecs.Entity, pos mgl64.Vec3) bool {
	tf, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	tf.Position = pos
	phys.SetPosition(player, pos)
	return true
}
