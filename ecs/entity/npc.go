package entity

import (
	"fmt"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/prefabs"
)

// Archetype converts a loaded spec into the tuning an agent carries.
func Archetype(spec prefabs.NPCSpec) component.Archetype {
	a := component.Archetype{
		Name:            spec.Name,
		Model:           spec.Model,
		EyeHeight:       spec.EyeHeight,
		HullHeight:      spec.Hull.Height,
		HullRadius:      spec.Hull.Radius,
		MeleeStrikeTime: spec.MeleeStrikeTime,
		UseWeapon:       spec.UseWeapon,
		Weapon:          spec.Weapon,
		Script:          spec.Script,
	}
	if spec.Melee != nil {
		required := true
		if spec.Melee.RequireTarget != nil {
			required = *spec.Melee.RequireTarget
		}
		a.Melee = &component.MeleeCapability{
			Damage:        spec.Melee.Damage,
			Force:         spec.Melee.Force,
			RequireTarget: required,
		}
	}
	return a
}

// Yaw turns a heading in degrees into a rotation about the up axis.
func Yaw(degrees float64) mgl64.Quat {
	rad := mgl64.DegToRad(degrees)
	return common.YawRotation(mgl64.Vec3{math.Cos(rad), math.Sin(rad), 0})
}

// NewNPC spawns an agent of the given archetype standing at pos. Its cruise
// speed is drawn once from the archetype's range using the world's random
// source. The agent starts without steering and without items.
func NewNPC(w *ecs.World, phys *physics.World, spec prefabs.NPCSpec, pos mgl64.Vec3, yaw float64) (ecs.Entity, error) {
	hitboxes, err := modelHitboxes(spec)
	if err != nil {
		return 0, fmt.Errorf("npc %s: %w", spec.Name, err)
	}

	speed := spec.Speed.Min
	if spec.Speed.Max > spec.Speed.Min {
		speed += w.Rand().Float64() * (spec.Speed.Max - spec.Speed.Min)
	}

	entity := ecs.CreateEntity(w)
	fail := func(what string, err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("npc: add %s: %w", what, err)
	}

	if err := ecs.Add(w, entity, component.NPCTagComponent.Kind(), &component.NPCTag{}); err != nil {
		return fail("npc tag", err)
	}

	if err := ecs.Add(w, entity, component.AgentComponent.Kind(), &component.Agent{
		Archetype:   Archetype(spec),
		Health:      spec.SpawnHealth,
		SpawnHealth: spec.SpawnHealth,
		NowSpeed:    speed,
	}); err != nil {
		return fail("agent", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: pos,
		Rotation: Yaw(yaw),
	}); err != nil {
		return fail("transform", err)
	}

	if err := ecs.Add(w, entity, component.MotionComponent.Kind(), &component.Motion{}); err != nil {
		return fail("motion", err)
	}

	if err := ecs.Add(w, entity, component.AnimParamsComponent.Kind(), &component.AnimParams{}); err != nil {
		return fail("anim params", err)
	}

	if err := ecs.Add(w, entity, component.ModelComponent.Kind(), &component.Model{
		Name:     spec.Model,
		Dress:    append([]string(nil), spec.Dress...),
		Hitboxes: hitboxes,
	}); err != nil {
		return fail("model", err)
	}

	if err := ecs.Add(w, entity, component.ColliderComponent.Kind(), &component.Collider{
		Height:  spec.Hull.Height,
		Radius:  spec.Hull.Radius,
		Surface: "flesh",
	}); err != nil {
		return fail("collider", err)
	}

	if err := ecs.Add(w, entity, component.EquipmentComponent.Kind(), &component.Equipment{}); err != nil {
		return fail("equipment", err)
	}

	if err := ecs.Add(w, entity, component.InventoryComponent.Kind(), &component.Inventory{}); err != nil {
		return fail("inventory", err)
	}

	if err := ecs.Add(w, entity, component.SteeringComponent.Kind(), &component.Steering{}); err != nil {
		return fail("steering", err)
	}

	r, h := spec.Hull.Radius, spec.Hull.Height
	if _, err := phys.Add(entity, physics.LayerActor, cube.Box(-r, -r, 0, r, r, h), pos, physics.LookupSurface("flesh")); err != nil {
		return fail("body", err)
	}
	phys.SetHitboxes(entity, hitboxShapes(hitboxes))

	return entity, nil
}
