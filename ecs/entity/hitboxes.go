package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/prefabs"
)

var ErrUnknownHitboxGroup = errors.New("entity: unknown hitbox group")

var hitboxGroups = map[string]int{
	"generic":   component.HitboxGroupGeneric,
	"head":      component.HitboxGroupHead,
	"chest":     component.HitboxGroupChest,
	"stomach":   component.HitboxGroupStomach,
	"left_arm":  component.HitboxGroupLeftArm,
	"right_arm": component.HitboxGroupRightArm,
	"left_leg":  component.HitboxGroupLeftLeg,
	"right_leg": component.HitboxGroupRightLeg,
}

// ParseHitboxGroup resolves a group name as written in archetype files. An
// empty name is the generic group.
func ParseHitboxGroup(name string) (int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return component.HitboxGroupGeneric, nil
	}
	group, ok := hitboxGroups[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHitboxGroup, name)
	}
	return group, nil
}

// HumanoidHitboxes lays out head, torso, arms and legs inside a hull of the
// given height and radius.
func HumanoidHitboxes(height, radius float64) []component.Hitbox {
	h, r := height, radius
	box := func(index, group int, bone string, min, max mgl64.Vec3) component.Hitbox {
		return component.Hitbox{Index: index, Group: group, Bone: bone, Min: min, Max: max}
	}
	return []component.Hitbox{
		box(0, component.HitboxGroupHead, "head", mgl64.Vec3{-0.6 * r, -0.6 * r, 0.8 * h}, mgl64.Vec3{0.6 * r, 0.6 * r, h}),
		box(1, component.HitboxGroupChest, "spine_2", mgl64.Vec3{-0.8 * r, -0.6 * r, 0.55 * h}, mgl64.Vec3{0.8 * r, 0.6 * r, 0.8 * h}),
		box(2, component.HitboxGroupStomach, "spine_0", mgl64.Vec3{-0.8 * r, -0.6 * r, 0.4 * h}, mgl64.Vec3{0.8 * r, 0.6 * r, 0.55 * h}),
		box(3, component.HitboxGroupLeftArm, "arm_upper_L", mgl64.Vec3{-0.5 * r, 0.6 * r, 0.45 * h}, mgl64.Vec3{0.5 * r, r, 0.8 * h}),
		box(4, component.HitboxGroupRightArm, "arm_upper_R", mgl64.Vec3{-0.5 * r, -r, 0.45 * h}, mgl64.Vec3{0.5 * r, -0.6 * r, 0.8 * h}),
		box(5, component.HitboxGroupLeftLeg, "leg_upper_L", mgl64.Vec3{-0.6 * r, 0, 0}, mgl64.Vec3{0.6 * r, 0.6 * r, 0.4 * h}),
		box(6, component.HitboxGroupRightLeg, "leg_upper_R", mgl64.Vec3{-0.6 * r, -0.6 * r, 0}, mgl64.Vec3{0.6 * r, 0, 0.4 * h}),
	}
}

// modelHitboxes uses the archetype's own hitboxes when it lists any, and the
// humanoid layout otherwise.
func modelHitboxes(spec prefabs.NPCSpec) ([]component.Hitbox, error) {
	if len(spec.Hitboxes) == 0 {
		return HumanoidHitboxes(spec.Hull.Height, spec.Hull.Radius), nil
	}
	out := make([]component.Hitbox, 0, len(spec.Hitboxes))
	for i, hb := range spec.Hitboxes {
		group, err := ParseHitboxGroup(hb.Group)
		if err != nil {
			return nil, fmt.Errorf("hitbox %d: %w", i, err)
		}
		out = append(out, component.Hitbox{
			Index: i,
			Group: group,
			Bone:  hb.Bone,
			Min:   mgl64.Vec3(hb.Min),
			Max:   mgl64.Vec3(hb.Max),
		})
	}
	return out, nil
}

func hitboxShapes(hitboxes []component.Hitbox) []physics.HitboxShape {
	shapes := make([]physics.HitboxShape, 0, len(hitboxes))
	for _, hb := range hitboxes {
		shapes = append(shapes, physics.HitboxShape{
			Index: hb.Index,
			Box:   cube.Box(hb.Min[0], hb.Min[1], hb.Min[2], hb.Max[0], hb.Max[1], hb.Max[2]),
		})
	}
	return shapes
}
