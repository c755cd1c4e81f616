package component

import "github.com/go-gl/mathgl/mgl64"

const (
	HitboxGroupGeneric  = 0
	HitboxGroupHead     = 1
	HitboxGroupChest    = 2
	HitboxGroupStomach  = 3
	HitboxGroupLeftArm  = 4
	HitboxGroupRightArm = 5
	HitboxGroupLeftLeg  = 6
	HitboxGroupRightLeg = 7
)

// Hitbox is a damage volume relative to the entity position.
type Hitbox struct {
	Index int
	Group int
	Bone  string
	Min   mgl64.Vec3
	Max   mgl64.Vec3
}

// Model is the visual/collision setup attached at spawn.
type Model struct {
	Name     string
	Dress    []string
	Hitboxes []Hitbox
}

func (m *Model) hitbox(index int) (Hitbox, bool) {
	if m == nil {
		return Hitbox{}, false
	}
	for _, hb := range m.Hitboxes {
		if hb.Index == index {
			return hb, true
		}
	}
	return Hitbox{}, false
}

// HitboxGroup returns the group of the hitbox at index, or
// HitboxGroupGeneric when the index is unknown.
func (m *Model) HitboxGroup(index int) int {
	hb, ok := m.hitbox(index)
	if !ok {
		return HitboxGroupGeneric
	}
	return hb.Group
}

// HitboxBone returns the bone the hitbox at index is attached to.
func (m *Model) HitboxBone(index int) string {
	hb, ok := m.hitbox(index)
	if !ok {
		return ""
	}
	return hb.Bone
}

// HitboxAt finds the hitbox whose height band contains local z, preferring
// the smallest band. It returns -1 when none does.
func (m *Model) HitboxAt(localZ float64) int {
	if m == nil {
		return -1
	}
	best, bestSpan := -1, 0.0
	for _, hb := range m.Hitboxes {
		if localZ < hb.Min[2] || localZ > hb.Max[2] {
			continue
		}
		span := hb.Max[2] - hb.Min[2]
		if best < 0 || span < bestSpan {
			best, bestSpan = hb.Index, span
		}
	}
	return best
}

var ModelComponent = NewComponent[Model]()
