package system

import (
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
)

// TTLSystem counts TTL components down by the tick length and destroys
// entities when the TTL runs out, along with their physics bodies.
type TTLSystem struct {
	physics *physics.World
}

func NewTTLSystem(phys *physics.World) *TTLSystem {
	return &TTLSystem{physics: phys}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl == nil {
			return
		}

		ttl.Seconds -= dt
		if ttl.Seconds > 0 {
			return
		}

		// TTL expired: destroy the entity
		s.physics.Remove(e)
		ecs.DestroyEntity(w, e)
	})
}
