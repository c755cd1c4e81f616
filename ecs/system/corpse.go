package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
)

// CorpseSystem lets corpses fall and slide to rest with the same ground
// mover the agents use.
type CorpseSystem struct {
	mover *GroundMover
}

func NewCorpseSystem(mover *GroundMover) *CorpseSystem {
	return &CorpseSystem{mover: mover}
}

func (s *CorpseSystem) Update(w *ecs.World) {
	if s == nil || s.mover == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach3(w, component.CorpseComponent.Kind(), component.TransformComponent.Kind(), component.MotionComponent.Kind(),
		func(e ecs.Entity, _ *component.Corpse, tf *component.Transform, motion *component.Motion) {
			state := s.mover.Move(e, tf.Position, motion.Velocity, mgl64.Vec3{}, dt)
			tf.Position = state.Position
			motion.Velocity = state.Velocity
			motion.Grounded = state.Grounded
			motion.GroundEntity = uint64(state.GroundEntity)
			s.mover.Physics.SetPosition(e, tf.Position)
		})
}
