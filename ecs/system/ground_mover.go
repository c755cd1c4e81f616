package system

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/physics"
)

// GroundState is the outcome of one GroundMover step.
type GroundState struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Grounded bool
	// GroundEntity is NoEntity on level geometry and in the air.
	GroundEntity ecs.Entity
	Surface      *physics.Surface
}

// GroundMover walks a hull over the world: slide and step, snap to the
// floor, friction on the ground and gravity in the air.
type GroundMover struct {
	Physics           *physics.World
	Hull              cube.BBox
	StepSize          float64
	GroundProbe       float64
	Gravity           float64
	FrictionScale     float64
	MaxStandableAngle float64
}

func NewGroundMover(phys *physics.World) *GroundMover {
	return &GroundMover{
		Physics:           phys,
		Hull:              moverHull,
		StepSize:          stepSize,
		GroundProbe:       groundProbe,
		Gravity:           gravity,
		FrictionScale:     frictionScale,
		MaxStandableAngle: maxStandableAngle,
	}
}

// Move advances pos by vel over dt. input is the direction the mover wants
// to go; friction spares the velocity along it so turning keeps momentum.
// self is ignored by every trace.
func (g *GroundMover) Move(self ecs.Entity, pos, vel, input mgl64.Vec3, dt float64) GroundState {
	move := physics.NewMoveHelper(g.Physics, common.Sanitize(pos), common.Sanitize(vel), g.Hull)
	move.MaxStandableAngle = g.MaxStandableAngle
	move.Trace = move.Trace.Ignore(self)

	if !common.IsNearlyZero(move.Velocity, nearlyZero) {
		move.TryUnstuck()
		move.TryMoveWithStep(dt, g.StepSize)
	}

	var state GroundState
	tr := move.TraceDirection(common.Down.Mul(g.GroundProbe))
	if move.IsFloor(tr) {
		state.Grounded = true
		state.GroundEntity = tr.Entity
		state.Surface = tr.Surface
		if !tr.StartedSolid {
			move.Position = tr.EndPosition
		}

		friction := surfaceFriction(tr.Surface) * g.FrictionScale
		if dir, ok := common.SafeNormalize(input); ok {
			along := move.Velocity.Dot(dir)
			move.Velocity = move.Velocity.Sub(dir.Mul(along))
			move.ApplyFriction(friction, dt)
			move.Velocity = move.Velocity.Add(dir.Mul(along))
		} else {
			move.ApplyFriction(friction, dt)
		}
	} else {
		move.Velocity = move.Velocity.Add(common.Down.Mul(g.Gravity * dt))
	}

	state.Position = common.Sanitize(move.Position)
	state.Velocity = common.Sanitize(move.Velocity)
	return state
}

func surfaceFriction(s *physics.Surface) float64 {
	if s == nil {
		return physics.LookupSurface("default").Friction
	}
	return s.Friction
}
