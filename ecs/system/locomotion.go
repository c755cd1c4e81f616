package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/logger"
)

// moveTick is the locomotion step of an agent: steering, jump, ground move,
// facing, look, fall damage and the melee timer. It stops early if the
// agent dies along the way.
func (s *NPCSystem) moveTick(w *ecs.World, e ecs.Entity) {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return
	}
	tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	motion, ok := ecs.Get(w, e, component.MotionComponent.Kind())
	if !ok {
		return
	}
	anim, _ := ecs.Get(w, e, component.AnimParamsComponent.Kind())
	dt := w.DeltaTime()

	motion.InputVelocity = mgl64.Vec3{}
	if steering, ok := ecs.Get(w, e, component.SteeringComponent.Kind()); ok && steering.Steer != nil {
		out := steering.Steer.Tick(tf.Position)
		if dir, ok := common.SafeNormalize(common.WithZ(out.Direction, 0)); ok && !out.Finished {
			motion.InputVelocity = dir
			walk := common.WithZ(motion.Velocity, 0)
			walk = common.AddClamped(walk, dir.Mul(dt*walkAcceleration), agent.NowSpeed)
			motion.Velocity = common.WithZ(walk, motion.Velocity[2])

			s.checkJump(w, e, agent, tf, motion)
		}
	}

	fallSpeed := -motion.Velocity[2]
	ground := s.mover.Move(e, tf.Position, motion.Velocity, motion.InputVelocity, dt)
	tf.Position = ground.Position
	motion.Velocity = ground.Velocity
	motion.Grounded = ground.Grounded
	motion.GroundEntity = uint64(ground.GroundEntity)
	motion.GroundSurface = ""
	if ground.Surface != nil {
		motion.GroundSurface = ground.Surface.Name
	}
	s.physics.SetPosition(e, tf.Position)

	if walk := common.WithZ(motion.Velocity, 0); walk.Len() > minTurnSpeed {
		turn := common.LerpInverse(walk.Len(), 0, turnSpeedMax)
		target := common.YawRotation(walk)
		tf.Rotation = common.Slerp(tf.Rotation, target, turn*dt*turnRateScale)
	}

	motion.LookDir = common.LerpVec(motion.LookDir, common.WithZ(motion.InputVelocity, 0).Mul(lookDistance), dt*lookLerpRate)
	motion.LookDir = common.Sanitize(motion.LookDir)
	eye := s.eyePosition(tf, agent)
	anim.Set("look_at", eye.Add(motion.LookDir))
	anim.Set("velocity", motion.Velocity)
	anim.Set("wish_velocity", motion.InputVelocity)

	now := w.Now()
	if motion.Grounded && fallSpeed > fallSpeedThreshold && agent.SinceFall.Ready(now, fallCooldown) {
		agent.SinceFall.Reset(now)
		logger.For("npc").WithFields(logrus.Fields{
			"entity": e,
			"speed":  fallSpeed,
		}).Debug("fall damage")
		s.TakeDamage(w, e, component.DamageInfo{
			Amount:      fallSpeed / fallDamageDivisor,
			Position:    tf.Position,
			Flags:       component.DamageFall,
			HitboxIndex: -1,
		})
		if !s.agentAlive(w, e) {
			return
		}
	}

	strikeTime := agent.Archetype.MeleeStrikeTime
	if strikeTime <= 0 {
		strikeTime = 1
	}
	if agent.SinceMelee.Ready(now, strikeTime) {
		agent.SinceMelee.Reset(now)
		anim.Set("holdtype", 0)
		s.doMeleeStrike(w, e)
	}
}

func (s *NPCSystem) eyePosition(tf *component.Transform, agent *component.Agent) mgl64.Vec3 {
	h := agent.Archetype.EyeHeight
	if h <= 0 {
		h = eyeHeight
	}
	return tf.Position.Add(common.Up.Mul(h))
}
