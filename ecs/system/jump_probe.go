package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
)

func probeTrace(phys *physics.World, self ecs.Entity, start, end mgl64.Vec3) physics.TraceResult {
	return phys.Ray(start, end).
		HitLayers(physics.LayerWorld).
		Ignore(self).
		Run()
}

// ProbeJump runs the staged obstacle probes from the feet at pos along
// facing. It reports true when an obstacle blocks the way at foot and step
// height, the space above the agent is open, and the way forward is clear
// at full step height: a ledge worth jumping, not a stair or a wall.
func ProbeJump(phys *physics.World, self ecs.Entity, pos, facing mgl64.Vec3) bool {
	fwd, ok := common.SafeNormalize(common.WithZ(facing, 0))
	if !ok || phys == nil {
		return false
	}
	base := pos.Add(common.Up.Mul(jumpProbeLift))
	ahead := fwd.Mul(jumpProbeDistance)

	if !probeTrace(phys, self, base, base.Add(ahead)).Hit {
		return false
	}

	up := probeTrace(phys, self, base, base.Add(common.Up.Mul(jumpStepHeight)))
	if up.Hit {
		return false
	}
	if !probeTrace(phys, self, up.EndPosition, up.EndPosition.Add(ahead)).Hit {
		return false
	}

	up = probeTrace(phys, self, base, base.Add(common.Up.Mul(jumpClearHeight)))
	if up.Hit {
		return false
	}
	return !probeTrace(phys, self, up.EndPosition, up.EndPosition.Add(ahead)).Hit
}

// checkJump launches the agent when the probes call for a jump and the jump
// cooldown has elapsed. It reports whether a jump was launched.
func (s *NPCSystem) checkJump(w *ecs.World, e ecs.Entity, agent *component.Agent, tf *component.Transform, motion *component.Motion) bool {
	now := w.Now()
	if !agent.SinceJump.Ready(now, jumpCooldown) {
		return false
	}
	if !ProbeJump(s.physics, e, tf.Position, common.FacingForward(tf.Rotation)) {
		return false
	}

	agent.SinceJump.Reset(now)
	motion.Grounded = false
	motion.GroundEntity = 0
	motion.GroundSurface = ""
	tf.Position = tf.Position.Add(common.Up.Mul(jumpNudge))
	motion.Velocity = common.WithZ(motion.Velocity, launchSpeed)

	if anim, ok := ecs.Get(w, e, component.AnimParamsComponent.Kind()); ok {
		anim.Trigger("b_jump")
	}
	return true
}
