package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/logger"
	"github.com/milk9111/npccore/physics"
)

// MeleeStrike swings at everything within reach of e. The swing roots the
// agent and plays the attack animation anywhere; damage is only dealt on
// the authoritative world. It returns the number of victims hit.
func (s *NPCSystem) MeleeStrike(w *ecs.World, e ecs.Entity, damage, force float64) int {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok || agent.Dead {
		return 0
	}
	tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0
	}

	if anim, ok := ecs.Get(w, e, component.AnimParamsComponent.Kind()); ok {
		rng := w.Rand()
		anim.Set("holdtype", 4)
		if rng.IntN(2) == 1 {
			anim.Set("holdtype_attack", 2.0)
		} else {
			anim.Set("holdtype_attack", 1.0)
		}
		switch {
		case rng.IntN(2) == 1:
			anim.Set("holdtype_handedness", 1)
		case rng.IntN(3) == 1:
			anim.Set("holdtype_handedness", 2)
		default:
			anim.Set("holdtype_handedness", 0)
		}
		anim.Trigger("b_attack")
	}

	if motion, ok := ecs.Get(w, e, component.MotionComponent.Kind()); ok {
		motion.Velocity = mgl64.Vec3{}
	}
	forward := common.FacingForward(tf.Rotation)

	if !w.Authoritative() {
		return 0
	}

	eye := s.eyePosition(tf, agent)
	hits := 0
	for _, victim := range s.physics.FindInSphere(tf.Position, meleeRadius, physics.LayerEntities) {
		if victim == e || !ecs.IsAlive(w, victim) {
			continue
		}
		body, ok := s.physics.Body(victim)
		if !ok {
			continue
		}

		info := component.BulletDamage(body.Position, forward.Mul(meleeForceScale*force), damage).
			WithAttacker(uint64(e), 0).
			WithFlag(component.DamageBlunt).
			WithHitbox(s.hitLocation(e, victim, eye))

		restore := w.SuspendPrediction()
		delivered := s.DeliverDamage(w, victim, info)
		if delivered {
			for _, tr := range s.TraceBullet(w, e, eye, eye, meleeImpactRadius) {
				emitImpact(w, tr)
			}
		}
		restore()

		if delivered {
			hits++
		}
	}

	logger.For("npc").WithFields(logrus.Fields{
		"entity": e,
		"hits":   hits,
	}).Trace("melee strike")
	return hits
}

// hitLocation finds which of victim's hitboxes a line from the attacker's
// eye to the victim's centre passes through, or -1.
func (s *NPCSystem) hitLocation(attacker, victim ecs.Entity, eye mgl64.Vec3) int {
	body, ok := s.physics.Body(victim)
	if !ok || len(body.Hitboxes) == 0 {
		return -1
	}
	box := body.WorldBox()
	center := box.Min().Add(box.Max()).Mul(0.5)
	for _, tr := range s.physics.Ray(eye, center).
		UseHitboxes().
		HitLayers(physics.LayerEntities).
		Ignore(attacker).
		RunAll() {
		if tr.Entity == victim {
			return tr.HitboxIndex
		}
	}
	return -1
}

// doMeleeStrike runs the archetype's melee behaviour when its strike timer
// comes up: a script hook if it defines one, else the native capability.
func (s *NPCSystem) doMeleeStrike(w *ecs.World, e ecs.Entity) {
	if s.runHook(w, e, hookMelee) {
		return
	}
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok || agent.Archetype.Melee == nil {
		return
	}
	melee := agent.Archetype.Melee
	if melee.RequireTarget && !s.HostileInReach(w, e) {
		return
	}
	s.MeleeStrike(w, e, melee.Damage, melee.Force)
}

// HostileInReach reports whether a living player is inside melee reach of e.
func (s *NPCSystem) HostileInReach(w *ecs.World, e ecs.Entity) bool {
	tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	for _, other := range s.physics.FindInSphere(tf.Position, meleeRadius, physics.LayerEntities) {
		if other != e && isLivingPlayer(w, other) {
			return true
		}
	}
	return false
}

func isLivingPlayer(w *ecs.World, e ecs.Entity) bool {
	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		return false
	}
	health, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	return !ok || health.Current > 0
}
