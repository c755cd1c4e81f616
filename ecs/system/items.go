package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/logger"
)

// CarriableBehaviour is the base behaviour of a held item: it shows while
// active and poses the holder with its hold type.
type CarriableBehaviour struct{}

func (CarriableBehaviour) ActiveStart(ctx ItemContext) {
	ctx.Carriable.Visible = true
	if anim, ok := ecs.Get(ctx.World, ctx.Holder, component.AnimParamsComponent.Kind()); ok {
		CarriableBehaviour{}.Animate(ctx, anim)
	}
}

func (CarriableBehaviour) ActiveEnd(ctx ItemContext, dropped bool) {
	if !dropped {
		ctx.Carriable.Visible = false
	}
}

func (CarriableBehaviour) Animate(ctx ItemContext, anim *component.AnimParams) {
	holdType := ctx.Carriable.HoldType
	if holdType == 0 {
		holdType = 1
	}
	anim.Set("holdtype", holdType)
	anim.Set("aim_body_weight", 1.0)
	anim.Set("holdtype_handedness", ctx.Carriable.Handedness)
}

// PistolBehaviour fires a hitbox trace along the holder's facing whenever a
// living player stands in the line of fire and the fire interval elapsed.
type PistolBehaviour struct {
	CarriableBehaviour
}

func (PistolBehaviour) Simulate(ctx ItemContext) {
	w, s, c := ctx.World, ctx.System, ctx.Carriable
	if !w.Authoritative() {
		return
	}
	now := w.Now()
	if !c.SinceFire.Ready(now, c.FireInterval) {
		return
	}
	tf, ok := ecs.Get(w, ctx.Holder, component.TransformComponent.Kind())
	if !ok {
		return
	}
	agent, ok := ecs.Get(w, ctx.Holder, component.AgentComponent.Kind())
	if !ok {
		return
	}

	eye := s.eyePosition(tf, agent)
	forward := common.FacingForward(tf.Rotation)
	end := eye.Add(forward.Mul(c.Range))
	radius := c.Radius
	if radius <= 0 {
		radius = defaultBulletSize
	}

	hits := s.TraceBullet(w, ctx.Holder, eye, end, radius)
	if len(hits) == 0 || !isLivingPlayer(w, hits[0].Entity) {
		return
	}

	c.SinceFire.Reset(now)
	if anim, ok := ecs.Get(w, ctx.Holder, component.AnimParamsComponent.Kind()); ok {
		anim.Trigger("b_attack")
	}
	for _, tr := range hits {
		emitImpact(w, tr)
		if !tr.Entity.Valid() {
			continue
		}
		info := component.BulletDamage(tr.EndPosition, tr.Direction.Mul(c.Force), c.Damage).
			WithAttacker(uint64(ctx.Holder), uint64(ctx.Item)).
			WithHitbox(tr.HitboxIndex)
		restore := w.SuspendPrediction()
		s.DeliverDamage(w, tr.Entity, info)
		restore()
	}

	logger.For("item").WithFields(logrus.Fields{
		"holder": ctx.Holder,
		"item":   ctx.Item,
		"hits":   len(hits),
	}).Trace("pistol fired")
}
