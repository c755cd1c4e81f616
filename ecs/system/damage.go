package system

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/logger"
	"github.com/milk9111/npccore/physics"
)

// ScaleForHitbox applies the hit-location multiplier to info. A hit on the
// head group deals double damage and reports true. It is the only place
// that multiplier is applied.
func ScaleForHitbox(model *component.Model, info component.DamageInfo) (component.DamageInfo, bool) {
	if info.HitboxIndex < 0 || model.HitboxGroup(info.HitboxIndex) != component.HitboxGroupHead {
		return info, false
	}
	info.Amount *= headshotMultiplier
	return info, true
}

// DeliverDamage hands info to victim through whatever damage intake it
// has: agents take it through TakeDamage, other health holders lose health
// directly and loose physics objects get pushed. It reports whether the
// victim could take damage at all.
func (s *NPCSystem) DeliverDamage(w *ecs.World, victim ecs.Entity, info component.DamageInfo) bool {
	if !w.Authoritative() || !ecs.IsAlive(w, victim) {
		return false
	}

	switch {
	case ecs.Has(w, victim, component.AgentComponent.Kind()):
		model, _ := ecs.Get(w, victim, component.ModelComponent.Kind())
		scaled, _ := ScaleForHitbox(model, info)
		w.Emit(ecs.EventDamage, DamageEvent{Victim: victim, Info: scaled})
		s.TakeDamage(w, victim, info)
	case ecs.Has(w, victim, component.HealthComponent.Kind()):
		health, _ := ecs.Get(w, victim, component.HealthComponent.Kind())
		model, _ := ecs.Get(w, victim, component.ModelComponent.Kind())
		info, _ = ScaleForHitbox(model, info)
		w.Emit(ecs.EventDamage, DamageEvent{Victim: victim, Info: info})
		health.Current -= info.Amount
		health.LastAttacker = info.Attacker
	case ecs.Has(w, victim, component.MotionComponent.Kind()):
		motion, _ := ecs.Get(w, victim, component.MotionComponent.Kind())
		w.Emit(ecs.EventDamage, DamageEvent{Victim: victim, Info: info})
		motion.Velocity = common.Sanitize(motion.Velocity.Add(info.Force))
	default:
		return false
	}
	return true
}

// TakeDamage is the damage intake of an agent. The agent dies once its
// health reaches zero. A player attacker then gets private feedback about
// the hit, unless the agent is decorative.
func (s *NPCSystem) TakeDamage(w *ecs.World, e ecs.Entity, info component.DamageInfo) {
	if !w.Authoritative() {
		return
	}
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok || agent.Dead {
		return
	}
	model, _ := ecs.Get(w, e, component.ModelComponent.Kind())

	info, _ = ScaleForHitbox(model, info)
	agent.LastDamage = info
	agent.Health -= info.Amount

	killed := agent.Health <= 0
	attacker := ecs.Entity(info.Attacker)
	fraction := common.LerpInverse(agent.Health, feedbackFullHealth, 0)
	if killed {
		s.die(w, e, agent, model)
	}
	if agent.Decorative() {
		return
	}

	player, ok := resolvePlayer(w, attacker)
	if !ok {
		return
	}
	s.notifier.DamageFeedback(player, DamageFeedback{
		ID:             uuid.New(),
		Victim:         e,
		Position:       info.Position,
		Amount:         info.Amount,
		HealthFraction: fraction,
		Killed:         killed,
	})
}

// resolvePlayer follows attacker to the player responsible for it: the
// attacker itself, or the owner of a deployed entity or carried item.
func resolvePlayer(w *ecs.World, attacker ecs.Entity) (ecs.Entity, bool) {
	if !attacker.Valid() || !ecs.IsAlive(w, attacker) {
		return ecs.NoEntity, false
	}
	if ecs.Has(w, attacker, component.PlayerTagComponent.Kind()) {
		return attacker, true
	}
	var owner ecs.Entity
	if o, ok := ecs.Get(w, attacker, component.OwnerComponent.Kind()); ok {
		owner = ecs.Entity(o.Entity)
	} else if c, ok := ecs.Get(w, attacker, component.CarriableComponent.Kind()); ok {
		owner = ecs.Entity(c.Owner)
	}
	if owner.Valid() && ecs.IsAlive(w, owner) && ecs.Has(w, owner, component.PlayerTagComponent.Kind()) {
		return owner, true
	}
	return ecs.NoEntity, false
}

// die is the terminal transition of an agent: it leaves a corpse behind,
// removes the agent from the simulation and announces the kill.
func (s *NPCSystem) die(w *ecs.World, e ecs.Entity, agent *component.Agent, model *component.Model) {
	if agent.Dead {
		return
	}
	agent.Dead = true
	last := agent.LastDamage
	agent.IsHeadShot = last.HitboxIndex >= 0 && model.HitboxGroup(last.HitboxIndex) == component.HitboxGroupHead

	tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	pos := last.Position
	if tf != nil {
		pos = tf.Position
	}

	corpse := s.spawnCorpse(w, e, agent, model, tf)
	s.destroyInventory(w, e)
	s.physics.Remove(e)
	delete(s.scripts, e)

	attacker := ecs.Entity(last.Attacker)
	evt := KillEvent{
		ID:        uuid.New(),
		Victim:    e,
		Attacker:  attacker,
		Archetype: agent.Archetype.Name,
		Headshot:  agent.IsHeadShot,
		Position:  pos,
		Tick:      w.Tick(),
	}

	if last.Flags.Has(component.DamageVehicle) {
		emitGore(w, last.Position, e)
	}

	ecs.DestroyEntity(w, e)

	logger.For("npc").WithFields(logrus.Fields{
		"entity":    e,
		"archetype": agent.Archetype.Name,
		"headshot":  agent.IsHeadShot,
		"corpse":    corpse,
	}).Info("agent killed")

	s.notifier.AgentKilled(evt)
	w.Emit(ecs.EventKilled, evt)
}

// spawnCorpse replaces the agent with a ragdoll that keeps its momentum
// plus the impulse of the killing blow.
func (s *NPCSystem) spawnCorpse(w *ecs.World, e ecs.Entity, agent *component.Agent, model *component.Model, tf *component.Transform) ecs.Entity {
	if tf == nil {
		return ecs.NoEntity
	}
	last := agent.LastDamage
	velocity := last.Force
	if motion, ok := ecs.Get(w, e, component.MotionComponent.Kind()); ok {
		velocity = velocity.Add(motion.Velocity)
	}

	corpse := ecs.CreateEntity(w)
	c := &component.Corpse{
		Archetype: agent.Archetype.Name,
		Force:     last.Force,
		Headshot:  agent.IsHeadShot,
		Source:    uint64(e),
	}
	if model != nil {
		c.Model = model.Name
		c.Bone = model.HitboxBone(last.HitboxIndex)
	}
	_ = ecs.Add(w, corpse, component.CorpseComponent.Kind(), c)
	_ = ecs.Add(w, corpse, component.TransformComponent.Kind(), &component.Transform{Position: tf.Position, Rotation: tf.Rotation})
	_ = ecs.Add(w, corpse, component.MotionComponent.Kind(), &component.Motion{Velocity: common.Sanitize(velocity)})
	_ = ecs.Add(w, corpse, component.TTLComponent.Kind(), &component.TTL{Seconds: s.corpseTTL})

	radius, height := agent.Archetype.HullRadius, agent.Archetype.HullHeight
	if radius <= 0 {
		radius = 8
	}
	if height <= 0 {
		height = 72
	}
	box := cube.Box(-radius, -radius, 0, radius, radius, height/4)
	if _, err := s.physics.Add(corpse, physics.LayerDebris, box, tf.Position, physics.LookupSurface("flesh")); err != nil {
		logger.For("npc").WithError(err).Warn("corpse body")
	}
	return corpse
}
