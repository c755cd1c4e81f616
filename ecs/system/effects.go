package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
)

// Effect is a cosmetic particle and sound cue for the presentation layer.
type Effect struct {
	Particles string
	Sound     string
	Position  mgl64.Vec3
	Normal    mgl64.Vec3
	Entity    ecs.Entity
}

// DamageEvent records one damage delivery.
type DamageEvent struct {
	Victim ecs.Entity
	Info   component.DamageInfo
}

const (
	goreParticlesBig   = "particles/impact.flesh.bloodpuff-big"
	goreParticlesFlesh = "particles/impact.flesh-big"
	goreSound          = "kersplat"
)

func emitEffect(w *ecs.World, fx Effect) {
	w.Emit(ecs.EventEffect, fx)
}

// emitImpact plays the struck surface's bullet impact.
func emitImpact(w *ecs.World, tr physics.TraceResult) {
	if !tr.Hit {
		return
	}
	surface := tr.Surface
	if surface == nil {
		surface = physics.LookupSurface("default")
	}
	emitEffect(w, Effect{
		Particles: surface.ImpactParticles,
		Sound:     surface.ImpactSound,
		Position:  tr.EndPosition,
		Normal:    tr.Normal,
		Entity:    tr.Entity,
	})
}

func emitGore(w *ecs.World, pos mgl64.Vec3, victim ecs.Entity) {
	emitEffect(w, Effect{Particles: goreParticlesBig, Position: pos, Entity: victim})
	emitEffect(w, Effect{Particles: goreParticlesFlesh, Position: pos, Entity: victim})
	emitEffect(w, Effect{Sound: goreSound, Position: pos, Entity: victim})
}
