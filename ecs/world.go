package ecs

import (
	"math/rand/v2"

	"github.com/milk9111/npccore/ecs/component"
)

const DefaultTickRate = 60

// Options configures a World. Zero values fall back to defaults.
type Options struct {
	TickRate      int
	Seed          uint64
	Authoritative bool
}

// World owns entities, component stores, the simulation clock and the
// per-world event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue

	tickRate int
	tick     uint64
	now      float64

	rng           *rand.Rand
	authoritative bool
	predicting    bool
}

// NewWorld creates an empty authoritative world ticking at DefaultTickRate.
func NewWorld() *World {
	return NewWorldWithOptions(Options{Seed: 1, Authoritative: true})
}

func NewWorldWithOptions(opts Options) *World {
	rate := opts.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &World{
		stores:        make(map[component.ComponentID]componentStore),
		tickRate:      rate,
		rng:           rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		authoritative: opts.Authoritative,
	}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// DeltaTime is the fixed simulation step in seconds.
func (w *World) DeltaTime() float64 {
	if w == nil || w.tickRate <= 0 {
		return 1.0 / DefaultTickRate
	}
	return 1.0 / float64(w.tickRate)
}

func (w *World) TickRate() int {
	if w == nil {
		return 0
	}
	return w.tickRate
}

// Now is the simulation time in seconds at the start of the current tick.
func (w *World) Now() float64 {
	if w == nil {
		return 0
	}
	return w.now
}

func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Advance moves the clock forward by one fixed step.
func (w *World) Advance() {
	if w == nil {
		return
	}
	w.tick++
	w.now = float64(w.tick) * w.DeltaTime()
}

// Rand is the world's seeded random source. Every random choice the
// simulation makes goes through it so runs are reproducible.
func (w *World) Rand() *rand.Rand {
	if w == nil {
		return nil
	}
	return w.rng
}

func (w *World) Authoritative() bool {
	return w != nil && w.authoritative
}

func (w *World) SetAuthoritative(v bool) {
	if w == nil {
		return
	}
	w.authoritative = v
}

// Predicting reports whether input prediction/replay is active.
func (w *World) Predicting() bool {
	return w != nil && w.predicting
}

func (w *World) SetPredicting(v bool) {
	if w == nil {
		return
	}
	w.predicting = v
}

// SuspendPrediction turns prediction off and returns a func restoring the
// previous state.
func (w *World) SuspendPrediction() func() {
	if w == nil {
		return func() {}
	}
	prev := w.predicting
	w.predicting = false
	return func() { w.predicting = prev }
}

func CreateEntity(w *World) Entity {
	if w == nil {
		return NoEntity
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.remove(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}
