package system

import (
	"github.com/d5/tengo/v2"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/prefabs"
)

// NPCSystem runs the per-tick simulation of every agent: locomotion,
// archetype hooks, the equipped item and animation.
type NPCSystem struct {
	physics  *physics.World
	mover    *GroundMover
	notifier Notifier

	loadScript func(name string) ([]byte, error)
	compiled   map[string]*tengo.Compiled
	scripts    map[ecs.Entity]*npcScript

	items           map[string]any
	traceExtensions []TraceExtension
	corpseTTL       float64
}

type NPCOption func(*NPCSystem)

func WithNotifier(n Notifier) NPCOption {
	return func(s *NPCSystem) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithScriptLoader replaces where archetype scripts are read from.
func WithScriptLoader(load func(name string) ([]byte, error)) NPCOption {
	return func(s *NPCSystem) {
		if load != nil {
			s.loadScript = load
		}
	}
}

func WithCorpseTTL(seconds float64) NPCOption {
	return func(s *NPCSystem) {
		if seconds > 0 {
			s.corpseTTL = seconds
		}
	}
}

func WithTraceExtension(ext TraceExtension) NPCOption {
	return func(s *NPCSystem) {
		if ext != nil {
			s.traceExtensions = append(s.traceExtensions, ext)
		}
	}
}

func NewNPCSystem(phys *physics.World, opts ...NPCOption) *NPCSystem {
	s := &NPCSystem{
		physics:    phys,
		mover:      NewGroundMover(phys),
		notifier:   LogNotifier{},
		loadScript: prefabs.LoadScript,
		compiled:   make(map[string]*tengo.Compiled),
		scripts:    make(map[ecs.Entity]*npcScript),
		corpseTTL:  DefaultCorpseTTL,
	}
	s.RegisterItem("carriable", CarriableBehaviour{})
	s.RegisterItem("pistol", PistolBehaviour{})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NPCSystem) Physics() *physics.World {
	return s.physics
}

func (s *NPCSystem) Mover() *GroundMover {
	return s.mover
}

// InvalidateScripts drops compiled scripts so the next tick reloads them.
func (s *NPCSystem) InvalidateScripts() {
	s.compiled = make(map[string]*tengo.Compiled)
	s.scripts = make(map[ecs.Entity]*npcScript)
}

// Update ticks every live agent in entity order. Agents only simulate on
// the authoritative world.
func (s *NPCSystem) Update(w *ecs.World) {
	if s == nil || w == nil || !w.Authoritative() {
		return
	}
	for _, e := range ecs.Query(w, component.AgentComponent.Kind()) {
		s.Tick(w, e)
	}
	for e := range s.scripts {
		if !ecs.IsAlive(w, e) {
			delete(s.scripts, e)
		}
	}
}

// Tick advances one agent by one step. Once the agent is dead nothing more
// runs for it.
func (s *NPCSystem) Tick(w *ecs.World, e ecs.Entity) {
	steps := []func(*ecs.World, ecs.Entity){
		s.moveTick,
		s.onTick,
		s.simulateActiveChild,
		s.animate,
	}
	for _, step := range steps {
		if !s.agentAlive(w, e) {
			return
		}
		step(w, e)
	}
}

func (s *NPCSystem) onTick(w *ecs.World, e ecs.Entity) {
	s.runHook(w, e, hookTick)
}

func (s *NPCSystem) agentAlive(w *ecs.World, e ecs.Entity) bool {
	if !ecs.IsAlive(w, e) {
		return false
	}
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	return ok && !agent.Dead
}
