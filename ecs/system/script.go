package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/logger"
)

const (
	hookTick  = "tick"
	hookMelee = "melee"
)

// npcHookDispatch is appended to every archetype script. Scripts assign a
// `hooks` map of functions taking (npc, state).
const npcHookDispatch = `
if !is_undefined(hooks) && !is_undefined(hooks[__hook]) {
	__handled = true
	hooks[__hook](__npc, __state)
}
`

type npcScript struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	failed   bool
}

func (s *NPCSystem) compileScript(path string) (*tengo.Compiled, error) {
	if c, ok := s.compiled[path]; ok {
		return c.Clone(), nil
	}
	src, err := s.loadScript(path)
	if err != nil {
		return nil, fmt.Errorf("system: load script %s: %w", path, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + npcHookDispatch))
	_ = script.Add("hooks", nil)
	_ = script.Add("__hook", "")
	_ = script.Add("__handled", false)
	_ = script.Add("__npc", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("system: compile script %s: %w", path, err)
	}
	s.compiled[path] = compiled
	return compiled.Clone(), nil
}

func (s *NPCSystem) scriptFor(e ecs.Entity, path string) (*npcScript, error) {
	if rt, ok := s.scripts[e]; ok && rt.path == path {
		return rt, nil
	}
	compiled, err := s.compileScript(path)
	if err != nil {
		// Remember the failure so the load is not retried every tick.
		s.scripts[e] = &npcScript{path: path, failed: true}
		return nil, err
	}
	rt := &npcScript{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.scripts[e] = rt
	return rt, nil
}

// runHook runs the named hook of e's archetype script. It reports whether
// the script defines that hook.
func (s *NPCSystem) runHook(w *ecs.World, e ecs.Entity, hook string) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok || strings.TrimSpace(agent.Archetype.Script) == "" {
		return false
	}
	log := logger.For("script").WithFields(logrus.Fields{
		"entity": e,
		"script": agent.Archetype.Script,
		"hook":   hook,
	})

	rt, err := s.scriptFor(e, agent.Archetype.Script)
	if err != nil {
		log.WithError(err).Error("script disabled")
		return false
	}
	if rt.failed {
		return false
	}

	handled, err := rt.run(hook, s.buildNPCObject(w, e))
	if err != nil {
		rt.failed = true
		log.WithError(err).Error("script disabled")
		return false
	}
	return handled
}

func (rt *npcScript) run(hook string, npc *tengo.ImmutableMap) (bool, error) {
	if err := rt.compiled.Set("__hook", hook); err != nil {
		return false, err
	}
	if err := rt.compiled.Set("__handled", false); err != nil {
		return false, err
	}
	if err := rt.compiled.Set("__npc", npc); err != nil {
		return false, err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return false, err
	}
	if err := rt.compiled.Run(); err != nil {
		return false, err
	}
	return rt.compiled.Get("__handled").Bool(), nil
}

func vec3Object(v [3]float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v[0]},
		&tengo.Float{Value: v[1]},
		&tengo.Float{Value: v[2]},
	}}
}

func (s *NPCSystem) buildNPCObject(w *ecs.World, e ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["entity"] = &tengo.UserFunction{Name: "entity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(e)}, nil
	}}

	values["strike"] = &tengo.UserFunction{Name: "strike", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		damage, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "damage", Expected: "float", Found: args[0].TypeName()}
		}
		force, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "force", Expected: "float", Found: args[1].TypeName()}
		}
		return &tengo.Int{Value: int64(s.MeleeStrike(w, e, damage, force))}, nil
	}}

	values["health"] = &tengo.UserFunction{Name: "health", Value: func(args ...tengo.Object) (tengo.Object, error) {
		agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
		if !ok {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: agent.Health}, nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
		if !ok {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: agent.NowSpeed}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return vec3Object([3]float64{}), nil
		}
		return vec3Object(tf.Position), nil
	}}

	values["grounded"] = &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
		motion, ok := ecs.Get(w, e, component.MotionComponent.Kind())
		if ok && motion.Grounded {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["hostile_in_reach"] = &tengo.UserFunction{Name: "hostile_in_reach", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.HostileInReach(w, e) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["set_anim"] = &tengo.UserFunction{Name: "set_anim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		anim, ok := ecs.Get(w, e, component.AnimParamsComponent.Kind())
		if !ok {
			return tengo.FalseValue, nil
		}
		name, _ := tengo.ToString(args[0])
		if name == "" {
			return tengo.FalseValue, nil
		}
		value := tengo.ToInterface(args[1])
		if i, ok := value.(int64); ok {
			value = int(i)
		}
		anim.Set(name, value)
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			str, _ := tengo.ToString(a)
			parts = append(parts, str)
		}
		logger.For("script").WithField("entity", e).Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
