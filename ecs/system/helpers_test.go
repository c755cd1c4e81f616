package system

import (
	"io"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/logger"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/steer"
)

func init() {
	logger.SetOutput(io.Discard)
}

type feedbackCall struct {
	attacker ecs.Entity
	fb       DamageFeedback
}

type recordingNotifier struct {
	kills    []KillEvent
	feedback []feedbackCall
}

func (r *recordingNotifier) AgentKilled(evt KillEvent) {
	r.kills = append(r.kills, evt)
}

func (r *recordingNotifier) DamageFeedback(attacker ecs.Entity, fb DamageFeedback) {
	r.feedback = append(r.feedback, feedbackCall{attacker: attacker, fb: fb})
}

type sim struct {
	w      *ecs.World
	phys   *physics.World
	sys    *NPCSystem
	notify *recordingNotifier
}

// newSim builds an authoritative world with a large concrete floor whose
// top is at z=0.
func newSim(t *testing.T, opts ...NPCOption) *sim {
	t.Helper()
	return newSimWith(t, ecs.NewWorld(), true, opts...)
}

func newSimWith(t *testing.T, w *ecs.World, floor bool, opts ...NPCOption) *sim {
	t.Helper()
	phys := physics.NewWorld()
	if floor {
		phys.AddStatic(cube.Box(-4000, -4000, -16, 4000, 4000, 0), physics.LayerStatic, physics.LookupSurface("concrete"))
	}
	rec := &recordingNotifier{}
	sys := NewNPCSystem(phys, append([]NPCOption{WithNotifier(rec)}, opts...)...)
	return &sim{w: w, phys: phys, sys: sys, notify: rec}
}

// step runs one scheduler tick: the agents, then the clock.
func (s *sim) step() {
	s.sys.Update(s.w)
	s.w.Advance()
}

func (s *sim) steps(n int) {
	for i := 0; i < n; i++ {
		s.step()
	}
}

func (s *sim) events(kind string) []ecs.Event {
	var out []ecs.Event
	for _, evt := range s.w.Events().Drain() {
		if evt.Type == kind {
			out = append(out, evt)
		}
	}
	return out
}

var testHitboxes = []component.Hitbox{
	{Index: 0, Group: component.HitboxGroupHead, Bone: "head", Min: mgl64.Vec3{-5, -5, 56}, Max: mgl64.Vec3{5, 5, 72}},
	{Index: 1, Group: component.HitboxGroupChest, Bone: "spine", Min: mgl64.Vec3{-8, -8, 0}, Max: mgl64.Vec3{8, 8, 56}},
}

type agentOpts struct {
	pos       mgl64.Vec3
	facing    mgl64.Vec3
	health    float64
	speed     float64
	velocity  mgl64.Vec3
	archetype component.Archetype
	steer     steer.Steerer
}

func (s *sim) spawnAgent(t *testing.T, o agentOpts) ecs.Entity {
	t.Helper()
	w := s.w
	if o.archetype.Name == "" {
		o.archetype.Name = "test"
	}
	if o.archetype.HullHeight == 0 {
		o.archetype.HullHeight, o.archetype.HullRadius = 72, 8
	}
	if o.archetype.EyeHeight == 0 {
		o.archetype.EyeHeight = 64
	}
	if o.archetype.MeleeStrikeTime == 0 {
		o.archetype.MeleeStrikeTime = 1
	}
	if o.speed == 0 {
		o.speed = 300
	}
	rotation := mgl64.QuatIdent()
	if o.facing != (mgl64.Vec3{}) {
		rotation = common.YawRotation(o.facing)
	}

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.AgentComponent.Kind(), &component.Agent{
		Archetype:   o.archetype,
		Health:      o.health,
		SpawnHealth: o.health,
		NowSpeed:    o.speed,
	}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: o.pos, Rotation: rotation}))
	require.NoError(t, ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{Velocity: o.velocity}))
	require.NoError(t, ecs.Add(w, e, component.AnimParamsComponent.Kind(), &component.AnimParams{}))
	require.NoError(t, ecs.Add(w, e, component.ModelComponent.Kind(), &component.Model{Name: "models/test", Hitboxes: testHitboxes}))
	require.NoError(t, ecs.Add(w, e, component.EquipmentComponent.Kind(), &component.Equipment{}))
	require.NoError(t, ecs.Add(w, e, component.SteeringComponent.Kind(), &component.Steering{Steer: o.steer}))

	_, err := s.phys.Add(e, physics.LayerActor, cube.Box(-8, -8, 0, 8, 8, 72), o.pos, physics.LookupSurface("flesh"))
	require.NoError(t, err)
	shapes := make([]physics.HitboxShape, 0, len(testHitboxes))
	for _, hb := range testHitboxes {
		shapes = append(shapes, physics.HitboxShape{
			Index: hb.Index,
			Box:   cube.Box(hb.Min[0], hb.Min[1], hb.Min[2], hb.Max[0], hb.Max[1], hb.Max[2]),
		})
	}
	s.phys.SetHitboxes(e, shapes)
	return e
}

func (s *sim) spawnPlayer(t *testing.T, pos mgl64.Vec3, health float64) ecs.Entity {
	t.Helper()
	w := s.w
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}))
	_, err := s.phys.Add(e, physics.LayerActor, cube.Box(-16, -16, 0, 16, 16, 72), pos, physics.LookupSurface("flesh"))
	require.NoError(t, err)
	return e
}

func (s *sim) spawnItem(t *testing.T, c component.Carriable) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(s.w)
	require.NoError(t, ecs.Add(s.w, e, component.CarriableComponent.Kind(), &c))
	return e
}

func agentOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Agent {
	t.Helper()
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	require.True(t, ok)
	return agent
}

func transformOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Transform {
	t.Helper()
	tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	return tf
}

func motionOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Motion {
	t.Helper()
	motion, ok := ecs.Get(w, e, component.MotionComponent.Kind())
	require.True(t, ok)
	return motion
}

func animOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.AnimParams {
	t.Helper()
	anim, ok := ecs.Get(w, e, component.AnimParamsComponent.Kind())
	require.True(t, ok)
	return anim
}

func healthOf(t *testing.T, w *ecs.World, e ecs.Entity) float64 {
	t.Helper()
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	require.True(t, ok)
	return h.Current
}

func toward(dir mgl64.Vec3) steer.Steerer {
	return steer.Func(func(mgl64.Vec3) steer.Output {
		return steer.Output{Direction: dir}
	})
}
