package system

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/steer"
)

func TestCorpseFallsToRest(t *testing.T) {
	s := newSim(t)
	corpses := NewCorpseSystem(s.sys.Mover())

	e := ecs.CreateEntity(s.w)
	require.NoError(t, ecs.Add(s.w, e, component.CorpseComponent.Kind(), &component.Corpse{Archetype: "test"}))
	require.NoError(t, ecs.Add(s.w, e, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{0, 0, 50}}))
	require.NoError(t, ecs.Add(s.w, e, component.MotionComponent.Kind(), &component.Motion{Velocity: mgl64.Vec3{100, 0, 0}}))
	_, err := s.phys.Add(e, physics.LayerDebris, cube.Box(-8, -8, 0, 8, 8, 18), mgl64.Vec3{0, 0, 50}, nil)
	require.NoError(t, err)

	for i := 0; i < 120; i++ {
		corpses.Update(s.w)
		s.w.Advance()
	}

	tf := transformOf(t, s.w, e)
	motion := motionOf(t, s.w, e)
	assert.InDelta(t, 0, tf.Position[2], 0.1)
	assert.Greater(t, tf.Position[0], 0.0)
	assert.True(t, motion.Grounded)
	assert.InDelta(t, 0, motion.Velocity.Len(), 0.1)
	body, _ := s.phys.Body(e)
	assert.Equal(t, tf.Position, body.Position)
}

func TestTTLExpires(t *testing.T) {
	s := newSim(t)
	ttl := NewTTLSystem(s.phys)

	e := ecs.CreateEntity(s.w)
	require.NoError(t, ecs.Add(s.w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: 0.1}))
	_, err := s.phys.Add(e, physics.LayerDebris, cube.Box(-1, -1, 0, 1, 1, 1), mgl64.Vec3{}, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ttl.Update(s.w)
	}
	assert.True(t, ecs.IsAlive(s.w, e))

	ttl.Update(s.w)
	ttl.Update(s.w)
	assert.False(t, ecs.IsAlive(s.w, e))
	_, ok := s.phys.Body(e)
	assert.False(t, ok)
}

func TestCorpseLifecycle(t *testing.T) {
	s := newSim(t, WithCorpseTTL(0.5))
	sched := ecs.NewScheduler(s.sys, NewCorpseSystem(s.sys.Mover()), NewTTLSystem(s.phys))
	e := s.spawnAgent(t, agentOpts{health: 5, pos: mgl64.Vec3{0, 0, 0}})
	s.sys.TakeDamage(s.w, e, component.DamageInfo{Amount: 10, Force: mgl64.Vec3{0, 0, 1200}, HitboxIndex: -1})

	corpses := ecs.Query(s.w, component.CorpseComponent.Kind())
	require.Len(t, corpses, 1)
	corpse := corpses[0]

	sched.Update(s.w)
	assert.Greater(t, transformOf(t, s.w, corpse).Position[2], 0.0)

	for i := 0; i < 40; i++ {
		sched.Update(s.w)
	}
	assert.False(t, ecs.IsAlive(s.w, corpse))
}

func TestRunsAreDeterministic(t *testing.T) {
	run := func() []mgl64.Vec3 {
		s := newSim(t)
		s.phys.AddStatic(cube.Box(100, -200, 0, 120, 200, 40), physics.LayerStatic, nil)
		player := s.spawnPlayer(t, mgl64.Vec3{400, 0, 0}, 1000)
		target := func() (mgl64.Vec3, bool) {
			return transformOf(t, s.w, player).Position, true
		}
		var agents []ecs.Entity
		for i := 0; i < 3; i++ {
			agents = append(agents, s.spawnAgent(t, agentOpts{
				health: 100,
				pos:    mgl64.Vec3{0, float64(i * 40), 0},
				speed:  float64(150 + i*50),
				steer:  &steer.Follow{Target: target},
				archetype: component.Archetype{
					Melee: &component.MeleeCapability{Damage: 5, Force: 1, RequireTarget: true},
				},
			}))
		}
		s.steps(300)

		var out []mgl64.Vec3
		for _, e := range agents {
			out = append(out, transformOf(t, s.w, e).Position)
		}
		out = append(out, mgl64.Vec3{healthOf(t, s.w, player)})
		return out
	}
	assert.Equal(t, run(), run())
}

func TestMultiNotifierFansOut(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	m := MultiNotifier{a, nil, b}
	m.AgentKilled(KillEvent{Archetype: "zombie"})
	m.DamageFeedback(3, DamageFeedback{Amount: 4})
	for _, r := range []*recordingNotifier{a, b} {
		require.Len(t, r.kills, 1)
		require.Len(t, r.feedback, 1)
		assert.Equal(t, ecs.Entity(3), r.feedback[0].attacker)
	}
}

func TestUpdatePrunesDeadScripts(t *testing.T) {
	src := newScriptSource(map[string]string{"counter": counterScript})
	s := newSim(t, WithScriptLoader(src.load))
	e := s.spawnAgent(t, agentOpts{health: 100, archetype: component.Archetype{Script: "counter"}})
	s.step()
	require.Contains(t, s.sys.scripts, e)

	ecs.DestroyEntity(s.w, e)
	s.step()
	assert.NotContains(t, s.sys.scripts, e)
}
