package sim

import (
	"errors"
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npccore/config"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/logger"
	"github.com/milk9111/npccore/prefabs"
)

func init() {
	logger.SetOutput(io.Discard)
}

func newSim(t *testing.T, mutate func(*config.Config)) *Sim {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(cfg, nil)
	require.NoError(t, err)
	return s
}

func positions(s *Sim) []mgl64.Vec3 {
	var out []mgl64.Vec3
	for _, e := range s.Level.NPCs {
		tf, ok := ecs.Get(s.World, e, component.TransformComponent.Kind())
		if ok {
			out = append(out, tf.Position)
		}
	}
	return out
}

func TestNewLoadsArena(t *testing.T) {
	s := newSim(t, nil)
	assert.Equal(t, "arena", s.Level.Name)
	assert.Len(t, s.Level.NPCs, 4)
	player, ok := s.Player()
	require.True(t, ok)
	assert.True(t, ecs.Has(s.World, player, component.PlayerTagComponent.Kind()))
	assert.Equal(t, 60, s.World.TickRate())
}

func TestStepAdvancesClock(t *testing.T) {
	s := newSim(t, nil)
	start := positions(s)
	for i := 0; i < 60; i++ {
		s.Step()
	}
	assert.Equal(t, uint64(60), s.World.Tick())
	assert.NotEqual(t, start, positions(s))
}

func TestSameSeedSameRun(t *testing.T) {
	a := newSim(t, nil)
	b := newSim(t, nil)
	for i := 0; i < 120; i++ {
		a.Step()
		b.Step()
	}
	assert.Equal(t, positions(a), positions(b))
}

func TestNonAuthoritativeSimStandsStill(t *testing.T) {
	s := newSim(t, func(c *config.Config) { c.Sim.Authoritative = false })
	start := positions(s)
	for i := 0; i < 30; i++ {
		s.Step()
	}
	assert.Equal(t, start, positions(s))
}

func TestUnknownLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Level.Name = "nowhere"
	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, prefabs.ErrUnknownLevel), "got %v", err)
}

func TestApply(t *testing.T) {
	s := newSim(t, nil)
	assert.NoError(t, s.Apply(prefabs.Change{Kind: prefabs.ChangeScript, Name: "zombie"}))
	assert.NoError(t, s.Apply(prefabs.Change{Kind: prefabs.ChangeLevel, Name: "arena"}))
	assert.NoError(t, s.Apply(prefabs.Change{Kind: prefabs.ChangeNPC, Name: "zombie"}))
	assert.Error(t, s.Apply(prefabs.Change{Kind: prefabs.ChangeNPC, Name: "dragon"}))
	s.Pending(nil)
}
