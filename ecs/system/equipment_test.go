package system

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
)

type recordingItem struct {
	log       *[]string
	simulated *int
}

func (r recordingItem) ActiveStart(ctx ItemContext) {
	*r.log = append(*r.log, fmt.Sprintf("start %s", ctx.Carriable.Name))
}

func (r recordingItem) ActiveEnd(ctx ItemContext, dropped bool) {
	*r.log = append(*r.log, fmt.Sprintf("end %s dropped=%t", ctx.Carriable.Name, dropped))
}

func (r recordingItem) Simulate(ctx ItemContext) {
	*r.simulated++
}

func TestActiveItemSwap(t *testing.T) {
	s := newSim(t)
	var log []string
	var simulated int
	s.sys.RegisterItem("recorder", recordingItem{log: &log, simulated: &simulated})

	holder := s.spawnAgent(t, agentOpts{health: 100})
	a := s.spawnItem(t, component.Carriable{Kind: "recorder", Name: "a"})
	b := s.spawnItem(t, component.Carriable{Kind: "recorder", Name: "b"})
	require.NoError(t, Give(s.w, holder, a))
	require.NoError(t, Give(s.w, holder, b))

	s.step()
	assert.Empty(t, log)
	assert.Zero(t, simulated)

	require.NoError(t, SetActive(s.w, holder, a))
	s.step()
	assert.Equal(t, []string{"start a"}, log)
	assert.Equal(t, 1, simulated)

	require.NoError(t, SetActive(s.w, holder, b))
	s.steps(3)
	assert.Equal(t, []string{"start a", "end a dropped=false", "start b"}, log)
	assert.Equal(t, 4, simulated)

	require.NoError(t, Drop(s.w, holder, b))
	s.step()
	assert.Equal(t, []string{"start a", "end a dropped=false", "start b", "end b dropped=true"}, log)
	assert.Equal(t, 4, simulated)
	assert.Equal(t, []ecs.Entity{a}, SortedItems(s.w, holder))
}

func TestDroppedItemStopsSimulating(t *testing.T) {
	s := newSim(t)
	var log []string
	var simulated int
	s.sys.RegisterItem("recorder", recordingItem{log: &log, simulated: &simulated})

	holder := s.spawnAgent(t, agentOpts{health: 100})
	item := s.spawnItem(t, component.Carriable{Kind: "recorder", Name: "a"})
	require.NoError(t, Give(s.w, holder, item))
	require.NoError(t, SetActive(s.w, holder, item))
	s.step()
	require.Equal(t, 1, simulated)

	// Ownership moving elsewhere while still selected stops simulation.
	carry, _ := ecs.Get(s.w, item, component.CarriableComponent.Kind())
	carry.Owner = 0
	s.steps(2)
	assert.Equal(t, 1, simulated)
}

func TestDestroyedActiveItemIsCleared(t *testing.T) {
	s := newSim(t)
	var log []string
	var simulated int
	s.sys.RegisterItem("recorder", recordingItem{log: &log, simulated: &simulated})

	holder := s.spawnAgent(t, agentOpts{health: 100})
	item := s.spawnItem(t, component.Carriable{Kind: "recorder", Name: "a"})
	require.NoError(t, Give(s.w, holder, item))
	require.NoError(t, SetActive(s.w, holder, item))
	s.step()

	ecs.DestroyEntity(s.w, item)
	s.step()
	eq, _ := ecs.Get(s.w, holder, component.EquipmentComponent.Kind())
	assert.Zero(t, eq.Active)
	assert.Zero(t, eq.LastActive)
	assert.Equal(t, []string{"start a"}, log)

	next := s.spawnItem(t, component.Carriable{Kind: "recorder", Name: "b"})
	require.NoError(t, Give(s.w, holder, next))
	require.NoError(t, SetActive(s.w, holder, next))
	s.step()
	assert.Equal(t, []string{"start a", "start b"}, log)
}

func TestEquipmentErrors(t *testing.T) {
	s := newSim(t)
	holder := s.spawnAgent(t, agentOpts{health: 100})
	other := s.spawnAgent(t, agentOpts{health: 100, pos: mgl64.Vec3{500, 0, 0}})
	plain := ecs.CreateEntity(s.w)
	item := s.spawnItem(t, component.Carriable{Kind: "carriable", Name: "crowbar"})

	assert.True(t, errors.Is(Give(s.w, holder, plain), ErrNotCarriable))
	assert.True(t, errors.Is(SetActive(s.w, holder, item), ErrNotCarried))
	require.NoError(t, Give(s.w, other, item))
	assert.True(t, errors.Is(Drop(s.w, holder, item), ErrNotCarried))
	assert.NoError(t, SetActive(s.w, holder, ecs.NoEntity))
}

func TestSortedItems(t *testing.T) {
	s := newSim(t)
	holder := s.spawnAgent(t, agentOpts{health: 100})
	pistol := s.spawnItem(t, component.Carriable{Name: "pistol", Bucket: 1, BucketWeight: 100})
	crowbar := s.spawnItem(t, component.Carriable{Name: "crowbar", Bucket: 0, BucketWeight: 2})
	smg := s.spawnItem(t, component.Carriable{Name: "smg", Bucket: 1, BucketWeight: 50})
	for _, item := range []ecs.Entity{pistol, crowbar, smg} {
		require.NoError(t, Give(s.w, holder, item))
	}
	assert.Equal(t, []ecs.Entity{crowbar, smg, pistol}, SortedItems(s.w, holder))
}

func TestDeathDestroysCarriedItems(t *testing.T) {
	s := newSim(t)
	holder := s.spawnAgent(t, agentOpts{health: 10})
	item := s.spawnItem(t, component.Carriable{Kind: "carriable", Name: "crowbar"})
	require.NoError(t, Give(s.w, holder, item))

	s.sys.TakeDamage(s.w, holder, component.DamageInfo{Amount: 20, HitboxIndex: -1})
	assert.False(t, ecs.IsAlive(s.w, item))
}

func TestEmptyHandsAnimation(t *testing.T) {
	s := newSim(t)
	e := s.spawnAgent(t, agentOpts{health: 100})
	s.step()
	anim := animOf(t, s.w, e)
	hold, ok := anim.Int("holdtype")
	require.True(t, ok)
	assert.Equal(t, 0, hold)
	weight, ok := anim.Float("aim_body_weight")
	require.True(t, ok)
	assert.Equal(t, 0.5, weight)
}
