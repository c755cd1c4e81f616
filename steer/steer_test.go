package steer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSeek(t *testing.T) {
	s := &Seek{Target: mgl64.Vec3{100, 0, 50}}
	out := s.Tick(mgl64.Vec3{0, 0, 0})
	assert.False(t, out.Finished)
	assert.InDelta(t, 1, out.Direction[0], 1e-9)
	assert.InDelta(t, 0, out.Direction[2], 1e-9)

	assert.True(t, s.Tick(mgl64.Vec3{95, 0, 0}).Finished)

	var nilSeek *Seek
	assert.True(t, nilSeek.Tick(mgl64.Vec3{}).Finished)
}

func TestPathAdvancesAndFinishes(t *testing.T) {
	p := NewPath([]mgl64.Vec3{{100, 0, 0}, {100, 100, 0}}, false)

	out := p.Tick(mgl64.Vec3{0, 0, 0})
	assert.Equal(t, 0, p.Index())
	assert.InDelta(t, 1, out.Direction[0], 1e-9)

	out = p.Tick(mgl64.Vec3{100, 1, 0})
	assert.Equal(t, 1, p.Index())
	assert.InDelta(t, 1, out.Direction[1], 1e-9)

	assert.True(t, p.Tick(mgl64.Vec3{100, 99, 0}).Finished)
	assert.True(t, p.Tick(mgl64.Vec3{0, 0, 0}).Finished)
}

func TestPathLoops(t *testing.T) {
	p := NewPath([]mgl64.Vec3{{100, 0, 0}, {0, 0, 0}}, true)
	p.Tick(mgl64.Vec3{100, 0, 0})
	assert.Equal(t, 1, p.Index())
	out := p.Tick(mgl64.Vec3{0, 0, 0})
	assert.False(t, out.Finished)
	assert.Equal(t, 0, p.Index())
	assert.InDelta(t, 1, out.Direction[0], 1e-9)
}

func TestFollow(t *testing.T) {
	target := mgl64.Vec3{0, 200, 0}
	alive := true
	f := &Follow{Target: func() (mgl64.Vec3, bool) { return target, alive }}

	out := f.Tick(mgl64.Vec3{})
	assert.InDelta(t, 1, out.Direction[1], 1e-9)

	alive = false
	assert.True(t, f.Tick(mgl64.Vec3{}).Finished)
}

func TestFuncAdapter(t *testing.T) {
	var nilFunc Func
	assert.True(t, nilFunc.Tick(mgl64.Vec3{}).Finished)
	f := Func(func(mgl64.Vec3) Output { return Output{Direction: mgl64.Vec3{0, 1, 0}} })
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, f.Tick(mgl64.Vec3{}).Direction)
}
