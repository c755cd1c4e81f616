// Package steer produces per-tick steering signals: a desired direction and
// whether the steering goal has been reached. Providers are opaque to the
// locomotion code that consumes them.
package steer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/common"
)

// Output is one tick of steering. Direction is unit length or zero.
type Output struct {
	Direction mgl64.Vec3
	Finished  bool
}

// Steerer is queried once per tick with the agent's position. Implementations
// must not mutate the agent.
type Steerer interface {
	Tick(position mgl64.Vec3) Output
}

// Func adapts a function to Steerer.
type Func func(position mgl64.Vec3) Output

func (f Func) Tick(position mgl64.Vec3) Output {
	if f == nil {
		return Output{Finished: true}
	}
	return f(position)
}

const DefaultArriveRadius = 16.0

func toward(from, to mgl64.Vec3, arrive float64) Output {
	delta := common.WithZ(to.Sub(from), 0)
	if delta.Len() <= arrive {
		return Output{Finished: true}
	}
	dir, ok := common.SafeNormalize(delta)
	if !ok {
		return Output{Finished: true}
	}
	return Output{Direction: dir}
}

// Seek heads for a fixed point on the ground plane.
type Seek struct {
	Target       mgl64.Vec3
	ArriveRadius float64
}

func (s *Seek) Tick(position mgl64.Vec3) Output {
	if s == nil {
		return Output{Finished: true}
	}
	arrive := s.ArriveRadius
	if arrive <= 0 {
		arrive = DefaultArriveRadius
	}
	return toward(position, s.Target, arrive)
}

// Path walks a list of waypoints in order, optionally looping.
type Path struct {
	Points       []mgl64.Vec3
	ArriveRadius float64
	Loop         bool

	next int
}

func NewPath(points []mgl64.Vec3, loop bool) *Path {
	return &Path{Points: append([]mgl64.Vec3(nil), points...), Loop: loop}
}

// Index is the waypoint currently being walked to.
func (p *Path) Index() int {
	if p == nil {
		return 0
	}
	return p.next
}

func (p *Path) Tick(position mgl64.Vec3) Output {
	if p == nil || len(p.Points) == 0 {
		return Output{Finished: true}
	}
	arrive := p.ArriveRadius
	if arrive <= 0 {
		arrive = DefaultArriveRadius
	}
	for range p.Points {
		if p.next >= len(p.Points) {
			if !p.Loop {
				return Output{Finished: true}
			}
			p.next = 0
		}
		out := toward(position, p.Points[p.next], arrive)
		if !out.Finished {
			return out
		}
		p.next++
	}
	return Output{Finished: !p.Loop || p.next >= len(p.Points)}
}

// Follow chases a moving target resolved each tick. A target that cannot be
// resolved finishes the steering for that tick.
type Follow struct {
	Target       func() (mgl64.Vec3, bool)
	ArriveRadius float64
}

func (f *Follow) Tick(position mgl64.Vec3) Output {
	if f == nil || f.Target == nil {
		return Output{Finished: true}
	}
	target, ok := f.Target()
	if !ok {
		return Output{Finished: true}
	}
	arrive := f.ArriveRadius
	if arrive <= 0 {
		arrive = DefaultArriveRadius
	}
	return toward(position, target, arrive)
}
