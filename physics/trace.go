package physics

import (
	"math"
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
)

// distEpsilon keeps swept hulls from coming to rest exactly on a face.
const distEpsilon = 0.03125

// DefaultTraceLayers is what a trace hits unless told otherwise.
const DefaultTraceLayers = LayerStatic | LayerSolid | LayerActor

// TraceResult describes where a trace stopped.
type TraceResult struct {
	Hit           bool
	StartedSolid  bool
	Fraction      float64
	StartPosition mgl64.Vec3
	EndPosition   mgl64.Vec3
	Normal        mgl64.Vec3
	Direction     mgl64.Vec3
	Entity        ecs.Entity
	Body          *Body
	Surface       *Surface
	Layer         Layer
	HitboxIndex   int
}

// Trace is an immutable query description. Builder methods return copies.
type Trace struct {
	world    *World
	start    mgl64.Vec3
	end      mgl64.Vec3
	hull     cube.BBox
	mask     Layer
	ignore   []ecs.Entity
	hitboxes bool
}

// Ray starts a point trace from start to end.
func (w *World) Ray(start, end mgl64.Vec3) Trace {
	return Trace{world: w, start: start, end: end, mask: DefaultTraceLayers}
}

func (t Trace) FromTo(start, end mgl64.Vec3) Trace {
	t.start, t.end = start, end
	return t
}

// Size sweeps a box, local to the trace points, instead of a point.
func (t Trace) Size(box cube.BBox) Trace {
	t.hull = box
	return t
}

// Radius sweeps a cube of half-extent r.
func (t Trace) Radius(r float64) Trace {
	if r <= 0 {
		t.hull = cube.BBox{}
		return t
	}
	t.hull = cube.Box(-r, -r, -r, r, r, r)
	return t
}

func (t Trace) HitLayers(mask Layer) Trace {
	t.mask = mask
	return t
}

func (t Trace) WithLayer(l Layer) Trace {
	t.mask |= l
	return t
}

func (t Trace) WithoutLayer(l Layer) Trace {
	t.mask &^= l
	return t
}

func (t Trace) Ignore(entities ...ecs.Entity) Trace {
	t.ignore = append(slices.Clip(t.ignore), entities...)
	return t
}

// UseHitboxes tests bodies that carry hitboxes against those instead of
// their hull and reports which hitbox was struck.
func (t Trace) UseHitboxes() Trace {
	t.hitboxes = true
	return t
}

func (t Trace) Start() mgl64.Vec3 { return t.start }
func (t Trace) End() mgl64.Vec3   { return t.end }

// Run returns the nearest hit, or a miss ending at the end point.
func (t Trace) Run() TraceResult {
	hits := t.collect()
	if len(hits) == 0 {
		return t.miss()
	}
	return hits[0]
}

// RunAll returns every hit along the trace ordered by fraction.
func (t Trace) RunAll() []TraceResult {
	return t.collect()
}

func (t Trace) miss() TraceResult {
	dir, _ := common.SafeNormalize(t.end.Sub(t.start))
	return TraceResult{
		Fraction:      1,
		StartPosition: t.start,
		EndPosition:   t.end,
		Direction:     dir,
		HitboxIndex:   -1,
	}
}

func (t Trace) ignored(e ecs.Entity) bool {
	return e.Valid() && slices.Contains(t.ignore, e)
}

func (t Trace) collect() []TraceResult {
	if t.world == nil || t.mask == 0 || !common.Finite(t.start) || !common.Finite(t.end) {
		return nil
	}
	delta := t.end.Sub(t.start)
	sweep := t.hull.Translate(t.start).Extend(delta)

	var hits []TraceResult
	for _, b := range t.world.candidates(sweep, t.mask) {
		if t.ignored(b.Entity) {
			continue
		}
		if res, ok := t.testBody(b, delta); ok {
			hits = append(hits, res)
		}
	}
	slices.SortStableFunc(hits, func(a, b TraceResult) int {
		if a.Fraction != b.Fraction {
			if a.Fraction < b.Fraction {
				return -1
			}
			return 1
		}
		return compareEntity(a.Entity, b.Entity)
	})
	return hits
}

func (t Trace) testBody(b *Body, delta mgl64.Vec3) (TraceResult, bool) {
	if t.hitboxes && len(b.Hitboxes) > 0 {
		best := TraceResult{}
		found := false
		for _, hb := range b.Hitboxes {
			res, ok := t.sweepBox(hb.Box.Translate(b.Position), delta)
			if !ok || (found && res.Fraction >= best.Fraction) {
				continue
			}
			res.HitboxIndex = hb.Index
			best, found = res, true
		}
		if !found {
			return TraceResult{}, false
		}
		return t.decorate(best, b), true
	}
	res, ok := t.sweepBox(b.WorldBox(), delta)
	if !ok {
		return TraceResult{}, false
	}
	res.HitboxIndex = -1
	return t.decorate(res, b), true
}

func (t Trace) decorate(res TraceResult, b *Body) TraceResult {
	res.Hit = true
	res.Body = b
	res.Entity = b.Entity
	res.Surface = b.Surface
	res.Layer = b.Layer
	res.StartPosition = t.start
	res.Direction, _ = common.SafeNormalize(t.end.Sub(t.start))
	return res
}

// sweepBox tests the hull moving along delta against target by expanding
// target with the hull extents and casting the trace origin through it.
func (t Trace) sweepBox(target cube.BBox, delta mgl64.Vec3) (TraceResult, bool) {
	hmin, hmax := t.hull.Min(), t.hull.Max()
	bmin, bmax := target.Min(), target.Max()
	min := bmin.Sub(hmax)
	max := bmax.Sub(hmin)

	enter, exit := math.Inf(-1), math.Inf(1)
	var normal mgl64.Vec3
	for i := 0; i < 3; i++ {
		if math.Abs(delta[i]) < 1e-12 {
			if t.start[i] <= min[i] || t.start[i] >= max[i] {
				return TraceResult{}, false
			}
			continue
		}
		inv := 1 / delta[i]
		t1 := (min[i] - t.start[i]) * inv
		t2 := (max[i] - t.start[i]) * inv
		side := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			side = 1
		}
		if t1 > enter {
			enter = t1
			normal = mgl64.Vec3{}
			normal[i] = side
		}
		if t2 < exit {
			exit = t2
		}
	}
	if enter >= exit || exit <= 0 || enter > 1 {
		return TraceResult{}, false
	}

	if enter < 0 {
		return TraceResult{
			StartedSolid: true,
			Fraction:     0,
			EndPosition:  t.start,
			Normal:       escapeNormal(t.start, min, max),
		}, true
	}

	fraction := enter
	if l := delta.Len(); l > 0 {
		fraction = math.Max(0, enter-distEpsilon/l)
	}
	return TraceResult{
		Fraction:    fraction,
		EndPosition: t.start.Add(delta.Mul(fraction)),
		Normal:      normal,
	}, true
}

// escapeNormal points out of the nearest face of [min, max] from p.
func escapeNormal(p, min, max mgl64.Vec3) mgl64.Vec3 {
	best := math.Inf(1)
	var n mgl64.Vec3
	for i := 0; i < 3; i++ {
		if d := p[i] - min[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = -1
		}
		if d := max[i] - p[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = 1
		}
	}
	return n
}
