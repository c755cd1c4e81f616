package physics

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/npccore/ecs"
)

var ErrBodyExists = errors.New("physics: entity already has a body")

// HitboxShape is a damage volume on a body, local to the body position.
type HitboxShape struct {
	Index int
	Box   cube.BBox
}

// Body is one collidable volume. Box and Hitboxes are local to Position.
type Body struct {
	Entity   ecs.Entity
	Layer    Layer
	Box      cube.BBox
	Position mgl64.Vec3
	Surface  *Surface
	Hitboxes []HitboxShape

	body  *cp.Body
	shape *cp.Shape
}

// WorldBox is the body volume in world space.
func (b *Body) WorldBox() cube.BBox {
	return b.Box.Translate(b.Position)
}

func (b *Body) static() bool {
	return b.Layer == LayerStatic
}

// World is a layered 3D box world. A chipmunk space indexes every body by
// its footprint on the ground plane; queries filter candidates by layer
// through shape filters and then test the full 3D volumes.
type World struct {
	space   *cp.Space
	bodies  map[ecs.Entity]*Body
	statics []*Body
}

func NewWorld() *World {
	return &World{
		space:  cp.NewSpace(),
		bodies: make(map[ecs.Entity]*Body),
	}
}

func footprint(box cube.BBox) cp.BB {
	min, max := box.Min(), box.Max()
	return cp.BB{L: min[0], B: min[1], R: max[0], T: max[1]}
}

func layerFilter(l Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(l), cp.ALL_CATEGORIES)
}

func queryFilter(mask Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

// AddStatic inserts level geometry that belongs to no entity.
func (w *World) AddStatic(box cube.BBox, layer Layer, surface *Surface) *Body {
	if w == nil {
		return nil
	}
	b := &Body{Layer: layer, Box: box, Surface: surface}
	w.attach(b)
	w.statics = append(w.statics, b)
	return b
}

// Add registers a body for e with box local to pos.
func (w *World) Add(e ecs.Entity, layer Layer, box cube.BBox, pos mgl64.Vec3, surface *Surface) (*Body, error) {
	if w == nil {
		return nil, errors.New("physics: nil world")
	}
	if !e.Valid() {
		return nil, fmt.Errorf("physics: add body: invalid entity %v", e)
	}
	if _, ok := w.bodies[e]; ok {
		return nil, fmt.Errorf("physics: add body %v: %w", e, ErrBodyExists)
	}
	b := &Body{Entity: e, Layer: layer, Box: box, Position: pos, Surface: surface}
	w.attach(b)
	w.bodies[e] = b
	return b, nil
}

func (w *World) attach(b *Body) {
	if b.Surface == nil {
		b.Surface = LookupSurface("default")
	}
	if b.static() {
		b.body = w.space.StaticBody
		b.shape = cp.NewBox2(w.space.StaticBody, footprint(b.WorldBox()), 0)
	} else {
		b.body = cp.NewKinematicBody()
		b.body.SetPosition(cp.Vector{X: b.Position[0], Y: b.Position[1]})
		w.space.AddBody(b.body)
		b.shape = cp.NewBox2(b.body, footprint(b.Box), 0)
	}
	b.shape.SetFilter(layerFilter(b.Layer))
	b.shape.UserData = b
	w.space.AddShape(b.shape)
}

func (w *World) Remove(e ecs.Entity) bool {
	if w == nil {
		return false
	}
	b, ok := w.bodies[e]
	if !ok {
		return false
	}
	w.space.RemoveShape(b.shape)
	if b.body != w.space.StaticBody {
		w.space.RemoveBody(b.body)
	}
	delete(w.bodies, e)
	return true
}

func (w *World) Body(e ecs.Entity) (*Body, bool) {
	if w == nil {
		return nil, false
	}
	b, ok := w.bodies[e]
	return b, ok
}

// SetPosition moves e's body and refreshes the broadphase.
func (w *World) SetPosition(e ecs.Entity, pos mgl64.Vec3) {
	b, ok := w.Body(e)
	if !ok || b.static() {
		return
	}
	b.Position = pos
	b.body.SetPosition(cp.Vector{X: pos[0], Y: pos[1]})
	// Re-inserting the shape is what moves it in the spatial index.
	w.space.RemoveShape(b.shape)
	b.shape.CacheBB()
	w.space.AddShape(b.shape)
}

func (w *World) SetHitboxes(e ecs.Entity, hitboxes []HitboxShape) {
	if b, ok := w.Body(e); ok {
		b.Hitboxes = slices.Clone(hitboxes)
	}
}

// Bodies returns every body, level geometry first, then entities by id.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	out := slices.Clone(w.statics)
	keys := make([]ecs.Entity, 0, len(w.bodies))
	for e := range w.bodies {
		keys = append(keys, e)
	}
	slices.SortFunc(keys, compareEntity)
	for _, e := range keys {
		out = append(out, w.bodies[e])
	}
	return out
}

func compareEntity(a, b ecs.Entity) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

// candidates returns bodies on mask whose footprint overlaps box's.
func (w *World) candidates(box cube.BBox, mask Layer) []*Body {
	if w == nil || mask == 0 {
		return nil
	}
	var out []*Body
	w.space.BBQuery(footprint(box.Grow(0.5)), queryFilter(mask), func(shape *cp.Shape, data interface{}) {
		if b, ok := shape.UserData.(*Body); ok && mask.Has(b.Layer) {
			out = append(out, b)
		}
	}, nil)
	return out
}

// IsPointWater reports whether p lies inside any water volume.
func (w *World) IsPointWater(p mgl64.Vec3) bool {
	probe := cube.Box(p[0], p[1], p[2], p[0], p[1], p[2])
	for _, b := range w.candidates(probe, LayerWater) {
		if containsPoint(b.WorldBox(), p) {
			return true
		}
	}
	return false
}

func containsPoint(box cube.BBox, p mgl64.Vec3) bool {
	min, max := box.Min(), box.Max()
	for i := 0; i < 3; i++ {
		if p[i] < min[i] || p[i] > max[i] {
			return false
		}
	}
	return true
}

// FindInSphere returns the entities on mask whose volume intersects the
// sphere, ordered by entity id. Level geometry is never returned.
func (w *World) FindInSphere(center mgl64.Vec3, radius float64, mask Layer) []ecs.Entity {
	if w == nil || radius < 0 {
		return nil
	}
	seen := make(map[ecs.Entity]struct{})
	var out []ecs.Entity
	bb := cp.NewBBForCircle(cp.Vector{X: center[0], Y: center[1]}, radius)
	w.space.BBQuery(bb, queryFilter(mask), func(shape *cp.Shape, data interface{}) {
		b, ok := shape.UserData.(*Body)
		if !ok || !b.Entity.Valid() || !mask.Has(b.Layer) {
			return
		}
		if _, dup := seen[b.Entity]; dup {
			return
		}
		if distanceToBox(b.WorldBox(), center) > radius {
			return
		}
		seen[b.Entity] = struct{}{}
		out = append(out, b.Entity)
	}, nil)
	slices.SortFunc(out, compareEntity)
	return out
}

func distanceToBox(box cube.BBox, p mgl64.Vec3) float64 {
	min, max := box.Min(), box.Max()
	var sq float64
	for i := 0; i < 3; i++ {
		d := 0.0
		if p[i] < min[i] {
			d = min[i] - p[i]
		} else if p[i] > max[i] {
			d = p[i] - max[i]
		}
		sq += d * d
	}
	return math.Sqrt(sq)
}
