package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/physics"
)

// TraceExtension continues a bullet past a hit, e.g. through thin material
// or a water surface. It receives the hits so far and returns more.
type TraceExtension func(w *ecs.World, trace physics.Trace, hits []physics.TraceResult) []physics.TraceResult

// TraceBullet traces a bullet of the given radius from start to end on
// behalf of e. Water stops the bullet unless it starts underwater. The
// first hit comes first; registered extensions may append more.
func (s *NPCSystem) TraceBullet(w *ecs.World, e ecs.Entity, start, end mgl64.Vec3, radius float64) []physics.TraceResult {
	if s == nil || s.physics == nil {
		return nil
	}
	trace := s.physics.Ray(start, end).
		UseHitboxes().
		WithLayer(physics.LayerDebris).
		Ignore(e).
		Radius(radius)
	if !s.physics.IsPointWater(start) {
		trace = trace.WithLayer(physics.LayerWater)
	}
	if owner, ok := ecs.Get(w, e, component.OwnerComponent.Kind()); ok && owner.Entity != 0 {
		trace = trace.Ignore(ecs.Entity(owner.Entity))
	}

	var hits []physics.TraceResult
	if tr := trace.Run(); tr.Hit {
		hits = append(hits, tr)
	}
	for _, ext := range s.traceExtensions {
		hits = append(hits, ext(w, trace, hits)...)
	}
	return hits
}

// PenetrateWater continues a bullet that struck a water surface from just
// under it, so targets below the surface can still be hit.
func PenetrateWater(w *ecs.World, trace physics.Trace, hits []physics.TraceResult) []physics.TraceResult {
	if len(hits) == 0 {
		return nil
	}
	last := hits[len(hits)-1]
	if last.Layer != physics.LayerWater || last.StartedSolid {
		return nil
	}
	dir, ok := common.SafeNormalize(trace.End().Sub(trace.Start()))
	if !ok {
		return nil
	}
	from := last.EndPosition.Add(dir.Mul(1))
	tr := trace.FromTo(from, trace.End()).WithoutLayer(physics.LayerWater).Run()
	if !tr.Hit {
		return nil
	}
	return []physics.TraceResult{tr}
}
