package physics

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/npccore/common"
)

const (
	// maxMoveIterations bounds the slide loop of a single TryMove.
	maxMoveIterations = 8
	maxClipPlanes     = 5
	stopSpeed         = 100.0
	unstuckAttempts   = 20
)

// MoveHelper slides a hull through the world. Copy it, mutate it, and read
// Position/Velocity back.
type MoveHelper struct {
	Position          mgl64.Vec3
	Velocity          mgl64.Vec3
	MaxStandableAngle float64
	Trace             Trace
	HitWall           bool
}

// NewMoveHelper builds a helper that sweeps hull against the world layers.
func NewMoveHelper(w *World, pos, vel mgl64.Vec3, hull cube.BBox) MoveHelper {
	return MoveHelper{
		Position:          pos,
		Velocity:          vel,
		MaxStandableAngle: 50,
		Trace:             w.Ray(pos, pos).Size(hull).HitLayers(LayerWorld),
	}
}

func (m *MoveHelper) TraceFromTo(start, end mgl64.Vec3) TraceResult {
	return m.Trace.FromTo(start, end).Run()
}

func (m *MoveHelper) TraceDirection(delta mgl64.Vec3) TraceResult {
	return m.TraceFromTo(m.Position, m.Position.Add(delta))
}

// TraceMove sweeps by delta and moves to wherever the sweep stopped.
func (m *MoveHelper) TraceMove(delta mgl64.Vec3) TraceResult {
	tr := m.TraceDirection(delta)
	if !tr.StartedSolid {
		m.Position = tr.EndPosition
	}
	return tr
}

// IsFloor reports whether tr hit something shallow enough to stand on.
func (m *MoveHelper) IsFloor(tr TraceResult) bool {
	if !tr.Hit {
		return false
	}
	if _, ok := common.SafeNormalize(tr.Normal); !ok {
		return false
	}
	return common.AngleDegrees(tr.Normal, common.Up) <= m.MaxStandableAngle
}

// TryUnstuck resolves a hull that starts inside geometry by nudging it to
// the nearest free spot. It reports false if no free spot was found.
func (m *MoveHelper) TryUnstuck() bool {
	tr := m.TraceFromTo(m.Position, m.Position)
	if !tr.StartedSolid {
		return true
	}
	dirs := []mgl64.Vec3{
		common.Up,
		tr.Normal,
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
	}
	for step := 1; step <= unstuckAttempts; step++ {
		for _, d := range dirs {
			if _, ok := common.SafeNormalize(d); !ok {
				continue
			}
			p := m.Position.Add(d.Mul(float64(step)))
			if !m.TraceFromTo(p, p).StartedSolid {
				m.Position = p
				return true
			}
		}
	}
	return false
}

// TryMove moves along Velocity for dt, sliding along whatever it hits, and
// returns the fraction of the requested motion that was covered.
func (m *MoveHelper) TryMove(dt float64) float64 {
	m.HitWall = false
	if dt <= 0 {
		return 0
	}
	original := m.Velocity
	planes := make([]mgl64.Vec3, 0, maxClipPlanes)
	timeLeft := dt
	travel := 0.0

	for i := 0; i < maxMoveIterations && timeLeft > 0; i++ {
		if common.IsNearlyZero(m.Velocity, 1e-4) {
			m.Velocity = mgl64.Vec3{}
			break
		}
		tr := m.TraceFromTo(m.Position, m.Position.Add(m.Velocity.Mul(timeLeft)))
		if tr.StartedSolid {
			m.Velocity = mgl64.Vec3{}
			break
		}
		travel += tr.Fraction * timeLeft / dt
		m.Position = tr.EndPosition
		if !tr.Hit {
			break
		}
		if !m.IsFloor(tr) {
			m.HitWall = true
		}
		timeLeft -= timeLeft * tr.Fraction

		if len(planes) >= maxClipPlanes {
			m.Velocity = mgl64.Vec3{}
			break
		}
		planes = append(planes, tr.Normal)
		m.Velocity = clipToPlanes(m.Velocity, original, planes)
	}
	m.Velocity = common.Sanitize(m.Velocity)
	m.Position = common.Sanitize(m.Position)
	return travel
}

// TryMoveWithStep runs a plain move and a step-up move (lift by stepSize,
// move, drop back down) and keeps whichever carried the hull further.
func (m *MoveHelper) TryMoveWithStep(dt, stepSize float64) float64 {
	start := m.Position
	stepped := *m

	fraction := m.TryMove(dt)

	stepped.TraceMove(common.Up.Mul(stepSize))
	stepFraction := stepped.TryMove(dt)
	tr := stepped.TraceMove(common.Down.Mul(stepSize))
	if !tr.Hit || tr.StartedSolid {
		return fraction
	}
	if !stepped.IsFloor(tr) {
		return fraction
	}

	flatStart := common.WithZ(start, 0)
	plain := common.WithZ(m.Position, 0).Sub(flatStart).Len()
	step := common.WithZ(stepped.Position, 0).Sub(flatStart).Len()
	if plain >= step {
		return fraction
	}
	m.Position = stepped.Position
	m.Velocity = stepped.Velocity
	m.HitWall = stepped.HitWall
	return stepFraction
}

// ApplyFriction bleeds speed off Velocity. Speeds under stopSpeed bleed as
// if they were stopSpeed so slow movement comes to rest.
func (m *MoveHelper) ApplyFriction(amount, dt float64) {
	speed := m.Velocity.Len()
	if speed < 0.1 {
		return
	}
	control := speed
	if control < stopSpeed {
		control = stopSpeed
	}
	newSpeed := speed - control*dt*amount
	if newSpeed < 0 {
		newSpeed = 0
	}
	if newSpeed == speed {
		return
	}
	m.Velocity = m.Velocity.Mul(newSpeed / speed)
}

// clipToPlanes removes the components of v driving into any of planes. Two
// planes leave motion along their crease; more than that stops the hull.
func clipToPlanes(v, original mgl64.Vec3, planes []mgl64.Vec3) mgl64.Vec3 {
	for i, p := range planes {
		clipped := clipVelocity(v, p)
		ok := true
		for j, q := range planes {
			if j != i && clipped.Dot(q) < 0 {
				ok = false
				break
			}
		}
		if ok {
			if clipped.Dot(original) <= 0 {
				return mgl64.Vec3{}
			}
			return clipped
		}
	}
	if len(planes) != 2 {
		return mgl64.Vec3{}
	}
	crease, ok := common.SafeNormalize(planes[0].Cross(planes[1]))
	if !ok {
		return mgl64.Vec3{}
	}
	return crease.Mul(crease.Dot(v))
}

func clipVelocity(v, normal mgl64.Vec3) mgl64.Vec3 {
	backoff := v.Dot(normal)
	if backoff >= 0 {
		return v
	}
	return v.Sub(normal.Mul(backoff))
}
