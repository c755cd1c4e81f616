package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 0, 1}
	Down    = mgl64.Vec3{0, 0, -1}
	Forward = mgl64.Vec3{1, 0, 0}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LerpInverse maps v from [a, b] onto [0, 1], clamped. A degenerate range
// maps to 0.
func LerpInverse(v, a, b float64) float64 {
	if a == b {
		return 0
	}
	return Clamp((v-a)/(b-a), 0, 1)
}

// LerpVec blends a toward b with t clamped to [0, 1].
func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp(t, 0, 1)
	return a.Add(b.Sub(a).Mul(t))
}

func WithZ(v mgl64.Vec3, z float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], z}
}

func IsNearlyZero(v mgl64.Vec3, tolerance float64) bool {
	return math.Abs(v[0]) <= tolerance && math.Abs(v[1]) <= tolerance && math.Abs(v[2]) <= tolerance
}

func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Sanitize zeroes every non-finite component.
func Sanitize(v mgl64.Vec3) mgl64.Vec3 {
	for i, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			v[i] = 0
		}
	}
	return v
}

// SafeNormalize returns the unit vector of v, or zero and false when v is
// too short or not finite to have a direction.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	if !Finite(v) {
		return mgl64.Vec3{}, false
	}
	l := v.Len()
	if l < 1e-9 || math.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// AddClamped adds toAdd to v without letting the result grow past
// maxLength. A vector already longer than maxLength is shortened onto it.
func AddClamped(v, toAdd mgl64.Vec3, maxLength float64) mgl64.Vec3 {
	if maxLength <= 0 {
		return mgl64.Vec3{}
	}
	out := v.Add(toAdd)
	if l := out.Len(); l > maxLength {
		out = out.Mul(maxLength / l)
	}
	return out
}

// AngleDegrees is the unsigned angle between a and b.
func AngleDegrees(a, b mgl64.Vec3) float64 {
	na, ok := SafeNormalize(a)
	if !ok {
		return 0
	}
	nb, ok := SafeNormalize(b)
	if !ok {
		return 0
	}
	return mgl64.RadToDeg(math.Acos(Clamp(na.Dot(nb), -1, 1)))
}

// YawRotation faces the horizontal projection of dir. A vertical or empty
// dir yields the identity orientation.
func YawRotation(dir mgl64.Vec3) mgl64.Quat {
	flat, ok := SafeNormalize(WithZ(dir, 0))
	if !ok {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Atan2(flat[1], flat[0]), Up)
}

// Yaw extracts the heading of q in radians.
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(Forward)
	return math.Atan2(f[1], f[0])
}

// FacingForward is the unit forward vector of q.
func FacingForward(q mgl64.Quat) mgl64.Vec3 {
	f, ok := SafeNormalize(q.Rotate(Forward))
	if !ok {
		return Forward
	}
	return f
}

// Slerp interpolates along the shorter arc, t clamped to [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp(t, 0, 1)
	a, b = a.Normalize(), b.Normalize()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}
