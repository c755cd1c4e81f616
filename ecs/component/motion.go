package component

import "github.com/go-gl/mathgl/mgl64"

// Motion is the kinematic state the ground mover integrates.
type Motion struct {
	Velocity mgl64.Vec3
	// InputVelocity is this tick's desired direction, unit length or zero.
	InputVelocity mgl64.Vec3
	// LookDir is the smoothed look target offset fed to animation.
	LookDir mgl64.Vec3

	Grounded bool
	// GroundEntity is the entity stood on; zero for level geometry or air.
	GroundEntity  uint64
	GroundSurface string
}

var MotionComponent = NewComponent[Motion]()
