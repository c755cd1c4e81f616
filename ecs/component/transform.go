package component

import "github.com/go-gl/mathgl/mgl64"

// Transform places an entity in the world. Position is at the feet; Z is up.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

var TransformComponent = NewComponent[Transform]()
