package component

// Collider is the hull an entity occupies in the physics world.
type Collider struct {
	Height  float64
	Radius  float64
	Surface string
}

var ColliderComponent = NewComponent[Collider]()
