package component

import "github.com/go-gl/mathgl/mgl64"

// Corpse is the ragdoll left behind by a dead agent.
type Corpse struct {
	Archetype string
	Model     string
	Bone      string
	Force     mgl64.Vec3
	Headshot  bool
	Source    uint64
}

var CorpseComponent = NewComponent[Corpse]()
