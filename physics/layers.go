package physics

import (
	"fmt"
	"strings"
)

// Layer is a collision layer bit. Each body sits on exactly one layer and
// traces select the layers they hit with a mask.
type Layer uint

const (
	LayerStatic Layer = 1 << iota
	LayerSolid
	LayerWater
	LayerDebris
	LayerActor
)

const (
	// LayerWorld is what ground movement collides with.
	LayerWorld = LayerStatic | LayerSolid
	// LayerEntities is every layer that can carry a damageable entity.
	LayerEntities = LayerSolid | LayerDebris | LayerActor
	LayerAll      = LayerStatic | LayerSolid | LayerWater | LayerDebris | LayerActor
)

var layerNames = map[string]Layer{
	"static": LayerStatic,
	"solid":  LayerSolid,
	"water":  LayerWater,
	"debris": LayerDebris,
	"actor":  LayerActor,
}

func (l Layer) Has(other Layer) bool {
	return l&other != 0
}

func (l Layer) String() string {
	var parts []string
	for _, name := range []string{"static", "solid", "water", "debris", "actor"} {
		if l.Has(layerNames[name]) {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseLayer resolves a single layer name as written in level files.
func ParseLayer(name string) (Layer, error) {
	if name == "" {
		return LayerStatic, nil
	}
	l, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("physics: unknown layer %q", name)
	}
	return l, nil
}
