package physics

import "sync"

// Surface describes the material of a body: how much it slows things that
// slide on it and which impact effect it plays when struck.
type Surface struct {
	Name            string
	Friction        float64
	ImpactParticles string
	ImpactSound     string
}

var (
	surfacesMu sync.RWMutex
	surfaces   = map[string]*Surface{
		"default":  {Name: "default", Friction: 0.8, ImpactParticles: "particles/impact.generic", ImpactSound: "impact-bullet-default"},
		"concrete": {Name: "concrete", Friction: 0.8, ImpactParticles: "particles/impact.concrete", ImpactSound: "impact-bullet-concrete"},
		"metal":    {Name: "metal", Friction: 0.6, ImpactParticles: "particles/impact.metal", ImpactSound: "impact-bullet-metal"},
		"wood":     {Name: "wood", Friction: 0.7, ImpactParticles: "particles/impact.wood", ImpactSound: "impact-bullet-wood"},
		"flesh":    {Name: "flesh", Friction: 0.9, ImpactParticles: "particles/impact.flesh", ImpactSound: "impact-bullet-flesh"},
		"water":    {Name: "water", Friction: 0.2, ImpactParticles: "particles/impact.water", ImpactSound: "impact-bullet-water"},
		"ice":      {Name: "ice", Friction: 0.1, ImpactParticles: "particles/impact.glass", ImpactSound: "impact-bullet-glass"},
	}
)

// LookupSurface returns the named surface, falling back to "default".
func LookupSurface(name string) *Surface {
	surfacesMu.RLock()
	defer surfacesMu.RUnlock()
	if s, ok := surfaces[name]; ok {
		return s
	}
	return surfaces["default"]
}

// RegisterSurface adds or replaces a surface definition.
func RegisterSurface(s Surface) {
	if s.Name == "" {
		return
	}
	surfacesMu.Lock()
	defer surfacesMu.Unlock()
	copied := s
	surfaces[s.Name] = &copied
}
