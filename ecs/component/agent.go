package component

// MeleeCapability gives an archetype a native melee strike.
type MeleeCapability struct {
	Damage float64
	Force  float64
	// RequireTarget skips the strike when nothing hostile is in reach.
	RequireTarget bool
}

// Archetype is the per-kind tuning an agent was spawned from.
type Archetype struct {
	Name            string
	Model           string
	EyeHeight       float64
	HullHeight      float64
	HullRadius      float64
	MeleeStrikeTime float64
	UseWeapon       bool
	Weapon          string
	Melee           *MeleeCapability
	Script          string
}

// Agent is the mutable per-NPC simulation state.
type Agent struct {
	Archetype Archetype

	Health      float64
	SpawnHealth float64
	// NowSpeed is sampled once at spawn and held for the agent's lifetime.
	NowSpeed float64

	IsHeadShot bool
	Dead       bool
	LastDamage DamageInfo

	SinceJump  TimeSince
	SinceFall  TimeSince
	SinceMelee TimeSince
}

// Decorative agents never report hits to their attacker.
func (a *Agent) Decorative() bool {
	return a.SpawnHealth <= 0
}

var AgentComponent = NewComponent[Agent]()
