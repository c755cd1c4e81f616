package component

// Health is the hit-point pool of non-agent damageable entities (players,
// props). Agents keep their own health on Agent.
type Health struct {
	Current      float64
	Max          float64
	LastAttacker uint64
}

var HealthComponent = NewComponent[Health]()
