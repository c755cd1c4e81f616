package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/logger"
)

// KillEvent is broadcast to everyone when an agent dies.
type KillEvent struct {
	ID        uuid.UUID  `json:"id"`
	Victim    ecs.Entity `json:"victim"`
	Attacker  ecs.Entity `json:"attacker"`
	Archetype string     `json:"archetype"`
	Headshot  bool       `json:"headshot"`
	Position  mgl64.Vec3 `json:"position"`
	Tick      uint64     `json:"tick"`
}

// DamageFeedback is sent privately to the player that dealt the damage.
type DamageFeedback struct {
	ID             uuid.UUID  `json:"id"`
	Victim         ecs.Entity `json:"victim"`
	Position       mgl64.Vec3 `json:"position"`
	Amount         float64    `json:"amount"`
	HealthFraction float64    `json:"health_fraction"`
	Killed         bool       `json:"killed"`
}

// Notifier receives the notifications the simulation produces. Delivery is
// best effort; implementations must not block the tick.
type Notifier interface {
	AgentKilled(evt KillEvent)
	DamageFeedback(attacker ecs.Entity, fb DamageFeedback)
}

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

func (LogNotifier) AgentKilled(evt KillEvent) {
	logger.For("notify").WithFields(logrus.Fields{
		"id":        evt.ID,
		"victim":    evt.Victim,
		"attacker":  evt.Attacker,
		"archetype": evt.Archetype,
		"headshot":  evt.Headshot,
	}).Info("agent killed")
}

func (LogNotifier) DamageFeedback(attacker ecs.Entity, fb DamageFeedback) {
	logger.For("notify").WithFields(logrus.Fields{
		"attacker": attacker,
		"victim":   fb.Victim,
		"amount":   fb.Amount,
		"fraction": fb.HealthFraction,
		"killed":   fb.Killed,
	}).Debug("damage feedback")
}

// MultiNotifier fans notifications out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) AgentKilled(evt KillEvent) {
	for _, n := range m {
		if n != nil {
			n.AgentKilled(evt)
		}
	}
}

func (m MultiNotifier) DamageFeedback(attacker ecs.Entity, fb DamageFeedback) {
	for _, n := range m {
		if n != nil {
			n.DamageFeedback(attacker, fb)
		}
	}
}
