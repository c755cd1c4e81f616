package component

import "github.com/milk9111/npccore/steer"

// Steering holds the provider an agent asks for a direction each tick. A nil
// Steer means the agent idles.
type Steering struct {
	Steer steer.Steerer
}

var SteeringComponent = NewComponent[Steering]()
