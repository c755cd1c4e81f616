package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Tick uint64
	Data any
}

const (
	// EventDamage carries a damage delivery to one victim.
	EventDamage = "damage"
	// EventEffect carries a cosmetic particle/sound cue.
	EventEffect = "effect"
	// EventKilled is pushed when an agent completes its death transition.
	EventKilled = "killed"
	// EventAnim marks a one-shot animation trigger.
	EventAnim = "anim"
)

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len reports queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Emit pushes an event stamped with the current tick.
func (w *World) Emit(kind string, data any) {
	if w == nil {
		return
	}
	w.events.Push(Event{Type: kind, Tick: w.tick, Data: data})
}
