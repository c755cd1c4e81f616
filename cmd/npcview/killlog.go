package main

import (
	"fmt"
	"sync"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/system"
)

// killLog keeps the most recent kill lines for the overlay.
type killLog struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func newKillLog(max int) *killLog {
	return &killLog{max: max}
}

func (k *killLog) AgentKilled(evt system.KillEvent) {
	line := fmt.Sprintf("%s #%d killed", evt.Archetype, evt.Victim)
	if evt.Attacker.Valid() {
		line += fmt.Sprintf(" by #%d", evt.Attacker)
	}
	if evt.Headshot {
		line += " (headshot)"
	}
	k.push(line)
}

func (k *killLog) DamageFeedback(attacker ecs.Entity, fb system.DamageFeedback) {
	if fb.Killed {
		return
	}
	k.push(fmt.Sprintf("#%d hit #%d for %.0f", attacker, fb.Victim, fb.Amount))
}

func (k *killLog) push(line string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.lines = append(k.lines, line)
	if len(k.lines) > k.max {
		k.lines = k.lines[len(k.lines)-k.max:]
	}
}

func (k *killLog) Lines() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.lines...)
}
