package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/config"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/entity"
	"github.com/milk9111/npccore/ecs/system"
	"github.com/milk9111/npccore/logger"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/prefabs"
)

// Sim bundles one running simulation: the entity world, its physics, the
// loaded level and the systems that step them.
type Sim struct {
	World    *ecs.World
	Physics  *physics.World
	Registry *prefabs.Registry
	NPCs     *system.NPCSystem
	Level    *entity.Level

	scheduler *ecs.Scheduler
	log       *logrus.Entry
}

// New builds a simulation from cfg and loads the configured level. The
// notifier may be nil.
func New(cfg *config.Config, notifier system.Notifier) (*Sim, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	prefabs.SetDir(cfg.Prefabs.Dir)

	w := ecs.NewWorldWithOptions(ecs.Options{
		TickRate:      cfg.Sim.TickRate,
		Seed:          cfg.Sim.Seed,
		Authoritative: cfg.Sim.Authoritative,
	})
	phys := physics.NewWorld()
	reg := prefabs.NewRegistry()

	opts := []system.NPCOption{system.WithCorpseTTL(cfg.Sim.CorpseTTL)}
	if notifier != nil {
		opts = append(opts, system.WithNotifier(notifier))
	}
	npcs := system.NewNPCSystem(phys, opts...)

	spec, err := prefabs.LoadLevelSpec(cfg.Level.Name)
	if err != nil {
		return nil, fmt.Errorf("sim: load level %s: %w", cfg.Level.Name, err)
	}
	level, err := entity.LoadLevel(w, phys, reg, spec)
	if err != nil {
		return nil, fmt.Errorf("sim: build level %s: %w", cfg.Level.Name, err)
	}

	s := &Sim{
		World:    w,
		Physics:  phys,
		Registry: reg,
		NPCs:     npcs,
		Level:    level,
		scheduler: ecs.NewScheduler(
			npcs,
			system.NewCorpseSystem(npcs.Mover()),
			system.NewTTLSystem(phys),
		),
		log: logger.For("sim").WithField("level", level.Name),
	}
	s.log.WithFields(logrus.Fields{
		"npcs":    len(level.NPCs),
		"players": len(level.Players),
		"rate":    w.TickRate(),
	}).Info("level loaded")
	return s, nil
}

// Step advances the simulation by one tick and returns the events that
// tick produced.
func (s *Sim) Step() []ecs.Event {
	s.scheduler.Update(s.World)
	return s.World.Events().Drain()
}

// Player returns the first player in the level, if there is one.
func (s *Sim) Player() (ecs.Entity, bool) {
	for _, p := range s.Level.Players {
		if ecs.IsAlive(s.World, p) {
			return p, true
		}
	}
	return ecs.NoEntity, false
}

// Apply reacts to a prefab change. Archetype and item reloads only affect
// later spawns; script changes recompile on the next tick.
func (s *Sim) Apply(change prefabs.Change) error {
	switch change.Kind {
	case prefabs.ChangeScript:
		s.NPCs.InvalidateScripts()
	case prefabs.ChangeNPC, prefabs.ChangeItem:
		if err := s.Registry.Apply(change); err != nil {
			return err
		}
	default:
		return nil
	}
	s.log.WithFields(logrus.Fields{"kind": change.Kind, "name": change.Name}).Info("prefab reloaded")
	return nil
}

// Pending applies every change already queued on w without blocking. Call
// it between steps so reloads never race the tick.
func (s *Sim) Pending(w *prefabs.Watcher) {
	if w == nil {
		return
	}
	for {
		select {
		case change, ok := <-w.Events:
			if !ok {
				return
			}
			if err := s.Apply(change); err != nil {
				s.log.WithError(err).Warn("prefab reload failed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.WithError(err).Warn("prefab watcher")
		default:
			return
		}
	}
}
