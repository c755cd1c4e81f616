package entity

import (
	"fmt"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/ecs/system"
	"github.com/milk9111/npccore/prefabs"
)

// NewItem spawns a free carriable item. Nothing holds it until Equip.
func NewItem(w *ecs.World, spec prefabs.ItemSpec) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.ItemTagComponent.Kind(), &component.ItemTag{}); err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("item: add item tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.CarriableComponent.Kind(), &component.Carriable{
		Kind:         spec.Kind,
		Name:         spec.Name,
		Bucket:       spec.Bucket,
		BucketWeight: spec.BucketWeight,
		HoldType:     spec.HoldType,
		Handedness:   spec.Handedness,
		Damage:       spec.Damage,
		Force:        spec.Force,
		Range:        spec.Range,
		Radius:       spec.Radius,
		FireInterval: spec.FireInterval,
	}); err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("item: add carriable: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{}); err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("item: add transform: %w", err)
	}

	return entity, nil
}

// Equip gives item to holder and, when active is set, selects it. The
// selection takes effect on the holder's next tick.
func Equip(w *ecs.World, holder, item ecs.Entity, active bool) error {
	if err := system.Give(w, holder, item); err != nil {
		return fmt.Errorf("equip: %w", err)
	}
	if !active {
		return nil
	}
	if err := system.SetActive(w, holder, item); err != nil {
		return fmt.Errorf("equip: %w", err)
	}
	return nil
}
