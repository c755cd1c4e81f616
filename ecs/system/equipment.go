package system

import (
	"errors"
	"fmt"
	"slices"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
)

var (
	ErrNotCarriable = errors.New("system: entity is not carriable")
	ErrNotCarried   = errors.New("system: item is not carried by holder")
)

// ItemContext is what an item behaviour sees when the coordinator calls it.
type ItemContext struct {
	World     *ecs.World
	System    *NPCSystem
	Item      ecs.Entity
	Holder    ecs.Entity
	Carriable *component.Carriable
}

// Activatable items are told when they become the holder's active item.
type Activatable interface {
	ActiveStart(ctx ItemContext)
}

// Deactivatable items are told when they stop being active. dropped is true
// when the holder no longer owns the item.
type Deactivatable interface {
	ActiveEnd(ctx ItemContext, dropped bool)
}

// Simulatable items run every tick while active and owned by the holder.
type Simulatable interface {
	Simulate(ctx ItemContext)
}

// AnimDriven items pose the holder while active.
type AnimDriven interface {
	Animate(ctx ItemContext, anim *component.AnimParams)
}

// RegisterItem binds a behaviour to a carriable kind. behaviour may
// implement any subset of Activatable, Deactivatable, Simulatable and
// AnimDriven.
func (s *NPCSystem) RegisterItem(kind string, behaviour any) {
	if s.items == nil {
		s.items = make(map[string]any)
	}
	s.items[kind] = behaviour
}

func (s *NPCSystem) itemContext(w *ecs.World, item, holder ecs.Entity) (ItemContext, any, bool) {
	if !item.Valid() || !ecs.IsAlive(w, item) {
		return ItemContext{}, nil, false
	}
	carry, ok := ecs.Get(w, item, component.CarriableComponent.Kind())
	if !ok {
		return ItemContext{}, nil, false
	}
	ctx := ItemContext{World: w, System: s, Item: item, Holder: holder, Carriable: carry}
	return ctx, s.items[carry.Kind], true
}

// simulateActiveChild is the equipped-item coordinator. A change of active
// item deactivates the previous one and then activates the next, once per
// change. The active item simulates while the agent owns it.
func (s *NPCSystem) simulateActiveChild(w *ecs.World, e ecs.Entity) {
	eq, ok := ecs.Get(w, e, component.EquipmentComponent.Kind())
	if !ok {
		return
	}
	// A destroyed item has no components left, so it gets no ActiveEnd.
	if eq.Active != 0 && !ecs.IsAlive(w, ecs.Entity(eq.Active)) {
		eq.Active = 0
	}

	if eq.Active != eq.LastActive {
		prev, next := ecs.Entity(eq.LastActive), ecs.Entity(eq.Active)
		eq.LastActive = eq.Active
		s.activeChanged(w, e, prev, next)
	}
	if eq.LastActive == 0 {
		return
	}

	ctx, behaviour, ok := s.itemContext(w, ecs.Entity(eq.LastActive), e)
	if !ok || ctx.Carriable.Owner != uint64(e) {
		return
	}
	if sim, ok := behaviour.(Simulatable); ok {
		sim.Simulate(ctx)
	}
}

func (s *NPCSystem) activeChanged(w *ecs.World, e, prev, next ecs.Entity) {
	if ctx, behaviour, ok := s.itemContext(w, prev, e); ok {
		if d, ok := behaviour.(Deactivatable); ok {
			d.ActiveEnd(ctx, ctx.Carriable.Owner != uint64(e))
		}
	}
	if ctx, behaviour, ok := s.itemContext(w, next, e); ok {
		if a, ok := behaviour.(Activatable); ok {
			a.ActiveStart(ctx)
		}
	}
}

// Give hands item to holder's inventory. The item stays inactive.
func Give(w *ecs.World, holder, item ecs.Entity) error {
	carry, ok := ecs.Get(w, item, component.CarriableComponent.Kind())
	if !ok {
		return fmt.Errorf("system: give %v: %w", item, ErrNotCarriable)
	}
	inv, ok := ecs.Get(w, holder, component.InventoryComponent.Kind())
	if !ok {
		inv = &component.Inventory{}
		if err := ecs.Add(w, holder, component.InventoryComponent.Kind(), inv); err != nil {
			return fmt.Errorf("system: give %v: %w", item, err)
		}
	}
	if !slices.Contains(inv.Items, uint64(item)) {
		inv.Items = append(inv.Items, uint64(item))
	}
	carry.Owner = uint64(holder)
	return nil
}

// SetActive selects item as holder's active item. NoEntity puts everything
// away. The switch itself happens on the holder's next tick.
func SetActive(w *ecs.World, holder, item ecs.Entity) error {
	if item != ecs.NoEntity {
		carry, ok := ecs.Get(w, item, component.CarriableComponent.Kind())
		if !ok {
			return fmt.Errorf("system: set active %v: %w", item, ErrNotCarriable)
		}
		if carry.Owner != uint64(holder) {
			return fmt.Errorf("system: set active %v: %w", item, ErrNotCarried)
		}
	}
	eq, ok := ecs.Get(w, holder, component.EquipmentComponent.Kind())
	if !ok {
		eq = &component.Equipment{}
		if err := ecs.Add(w, holder, component.EquipmentComponent.Kind(), eq); err != nil {
			return fmt.Errorf("system: set active %v: %w", item, err)
		}
	}
	eq.Active = uint64(item)
	return nil
}

// Drop takes item out of holder's inventory. If it was active, the holder's
// next tick deactivates it as dropped.
func Drop(w *ecs.World, holder, item ecs.Entity) error {
	carry, ok := ecs.Get(w, item, component.CarriableComponent.Kind())
	if !ok {
		return fmt.Errorf("system: drop %v: %w", item, ErrNotCarriable)
	}
	if carry.Owner != uint64(holder) {
		return fmt.Errorf("system: drop %v: %w", item, ErrNotCarried)
	}
	carry.Owner = 0
	if inv, ok := ecs.Get(w, holder, component.InventoryComponent.Kind()); ok {
		inv.Items = slices.DeleteFunc(inv.Items, func(id uint64) bool { return id == uint64(item) })
	}
	if eq, ok := ecs.Get(w, holder, component.EquipmentComponent.Kind()); ok && eq.Active == uint64(item) {
		eq.Active = 0
	}
	return nil
}

// SortedItems lists holder's items in selection order.
func SortedItems(w *ecs.World, holder ecs.Entity) []ecs.Entity {
	inv, ok := ecs.Get(w, holder, component.InventoryComponent.Kind())
	if !ok {
		return nil
	}
	type entry struct {
		e     ecs.Entity
		order int
	}
	entries := make([]entry, 0, len(inv.Items))
	for _, id := range inv.Items {
		carry, ok := ecs.Get(w, ecs.Entity(id), component.CarriableComponent.Kind())
		if !ok {
			continue
		}
		entries = append(entries, entry{e: ecs.Entity(id), order: carry.Order()})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return a.order - b.order
	})
	out := make([]ecs.Entity, len(entries))
	for i, en := range entries {
		out[i] = en.e
	}
	return out
}

func (s *NPCSystem) destroyInventory(w *ecs.World, e ecs.Entity) {
	inv, ok := ecs.Get(w, e, component.InventoryComponent.Kind())
	if !ok {
		return
	}
	for _, id := range inv.Items {
		item := ecs.Entity(id)
		if carry, ok := ecs.Get(w, item, component.CarriableComponent.Kind()); ok && carry.Owner == uint64(e) {
			ecs.DestroyEntity(w, item)
		}
	}
	inv.Items = nil
}
