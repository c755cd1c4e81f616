package system

import (
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
)

// animate poses the agent for its active item, or idles it empty-handed.
func (s *NPCSystem) animate(w *ecs.World, e ecs.Entity) {
	anim, ok := ecs.Get(w, e, component.AnimParamsComponent.Kind())
	if !ok {
		return
	}
	if eq, ok := ecs.Get(w, e, component.EquipmentComponent.Kind()); ok && eq.Active != 0 {
		if ctx, behaviour, ok := s.itemContext(w, ecs.Entity(eq.Active), e); ok {
			if driven, ok := behaviour.(AnimDriven); ok {
				driven.Animate(ctx, anim)
				return
			}
		}
	}
	anim.Set("holdtype", 0)
	anim.Set("aim_body_weight", 0.5)
}
