package prefabs

import (
	"fmt"
	"io/fs"
	"slices"
	"sync"
)

// Registry caches loaded archetypes and items. Reloading an entry only
// affects what is spawned afterwards.
type Registry struct {
	mu    sync.RWMutex
	npcs  map[string]NPCSpec
	items map[string]ItemSpec
}

func NewRegistry() *Registry {
	return &Registry{
		npcs:  make(map[string]NPCSpec),
		items: make(map[string]ItemSpec),
	}
}

// NPC returns the named archetype, loading it on first use.
func (r *Registry) NPC(name string) (NPCSpec, error) {
	key := baseName(name)
	r.mu.RLock()
	spec, ok := r.npcs[key]
	r.mu.RUnlock()
	if ok {
		return spec, nil
	}
	spec, err := LoadNPCSpec(key)
	if err != nil {
		return NPCSpec{}, err
	}
	r.mu.Lock()
	r.npcs[key] = spec
	r.mu.Unlock()
	return spec, nil
}

// Item returns the named item, loading it on first use.
func (r *Registry) Item(name string) (ItemSpec, error) {
	key := baseName(name)
	r.mu.RLock()
	spec, ok := r.items[key]
	r.mu.RUnlock()
	if ok {
		return spec, nil
	}
	spec, err := LoadItemSpec(key)
	if err != nil {
		return ItemSpec{}, err
	}
	r.mu.Lock()
	r.items[key] = spec
	r.mu.Unlock()
	return spec, nil
}

// Apply reloads whatever a watcher change touched. A spec that no longer
// loads keeps its previous cached value and the error is returned.
func (r *Registry) Apply(change Change) error {
	switch change.Kind {
	case ChangeNPC:
		spec, err := LoadNPCSpec(change.Name)
		if err != nil {
			return fmt.Errorf("prefabs: reload npc %s: %w", change.Name, err)
		}
		r.mu.Lock()
		r.npcs[change.Name] = spec
		r.mu.Unlock()
	case ChangeItem:
		spec, err := LoadItemSpec(change.Name)
		if err != nil {
			return fmt.Errorf("prefabs: reload item %s: %w", change.Name, err)
		}
		r.mu.Lock()
		r.items[change.Name] = spec
		r.mu.Unlock()
	}
	return nil
}

// Archetypes lists the embedded archetype names in sorted order.
func (r *Registry) Archetypes() []string {
	entries, err := fs.ReadDir(PrefabsFS, "npcs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isSpecFile(entry.Name()) {
			continue
		}
		names = append(names, baseName(entry.Name()))
	}
	slices.Sort(names)
	return names
}
