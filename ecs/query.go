package ecs

import (
	"slices"

	"github.com/milk9111/npccore/ecs/component"
)

// snapshot copies a store's entity list in slot order so callbacks may add,
// remove or destroy freely while iterating.
func snapshot(s componentStore) []Entity {
	if s == nil || s.len() == 0 {
		return nil
	}
	out := slices.Clone(s.entities())
	slices.SortFunc(out, func(a, b Entity) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	sa := storeFor(w, ka, false)
	if sa == nil || fn == nil {
		return
	}
	for _, e := range snapshot(sa) {
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	if sa == nil || storeFor(w, kb, false) == nil || fn == nil {
		return
	}
	for _, e := range snapshot(sa) {
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		b, ok := Get(w, e, kb)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		c, ok := Get(w, e, kc)
		if !ok {
			return
		}
		fn(e, a, b, c)
	})
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	ForEach3(w, ka, kb, kc, func(e Entity, a *A, b *B, c *C) {
		d, ok := Get(w, e, kd)
		if !ok {
			return
		}
		fn(e, a, b, c, d)
	})
}

// First returns the lowest-slot entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	for _, e := range snapshot(storeFor(w, kind, false)) {
		if IsAlive(w, e) {
			return e, true
		}
	}
	return NoEntity, false
}

// Query returns the live entities that carry every listed kind, in slot order.
func Query(w *World, kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]componentStore, 0, len(kinds))
	for _, k := range kinds {
		if k == nil || !k.Valid() {
			return nil
		}
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}
	slices.SortFunc(stores, func(a, b componentStore) int { return a.len() - b.len() })

	var out []Entity
	for _, e := range snapshot(stores[0]) {
		if !IsAlive(w, e) {
			continue
		}
		matched := true
		for _, s := range stores[1:] {
			if !s.has(e) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, e)
		}
	}
	return out
}
