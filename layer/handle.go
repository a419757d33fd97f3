// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package layer

import (
	"sync"

	"golang.org/x/exp/maps"
)

// table maps the opaque handles given to client code to
// the objects they name. Values are minted from a counter
// and never reused, and the zero handle is never minted,
// so stale and null handles fail lookups instead of
// aliasing a live object.
type table[H ~uint64, T any] struct {
	mu   sync.Mutex
	next uint64
	objs map[H]T
}

// put stores obj and mints a handle for it.
func (t *table[H, T]) put(obj T) H {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.objs == nil {
		t.objs = make(map[H]T)
	}
	t.next++
	h := H(t.next)
	t.objs[h] = obj
	return h
}

// get returns the object h names.
func (t *table[H, T]) get(h H) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.objs[h]
	return obj, ok
}

// remove drops h from the table and returns the object it
// named. Ownership moves to the caller.
func (t *table[H, T]) remove(h H) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.objs[h]
	if ok {
		delete(t.objs, h)
	}
	return obj, ok
}

// drain empties the table and returns every object that
// was in it, in no particular order.
func (t *table[H, T]) drain() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	objs := maps.Values(t.objs)
	clear(t.objs)
	return objs
}
