package store

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/snapshot"
)

// arena is an insertion-ordered collection indexed by id, together with the
// allocator of the next id.
type arena[T any] struct {
	items []T
	index map[kernel.ID]int
	next  kernel.ID
}

func newArena[T any]() *arena[T] {
	return &arena[T]{
		index: make(map[kernel.ID]int),
		next:  snapshot.DefaultNextID,
	}
}

// nextID is the id the next insert should use. It only moves on insert, so a
// failed construction does not burn an id.
func (a *arena[T]) nextID() kernel.ID {
	return a.next
}

// insert adds item under id unless the id is taken. The allocator moves past
// id so it is never handed out again.
func (a *arena[T]) insert(id kernel.ID, item T) bool {
	if _, ok := a.index[id]; ok {
		return false
	}
	a.index[id] = len(a.items)
	a.items = append(a.items, item)
	if id >= a.next {
		a.next = id + 1
	}
	return true
}

func (a *arena[T]) find(id kernel.ID) (T, bool) {
	i, ok := a.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return a.items[i], true
}

func (a *arena[T]) len() int {
	return len(a.items)
}

// advance raises the allocator to at least next.
func (a *arena[T]) advance(next kernel.ID) {
	if next > a.next {
		a.next = next
	}
}

// cloneOf adapts arena.find for callers that must not share the entity.
func cloneOf[T interface{ Clone() T }](item T, ok bool) (T, bool) {
	if !ok {
		var zero T
		return zero, false
	}
	return item.Clone(), true
}

func cloneAll[T interface{ Clone() T }](items []T) []T {
	clones := make([]T, 0, len(items))
	for _, item := range items {
		clones = append(clones, item.Clone())
	}
	return clones
}
