package store

// Arena allocates records under a monotonic int64 id. Deleting a record
// leaves a gap; ids are never handed out twice. Arena is not safe for
// concurrent use, its owner serializes access.
type Arena[T any] struct {
	next  int64
	items map[int64]T
	order []int64
}

func NewArena[T any]() *Arena[T] {
	return &Arena[T]{
		next:  1,
		items: make(map[int64]T),
	}
}

// Alloc reserves the next id, builds the record for it and stores it.
func (a *Arena[T]) Alloc(build func(id int64) T) T {
	id := a.next
	a.next++
	v := build(id)
	a.items[id] = v
	a.order = append(a.order, id)
	return v
}

func (a *Arena[T]) Get(id int64) (T, bool) {
	v, ok := a.items[id]
	return v, ok
}

// Replace overwrites an existing record. It reports false if id is absent.
func (a *Arena[T]) Replace(id int64, v T) bool {
	if _, ok := a.items[id]; !ok {
		return false
	}
	a.items[id] = v
	return true
}

func (a *Arena[T]) Delete(id int64) bool {
	if _, ok := a.items[id]; !ok {
		return false
	}
	delete(a.items, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the records in allocation order.
func (a *Arena[T]) All() []T {
	out := make([]T, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.items[id])
	}
	return out
}

func (a *Arena[T]) Len() int {
	return len(a.order)
}
