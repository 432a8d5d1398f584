package ecs

// World is the top-level ECS container. It owns the entity pool, the
// registered component stores, and a deferred destruction queue flushed once
// per tick in the cleanup phase. Destruction never happens mid-iteration: everything that
// wants an entity gone (its own timeout, a collision collaborator, a script)
// goes through MarkForDestruction.
type World struct {
	pool         *EntityPool
	stores       []Removable
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}, 64),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }

// Register adds a component store; flushed entities are removed from every
// registered store.
func (w *World) Register(store Removable) {
	w.stores = append(w.stores, store)
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Repeated marks
// and marks for dead entities are ignored. Returns true if id was queued by
// this call.
func (w *World) MarkForDestruction(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	if _, dup := w.queued[id]; dup {
		return false
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
	return true
}

// PendingDestruction reports whether id is queued for the next flush.
func (w *World) PendingDestruction(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// FlushDestroyQueue destroys all queued entities in queue order, clears their
// components and calls fn (if non-nil) for each one before any components
// are removed. Stores that support it drop the whole batch in one pass.
func (w *World) FlushDestroyQueue(fn func(EntityID)) int {
	live := w.destroyQueue[:0]
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		if fn != nil {
			fn(id)
		}
		live = append(live, id)
	}
	for _, st := range w.stores {
		if b, ok := st.(BatchRemovable); ok {
			b.RemoveAll(live)
			continue
		}
		for _, id := range live {
			st.Remove(id)
		}
	}
	for _, id := range live {
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	return len(live)
}
