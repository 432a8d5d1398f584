package ecs

// Removable is implemented by all component stores so the World can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// BatchRemovable stores remove a whole flush in one pass.
type BatchRemovable interface {
	Removable
	RemoveAll(ids []EntityID)
}

// OrderedStore is a generic typed component store that preserves insertion
// order. Iteration order is the order entities were Set, which gives the tick
// loop a stable cross-entity order. Removal keeps the relative order of the
// remaining entries.
type OrderedStore[T any] struct {
	index map[EntityID]int
	ids   []EntityID
	data  []*T
}

func NewOrderedStore[T any]() *OrderedStore[T] {
	return &OrderedStore[T]{
		index: make(map[EntityID]int, 256),
		ids:   make([]EntityID, 0, 256),
		data:  make([]*T, 0, 256),
	}
}

// Set inserts c at the end, or replaces in place if id is already present.
func (s *OrderedStore[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.data[i] = c
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.data = append(s.data, c)
}

func (s *OrderedStore[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.data[i], true
}

func (s *OrderedStore[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	copy(s.ids[i:], s.ids[i+1:])
	copy(s.data[i:], s.data[i+1:])
	last := len(s.ids) - 1
	s.data[last] = nil
	s.ids = s.ids[:last]
	s.data = s.data[:last]
	for j := i; j < last; j++ {
		s.index[s.ids[j]] = j
	}
}

// RemoveAll drops every listed id in a single compaction pass, keeping the
// relative order of the survivors. Unknown ids are ignored.
func (s *OrderedStore[T]) RemoveAll(ids []EntityID) {
	first := len(s.ids)
	for _, id := range ids {
		i, ok := s.index[id]
		if !ok {
			continue
		}
		delete(s.index, id)
		if i < first {
			first = i
		}
	}
	if first == len(s.ids) {
		return
	}
	k := first
	for j := first; j < len(s.ids); j++ {
		id := s.ids[j]
		if _, live := s.index[id]; !live {
			continue
		}
		s.ids[k] = id
		s.data[k] = s.data[j]
		s.index[id] = k
		k++
	}
	clear(s.data[k:])
	s.ids = s.ids[:k]
	s.data = s.data[:k]
}

func (s *OrderedStore[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *OrderedStore[T]) Len() int {
	return len(s.ids)
}

// Each visits entries in insertion order. The set visited is fixed when Each
// starts: entries Set during the walk are not visited, and the walk must not
// Remove (use the World's destroy queue instead).
func (s *OrderedStore[T]) Each(fn func(EntityID, *T)) {
	n := len(s.ids)
	for i := 0; i < n; i++ {
		fn(s.ids[i], s.data[i])
	}
}
