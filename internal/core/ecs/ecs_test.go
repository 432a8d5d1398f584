package ecs

import "testing"

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()

	a := p.Create()
	if a.IsZero() {
		t.Fatal("first ID must not be the zero ID")
	}
	if !p.Alive(a) {
		t.Fatal("new ID not alive")
	}
	if !p.Destroy(a) {
		t.Fatal("destroy of live ID returned false")
	}
	if p.Alive(a) {
		t.Fatal("destroyed ID still alive")
	}
	if p.Destroy(a) {
		t.Fatal("double destroy returned true")
	}

	b := p.Create()
	if b.Index() != a.Index() {
		t.Fatalf("slot not recycled: %v vs %v", b, a)
	}
	if b.Generation() != a.Generation()+1 {
		t.Fatalf("generation not bumped: %v", b)
	}
	if p.Alive(a) {
		t.Fatal("stale ID alive after slot reuse")
	}
	if p.Live() != 1 {
		t.Fatalf("Live = %d, want 1", p.Live())
	}
}

func TestZeroIDNeverAlive(t *testing.T) {
	p := NewEntityPool()
	p.Create()
	if p.Alive(0) {
		t.Fatal("zero ID reported alive")
	}
}

func TestOrderedStorePreservesOrder(t *testing.T) {
	s := NewOrderedStore[int]()
	ids := []EntityID{5, 3, 9, 1}
	for i, id := range ids {
		v := i
		s.Set(id, &v)
	}

	s.Remove(3)

	var got []EntityID
	s.Each(func(id EntityID, _ *int) { got = append(got, id) })
	want := []EntityID{5, 9, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if v, ok := s.Get(1); !ok || *v != 3 {
		t.Fatalf("index not rebuilt after remove: %v %v", v, ok)
	}
	s.Remove(42) // unknown is a no-op
	if s.Len() != 3 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestOrderedStoreEachSkipsLateInserts(t *testing.T) {
	s := NewOrderedStore[int]()
	one := 1
	s.Set(1, &one)

	visited := 0
	s.Each(func(id EntityID, _ *int) {
		visited++
		two := 2
		s.Set(id+100, &two)
	})
	if visited != 1 {
		t.Fatalf("visited %d, want 1", visited)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestWorldDestroyQueueDedup(t *testing.T) {
	w := NewWorld()
	store := NewOrderedStore[string]()
	w.Register(store)

	id := w.CreateEntity()
	name := "bullet"
	store.Set(id, &name)

	if !w.MarkForDestruction(id) {
		t.Fatal("first mark rejected")
	}
	if w.MarkForDestruction(id) {
		t.Fatal("second mark accepted")
	}
	if !w.PendingDestruction(id) {
		t.Fatal("not pending")
	}
	if !w.Alive(id) {
		t.Fatal("destroyed before flush")
	}

	var flushed []EntityID
	n := w.FlushDestroyQueue(func(id EntityID) { flushed = append(flushed, id) })
	if n != 1 || len(flushed) != 1 {
		t.Fatalf("flushed %d (%v), want 1", n, flushed)
	}
	if w.Alive(id) || store.Has(id) {
		t.Fatal("entity survived flush")
	}
	if w.MarkForDestruction(id) {
		t.Fatal("dead entity accepted into queue")
	}
	if n := w.FlushDestroyQueue(nil); n != 0 {
		t.Fatalf("second flush destroyed %d", n)
	}
}

func TestOrderedStoreRemoveAll(t *testing.T) {
	s := NewOrderedStore[int]()
	for i := 1; i <= 8; i++ {
		v := i * 10
		s.Set(EntityID(i), &v)
	}

	s.RemoveAll([]EntityID{7, 2, 42, 4, 2})

	var got []EntityID
	s.Each(func(id EntityID, _ *int) { got = append(got, id) })
	want := []EntityID{1, 3, 5, 6, 8}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
		if v, ok := s.Get(want[i]); !ok || *v != int(want[i])*10 {
			t.Fatalf("Get(%v) = %v, %v after batch remove", want[i], v, ok)
		}
	}
	if s.Has(2) || s.Has(7) {
		t.Fatal("removed ids still indexed")
	}

	s.RemoveAll(nil)
	s.RemoveAll([]EntityID{99})
	if s.Len() != 5 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestFlushLargeBatchKeepsOrder(t *testing.T) {
	w := NewWorld()
	store := NewOrderedStore[int]()
	w.Register(store)

	const n = 4000
	ids := make([]EntityID, n)
	for i := range ids {
		ids[i] = w.CreateEntity()
		v := i
		store.Set(ids[i], &v)
	}
	// every other entity goes in one flush
	for i := 0; i < n; i += 2 {
		w.MarkForDestruction(ids[i])
	}
	var seen int
	if got := w.FlushDestroyQueue(func(id EntityID) {
		if !store.Has(id) {
			t.Errorf("%v already removed when its callback ran", id)
		}
		seen++
	}); got != n/2 || seen != n/2 {
		t.Fatalf("flushed %d, callbacks %d, want %d", got, seen, n/2)
	}

	if store.Len() != n/2 {
		t.Fatalf("Len = %d", store.Len())
	}
	i := 1
	store.Each(func(id EntityID, v *int) {
		if id != ids[i] || *v != i {
			t.Fatalf("entry %v=%d, want %v=%d", id, *v, ids[i], i)
		}
		i += 2
	})
	if w.Alive(ids[0]) || !w.Alive(ids[1]) {
		t.Fatal("pool state wrong after flush")
	}
}
