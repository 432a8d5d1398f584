package bullet

import (
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// DefaultLifetime is used when a bullet is created with a non-positive lifetime.
const DefaultLifetime = 5.0

type slot struct {
	behavior Behavior
	removed  bool
}

// Bullet is a single projectile: kinematic state, its own clock and an ordered
// stack of behaviors. Position and Velocity belong to the bullet but are
// written by whichever behavior ran last in a tick.
type Bullet struct {
	ID       ecs.EntityID
	Position vmath.Vec3
	Velocity vmath.Vec3

	elapsed  float64
	lifetime float64
	expired  bool

	slots     []slot
	iterating bool
	dirty     bool

	// ended is invoked after a behavior's OnEnd; the Manager uses it to emit events.
	ended func(*Bullet, Behavior)
}

// New creates a bullet with no behaviors. lifetime is in seconds.
func New(id ecs.EntityID, pos vmath.Vec3, lifetime float64) *Bullet {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Bullet{
		ID:       id,
		Position: pos,
		lifetime: lifetime,
		slots:    make([]slot, 0, 2),
	}
}

func (b *Bullet) Elapsed() float64  { return b.elapsed }
func (b *Bullet) Lifetime() float64 { return b.lifetime }

// Expired reports whether the bullet's clock has reached its lifetime.
func (b *Bullet) Expired() bool { return b.expired }

// AddBehavior appends bh and initializes it immediately. When called from
// inside Advance the new behavior is first updated on the next tick.
// A nil behavior is ignored.
func (b *Bullet) AddBehavior(bh Behavior) {
	if bh == nil {
		return
	}
	b.slots = append(b.slots, slot{behavior: bh})
	bh.Initialize(b)
}

func (b *Bullet) AddBehaviors(bhs ...Behavior) {
	for _, bh := range bhs {
		b.AddBehavior(bh)
	}
}

// RemoveBehavior detaches the first active occurrence of bh without calling
// OnEnd. During Advance the behavior is only marked: it is skipped for the
// rest of the tick and physically removed once the iteration is over.
func (b *Bullet) RemoveBehavior(bh Behavior) {
	if bh == nil {
		return
	}
	for i := range b.slots {
		if b.slots[i].removed || b.slots[i].behavior != bh {
			continue
		}
		if b.iterating {
			b.slots[i].removed = true
			b.dirty = true
			return
		}
		last := len(b.slots) - 1
		copy(b.slots[i:], b.slots[i+1:])
		b.slots[last] = slot{}
		b.slots = b.slots[:last]
		return
	}
}

// ClearBehaviors detaches every behavior without calling OnEnd. Safe to call
// repeatedly and from inside Advance.
func (b *Bullet) ClearBehaviors() {
	if b.iterating {
		for i := range b.slots {
			b.slots[i].removed = true
		}
		b.dirty = len(b.slots) > 0
		return
	}
	clear(b.slots)
	b.slots = b.slots[:0]
}

// Behaviors returns the active behaviors in attach order.
func (b *Bullet) Behaviors() []Behavior {
	out := make([]Behavior, 0, len(b.slots))
	for _, s := range b.slots {
		if !s.removed {
			out = append(out, s.behavior)
		}
	}
	return out
}

// Has reports whether bh is attached and not marked for removal.
func (b *Bullet) Has(bh Behavior) bool {
	for _, s := range b.slots {
		if !s.removed && s.behavior == bh {
			return true
		}
	}
	return false
}

// Advance runs one tick: the clock moves by dt seconds, then every behavior
// attached before this call is updated once in attach order. Returns true
// exactly once, on the tick the clock reaches the lifetime; the caller owns
// destruction. Non-positive dt, re-entrant calls and calls after expiry are
// no-ops.
func (b *Bullet) Advance(dt float64) bool {
	if dt <= 0 || b.iterating || b.expired {
		return false
	}
	b.elapsed += dt

	b.iterating = true
	n := len(b.slots)
	for i := 0; i < n; i++ {
		// index every time: AddBehavior may grow (and reallocate) slots
		if b.slots[i].removed {
			continue
		}
		bh := b.slots[i].behavior
		if bh.Update(b, dt) != Terminate {
			continue
		}
		b.slots[i].removed = true
		b.dirty = true
		bh.OnEnd(b)
		if b.ended != nil {
			b.ended(b, bh)
		}
	}
	b.iterating = false

	if b.dirty {
		b.compact()
	}

	if b.elapsed >= b.lifetime {
		b.expired = true
		return true
	}
	return false
}

func (b *Bullet) compact() {
	kept := b.slots[:0]
	for _, s := range b.slots {
		if !s.removed {
			kept = append(kept, s)
		}
	}
	clear(b.slots[len(kept):])
	b.slots = kept
	b.dirty = false
}
