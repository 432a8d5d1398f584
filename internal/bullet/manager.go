package bullet

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/core/event"
	"github.com/l1jgo/danmaku/internal/vmath"
	"go.uber.org/zap"
)

// Config controls spawning limits and defaults.
type Config struct {
	DefaultLifetime float64 // seconds, used when Spawn gets lifetime <= 0
	MaxBullets      int     // 0 = unlimited
}

// State is the read-only view of a bullet handed to observers.
type State struct {
	ID       ecs.EntityID
	Position vmath.Vec3
	Velocity vmath.Vec3
	Elapsed  float64
	Lifetime float64
}

// Observer consumes bullet state once per tick. Observers never write back.
type Observer interface {
	Observe(s State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(State)

func (f ObserverFunc) Observe(s State) { f(s) }

// Manager is the spawner: the only place bullets are created, advanced and
// destroyed. Bullets advance in spawn order. Destruction, whether from a
// bullet's own timeout or from RequestDestroy, is queued in the ECS world and
// applied by Flush at the end of the tick.
type Manager struct {
	world     *ecs.World
	bullets   *ecs.OrderedStore[Bullet]
	bus       *event.Bus
	log       *zap.Logger
	cfg       Config
	reasons   map[ecs.EntityID]event.DestroyReason
	observers []Observer

	dropped      int // spawns refused at the cap since the last Flush
	droppedTotal uint64
}

func NewManager(world *ecs.World, bus *event.Bus, cfg Config, log *zap.Logger) *Manager {
	if cfg.DefaultLifetime <= 0 {
		cfg.DefaultLifetime = DefaultLifetime
	}
	m := &Manager{
		world:   world,
		bullets: ecs.NewOrderedStore[Bullet](),
		bus:     bus,
		log:     log,
		cfg:     cfg,
		reasons: make(map[ecs.EntityID]event.DestroyReason, 64),
	}
	world.Register(m.bullets)
	return m
}

// Spawn creates a bullet at pos with the given behaviors. Every behavior is
// initialized before Spawn returns, and a bullet spawned while the manager is
// advancing is first advanced on the next tick. Returns the zero ID when the
// bullet cap is reached.
func (m *Manager) Spawn(pos vmath.Vec3, lifetime float64, behaviors ...Behavior) ecs.EntityID {
	return m.SpawnVolley(uuid.Nil, pos, lifetime, behaviors...)
}

// SpawnVolley is Spawn with the volley the bullet belongs to, for tracing.
func (m *Manager) SpawnVolley(volley uuid.UUID, pos vmath.Vec3, lifetime float64, behaviors ...Behavior) ecs.EntityID {
	if m.cfg.MaxBullets > 0 && m.bullets.Len() >= m.cfg.MaxBullets {
		m.dropped++
		m.droppedTotal++
		return 0
	}
	if lifetime <= 0 {
		lifetime = m.cfg.DefaultLifetime
	}

	id := m.world.CreateEntity()
	b := New(id, pos, lifetime)
	b.ended = m.behaviorEnded
	b.AddBehaviors(behaviors...)
	m.bullets.Set(id, b)

	event.Emit(m.bus, event.BulletSpawned{ID: id, VolleyID: volley})
	return id
}

// RequestDestroy queues a bullet for destruction at the end of the current
// tick. It is not advanced again and its behaviors' OnEnd are not called.
// Returns false for unknown, dead or already queued bullets.
func (m *Manager) RequestDestroy(id ecs.EntityID) bool {
	if !m.bullets.Has(id) {
		return false
	}
	if !m.world.MarkForDestruction(id) {
		return false
	}
	m.reasons[id] = event.ReasonRequested
	return true
}

// Advance moves every live bullet forward by dt seconds. Bullets whose clock
// runs out are queued for destruction.
func (m *Manager) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	m.bullets.Each(func(id ecs.EntityID, b *Bullet) {
		if m.world.PendingDestruction(id) {
			return
		}
		if !b.Advance(dt) {
			return
		}
		if m.world.MarkForDestruction(id) {
			m.reasons[id] = event.ReasonTimeout
			event.Emit(m.bus, event.BulletExpired{ID: id, Elapsed: b.Elapsed()})
		}
	})
}

// Flush applies every queued destruction and returns how many bullets were
// removed. Spawns refused at the cap since the previous Flush are reported
// here, once: one SpawnsDropped event and one Warn line.
func (m *Manager) Flush() int {
	n := m.world.FlushDestroyQueue(func(id ecs.EntityID) {
		if !m.bullets.Has(id) {
			return
		}
		reason := m.reasons[id]
		delete(m.reasons, id)
		event.Emit(m.bus, event.BulletDestroyed{ID: id, Reason: reason})
		m.log.Debug("bullet destroyed", zap.Stringer("id", id), zap.Stringer("reason", reason))
	})
	if m.dropped > 0 {
		event.Emit(m.bus, event.SpawnsDropped{Count: m.dropped, MaxBullets: m.cfg.MaxBullets})
		m.log.Warn("bullet cap reached, spawns dropped",
			zap.Int("dropped", m.dropped),
			zap.Int("max_bullets", m.cfg.MaxBullets))
		m.dropped = 0
	}
	return n
}

// Dropped returns the total number of spawns refused at the cap.
func (m *Manager) Dropped() uint64 { return m.droppedTotal }

// Tick is Advance followed by Flush, for callers without a system runner.
func (m *Manager) Tick(dt float64) int {
	m.Advance(dt)
	return m.Flush()
}

func (m *Manager) Get(id ecs.EntityID) (*Bullet, bool) {
	return m.bullets.Get(id)
}

func (m *Manager) Len() int { return m.bullets.Len() }

// Each visits live bullets in spawn order.
func (m *Manager) Each(fn func(*Bullet)) {
	m.bullets.Each(func(_ ecs.EntityID, b *Bullet) { fn(b) })
}

func (m *Manager) AddObserver(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// Publish hands the current state of every live bullet to the observers.
func (m *Manager) Publish() {
	if len(m.observers) == 0 {
		return
	}
	m.bullets.Each(func(id ecs.EntityID, b *Bullet) {
		s := State{
			ID:       id,
			Position: b.Position,
			Velocity: b.Velocity,
			Elapsed:  b.elapsed,
			Lifetime: b.lifetime,
		}
		for _, o := range m.observers {
			o.Observe(s)
		}
	})
}

func (m *Manager) behaviorEnded(b *Bullet, bh Behavior) {
	name := fmt.Sprintf("%T", bh)
	event.Emit(m.bus, event.BehaviorEnded{ID: b.ID, Behavior: name})
	m.log.Debug("behavior ended", zap.Stringer("id", b.ID), zap.String("behavior", name))
}
