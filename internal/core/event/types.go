package event

import (
	"github.com/google/uuid"
	"github.com/l1jgo/danmaku/internal/core/ecs"
)

// DestroyReason says which channel removed a bullet.
type DestroyReason int

const (
	ReasonTimeout   DestroyReason = iota // entity clock reached its lifetime
	ReasonRequested                      // external collaborator (collision, script, shutdown)
)

func (r DestroyReason) String() string {
	switch r {
	case ReasonTimeout:
		return "timeout"
	case ReasonRequested:
		return "requested"
	}
	return "unknown"
}

type BulletSpawned struct {
	ID       ecs.EntityID
	VolleyID uuid.UUID // uuid.Nil for bullets spawned outside a volley
}

// BulletExpired is emitted on the tick a bullet's clock reaches its lifetime.
type BulletExpired struct {
	ID      ecs.EntityID
	Elapsed float64
}

// BulletDestroyed is emitted when the destroy queue is flushed.
type BulletDestroyed struct {
	ID     ecs.EntityID
	Reason DestroyReason
}

// BehaviorEnded is emitted when a behavior returned Terminate and its OnEnd ran.
type BehaviorEnded struct {
	ID       ecs.EntityID
	Behavior string
}

// VolleyFired is emitted by a caster after one volley of a spell card.
type VolleyFired struct {
	VolleyID uuid.UUID
	Caster   string
	Card     string
	Volley   int
	Bullets  int
}

// SpawnsDropped is emitted at most once per tick when the bullet cap refused
// spawns during that tick.
type SpawnsDropped struct {
	Count      int
	MaxBullets int
}
