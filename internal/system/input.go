package system

import (
	"time"

	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	coresys "github.com/l1jgo/danmaku/internal/core/system"
	"go.uber.org/zap"
)

// InputSystem drains destroy requests submitted by collaborators outside the
// tick loop (collision checks, scripts, shutdown) and hands them to the
// bullet manager. Phase 0 (Input).
type InputSystem struct {
	bullets    *bullet.Manager
	queue      chan ecs.EntityID
	maxPerTick int
	log        *zap.Logger
}

// NewInputSystem creates the request queue. maxPerTick <= 0 drains at most
// one queue's worth per tick.
func NewInputSystem(bullets *bullet.Manager, queueSize, maxPerTick int, log *zap.Logger) *InputSystem {
	if queueSize <= 0 {
		queueSize = 256
	}
	if maxPerTick <= 0 {
		maxPerTick = queueSize
	}
	return &InputSystem{
		bullets:    bullets,
		queue:      make(chan ecs.EntityID, queueSize),
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Submit queues a destroy request. Safe from any goroutine; returns false when
// the queue is full and the request was dropped.
func (s *InputSystem) Submit(id ecs.EntityID) bool {
	select {
	case s.queue <- id:
		return true
	default:
		s.log.Warn("destroy queue full, request dropped", zap.Stringer("bullet", id))
		return false
	}
}

func (s *InputSystem) Update(_ time.Duration) {
	for n := 0; n < s.maxPerTick; n++ {
		select {
		case id := <-s.queue:
			if !s.bullets.RequestDestroy(id) {
				s.log.Debug("destroy request for unknown bullet", zap.Stringer("bullet", id))
			}
		default:
			return
		}
	}
}
