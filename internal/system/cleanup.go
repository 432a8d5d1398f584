package system

import (
	"time"

	"github.com/l1jgo/danmaku/internal/bullet"
	coresys "github.com/l1jgo/danmaku/internal/core/system"
)

// CleanupSystem flushes the deferred bullet destruction queue at tick end.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	bullets *bullet.Manager
}

func NewCleanupSystem(bullets *bullet.Manager) *CleanupSystem {
	return &CleanupSystem{bullets: bullets}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.bullets.Flush()
}
