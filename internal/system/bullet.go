package system

import (
	"time"

	"github.com/l1jgo/danmaku/internal/bullet"
	coresys "github.com/l1jgo/danmaku/internal/core/system"
)

// BulletSystem advances every live bullet by the tick's dt in seconds.
// Phase 3 (Update).
type BulletSystem struct {
	bullets *bullet.Manager
}

func NewBulletSystem(bullets *bullet.Manager) *BulletSystem {
	return &BulletSystem{bullets: bullets}
}

func (s *BulletSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *BulletSystem) Update(dt time.Duration) {
	s.bullets.Advance(dt.Seconds())
}
