package system

import (
	"time"

	"github.com/l1jgo/danmaku/internal/bullet"
	coresys "github.com/l1jgo/danmaku/internal/core/system"
	"go.uber.org/zap"
)

// PublishSystem hands every bullet's post-update state to the manager's
// observers. Phase 4 (Publish).
type PublishSystem struct {
	bullets *bullet.Manager
}

func NewPublishSystem(bullets *bullet.Manager) *PublishSystem {
	return &PublishSystem{bullets: bullets}
}

func (s *PublishSystem) Phase() coresys.Phase { return coresys.PhasePublish }

func (s *PublishSystem) Update(_ time.Duration) {
	s.bullets.Publish()
}

// LogObserver traces bullet state at Debug level. Returns nil when the logger
// would drop Debug entries, so callers skip registering it.
func LogObserver(log *zap.Logger) bullet.Observer {
	if !log.Core().Enabled(zap.DebugLevel) {
		return nil
	}
	return bullet.ObserverFunc(func(st bullet.State) {
		log.Debug("bullet",
			zap.Stringer("id", st.ID),
			zap.Stringer("pos", st.Position),
			zap.Stringer("vel", st.Velocity),
			zap.Float64("elapsed", st.Elapsed))
	})
}
