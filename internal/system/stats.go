package system

import (
	"time"

	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/event"
	coresys "github.com/l1jgo/danmaku/internal/core/system"
	"github.com/l1jgo/danmaku/internal/spatial"
	"go.uber.org/zap"
)

// Stats are running totals built from bullet and volley events.
type Stats struct {
	Spawned       uint64
	Expired       uint64
	Timeouts      uint64
	Requested     uint64
	BehaviorsDone uint64
	Volleys       uint64
	Dropped       uint64 // spawns refused at the bullet cap
	Live          int
	NearTarget    int // bullets within the pressure radius of the target
}

// StatsSystem counts events and logs a summary every interval. A zero
// interval only counts. Phase 4 (Publish).
type StatsSystem struct {
	bullets  *bullet.Manager
	interval time.Duration
	since    time.Duration
	stats    Stats
	log      *zap.Logger

	grid   *spatial.Grid
	target bullet.Locator
	radius float64
}

func NewStatsSystem(bus *event.Bus, bullets *bullet.Manager, interval time.Duration, log *zap.Logger) *StatsSystem {
	s := &StatsSystem{bullets: bullets, interval: interval, log: log}
	event.Subscribe(bus, func(event.BulletSpawned) { s.stats.Spawned++ })
	event.Subscribe(bus, func(event.BulletExpired) { s.stats.Expired++ })
	event.Subscribe(bus, func(e event.BulletDestroyed) {
		switch e.Reason {
		case event.ReasonTimeout:
			s.stats.Timeouts++
		case event.ReasonRequested:
			s.stats.Requested++
		}
	})
	event.Subscribe(bus, func(event.BehaviorEnded) { s.stats.BehaviorsDone++ })
	event.Subscribe(bus, func(event.VolleyFired) { s.stats.Volleys++ })
	event.Subscribe(bus, func(e event.SpawnsDropped) { s.stats.Dropped += uint64(e.Count) })
	return s
}

// TrackPressure adds the number of bullets within radius of target to every
// snapshot. The grid must be registered as a bullet observer.
func (s *StatsSystem) TrackPressure(grid *spatial.Grid, target bullet.Locator, radius float64) {
	s.grid, s.target, s.radius = grid, target, radius
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePublish }

func (s *StatsSystem) Update(dt time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.since += dt
	if s.since < s.interval {
		return
	}
	s.since = 0
	st := s.Snapshot()
	s.log.Info("bullet stats",
		zap.Int("live", st.Live),
		zap.Uint64("spawned", st.Spawned),
		zap.Uint64("timeouts", st.Timeouts),
		zap.Uint64("requested", st.Requested),
		zap.Uint64("behaviors_ended", st.BehaviorsDone),
		zap.Uint64("volleys", st.Volleys),
		zap.Uint64("dropped", st.Dropped),
		zap.Int("near_target", st.NearTarget))
}

// Snapshot returns the totals delivered so far. Events lag one tick behind.
func (s *StatsSystem) Snapshot() Stats {
	st := s.stats
	st.Live = s.bullets.Len()
	if s.grid != nil && s.target != nil {
		if pos, ok := s.target.Locate(); ok {
			st.NearTarget = s.grid.CountNear(pos, s.radius)
		}
	}
	return st
}
