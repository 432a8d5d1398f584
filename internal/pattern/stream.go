package pattern

import (
	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// timedStream fires Count shots, the first one immediately and the rest every
// Interval seconds. next builds the direction and speed of shot i.
type timedStream struct {
	sp    Spawner
	shot  Shot
	aim   Aim
	next  func(i int) (vmath.Vec3, float64)
	fired int
	timer float64
	ids   []ecs.EntityID
}

func (s *timedStream) fireOne() {
	dir, speed := s.next(s.fired)
	pos := s.aim.Origin.Add(vmath.Up.Scale(s.shot.Height))
	if id := s.sp.SpawnVolley(s.aim.Volley, pos, s.shot.Lifetime, bullet.NewLinear(dir, speed)); !id.IsZero() {
		s.ids = append(s.ids, id)
	}
	s.fired++
}

func (s *timedStream) done() bool { return s.fired >= s.shot.Count }

func (s *timedStream) Update(dt float64) bool {
	if s.done() {
		return true
	}
	if dt <= 0 {
		return false
	}
	s.timer += dt
	for !s.done() && s.timer >= s.shot.Interval {
		s.timer -= s.shot.Interval
		s.fireOne()
	}
	return s.done()
}

// Fired returns the IDs spawned so far.
func (s *timedStream) Fired() []ecs.EntityID { return s.ids }

func (s *timedStream) start() *timedStream {
	if s.shot.Count > 0 {
		s.fireOne()
	}
	return s
}

// newSpiral fixes the base direction at fire time and turns each following
// shot by AngleStep more.
func newSpiral(sp Spawner, shot Shot, aim Aim) *timedStream {
	base := aim.direction()
	s := &timedStream{sp: sp, shot: shot, aim: aim}
	s.next = func(i int) (vmath.Vec3, float64) {
		return vmath.Yaw(base, shot.StartAngle+float64(i)*shot.AngleStep), shot.speedAt(i)
	}
	return s.start()
}

// newBurst re-aims at the target for every shot, keeping the last known
// direction while the target cannot be located.
func newBurst(sp Spawner, shot Shot, aim Aim) *timedStream {
	dir := aim.direction()
	s := &timedStream{sp: sp, shot: shot, aim: aim}
	s.next = func(i int) (vmath.Vec3, float64) {
		if aim.Target != nil {
			if pos, ok := aim.Target.Locate(); ok {
				if d := pos.Sub(aim.Origin); !d.IsZero() {
					dir = d.Normalize()
				}
			}
		}
		return vmath.Yaw(dir, aim.jitter(shot.Spread)), shot.speedAt(i)
	}
	return s.start()
}
