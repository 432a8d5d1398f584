package bullet

import "github.com/l1jgo/danmaku/internal/vmath"

// Linear flies the bullet at a constant velocity.
type Linear struct {
	Velocity vmath.Vec3
}

// NewLinear builds a Linear moving along dir at speed. A zero dir flies along
// vmath.Forward.
func NewLinear(dir vmath.Vec3, speed float64) *Linear {
	if dir.IsZero() {
		dir = vmath.Forward
	}
	return &Linear{Velocity: dir.Normalize().Scale(speed)}
}

func (l *Linear) Initialize(b *Bullet) {
	b.Velocity = l.Velocity
}

func (l *Linear) Update(b *Bullet, dt float64) Status {
	b.Position = b.Position.Add(l.Velocity.Scale(dt))
	b.Velocity = l.Velocity
	return Continue
}

func (l *Linear) OnEnd(*Bullet) {}
