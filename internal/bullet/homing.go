package bullet

import "github.com/l1jgo/danmaku/internal/vmath"

// Locator reports where a target currently is. ok is false when the target is
// gone; homing bullets then keep their heading.
type Locator interface {
	Locate() (pos vmath.Vec3, ok bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func() (vmath.Vec3, bool)

func (f LocatorFunc) Locate() (vmath.Vec3, bool) { return f() }

// Homing steers toward a target, turning at most TurnRate degrees per second,
// for Duration seconds. When the duration is spent it terminates and hands
// the bullet over to a Linear with its final velocity.
type Homing struct {
	Target   Locator
	Speed    float64
	TurnRate float64 // degrees per second
	Duration float64 // seconds

	velocity vmath.Vec3
	elapsed  float64
}

func NewHoming(target Locator, dir vmath.Vec3, speed, turnRate, duration float64) *Homing {
	if dir.IsZero() {
		dir = vmath.Forward
	}
	return &Homing{
		Target:   target,
		Speed:    speed,
		TurnRate: turnRate,
		Duration: duration,
		velocity: dir.Normalize().Scale(speed),
	}
}

func (h *Homing) Initialize(b *Bullet) {
	b.Velocity = h.velocity
}

func (h *Homing) Update(b *Bullet, dt float64) Status {
	h.elapsed += dt
	if h.Target != nil {
		if pos, ok := h.Target.Locate(); ok {
			h.velocity = vmath.RotateTowards(h.velocity, pos.Sub(b.Position), h.TurnRate*dt)
		}
	}
	b.Position = b.Position.Add(h.velocity.Scale(dt))
	b.Velocity = h.velocity
	if h.elapsed >= h.Duration {
		return Terminate
	}
	return Continue
}

func (h *Homing) OnEnd(b *Bullet) {
	b.AddBehavior(&Linear{Velocity: h.velocity})
}

// Heading is the current velocity of the homing flight.
func (h *Homing) Heading() vmath.Vec3 { return h.velocity }
