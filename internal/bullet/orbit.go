package bullet

import "github.com/l1jgo/danmaku/internal/vmath"

// VirtualOrbit places its bullet on a circle around a virtual center that
// translates at a constant velocity while the circle grows and rotates about
// the vertical axis. Several bullets sharing every parameter except the start
// angle form a ring that stays coherent as long as they receive the same dt.
//
// Position is computed analytically each tick, so it never drifts. Velocity is
// reported as the center's velocity only, not the tangential velocity of the
// orbiting point, so anything extrapolating from Velocity follows the
// dominant translation.
//
// Radius is not clamped: a negative growth rate shrinks it through zero and
// flips the bullet to the opposite side of the center. The behavior never
// terminates on its own; the bullet's lifetime ends it.
type VirtualOrbit struct {
	Center         vmath.Vec3
	CenterVelocity vmath.Vec3
	Radius         float64
	RadiusGrowth   float64 // units per second
	RotationSpeed  float64 // degrees per second
	Angle          float64 // degrees, [0, 360)
}

func NewVirtualOrbit(center, centerVelocity vmath.Vec3, radius, growth, rotationSpeed, startAngle float64) *VirtualOrbit {
	return &VirtualOrbit{
		Center:         center,
		CenterVelocity: centerVelocity,
		Radius:         radius,
		RadiusGrowth:   growth,
		RotationSpeed:  rotationSpeed,
		Angle:          vmath.Wrap360(startAngle),
	}
}

func (o *VirtualOrbit) Initialize(b *Bullet) {
	o.place(b)
}

func (o *VirtualOrbit) Update(b *Bullet, dt float64) Status {
	o.Center = o.Center.Add(o.CenterVelocity.Scale(dt))
	o.Radius += o.RadiusGrowth * dt
	o.Angle = vmath.Wrap360(o.Angle + o.RotationSpeed*dt)
	o.place(b)
	return Continue
}

func (o *VirtualOrbit) OnEnd(*Bullet) {}

// Offset is the bullet's displacement from the virtual center.
func (o *VirtualOrbit) Offset() vmath.Vec3 {
	return vmath.RotateY(vmath.Forward, o.Angle).Scale(o.Radius)
}

func (o *VirtualOrbit) place(b *Bullet) {
	b.Position = o.Center.Add(o.Offset())
	b.Velocity = o.CenterVelocity
}
