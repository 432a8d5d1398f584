package bullet

// Status is what a behavior reports after each Update.
type Status int

const (
	Continue  Status = iota // stay attached
	Terminate               // OnEnd runs once, then the behavior is detached
)

func (s Status) String() string {
	if s == Terminate {
		return "terminate"
	}
	return "continue"
}

// Behavior is a unit of motion logic attached to exactly one Bullet.
//
// Initialize runs once, synchronously, when the behavior is attached and before
// its first Update. Update runs at most once per tick and writes the bullet's
// Position/Velocity. OnEnd runs once, only after Update returned Terminate; a
// bullet that times out or is destroyed by request never calls OnEnd on the
// behaviors still attached to it.
//
// Behaviors are compared by identity (==) for removal, so implement them on
// pointer receivers.
type Behavior interface {
	Initialize(b *Bullet)
	Update(b *Bullet, dt float64) Status
	OnEnd(b *Bullet)
}
