package pattern

import (
	"fmt"

	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// Fire spawns a formation. Instant formations return their bullet IDs and a
// nil Stream; spiral and burst fire their first shot immediately and return a
// Stream the caller must Update every tick until it reports done.
func Fire(sp Spawner, shot Shot, aim Aim) ([]ecs.EntityID, Stream, error) {
	switch shot.Pattern {
	case KindRing:
		return Ring(sp, shot, aim), nil, nil
	case KindFan:
		return Fan(sp, shot, aim), nil, nil
	case KindVolley:
		return Volley(sp, shot, aim), nil, nil
	case KindAimed:
		return single(sp, shot, aim, bullet.NewLinear(vmath.Yaw(aim.direction(), aim.jitter(shot.Spread)), shot.Speed)), nil, nil
	case KindHoming:
		h := bullet.NewHoming(aim.Target, aim.direction(), shot.Speed, shot.TurnRate, shot.HomingDuration)
		return single(sp, shot, aim, h), nil, nil
	case KindSpiral:
		s := newSpiral(sp, shot, aim)
		return s.Fired(), s, nil
	case KindBurst:
		s := newBurst(sp, shot, aim)
		return s.Fired(), s, nil
	}
	return nil, nil, fmt.Errorf("fire: unknown pattern %q", shot.Pattern)
}

// Ring spawns Count bullets on one VirtualOrbit each. All orbits share the
// center, its velocity (aim direction times Speed), radius, growth and
// rotation; bullet i starts at StartAngle + i*360/Count.
func Ring(sp Spawner, shot Shot, aim Aim) []ecs.EntityID {
	if shot.Count <= 0 {
		return nil
	}
	center := aim.Origin.Add(vmath.Up.Scale(shot.Height))
	centerVel := aim.direction().Scale(shot.Speed)
	step := 360.0 / float64(shot.Count)

	ids := make([]ecs.EntityID, 0, shot.Count)
	for i := 0; i < shot.Count; i++ {
		orbit := bullet.NewVirtualOrbit(center, centerVel, shot.Radius, shot.Growth, shot.Rotation,
			shot.StartAngle+float64(i)*step)
		if id := sp.SpawnVolley(aim.Volley, center, shot.Lifetime, orbit); !id.IsZero() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Fan spreads Count straight shots evenly across Spread degrees centered on
// the aim direction. A single shot flies straight.
func Fan(sp Spawner, shot Shot, aim Aim) []ecs.EntityID {
	if shot.Count <= 0 {
		return nil
	}
	start := -shot.Spread / 2
	step := 0.0
	if shot.Count > 1 {
		step = shot.Spread / float64(shot.Count-1)
	} else {
		start = 0
	}
	pos := aim.Origin.Add(vmath.Up.Scale(shot.Height))
	dir := aim.direction()

	ids := make([]ecs.EntityID, 0, shot.Count)
	for i := 0; i < shot.Count; i++ {
		d := vmath.Yaw(dir, start+float64(i)*step)
		if id := sp.SpawnVolley(aim.Volley, pos, shot.Lifetime, bullet.NewLinear(d, shot.Speed)); !id.IsZero() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Volley fires every shot on the same tick, each with its own speed and a
// random yaw within ±Spread. Count defaults to len(Speeds).
func Volley(sp Spawner, shot Shot, aim Aim) []ecs.EntityID {
	n := shot.Count
	if n <= 0 {
		n = len(shot.Speeds)
	}
	pos := aim.Origin.Add(vmath.Up.Scale(shot.Height))
	dir := aim.direction()

	ids := make([]ecs.EntityID, 0, n)
	for i := 0; i < n; i++ {
		d := vmath.Yaw(dir, aim.jitter(shot.Spread))
		if id := sp.SpawnVolley(aim.Volley, pos, shot.Lifetime, bullet.NewLinear(d, shot.speedAt(i))); !id.IsZero() {
			ids = append(ids, id)
		}
	}
	return ids
}

func single(sp Spawner, shot Shot, aim Aim, bh bullet.Behavior) []ecs.EntityID {
	pos := aim.Origin.Add(vmath.Up.Scale(shot.Height))
	if id := sp.SpawnVolley(aim.Volley, pos, shot.Lifetime, bh); !id.IsZero() {
		return []ecs.EntityID{id}
	}
	return nil
}
