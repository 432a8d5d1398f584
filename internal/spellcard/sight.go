package spellcard

import "github.com/l1jgo/danmaku/internal/vmath"

// Occluder answers line-of-sight queries against level geometry.
type Occluder interface {
	Clear(from, to vmath.Vec3) bool
}

// OccluderFunc adapts a function to Occluder.
type OccluderFunc func(from, to vmath.Vec3) bool

func (f OccluderFunc) Clear(from, to vmath.Vec3) bool { return f(from, to) }

// Sight is a caster's view cone. Range <= 0 is unlimited; FOV <= 0 or >= 360
// sees all around. The cone is tested on the horizontal plane.
type Sight struct {
	Range    float64
	FOV      float64 // full cone angle in degrees
	Occluder Occluder
}

// CanSee reports whether target is visible from origin looking along facing.
func (s Sight) CanSee(origin, facing, target vmath.Vec3) bool {
	d := target.Sub(origin)
	if s.Range > 0 && d.LenSq() > s.Range*s.Range {
		return false
	}
	if s.FOV > 0 && s.FOV < 360 {
		flat, look := d.Flat(), facing.Flat()
		if !flat.IsZero() && !look.IsZero() && vmath.AngleDeg(look, flat) > s.FOV/2 {
			return false
		}
	}
	if s.Occluder != nil && !s.Occluder.Clear(origin, target) {
		return false
	}
	return true
}
