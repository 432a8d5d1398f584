package vmath

import "math"

const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)

// Wrap360 maps an angle in degrees into [0, 360).
func Wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -tiny + 360 rounds to 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// RotateY rotates v about the vertical axis by deg degrees.
// Positive angles turn Forward toward Right: RotateY(Forward, 90) == Right.
func RotateY(v Vec3, deg float64) Vec3 {
	s, c := math.Sincos(deg * Deg2Rad)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// Yaw turns a direction by deg degrees about its own local up axis (the
// world up re-orthogonalised against dir). For horizontal directions this is
// identical to RotateY. A direction parallel to Up is returned unchanged.
func Yaw(dir Vec3, deg float64) Vec3 {
	f := dir.Normalize()
	right := Up.Cross(f)
	if right.LenSq() < 1e-12 {
		return dir
	}
	right = right.Normalize()
	s, c := math.Sincos(deg * Deg2Rad)
	return f.Scale(c).Add(right.Scale(s)).Scale(dir.Len())
}

// AngleDeg returns the unsigned angle between a and b in degrees.
// Zero vectors yield 0.
func AngleDeg(a, b Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * Rad2Deg
}

// RotateTowards turns from toward to by at most maxDeg degrees, keeping the
// length of from. Returns from unchanged when either vector is zero.
func RotateTowards(from, to Vec3, maxDeg float64) Vec3 {
	speed := from.Len()
	if speed == 0 || to.IsZero() || maxDeg <= 0 {
		return from
	}
	f := from.Normalize()
	t := to.Normalize()
	angle := AngleDeg(f, t)
	if angle <= maxDeg {
		return t.Scale(speed)
	}

	axis := f.Cross(t)
	if axis.LenSq() < 1e-12 {
		// opposite directions: any perpendicular works, prefer turning in the horizontal plane
		axis = Up.Cross(f)
		if axis.LenSq() < 1e-12 {
			axis = Right
		}
		axis = axis.Cross(f)
	}
	return rotateAxis(f, axis.Normalize(), maxDeg).Scale(speed)
}

// rotateAxis applies Rodrigues' rotation of v about a unit axis, right-handed
// in the math sense (counter-clockwise looking down the axis).
func rotateAxis(v, axis Vec3, deg float64) Vec3 {
	s, c := math.Sincos(deg * Deg2Rad)
	return v.Scale(c).
		Add(axis.Cross(v).Scale(s)).
		Add(axis.Scale(axis.Dot(v) * (1 - c)))
}
