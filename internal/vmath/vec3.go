package vmath

import (
	"fmt"
	"math"
)

// Vec3 is a float64 3D vector. Y is the vertical axis.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{0, 1, 0}
	Forward = Vec3{0, 0, 1}
	Right   = Vec3{1, 0, 0}
)

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LenSq() float64 { return v.Dot(v) }
func (v Vec3) Len() float64   { return math.Sqrt(v.LenSq()) }

// Normalize returns the unit vector, or Zero for a zero-length input.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	inv := 1.0 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 { return Vec3{v.X, 0, v.Z} }

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// ApproxEqual compares component-wise within eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

func (v Vec3) String() string {
	return fmt.Sprintf("{%.3f, %.3f, %.3f}", v.X, v.Y, v.Z)
}

func Distance(a, b Vec3) float64 { return a.Sub(b).Len() }
