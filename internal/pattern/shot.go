// Package pattern composes bullets into attack formations. A composer only
// spawns: after Fire returns, the bullets share no state and the formation
// holds together only because every bullet integrates the same parameters
// with the same dt.
package pattern

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// Kind names a formation.
type Kind string

const (
	KindRing   Kind = "ring"   // VirtualOrbit ring, phase-offset start angles
	KindFan    Kind = "fan"    // even spread over Spread degrees
	KindVolley Kind = "volley" // simultaneous shots, per-shot speeds, random yaw
	KindAimed  Kind = "aimed"  // one shot, random yaw
	KindHoming Kind = "homing" // one homing shot
	KindSpiral Kind = "spiral" // stream: yaw advances by AngleStep per shot
	KindBurst  Kind = "burst"  // stream: re-aimed every shot
)

// Kinds lists every formation Fire understands.
var Kinds = []Kind{KindRing, KindFan, KindVolley, KindAimed, KindHoming, KindSpiral, KindBurst}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown pattern %q", s)
}

// Shot is one formation of a volley. Angles are in degrees, times in seconds.
type Shot struct {
	Pattern Kind
	Count   int
	Speed   float64
	Speeds  []float64 // volley/burst: per-shot speed, last one repeats

	// ring
	Radius     float64
	Growth     float64
	Rotation   float64
	StartAngle float64

	Spread    float64 // fan: total arc; volley/aimed/burst: max random yaw either side
	AngleStep float64 // spiral
	Interval  float64 // spiral/burst: delay between shots

	TurnRate       float64 // homing
	HomingDuration float64 // homing

	Lifetime float64 // 0 = spawner default
	Height   float64 // spawn height above the origin
}

// Aim is where and at what a formation is fired.
type Aim struct {
	Origin    vmath.Vec3
	Direction vmath.Vec3     // toward the target at fire time; zero means Forward
	Target    bullet.Locator // homing and burst
	Volley    uuid.UUID
	Rand      *rand.Rand // nil uses the global source
}

// Spawner is the part of bullet.Manager a composer needs.
type Spawner interface {
	SpawnVolley(volley uuid.UUID, pos vmath.Vec3, lifetime float64, behaviors ...bullet.Behavior) ecs.EntityID
}

// Stream is a formation that keeps firing over time. Update returns true once
// the last shot has been fired.
type Stream interface {
	Update(dt float64) (done bool)
	Fired() []ecs.EntityID
}

// Validate rejects shots a formation cannot fire.
func (s Shot) Validate() error {
	if _, err := ParseKind(string(s.Pattern)); err != nil {
		return err
	}
	switch s.Pattern {
	case KindRing, KindFan, KindSpiral, KindBurst:
		if s.Count < 1 {
			return fmt.Errorf("%s: count must be >= 1", s.Pattern)
		}
	case KindVolley:
		if s.Count < 1 && len(s.Speeds) == 0 {
			return fmt.Errorf("volley: needs count or speeds")
		}
	}
	if s.Interval < 0 || s.Lifetime < 0 {
		return fmt.Errorf("%s: negative interval or lifetime", s.Pattern)
	}
	return nil
}

func (s Shot) speedAt(i int) float64 {
	if len(s.Speeds) == 0 {
		return s.Speed
	}
	if i < len(s.Speeds) {
		return s.Speeds[i]
	}
	return s.Speeds[len(s.Speeds)-1]
}

func (a Aim) direction() vmath.Vec3 {
	if a.Direction.IsZero() {
		return vmath.Forward
	}
	return a.Direction.Normalize()
}

func (a Aim) jitter(spread float64) float64 {
	if spread <= 0 {
		return 0
	}
	var f float64
	if a.Rand != nil {
		f = a.Rand.Float64()
	} else {
		f = rand.Float64()
	}
	return (f*2 - 1) * spread
}
