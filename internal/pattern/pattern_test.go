package pattern

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/vmath"
	"go.uber.org/zap"
)

const eps = 1e-9

func newManager() *bullet.Manager {
	return bullet.NewManager(ecs.NewWorld(), nil, bullet.Config{}, zap.NewNop())
}

func velocities(t *testing.T, m *bullet.Manager, ids []ecs.EntityID) []vmath.Vec3 {
	t.Helper()
	out := make([]vmath.Vec3, 0, len(ids))
	for _, id := range ids {
		b, ok := m.Get(id)
		if !ok {
			t.Fatalf("bullet %v missing", id)
		}
		out = append(out, b.Velocity)
	}
	return out
}

func TestRingFormation(t *testing.T) {
	m := newManager()
	shot := Shot{Pattern: KindRing, Count: 6, Speed: 25, Radius: 1, Growth: 12, Rotation: 100, Height: 0.5, Lifetime: 5}
	aim := Aim{Origin: vmath.V3(10, 0, 0), Direction: vmath.V3(0, 0, 3), Volley: uuid.New()}

	ids, stream, err := Fire(m, shot, aim)
	if err != nil || stream != nil {
		t.Fatalf("err=%v stream=%v", err, stream)
	}
	if len(ids) != 6 {
		t.Fatalf("spawned %d, want 6", len(ids))
	}

	center := vmath.V3(10, 0.5, 0)
	for i, id := range ids {
		b, _ := m.Get(id)
		want := center.Add(vmath.RotateY(vmath.Forward, float64(i)*60))
		if !b.Position.ApproxEqual(want, eps) {
			t.Errorf("bullet %d at %v, want %v", i, b.Position, want)
		}
		if !b.Velocity.ApproxEqual(vmath.V3(0, 0, 25), eps) {
			t.Errorf("bullet %d velocity %v", i, b.Velocity)
		}
		if b.Lifetime() != 5 {
			t.Errorf("bullet %d lifetime %v", i, b.Lifetime())
		}
	}

	// the ring stays a ring: every bullet is the same distance from the
	// shared center after identical ticks
	for i := 0; i < 30; i++ {
		m.Tick(1.0 / 60)
	}
	center = center.Add(vmath.V3(0, 0, 25*0.5))
	radius := 1 + 12*0.5
	for i, id := range ids {
		b, _ := m.Get(id)
		if d := vmath.Distance(b.Position, center); math.Abs(d-radius) > 1e-6 {
			t.Errorf("bullet %d at distance %v from center, want %v", i, d, radius)
		}
	}
}

func TestRingZeroCount(t *testing.T) {
	m := newManager()
	if ids := Ring(m, Shot{Pattern: KindRing}, Aim{}); ids != nil {
		t.Fatalf("ids = %v", ids)
	}
}

func TestFanSpread(t *testing.T) {
	m := newManager()
	ids := Fan(m, Shot{Pattern: KindFan, Count: 5, Spread: 60, Speed: 20}, Aim{Direction: vmath.Forward})
	vs := velocities(t, m, ids)
	if len(vs) != 5 {
		t.Fatalf("spawned %d", len(vs))
	}
	for i, want := range []float64{-30, -15, 0, 15, 30} {
		expect := vmath.RotateY(vmath.Forward, want).Scale(20)
		if !vs[i].ApproxEqual(expect, 1e-9) {
			t.Errorf("shot %d velocity %v, want %v", i, vs[i], expect)
		}
	}

	one := Fan(m, Shot{Pattern: KindFan, Count: 1, Spread: 60, Speed: 20}, Aim{Direction: vmath.Right})
	v := velocities(t, m, one)[0]
	if !v.ApproxEqual(vmath.V3(20, 0, 0), eps) {
		t.Errorf("single fan shot velocity %v, want straight", v)
	}
}

func TestVolleySpeedsAndSpread(t *testing.T) {
	m := newManager()
	shot := Shot{Pattern: KindVolley, Speeds: []float64{20, 18, 16, 14, 12}, Spread: 5}
	aim := Aim{Direction: vmath.Forward, Rand: rand.New(rand.NewSource(1))}

	ids, _, err := Fire(m, shot, aim)
	if err != nil {
		t.Fatal(err)
	}
	vs := velocities(t, m, ids)
	if len(vs) != 5 {
		t.Fatalf("spawned %d, want 5", len(vs))
	}
	for i, v := range vs {
		if math.Abs(v.Len()-shot.Speeds[i]) > 1e-9 {
			t.Errorf("shot %d speed %v, want %v", i, v.Len(), shot.Speeds[i])
		}
		if a := vmath.AngleDeg(v, vmath.Forward); a > 5+1e-9 {
			t.Errorf("shot %d deviates %v deg", i, a)
		}
	}
}

func TestVolleyRepeatsLastSpeed(t *testing.T) {
	m := newManager()
	ids := Volley(m, Shot{Count: 4, Speeds: []float64{9, 7}}, Aim{})
	vs := velocities(t, m, ids)
	for i, want := range []float64{9, 7, 7, 7} {
		if math.Abs(vs[i].Len()-want) > eps {
			t.Errorf("shot %d speed %v, want %v", i, vs[i].Len(), want)
		}
	}
}

func TestSpiralStream(t *testing.T) {
	m := newManager()
	shot := Shot{Pattern: KindSpiral, Count: 4, AngleStep: 45, Interval: 0.1, Speed: 10}
	ids, stream, err := Fire(m, shot, Aim{Direction: vmath.Forward})
	if err != nil || stream == nil {
		t.Fatalf("err=%v stream=%v", err, stream)
	}
	if len(ids) != 1 {
		t.Fatalf("first shot not immediate: %d", len(ids))
	}

	if stream.Update(0.05) {
		t.Fatal("done too early")
	}
	if n := len(stream.Fired()); n != 1 {
		t.Fatalf("fired %d before interval", n)
	}
	stream.Update(0.05)
	if n := len(stream.Fired()); n != 2 {
		t.Fatalf("fired %d after one interval", n)
	}
	if !stream.Update(0.25) {
		t.Fatal("stream not done after all shots")
	}

	vs := velocities(t, m, stream.Fired())
	for i, v := range vs {
		want := vmath.RotateY(vmath.Forward, float64(i)*45).Scale(10)
		if !v.ApproxEqual(want, 1e-9) {
			t.Errorf("shot %d velocity %v, want %v", i, v, want)
		}
	}
	if stream.Update(1) != true || len(stream.Fired()) != 4 {
		t.Fatal("finished stream fired again")
	}
}

func TestBurstReaims(t *testing.T) {
	m := newManager()
	target := vmath.V3(0, 0, 10)
	loc := bullet.LocatorFunc(func() (vmath.Vec3, bool) { return target, true })
	shot := Shot{Pattern: KindBurst, Count: 2, Interval: 0.2, Speed: 5}

	_, stream, err := Fire(m, shot, Aim{Direction: vmath.Forward, Target: loc})
	if err != nil {
		t.Fatal(err)
	}
	target = vmath.V3(10, 0, 0)
	stream.Update(0.2)

	vs := velocities(t, m, stream.Fired())
	if !vs[0].ApproxEqual(vmath.V3(0, 0, 5), eps) {
		t.Errorf("first shot %v", vs[0])
	}
	if !vs[1].ApproxEqual(vmath.V3(5, 0, 0), eps) {
		t.Errorf("second shot %v, want re-aimed at +X", vs[1])
	}
}

func TestHomingShot(t *testing.T) {
	m := newManager()
	loc := bullet.LocatorFunc(func() (vmath.Vec3, bool) { return vmath.V3(0, 0, 10), true })
	ids, _, err := Fire(m, Shot{Pattern: KindHoming, Speed: 8, TurnRate: 90, HomingDuration: 2}, Aim{Target: loc})
	if err != nil || len(ids) != 1 {
		t.Fatalf("err=%v ids=%v", err, ids)
	}
	b, _ := m.Get(ids[0])
	if _, ok := b.Behaviors()[0].(*bullet.Homing); !ok {
		t.Fatalf("behavior is %T", b.Behaviors()[0])
	}
}

func TestFireUnknownPattern(t *testing.T) {
	if _, _, err := Fire(newManager(), Shot{Pattern: "laser"}, Aim{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("laser"); err == nil {
		t.Error("ParseKind accepted unknown kind")
	}
}

func TestShotValidate(t *testing.T) {
	tests := []struct {
		name string
		shot Shot
		ok   bool
	}{
		{"ring", Shot{Pattern: KindRing, Count: 8}, true},
		{"ring without count", Shot{Pattern: KindRing}, false},
		{"volley by speeds", Shot{Pattern: KindVolley, Speeds: []float64{3}}, true},
		{"empty volley", Shot{Pattern: KindVolley}, false},
		{"aimed", Shot{Pattern: KindAimed}, true},
		{"negative interval", Shot{Pattern: KindSpiral, Count: 2, Interval: -1}, false},
		{"unknown", Shot{Pattern: "laser"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.shot.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
