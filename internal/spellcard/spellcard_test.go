package spellcard

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/core/event"
	"github.com/l1jgo/danmaku/internal/data"
	"github.com/l1jgo/danmaku/internal/pattern"
	"github.com/l1jgo/danmaku/internal/scripting"
	"github.com/l1jgo/danmaku/internal/vmath"
)

type fixture struct {
	mgr     *bullet.Manager
	bus     *event.Bus
	target  vmath.Vec3
	visible bool
	volleys []event.VolleyFired
}

func newFixture() *fixture {
	f := &fixture{bus: event.NewBus(), target: vmath.V3(0, 0, 10), visible: true}
	f.mgr = bullet.NewManager(ecs.NewWorld(), f.bus, bullet.Config{}, zap.NewNop())
	event.Subscribe(f.bus, func(e event.VolleyFired) { f.volleys = append(f.volleys, e) })
	return f
}

func (f *fixture) locator() bullet.Locator {
	return bullet.LocatorFunc(func() (vmath.Vec3, bool) { return f.target, f.visible })
}

func (f *fixture) caster(card *data.SpellCard, planner Planner) *Caster {
	deps := Deps{Spawner: f.mgr, Planner: planner, Bus: f.bus, Rand: rand.New(rand.NewSource(7)), Log: zap.NewNop()}
	return NewCaster("boss", vmath.Zero, vmath.Forward, card, f.locator(), deps)
}

func (f *fixture) dispatch() {
	f.bus.SwapBuffers()
	f.bus.DispatchAll()
}

func ringCard() *data.SpellCard {
	return &data.SpellCard{
		Name:     "ring",
		Interval: 0.5,
		Volleys:  3,
		Cooldown: 1,
		Shots:    []pattern.Shot{{Pattern: pattern.KindRing, Count: 4, Speed: 5, Radius: 1}},
	}
}

func TestCasterCycle(t *testing.T) {
	f := newFixture()
	c := f.caster(ringCard(), nil)

	steps := []struct {
		state   State
		fired   int
		bullets int
	}{
		{StateCasting, 1, 4},   // sees the target, first volley at once
		{StateCasting, 2, 8},   // one interval later
		{StateCooldown, 3, 12}, // last volley
		{StateCooldown, 3, 12},
		{StateIdle, 3, 12}, // cooldown over
		{StateCasting, 1, 16},
	}
	for i, want := range steps {
		c.Update(0.5)
		if c.State() != want.state || c.VolleysFired() != want.fired || f.mgr.Len() != want.bullets {
			t.Fatalf("step %d: state=%v fired=%d bullets=%d, want %+v",
				i, c.State(), c.VolleysFired(), f.mgr.Len(), want)
		}
	}
}

func TestCasterWaitsForSight(t *testing.T) {
	f := newFixture()
	f.visible = false
	c := f.caster(ringCard(), nil)

	c.Update(0.5)
	if c.State() != StateIdle || f.mgr.Len() != 0 {
		t.Fatalf("fired without sight: state=%v bullets=%d", c.State(), f.mgr.Len())
	}
	f.visible = true
	c.Update(0.5)
	if c.State() != StateCasting {
		t.Fatalf("state = %v", c.State())
	}
}

func TestCasterKeepsCastingWhenTargetLost(t *testing.T) {
	f := newFixture()
	c := f.caster(ringCard(), nil)
	c.Update(0.1)
	f.visible = false
	c.Update(0.5)
	if c.VolleysFired() != 2 {
		t.Fatalf("fired %d volleys, want the cast to continue", c.VolleysFired())
	}
}

func TestCasterFacesTargetYawOnly(t *testing.T) {
	f := newFixture()
	f.target = vmath.V3(10, 7, 0)
	c := f.caster(ringCard(), nil)
	c.Update(0.1)
	if !c.Facing.ApproxEqual(vmath.Right, 1e-9) {
		t.Fatalf("facing = %v, want %v", c.Facing, vmath.Right)
	}
}

func TestCasterVolleyEvents(t *testing.T) {
	f := newFixture()
	c := f.caster(ringCard(), nil)
	c.Update(0.5)
	c.Update(0.5)
	f.dispatch()

	if len(f.volleys) != 2 {
		t.Fatalf("got %d VolleyFired", len(f.volleys))
	}
	for i, v := range f.volleys {
		if v.Volley != i+1 || v.Bullets != 4 || v.Caster != "boss" || v.Card != "ring" {
			t.Errorf("event %d = %+v", i, v)
		}
		if v.VolleyID == uuid.Nil {
			t.Errorf("event %d has nil volley id", i)
		}
	}
	if f.volleys[0].VolleyID == f.volleys[1].VolleyID {
		t.Error("volleys share an id")
	}
}

func TestCasterStreamOutlivesCast(t *testing.T) {
	f := newFixture()
	card := &data.SpellCard{
		Name:     "spiral",
		Volleys:  1,
		Cooldown: 10,
		Shots:    []pattern.Shot{{Pattern: pattern.KindSpiral, Count: 3, Interval: 0.25, AngleStep: 30, Speed: 4}},
	}
	c := f.caster(card, nil)

	c.Update(0.25)
	if c.State() != StateCooldown || c.ActiveStreams() != 1 || f.mgr.Len() != 1 {
		t.Fatalf("state=%v streams=%d bullets=%d", c.State(), c.ActiveStreams(), f.mgr.Len())
	}
	c.Update(0.25)
	c.Update(0.25)
	if f.mgr.Len() != 3 || c.ActiveStreams() != 0 {
		t.Fatalf("bullets=%d streams=%d", f.mgr.Len(), c.ActiveStreams())
	}
}

type fakePlanner struct {
	ok    bool
	calls []scripting.VolleyContext
}

func (p *fakePlanner) PlanVolley(fn string, ctx scripting.VolleyContext) ([]pattern.Shot, bool) {
	p.calls = append(p.calls, ctx)
	if !p.ok {
		return nil, false
	}
	return []pattern.Shot{{Pattern: pattern.KindFan, Count: ctx.Volley * 2, Spread: 30, Speed: 3}}, true
}

func TestCasterScriptedPlan(t *testing.T) {
	f := newFixture()
	card := ringCard()
	card.Script = "plan_ring"
	p := &fakePlanner{ok: true}
	c := f.caster(card, p)

	c.Update(0.5)
	c.Update(0.5)
	if f.mgr.Len() != 2+4 {
		t.Fatalf("bullets = %d, want scripted fans of 2 and 4", f.mgr.Len())
	}
	if len(p.calls) != 2 {
		t.Fatalf("planner called %d times", len(p.calls))
	}
	first := p.calls[0]
	if first.Card != "ring" || first.Caster != "boss" || first.Volley != 1 || first.Volleys != 3 {
		t.Errorf("context = %+v", first)
	}
	if first.Distance != 10 || !first.Direction.ApproxEqual(vmath.Forward, 1e-9) {
		t.Errorf("aim context = %+v", first)
	}
	if p.calls[1].Elapsed != 0.5 {
		t.Errorf("elapsed = %v", p.calls[1].Elapsed)
	}
}

func TestCasterScriptFallback(t *testing.T) {
	f := newFixture()
	card := ringCard()
	card.Script = "plan_ring"
	c := f.caster(card, &fakePlanner{ok: false})
	c.Update(0.5)
	if f.mgr.Len() != 4 {
		t.Fatalf("bullets = %d, want the static ring", f.mgr.Len())
	}
}

func TestSight(t *testing.T) {
	wall := OccluderFunc(func(from, to vmath.Vec3) bool { return to.X < 5 })
	tests := []struct {
		name   string
		sight  Sight
		target vmath.Vec3
		want   bool
	}{
		{"in range", Sight{Range: 10}, vmath.V3(0, 0, 9), true},
		{"out of range", Sight{Range: 10}, vmath.V3(0, 0, 11), false},
		{"unlimited", Sight{}, vmath.V3(0, 0, 1e6), true},
		{"inside cone", Sight{FOV: 90}, vmath.V3(4, 0, 5), true},
		{"outside cone", Sight{FOV: 90}, vmath.V3(6, 0, 5), false},
		{"behind", Sight{FOV: 180}, vmath.V3(0, 0, -1), false},
		{"all around", Sight{FOV: 360}, vmath.V3(0, 0, -1), true},
		{"straight above", Sight{FOV: 10}, vmath.V3(0, 5, 0), true},
		{"clear line", Sight{Occluder: wall}, vmath.V3(1, 0, 1), true},
		{"blocked line", Sight{Occluder: wall}, vmath.V3(6, 0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sight.CanSee(vmath.Zero, vmath.Forward, tt.target); got != tt.want {
				t.Errorf("CanSee = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{StateIdle: "idle", StateCasting: "casting", StateCooldown: "cooldown", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q", s, s.String())
		}
	}
}
