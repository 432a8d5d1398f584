// Package spellcard runs enemy attack routines. A Caster watches a target
// through its Sight and, once it sees it, fires the volleys of its spell card
// through the pattern composer.
package spellcard

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/event"
	"github.com/l1jgo/danmaku/internal/data"
	"github.com/l1jgo/danmaku/internal/pattern"
	"github.com/l1jgo/danmaku/internal/scripting"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// State is a caster's phase in its attack cycle.
type State int

const (
	StateIdle     State = iota // waiting to see the target
	StateCasting               // firing volleys
	StateCooldown              // resting after the last volley
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCasting:
		return "casting"
	case StateCooldown:
		return "cooldown"
	}
	return "unknown"
}

// Planner plans a volley from a script. scripting.Engine implements it.
type Planner interface {
	PlanVolley(fn string, ctx scripting.VolleyContext) ([]pattern.Shot, bool)
}

// Deps are the collaborators shared by every caster.
type Deps struct {
	Spawner pattern.Spawner
	Planner Planner // nil disables scripted cards
	Bus     *event.Bus
	Rand    *rand.Rand
	Log     *zap.Logger
}

// Caster fires one spell card at one target.
type Caster struct {
	Name     string
	Position vmath.Vec3
	Facing   vmath.Vec3

	card   *data.SpellCard
	sight  Sight
	target bullet.Locator
	deps   Deps

	state    State
	timer    float64
	fired    int
	castTime float64
	aimDist  float64
	streams  []pattern.Stream
}

func NewCaster(name string, pos, facing vmath.Vec3, card *data.SpellCard, target bullet.Locator, deps Deps) *Caster {
	if facing.Flat().IsZero() {
		facing = vmath.Forward
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Caster{
		Name:     name,
		Position: pos,
		Facing:   facing.Flat().Normalize(),
		card:     card,
		sight:    Sight{Range: card.SightRange, FOV: card.FOV},
		target:   target,
		deps:     deps,
	}
}

// SetOccluder installs a line-of-sight check.
func (c *Caster) SetOccluder(o Occluder) { c.sight.Occluder = o }

func (c *Caster) State() State { return c.state }
func (c *Caster) Card() *data.SpellCard { return c.card }
func (c *Caster) VolleysFired() int { return c.fired }
func (c *Caster) ActiveStreams() int { return len(c.streams) }
func (c *Caster) Sight() Sight { return c.sight }

// Update advances the caster by dt seconds. Streams from earlier volleys keep
// firing whatever state the caster is in. Once a cast starts it runs to the
// last volley even if the target leaves sight, aiming along the last facing.
func (c *Caster) Update(dt float64) {
	if dt <= 0 {
		return
	}
	c.updateStreams(dt)

	seen := c.look()
	switch c.state {
	case StateIdle:
		if seen {
			c.state = StateCasting
			c.timer, c.fired, c.castTime = 0, 0, 0
			c.fireVolley()
			c.finishCast()
		}
	case StateCasting:
		c.castTime += dt
		c.timer += dt
		for c.fired < c.card.Volleys && c.timer >= c.card.Interval {
			c.timer -= c.card.Interval
			c.fireVolley()
		}
		c.finishCast()
	case StateCooldown:
		c.timer += dt
		if c.timer >= c.card.Cooldown {
			c.state = StateIdle
			c.timer = 0
		}
	}
}

// look turns toward the target (yaw only) when it is visible.
func (c *Caster) look() bool {
	if c.target == nil {
		return false
	}
	pos, ok := c.target.Locate()
	if !ok || !c.sight.CanSee(c.Position, c.Facing, pos) {
		return false
	}
	d := pos.Sub(c.Position)
	if flat := d.Flat(); !flat.IsZero() {
		c.Facing = flat.Normalize()
	}
	c.aimDist = d.Len()
	return true
}

func (c *Caster) finishCast() {
	if c.state == StateCasting && c.fired >= c.card.Volleys {
		c.state = StateCooldown
		c.timer = 0
	}
}

func (c *Caster) updateStreams(dt float64) {
	live := c.streams[:0]
	for _, s := range c.streams {
		if !s.Update(dt) {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(c.streams); i++ {
		c.streams[i] = nil
	}
	c.streams = live
}

func (c *Caster) plan() []pattern.Shot {
	if c.card.Script == "" || c.deps.Planner == nil {
		return c.card.Shots
	}
	shots, ok := c.deps.Planner.PlanVolley(c.card.Script, scripting.VolleyContext{
		Card:      c.card.Name,
		Caster:    c.Name,
		Volley:    c.fired + 1,
		Volleys:   c.card.Volleys,
		Origin:    c.Position,
		Direction: c.Facing,
		Distance:  c.aimDist,
		Elapsed:   c.castTime,
	})
	if !ok {
		return c.card.Shots
	}
	return shots
}

func (c *Caster) fireVolley() {
	id := uuid.New()
	aim := pattern.Aim{
		Origin:    c.Position,
		Direction: c.Facing,
		Target:    c.target,
		Volley:    id,
		Rand:      c.deps.Rand,
	}
	total := 0
	for _, shot := range c.plan() {
		ids, stream, err := pattern.Fire(c.deps.Spawner, shot, aim)
		if err != nil {
			c.deps.Log.Error("spell card shot failed",
				zap.String("caster", c.Name),
				zap.String("card", c.card.Name),
				zap.Error(err))
			continue
		}
		total += len(ids)
		if stream != nil {
			c.streams = append(c.streams, stream)
		}
	}
	c.fired++

	event.Emit(c.deps.Bus, event.VolleyFired{
		VolleyID: id,
		Caster:   c.Name,
		Card:     c.card.Name,
		Volley:   c.fired,
		Bullets:  total,
	})
	c.deps.Log.Debug("volley fired",
		zap.String("caster", c.Name),
		zap.String("card", c.card.Name),
		zap.Stringer("volley_id", id),
		zap.Int("volley", c.fired),
		zap.Int("bullets", total))
}
