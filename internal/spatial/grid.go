package spatial

import (
	"math"

	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/core/event"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// Grid is a cell-based index of bullet positions on the horizontal (XZ)
// plane. It is fed as a bullet.Observer during Publish and forgets bullets
// when their BulletDestroyed event is delivered.
// Accessed only from the simulation goroutine, no locks.
type Grid struct {
	cellSize float64
	cells    map[cellKey]map[ecs.EntityID]struct{}
	where    map[ecs.EntityID]entry
}

type cellKey struct {
	cx int32
	cz int32
}

type entry struct {
	key cellKey
	pos vmath.Vec3
}

// NewGrid creates an empty grid. cellSize <= 0 uses 4 units.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 4
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		where:    make(map[ecs.EntityID]entry),
	}
}

// Attach subscribes the grid to destroy events on bus.
func (g *Grid) Attach(bus *event.Bus) {
	event.Subscribe(bus, func(e event.BulletDestroyed) { g.Remove(e.ID) })
}

// coord maps a world coordinate to a cell index, clamped to the int32 range.
// NaN lands in cell 0.
func (g *Grid) coord(v float64) int32 {
	c := math.Floor(v / g.cellSize)
	switch {
	case c != c:
		return 0
	case c >= math.MaxInt32:
		return math.MaxInt32
	case c <= math.MinInt32:
		return math.MinInt32
	}
	return int32(c)
}

func (g *Grid) key(p vmath.Vec3) cellKey {
	return cellKey{cx: g.coord(p.X), cz: g.coord(p.Z)}
}

// Observe implements bullet.Observer.
func (g *Grid) Observe(s bullet.State) {
	g.Move(s.ID, s.Position)
}

// Move places id at pos, adding it when unknown.
func (g *Grid) Move(id ecs.EntityID, pos vmath.Vec3) {
	k := g.key(pos)
	if old, ok := g.where[id]; ok {
		if old.key == k {
			g.where[id] = entry{key: k, pos: pos}
			return
		}
		g.removeFromCell(id, old.key)
	}
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	g.where[id] = entry{key: k, pos: pos}
}

// Remove takes a bullet out of the grid.
func (g *Grid) Remove(id ecs.EntityID) {
	old, ok := g.where[id]
	if !ok {
		return
	}
	delete(g.where, id)
	g.removeFromCell(id, old.key)
}

func (g *Grid) removeFromCell(id ecs.EntityID, k cellKey) {
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Len returns the number of indexed bullets.
func (g *Grid) Len() int { return len(g.where) }

// Nearby returns the bullets within radius of pos on the horizontal plane,
// in no particular order.
func (g *Grid) Nearby(pos vmath.Vec3, radius float64) []ecs.EntityID {
	var result []ecs.EntityID
	g.visit(pos, radius, func(id ecs.EntityID) { result = append(result, id) })
	return result
}

// CountNear is len(Nearby(pos, radius)) without the allocation.
func (g *Grid) CountNear(pos vmath.Vec3, radius float64) int {
	n := 0
	g.visit(pos, radius, func(ecs.EntityID) { n++ })
	return n
}

// visit filters the cells overlapping the radius square by exact distance.
// When that square spans more cells than are occupied it walks the occupied
// cells instead, so the cost is bounded by the number of bullets.
func (g *Grid) visit(pos vmath.Vec3, radius float64, fn func(ecs.EntityID)) {
	if !(radius >= 0) {
		return
	}
	lo := g.key(vmath.V3(pos.X-radius, 0, pos.Z-radius))
	hi := g.key(vmath.V3(pos.X+radius, 0, pos.Z+radius))
	center := pos.Flat()
	r2 := radius * radius
	match := func(cell map[ecs.EntityID]struct{}) {
		for id := range cell {
			if g.where[id].pos.Flat().Sub(center).LenSq() <= r2 {
				fn(id)
			}
		}
	}

	w := int64(hi.cx) - int64(lo.cx) + 1
	h := int64(hi.cz) - int64(lo.cz) + 1
	occupied := int64(len(g.cells))
	if w > occupied || h > occupied || w*h > occupied {
		for k, cell := range g.cells {
			if k.cx >= lo.cx && k.cx <= hi.cx && k.cz >= lo.cz && k.cz <= hi.cz {
				match(cell)
			}
		}
		return
	}
	for cx := int64(lo.cx); cx <= int64(hi.cx); cx++ {
		for cz := int64(lo.cz); cz <= int64(hi.cz); cz++ {
			match(g.cells[cellKey{cx: int32(cx), cz: int32(cz)}])
		}
	}
}
