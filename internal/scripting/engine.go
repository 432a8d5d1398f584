package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/danmaku/internal/pattern"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// Engine wraps a single gopher-lua VM for volley planning.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Shared helpers first, then planners
	for _, sub := range []string{"core", "spellcard"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether a global Lua function with the given name is defined.
func (e *Engine) Has(fn string) bool {
	_, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// VolleyContext holds pre-packed data for planning one volley.
type VolleyContext struct {
	Card      string
	Caster    string
	Volley    int // 1-based index within the cast
	Volleys   int
	Origin    vmath.Vec3
	Direction vmath.Vec3 // toward the target, unit length
	Distance  float64
	Elapsed   float64 // seconds since the cast began
}

// PlanVolley calls the named Lua planner with a context table and converts
// the returned array of shot tables. ok is false when the call fails or the
// result is unusable; the caller falls back to its static plan. An empty
// array is a valid plan that fires nothing.
func (e *Engine) PlanVolley(fn string, ctx VolleyContext) (shots []pattern.Shot, ok bool) {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		e.log.Error("lua planner not found", zap.String("func", fn))
		return nil, false
	}

	t := e.vm.NewTable()
	t.RawSetString("card", lua.LString(ctx.Card))
	t.RawSetString("caster", lua.LString(ctx.Caster))
	t.RawSetString("volley", lua.LNumber(ctx.Volley))
	t.RawSetString("volleys", lua.LNumber(ctx.Volleys))
	t.RawSetString("origin", e.vecTable(ctx.Origin))
	t.RawSetString("direction", e.vecTable(ctx.Direction))
	t.RawSetString("distance", lua.LNumber(ctx.Distance))
	t.RawSetString("elapsed", lua.LNumber(ctx.Elapsed))

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua planner error", zap.String("func", fn), zap.Error(err))
		return nil, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, isTable := result.(*lua.LTable)
	if !isTable {
		e.log.Error("lua planner returned non-table", zap.String("func", fn),
			zap.String("type", result.Type().String()))
		return nil, false
	}

	n := rt.Len()
	shots = make([]pattern.Shot, 0, n)
	for i := 1; i <= n; i++ {
		row, isRow := rt.RawGetInt(i).(*lua.LTable)
		if !isRow {
			e.log.Error("lua planner returned non-table shot", zap.String("func", fn), zap.Int("index", i))
			return nil, false
		}
		shot := toShot(row)
		if err := shot.Validate(); err != nil {
			e.log.Error("lua planner returned invalid shot", zap.String("func", fn),
				zap.Int("index", i), zap.Error(err))
			return nil, false
		}
		shots = append(shots, shot)
	}
	return shots, true
}

func (e *Engine) vecTable(v vmath.Vec3) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(v.X))
	t.RawSetString("y", lua.LNumber(v.Y))
	t.RawSetString("z", lua.LNumber(v.Z))
	return t
}

func toShot(row *lua.LTable) pattern.Shot {
	s := pattern.Shot{
		Pattern:        pattern.Kind(lStr(row, "pattern")),
		Count:          lInt(row, "count"),
		Speed:          lNum(row, "speed"),
		Radius:         lNum(row, "radius"),
		Growth:         lNum(row, "growth"),
		Rotation:       lNum(row, "rotation"),
		StartAngle:     lNum(row, "start_angle"),
		Spread:         lNum(row, "spread"),
		AngleStep:      lNum(row, "angle_step"),
		Interval:       lNum(row, "interval"),
		TurnRate:       lNum(row, "turn_rate"),
		HomingDuration: lNum(row, "homing_duration"),
		Lifetime:       lNum(row, "lifetime"),
		Height:         lNum(row, "height"),
	}
	if speeds, ok := row.RawGetString("speeds").(*lua.LTable); ok {
		for i := 1; i <= speeds.Len(); i++ {
			s.Speeds = append(s.Speeds, float64(lua.LVAsNumber(speeds.RawGetInt(i))))
		}
	}
	return s
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lNum reads a float field from a Lua table.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
