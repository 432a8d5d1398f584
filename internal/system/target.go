package system

import (
	"time"

	coresys "github.com/l1jgo/danmaku/internal/core/system"
	"github.com/l1jgo/danmaku/internal/data"
	"github.com/l1jgo/danmaku/internal/vmath"
)

// TargetSystem moves the encounter target along its path and serves as the
// bullet.Locator casters and homing bullets aim at. Phase 0 (Input).
type TargetSystem struct {
	path    data.TargetPath
	elapsed float64
	pos     vmath.Vec3
	hidden  bool
}

func NewTargetSystem(path data.TargetPath) *TargetSystem {
	return &TargetSystem{path: path, pos: path.PositionAt(0)}
}

func (s *TargetSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *TargetSystem) Update(dt time.Duration) {
	s.elapsed += dt.Seconds()
	s.pos = s.path.PositionAt(s.elapsed)
}

// Locate returns the current target position; false while hidden.
func (s *TargetSystem) Locate() (vmath.Vec3, bool) {
	return s.pos, !s.hidden
}

// SetHidden takes the target out of sight (or back in).
func (s *TargetSystem) SetHidden(hidden bool) { s.hidden = hidden }
