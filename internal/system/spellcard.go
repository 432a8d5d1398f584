package system

import (
	"time"

	coresys "github.com/l1jgo/danmaku/internal/core/system"
	"github.com/l1jgo/danmaku/internal/spellcard"
)

// SpellCardSystem runs every caster's attack cycle, spawning this tick's
// volleys before bullets advance. Phase 2 (Spawn).
type SpellCardSystem struct {
	casters []*spellcard.Caster
}

func NewSpellCardSystem(casters ...*spellcard.Caster) *SpellCardSystem {
	return &SpellCardSystem{casters: casters}
}

func (s *SpellCardSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpellCardSystem) Add(c *spellcard.Caster) {
	s.casters = append(s.casters, c)
}

func (s *SpellCardSystem) Casters() []*spellcard.Caster { return s.casters }

func (s *SpellCardSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	for _, c := range s.casters {
		c.Update(sec)
	}
}
