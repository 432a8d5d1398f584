package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/danmaku/internal/vmath"
	"gopkg.in/yaml.v3"
)

// CasterSpawn places one spell-card caster.
type CasterSpawn struct {
	Name     string
	Position vmath.Vec3
	Facing   vmath.Vec3
	Card     string
}

// TargetPath moves the encounter's target around Anchor on a horizontal
// circle of Radius at Speed degrees per second. Radius 0 keeps it still.
type TargetPath struct {
	Anchor vmath.Vec3
	Radius float64
	Speed  float64
}

// PositionAt returns where the target is t seconds into the encounter.
func (p TargetPath) PositionAt(t float64) vmath.Vec3 {
	if p.Radius == 0 {
		return p.Anchor
	}
	return p.Anchor.Add(vmath.RotateY(vmath.Forward, p.Speed*t).Scale(p.Radius))
}

// Encounter is a scene: casters plus the target they shoot at.
type Encounter struct {
	Target  TargetPath
	Casters []CasterSpawn
}

type targetEntry struct {
	Position []float64 `yaml:"position"`
	Radius   float64   `yaml:"orbit_radius"`
	Speed    float64   `yaml:"orbit_speed"`
}

type casterEntry struct {
	Name     string    `yaml:"name"`
	Position []float64 `yaml:"position"`
	Facing   []float64 `yaml:"facing"`
	Card     string    `yaml:"card"`
}

type encounterFile struct {
	Target  targetEntry   `yaml:"target"`
	Casters []casterEntry `yaml:"casters"`
}

// LoadEncounter loads encounter.yaml and checks every caster's card exists.
func LoadEncounter(path string, cards *SpellCardTable) (*Encounter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encounter: %w", err)
	}
	var f encounterFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse encounter: %w", err)
	}

	anchor, err := toVec3(f.Target.Position, vmath.Zero)
	if err != nil {
		return nil, fmt.Errorf("target position: %w", err)
	}
	enc := &Encounter{
		Target:  TargetPath{Anchor: anchor, Radius: f.Target.Radius, Speed: f.Target.Speed},
		Casters: make([]CasterSpawn, 0, len(f.Casters)),
	}
	for i := range f.Casters {
		e := &f.Casters[i]
		if cards.Get(e.Card) == nil {
			return nil, fmt.Errorf("caster %q: unknown spell card %q", e.Name, e.Card)
		}
		pos, err := toVec3(e.Position, vmath.Zero)
		if err != nil {
			return nil, fmt.Errorf("caster %q position: %w", e.Name, err)
		}
		facing, err := toVec3(e.Facing, vmath.Forward)
		if err != nil {
			return nil, fmt.Errorf("caster %q facing: %w", e.Name, err)
		}
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("caster-%d", i)
		}
		enc.Casters = append(enc.Casters, CasterSpawn{Name: name, Position: pos, Facing: facing, Card: e.Card})
	}
	return enc, nil
}

func toVec3(v []float64, def vmath.Vec3) (vmath.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return vmath.V3(v[0], v[1], v[2]), nil
	}
	return vmath.Vec3{}, fmt.Errorf("want [x, y, z], got %d values", len(v))
}
