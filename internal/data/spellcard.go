package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/danmaku/internal/pattern"
	"gopkg.in/yaml.v3"
)

// SpellCard is one enemy attack routine: Volleys volleys, one every Interval
// seconds, then Cooldown seconds of rest.
type SpellCard struct {
	Name       string
	Interval   float64 // seconds between volleys
	Volleys    int
	Cooldown   float64 // seconds after the last volley
	SightRange float64
	FOV        float64 // full cone, degrees
	Script     string  // Lua planner function; empty = static Shots
	Shots      []pattern.Shot
}

// SpellCardTable holds all spell cards indexed by name.
type SpellCardTable struct {
	cards map[string]*SpellCard
	order []string
}

// Get returns a card by name, or nil if not found.
func (t *SpellCardTable) Get(name string) *SpellCard {
	return t.cards[name]
}

// Count returns total loaded cards.
func (t *SpellCardTable) Count() int {
	return len(t.cards)
}

// Names returns card names in file order.
func (t *SpellCardTable) Names() []string {
	return append([]string(nil), t.order...)
}

// --- YAML loading ---

type shotEntry struct {
	Pattern        string    `yaml:"pattern"`
	Count          int       `yaml:"count"`
	Speed          float64   `yaml:"speed"`
	Speeds         []float64 `yaml:"speeds"`
	Radius         float64   `yaml:"radius"`
	Growth         float64   `yaml:"growth"`
	Rotation       float64   `yaml:"rotation"`
	StartAngle     float64   `yaml:"start_angle"`
	Spread         float64   `yaml:"spread"`
	AngleStep      float64   `yaml:"angle_step"`
	Interval       float64   `yaml:"interval"`
	TurnRate       float64   `yaml:"turn_rate"`
	HomingDuration float64   `yaml:"homing_duration"`
	Lifetime       float64   `yaml:"lifetime"`
	Height         float64   `yaml:"height"`
}

type spellCardEntry struct {
	Name       string      `yaml:"name"`
	Interval   float64     `yaml:"interval"`
	Volleys    int         `yaml:"volleys"`
	Cooldown   float64     `yaml:"cooldown"`
	SightRange float64     `yaml:"sight_range"`
	FOV        float64     `yaml:"fov"`
	Script     string      `yaml:"script"`
	Shots      []shotEntry `yaml:"shots"`
}

type spellCardFile struct {
	SpellCards []spellCardEntry `yaml:"spell_cards"`
}

// LoadSpellCardTable loads spell card definitions from YAML.
func LoadSpellCardTable(path string) (*SpellCardTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spell cards: %w", err)
	}
	return ParseSpellCardTable(raw)
}

// ParseSpellCardTable parses and validates spell card YAML.
func ParseSpellCardTable(raw []byte) (*SpellCardTable, error) {
	var f spellCardFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spell cards: %w", err)
	}
	t := &SpellCardTable{
		cards: make(map[string]*SpellCard, len(f.SpellCards)),
		order: make([]string, 0, len(f.SpellCards)),
	}
	for i := range f.SpellCards {
		e := &f.SpellCards[i]
		card, err := e.toCard()
		if err != nil {
			return nil, fmt.Errorf("spell card #%d %q: %w", i, e.Name, err)
		}
		if _, dup := t.cards[card.Name]; dup {
			return nil, fmt.Errorf("spell card %q: duplicate name", card.Name)
		}
		t.cards[card.Name] = card
		t.order = append(t.order, card.Name)
	}
	return t, nil
}

func (e *spellCardEntry) toCard() (*SpellCard, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if e.Volleys < 1 {
		return nil, fmt.Errorf("volleys must be >= 1, got %d", e.Volleys)
	}
	if e.Interval < 0 || e.Cooldown < 0 {
		return nil, fmt.Errorf("negative interval or cooldown")
	}
	if len(e.Shots) == 0 && e.Script == "" {
		return nil, fmt.Errorf("needs shots or a script")
	}
	card := &SpellCard{
		Name:       e.Name,
		Interval:   e.Interval,
		Volleys:    e.Volleys,
		Cooldown:   e.Cooldown,
		SightRange: e.SightRange,
		FOV:        e.FOV,
		Script:     e.Script,
		Shots:      make([]pattern.Shot, 0, len(e.Shots)),
	}
	for j := range e.Shots {
		shot, err := e.Shots[j].toShot()
		if err != nil {
			return nil, fmt.Errorf("shot #%d: %w", j, err)
		}
		card.Shots = append(card.Shots, shot)
	}
	return card, nil
}

func (s *shotEntry) toShot() (pattern.Shot, error) {
	kind, err := pattern.ParseKind(s.Pattern)
	if err != nil {
		return pattern.Shot{}, err
	}
	shot := pattern.Shot{
		Pattern:        kind,
		Count:          s.Count,
		Speed:          s.Speed,
		Speeds:         s.Speeds,
		Radius:         s.Radius,
		Growth:         s.Growth,
		Rotation:       s.Rotation,
		StartAngle:     s.StartAngle,
		Spread:         s.Spread,
		AngleStep:      s.AngleStep,
		Interval:       s.Interval,
		TurnRate:       s.TurnRate,
		HomingDuration: s.HomingDuration,
		Lifetime:       s.Lifetime,
		Height:         s.Height,
	}
	return shot, shot.Validate()
}
