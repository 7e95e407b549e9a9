package walls

import (
	"strings"

	"github.com/pkg/errors"
)

// Sense is an independent occlusion channel
type Sense string

const (
	SenseLight     Sense = "light"
	SenseSight     Sense = "sight"
	SenseSound     Sense = "sound"
	SenseMove      Sense = "move"
	SenseUniversal Sense = "universal"
)

// Senses lists every sense with per-edge restrictions
var Senses = []Sense{SenseLight, SenseSight, SenseSound, SenseMove}

// Valid reports whether s is one of the known senses
func (s Sense) Valid() bool {
	switch s {
	case SenseLight, SenseSight, SenseSound, SenseMove, SenseUniversal:
		return true
	}
	return false
}

// ParseSense converts a name such as "sight" into a Sense
func ParseSense(name string) (Sense, error) {
	s := Sense(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", errors.Errorf("unknown sense %q", name)
	}
	return s, nil
}

// Restriction is how strongly an edge blocks a sense. Values are ordered.
type Restriction int

const (
	RestrictionNone      Restriction = 0
	RestrictionLimited   Restriction = 10
	RestrictionNormal    Restriction = 20
	RestrictionProximity Restriction = 30
	RestrictionDistance  Restriction = 40
)

var restrictionNames = map[Restriction]string{
	RestrictionNone:      "none",
	RestrictionLimited:   "limited",
	RestrictionNormal:    "normal",
	RestrictionProximity: "proximity",
	RestrictionDistance:  "distance",
}

func (r Restriction) String() string {
	if n, ok := restrictionNames[r]; ok {
		return n
	}
	return "unknown"
}

// IsThreshold reports whether the restriction depends on origin distance
func (r Restriction) IsThreshold() bool {
	return r == RestrictionProximity || r == RestrictionDistance
}

// MarshalText encodes the restriction by name
func (r Restriction) MarshalText() ([]byte, error) {
	n, ok := restrictionNames[r]
	if !ok {
		return nil, errors.Errorf("unknown restriction %d", int(r))
	}
	return []byte(n), nil
}

// UnmarshalText decodes a restriction name
func (r *Restriction) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for v, n := range restrictionNames {
		if n == name {
			*r = v
			return nil
		}
	}
	return errors.Errorf("unknown restriction %q", string(text))
}

// EdgeType distinguishes structural edge categories
type EdgeType string

const (
	TypeWall        EdgeType = "wall"
	TypeOuterBounds EdgeType = "outerBounds"
	TypeInnerBounds EdgeType = "innerBounds"
	TypeDarkness    EdgeType = "darkness"
)

// IsBoundary reports whether the edge is a generated scene boundary
func (t EdgeType) IsBoundary() bool {
	return t == TypeOuterBounds || t == TypeInnerBounds
}

// Direction restricts a wall to block from one side only
type Direction int

const (
	DirectionBoth  Direction = 0
	DirectionLeft  Direction = 1
	DirectionRight Direction = 2
)

var directionNames = map[Direction]string{
	DirectionBoth:  "both",
	DirectionLeft:  "left",
	DirectionRight: "right",
}

func (d Direction) String() string {
	if n, ok := directionNames[d]; ok {
		return n
	}
	return "unknown"
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	n, ok := directionNames[d]
	if !ok {
		return nil, errors.Errorf("unknown direction %d", int(d))
	}
	return []byte(n), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for v, n := range directionNames {
		if n == name {
			*d = v
			return nil
		}
	}
	return errors.Errorf("unknown direction %q", string(text))
}

// Threshold holds per-sense threshold distances in pixels. A zero distance
// means the edge has no threshold for that sense.
type Threshold struct {
	Light       float64 `json:"light,omitempty" yaml:"light,omitempty"`
	Sight       float64 `json:"sight,omitempty" yaml:"sight,omitempty"`
	Sound       float64 `json:"sound,omitempty" yaml:"sound,omitempty"`
	Attenuation bool    `json:"attenuation,omitempty" yaml:"attenuation,omitempty"`
}

// For returns the threshold distance for a sense
func (t Threshold) For(s Sense) float64 {
	switch s {
	case SenseLight:
		return t.Light
	case SenseSight:
		return t.Sight
	case SenseSound:
		return t.Sound
	}
	return 0
}
