package walls

import (
	"math"

	"chosenoffset.com/sightline/internal/core/geom"
	"github.com/google/uuid"
)

// Edge is an occluding segment with per-sense blocking behavior
type Edge struct {
	ID        string      `json:"id,omitempty" yaml:"id,omitempty"`
	A         geom.Point  `json:"a" yaml:"a"`
	B         geom.Point  `json:"b" yaml:"b"`
	Type      EdgeType    `json:"type,omitempty" yaml:"type,omitempty"`
	Light     Restriction `json:"light" yaml:"light"`
	Sight     Restriction `json:"sight" yaml:"sight"`
	Sound     Restriction `json:"sound" yaml:"sound"`
	Move      Restriction `json:"move" yaml:"move"`
	Direction Direction   `json:"direction,omitempty" yaml:"direction,omitempty"`
	Threshold Threshold   `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Priority  int         `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// NewWall creates a wall that applies r to every sense
func NewWall(a, b geom.Point, r Restriction) *Edge {
	return &Edge{
		ID:    uuid.NewString(),
		A:     a,
		B:     b,
		Type:  TypeWall,
		Light: r,
		Sight: r,
		Sound: r,
		Move:  r,
	}
}

// Restriction returns how the edge blocks the given sense. Universal
// computations treat every edge as fully blocking.
func (e *Edge) Restriction(s Sense) Restriction {
	switch s {
	case SenseLight:
		return e.Light
	case SenseSight:
		return e.Sight
	case SenseSound:
		return e.Sound
	case SenseMove:
		return e.Move
	case SenseUniversal:
		return RestrictionNormal
	}
	return RestrictionNone
}

// SetRestriction assigns the restriction for one sense
func (e *Edge) SetRestriction(s Sense, r Restriction) {
	switch s {
	case SenseLight:
		e.Light = r
	case SenseSight:
		e.Sight = r
	case SenseSound:
		e.Sound = r
	case SenseMove:
		e.Move = r
	}
}

// IsLimited reports whether the edge only partially blocks s
func (e *Edge) IsLimited(s Sense) bool {
	return e.Restriction(s) == RestrictionLimited
}

// Bounds returns the axis-aligned box of the segment
func (e *Edge) Bounds() geom.Rectangle {
	return geom.RectFromPoints(e.A, e.B)
}

// Degenerate reports whether both endpoints share a vertex key
func (e *Edge) Degenerate() bool {
	return e.A.Key() == e.B.Key()
}

// OrientPoint reports which side of the edge p falls on. Points on the line
// report DirectionBoth.
func (e *Edge) OrientPoint(p geom.Point) Direction {
	o := geom.Orient2D(e.A, e.B, p)
	switch {
	case o == 0:
		return DirectionBoth
	case o < 0:
		return DirectionLeft
	default:
		return DirectionRight
	}
}

// ThresholdDistance is the distance from p to the nearest point of the edge
func (e *Edge) ThresholdDistance(p geom.Point) float64 {
	return geom.Distance(p, geom.ClosestPointToSegment(p, e.A, e.B))
}

// HasThreshold reports whether the edge has a threshold rule for s
func (e *Edge) HasThreshold(s Sense) bool {
	return e.Restriction(s).IsThreshold() && e.Threshold.For(s) > 0
}

// ThresholdPassable reports whether an origin at p with the given external
// radius is on the passable side of the edge's threshold for s. Proximity
// edges let senses through when the origin is nearer than the threshold;
// distance edges when it is farther.
func (e *Edge) ThresholdPassable(s Sense, p geom.Point, externalRadius float64) bool {
	if !e.HasThreshold(s) {
		return false
	}
	t := e.Threshold.For(s)
	d := e.ThresholdDistance(p)
	switch e.Restriction(s) {
	case RestrictionProximity:
		return math.Max(d-externalRadius, 0) < t
	case RestrictionDistance:
		return d+externalRadius > t
	}
	return false
}

// Clone returns a shallow copy of the edge
func (e *Edge) Clone() *Edge {
	c := *e
	return &c
}
