package geom

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Rectangle is an axis-aligned box. An empty rectangle has Max < Min on
// at least one axis.
type Rectangle struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// NewRectangle builds a rectangle from its top-left corner and size
func NewRectangle(x, y, width, height float64) Rectangle {
	return Rectangle{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// RectFromPoints returns the tight bounds of the given points
func RectFromPoints(points ...Point) Rectangle {
	if len(points) == 0 {
		return Rectangle{}
	}
	vs := make([]r2.Point, len(points))
	for i, p := range points {
		vs[i] = p.Vec()
	}
	return rectFromR2(r2.RectFromPoints(vs...))
}

// R2 returns the rectangle as an r2.Rect
func (r Rectangle) R2() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: r.MinX, Hi: r.MaxX},
		Y: r1.Interval{Lo: r.MinY, Hi: r.MaxY},
	}
}

func rectFromR2(r r2.Rect) Rectangle {
	return Rectangle{MinX: r.X.Lo, MinY: r.Y.Lo, MaxX: r.X.Hi, MaxY: r.Y.Hi}
}

// Width of the rectangle
func (r Rectangle) Width() float64 { return r.MaxX - r.MinX }

// Height of the rectangle
func (r Rectangle) Height() float64 { return r.MaxY - r.MinY }

// Empty reports whether the rectangle covers no area and no line
func (r Rectangle) Empty() bool {
	return r.R2().IsEmpty()
}

// Contains reports whether p lies inside or on the border of the rectangle
func (r Rectangle) Contains(p Point) bool {
	return r.R2().ContainsPoint(p.Vec())
}

// ContainsStrict reports whether p lies strictly inside the rectangle
func (r Rectangle) ContainsStrict(p Point) bool {
	return r.R2().InteriorContainsPoint(p.Vec())
}

// Intersection returns the overlap of r and o, which may be empty
func (r Rectangle) Intersection(o Rectangle) Rectangle {
	return rectFromR2(r.R2().Intersection(o.R2()))
}

// Overlaps reports whether the two rectangles share any point
func (r Rectangle) Overlaps(o Rectangle) bool {
	return r.R2().Intersects(o.R2())
}

// Union returns the smallest rectangle covering both
func (r Rectangle) Union(o Rectangle) Rectangle {
	return rectFromR2(r.R2().Union(o.R2()))
}

// RoundOut expands the rectangle to whole-pixel coordinates
func (r Rectangle) RoundOut() Rectangle {
	return Rectangle{
		MinX: math.Floor(r.MinX),
		MinY: math.Floor(r.MinY),
		MaxX: math.Ceil(r.MaxX),
		MaxY: math.Ceil(r.MaxY),
	}
}

// Pad grows the rectangle by n on every side
func (r Rectangle) Pad(n float64) Rectangle {
	return rectFromR2(r.R2().ExpandedByMargin(n))
}

// Corners returns the four corners clockwise on screen, starting top-left
func (r Rectangle) Corners() []Point {
	return []Point{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
	}
}

// SegmentIntersects reports whether segment ab touches the rectangle.
// A segment with an endpoint inside counts when inside is true.
func (r Rectangle) SegmentIntersects(a, b Point, inside bool) bool {
	if r.Contains(a) || r.Contains(b) {
		if inside {
			return true
		}
	}
	c := r.Corners()
	for i := range c {
		if LineSegmentIntersects(a, b, c[i], c[(i+1)%4]) {
			return true
		}
	}
	return false
}

// Bounds makes Rectangle a Shape
func (r Rectangle) Bounds() Rectangle { return r }

// ToPolygon makes Rectangle a Shape
func (r Rectangle) ToPolygon() []Point { return r.Corners() }
