package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// KeyPrecision is the pixel granularity used when quantizing coordinates
// into vertex keys. Two points that round to the same whole pixel share a key.
const KeyPrecision = 1.0

// Point represents a 2D point in pixel space
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vec returns the point as an r2 vector
func (p Point) Vec() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// FromVec converts an r2 vector back into a Point
func FromVec(v r2.Point) Point {
	return Point{X: v.X, Y: v.Y}
}

// Add returns p + q
func (p Point) Add(q Point) Point {
	return FromVec(p.Vec().Add(q.Vec()))
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return FromVec(p.Vec().Sub(q.Vec()))
}

// Round snaps the point to the key grid
func (p Point) Round() Point {
	return Point{
		X: math.Round(p.X/KeyPrecision) * KeyPrecision,
		Y: math.Round(p.Y/KeyPrecision) * KeyPrecision,
	}
}

// Key returns the quantized integer identity of the point
func (p Point) Key() int64 {
	return KeyFor(p.X, p.Y)
}

// KeyFor packs rounded x and y coordinates into a single integer.
// The high 32 bits hold x and the low 32 bits hold y.
func KeyFor(x, y float64) int64 {
	rx := int64(math.Round(x / KeyPrecision))
	ry := int64(math.Round(y / KeyPrecision))
	return rx<<32 | (ry & 0xffffffff)
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return b.Vec().Sub(a.Vec()).Norm()
}

// DistanceSquared avoids the square root when only ordering matters
func DistanceSquared(a, b Point) float64 {
	d := b.Vec().Sub(a.Vec())
	return d.Dot(d)
}

// PointInPolygon tests if a point is inside a polygon using ray casting
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// ClosestPointToSegment projects p onto segment ab, clamped to its endpoints
func ClosestPointToSegment(p, a, b Point) Point {
	d := b.Vec().Sub(a.Vec())
	l2 := d.Dot(d)
	if l2 == 0 {
		return a
	}
	t := p.Vec().Sub(a.Vec()).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return FromVec(a.Vec().Add(d.Mul(t)))
}
