package geom

import "slices"

// Polygon is a closed loop of points. Bounds are recomputed whenever the
// points change, so a Polygon is safe for concurrent reads.
type Polygon struct {
	points []Point
	bounds Rectangle
}

// NewPolygon wraps the given points; the slice is copied
func NewPolygon(points []Point) *Polygon {
	p := &Polygon{}
	p.SetPoints(points)
	return p
}

// Points returns the polygon points. Callers must not modify the slice.
func (p *Polygon) Points() []Point {
	return p.points
}

// SetPoints replaces the points and recomputes the bounds
func (p *Polygon) SetPoints(points []Point) {
	p.points = slices.Clone(points)
	p.bounds = RectFromPoints(p.points...)
}

// Len returns the number of points
func (p *Polygon) Len() int {
	return len(p.points)
}

// Bounds returns the tight bounds of the points. An empty polygon has
// zero-area bounds at the origin.
func (p *Polygon) Bounds() Rectangle {
	return p.bounds
}

// ToPolygon makes Polygon a Shape
func (p *Polygon) ToPolygon() []Point {
	return p.points
}

// Area returns the signed shoelace area. It is positive for loops that run
// clockwise on screen.
func (p *Polygon) Area() float64 {
	return SignedArea(p.points)
}

// Contains tests whether pt lies inside the polygon
func (p *Polygon) Contains(pt Point) bool {
	if !p.Bounds().Contains(pt) {
		return false
	}
	return PointInPolygon(pt, p.points)
}

// Clone returns a deep copy
func (p *Polygon) Clone() *Polygon {
	return NewPolygon(p.points)
}

// SignedArea returns the shoelace area of a loop. Loops that run clockwise on
// screen (y down) have positive area.
func SignedArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Clockwise returns the loop in clockwise screen order, reversing a copy if needed
func Clockwise(points []Point) []Point {
	if SignedArea(points) >= 0 {
		return points
	}
	out := slices.Clone(points)
	slices.Reverse(out)
	return out
}

// CoversPoint reports whether pt lies inside the loop or within tol of its
// boundary
func CoversPoint(points []Point, pt Point, tol float64) bool {
	if len(points) < 3 {
		return false
	}
	if PointInPolygon(pt, points) {
		return true
	}
	for i, a := range points {
		b := points[(i+1)%len(points)]
		if DistanceSquared(pt, ClosestPointToSegment(pt, a, b)) <= tol*tol {
			return true
		}
	}
	return false
}
