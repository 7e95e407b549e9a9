package geom

import "math"

// Ray is a directed segment from A to B. Angle and distance are computed on
// first use and cached until Invalidate or SetEndpoints is called.
type Ray struct {
	A, B   Point
	Dx, Dy float64

	angle       float64
	hasAngle    bool
	distance    float64
	hasDistance bool
}

// NewRay constructs a ray from a to b
func NewRay(a, b Point) *Ray {
	return &Ray{A: a, B: b, Dx: b.X - a.X, Dy: b.Y - a.Y}
}

// RayFromAngle builds a ray of the given length leaving origin at angle radians
func RayFromAngle(origin Point, radians, distance float64) *Ray {
	dx := math.Cos(radians)
	dy := math.Sin(radians)
	r := NewRay(origin, Point{X: origin.X + dx*distance, Y: origin.Y + dy*distance})
	r.angle = normalizeRadians(radians)
	r.hasAngle = true
	r.distance = distance
	r.hasDistance = true
	return r
}

// RayTowardsPoint builds a ray of the given length from origin through point
func RayTowardsPoint(origin, point Point, distance float64) *Ray {
	dx := point.X - origin.X
	dy := point.Y - origin.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return NewRay(origin, origin)
	}
	r := NewRay(origin, Point{X: origin.X + dx/l*distance, Y: origin.Y + dy/l*distance})
	r.angle = normalizeRadians(math.Atan2(dy, dx))
	r.hasAngle = true
	r.distance = distance
	r.hasDistance = true
	return r
}

// SetEndpoints moves the ray and drops any cached values
func (r *Ray) SetEndpoints(a, b Point) {
	r.A, r.B = a, b
	r.Dx, r.Dy = b.X-a.X, b.Y-a.Y
	r.Invalidate()
}

// Invalidate clears the cached angle and distance
func (r *Ray) Invalidate() {
	r.hasAngle = false
	r.hasDistance = false
}

// Angle returns the direction of the ray in the range (-π, π]
func (r *Ray) Angle() float64 {
	if !r.hasAngle {
		r.angle = normalizeRadians(math.Atan2(r.Dy, r.Dx))
		r.hasAngle = true
	}
	return r.angle
}

// Distance returns the length of the ray
func (r *Ray) Distance() float64 {
	if !r.hasDistance {
		r.distance = math.Hypot(r.Dx, r.Dy)
		r.hasDistance = true
	}
	return r.distance
}

// Slope returns dy/dx, which is infinite for vertical rays
func (r *Ray) Slope() float64 {
	if r.Dx == 0 {
		return math.Inf(int(math.Copysign(1, r.Dy)))
	}
	return r.Dy / r.Dx
}

// Bounds returns the axis-aligned box covering both endpoints
func (r *Ray) Bounds() Rectangle {
	return RectFromPoints(r.A, r.B)
}

// Project returns the point at parameter t along the ray
func (r *Ray) Project(t float64) Point {
	return Point{X: r.A.X + t*r.Dx, Y: r.A.Y + t*r.Dy}
}

// Reverse returns a new ray pointing from B back to A
func (r *Ray) Reverse() *Ray {
	rev := NewRay(r.B, r.A)
	if r.hasDistance {
		rev.distance = r.distance
		rev.hasDistance = true
	}
	return rev
}

// Intersects returns where this ray crosses segment cd, if it does
func (r *Ray) Intersects(c, d Point) (Intersection, bool) {
	return LineSegmentIntersection(r.A, r.B, c, d)
}

func normalizeRadians(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ToRadians converts degrees to radians
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
