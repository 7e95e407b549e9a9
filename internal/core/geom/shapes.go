package geom

import "math"

// Shape is a closed region used to constrain a visibility polygon
type Shape interface {
	Bounds() Rectangle
	ToPolygon() []Point
}

// CircleDensity returns the number of points needed to approximate a circle
// of the given radius so that no chord strays more than one pixel from the arc.
func CircleDensity(radius float64) int {
	if radius <= 0 {
		return 0
	}
	n := int(math.Ceil(math.Pi / math.Sqrt(2/radius)))
	if n < 8 {
		n = 8
	}
	return n
}

// Circle centered on a point
type Circle struct {
	Center  Point
	Radius  float64
	Density int
}

func (c Circle) density() int {
	if c.Density > 0 {
		return c.Density
	}
	return CircleDensity(c.Radius)
}

// Bounds returns the box enclosing the circle
func (c Circle) Bounds() Rectangle {
	return Rectangle{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

// ToPolygon samples the circle clockwise on screen starting due east
func (c Circle) ToPolygon() []Point {
	n := c.density()
	if n == 0 {
		return nil
	}
	points := make([]Point, n)
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		a := float64(i) * step
		points[i] = Point{
			X: c.Center.X + math.Cos(a)*c.Radius,
			Y: c.Center.Y + math.Sin(a)*c.Radius,
		}
	}
	return points
}

// LimitedAngle is a circular sector with its apex at Origin. Angle and
// Rotation are degrees; a rotation of zero points the sector at +Y.
type LimitedAngle struct {
	Origin   Point
	Radius   float64
	Angle    float64
	Rotation float64
	Density  int
}

// AngleRange returns the clockwise start and end of the sector in radians
func (l LimitedAngle) AngleRange() (float64, float64) {
	aMin := ToRadians(l.Rotation + 90 - l.Angle/2)
	return aMin, aMin + ToRadians(l.Angle)
}

// ToPolygon returns the apex followed by the arc, clockwise on screen
func (l LimitedAngle) ToPolygon() []Point {
	if l.Angle >= 360 {
		return Circle{Center: l.Origin, Radius: l.Radius, Density: l.Density}.ToPolygon()
	}
	n := l.Density
	if n <= 0 {
		n = CircleDensity(l.Radius)
	}
	steps := int(math.Ceil(float64(n) * l.Angle / 360))
	if steps < 1 {
		steps = 1
	}
	aMin, aMax := l.AngleRange()
	points := make([]Point, 0, steps+2)
	points = append(points, l.Origin)
	for i := 0; i <= steps; i++ {
		a := aMin + (aMax-aMin)*float64(i)/float64(steps)
		points = append(points, Point{
			X: l.Origin.X + math.Cos(a)*l.Radius,
			Y: l.Origin.Y + math.Sin(a)*l.Radius,
		})
	}
	return points
}

// Bounds returns the bounds of the sampled sector
func (l LimitedAngle) Bounds() Rectangle {
	return RectFromPoints(l.ToPolygon()...)
}

// ContainsAngle reports whether the direction from the apex to p falls
// within the sector, ignoring the radius.
func (l LimitedAngle) ContainsAngle(p Point) bool {
	if l.Angle >= 360 {
		return true
	}
	aMin, _ := l.AngleRange()
	a := math.Atan2(p.Y-l.Origin.Y, p.X-l.Origin.X) - aMin
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a <= ToRadians(l.Angle)
}
