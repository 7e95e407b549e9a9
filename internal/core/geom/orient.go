package geom

// IntersectionEpsilon widens the [0, 1] parameter window of segment tests
// so that touching endpoints still count as crossing.
const IntersectionEpsilon = 1e-8

// Orient2D returns the signed area test for c against the directed line a->b.
// With y pointing down, a positive result means c lies counter-clockwise of
// a->b as seen on screen and a negative result means clockwise. Zero means
// the three points are collinear.
func Orient2D(a, b, c Point) float64 {
	return (a.Y-c.Y)*(b.X-c.X) - (a.X-c.X)*(b.Y-c.Y)
}

// LineSegmentIntersects reports whether segments ab and cd share a point.
// Touching endpoints and collinear overlaps count.
func LineSegmentIntersects(a, b, c, d Point) bool {
	xa := Orient2D(a, b, c)
	xb := Orient2D(a, b, d)
	if xa == 0 && xb == 0 {
		return collinearOverlap(a, b, c, d)
	}
	xab := xa*xb <= 0

	xc := Orient2D(c, d, a)
	xd := Orient2D(c, d, b)
	xcd := xc*xd <= 0

	return xab && xcd
}

func collinearOverlap(a, b, c, d Point) bool {
	overlaps := func(p1, p2, q1, q2 float64) bool {
		if p1 > p2 {
			p1, p2 = p2, p1
		}
		if q1 > q2 {
			q1, q2 = q2, q1
		}
		return p1 <= q2 && q1 <= p2
	}
	return overlaps(a.X, b.X, c.X, d.X) && overlaps(a.Y, b.Y, c.Y, d.Y)
}

// Intersection describes where two lines meet. T0 is the parameter along the
// first line and T1 along the second.
type Intersection struct {
	Point
	T0, T1 float64
}

// LineLineIntersection intersects the infinite lines through ab and cd.
// It returns false for parallel lines.
func LineLineIntersection(a, b, c, d Point) (Intersection, bool) {
	dnm := (d.Y-c.Y)*(b.X-a.X) - (d.X-c.X)*(b.Y-a.Y)
	if dnm == 0 {
		return Intersection{}, false
	}
	t0 := ((d.X-c.X)*(a.Y-c.Y) - (d.Y-c.Y)*(a.X-c.X)) / dnm
	t1 := ((b.X-a.X)*(a.Y-c.Y) - (b.Y-a.Y)*(a.X-c.X)) / dnm
	return Intersection{
		Point: Point{X: a.X + t0*(b.X-a.X), Y: a.Y + t0*(b.Y-a.Y)},
		T0:    t0,
		T1:    t1,
	}, true
}

// LineSegmentIntersection intersects segments ab and cd. Degenerate segments
// and parallel segments never intersect.
func LineSegmentIntersection(a, b, c, d Point) (Intersection, bool) {
	if a == b || c == d {
		return Intersection{}, false
	}
	x, ok := LineLineIntersection(a, b, c, d)
	if !ok {
		return Intersection{}, false
	}
	lo, hi := -IntersectionEpsilon, 1+IntersectionEpsilon
	if x.T0 < lo || x.T0 > hi || x.T1 < lo || x.T1 > hi {
		return Intersection{}, false
	}
	return x, true
}
