package geom

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrient2D(t *testing.T) {
	origin := Pt(0, 0)
	east := Pt(10, 0)

	assert.Less(t, Orient2D(origin, east, Pt(5, 5)), 0.0, "south of an eastward ray is clockwise")
	assert.Greater(t, Orient2D(origin, east, Pt(5, -5)), 0.0, "north of an eastward ray is counter-clockwise")
	assert.Zero(t, Orient2D(origin, east, Pt(20, 0)))
}

func TestKeyMergesJitter(t *testing.T) {
	a := Pt(100.0000001, 250.4999)
	b := Pt(99.9999999, 250.0001)
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, Pt(100, 250).Key(), Pt(250, 100).Key())
	assert.NotEqual(t, Pt(0, -1).Key(), Pt(-1, 0).Key())
}

func TestLineSegmentIntersection(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Point
		c, d    Point
		want    Point
		crosses bool
	}{
		{"cross", Pt(0, 0), Pt(2, 0), Pt(1, -1), Pt(1, 1), Pt(1, 0), true},
		{"touching endpoint", Pt(0, 0), Pt(2, 0), Pt(2, 0), Pt(2, 5), Pt(2, 0), true},
		{"parallel", Pt(0, 0), Pt(2, 0), Pt(0, 1), Pt(2, 1), Point{}, false},
		{"short", Pt(0, 0), Pt(1, 0), Pt(3, -1), Pt(3, 1), Point{}, false},
		{"degenerate", Pt(0, 0), Pt(0, 0), Pt(3, -1), Pt(3, 1), Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, ok := LineSegmentIntersection(tt.a, tt.b, tt.c, tt.d)
			require.Equal(t, tt.crosses, ok)
			if ok {
				assert.InDelta(t, tt.want.X, x.X, 1e-9)
				assert.InDelta(t, tt.want.Y, x.Y, 1e-9)
			}
			assert.Equal(t, tt.crosses, LineSegmentIntersects(tt.a, tt.b, tt.c, tt.d) && tt.a != tt.b)
		})
	}
}

func TestLineSegmentIntersectsCollinear(t *testing.T) {
	assert.True(t, LineSegmentIntersects(Pt(0, 0), Pt(4, 0), Pt(2, 0), Pt(6, 0)))
	assert.False(t, LineSegmentIntersects(Pt(0, 0), Pt(4, 0), Pt(5, 0), Pt(6, 0)))
}

func TestRayCaching(t *testing.T) {
	r := NewRay(Pt(0, 0), Pt(3, 4))
	assert.Equal(t, 5.0, r.Distance())
	assert.InDelta(t, math.Atan2(4, 3), r.Angle(), 1e-12)

	r.SetEndpoints(Pt(0, 0), Pt(-6, 0))
	assert.Equal(t, 6.0, r.Distance(), "distance must be recomputed after the endpoints move")
	assert.Equal(t, math.Pi, r.Angle(), "due west is reported as +π")

	west := RayFromAngle(Pt(0, 0), -math.Pi, 10)
	assert.Equal(t, math.Pi, west.Angle())
	assert.InDelta(t, -10, west.B.X, 1e-9)

	towards := RayTowardsPoint(Pt(10, 10), Pt(10, 20), 100)
	assert.InDelta(t, 10, towards.B.X, 1e-9)
	assert.InDelta(t, 110, towards.B.Y, 1e-9)
	assert.Equal(t, 100.0, towards.Distance())
	assert.True(t, math.IsInf(towards.Slope(), 1))
}

func TestRectangle(t *testing.T) {
	r := NewRectangle(0, 0, 100, 50)
	assert.True(t, r.Contains(Pt(100, 50)))
	assert.False(t, r.ContainsStrict(Pt(100, 50)))

	inter := r.Intersection(NewRectangle(50, 25, 100, 100))
	assert.Equal(t, Rectangle{MinX: 50, MinY: 25, MaxX: 100, MaxY: 50}, inter)
	assert.True(t, r.Intersection(NewRectangle(200, 200, 1, 1)).Empty())

	assert.Equal(t, Rectangle{MinX: -1, MinY: -2, MaxX: 3, MaxY: 4},
		Rectangle{MinX: -0.5, MinY: -1.2, MaxX: 2.1, MaxY: 3.9}.RoundOut())

	assert.True(t, r.SegmentIntersects(Pt(-10, 10), Pt(10, 10), false))
	assert.True(t, r.SegmentIntersects(Pt(10, 10), Pt(20, 20), true))
	assert.False(t, r.SegmentIntersects(Pt(10, 10), Pt(20, 20), false))
	assert.False(t, r.SegmentIntersects(Pt(-10, -10), Pt(-1, 60), true))
	assert.Greater(t, SignedArea(r.Corners()), 0.0)
}

func TestCirclePolygon(t *testing.T) {
	c := Circle{Center: Pt(500, 500), Radius: 1000}
	points := c.ToPolygon()
	require.Equal(t, CircleDensity(1000), len(points))
	for _, p := range points {
		assert.InDelta(t, 1000, Distance(c.Center, p), 1e-6)
	}
	assert.Greater(t, SignedArea(points), 0.0)
	assert.Equal(t, c.Bounds(), Rectangle{MinX: -500, MinY: -500, MaxX: 1500, MaxY: 1500})
}

func TestLimitedAngle(t *testing.T) {
	cone := LimitedAngle{Origin: Pt(0, 0), Radius: 100, Angle: 90}
	aMin, aMax := cone.AngleRange()
	assert.InDelta(t, math.Pi/4, aMin, 1e-12)
	assert.InDelta(t, 3*math.Pi/4, aMax, 1e-12)

	points := cone.ToPolygon()
	require.GreaterOrEqual(t, len(points), 3)
	assert.Equal(t, Pt(0, 0), points[0])
	assert.Greater(t, SignedArea(points), 0.0)

	assert.True(t, cone.ContainsAngle(Pt(0, 50)), "rotation zero faces +Y")
	assert.False(t, cone.ContainsAngle(Pt(0, -50)))
	assert.False(t, cone.ContainsAngle(Pt(50, 0)))

	rotated := LimitedAngle{Origin: Pt(0, 0), Radius: 100, Angle: 90, Rotation: 90}
	assert.True(t, rotated.ContainsAngle(Pt(-50, 0)))
}

func TestPolygonBoundsTrackPoints(t *testing.T) {
	p := NewPolygon([]Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)})
	assert.Equal(t, Rectangle{MaxX: 10, MaxY: 10}, p.Bounds())

	p.SetPoints([]Point{Pt(-5, -5), Pt(5, -5), Pt(5, 20)})
	assert.Equal(t, Rectangle{MinX: -5, MinY: -5, MaxX: 5, MaxY: 20}, p.Bounds())

	empty := NewPolygon(nil)
	assert.Equal(t, Rectangle{}, empty.Bounds())
	assert.Zero(t, empty.Area())
}

func TestPolygonConcurrentReads(t *testing.T) {
	points := Circle{Center: Pt(50, 50), Radius: 40}.ToPolygon()
	p := NewPolygon(points)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, p.Contains(Pt(50, 50)))
				assert.False(t, p.Contains(Pt(0, 0)))
				_ = p.Bounds()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, RectFromPoints(points...), p.Bounds())
}

func TestCoversPoint(t *testing.T) {
	square := NewRectangle(0, 0, 10, 10).Corners()
	assert.True(t, CoversPoint(square, Pt(5, 5), 1e-6))
	assert.True(t, CoversPoint(square, Pt(10, 5), 1e-6), "boundary counts")
	assert.True(t, CoversPoint(square, Pt(0, 0), 1e-6), "corner counts")
	assert.False(t, CoversPoint(square, Pt(10.1, 5), 1e-6))
	assert.False(t, CoversPoint(nil, Pt(0, 0), 1e-6))
}

func TestRectangleMargins(t *testing.T) {
	r := NewRectangle(10, 20, 30, 40)
	assert.Equal(t, Rectangle{MinX: 8, MinY: 18, MaxX: 42, MaxY: 62}, r.Pad(2))
	assert.Equal(t, Rectangle{MinX: 0, MinY: 0, MaxX: 40, MaxY: 60}, r.Union(NewRectangle(0, 0, 5, 5)))
	assert.True(t, r.Overlaps(NewRectangle(40, 60, 5, 5)), "touching corners overlap")
	assert.False(t, r.Overlaps(NewRectangle(41, 60, 5, 5)))
	assert.True(t, Rectangle{MinX: 1, MaxX: 0}.Empty())
	assert.Equal(t, Rectangle{MinX: -1, MinY: 2, MaxX: 4, MaxY: 3}, RectFromPoints(Pt(4, 2), Pt(-1, 3)))
}

func TestPointVectors(t *testing.T) {
	assert.Equal(t, Pt(4, 6), Pt(1, 2).Add(Pt(3, 4)))
	assert.Equal(t, Pt(-2, -2), Pt(1, 2).Sub(Pt(3, 4)))
	assert.Equal(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)))
	assert.Equal(t, 25.0, DistanceSquared(Pt(0, 0), Pt(3, 4)))
	assert.Equal(t, Pt(5, 0), ClosestPointToSegment(Pt(5, 7), Pt(0, 0), Pt(10, 0)))
	assert.Equal(t, Pt(10, 0), ClosestPointToSegment(Pt(15, 7), Pt(0, 0), Pt(10, 0)))
	assert.Equal(t, Pt(3, 3), ClosestPointToSegment(Pt(9, 9), Pt(3, 3), Pt(3, 3)))
}

func TestClockwise(t *testing.T) {
	ccw := []Point{Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)}
	require.Less(t, SignedArea(ccw), 0.0)
	cw := Clockwise(ccw)
	assert.Greater(t, SignedArea(cw), 0.0)
	assert.Equal(t, Pt(0, 0), ccw[0], "input must not be modified")
}

func TestPolygonContains(t *testing.T) {
	p := NewPolygon(NewRectangle(0, 0, 10, 10).Corners())
	assert.True(t, p.Contains(Pt(5, 5)))
	assert.False(t, p.Contains(Pt(15, 5)))
}
