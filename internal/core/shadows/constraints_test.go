package shadows

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"chosenoffset.com/sightline/internal/core/clip"
	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyClipper loses every intersection, the way polyclip does on some
// nearly degenerate inputs
type emptyClipper struct {
	clip.Clipper
	calls int
}

func (c *emptyClipper) Intersect(subject, clipping [][]geom.Point) ([][]geom.Point, error) {
	c.calls++
	return [][]geom.Point{}, nil
}

// firstEmptyClipper loses the first intersection only
type firstEmptyClipper struct {
	clip.Clipper
	calls int
}

func (c *firstEmptyClipper) Intersect(subject, clipping [][]geom.Point) ([][]geom.Point, error) {
	c.calls++
	if c.calls == 1 {
		return nil, nil
	}
	return c.Clipper.Intersect(subject, clipping)
}

func TestEmptyClipFallsBackToSweep(t *testing.T) {
	origin := geom.Pt(500, 500)
	snap := snapshot(square1000, wall(300, 600, 700, 600, walls.RestrictionNormal))

	cl := &emptyClipper{Clipper: clip.Default}
	res := compute(t, snap, origin, NewConfig(walls.SenseLight, WithRadius(200), WithClipper(cl)))

	assert.Equal(t, 2, cl.calls, "one attempt and one retry on cleaned input")
	require.False(t, res.Empty(), "unclipped sweep polygon is kept")
	assert.True(t, res.Contains(origin))
	assert.Greater(t, res.Area(), math.Pi*200*200)
	assertSimple(t, res.Points())
}

func TestEmptyClipRetriesOnCleanInput(t *testing.T) {
	origin := geom.Pt(500, 500)
	snap := snapshot(square1000, wall(300, 600, 700, 600, walls.RestrictionNormal))
	want := compute(t, snap, origin, NewConfig(walls.SenseLight, WithRadius(200)))

	cl := &firstEmptyClipper{Clipper: clip.Default}
	res := compute(t, snap, origin, NewConfig(walls.SenseLight, WithRadius(200), WithClipper(cl)))

	assert.Equal(t, 2, cl.calls)
	assert.InDelta(t, want.Area(), res.Area(), 1e-6)
	assert.Less(t, res.Area(), math.Pi*200*200)
}

// properlyCross reports whether segments ab and cd cross at a single point
// interior to both
func properlyCross(a, b, c, d geom.Point) bool {
	scale := geom.Distance(a, b) + geom.Distance(c, d)
	tol := 1e-9 * scale * scale
	o1 := geom.Orient2D(a, b, c)
	o2 := geom.Orient2D(a, b, d)
	o3 := geom.Orient2D(c, d, a)
	o4 := geom.Orient2D(c, d, b)
	if math.Abs(o1) <= tol || math.Abs(o2) <= tol || math.Abs(o3) <= tol || math.Abs(o4) <= tol {
		return false
	}
	return (o1 > 0) != (o2 > 0) && (o3 > 0) != (o4 > 0)
}

func assertSimple(t *testing.T, points []geom.Point, msgAndArgs ...interface{}) {
	t.Helper()
	n := len(points)
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			c, d := points[j], points[(j+1)%n]
			if properlyCross(a, b, c, d) {
				assert.Fail(t, fmt.Sprintf("edges %d and %d cross", i, j), msgAndArgs...)
				return
			}
		}
	}
}

// randomScene places walls at random, on a 50 px grid when grid is set
func randomScene(rng *rand.Rand, grid bool) []*walls.Edge {
	coord := func() float64 {
		if grid {
			return float64(rng.Intn(21)) * 50
		}
		return rng.Float64() * 1000
	}
	n := 1 + rng.Intn(8)
	edges := make([]*walls.Edge, 0, n)
	for len(edges) < n {
		a := geom.Pt(coord(), coord())
		b := geom.Pt(coord(), coord())
		if geom.Distance(a, b) < 1 {
			continue
		}
		r := walls.RestrictionNormal
		if rng.Intn(4) == 0 {
			r = walls.RestrictionLimited
		}
		edges = append(edges, walls.NewWall(a, b, r))
	}
	return edges
}

func TestRandomScenesStayClosedAndCoverOrigin(t *testing.T) {
	for _, grid := range []bool{false, true} {
		for _, cone := range []bool{false, true} {
			t.Run(fmt.Sprintf("grid=%t cone=%t", grid, cone), func(t *testing.T) {
				rng := rand.New(rand.NewSource(801))
				for i := 0; i < 300; i++ {
					snap := snapshot(square1000, randomScene(rng, grid)...)
					origin := geom.Pt(5+rng.Float64()*990, 5+rng.Float64()*990)

					opts := []Option{WithRadius(50 + rng.Float64()*500)}
					if cone {
						opts = append(opts, WithAngle(30+rng.Float64()*300), WithRotation(rng.Float64()*360))
					}
					if rng.Intn(3) == 0 {
						opts = opts[:0]
						if cone {
							opts = append(opts, WithAngle(30+rng.Float64()*300), WithRotation(rng.Float64()*360))
						}
					}

					res := compute(t, snap, origin, NewConfig(walls.SenseLight, opts...))
					require.False(t, res.Empty(), "scene %d at %v", i, origin)
					assert.True(t, geom.CoversPoint(res.Points(), origin, 1e-6), "scene %d at %v", i, origin)
					assert.Greater(t, res.Area(), 0.0, "scene %d", i)
					assertSimple(t, res.Points(), "scene %d at %v", i, origin)
				}
			})
		}
	}
}
