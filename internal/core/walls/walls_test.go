package walls

import (
	"sync"
	"testing"

	"chosenoffset.com/sightline/internal/core/geom"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRestrictionText(t *testing.T) {
	var r Restriction
	require.NoError(t, r.UnmarshalText([]byte("Proximity")))
	assert.Equal(t, RestrictionProximity, r)

	text, err := RestrictionLimited.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "limited", string(text))

	assert.Error(t, r.UnmarshalText([]byte("glass")))
	assert.True(t, RestrictionDistance.IsThreshold())
	assert.False(t, RestrictionNormal.IsThreshold())
	assert.Less(t, int(RestrictionLimited), int(RestrictionNormal))
}

func TestEdgeDecodesFromYAML(t *testing.T) {
	doc := `
id: door-1
a: {x: 0, y: 0}
b: {x: 100, y: 0}
light: normal
sight: proximity
sound: limited
move: none
direction: left
threshold:
  sight: 60
  attenuation: true
`
	var e Edge
	require.NoError(t, yaml.Unmarshal([]byte(doc), &e))
	assert.Equal(t, "door-1", e.ID)
	assert.Equal(t, geom.Pt(100, 0), e.B)
	assert.Equal(t, RestrictionProximity, e.Restriction(SenseSight))
	assert.Equal(t, RestrictionLimited, e.Restriction(SenseSound))
	assert.Equal(t, RestrictionNone, e.Restriction(SenseMove))
	assert.Equal(t, DirectionLeft, e.Direction)
	assert.Equal(t, 60.0, e.Threshold.For(SenseSight))
	assert.True(t, e.Threshold.Attenuation)
}

func TestParseSense(t *testing.T) {
	s, err := ParseSense(" Sight ")
	require.NoError(t, err)
	assert.Equal(t, SenseSight, s)

	_, err = ParseSense("smell")
	assert.Error(t, err)
}

func TestOrientPoint(t *testing.T) {
	e := NewWall(geom.Pt(0, 0), geom.Pt(10, 0), RestrictionNormal)
	assert.Equal(t, DirectionLeft, e.OrientPoint(geom.Pt(5, 5)))
	assert.Equal(t, DirectionRight, e.OrientPoint(geom.Pt(5, -5)))
	assert.Equal(t, DirectionBoth, e.OrientPoint(geom.Pt(20, 0)))
}

func TestThresholdPassable(t *testing.T) {
	e := NewWall(geom.Pt(0, 0), geom.Pt(100, 0), RestrictionNormal)
	e.Sight = RestrictionProximity
	e.Threshold.Sight = 50

	assert.True(t, e.ThresholdPassable(SenseSight, geom.Pt(50, 20), 0))
	assert.False(t, e.ThresholdPassable(SenseSight, geom.Pt(50, 80), 0))
	assert.True(t, e.ThresholdPassable(SenseSight, geom.Pt(50, 80), 40), "external radius brings the origin closer")
	assert.False(t, e.ThresholdPassable(SenseLight, geom.Pt(50, 20), 0), "normal restriction has no threshold")

	e.Sight = RestrictionDistance
	assert.False(t, e.ThresholdPassable(SenseSight, geom.Pt(50, 20), 0))
	assert.True(t, e.ThresholdPassable(SenseSight, geom.Pt(50, 80), 0))
}

func TestStoreAddRemove(t *testing.T) {
	s := NewStore(geom.NewRectangle(0, 0, 1000, 1000), geom.Rectangle{})
	assert.Equal(t, s.SceneRect(), s.InnerRect())

	w := NewWall(geom.Pt(10, 10), geom.Pt(20, 20), RestrictionNormal)
	require.NoError(t, s.Add(w))
	err := s.Add(w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateEdge))

	anon := &Edge{A: geom.Pt(0, 5), B: geom.Pt(5, 5), Sight: RestrictionNormal}
	require.NoError(t, s.Add(anon))
	assert.Empty(t, anon.ID, "the caller's edge is not modified")
	assert.Equal(t, 2, s.Len())
	for _, e := range s.Edges() {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, TypeWall, e.Type)
	}

	w.A = geom.Pt(999, 999)
	stored, ok := s.Get(w.ID)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(10, 10), stored.A, "the store keeps its own copy")

	assert.True(t, s.Remove(w.ID))
	assert.False(t, s.Remove(w.ID))
	assert.Equal(t, 1, s.Len())

	err = s.Add(&Edge{ID: "b", Type: TypeOuterBounds})
	assert.Error(t, err)
}

func TestStoreReplaceIsAtomic(t *testing.T) {
	s := NewStore(geom.NewRectangle(0, 0, 100, 100), geom.Rectangle{})
	require.NoError(t, s.Add(&Edge{ID: "keep", A: geom.Pt(1, 1), B: geom.Pt(2, 2)}))

	err := s.Replace([]*Edge{{ID: "x"}, {ID: "x"}})
	require.Error(t, err)
	_, ok := s.Get("keep")
	assert.True(t, ok, "a failed replace leaves the store unchanged")

	require.NoError(t, s.Replace([]*Edge{{ID: "y", A: geom.Pt(1, 1), B: geom.Pt(5, 1)}}))
	_, ok = s.Get("keep")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshotIsCachedUntilMutation(t *testing.T) {
	s := NewStore(geom.NewRectangle(0, 0, 100, 100), geom.Rectangle{})
	a := s.Snapshot()
	assert.Same(t, a, s.Snapshot())

	require.NoError(t, s.Add(NewWall(geom.Pt(1, 1), geom.Pt(9, 9), RestrictionNormal)))
	b := s.Snapshot()
	assert.NotSame(t, a, b)
	assert.Equal(t, 4, a.Len(), "old snapshot only has the outer bounds")
	assert.Equal(t, 5, b.Len())
}

func TestSnapshotBoundaries(t *testing.T) {
	snap := NewSnapshot(nil, geom.NewRectangle(0, 0, 1200, 1000), geom.NewRectangle(100, 100, 1000, 800))
	outer := snap.Boundaries(TypeOuterBounds)
	inner := snap.Boundaries(TypeInnerBounds)
	require.Len(t, outer, 4)
	require.Len(t, inner, 4)
	assert.True(t, snap.HasInnerBounds())
	for _, e := range append(outer, inner...) {
		assert.Equal(t, RestrictionNormal, e.Restriction(SenseSight))
	}
	assert.Equal(t, geom.Pt(100, 100), inner[0].A)
	assert.Equal(t, geom.Pt(1100, 100), inner[0].B)
}

func TestSnapshotSearchAndIntersections(t *testing.T) {
	horizontal := &Edge{ID: "h", A: geom.Pt(100, 200), B: geom.Pt(300, 200), Sight: RestrictionNormal}
	vertical := &Edge{ID: "v", A: geom.Pt(200, 100), B: geom.Pt(200, 300), Sight: RestrictionNormal}
	touching := &Edge{ID: "t", A: geom.Pt(300, 200), B: geom.Pt(400, 300), Sight: RestrictionNormal}
	far := &Edge{ID: "f", A: geom.Pt(800, 800), B: geom.Pt(900, 800), Sight: RestrictionNormal}

	snap := NewSnapshot([]*Edge{horizontal, vertical, touching, far}, geom.NewRectangle(0, 0, 1000, 1000), geom.Rectangle{})

	hits := snap.Search(geom.NewRectangle(150, 150, 10, 100))
	ids := make([]string, 0, len(hits))
	for _, e := range hits {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"h"}, ids, "a thin query box still finds a horizontal edge")

	h := snap.Edges()[0]
	v := snap.Edges()[1]
	xs := snap.Intersections(h)
	require.Len(t, xs, 1, "edges sharing an endpoint are not crossings")
	assert.Same(t, v, xs[0].Other)
	assert.Equal(t, geom.Pt(200, 200), xs[0].Point)
	assert.Empty(t, snap.Intersections(snap.Edges()[3]))

	assert.NotSame(t, horizontal, h, "snapshots hold their own copies")
	assert.Equal(t, 0, snap.Order(h))
	assert.Equal(t, -1, snap.Order(horizontal))
}

func TestSnapshotConcurrentReads(t *testing.T) {
	s := NewStore(geom.NewRectangle(0, 0, 500, 500), geom.Rectangle{})
	for i := 0; i < 20; i++ {
		y := float64(i*20 + 10)
		require.NoError(t, s.Add(NewWall(geom.Pt(10, y), geom.Pt(490, y+5), RestrictionNormal)))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			assert.Len(t, snap.Search(snap.SceneRect()), 24)
		}()
	}
	wg.Wait()
}
