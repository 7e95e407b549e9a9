package shadows

import (
	"testing"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrid struct {
	width, height int
	cell          float64
	tiles         map[Coord]TileProfile
}

func (g *fakeGrid) GridSize() (int, int) { return g.width, g.height }
func (g *fakeGrid) CellSize() float64    { return g.cell }

func (g *fakeGrid) TileProfile(x, y int) (TileProfile, bool) {
	p, ok := g.tiles[Coord{X: x, Y: y}]
	return p, ok
}

var solid = TileProfile{
	Light: walls.RestrictionNormal,
	Sight: walls.RestrictionNormal,
	Sound: walls.RestrictionNormal,
	Move:  walls.RestrictionNormal,
}

type seg struct{ a, b geom.Point }

func segs(edges []*walls.Edge) []seg {
	out := make([]seg, 0, len(edges))
	for _, e := range edges {
		out = append(out, seg{e.A, e.B})
	}
	return out
}

func TestEdgesFromGridMergesBlock(t *testing.T) {
	grid := &fakeGrid{width: 5, height: 5, cell: 10, tiles: map[Coord]TileProfile{
		{X: 1, Y: 1}: solid,
		{X: 2, Y: 1}: solid,
		{X: 1, Y: 2}: solid,
		{X: 2, Y: 2}: solid,
	}}

	edges := EdgesFromGrid(grid)
	require.Len(t, edges, 4)
	assert.ElementsMatch(t, []seg{
		{geom.Pt(10, 10), geom.Pt(30, 10)},
		{geom.Pt(30, 10), geom.Pt(30, 30)},
		{geom.Pt(30, 30), geom.Pt(10, 30)},
		{geom.Pt(10, 30), geom.Pt(10, 10)},
	}, segs(edges))

	ids := make(map[string]bool)
	for _, e := range edges {
		assert.Equal(t, walls.TypeWall, e.Type)
		assert.Equal(t, walls.RestrictionNormal, e.Sight)
		ids[e.ID] = true
	}
	assert.Len(t, ids, 4, "ids are unique")
}

func TestEdgesFromGridSeparatesProfiles(t *testing.T) {
	glass := solid
	glass.Sight = walls.RestrictionLimited
	grid := &fakeGrid{width: 3, height: 1, cell: 10, tiles: map[Coord]TileProfile{
		{X: 0, Y: 0}: solid,
		{X: 1, Y: 0}: glass,
	}}

	edges := EdgesFromGrid(grid)
	assert.Len(t, edges, 8)

	limited := 0
	for _, e := range edges {
		if e.Sight == walls.RestrictionLimited {
			limited++
		}
	}
	assert.Equal(t, 4, limited)
}

func TestEdgesFromGridPartialBounds(t *testing.T) {
	fence := solid
	fence.Direction = walls.DirectionLeft
	fence.Bounds = TileBounds{Top: 2, Bottom: 8, Left: 0, Right: 10}
	grid := &fakeGrid{width: 1, height: 1, cell: 10, tiles: map[Coord]TileProfile{{}: fence}}

	edges := EdgesFromGrid(grid)
	assert.ElementsMatch(t, []seg{
		{geom.Pt(0, 2), geom.Pt(10, 2)},
		{geom.Pt(10, 2), geom.Pt(10, 8)},
		{geom.Pt(10, 8), geom.Pt(0, 8)},
		{geom.Pt(0, 8), geom.Pt(0, 2)},
	}, segs(edges))
	for _, e := range edges {
		assert.Equal(t, walls.DirectionLeft, e.Direction)
	}
}

func TestEdgesFromGridIgnoresOpenTiles(t *testing.T) {
	grid := &fakeGrid{width: 2, height: 2, cell: 10, tiles: map[Coord]TileProfile{
		{X: 0, Y: 0}: {},
	}}
	assert.Empty(t, EdgesFromGrid(grid))
}

func TestGridEdgesOcclude(t *testing.T) {
	grid := &fakeGrid{width: 10, height: 10, cell: 100, tiles: map[Coord]TileProfile{
		{X: 4, Y: 6}: solid,
		{X: 5, Y: 6}: solid,
	}}
	snap := snapshot(square1000, EdgesFromGrid(grid)...)
	res := compute(t, snap, geom.Pt(500, 300), NewConfig(walls.SenseSight))

	assert.True(t, res.Contains(geom.Pt(500, 550)))
	assert.False(t, res.Contains(geom.Pt(500, 650)), "inside the block")
	assert.False(t, res.Contains(geom.Pt(500, 900)), "behind the block")
}
