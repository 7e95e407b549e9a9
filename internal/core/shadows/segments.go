package shadows

import (
	"fmt"
	"math"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
)

// TileBounds is the part of a tile covered by its blocking pixels, measured
// from the tile's top-left corner
type TileBounds struct {
	Top, Bottom, Left, Right float64
}

// TileProfile is how one tile blocks each sense. Neighboring tiles with
// equal profiles are merged into one region.
type TileProfile struct {
	Light, Sight, Sound, Move walls.Restriction
	Direction                 walls.Direction
	Threshold                 walls.Threshold
	Bounds                    TileBounds
}

func (p TileProfile) blocks() bool {
	return p.Light != walls.RestrictionNone || p.Sight != walls.RestrictionNone ||
		p.Sound != walls.RestrictionNone || p.Move != walls.RestrictionNone
}

// TileGrid is a tile map that edges can be extracted from
type TileGrid interface {
	GridSize() (width, height int)
	CellSize() float64
	// TileProfile returns false for tiles that block nothing
	TileProfile(x, y int) (TileProfile, bool)
}

// Coord is a tile coordinate
type Coord struct {
	X, Y int
}

type tileSide int

const (
	sideTop tileSide = iota
	sideRight
	sideBottom
	sideLeft
)

// segment is a perimeter piece of a region before merging
type segment struct {
	a, b    geom.Point
	side    tileSide
	profile TileProfile
	tiles   []Coord
}

// EdgesFromGrid traces the perimeter of every contiguous region of blocking
// tiles and returns one wall per merged run of perimeter segments
func EdgesFromGrid(grid TileGrid) []*walls.Edge {
	width, height := grid.GridSize()
	cell := grid.CellSize()

	regions := findContiguousRegions(grid, width, height)

	var all []segment
	for _, region := range regions {
		all = append(all, extractPerimeterSegments(grid, region, cell)...)
	}
	merged := mergeColinearSegments(all)

	edges := make([]*walls.Edge, 0, len(merged))
	for _, s := range merged {
		first := s.tiles[0]
		edges = append(edges, &walls.Edge{
			ID:        fmt.Sprintf("tile-%d-%d-%d-%d", first.X, first.Y, s.side, len(edges)),
			A:         s.a,
			B:         s.b,
			Type:      walls.TypeWall,
			Light:     s.profile.Light,
			Sight:     s.profile.Sight,
			Sound:     s.profile.Sound,
			Move:      s.profile.Move,
			Direction: s.profile.Direction,
			Threshold: s.profile.Threshold,
		})
	}
	return edges
}

// findContiguousRegions groups blocking tiles with equal profiles
func findContiguousRegions(grid TileGrid, width, height int) [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] {
				continue
			}
			profile, ok := grid.TileProfile(x, y)
			if !ok || !profile.blocks() {
				continue
			}
			if region := floodFill(grid, coord, profile, width, height, visited); len(region) > 0 {
				regions = append(regions, region)
			}
		}
	}
	return regions
}

// floodFill collects the 4-connected tiles sharing start's profile
func floodFill(grid TileGrid, start Coord, profile TileProfile, width, height int, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		neighbors := []Coord{
			{X: current.X, Y: current.Y - 1},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y + 1},
			{X: current.X - 1, Y: current.Y},
		}
		for _, n := range neighbors {
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height || visited[n] {
				continue
			}
			if p, ok := grid.TileProfile(n.X, n.Y); !ok || p != profile {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return region
}

// extractPerimeterSegments emits one segment per exposed tile side, placed
// on the tile's blocking bounds and wound clockwise around the region
func extractPerimeterSegments(grid TileGrid, region []Coord, cell float64) []segment {
	inRegion := make(map[Coord]bool, len(region))
	for _, c := range region {
		inRegion[c] = true
	}

	var segments []segment
	for _, c := range region {
		profile, _ := grid.TileProfile(c.X, c.Y)
		b := profile.Bounds
		if b == (TileBounds{}) {
			b = TileBounds{Bottom: cell, Right: cell}
		}
		left := float64(c.X)*cell + b.Left
		right := float64(c.X)*cell + b.Right
		top := float64(c.Y)*cell + b.Top
		bottom := float64(c.Y)*cell + b.Bottom

		add := func(side tileSide, a, bb geom.Point) {
			segments = append(segments, segment{a: a, b: bb, side: side, profile: profile, tiles: []Coord{c}})
		}
		if !inRegion[Coord{X: c.X, Y: c.Y - 1}] {
			add(sideTop, geom.Pt(left, top), geom.Pt(right, top))
		}
		if !inRegion[Coord{X: c.X + 1, Y: c.Y}] {
			add(sideRight, geom.Pt(right, top), geom.Pt(right, bottom))
		}
		if !inRegion[Coord{X: c.X, Y: c.Y + 1}] {
			add(sideBottom, geom.Pt(right, bottom), geom.Pt(left, bottom))
		}
		if !inRegion[Coord{X: c.X - 1, Y: c.Y}] {
			add(sideLeft, geom.Pt(left, bottom), geom.Pt(left, top))
		}
	}
	return segments
}

// mergeColinearSegments joins touching segments on the same side and line
func mergeColinearSegments(segments []segment) []segment {
	merged := make([]bool, len(segments))
	var result []segment

	for i := range segments {
		if merged[i] {
			continue
		}
		current := segments[i]
		merged[i] = true

		for extended := true; extended; {
			extended = false
			for j := range segments {
				if merged[j] || !canMergeSegments(current, segments[j]) {
					continue
				}
				current = mergeSegments(current, segments[j])
				merged[j] = true
				extended = true
				break
			}
		}
		result = append(result, current)
	}
	return result
}

const mergeEpsilon = 0.001

// canMergeSegments checks that two segments are on the same line and touch
func canMergeSegments(s1, s2 segment) bool {
	if s1.side != s2.side || s1.profile != s2.profile {
		return false
	}
	switch s1.side {
	case sideTop, sideBottom:
		if math.Abs(s1.a.Y-s2.a.Y) > mergeEpsilon {
			return false
		}
		return math.Abs(s1.b.X-s2.a.X) < mergeEpsilon || math.Abs(s1.a.X-s2.b.X) < mergeEpsilon
	default:
		if math.Abs(s1.a.X-s2.a.X) > mergeEpsilon {
			return false
		}
		return math.Abs(s1.b.Y-s2.a.Y) < mergeEpsilon || math.Abs(s1.a.Y-s2.b.Y) < mergeEpsilon
	}
}

// mergeSegments extends s1 over s2 keeping s1's winding
func mergeSegments(s1, s2 segment) segment {
	out := s1
	switch s1.side {
	case sideTop:
		out.a.X = min(s1.a.X, s2.a.X)
		out.b.X = max(s1.b.X, s2.b.X)
	case sideBottom:
		out.a.X = max(s1.a.X, s2.a.X)
		out.b.X = min(s1.b.X, s2.b.X)
	case sideRight:
		out.a.Y = min(s1.a.Y, s2.a.Y)
		out.b.Y = max(s1.b.Y, s2.b.Y)
	case sideLeft:
		out.a.Y = max(s1.a.Y, s2.a.Y)
		out.b.Y = min(s1.b.Y, s2.b.Y)
	}
	out.tiles = append(append([]Coord(nil), s1.tiles...), s2.tiles...)
	return out
}
