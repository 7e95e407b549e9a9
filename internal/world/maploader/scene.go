package maploader

import (
	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/pkg/errors"
)

var _ shadows.TileGrid = (*Map)(nil)

// GridSize implements shadows.TileGrid
func (m *Map) GridSize() (int, int) {
	return m.Data.Width, m.Data.Height
}

// CellSize implements shadows.TileGrid
func (m *Map) CellSize() float64 {
	return float64(m.Data.TileSize)
}

// TileProfile implements shadows.TileGrid. Tile bounds are given in atlas
// pixels and scaled to the rendered tile size.
func (m *Map) TileProfile(x, y int) (shadows.TileProfile, bool) {
	tile, err := m.GetTileDefAt(x, y)
	if err != nil {
		return shadows.TileProfile{}, false
	}
	p := tile.Profile()
	if w := m.Atlas.Config.TileWidth; w != m.Data.TileSize && w > 0 {
		sx := float64(m.Data.TileSize) / float64(w)
		sy := float64(m.Data.TileSize) / float64(m.Atlas.Config.TileHeight)
		p.Bounds.Left *= sx
		p.Bounds.Right *= sx
		p.Bounds.Top *= sy
		p.Bounds.Bottom *= sy
	}
	return p, true
}

// SceneRect is the full canvas including padding
func (m *Map) SceneRect() geom.Rectangle {
	pad := float64(2 * m.Data.Padding)
	return geom.NewRectangle(0, 0, m.Width()+pad, m.Height()+pad)
}

// InnerRect is the tiled area inside the padding
func (m *Map) InnerRect() geom.Rectangle {
	pad := float64(m.Data.Padding)
	return geom.NewRectangle(pad, pad, m.Width(), m.Height())
}

// Width is the tiled area width in pixels
func (m *Map) Width() float64 {
	return float64(m.Data.Width * m.Data.TileSize)
}

// Height is the tiled area height in pixels
func (m *Map) Height() float64 {
	return float64(m.Data.Height * m.Data.TileSize)
}

// Edges returns the walls traced from the tile grid followed by the
// explicit walls
func (m *Map) Edges() []*walls.Edge {
	var edges []*walls.Edge
	if m.Atlas != nil {
		offset := geom.Pt(float64(m.Data.Padding), float64(m.Data.Padding))
		for _, e := range shadows.EdgesFromGrid(m) {
			e.A = e.A.Add(offset)
			e.B = e.B.Add(offset)
			edges = append(edges, e)
		}
	}
	for _, w := range m.Data.Walls {
		edges = append(edges, w.Edge())
	}
	return edges
}

// BuildStore creates an edge store holding every wall in the scene
func (m *Map) BuildStore() (*walls.Store, error) {
	store := walls.NewStore(m.SceneRect(), m.InnerRect())
	if err := store.Add(m.Edges()...); err != nil {
		return nil, errors.Wrapf(err, "scene %s", m.Data.Name)
	}
	return store, nil
}

// Spawn returns the spawn point, defaulting to the center of the tiled area
func (m *Map) Spawn() geom.Point {
	if m.Data.Spawn != (SpawnPoint{}) {
		return geom.Pt(m.Data.Spawn.X, m.Data.Spawn.Y)
	}
	inner := m.InnerRect()
	return geom.Pt((inner.MinX+inner.MaxX)/2, (inner.MinY+inner.MaxY)/2)
}
