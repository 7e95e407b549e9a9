package maploader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"chosenoffset.com/sightline/internal/schema"
	"chosenoffset.com/sightline/internal/world/atlas"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a scene file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// SpawnPoint defines a viewer spawn location
type SpawnPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// WallData is an explicit wall in a scene file. Restrictions left out of
// the file block fully.
type WallData struct {
	ID        string             `json:"id,omitempty" yaml:"id,omitempty"`
	A         geom.Point         `json:"a" yaml:"a"`
	B         geom.Point         `json:"b" yaml:"b"`
	Type      walls.EdgeType     `json:"type,omitempty" yaml:"type,omitempty"`
	Light     *walls.Restriction `json:"light,omitempty" yaml:"light,omitempty"`
	Sight     *walls.Restriction `json:"sight,omitempty" yaml:"sight,omitempty"`
	Sound     *walls.Restriction `json:"sound,omitempty" yaml:"sound,omitempty"`
	Move      *walls.Restriction `json:"move,omitempty" yaml:"move,omitempty"`
	Direction walls.Direction    `json:"direction,omitempty" yaml:"direction,omitempty"`
	Threshold walls.Threshold    `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Priority  int                `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Edge converts the wall into an edge
func (w WallData) Edge() *walls.Edge {
	orNormal := func(r *walls.Restriction) walls.Restriction {
		if r == nil {
			return walls.RestrictionNormal
		}
		return *r
	}
	return &walls.Edge{
		ID:        w.ID,
		A:         w.A,
		B:         w.B,
		Type:      w.Type,
		Light:     orNormal(w.Light),
		Sight:     orNormal(w.Sight),
		Sound:     orNormal(w.Sound),
		Move:      orNormal(w.Move),
		Direction: w.Direction,
		Threshold: w.Threshold,
		Priority:  w.Priority,
	}
}

// LightData is a light source placed in the scene
type LightData struct {
	ID        string      `json:"id,omitempty" yaml:"id,omitempty"`
	X         float64     `json:"x" yaml:"x"`
	Y         float64     `json:"y" yaml:"y"`
	Radius    float64     `json:"radius,omitempty" yaml:"radius,omitempty"`
	Angle     float64     `json:"angle,omitempty" yaml:"angle,omitempty"`
	Rotation  float64     `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Intensity float64     `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Color     string      `json:"color,omitempty" yaml:"color,omitempty"`
	Sense     walls.Sense `json:"sense,omitempty" yaml:"sense,omitempty"`
}

// MapData represents the loaded scene configuration. Tiles are laid out
// inside the padding; walls, lights and the spawn use canvas coordinates.
type MapData struct {
	Name      string                 `json:"name" yaml:"name"`
	Width     int                    `json:"width" yaml:"width"`         // Grid width in tiles
	Height    int                    `json:"height" yaml:"height"`       // Grid height in tiles
	TileSize  int                    `json:"tile_size" yaml:"tile_size"` // Rendered tile size in pixels
	Padding   int                    `json:"padding,omitempty" yaml:"padding,omitempty"`
	AtlasPath string                 `json:"atlas,omitempty" yaml:"atlas,omitempty"`
	TileDefs  []atlas.TileDefinition `json:"tile_defs,omitempty" yaml:"tile_defs,omitempty"`
	Tiles     [][]string             `json:"tiles,omitempty" yaml:"tiles,omitempty"` // 2D array of tile names [y][x]
	Walls     []WallData             `json:"walls,omitempty" yaml:"walls,omitempty"`
	Lights    []LightData            `json:"lights,omitempty" yaml:"lights,omitempty"`
	Spawn     SpawnPoint             `json:"spawn" yaml:"spawn"`
}

// Map represents a loaded scene with its atlas
type Map struct {
	Data  *MapData
	Atlas *atlas.Atlas
}

// LoadMap loads a scene from a JSON or YAML file and its associated atlas
func LoadMap(mapPath string) (*Map, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read map file %s", mapPath)
	}

	m, err := ParseMap(data, FormatFor(mapPath), filepath.Dir(mapPath))
	if err != nil {
		return nil, errors.Wrapf(err, "map file %s", mapPath)
	}
	return m, nil
}

// ParseMap validates and decodes a scene document. Relative atlas paths are
// resolved against dir.
func ParseMap(data []byte, format Format, dir string) (*Map, error) {
	v, err := schema.Scene()
	if err != nil {
		return nil, err
	}

	var mapData MapData
	switch format {
	case FormatYAML:
		if err := v.ValidateYAML(data); err != nil {
			return nil, err
		}
		err = yaml.Unmarshal(data, &mapData)
	default:
		if err := v.ValidateBytes(data); err != nil {
			return nil, err
		}
		err = json.Unmarshal(data, &mapData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse map")
	}

	if err := validateMapData(&mapData); err != nil {
		return nil, errors.Wrap(err, "invalid map data")
	}

	tileAtlas, err := loadTileAtlas(&mapData, dir)
	if err != nil {
		return nil, err
	}

	return &Map{
		Data:  &mapData,
		Atlas: tileAtlas,
	}, nil
}

// loadTileAtlas loads the referenced atlas or builds one from the inline
// tile definitions
func loadTileAtlas(data *MapData, dir string) (*atlas.Atlas, error) {
	switch {
	case data.AtlasPath != "":
		path := data.AtlasPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		a, err := atlas.LoadAtlas(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load atlas %s", data.AtlasPath)
		}
		return a, nil
	case len(data.TileDefs) > 0:
		return atlas.New(&atlas.AtlasConfig{
			Name:       data.Name,
			TileWidth:  data.TileSize,
			TileHeight: data.TileSize,
			Tiles:      data.TileDefs,
		})
	case len(data.Tiles) > 0:
		return nil, errors.New("tiles need an atlas or tile_defs")
	}
	return nil, nil
}

// validateMapData checks if the map data is valid
func validateMapData(data *MapData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return errors.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}

	if data.TileSize <= 0 {
		return errors.Errorf("invalid tile size: %d", data.TileSize)
	}

	if data.Padding < 0 {
		return errors.Errorf("invalid padding: %d", data.Padding)
	}

	// Validate tiles array dimensions
	if len(data.Tiles) > 0 {
		if len(data.Tiles) != data.Height {
			return errors.Errorf("tiles array height mismatch: expected %d, got %d", data.Height, len(data.Tiles))
		}
		for y, row := range data.Tiles {
			if len(row) != data.Width {
				return errors.Errorf("tiles array width mismatch at row %d: expected %d, got %d", y, data.Width, len(row))
			}
		}
	}

	for i, w := range data.Walls {
		if w.Type.IsBoundary() {
			return errors.Errorf("wall %d: type %s is reserved", i, w.Type)
		}
	}

	return nil
}

// GetTileAt returns the tile name at the given grid coordinates
func (m *Map) GetTileAt(x, y int) (string, error) {
	if x < 0 || x >= m.Data.Width || y < 0 || y >= m.Data.Height {
		return "", errors.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	if len(m.Data.Tiles) == 0 {
		return "", nil
	}
	return m.Data.Tiles[y][x], nil
}

// GetTileDefAt returns the tile definition at the given grid coordinates
func (m *Map) GetTileDefAt(x, y int) (*atlas.TileDefinition, error) {
	tileName, err := m.GetTileAt(x, y)
	if err != nil {
		return nil, err
	}
	if m.Atlas == nil || tileName == "" {
		return nil, errors.Errorf("no tile at (%d, %d)", x, y)
	}

	tile, ok := m.Atlas.GetTile(tileName)
	if !ok {
		return nil, errors.Errorf("tile not found in atlas: %s", tileName)
	}

	return tile, nil
}

// IsWalkable returns whether the tile at the given coordinates is walkable
func (m *Map) IsWalkable(x, y int) bool {
	tile, err := m.GetTileDefAt(x, y)
	if err != nil {
		return true
	}
	return tile.Profile().Move == walls.RestrictionNone
}

// BlocksSight returns whether the tile at the given coordinates blocks line of sight
func (m *Map) BlocksSight(x, y int) bool {
	tile, err := m.GetTileDefAt(x, y)
	if err != nil {
		return false
	}
	return tile.Restriction(walls.SenseSight) != walls.RestrictionNone
}

// GetTileType returns the type of tile at the given coordinates
func (m *Map) GetTileType(x, y int) string {
	tile, err := m.GetTileDefAt(x, y)
	if err != nil {
		return "unknown"
	}
	return tile.GetTilePropertyString("type", "unknown")
}
