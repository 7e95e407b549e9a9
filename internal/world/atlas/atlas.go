package atlas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TileDefinition defines a single tile within an atlas
type TileDefinition struct {
	Name       string                 `json:"name" yaml:"name"`                       // Semantic name (e.g., "nw_wall_corner")
	AtlasX     int                    `json:"atlas_x" yaml:"atlas_x"`                 // X position in atlas (in tiles)
	AtlasY     int                    `json:"atlas_y" yaml:"atlas_y"`                 // Y position in atlas (in tiles)
	Properties map[string]interface{} `json:"properties" yaml:"properties,omitempty"` // Blocking and threshold properties
}

// AtlasConfig defines the configuration for a tile atlas
type AtlasConfig struct {
	Name       string           `json:"name" yaml:"name"`
	Layer      string           `json:"layer,omitempty" yaml:"layer,omitempty"`
	ImagePath  string           `json:"image_path,omitempty" yaml:"image_path,omitempty"` // Only used by the viewer
	TileWidth  int              `json:"tile_width" yaml:"tile_width"`
	TileHeight int              `json:"tile_height" yaml:"tile_height"`
	Tiles      []TileDefinition `json:"tiles" yaml:"tiles"`
}

// Atlas represents a loaded tile atlas
type Atlas struct {
	Config      *AtlasConfig
	TilesByName map[string]*TileDefinition // Quick lookup by name
}

// LoadAtlas loads an atlas from a JSON or YAML configuration file
func LoadAtlas(configPath string) (*Atlas, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read atlas config %s", configPath)
	}

	var config AtlasConfig
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse atlas config %s", configPath)
	}

	atlas, err := New(&config)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid atlas config %s", configPath)
	}
	return atlas, nil
}

// New validates config and builds the name lookup
func New(config *AtlasConfig) (*Atlas, error) {
	if config.TileWidth <= 0 || config.TileHeight <= 0 {
		return nil, errors.Errorf("invalid tile dimensions: %dx%d", config.TileWidth, config.TileHeight)
	}

	tilesByName := make(map[string]*TileDefinition)
	for i := range config.Tiles {
		tile := &config.Tiles[i]
		if tile.Name == "" {
			continue
		}
		if _, dup := tilesByName[tile.Name]; dup {
			return nil, errors.Errorf("duplicate tile name: %s", tile.Name)
		}
		if err := tile.validate(); err != nil {
			return nil, errors.Wrapf(err, "tile %s", tile.Name)
		}
		tilesByName[tile.Name] = tile
	}

	return &Atlas{
		Config:      config,
		TilesByName: tilesByName,
	}, nil
}

// validate rejects restriction and direction names that Profile could not
// parse, so a typo fails the load instead of falling back to the default
func (td *TileDefinition) validate() error {
	for _, s := range walls.Senses {
		key := string(s) + "_restriction"
		if name := td.GetTilePropertyString(key, ""); name != "" {
			var r walls.Restriction
			if err := r.UnmarshalText([]byte(name)); err != nil {
				return errors.Wrap(err, key)
			}
		}
	}
	if dir := td.GetTilePropertyString("direction", ""); dir != "" {
		var d walls.Direction
		if err := d.UnmarshalText([]byte(dir)); err != nil {
			return errors.Wrap(err, "direction")
		}
	}
	return nil
}

// GetTile returns a tile definition by name
func (a *Atlas) GetTile(name string) (*TileDefinition, bool) {
	tile, ok := a.TilesByName[name]
	return tile, ok
}

// GetTileProperty retrieves a property from a tile definition
func (td *TileDefinition) GetTileProperty(key string) (interface{}, bool) {
	if td.Properties == nil {
		return nil, false
	}
	val, ok := td.Properties[key]
	return val, ok
}

// GetTilePropertyBool retrieves a boolean property
func (td *TileDefinition) GetTilePropertyBool(key string, defaultVal bool) bool {
	val, ok := td.GetTileProperty(key)
	if !ok {
		return defaultVal
	}
	if boolVal, ok := val.(bool); ok {
		return boolVal
	}
	return defaultVal
}

// GetTilePropertyString retrieves a string property
func (td *TileDefinition) GetTilePropertyString(key string, defaultVal string) string {
	val, ok := td.GetTileProperty(key)
	if !ok {
		return defaultVal
	}
	if strVal, ok := val.(string); ok {
		return strVal
	}
	return defaultVal
}

// GetTilePropertyFloat retrieves a numeric property
func (td *TileDefinition) GetTilePropertyFloat(key string, defaultVal float64) float64 {
	val, ok := td.GetTileProperty(key)
	if !ok {
		return defaultVal
	}
	// JSON numbers are float64, YAML integers are int
	switch n := val.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return defaultVal
}

// GetTilePropertyInt retrieves an integer property
func (td *TileDefinition) GetTilePropertyInt(key string, defaultVal int) int {
	return int(td.GetTilePropertyFloat(key, float64(defaultVal)))
}

// Restriction returns how the tile blocks a sense. An explicit
// "<sense>_restriction" name wins over the blocks_ and limited_ flags.
func (td *TileDefinition) Restriction(s walls.Sense) walls.Restriction {
	if name := td.GetTilePropertyString(string(s)+"_restriction", ""); name != "" {
		var r walls.Restriction
		if err := r.UnmarshalText([]byte(name)); err == nil {
			return r
		}
	}
	switch {
	case td.GetTilePropertyBool("blocks_"+string(s), false):
		return walls.RestrictionNormal
	case td.GetTilePropertyBool("limited_"+string(s), false):
		return walls.RestrictionLimited
	}
	return walls.RestrictionNone
}

// Profile converts the tile's properties into the blocking profile used
// for wall extraction
func (td *TileDefinition) Profile() shadows.TileProfile {
	p := shadows.TileProfile{
		Light: td.Restriction(walls.SenseLight),
		Sight: td.Restriction(walls.SenseSight),
		Sound: td.Restriction(walls.SenseSound),
		Move:  td.Restriction(walls.SenseMove),
		Threshold: walls.Threshold{
			Light:       td.GetTilePropertyFloat("threshold_light", 0),
			Sight:       td.GetTilePropertyFloat("threshold_sight", 0),
			Sound:       td.GetTilePropertyFloat("threshold_sound", 0),
			Attenuation: td.GetTilePropertyBool("threshold_attenuation", false),
		},
		Bounds: shadows.TileBounds{
			Top:    td.GetTilePropertyFloat("bounds_top", 0),
			Bottom: td.GetTilePropertyFloat("bounds_bottom", 0),
			Left:   td.GetTilePropertyFloat("bounds_left", 0),
			Right:  td.GetTilePropertyFloat("bounds_right", 0),
		},
	}
	// Legacy maps only mark walkability
	if p.Move == walls.RestrictionNone && !td.GetTilePropertyBool("walkable", true) {
		p.Move = walls.RestrictionNormal
	}
	if dir := td.GetTilePropertyString("direction", ""); dir != "" {
		_ = p.Direction.UnmarshalText([]byte(dir))
	}
	return p
}
