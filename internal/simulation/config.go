// Package simulation provides the perception rules that turn a viewer into
// polygon configurations. The rules are loaded from data files so each scene
// can define its own senses.
package simulation

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

// Config holds all perception and lighting rules
type Config struct {
	// Perception rules
	Perception PerceptionConfig `json:"perception" yaml:"perception"`

	// Light source defaults
	Lighting LightingConfig `json:"lighting" yaml:"lighting"`
}

// PerceptionConfig defines how a viewer perceives the scene
type PerceptionConfig struct {
	// Vision
	BaseVisionRange float64 `json:"base_vision_range" yaml:"base_vision_range"` // Vision range in tiles, 0 is unlimited
	VisionConeAngle float64 `json:"vision_cone_angle" yaml:"vision_cone_angle"` // Angle of vision cone (degrees)

	// Hearing
	BaseHearingRange float64 `json:"base_hearing_range" yaml:"base_hearing_range"` // Hearing range in tiles

	// Threshold walls
	UseThresholds         bool    `json:"use_thresholds" yaml:"use_thresholds"`
	AttenuationMultiplier float64 `json:"attenuation_multiplier" yaml:"attenuation_multiplier"` // How far attenuated senses reach past a wall
	ExternalRadius        float64 `json:"external_radius" yaml:"external_radius"`               // Viewer size in pixels

	// One-way walls: "normal", "reversed" or "both"
	WallDirection string `json:"wall_direction" yaml:"wall_direction"`
}

// LightingConfig defines light source defaults
type LightingConfig struct {
	DefaultRadius    float64 `json:"default_radius" yaml:"default_radius"` // In tiles
	DefaultIntensity float64 `json:"default_intensity" yaml:"default_intensity"`
	IncludeDarkness  bool    `json:"include_darkness" yaml:"include_darkness"`
	DarknessPriority int     `json:"darkness_priority" yaml:"darkness_priority"`
	Workers          int     `json:"workers" yaml:"workers"` // Parallel polygon refreshes
}

// DefaultConfig returns sensible defaults for a dungeon scene
func DefaultConfig() *Config {
	return &Config{
		Perception: PerceptionConfig{
			BaseVisionRange:       0,
			VisionConeAngle:       360,
			BaseHearingRange:      12,
			UseThresholds:         true,
			AttenuationMultiplier: 1,
			ExternalRadius:        0,
			WallDirection:         "normal",
		},
		Lighting: LightingConfig{
			DefaultRadius:    6,
			DefaultIntensity: 1,
			IncludeDarkness:  true,
			DarknessPriority: 0,
			Workers:          4,
		},
	}
}

// LoadConfig loads the rules from a JSON or YAML file. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrap(err, "failed to read simulation config")
	}

	config := DefaultConfig() // Start with defaults
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse simulation config")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid simulation config %s", path)
	}
	return config, nil
}

// Validate checks the rule values
func (c *Config) Validate() error {
	p := c.Perception
	if p.BaseVisionRange < 0 || p.BaseHearingRange < 0 {
		return errors.New("perception ranges cannot be negative")
	}
	if p.VisionConeAngle <= 0 || p.VisionConeAngle > 360 {
		return errors.Errorf("vision cone angle %v is outside (0, 360]", p.VisionConeAngle)
	}
	if p.AttenuationMultiplier < 0 {
		return errors.New("attenuation multiplier cannot be negative")
	}
	if _, err := ParseWallDirection(p.WallDirection); err != nil {
		return err
	}
	if c.Lighting.Workers < 0 {
		return errors.New("lighting workers cannot be negative")
	}
	return nil
}

// ParseWallDirection converts "normal", "reversed" or "both" into a mode
func ParseWallDirection(name string) (shadows.WallDirectionMode, error) {
	switch strings.ToLower(name) {
	case "", "normal":
		return shadows.WallDirectionNormal, nil
	case "reversed":
		return shadows.WallDirectionReversed, nil
	case "both":
		return shadows.WallDirectionBoth, nil
	}
	return 0, errors.Errorf("unknown wall direction %q", name)
}

func (c *Config) senseOptions() []shadows.Option {
	mode, _ := ParseWallDirection(c.Perception.WallDirection)
	return []shadows.Option{
		shadows.WithThreshold(c.Perception.UseThresholds),
		shadows.WithAttenuationMultiplier(c.Perception.AttenuationMultiplier),
		shadows.WithExternalRadius(c.Perception.ExternalRadius),
		shadows.WithWallDirection(mode),
	}
}

// VisionConfig builds the sight polygon configuration for a viewer facing
// rotation degrees
func (c *Config) VisionConfig(tileSize, rotation float64) shadows.Config {
	opts := c.senseOptions()
	if c.Perception.BaseVisionRange > 0 {
		opts = append(opts, shadows.WithRadius(c.Perception.BaseVisionRange*tileSize))
	}
	opts = append(opts,
		shadows.WithAngle(c.Perception.VisionConeAngle),
		shadows.WithRotation(rotation),
	)
	return shadows.NewConfig(walls.SenseSight, opts...)
}

// HearingConfig builds the sound polygon configuration
func (c *Config) HearingConfig(tileSize float64) shadows.Config {
	opts := c.senseOptions()
	if c.Perception.BaseHearingRange > 0 {
		opts = append(opts, shadows.WithRadius(c.Perception.BaseHearingRange*tileSize))
	}
	return shadows.NewConfig(walls.SenseSound, opts...)
}

// LightConfig builds the polygon configuration for a light source. A zero
// radius falls back to the default.
func (c *Config) LightConfig(tileSize, radius, angle, rotation float64) shadows.Config {
	if radius <= 0 {
		radius = c.Lighting.DefaultRadius * tileSize
	}
	opts := c.senseOptions()
	opts = append(opts, shadows.WithRadius(radius), shadows.WithRotation(rotation))
	if angle > 0 {
		opts = append(opts, shadows.WithAngle(angle))
	}
	if c.Lighting.IncludeDarkness {
		opts = append(opts, shadows.WithDarkness(c.Lighting.DarknessPriority))
	}
	return shadows.NewConfig(walls.SenseLight, opts...)
}

// MovementCollision is the collision query used to stop a moving viewer
func (c *Config) MovementCollision() shadows.CollisionConfig {
	mode, _ := ParseWallDirection(c.Perception.WallDirection)
	return shadows.CollisionConfig{
		Type:              walls.SenseMove,
		Mode:              shadows.CollisionClosest,
		WallDirectionMode: mode,
	}
}
