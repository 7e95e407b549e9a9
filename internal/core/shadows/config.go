package shadows

import (
	"math"

	"chosenoffset.com/sightline/internal/core/clip"
	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
)

// WallDirectionMode controls how one-way walls are honored
type WallDirectionMode int

const (
	// WallDirectionNormal blocks from the wall's blocking side only
	WallDirectionNormal WallDirectionMode = 0
	// WallDirectionReversed blocks from the opposite side
	WallDirectionReversed WallDirectionMode = 1
	// WallDirectionBoth ignores wall direction
	WallDirectionBoth WallDirectionMode = 2
)

// InnerBoundsMode selects between the padded canvas and the playable area
type InnerBoundsMode int

const (
	// InnerBoundsAuto uses the inner rectangle for sight and light when the
	// origin is inside it
	InnerBoundsAuto InnerBoundsMode = iota
	InnerBoundsAlways
	InnerBoundsNever
)

// Config describes one polygon computation. Build it with NewConfig; the
// derived fields are filled in when a computation starts and never change
// afterwards.
type Config struct {
	Type                  walls.Sense
	Angle                 float64
	Rotation              float64
	Radius                float64
	Density               int
	UseThreshold          bool
	IncludeDarkness       bool
	InnerBounds           InnerBoundsMode
	WallDirectionMode     WallDirectionMode
	ExternalRadius        float64
	AttenuationMultiplier float64
	BoundaryShapes        []geom.Shape
	Priority              int
	Debug                 bool
	Clipper               clip.Clipper

	radiusSet bool

	hasLimitedRadius bool
	hasLimitedAngle  bool
	useInnerBounds   bool
	rayDistance      float64
	angleMin         float64
	angleMax         float64
	boundingBox      geom.Rectangle
	shapes           []geom.Shape
}

// Option configures a Config
type Option func(*Config)

// NewConfig returns a full-circle, unlimited-radius configuration for a sense
func NewConfig(sense walls.Sense, opts ...Option) Config {
	c := Config{
		Type:                  sense,
		Angle:                 360,
		AttenuationMultiplier: 1,
		Clipper:               clip.Default,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithAngle limits the polygon to a sector of the given width in degrees
func WithAngle(degrees float64) Option {
	return func(c *Config) { c.Angle = degrees }
}

// WithRotation turns the sector; zero faces +Y
func WithRotation(degrees float64) Option {
	return func(c *Config) { c.Rotation = degrees }
}

// WithRadius limits the polygon to a circle
func WithRadius(r float64) Option {
	return func(c *Config) {
		c.Radius = r
		c.radiusSet = true
	}
}

// WithDensity sets the number of points used to approximate a full circle
func WithDensity(n int) Option {
	return func(c *Config) { c.Density = n }
}

// WithThreshold enables proximity and distance threshold walls
func WithThreshold(enabled bool) Option {
	return func(c *Config) { c.UseThreshold = enabled }
}

// WithDarkness includes darkness edges at or above the given priority
func WithDarkness(priority int) Option {
	return func(c *Config) {
		c.IncludeDarkness = true
		c.Priority = priority
	}
}

// WithInnerBounds overrides the automatic inner bounds choice
func WithInnerBounds(mode InnerBoundsMode) Option {
	return func(c *Config) { c.InnerBounds = mode }
}

// WithWallDirection sets how one-way walls are treated
func WithWallDirection(mode WallDirectionMode) Option {
	return func(c *Config) { c.WallDirectionMode = mode }
}

// WithExternalRadius sets the size of the source for threshold checks
func WithExternalRadius(r float64) Option {
	return func(c *Config) { c.ExternalRadius = r }
}

// WithAttenuationMultiplier scales how far attenuated vision reaches past a
// threshold wall
func WithAttenuationMultiplier(m float64) Option {
	return func(c *Config) { c.AttenuationMultiplier = m }
}

// WithBoundaryShapes adds shapes the final polygon is clipped to
func WithBoundaryShapes(shapes ...geom.Shape) Option {
	return func(c *Config) { c.BoundaryShapes = append(c.BoundaryShapes, shapes...) }
}

// WithDebug records the rays cast during the sweep
func WithDebug() Option {
	return func(c *Config) { c.Debug = true }
}

// WithClipper replaces the polygon clipping implementation
func WithClipper(cl clip.Clipper) Option {
	return func(c *Config) { c.Clipper = cl }
}

// HasRadius reports whether a radius limit was configured
func (c *Config) HasRadius() bool {
	return c.radiusSet
}

// HasLimitedRadius reports whether the polygon is bounded by a circle
func (c *Config) HasLimitedRadius() bool { return c.hasLimitedRadius }

// HasLimitedAngle reports whether the polygon is bounded by a sector
func (c *Config) HasLimitedAngle() bool { return c.hasLimitedAngle }

// UseInnerBounds reports whether the inner rectangle bounds the computation
func (c *Config) UseInnerBounds() bool { return c.useInnerBounds }

// RayDistance is long enough to cross the whole canvas from any origin
func (c *Config) RayDistance() float64 { return c.rayDistance }

// AngleRange returns the sector limits in radians
func (c *Config) AngleRange() (float64, float64) { return c.angleMin, c.angleMax }

// Shapes returns every shape the polygon is clipped to, derived ones first
func (c *Config) Shapes() []geom.Shape { return c.shapes }

// degenerate reports configurations that can only produce an empty polygon
func (c *Config) degenerate() bool {
	return c.Angle <= 0 || (c.radiusSet && c.Radius <= 0)
}

// initialize computes the derived fields for a computation at origin
func (c *Config) initialize(origin geom.Point, snap *walls.Snapshot) {
	if c.Angle > 360 {
		c.Angle = 360
	}
	if c.Clipper == nil {
		c.Clipper = clip.Default
	}
	if c.AttenuationMultiplier <= 0 {
		c.AttenuationMultiplier = 1
	}
	c.hasLimitedRadius = c.radiusSet && c.Radius > 0
	c.hasLimitedAngle = c.Angle < 360

	scene := snap.SceneRect()
	c.rayDistance = math.Hypot(scene.Width(), scene.Height()) + 1

	switch c.InnerBounds {
	case InnerBoundsAlways:
		c.useInnerBounds = snap.HasInnerBounds()
	case InnerBoundsNever:
		c.useInnerBounds = false
	default:
		benefits := c.Type == walls.SenseSight || c.Type == walls.SenseLight
		c.useInnerBounds = benefits && snap.HasInnerBounds() && snap.InnerRect().ContainsStrict(origin)
	}

	c.shapes = nil
	radius := c.rayDistance
	if c.hasLimitedRadius {
		radius = c.Radius
	}
	if c.hasLimitedAngle {
		wedge := geom.LimitedAngle{
			Origin:   origin,
			Radius:   radius,
			Angle:    c.Angle,
			Rotation: c.Rotation,
			Density:  c.Density,
		}
		c.angleMin, c.angleMax = wedge.AngleRange()
		c.shapes = append(c.shapes, wedge)
	} else {
		c.angleMin, c.angleMax = -math.Pi, math.Pi
		if c.hasLimitedRadius {
			c.shapes = append(c.shapes, geom.Circle{Center: origin, Radius: c.Radius, Density: c.Density})
		}
	}
	c.shapes = append(c.shapes, c.BoundaryShapes...)

	bounds := scene
	if c.useInnerBounds {
		bounds = snap.InnerRect()
	}
	for _, s := range c.shapes {
		bounds = bounds.Intersection(s.Bounds())
	}
	c.boundingBox = bounds.RoundOut().Pad(1)
}

// boundaryType is the kind of scene boundary edge this computation keeps
func (c *Config) boundaryType() walls.EdgeType {
	if c.useInnerBounds {
		return walls.TypeInnerBounds
	}
	return walls.TypeOuterBounds
}
