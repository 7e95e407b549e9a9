package shadows

import (
	"sync"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidSense is returned when a computation names no known sense
	ErrInvalidSense = errors.New("invalid sense type")
	// ErrInvalidMode is returned for an unknown collision mode
	ErrInvalidMode = errors.New("invalid collision mode")
)

// Backend computes visibility polygons and collision queries
type Backend interface {
	Compute(snap *walls.Snapshot, origin geom.Point, cfg Config) (*Result, error)
	TestCollision(snap *walls.Snapshot, origin, destination geom.Point, cc CollisionConfig) (CollisionResult, error)
}

// ClockwiseSweep computes polygons with a single clockwise radial sweep
type ClockwiseSweep struct{}

// Sweep is the default backend for every sense
var Sweep Backend = ClockwiseSweep{}

var (
	backendsMu sync.RWMutex
	backends   = map[walls.Sense]Backend{
		walls.SenseLight:     Sweep,
		walls.SenseSight:     Sweep,
		walls.SenseSound:     Sweep,
		walls.SenseMove:      Sweep,
		walls.SenseUniversal: Sweep,
	}
)

// RegisterBackend selects the backend used for a sense
func RegisterBackend(sense walls.Sense, b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[sense] = b
}

// BackendFor returns the backend registered for a sense
func BackendFor(sense walls.Sense) (Backend, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[sense]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidSense, "no backend for %q", sense)
	}
	return b, nil
}

// Compute dispatches to the backend registered for cfg.Type
func Compute(snap *walls.Snapshot, origin geom.Point, cfg Config) (*Result, error) {
	b, err := BackendFor(cfg.Type)
	if err != nil {
		return nil, err
	}
	return b.Compute(snap, origin, cfg)
}

// TestCollision dispatches to the backend registered for cc.Type
func TestCollision(snap *walls.Snapshot, origin, destination geom.Point, cc CollisionConfig) (CollisionResult, error) {
	if !cc.Type.Valid() {
		return CollisionResult{}, errors.Wrapf(ErrInvalidSense, "collision type %q", cc.Type)
	}
	b, err := BackendFor(cc.Type)
	if err != nil {
		return CollisionResult{}, err
	}
	return b.TestCollision(snap, origin, destination, cc)
}

// Compute runs the sweep, clips the result to the configured shapes and
// applies threshold attenuation
func (ClockwiseSweep) Compute(snap *walls.Snapshot, origin geom.Point, cfg Config) (*Result, error) {
	if !cfg.Type.Valid() {
		return nil, errors.Wrapf(ErrInvalidSense, "polygon type %q", cfg.Type)
	}
	cfg.initialize(origin, snap)

	if cfg.degenerate() {
		return emptyResult(origin, cfg), nil
	}
	if !snap.SceneRect().Contains(origin) {
		Logger().Warn("polygon origin is outside the scene",
			"origin", origin,
			"type", cfg.Type,
			"scene", snap.SceneRect())
		return emptyResult(origin, cfg), nil
	}

	s := newSweep(snap, origin, &cfg, false)
	points := constrain(s.run(), origin, &cfg)
	if cfg.UseThreshold {
		points = applyThresholdAttenuation(snap, origin, &cfg, points, attenuatingEdges(s.edges))
	}

	return &Result{
		Polygon: geom.NewPolygon(points),
		Origin:  origin,
		Config:  cfg,
		Rays:    s.rays,
	}, nil
}

// TestCollision answers a segment collision query
func (ClockwiseSweep) TestCollision(snap *walls.Snapshot, origin, destination geom.Point, cc CollisionConfig) (CollisionResult, error) {
	return testCollision(snap, origin, destination, cc)
}
