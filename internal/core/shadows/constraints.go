package shadows

import (
	"fmt"
	"math"

	"chosenoffset.com/sightline/internal/core/clip"
	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/pkg/errors"
)

// coverTolerance is how far outside a clipped polygon the origin may sit
// and still count as covered. The origin is the apex of a cone.
const coverTolerance = 1e-6

// constrain clips the raw sweep polygon to every boundary shape in turn. A
// shape the clipper cannot handle is skipped and the polygon is kept
// unclipped by it.
func constrain(points []geom.Point, origin geom.Point, cfg *Config) []geom.Point {
	if len(points) < 3 || len(cfg.shapes) == 0 {
		return points
	}
	for _, shape := range cfg.shapes {
		clipped, err := intersectShape(points, shape.ToPolygon(), origin, cfg)
		if err != nil {
			Logger().Warn("failed to clip polygon to boundary shape",
				"shape", fmt.Sprintf("%T", shape),
				"origin", origin,
				"error", err)
			continue
		}
		points = clipped
		if len(points) < 3 {
			return nil
		}
	}
	return points
}

// intersectShape clips subject to shape and checks the result. When shape
// covers the origin the result must too, since the subject always does. A
// result that fails the check is retried once on cleaned input.
func intersectShape(subject, shape []geom.Point, origin geom.Point, cfg *Config) ([]geom.Point, error) {
	mustCover := geom.CoversPoint(shape, origin, coverTolerance)
	check := func(loops [][]geom.Point, err error) ([]geom.Point, error) {
		if err != nil {
			return nil, err
		}
		out := clip.Largest(loops)
		if mustCover && !geom.CoversPoint(out, origin, coverTolerance) {
			return nil, errors.Wrapf(clip.ErrClipFailed, "result of %d points lost the origin", len(out))
		}
		return out, nil
	}

	out, err := check(cfg.Clipper.Intersect([][]geom.Point{subject}, [][]geom.Point{shape}))
	if err == nil {
		return out, nil
	}
	Logger().Debug("retrying clip on cleaned input", "error", err)

	cleanSubject, cleanShape := clip.Clean(subject), clip.Clean(shape)
	if cleanSubject == nil || cleanShape == nil {
		return nil, err
	}
	return check(cfg.Clipper.Intersect([][]geom.Point{cleanSubject}, [][]geom.Point{cleanShape}))
}

// attenuatingEdges returns the selected threshold edges the origin can
// partially see past
func attenuatingEdges(edges []*sweepEdge) []*sweepEdge {
	var out []*sweepEdge
	for _, e := range edges {
		if e.passable && e.Threshold.Attenuation {
			out = append(out, e)
		}
	}
	return out
}

// attenuationRadius is how far vision reaches past a threshold edge at
// distance d with threshold t
func attenuationRadius(d, t float64, cfg *Config) float64 {
	r := d + math.Abs(t-d)*cfg.AttenuationMultiplier
	return math.Min(r, cfg.rayDistance)
}

// applyThresholdAttenuation unions the constrained polygon with one lobe per
// attenuating edge. Each lobe is the threshold-free polygon cut down to a
// circle reaching a little way past the edge.
func applyThresholdAttenuation(snap *walls.Snapshot, origin geom.Point, cfg *Config, polygon []geom.Point, attenuating []*sweepEdge) []geom.Point {
	if len(attenuating) == 0 {
		return polygon
	}

	free := constrain(newSweep(snap, origin, cfg, true).run(), origin, cfg)
	if len(free) < 3 {
		return polygon
	}

	result := polygon
	for _, e := range attenuating {
		d := e.ThresholdDistance(origin)
		circle := geom.Circle{
			Center:  origin,
			Radius:  attenuationRadius(d, e.Threshold.For(cfg.Type), cfg),
			Density: cfg.Density,
		}
		lobe, err := cfg.Clipper.Intersect([][]geom.Point{free}, [][]geom.Point{circle.ToPolygon()})
		if err != nil {
			Logger().Warn("failed to build attenuation lobe", "edge", e.ID, "error", err)
			continue
		}
		if len(lobe) == 0 {
			continue
		}
		if len(result) < 3 {
			result = clip.Largest(lobe)
			continue
		}
		merged, err := cfg.Clipper.Union([][]geom.Point{result}, lobe)
		if err != nil {
			Logger().Warn("failed to merge attenuation lobe", "edge", e.ID, "error", err)
			continue
		}
		if m := clip.Largest(merged); len(m) >= 3 {
			result = m
		}
	}
	return result
}
