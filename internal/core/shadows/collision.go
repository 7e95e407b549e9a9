package shadows

import (
	"sort"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/pkg/errors"
)

// CollisionMode selects what a collision query returns
type CollisionMode string

const (
	// CollisionAny reports whether anything blocks the segment
	CollisionAny CollisionMode = "any"
	// CollisionAll returns every blocking point, nearest first
	CollisionAll CollisionMode = "all"
	// CollisionClosest returns the nearest blocking point
	CollisionClosest CollisionMode = "closest"
)

// Valid reports whether m is a known mode
func (m CollisionMode) Valid() bool {
	return m == CollisionAny || m == CollisionAll || m == CollisionClosest
}

// CollisionConfig describes a collision query. Type is required.
type CollisionConfig struct {
	Type              walls.Sense
	Mode              CollisionMode
	UseThreshold      bool
	WallDirectionMode WallDirectionMode
}

// CollisionResult holds the outcome of a collision query. Vertices is only
// filled for CollisionAll and Closest only for CollisionClosest.
type CollisionResult struct {
	Hit      bool
	Vertices []*PolygonVertex
	Closest  *PolygonVertex
}

func validateCollision(cc CollisionConfig) error {
	if !cc.Type.Valid() {
		return errors.Wrapf(ErrInvalidSense, "collision type %q", cc.Type)
	}
	if !cc.Mode.Valid() {
		return errors.Wrapf(ErrInvalidMode, "collision mode %q", cc.Mode)
	}
	return nil
}

// testCollision tests the segment origin->destination against the edges
// selected for cc.Type. A single limited edge nearest the origin does not
// count as a collision.
func testCollision(snap *walls.Snapshot, origin, destination geom.Point, cc CollisionConfig) (CollisionResult, error) {
	if err := validateCollision(cc); err != nil {
		return CollisionResult{}, err
	}

	cfg := NewConfig(cc.Type,
		WithThreshold(cc.UseThreshold),
		WithWallDirection(cc.WallDirectionMode),
		WithInnerBounds(InnerBoundsNever),
		WithBoundaryShapes(geom.RectFromPoints(origin, destination)),
	)
	cfg.initialize(origin, snap)
	edges := selectEdges(snap, origin, &cfg, false)

	vertices := make(map[int64]*PolygonVertex)
	var order []*PolygonVertex
	for _, e := range edges {
		x, ok := geom.LineSegmentIntersection(origin, destination, e.A, e.B)
		if !ok || x.T0 <= 0 {
			continue
		}
		if cc.Mode == CollisionAny && (!e.limited || len(vertices) > 0) {
			return CollisionResult{Hit: true}, nil
		}
		v, ok := vertices[x.Key()]
		if !ok {
			v = newVertex(x.Point, origin)
			v.intersection = true
			vertices[v.Key] = v
			order = append(order, v)
		}
		v.attachEdge(e, 0)
	}
	if cc.Mode == CollisionAny {
		return CollisionResult{}, nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].d2 != order[j].d2 {
			return order[i].d2 < order[j].d2
		}
		return order[i].Key < order[j].Key
	})
	if len(order) > 0 && len(order[0].edges) == 1 && order[0].edges[0].limited {
		order = order[1:]
	}

	if cc.Mode == CollisionAll {
		return CollisionResult{Hit: len(order) > 0, Vertices: order}, nil
	}
	if len(order) == 0 {
		return CollisionResult{}, nil
	}
	return CollisionResult{Hit: true, Closest: order[0]}, nil
}
