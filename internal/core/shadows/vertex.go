package shadows

import (
	"math"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
)

// sweepEdge is the computation-local view of a snapshot edge. Vertex
// attachment lives here so the snapshot is never written to.
type sweepEdge struct {
	*walls.Edge
	index   int
	limited bool
	// passable marks threshold edges the origin can see past
	passable bool
	attached bool

	vertexA *PolygonVertex
	vertexB *PolygonVertex
}

func (e *sweepEdge) incident(v *PolygonVertex) bool {
	return e.vertexA == v || e.vertexB == v
}

// PolygonVertex is a vertex taking part in a sweep or collision query.
// X and Y are rounded to whole pixels; Point returns the exact position.
type PolygonVertex struct {
	X, Y float64
	Key  int64

	exact        geom.Point
	intersection bool

	edges    []*sweepEdge
	cwEdges  []*sweepEdge
	ccwEdges []*sweepEdge

	cwNormal, cwLimited   int
	ccwNormal, ccwLimited int

	collinear []*PolygonVertex
	visited   bool
	index     int
	d2        float64
}

func newVertex(p geom.Point, origin geom.Point) *PolygonVertex {
	r := p.Round()
	return &PolygonVertex{
		X:     r.X,
		Y:     r.Y,
		Key:   p.Key(),
		exact: p,
		d2:    geom.DistanceSquared(origin, p),
	}
}

// Point returns the exact location of the vertex
func (v *PolygonVertex) Point() geom.Point {
	return v.exact
}

// IsIntersection reports whether the vertex came from two crossing edges
func (v *PolygonVertex) IsIntersection() bool {
	return v.intersection
}

// Edges returns the snapshot edges attached to the vertex
func (v *PolygonVertex) Edges() []*walls.Edge {
	out := make([]*walls.Edge, len(v.edges))
	for i, e := range v.edges {
		out[i] = e.Edge
	}
	return out
}

// CollinearVertices returns the other vertices on the same ray from the origin
func (v *PolygonVertex) CollinearVertices() []*PolygonVertex {
	return v.collinear
}

// Distance returns the distance from the computation origin
func (v *PolygonVertex) Distance() float64 {
	return math.Sqrt(v.d2)
}

// IsLimited reports whether every attached edge only partially blocks
func (v *PolygonVertex) IsLimited() bool {
	if len(v.edges) == 0 {
		return false
	}
	for _, e := range v.edges {
		if !e.limited {
			return false
		}
	}
	return true
}

// hasEdge reports whether e is already attached
func (v *PolygonVertex) hasEdge(e *sweepEdge) bool {
	for _, x := range v.edges {
		if x == e {
			return true
		}
	}
	return false
}

func (v *PolygonVertex) hasCWEdge(e *sweepEdge) bool {
	for _, x := range v.cwEdges {
		if x == e {
			return true
		}
	}
	return false
}

// attachEdge links e to the vertex. A negative orientation means the edge
// continues clockwise from here, positive means counter-clockwise and zero
// means both.
func (v *PolygonVertex) attachEdge(e *sweepEdge, orientation int) {
	if v.hasEdge(e) {
		return
	}
	v.edges = append(v.edges, e)
	if orientation <= 0 {
		v.cwEdges = append(v.cwEdges, e)
		if e.limited {
			v.cwLimited++
		} else {
			v.cwNormal++
		}
	}
	if orientation >= 0 {
		v.ccwEdges = append(v.ccwEdges, e)
		if e.limited {
			v.ccwLimited++
		} else {
			v.ccwNormal++
		}
	}
}
