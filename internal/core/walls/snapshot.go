package walls

import (
	"fmt"
	"sort"

	"chosenoffset.com/sightline/internal/core/geom"
	"github.com/dhconnelly/rtreego"
)

// indexPadding keeps degenerate (horizontal or vertical) edges searchable
// because the R-tree treats touching boxes as disjoint.
const indexPadding = 0.5

// EdgeIntersection records where an edge crosses another edge
type EdgeIntersection struct {
	Other *Edge
	Point geom.Point
}

type indexedEdge struct {
	edge  *Edge
	order int
	rect  rtreego.Rect
}

func (ie *indexedEdge) Bounds() rtreego.Rect {
	return ie.rect
}

// Snapshot is an immutable view of a scene's edges. It is safe for
// concurrent use; callers must treat the returned edges as read-only.
type Snapshot struct {
	edges         []*Edge
	order         map[*Edge]int
	tree          *rtreego.Rtree
	intersections map[*Edge][]EdgeIntersection
	sceneRect     geom.Rectangle
	innerRect     geom.Rectangle
}

// NewSnapshot copies the given edges, generates the scene boundary edges and
// precomputes every edge-edge intersection.
func NewSnapshot(edges []*Edge, sceneRect, innerRect geom.Rectangle) *Snapshot {
	if innerRect.Empty() || innerRect == (geom.Rectangle{}) {
		innerRect = sceneRect
	}
	snap := &Snapshot{
		order:         make(map[*Edge]int),
		intersections: make(map[*Edge][]EdgeIntersection),
		sceneRect:     sceneRect,
		innerRect:     innerRect,
	}

	all := make([]*Edge, 0, len(edges)+8)
	for _, e := range edges {
		all = append(all, e.Clone())
	}
	all = append(all, boundaryEdges(TypeOuterBounds, sceneRect)...)
	if innerRect != sceneRect {
		all = append(all, boundaryEdges(TypeInnerBounds, innerRect)...)
	}
	snap.edges = all

	objs := make([]rtreego.Spatial, 0, len(all))
	for i, e := range all {
		snap.order[e] = i
		objs = append(objs, &indexedEdge{edge: e, order: i, rect: toRect(e.Bounds())})
	}
	snap.tree = rtreego.NewTree(2, 25, 50, objs...)
	snap.identifyIntersections()
	return snap
}

func boundaryEdges(t EdgeType, r geom.Rectangle) []*Edge {
	corners := r.Corners()
	out := make([]*Edge, 0, 4)
	for i := range corners {
		out = append(out, &Edge{
			ID:    fmt.Sprintf("%s-%d", t, i),
			A:     corners[i],
			B:     corners[(i+1)%len(corners)],
			Type:  t,
			Light: RestrictionNormal,
			Sight: RestrictionNormal,
			Sound: RestrictionNormal,
			Move:  RestrictionNormal,
		})
	}
	return out
}

func toRect(r geom.Rectangle) rtreego.Rect {
	r = r.Pad(indexPadding)
	rect, err := rtreego.NewRectFromPoints(
		rtreego.Point{r.MinX, r.MinY},
		rtreego.Point{r.MaxX, r.MaxY},
	)
	if err != nil {
		// Both points are two dimensional, so this cannot happen.
		panic(err)
	}
	return rect
}

func (s *Snapshot) identifyIntersections() {
	for i, e := range s.edges {
		if e.Degenerate() {
			continue
		}
		for _, o := range s.Search(e.Bounds()) {
			j := s.order[o]
			if j <= i || o.Degenerate() || sharesEndpoint(e, o) {
				continue
			}
			if !geom.LineSegmentIntersects(e.A, e.B, o.A, o.B) {
				continue
			}
			x, ok := geom.LineLineIntersection(e.A, e.B, o.A, o.B)
			if !ok {
				continue
			}
			s.intersections[e] = append(s.intersections[e], EdgeIntersection{Other: o, Point: x.Point})
			s.intersections[o] = append(s.intersections[o], EdgeIntersection{Other: e, Point: x.Point})
		}
	}
}

func sharesEndpoint(e, o *Edge) bool {
	ea, eb := e.A.Key(), e.B.Key()
	oa, ob := o.A.Key(), o.B.Key()
	return ea == oa || ea == ob || eb == oa || eb == ob
}

// Edges returns every edge in the snapshot, scene boundaries last
func (s *Snapshot) Edges() []*Edge {
	return s.edges
}

// Len returns the number of edges including boundaries
func (s *Snapshot) Len() int {
	return len(s.edges)
}

// Order returns the stable position of e in the snapshot, or -1
func (s *Snapshot) Order(e *Edge) int {
	if i, ok := s.order[e]; ok {
		return i
	}
	return -1
}

// Boundaries returns the generated boundary edges of the given type
func (s *Snapshot) Boundaries(t EdgeType) []*Edge {
	var out []*Edge
	for _, e := range s.edges {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Search returns the edges whose bounds overlap r, in snapshot order
func (s *Snapshot) Search(r geom.Rectangle) []*Edge {
	hits := s.tree.SearchIntersect(toRect(r))
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].(*indexedEdge).order < hits[j].(*indexedEdge).order
	})
	out := make([]*Edge, len(hits))
	for i, h := range hits {
		out[i] = h.(*indexedEdge).edge
	}
	return out
}

// Intersections returns the crossings recorded for e
func (s *Snapshot) Intersections(e *Edge) []EdgeIntersection {
	return s.intersections[e]
}

// SceneRect returns the full canvas rectangle
func (s *Snapshot) SceneRect() geom.Rectangle {
	return s.sceneRect
}

// InnerRect returns the playable area inside the scene padding
func (s *Snapshot) InnerRect() geom.Rectangle {
	return s.innerRect
}

// HasInnerBounds reports whether the scene has padding
func (s *Snapshot) HasInnerBounds() bool {
	return s.innerRect != s.sceneRect
}
