package shadows

import (
	"sort"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
)

// sweep holds the state of one clockwise radial sweep around origin
type sweep struct {
	origin geom.Point
	cfg    *Config
	snap   *walls.Snapshot

	edges    []*sweepEdge
	byEdge   map[*walls.Edge]*sweepEdge
	vertices map[int64]*PolygonVertex
	order    []*PolygonVertex
	active   map[*sweepEdge]struct{}

	points []geom.Point
	rays   []*geom.Ray
}

func newSweep(snap *walls.Snapshot, origin geom.Point, cfg *Config, ignorePassable bool) *sweep {
	s := &sweep{
		origin:   origin,
		cfg:      cfg,
		snap:     snap,
		byEdge:   make(map[*walls.Edge]*sweepEdge),
		vertices: make(map[int64]*PolygonVertex),
		active:   make(map[*sweepEdge]struct{}),
	}
	s.edges = selectEdges(snap, origin, cfg, ignorePassable)
	for _, e := range s.edges {
		s.byEdge[e.Edge] = e
	}
	return s
}

// run performs the sweep and returns the raw polygon, clockwise on screen
func (s *sweep) run() []geom.Point {
	s.buildVertices()
	s.identifyIntersections()
	s.initializeActiveEdges()
	s.sortVertices()
	s.sweepVertices()
	s.closePolygon()

	Logger().Debug("sweep complete",
		"origin", s.origin,
		"type", s.cfg.Type,
		"edges", len(s.edges),
		"vertices", len(s.order),
		"points", len(s.points))
	return s.points
}

// vertexAt returns the vertex for p's key, creating it on first use
func (s *sweep) vertexAt(p geom.Point, intersection bool) *PolygonVertex {
	key := p.Key()
	if v, ok := s.vertices[key]; ok {
		return v
	}
	v := newVertex(p, s.origin)
	v.intersection = intersection
	s.vertices[key] = v
	s.order = append(s.order, v)
	return v
}

// buildVertices registers both endpoints of every edge and attaches edges so
// that vertexB is clockwise of vertexA as seen from the origin
func (s *sweep) buildVertices() {
	for _, e := range s.edges {
		a := s.vertexAt(e.A, false)
		b := s.vertexAt(e.B, false)
		if a == b {
			continue
		}
		o := geom.Orient2D(s.origin, a.exact, b.exact)
		if o == 0 {
			continue
		}
		if o > 0 {
			a, b = b, a
		}
		e.vertexA, e.vertexB = a, b
		e.attached = true
		a.attachEdge(e, -1)
		b.attachEdge(e, 1)
	}
}

// identifyIntersections adds a vertex wherever two selected edges cross
func (s *sweep) identifyIntersections() {
	for _, e := range s.edges {
		if !e.attached {
			continue
		}
		for _, x := range s.snap.Intersections(e.Edge) {
			other, ok := s.byEdge[x.Other]
			if !ok || !other.attached {
				continue
			}
			v := s.vertexAt(x.Point, true)
			if v.hasEdge(e) {
				continue
			}
			v.attachEdge(e, s.intersectionOrientation(e, x.Point))
		}
	}
}

// intersectionOrientation decides from the exact crossing point which way e
// continues. Rounding the vertex could put it beyond an endpoint.
func (s *sweep) intersectionOrientation(e *sweepEdge, x geom.Point) int {
	if geom.Orient2D(s.origin, e.vertexA.exact, x) >= 0 {
		return -1
	}
	if geom.Orient2D(s.origin, x, e.vertexB.exact) >= 0 {
		return 1
	}
	return 0
}

// initializeActiveEdges activates every edge crossing the due-west ray
func (s *sweep) initializeActiveEdges() {
	west := geom.Pt(s.origin.X-s.cfg.rayDistance, s.origin.Y)
	for _, e := range s.edges {
		if !e.attached {
			continue
		}
		if geom.LineSegmentIntersects(s.origin, west, e.vertexA.exact, e.vertexB.exact) {
			s.active[e] = struct{}{}
		}
	}
}

func (s *sweep) hemisphere(p geom.Point) int {
	if p.Y > s.origin.Y {
		return 1
	}
	return -1
}

// quadrant orders NW, NE, SE, SW, which is clockwise starting due west
func (s *sweep) quadrant(p geom.Point) int {
	q := 1
	if p.X < s.origin.X {
		q = -1
	}
	if s.hemisphere(p) > 0 {
		return -q
	}
	return q
}

func (s *sweep) sameSector(a, b *PolygonVertex) bool {
	return s.hemisphere(a.exact) == s.hemisphere(b.exact) && s.quadrant(a.exact) == s.quadrant(b.exact)
}

// compareVertices orders vertices clockwise from due west, nearer first
// when two share a ray
func (s *sweep) compareVertices(a, b *PolygonVertex) int {
	if ha, hb := s.hemisphere(a.exact), s.hemisphere(b.exact); ha != hb {
		return ha - hb
	}
	if qa, qb := s.quadrant(a.exact), s.quadrant(b.exact); qa != qb {
		return qa - qb
	}
	if o := geom.Orient2D(s.origin, a.exact, b.exact); o != 0 {
		if o > 0 {
			return 1
		}
		return -1
	}
	switch {
	case a.d2 < b.d2:
		return -1
	case a.d2 > b.d2:
		return 1
	case a.Key < b.Key:
		return -1
	case a.Key > b.Key:
		return 1
	}
	return 0
}

// sortVertices sorts clockwise and links runs of collinear vertices
func (s *sweep) sortVertices() {
	sort.SliceStable(s.order, func(i, j int) bool {
		return s.compareVertices(s.order[i], s.order[j]) < 0
	})

	start := 0
	for i := range s.order {
		s.order[i].index = i
		if i == 0 {
			continue
		}
		prev, cur := s.order[i-1], s.order[i]
		if s.sameSector(prev, cur) && geom.Orient2D(s.origin, prev.exact, cur.exact) == 0 {
			continue
		}
		s.linkCollinear(s.order[start:i])
		start = i
	}
	if len(s.order) > 0 {
		s.linkCollinear(s.order[start:])
	}
}

func (s *sweep) linkCollinear(group []*PolygonVertex) {
	if len(group) < 2 {
		return
	}
	for _, v := range group {
		for _, o := range group {
			if o != v {
				v.collinear = append(v.collinear, o)
			}
		}
	}
}

// sweepVertices visits every vertex, or collinear batch, in clockwise order
func (s *sweep) sweepVertices() {
	for i := 0; i < len(s.order); {
		v := s.order[i]
		batch := s.order[i : i+1+len(v.collinear)]
		i += len(batch)

		for _, b := range batch {
			s.updateActiveEdges(b)
		}
		s.determineSweepResult(batch)
	}
}

// updateActiveEdges ends edges arriving from the counter-clockwise side and
// starts edges leaving clockwise
func (s *sweep) updateActiveEdges(v *PolygonVertex) {
	for _, e := range v.ccwEdges {
		if !v.hasCWEdge(e) {
			delete(s.active, e)
		}
	}
	for _, e := range v.cwEdges {
		if e.vertexA.visited && e.vertexB.visited {
			continue
		}
		s.active[e] = struct{}{}
	}
	v.visited = true
}

func incidentToBatch(e *sweepEdge, batch []*PolygonVertex) bool {
	for _, v := range batch {
		if e.incident(v) || v.hasEdge(e) {
			return true
		}
	}
	return false
}

// isBehindActiveEdges reports whether the nearest vertex of the batch is
// hidden by an active edge. One limited edge is a free pass; wasLimited
// reports that it was used.
func (s *sweep) isBehindActiveEdges(batch []*PolygonVertex) (behind, wasLimited bool) {
	target := batch[0]
	normal, limited := 0, 0
	for e := range s.active {
		if incidentToBatch(e, batch) {
			continue
		}
		if geom.Orient2D(e.vertexA.exact, e.vertexB.exact, target.exact) > 0 {
			if e.limited {
				limited++
			} else {
				normal++
			}
		}
	}
	return normal > 0 || limited > 1, limited == 1
}

func (s *sweep) determineSweepResult(batch []*PolygonVertex) {
	hasEdges := false
	for _, v := range batch {
		if len(v.edges) > 0 {
			hasEdges = true
			break
		}
	}
	if !hasEdges {
		return
	}

	behind, wasLimited := s.isBehindActiveEdges(batch)
	if behind {
		return
	}

	if len(batch) == 1 {
		v := batch[0]
		// limited on both sides: the boundary lies beyond this vertex
		if !wasLimited && v.cwLimited == 1 && v.cwNormal == 0 && v.ccwLimited == 1 && v.ccwNormal == 0 {
			return
		}
		// fully blocked on both sides: the boundary turns here
		if len(v.cwEdges) > 0 && len(v.ccwEdges) > 0 && v.cwLimited == 0 && v.ccwLimited == 0 {
			s.addPoint(v.exact)
			return
		}
	}

	s.switchEdge(batch)
}

// collision is a point where the switch-edge ray meets an edge
type collision struct {
	point      geom.Point
	d2         float64
	order      int
	cwNormal   int
	cwLimited  int
	ccwNormal  int
	ccwLimited int
}

// advance applies the edges met at one collision to one rotational side and
// reports whether that side is now blocked
func advance(limited *bool, nNormal, nLimited int) bool {
	if nNormal > 0 || nLimited > 1 {
		return true
	}
	if nLimited == 1 {
		if *limited {
			return true
		}
		*limited = true
	}
	return false
}

// switchEdge casts a ray through the batch and emits the point where the
// counter-clockwise side is first blocked followed by the point where the
// clockwise side is first blocked
func (s *sweep) switchEdge(batch []*PolygonVertex) {
	far := batch[len(batch)-1]
	ray := geom.RayTowardsPoint(s.origin, far.exact, s.cfg.rayDistance)
	if s.cfg.Debug {
		s.rays = append(s.rays, ray)
	}

	collisions := make([]collision, 0, len(batch)+len(s.active))
	for i, v := range batch {
		collisions = append(collisions, collision{
			point:      v.exact,
			d2:         v.d2,
			order:      i,
			cwNormal:   v.cwNormal,
			cwLimited:  v.cwLimited,
			ccwNormal:  v.ccwNormal,
			ccwLimited: v.ccwLimited,
		})
	}
	for e := range s.active {
		if incidentToBatch(e, batch) {
			continue
		}
		x, ok := geom.LineLineIntersection(ray.A, ray.B, e.vertexA.exact, e.vertexB.exact)
		if !ok || x.T0 <= 0 {
			continue
		}
		c := collision{
			point: x.Point,
			d2:    geom.DistanceSquared(s.origin, x.Point),
			order: len(batch) + e.index,
		}
		if e.limited {
			c.cwLimited, c.ccwLimited = 1, 1
		} else {
			c.cwNormal, c.ccwNormal = 1, 1
		}
		collisions = append(collisions, c)
	}
	sort.Slice(collisions, func(i, j int) bool {
		if collisions[i].d2 != collisions[j].d2 {
			return collisions[i].d2 < collisions[j].d2
		}
		return collisions[i].order < collisions[j].order
	})

	var ccwLimited, cwLimited, ccwBlocked, cwBlocked bool
	ccwPoint, cwPoint := ray.B, ray.B
	for _, c := range collisions {
		if !ccwBlocked && advance(&ccwLimited, c.ccwNormal, c.ccwLimited) {
			ccwBlocked = true
			ccwPoint = c.point
		}
		if !cwBlocked && advance(&cwLimited, c.cwNormal, c.cwLimited) {
			cwBlocked = true
			cwPoint = c.point
		}
		if ccwBlocked && cwBlocked {
			break
		}
	}

	s.addPoint(ccwPoint)
	s.addPoint(cwPoint)
}

func (s *sweep) addPoint(p geom.Point) {
	if n := len(s.points); n > 0 && s.points[n-1] == p {
		return
	}
	s.points = append(s.points, p)
}

// closePolygon drops a trailing point equal to the first
func (s *sweep) closePolygon() {
	for n := len(s.points); n > 1 && s.points[0] == s.points[n-1]; n = len(s.points) {
		s.points = s.points[:n-1]
	}
}
