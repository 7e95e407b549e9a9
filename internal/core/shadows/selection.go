package shadows

import (
	"sort"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
)

// edgePriority classifies an edge: 2 is always kept, 1 is kept when it
// touches the bounding box and 0 is dropped.
func edgePriority(e *walls.Edge, cfg *Config) int {
	switch e.Type {
	case cfg.boundaryType():
		return 2
	case walls.TypeWall:
		if cfg.Type == walls.SenseUniversal {
			return 0
		}
		return 1
	case walls.TypeDarkness:
		if cfg.IncludeDarkness && e.Priority >= cfg.Priority {
			return 1
		}
	}
	return 0
}

// selectEdges picks the snapshot edges that can affect a computation at
// origin. With ignorePassable set, threshold edges the origin can see past
// are dropped even when they attenuate.
func selectEdges(snap *walls.Snapshot, origin geom.Point, cfg *Config, ignorePassable bool) []*sweepEdge {
	bounds := cfg.boundingBox

	seen := make(map[*walls.Edge]bool)
	var candidates []*walls.Edge
	for _, e := range snap.Boundaries(cfg.boundaryType()) {
		seen[e] = true
		candidates = append(candidates, e)
	}
	for _, e := range snap.Search(bounds) {
		if !seen[e] {
			seen[e] = true
			candidates = append(candidates, e)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return snap.Order(candidates[i]) < snap.Order(candidates[j])
	})

	var out []*sweepEdge
	for _, e := range candidates {
		switch edgePriority(e, cfg) {
		case 0:
			continue
		case 1:
			if !bounds.SegmentIntersects(e.A, e.B, true) {
				continue
			}
		}

		r := e.Restriction(cfg.Type)
		if r == walls.RestrictionNone {
			continue
		}
		if geom.Orient2D(e.A, e.B, origin) == 0 {
			continue
		}
		if e.Direction != walls.DirectionBoth && cfg.WallDirectionMode != WallDirectionBoth {
			side := e.OrientPoint(origin)
			if (cfg.WallDirectionMode == WallDirectionNormal) == (side == e.Direction) {
				continue
			}
		}

		passable := false
		if cfg.UseThreshold && e.ThresholdPassable(cfg.Type, origin, cfg.ExternalRadius) {
			if ignorePassable || !e.Threshold.Attenuation {
				continue
			}
			passable = true
		}

		out = append(out, &sweepEdge{
			Edge:     e,
			index:    len(out),
			limited:  r == walls.RestrictionLimited,
			passable: passable,
		})
	}
	return out
}
