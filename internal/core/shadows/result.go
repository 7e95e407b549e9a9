package shadows

import (
	"chosenoffset.com/sightline/internal/core/geom"
)

// Result is a computed visibility polygon
type Result struct {
	*geom.Polygon
	Origin geom.Point
	Config Config
	// Rays holds the switch-edge rays when the config has Debug set
	Rays []*geom.Ray
}

func emptyResult(origin geom.Point, cfg Config) *Result {
	return &Result{
		Polygon: geom.NewPolygon(nil),
		Origin:  origin,
		Config:  cfg,
	}
}

// Empty reports whether the polygon has no area
func (r *Result) Empty() bool {
	return r.Len() < 3
}
