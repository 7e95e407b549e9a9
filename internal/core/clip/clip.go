// Package clip performs boolean operations on closed point loops.
package clip

import (
	"math"

	"chosenoffset.com/sightline/internal/core/geom"
	polyclip "github.com/akavel/polyclip-go"
	"github.com/pkg/errors"
)

// ErrClipFailed wraps failures inside the clipping library
var ErrClipFailed = errors.New("polygon clipping failed")

// Clipper combines sets of closed loops. Results are normalized so that
// every loop runs clockwise on screen.
type Clipper interface {
	Intersect(subject, clipping [][]geom.Point) ([][]geom.Point, error)
	Union(subject, clipping [][]geom.Point) ([][]geom.Point, error)
	Difference(subject, clipping [][]geom.Point) ([][]geom.Point, error)
}

// Polyclip implements Clipper with the Martinez algorithm from polyclip-go
type Polyclip struct{}

// Default is the clipper used when none is configured
var Default Clipper = Polyclip{}

// Intersect returns the region covered by both subject and clipping
func (Polyclip) Intersect(subject, clipping [][]geom.Point) ([][]geom.Point, error) {
	return construct(polyclip.INTERSECTION, subject, clipping)
}

// Union returns the region covered by either input
func (Polyclip) Union(subject, clipping [][]geom.Point) ([][]geom.Point, error) {
	return construct(polyclip.UNION, subject, clipping)
}

// Difference returns the part of subject outside clipping
func (Polyclip) Difference(subject, clipping [][]geom.Point) ([][]geom.Point, error) {
	return construct(polyclip.DIFFERENCE, subject, clipping)
}

func construct(op polyclip.Op, subject, clipping [][]geom.Point) (out [][]geom.Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.Wrapf(ErrClipFailed, "%v", r)
		}
	}()

	result := toPolygon(subject).Construct(op, toPolygon(clipping))
	out = make([][]geom.Point, 0, len(result))
	for _, contour := range result {
		if len(contour) < 3 {
			continue
		}
		loop := make([]geom.Point, len(contour))
		for i, p := range contour {
			loop[i] = geom.Point{X: p.X, Y: p.Y}
		}
		out = append(out, geom.Clockwise(loop))
	}
	return out, nil
}

func toPolygon(loops [][]geom.Point) polyclip.Polygon {
	poly := make(polyclip.Polygon, 0, len(loops))
	for _, loop := range loops {
		if len(loop) < 3 {
			continue
		}
		contour := make(polyclip.Contour, len(loop))
		for i, p := range loop {
			contour[i] = polyclip.Point{X: p.X, Y: p.Y}
		}
		poly = append(poly, contour)
	}
	return poly
}

// Largest returns the loop with the greatest absolute area, or nil
func Largest(loops [][]geom.Point) []geom.Point {
	var best []geom.Point
	bestArea := 0.0
	for _, loop := range loops {
		a := math.Abs(geom.SignedArea(loop))
		if a > bestArea {
			best, bestArea = loop, a
		}
	}
	return best
}

// SnapTolerance is how close a coordinate must be to a whole pixel before
// Clean snaps it, and how close two points must be to count as one
const SnapTolerance = 1e-9

// Clean prepares a loop for clipping. It snaps coordinates lying within
// SnapTolerance of a whole pixel and drops consecutive duplicates and
// collinear points. A loop left with fewer than three points returns nil.
func Clean(loop []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(loop))
	for _, p := range loop {
		p = geom.Pt(snap(p.X), snap(p.Y))
		if n := len(out); n > 0 && coincident(out[n-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && coincident(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}

	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if collinear(prev, out[i], next) {
				out = append(out[:i], out[i+1:]...)
				changed = true
				continue
			}
			i++
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < SnapTolerance {
		return r
	}
	return v
}

func coincident(a, b geom.Point) bool {
	return geom.DistanceSquared(a, b) < SnapTolerance*SnapTolerance
}

// collinear compares the sine of the turn at b against SnapTolerance
func collinear(a, b, c geom.Point) bool {
	cross := math.Abs(geom.Orient2D(a, b, c))
	return cross <= SnapTolerance*geom.Distance(a, b)*geom.Distance(b, c)
}
