package server

import (
	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/core/walls"
	"chosenoffset.com/sightline/internal/simulation"
	"github.com/pkg/errors"
)

// ErrBadRequest marks client errors
var ErrBadRequest = errors.New("bad request")

// PolygonRequest asks for the visibility polygon at Origin
type PolygonRequest struct {
	Origin           geom.Point  `json:"origin"`
	Type             walls.Sense `json:"type"`
	Radius           *float64    `json:"radius,omitempty"`
	Angle            float64     `json:"angle,omitempty"`
	Rotation         float64     `json:"rotation,omitempty"`
	UseThreshold     bool        `json:"use_threshold,omitempty"`
	ExternalRadius   float64     `json:"external_radius,omitempty"`
	WallDirection    string      `json:"wall_direction,omitempty"`
	DarknessPriority *int        `json:"darkness_priority,omitempty"`
	Debug            bool        `json:"debug,omitempty"`
}

// Config converts the request into a polygon configuration
func (r PolygonRequest) Config() (shadows.Config, error) {
	mode, err := simulation.ParseWallDirection(r.WallDirection)
	if err != nil {
		return shadows.Config{}, errors.Wrap(ErrBadRequest, err.Error())
	}
	opts := []shadows.Option{
		shadows.WithThreshold(r.UseThreshold),
		shadows.WithExternalRadius(r.ExternalRadius),
		shadows.WithWallDirection(mode),
		shadows.WithRotation(r.Rotation),
	}
	if r.Radius != nil {
		opts = append(opts, shadows.WithRadius(*r.Radius))
	}
	if r.Angle != 0 {
		opts = append(opts, shadows.WithAngle(r.Angle))
	}
	if r.DarknessPriority != nil {
		opts = append(opts, shadows.WithDarkness(*r.DarknessPriority))
	}
	if r.Debug {
		opts = append(opts, shadows.WithDebug())
	}
	return shadows.NewConfig(r.Type, opts...), nil
}

// Segment is a ray cast during the sweep
type Segment struct {
	A geom.Point `json:"a"`
	B geom.Point `json:"b"`
}

// PolygonResponse carries a computed polygon
type PolygonResponse struct {
	Origin geom.Point     `json:"origin"`
	Type   walls.Sense    `json:"type"`
	Points []geom.Point   `json:"points"`
	Bounds geom.Rectangle `json:"bounds"`
	Area   float64        `json:"area"`
	Rays   []Segment      `json:"rays,omitempty"`
}

// NewPolygonResponse converts a computed polygon for the wire
func NewPolygonResponse(res *shadows.Result) PolygonResponse {
	resp := PolygonResponse{
		Origin: res.Origin,
		Type:   res.Config.Type,
		Points: res.Points(),
		Bounds: res.Bounds(),
		Area:   res.Area(),
	}
	if resp.Points == nil {
		resp.Points = []geom.Point{}
	}
	for _, r := range res.Rays {
		resp.Rays = append(resp.Rays, Segment{A: r.A, B: r.B})
	}
	return resp
}

// CollisionRequest tests the segment Origin -> Destination
type CollisionRequest struct {
	Origin        geom.Point            `json:"origin"`
	Destination   geom.Point            `json:"destination"`
	Type          walls.Sense           `json:"type"`
	Mode          shadows.CollisionMode `json:"mode"`
	UseThreshold  bool                  `json:"use_threshold,omitempty"`
	WallDirection string                `json:"wall_direction,omitempty"`
}

// Config converts the request into a collision configuration
func (r CollisionRequest) Config() (shadows.CollisionConfig, error) {
	mode, err := simulation.ParseWallDirection(r.WallDirection)
	if err != nil {
		return shadows.CollisionConfig{}, errors.Wrap(ErrBadRequest, err.Error())
	}
	cm := r.Mode
	if cm == "" {
		cm = shadows.CollisionAny
	}
	return shadows.CollisionConfig{
		Type:              r.Type,
		Mode:              cm,
		UseThreshold:      r.UseThreshold,
		WallDirectionMode: mode,
	}, nil
}

// CollisionResponse carries the outcome of a collision query
type CollisionResponse struct {
	Hit     bool         `json:"hit"`
	Points  []geom.Point `json:"points,omitempty"`
	Closest *geom.Point  `json:"closest,omitempty"`
}

// NewCollisionResponse converts a collision result for the wire
func NewCollisionResponse(res shadows.CollisionResult) CollisionResponse {
	resp := CollisionResponse{Hit: res.Hit}
	for _, v := range res.Vertices {
		resp.Points = append(resp.Points, v.Point())
	}
	if res.Closest != nil {
		p := res.Closest.Point()
		resp.Closest = &p
	}
	return resp
}

// SceneResponse describes the loaded scene
type SceneResponse struct {
	Name      string         `json:"name"`
	SceneRect geom.Rectangle `json:"scene_rect"`
	InnerRect geom.Rectangle `json:"inner_rect"`
	Walls     []*walls.Edge  `json:"walls"`
}

// ErrorResponse is returned for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}
