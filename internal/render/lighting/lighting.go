package lighting

import (
	"context"
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/core/walls"
	"chosenoffset.com/sightline/internal/simulation"
	"chosenoffset.com/sightline/internal/world/maploader"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ViewerLightID is the ID of the light carried by the viewer
const ViewerLightID = "viewer"

// LightSource represents a single light source in the scene
type LightSource struct {
	ID        string
	X         float64     // Canvas X position (in pixels)
	Y         float64     // Canvas Y position (in pixels)
	Radius    float64     // Light radius (in pixels), 0 uses the rules default
	Angle     float64     // Cone width in degrees, 0 is a full circle
	Rotation  float64     // Cone direction in degrees
	Intensity float64     // Light intensity (0.0 to 1.0)
	Color     color.NRGBA // Light color
	Sense     walls.Sense // Occlusion channel, light unless set
}

// Origin returns the light position
func (l LightSource) Origin() geom.Point {
	return geom.Pt(l.X, l.Y)
}

// Manager handles all light sources in the scene and their polygons
type Manager struct {
	mu            sync.RWMutex
	rules         *simulation.Config
	tileSize      float64
	ambientLight  float64 // Global ambient light level (0.0 = pitch black, 1.0 = fully lit)
	viewerLight   *LightSource
	viewerLightOn bool
	sceneLights   map[string]*LightSource
	polygons      map[string]*shadows.Result
}

// NewManager creates a new lighting manager
func NewManager(rules *simulation.Config, tileSize float64) *Manager {
	if rules == nil {
		rules = simulation.DefaultConfig()
	}
	return &Manager{
		rules:        rules,
		tileSize:     tileSize,
		ambientLight: 0.15,
		sceneLights:  make(map[string]*LightSource),
		polygons:     make(map[string]*shadows.Result),
	}
}

// SetAmbientLight sets the global ambient light level
func (m *Manager) SetAmbientLight(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ambientLight = level
}

// GetAmbientLight returns the current ambient light level
func (m *Manager) GetAmbientLight() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ambientLight
}

// SetViewerLight configures the viewer's light source
func (m *Manager) SetViewerLight(x, y, radius, intensity float64, col color.NRGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewerLight = &LightSource{
		ID:        ViewerLightID,
		X:         x,
		Y:         y,
		Radius:    radius,
		Intensity: intensity,
		Color:     col,
		Sense:     walls.SenseLight,
	}
}

// EnableViewerLight turns on/off the viewer's light source
func (m *Manager) EnableViewerLight(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewerLightOn = enabled
	if !enabled {
		delete(m.polygons, ViewerLightID)
	}
}

// IsViewerLightOn returns whether the viewer's light is currently on
func (m *Manager) IsViewerLightOn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewerLightOn
}

// UpdateViewerLightPosition moves the viewer's light (called each frame)
func (m *Manager) UpdateViewerLightPosition(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.viewerLight != nil {
		m.viewerLight.X = x
		m.viewerLight.Y = y
	}
}

// AddLight registers a scene light and returns its ID
func (m *Manager) AddLight(light LightSource) string {
	if light.ID == "" {
		light.ID = uuid.NewString()
	}
	if light.Sense == "" {
		light.Sense = walls.SenseLight
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sceneLights[light.ID] = &light
	return light.ID
}

// AddSceneLight adds a light declared in a scene file
func (m *Manager) AddSceneLight(data maploader.LightData) (string, error) {
	// Default to warm torch light
	lightColor := color.NRGBA{R: 255, G: 200, B: 100, A: 255}
	if data.Color != "" {
		c, err := ParseColor(data.Color)
		if err != nil {
			return "", errors.Wrapf(err, "light %s", data.ID)
		}
		lightColor = c
	}
	intensity := data.Intensity
	if intensity == 0 {
		intensity = m.rules.Lighting.DefaultIntensity
	}
	return m.AddLight(LightSource{
		ID:        data.ID,
		X:         data.X,
		Y:         data.Y,
		Radius:    data.Radius,
		Angle:     data.Angle,
		Rotation:  data.Rotation,
		Intensity: intensity,
		Color:     lightColor,
		Sense:     data.Sense,
	}), nil
}

// ParseColor parses a "#RRGGBB" or "RRGGBB" hex color
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, errors.Errorf("invalid color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// RemoveLight removes a scene light
func (m *Manager) RemoveLight(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sceneLights, id)
	delete(m.polygons, id)
}

// GetAllLights returns all active light sources, the viewer light first and
// the rest ordered by ID
func (m *Manager) GetAllLights() []LightSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeLights()
}

func (m *Manager) activeLights() []LightSource {
	lights := make([]LightSource, 0, len(m.sceneLights)+1)

	if m.viewerLightOn && m.viewerLight != nil {
		lights = append(lights, *m.viewerLight)
	}

	scene := make([]LightSource, 0, len(m.sceneLights))
	for _, light := range m.sceneLights {
		scene = append(scene, *light)
	}
	sort.Slice(scene, func(i, j int) bool { return scene[i].ID < scene[j].ID })

	return append(lights, scene...)
}

// ClearSceneLights removes all scene lights (called when loading a new scene)
func (m *Manager) ClearSceneLights() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sceneLights = make(map[string]*LightSource)
	m.polygons = make(map[string]*shadows.Result)
}

// Refresh recomputes the polygon of every active light against snap. The
// computations run in parallel, bounded by the configured worker count.
func (m *Manager) Refresh(ctx context.Context, snap *walls.Snapshot) error {
	lights := m.GetAllLights()
	results := make([]*shadows.Result, len(lights))

	g, ctx := errgroup.WithContext(ctx)
	if w := m.rules.Lighting.Workers; w > 0 {
		g.SetLimit(w)
	}
	for i, light := range lights {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := m.rules.LightConfig(m.tileSize, light.Radius, light.Angle, light.Rotation)
			if light.Sense != "" {
				cfg.Type = light.Sense
			}
			res, err := shadows.Compute(snap, light.Origin(), cfg)
			if err != nil {
				return errors.Wrapf(err, "light %s", light.ID)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	polygons := make(map[string]*shadows.Result, len(lights))
	for i, light := range lights {
		polygons[light.ID] = results[i]
	}
	m.mu.Lock()
	m.polygons = polygons
	m.mu.Unlock()
	return nil
}

// Polygon returns the last computed polygon for a light
func (m *Manager) Polygon(id string) (*shadows.Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.polygons[id]
	return res, ok
}

// LightLevel returns the brightest intensity reaching p, never below the
// ambient level
func (m *Manager) LightLevel(p geom.Point) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	level := m.ambientLight
	for _, light := range m.activeLights() {
		res, ok := m.polygons[light.ID]
		if !ok || res.Empty() || !res.Contains(p) {
			continue
		}
		level = max(level, light.Intensity)
	}
	return level
}
