package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/core/walls"
	"chosenoffset.com/sightline/internal/render"
	"chosenoffset.com/sightline/internal/render/lighting"
	"chosenoffset.com/sightline/internal/simulation"
	"chosenoffset.com/sightline/internal/world/maploader"
	"chosenoffset.com/sightline/internal/world/scenescan"
	"github.com/pkg/errors"
)

var errQuit = errors.New("quit")

const (
	moveSpeed  = 3.0
	turnSpeed  = 3.0
	viewerSize = 6
)

// radii are the sense radii cycled with R, in tiles. Zero is unlimited.
var radii = []float64{0, 3, 6, 10}

var senseKeys = []struct {
	key   render.Key
	sense walls.Sense
}{
	{render.Key1, walls.SenseSight},
	{render.Key2, walls.SenseLight},
	{render.Key3, walls.SenseSound},
	{render.Key4, walls.SenseMove},
	{render.Key5, walls.SenseUniversal},
}

var (
	backgroundColor = color.RGBA{12, 12, 18, 255}
	polygonColor    = color.RGBA{240, 220, 140, 90}
	lightColor      = color.RGBA{255, 200, 120, 40}
	rayColor        = color.RGBA{80, 200, 255, 160}
	hitColor        = color.RGBA{255, 60, 60, 255}
	clearColor      = color.RGBA{60, 255, 120, 255}
	viewerColor     = color.RGBA{255, 255, 255, 255}
)

// wallColors maps a restriction to its wall color
var wallColors = map[walls.Restriction]color.RGBA{
	walls.RestrictionNone:      {70, 70, 70, 255},
	walls.RestrictionLimited:   {120, 170, 255, 255},
	walls.RestrictionNormal:    {230, 230, 230, 255},
	walls.RestrictionProximity: {255, 160, 60, 255},
	walls.RestrictionDistance:  {200, 90, 255, 255},
}

type viewer struct {
	renderer render.Renderer
	input    render.InputManager
	scenes   []scenescan.SceneEntry
	sceneIdx int
	scene    *maploader.Map
	store    *walls.Store
	rules    *simulation.Config
	lights   *lighting.Manager

	width, height int
	tileSize      float64

	pos          geom.Point
	rotation     float64
	sense        walls.Sense
	radiusIdx    int
	useThreshold bool
	debug        bool

	dirty     bool
	result    *shadows.Result
	cursor    geom.Point
	collision shadows.CollisionResult
}

func newViewer(r render.Renderer, input render.InputManager, rules *simulation.Config, scenes []scenescan.SceneEntry) *viewer {
	return &viewer{
		renderer:     r,
		input:        input,
		scenes:       scenes,
		rules:        rules,
		sense:        walls.SenseSight,
		useThreshold: rules.Perception.UseThresholds,
	}
}

// loadScene switches to the scene at index i and places the viewer at its
// spawn point
func (v *viewer) loadScene(i int) error {
	entry := v.scenes[i]
	scene, err := maploader.LoadMap(entry.Path)
	if err != nil {
		return err
	}
	store, err := scene.BuildStore()
	if err != nil {
		return err
	}

	tileSize := float64(scene.Data.TileSize)
	lights := lighting.NewManager(v.rules, tileSize)
	for _, l := range scene.Data.Lights {
		if _, err := lights.AddSceneLight(l); err != nil {
			log.Printf("Warning: skipping light %s in %s: %v", l.ID, entry.Name, err)
		}
	}

	viewerLightOn := v.lights != nil && v.lights.IsViewerLightOn()
	rect := scene.SceneRect()
	v.sceneIdx = i
	v.scene = scene
	v.store = store
	v.lights = lights
	v.tileSize = tileSize
	v.width = int(math.Ceil(rect.Width()))
	v.height = int(math.Ceil(rect.Height()))
	v.pos = scene.Spawn()
	v.dirty = true

	lights.SetViewerLight(v.pos.X, v.pos.Y, 0, v.rules.Lighting.DefaultIntensity, color.NRGBA{255, 220, 160, 255})
	lights.EnableViewerLight(viewerLightOn)

	log.Printf("Loaded scene %s: %d walls, %d lights", entry.Name, store.Len(), len(scene.Data.Lights))
	return nil
}

// config builds the polygon configuration for the selected sense
func (v *viewer) config() shadows.Config {
	var cfg shadows.Config
	switch v.sense {
	case walls.SenseSight:
		cfg = v.rules.VisionConfig(v.tileSize, v.rotation)
	case walls.SenseSound:
		cfg = v.rules.HearingConfig(v.tileSize)
	case walls.SenseLight:
		cfg = v.rules.LightConfig(v.tileSize, 0, 0, v.rotation)
	default:
		cfg = shadows.NewConfig(v.sense)
	}
	opts := []shadows.Option{shadows.WithThreshold(v.useThreshold)}
	if r := radii[v.radiusIdx]; r > 0 {
		opts = append(opts, shadows.WithRadius(r*v.tileSize))
	}
	if v.debug {
		opts = append(opts, shadows.WithDebug())
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (v *viewer) Update() error {
	if v.input.IsKeyJustPressed(render.KeyEscape) {
		return errQuit
	}

	v.handleMovement()
	v.handleToggles()

	cx, cy := v.input.GetCursorPosition()
	cursor := geom.Pt(float64(cx), float64(cy))
	if cursor != v.cursor {
		v.cursor = cursor
		v.dirty = true
	}

	if v.dirty {
		if err := v.refresh(); err != nil {
			return err
		}
		v.dirty = false
	}
	return nil
}

func (v *viewer) handleMovement() {
	var dx, dy float64
	if v.input.IsKeyPressed(render.KeyW) || v.input.IsKeyPressed(render.KeyUp) {
		dy -= moveSpeed
	}
	if v.input.IsKeyPressed(render.KeyS) || v.input.IsKeyPressed(render.KeyDown) {
		dy += moveSpeed
	}
	if v.input.IsKeyPressed(render.KeyA) || v.input.IsKeyPressed(render.KeyLeft) {
		dx -= moveSpeed
	}
	if v.input.IsKeyPressed(render.KeyD) || v.input.IsKeyPressed(render.KeyRight) {
		dx += moveSpeed
	}
	if v.input.IsKeyPressed(render.KeyQ) {
		v.rotation = math.Mod(v.rotation+turnSpeed, 360)
		v.dirty = true
	}
	if v.input.IsKeyPressed(render.KeyE) {
		v.rotation = math.Mod(v.rotation-turnSpeed+360, 360)
		v.dirty = true
	}
	if dx == 0 && dy == 0 {
		return
	}

	next := geom.Pt(v.pos.X+dx, v.pos.Y+dy)
	if !v.scene.SceneRect().ContainsStrict(next) {
		return
	}
	res, err := shadows.TestCollision(v.store.Snapshot(), v.pos, next, v.rules.MovementCollision())
	if err != nil {
		log.Printf("movement collision failed: %v", err)
		return
	}
	if res.Hit {
		return
	}
	v.pos = next
	v.lights.UpdateViewerLightPosition(next.X, next.Y)
	v.dirty = true
}

func (v *viewer) handleToggles() {
	for _, sk := range senseKeys {
		if v.input.IsKeyJustPressed(sk.key) && v.sense != sk.sense {
			v.sense = sk.sense
			v.dirty = true
		}
	}
	if v.input.IsKeyJustPressed(render.KeyR) {
		v.radiusIdx = (v.radiusIdx + 1) % len(radii)
		v.dirty = true
	}
	if v.input.IsKeyJustPressed(render.KeyT) {
		v.useThreshold = !v.useThreshold
		v.dirty = true
	}
	if v.input.IsKeyJustPressed(render.KeyV) {
		v.debug = !v.debug
		v.dirty = true
	}
	if v.input.IsKeyJustPressed(render.KeySpace) && len(v.scenes) > 1 {
		next := (v.sceneIdx + 1) % len(v.scenes)
		if err := v.loadScene(next); err != nil {
			log.Printf("Failed to load scene %s: %v", v.scenes[next].Name, err)
		}
	}
	if v.input.IsKeyJustPressed(render.KeyL) {
		v.lights.EnableViewerLight(!v.lights.IsViewerLightOn())
		v.dirty = true
	}
}

// refresh recomputes the viewer polygon, the light polygons and the
// collision test towards the cursor
func (v *viewer) refresh() error {
	snap := v.store.Snapshot()

	res, err := shadows.Compute(snap, v.pos, v.config())
	if err != nil {
		return errors.Wrap(err, "viewer polygon")
	}
	v.result = res

	if err := v.lights.Refresh(context.Background(), snap); err != nil {
		return errors.Wrap(err, "light polygons")
	}

	sense := v.sense
	if sense == walls.SenseUniversal {
		sense = walls.SenseMove
	}
	v.collision, err = shadows.TestCollision(snap, v.pos, v.cursor, shadows.CollisionConfig{
		Type:         sense,
		Mode:         shadows.CollisionClosest,
		UseThreshold: v.useThreshold,
	})
	return errors.Wrap(err, "cursor collision")
}

func (v *viewer) Draw(screen render.Image) {
	screen.Fill(backgroundColor)

	for _, light := range v.lights.GetAllLights() {
		if res, ok := v.lights.Polygon(light.ID); ok && !res.Empty() {
			v.renderer.FillStarPolygon(screen, res.Origin, res.Points(), lightColor)
		}
	}

	if v.result != nil && !v.result.Empty() {
		v.renderer.FillStarPolygon(screen, v.pos, v.result.Points(), polygonColor)
		v.renderer.StrokePolygon(screen, v.result.Points(), 1, polygonColor)
		for _, ray := range v.result.Rays {
			v.renderer.StrokeLine(screen, ray.A, ray.B, 1, rayColor)
		}
	}

	for _, e := range v.store.Edges() {
		clr, ok := wallColors[e.Restriction(v.sense)]
		if !ok || v.sense == walls.SenseUniversal {
			clr = wallColors[walls.RestrictionNormal]
		}
		v.renderer.StrokeLine(screen, e.A, e.B, 2, clr)
	}

	v.drawCollision(screen)
	v.renderer.FillCircle(screen, float32(v.pos.X), float32(v.pos.Y), viewerSize, viewerColor)
	v.drawHUD(screen)
}

func (v *viewer) drawCollision(screen render.Image) {
	if !v.collision.Hit || v.collision.Closest == nil {
		v.renderer.StrokeLine(screen, v.pos, v.cursor, 1, clearColor)
		return
	}
	hit := v.collision.Closest.Point()
	v.renderer.StrokeLine(screen, v.pos, hit, 1, hitColor)
	v.renderer.StrokeCircle(screen, float32(hit.X), float32(hit.Y), 4, 1, hitColor)
}

func (v *viewer) drawHUD(screen render.Image) {
	radius := "unlimited"
	if r := radii[v.radiusIdx]; r > 0 {
		radius = fmt.Sprintf("%.0f tiles", r)
	}
	area := 0.0
	if v.result != nil {
		area = v.result.Area()
	}
	lines := []string{
		fmt.Sprintf("scene: %s  sense: %s  radius: %s  rotation: %.0f", v.scenes[v.sceneIdx].Name, v.sense, radius, v.rotation),
		fmt.Sprintf("thresholds: %t  rays: %t  light: %t", v.useThreshold, v.debug, v.lights.IsViewerLightOn()),
		fmt.Sprintf("area: %.0f  light level: %.2f", area, v.lights.LightLevel(v.cursor)),
		"WASD move  Q/E rotate  1-5 sense  R radius  T thresholds  V rays  L light  Space next scene",
	}
	for i, line := range lines {
		v.renderer.DrawText(screen, line, 8, 8+i*16, viewerColor, 1)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}
