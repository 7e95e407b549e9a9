// Command sightdump computes one visibility polygon for a scene and writes
// it as JSON and optionally as a PNG.
package main

import (
	"encoding/json"
	"flag"
	"image/color"
	"log"
	"os"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/core/walls"
	"chosenoffset.com/sightline/internal/render/raster"
	"chosenoffset.com/sightline/internal/server"
	"chosenoffset.com/sightline/internal/simulation"
	"chosenoffset.com/sightline/internal/world/maploader"
	"github.com/pkg/errors"
)

func main() {
	scenePath := flag.String("scene", "data/scenes/crypt.json", "scene file to load")
	rulesPath := flag.String("rules", "data/rules.yaml", "perception rules file")
	x := flag.Float64("x", -1, "origin x, the scene spawn if negative")
	y := flag.Float64("y", -1, "origin y, the scene spawn if negative")
	sense := flag.String("type", "sight", "sense: light, sight, sound, move or universal")
	radius := flag.Float64("radius", 0, "radius in pixels, 0 is unlimited")
	angle := flag.Float64("angle", 360, "cone width in degrees")
	rotation := flag.Float64("rotation", 0, "cone direction in degrees, 0 faces down")
	threshold := flag.Bool("threshold", false, "apply proximity and distance walls")
	debug := flag.Bool("debug", false, "include sweep rays")
	pngPath := flag.String("png", "", "write a PNG of the polygon to this path")
	scale := flag.Float64("scale", 1, "PNG pixels per scene pixel")
	jsonPath := flag.String("json", "-", "write the polygon JSON to this path, - for stdout")
	flag.Parse()

	if err := run(dumpOptions{
		scenePath: *scenePath,
		rulesPath: *rulesPath,
		x:         *x,
		y:         *y,
		sense:     *sense,
		radius:    *radius,
		angle:     *angle,
		rotation:  *rotation,
		threshold: *threshold,
		debug:     *debug,
		pngPath:   *pngPath,
		scale:     *scale,
		jsonPath:  *jsonPath,
	}); err != nil {
		log.Fatal(err)
	}
}

type dumpOptions struct {
	scenePath, rulesPath string
	x, y                 float64
	sense                string
	radius               float64
	angle, rotation      float64
	threshold, debug     bool
	pngPath              string
	scale                float64
	jsonPath             string
}

func run(o dumpOptions) error {
	rules, err := simulation.LoadConfig(o.rulesPath)
	if err != nil {
		return err
	}
	scene, err := maploader.LoadMap(o.scenePath)
	if err != nil {
		return err
	}
	store, err := scene.BuildStore()
	if err != nil {
		return err
	}

	origin := scene.Spawn()
	if o.x >= 0 && o.y >= 0 {
		origin = geom.Pt(o.x, o.y)
	}

	req := server.PolygonRequest{
		Origin:         origin,
		Type:           walls.Sense(o.sense),
		Angle:          o.angle,
		Rotation:       o.rotation,
		UseThreshold:   o.threshold,
		ExternalRadius: rules.Perception.ExternalRadius,
		WallDirection:  rules.Perception.WallDirection,
		Debug:          o.debug,
	}
	if o.radius > 0 {
		req.Radius = &o.radius
	}
	cfg, err := req.Config()
	if err != nil {
		return err
	}
	shadows.WithAttenuationMultiplier(rules.Perception.AttenuationMultiplier)(&cfg)

	res, err := shadows.Compute(store.Snapshot(), origin, cfg)
	if err != nil {
		return err
	}
	log.Printf("%s polygon at (%.1f, %.1f): %d points, area %.1f", cfg.Type, origin.X, origin.Y, res.Len(), res.Area())

	if err := writeJSON(o.jsonPath, server.NewPolygonResponse(res)); err != nil {
		return err
	}
	if o.pngPath == "" {
		return nil
	}

	img := raster.Composite(scene.SceneRect(), raster.Options{
		Scale:      o.scale,
		Background: color.NRGBA{16, 16, 24, 255},
		WallColor:  color.NRGBA{230, 230, 230, 255},
	}, store.Edges(), raster.Layer{
		Points: res.Points(),
		Color:  color.NRGBA{240, 220, 140, 160},
	})
	if err := raster.SavePNG(o.pngPath, img); err != nil {
		return err
	}
	log.Printf("wrote %s", o.pngPath)
	return nil
}

func writeJSON(path string, v interface{}) error {
	out := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "create %s", path)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode polygon")
}
