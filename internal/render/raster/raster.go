// Package raster draws visibility polygons into plain images for headless
// output.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/pkg/errors"
	"golang.org/x/image/vector"
)

// Layer is a filled polygon
type Layer struct {
	Points []geom.Point
	Color  color.Color
}

// Options controls how a scene is composited
type Options struct {
	Scale      float64 // Output pixels per scene pixel, 1 if unset
	Background color.Color
	WallColor  color.Color
	WallWidth  float64 // In output pixels
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// Size returns the output image size for a scene rectangle
func Size(scene geom.Rectangle, scale float64) (int, int) {
	return int(math.Ceil(scene.Width() * scale)), int(math.Ceil(scene.Height() * scale))
}

// transform maps scene coordinates onto the output image
func transform(scene geom.Rectangle, scale float64) func(geom.Point) (float32, float32) {
	return func(p geom.Point) (float32, float32) {
		return float32((p.X - scene.MinX) * scale), float32((p.Y - scene.MinY) * scale)
	}
}

// Rasterize returns the coverage mask of a polygon over the scene
func Rasterize(points []geom.Point, scene geom.Rectangle, scale float64) *image.Alpha {
	w, h := Size(scene, scale)
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if len(points) < 3 || w == 0 || h == 0 {
		return mask
	}

	at := transform(scene, scale)
	z := vector.NewRasterizer(w, h)
	z.MoveTo(at(points[0]))
	for _, p := range points[1:] {
		z.LineTo(at(p))
	}
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// strokeMask rasterizes a segment as a quad of the given width
func strokeMask(z *vector.Rasterizer, a, b geom.Point, width float64, at func(geom.Point) (float32, float32)) {
	ax, ay := at(a)
	bx, by := at(b)
	dx, dy := float64(bx-ax), float64(by-ay)
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := float32(-dy/l*width/2), float32(dx/l*width/2)
	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

// Composite draws the layers in order over the background and strokes the
// edges on top
func Composite(scene geom.Rectangle, opts Options, edges []*walls.Edge, layers ...Layer) *image.NRGBA {
	scale := opts.scale()
	w, h := Size(scene, scale)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for _, layer := range layers {
		mask := Rasterize(layer.Points, scene, scale)
		draw.DrawMask(img, img.Bounds(), image.NewUniform(layer.Color), image.Point{}, mask, image.Point{}, draw.Over)
	}

	if len(edges) > 0 && w > 0 && h > 0 {
		wallColor := opts.WallColor
		if wallColor == nil {
			wallColor = color.White
		}
		width := opts.WallWidth
		if width <= 0 {
			width = 2
		}
		at := transform(scene, scale)
		z := vector.NewRasterizer(w, h)
		for _, e := range edges {
			strokeMask(z, e.A, e.B, width, at)
		}
		mask := image.NewAlpha(img.Bounds())
		z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
		draw.DrawMask(img, img.Bounds(), image.NewUniform(wallColor), image.Point{}, mask, image.Point{}, draw.Over)
	}
	return img
}

// EncodePNG writes img as a PNG
func EncodePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encode png")
}

// SavePNG saves img to a PNG file
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	return errors.Wrapf(writeAndClose(f, img), "save %s", path)
}

// writeAndClose encodes img to w and closes it. A close error is returned
// when encoding succeeded, since it may mean buffered data was lost.
func writeAndClose(w io.WriteCloser, img image.Image) error {
	err := EncodePNG(w, img)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close png")
	}
	return err
}
