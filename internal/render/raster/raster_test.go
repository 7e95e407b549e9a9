package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	scene  = geom.NewRectangle(0, 0, 100, 100)
	square = []geom.Point{{X: 10, Y: 10}, {X: 60, Y: 10}, {X: 60, Y: 60}, {X: 10, Y: 60}}
)

func TestRasterize(t *testing.T) {
	mask := Rasterize(square, scene, 1)
	assert.Equal(t, 100, mask.Bounds().Dx())
	assert.Equal(t, uint8(0xff), mask.AlphaAt(30, 30).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(80, 80).A)

	scaled := Rasterize(square, scene, 2)
	assert.Equal(t, 200, scaled.Bounds().Dx())
	assert.Equal(t, uint8(0xff), scaled.AlphaAt(100, 100).A)
	assert.Equal(t, uint8(0), scaled.AlphaAt(130, 130).A)

	empty := Rasterize(square[:2], scene, 1)
	assert.Equal(t, uint8(0), empty.AlphaAt(30, 30).A)
}

func TestRasterizeOffsetScene(t *testing.T) {
	offset := geom.NewRectangle(-50, -50, 100, 100)
	mask := Rasterize(square, offset, 1)
	assert.Equal(t, uint8(0xff), mask.AlphaAt(80, 80).A, "scene origin maps to the image origin")
	assert.Equal(t, uint8(0), mask.AlphaAt(30, 30).A)
}

func TestComposite(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	wall := walls.NewWall(geom.Pt(0, 90), geom.Pt(100, 90), walls.RestrictionNormal)

	img := Composite(scene, Options{WallWidth: 4}, []*walls.Edge{wall}, Layer{Points: square, Color: red})
	assert.Equal(t, red, img.NRGBAAt(30, 30))
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(80, 50))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(50, 90))
}

func TestEncodePNG(t *testing.T) {
	img := Composite(scene, Options{Scale: 0.5}, nil, Layer{Points: square, Color: color.White})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 50, decoded.Bounds().Dx())

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, SavePNG(path, img))
	assert.Error(t, SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"), img))
}

type closeFailer struct {
	bytes.Buffer
	err error
}

func (c *closeFailer) Close() error { return c.err }

func TestWriteAndCloseReportsCloseError(t *testing.T) {
	img := Composite(scene, Options{}, nil)

	ok := &closeFailer{}
	require.NoError(t, writeAndClose(ok, img))
	assert.NotZero(t, ok.Len())

	flushErr := errors.New("disk full")
	err := writeAndClose(&closeFailer{err: flushErr}, img)
	require.Error(t, err)
	assert.ErrorIs(t, err, flushErr)
}
