package render

import (
	"image/color"
	"testing"

	"chosenoffset.com/sightline/internal/core/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanVertices(t *testing.T) {
	square := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	vertices, indices := FanVertices(geom.Pt(5, 5), square, color.NRGBA{R: 255, A: 128})

	require.Len(t, vertices, 5)
	assert.Equal(t, float32(5), vertices[0].DstX)
	assert.Equal(t, float32(10), vertices[2].DstX)
	assert.InDelta(t, 128.0/255, vertices[1].ColorA, 1e-3)
	assert.InDelta(t, vertices[1].ColorA, vertices[1].ColorR, 1e-3, "premultiplied")

	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 1}, indices)
}

func TestFanVerticesDegenerate(t *testing.T) {
	v, i := FanVertices(geom.Pt(0, 0), []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, color.White)
	assert.Nil(t, v)
	assert.Nil(t, i)
}
