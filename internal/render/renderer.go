package render

import (
	"image"
	"image/color"

	"chosenoffset.com/sightline/internal/core/geom"
)

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// viewer logic.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)
	StrokeLine(dst Image, a, b geom.Point, strokeWidth float32, clr color.Color)
	StrokePolygon(dst Image, points []geom.Point, strokeWidth float32, clr color.Color)

	// FillStarPolygon fills a polygon that every point of can be seen from
	// center, such as a visibility polygon and its origin
	FillStarPolygon(dst Image, center geom.Point, points []geom.Point, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
// It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, opts *DrawTrianglesOptions)

	// Resource management
	Dispose()
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM GeoM
	// Alpha scales the source alpha; zero draws opaque
	Alpha float32
}

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	// Translate shifts the image by (tx, ty).
	Translate(tx, ty float64)

	// Scale scales the image by (sx, sy).
	Scale(sx, sy float64)

	// Reset resets the matrix to identity.
	Reset()
}

// NewGeoM creates a new geometric transformation matrix.
// This is implemented by the specific renderer backend.
var NewGeoM func() GeoM

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
}

// Vertex represents a vertex for solid-color triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// FanVertices triangulates a star-shaped polygon as a fan around center.
// Colors are premultiplied.
func FanVertices(center geom.Point, points []geom.Point, clr color.Color) ([]Vertex, []uint16) {
	if len(points) < 3 || len(points) >= 1<<16-1 {
		return nil, nil
	}
	r, g, b, a := clr.RGBA()
	vertex := func(p geom.Point) Vertex {
		return Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			ColorR: float32(r) / 0xffff,
			ColorG: float32(g) / 0xffff,
			ColorB: float32(b) / 0xffff,
			ColorA: float32(a) / 0xffff,
		}
	}

	vertices := make([]Vertex, 0, len(points)+1)
	vertices = append(vertices, vertex(center))
	for _, p := range points {
		vertices = append(vertices, vertex(p))
	}

	n := uint16(len(points))
	indices := make([]uint16, 0, 3*len(points))
	for i := uint16(0); i < n; i++ {
		indices = append(indices, 0, i+1, (i+1)%n+1)
	}
	return vertices, indices
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the viewer controls
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ // Rotate cone counter-clockwise
	KeyE // Rotate cone clockwise
	KeyL // Light toggle key
	KeyR // Cycle radius
	KeyT // Toggle thresholds
	KeyV // Toggle debug rays
	Key1
	Key2
	Key3
	Key4
	Key5
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Game represents the interface that the engine will call.
// This is typically implemented by the viewer's main struct.
type Game interface {
	// Update updates the viewer state. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	// The logical screen size is used for rendering and input coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the engine that manages the main loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// RunGame runs the main loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
