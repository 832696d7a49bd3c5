// Package canvas implements an immediate-mode 2D vector renderer that
// batches all geometry into a single packed vertex buffer and fakes
// unlimited draw-order occlusion with a depth-layering scheme, so large
// numbers of overlapping shapes render without z-fighting in very few
// draw calls.
package canvas

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/vecgl/pkg/math"
)

const (
	halfPi    = gomath.Pi / 2
	quarterPi = gomath.Pi / 4
	twoPi     = 2 * gomath.Pi
)

// Config holds construction-time canvas settings. The transform
// strategy (Premultiply) is fixed for the lifetime of the canvas.
type Config struct {
	// Width and Height are the viewport dimensions in pixels.
	Width  int
	Height int

	// MaxVertices is the batch capacity. Zero selects the default of
	// 6000 vertices (2000 triangles), past which throughput plateaus.
	MaxVertices int

	// Premultiply selects the transform strategy: true applies the
	// current transform to each vertex on the CPU at submission time
	// and keeps the GPU uniform at identity; false uploads the
	// transform as a uniform at flush time, which forces a flush
	// whenever the transform changes.
	Premultiply bool
}

// Canvas is an immediate-mode 2D renderer. It is not safe for
// concurrent use; all calls must come from the thread owning the GPU
// context.
type Canvas struct {
	backend Backend
	log     *zap.Logger

	// Packed vertex batch. Seven floats per vertex:
	// x, y, depth @ 0; u, v @ 12; rgba bytes @ 20; texture factor @ 24.
	maxVerts  int
	verts     []float32
	usedVerts int
	vbo       uint32

	// Texture state. tex is whatever is bound for the current batch;
	// imageTex is the last texture set through SetTexture or the image
	// draw calls, whose dimensions drive UV normalization.
	tex      uint32
	imageTex uint32
	texW     int
	texH     int

	premultiply bool
	transform   math.Mat4
	width       int
	height      int

	// Approximates how much the longest axis of a unit circle is
	// magnified on screen by the current transform, so arc subdivision
	// tracks screen size rather than model size.
	detailMul float32

	shader shaderState
	depth  depthAllocator

	// Paint state.
	doFill       bool
	fillColor    Color
	doStroke     bool
	strokeColor  Color
	strokeWeight float32
	capStyle     CapStyle
	joinStyle    JoinStyle
	doTint       bool
	tintColor    Color

	// Shape accumulation.
	shapeKind    ShapeKind
	shapeVerts   []shapeVertex
	vertCount    int
	contours     []int
	contourCount int
	knownConvex  bool

	stroker strokeRenderer
	tess    tessState
	curves  curveState
}

// New creates a canvas drawing through the given backend. A nil logger
// disables diagnostics.
func New(backend Backend, cfg Config, log *zap.Logger) *Canvas {
	if log == nil {
		log = zap.NewNop()
	}
	maxVerts := cfg.MaxVertices
	if maxVerts <= 0 {
		maxVerts = 6000
	}
	// The batch must always fit the largest single reservation (one
	// quad), or reserve could not guarantee room even after a flush.
	if maxVerts < 6 {
		maxVerts = 6
	}

	c := &Canvas{
		backend:      backend,
		log:          log,
		maxVerts:     maxVerts,
		verts:        make([]float32, maxVerts*vertexFloats),
		premultiply:  cfg.Premultiply,
		transform:    math.Identity(),
		width:        cfg.Width,
		height:       cfg.Height,
		doFill:       true,
		fillColor:    White,
		doStroke:     true,
		strokeColor:  Black,
		strokeWeight: 1,
		shapeVerts:   make([]shapeVertex, 0, 16),
		contours:     make([]int, 0, 2),
	}
	c.depth.onEpochEnd = func() {
		c.flushBuffer()
		c.backend.ClearDepth()
	}
	c.stroker.canvas = c
	c.tess.init(c)
	c.curves.init()
	c.updateDetailMultiplier()
	return c
}

// BeginFrame prepares the depth test and starts a fresh depth epoch.
// Call once per frame before any drawing.
func (c *Canvas) BeginFrame() {
	c.backend.DepthFuncLess()
	c.depth.reset()
}

// EndFrame submits any pending geometry. Call once per frame after all
// drawing.
func (c *Canvas) EndFrame() {
	c.flushBuffer()
}

// Background clears the color and depth buffers, discarding any pending
// geometry and starting a fresh depth epoch.
func (c *Canvas) Background(color Color) {
	c.usedVerts = 0
	r, g, b, a := color.Channels()
	c.backend.ClearColor(float32(r)/255, float32(g)/255, float32(b)/255, float32(a)/255)
	c.backend.ClearDepth()
	c.depth.reset()
}

// Resize updates the viewport dimensions.
func (c *Canvas) Resize(width, height int) {
	c.flushBuffer()
	c.width = width
	c.height = height
	c.backend.Viewport(int32(width), int32(height))
	c.updateDetailMultiplier()
}

// SetTransform replaces the current model-view-projection matrix. In
// uniform mode this flushes pending geometry first, since a batch may
// not mix transform epochs.
func (c *Canvas) SetTransform(m math.Mat4) {
	if !c.premultiply {
		c.flushBuffer()
	}
	c.transform = m
	c.updateDetailMultiplier()
}

// Transform returns the current transform matrix.
func (c *Canvas) Transform() math.Mat4 {
	return c.transform
}

// Fill enables filling with the given color.
func (c *Canvas) Fill(color Color) {
	c.doFill = true
	c.fillColor = color
}

// NoFill disables filling.
func (c *Canvas) NoFill() {
	c.doFill = false
}

// Stroke enables stroking with the given color.
func (c *Canvas) Stroke(color Color) {
	c.doStroke = true
	c.strokeColor = color
}

// NoStroke disables stroking.
func (c *Canvas) NoStroke() {
	c.doStroke = false
}

// StrokeWeight sets the stroke width in model units.
func (c *Canvas) StrokeWeight(weight float32) {
	c.strokeWeight = weight
}

// StrokeCap sets the cap style for open stroke endpoints.
func (c *Canvas) StrokeCap(style CapStyle) {
	c.capStyle = style
}

// StrokeJoin sets the join style for stroke corners.
func (c *Canvas) StrokeJoin(style JoinStyle) {
	c.joinStyle = style
}

// Tint sets the color multiplied into textured geometry.
func (c *Canvas) Tint(color Color) {
	c.doTint = true
	c.tintColor = color
}

// NoTint disables tinting of textured geometry.
func (c *Canvas) NoTint() {
	c.doTint = false
}

// SetTexture declares the texture sampled by subsequent textured
// vertices. Pixel-space UVs are normalized against its dimensions.
func (c *Canvas) SetTexture(tex Texture) {
	c.imageTex = tex.ID
	c.texW = tex.Width
	c.texH = tex.Height
	c.bindTexture(tex.ID)
}

// Vertex3 is unsupported: this renderer draws on a 2D plane only. It
// warns and produces no geometry.
func (c *Canvas) Vertex3(x, y, z float32) {
	c.log.Warn("three-coordinate vertices are not supported by the 2D renderer",
		zap.Float32("z", z))
}

// incrementDepth allocates the depth value stamped on the next logical
// primitive.
func (c *Canvas) incrementDepth() {
	c.depth.next()
}

func (c *Canvas) updateDetailMultiplier() {
	// Scale the transform's basis vectors by the viewport half-extents
	// to estimate how much the longest axis of an ellipse grows on
	// screen under the current matrix.
	half := math.Scale(float32(c.width)/2, float32(c.height)/2)
	ci, cj := half.Mul(c.transform).ColScales()
	c.detailMul = maxf(ci, cj)
}

// circleDetail returns the segment count needed to approximate an arc
// of the given radius and angular extent at the current on-screen
// magnification. Capped at 127 segments.
func (c *Canvas) circleDetail(radius, delta float32) int {
	radius *= c.detailMul
	return int(minf(127, sqrtf(radius)/quarterPi*absf(delta)*0.75) + 1)
}

func sqrtf(v float32) float32 {
	return float32(gomath.Sqrt(float64(v)))
}

func sinf(v float32) float32 {
	return float32(gomath.Sin(float64(v)))
}

func cosf(v float32) float32 {
	return float32(gomath.Cos(float64(v)))
}

func atan2f(y, x float32) float32 {
	return float32(gomath.Atan2(float64(y), float64(x)))
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
