package canvas

import (
	gomath "math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/vecgl/pkg/math"
)

// fakeBackend records every draw call with a snapshot of the uploaded
// vertex data and uniform state, so tests can assert on the exact
// geometry the canvas produced without a GPU.
type fakeBackend struct {
	nextBuffer  uint32
	nextProgram uint32

	pending  []float32
	boundTex uint32
	uniform  math.Mat4
	texScale [2]float32

	draws           []recordedDraw
	clearDepthCalls int
	clearColorCalls int
	viewportW       int32
	viewportH       int32

	compileErr     error
	rejectPrograms map[uint32]bool
}

type recordedDraw struct {
	count    int32
	verts    []float32
	texture  uint32
	uniform  math.Mat4
	texScale [2]float32
}

func (f *fakeBackend) GenBuffer() uint32 {
	f.nextBuffer++
	return f.nextBuffer
}

func (f *fakeBackend) BindArrayBuffer(id uint32) {}

func (f *fakeBackend) BufferData(data []float32) {
	f.pending = append(f.pending[:0], data...)
}

func (f *fakeBackend) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if f.compileErr != nil {
		return 0, f.compileErr
	}
	f.nextProgram++
	return f.nextProgram, nil
}

func (f *fakeBackend) UseProgram(program uint32) {}

func (f *fakeBackend) AttribLocation(program uint32, name string) int32 {
	if f.rejectPrograms[program] {
		return -1
	}
	switch name {
	case "position":
		return 0
	case "color":
		return 1
	case "texCoord":
		return 2
	case "texFactor":
		return 3
	}
	return -1
}

func (f *fakeBackend) UniformLocation(program uint32, name string) int32 {
	if f.rejectPrograms[program] {
		return -1
	}
	switch name {
	case "transform":
		return 0
	case "texScale":
		return 1
	case "texMap":
		return 2
	}
	return -1
}

func (f *fakeBackend) VertexAttribFloat(loc, size, stride int32, offset int) {}
func (f *fakeBackend) VertexAttribUByte(loc, size, stride int32, offset int) {}
func (f *fakeBackend) EnableVertexAttrib(loc int32)                          {}

func (f *fakeBackend) UniformMatrix4(loc int32, m math.Mat4) { f.uniform = m }

func (f *fakeBackend) Uniform2f(loc int32, x, y float32) {
	if loc == 1 {
		f.texScale = [2]float32{x, y}
	}
}

func (f *fakeBackend) Uniform1i(loc int32, v int32) {}

func (f *fakeBackend) BindTexture2D(id uint32) { f.boundTex = id }

func (f *fakeBackend) DrawTriangles(count int32) {
	verts := make([]float32, count*vertexFloats)
	copy(verts, f.pending)
	f.draws = append(f.draws, recordedDraw{
		count:    count,
		verts:    verts,
		texture:  f.boundTex,
		uniform:  f.uniform,
		texScale: f.texScale,
	})
}

func (f *fakeBackend) DepthFuncLess() {}
func (f *fakeBackend) ClearDepth()    { f.clearDepthCalls++ }

func (f *fakeBackend) ClearColor(r, g, b, a float32) { f.clearColorCalls++ }

func (f *fakeBackend) Viewport(width, height int32) {
	f.viewportW = width
	f.viewportH = height
}

// vert is one decoded vertex from a recorded draw.
type vert struct {
	x, y, depth float32
	u, v        float32
	color       Color
	texFactor   float32
}

func decodeVerts(data []float32) []vert {
	out := make([]vert, 0, len(data)/vertexFloats)
	for i := 0; i+vertexFloats <= len(data); i += vertexFloats {
		bits := gomath.Float32bits(data[i+5])
		r := uint8(bits)
		g := uint8(bits >> 8)
		b := uint8(bits >> 16)
		a := uint8(bits >> 24)
		out = append(out, vert{
			x: data[i], y: data[i+1], depth: data[i+2],
			u: data[i+3], v: data[i+4],
			color:     RGBA(r, g, b, a),
			texFactor: data[i+6],
		})
	}
	return out
}

func newTestCanvas(cfg Config) (*Canvas, *fakeBackend) {
	if cfg.Width == 0 {
		cfg.Width = 800
	}
	if cfg.Height == 0 {
		cfg.Height = 600
	}
	fb := &fakeBackend{}
	c := New(fb, cfg, zap.NewNop())
	c.BeginFrame()
	return c, fb
}

func allVerts(fb *fakeBackend) []vert {
	var out []vert
	for _, d := range fb.draws {
		out = append(out, decodeVerts(d.verts)...)
	}
	return out
}

func TestConvexPolygonFan(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	red := RGB(255, 0, 0)
	c.NoStroke()
	c.Fill(red)
	c.BeginShape(Polygon)
	c.Vertex(0, 0)
	c.Vertex(10, 0)
	c.Vertex(10, 10)
	c.Vertex(0, 10)
	c.MarkConvex()
	c.EndShape(Close)
	c.EndFrame()

	if len(fb.draws) != 1 {
		t.Fatalf("expected 1 draw call, got %d", len(fb.draws))
	}
	vs := decodeVerts(fb.draws[0].verts)
	if len(vs) != 6 {
		t.Fatalf("expected 6 vertices (2 fan triangles), got %d", len(vs))
	}

	// Fan order: (v0, v1, v2), (v0, v2, v3).
	want := [][2]float32{
		{0, 0}, {10, 0}, {10, 10},
		{0, 0}, {10, 10}, {0, 10},
	}
	for i, w := range want {
		if vs[i].x != w[0] || vs[i].y != w[1] {
			t.Errorf("vertex %d: got (%g, %g), want (%g, %g)", i, vs[i].x, vs[i].y, w[0], w[1])
		}
		if vs[i].color != red {
			t.Errorf("vertex %d: color %#x, want %#x", i, vs[i].color, red)
		}
	}

	// All fill vertices of one shape share one depth layer below 1.
	d := vs[0].depth
	if d >= 1 {
		t.Errorf("fill depth %g, want < 1", d)
	}
	for i, v := range vs {
		if v.depth != d {
			t.Errorf("vertex %d: depth %g, want %g", i, v.depth, d)
		}
	}
}

func TestDuplicateVertexDropped(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.NoStroke()
	c.BeginShape(Polygon)
	c.Vertex(0, 0)
	c.Vertex(10, 0)
	c.Vertex(10, 0) // exact duplicate
	c.Vertex(10, 10)
	c.Vertex(0, 10)
	if c.vertCount != 4 {
		t.Fatalf("vertCount = %d after duplicate, want 4", c.vertCount)
	}
	c.MarkConvex()
	c.EndShape(Close)
	c.EndFrame()

	if got := len(allVerts(fb)); got != 6 {
		t.Errorf("expected 6 vertices, got %d", got)
	}
}

func TestQuadsShapeKind(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.NoStroke()
	c.BeginShape(Quads)
	c.Vertex(0, 0)
	c.Vertex(10, 0)
	c.Vertex(10, 10)
	c.Vertex(0, 10)
	c.Vertex(20, 0)
	c.Vertex(30, 0)
	c.Vertex(30, 10)
	c.Vertex(20, 10)
	c.EndShape(Open)
	c.EndFrame()

	vs := allVerts(fb)
	if len(vs) != 12 {
		t.Fatalf("expected 12 vertices (2 quads x 2 triangles), got %d", len(vs))
	}
	// Second quad decomposes as (v4, v5, v6), (v4, v6, v7).
	if vs[6].x != 20 || vs[9].x != 20 || vs[11].x != 20 {
		t.Errorf("second quad triangles do not pivot on its first vertex")
	}
}

func TestQuadStripShapeKind(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.NoStroke()
	c.BeginShape(QuadStrip)
	c.Vertex(0, 0)
	c.Vertex(0, 10)
	c.Vertex(10, 0)
	c.Vertex(10, 10)
	c.Vertex(20, 0)
	c.Vertex(20, 10)
	c.EndShape(Open)
	c.EndFrame()

	vs := allVerts(fb)
	if len(vs) != 12 {
		t.Fatalf("expected 12 vertices (2 strip quads x 2 triangles), got %d", len(vs))
	}
	// Each two-vertex stride yields (i, i+1, i+2), (i+1, i+2, i+3).
	want := [][2]float32{
		{0, 0}, {0, 10}, {10, 0},
		{0, 10}, {10, 0}, {10, 10},
		{10, 0}, {10, 10}, {20, 0},
		{10, 10}, {20, 0}, {20, 10},
	}
	for i, w := range want {
		if vs[i].x != w[0] || vs[i].y != w[1] {
			t.Errorf("vertex %d: got (%g, %g), want (%g, %g)", i, vs[i].x, vs[i].y, w[0], w[1])
		}
	}
}

func TestTriangleStripShapeKind(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.NoStroke()
	c.BeginShape(TriangleStrip)
	c.Vertex(0, 0)
	c.Vertex(0, 10)
	c.Vertex(10, 0)
	c.Vertex(10, 10)
	c.EndShape(Open)
	c.EndFrame()

	vs := allVerts(fb)
	if len(vs) != 6 {
		t.Fatalf("expected 6 vertices (2 strip triangles), got %d", len(vs))
	}
	// Sliding window: (v0, v1, v2), (v1, v2, v3).
	want := [][2]float32{
		{0, 0}, {0, 10}, {10, 0},
		{0, 10}, {10, 0}, {10, 10},
	}
	for i, w := range want {
		if vs[i].x != w[0] || vs[i].y != w[1] {
			t.Errorf("vertex %d: got (%g, %g), want (%g, %g)", i, vs[i].x, vs[i].y, w[0], w[1])
		}
	}
}

func TestTriangleFanClosesBackToStart(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.NoStroke()
	c.BeginShape(TriangleFan)
	c.Vertex(5, 5) // hub
	c.Vertex(0, 0)
	c.Vertex(10, 0)
	c.Vertex(10, 10)
	c.EndShape(Open)
	c.EndFrame()

	vs := allVerts(fb)
	if len(vs) != 9 {
		t.Fatalf("expected 9 vertices (2 fan triangles plus the closing one), got %d", len(vs))
	}
	// (v0, v1, v2), (v0, v2, v3), then the wrap back to v1.
	want := [][2]float32{
		{5, 5}, {0, 0}, {10, 0},
		{5, 5}, {10, 0}, {10, 10},
		{5, 5}, {10, 10}, {0, 0},
	}
	for i, w := range want {
		if vs[i].x != w[0] || vs[i].y != w[1] {
			t.Errorf("vertex %d: got (%g, %g), want (%g, %g)", i, vs[i].x, vs[i].y, w[0], w[1])
		}
	}
}

func TestBatchCapacityFlush(t *testing.T) {
	c, fb := newTestCanvas(Config{MaxVertices: 6})

	c.NoStroke()
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.Triangle(2, 0, 3, 0, 2, 1)
	if len(fb.draws) != 0 {
		t.Fatalf("premature flush: %d draws before capacity reached", len(fb.draws))
	}
	c.Triangle(4, 0, 5, 0, 4, 1)
	if len(fb.draws) != 1 {
		t.Fatalf("expected capacity flush after third triangle, got %d draws", len(fb.draws))
	}
	if fb.draws[0].count != 6 {
		t.Errorf("capacity flush drew %d vertices, want 6", fb.draws[0].count)
	}
	c.EndFrame()
	if len(fb.draws) != 2 {
		t.Fatalf("expected final flush, got %d draws", len(fb.draws))
	}
	if fb.draws[1].count != 3 {
		t.Errorf("final flush drew %d vertices, want 3", fb.draws[1].count)
	}
}

func TestTinyCapacityClamped(t *testing.T) {
	c, fb := newTestCanvas(Config{MaxVertices: 2})

	// A glyph quad reserves six vertices at once; capacities below that
	// must be raised or the write would overrun the batch.
	c.DrawGlyph(3, GlyphQuad{X0: 0, Y0: 0, X1: 8, Y1: 8, U1: 1, V1: 1})
	c.EndFrame()

	if len(fb.draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(fb.draws))
	}
	if fb.draws[0].count != 6 {
		t.Errorf("drew %d vertices, want 6", fb.draws[0].count)
	}
}

func TestTextureSwitchFlush(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.NoStroke()
	c.Rect(0, 0, 10, 10)
	c.DrawImage(Texture{ID: 7, Width: 64, Height: 32}, 0, 0, 64, 32)
	c.DrawGlyph(9, GlyphQuad{X0: 0, Y0: 0, X1: 8, Y1: 8, U1: 1, V1: 1})
	c.EndFrame()

	if len(fb.draws) != 3 {
		t.Fatalf("expected 3 draws (flat, image, glyph), got %d", len(fb.draws))
	}

	if fb.draws[0].texture != 0 {
		t.Errorf("flat batch texture = %d, want 0", fb.draws[0].texture)
	}

	img := fb.draws[1]
	if img.texture != 7 {
		t.Errorf("image batch texture = %d, want 7", img.texture)
	}
	// Pixel-space UVs normalized through the texScale uniform.
	if img.texScale != [2]float32{1.0 / 64, 1.0 / 32} {
		t.Errorf("image texScale = %v, want (1/64, 1/32)", img.texScale)
	}
	vs := decodeVerts(img.verts)
	if vs[5].u != 64 || vs[5].v != 32 {
		t.Errorf("image UVs = (%g, %g), want pixel-space (64, 32)", vs[5].u, vs[5].v)
	}

	glyph := fb.draws[2]
	if glyph.texture != 9 {
		t.Errorf("glyph batch texture = %d, want 9", glyph.texture)
	}
	// Glyph pages arrive with normalized UVs; no scaling.
	if glyph.texScale != [2]float32{1, 1} {
		t.Errorf("glyph texScale = %v, want (1, 1)", glyph.texScale)
	}
}

func TestPremultiplyTransformsOnCPU(t *testing.T) {
	c, fb := newTestCanvas(Config{Premultiply: true})

	c.NoStroke()
	c.SetTransform(math.Translate(100, 50))
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.SetTransform(math.Translate(-100, -50))
	if len(fb.draws) != 0 {
		t.Fatalf("premultiply mode flushed on SetTransform: %d draws", len(fb.draws))
	}
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.EndFrame()

	if len(fb.draws) != 1 {
		t.Fatalf("expected a single draw across transform changes, got %d", len(fb.draws))
	}
	vs := decodeVerts(fb.draws[0].verts)
	if vs[0].x != 100 || vs[0].y != 50 {
		t.Errorf("first vertex = (%g, %g), want CPU-transformed (100, 50)", vs[0].x, vs[0].y)
	}
	if vs[3].x != -100 || vs[3].y != -50 {
		t.Errorf("fourth vertex = (%g, %g), want CPU-transformed (-100, -50)", vs[3].x, vs[3].y)
	}
	if fb.draws[0].uniform != math.Identity() {
		t.Error("premultiply mode must upload the identity transform uniform")
	}
}

func TestUniformModeFlushesOnSetTransform(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	first := math.Translate(100, 50)
	c.NoStroke()
	c.SetTransform(first)
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.SetTransform(math.Translate(5, 5))
	if len(fb.draws) != 1 {
		t.Fatalf("expected flush on transform change, got %d draws", len(fb.draws))
	}
	if fb.draws[0].uniform != first {
		t.Error("first batch drawn with wrong transform uniform")
	}
	vs := decodeVerts(fb.draws[0].verts)
	if vs[0].x != 0 || vs[0].y != 0 {
		t.Errorf("uniform mode transformed vertex on CPU: (%g, %g)", vs[0].x, vs[0].y)
	}

	c.Triangle(0, 0, 1, 0, 0, 1)
	c.EndFrame()
	if len(fb.draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(fb.draws))
	}
}

func TestSetShaderRejectsIncompleteProgram(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fb := &fakeBackend{rejectPrograms: map[uint32]bool{77: true}}
	c := New(fb, Config{Width: 800, Height: 600}, zap.New(core))
	c.BeginFrame()

	c.SetShader(77)
	if c.shader.custom != 0 {
		t.Error("rejected shader was installed")
	}
	if logs.FilterMessageSnippet("shader cannot be used").Len() != 1 {
		t.Error("expected a warning about the rejected shader")
	}

	// Drawing still works through the default program.
	c.NoStroke()
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.EndFrame()
	if len(fb.draws) != 1 {
		t.Fatalf("expected fallback draw, got %d", len(fb.draws))
	}
}

func TestShaderCompileFailureDropsBatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fb := &fakeBackend{compileErr: errCompile}
	c := New(fb, Config{Width: 800, Height: 600}, zap.New(core))
	c.BeginFrame()

	c.NoStroke()
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.EndFrame()

	if len(fb.draws) != 0 {
		t.Fatalf("expected batch to be dropped, got %d draws", len(fb.draws))
	}
	if logs.FilterMessageSnippet("dropping batch").Len() == 0 {
		t.Error("expected a warning about the dropped batch")
	}

	// The canvas stays usable: the failure is cached, not retried.
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.EndFrame()
	if len(fb.draws) != 0 {
		t.Error("batch drawn despite failed shader compile")
	}
}

var errCompile = errString("link failed")

type errString string

func (e errString) Error() string { return string(e) }

func TestBackgroundDiscardsPending(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.NoStroke()
	c.Triangle(0, 0, 1, 0, 0, 1)
	c.Background(Black)
	c.EndFrame()

	if len(fb.draws) != 0 {
		t.Errorf("pending geometry survived Background: %d draws", len(fb.draws))
	}
	if fb.clearColorCalls != 1 {
		t.Errorf("ClearColor called %d times, want 1", fb.clearColorCalls)
	}
	if fb.clearDepthCalls != 1 {
		t.Errorf("ClearDepth called %d times, want 1", fb.clearDepthCalls)
	}
}

func TestVertex3Unsupported(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fb := &fakeBackend{}
	c := New(fb, Config{Width: 800, Height: 600}, zap.New(core))
	c.BeginFrame()

	c.BeginShape(Polygon)
	c.Vertex3(1, 2, 3)
	c.EndShape(Open)
	c.EndFrame()

	if len(fb.draws) != 0 {
		t.Error("Vertex3 produced geometry")
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 warning, got %d", logs.Len())
	}
}

func TestResizeSetsViewport(t *testing.T) {
	c, fb := newTestCanvas(Config{})

	c.Resize(1024, 768)
	if fb.viewportW != 1024 || fb.viewportH != 768 {
		t.Errorf("viewport = (%d, %d), want (1024, 768)", fb.viewportW, fb.viewportH)
	}
}
