package main

import (
	"fmt"
	"image"
	imgcolor "image/color"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/vecgl/internal/config"
	"github.com/Faultbox/vecgl/internal/logger"
	"github.com/Faultbox/vecgl/internal/window"
	"github.com/Faultbox/vecgl/pkg/canvas"
	"github.com/Faultbox/vecgl/pkg/canvas/glbackend"
	"github.com/Faultbox/vecgl/pkg/math"
)

// App owns the window, GL backend and canvas, and runs the demo loop.
type App struct {
	cfg     *config.Config
	win     *window.Window
	backend *glbackend.Backend
	canvas  *canvas.Canvas
	text    *textAtlas
	checker canvas.Texture

	width, height int
	running       bool
}

// NewApp creates the window, GL context and canvas from config.
func NewApp(cfg *config.Config) (*App, error) {
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.L())
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	backend, err := glbackend.New()
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("initializing GL backend: %w", err)
	}

	w, h := win.DrawableSize()
	cv := canvas.New(backend, canvas.Config{
		Width:       w,
		Height:      h,
		MaxVertices: cfg.Renderer.MaxVerts,
		Premultiply: cfg.Renderer.Premultiply,
	}, logger.L())
	cv.Resize(w, h)
	cv.SetBezierDetail(cfg.Renderer.BezierDetail)
	cv.SetCurveDetail(cfg.Renderer.CurveDetail)

	text, err := newTextAtlas(backend)
	if err != nil {
		backend.Close()
		win.Close()
		return nil, err
	}

	checker, err := backend.UploadImage(checkerImage(64, 8))
	if err != nil {
		backend.Close()
		win.Close()
		return nil, fmt.Errorf("uploading checker texture: %w", err)
	}

	return &App{
		cfg:     cfg,
		win:     win,
		backend: backend,
		canvas:  cv,
		text:    text,
		checker: checker,
		width:   w,
		height:  h,
	}, nil
}

// Close releases GPU and window resources.
func (a *App) Close() {
	if a.backend != nil {
		a.backend.DeleteTexture(a.text.tex)
		a.backend.DeleteTexture(a.checker)
		a.backend.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}

// Run drives the event and render loop until quit.
func (a *App) Run() error {
	a.running = true

	start := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting demo loop")

	for a.running {
		a.pollEvents()

		t := float32(time.Since(start).Seconds())
		a.drawFrame(t)
		a.win.SwapBuffers()

		frameCount++
		if a.cfg.Renderer.ShowFPS && time.Since(fpsTimer) >= time.Second {
			a.win.SetTitle(fmt.Sprintf("%s  [%d fps]", a.cfg.Window.Title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			a.running = false
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				a.running = false
			}
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w, h := a.win.DrawableSize()
				a.width, a.height = w, h
				a.canvas.Resize(w, h)
				logger.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
			}
		}
	}
}

// drawFrame renders one frame of the demo scene at time t seconds.
func (a *App) drawFrame(t float32) {
	c := a.canvas
	proj := math.Ortho2D(float32(a.width), float32(a.height))

	c.BeginFrame()
	c.Background(canvas.RGB(24, 24, 32))
	c.SetTransform(proj)

	a.drawShapes(t)
	a.drawStrokes(t)
	a.drawCurves(t)
	a.drawTextured(t)

	c.SetTransform(proj)
	c.Fill(canvas.White)
	a.text.draw(c, 16, 12, 2, "vecgl immediate-mode 2D renderer")
	a.text.draw(c, 16, 44, 1, "ESC to quit")

	c.EndFrame()
}

// drawShapes exercises fills: overlapping primitives, a ring with a
// hole, and a self-intersecting star.
func (a *App) drawShapes(t float32) {
	c := a.canvas

	c.NoStroke()

	// Overlap stack; later draws occlude earlier ones.
	c.Fill(canvas.RGBA(220, 60, 60, 255))
	c.Rect(60, 90, 140, 100)
	c.Fill(canvas.RGBA(60, 180, 90, 255))
	c.Ellipse(180, 190, 150, 110)
	c.Fill(canvas.RGBA(70, 110, 230, 255))
	c.Triangle(120, 140, 300, 160, 190, 290)

	// Ring: outer contour plus reversed inner contour.
	c.Fill(canvas.RGB(240, 200, 70))
	c.BeginShape(canvas.Polygon)
	ringVerts(c, 430, 180, 70, false)
	c.BeginContour()
	ringVerts(c, 430, 180, 38, true)
	c.EndContour()
	c.EndShape(canvas.Close)

	// Self-intersecting star, filled by winding.
	c.Fill(canvas.RGBA(200, 90, 210, 255))
	c.BeginShape(canvas.Polygon)
	spin := t * 0.4
	for i := 0; i < 5; i++ {
		ang := spin + float32(i)*4*gomath.Pi/5
		c.Vertex(600+90*cosf32(ang), 180+90*sinf32(ang))
	}
	c.EndShape(canvas.Close)

	// Arc sweep in three closure modes.
	c.Fill(canvas.RGB(90, 200, 200))
	c.Arc(760, 180, 130, 130, spin, spin+4.2, canvas.ArcPie)
}

// drawStrokes exercises joins, caps, miters and the point primitive.
func (a *App) drawStrokes(t float32) {
	c := a.canvas

	c.NoFill()

	// Zigzag polyline under each join style.
	joins := []canvas.JoinStyle{canvas.JoinMiter, canvas.JoinBevel, canvas.JoinRound}
	for i, j := range joins {
		c.Stroke(canvas.RGB(250, 250, 250))
		c.StrokeWeight(10)
		c.StrokeJoin(j)
		c.StrokeCap(canvas.CapRound)

		y0 := 360 + float32(i)*70
		c.BeginShape(canvas.Polygon)
		for k := 0; k < 7; k++ {
			x := 60 + float32(k)*45
			y := y0
			if k%2 == 1 {
				y += 40
			}
			c.Vertex(x, y)
		}
		c.EndShape(canvas.Open)
	}

	// Thin strokes fall back to plain quads.
	c.Stroke(canvas.RGB(150, 150, 170))
	c.StrokeWeight(0.75)
	for i := 0; i < 8; i++ {
		y := 590 + float32(i)*6
		c.Line(60, y, 330, y)
	}

	// Points at varying weight render as circles.
	c.Stroke(canvas.RGB(250, 180, 60))
	for i := 0; i < 6; i++ {
		c.StrokeWeight(float32(4 + i*4))
		c.Point(400+float32(i)*50, 600)
	}
}

// drawCurves exercises Bezier, quadratic and Catmull-Rom vertices.
func (a *App) drawCurves(t float32) {
	c := a.canvas

	c.NoFill()
	c.Stroke(canvas.RGB(120, 220, 120))
	c.StrokeWeight(4)
	c.StrokeJoin(canvas.JoinRound)

	wob := 40 * sinf32(t*1.3)

	c.BeginShape(canvas.Polygon)
	c.Vertex(420, 420)
	c.BezierVertex(480, 340+wob, 560, 500-wob, 620, 420)
	c.QuadraticVertex(680, 340-wob, 740, 420)
	c.EndShape(canvas.Open)

	c.Stroke(canvas.RGB(220, 130, 90))
	c.BeginShape(canvas.Polygon)
	for i := 0; i < 7; i++ {
		x := 420 + float32(i)*55
		y := 520 + 30*sinf32(t+float32(i))
		c.CurveVertex(x, y)
	}
	c.EndShape(canvas.Open)
}

// drawTextured exercises image draws and tinting under a transform.
func (a *App) drawTextured(t float32) {
	c := a.canvas
	proj := math.Ortho2D(float32(a.width), float32(a.height))

	model := math.Translate(880, 480).Mul(math.Rotate(t * 0.5))
	c.SetTransform(proj.Mul(model))

	c.DrawImage(a.checker, -80, -80, 160, 160)
	c.Tint(canvas.RGBA(255, 160, 160, 200))
	c.DrawImage(a.checker, 60, -40, 80, 80)
	c.NoTint()

	c.SetTransform(proj)
}

// ringVerts appends a regular 48-gon; reversed winding cuts a hole.
func ringVerts(c *canvas.Canvas, cx, cy, r float32, reverse bool) {
	const n = 48
	for i := 0; i < n; i++ {
		ang := float32(i) / n * 2 * gomath.Pi
		if reverse {
			ang = -ang
		}
		c.Vertex(cx+r*cosf32(ang), cy+r*sinf32(ang))
	}
}

// checkerImage builds a size x size checkerboard with the given cell
// count per side.
func checkerImage(size, cells int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, imgcolor.RGBA{230, 230, 230, 255})
			} else {
				img.Set(x, y, imgcolor.RGBA{90, 90, 110, 255})
			}
		}
	}
	return img
}

func sinf32(v float32) float32 { return float32(gomath.Sin(float64(v))) }
func cosf32(v float32) float32 { return float32(gomath.Cos(float64(v))) }
