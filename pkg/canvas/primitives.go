package canvas

// Convenience primitives. These all drive the shape pipeline, so they
// respect the current fill, stroke and transform state.

// ArcMode selects how an arc's boundary is completed.
type ArcMode int

// Arc modes.
const (
	// ArcOpen fills as a wedge through the center but strokes only
	// the arc itself.
	ArcOpen ArcMode = iota
	// ArcChord closes the arc with a straight line.
	ArcChord
	// ArcPie closes the arc through the center.
	ArcPie
)

// Line draws a single stroked segment.
func (c *Canvas) Line(x1, y1, x2, y2 float32) {
	if !c.doStroke {
		return
	}
	c.incrementDepth()
	c.singleLine(x1, y1, x2, y2, c.strokeColor)
}

// Point draws a single dot with the stroke color.
func (c *Canvas) Point(x, y float32) {
	if !c.doStroke {
		return
	}
	c.incrementDepth()
	c.singlePoint(x, y, c.strokeColor)
}

// Triangle draws a triangle through three points.
func (c *Canvas) Triangle(x1, y1, x2, y2, x3, y3 float32) {
	c.BeginShape(Triangles)
	c.Vertex(x1, y1)
	c.Vertex(x2, y2)
	c.Vertex(x3, y3)
	c.EndShape(Close)
}

// Quad draws a quadrilateral through four points in order.
func (c *Canvas) Quad(x1, y1, x2, y2, x3, y3, x4, y4 float32) {
	c.BeginShape(Quads)
	c.Vertex(x1, y1)
	c.Vertex(x2, y2)
	c.Vertex(x3, y3)
	c.Vertex(x4, y4)
	c.EndShape(Close)
}

// Rect draws an axis-aligned rectangle from its top-left corner.
func (c *Canvas) Rect(x, y, w, h float32) {
	c.RectRounded(x, y, w, h, 0, 0, 0, 0)
}

// RectRounded draws a rectangle with per-corner radii (top-left,
// top-right, bottom-right, bottom-left). Zero radii give sharp corners.
func (c *Canvas) RectRounded(x, y, w, h, tl, tr, br, bl float32) {
	x1, y1 := x, y
	x2, y2 := x+w, y+h

	c.BeginShape(Polygon)
	if tr != 0 {
		c.Vertex(x2-tr, y1)
		c.QuadraticVertex(x2, y1, x2, y1+tr)
	} else {
		c.Vertex(x2, y1)
	}
	if br != 0 {
		c.Vertex(x2, y2-br)
		c.QuadraticVertex(x2, y2, x2-br, y2)
	} else {
		c.Vertex(x2, y2)
	}
	if bl != 0 {
		c.Vertex(x1+bl, y2)
		c.QuadraticVertex(x1, y2, x1, y2-bl)
	} else {
		c.Vertex(x1, y2)
	}
	if tl != 0 {
		c.Vertex(x1, y1+tl)
		c.QuadraticVertex(x1, y1, x1+tl, y1)
	} else {
		c.Vertex(x1, y1)
	}
	c.MarkConvex()
	c.EndShape(Close)
}

// Ellipse draws an ellipse centered at (x, y) with the given diameters.
func (c *Canvas) Ellipse(x, y, w, h float32) {
	rx := w * 0.5
	ry := h * 0.5

	c.BeginShape(Polygon)

	// A wide stroke on a small radius shifts a meaningful part of the
	// boundary outward, so the stroke weight feeds the detail estimate.
	outer := maxf(rx, ry)
	if c.doStroke {
		outer += c.strokeWeight
	}
	segments := c.circleDetail(outer, twoPi)
	step := twoPi / float32(segments)

	cs := cosf(step)
	sn := sinf(step)
	dx, dy := float32(0), float32(1)
	for i := 0; i < segments; i++ {
		c.shapeVertex(x+dx*rx, y+dy*ry, 0, 0, c.fillColor, 0)
		dx, dy = dx*cs-dy*sn, dx*sn+dy*cs
	}

	c.MarkConvex()
	c.EndShape(Close)
}

// Circle draws a circle centered at (x, y) with the given diameter.
func (c *Canvas) Circle(x, y, d float32) {
	c.Ellipse(x, y, d, d)
}

// Arc draws an arc of the ellipse centered at (x, y) with the given
// diameters, sweeping from start to stop in radians. stop must be
// greater than start; sweeps beyond a full turn are clamped.
func (c *Canvas) Arc(x, y, w, h, start, stop float32, mode ArcMode) {
	if stop <= start {
		return
	}
	if stop-start > twoPi {
		stop = start + twoPi
	}

	rx := w * 0.5
	ry := h * 0.5

	diff := stop - start
	segments := c.circleDetail(maxf(rx, ry), diff)
	step := diff / float32(segments)

	c.BeginShape(Polygon)

	if mode == ArcOpen || mode == ArcPie {
		c.Vertex(x, y)
	}
	if mode == ArcOpen {
		// Break the contour so no stroke is drawn along the leading
		// edge from the center.
		c.appendContour(c.vertCount)
	}

	dx := cosf(start)
	dy := sinf(start)
	cs := cosf(step)
	sn := sinf(step)
	for i := 0; i <= segments; i++ {
		c.shapeVertex(x+dx*rx, y+dy*ry, 0, 0, c.fillColor, 0)
		dx, dy = dx*cs-dy*sn, dx*sn+dy*cs
	}

	// For pie and open sweeps past a half turn the polygon is not
	// actually convex, but the known vertex order around the center
	// still fans correctly.
	c.MarkConvex()
	if mode == ArcChord || mode == ArcPie {
		c.EndShape(Close)
	} else {
		c.EndShape(Open)
	}
}

// GlyphQuad positions one glyph: destination corners in model space and
// normalized texture coordinates into the glyph page.
type GlyphQuad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// DrawGlyph draws one glyph quad from a font texture page with the fill
// color. The page's coordinates arrive normalized, so no UV scaling
// applies. Font layout and atlasing are the host's concern.
func (c *Canvas) DrawGlyph(page uint32, q GlyphQuad) {
	c.incrementDepth()
	c.reserve(6)
	c.bindTexture(page)
	c.vertexImpl(q.X0, q.Y0, q.U0, q.V0, c.fillColor, 1)
	c.vertexImpl(q.X1, q.Y0, q.U1, q.V0, c.fillColor, 1)
	c.vertexImpl(q.X0, q.Y1, q.U0, q.V1, c.fillColor, 1)
	c.vertexImpl(q.X1, q.Y0, q.U1, q.V0, c.fillColor, 1)
	c.vertexImpl(q.X0, q.Y1, q.U0, q.V1, c.fillColor, 1)
	c.vertexImpl(q.X1, q.Y1, q.U1, q.V1, c.fillColor, 1)
}

// DrawImage draws the whole texture into the rectangle at (x, y).
func (c *Canvas) DrawImage(tex Texture, x, y, w, h float32) {
	c.DrawImageRegion(tex, x, y, w, h, 0, 0, float32(tex.Width), float32(tex.Height))
}

// DrawImageRegion draws the source rectangle (sx, sy, sw, sh), in
// texture pixels, into the destination rectangle. The tint color
// multiplies the texture when set.
func (c *Canvas) DrawImageRegion(tex Texture, x, y, w, h, sx, sy, sw, sh float32) {
	color := White
	if c.doTint {
		color = c.tintColor
	}

	c.imageTex = tex.ID
	c.texW = tex.Width
	c.texH = tex.Height

	c.incrementDepth()
	c.reserve(6)
	c.bindTexture(tex.ID)

	u0, v0 := sx, sy
	u1, v1 := sx+sw, sy+sh
	x1, y1 := x+w, y+h

	c.vertexImpl(x, y, u0, v0, color, 1)
	c.vertexImpl(x1, y, u1, v0, color, 1)
	c.vertexImpl(x, y1, u0, v1, color, 1)
	c.vertexImpl(x1, y, u1, v0, color, 1)
	c.vertexImpl(x, y1, u0, v1, color, 1)
	c.vertexImpl(x1, y1, u1, v1, color, 1)
}
