package canvas

// ShapeKind selects how the vertices of a shape are assembled into
// geometry.
type ShapeKind int

// Shape kinds accepted by BeginShape.
const (
	Polygon ShapeKind = iota
	Points
	Lines
	Triangles
	TriangleFan
	TriangleStrip
	Quads
	QuadStrip
)

// EndMode tells EndShape whether the final contour closes back onto its
// first vertex.
type EndMode int

// End modes for EndShape.
const (
	Open EndMode = iota
	Close
)

// shapeVertex is one accumulated input vertex with its attributes.
type shapeVertex struct {
	x, y      float32
	u, v      float32
	color     Color
	texFactor float32
}

// BeginShape starts accumulating vertices for a new shape of the given
// kind. Any shape in progress is discarded.
func (c *Canvas) BeginShape(kind ShapeKind) {
	c.shapeKind = kind
	c.vertCount = 0
	c.contourCount = 0
}

// Vertex adds a flat-colored vertex to the current shape.
func (c *Canvas) Vertex(x, y float32) {
	c.curves.tracked = 0
	c.shapeVertex(x, y, 0, 0, c.fillColor, 0)
}

// VertexUV adds a textured vertex to the current shape, sampling the
// texture set with SetTexture. u and v are in texture pixels.
func (c *Canvas) VertexUV(x, y, u, v float32) {
	c.curves.tracked = 0
	c.bindTexture(c.imageTex)
	color := White
	if c.doTint {
		color = c.tintColor
	}
	c.shapeVertex(x, y, u, v, color, 1)
}

// BeginContour marks the start of a new sub-path within a Polygon
// shape, used for polygons with holes.
func (c *Canvas) BeginContour() {
	c.appendContour(c.vertCount)
}

// EndContour closes the current sub-path. The boundary is recorded at
// the next BeginContour or EndShape, so this is currently a no-op kept
// for call-site symmetry.
func (c *Canvas) EndContour() {}

// MarkConvex promises that the current Polygon shape is convex, letting
// EndShape fan-triangulate it directly instead of running the
// tessellator. The flag resets after one use.
func (c *Canvas) MarkConvex() {
	c.knownConvex = true
}

// shapeVertex appends one vertex to the shape accumulation buffer. A
// vertex at the exact coordinates of one already present is dropped:
// duplicates make the tessellator fail on degenerate input.
func (c *Canvas) shapeVertex(x, y, u, v float32, color Color, texFactor float32) {
	for i := 0; i < c.vertCount; i++ {
		if c.shapeVerts[i].x == x && c.shapeVerts[i].y == y {
			return
		}
	}

	if c.vertCount < len(c.shapeVerts) {
		c.shapeVerts[c.vertCount] = shapeVertex{x, y, u, v, color, texFactor}
	} else {
		c.shapeVerts = append(c.shapeVerts, shapeVertex{x, y, u, v, color, texFactor})
	}
	c.vertCount++
}

func (c *Canvas) appendContour(vertIndex int) {
	if c.contourCount < len(c.contours) {
		c.contours[c.contourCount] = vertIndex
	} else {
		c.contours = append(c.contours, vertIndex)
	}
	c.contourCount++
}

// EndShape finishes the current shape and emits its fill and stroke
// geometry. mode controls whether Polygon contours close back to their
// first vertex.
func (c *Canvas) EndShape(mode EndMode) {
	// End the current contour.
	c.appendContour(c.vertCount)

	if c.doFill {
		c.fillShape()
	}
	if c.doStroke {
		c.strokeShape(mode)
	}
}

func (c *Canvas) fillShape() {
	c.incrementDepth()
	n := c.vertCount

	switch c.shapeKind {
	case Polygon:
		if c.knownConvex {
			for i := 2; i < n; i++ {
				c.reserve(3)
				c.emitShapeVert(0)
				c.emitShapeVert(i - 1)
				c.emitShapeVert(i)
			}
			c.knownConvex = false
		} else {
			c.tessellatePolygon()
		}
	case QuadStrip:
		for i := 0; i+4 <= n; i += 2 {
			c.reserve(6)
			c.emitShapeVert(i + 0)
			c.emitShapeVert(i + 1)
			c.emitShapeVert(i + 2)
			c.emitShapeVert(i + 1)
			c.emitShapeVert(i + 2)
			c.emitShapeVert(i + 3)
		}
	case Quads:
		for i := 0; i+4 <= n; i += 4 {
			c.reserve(6)
			c.emitShapeVert(i + 0)
			c.emitShapeVert(i + 1)
			c.emitShapeVert(i + 2)
			c.emitShapeVert(i + 0)
			c.emitShapeVert(i + 2)
			c.emitShapeVert(i + 3)
		}
	case TriangleStrip:
		for i := 0; i+3 <= n; i++ {
			c.reserve(3)
			c.emitShapeVert(i + 0)
			c.emitShapeVert(i + 1)
			c.emitShapeVert(i + 2)
		}
	case TriangleFan:
		for i := 0; i+3 <= n; i++ {
			c.reserve(3)
			c.emitShapeVert(0)
			c.emitShapeVert(i + 1)
			c.emitShapeVert(i + 2)
		}
		// Close the fan.
		if n >= 3 {
			c.reserve(3)
			c.emitShapeVert(0)
			c.emitShapeVert(n - 1)
			c.emitShapeVert(1)
		}
	case Triangles:
		for i := 0; i+3 <= n; i += 3 {
			c.reserve(3)
			c.emitShapeVert(i + 0)
			c.emitShapeVert(i + 1)
			c.emitShapeVert(i + 2)
		}
	}
}

// strokeShape emits the stroke geometry for the accumulated shape. Each
// logically distinct stroke primitive (a Polygon contour, one quad or
// triangle outline, one segment, one dot) gets its own depth value so
// later primitives occlude earlier ones.
func (c *Canvas) strokeShape(mode EndMode) {
	n := c.vertCount
	sr := &c.stroker

	switch c.shapeKind {
	case Polygon:
		if n < 3 {
			return
		}

		contour := 0
		c.incrementDepth()
		sr.beginLine()
		for i := 0; i < n; i++ {
			if c.contours[contour] == i {
				sr.endLine(mode == Close)
				c.incrementDepth()
				sr.beginLine()
				contour++
			}
			sr.lineVertex(c.shapeVerts[i].x, c.shapeVerts[i].y)
		}
		sr.endLine(mode == Close)
	case QuadStrip:
		// Perimeter order skips the strip's internal crossing edge.
		for i := 0; i+4 <= n; i += 2 {
			c.incrementDepth()
			sr.beginLine()
			sr.lineVertex(c.shapeVerts[i+0].x, c.shapeVerts[i+0].y)
			sr.lineVertex(c.shapeVerts[i+1].x, c.shapeVerts[i+1].y)
			sr.lineVertex(c.shapeVerts[i+3].x, c.shapeVerts[i+3].y)
			sr.lineVertex(c.shapeVerts[i+2].x, c.shapeVerts[i+2].y)
			sr.endLine(true)
		}
	case Quads:
		for i := 0; i+4 <= n; i += 4 {
			c.incrementDepth()
			sr.beginLine()
			sr.lineVertex(c.shapeVerts[i+0].x, c.shapeVerts[i+0].y)
			sr.lineVertex(c.shapeVerts[i+1].x, c.shapeVerts[i+1].y)
			sr.lineVertex(c.shapeVerts[i+2].x, c.shapeVerts[i+2].y)
			sr.lineVertex(c.shapeVerts[i+3].x, c.shapeVerts[i+3].y)
			sr.endLine(true)
		}
	case TriangleStrip:
		for i := 0; i+3 <= n; i++ {
			c.incrementDepth()
			sr.beginLine()
			sr.lineVertex(c.shapeVerts[i+0].x, c.shapeVerts[i+0].y)
			sr.lineVertex(c.shapeVerts[i+1].x, c.shapeVerts[i+1].y)
			sr.lineVertex(c.shapeVerts[i+2].x, c.shapeVerts[i+2].y)
			sr.endLine(true)
		}
	case TriangleFan:
		for i := 0; i+3 <= n; i++ {
			c.incrementDepth()
			sr.beginLine()
			sr.lineVertex(c.shapeVerts[0].x, c.shapeVerts[0].y)
			sr.lineVertex(c.shapeVerts[i+1].x, c.shapeVerts[i+1].y)
			sr.lineVertex(c.shapeVerts[i+2].x, c.shapeVerts[i+2].y)
			sr.endLine(true)
		}
		// Close the fan.
		if n >= 3 {
			c.incrementDepth()
			sr.beginLine()
			sr.lineVertex(c.shapeVerts[0].x, c.shapeVerts[0].y)
			sr.lineVertex(c.shapeVerts[n-1].x, c.shapeVerts[n-1].y)
			sr.lineVertex(c.shapeVerts[1].x, c.shapeVerts[1].y)
			sr.endLine(true)
		}
	case Triangles:
		for i := 0; i+3 <= n; i += 3 {
			c.incrementDepth()
			sr.beginLine()
			sr.lineVertex(c.shapeVerts[i+0].x, c.shapeVerts[i+0].y)
			sr.lineVertex(c.shapeVerts[i+1].x, c.shapeVerts[i+1].y)
			sr.lineVertex(c.shapeVerts[i+2].x, c.shapeVerts[i+2].y)
			sr.endLine(true)
		}
	case Lines:
		// Independent two-point segments; no join logic.
		for i := 0; i+2 <= n; i += 2 {
			a := c.shapeVerts[i]
			b := c.shapeVerts[i+1]
			c.incrementDepth()
			c.singleLine(a.x, a.y, b.x, b.y, c.strokeColor)
		}
	case Points:
		for i := 0; i < n; i++ {
			c.incrementDepth()
			c.singlePoint(c.shapeVerts[i].x, c.shapeVerts[i].y, c.strokeColor)
		}
	}
}

func (c *Canvas) emitShapeVert(i int) {
	v := &c.shapeVerts[i]
	c.vertexImpl(v.x, v.y, v.u, v.v, v.color, v.texFactor)
}
