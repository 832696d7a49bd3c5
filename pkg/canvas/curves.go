package canvas

// Curve flattening happens on the CPU: bezier and Catmull-Rom segments
// are expanded into plain shape vertices with forward differencing, so
// the rest of the pipeline only ever sees polylines.

// mat4x4 is a small row-major matrix used to build the forward
// differencing coefficients. Distinct from math.Mat4, which is
// column-major GL layout.
type mat4x4 [4][4]float32

func (m mat4x4) mul(o mat4x4) mat4x4 {
	var r mat4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j] + m[i][3]*o[3][j]
		}
	}
	return r
}

// bezierBasis is the cubic Bernstein basis.
var bezierBasis = mat4x4{
	{-1, 3, -3, 1},
	{3, -6, 3, 0},
	{-3, 3, 0, 0},
	{1, 0, 0, 0},
}

// curveBasis is the Catmull-Rom basis at tightness zero.
var curveBasis = mat4x4{
	{-0.5, 1.5, -1.5, 0.5},
	{1, -2.5, 2, -0.5},
	{-0.5, 0, 0.5, 0},
	{0, 1, 0, 0},
}

// splineForward returns the forward differencing matrix for the given
// segment count.
func splineForward(segments int) mat4x4 {
	f := 1.0 / float32(segments)
	ff := f * f
	fff := ff * f

	return mat4x4{
		{0, 0, 0, 1},
		{fff, ff, f, 0},
		{6 * fff, 2 * ff, 0, 0},
		{6 * fff, 0, 0, 0},
	}
}

type curveState struct {
	bezierDetail int
	bezierDraw   mat4x4
	bezierDirty  bool

	curveDetail int
	curveDraw   mat4x4
	curveDirty  bool

	// Sliding window of the last four control points fed to
	// CurveVertex, and how many are tracked so far.
	cx1, cy1, cx2, cy2, cx3, cy3, cx4, cy4 float32
	tracked                                int
}

func (cs *curveState) init() {
	cs.bezierDetail = 20
	cs.bezierDirty = true
	cs.curveDetail = 20
	cs.curveDirty = true
}

// SetBezierDetail sets the number of line segments used to flatten each
// bezier segment.
func (c *Canvas) SetBezierDetail(detail int) {
	if detail < 1 {
		detail = 1
	}
	c.curves.bezierDetail = detail
	c.curves.bezierDirty = true
}

// SetCurveDetail sets the number of line segments used to flatten each
// Catmull-Rom segment.
func (c *Canvas) SetCurveDetail(detail int) {
	if detail < 1 {
		detail = 1
	}
	c.curves.curveDetail = detail
	c.curves.curveDirty = true
}

// BezierVertex adds a cubic bezier segment from the last shape vertex
// through two control points to the given anchor, flattened into
// bezier-detail line segments. The shape must already have at least one
// vertex.
func (c *Canvas) BezierVertex(x2, y2, x3, y3, x4, y4 float32) {
	if c.vertCount == 0 {
		c.log.Warn("BezierVertex needs an initial Vertex call to anchor the segment")
		return
	}

	cs := &c.curves
	if cs.bezierDirty {
		cs.bezierDraw = splineForward(cs.bezierDetail).mul(bezierBasis)
		cs.bezierDirty = false
	}
	draw := &cs.bezierDraw

	x1 := c.shapeVerts[c.vertCount-1].x
	y1 := c.shapeVerts[c.vertCount-1].y

	xplot1 := draw[1][0]*x1 + draw[1][1]*x2 + draw[1][2]*x3 + draw[1][3]*x4
	xplot2 := draw[2][0]*x1 + draw[2][1]*x2 + draw[2][2]*x3 + draw[2][3]*x4
	xplot3 := draw[3][0]*x1 + draw[3][1]*x2 + draw[3][2]*x3 + draw[3][3]*x4

	yplot1 := draw[1][0]*y1 + draw[1][1]*y2 + draw[1][2]*y3 + draw[1][3]*y4
	yplot2 := draw[2][0]*y1 + draw[2][1]*y2 + draw[2][2]*y3 + draw[2][3]*y4
	yplot3 := draw[3][0]*y1 + draw[3][1]*y2 + draw[3][2]*y3 + draw[3][3]*y4

	for j := 0; j < cs.bezierDetail; j++ {
		x1 += xplot1
		xplot1 += xplot2
		xplot2 += xplot3
		y1 += yplot1
		yplot1 += yplot2
		yplot2 += yplot3
		c.shapeVertex(x1, y1, 0, 0, c.fillColor, 0)
	}
}

// QuadraticVertex adds a quadratic bezier segment through one control
// point, elevated to a cubic.
func (c *Canvas) QuadraticVertex(cx, cy, x3, y3 float32) {
	if c.vertCount == 0 {
		c.log.Warn("QuadraticVertex needs an initial Vertex call to anchor the segment")
		return
	}

	x1 := c.shapeVerts[c.vertCount-1].x
	y1 := c.shapeVerts[c.vertCount-1].y

	c.BezierVertex(
		x1+(cx-x1)*2/3.0, y1+(cy-y1)*2/3.0,
		x3+(cx-x3)*2/3.0, y3+(cy-y3)*2/3.0,
		x3, y3,
	)
}

// CurveVertex adds a Catmull-Rom control point. Each point past the
// third draws the spline segment between the middle two points of the
// current window.
func (c *Canvas) CurveVertex(x, y float32) {
	cs := &c.curves
	if cs.curveDirty {
		cs.curveDraw = splineForward(cs.curveDetail).mul(curveBasis)
		cs.curveDirty = false
	}

	cs.cx1, cs.cy1 = cs.cx2, cs.cy2
	cs.cx2, cs.cy2 = cs.cx3, cs.cy3
	cs.cx3, cs.cy3 = cs.cx4, cs.cy4
	cs.cx4, cs.cy4 = x, y
	cs.tracked++

	if cs.tracked < 4 {
		return
	}

	draw := &cs.curveDraw

	xplot1 := draw[1][0]*cs.cx1 + draw[1][1]*cs.cx2 + draw[1][2]*cs.cx3 + draw[1][3]*cs.cx4
	xplot2 := draw[2][0]*cs.cx1 + draw[2][1]*cs.cx2 + draw[2][2]*cs.cx3 + draw[2][3]*cs.cx4
	xplot3 := draw[3][0]*cs.cx1 + draw[3][1]*cs.cx2 + draw[3][2]*cs.cx3 + draw[3][3]*cs.cx4

	yplot1 := draw[1][0]*cs.cy1 + draw[1][1]*cs.cy2 + draw[1][2]*cs.cy3 + draw[1][3]*cs.cy4
	yplot2 := draw[2][0]*cs.cy1 + draw[2][1]*cs.cy2 + draw[2][2]*cs.cy3 + draw[2][3]*cs.cy4
	yplot3 := draw[3][0]*cs.cy1 + draw[3][1]*cs.cy2 + draw[3][2]*cs.cy3 + draw[3][3]*cs.cy4

	x0 := cs.cx2
	y0 := cs.cy2

	if cs.tracked == 4 {
		c.shapeVertex(x0, y0, 0, 0, c.fillColor, 0)
	}

	for j := 0; j < cs.curveDetail; j++ {
		x0 += xplot1
		xplot1 += xplot2
		xplot2 += xplot3
		y0 += yplot1
		yplot1 += yplot2
		yplot2 += yplot3
		c.shapeVertex(x0, y0, 0, 0, c.fillColor, 0)
	}
}
