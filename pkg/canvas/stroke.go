package canvas

import "github.com/Faultbox/vecgl/pkg/math"

// CapStyle selects how open stroke endpoints are finished.
type CapStyle int

// Cap styles.
const (
	CapButt CapStyle = iota
	CapRound
	CapProject
)

// JoinStyle selects how stroke corners are filled.
type JoinStyle int

// Join styles.
const (
	JoinMiter JoinStyle = iota
	JoinBevel
	JoinRound
)

// Below this half-width, strokes degrade to plain rectangular segments
// with no join geometry; the difference is not visible at that scale.
const lineDetailLimit = 1.0

// cos(pi/15): legs meeting at an angle shallower than this get a flat
// join even in miter mode, since the miter would be indistinguishable.
const cosPiOver15 = 0.97815

// strokeRenderer turns a polyline into a triangulated ribbon of the
// current stroke weight, one contour at a time. It keeps the first and
// second points so closed paths can synthesize their wraparound joins,
// and the previous point's join offsets so each segment quad bridges
// seamlessly into the next.
type strokeRenderer struct {
	canvas *Canvas

	lineVertexCount int
	fx, fy          float32 // first point
	sx, sy          float32 // second point
	sdx, sdy        float32 // deferred join offsets at the second point
	px, py          float32 // previous point
	pdx, pdy        float32 // join offsets at the previous point
	lx, ly          float32 // last point
	r               float32 // half stroke weight
}

// beginLine resets the renderer for a new contour.
func (sr *strokeRenderer) beginLine() {
	sr.lineVertexCount = 0
	sr.r = sr.canvas.strokeWeight * 0.5
}

// lineVertex feeds the next point of the contour. Exact repeats of the
// last point are ignored; they add nothing but edge cases.
func (sr *strokeRenderer) lineVertex(x, y float32) {
	c := sr.canvas

	if sr.lineVertexCount > 0 && x == sr.lx && y == sr.ly {
		return
	}

	if sr.lineVertexCount == 0 {
		sr.fx = x
		sr.fy = y
	} else if sr.r < lineDetailLimit {
		c.singleLine(sr.lx, sr.ly, x, y, c.strokeColor)
	} else if sr.lineVertexCount == 1 {
		sr.sx = x
		sr.sy = y
	} else {
		// Unit direction vectors for the two legs meeting at the
		// previous point.
		leg1 := math.Vec2{X: sr.lx - sr.px, Y: sr.ly - sr.py}.Normalize()
		leg2 := math.Vec2{X: x - sr.lx, Y: y - sr.ly}.Normalize()

		legDot := -leg1.Dot(leg2)
		if c.joinStyle == JoinBevel || c.joinStyle == JoinRound ||
			legDot > cosPiOver15 || legDot < -0.999 {
			// Flat join: bridge the offset quads, then fill the gap
			// with a bevel triangle or a round arc fan. The offsets are
			// the legs' clockwise perpendiculars at half weight.
			tv := leg1.Perp().Scale(-sr.r)

			if sr.lineVertexCount == 2 {
				sr.sdx = tv.X
				sr.sdy = tv.Y
			} else {
				c.triangle(sr.px-sr.pdx, sr.py-sr.pdy, sr.px+sr.pdx, sr.py+sr.pdy, sr.lx-tv.X, sr.ly-tv.Y, c.strokeColor)
				c.triangle(sr.px+sr.pdx, sr.py+sr.pdy, sr.lx-tv.X, sr.ly-tv.Y, sr.lx+tv.X, sr.ly+tv.Y, c.strokeColor)
			}

			nv := leg2.Perp().Scale(-sr.r)

			legCross := leg1.Cross(leg2)
			if c.joinStyle == JoinRound {
				if legCross > 0 {
					sr.arcJoin(sr.lx, sr.ly, tv.X, tv.Y, nv.X, nv.Y)
				} else {
					sr.arcJoin(sr.lx, sr.ly, -tv.X, -tv.Y, -nv.X, -nv.Y)
				}
			} else if legCross > 0 {
				c.triangle(sr.lx, sr.ly, sr.lx+tv.X, sr.ly+tv.Y, sr.lx+nv.X, sr.ly+nv.Y, c.strokeColor)
			} else {
				c.triangle(sr.lx, sr.ly, sr.lx-tv.X, sr.ly-tv.Y, sr.lx-nv.X, sr.ly-nv.Y, c.strokeColor)
			}

			sr.pdx = nv.X
			sr.pdy = nv.Y
		} else {
			// Miter join. The apex sits along the bisector of the two
			// legs; scaling by r over the bisector's projection onto a
			// leg perpendicular gives the correct miter length. Note
			// there is no clamp: near-parallel legs produce an
			// arbitrarily long spike, faithfully.
			bis := leg2.Sub(leg1)
			dot := -bis.Dot(leg1.Perp())
			bv := bis.Scale(sr.r / dot)

			if sr.lineVertexCount == 2 {
				sr.sdx = bv.X
				sr.sdy = bv.Y
			} else {
				c.triangle(sr.px-sr.pdx, sr.py-sr.pdy, sr.px+sr.pdx, sr.py+sr.pdy, sr.lx-bv.X, sr.ly-bv.Y, c.strokeColor)
				c.triangle(sr.px+sr.pdx, sr.py+sr.pdy, sr.lx-bv.X, sr.ly-bv.Y, sr.lx+bv.X, sr.ly+bv.Y, c.strokeColor)
			}

			sr.pdx = bv.X
			sr.pdy = bv.Y
		}
	}

	sr.px = sr.lx
	sr.py = sr.ly
	sr.lx = x
	sr.ly = y

	sr.lineVertexCount++
}

// arcJoin fills the join gap with a triangle fan between the two offset
// directions.
func (sr *strokeRenderer) arcJoin(x, y, dx1, dy1, dx2, dy2 float32) {
	c := sr.canvas

	// The offsets have equal length, so the products only need to feed
	// atan2; no normalization required.
	cross := dx1*dy2 - dy1*dx2
	dot := dx1*dx2 + dy1*dy2
	theta := atan2f(cross, dot)

	segments := c.circleDetail(sr.r, theta)
	px, py := x+dx1, y+dy1
	if segments > 1 {
		cs := cosf(theta / float32(segments))
		sn := sinf(theta / float32(segments))
		for i := 1; i < segments; i++ {
			dx1, dy1 = cs*dx1-sn*dy1, sn*dx1+cs*dy1
			nx := x + dx1
			ny := y + dy1
			c.triangle(x, y, px, py, nx, ny, c.strokeColor)
			px = nx
			py = ny
		}
	}
	c.triangle(x, y, px, py, x+dx2, y+dy2, c.strokeColor)
}

// lineCap draws a half-circle fan capping an endpoint, split into two
// quarter arcs on either side of the segment direction.
func (sr *strokeRenderer) lineCap(x, y, dx, dy float32) {
	c := sr.canvas

	segments := c.circleDetail(sr.r, halfPi)
	px, py := dy, -dx
	if segments > 1 {
		cs := cosf(halfPi / float32(segments))
		sn := sinf(halfPi / float32(segments))
		for i := 1; i < segments; i++ {
			nx := cs*px - sn*py
			ny := sn*px + cs*py
			c.triangle(x, y, x+px, y+py, x+nx, y+ny, c.strokeColor)
			c.triangle(x, y, x-py, y+px, x-ny, y+nx, c.strokeColor)
			px = nx
			py = ny
		}
	}
	c.triangle(x, y, x+px, y+py, x+dx, y+dy, c.strokeColor)
	c.triangle(x, y, x-py, y+px, x-dy, y+dx, c.strokeColor)
}

// endLine finishes the contour. closed synthesizes the wraparound
// joins at the first and second vertices; open finishes both ends with
// the configured cap style.
func (sr *strokeRenderer) endLine(closed bool) {
	c := sr.canvas

	if sr.lineVertexCount < 2 {
		return
	}

	if sr.lineVertexCount == 2 {
		c.singleLine(sr.px, sr.py, sr.lx, sr.ly, c.strokeColor)
		return
	}

	if sr.r < lineDetailLimit {
		if closed {
			c.singleLine(sr.lx, sr.ly, sr.fx, sr.fy, c.strokeColor)
		}
		return
	}

	if closed {
		// Replay the first two points to synthesize the last two joins.
		sr.lineVertex(sr.fx, sr.fy)
		sr.lineVertex(sr.sx, sr.sy)

		// Connect first and second vertices.
		c.triangle(sr.px-sr.pdx, sr.py-sr.pdy, sr.px+sr.pdx, sr.py+sr.pdy, sr.sx-sr.sdx, sr.sy-sr.sdy, c.strokeColor)
		c.triangle(sr.px+sr.pdx, sr.py+sr.pdy, sr.sx-sr.sdx, sr.sy-sr.sdy, sr.sx+sr.sdx, sr.sy+sr.sdy, c.strokeColor)
		return
	}

	// Draw the last segment, with its cap.
	dx := sr.lx - sr.px
	dy := sr.ly - sr.py
	d := sqrtf(dx*dx + dy*dy)
	tx := dy / d * sr.r
	ty := -dx / d * sr.r

	if c.capStyle == CapProject {
		sr.lx -= ty
		sr.ly += tx
	}

	c.triangle(sr.px-sr.pdx, sr.py-sr.pdy, sr.px+sr.pdx, sr.py+sr.pdy, sr.lx-tx, sr.ly-ty, c.strokeColor)
	c.triangle(sr.px+sr.pdx, sr.py+sr.pdy, sr.lx-tx, sr.ly-ty, sr.lx+tx, sr.ly+ty, c.strokeColor)

	if c.capStyle == CapRound {
		sr.lineCap(sr.lx, sr.ly, -ty, tx)
	}

	// Draw the first segment, with its cap.
	dx = sr.fx - sr.sx
	dy = sr.fy - sr.sy
	d = sqrtf(dx*dx + dy*dy)
	tx = dy / d * sr.r
	ty = -dx / d * sr.r

	if c.capStyle == CapProject {
		sr.fx -= ty
		sr.fy += tx
	}

	c.triangle(sr.sx-sr.sdx, sr.sy-sr.sdy, sr.sx+sr.sdx, sr.sy+sr.sdy, sr.fx+tx, sr.fy+ty, c.strokeColor)
	c.triangle(sr.sx+sr.sdx, sr.sy+sr.sdy, sr.fx+tx, sr.fy+ty, sr.fx-tx, sr.fy-ty, c.strokeColor)

	if c.capStyle == CapRound {
		sr.lineCap(sr.fx, sr.fy, -ty, tx)
	}
}

// singleLine draws one standalone segment as a capsule: a rectangle
// plus optional round or projecting caps.
func (c *Canvas) singleLine(x1, y1, x2, y2 float32, color Color) {
	r := c.strokeWeight * 0.5

	dx := x2 - x1
	dy := y2 - y1
	d := sqrtf(dx*dx + dy*dy)
	if d == 0 {
		return
	}
	tx := dy / d * r
	ty := dx / d * r

	if c.capStyle == CapProject {
		x1 -= ty
		x2 += ty
		y1 -= tx
		y2 += tx
	}

	c.triangle(x1-tx, y1+ty, x1+tx, y1-ty, x2-tx, y2+ty, color)
	c.triangle(x2+tx, y2-ty, x2-tx, y2+ty, x1+tx, y1-ty, color)

	if r >= lineDetailLimit && c.capStyle == CapRound {
		segments := c.circleDetail(r, halfPi)
		step := halfPi / float32(segments)
		cs := cosf(step)
		sn := sinf(step)
		for i := 0; i < segments; i++ {
			nx := cs*tx - sn*ty
			ny := sn*tx + cs*ty

			c.triangle(x2, y2, x2+ty, y2+tx, x2+ny, y2+nx, color)
			c.triangle(x2, y2, x2-tx, y2+ty, x2-nx, y2+ny, color)
			c.triangle(x1, y1, x1-ty, y1-tx, x1-ny, y1-nx, color)
			c.triangle(x1, y1, x1+tx, y1-ty, x1+nx, y1-ny, color)

			tx = nx
			ty = ny
		}
	}
}

// singlePoint draws one standalone dot: a round fan of eight octants
// when the cap is round and the size warrants it, a plain quad
// otherwise.
func (c *Canvas) singlePoint(x, y float32, color Color) {
	r := c.strokeWeight * 0.5

	if r >= lineDetailLimit && c.capStyle == CapRound {
		segments := c.circleDetail(r, quarterPi)
		step := quarterPi / float32(segments)

		x1, y1 := float32(0), r
		cs := cosf(step)
		sn := sinf(step)
		for i := 0; i < segments; i++ {
			x2 := cs*x1 - sn*y1
			y2 := sn*x1 + cs*y1

			c.triangle(x, y, x+x1, y+y1, x+x2, y+y2, color)
			c.triangle(x, y, x+x1, y-y1, x+x2, y-y2, color)
			c.triangle(x, y, x-x1, y+y1, x-x2, y+y2, color)
			c.triangle(x, y, x-x1, y-y1, x-x2, y-y2, color)

			c.triangle(x, y, x+y1, y+x1, x+y2, y+x2, color)
			c.triangle(x, y, x+y1, y-x1, x+y2, y-x2, color)
			c.triangle(x, y, x-y1, y+x1, x-y2, y+x2, color)
			c.triangle(x, y, x-y1, y-x1, x-y2, y-x2, color)

			x1 = x2
			y1 = y2
		}
	} else {
		c.triangle(x-r, y-r, x+r, y-r, x-r, y+r, color)
		c.triangle(x+r, y-r, x-r, y+r, x+r, y+r, color)
	}
}
