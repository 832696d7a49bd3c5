package canvas

import "github.com/Faultbox/vecgl/pkg/tess"

// tessState owns the polygon tessellator and the reusable contour
// buffers handed to it.
type tessState struct {
	t        *tess.Tessellator
	contours [][]tess.Vertex
}

func (ts *tessState) init(c *Canvas) {
	ts.t = tess.New(c.log)
}

// tessellatePolygon routes a non-convex (or multi-contour) Polygon
// shape through the nonzero-winding tessellator and streams the
// resulting triangles into the batch.
func (c *Canvas) tessellatePolygon() {
	ts := &c.tess
	ts.contours = ts.contours[:0]

	contour := 0
	var current []tess.Vertex
	for i := 0; i < c.vertCount; i++ {
		if c.contours[contour] == i {
			if len(current) > 0 {
				ts.contours = append(ts.contours, current)
			}
			current = nil
			contour++
		}
		v := &c.shapeVerts[i]
		current = append(current, tess.Vertex{
			X: v.x, Y: v.y,
			U: v.u, V: v.v,
			Color:     uint32(v.color),
			TexFactor: v.texFactor,
		})
	}
	if len(current) > 0 {
		ts.contours = append(ts.contours, current)
	}

	ts.t.Triangulate(ts.contours, func(a, b, t tess.Vertex) {
		c.reserve(3)
		c.emitTessVert(a)
		c.emitTessVert(b)
		c.emitTessVert(t)
	})
}

func (c *Canvas) emitTessVert(v tess.Vertex) {
	c.vertexImpl(v.X, v.Y, v.U, v.V, Color(v.Color), v.TexFactor)
}
