// Package tess triangulates multi-contour polygons under the nonzero
// winding rule. It is pure geometry with no GPU dependency: input
// contours carry interpolable attributes (texture coordinates, packed
// color, texture factor), and every vertex the tessellator synthesizes
// blends those attributes with the same weights as its position, so
// gradients survive splitting and merging.
package tess

import (
	gomath "math"
	"sort"

	"go.uber.org/zap"
)

// Vertex is one attributed contour point. Color is packed 0xAARRGGBB.
type Vertex struct {
	X, Y      float32
	U, V      float32
	Color     uint32
	TexFactor float32
}

// Tessellator converts contour rings into discrete triangles. The
// zero value is not usable; call New. Buffers are reused across calls,
// so a Tessellator must not be shared between goroutines.
type Tessellator struct {
	log *zap.Logger

	edges  []edge
	ys     []float64
	active []*edge
}

// New creates a tessellator. A nil logger disables diagnostics.
func New(log *zap.Logger) *Tessellator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tessellator{log: log}
}

// edge is a non-horizontal segment normalized so y0 < y1. winding is
// +1 when the contour traversed it downward (y increasing), -1 when
// upward. cuts are interior split points from mutual intersections.
type edge struct {
	x0, y0, x1, y1 float64
	v0, v1         Vertex
	winding        int
	cuts           []cut

	// Per-slab crossing positions, filled during the sweep.
	xa, xb, xm float64
}

// cut is an interior split point on an edge.
type cut struct {
	t    float64
	x, y float64
	v    Vertex
}

// Triangulate fills the area covered with nonzero winding by the given
// contours and streams the result as discrete triangles, never strips
// or fans. The first contour is conventionally the outer boundary and
// later ones holes or additional rings, but any mix of overlapping or
// self-intersecting contours is handled. Malformed contours (fewer
// than three distinct points, non-finite coordinates) are skipped with
// a diagnostic; they never fail the whole polygon.
func (t *Tessellator) Triangulate(contours [][]Vertex, emit func(a, b, c Vertex)) {
	t.edges = t.edges[:0]

	for i, ring := range contours {
		if !t.appendContour(ring) {
			t.log.Debug("skipping malformed contour", zap.Int("contour", i), zap.Int("points", len(ring)))
		}
	}
	if len(t.edges) == 0 {
		return
	}

	t.splitIntersections()
	t.sweep(emit)
}

// appendContour validates one ring and adds its non-horizontal edges.
// Reports whether the ring contributed anything.
func (t *Tessellator) appendContour(ring []Vertex) bool {
	if len(ring) < 3 {
		return false
	}
	for _, v := range ring {
		if !finite(v.X) || !finite(v.Y) {
			return false
		}
	}

	added := false
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		if a.Y == b.Y {
			// Horizontal edges never cross a sweep slab; the spans at
			// their height are bounded by the neighboring edges.
			continue
		}

		e := edge{winding: 1}
		if a.Y < b.Y {
			e.x0, e.y0, e.v0 = float64(a.X), float64(a.Y), a
			e.x1, e.y1, e.v1 = float64(b.X), float64(b.Y), b
		} else {
			e.x0, e.y0, e.v0 = float64(b.X), float64(b.Y), b
			e.x1, e.y1, e.v1 = float64(a.X), float64(a.Y), a
			e.winding = -1
		}
		t.edges = append(t.edges, e)
		added = true
	}
	return added
}

// splitIntersections finds every pairwise crossing between edges and
// splits both participants there, replacing t.edges with the split
// set. The synthesized vertex at a crossing blends the attributes of
// all four contributing endpoints, each endpoint weighted by half its
// share of the position interpolation on its own edge.
func (t *Tessellator) splitIntersections() {
	const eps = 1e-12

	for i := 0; i < len(t.edges); i++ {
		for j := i + 1; j < len(t.edges); j++ {
			a := &t.edges[i]
			b := &t.edges[j]

			adx := a.x1 - a.x0
			ady := a.y1 - a.y0
			bdx := b.x1 - b.x0
			bdy := b.y1 - b.y0

			den := adx*bdy - ady*bdx
			if gomath.Abs(den) < eps {
				continue // parallel
			}

			ta := ((b.x0-a.x0)*bdy - (b.y0-a.y0)*bdx) / den
			tb := ((b.x0-a.x0)*ady - (b.y0-a.y0)*adx) / den
			if ta < -eps || ta > 1+eps || tb < -eps || tb > 1+eps {
				continue
			}
			interiorA := ta > eps && ta < 1-eps
			interiorB := tb > eps && tb < 1-eps
			if !interiorA && !interiorB {
				continue // shared endpoint, nothing to split
			}

			x := a.x0 + adx*ta
			y := a.y0 + ady*ta

			var acc accum
			acc.add(0.5*(1-ta), a.v0)
			acc.add(0.5*ta, a.v1)
			acc.add(0.5*(1-tb), b.v0)
			acc.add(0.5*tb, b.v1)
			v := acc.vertex(float32(x), float32(y))

			if interiorA {
				a.cuts = append(a.cuts, cut{t: ta, x: x, y: y, v: v})
			}
			if interiorB {
				b.cuts = append(b.cuts, cut{t: tb, x: x, y: y, v: v})
			}
		}
	}

	split := t.edges[:0:0]
	for i := range t.edges {
		e := &t.edges[i]
		if len(e.cuts) == 0 {
			split = append(split, *e)
			continue
		}
		sort.Slice(e.cuts, func(a, b int) bool { return e.cuts[a].t < e.cuts[b].t })

		px, py, pv := e.x0, e.y0, e.v0
		for _, c := range e.cuts {
			appendSub(&split, e, px, py, pv, c.x, c.y, c.v)
			px, py, pv = c.x, c.y, c.v
		}
		appendSub(&split, e, px, py, pv, e.x1, e.y1, e.v1)
	}
	t.edges = split
}

func appendSub(dst *[]edge, e *edge, x0, y0 float64, v0 Vertex, x1, y1 float64, v1 Vertex) {
	if y0 == y1 {
		return
	}
	*dst = append(*dst, edge{
		x0: x0, y0: y0, v0: v0,
		x1: x1, y1: y1, v1: v1,
		winding: e.winding,
	})
}

// sweep walks horizontal slabs between consecutive edge-endpoint y
// values, fills the spans whose accumulated winding is nonzero, and
// emits each filled trapezoid as two triangles.
func (t *Tessellator) sweep(emit func(a, b, c Vertex)) {
	const eps = 1e-9

	t.ys = t.ys[:0]
	for i := range t.edges {
		t.ys = append(t.ys, t.edges[i].y0, t.edges[i].y1)
	}
	sort.Float64s(t.ys)

	for s := 0; s+1 < len(t.ys); s++ {
		ya := t.ys[s]
		yb := t.ys[s+1]
		if yb-ya < eps {
			continue
		}

		t.active = t.active[:0]
		for i := range t.edges {
			e := &t.edges[i]
			if e.y0 <= ya+eps && e.y1 >= yb-eps {
				e.xa = e.xAt(ya)
				e.xb = e.xAt(yb)
				e.xm = (e.xa + e.xb) / 2
				t.active = append(t.active, e)
			}
		}
		if len(t.active) < 2 {
			continue
		}
		sort.Slice(t.active, func(a, b int) bool { return t.active[a].xm < t.active[b].xm })

		winding := 0
		for i := 0; i+1 < len(t.active); i++ {
			winding += t.active[i].winding
			if winding == 0 {
				continue
			}
			l := t.active[i]
			r := t.active[i+1]

			la := l.at(ya)
			lb := l.at(yb)
			ra := r.at(ya)
			rb := r.at(yb)

			emitTriangle(emit, la, ra, rb)
			emitTriangle(emit, la, rb, lb)
		}
	}
}

// xAt returns the x coordinate of the edge at height y.
func (e *edge) xAt(y float64) float64 {
	t := (y - e.y0) / (e.y1 - e.y0)
	return e.x0 + (e.x1-e.x0)*t
}

// at synthesizes the edge's vertex at height y, attributes blended by
// the position weight.
func (e *edge) at(y float64) Vertex {
	t := (y - e.y0) / (e.y1 - e.y0)
	var acc accum
	acc.add(1-t, e.v0)
	acc.add(t, e.v1)
	return acc.vertex(float32(e.xAt(y)), float32(y))
}

// emitTriangle passes a triangle through unless it has no area.
func emitTriangle(emit func(a, b, c Vertex), a, b, c Vertex) {
	ax, ay := float64(a.X), float64(a.Y)
	cross := (float64(b.X)-ax)*(float64(c.Y)-ay) - (float64(b.Y)-ay)*(float64(c.X)-ax)
	if gomath.Abs(cross) < 1e-12 {
		return
	}
	emit(a, b, c)
}

// accum blends vertex attributes as a weighted sum. Color channels
// accumulate in float and convert back with round-to-nearest, clamped
// to [0, 255].
type accum struct {
	u, v, f    float64
	r, g, b, a float64
}

func (ac *accum) add(w float64, v Vertex) {
	ac.u += w * float64(v.U)
	ac.v += w * float64(v.V)
	ac.f += w * float64(v.TexFactor)
	ac.a += w * float64((v.Color>>24)&0xFF)
	ac.r += w * float64((v.Color>>16)&0xFF)
	ac.g += w * float64((v.Color>>8)&0xFF)
	ac.b += w * float64(v.Color&0xFF)
}

func (ac *accum) vertex(x, y float32) Vertex {
	return Vertex{
		X: x, Y: y,
		U: float32(ac.u), V: float32(ac.v),
		TexFactor: float32(ac.f),
		Color: channel(ac.a)<<24 | channel(ac.r)<<16 |
			channel(ac.g)<<8 | channel(ac.b),
	}
}

// channel rounds an accumulated 8-bit channel to nearest and clamps to
// the valid range.
func channel(f float64) uint32 {
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint32(gomath.Floor(f + 0.5))
}

func finite(f float32) bool {
	f64 := float64(f)
	return !gomath.IsNaN(f64) && !gomath.IsInf(f64, 0)
}
