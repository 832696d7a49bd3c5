package canvas

import (
	gomath "math"

	"go.uber.org/zap"
)

// Packed vertex layout. Seven float32 per vertex, 28-byte stride:
//
//	offset  0  position   3 x float32 (x, y, depth)
//	offset 12  texCoord   2 x float32 (u, v)
//	offset 20  color      4 x uint8, normalized (r, g, b, a)
//	offset 24  texFactor  1 x float32 (0 flat, 1 textured)
const (
	vertexFloats    = 7
	vertexStride    = vertexFloats * 4
	posOffset       = 0
	texCoordOffset  = 3 * 4
	colorOffset     = 5 * 4
	texFactorOffset = 6 * 4
)

// reserve guarantees room for n more vertices, flushing first when the
// batch would overflow.
func (c *Canvas) reserve(n int) {
	if c.usedVerts+n > c.maxVerts {
		c.flushBuffer()
	}
}

// vertexImpl writes one vertex into the next free batch slot. The
// caller must have reserved space. In premultiply mode the position is
// transformed on the CPU here.
func (c *Canvas) vertexImpl(x, y, u, v float32, color Color, texFactor float32) {
	if c.premultiply {
		x, y = c.transform.TransformXY(x, y)
	}

	idx := c.usedVerts * vertexFloats
	c.verts[idx+0] = x
	c.verts[idx+1] = y
	c.verts[idx+2] = c.depth.current()
	c.verts[idx+3] = u
	c.verts[idx+4] = v
	c.verts[idx+5] = gomath.Float32frombits(color.streamBits())
	c.verts[idx+6] = texFactor
	c.usedVerts++
}

// triangle appends one flat-colored triangle.
func (c *Canvas) triangle(x1, y1, x2, y2, x3, y3 float32, color Color) {
	c.reserve(3)
	c.vertexImpl(x1, y1, 0, 0, color, 0)
	c.vertexImpl(x2, y2, 0, 0, color, 0)
	c.vertexImpl(x3, y3, 0, 0, color, 0)
}

// bindTexture makes id the batch's texture, flushing pending geometry
// when it differs from the currently bound one. A batch never mixes
// textures.
func (c *Canvas) bindTexture(id uint32) {
	if id == c.tex {
		return
	}

	c.flushBuffer()
	c.tex = id
}

// Flush submits any pending geometry to the GPU immediately. Drawing
// normally flushes on its own at capacity, texture and shader
// boundaries; this is for hosts that interleave their own GPU work.
func (c *Canvas) Flush() {
	c.flushBuffer()
}

// flushBuffer uploads the used prefix of the vertex array and issues
// exactly one triangle-list draw call. No-op when the batch is empty.
func (c *Canvas) flushBuffer() {
	if c.usedVerts == 0 {
		return
	}

	if c.vbo == 0 {
		c.vbo = c.backend.GenBuffer()
	}

	c.backend.BindArrayBuffer(c.vbo)
	c.backend.BufferData(c.verts[:c.usedVerts*vertexFloats])

	program, locs, err := c.resolveShader()
	if err != nil {
		// Draw nothing for this batch rather than failing the frame.
		c.log.Warn("dropping batch: no usable 2D shader", zap.Error(err))
		c.usedVerts = 0
		return
	}

	c.backend.UseProgram(program)
	c.setAttribs(locs)
	c.loadUniforms(locs)

	c.backend.DrawTriangles(int32(c.usedVerts))

	c.usedVerts = 0
	c.backend.UseProgram(0)
}

// setAttribs binds the packed attribute layout. Color, texCoord and
// texFactor are optional in host-supplied shaders.
func (c *Canvas) setAttribs(locs shaderLocs) {
	c.backend.VertexAttribFloat(locs.position, 3, vertexStride, posOffset)
	c.backend.EnableVertexAttrib(locs.position)
	if locs.texCoord >= 0 {
		c.backend.VertexAttribFloat(locs.texCoord, 2, vertexStride, texCoordOffset)
		c.backend.EnableVertexAttrib(locs.texCoord)
	}
	if locs.color >= 0 {
		c.backend.VertexAttribUByte(locs.color, 4, vertexStride, colorOffset)
		c.backend.EnableVertexAttrib(locs.color)
	}
	if locs.texFactor >= 0 {
		c.backend.VertexAttribFloat(locs.texFactor, 1, vertexStride, texFactorOffset)
		c.backend.EnableVertexAttrib(locs.texFactor)
	}
}

func (c *Canvas) loadUniforms(locs shaderLocs) {
	if c.premultiply {
		c.backend.UniformMatrix4(locs.transform, identityMat)
	} else {
		c.backend.UniformMatrix4(locs.transform, c.transform)
	}

	c.backend.BindTexture2D(c.tex)
	if locs.texMap >= 0 {
		c.backend.Uniform1i(locs.texMap, 0)
	}
	if locs.texScale >= 0 {
		// UV scaling applies to user images only; glyph pages arrive
		// with normalized coordinates already.
		if c.tex == c.imageTex && c.texW > 0 && c.texH > 0 {
			c.backend.Uniform2f(locs.texScale, 1/float32(c.texW), 1/float32(c.texH))
		} else {
			c.backend.Uniform2f(locs.texScale, 1, 1)
		}
	}
}
