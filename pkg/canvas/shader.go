package canvas

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/vecgl/pkg/canvas/shaders"
	"github.com/Faultbox/vecgl/pkg/math"
)

var identityMat = math.Identity()

// shaderLocs caches the attribute and uniform locations of the active
// program. position and transform are mandatory; the rest degrade to -1
// when a host shader omits them.
type shaderLocs struct {
	position  int32
	color     int32
	texCoord  int32
	texFactor int32

	transform int32
	texScale  int32
	texMap    int32
}

type shaderState struct {
	// custom is the host-supplied program, zero when unset.
	custom uint32
	// def is the lazily compiled default program.
	def        uint32
	defErr     error
	defTried   bool
	activeLocs shaderLocs
	activeProg uint32
}

// SetShader uses a host-supplied program for subsequent drawing. The
// program must expose a "position" (or legacy "vertex") attribute and a
// "transform" (or "transformMatrix") uniform; otherwise a warning is
// logged and the previous shader stays active. Pending geometry drawn
// with the previous shader is flushed first.
func (c *Canvas) SetShader(program uint32) {
	c.flushBuffer()

	if !c.checkShaderLocs(program) {
		c.log.Warn("shader cannot be used for 2D rendering: missing position attribute or transform uniform",
			zap.Uint32("program", program))
		return
	}
	c.shader.custom = program
}

// ResetShader reverts to the default 2D shader.
func (c *Canvas) ResetShader() {
	c.flushBuffer()
	c.shader.custom = 0
}

// checkShaderLocs reports whether the program satisfies the minimum 2D
// shader contract.
func (c *Canvas) checkShaderLocs(program uint32) bool {
	position := c.backend.AttribLocation(program, "position")
	if position == -1 {
		position = c.backend.AttribLocation(program, "vertex")
	}
	transform := c.backend.UniformLocation(program, "transform")
	if transform == -1 {
		transform = c.backend.UniformLocation(program, "transformMatrix")
	}
	return position != -1 && transform != -1
}

// loadShaderLocs resolves all attribute and uniform locations for the
// given program, tolerating absent optional ones.
func (c *Canvas) loadShaderLocs(program uint32) shaderLocs {
	locs := shaderLocs{}
	locs.position = c.backend.AttribLocation(program, "position")
	if locs.position == -1 {
		locs.position = c.backend.AttribLocation(program, "vertex")
	}
	locs.color = c.backend.AttribLocation(program, "color")
	locs.texCoord = c.backend.AttribLocation(program, "texCoord")
	locs.texFactor = c.backend.AttribLocation(program, "texFactor")
	locs.transform = c.backend.UniformLocation(program, "transform")
	if locs.transform == -1 {
		locs.transform = c.backend.UniformLocation(program, "transformMatrix")
	}
	locs.texScale = c.backend.UniformLocation(program, "texScale")
	if locs.texScale == -1 {
		locs.texScale = c.backend.UniformLocation(program, "texOffset")
	}
	locs.texMap = c.backend.UniformLocation(program, "texMap")
	return locs
}

// resolveShader returns the program to flush with: the host shader when
// set, otherwise the default program compiled on first use from the
// embedded sources.
func (c *Canvas) resolveShader() (uint32, shaderLocs, error) {
	program := c.shader.custom
	if program == 0 {
		if !c.shader.defTried {
			c.shader.defTried = true
			c.shader.def, c.shader.defErr = c.backend.CompileProgram(shaders.Vertex, shaders.Fragment)
			if c.shader.defErr != nil {
				c.shader.defErr = fmt.Errorf("compile default 2D shader: %w", c.shader.defErr)
			}
		}
		if c.shader.defErr != nil {
			return 0, shaderLocs{}, c.shader.defErr
		}
		program = c.shader.def
	}

	if program != c.shader.activeProg {
		c.shader.activeLocs = c.loadShaderLocs(program)
		c.shader.activeProg = program
	}
	return program, c.shader.activeLocs, nil
}
