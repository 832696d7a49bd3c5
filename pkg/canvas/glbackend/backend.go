// Package glbackend implements the canvas backend over OpenGL 4.1
// core. The core profile requires a vertex array object, which the
// backend owns; everything else maps straight onto GL calls.
package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/vecgl/pkg/math"
)

// Backend issues the canvas's GPU work through go-gl. Construct with
// New after the GL context is current.
type Backend struct {
	vao uint32
}

// New initializes OpenGL function pointers and creates the backend's
// vertex array. The calling goroutine must own a current GL context.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	b := &Backend{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return b, nil
}

// Close releases the backend's GL resources.
func (b *Backend) Close() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

// GenBuffer creates a buffer object.
func (b *Backend) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

// BindArrayBuffer binds a buffer to GL_ARRAY_BUFFER.
func (b *Backend) BindArrayBuffer(id uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
}

// BufferData uploads floats to the bound array buffer as stream data.
func (b *Backend) BufferData(data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STREAM_DRAW)
}

// CompileProgram compiles and links a shader program.
func (b *Backend) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// UseProgram makes the given program current.
func (b *Backend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// AttribLocation returns a vertex attribute location, -1 if absent.
func (b *Backend) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

// UniformLocation returns a uniform location, -1 if absent.
func (b *Backend) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// VertexAttribFloat binds a float attribute within a packed stride.
func (b *Backend) VertexAttribFloat(loc int32, size int32, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, stride, uintptr(offset))
}

// VertexAttribUByte binds a normalized unsigned-byte attribute.
func (b *Backend) VertexAttribUByte(loc int32, size int32, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.UNSIGNED_BYTE, true, stride, uintptr(offset))
}

// EnableVertexAttrib enables an attribute array.
func (b *Backend) EnableVertexAttrib(loc int32) {
	gl.EnableVertexAttribArray(uint32(loc))
}

// UniformMatrix4 uploads a 4x4 matrix uniform.
func (b *Backend) UniformMatrix4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

// Uniform2f uploads a vec2 uniform.
func (b *Backend) Uniform2f(loc int32, x, y float32) {
	gl.Uniform2f(loc, x, y)
}

// Uniform1i uploads an int uniform.
func (b *Backend) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

// BindTexture2D binds a texture to unit 0.
func (b *Backend) BindTexture2D(id uint32) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
}

// DrawTriangles draws the first count vertices as a triangle list.
func (b *Backend) DrawTriangles(count int32) {
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

// DepthFuncLess enables depth testing with the LESS comparison.
func (b *Backend) DepthFuncLess() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

// ClearDepth clears the depth buffer.
func (b *Backend) ClearDepth() {
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// ClearColor clears the color buffer to the given color.
func (b *Backend) ClearColor(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Viewport sets the drawable area in pixels.
func (b *Backend) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}
