package canvas

import "github.com/Faultbox/vecgl/pkg/math"

// Backend is the narrow GPU surface the canvas draws through. It maps
// one-to-one onto the OpenGL calls the renderer needs and nothing more,
// so tests can substitute a recording implementation.
//
// All methods must be called from the thread owning the GL context.
type Backend interface {
	// GenBuffer creates a buffer object and returns its id.
	GenBuffer() uint32
	// BindArrayBuffer binds a buffer to the array-buffer target.
	BindArrayBuffer(id uint32)
	// BufferData uploads the given floats to the bound array buffer.
	BufferData(data []float32)

	// CompileProgram compiles and links a shader program from GLSL sources.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	// UseProgram makes the given program current. Zero unbinds.
	UseProgram(program uint32)
	// AttribLocation returns the location of a vertex attribute, -1 if absent.
	AttribLocation(program uint32, name string) int32
	// UniformLocation returns the location of a uniform, -1 if absent.
	UniformLocation(program uint32, name string) int32

	// VertexAttribFloat binds a float attribute within a packed stride.
	// offset is in bytes.
	VertexAttribFloat(loc int32, size int32, stride int32, offset int)
	// VertexAttribUByte binds a normalized unsigned-byte attribute within
	// a packed stride. offset is in bytes.
	VertexAttribUByte(loc int32, size int32, stride int32, offset int)
	// EnableVertexAttrib enables an attribute array.
	EnableVertexAttrib(loc int32)

	// UniformMatrix4 uploads a 4x4 matrix uniform.
	UniformMatrix4(loc int32, m math.Mat4)
	// Uniform2f uploads a vec2 uniform.
	Uniform2f(loc int32, x, y float32)
	// Uniform1i uploads an int uniform (sampler bindings).
	Uniform1i(loc int32, v int32)

	// BindTexture2D binds a 2D texture to unit 0.
	BindTexture2D(id uint32)

	// DrawTriangles issues one triangle-list draw call over the first
	// count vertices of the bound buffer.
	DrawTriangles(count int32)

	// DepthFuncLess enables depth testing with the LESS comparison.
	DepthFuncLess()
	// ClearDepth clears the depth buffer.
	ClearDepth()
	// ClearColor clears the color buffer to the given color.
	ClearColor(r, g, b, a float32)
	// Viewport sets the drawable area in pixels.
	Viewport(width, height int32)
}

// Texture identifies a GPU texture along with its pixel dimensions,
// which the canvas needs to normalize pixel-space UVs.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}
