package math

import "math"

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection matrix.
// left, right, bottom, top define the view frustum boundaries.
// near and far define the depth range.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// Ortho2D returns a pixel-space projection for a y-down 2D canvas of the
// given size. Depth values in [-1, 1] pass through unscaled so layering
// survives the projection.
func Ortho2D(width, height float32) Mat4 {
	return Mat4{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
}

// Translate returns a 2D translation matrix.
func Translate(x, y float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, 0, 1,
	}
}

// Scale returns a 2D scale matrix.
func Scale(x, y float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate returns a rotation matrix around the Z axis (the only rotation
// meaningful on a 2D plane). angle is in radians.
func Rotate(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ShearX returns a shear matrix along the X axis. angle is in radians.
func ShearX(angle float32) Mat4 {
	t := float32(math.Tan(float64(angle)))
	return Mat4{
		1, 0, 0, 0,
		t, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ShearY returns a shear matrix along the Y axis. angle is in radians.
func ShearY(angle float32) Mat4 {
	t := float32(math.Tan(float64(angle)))
	return Mat4{
		1, t, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformXY transforms a 2D point by this matrix, ignoring z and
// assuming w=1. This is the hot path for premultiplied vertex submission.
func (m Mat4) TransformXY(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12],
		m[1]*x + m[5]*y + m[13]
}

// ColScales returns the magnitudes of the upper-left 2x2 columns, i.e.
// how much the matrix stretches the plane's x and y basis vectors.
func (m Mat4) ColScales() (float32, float32) {
	cx := float32(math.Sqrt(float64(m[0]*m[0] + m[1]*m[1])))
	cy := float32(math.Sqrt(float64(m[4]*m[4] + m[5]*m[5])))
	return cx, cy
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
