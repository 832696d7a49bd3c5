package canvas

// Depth layering constants, derived from half (16-bit) float precision,
// which is how mobile depth buffers are commonly initialized. The step
// is the smallest positive normal half float; the floor is the largest
// half float below one.
const (
	depthStep  = 1.0 / (1 << 14)
	depthFloor = 1.0 - 1.0/(1<<11)
)

// depthAllocator hands out strictly decreasing depth values so that 2D
// primitives drawn later occlude primitives drawn earlier under a LESS
// depth test. When the cursor runs out of range, the epoch ends: the
// onEpochEnd hook fires (flush pending geometry, clear the depth
// buffer) and the cursor restarts at 1.0. One epoch is good for
// (1 + 1 - 2^-11) / 2^-14 = 32,760 layers.
type depthAllocator struct {
	cursor     float32
	onEpochEnd func()
}

// reset starts a fresh epoch without side effects (frame start).
func (d *depthAllocator) reset() {
	d.cursor = 1.0
}

// next returns the depth value for the next logical primitive. Values
// within an epoch are strictly decreasing.
func (d *depthAllocator) next() float32 {
	if d.cursor < -depthFloor {
		if d.onEpochEnd != nil {
			d.onEpochEnd()
		}
		// The depth test fails at exactly 1.0 after a clear, but the
		// cursor always steps down before any geometry is stamped.
		d.cursor = 1.0
	}

	d.cursor -= depthStep
	return d.cursor
}

// current returns the value handed out by the last next call.
func (d *depthAllocator) current() float32 {
	return d.cursor
}
