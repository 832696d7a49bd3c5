package canvas

// Color is a packed 32-bit color in 0xAARRGGBB order, matching the
// order used throughout the public API. The vertex stream stores colors
// as four normalized bytes in RGBA memory order; see streamBits.
type Color uint32

// Common colors.
const (
	White       Color = 0xFFFFFFFF
	Black       Color = 0xFF000000
	Transparent Color = 0x00000000
)

// RGB returns an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// RGBA returns a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(a)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Channels returns the 8-bit channels of the color.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// streamBits converts the color to the byte order of the packed vertex
// attribute: r, g, b, a ascending in memory on a little-endian machine.
func (c Color) streamBits() uint32 {
	r, g, b, a := c.Channels()
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}
