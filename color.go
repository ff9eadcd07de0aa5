package lutools

import "fmt"

// Color is an 8-bit straight-alpha RGBA value.
//
// Its in-memory byte order (R, G, B, A) is also the record layout of the
// cache file, so Hash equals the little-endian reading of a persisted record.
type Color struct {
	R, G, B, A uint8
}

// Opaque returns the fully opaque color (r, g, b).
func Opaque(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ColorFromHexRGB decodes a dense table index back into the opaque color it
// stands for. Bits above 24 are ignored.
func ColorFromHexRGB(i uint32) Color {
	return Color{R: uint8(i >> 16), G: uint8(i >> 8), B: uint8(i), A: 255}
}

// Channel returns channel i (0=R, 1=G, 2=B, 3=A). Any other index yields 0.
func (c Color) Channel(i int) uint8 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	case 3:
		return c.A
	default:
		return 0
	}
}

// Hash returns the raw 32-bit pattern of the color. It is meant for keying
// and equality only; use HexRGB or HexRGBA for a readable code.
func (c Color) Hash() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// HexRGB returns R<<16 | G<<8 | B, the index of c in a dense table.
func (c Color) HexRGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// HexRGBA returns R<<24 | G<<16 | B<<8 | A.
func (c Color) HexRGBA() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Equal reports whether all four channels match.
func (c Color) Equal(o Color) bool {
	return c.Hash() == o.Hash()
}

// RGBA implements image/color.Color. Color is straight alpha, so the
// channels are premultiplied here.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	a |= a << 8
	r = uint32(c.R)
	r |= r << 8
	r = r * a / 0xffff
	g = uint32(c.G)
	g |= g << 8
	g = g * a / 0xffff
	b = uint32(c.B)
	b |= b << 8
	b = b * a / 0xffff
	return r, g, b, a
}

func (c Color) String() string {
	return fmt.Sprintf("#%08X", c.HexRGBA())
}
