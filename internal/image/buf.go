// Package image provides the raster buffer and codec layer for lutools.
//
// Every decoded image is normalized to a single layout: 8-bit,
// non-premultiplied RGBA, rows packed back to back. Pixel remapping works
// directly on that byte slice, so the layout is part of the package contract.
package image

import "errors"

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")
)

// ImageBuf is a contiguous RGBA8 (non-premultiplied) pixel buffer.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write operations
// (direct Data mutation) require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
}

// NewImageBuf creates a new zeroed image buffer with the given dimensions.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	stride := width * BytesPerPixel
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// FromRaw wraps existing RGBA8 data without copying.
// The caller must ensure data remains valid for the lifetime of the ImageBuf.
func FromRaw(data []byte, width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	stride := width * BytesPerPixel
	required := stride * height
	if len(data) < required {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:required],
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Pixels returns the total number of pixels.
func (b *ImageBuf) Pixels() int {
	return b.width * b.height
}

// Data returns the raw pixel data slice, RGBA order, no row padding.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.width*BytesPerPixel]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*BytesPerPixel
}

// GetRGBA returns the color at (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+BytesPerPixel : off+BytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// ClampedRGBA returns the color at (x, y) with out-of-range coordinates
// clamped to the nearest edge pixel.
func (b *ImageBuf) ClampedRGBA(x, y int) (r, g, bl, a uint8) {
	return b.GetRGBA(min(max(x, 0), b.width-1), min(max(y, 0), b.height-1))
}

// IsOpaque reports whether every pixel has alpha 255.
func (b *ImageBuf) IsOpaque() bool {
	for i := 3; i < len(b.data); i += BytesPerPixel {
		if b.data[i] != 255 {
			return false
		}
	}
	return true
}
