package image

// setPixel writes one RGBA8 pixel; (x, y) must be in bounds.
func setPixel(b *ImageBuf, x, y int, r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	copy(b.data[off:off+BytesPerPixel], []byte{r, g, bl, a})
}

// fillPixels sets every pixel of b to one color.
func fillPixels(b *ImageBuf, r, g, bl, a uint8) {
	for y := range b.height {
		for x := range b.width {
			setPixel(b, x, y, r, g, bl, a)
		}
	}
}
