package lutools

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// invert returns the channel-wise complement of c, opaque.
func invert(c Color) Color {
	return Opaque(255-c.R, 255-c.G, 255-c.B)
}

// newInvertLUT returns the table mapping every color to its complement.
func newInvertLUT() *LUT {
	l := NewLUT()
	for i := range uint32(Entries) {
		l.Set(i, invert(ColorFromHexRGB(i)))
	}
	return l
}

// sizedImage reports bounds without any pixels. At panics, so any sampling
// attempt fails the test.
type sizedImage struct {
	w, h int
}

func (s sizedImage) ColorModel() color.Model { return color.NRGBAModel }
func (s sizedImage) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }
func (s sizedImage) At(x, y int) color.Color { panic("sizedImage: At called") }

// gradientImage returns a w×h image where every pixel differs, with
// alpha varying by row.
func gradientImage(w, h, seed int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*7 + seed),
				G: uint8(y*13 + seed*3),
				B: uint8(x*y + seed*5),
				A: uint8(255 - y%4*40),
			})
		}
	}
	return img
}

// writePNG encodes img to dir/name and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// readNRGBA decodes the image at path into straight-alpha pixels.
func readNRGBA(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
