package lutools

import (
	"bytes"
	stdimage "image"
	"time"

	"github.com/gogpu/lutools/internal/image"
	"github.com/gogpu/lutools/internal/parallel"
)

// Dense table geometry.
const (
	// Entries is the number of 24-bit RGB colors, one table entry each.
	Entries = 1 << 24

	// EntrySize is the size of one persisted entry (R, G, B, A).
	EntrySize = 4

	// CacheSize is the exact size of a raw cache file.
	CacheSize = Entries * EntrySize
)

// LUT is a dense, non-interpolated color table: one output color for each
// of the 16,777,216 RGB inputs, indexed by Color.HexRGB.
//
// The table lives in a single contiguous byte slice laid out exactly like
// the cache file. A LUT is read-only once built and may be shared by any
// number of goroutines without locking.
type LUT struct {
	data []byte
}

// NewLUT returns a zeroed table.
func NewLUT() *LUT {
	return &LUT{data: make([]byte, CacheSize)}
}

// NewIdentityLUT returns the table mapping every color to itself.
func NewIdentityLUT() *LUT {
	l := NewLUT()
	for i := range uint32(Entries) {
		l.Set(i, ColorFromHexRGB(i))
	}
	return l
}

// Entry returns the output for dense index i (i < Entries).
func (l *LUT) Entry(i uint32) Color {
	off := int(i&(Entries-1)) * EntrySize
	p := l.data[off : off+EntrySize : off+EntrySize]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// At returns the output for input c. Alpha of c is ignored.
func (l *LUT) At(c Color) Color {
	return l.Entry(c.HexRGB())
}

// Set stores c as the output for dense index i. Set is for building a
// table; it must not race with readers.
func (l *LUT) Set(i uint32, c Color) {
	off := int(i&(Entries-1)) * EntrySize
	p := l.data[off : off+EntrySize : off+EntrySize]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Bytes exposes the raw table in cache-file layout. The slice is shared.
func (l *LUT) Bytes() []byte {
	return l.data
}

// Equal reports whether two tables hold identical bytes.
func (l *LUT) Equal(o *LUT) bool {
	return bytes.Equal(l.data, o.data)
}

// Build samples a decoded lutmap into a dense table. The lutmap must be
// exactly MapSize×MapSize; anything else fails with ErrValidation before any
// sampling happens. Every stored entry is opaque.
func Build(m stdimage.Image, axis Axis) (*LUT, error) {
	b := m.Bounds()
	if err := checkMapSize(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return buildFromBuf(image.FromStdImage(m), axis), nil
}

// BuildFile decodes the lutmap at path and builds a table from it.
func BuildFile(path string, axis Axis) (*LUT, error) {
	buf, err := image.LoadImage(path)
	if err != nil {
		return nil, classifyImageErr("load lutmap", err)
	}
	if err := checkMapSize(buf.Width(), buf.Height()); err != nil {
		return nil, err
	}
	return buildFromBuf(buf, axis), nil
}

func checkMapSize(w, h int) error {
	if w != MapSize || h != MapSize {
		return &SizeError{Width: w, Height: h}
	}
	return nil
}

// buildFromBuf fills one table slice per red value on the worker pool.
// Slices write disjoint entries, so the result does not depend on scheduling.
func buildFromBuf(m *image.ImageBuf, axis Axis) *LUT {
	start := time.Now()
	l := NewLUT()

	pool := parallel.NewWorkerPool(0)
	defer pool.Close()

	pool.ForEach(256, func(r int) {
		for g := range 256 {
			for b := range 256 {
				c := Opaque(uint8(r), uint8(g), uint8(b))
				x, y := MapPosition(c, axis, true)
				sr, sg, sb, _ := m.ClampedRGBA(x, y)
				l.Set(c.HexRGB(), Opaque(sr, sg, sb))
			}
		}
	})

	logElapsed("lut build", start, "axis", axis.String())
	return l
}
