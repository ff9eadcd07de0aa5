package lutools

import (
	"fmt"
	stdimage "image"

	"golang.org/x/image/draw"

	"github.com/gogpu/lutools/internal/image"
	"github.com/gogpu/lutools/internal/parallel"
)

// GenerateLUTMap renders the identity lutmap: the pixel at
// MapPosition(c, axis, flip) holds c, for every opaque color c. Grading this
// image in any editor and feeding it back to Build captures the grade.
//
// scale enlarges the result by an integer factor with nearest-neighbour
// sampling; Build accepts only scale 1.
func GenerateLUTMap(axis Axis, flip bool, scale int) (*stdimage.NRGBA, error) {
	if scale < 1 {
		return nil, fmt.Errorf("%w: scale must be >= 1, got %d", ErrValidation, scale)
	}

	m := stdimage.NewNRGBA(stdimage.Rect(0, 0, MapSize, MapSize))

	pool := parallel.NewWorkerPool(0)
	defer pool.Close()

	// Each red value lands on its own set of pixels.
	pool.ForEach(256, func(r int) {
		for g := range 256 {
			for b := range 256 {
				x, y := MapPosition(Opaque(uint8(r), uint8(g), uint8(b)), axis, flip)
				off := m.PixOffset(x, y)
				m.Pix[off] = uint8(r)
				m.Pix[off+1] = uint8(g)
				m.Pix[off+2] = uint8(b)
				m.Pix[off+3] = 255
			}
		}
	})

	if scale == 1 {
		return m, nil
	}

	big := stdimage.NewNRGBA(stdimage.Rect(0, 0, MapSize*scale, MapSize*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), m, m.Bounds(), draw.Src, nil)
	return big, nil
}

// SaveLUTMap generates the identity lutmap and encodes it to path.
func SaveLUTMap(path string, axis Axis, flip bool, scale int, enc EncodeOptions) error {
	m, err := GenerateLUTMap(axis, flip, scale)
	if err != nil {
		return err
	}
	buf, err := image.FromRaw(m.Pix, m.Rect.Dx(), m.Rect.Dy())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := buf.Save(path, enc); err != nil {
		return classifyImageErr("save lutmap", err)
	}
	return nil
}
