package lutools

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultCubeSize is the grid resolution used when none is given.
const DefaultCubeSize = 25

// WriteCube writes l as a .cube 3D LUT with size points per axis.
//
// Grid points come from SampleSpan(0, 255, size) and are looked up directly,
// without interpolation. Data lines run red fastest, blue slowest, each
// channel as a float in [0, 1] with six decimals.
func WriteCube(w io.Writer, l *LUT, title string, size int) error {
	points, err := SampleSpan(0, 255, size)
	if err != nil {
		return err
	}

	start := time.Now()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Created with lutools\n\n")
	fmt.Fprintf(bw, "TITLE %s\n", title)
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n\n", size)

	line := make([]byte, 0, 32)
	for _, b := range points {
		for _, g := range points {
			for _, r := range points {
				out := l.At(Opaque(uint8(r), uint8(g), uint8(b)))
				line = appendUnit(line[:0], out.R)
				line = append(line, ' ')
				line = appendUnit(line, out.G)
				line = append(line, ' ')
				line = appendUnit(line, out.B)
				line = append(line, '\n')
				_, _ = bw.Write(line)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: write cube: %w", ErrIO, err)
	}

	logElapsed("cube export", start, "size", size)
	return nil
}

// appendUnit appends v/255 with six decimals.
func appendUnit(dst []byte, v uint8) []byte {
	return strconv.AppendFloat(dst, float64(v)/255, 'f', 6, 64)
}

// SaveCube writes the table to path as a .cube file titled with the base
// name of path.
func (l *LUT) SaveCube(path string, size int) (err error) {
	if _, err := SampleSpan(0, 255, size); err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: create cube: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close cube: %w", ErrIO, cerr)
		}
	}()

	return WriteCube(f, l, BaseName(path), size)
}
