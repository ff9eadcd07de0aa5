package lutools

import (
	"errors"
	"fmt"

	"github.com/gogpu/lutools/internal/image"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrValidation is returned for bad arguments: wrong lutmap dimensions,
	// fewer than two sample points, unknown axis token.
	ErrValidation = errors.New("lutools: validation failed")

	// ErrIO is returned when a cache, cube or image file cannot be opened,
	// created, read or written.
	ErrIO = errors.New("lutools: i/o failed")

	// ErrFormat is returned for a cache file shorter than a full table or an
	// image that cannot be decoded.
	ErrFormat = errors.New("lutools: bad format")

	// ErrEncodeUnsupported is returned when no encoder exists for the
	// requested output extension.
	ErrEncodeUnsupported = image.ErrUnsupportedFormat
)

// classifyImageErr tags an error from the image codec with its kind.
func classifyImageErr(op string, err error) error {
	switch {
	case errors.Is(err, image.ErrUnsupportedFormat):
		return fmt.Errorf("lutools: %s: %w", op, err)
	case errors.Is(err, image.ErrDecode):
		return fmt.Errorf("%w: %s: %w", ErrFormat, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
	}
}

// SizeError reports a lutmap whose dimensions are not MapSize×MapSize.
// It matches ErrValidation.
type SizeError struct {
	Width, Height int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("lutools: lutmap must be %dx%d, got %dx%d", MapSize, MapSize, e.Width, e.Height)
}

// Is makes errors.Is(err, ErrValidation) hold for a *SizeError.
func (e *SizeError) Is(target error) bool {
	return target == ErrValidation
}
