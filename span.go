package lutools

import (
	"fmt"
	"math"
)

// SampleSpan returns count integers evenly spaced over [begin, end], each
// rounded to the nearest integer (halves away from zero). The first element
// is begin and the last is end. count must be at least 2.
func SampleSpan(begin, end, count int) ([]int, error) {
	if count < 2 {
		return nil, fmt.Errorf("%w: need at least 2 sample points, got %d", ErrValidation, count)
	}

	step := float64(end-begin) / float64(count-1)
	points := make([]int, count)
	for i := range count - 1 {
		points[i] = int(math.Round(float64(begin) + float64(i)*step))
	}
	points[count-1] = end
	return points, nil
}
