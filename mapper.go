package lutools

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LUT map geometry: 16×16 tiles of 256×256 pixels.
const (
	MapSize     = 4096
	TileSize    = 256
	TilesPerRow = MapSize / TileSize
)

// Axis selects the channel that varies tile by tile across a lutmap.
// The other two channels vary inside each tile, so the slice channel is the
// one that absorbs most of the loss when a lutmap goes through a lossy codec.
type Axis uint8

// Axis values.
const (
	AxisR Axis = iota
	AxisG
	AxisB
)

// DefaultAxis is used when a lutmap path carries no axis token.
const DefaultAxis = AxisB

// axisRoles lists, per axis, the channel indices acting as
// (slice, horizontal, vertical).
var axisRoles = [3][3]int{
	AxisR: {0, 1, 2},
	AxisG: {1, 2, 0},
	AxisB: {2, 0, 1},
}

func (a Axis) String() string {
	switch a {
	case AxisR:
		return "r"
	case AxisG:
		return "g"
	case AxisB:
		return "b"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// ParseAxis parses "r", "g" or "b" (any case).
func ParseAxis(token string) (Axis, error) {
	switch strings.ToLower(token) {
	case "r":
		return AxisR, nil
	case "g":
		return AxisG, nil
	case "b":
		return AxisB, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q (want r, g or b)", ErrValidation, token)
}

// AxisFromPath reads the axis from the secondary extension of a lutmap
// path ("film.g.png" → AxisG). Anything else yields DefaultAxis.
func AxisFromPath(path string) Axis {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	token := strings.TrimPrefix(filepath.Ext(stem), ".")
	if a, err := ParseAxis(token); err == nil {
		return a
	}
	return DefaultAxis
}

// MapPosition returns the lutmap pixel holding color c.
//
// The slice channel picks the tile (high nibble → tile row, low nibble →
// tile column); the horizontal and vertical channels address the pixel
// within the tile. With flip set, tiles in odd columns are mirrored
// horizontally and tiles in odd rows vertically, so neighbouring tiles meet
// at similar colors. The result is always inside [0, MapSize)².
// Only the channel roles depend on axis; alpha is ignored.
func MapPosition(c Color, axis Axis, flip bool) (x, y int) {
	roles := axisRoles[axis%3]
	slice := int(c.Channel(roles[0]))
	h := int(c.Channel(roles[1]))
	v := int(c.Channel(roles[2]))

	quot := slice >> 4
	rem := slice & 15

	if flip && slice&1 != 0 {
		h = 255 - h
	}
	if flip && quot&1 != 0 {
		v = 255 - v
	}
	return rem<<8 + h, quot<<8 + v
}
