package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaRLETrueColor = 10
	tgaRLEGray      = 11
)

const (
	tgaHeaderSize = 18

	// Descriptor bits: low nibble is the alpha depth, bit 4 right-to-left,
	// bit 5 top-to-bottom.
	tgaRightToLeft = 0x10
	tgaTopToBottom = 0x20

	// maxTGAPixels bounds the decoded size (512 MiB of RGBA8).
	maxTGAPixels = 1 << 27

	// tgaPrealloc caps the pixel buffer reserved before any data is read.
	tgaPrealloc = 1 << 20
)

var errTGAType = errors.New("unsupported TGA image type")

// encodeTGA writes an uncompressed top-left-origin TGA: 24-bit BGR when
// every pixel is opaque, 32-bit BGRA otherwise.
func encodeTGA(w io.Writer, b *ImageBuf, _ EncodeOptions) error {
	if b.width > 0xFFFF || b.height > 0xFFFF {
		return fmt.Errorf("image: encode TGA: %w", ErrInvalidDimensions)
	}

	bpp, alphaBits := 4, byte(8)
	if b.IsOpaque() {
		bpp, alphaBits = 3, 0
	}

	var hdr [tgaHeaderSize]byte
	hdr[2] = tgaTrueColor
	binary.LittleEndian.PutUint16(hdr[12:], uint16(b.width))  //nolint:gosec // checked above
	binary.LittleEndian.PutUint16(hdr[14:], uint16(b.height)) //nolint:gosec // checked above
	hdr[16] = byte(bpp * 8)
	hdr[17] = tgaTopToBottom | alphaBits
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("image: encode TGA: %w", err)
	}

	row := make([]byte, b.width*bpp)
	for y := range b.height {
		src := b.RowBytes(y)
		for x := range b.width {
			s := src[x*BytesPerPixel:]
			d := row[x*bpp:]
			d[0], d[1], d[2] = s[2], s[1], s[0]
			if bpp == 4 {
				d[3] = s[3]
			}
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("image: encode TGA: %w", err)
		}
	}
	return nil
}

// DecodeTGA decodes an uncompressed or RLE true-color (24/32-bit) or
// grayscale (8-bit) TGA image. Color-mapped images are not supported.
func DecodeTGA(r io.Reader) (*ImageBuf, error) {
	var hdr [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: tga header: %w", ErrDecode, err)
	}

	idLen := int(hdr[0])
	imageType := hdr[2]
	width := int(binary.LittleEndian.Uint16(hdr[12:]))
	height := int(binary.LittleEndian.Uint16(hdr[14:]))
	depth := int(hdr[16])
	desc := hdr[17]

	if hdr[1] != 0 {
		return nil, fmt.Errorf("%w: %w (color map)", ErrDecode, errTGAType)
	}

	bpp := depth / 8
	switch imageType {
	case tgaTrueColor, tgaRLETrueColor:
		if depth != 24 && depth != 32 {
			return nil, fmt.Errorf("%w: %w (%d-bit true color)", ErrDecode, errTGAType, depth)
		}
	case tgaGray, tgaRLEGray:
		if depth != 8 {
			return nil, fmt.Errorf("%w: %w (%d-bit gray)", ErrDecode, errTGAType, depth)
		}
	default:
		return nil, fmt.Errorf("%w: %w (%d)", ErrDecode, errTGAType, imageType)
	}

	if _, err := io.CopyN(io.Discard, r, int64(idLen)); err != nil {
		return nil, fmt.Errorf("%w: tga id: %w", ErrDecode, err)
	}

	if width*height > maxTGAPixels {
		return nil, fmt.Errorf("%w: tga %dx%d exceeds %d pixels", ErrDecode, width, height, maxTGAPixels)
	}

	// Buffered as it arrives: a stream shorter than its header claims
	// fails at EOF.
	size := width * height * bpp
	var data bytes.Buffer
	data.Grow(min(size, tgaPrealloc))
	var err error
	if imageType == tgaRLETrueColor || imageType == tgaRLEGray {
		err = readTGARLE(r, &data, size, bpp)
	} else {
		_, err = io.CopyN(&data, r, int64(size))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: tga pixels: %w", ErrDecode, err)
	}
	raw := data.Bytes()

	buf, err := NewImageBuf(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	for sy := range height {
		dy := height - 1 - sy
		if desc&tgaTopToBottom != 0 {
			dy = sy
		}
		dst := buf.RowBytes(dy)
		src := raw[sy*width*bpp : (sy+1)*width*bpp]
		for sx := range width {
			dx := sx
			if desc&tgaRightToLeft != 0 {
				dx = width - 1 - sx
			}
			p := src[sx*bpp : (sx+1)*bpp]
			d := dst[dx*BytesPerPixel : (dx+1)*BytesPerPixel]
			switch bpp {
			case 1:
				d[0], d[1], d[2], d[3] = p[0], p[0], p[0], 255
			case 3:
				d[0], d[1], d[2], d[3] = p[2], p[1], p[0], 255
			case 4:
				d[0], d[1], d[2], d[3] = p[2], p[1], p[0], p[3]
			}
		}
	}
	return buf, nil
}

// readTGARLE expands run-length packets into dst until it holds size bytes.
func readTGARLE(r io.Reader, dst *bytes.Buffer, size, bpp int) error {
	var head [1]byte
	pixel := make([]byte, bpp)
	for dst.Len() < size {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return err
		}
		count := int(head[0]&0x7F) + 1
		n := min(count*bpp, size-dst.Len())
		if head[0]&0x80 == 0 {
			if _, err := io.CopyN(dst, r, int64(n)); err != nil {
				return err
			}
			continue
		}
		if _, err := io.ReadFull(r, pixel); err != nil {
			return err
		}
		for range n / bpp {
			dst.Write(pixel)
		}
	}
	return nil
}
