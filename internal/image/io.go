package image

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	// Registered decoders, sniffed by content in Decode.
	_ "image/gif"

	"golang.org/x/exp/maps"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when no encoder exists for an extension.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrDecode is returned when image data cannot be decoded.
	ErrDecode = errors.New("image: decode failed")
)

// DefaultJPEGQuality is used when EncodeOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// EncodeOptions carries per-call encoder parameters.
// The zero value encodes JPEG at DefaultJPEGQuality and PNG at the
// library's default compression level.
type EncodeOptions struct {
	// JPEGQuality is the JPEG quality in [1, 100].
	JPEGQuality int

	// PNGCompression is the zlib effort used for PNG output.
	PNGCompression png.CompressionLevel
}

// DefaultEncodeOptions favours speed over output size.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		JPEGQuality:    DefaultJPEGQuality,
		PNGCompression: png.BestSpeed,
	}
}

type encoderFunc func(w io.Writer, b *ImageBuf, opts EncodeOptions) error

// encoders is keyed by lower-case extension including the dot.
var encoders = map[string]encoderFunc{
	".png":  encodePNG,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".tga":  encodeTGA,
	".bmp":  encodeBMP,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

// SupportedExtensions returns the output extensions Save understands, sorted.
func SupportedExtensions() []string {
	exts := maps.Keys(encoders)
	slices.Sort(exts)
	return exts
}

// LoadImage loads an image from the given file path.
// TGA files are recognized by extension since the format has no signature;
// everything else is detected from content.
func LoadImage(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return DecodeTGA(r)
	}
	return Decode(r)
}

// Decode decodes an image from the given reader, auto-detecting the format.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromStdImage(img), nil
}

// Save encodes the image to path, choosing the encoder by extension.
// Unknown extensions fail with ErrUnsupportedFormat before the file is created.
func (b *ImageBuf) Save(path string, opts EncodeOptions) error {
	ext := filepath.Ext(path)
	if _, ok := encoders[strings.ToLower(ext)]; !ok {
		return fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions(), " "))
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := b.Encode(w, ext, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("image: write file: %w", err)
	}

	return f.Close()
}

// Encode encodes the image to w in the format named by ext (".png", ".jpg", ...).
func (b *ImageBuf) Encode(w io.Writer, ext string, opts EncodeOptions) error {
	enc, ok := encoders[strings.ToLower(ext)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return enc(w, b, opts)
}

func encodePNG(w io.Writer, b *ImageBuf, opts EncodeOptions) error {
	enc := png.Encoder{CompressionLevel: opts.PNGCompression}
	if err := enc.Encode(w, b.AsNRGBA()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

func encodeJPEG(w io.Writer, b *ImageBuf, opts EncodeOptions) error {
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	quality = min(max(quality, 1), 100)

	if err := jpeg.Encode(w, b.opaque(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("image: encode JPEG: %w", err)
	}
	return nil
}

// opaque returns a view for encoders without an alpha channel. The stdlib
// encoders read pixels premultiplied, so translucent pixels are copied with
// alpha forced to 255 to keep their RGB unchanged.
func (b *ImageBuf) opaque() image.Image {
	if b.IsOpaque() {
		return b.AsNRGBA()
	}
	m := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(m.Pix, b.data)
	for i := 3; i < len(m.Pix); i += BytesPerPixel {
		m.Pix[i] = 255
	}
	return m
}

func encodeBMP(w io.Writer, b *ImageBuf, _ EncodeOptions) error {
	if err := bmp.Encode(w, b.AsNRGBA()); err != nil {
		return fmt.Errorf("image: encode BMP: %w", err)
	}
	return nil
}

func encodeTIFF(w io.Writer, b *ImageBuf, _ EncodeOptions) error {
	if err := tiff.Encode(w, b.AsNRGBA(), &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("image: encode TIFF: %w", err)
	}
	return nil
}

// FromStdImage creates an ImageBuf from a standard library image.Image.
// Premultiplied sources are converted to straight alpha.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewImageBuf(width, height)
	if err != nil {
		return &ImageBuf{}
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := range height {
			start := (y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride + (bounds.Min.X-src.Rect.Min.X)*4
			copy(buf.RowBytes(y), src.Pix[start:start+width*4])
		}
		return buf

	case *image.RGBA:
		for y := range height {
			start := (y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride + (bounds.Min.X-src.Rect.Min.X)*4
			row := buf.RowBytes(y)
			copy(row, src.Pix[start:start+width*4])
			for i := 0; i < len(row); i += 4 {
				if a := row[i+3]; a != 255 {
					c := color.NRGBAModel.Convert(color.RGBA{R: row[i], G: row[i+1], B: row[i+2], A: a}).(color.NRGBA)
					row[i], row[i+1], row[i+2] = c.R, c.G, c.B
				}
			}
		}
		return buf
	}

	// Generic slow path for any image type
	for y := range height {
		row := buf.RowBytes(y)
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			row[x*4] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}

	return buf
}

// AsNRGBA returns an *image.NRGBA view over the buffer. The pixels are
// shared, not copied.
func (b *ImageBuf) AsNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.stride,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
