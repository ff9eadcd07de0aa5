package lutools

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks a zstd-compressed cache file.
const CompressedExt = ".zst"

// WriteTo writes the raw table: Entries records of (R, G, B, A), no header.
func (l *LUT) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: write cache: %w", ErrIO, err)
	}
	return int64(n), nil
}

// ReadLUT reads a raw table written by WriteTo. Input shorter than
// CacheSize fails with ErrFormat and no table is returned. Bytes past
// CacheSize are not consumed.
func ReadLUT(r io.Reader) (*LUT, error) {
	return readLUT(r, ErrIO)
}

// readLUT is ReadLUT with the kind used for read errors other than a short
// stream.
func readLUT(r io.Reader, readErrKind error) (*LUT, error) {
	l := NewLUT()
	n, err := io.ReadFull(r, l.data)
	switch {
	case err == nil:
		return l, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: cache holds %d bytes, want %d", ErrFormat, n, CacheSize)
	default:
		return nil, fmt.Errorf("%w: read cache: %w", readErrKind, err)
	}
}

// SaveCache persists the table to path. A path ending in CompressedExt is
// written as a single zstd frame of the raw layout.
func (l *LUT) SaveCache(path string) (err error) {
	start := time.Now()

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: create cache: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close cache: %w", ErrIO, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if isCompressed(path) {
		enc, err := zstd.NewWriter(f,
			zstd.WithEncoderConcurrency(runtime.GOMAXPROCS(0)),
			zstd.WithEncoderLevel(zstd.SpeedDefault),
		)
		if err != nil {
			return fmt.Errorf("%w: zstd writer: %w", ErrIO, err)
		}
		if _, err := l.WriteTo(enc); err != nil {
			_ = enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("%w: zstd flush: %w", ErrIO, err)
		}
	} else if _, err := l.WriteTo(f); err != nil {
		return err
	}

	logElapsed("cache save", start, "path", path)
	return nil
}

// LoadCache reads a table saved by SaveCache. Open failures are ErrIO;
// a short or corrupt stream is ErrFormat.
func LoadCache(path string) (*LUT, error) {
	start := time.Now()

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open cache: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = bufio.NewReaderSize(f, 1<<20)
	readErrKind := ErrIO
	if isCompressed(path) {
		// zstd reports corrupt frames as plain read errors.
		readErrKind = ErrFormat
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd reader: %w", ErrFormat, err)
		}
		defer dec.Close()
		r = dec
	}

	l, err := readLUT(r, readErrKind)
	if err != nil {
		return nil, err
	}

	logElapsed("cache load", start, "path", path)
	return l, nil
}

func isCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}
