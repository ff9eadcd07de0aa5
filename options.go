package lutools

import (
	"io"

	"github.com/gogpu/lutools/internal/image"
)

// EncodeOptions carries explicit per-encode parameters (JPEG quality, PNG
// compression level). There is no process-wide encoder state.
type EncodeOptions = image.EncodeOptions

// DefaultEncodeOptions returns JPEG quality 90 and the fastest PNG level.
func DefaultEncodeOptions() EncodeOptions {
	return image.DefaultEncodeOptions()
}

// SupportedOutputExtensions lists the output extensions ApplyBatch can write.
func SupportedOutputExtensions() []string {
	return image.SupportedExtensions()
}

// BatchOption configures ApplyBatch.
//
// Example:
//
//	results := lutools.ApplyBatch(lut, jobs,
//	    lutools.WithWorkers(4),
//	    lutools.WithReporter(lutools.NewReporter(os.Stdout, os.Stderr)),
//	)
type BatchOption func(*batchOptions)

// batchOptions holds optional configuration for a batch run.
type batchOptions struct {
	workers  int
	encode   EncodeOptions
	reporter *Reporter
}

// defaultBatchOptions returns the default batch options.
func defaultBatchOptions() batchOptions {
	return batchOptions{
		workers:  0, // GOMAXPROCS
		encode:   DefaultEncodeOptions(),
		reporter: NewReporter(io.Discard, io.Discard),
	}
}

// WithWorkers caps the number of files processed at once.
// Zero or negative means GOMAXPROCS. The pool never exceeds the job count.
func WithWorkers(n int) BatchOption {
	return func(o *batchOptions) {
		o.workers = n
	}
}

// WithEncodeOptions sets the encoder parameters used for every output.
func WithEncodeOptions(e EncodeOptions) BatchOption {
	return func(o *batchOptions) {
		o.encode = e
	}
}

// WithReporter sets where per-file status lines go. A nil reporter keeps
// the default, which discards them.
func WithReporter(r *Reporter) BatchOption {
	return func(o *batchOptions) {
		if r != nil {
			o.reporter = r
		}
	}
}
