package lutools

import (
	"errors"
	"fmt"
	stdimage "image"
	"runtime"
	"time"

	"github.com/gogpu/lutools/internal/image"
	"github.com/gogpu/lutools/internal/parallel"
)

// ApplyPixels remaps straight-alpha RGBA8 pixels in place. Each pixel's
// RGB is replaced by the table entry at its HexRGB; its alpha is kept and
// the table's own alpha is ignored.
func (l *LUT) ApplyPixels(pix []byte) {
	table := l.data
	for i := 0; i+3 < len(pix); i += 4 {
		off := (int(pix[i])<<16 | int(pix[i+1])<<8 | int(pix[i+2])) * EntrySize
		pix[i] = table[off]
		pix[i+1] = table[off+1]
		pix[i+2] = table[off+2]
	}
}

// ApplyImage returns a remapped copy of img. Premultiplied sources are
// converted to straight alpha first.
func (l *LUT) ApplyImage(img stdimage.Image) *stdimage.NRGBA {
	buf := image.FromStdImage(img)
	l.ApplyPixels(buf.Data())
	return buf.AsNRGBA()
}

// Job is one input image and the path its graded copy is written to.
type Job struct {
	Input  string
	Output string
}

// Result is the outcome of one Job.
type Result struct {
	Job    Job
	Pixels int
	Err    error
}

// ApplyBatch grades every job through l on a bounded worker pool and returns
// one Result per job, in job order.
//
// Jobs are independent: a job that fails (unreadable input, unsupported
// output extension, write error, even a panic) is reported on the error
// stream and recorded in its Result, and every other job still runs.
// l is only read, so it is shared across workers without locking.
func ApplyBatch(l *LUT, jobs []Job, opts ...BatchOption) []Result {
	if len(jobs) == 0 {
		return nil
	}

	o := defaultBatchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool := parallel.NewWorkerPool(min(workers, len(jobs)))
	defer pool.Close()

	results := make([]Result, len(jobs))
	work := make([]func() error, len(jobs))
	for i, job := range jobs {
		work[i] = func() error {
			n, err := applyFile(l, job, o.encode)
			results[i] = Result{Job: job, Pixels: n, Err: err}
			if err != nil {
				o.reporter.Error(err)
				return err
			}
			o.reporter.Saved(job.Output, n)
			return nil
		}
	}

	failed := 0
	for i, err := range pool.Run(work) {
		if err == nil {
			continue
		}
		failed++
		var pe *parallel.PanicError
		if errors.As(err, &pe) {
			results[i] = Result{Job: jobs[i], Err: fmt.Errorf("lutools: %s: %w", jobs[i].Input, err)}
			o.reporter.Error(results[i].Err)
		}
		Logger().Warn("batch file failed", "input", jobs[i].Input, "err", results[i].Err)
	}

	Logger().Info("batch done",
		"files", len(jobs), "failed", failed, "workers", pool.Workers(),
		"elapsed", time.Since(start))
	return results
}

// applyFile decodes, remaps and encodes one job.
func applyFile(l *LUT, job Job, enc EncodeOptions) (int, error) {
	start := time.Now()

	buf, err := image.LoadImage(job.Input)
	if err != nil {
		return 0, classifyImageErr("load "+job.Input, err)
	}

	l.ApplyPixels(buf.Data())

	if err := buf.Save(job.Output, enc); err != nil {
		return 0, classifyImageErr("save "+job.Output, err)
	}

	logElapsed("batch file", start, "input", job.Input, "output", job.Output, "pixels", buf.Pixels())
	return buf.Pixels(), nil
}
