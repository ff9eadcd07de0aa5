package lutools

import (
	"io"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter writes human-readable status lines for a batch run.
//
// Each line is formatted up front and written under its stream's lock in a
// single Write, so lines from concurrent workers never interleave. The out
// and error streams are locked independently.
type Reporter struct {
	outMu sync.Mutex
	out   io.Writer

	errMu sync.Mutex
	err   io.Writer

	p *message.Printer
}

// NewReporter returns a Reporter writing status to out and failures to errOut.
func NewReporter(out, errOut io.Writer) *Reporter {
	return &Reporter{
		out: out,
		err: errOut,
		p:   message.NewPrinter(language.English),
	}
}

// Printf writes one formatted line to the out stream. Numbers are grouped
// ("16,777,216").
func (r *Reporter) Printf(format string, args ...any) {
	line := r.p.Sprintf(format, args...) + "\n"
	r.outMu.Lock()
	defer r.outMu.Unlock()
	_, _ = io.WriteString(r.out, line)
}

// Errorf writes one formatted line to the error stream.
func (r *Reporter) Errorf(format string, args ...any) {
	line := r.p.Sprintf(format, args...) + "\n"
	r.errMu.Lock()
	defer r.errMu.Unlock()
	_, _ = io.WriteString(r.err, line)
}

// Saved reports a finished output file.
func (r *Reporter) Saved(path string, pixels int) {
	r.Printf("saved: %s (%d pixels)", path, pixels)
}

// Generated reports a new cache, cube or lutmap file.
func (r *Reporter) Generated(what string) {
	r.Printf("generated: %s", what)
}

// Error reports a failure.
func (r *Reporter) Error(err error) {
	r.Errorf("error: %v", err)
}
