// Command lutools builds dense color tables from lutmap images and grades
// batches of images with them.
//
// Usage:
//
//	lutools [flags] {LUT | LUT_MAP} [-cube [RESOLUTION]] [INPUT [-OUTPUT]]...
//	lutools [flags] -generate LUT_MAP
//
// The first positional argument is a lutmap image or a .lut cache. The cache
// next to a lutmap is reused when present and created otherwise. -cube
// exports a .cube file (resolution 25 unless given). Each INPUT is graded to
// -OUTPUT when that follows it, or to INPUT_<lutmap>.<ext>.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/lutools"
)

// invocation is the positional part of the command line.
type invocation struct {
	lut      string
	cube     bool
	cubeSize int
	jobs     []lutools.Job
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lutools", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		verbose     = fs.Bool("v", false, "debug logging")
		workers     = fs.Int("workers", 0, "files processed at once (0 = GOMAXPROCS)")
		jpegQuality = fs.Int("jpeg-quality", lutools.DefaultEncodeOptions().JPEGQuality, "JPEG output quality (1-100)")
		compressed  = fs.Bool("zstd", false, "store the cache zstd-compressed (.lut.zst)")
		generate    = fs.String("generate", "", "write the identity lutmap to this path and exit")
		axisToken   = fs.String("axis", "", "slice channel for -generate: r, g or b (default from file name)")
		scale       = fs.Int("scale", 1, "integer upscale factor for -generate")
		noFlip      = fs.Bool("noflip", false, "disable tile flipping for -generate")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lutools [flags] {LUT | LUT_MAP} [-cube [RESOLUTION]] [INPUT [-OUTPUT]]...")
		fmt.Fprintln(stderr, "       lutools [flags] -generate LUT_MAP")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	lutools.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	report := lutools.NewReporter(stdout, stderr)
	enc := lutools.DefaultEncodeOptions()
	enc.JPEGQuality = *jpegQuality

	if *generate != "" {
		axis := lutools.AxisFromPath(*generate)
		if *axisToken != "" {
			a, err := lutools.ParseAxis(*axisToken)
			if err != nil {
				report.Error(err)
				return 1
			}
			axis = a
		}
		if err := lutools.SaveLUTMap(*generate, axis, !*noFlip, *scale, enc); err != nil {
			report.Error(err)
			return 1
		}
		report.Generated(*generate)
		return 0
	}

	inv, err := parseArgs(fs.Args())
	if errors.Is(err, errUsage) {
		fs.Usage()
		return 0
	}

	cachePath := lutools.CachePath(inv.lut, *compressed)
	cached := lutools.Exists(cachePath)
	if cached && !inv.cube && len(inv.jobs) == 0 {
		return 0
	}

	lut, err := loadOrBuild(inv.lut, cachePath, cached, report)
	if err != nil {
		report.Error(err)
		return 1
	}

	if inv.cube && inv.cubeSize != 0 {
		if err := lut.SaveCube(lutools.CubePath(inv.lut), inv.cubeSize); err != nil {
			report.Error(err)
			return 1
		}
		report.Generated("cube file from LUT with resolution " + strconv.Itoa(inv.cubeSize))
	}

	// Per-file failures are reported by the batch and do not change the
	// exit status.
	lutools.ApplyBatch(lut, inv.jobs,
		lutools.WithWorkers(*workers),
		lutools.WithEncodeOptions(enc),
		lutools.WithReporter(report),
	)
	return 0
}

// loadOrBuild returns the cached table, or builds it from the lutmap and
// writes the cache.
func loadOrBuild(lutmap, cachePath string, cached bool, report *lutools.Reporter) (*lutools.LUT, error) {
	if cached {
		return lutools.LoadCache(cachePath)
	}

	lut, err := lutools.BuildFile(lutmap, lutools.AxisFromPath(lutmap))
	if err != nil {
		return nil, err
	}
	if err := lut.SaveCache(cachePath); err != nil {
		return nil, err
	}
	report.Generated(cachePath)
	return lut, nil
}

// parseArgs splits the positional arguments. A token after -cube is taken
// as the resolution only if it is an integer; a token starting with '-'
// after an input names that input's output.
func parseArgs(args []string) (invocation, error) {
	if len(args) == 0 {
		return invocation{}, errUsage
	}

	inv := invocation{lut: args[0]}
	rest := args[1:]

	if len(rest) > 0 && rest[0] == "-cube" {
		inv.cube = true
		inv.cubeSize = lutools.DefaultCubeSize
		rest = rest[1:]
		if len(rest) > 0 {
			if n, err := strconv.Atoi(rest[0]); err == nil {
				inv.cubeSize = n
				rest = rest[1:]
			}
		}
	}

	for i := 0; i < len(rest); i++ {
		job := lutools.Job{Input: rest[i]}
		if i+1 < len(rest) && strings.HasPrefix(rest[i+1], "-") {
			job.Output = rest[i+1][1:]
			i++
		} else {
			job.Output = lutools.DefaultOutputPath(job.Input, inv.lut)
		}
		inv.jobs = append(inv.jobs, job)
	}

	return inv, nil
}
