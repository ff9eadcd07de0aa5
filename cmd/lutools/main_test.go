package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/lutools"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want invocation
	}{
		{
			name: "lutmap only",
			args: []string{"film.png"},
			want: invocation{lut: "film.png"},
		},
		{
			name: "cube default size",
			args: []string{"film.png", "-cube"},
			want: invocation{lut: "film.png", cube: true, cubeSize: 25},
		},
		{
			name: "cube with size",
			args: []string{"film.png", "-cube", "33"},
			want: invocation{lut: "film.png", cube: true, cubeSize: 33},
		},
		{
			name: "cube size zero",
			args: []string{"film.png", "-cube", "0"},
			want: invocation{lut: "film.png", cube: true, cubeSize: 0},
		},
		{
			name: "non-integer after cube is an input",
			args: []string{"film.png", "-cube", "a.png"},
			want: invocation{lut: "film.png", cube: true, cubeSize: 25, jobs: []lutools.Job{
				{Input: "a.png", Output: "a_film.png"},
			}},
		},
		{
			name: "explicit and default outputs",
			args: []string{"looks/film.g.png", "a.png", "-out/a.jpg", "b.tga"},
			want: invocation{lut: "looks/film.g.png", jobs: []lutools.Job{
				{Input: "a.png", Output: "out/a.jpg"},
				{Input: "b.tga", Output: "b_film.g.tga"},
			}},
		},
		{
			name: "cache as lut",
			args: []string{"film.lut", "x.png", "y.png"},
			want: invocation{lut: "film.lut", jobs: []lutools.Job{
				{Input: "x.png", Output: "x_film.png"},
				{Input: "y.png", Output: "y_film.png"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if err != nil {
				t.Fatalf("parseArgs(%q) error = %v", tt.args, err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(invocation{}), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("parseArgs(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestParseArgs_Empty(t *testing.T) {
	if _, err := parseArgs(nil); !errors.Is(err, errUsage) {
		t.Errorf("parseArgs(nil) error = %v, want errUsage", err)
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Errorf("run() = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "usage: lutools") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nosuchflag"}, &stdout, &stderr); code != 2 {
		t.Errorf("run(-nosuchflag) = %d, want 2", code)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"bad axis", []string{"-generate", filepath.Join(dir, "m.png"), "-axis", "q"}},
		{"bad scale", []string{"-generate", filepath.Join(dir, "m.png"), "-scale", "0"}},
		{"missing lutmap", []string{filepath.Join(dir, "missing.png")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("run(%q) = %d, want 1", tt.args, code)
			}
			if !strings.Contains(stderr.String(), "error: ") {
				t.Errorf("stderr = %q, want an error line", stderr.String())
			}
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("generates and builds a full lutmap")
	}

	dir := t.TempDir()
	lutmap := filepath.Join(dir, "grade.g.png")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-generate", lutmap}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(-generate) = %d, stderr = %s", code, stderr.String())
	}

	input := filepath.Join(dir, "shot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 3)
	}
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	writePNG(t, input, src)

	stdout.Reset()
	stderr.Reset()
	args := []string{"-workers", "2", lutmap, "-cube", "5", input}
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("run(%q) = %d, stderr = %s", args, code, stderr.String())
	}

	for _, p := range []string{
		filepath.Join(dir, "grade.g.lut"),
		filepath.Join(dir, "grade.g.cube"),
		filepath.Join(dir, "shot_grade.g.png"),
	} {
		if !lutools.Exists(p) {
			t.Errorf("%s was not created", p)
		}
	}
	out := stdout.String()
	for _, want := range []string{
		"generated: " + filepath.Join(dir, "grade.g.lut"),
		"generated: cube file from LUT with resolution 5",
		"saved: " + filepath.Join(dir, "shot_grade.g.png"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout lacks %q:\n%s", want, out)
		}
	}

	// The identity grade leaves the image unchanged.
	f, err := os.Open(filepath.Join(dir, "shot_grade.g.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	for y := range 8 {
		for x := range 8 {
			want := src.NRGBAAt(x, y)
			if c := color.NRGBAModel.Convert(got.At(x, y)); c != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, c, want)
			}
		}
	}

	// A second run finds the cache and has nothing else to do.
	stdout.Reset()
	if code := run([]string{lutmap}, &stdout, &stderr); code != 0 {
		t.Errorf("cached run = %d, want 0", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("cached run printed %q, want nothing", stdout.String())
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}
