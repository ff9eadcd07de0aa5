package lutools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLUT_SetEntry(t *testing.T) {
	l := NewLUT()
	assert.Equal(t, Color{}, l.Entry(0x123456))

	want := Color{R: 1, G: 2, B: 3, A: 255}
	l.Set(0x123456, want)
	assert.Equal(t, want, l.Entry(0x123456))
	assert.Equal(t, want, l.At(Color{R: 0x12, G: 0x34, B: 0x56}))
	// Input alpha is not part of the index.
	assert.Equal(t, want, l.At(Color{R: 0x12, G: 0x34, B: 0x56, A: 7}))

	raw := l.Bytes()[0x123456*EntrySize:][:EntrySize]
	assert.Equal(t, []byte{1, 2, 3, 255}, raw)
}

func TestNewIdentityLUT(t *testing.T) {
	l := NewIdentityLUT()
	require.Len(t, l.Bytes(), CacheSize)

	for _, i := range []uint32{0, 1, 0xFF, 0xFF00, 0xFF0000, 0x808080, Entries - 1} {
		c := ColorFromHexRGB(i)
		assert.Equal(t, c, l.At(c), "At(%v)", c)
	}
	assert.True(t, l.Equal(NewIdentityLUT()))
	assert.False(t, l.Equal(NewLUT()))
}

func TestBuild_RejectsWrongSize(t *testing.T) {
	sizes := [][2]int{
		{MapSize, MapSize - 1},
		{MapSize - 1, MapSize},
		{MapSize + 1, MapSize + 1},
		{512, 512},
		{0, 0},
	}

	for _, s := range sizes {
		t.Run(fmt.Sprintf("%dx%d", s[0], s[1]), func(t *testing.T) {
			l, err := Build(sizedImage{w: s[0], h: s[1]}, AxisB)
			require.Error(t, err)
			assert.Nil(t, l)
			assert.True(t, errors.Is(err, ErrValidation), "err = %v", err)

			var se *SizeError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, s[0], se.Width)
			assert.Equal(t, s[1], se.Height)
		})
	}
}

// Building the identity lutmap of any axis yields the identity table.
func TestBuild_IdentityRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("builds full tables")
	}

	want := NewIdentityLUT()
	for _, axis := range []Axis{AxisR, AxisG, AxisB} {
		t.Run(axis.String(), func(t *testing.T) {
			m, err := GenerateLUTMap(axis, true, 1)
			require.NoError(t, err)

			got, err := Build(m, axis)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "table built from identity lutmap differs from identity")
		})
	}
}

func TestBuild_CapturesGrade(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a full table")
	}

	m, err := GenerateLUTMap(AxisG, true, 1)
	require.NoError(t, err)
	// Invert every lutmap pixel and make it fully transparent.
	for i := 0; i < len(m.Pix); i += 4 {
		m.Pix[i] = 255 - m.Pix[i]
		m.Pix[i+1] = 255 - m.Pix[i+1]
		m.Pix[i+2] = 255 - m.Pix[i+2]
		m.Pix[i+3] = 0
	}

	l, err := Build(m, AxisG)
	require.NoError(t, err)

	for _, i := range []uint32{0, 0x010203, 0x7F8081, 0xFF00FF, 0xABCDEF, Entries - 1} {
		c := ColorFromHexRGB(i)
		got := l.At(c)
		assert.Equal(t, invert(c), got, "At(%v)", c)
	}

	// Stored entries are always opaque.
	data := l.Bytes()
	for i := 3; i < len(data); i += EntrySize {
		if data[i] != 255 {
			t.Fatalf("entry %d alpha = %d, want 255", i/EntrySize, data[i])
		}
	}
}

func TestBuildFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := BuildFile(filepath.Join(dir, "nope.png"), AxisB)
		assert.True(t, errors.Is(err, ErrIO), "err = %v", err)
	})

	t.Run("undecodable", func(t *testing.T) {
		path := filepath.Join(dir, "junk.png")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))
		_, err := BuildFile(path, AxisB)
		assert.True(t, errors.Is(err, ErrFormat), "err = %v", err)
	})

	t.Run("wrong size", func(t *testing.T) {
		path := writePNG(t, dir, "small.png", gradientImage(64, 32, 0))
		l, err := BuildFile(path, AxisB)
		assert.Nil(t, l)
		assert.True(t, errors.Is(err, ErrValidation), "err = %v", err)

		var se *SizeError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, SizeError{Width: 64, Height: 32}, *se)
	})
}

func TestSizeError_Message(t *testing.T) {
	err := &SizeError{Width: 4096, Height: 4095}
	assert.Equal(t, "lutools: lutmap must be 4096x4096, got 4096x4095", err.Error())
	assert.False(t, errors.Is(err, ErrIO))
}
