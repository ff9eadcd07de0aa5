package lutools

import (
	"os"
	"path/filepath"
	"strings"
)

// File extensions produced next to a lutmap.
const (
	CacheExt = ".lut"
	CubeExt  = ".cube"
)

// StripExt returns path without its final extension.
func StripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// BaseName returns the last element of path without its final extension.
func BaseName(path string) string {
	return StripExt(filepath.Base(path))
}

// CachePath returns the cache file path for a lutmap or cache path:
// "looks/film.g.png" → "looks/film.g.lut". A path that already names a
// cache is returned as is.
func CachePath(lutmap string, compressed bool) string {
	if isCacheFile(lutmap) {
		return lutmap
	}
	p := StripExt(lutmap) + CacheExt
	if compressed {
		p += CompressedExt
	}
	return p
}

// CubePath returns the .cube path exported next to a lutmap.
func CubePath(lutmap string) string {
	return stripCacheExt(lutmap) + CubeExt
}

// DefaultOutputPath names the graded copy of input when no output is given:
// "shots/a.jpg" with lutmap "film.png" → "shots/a_film.jpg".
func DefaultOutputPath(input, lutmap string) string {
	if isCompressed(lutmap) {
		lutmap = StripExt(lutmap)
	}
	return StripExt(input) + "_" + BaseName(lutmap) + filepath.Ext(input)
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isCacheFile(path string) bool {
	if isCompressed(path) {
		path = StripExt(path)
	}
	return strings.EqualFold(filepath.Ext(path), CacheExt)
}

// stripCacheExt removes ".lut", ".lut.zst" or any single extension.
func stripCacheExt(path string) string {
	if isCompressed(path) {
		path = StripExt(path)
	}
	return StripExt(path)
}
