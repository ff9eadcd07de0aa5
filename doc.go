// Package lutools turns lutmap images into dense 3D color lookup tables and
// applies them to batches of images.
//
// # Overview
//
// A lutmap is a 4096×4096 image that lays the whole 256³ RGB cube out flat:
// 256 tiles of 256×256 pixels, one tile per value of a chosen "slice"
// channel. Grade the identity lutmap (see GenerateLUTMap) in any editor,
// and every color the editor produced is recorded at a known pixel.
// Build reads those pixels back into a LUT with one exact entry for each of
// the 16,777,216 RGB inputs, so applying it needs no interpolation at all.
//
// # Quick Start
//
//	lut, err := lutools.BuildFile("film.png", lutools.AxisFromPath("film.png"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = lut.SaveCache("film.lut")      // reload later with LoadCache
//	_ = lut.SaveCube("film.cube", 33)  // decimated .cube for other tools
//
//	results := lutools.ApplyBatch(lut, []lutools.Job{
//	    {Input: "a.jpg", Output: "a_film.jpg"},
//	    {Input: "b.png", Output: "b_film.png"},
//	})
//
// # Layout
//
// The slice channel's high nibble selects the tile row and its low nibble
// the tile column. The two remaining channels address the pixel inside the
// tile. With tile flipping (always on when building), odd tile columns are
// mirrored horizontally and odd tile rows vertically, which keeps adjacent
// tiles continuous and helps lutmaps survive JPEG.
//
// # Files
//
// A cache file (.lut) is the raw table: 16,777,216 records of R, G, B, A,
// no header, 67,108,864 bytes. Paths ending in .zst hold the same stream
// zstd-compressed. A .cube file is the standard text 3D LUT, red varying
// fastest.
//
// # Concurrency
//
// A built LUT is read-only and safe to share. ApplyBatch runs one unit per
// file on a pool capped at GOMAXPROCS; a failing file never stops the others.
package lutools
