/*
Package image555 decodes the packed 16-bit pixel data held in the .555
companion file of an .sg2/.sg3 collection.

Pixels are stored as little-endian 555 samples: five bits each of red, green
and blue with the top bit unused. Three encodings exist. Plain images are a
dense row-major grid of samples. Sprites are run-length encoded with a skip
code for transparent runs. Isometric images are a diamond mosaic of
fixed-size terrain tiles, regular (58 by 30 pixels, 1800 bytes each) or
large (78 by 40 pixels, 3200 bytes each), with a sprite-encoded overlay
drawn on top of the mosaic.
*/
package image555

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
)

const (
	tileWidth  = 58
	tileHeight = 30
	tileBytes  = 1800

	largeTileWidth  = 78
	largeTileHeight = 40
	largeTileBytes  = 3200

	// transparent is the format's internal key color. It decodes to opaque
	// black, not a transparent pixel.
	transparent = 0xf81f

	sampleBytes = 2
)

var (
	// ErrShortData is returned when a record's byte slice ends before its
	// declared geometry has been satisfied.
	ErrShortData = errors.New("image555: not enough image data")

	errBounds = errors.New("image555: pixel write out of image bounds")
)

// GeometryError reports isometric tile geometry that matches no known tile
// profile or whose footprint disagrees with the record's base-layer length.
type GeometryError string

func (e GeometryError) Error() string {
	return "image555: " + string(e)
}

// DecodePixel expands one packed 555 sample to 8-bit RGBA. The top three
// bits of each 5-bit channel are replicated into the low bits of the 8-bit
// channel. The key color 0xf81f decodes to opaque black.
func DecodePixel(s uint16) color.RGBA {
	if s == transparent {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{
		R: uint8((s&0x7c00)>>7 | (s&0x7000)>>12),
		G: uint8((s&0x03e0)>>2 | (s&0x0380)>>7),
		B: uint8((s&0x001f)<<3 | (s&0x001c)>>2),
		A: 0xff,
	}
}

func sampleAt(data []byte, i int) uint16 {
	return binary.LittleEndian.Uint16(data[i:])
}

// grid is a bounds-checked RGBA pixel grid. Every write goes through set so
// that a malformed run length or tile offset fails instead of corrupting
// neighbouring rows. Pixels start out fully transparent.
type grid struct {
	w, h int
	pix  []uint8
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, pix: make([]uint8, 4*w*h)}
}

func (g *grid) set(x, y int, c color.RGBA) error {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return errBounds
	}
	i := 4 * (y*g.w + x)
	g.pix[i+0] = c.R
	g.pix[i+1] = c.G
	g.pix[i+2] = c.B
	g.pix[i+3] = c.A
	return nil
}

// RGBA hands the pixel storage over as a stdlib image. The grid must not be
// written to afterwards.
func (g *grid) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    g.pix,
		Stride: 4 * g.w,
		Rect:   image.Rect(0, 0, g.w, g.h),
	}
}
