package image555

import (
	"fmt"
	"image"
)

type tileProfile struct {
	width  int
	height int
	bytes  int
}

var (
	regularTile = tileProfile{tileWidth, tileHeight, tileBytes}
	largeTile   = tileProfile{largeTileWidth, largeTileHeight, largeTileBytes}
)

// IsometricGeometry carries the record fields the isometric decoder needs
// beyond the image dimensions.
type IsometricGeometry struct {
	// UncompressedLength is the byte length of the base tile mosaic. The
	// remainder of the data is the transparency overlay.
	UncompressedLength int

	// TileSizeHint is byte 3 of the record flags. Zero means derive the
	// tile count from the image width.
	TileSizeHint uint8
}

// resolveTile determines the tile profile and per-side tile count for a
// mosaic of the given base height. Regular tiles take precedence when both
// profiles divide evenly, which disambiguates the 4x4 regular vs 3x3 large
// case at base height 120.
func resolveTile(baseHeight int, hint uint8) (tileProfile, int, error) {
	n := int(hint)
	if n == 0 {
		switch {
		case baseHeight%tileHeight == 0:
			n = baseHeight / tileHeight
		case baseHeight%largeTileHeight == 0:
			n = baseHeight / largeTileHeight
		}
	}
	switch {
	case n > 0 && tileHeight*n == baseHeight:
		return regularTile, n, nil
	case n > 0 && largeTileHeight*n == baseHeight:
		return largeTile, n, nil
	}
	return tileProfile{}, 0, GeometryError(fmt.Sprintf("unknown tile size: base height %d, hint %d", baseHeight, hint))
}

// DecodeIsometric reconstructs a diamond tile mosaic and then draws its
// transparency overlay on top. Only pixels the overlay stream touches are
// overwritten; the rest of the mosaic shows through.
func DecodeIsometric(data []byte, width, height int, geom IsometricGeometry) (*image.RGBA, error) {
	baseHeight := (width + 2) / 2

	profile, n, err := resolveTile(baseHeight, geom.TileSizeHint)
	if err != nil {
		return nil, err
	}

	if (width+2)*baseHeight != geom.UncompressedLength {
		return nil, GeometryError(fmt.Sprintf("footprint size mismatch: %d vs %d", (width+2)*baseHeight, geom.UncompressedLength))
	}
	if geom.UncompressedLength > len(data) {
		return nil, ErrShortData
	}

	// The mosaic is a diamond of 2n-1 diagonal rows: the first n rows grow
	// from one tile to n, the rest shrink back down to one.
	g := newGrid(width, height)
	tile := 0
	yOffset := height - baseHeight
	for y := 0; y < 2*n-1; y++ {
		xOffset, wd := n-y-1, y+1
		if y >= n {
			xOffset, wd = y-n+1, 2*n-y-1
		}
		xOffset *= profile.height
		for x := 0; x < wd; x++ {
			if err := writeTile(g, data[tile*profile.bytes:], xOffset, yOffset, profile); err != nil {
				return nil, err
			}
			xOffset += profile.width + 2
			tile++
		}
		yOffset += profile.height / 2
	}

	if err := writeTransparent(g, data[geom.UncompressedLength:]); err != nil {
		return nil, err
	}

	return g.RGBA(), nil
}

// writeTile renders one diamond tile with its top-left bounding corner at
// (xOffset, yOffset). Samples are consumed row-major across the visible
// span of each row: the top half of the tile widens by two pixels per row,
// the bottom half narrows again.
func writeTile(g *grid, data []byte, xOffset, yOffset int, p tileProfile) error {
	if len(data) < p.bytes {
		return ErrShortData
	}
	i := 0
	for y := 0; y < p.height; y++ {
		start := p.height - 2*(y+1)
		if y >= p.height/2 {
			start = 2*y - p.height
		}
		for x := start; x < p.width-start; x++ {
			if err := g.set(xOffset+x, yOffset+y, DecodePixel(sampleAt(data, i))); err != nil {
				return err
			}
			i += sampleBytes
		}
	}
	return nil
}
