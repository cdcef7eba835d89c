package image555

import "image"

// DecodeSprite decodes a run-length encoded transparent sprite. Pixels not
// touched by the stream stay fully transparent.
func DecodeSprite(data []byte, width, height int) (*image.RGBA, error) {
	g := newGrid(width, height)
	if err := writeTransparent(g, data); err != nil {
		return nil, err
	}
	return g.RGBA(), nil
}

// writeTransparent runs the skip-run / opaque-run stream over g, starting at
// the top-left corner and wrapping the cursor at the grid width. The
// isometric decoder reuses it for the overlay pass.
func writeTransparent(g *grid, data []byte) error {
	x, y := 0, 0
	for i := 0; i < len(data); {
		c := int(data[i])
		i++
		if c == 255 {
			// The next byte is the number of transparent pixels to skip.
			if i >= len(data) {
				return ErrShortData
			}
			x += int(data[i])
			i++
			for x >= g.w {
				y++
				x -= g.w
			}
			continue
		}
		// c is the number of opaque samples that follow.
		for j := 0; j < c; j++ {
			if i+sampleBytes > len(data) {
				return ErrShortData
			}
			if err := g.set(x, y, DecodePixel(sampleAt(data, i))); err != nil {
				return err
			}
			i += sampleBytes
			x++
			if x >= g.w {
				y++
				x = 0
			}
		}
	}
	return nil
}
