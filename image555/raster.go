package image555

import "image"

// DecodePlain decodes a dense row-major image of width by height samples.
func DecodePlain(data []byte, width, height int) (*image.RGBA, error) {
	if len(data) < width*height*sampleBytes {
		return nil, ErrShortData
	}

	g := newGrid(width, height)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if err := g.set(x, y, DecodePixel(sampleAt(data, i))); err != nil {
				return nil, err
			}
			i += sampleBytes
		}
	}

	return g.RGBA(), nil
}
