package image555

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{0xff, 0, 0, 0xff}
	blue = color.RGBA{0, 0, 0xff, 0xff}
	none = color.RGBA{}
)

func TestDecodeSprite(t *testing.T) {
	// Three opaque pixels, a two pixel skip, then one more opaque pixel:
	// the skip advances the cursor without wrapping the row.
	data := []byte{
		3, 0x00, 0x7c, 0x00, 0x7c, 0x00, 0x7c,
		255, 2,
		1, 0x1f, 0x00,
	}

	m, err := DecodeSprite(data, 8, 1)
	require.NoError(t, err)

	assert.Equal(t, red, m.RGBAAt(0, 0))
	assert.Equal(t, red, m.RGBAAt(1, 0))
	assert.Equal(t, red, m.RGBAAt(2, 0))
	assert.Equal(t, none, m.RGBAAt(3, 0))
	assert.Equal(t, none, m.RGBAAt(4, 0))
	assert.Equal(t, blue, m.RGBAAt(5, 0))
	assert.Equal(t, none, m.RGBAAt(6, 0))
	assert.Equal(t, none, m.RGBAAt(7, 0))
}

func TestDecodeSpriteRowWrap(t *testing.T) {
	// An opaque run longer than the row wraps onto the next one.
	data := []byte{3, 0x00, 0x7c, 0x00, 0x7c, 0x1f, 0x00}

	m, err := DecodeSprite(data, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, red, m.RGBAAt(0, 0))
	assert.Equal(t, red, m.RGBAAt(1, 0))
	assert.Equal(t, blue, m.RGBAAt(0, 1))
	assert.Equal(t, none, m.RGBAAt(1, 1))
}

func TestDecodeSpriteSkipWrap(t *testing.T) {
	// A skip run past the end of the row wraps as many times as needed.
	data := []byte{255, 3, 1, 0x00, 0x7c}

	m, err := DecodeSprite(data, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, none, m.RGBAAt(0, 0))
	assert.Equal(t, none, m.RGBAAt(1, 0))
	assert.Equal(t, none, m.RGBAAt(0, 1))
	assert.Equal(t, red, m.RGBAAt(1, 1))
}

func TestDecodeSpriteShort(t *testing.T) {
	_, err := DecodeSprite([]byte{2, 0x00}, 4, 4)
	assert.ErrorIs(t, err, ErrShortData)

	_, err = DecodeSprite([]byte{255}, 4, 4)
	assert.ErrorIs(t, err, ErrShortData)
}

func TestDecodeSpriteOverflow(t *testing.T) {
	// More opaque pixels than the image can hold must fail, not wrap
	// around or write out of bounds.
	data := []byte{3, 0x00, 0x7c, 0x00, 0x7c, 0x00, 0x7c}

	_, err := DecodeSprite(data, 2, 1)
	assert.Error(t, err)
}
