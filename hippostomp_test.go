package hippostomp

import (
	"context"
	"encoding/binary"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/celynwalters/hippostomp/sg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordBytes(rec sg.Record) []byte {
	b := make([]byte, sg.RecordSize)
	b[0] = rec.BitmapID
	binary.LittleEndian.PutUint32(b[8:], rec.Offset)
	binary.LittleEndian.PutUint32(b[12:], rec.Length)
	binary.LittleEndian.PutUint32(b[16:], rec.UncompressedLength)
	binary.LittleEndian.PutUint16(b[28:], uint16(rec.Width))
	binary.LittleEndian.PutUint16(b[30:], uint16(rec.Height))
	binary.LittleEndian.PutUint16(b[58:], rec.TypeCode)
	b[60] = rec.Flags.AlignmentCorrection
	b[63] = rec.Flags.TileSizeHint
	return b
}

// writeTestCollection writes a four record metadata file and its companion
// pixel file: the usual dummy first record, a 2x1 plain image whose read
// offset needs the flags byte 0 correction, a record with an unknown type
// code and a record pointing past the end of the pixel file.
func writeTestCollection(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.sg2")

	header := make([]byte, sg.HeaderSize)
	copy(header, "TEST.SG2")
	binary.LittleEndian.PutUint32(header[124:], 4) // numImages
	binary.LittleEndian.PutUint32(header[128:], 1) // startIndex
	binary.LittleEndian.PutUint32(header[132:], 4) // endIndex

	meta := header
	meta = append(meta, recordBytes(sg.Record{})...)
	meta = append(meta, recordBytes(sg.Record{
		BitmapID: 1,
		Offset:   5,
		Length:   4,
		Width:    2,
		Height:   1,
		TypeCode: 0,
		Flags:    sg.Flags{AlignmentCorrection: 1},
	})...)
	meta = append(meta, recordBytes(sg.Record{
		Offset:   4,
		Length:   2,
		Width:    1,
		Height:   1,
		TypeCode: 99,
	})...)
	meta = append(meta, recordBytes(sg.Record{
		Offset:   4,
		Length:   100,
		Width:    10,
		Height:   5,
		TypeCode: 0,
	})...)
	require.NoError(t, os.WriteFile(path, meta, 0o644))

	// Four junk bytes, then a black and a white 555 sample.
	pixels := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x00, 0xff, 0x7f}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.555"), pixels, 0o644))

	return path
}

func TestOpen(t *testing.T) {
	c, err := Open(writeTestCollection(t), 0, false, nil)
	require.NoError(t, err)

	assert.Equal(t, "TEST.SG2", c.Header.Name)
	assert.Equal(t, uint32(4), c.Header.NumImages)
	assert.Len(t, c.Records, 4)
}

func TestImagePlain(t *testing.T) {
	c, err := Open(writeTestCollection(t), 0, false, nil)
	require.NoError(t, err)

	// Record 1 declares offset 5 with an alignment correction of 1, so
	// its samples start at byte 4 of the pixel file.
	m, err := c.Image(1)
	require.NoError(t, err)

	rgba, ok := m.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, uint8(0xff), rgba.RGBAAt(0, 0).A)
	assert.Equal(t, uint8(0x00), rgba.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(0xff), rgba.RGBAAt(1, 0).R)
}

func TestImageDummyRecord(t *testing.T) {
	c, err := Open(writeTestCollection(t), 0, false, nil)
	require.NoError(t, err)

	_, err = c.Image(0)

	var verr *sg.VerificationError
	assert.ErrorAs(t, err, &verr)
}

func TestImageUnknownType(t *testing.T) {
	c, err := Open(writeTestCollection(t), 0, false, nil)
	require.NoError(t, err)

	_, err = c.Image(2)

	var uerr *UnknownTypeError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, uint16(99), uerr.Code)
}

func TestImageShortRead(t *testing.T) {
	c, err := Open(writeTestCollection(t), 0, false, nil)
	require.NoError(t, err)

	_, err = c.Image(3)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestExtract(t *testing.T) {
	c, err := Open(writeTestCollection(t), 0, false, nil)
	require.NoError(t, err)

	results := make(map[int]Result)
	for r := range c.Extract(context.Background(), 2) {
		results[r.Index] = r
	}

	// The dummy record is never attempted; a bad record does not stop
	// the others.
	require.Len(t, results, 3)
	assert.NoError(t, results[1].Err)
	assert.NotNil(t, results[1].Image)
	assert.Error(t, results[2].Err)
	assert.Error(t, results[3].Err)
}
