/*
Package hippostomp extracts images from the two-file .sg2/.sg3 + .555 asset
format used by the Impressions city-building games.

The metadata file describes a collection of image records; the companion
.555 file holds the packed pixel data each record points into. Package sg
parses the metadata, package image555 turns a record's byte slice back into
an RGBA image, and this package ties the two together: it locates the
companion file, extracts the correct byte slice for each record and
dispatches it to the decoder matching the record's type.
*/
package hippostomp

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/celynwalters/hippostomp/image555"
	"github.com/celynwalters/hippostomp/sg"
)

// UnknownTypeError reports a record whose image-type code is not in the
// known table. It is surfaced rather than decoded to a blank image so that
// the caller decides whether the record is skippable.
type UnknownTypeError struct {
	Index int
	Code  uint16
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("hippostomp: record %d has unknown image type code %d", e.Index, e.Code)
}

// Collection is an opened metadata file together with the path of its
// companion pixel file.
type Collection struct {
	Header  *sg.Header
	Records []*sg.Record

	pixelPath string
	logger    *log.Logger
}

// Open reads the collection metadata found at offset within the named
// .sg2/.sg3 file. The companion .555 file is located by swapping the
// extension; it is not opened until an image is decoded. A nil logger
// discards all diagnostics.
func Open(name string, offset int64, alpha bool, logger *log.Logger) (*Collection, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	header, records, err := sg.ReadCollection(f, alpha)
	if err != nil {
		return nil, err
	}

	return &Collection{
		Header:    header,
		Records:   records,
		pixelPath: strings.TrimSuffix(name, filepath.Ext(name)) + ".555",
		logger:    logger,
	}, nil
}

// Image decodes record i against a fresh read handle on the companion pixel
// file. Records are independent of one another, so concurrent calls are
// safe.
func (c *Collection) Image(i int) (image.Image, error) {
	if i < 0 || i >= len(c.Records) {
		return nil, fmt.Errorf("hippostomp: no record %d", i)
	}
	rec := c.Records[i]

	if err := rec.Verify(); err != nil {
		return nil, err
	}

	data, err := c.pixelData(rec)
	if err != nil {
		return nil, err
	}
	data = data[:rec.Length]

	width, height := int(rec.Width), int(rec.Height)
	switch rec.Type {
	case sg.Plain:
		return image555.DecodePlain(data, width, height)
	case sg.Sprite:
		return image555.DecodeSprite(data, width, height)
	case sg.Isometric:
		return image555.DecodeIsometric(data, width, height, image555.IsometricGeometry{
			UncompressedLength: int(rec.UncompressedLength),
			TileSizeHint:       rec.Flags.TileSizeHint,
		})
	default:
		return nil, &UnknownTypeError{Index: i, Code: rec.TypeCode}
	}
}

// pixelData reads the record's raw byte slice from the companion file. The
// read offset is corrected by flags byte 0 and the read spans the alpha
// payload when present.
func (c *Collection) pixelData(rec *sg.Record) ([]byte, error) {
	f, err := os.Open(c.pixelPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	offset := int64(rec.Offset) - int64(rec.Flags.AlignmentCorrection)
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	data := make([]byte, rec.Length+rec.AlphaLength)
	if _, err := io.ReadFull(f, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("hippostomp: short read from %s: %w", filepath.Base(c.pixelPath), err)
	}

	return data, nil
}
