/*
Package sg reads the metadata file of the paired .sg2/.sg3 + .555 asset
format used by the Impressions city-building games.

The metadata file holds a collection header followed by a fixed-size record
for every image in the collection. The collection header is 200 bytes: a 65
byte NUL-padded name, a 51 byte NUL-padded comment, five little-endian 32-bit
fields (width, height, number of images, start index, end index) and 64
reserved bytes. Each record is 64 bytes, or 72 when the collection carries an
alpha channel, and stores the byte offset and length of the image's pixel
data in the companion .555 file along with its dimensions, placement offsets,
type code and flag bytes. The pixel data itself is decoded by package
image555.
*/
package sg

import "fmt"

const (
	// HeaderSize is the fixed size in bytes of the collection header.
	HeaderSize = 200

	// RecordSize is the fixed size in bytes of one image record.
	RecordSize = 64

	// RecordSizeAlpha is the record size when the alpha variant is enabled.
	RecordSizeAlpha = RecordSize + 8

	nameLength    = 65
	commentLength = 51
)

// ImageType identifies the encoding of one image's pixel data.
type ImageType int

const (
	Unknown ImageType = iota
	Plain
	Isometric
	Sprite
)

func (t ImageType) String() string {
	switch t {
	case Plain:
		return "plain"
	case Isometric:
		return "isometric"
	case Sprite:
		return "sprite"
	}
	return "unknown"
}

var imageTypes = map[uint16]ImageType{
	0:   Plain,
	1:   Plain,
	10:  Plain,
	12:  Plain,
	13:  Plain,
	30:  Isometric,
	256: Sprite,
	257: Sprite,
	276: Sprite,
}

// TypeForCode maps an on-disk image-type code to its encoding. Codes outside
// the known table map to Unknown.
func TypeForCode(code uint16) ImageType {
	return imageTypes[code]
}

// Flags is the per-record 4 byte flags field. Only two of the four bytes
// carry meaning: byte 0 corrects the record's read offset into the .555
// file and byte 3 hints at the isometric tile count.
type Flags struct {
	AlignmentCorrection uint8
	TileSizeHint        uint8
}

// Header describes a whole record collection. The width, height and index
// fields are informational; decoding is driven by the per-record geometry.
type Header struct {
	Name       string
	Comment    string
	Width      uint32
	Height     uint32
	NumImages  uint32
	StartIndex uint32
	EndIndex   uint32
}

func (h Header) String() string {
	return fmt.Sprintf("%s\n  Comment: %s\n  Dimensions: %dx%d\n  Contains %d images (%d to %d)",
		h.Name, h.Comment, h.Width, h.Height, h.NumImages, h.StartIndex, h.EndIndex)
}

// Record describes a single image within a collection.
type Record struct {
	BitmapID           uint8
	Offset             uint32
	Length             uint32
	UncompressedLength uint32
	InvertOffset       int32
	Width              int16
	Height             int16
	XOffset            uint16
	YOffset            uint16
	TypeCode           uint16
	Type               ImageType
	Flags              Flags
	AlphaOffset        uint32
	AlphaLength        uint32
}

// HeaderError reports malformed or truncated collection metadata.
type HeaderError string

func (e HeaderError) Error() string {
	return "sg: " + string(e)
}

// VerificationError reports a record whose geometry makes it undecodable.
type VerificationError struct {
	Field string
	Value int
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("sg: record has invalid %s %d", e.Field, e.Value)
}

// Verify screens a record before any decode attempt. Records with
// non-positive dimensions or no pixel data must not reach a decoder; the
// first record of a collection is a placeholder and fails here.
func (r *Record) Verify() error {
	if r.Width <= 0 {
		return &VerificationError{Field: "width", Value: int(r.Width)}
	}
	if r.Height <= 0 {
		return &VerificationError{Field: "height", Value: int(r.Height)}
	}
	if r.Length == 0 {
		return &VerificationError{Field: "length", Value: int(r.Length)}
	}
	return nil
}
