package sg

import (
	"encoding/binary"
	"fmt"
	"io"
)

// rawHeader is the on-disk layout of the collection header. Blank fields are
// reserved bytes.
type rawHeader struct {
	Name       [nameLength]byte
	Comment    [commentLength]byte
	Width      uint32
	Height     uint32
	NumImages  uint32
	StartIndex uint32
	EndIndex   uint32
	_          [64]byte
}

// rawRecord is the on-disk layout of one image record, minus the optional
// trailing alpha fields.
type rawRecord struct {
	BitmapID           uint8
	_                  [7]byte
	Offset             uint32
	Length             uint32
	UncompressedLength uint32
	_                  [4]byte
	InvertOffset       int32
	Width              int16
	Height             int16
	XOffset            uint16
	YOffset            uint16
	_                  [22]byte
	TypeCode           uint16
	Flags              [4]byte
}

type rawAlpha struct {
	Offset uint32
	Length uint32
}

func shortRead(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return HeaderError("short " + what)
	}
	return err
}

// trimText decodes a fixed-width NUL-padded text field. The format predates
// any multi-byte encoding, so anything outside 7-bit ASCII is corruption.
func trimText(b []byte) (string, error) {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	b = b[:i]
	for _, c := range b {
		if c > 0x7f {
			return "", HeaderError(fmt.Sprintf("non-ASCII byte %#02x in text field", c))
		}
	}
	return string(b), nil
}

// ReadHeader reads a collection header from r.
func ReadHeader(r io.Reader) (*Header, error) {
	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, shortRead(err, "collection header")
	}

	name, err := trimText(raw.Name[:])
	if err != nil {
		return nil, err
	}
	comment, err := trimText(raw.Comment[:])
	if err != nil {
		return nil, err
	}

	return &Header{
		Name:       name,
		Comment:    comment,
		Width:      raw.Width,
		Height:     raw.Height,
		NumImages:  raw.NumImages,
		StartIndex: raw.StartIndex,
		EndIndex:   raw.EndIndex,
	}, nil
}

// ReadRecord reads one image record from r. When alpha is true the record
// carries the two trailing alpha-channel fields of the later collection
// versions and the returned record's AlphaOffset and AlphaLength are set.
func ReadRecord(r io.Reader, alpha bool) (*Record, error) {
	var raw rawRecord
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, shortRead(err, "image record")
	}

	rec := &Record{
		BitmapID:           raw.BitmapID,
		Offset:             raw.Offset,
		Length:             raw.Length,
		UncompressedLength: raw.UncompressedLength,
		InvertOffset:       raw.InvertOffset,
		Width:              raw.Width,
		Height:             raw.Height,
		XOffset:            raw.XOffset,
		YOffset:            raw.YOffset,
		TypeCode:           raw.TypeCode,
		Type:               TypeForCode(raw.TypeCode),
		Flags: Flags{
			AlignmentCorrection: raw.Flags[0],
			TileSizeHint:        raw.Flags[3],
		},
	}

	if alpha {
		var a rawAlpha
		if err := binary.Read(r, binary.LittleEndian, &a); err != nil {
			return nil, shortRead(err, "image record")
		}
		rec.AlphaOffset = a.Offset
		rec.AlphaLength = a.Length
	}

	return rec, nil
}

// ReadCollection reads the collection header and all of the records it
// declares, in file order.
func ReadCollection(r io.Reader, alpha bool) (*Header, []*Record, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}

	records := make([]*Record, 0, header.NumImages)
	for i := uint32(0); i < header.NumImages; i++ {
		rec, err := ReadRecord(r, alpha)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return header, records, nil
}
