package jpegstream

import (
	"encoding/binary"
	"io"
)

// reader provides the marker/segment-level reading primitives shared by the
// segment parser and the entropy-coded scan reader.
type reader struct {
	r   io.Reader
	buf [2]byte
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) ReadByte() (byte, error) {
	_, err := io.ReadFull(r.r, r.buf[:1])
	if err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *reader) readUint16() (uint16, error) {
	_, err := io.ReadFull(r.r, r.buf[:2])
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.buf[:2]), nil
}

// readMarker reads the next marker, skipping any fill bytes (0xFF padding)
// before it. Returns the full 0xFFxx marker value.
func (r *reader) readMarker() (uint16, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, ErrInvalidMarker
	}
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			break
		}
	}
	if b == 0x00 {
		return 0, ErrInvalidMarker
	}
	return 0xFF00 | uint16(b), nil
}

// readSegment reads a length-prefixed segment and returns its payload
// (the length field itself is not included).
func (r *reader) readSegment() ([]byte, error) {
	length, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	if length < 2 {
		return nil, ErrInvalidData
	}
	data := make([]byte, length-2)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, err
	}
	return data, nil
}
