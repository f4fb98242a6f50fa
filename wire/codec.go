package wire

import "encoding/binary"

// WireCodec is implemented by every type with a fixed-buffer wire
// representation. Encode appends the value's bytes to out and returns the
// grown slice, failing with ErrBufferOverflow/ErrBufferCapacity if it
// would not fit. Decoding is not part of this interface — Go has no
// covariant "return Self" — each codec type instead exposes a sibling
// Decode(*Cursor) (T, error) function; see node.Decode and
// DecodeOption below for the convention.
type WireCodec interface {
	Encode(out []byte) ([]byte, error)
}

const (
	optionFlagNone = 0x00
	optionFlagSome = 0x01
)

// EncodeOption appends the Option<T> encoding of v: a single flag byte,
// 0x00 for a nil v, else 0x01 followed by v.Encode().
func EncodeOption[T WireCodec](out []byte, v T, isNil bool) ([]byte, error) {
	if isNil {
		return append(out, optionFlagNone), nil
	}
	out = append(out, optionFlagSome)
	return v.Encode(out)
}

// DecodeOption reads an Option<T> from c using decode to parse the Some
// payload. It returns (zero, false, nil) for None, (v, true, nil) for
// Some(v), and a non-nil error — ErrInvalidOptionFlag or whatever decode
// returned — otherwise.
func DecodeOption[T any](c *Cursor, decode func(*Cursor) (T, error)) (v T, present bool, err error) {
	flag, err := c.Take(1)
	if err != nil {
		return v, false, err
	}
	switch flag[0] {
	case optionFlagNone:
		return v, false, nil
	case optionFlagSome:
		v, err = decode(c)
		return v, err == nil, err
	default:
		return v, false, ErrInvalidOptionFlag
	}
}

// EncodeInt32LE appends a little-endian signed 32-bit integer (used for
// RSSI values on the wire).
func EncodeInt32LE(out []byte, v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(out, b[:]...)
}

// DecodeInt32LE reads a little-endian signed 32-bit integer.
func DecodeInt32LE(c *Cursor) (int32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}
