package wire

import "golang.org/x/xerrors"

// ErrBufferUnderflow is returned by Cursor.Take when fewer than n bytes
// remain unread.
var ErrBufferUnderflow = xerrors.New("wire: buffer underflow")

// ErrBufferOverflow is returned by encoders when out has no room left for
// the value being written.
var ErrBufferOverflow = xerrors.New("wire: buffer overflow")

// ErrBufferCapacity is returned by encoders when a length-prefixed value
// (e.g. an Application payload) does not fit the field's declared maximum.
var ErrBufferCapacity = xerrors.New("wire: value exceeds field capacity")

// ErrInvalidOptionFlag is returned by DecodeOption when the leading
// flag byte is neither 0x00 nor 0x01.
var ErrInvalidOptionFlag = xerrors.New("wire: invalid option flag")
