package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.dedis.ch/mesh/wire"
)

func TestCursorTake(t *testing.T) {
	c := wire.NewCursor([]byte{1, 2, 3, 4, 5})

	b, err := c.Take(3)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)
	require.Equal(t, 3, c.Pos())
	require.Equal(t, []byte{4, 5}, c.Remaining())
}

func TestCursorUnderflowLeavesPositionUnchanged(t *testing.T) {
	c := wire.NewCursor([]byte{1, 2})
	_, err := c.Take(1)
	require.NoError(t, err)

	_, err = c.Take(5)
	require.ErrorIs(t, err, wire.ErrBufferUnderflow)
	require.Equal(t, 1, c.Pos(), "a failed take must not advance the cursor")
}

// fakeCodec is a trivial WireCodec used to exercise EncodeOption/DecodeOption
// without depending on the node package.
type fakeCodec struct{ b byte }

func (f fakeCodec) Encode(out []byte) ([]byte, error) {
	return append(out, f.b), nil
}

func decodeFake(c *wire.Cursor) (fakeCodec, error) {
	b, err := c.Take(1)
	if err != nil {
		return fakeCodec{}, err
	}
	return fakeCodec{b[0]}, nil
}

func TestOptionRoundTripNone(t *testing.T) {
	buf, err := wire.EncodeOption(nil, fakeCodec{}, true)
	require.NoError(t, err)
	require.Len(t, buf, 1, "None encodes to exactly 1 byte")

	c := wire.NewCursor(buf)
	v, present, err := wire.DecodeOption(c, decodeFake)
	require.NoError(t, err)
	require.False(t, present)
	require.Equal(t, fakeCodec{}, v)
}

func TestOptionRoundTripSome(t *testing.T) {
	buf, err := wire.EncodeOption(nil, fakeCodec{0x42}, false)
	require.NoError(t, err)
	require.Len(t, buf, 2, "Some(T) encodes to 1 flag byte + len(T.Encode())")

	c := wire.NewCursor(buf)
	v, present, err := wire.DecodeOption(c, decodeFake)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, byte(0x42), v.b)
}

func TestOptionInvalidFlag(t *testing.T) {
	c := wire.NewCursor([]byte{0x09})
	_, _, err := wire.DecodeOption(c, decodeFake)
	require.ErrorIs(t, err, wire.ErrInvalidOptionFlag)
}

func TestInt32LERoundTrip(t *testing.T) {
	buf := wire.EncodeInt32LE(nil, -42)
	require.Len(t, buf, 4)
	c := wire.NewCursor(buf)
	v, err := wire.DecodeInt32LE(c)
	require.NoError(t, err)
	require.Equal(t, int32(-42), v)
}
