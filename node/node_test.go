package node_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.dedis.ch/mesh/node"
	"go.dedis.ch/mesh/wire"
)

func TestStringFormat(t *testing.T) {
	n := node.Node{0x01, 0x02, 0x03, 0xaa, 0xbb, 0xff}
	require.Equal(t, "01:02:03:aa:bb:ff", n.String())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := node.Node{1, 2, 3, 4, 5, 6}
	buf, err := n.Encode(nil)
	require.NoError(t, err)
	require.Len(t, buf, node.Size)

	got, err := node.Decode(wire.NewCursor(buf))
	require.NoError(t, err)
	require.Equal(t, n, got)
}

func TestOrderingAndEquality(t *testing.T) {
	a := node.Node{0, 0, 0, 0, 0, 1}
	b := node.Node{0, 0, 0, 0, 0, 2}
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.True(t, a.Equal(a))
	require.False(t, a.Equal(b))
}

func TestBroadcastIsAllFF(t *testing.T) {
	require.Equal(t, node.Node{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, node.Broadcast)
}
