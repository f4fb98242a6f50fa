// Package node defines Node, the 6-byte MAC-like identifier shared by the
// link, the wire codec and the routing tree.
package node

import (
	"fmt"

	"go.dedis.ch/mesh/wire"
)

// Size is the on-wire and in-memory size of a Node, in bytes.
const Size = 6

// Node is a 6-byte identifier for one device on the mesh. It is plain
// value data: no lifetime relations, total equality and ordering.
type Node [Size]byte

// Broadcast is the distinguished all-0xFF address. It is never stored as
// a tree leaf.
var Broadcast = Node{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// Equal reports whether n and other identify the same device.
func (n Node) Equal(other Node) bool {
	return n == other
}

// Less gives Node a total order, lowest byte first, so nodes can be used
// as map keys or sorted deterministically in tests and logs.
func (n Node) Less(other Node) bool {
	for i := range n {
		if n[i] != other[i] {
			return n[i] < other[i]
		}
	}
	return false
}

// String renders the Node as colon-separated lowercase hex, e.g.
// "aa:bb:cc:dd:ee:ff".
func (n Node) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", n[0], n[1], n[2], n[3], n[4], n[5])
}

// Encode appends the Node's 6 raw bytes to out. It never fails.
func (n Node) Encode(out []byte) ([]byte, error) {
	return append(out, n[:]...), nil
}

// Decode reads a Node's 6 raw bytes from c.
func Decode(c *wire.Cursor) (Node, error) {
	b, err := c.Take(Size)
	if err != nil {
		return Node{}, err
	}
	var n Node
	copy(n[:], b)
	return n, nil
}
