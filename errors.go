// Package mesh implements the routing tree, wire codec and protocol engine
// of a self-organizing mesh layer over a best-effort, MAC-addressed
// broadcast link (see go.dedis.ch/mesh/link). Nodes discover each other,
// elect a leader, and build a spanning tree rooted at that leader through
// which application payloads are routed hop-by-hop.
package mesh

import "golang.org/x/xerrors"

// Wire-level errors (spec §7 "Codec").
var (
	// ErrInvalidMessageType is returned when a frame's tag byte does not
	// match any known MessageType.
	ErrInvalidMessageType = xerrors.New("mesh: invalid message type")
	// ErrMessageTooLarge is returned by SendMessage.Serialize when the
	// encoded frame would exceed MessageSize.
	ErrMessageTooLarge = xerrors.New("mesh: message too large")
)

// Tree errors (spec §7 "Tree").
var (
	// ErrLeafAllocation is returned by Tree.UpsertEdge when a new leaf
	// must be allocated and the backing arena is full.
	ErrLeafAllocation = xerrors.New("mesh: leaf allocation failed, arena full")
	// ErrNodeNotFound is returned when a lookup (parent, next hop, ...)
	// cannot find a matching node in the tree.
	ErrNodeNotFound = xerrors.New("mesh: node not found")
	// ErrRootIsDestination is returned by Tree.NextHop when the
	// destination addresses this node itself.
	ErrRootIsDestination = xerrors.New("mesh: destination is this node")
)

// Mesh errors (spec §7 "Mesh", composed from the above plus the link).
var (
	// ErrQueueFull is returned by a non-blocking send when the target
	// channel has no room; the frame is dropped, never queued.
	ErrQueueFull = xerrors.New("mesh: queue full")
	// ErrQueueEmpty is returned by a non-blocking receive when nothing
	// is pending.
	ErrQueueEmpty = xerrors.New("mesh: queue empty")
)
