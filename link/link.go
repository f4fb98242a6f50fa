// Package link defines the best-effort datagram boundary the mesh engine
// is built on (spec §4.7): a narrow send/receive interface that a real
// radio driver and an in-process mock both implement, so the protocol
// engine in the root package never depends on a concrete transport.
package link

import (
	"context"

	"go.dedis.ch/mesh/node"
)

// QueueCapacity bounds every inbound queue a Link implementation owns
// (spec §5: channels are bounded, capacity 16).
const QueueCapacity = 16

// RecvData is one datagram as delivered off a Link, with the link-layer
// RX metadata the mesh package needs to resolve a ReceiveMessage.
type RecvData struct {
	Data        []byte
	Source      node.Node
	Destination node.Node
	Rssi        int32
}

// Link is the four-operation boundary the mesh engine sends and receives
// frames through. It never parses message contents.
type Link interface {
	// Send delivers data to dst, blocking until room is available.
	// Best-effort: it always eventually returns, but may silently drop
	// the frame at the transport (e.g. dst out of range).
	Send(ctx context.Context, data []byte, dst node.Node) error
	// TrySend delivers data to dst without blocking, failing with
	// ErrQueueFull if there is no room.
	TrySend(data []byte, dst node.Node) error
	// Receive blocks until a frame arrives.
	Receive(ctx context.Context) (RecvData, error)
	// TryReceive returns immediately, failing with ErrQueueEmpty if
	// nothing is pending.
	TryReceive() (RecvData, error)
}
