package link

import (
	"context"

	"go.dedis.ch/mesh/node"
)

// Transport is the narrow hook a real radio driver implements: raw
// best-effort frame I/O with RX metadata. It is the external collaborator
// boundary named in spec §1 — out of scope for this repository — so
// Radio below only adapts it to the Link interface, it does not implement
// one.
type Transport interface {
	TransmitFrame(data []byte, dst node.Node) error
	ReceiveFrame(ctx context.Context) (RecvData, error)
}

// Radio adapts a hardware Transport to the Link interface. It has no
// queueing of its own: Send and Receive pass straight through, and the
// non-blocking variants degrade to ErrUnsupported when the underlying
// Transport offers no non-blocking primitive.
type Radio struct {
	Transport Transport
}

var _ Link = (*Radio)(nil)

// Send transmits data to dst over the underlying Transport.
func (r *Radio) Send(ctx context.Context, data []byte, dst node.Node) error {
	return r.Transport.TransmitFrame(data, dst)
}

// TrySend is not supported by the Transport boundary: hardware radios in
// this family have no way to report "queue full" synchronously, only
// best-effort transmission.
func (r *Radio) TrySend(data []byte, dst node.Node) error {
	return ErrUnsupported
}

// Receive blocks on the underlying Transport for the next frame.
func (r *Radio) Receive(ctx context.Context) (RecvData, error) {
	return r.Transport.ReceiveFrame(ctx)
}

// TryReceive is not supported; see TrySend.
func (r *Radio) TryReceive() (RecvData, error) {
	return RecvData{}, ErrUnsupported
}
