package mesh

import (
	"context"

	"go.dedis.ch/mesh/link"
	"go.dedis.ch/mesh/log"
)

// dispatcherTask implements the Dispatcher role (spec §4.8): every raw
// frame off the link is parsed, then either forwarded, routed to
// organize_queue, or routed to recv_queue.
func (m *Mesh) dispatcherTask(ctx context.Context) {
	for {
		data, err := m.link.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("dispatcher: receive: %v", err)
			continue
		}
		m.dispatch(ctx, data)
	}
}

func (m *Mesh) dispatch(ctx context.Context, data link.RecvData) {
	recv, err := NewReceiveMessage(data.Data, data.Destination, data.Source, data.Rssi)
	if err != nil {
		log.Errorf("dispatcher: parsing frame from %s: %v", data.Source, err)
		return
	}

	_, isDiscovery := recv.Content.(DiscoveryContent)
	if !recv.IsFinalDestination() && !isDiscovery {
		m.forward(recv)
		return
	}

	if recv.IsOrganization() {
		select {
		case m.organizeQueue <- recv:
		default:
			log.Lvl2("dispatcher: organize_queue full, dropping", recv.Content.Type())
		}
		return
	}

	if app, ok := recv.Content.(ApplicationContent); ok {
		select {
		case m.recvQueue <- recvEntry{data: app.Data, source: recv.FinalSource}:
		default:
			log.Lvl2("dispatcher: recv_queue full, dropping application frame from", recv.FinalSource)
		}
	}
}

func (m *Mesh) forward(recv *ReceiveMessage) {
	send := recv.ToSendMessage()
	payload, err := send.Serialize()
	if err != nil {
		log.Errorf("dispatcher: re-serializing forward to %s: %v", send.FinalDestination, err)
		return
	}
	m.treeMu.Lock()
	hop, err := m.tree.NextHop(send.FinalDestination)
	m.treeMu.Unlock()
	if err != nil {
		log.Errorf("dispatcher: resolving next hop for forward to %s: %v", send.FinalDestination, err)
		return
	}
	if err := m.link.TrySend(payload, hop); err != nil {
		log.Errorf("dispatcher: forwarding to %s via %s: %v", send.FinalDestination, hop, err)
	}
}
