package mesh

import (
	"context"

	"go.dedis.ch/mesh/log"
	"go.dedis.ch/mesh/node"
)

// newsEntry is one Discovery sighting: the node heard and the RSSI it
// was heard at. Both the leader and follower roles keep a bounded list
// of these, owned by their own task (spec §5: "news vectors are owned by
// their task; no sharing").
type newsEntry struct {
	node node.Node
	rssi int32
}

// followerTask implements the Follower role (spec §4.8).
func (m *Mesh) followerTask(ctx context.Context) {
	var news []newsEntry
	for {
		select {
		case <-ctx.Done():
			return
		case recv := <-m.organizeQueue:
			switch c := recv.Content.(type) {
			case DiscoveryContent:
				if len(news) >= MaxNews {
					log.Lvl2("follower: news list full, dropping discovery from", recv.FinalSource)
					continue
				}
				news = append(news, newsEntry{node: recv.FinalSource, rssi: recv.Rssi})
			case RequestNewsContent:
				for _, e := range news {
					_ = m.sendContent(ctx, SendNewContent{Node: e.node, Rssi: e.rssi}, recv.FinalSource)
				}
				_ = m.sendContent(ctx, FinSendNewContent{}, recv.FinalSource)
			case UpsertEdgeContent:
				m.applyUpsertEdge(recv.FinalSource, c)
			case RequestInitTopologyContent:
				m.sendInitialTopology(ctx, c.Node)
			default:
				// Other variants are ignored by a follower.
			}
		}
	}
}
