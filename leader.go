package mesh

import (
	"context"
	"time"

	"go.dedis.ch/mesh/log"
	"go.dedis.ch/mesh/node"
	"go.dedis.ch/mesh/stats"
)

// newsAggregate is one entry of all_news (spec §4.8 Leader step 1): the
// best (highest-RSSI) sighting of a node this round, and the neighbor
// that reported it. A nil bestParent means the leader heard the node
// directly itself.
type newsAggregate struct {
	bestParent *node.Node
	bestRssi   int32
}

// leaderTask implements the Leader role (spec §4.8): a 3-second news-round
// tick, interleaved with direct Discovery sightings arriving outside an
// active polling window.
func (m *Mesh) leaderTask(ctx context.Context) {
	var news []newsEntry
	ticker := time.NewTicker(LeaderTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runNewsRound(ctx, news)
			news = nil
		case recv := <-m.organizeQueue:
			if _, ok := recv.Content.(DiscoveryContent); ok {
				if len(news) >= MaxNews {
					log.Lvl2("leader: news list full, dropping discovery from", recv.FinalSource)
					continue
				}
				news = append(news, newsEntry{node: recv.FinalSource, rssi: recv.Rssi})
			}
		}
	}
}

// runNewsRound executes one full news round: seed all_news from the
// directly-heard news, poll every known neighbor for its own news, then
// propagate and integrate every newly heard node into the tree.
func (m *Mesh) runNewsRound(ctx context.Context, news []newsEntry) {
	allNews := make(map[node.Node]*newsAggregate, len(news))
	for _, e := range news {
		allNews[e.node] = &newsAggregate{bestParent: nil, bestRssi: e.rssi}
	}

	m.treeMu.Lock()
	foreign := foreignNodes(m.tree)
	m.treeMu.Unlock()

	for _, f := range foreign {
		if err := m.sendContent(ctx, RequestNewsContent{}, f); err != nil {
			continue
		}
		m.pollNeighbor(ctx, f, allNews)
	}

	samples := make([]int32, 0, len(allNews))
	for newNode, agg := range allNews {
		samples = append(samples, agg.bestRssi)
		m.integrateNewNode(ctx, newNode, agg)
	}
	if s := stats.Summarize(samples); s.Count > 0 {
		log.Lvl3("leader: news round rssi summary", s)
	}
}

// pollNeighbor repeatedly reads organize_queue with a per-message timeout
// while polling f for news, folding each SendNew into allNews (keeping
// the highest RSSI) until FinSendNew or a timeout ends the poll.
func (m *Mesh) pollNeighbor(ctx context.Context, f node.Node, allNews map[node.Node]*newsAggregate) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(NeighborPollTimeout):
			return
		case recv := <-m.organizeQueue:
			switch c := recv.Content.(type) {
			case SendNewContent:
				agg, ok := allNews[c.Node]
				if !ok || c.Rssi > agg.bestRssi {
					parent := f
					allNews[c.Node] = &newsAggregate{bestParent: &parent, bestRssi: c.Rssi}
				}
			case FinSendNewContent:
				return
			default:
				// Anything else arriving mid-poll is dropped here. A
				// follower never clears its news list, so whatever it
				// reported is reported again in the next round.
			}
		}
	}
}

// integrateNewNode propagates newNode's arrival to every already-known
// tree member, then attaches it locally using its resolved parent and
// tells either newNode itself (direct) or its parent (indirect) to hand
// it the full known topology.
func (m *Mesh) integrateNewNode(ctx context.Context, newNode node.Node, agg *newsAggregate) {
	m.treeMu.Lock()
	existing := m.tree.Edges()
	m.treeMu.Unlock()

	for _, e := range existing {
		child := newNode
		var parent *node.Node
		if agg.bestParent != nil {
			p := *agg.bestParent
			parent = &p
		}
		_ = m.sendContent(ctx, UpsertEdgeContent{Child: &child, Parent: parent}, e.Child)
	}

	m.treeMu.Lock()
	err := m.tree.UpsertEdge(agg.bestParent, newNode)
	m.treeMu.Unlock()
	if err != nil {
		log.Errorf("leader: inserting %s: %v", newNode, err)
		return
	}

	if agg.bestParent == nil {
		m.sendInitialTopology(ctx, newNode)
		return
	}
	_ = m.sendContent(ctx, RequestInitTopologyContent{Node: newNode}, *agg.bestParent)
}

// foreignNodes snapshots every Foreign leaf's node identity. Must be
// called with treeMu held.
func foreignNodes(t *Tree) []node.Node {
	edges := t.Edges()
	out := make([]node.Node, len(edges))
	for i, e := range edges {
		out[i] = e.Child
	}
	return out
}
