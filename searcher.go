package mesh

import (
	"context"
	"time"

	"go.dedis.ch/mesh/jitter"
	"go.dedis.ch/mesh/log"
)

// searchJitterFraction spreads the 1 s search round by up to ±10%, so
// nodes booted at the same instant don't broadcast in lockstep forever.
const searchJitterFraction = 0.1

// searcherTask runs run_search_round (spec §4.8 Searcher) until this node
// is assigned a role, then returns; the matching leader or follower task
// it spawned continues on its own goroutine.
func (m *Mesh) searcherTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if m.runSearchRound(ctx) {
			return
		}
	}
}

// runSearchRound broadcasts one Discovery and waits up to
// SearchRoundTimeout for a control message that assigns this node a
// role. It returns true once a role has been assigned.
func (m *Mesh) runSearchRound(ctx context.Context) bool {
	if err := m.broadcastDiscovery(ctx); err != nil {
		log.Errorf("searcher: %v", err)
	}

	timer := time.NewTimer(jitter.Duration(SearchRoundTimeout, searchJitterFraction))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return true
		case <-timer.C:
			return false
		case recv := <-m.organizeQueue:
			switch c := recv.Content.(type) {
			case DiscoveryContent:
				m.setRole(RoleLeader)
				go m.leaderTask(ctx)
				return true
			case UpsertEdgeContent:
				m.applyUpsertEdge(recv.FinalSource, c)
				m.setRole(RoleFollower)
				go m.followerTask(ctx)
				return true
			default:
				// Any other message while unassigned is ignored.
			}
		}
	}
}
