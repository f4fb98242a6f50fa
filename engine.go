package mesh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/xerrors"

	"go.dedis.ch/mesh/link"
	"go.dedis.ch/mesh/log"
	"go.dedis.ch/mesh/node"
)

// Timing and capacity constants (spec §4.8, §5).
const (
	QueueCapacity       = 16
	MaxNews             = 16
	NeighborPollTimeout = 500 * time.Millisecond
)

// SearchRoundTimeout and LeaderTickInterval are the two timers a node's
// bootstrap config (mesh/config.NodeConfig) may override; cmd/meshnode
// applies the resolved config before calling Run. Left at their spec
// §4.8/§5 defaults for any caller that never touches them.
var (
	SearchRoundTimeout = time.Second
	LeaderTickInterval = 3 * time.Second
)

// Role is the stage of the unassigned -> {leader, follower} transition a
// Mesh has reached (spec §4.8: a node transitions exactly once).
type Role int32

const (
	RoleUnassigned Role = iota
	RoleLeader
	RoleFollower
)

func (r Role) String() string {
	switch r {
	case RoleLeader:
		return "leader"
	case RoleFollower:
		return "follower"
	default:
		return "unassigned"
	}
}

type recvEntry struct {
	data   []byte
	source node.Node
}

// Mesh is the protocol engine: searcher, leader, follower and dispatcher
// tasks coordinated by bounded channels and a mutex around the Tree
// (spec §4.8, §5).
type Mesh struct {
	self node.Node
	link link.Link

	treeMu sync.Mutex
	tree   *Tree

	organizeQueue chan *ReceiveMessage
	recvQueue     chan recvEntry

	role int32
}

// New builds a Mesh for self, communicating over l. Call Run to start its
// background tasks.
func New(self node.Node, l link.Link) *Mesh {
	return &Mesh{
		self:          self,
		link:          l,
		tree:          NewTree(self),
		organizeQueue: make(chan *ReceiveMessage, QueueCapacity),
		recvQueue:     make(chan recvEntry, QueueCapacity),
	}
}

// Self returns this Mesh's own node identity.
func (m *Mesh) Self() node.Node { return m.self }

// Role reports the current protocol role.
func (m *Mesh) Role() Role { return Role(atomic.LoadInt32(&m.role)) }

func (m *Mesh) setRole(r Role) { atomic.StoreInt32(&m.role, int32(r)) }

// TreeHeight returns the current routing tree's height under lock.
func (m *Mesh) TreeHeight() int {
	m.treeMu.Lock()
	defer m.treeMu.Unlock()
	return m.tree.Height()
}

// TreeString renders the current routing tree under lock.
func (m *Mesh) TreeString() string {
	m.treeMu.Lock()
	defer m.treeMu.Unlock()
	return m.tree.String()
}

// NextHop exposes the tree's routing lookup for diagnostics and test
// harnesses; the dispatcher and Send use the tree directly under their
// own lock instead.
func (m *Mesh) NextHop(dst node.Node) (node.Node, error) {
	m.treeMu.Lock()
	defer m.treeMu.Unlock()
	return m.tree.NextHop(dst)
}

// Run starts the dispatcher and searcher tasks. It blocks until ctx is
// done; the tasks it spawns (and any leader/follower task the searcher
// spawns in turn) run for the lifetime of ctx. There is no graceful
// shutdown beyond ctx cancellation (spec §5).
func (m *Mesh) Run(ctx context.Context) {
	go m.dispatcherTask(ctx)
	go m.searcherTask(ctx)
	<-ctx.Done()
}

// Send wraps data in an Application frame and routes it toward dst.
// Sending to self yields ErrRootIsDestination.
func (m *Mesh) Send(ctx context.Context, data []byte, dst node.Node) error {
	msg := SendMessage{Content: ApplicationContent{Data: data}, FinalDestination: dst}
	payload, err := msg.Serialize()
	if err != nil {
		return xerrors.Errorf("serializing application frame: %w", err)
	}
	m.treeMu.Lock()
	hop, err := m.tree.NextHop(dst)
	m.treeMu.Unlock()
	if err != nil {
		return xerrors.Errorf("resolving next hop for %s: %w", dst, err)
	}
	if err := m.link.Send(ctx, payload, hop); err != nil {
		return xerrors.Errorf("sending to %s via %s: %w", dst, hop, err)
	}
	return nil
}

// Receive blocks until an application frame addressed to this node has
// been dispatched, returning its payload and original sender.
func (m *Mesh) Receive(ctx context.Context) ([]byte, node.Node, error) {
	select {
	case e := <-m.recvQueue:
		return e.data, e.source, nil
	case <-ctx.Done():
		return nil, node.Node{}, ctx.Err()
	}
}

// sendContent serializes content addressed to dst, resolves the next hop
// through the tree, and sends it over the link. Per spec §7, control-
// plane send failures are logged and dropped by the caller, never
// propagated past the protocol engine's internal tasks.
func (m *Mesh) sendContent(ctx context.Context, content MessageContent, dst node.Node) error {
	m.treeMu.Lock()
	hop, err := m.tree.NextHop(dst)
	m.treeMu.Unlock()
	if err != nil {
		log.Errorf("mesh: resolving next hop for %s: %v", dst, err)
		return err
	}
	msg := SendMessage{Content: content, FinalDestination: dst}
	payload, err := msg.Serialize()
	if err != nil {
		log.Errorf("mesh: serializing content for %s: %v", dst, err)
		return err
	}
	if err := m.link.Send(ctx, payload, hop); err != nil {
		log.Errorf("mesh: link send to %s via %s: %v", dst, hop, err)
		return err
	}
	return nil
}

// broadcastDiscovery sends a Discovery frame straight to the broadcast
// address, bypassing tree resolution (Discovery is never addressed
// through a next hop, see spec §4.8 Searcher).
func (m *Mesh) broadcastDiscovery(ctx context.Context) error {
	msg := SendMessage{Content: DiscoveryContent{}, FinalDestination: node.Broadcast}
	payload, err := msg.Serialize()
	if err != nil {
		log.Errorf("mesh: serializing discovery: %v", err)
		return err
	}
	if err := m.link.Send(ctx, payload, node.Broadcast); err != nil {
		log.Errorf("mesh: broadcasting discovery: %v", err)
		return err
	}
	return nil
}

// resolveEdge applies the UpsertEdge absence conventions of spec §4.8:
// a nil Parent means "the sender is my parent" unless the named parent is
// this node itself, which means "I am the root of this edge"; a nil
// Child means "the sender".
func (m *Mesh) resolveEdge(sender node.Node, c UpsertEdgeContent) (*node.Node, node.Node) {
	var parent *node.Node
	switch {
	case c.Parent == nil:
		s := sender
		parent = &s
	case c.Parent.Equal(m.self):
		parent = nil
	default:
		p := *c.Parent
		parent = &p
	}
	child := sender
	if c.Child != nil {
		child = *c.Child
	}
	return parent, child
}

// applyUpsertEdge resolves and applies one incoming UpsertEdge control
// message to the local tree.
func (m *Mesh) applyUpsertEdge(sender node.Node, c UpsertEdgeContent) {
	parent, child := m.resolveEdge(sender, c)
	m.treeMu.Lock()
	err := m.tree.UpsertEdge(parent, child)
	m.treeMu.Unlock()
	if err != nil {
		log.Errorf("mesh: upsert_edge(%v, %s): %v", parent, child, err)
	}
}

// sendInitialTopology tells newcomer it is a child of self, then
// reconstructs every existing tree edge at newcomer so it learns the
// full known topology (spec §4.8).
func (m *Mesh) sendInitialTopology(ctx context.Context, newcomer node.Node) {
	// Parent == newcomer's own identity tells it, per the follower's
	// resolution rule, "attach the sender under your own root": newcomer
	// learns self as one of its own tree's root children.
	newcomerID := newcomer
	if err := m.sendContent(ctx, UpsertEdgeContent{Child: nil, Parent: &newcomerID}, newcomer); err != nil {
		return
	}
	m.treeMu.Lock()
	edges := m.tree.Edges()
	m.treeMu.Unlock()
	for _, e := range edges {
		if e.Child.Equal(newcomer) {
			continue
		}
		child := e.Child
		var parent *node.Node
		if e.Parent != nil {
			p := *e.Parent
			parent = &p
		}
		_ = m.sendContent(ctx, UpsertEdgeContent{Child: &child, Parent: parent}, newcomer)
	}
}
