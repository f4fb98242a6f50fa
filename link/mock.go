package link

import (
	"context"
	"sync"

	"golang.org/x/xerrors"

	"go.dedis.ch/mesh/node"
)

// MockManager is an in-process registry of Mock links, in the style of
// onet's network.LocalManager: every node registers a Mock against a
// shared manager, then Connect wires pairs bidirectionally with a
// simulated RSSI. This is the harness used by the end-to-end scenario
// tests (spec §8) in place of a real radio.
type MockManager struct {
	mu    sync.Mutex
	links map[node.Node]*Mock
	peers map[node.Node]map[node.Node]int32
}

// NewMockManager returns a fresh, empty manager.
func NewMockManager() *MockManager {
	return &MockManager{
		links: make(map[node.Node]*Mock),
		peers: make(map[node.Node]map[node.Node]int32),
	}
}

// NewLink registers and returns a Mock for self. It errors if self
// already has a link on this manager.
func (m *MockManager) NewLink(self node.Node) (*Mock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[self]; ok {
		return nil, xerrors.Errorf("%s: %w", self, ErrAlreadyInitialized)
	}
	l := &Mock{
		self: self,
		mgr:  m,
		recv: make(chan RecvData, QueueCapacity),
	}
	m.links[self] = l
	m.peers[self] = make(map[node.Node]int32)
	return l, nil
}

// Connect marks a and b as being in radio range of each other at the
// given simulated RSSI, symmetrically.
func (m *MockManager) Connect(a, b node.Node, rssi int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.peers[a] == nil {
		m.peers[a] = make(map[node.Node]int32)
	}
	if m.peers[b] == nil {
		m.peers[b] = make(map[node.Node]int32)
	}
	m.peers[a][b] = rssi
	m.peers[b][a] = rssi
}

func (m *MockManager) neighbors(self node.Node) []node.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]node.Node, 0, len(m.peers[self]))
	for n := range m.peers[self] {
		out = append(out, n)
	}
	return out
}

func (m *MockManager) rssi(self, peer node.Node) int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peers[self][peer]
}

func (m *MockManager) linkFor(n node.Node) (*Mock, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[n]
	return l, ok
}

// Mock is an in-process, channel-backed Link implementation. It only
// delivers to peers that have been Connect-ed on its manager, modeling a
// short-range radio's locality.
type Mock struct {
	self node.Node
	mgr  *MockManager
	recv chan RecvData
}

var _ Link = (*Mock)(nil)

func (l *Mock) deliverTargets(dst node.Node) []node.Node {
	if dst.Equal(node.Broadcast) {
		return l.mgr.neighbors(l.self)
	}
	if l.connected(dst) {
		return []node.Node{dst}
	}
	return nil
}

func (l *Mock) connected(dst node.Node) bool {
	l.mgr.mu.Lock()
	defer l.mgr.mu.Unlock()
	_, ok := l.mgr.peers[l.self][dst]
	return ok
}

// Send delivers data to every currently-connected target matching dst
// (one peer for unicast, all neighbors for broadcast), blocking on each
// target's queue. A target with no connection is silently skipped,
// matching a real radio's best-effort, range-limited delivery.
func (l *Mock) Send(ctx context.Context, data []byte, dst node.Node) error {
	targets := l.deliverTargets(dst)

	// A real radio's broadcast frames all carry the broadcast address in
	// their destination field, regardless of which node receives them;
	// Destination is set to dst, not to the individual target, so
	// ReceiveMessage.IsFinalDestination behaves the same as on hardware.
	for _, t := range targets {
		rcv, ok := l.mgr.linkFor(t)
		if !ok {
			continue
		}
		cp := append([]byte(nil), data...)
		msg := RecvData{Data: cp, Source: l.self, Destination: dst, Rssi: l.mgr.rssi(l.self, t)}
		select {
		case rcv.recv <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// TrySend is the non-blocking counterpart of Send, used by the
// dispatcher's per-hop forwarding (spec §4.8). Per-hop forwarding always
// targets a single resolved next hop, never broadcast.
func (l *Mock) TrySend(data []byte, dst node.Node) error {
	if !l.connected(dst) {
		return nil
	}
	rcv, ok := l.mgr.linkFor(dst)
	if !ok {
		return nil
	}
	cp := append([]byte(nil), data...)
	msg := RecvData{Data: cp, Source: l.self, Destination: dst, Rssi: l.mgr.rssi(l.self, dst)}
	select {
	case rcv.recv <- msg:
		return nil
	default:
		return xerrors.Errorf("to %s: %w", dst, ErrQueueFull)
	}
}

// Receive blocks until a frame arrives or ctx is done.
func (l *Mock) Receive(ctx context.Context) (RecvData, error) {
	select {
	case d := <-l.recv:
		return d, nil
	case <-ctx.Done():
		return RecvData{}, ctx.Err()
	}
}

// TryReceive returns immediately.
func (l *Mock) TryReceive() (RecvData, error) {
	select {
	case d := <-l.recv:
		return d, nil
	default:
		return RecvData{}, ErrQueueEmpty
	}
}
