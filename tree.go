package mesh

import (
	"strings"

	"golang.org/x/xerrors"

	"go.dedis.ch/mesh/arena"
	"go.dedis.ch/mesh/node"
)

// Tree size invariants (spec §3): MAX_LEAFS >= 32, MAX_CHILD_LEAFS >= 8,
// MAX_PREFIX >= MAX_LEAFS.
const (
	MaxLeafs      = 64
	MaxChildLeafs = 8
	MaxPrefix     = MaxLeafs
)

// leaf is the arena payload backing Tree. own marks the single Own leaf at
// rootID; every other leaf is Foreign and carries node. children holds at
// most MaxChildLeafs slot ids, in insertion order.
type leaf struct {
	own      bool
	node     node.Node
	children []arena.SlotId
}

// Tree is an arena-backed routing tree rooted at self. The zero value is
// not usable; construct with NewTree. Tree itself does no locking — the
// Mesh engine serializes access behind its own mutex (spec §5).
type Tree struct {
	leaves *arena.Arena[leaf]
	rootID arena.SlotId
	self   node.Node
}

// NewTree creates a Tree holding only the Own root, representing self.
func NewTree(self node.Node) *Tree {
	a := arena.New[leaf](MaxLeafs)
	id, _ := a.Alloc(leaf{own: true})
	return &Tree{leaves: a, rootID: id, self: self}
}

// Edge is a snapshot of one tree edge: Child's parent is Parent, or the
// root if Parent is nil. Used to reconstruct or propagate topology.
type Edge struct {
	Child  node.Node
	Parent *node.Node
}

// UpsertEdge relocates to (creating it if absent) to be a child of the
// leaf identified by from, where from == nil means the Own root.
func (t *Tree) UpsertEdge(from *node.Node, to node.Node) error {
	childID, existed := t.findByNode(to)
	if existed {
		if parentID, idx, ok := t.findParentOf(childID); ok {
			pl, err := t.leaves.Get(parentID)
			if err != nil {
				return xerrors.Errorf("detaching existing leaf: %w", err)
			}
			pl.children = append(pl.children[:idx], pl.children[idx+1:]...)
		}
	} else {
		id, ok := t.leaves.Alloc(leaf{node: to})
		if !ok {
			return xerrors.Errorf("inserting %s: %w", to, ErrLeafAllocation)
		}
		childID = id
	}

	parentID, ok := t.findParentLeaf(from)
	if !ok {
		// Spec §9: the child remains detached; a later upsert_edge call
		// may still attach it.
		return xerrors.Errorf("parent for %s: %w", to, ErrNodeNotFound)
	}
	pl, err := t.leaves.Get(parentID)
	if err != nil {
		return xerrors.Errorf("fetching parent: %w", err)
	}
	if len(pl.children) >= MaxChildLeafs {
		return xerrors.Errorf("attaching %s: %w", to, ErrLeafAllocation)
	}
	pl.children = append(pl.children, childID)
	return nil
}

// NextHop returns the immediate neighbor a frame addressed to destination
// must be forwarded to.
func (t *Tree) NextHop(destination node.Node) (node.Node, error) {
	if destination.Equal(t.self) {
		return node.Node{}, ErrRootIsDestination
	}
	root, err := t.leaves.Get(t.rootID)
	if err != nil {
		return node.Node{}, xerrors.Errorf("fetching root: %w", err)
	}
	for _, cid := range root.children {
		cl, err := t.leaves.Get(cid)
		if err != nil {
			continue
		}
		if cl.node.Equal(destination) {
			return destination, nil
		}
	}
	for _, cid := range root.children {
		if t.subtreeContains(cid, destination) {
			cl, err := t.leaves.Get(cid)
			if err != nil {
				continue
			}
			return cl.node, nil
		}
	}
	return node.Node{}, ErrNodeNotFound
}

// Height returns the longest root-to-leaf path, counting the root as 1.
func (t *Tree) Height() int {
	return t.heightOf(t.rootID)
}

// Edges snapshots every (child, parent) edge currently in the tree, in
// depth-first insertion order. Parent is nil when the child hangs
// directly off the root. Used by the leader's news-round propagation and
// by send_initial_topology (spec §4.8).
func (t *Tree) Edges() []Edge {
	var edges []Edge
	var walk func(id arena.SlotId, parent *node.Node)
	walk = func(id arena.SlotId, parent *node.Node) {
		l, err := t.leaves.Get(id)
		if err != nil {
			return
		}
		next := parent
		if !l.own {
			edges = append(edges, Edge{Child: l.node, Parent: parent})
			n := l.node
			next = &n
		} else {
			next = nil
		}
		for _, cid := range l.children {
			walk(cid, next)
		}
	}
	walk(t.rootID, nil)
	return edges
}

// String renders the tree with ASCII box-drawing prefixes; the Own root
// prints as the literal string "self". Depths beyond MaxPrefix are
// truncated (spec §9 open question on MAX_PREFIX).
func (t *Tree) String() string {
	var b strings.Builder
	t.writeLeaf(&b, t.rootID, nil)
	return b.String()
}

type prefixKind int

const (
	prefixSpace prefixKind = iota
	prefixPipe
	prefixTee
	prefixEllbow
)

func (p prefixKind) String() string {
	switch p {
	case prefixPipe:
		return "│  "
	case prefixTee:
		return "├──"
	case prefixEllbow:
		return "└──"
	default:
		return "   "
	}
}

func (t *Tree) writeLeaf(b *strings.Builder, id arena.SlotId, prefixes []prefixKind) {
	for _, p := range prefixes {
		b.WriteString(p.String())
	}
	l, err := t.leaves.Get(id)
	if err != nil {
		return
	}
	if l.own {
		b.WriteString("self")
	} else {
		b.WriteString(l.node.String())
	}
	b.WriteString("\n")
	if len(prefixes) >= MaxPrefix {
		return
	}
	// The connector drawn for this leaf becomes a pass-through for its
	// children's prefix column.
	continued := make([]prefixKind, len(prefixes))
	for i, p := range prefixes {
		switch p {
		case prefixEllbow:
			continued[i] = prefixSpace
		case prefixTee:
			continued[i] = prefixPipe
		default:
			continued[i] = p
		}
	}
	for idx, cid := range l.children {
		childPrefixes := make([]prefixKind, len(continued), len(continued)+1)
		copy(childPrefixes, continued)
		if idx == len(l.children)-1 {
			childPrefixes = append(childPrefixes, prefixEllbow)
		} else {
			childPrefixes = append(childPrefixes, prefixTee)
		}
		t.writeLeaf(b, cid, childPrefixes)
	}
}

func (t *Tree) heightOf(id arena.SlotId) int {
	l, err := t.leaves.Get(id)
	if err != nil {
		return 0
	}
	max := 0
	for _, c := range l.children {
		if h := t.heightOf(c); h > max {
			max = h
		}
	}
	return max + 1
}

func (t *Tree) findByNode(n node.Node) (arena.SlotId, bool) {
	var found arena.SlotId
	var ok bool
	t.visit(t.rootID, func(id arena.SlotId, l *leaf) bool {
		if !l.own && l.node.Equal(n) {
			found, ok = id, true
			return false
		}
		return true
	})
	return found, ok
}

func (t *Tree) findParentOf(childID arena.SlotId) (parentID arena.SlotId, idx int, ok bool) {
	t.visit(t.rootID, func(id arena.SlotId, l *leaf) bool {
		for i, c := range l.children {
			if c == childID {
				parentID, idx, ok = id, i, true
				return false
			}
		}
		return true
	})
	return parentID, idx, ok
}

func (t *Tree) findParentLeaf(from *node.Node) (arena.SlotId, bool) {
	if from == nil {
		return t.rootID, true
	}
	return t.findByNode(*from)
}

func (t *Tree) subtreeContains(id arena.SlotId, destination node.Node) bool {
	found := false
	t.visit(id, func(_ arena.SlotId, l *leaf) bool {
		if !l.own && l.node.Equal(destination) {
			found = true
			return false
		}
		return true
	})
	return found
}

// visit runs a depth-first, pre-order walk starting at id, stopping early
// if fn returns false.
func (t *Tree) visit(id arena.SlotId, fn func(id arena.SlotId, l *leaf) bool) bool {
	l, err := t.leaves.Get(id)
	if err != nil {
		return true
	}
	if !fn(id, l) {
		return false
	}
	for _, c := range l.children {
		if !t.visit(c, fn) {
			return false
		}
	}
	return true
}
