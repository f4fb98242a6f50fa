package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	mesh "go.dedis.ch/mesh"
	"go.dedis.ch/mesh/node"
)

func n(b byte) node.Node {
	return node.Node{0, 0, 0, 0, 0, b}
}

func TestTreeNewHasHeightOneAndNoRoute(t *testing.T) {
	self := n(1)
	tr := mesh.NewTree(self)
	require.Equal(t, 1, tr.Height())
	_, err := tr.NextHop(n(2))
	require.ErrorIs(t, err, mesh.ErrNodeNotFound)
}

func TestTreeUpsertEdgeUnderRoot(t *testing.T) {
	self := n(1)
	a := n(2)
	tr := mesh.NewTree(self)
	require.NoError(t, tr.UpsertEdge(nil, a))
	hop, err := tr.NextHop(a)
	require.NoError(t, err)
	require.Equal(t, a, hop)
}

func TestTreeThreeLevelChain(t *testing.T) {
	self := n(1)
	a, b, c := n(2), n(3), n(4)
	tr := mesh.NewTree(self)
	require.NoError(t, tr.UpsertEdge(nil, a))
	require.NoError(t, tr.UpsertEdge(&a, b))
	require.NoError(t, tr.UpsertEdge(&b, c))

	require.Equal(t, 4, tr.Height())

	hop, err := tr.NextHop(c)
	require.NoError(t, err)
	require.Equal(t, a, hop)

	hop, err = tr.NextHop(b)
	require.NoError(t, err)
	require.Equal(t, a, hop)
}

func TestTreeReparent(t *testing.T) {
	self := n(1)
	a, b := n(2), n(3)
	tr := mesh.NewTree(self)
	require.NoError(t, tr.UpsertEdge(nil, a))
	require.NoError(t, tr.UpsertEdge(&a, b))
	require.NoError(t, tr.UpsertEdge(nil, b))

	hop, err := tr.NextHop(b)
	require.NoError(t, err)
	require.Equal(t, b, hop)
	require.Equal(t, 2, tr.Height())
}

func TestTreeUpsertEdgeUnknownParent(t *testing.T) {
	self := n(1)
	unknown := n(9)
	x := n(2)
	tr := mesh.NewTree(self)
	err := tr.UpsertEdge(&unknown, x)
	require.ErrorIs(t, err, mesh.ErrNodeNotFound)
}

func TestTreeNextHopSelfIsRootIsDestination(t *testing.T) {
	self := n(1)
	tr := mesh.NewTree(self)
	_, err := tr.NextHop(self)
	require.ErrorIs(t, err, mesh.ErrRootIsDestination)
}

func TestTreeDisplayRootIsLiteralSelf(t *testing.T) {
	self := n(1)
	tr := mesh.NewTree(self)
	require.Equal(t, "self\n", tr.String())
}

func TestTreeDisplayBoxDrawing(t *testing.T) {
	self := n(1)
	a, b := n(2), n(3)
	tr := mesh.NewTree(self)
	require.NoError(t, tr.UpsertEdge(nil, a))
	require.NoError(t, tr.UpsertEdge(nil, b))

	out := tr.String()
	require.Contains(t, out, "self\n")
	require.Contains(t, out, "├──"+a.String())
	require.Contains(t, out, "└──"+b.String())
}

func TestTreeEdgesSnapshotsParentChain(t *testing.T) {
	self := n(1)
	a, b := n(2), n(3)
	tr := mesh.NewTree(self)
	require.NoError(t, tr.UpsertEdge(nil, a))
	require.NoError(t, tr.UpsertEdge(&a, b))

	edges := tr.Edges()
	require.Len(t, edges, 2)

	byChild := map[node.Node]*node.Node{}
	for _, e := range edges {
		byChild[e.Child] = e.Parent
	}
	require.Nil(t, byChild[a])
	require.NotNil(t, byChild[b])
	require.Equal(t, a, *byChild[b])
}

func TestTreeOverflowLeafAllocation(t *testing.T) {
	self := n(1)
	tr := mesh.NewTree(self)
	var last *node.Node
	for i := 0; i < mesh.MaxLeafs; i++ {
		x := node.Node{0, 0, 0, 0, byte(i >> 8), byte(i)}
		err := tr.UpsertEdge(last, x)
		if err != nil {
			require.ErrorIs(t, err, mesh.ErrLeafAllocation)
			return
		}
		last = &x
	}
	t.Fatal("expected leaf allocation to exhaust before MaxLeafs insertions")
}
