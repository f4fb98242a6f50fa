package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.dedis.ch/mesh/arena"
)

func TestAllocGetRemove(t *testing.T) {
	a := arena.New[string](2)
	id1, ok := a.Alloc("first")
	require.True(t, ok)

	v, err := a.Get(id1)
	require.NoError(t, err)
	require.Equal(t, "first", *v)

	id2, ok := a.Alloc("second")
	require.True(t, ok)
	require.NotEqual(t, id1, id2)

	_, ok = a.Alloc("third")
	require.False(t, ok, "arena of capacity 2 must reject a third alloc")

	got, err := a.Remove(id1)
	require.NoError(t, err)
	require.Equal(t, "first", got)

	_, err = a.Get(id1)
	require.ErrorIs(t, err, arena.ErrSlotEmpty)

	// the freed slot is reusable
	id3, ok := a.Alloc("third")
	require.True(t, ok)
	require.Equal(t, id1, id3)
}

func TestRemoveInvalidIndex(t *testing.T) {
	a := arena.New[int](1)
	id, ok := a.Alloc(42)
	require.True(t, ok)

	_, err := a.Remove(id)
	require.NoError(t, err)

	_, err = a.Remove(id)
	require.ErrorIs(t, err, arena.ErrInvalidIndex)
}

func TestOutOfRangePanics(t *testing.T) {
	a := arena.New[int](1)
	require.Panics(t, func() {
		_, _ = a.Get(arena.SlotId(5))
	})
}

func TestLenCap(t *testing.T) {
	a := arena.New[int](4)
	require.Equal(t, 4, a.Cap())
	require.Equal(t, 0, a.Len())
	_, _ = a.Alloc(1)
	require.Equal(t, 1, a.Len())
}
