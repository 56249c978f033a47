package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestSpace constructs a Space and fails the test on error.
func newTestSpace(t testing.TB, capacity int) *Space {
	t.Helper()
	sp, err := NewSpace(capacity)
	require.NoError(t, err)
	return sp
}

// mustMalloc allocates and fails the test if the allocation is refused.
func mustMalloc(t testing.TB, sp *Space, length int) int {
	t.Helper()
	addr := sp.Malloc(length)
	require.NotEqual(t, AllocFailed, addr, "Malloc(%d) should succeed", length)
	return addr
}

// assertInvariants runs the structural invariant check and fails the test
// immediately on any violation.
func assertInvariants(t testing.TB, sp *Space) {
	t.Helper()
	require.NoError(t, sp.Verify())
}

// freeBlockSet returns the free list as a base->length map, for assertions
// that should not depend on list order.
func freeBlockSet(t testing.TB, sp *Space) map[int]int {
	t.Helper()
	return blockSet(t, sp.free)
}

// allocatedBlockSet returns the allocated list as a base->length map.
func allocatedBlockSet(t testing.TB, sp *Space) map[int]int {
	t.Helper()
	return blockSet(t, sp.allocated)
}

func blockSet(t testing.TB, seq *BlockSequence) map[int]int {
	t.Helper()
	set := make(map[int]int, seq.Len())
	for cur := seq.head; cur != nil; cur = cur.next {
		_, dup := set[cur.block.base]
		require.False(t, dup, "duplicate base %d in sequence", cur.block.base)
		set[cur.block.base] = cur.block.length
	}
	return set
}
