package mem

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_EmptyState(t *testing.T) {
	s := NewBlockSequence()

	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.First())
	assert.Nil(t, s.Last())
	assert.Equal(t, "", s.String())

	_, err := s.At(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSequence_PushFrontBack(t *testing.T) {
	s := NewBlockSequence()
	a := NewBlock(0, 10)
	b := NewBlock(10, 20)
	c := NewBlock(30, 5)

	s.PushBack(b)
	s.PushFront(a)
	s.PushBack(c)

	require.Equal(t, 3, s.Len())
	assert.Same(t, a, s.First())
	assert.Same(t, c, s.Last())

	got, err := s.At(1)
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestSequence_InsertMiddle(t *testing.T) {
	s := NewBlockSequence()
	a := NewBlock(0, 1)
	b := NewBlock(1, 1)
	c := NewBlock(2, 1)

	s.PushBack(a)
	s.PushBack(c)
	require.NoError(t, s.Insert(1, b))

	require.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.IndexOf(b))
	assert.Same(t, a, s.First())
	assert.Same(t, c, s.Last())
}

func TestSequence_InsertBounds(t *testing.T) {
	s := NewBlockSequence()
	s.PushBack(NewBlock(0, 1))

	assert.ErrorIs(t, s.Insert(-1, NewBlock(1, 1)), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Insert(2, NewBlock(1, 1)), ErrIndexOutOfRange)

	// Len() itself is a valid insertion point.
	require.NoError(t, s.Insert(1, NewBlock(1, 1)))
	assert.Equal(t, 2, s.Len())
}

// TestSequence_IdentityNotValue pins the core lookup contract: two blocks
// with equal fields are different entries, and mutating a block's fields
// does not change which entry it is.
func TestSequence_IdentityNotValue(t *testing.T) {
	s := NewBlockSequence()
	a := NewBlock(100, 50)
	twin := NewBlock(100, 50)

	s.PushBack(a)

	assert.Equal(t, 0, s.IndexOf(a))
	assert.Equal(t, -1, s.IndexOf(twin), "equal fields must not match a different entity")
	assert.ErrorIs(t, s.Remove(twin), ErrNotFound)

	// Mutate in place, the way a Malloc split does.
	a.base += 17
	a.length -= 17
	assert.Equal(t, 0, s.IndexOf(a), "entry must survive in-place mutation")
	require.NoError(t, s.Remove(a))
	assert.Equal(t, 0, s.Len())
}

func TestSequence_RemoveAt(t *testing.T) {
	s := NewBlockSequence()
	a := NewBlock(0, 1)
	b := NewBlock(1, 1)
	c := NewBlock(2, 1)
	s.PushBack(a)
	s.PushBack(b)
	s.PushBack(c)

	assert.ErrorIs(t, s.RemoveAt(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveAt(-1), ErrIndexOutOfRange)

	require.NoError(t, s.RemoveAt(1))
	assert.Equal(t, -1, s.IndexOf(b))
	assert.Equal(t, 2, s.Len())

	// Removing the tail must repoint Last().
	require.NoError(t, s.RemoveAt(1))
	assert.Same(t, a, s.Last())

	require.NoError(t, s.RemoveAt(0))
	assert.Nil(t, s.First())
	assert.Nil(t, s.Last())
}

func TestSequence_RemoveHeadAndTailByIdentity(t *testing.T) {
	s := NewBlockSequence()
	a := NewBlock(0, 1)
	b := NewBlock(1, 1)
	s.PushBack(a)
	s.PushBack(b)

	require.NoError(t, s.Remove(b))
	assert.Same(t, a, s.Last(), "tail pointer must follow removal")

	require.NoError(t, s.Remove(a))
	assert.Equal(t, 0, s.Len())

	// PushBack after emptying must not chase a stale tail.
	c := NewBlock(2, 1)
	s.PushBack(c)
	assert.Same(t, c, s.First())
	assert.Same(t, c, s.Last())
}

func TestSequence_Iterator(t *testing.T) {
	s := NewBlockSequence()
	blocks := []*Block{NewBlock(0, 1), NewBlock(1, 2), NewBlock(3, 4)}
	for _, b := range blocks {
		s.PushBack(b)
	}

	it := s.Blocks()
	for i, want := range blocks {
		got, err := it.Next()
		require.NoError(t, err, "block %d", i)
		assert.Same(t, want, got)
	}

	_, err := it.Next()
	assert.ErrorIs(t, err, io.EOF)

	// Exhausted iterators stay exhausted.
	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSequence_String(t *testing.T) {
	s := NewBlockSequence()
	s.PushBack(NewBlock(0, 10))
	s.PushBack(NewBlock(250, 17))

	assert.Equal(t, "(0 , 10) (250 , 17) ", s.String())
}
