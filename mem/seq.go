package mem

import (
	"io"
	"strings"
)

// node is a singly linked list entry holding one block.
type node struct {
	block *Block
	next  *node
}

// BlockSequence is an ordered, mutable collection of blocks. Order is
// insertion order, not address order; insertion and removal at either end
// are O(1), everything positional in the middle is O(n).
//
// The allocator relies on the free list staying in whatever order frees and
// splits left it in, so nothing here ever sorts or deduplicates. All
// by-block operations (IndexOf, Remove) compare *Block pointers.
type BlockSequence struct {
	head *node
	tail *node
	size int
}

// NewBlockSequence returns an empty sequence.
func NewBlockSequence() *BlockSequence {
	return &BlockSequence{}
}

// Len returns the number of blocks in the sequence.
func (s *BlockSequence) Len() int { return s.size }

// First returns the first block, or nil if the sequence is empty.
func (s *BlockSequence) First() *Block {
	if s.head == nil {
		return nil
	}
	return s.head.block
}

// Last returns the last block, or nil if the sequence is empty.
func (s *BlockSequence) Last() *Block {
	if s.tail == nil {
		return nil
	}
	return s.tail.block
}

// At returns the block at the given position. Returns ErrIndexOutOfRange
// when index is outside [0, Len()).
func (s *BlockSequence) At(index int) (*Block, error) {
	n, err := s.nodeAt(index)
	if err != nil {
		return nil, err
	}
	return n.block, nil
}

func (s *BlockSequence) nodeAt(index int) (*node, error) {
	if index < 0 || index >= s.size {
		return nil, ErrIndexOutOfRange
	}
	cur := s.head
	for i := 0; i < index; i++ {
		cur = cur.next
	}
	return cur, nil
}

// Insert places b before the block currently at index. Index 0 and
// index Len() are O(1); other positions cost a traversal. Returns
// ErrIndexOutOfRange when index is outside [0, Len()].
func (s *BlockSequence) Insert(index int, b *Block) error {
	if index < 0 || index > s.size {
		return ErrIndexOutOfRange
	}

	n := &node{block: b}

	switch {
	case s.size == 0:
		s.head = n
		s.tail = n
	case index == 0:
		n.next = s.head
		s.head = n
	case index == s.size:
		s.tail.next = n
		s.tail = n
	default:
		prev := s.head
		for i := 0; i < index-1; i++ {
			prev = prev.next
		}
		n.next = prev.next
		prev.next = n
	}

	s.size++
	return nil
}

// PushFront prepends b in O(1).
func (s *BlockSequence) PushFront(b *Block) {
	// Index 0 is always valid.
	_ = s.Insert(0, b)
}

// PushBack appends b in O(1).
func (s *BlockSequence) PushBack(b *Block) {
	_ = s.Insert(s.size, b)
}

// IndexOf returns the position of b, or -1 if b is not in the sequence.
// Comparison is by pointer identity, never by (base, length) value: a split
// mutates a block's fields in place and the caller must still be able to
// find the same entry afterward.
func (s *BlockSequence) IndexOf(b *Block) int {
	i := 0
	for cur := s.head; cur != nil; cur = cur.next {
		if cur.block == b {
			return i
		}
		i++
	}
	return -1
}

// Remove unlinks the entry holding exactly b (pointer identity). Returns
// ErrNotFound when b is not in the sequence.
func (s *BlockSequence) Remove(b *Block) error {
	var prev *node
	for cur := s.head; cur != nil; cur = cur.next {
		if cur.block == b {
			s.unlink(prev, cur)
			return nil
		}
		prev = cur
	}
	return ErrNotFound
}

// RemoveAt unlinks the entry at the given position. Returns
// ErrIndexOutOfRange when index is outside [0, Len()).
func (s *BlockSequence) RemoveAt(index int) error {
	if index < 0 || index >= s.size {
		return ErrIndexOutOfRange
	}
	var prev *node
	cur := s.head
	for i := 0; i < index; i++ {
		prev = cur
		cur = cur.next
	}
	s.unlink(prev, cur)
	return nil
}

// unlink removes cur from the chain, given its predecessor (nil for head).
func (s *BlockSequence) unlink(prev, cur *node) {
	if prev == nil {
		s.head = cur.next
	} else {
		prev.next = cur.next
	}
	if cur == s.tail {
		s.tail = prev
	}
	s.size--
}

// BlockIterator walks a sequence front to back exactly once.
type BlockIterator struct {
	cur *node
}

// Blocks returns a forward-only, single-pass iterator over the sequence.
// The iterator is not restartable, and traversal is undefined if the
// sequence is mutated while iterating.
func (s *BlockSequence) Blocks() *BlockIterator {
	return &BlockIterator{cur: s.head}
}

// Next returns the next block, or io.EOF once the sequence is exhausted.
func (it *BlockIterator) Next() (*Block, error) {
	if it.cur == nil {
		return nil, io.EOF
	}
	b := it.cur.block
	it.cur = it.cur.next
	return b, nil
}

// String renders every entry as "(base , length) " in sequence order,
// trailing space included. Diagnostic output only.
func (s *BlockSequence) String() string {
	var sb strings.Builder
	for cur := s.head; cur != nil; cur = cur.next {
		sb.WriteString(cur.block.String())
		sb.WriteByte(' ')
	}
	return sb.String()
}
