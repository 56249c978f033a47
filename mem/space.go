package mem

import (
	"fmt"
	"os"
	"sort"
)

// Runtime flag for operation logging - controlled by MEMSIM_LOG_OPS env var.
var logOps = os.Getenv("MEMSIM_LOG_OPS") != ""

// AllocFailed is the Malloc return value signaling that no free block could
// satisfy the request. Valid addresses are always >= 0.
const AllocFailed = -1

// Space is a managed memory space: a fixed address range [0, capacity)
// partitioned between a free list and an allocated list. Capacity is never
// created or destroyed, only moved between the two lists.
//
// A Space is a single unit of mutable state with no internal locking; see
// the package documentation for the concurrency model.
type Space struct {
	capacity  int
	free      *BlockSequence
	allocated *BlockSequence

	stats Stats
}

// NewSpace constructs a memory space of the given capacity (in words).
// The free list starts as a single block (0, capacity) and the allocated
// list starts empty. Returns ErrInvalidCapacity when capacity <= 0.
func NewSpace(capacity int) (*Space, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	sp := &Space{
		capacity:  capacity,
		free:      NewBlockSequence(),
		allocated: NewBlockSequence(),
	}
	sp.free.PushBack(NewBlock(0, capacity))
	return sp, nil
}

// Capacity returns the total size of the space in words.
func (sp *Space) Capacity() int { return sp.capacity }

// Malloc allocates a block of the requested length (in words) and returns
// its base address, or AllocFailed if no free block is large enough.
//
// The free list is scanned in list order for the first block whose length
// is at least the request (first-fit). An exact fit moves the whole block
// to the tail of the allocated list. A larger block is split: a new block
// (base, length) goes to the allocated tail, and the free block is mutated
// in place to (base+length, remainder), keeping its list position.
//
// Malloc never defragments. A failed Malloc after heavy free traffic may
// succeed once the caller runs Defrag.
//
// Requests with length <= 0 fail with AllocFailed; zero-length blocks
// cannot exist.
func (sp *Space) Malloc(length int) int {
	sp.stats.MallocCalls++

	if length <= 0 {
		sp.stats.MallocFailures++
		return AllocFailed
	}

	for cur := sp.free.head; cur != nil; cur = cur.next {
		freeBlock := cur.block
		if freeBlock.length < length {
			continue
		}

		if freeBlock.length == length {
			// Exact fit: move the block itself, unchanged.
			_ = sp.free.Remove(freeBlock)
			sp.allocated.PushBack(freeBlock)
			sp.stats.WordsAllocated += int64(length)

			if logOps {
				fmt.Fprintf(os.Stderr, "[MALLOC] need=%d exact fit at %d\n", length, freeBlock.base)
			}
			return freeBlock.base
		}

		// Split: new allocated block at the front of the free block, free
		// block shrunk and shifted upward in place (same entity, same list
		// position).
		allocBlock := NewBlock(freeBlock.base, length)
		sp.allocated.PushBack(allocBlock)
		freeBlock.base += length
		freeBlock.length -= length

		sp.stats.SplitCount++
		sp.stats.WordsAllocated += int64(length)

		if logOps {
			fmt.Fprintf(os.Stderr, "[MALLOC] need=%d split at %d, remnant (%d , %d)\n",
				length, allocBlock.base, freeBlock.base, freeBlock.length)
		}
		return allocBlock.base
	}

	sp.stats.MallocFailures++
	if logOps {
		fmt.Fprintf(os.Stderr, "[MALLOC] need=%d FAILED, largest free=%d\n", length, sp.LargestFree())
	}
	return AllocFailed
}

// Free releases the allocated block whose base address equals address,
// moving it unchanged to the tail of the free list. The block's length is
// recovered from the allocator's own bookkeeping; the caller supplies only
// the address a prior Malloc returned.
//
// Returns ErrInvalidFree - with no mutation of either list - when no
// allocated block has that base. That covers double frees and addresses
// never handed out, both caller bugs rather than recoverable conditions.
// Free performs no coalescing; see Defrag.
func (sp *Space) Free(address int) error {
	sp.stats.FreeCalls++

	for cur := sp.allocated.head; cur != nil; cur = cur.next {
		if cur.block.base != address {
			continue
		}
		b := cur.block
		_ = sp.allocated.Remove(b)
		sp.free.PushBack(b)
		sp.stats.WordsFreed += int64(b.length)

		if logOps {
			fmt.Fprintf(os.Stderr, "[FREE] addr=%d released (%d , %d)\n", address, b.base, b.length)
		}
		return nil
	}

	return fmt.Errorf("%w: %d", ErrInvalidFree, address)
}

// Defrag coalesces adjacent free blocks. The free list is not sorted by
// address, so each pass considers every ordered pair (A, B) and merges
// whenever A's interval ends exactly where B's begins: A absorbs B's length
// and B's entry is removed. Passes repeat until one completes with no
// merge, since a merge can expose a new adjacency anywhere in the list.
//
// Defrag never touches the allocated list and is idempotent: a second
// consecutive call finds nothing to merge.
func (sp *Space) Defrag() {
	sp.stats.DefragCalls++

	for merged := true; merged; {
		merged = false
	scan:
		for a := sp.free.head; a != nil; a = a.next {
			for b := sp.free.head; b != nil; b = b.next {
				if a == b {
					continue
				}
				if a.block.End() == b.block.base {
					if logOps {
						fmt.Fprintf(os.Stderr, "[DEFRAG] merge (%d , %d) + (%d , %d)\n",
							a.block.base, a.block.length, b.block.base, b.block.length)
					}
					a.block.length += b.block.length
					_ = sp.free.Remove(b.block)
					sp.stats.MergeCount++
					merged = true
					// The list changed under both loops; restart the pass.
					break scan
				}
			}
		}
	}
}

// String returns a two-line diagnostic dump: the free list rendering, a
// newline, then the allocated list rendering.
func (sp *Space) String() string {
	return sp.free.String() + "\n" + sp.allocated.String()
}

// Verify checks the structural invariants that must hold between public
// calls: every block has positive length, no two blocks overlap (within a
// list or across the two lists), and the lengths sum to the capacity.
// Returns nil when the space is consistent.
//
// Verify exists for tests and debugging; the allocator does not call it on
// its own.
func (sp *Space) Verify() error {
	type span struct {
		base, end int
	}
	var spans []span
	var total int

	collect := func(name string, seq *BlockSequence) error {
		for cur := seq.head; cur != nil; cur = cur.next {
			b := cur.block
			if b.length <= 0 {
				return fmt.Errorf("mem: %s list holds non-positive block (%d , %d)", name, b.base, b.length)
			}
			if b.base < 0 || b.End() > sp.capacity {
				return fmt.Errorf("mem: %s block (%d , %d) outside [0, %d)", name, b.base, b.length, sp.capacity)
			}
			spans = append(spans, span{b.base, b.End()})
			total += b.length
		}
		return nil
	}

	if err := collect("free", sp.free); err != nil {
		return err
	}
	if err := collect("allocated", sp.allocated); err != nil {
		return err
	}

	if total != sp.capacity {
		return fmt.Errorf("mem: capacity leak: blocks sum to %d, capacity is %d", total, sp.capacity)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].base < spans[j].base })
	for i := 1; i < len(spans); i++ {
		if spans[i].base < spans[i-1].end {
			return fmt.Errorf("mem: overlap between [%d, %d) and [%d, %d)",
				spans[i-1].base, spans[i-1].end, spans[i].base, spans[i].end)
		}
	}
	return nil
}
