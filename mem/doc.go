// Package mem simulates a contiguous, word-addressed memory region managed
// by a classic first-fit allocator.
//
// # Overview
//
// A Space partitions a fixed address range [0, capacity) into two disjoint
// sets of non-overlapping blocks: free and allocated. Malloc carves blocks
// out of the free list, Free returns them, and Defrag coalesces adjacent
// free blocks back into larger ones. Everything happens in process - there
// is no real memory behind the addresses, only bookkeeping.
//
// # Usage Example
//
//	sp, err := mem.NewSpace(1024)
//	if err != nil {
//	    return err
//	}
//
//	addr := sp.Malloc(100)
//	if addr == mem.AllocFailed {
//	    // out of contiguous space; Defrag may recover capacity
//	    sp.Defrag()
//	    addr = sp.Malloc(100)
//	}
//
//	// ... later
//	if err := sp.Free(addr); err != nil {
//	    return err
//	}
//
// # Allocation Policy
//
// Malloc is first-fit: the free list is scanned in list order and the first
// block at least as large as the request wins. An exact fit moves the block
// to the allocated list unchanged; a larger block is split, leaving the
// remainder in place on the free list. Malloc never defragments on its own -
// coalescing is opt-in via Defrag so the common-path allocation cost stays
// independent of fragmentation recovery.
//
// # Block Identity
//
// Blocks are entities, not values. A split mutates a free block's base and
// length in place, so BlockSequence lookups and removals compare *Block
// pointers rather than (base, length) pairs. Two blocks with equal fields
// are still distinct entries.
//
// # Failure Model
//
// Capacity exhaustion is not an error: Malloc returns the AllocFailed
// sentinel (-1), which no valid address can equal. Everything else in the
// error taxonomy (ErrInvalidFree, ErrIndexOutOfRange, ErrNotFound,
// ErrInvalidCapacity) signals a caller bug and never mutates state.
//
// # Thread Safety
//
// A Space is not thread-safe. Callers must synchronize access externally if
// a Space is shared across goroutines.
package mem
