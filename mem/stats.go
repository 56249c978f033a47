package mem

// Stats holds cumulative operation counters for a Space. Counters only ever
// grow; they describe traffic, not current occupancy (see the usage
// accessors on Space for that).
type Stats struct {
	MallocCalls    int   // Total Malloc() calls
	MallocFailures int   // Malloc() calls that returned AllocFailed
	FreeCalls      int   // Total Free() calls, including invalid ones
	DefragCalls    int   // Total Defrag() calls
	SplitCount     int   // Allocations that split a larger free block
	MergeCount     int   // Free-block merges performed by Defrag()
	WordsAllocated int64 // Total words handed out by Malloc()
	WordsFreed     int64 // Total words returned through Free()
}

// Stats returns a copy of the space's cumulative counters.
func (sp *Space) Stats() Stats { return sp.stats }

// FreeWords returns the number of words currently on the free list.
func (sp *Space) FreeWords() int {
	return sumLengths(sp.free)
}

// AllocatedWords returns the number of words currently allocated.
func (sp *Space) AllocatedWords() int {
	return sumLengths(sp.allocated)
}

// FreeBlocks returns the number of blocks on the free list.
func (sp *Space) FreeBlocks() int { return sp.free.Len() }

// AllocatedBlocks returns the number of blocks on the allocated list.
func (sp *Space) AllocatedBlocks() int { return sp.allocated.Len() }

// LargestFree returns the length of the largest free block, or 0 when the
// free list is empty. This is the biggest request the next Malloc can
// satisfy without a Defrag.
func (sp *Space) LargestFree() int {
	largest := 0
	for cur := sp.free.head; cur != nil; cur = cur.next {
		if cur.block.length > largest {
			largest = cur.block.length
		}
	}
	return largest
}

// Fragmentation returns 1 - largest/total over the free list: 0 when all
// free capacity is one contiguous block (or there is none), approaching 1
// as free capacity shatters into many small blocks.
func (sp *Space) Fragmentation() float64 {
	total := sp.FreeWords()
	if total == 0 {
		return 0
	}
	return 1 - float64(sp.LargestFree())/float64(total)
}

func sumLengths(seq *BlockSequence) int {
	total := 0
	for cur := seq.head; cur != nil; cur = cur.next {
		total += cur.block.length
	}
	return total
}
