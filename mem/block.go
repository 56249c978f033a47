package mem

import "fmt"

// Block is a contiguous interval [base, base+length) of the simulated
// address range. Blocks are entities: sequence lookups compare pointers,
// so two blocks with equal fields remain distinct entries.
//
// A block's fields only change in two places: Malloc shrinks and shifts a
// free block during a split, and Defrag grows a free block when absorbing
// its right neighbor. An allocated block never changes until freed.
type Block struct {
	base   int
	length int
}

// NewBlock returns a block covering [base, base+length).
func NewBlock(base, length int) *Block {
	return &Block{base: base, length: length}
}

// Base returns the block's starting address.
func (b *Block) Base() int { return b.base }

// Length returns the block's length in words.
func (b *Block) Length() int { return b.length }

// End returns the first address past the block, base+length.
func (b *Block) End() int { return b.base + b.length }

// String renders the block as "(base , length)" for diagnostics.
func (b *Block) String() string {
	return fmt.Sprintf("(%d , %d)", b.base, b.length)
}
