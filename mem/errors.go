package mem

import "errors"

var (
	// ErrInvalidCapacity indicates a Space was constructed with capacity <= 0.
	ErrInvalidCapacity = errors.New("mem: capacity must be positive")

	// ErrIndexOutOfRange indicates a positional sequence accessor was given
	// an index outside the valid range.
	ErrIndexOutOfRange = errors.New("mem: index out of range")

	// ErrNotFound indicates a removal targeted a block that is not in the sequence.
	ErrNotFound = errors.New("mem: block not in sequence")

	// ErrInvalidFree indicates Free was given an address with no matching
	// allocated block (double free, or an address never returned by Malloc).
	ErrInvalidFree = errors.New("mem: address not allocated")
)
