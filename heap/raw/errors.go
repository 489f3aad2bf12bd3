package raw

import "errors"

var (
	// ErrOutOfMemory indicates that the request could not be satisfied from free
	// lists and the allocator could not grow.
	ErrOutOfMemory = errors.New("raw: out of memory")

	// ErrBadAddr indicates a free of an address the allocator did not hand out.
	ErrBadAddr = errors.New("raw: bad block address")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("raw: arena closed")

	// ErrBadOptions indicates an arena configuration that cannot work.
	ErrBadOptions = errors.New("raw: invalid arena options")
)
