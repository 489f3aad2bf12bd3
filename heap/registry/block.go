package registry

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/canary"
	"github.com/joshuapare/heapkit/heap/raw"
)

// Site is a source location: the file and line of an allocation or release.
type Site struct {
	File string
	Line int
}

// String renders the site as file:line.
func (s Site) String() string {
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// Block is the metadata kept for one live allocation.
type Block struct {
	Addr raw.Addr
	Size uint64 // requested payload size, canary excluded
	Site Site

	// mem covers the payload plus the canary: len == Size + canary.Width.
	mem []byte
}

// NewBlock builds a record for a block whose raw memory is mem. mem must be
// at least size + canary.Width bytes long.
func NewBlock(addr raw.Addr, size uint64, site Site, mem []byte) *Block {
	return &Block{Addr: addr, Size: size, Site: site, mem: mem[:size+canary.Width]}
}

// Payload returns the caller-visible bytes. Its capacity extends over the
// canary, so an append on a full payload overwrites it.
func (b *Block) Payload() []byte {
	return b.mem[:b.Size:b.Size+canary.Width]
}

// CanaryIntact reports whether the sentinel after the payload is unchanged.
func (b *Block) CanaryIntact() bool {
	return canary.Intact(b.mem, b.Size)
}

// End returns the address one past the payload, where the canary starts.
func (b *Block) End() raw.Addr {
	return b.Addr + raw.Addr(b.Size)
}
