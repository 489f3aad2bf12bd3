package raw

import "container/heap"

// freeList is a size-class-specific free list using a min-heap.
type freeList struct {
	heap freeBlockHeap // Min-heap keyed on size
}

// freeBlock represents a free block in the arena.
type freeBlock struct {
	addr      Addr   // Block start
	size      uint64 // Block size (8-byte aligned)
	heapIndex int    // Position in heap (for heap.Remove)
}

// freeBlockHeap implements heap.Interface for a min-heap keyed on block size,
// ties broken by lower address. The smallest block sits at the top, giving
// best-fit allocation.
type freeBlockHeap []*freeBlock

func (h *freeBlockHeap) Len() int { return len(*h) }

func (h *freeBlockHeap) Less(i, j int) bool {
	a, b := (*h)[i], (*h)[j]
	if a.size != b.size {
		return a.size < b.size
	}
	return a.addr < b.addr
}

func (h *freeBlockHeap) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].heapIndex = i
	(*h)[j].heapIndex = j
}

func (h *freeBlockHeap) Push(x any) {
	b := x.(*freeBlock) //nolint:errcheck // heap.Interface contract guarantees type
	b.heapIndex = len(*h)
	*h = append(*h, b)
}

func (h *freeBlockHeap) Pop() any {
	old := *h
	n := len(old)
	b := old[n-1]
	b.heapIndex = -1
	old[n-1] = nil
	*h = old[0 : n-1]
	return b
}

// largeBlock for blocks above the largest size class.
type largeBlock struct {
	addr Addr
	size uint64
	next *largeBlock
}

// takeFromClass removes the best-fitting block of at least need bytes from
// size class sc, or returns nil.
func (a *Arena) takeFromClass(sc int, need uint64) *freeBlock {
	list := &a.freeLists[sc]
	if list.heap.Len() == 0 {
		return nil
	}

	// heap[0] is the smallest block in this class; if it fits it is the best fit.
	if list.heap[0].size >= need {
		return heap.Pop(&list.heap).(*freeBlock) //nolint:errcheck // heap contains only *freeBlock
	}

	// Larger blocks in this class may still fit. Bounded scan, take anything
	// within fitTolerance of the request immediately.
	const (
		maxSlowPathScan = 32
		fitTolerance    = 64
	)

	bestIdx := -1
	var bestSize uint64
	maxAcceptable := need + fitTolerance

	scanLimit := min(list.heap.Len(), maxSlowPathScan)
	for i := 1; i < scanLimit; i++ {
		size := list.heap[i].size
		if size < need {
			continue
		}
		if size <= maxAcceptable {
			bestIdx = i
			break
		}
		if bestIdx == -1 || size < bestSize {
			bestIdx = i
			bestSize = size
		}
	}

	if bestIdx == -1 {
		return nil
	}
	return heap.Remove(&list.heap, bestIdx).(*freeBlock) //nolint:errcheck // heap contains only *freeBlock
}

// takeFromLarge removes the first large block of at least need bytes.
func (a *Arena) takeFromLarge(need uint64) *freeBlock {
	var prev *largeBlock
	for curr := a.largeFree; curr != nil; curr = curr.next {
		if curr.size >= need {
			if prev == nil {
				a.largeFree = curr.next
			} else {
				prev.next = curr.next
			}
			return &freeBlock{addr: curr.addr, size: curr.size, heapIndex: -1}
		}
		prev = curr
	}
	return nil
}

// insertFree puts a block on the free list for its size class.
func (a *Arena) insertFree(addr Addr, size uint64) {
	sc := a.sizeTable.classOf(size)
	if sc < len(a.freeLists) {
		a.stats.HeapPushes++
		heap.Push(&a.freeLists[sc].heap, &freeBlock{addr: addr, size: size})
	} else {
		a.largeFree = &largeBlock{addr: addr, size: size, next: a.largeFree}
	}
	a.freeBlocks++
	a.freeBytes += size
}

// takeFree finds a reusable block for need bytes across all classes at or
// above need's class, then the large list.
func (a *Arena) takeFree(need uint64) *freeBlock {
	var b *freeBlock
	for sc := a.sizeTable.classOf(need); sc < len(a.freeLists); sc++ {
		if b = a.takeFromClass(sc, need); b != nil {
			break
		}
	}
	if b == nil {
		b = a.takeFromLarge(need)
	}
	if b != nil {
		a.freeBlocks--
		a.freeBytes -= b.size
	}
	return b
}
