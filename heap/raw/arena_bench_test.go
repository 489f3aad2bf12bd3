package raw

import (
	"math/rand/v2"
	"testing"
)

// Benchmark_Arena_AllocFree benchmarks a steady alloc/free cycle that is
// served entirely from the free lists after warm-up.
func Benchmark_Arena_AllocFree(b *testing.B) {
	a, err := NewArena(ArenaOptions{Capacity: 16 << 20})
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		size := uint64(64 + (i%64)*2) // 64-190 bytes
		addr, _, allocErr := a.Alloc(size)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := a.Free(addr); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}

// Benchmark_Arena_Fragmented benchmarks reuse with a pool of live blocks of
// mixed sizes, replacing a random one on every iteration.
func Benchmark_Arena_Fragmented(b *testing.B) {
	a, err := NewArena(ArenaOptions{Capacity: 64 << 20})
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	rng := rand.New(rand.NewPCG(1, 2))
	live := make([]Addr, 1024)
	for i := range live {
		addr, _, allocErr := a.Alloc(uint64(8 + rng.IntN(1024)))
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		live[i] = addr
	}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		i := rng.IntN(len(live))
		if freeErr := a.Free(live[i]); freeErr != nil {
			b.Fatal(freeErr)
		}
		addr, _, allocErr := a.Alloc(uint64(8 + rng.IntN(1024)))
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		live[i] = addr
	}
}
