package raw

import "math"

// SizeClassConfig defines the free-list size class strategy.
type SizeClassConfig struct {
	// Name for this configuration (for stats output)
	Name string

	// Small block settings (linear increments)
	SmallMin       uint64 // Minimum block size (typically 8)
	SmallMax       uint64 // Max for linear increments
	SmallIncrement uint64 // Increment size for small blocks

	// Medium block settings (logarithmic growth)
	MediumMax    uint64  // Max before the large list
	GrowthFactor float64 // Exponential growth factor
}

// Predefined configurations.
var (
	// FineGrained: 8-256 step 8 plus 256-16K log growth.
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Balanced: 8-512 step 16 plus 512-16K log growth.
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Coarse: fewer buckets, more internal fragmentation.
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// DefaultConfig is used when ArenaOptions.Classes is nil.
	DefaultConfig = ConfigBalanced
)

// sizeClassTable holds the computed size class boundaries.
type sizeClassTable struct {
	config     SizeClassConfig
	boundaries []uint64 // Upper bound for each size class
	numClasses int
}

// newSizeClassTable computes size class boundaries from config.
func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	table := &sizeClassTable{
		config:     config,
		boundaries: make([]uint64, 0, 64),
	}

	// Phase 1: small blocks (linear increments)
	if config.SmallIncrement > 0 {
		for size := config.SmallMin; size < config.SmallMax; size += config.SmallIncrement {
			table.boundaries = append(table.boundaries, size+config.SmallIncrement-1)
		}
	}

	// Phase 2: medium blocks (logarithmic growth)
	if config.SmallMax < config.MediumMax {
		size := config.SmallMax
		for size < config.MediumMax {
			next := uint64(math.Ceil(float64(size) * config.GrowthFactor))
			if next <= size {
				next = size + 1
			}
			table.boundaries = append(table.boundaries, next-1)
			size = next
		}
	}

	table.numClasses = len(table.boundaries)
	return table
}

// classOf returns the size class index for a block size.
// Returns t.numClasses for sizes above every boundary (use the large list).
func (t *sizeClassTable) classOf(size uint64) int {
	lo, hi := 0, t.numClasses-1

	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.boundaries[mid] {
			if mid == 0 || size > t.boundaries[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}

	return t.numClasses
}

// String returns the configuration name.
func (t *sizeClassTable) String() string {
	return t.config.Name
}

// NumClasses returns the number of size classes (excluding the large list).
func (t *sizeClassTable) NumClasses() int {
	return t.numClasses
}
