package cache

import (
	"fmt"
	"math/bits"
)

const (
	// WordSize is the number of bytes in a word. Block sizes are given in
	// words.
	WordSize = 4

	// KiB is the number of bytes in a kibibyte. Cache sizes are given in KiB.
	KiB = 1 << 10

	// MaxBlocks is the largest number of blocks a simulated cache may hold.
	MaxBlocks = 1 << 24
)

// A ConfigError reports a cache geometry that cannot be simulated.
type ConfigError struct {
	Field  string
	Value  uint64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid cache configuration: %s = %d, %s",
		e.Field, e.Value, e.Reason)
}

// Geometry describes how addresses are spread over the sets of a cache.
type Geometry struct {
	BlockSizeBytes uint64
	NumSets        uint64
	Associativity  uint64
}

// NewGeometry derives the geometry of a cache of cacheSizeKiB kibibytes with
// blocks of blockSizeWords words and the given associativity. Partial blocks
// and partial sets are dropped.
func NewGeometry(
	cacheSizeKiB, blockSizeWords, associativity uint64,
) (Geometry, error) {
	if blockSizeWords == 0 {
		return Geometry{}, &ConfigError{
			Field:  "block size",
			Value:  blockSizeWords,
			Reason: "must be at least one word",
		}
	}

	if associativity == 0 || bits.OnesCount64(associativity) != 1 {
		return Geometry{}, &ConfigError{
			Field:  "associativity",
			Value:  associativity,
			Reason: "must be a power of two",
		}
	}

	hi, blockSizeBytes := bits.Mul64(blockSizeWords, WordSize)
	if hi != 0 {
		return Geometry{}, &ConfigError{
			Field:  "block size",
			Value:  blockSizeWords,
			Reason: "does not fit in a 64-bit byte count",
		}
	}

	hi, cacheSizeBytes := bits.Mul64(cacheSizeKiB, KiB)
	if hi != 0 {
		return Geometry{}, &ConfigError{
			Field:  "cache size",
			Value:  cacheSizeKiB,
			Reason: "does not fit in a 64-bit byte count",
		}
	}

	numBlocks := cacheSizeBytes / blockSizeBytes
	numSets := numBlocks / associativity

	if numSets == 0 {
		return Geometry{}, &ConfigError{
			Field: "cache size",
			Value: cacheSizeKiB,
			Reason: fmt.Sprintf(
				"holds %d blocks of %d bytes, less than one %d-way set",
				numBlocks, blockSizeBytes, associativity),
		}
	}

	if numBlocks > MaxBlocks {
		return Geometry{}, &ConfigError{
			Field: "cache size",
			Value: cacheSizeKiB,
			Reason: fmt.Sprintf("holds %d blocks of %d bytes, more than %d",
				numBlocks, blockSizeBytes, MaxBlocks),
		}
	}

	g := Geometry{
		BlockSizeBytes: blockSizeBytes,
		NumSets:        numSets,
		Associativity:  associativity,
	}

	return g, nil
}

// Decompose splits an address into the set that it maps to and the tag that
// identifies its block inside that set.
func (g Geometry) Decompose(address uint64) (setID, tag uint64) {
	block := address / g.BlockSizeBytes
	setID = block % g.NumSets
	tag = block / g.NumSets

	return setID, tag
}

// TotalByteSize returns the maximum number of bytes can be stored in the cache
func (g Geometry) TotalByteSize() uint64 {
	return g.NumSets * g.Associativity * g.BlockSizeBytes
}
