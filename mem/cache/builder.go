package cache

import (
	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
)

// Builder can build caches.
type Builder struct {
	cacheSizeKiB   uint64
	blockSizeWords uint64
	associativity  uint64
	variant        Variant
}

// MakeBuilder creates a builder with default parameter setting.
func MakeBuilder() Builder {
	return Builder{
		cacheSizeKiB:   1,
		blockSizeWords: 4,
		associativity:  2,
		variant:        VariantValidBit,
	}
}

// WithCacheSizeKiB sets the capacity of the cache in KiB.
func (b Builder) WithCacheSizeKiB(n uint64) Builder {
	b.cacheSizeKiB = n
	return b
}

// WithBlockSizeWords sets the number of words in a block.
func (b Builder) WithBlockSizeWords(n uint64) Builder {
	b.blockSizeWords = n
	return b
}

// WithAssociativity sets the number of ways in each set.
func (b Builder) WithAssociativity(n uint64) Builder {
	b.associativity = n
	return b
}

// WithVariant sets how the ways of each set are allocated.
func (b Builder) WithVariant(v Variant) Builder {
	b.variant = v
	return b
}

// Build creates a cache. It fails with a *ConfigError if the geometry is not
// usable.
func (b Builder) Build(name string) (*Cache, error) {
	geometry, err := NewGeometry(
		b.cacheSizeKiB, b.blockSizeWords, b.associativity)
	if err != nil {
		return nil, err
	}

	if b.variant != VariantValidBit && b.variant != VariantTagOnly {
		return nil, &ConfigError{
			Field:  "variant",
			Value:  uint64(b.variant),
			Reason: "unknown variant",
		}
	}

	c := &Cache{
		name:     name,
		variant:  b.variant,
		geometry: geometry,
		sets:     make(map[uint64]*tagging.Set),
	}

	return c, nil
}
