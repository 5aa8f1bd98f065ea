package cache_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/sarchlab/cachesim/mem/cache"
)

var _ = Describe("Geometry", func() {
	It("should derive the geometry of a 1KiB 2-way cache", func() {
		g, err := NewGeometry(1, 4, 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(g.BlockSizeBytes).To(Equal(uint64(16)))
		Expect(g.NumSets).To(Equal(uint64(32)))
		Expect(g.Associativity).To(Equal(uint64(2)))
		Expect(g.TotalByteSize()).To(Equal(uint64(1024)))
	})

	It("should decompose an address", func() {
		g, _ := NewGeometry(1, 4, 2)

		setID, tag := g.Decompose(0x20)

		Expect(setID).To(Equal(uint64(2)))
		Expect(tag).To(Equal(uint64(0)))
	})

	It("should map addresses of the same block together", func() {
		g, _ := NewGeometry(1, 4, 2)

		for addr := uint64(0x200); addr < 0x210; addr++ {
			setID, tag := g.Decompose(addr)
			Expect(setID).To(Equal(uint64(0)))
			Expect(tag).To(Equal(uint64(1)))
		}
	})

	It("should put the high bits of the block number in the tag", func() {
		g, _ := NewGeometry(1, 4, 2)

		setID, tag := g.Decompose(0x12345)

		block := uint64(0x12345 / 16)
		Expect(setID).To(Equal(block % 32))
		Expect(tag).To(Equal(block / 32))
	})

	It("should build a fully associative cache with a single set", func() {
		g, err := NewGeometry(1, 4, 64)

		Expect(err).NotTo(HaveOccurred())
		Expect(g.NumSets).To(Equal(uint64(1)))

		setID, tag := g.Decompose(0xFFF0)
		Expect(setID).To(Equal(uint64(0)))
		Expect(tag).To(Equal(uint64(0xFFF)))
	})

	DescribeTable("should reject unusable geometries",
		func(sizeKiB, blockWords, assoc uint64, field string) {
			_, err := NewGeometry(sizeKiB, blockWords, assoc)

			var configErr *ConfigError
			Expect(errors.As(err, &configErr)).To(BeTrue())
			Expect(configErr.Field).To(Equal(field))
		},
		Entry("zero block size", uint64(1), uint64(0), uint64(2), "block size"),
		Entry("zero associativity", uint64(1), uint64(4), uint64(0), "associativity"),
		Entry("associativity of three", uint64(1), uint64(4), uint64(3), "associativity"),
		Entry("zero cache size", uint64(0), uint64(4), uint64(2), "cache size"),
		Entry("fewer blocks than ways", uint64(1), uint64(256), uint64(2), "cache size"),
		Entry("block size overflowing bytes",
			uint64(1), uint64(1)<<62, uint64(1), "block size"),
		Entry("largest block size",
			uint64(1), uint64(math.MaxUint64), uint64(1), "block size"),
		Entry("cache size overflowing bytes",
			uint64(1)<<54+1, uint64(4), uint64(2), "cache size"),
		Entry("largest cache size",
			uint64(math.MaxUint64), uint64(1), uint64(1), "cache size"),
		Entry("too many sets",
			uint64(1)<<30, uint64(1), uint64(1), "cache size"),
		Entry("too many ways",
			uint64(1)<<30, uint64(1), uint64(1)<<40, "cache size"),
		Entry("huge associativity with a small cache",
			uint64(1), uint64(4), uint64(1)<<63, "cache size"),
	)

	It("should accept the largest cache it can simulate", func() {
		g, err := NewGeometry(MaxBlocks*WordSize/KiB, 1, 1)

		Expect(err).NotTo(HaveOccurred())
		Expect(g.NumSets).To(Equal(uint64(MaxBlocks)))
	})

	It("should decompose the highest address", func() {
		g, _ := NewGeometry(1, 4, 2)

		setID, tag := g.Decompose(math.MaxUint64)

		Expect(setID).To(Equal(uint64(31)))
		Expect(tag).To(Equal(uint64(math.MaxUint64 / 16 / 32)))
	})
})
