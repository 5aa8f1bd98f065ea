package cache_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	. "github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim/hooking"
)

var _ = Describe("Cache", func() {
	var (
		mockCtrl *gomock.Controller
		c        *Cache
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		var err error
		c, err = MakeBuilder().
			WithCacheSizeKiB(1).
			WithBlockSizeWords(4).
			WithAssociativity(2).
			Build("Cache")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should be built with the requested geometry", func() {
		Expect(c.Name()).To(Equal("Cache"))
		Expect(c.NumSets()).To(Equal(32))
		Expect(c.Geometry().BlockSizeBytes).To(Equal(uint64(16)))
		Expect(c.Variant()).To(Equal(VariantValidBit))
	})

	It("should report a zero miss rate before any access", func() {
		Expect(c.MissRate()).To(Equal(0.0))
		Expect(c.NumAccesses()).To(BeZero())
	})

	It("should miss and then hit on the same address", func() {
		first := c.Access(0x20)
		second := c.Access(0x20)

		Expect(first.Hit).To(BeFalse())
		Expect(first.SetID).To(Equal(uint64(2)))
		Expect(first.Tag).To(Equal(uint64(0)))
		Expect(second.Hit).To(BeTrue())
		Expect(c.Hits()).To(Equal(uint64(1)))
		Expect(c.Misses()).To(Equal(uint64(1)))
		Expect(c.MissRate()).To(Equal(0.5))
	})

	It("should hit on another address in the same block", func() {
		c.Access(0x20)

		Expect(c.Access(0x2C).Hit).To(BeTrue())
	})

	It("should report a miss rate of one when every access misses", func() {
		for i := uint64(0); i < 10; i++ {
			c.Access(i * 16)
		}

		Expect(c.MissRate()).To(Equal(1.0))
		Expect(c.Stats()).To(Equal(Stats{Hits: 0, Misses: 10, MissRate: 1.0}))
	})

	It("should evict the least recently used block of a full set", func() {
		// 32 sets of 16-byte blocks, so addresses 512 bytes apart share a set.
		c.Access(0x000)
		c.Access(0x200)
		c.Access(0x000)

		result := c.Access(0x400)

		Expect(result.Hit).To(BeFalse())
		Expect(result.Evicted).To(BeTrue())
		Expect(result.EvictedTag).To(Equal(uint64(1)))
		Expect(c.SetContents(0)).To(Equal([]uint64{2, 0}))
		Expect(c.Access(0x000).Hit).To(BeTrue())
		Expect(c.Access(0x200).Hit).To(BeFalse())
	})

	It("should keep other sets untouched", func() {
		c.Access(0x010)
		c.Access(0x000)
		c.Access(0x200)
		c.Access(0x400)

		Expect(c.SetContents(1)).To(Equal([]uint64{0}))
	})

	It("should keep the miss rate within zero and one", func() {
		for i := uint64(0); i < 500; i++ {
			c.Access((i * 0x9E3779B1) % 0x4000)
			Expect(c.MissRate()).To(BeNumerically(">=", 0.0))
			Expect(c.MissRate()).To(BeNumerically("<=", 1.0))
		}
	})

	It("should only create the sets that are accessed", func() {
		Expect(c.NumSetsTouched()).To(BeZero())
		Expect(c.SetContents(7)).To(BeEmpty())

		c.Access(0x000)
		c.Access(0x200)
		c.Access(0x010)

		Expect(c.NumSetsTouched()).To(Equal(2))
		Expect(c.NumSets()).To(Equal(32))
	})

	It("should clear state on reset", func() {
		c.Access(0x20)
		c.Access(0x20)

		c.Reset()

		Expect(c.NumAccesses()).To(BeZero())
		Expect(c.NumSetsTouched()).To(BeZero())
		Expect(c.Access(0x20).Hit).To(BeFalse())
	})

	It("should invoke hooks on access and eviction", func() {
		hook := NewMockHook(mockCtrl)
		c.AcceptHook(hook)

		hook.EXPECT().Func(gomock.Any()).Times(3)
		c.Access(0x000)
		c.Access(0x200)
		c.Access(0x000)

		hook.EXPECT().
			Func(gomock.Any()).
			Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Pos).To(Equal(HookPosEvict))
				Expect(ctx.Domain).To(BeIdenticalTo(c))
				Expect(ctx.Item.(AccessResult).EvictedTag).To(Equal(uint64(1)))
			})
		hook.EXPECT().
			Func(gomock.Any()).
			Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Pos).To(Equal(HookPosAccess))
				Expect(ctx.Item.(AccessResult).Address).To(Equal(uint64(0x400)))
			})

		c.Access(0x400)
	})

	It("should fail to build with a bad geometry", func() {
		_, err := MakeBuilder().WithAssociativity(3).Build("Cache")

		var configErr *ConfigError
		Expect(errors.As(err, &configErr)).To(BeTrue())
	})

	It("should fail to build with an unknown variant", func() {
		_, err := MakeBuilder().WithVariant(Variant(7)).Build("Cache")

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Cache with many sets", func() {
	It("should simulate the largest cache without allocating every set",
		func() {
			c, err := MakeBuilder().
				WithCacheSizeKiB(MaxBlocks * WordSize / KiB).
				WithBlockSizeWords(1).
				WithAssociativity(1).
				Build("Cache")
			Expect(err).NotTo(HaveOccurred())

			c.Access(0xffffffffffffff00)
			c.Access(0xffffffffffffff00)

			Expect(c.NumSets()).To(Equal(MaxBlocks))
			Expect(c.NumSetsTouched()).To(Equal(1))
			Expect(c.MissRate()).To(Equal(0.5))
		})

	It("should refuse a cache whose size overflows", func() {
		_, err := MakeBuilder().
			WithCacheSizeKiB(1<<54 + 1).
			Build("Cache")

		var configErr *ConfigError
		Expect(errors.As(err, &configErr)).To(BeTrue())
		Expect(configErr.Field).To(Equal("cache size"))
	})
})

var _ = Describe("Cache with one way per set", func() {
	It("should miss on A, B, A", func() {
		for _, v := range []Variant{VariantValidBit, VariantTagOnly} {
			c, err := MakeBuilder().
				WithCacheSizeKiB(1).
				WithBlockSizeWords(4).
				WithAssociativity(1).
				WithVariant(v).
				Build("DirectMapped")
			Expect(err).NotTo(HaveOccurred())

			// 64 sets, so addresses 1024 bytes apart share a set.
			Expect(c.Access(0x0000).Hit).To(BeFalse())
			Expect(c.Access(0x0400).Hit).To(BeFalse())
			Expect(c.Access(0x0000).Hit).To(BeFalse())
			Expect(c.MissRate()).To(Equal(1.0))
		}
	})
})

var _ = Describe("Cache variants", func() {
	It("should agree on miss counts for the same trace", func() {
		build := func(v Variant) *Cache {
			c, err := MakeBuilder().
				WithCacheSizeKiB(1).
				WithBlockSizeWords(2).
				WithAssociativity(4).
				WithVariant(v).
				Build("Cache")
			Expect(err).NotTo(HaveOccurred())

			return c
		}

		validBit := build(VariantValidBit)
		tagOnly := build(VariantTagOnly)

		for i := uint64(0); i < 2000; i++ {
			addr := (i*i*0x45 + i*0x1F3) % 0x3000
			Expect(validBit.Access(addr)).To(Equal(tagOnly.Access(addr)))
		}

		Expect(validBit.Stats()).To(Equal(tagOnly.Stats()))
	})
})
