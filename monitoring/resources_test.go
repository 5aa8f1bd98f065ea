package monitoring

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResourceSnapshot", func() {
	It("should measure the current process", func() {
		snapshot, err := TakeResourceSnapshot()

		Expect(err).NotTo(HaveOccurred())
		Expect(snapshot.RSSBytes).To(BeNumerically(">", 0))
		Expect(snapshot.CPUPercent).To(BeNumerically(">=", 0))
	})
})
