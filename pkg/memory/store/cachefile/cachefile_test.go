package cachefile_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reveriegames/reverie/pkg/logger"
	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/memory/store/cachefile"
)

var _ = Describe("Driver", func() {
	var (
		tmpDir string
		driver *cachefile.Driver
	)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "cachefile-test-*")
		Expect(err).NotTo(HaveOccurred())

		driver, err = cachefile.NewDriver(tmpDir, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("reports an empty slot as a miss, not an error", func() {
		record, err := driver.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(record).To(BeNil())
	})

	It("round-trips a record", func() {
		record := memory.NewRecord("sess-1", "default", now)
		record.ScenesCompleted = 6
		Expect(driver.Write(record)).To(Succeed())

		got, err := driver.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(got).NotTo(BeNil())
		Expect(got.SessionID).To(Equal("sess-1"))
		Expect(got.ScenesCompleted).To(Equal(6))
		Expect(got.LastUpdated.Equal(now)).To(BeTrue())
	})

	It("purges a corrupt slot and reports a miss", func() {
		Expect(os.WriteFile(driver.Path(), []byte("{definitely not json"), 0o600)).To(Succeed())

		record, err := driver.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(record).To(BeNil())

		// The corrupt file is gone, so the next read is a clean miss.
		_, statErr := os.Stat(driver.Path())
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("rejects a nil record", func() {
		Expect(driver.Write(nil)).To(HaveOccurred())
	})

	It("clears idempotently", func() {
		record := memory.NewRecord("sess-1", "default", now)
		Expect(driver.Write(record)).To(Succeed())

		Expect(driver.Clear()).To(Succeed())
		Expect(driver.Clear()).To(Succeed())

		got, err := driver.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNil())
	})

	It("overwrites on repeated writes", func() {
		first := memory.NewRecord("sess-1", "default", now)
		Expect(driver.Write(first)).To(Succeed())

		second := memory.NewRecord("sess-1", "default", now)
		second.ScenesCompleted = 12
		Expect(driver.Write(second)).To(Succeed())

		got, err := driver.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ScenesCompleted).To(Equal(12))
	})
})
