package sqlite_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/memory/store/sqlite"
)

var _ = Describe("Driver", func() {
	var (
		ctx    context.Context
		driver *sqlite.Driver
	)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		driver, err = sqlite.NewDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(driver.Close()).To(Succeed())
	})

	It("reports a miss for an unknown session", func() {
		record, found, err := driver.Load(ctx, "ghost")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
		Expect(record).To(BeNil())
	})

	It("round-trips a record", func() {
		record := memory.NewRecord("sess-1", "default", now)
		record.History = []string{"Entered the chapel."}
		record.ScenesCompleted = 4
		Expect(driver.Save(ctx, record)).To(Succeed())

		got, found, err := driver.Load(ctx, "sess-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(got.SessionID).To(Equal("sess-1"))
		Expect(got.ScenesCompleted).To(Equal(4))
		Expect(got.History).To(Equal([]string{"Entered the chapel."}))
	})

	It("upserts on repeated saves", func() {
		record := memory.NewRecord("sess-1", "default", now)
		Expect(driver.Save(ctx, record)).To(Succeed())

		record.ScenesCompleted = 9
		Expect(driver.Save(ctx, record)).To(Succeed())

		got, found, err := driver.Load(ctx, "sess-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(got.ScenesCompleted).To(Equal(9))
	})

	It("rejects invalid records", func() {
		Expect(driver.Save(ctx, nil)).To(HaveOccurred())
		Expect(driver.Save(ctx, &memory.Record{})).To(HaveOccurred())
	})

	It("deletes idempotently", func() {
		record := memory.NewRecord("sess-1", "default", now)
		Expect(driver.Save(ctx, record)).To(Succeed())

		Expect(driver.Delete(ctx, "sess-1")).To(Succeed())
		Expect(driver.Delete(ctx, "sess-1")).To(Succeed())

		_, found, err := driver.Load(ctx, "sess-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("keeps sessions isolated", func() {
		a := memory.NewRecord("sess-a", "default", now)
		b := memory.NewRecord("sess-b", "default", now)
		b.ScenesCompleted = 3
		Expect(driver.Save(ctx, a)).To(Succeed())
		Expect(driver.Save(ctx, b)).To(Succeed())

		Expect(driver.Delete(ctx, "sess-a")).To(Succeed())

		_, found, err := driver.Load(ctx, "sess-a")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())

		got, found, err := driver.Load(ctx, "sess-b")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(got.ScenesCompleted).To(Equal(3))
	})
})
