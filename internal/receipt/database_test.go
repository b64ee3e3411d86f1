package receipt

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveReceipt", func() {
		var (
			receipt *Receipt
			err     error
		)

		BeforeEach(func() {
			receipt = &Receipt{
				ID:          "test-id",
				Title:       "Walmart run",
				TotalAmount: decimal.RequireFromString("28.57"),
				RawText:     "GV MILK 2% 3.99\nTOTAL 28.57",
				SplitBetweenPeople: map[string]decimal.Decimal{
					"Alice": decimal.RequireFromString("14.29"),
					"Bob":   decimal.RequireFromString("14.28"),
				},
				Filename:    "test.jpg",
				ContentType: "image/jpeg",
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveReceipt(receipt)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the receipt to the database", func() {
				saved, getErr := db.GetReceipt("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})

			It("should round-trip the total and split exactly", func() {
				saved, getErr := db.GetReceipt("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.TotalAmount.Equal(decimal.RequireFromString("28.57"))).To(BeTrue())
				Expect(saved.SplitBetweenPeople).To(HaveLen(2))
				Expect(saved.SplitBetweenPeople["Alice"].Equal(decimal.RequireFromString("14.29"))).To(BeTrue())
			})
		})
	})

	Describe("GetReceipt", func() {
		var (
			receiptID string
			receipt   *Receipt
			err       error
		)

		JustBeforeEach(func() {
			receipt, err = db.GetReceipt(receiptID)
		})

		When("receipt exists", func() {
			BeforeEach(func() {
				receiptID = "test-id"
				testReceipt := &Receipt{
					ID:          "test-id",
					Title:       "Walmart run",
					TotalAmount: decimal.RequireFromString("28.57"),
					Filename:    "test.jpg",
					ContentType: "image/jpeg",
					CreatedAt:   time.Now(),
					UpdatedAt:   time.Now(),
				}
				Expect(db.SaveReceipt(testReceipt)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct receipt ID", func() {
				Expect(receipt.ID).To(Equal("test-id"))
			})

			It("should return the correct receipt title", func() {
				Expect(receipt.Title).To(Equal("Walmart run"))
			})

			It("should return the correct total amount", func() {
				Expect(receipt.TotalAmount.Equal(decimal.RequireFromString("28.57"))).To(BeTrue())
			})
		})

		When("receipt does not exist", func() {
			var expectedErr error

			BeforeEach(func() {
				receiptID = "nonexistent"
				expectedErr = errors.New("receipt not found: nonexistent")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(expectedErr))
			})
		})
	})

	Describe("ListReceipts", func() {
		var (
			receipts []*Receipt
			err      error
		)

		JustBeforeEach(func() {
			receipts, err = db.ListReceipts()
		})

		When("receipts exist", func() {
			BeforeEach(func() {
				older := &Receipt{
					ID:        "id1",
					Title:     "Older receipt",
					CreatedAt: time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC),
					UpdatedAt: time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC),
				}
				newer := &Receipt{
					ID:        "id2",
					Title:     "Newer receipt",
					CreatedAt: time.Date(2024, 11, 16, 10, 0, 0, 0, time.UTC),
					UpdatedAt: time.Date(2024, 11, 16, 10, 0, 0, 0, time.UTC),
				}
				Expect(db.SaveReceipt(older)).NotTo(HaveOccurred())
				Expect(db.SaveReceipt(newer)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all receipts", func() {
				Expect(receipts).To(HaveLen(2))
			})

			It("should order receipts newest first", func() {
				Expect(receipts[0].ID).To(Equal("id2"))
				Expect(receipts[1].ID).To(Equal("id1"))
			})
		})

		When("no receipts exist", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an empty list", func() {
				Expect(receipts).To(BeEmpty())
			})
		})
	})

	Describe("DeleteReceipt", func() {
		var (
			receiptID string
			err       error
		)

		JustBeforeEach(func() {
			err = db.DeleteReceipt(receiptID)
		})

		When("receipt exists", func() {
			BeforeEach(func() {
				receiptID = "test-id"
				receipt := &Receipt{
					ID:        "test-id",
					Title:     "Test",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveReceipt(receipt)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the receipt from the database", func() {
				_, getErr := db.GetReceipt("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("receipt does not exist", func() {
			BeforeEach(func() {
				receiptID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := db.Close()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
