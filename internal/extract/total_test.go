package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Total", func() {
	var (
		text   string
		amount decimal.Decimal
		found  bool
	)

	JustBeforeEach(func() {
		amount, found = Total(text)
	})

	When("the text has a labeled total", func() {
		BeforeEach(func() {
			text = "Subtotal: $26.45\nTax: $2.12\nTotal: $28.57\nChange Due: $1.43"
		})

		It("finds a total", func() {
			Expect(found).To(BeTrue())
		})

		It("takes the last match of the total pattern, not the largest amount", func() {
			Expect(amount.Equal(decimal.RequireFromString("28.57"))).To(BeTrue())
		})
	})

	When("the total label has no colon or dollar sign", func() {
		BeforeEach(func() {
			text = "TOTAL 28.57"
		})

		It("still matches", func() {
			Expect(found).To(BeTrue())
			Expect(amount.Equal(decimal.RequireFromString("28.57"))).To(BeTrue())
		})
	})

	When("only a grand total label appears mid-line", func() {
		BeforeEach(func() {
			text = "items 3 grand total: $41.20 thank you"
		})

		It("finds it", func() {
			Expect(found).To(BeTrue())
			Expect(amount.Equal(decimal.RequireFromString("41.20"))).To(BeTrue())
		})
	})

	When("no keyword pattern matches", func() {
		BeforeEach(func() {
			text = "mystery text 3.99 more words 28.57 and 500.00 trailing words"
		})

		It("falls back to the largest plausible amount", func() {
			Expect(found).To(BeTrue())
			Expect(amount.Equal(decimal.RequireFromString("500.00"))).To(BeTrue())
		})
	})

	When("the only amounts are implausibly large", func() {
		BeforeEach(func() {
			text = "serial 99999.99 reference 12345.00 codes"
		})

		It("returns absent", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("a plausible amount hides among implausible ones", func() {
		BeforeEach(func() {
			text = "serial 99999.99 value 42.10 reference 12345.00"
		})

		It("returns the plausible one", func() {
			Expect(found).To(BeTrue())
			Expect(amount.Equal(decimal.RequireFromString("42.10"))).To(BeTrue())
		})
	})

	When("an amount ends a line", func() {
		BeforeEach(func() {
			text = "no labels here\nitems due later 17.25\nthanks"
		})

		It("matches the end-of-line pattern", func() {
			Expect(found).To(BeTrue())
			Expect(amount.Equal(decimal.RequireFromString("17.25"))).To(BeTrue())
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("returns absent", func() {
			Expect(found).To(BeFalse())
			Expect(amount.IsZero()).To(BeTrue())
		})
	})

	When("the text has no amounts at all", func() {
		BeforeEach(func() {
			text = "thank you for shopping"
		})

		It("returns absent", func() {
			Expect(found).To(BeFalse())
		})
	})
})
