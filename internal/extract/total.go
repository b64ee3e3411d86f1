package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// totalPatterns are tried in priority order over the whole text. The
// first pattern with any match wins, and its last match is taken,
// since totals sit near the end of a receipt. Ordering is load-bearing;
// treat the table as data.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)total[:\s]*\$?\s*(\d+\.\d{2})`),      // "Total: $28.57" or "Total 28.57"
	regexp.MustCompile(`(?im)\$?\s*(\d+\.\d{2})\s*$`),             // amount at end of line
	regexp.MustCompile(`(?im)amount[:\s]*\$?\s*(\d+\.\d{2})`),     // "Amount: $28.57"
	regexp.MustCompile(`(?im)grand\s*total[:\s]*\$?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?im)balance[:\s]*\$?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?im)\$?\s*(\d+\.\d{2})\s*(?:total|due|paid)`),
}

// reDollarAmount matches any $X.XX-shaped token for the fallback scan
var reDollarAmount = regexp.MustCompile(`\$?\s*(\d+\.\d{2})`)

// maxReceiptTotal bounds what a plausible receipt total can be
var maxReceiptTotal = decimal.NewFromInt(10000)

// Total extracts the receipt total from raw OCR text. When no keyword
// pattern yields a plausible amount, it falls back to the largest
// dollar amount in the text, an imprecise heuristic that can pick a
// line-item price instead of the true total. The second return is
// false when nothing qualifies; callers should then use zero.
func Total(text string) (decimal.Decimal, bool) {
	if text == "" {
		return decimal.Zero, false
	}

	for _, pattern := range totalPatterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		amount, err := decimal.NewFromString(matches[len(matches)-1][1])
		if err != nil {
			continue
		}
		if amount.IsPositive() && !amount.GreaterThan(maxReceiptTotal) {
			return amount, true
		}
	}

	largest := decimal.Zero
	found := false
	for _, match := range reDollarAmount.FindAllStringSubmatch(text, -1) {
		amount, err := decimal.NewFromString(match[1])
		if err != nil {
			continue
		}
		if amount.IsPositive() && !amount.GreaterThan(maxReceiptTotal) && amount.GreaterThan(largest) {
			largest = amount
			found = true
		}
	}
	return largest, found
}
