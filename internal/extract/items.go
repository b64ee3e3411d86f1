// Package extract turns raw receipt OCR text into structured expense
// data: line items with prices and categories, and the receipt total.
//
// Receipts are OCR'd into noisy single-column text, so everything here
// works on line shape and keywords rather than layout: the price is
// reliably the rightmost number on an item line, and most non-item
// lines can be filtered by keyword and pattern heuristics.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpenseItem is one line item extracted from a receipt
type ExpenseItem struct {
	Item     string          `json:"item"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// StopKeywords marks a line as non-item metadata when any of them
// appears in its lowercased text: totals and tax markers, store
// headers, register/terminal codes, date and URL markers, per-unit
// price markers, payment methods, and loyalty language. The list is
// data, not logic; extend it here without touching classification.
var StopKeywords = []string{
	"subtotal",
	"total",
	"tax",
	"change due",
	"page",
	"walmart",
	"store",
	"st#",
	"op#",
	"te#",
	"tr#",
	"date",
	"www.",
	"lb @",
	"visa",
	"mastercard",
	"debit",
	"credit",
	"cash",
	"member",
	"rewards",
	"points",
	"loyalty",
	"savings",
}

// maxItemPrice is the reasonableness bound for a single line item.
// Anything above it is treated as an OCR misread, not a price.
var maxItemPrice = decimal.NewFromInt(500)

// maxDigitsPerToken rejects barcode/SKU lines: no real price or
// quantity carries more than 12 digits in one token.
const maxDigitsPerToken = 12

var (
	reDate         = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	reTime         = regexp.MustCompile(`\d{1,2}:\d{2}`)
	reNumericToken = regexp.MustCompile(`\d+[.,]?\d*`)
	// OCR often glues a register code onto the end of an item name,
	// e.g. "MILK 007874201510F"
	reTrailingCode = regexp.MustCompile(`[a-zA-Z]?\d{6,}[a-zA-Z]?$`)
)

// Items classifies raw OCR text into expense items. Lines that fail
// any heuristic are skipped silently; a bad line never aborts the rest
// of the receipt.
func Items(text string) []ExpenseItem {
	items := make([]ExpenseItem, 0)
	for _, line := range strings.Split(text, "\n") {
		if item, ok := classifyLine(line); ok {
			items = append(items, item)
		}
	}
	return items
}

func classifyLine(line string) (ExpenseItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return ExpenseItem{}, false
	}

	lower := strings.ToLower(line)
	for _, keyword := range StopKeywords {
		if strings.Contains(lower, keyword) {
			return ExpenseItem{}, false
		}
	}

	if reDate.MatchString(line) || reTime.MatchString(line) {
		return ExpenseItem{}, false
	}

	tokens := reNumericToken.FindAllStringIndex(line, -1)
	if tokens == nil {
		return ExpenseItem{}, false
	}
	for _, loc := range tokens {
		if digitCount(line[loc[0]:loc[1]]) > maxDigitsPerToken {
			return ExpenseItem{}, false
		}
	}

	// The rightmost number on an item line is the price
	last := tokens[len(tokens)-1]
	price, err := decimal.NewFromString(strings.ReplaceAll(line[last[0]:last[1]], ",", ""))
	if err != nil || !price.IsPositive() || price.GreaterThan(maxItemPrice) {
		return ExpenseItem{}, false
	}

	description := cleanDescription(line[:last[0]])
	if description == "" || digitCount(description) == len(description) {
		return ExpenseItem{}, false
	}

	return ExpenseItem{
		Item:     description,
		Amount:   price,
		Category: Category(description),
	}, true
}

// cleanDescription strips the separators left behind after cutting the
// price off a line, plus any trailing OCR register code.
func cleanDescription(s string) string {
	s = strings.Trim(s, " -:")
	s = reTrailingCode.ReplaceAllString(s, "")
	return strings.Trim(s, " -:")
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
