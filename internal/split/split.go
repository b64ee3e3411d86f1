// Package split computes equal per-person expense splits with exact
// remainder reconciliation.
package split

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Item is one entry of a split request. Amounts arrive as strings from
// the API; either field may carry the value.
type Item struct {
	Amount string `json:"amount"`
	Price  string `json:"price"`
}

// Validation errors for split requests
var (
	ErrNoItems  = errors.New("items list cannot be empty")
	ErrNoPeople = errors.New("people list cannot be empty")
)

// TotalFromItems sums item amounts, preferring the amount field and
// falling back to price. Unparsable or missing entries contribute
// nothing rather than failing the whole request.
func TotalFromItems(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		value := item.Amount
		if value == "" {
			value = item.Price
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// Calculate divides a total equally across people. Every person gets
// the per-head share rounded to cents; whatever cents the rounding
// left over (positive or negative) are added to the first person's
// share so the map entries always sum exactly to the total.
//
// Repeated names are not deduplicated: later occurrences overwrite
// earlier ones, collapsing to a single map entry that then absorbs the
// whole difference. Surprising, but long-standing behavior that
// callers rely on.
func Calculate(total decimal.Decimal, people []string) (map[string]decimal.Decimal, error) {
	if len(people) == 0 {
		return nil, ErrNoPeople
	}

	share := total.Div(decimal.NewFromInt(int64(len(people)))).Round(2)

	shares := make(map[string]decimal.Decimal, len(people))
	for _, person := range people {
		shares[person] = share
	}

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	if remainder := total.Sub(sum); !remainder.IsZero() {
		shares[people[0]] = shares[people[0]].Add(remainder)
	}

	return shares, nil
}
