package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is a confirmed, persisted receipt. TotalAmount always
// matches the value the current SplitBetweenPeople was computed from.
type Receipt struct {
	ID                 string                     `json:"id"`
	Title              string                     `json:"title"`
	TotalAmount        decimal.Decimal            `json:"total_amount"`
	RawText            string                     `json:"raw_text"`
	SplitBetweenPeople map[string]decimal.Decimal `json:"split_between_people"`
	Filename           string                     `json:"filename,omitempty"`
	ContentType        string                     `json:"content_type,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}
