package models

import "github.com/shopspring/decimal"

// Saving is one row of the append-only balance log for a source. The current
// balance of a source is its most recent row; balance changes append, never
// update in place.
type Saving struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Type        string          `json:"type,omitempty" db:"type,omitempty"` // bank, mobile_money or cash
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Currency    string          `json:"currency,omitempty" db:"currency,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Date        string          `json:"date,omitempty" db:"date,omitempty"`
}
