package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Type        string          `json:"type,omitempty" db:"type,omitempty"` // income or expense
	Amount      decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	CategoryID  sql.NullInt64   `json:"category_id,omitempty" db:"category_id,omitempty"`
	Currency    string          `json:"currency,omitempty" db:"currency,omitempty"`
	Source      string          `json:"source,omitempty" db:"source,omitempty"` // bank, mobile_money or cash
	Date        string          `json:"date,omitempty" db:"date,omitempty"`
	Archived    bool            `json:"archived" db:"archived"`
}

// ValidSources are the account tags a transaction can draw from or deposit to.
var ValidSources = map[string]bool{"bank": true, "mobile_money": true, "cash": true}
