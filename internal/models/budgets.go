package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Month       string          `json:"month,omitempty" db:"month,omitempty"` // first day of the month, YYYY-MM-DD
	TotalAmount decimal.Decimal `json:"total_amount,omitempty" db:"total_amount,omitempty"`
	Currency    string          `json:"currency,omitempty" db:"currency,omitempty"`
	Archived    bool            `json:"archived" db:"archived"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt   sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

type BudgetItem struct {
	ID            int             `json:"id,omitempty" db:"id,omitempty"`
	BudgetID      int             `json:"budget_id,omitempty" db:"budget_id,omitempty"`
	CategoryID    int             `json:"category_id,omitempty" db:"category_id,omitempty"`
	PlannedAmount decimal.Decimal `json:"planned_amount" db:"planned_amount"`
	SpentAmount   decimal.Decimal `json:"spent_amount" db:"spent_amount"`
	Description   string          `json:"description,omitempty" db:"description,omitempty"`
	Archived      bool            `json:"archived" db:"archived"`
	CategoryName  string          `json:"category_name,omitempty" db:"-"`
}
