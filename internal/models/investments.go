package models

import "github.com/shopspring/decimal"

type Investment struct {
	ID           int             `json:"id,omitempty" db:"id,omitempty"`
	UserID       int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Type         string          `json:"type,omitempty" db:"type,omitempty"` // stocks, bonds, tbills, ...
	InitialValue decimal.Decimal `json:"initial_value" db:"initial_value"`
	CurrentValue decimal.Decimal `json:"current_value" db:"current_value"`
	Currency     string          `json:"currency,omitempty" db:"currency,omitempty"`
	Description  string          `json:"description,omitempty" db:"description,omitempty"`
	LastUpdated  string          `json:"last_updated,omitempty" db:"last_updated,omitempty"`
}
