package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chikwama_finance/internal/models"

	"github.com/shopspring/decimal"
)

const TimeLayout = "2006-01-02 15:04:05"

var (
	ErrSourceNotFound    = errors.New("source account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoActiveBudget    = errors.New("no active budget for the current month")
	ErrNotBudgeted       = errors.New("category is not budgeted for")
)

// TransactionInput is a validated request to record one income or expense.
type TransactionInput struct {
	Type        string
	Amount      decimal.Decimal
	Description string
	CategoryID  int // 0 when the transaction has no category
	Source      string
	Currency    string
	Date        time.Time
}

// LedgerResult reports the recorded transaction and the budget headroom or
// over-budget message shown to the user.
type LedgerResult struct {
	TransactionID int64
	Message       string
	OverBudget    bool
}

// MonthStart returns the first day of t's calendar month as stored in
// budgets.month.
func MonthStart(t time.Time) string {
	return t.Format("2006-01") + "-01"
}

// LatestBalance returns the most recent savings row for a source. The savings
// table is an append-only log; the newest row holds the current balance.
func LatestBalance(q Querier, userID int, source string) (*models.Saving, error) {
	var s models.Saving
	err := q.QueryRow(`
		SELECT id, amount, currency, description, date
		FROM savings
		WHERE user_id = ? AND type = ?
		ORDER BY date DESC, id DESC
		LIMIT 1`, userID, source).Scan(&s.ID, &s.Amount, &s.Currency, &s.Description, &s.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.UserID = userID
	s.Type = source
	return &s, nil
}

// Querier is the subset of *sql.DB and *sql.Tx the services read through.
type Querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

func appendSaving(tx *sql.Tx, userID int, source string, amount decimal.Decimal, currency, description string, at time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO savings (user_id, type, amount, currency, description, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, source, amount, currency, description, at.Format(TimeLayout))
	return err
}

// RecordTransaction applies the full effect of a new transaction inside tx:
// the transaction row, the savings balance for its source, and (for a
// categorized expense) the matching budget item's spent amount. The caller
// owns commit and rollback.
func RecordTransaction(tx *sql.Tx, userID int, in TransactionInput) (*LedgerResult, error) {
	result := &LedgerResult{}

	latest, err := LatestBalance(tx, userID, in.Source)
	if err != nil {
		return nil, err
	}

	if in.Type == "expense" {
		if latest == nil {
			return nil, fmt.Errorf("%w: %s account not found, set up your accounts in the finance section", ErrSourceNotFound, in.Source)
		}
		if latest.Amount.LessThan(in.Amount) {
			return nil, fmt.Errorf("%w in %s: available balance %s %s",
				ErrInsufficientFunds, in.Source, latest.Currency, latest.Amount.StringFixed(2))
		}
	}

	// For a categorized expense the budget item must exist before anything
	// is written, so a failure leaves no partial effect to roll back.
	var item *models.BudgetItem
	var budgetCurrency, categoryName string
	if in.Type == "expense" && in.CategoryID != 0 {
		var budget models.Budget
		err := tx.QueryRow(`
			SELECT id, total_amount, currency FROM budgets
			WHERE user_id = ? AND month = ? AND archived = false`,
			userID, MonthStart(in.Date)).Scan(&budget.ID, &budget.TotalAmount, &budget.Currency)
		if err == sql.ErrNoRows {
			return nil, ErrNoActiveBudget
		}
		if err != nil {
			return nil, err
		}
		budgetCurrency = budget.Currency

		item = &models.BudgetItem{}
		err = tx.QueryRow(`
			SELECT bi.id, bi.planned_amount, bi.spent_amount, c.name
			FROM budget_items bi
			JOIN categories c ON c.id = bi.category_id
			WHERE bi.budget_id = ? AND bi.category_id = ? AND bi.archived = false`,
			budget.ID, in.CategoryID).Scan(&item.ID, &item.PlannedAmount, &item.SpentAmount, &categoryName)
		if err == sql.ErrNoRows {
			return nil, ErrNotBudgeted
		}
		if err != nil {
			return nil, err
		}
	}

	var categoryID any
	if in.CategoryID != 0 {
		categoryID = in.CategoryID
	}

	res, err := tx.Exec(`
		INSERT INTO transactions (user_id, type, amount, description, category_id, currency, source, date, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, false)`,
		userID, in.Type, in.Amount, in.Description, categoryID, in.Currency, in.Source, in.Date.Format(TimeLayout))
	if err != nil {
		return nil, err
	}
	result.TransactionID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if item != nil {
		newSpent := item.SpentAmount.Add(in.Amount)
		if _, err := tx.Exec("UPDATE budget_items SET spent_amount = ? WHERE id = ?", newSpent, item.ID); err != nil {
			return nil, err
		}

		remaining := item.PlannedAmount.Sub(newSpent)
		if remaining.IsNegative() {
			result.OverBudget = true
			result.Message = fmt.Sprintf("Warning: you have exceeded the budget for %s by %s %s",
				categoryName, budgetCurrency, remaining.Abs().StringFixed(2))
		} else {
			result.Message = fmt.Sprintf("Budget remaining for %s: %s %s",
				categoryName, budgetCurrency, remaining.StringFixed(2))
		}
	}

	switch in.Type {
	case "income":
		if latest == nil {
			err = appendSaving(tx, userID, in.Source, in.Amount, in.Currency,
				fmt.Sprintf("Updated from transaction: %s", in.Description), in.Date)
		} else {
			err = appendSaving(tx, userID, in.Source, latest.Amount.Add(in.Amount), latest.Currency,
				fmt.Sprintf("Updated from transaction: %s", in.Description), in.Date)
		}
	case "expense":
		err = appendSaving(tx, userID, in.Source, latest.Amount.Sub(in.Amount), latest.Currency,
			fmt.Sprintf("Updated from transaction: %s", in.Description), in.Date)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ReverseTransaction undoes a transaction's ledger effects inside tx and
// deletes the transaction row. The savings reversal appends a new row rather
// than touching history; the budget item's spent amount is reduced with no
// floor at zero.
func ReverseTransaction(tx *sql.Tx, userID int, txn models.Transaction) error {
	if txn.Type == "expense" && txn.CategoryID.Valid {
		txnDate, err := time.Parse(TimeLayout, txn.Date)
		if err != nil {
			return fmt.Errorf("parse transaction date: %w", err)
		}

		var budgetID int
		err = tx.QueryRow(`
			SELECT id FROM budgets
			WHERE user_id = ? AND month = ? AND archived = false`,
			userID, MonthStart(txnDate)).Scan(&budgetID)
		if err != nil && err != sql.ErrNoRows {
			return err
		}

		if err == nil {
			var itemID int
			var spent decimal.Decimal
			err = tx.QueryRow(`
				SELECT id, spent_amount FROM budget_items
				WHERE budget_id = ? AND category_id = ? AND archived = false`,
				budgetID, txn.CategoryID.Int64).Scan(&itemID, &spent)
			if err != nil && err != sql.ErrNoRows {
				return err
			}
			if err == nil {
				if _, err := tx.Exec("UPDATE budget_items SET spent_amount = ? WHERE id = ?",
					spent.Sub(txn.Amount), itemID); err != nil {
					return err
				}
			}
		}
	}

	latest, err := LatestBalance(tx, userID, txn.Source)
	if err != nil {
		return err
	}
	if latest != nil {
		reverted := latest.Amount.Add(txn.Amount)
		if txn.Type == "income" {
			reverted = latest.Amount.Sub(txn.Amount)
		}
		if err := appendSaving(tx, userID, txn.Source, reverted, txn.Currency,
			fmt.Sprintf("Reverted transaction: %s", txn.Description), time.Now()); err != nil {
			return err
		}
	}

	_, err = tx.Exec("DELETE FROM transactions WHERE id = ? AND user_id = ?", txn.ID, userID)
	return err
}
