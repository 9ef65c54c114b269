package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrOverAllocation  = errors.New("allocation exceeds budget total")
	ErrBelowAllocation = errors.New("amount is below the allocated total")
)

// PlannedTotal sums planned_amount over a budget's non-archived items,
// skipping excludeItemID when non-zero. The sum is computed in Go with
// decimals rather than SQL so the arithmetic is exact on every backend.
func PlannedTotal(q Querier, budgetID, excludeItemID int) (decimal.Decimal, error) {
	query := `
		SELECT planned_amount FROM budget_items
		WHERE budget_id = ? AND archived = false`
	args := []any{budgetID}
	if excludeItemID != 0 {
		query += " AND id != ?"
		args = append(args, excludeItemID)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var planned decimal.Decimal
		if err := rows.Scan(&planned); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(planned)
	}
	return total, rows.Err()
}

// SpentTotal sums spent_amount over a budget's non-archived items.
func SpentTotal(q Querier, budgetID int) (decimal.Decimal, error) {
	rows, err := q.Query(`
		SELECT spent_amount FROM budget_items
		WHERE budget_id = ? AND archived = false`, budgetID)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var spent decimal.Decimal
		if err := rows.Scan(&spent); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(spent)
	}
	return total, rows.Err()
}

// CheckAllocation verifies that giving an item plannedAmount keeps the
// budget's planned sum within its total. excludeItemID skips the item being
// edited. The returned error names the exact headroom still allocatable.
func CheckAllocation(q Querier, budgetID, excludeItemID int, total, plannedAmount decimal.Decimal, currency string) error {
	current, err := PlannedTotal(q, budgetID, excludeItemID)
	if err != nil {
		return err
	}

	if current.Add(plannedAmount).GreaterThan(total) {
		headroom := total.Sub(current)
		return fmt.Errorf("%w: this budget item (%s %s) would exceed your total budget, you can allocate up to %s %s",
			ErrOverAllocation, currency, plannedAmount.StringFixed(2), currency, headroom.StringFixed(2))
	}

	return nil
}

// CheckReset verifies a budget can be reset to newTotal: the new total must
// cover the planned amounts already allocated.
func CheckReset(q Querier, budgetID int, newTotal decimal.Decimal, currency string) error {
	planned, err := PlannedTotal(q, budgetID, 0)
	if err != nil {
		return err
	}

	if newTotal.LessThan(planned) {
		return fmt.Errorf("%w: cannot reset budget to %s %s as it is less than your total planned amounts (%s %s), adjust your budget items first",
			ErrBelowAllocation, currency, newTotal.StringFixed(2), currency, planned.StringFixed(2))
	}

	return nil
}
