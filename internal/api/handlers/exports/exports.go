package exports

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/models"
	"chikwama_finance/pkg/utils"

	"github.com/shopspring/decimal"
)

// utf8BOM makes spreadsheet software detect the encoding correctly.
const utf8BOM = "\xEF\xBB\xBF"

func csvHeaders(w http.ResponseWriter, name string) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// FUNC TO EXPORT TRANSACTIONS AS CSV
func ExportTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db, ok := handlers.RequireDB(w)
	if !ok {
		return
	}

	userID, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	rows, err := db.Query(`
		SELECT t.date, t.type, t.amount, t.currency, t.description, c.name, t.source
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.archived = false
		ORDER BY t.date DESC, t.id DESC`, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching transactions: %v", err)
		utils.WriteError(w, "error exporting transactions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	csvHeaders(w, "transactions")
	w.Write([]byte(utf8BOM))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Date", "Type", "Amount", "Currency", "Description", "Category", "Source"})

	for rows.Next() {
		var date, txType, currency, description, source string
		var amount decimal.Decimal
		var category sql.NullString
		err = rows.Scan(&date, &txType, &amount, &currency, &description, &category, &source)
		if err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			return
		}

		categoryName := "N/A"
		if category.Valid {
			categoryName = category.String
		}

		writer.Write([]string{date, txType, amount.StringFixed(2), currency, description, categoryName, source})
	}
}

// FUNC TO EXPORT BUDGETS AS CSV
func ExportBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db, ok := handlers.RequireDB(w)
	if !ok {
		return
	}

	userID, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	rows, err := db.Query(`
		SELECT id, month, total_amount, currency, archived, created_at, updated_at
		FROM budgets WHERE user_id = ?
		ORDER BY month DESC`, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching budgets: %v", err)
		utils.WriteError(w, "error exporting budgets", http.StatusInternalServerError)
		return
	}

	budgets := []models.Budget{}
	for rows.Next() {
		var budget models.Budget
		err = rows.Scan(&budget.ID, &budget.Month, &budget.TotalAmount, &budget.Currency,
			&budget.Archived, &budget.CreatedAt, &budget.UpdatedAt)
		if err != nil {
			rows.Close()
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error exporting budgets", http.StatusInternalServerError)
			return
		}
		budgets = append(budgets, budget)
	}
	rows.Close()

	csvHeaders(w, "budgets")
	w.Write([]byte(utf8BOM))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Budget Month", "Total Amount", "Currency", "Created At", "Updated At", "Status"})
	writer.Write([]string{})

	for _, budget := range budgets {
		month := budget.Month
		if len(month) >= 7 {
			month = month[:7]
		}

		status := "Active"
		if budget.Archived {
			status = "Archived"
		}

		writer.Write([]string{month, budget.TotalAmount.StringFixed(2), budget.Currency,
			budget.CreatedAt.String, budget.UpdatedAt.String, status})
		writer.Write([]string{})
		writer.Write([]string{"Category", "Planned Amount", "Spent Amount", "Description"})

		itemRows, err := db.Query(`
			SELECT c.name, bi.planned_amount, bi.spent_amount, bi.description
			FROM budget_items bi
			JOIN categories c ON c.id = bi.category_id
			WHERE bi.budget_id = ?
			ORDER BY bi.id`, budget.ID)
		if err != nil {
			utils.Logger.Errorf("error fetching budget items: %v", err)
			return
		}

		for itemRows.Next() {
			var name, description string
			var planned, spent decimal.Decimal
			if err := itemRows.Scan(&name, &planned, &spent, &description); err != nil {
				itemRows.Close()
				utils.Logger.Errorf("error fetching data: %v", err)
				return
			}
			if description == "" {
				description = "N/A"
			}
			writer.Write([]string{name, planned.StringFixed(2), spent.StringFixed(2), description})
		}
		itemRows.Close()

		writer.Write([]string{})
	}
}
