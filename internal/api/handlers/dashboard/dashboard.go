package dashboard

import (
	"database/sql"
	"net/http"
	"time"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/models"
	"chikwama_finance/internal/services"
	"chikwama_finance/pkg/utils"

	"github.com/shopspring/decimal"
)

type budgetSummary struct {
	Month       string          `json:"month"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Currency    string          `json:"currency"`
}

// FUNC TO GET THE DASHBOARD SUMMARY
func GetDashboard(w http.ResponseWriter, r *http.Request) {
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

	var budget *budgetSummary
	month := services.MonthStart(time.Now())

	var b models.Budget
	err := db.QueryRow(`
		SELECT id, month, total_amount, currency
		FROM budgets WHERE user_id = ? AND month = ? AND archived = false`, userID, month).
		Scan(&b.ID, &b.Month, &b.TotalAmount, &b.Currency)
	switch {
	case err == sql.ErrNoRows:
		// no budget this month, dashboard still renders
	case err != nil:
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error fetching dashboard", http.StatusInternalServerError)
		return
	default:
		spent, err := services.SpentTotal(db, b.ID)
		if err != nil {
			utils.Logger.Errorf("error fetching budget totals: %v", err)
			utils.WriteError(w, "error fetching dashboard", http.StatusInternalServerError)
			return
		}
		budget = &budgetSummary{
			Month:       b.Month,
			TotalAmount: b.TotalAmount,
			TotalSpent:  spent,
			Remaining:   b.TotalAmount.Sub(spent),
			Currency:    b.Currency,
		}
	}

	balances := []models.Saving{}
	for source := range models.ValidSources {
		latest, err := services.LatestBalance(db, userID, source)
		if err != nil {
			utils.Logger.Errorf("error fetching balance for %s: %v", source, err)
			utils.WriteError(w, "error fetching dashboard", http.StatusInternalServerError)
			return
		}
		if latest != nil {
			balances = append(balances, *latest)
		}
	}

	investedInitial := decimal.Zero
	investedCurrent := decimal.Zero
	rows, err := db.Query("SELECT initial_value, current_value FROM investments WHERE user_id = ?", userID)
	if err != nil {
		utils.Logger.Errorf("error fetching investments: %v", err)
		utils.WriteError(w, "error fetching dashboard", http.StatusInternalServerError)
		return
	}
	for rows.Next() {
		var initial, current decimal.Decimal
		if err := rows.Scan(&initial, &current); err != nil {
			rows.Close()
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error fetching dashboard", http.StatusInternalServerError)
			return
		}
		investedInitial = investedInitial.Add(initial)
		investedCurrent = investedCurrent.Add(current)
	}
	rows.Close()

	recent := []models.Transaction{}
	txRows, err := db.Query(`
		SELECT id, type, amount, description, category_id, currency, source, date
		FROM transactions WHERE user_id = ? AND archived = false
		ORDER BY date DESC, id DESC LIMIT 5`, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching transactions: %v", err)
		utils.WriteError(w, "error fetching dashboard", http.StatusInternalServerError)
		return
	}
	defer txRows.Close()
	for txRows.Next() {
		var transaction models.Transaction
		err = txRows.Scan(&transaction.ID, &transaction.Type, &transaction.Amount, &transaction.Description,
			&transaction.CategoryID, &transaction.Currency, &transaction.Source, &transaction.Date)
		if err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error fetching dashboard", http.StatusInternalServerError)
			return
		}
		recent = append(recent, transaction)
	}

	response := struct {
		Status string `json:"status"`
		Data   struct {
			Budget             *budgetSummary       `json:"budget"`
			Balances           []models.Saving      `json:"balances"`
			InvestedInitial    decimal.Decimal      `json:"invested_initial"`
			InvestedCurrent    decimal.Decimal      `json:"invested_current"`
			RecentTransactions []models.Transaction `json:"recent_transactions"`
		} `json:"data"`
	}{Status: "success"}
	response.Data.Budget = budget
	response.Data.Balances = balances
	response.Data.InvestedInitial = investedInitial
	response.Data.InvestedCurrent = investedCurrent
	response.Data.RecentTransactions = recent

	utils.WriteJSON(w, response)
}
