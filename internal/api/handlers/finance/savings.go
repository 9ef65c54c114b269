package finance

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/models"
	"chikwama_finance/internal/services"
	"chikwama_finance/pkg/utils"

	"github.com/shopspring/decimal"
)

// FUNC TO GET THE SAVINGS AND INVESTMENTS OVERVIEW
func FinanceOverview(w http.ResponseWriter, r *http.Request) {
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

	balances := []models.Saving{}
	currencies := map[string]bool{}
	total := decimal.Zero

	for source := range models.ValidSources {
		latest, err := services.LatestBalance(db, userID, source)
		if err != nil {
			utils.Logger.Errorf("error fetching balance for %s: %v", source, err)
			utils.WriteError(w, "error fetching savings", http.StatusInternalServerError)
			return
		}
		if latest == nil {
			continue
		}
		balances = append(balances, *latest)
		currencies[latest.Currency] = true
		total = total.Add(latest.Amount)
	}

	// The total is a plain sum of whatever the latest rows hold; when the
	// rows disagree on currency the number is not meaningful on its own, so
	// it is flagged instead of converted.
	totalCurrency := ""
	for currency := range currencies {
		totalCurrency = currency
	}
	mixed := len(currencies) > 1
	if mixed {
		totalCurrency = ""
	}

	investments, err := listInvestments(db, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching investments: %v", err)
		utils.WriteError(w, "error fetching investments", http.StatusInternalServerError)
		return
	}

	investedInitial := decimal.Zero
	investedCurrent := decimal.Zero
	for _, inv := range investments {
		investedInitial = investedInitial.Add(inv.InitialValue)
		investedCurrent = investedCurrent.Add(inv.CurrentValue)
	}

	response := struct {
		Status string `json:"status"`
		Data   struct {
			Balances        []models.Saving     `json:"balances"`
			TotalSavings    decimal.Decimal     `json:"total_savings"`
			TotalCurrency   string              `json:"total_currency,omitempty"`
			MixedCurrencies bool                `json:"mixed_currencies"`
			Investments     []models.Investment `json:"investments"`
			InvestedInitial decimal.Decimal     `json:"invested_initial"`
			InvestedCurrent decimal.Decimal     `json:"invested_current"`
		} `json:"data"`
	}{Status: "success"}
	response.Data.Balances = balances
	response.Data.TotalSavings = total
	response.Data.TotalCurrency = totalCurrency
	response.Data.MixedCurrencies = mixed
	response.Data.Investments = investments
	response.Data.InvestedInitial = investedInitial
	response.Data.InvestedCurrent = investedCurrent

	utils.WriteJSON(w, response)
}

// FUNC TO RECORD A NEW SAVINGS BALANCE
func UpdateSavings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	type request struct {
		Type        string          `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Currency    string          `json:"currency"`
		Description string          `json:"description"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := handlers.ValidateSource(req.Type); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Amount.IsNegative() {
		utils.WriteError(w, "amount cannot be negative", http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		if err := db.QueryRow("SELECT default_currency FROM users WHERE id = ?", userID).Scan(&req.Currency); err != nil {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
	}
	if err := handlers.ValidateCurrency(req.Currency); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		req.Description = "Manual balance update"
	}

	res, err := db.Exec(`
		INSERT INTO savings (user_id, type, amount, currency, description, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, req.Type, req.Amount, req.Currency, req.Description,
		time.Now().Format(services.TimeLayout))
	if err != nil {
		utils.Logger.Errorf("error updating savings: %v", err)
		utils.WriteError(w, "error updating savings, please try again", http.StatusInternalServerError)
		return
	}
	rowID, _ := res.LastInsertId()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "savings updated successfully",
		"data": map[string]interface{}{
			"id":       rowID,
			"type":     req.Type,
			"amount":   req.Amount,
			"currency": req.Currency,
		},
	})
}

func listInvestments(db *sql.DB, userID int) ([]models.Investment, error) {
	rows, err := db.Query(`
		SELECT id, user_id, type, initial_value, current_value, currency, description, last_updated
		FROM investments WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	investments := []models.Investment{}
	for rows.Next() {
		var inv models.Investment
		err = rows.Scan(&inv.ID, &inv.UserID, &inv.Type, &inv.InitialValue, &inv.CurrentValue,
			&inv.Currency, &inv.Description, &inv.LastUpdated)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}
