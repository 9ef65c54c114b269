package finance

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/models"
	"chikwama_finance/internal/services"
	"chikwama_finance/pkg/utils"

	"github.com/shopspring/decimal"
)

// FUNC TO ADD AN INVESTMENT
func AddInvestment(w http.ResponseWriter, r *http.Request) {
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
		Type         string          `json:"type"`
		InitialValue decimal.Decimal `json:"initial_value"`
		Currency     string          `json:"currency"`
		Description  string          `json:"description"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		utils.WriteError(w, "please fill in all required fields", http.StatusBadRequest)
		return
	}
	if !req.InitialValue.IsPositive() {
		utils.WriteError(w, "initial value must be greater than 0", http.StatusBadRequest)
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

	res, err := db.Exec(`
		INSERT INTO investments (user_id, type, initial_value, current_value, currency, description, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, req.Type, req.InitialValue, req.InitialValue, req.Currency, req.Description,
		time.Now().Format(services.TimeLayout))
	if err != nil {
		utils.Logger.Errorf("error adding investment: %v", err)
		utils.WriteError(w, "error adding investment, please try again", http.StatusInternalServerError)
		return
	}
	investmentID, _ := res.LastInsertId()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "investment added successfully",
		"data": map[string]interface{}{
			"id":            investmentID,
			"type":          req.Type,
			"initial_value": req.InitialValue,
			"currency":      req.Currency,
		},
	})
}

func loadOwnedInvestment(w http.ResponseWriter, r *http.Request, db *sql.DB, userID int) (*models.Investment, bool) {
	idStr := r.PathValue("id")
	investmentID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid investment ID", http.StatusBadRequest)
		return nil, false
	}

	var inv models.Investment
	err = db.QueryRow(`
		SELECT id, user_id, type, initial_value, current_value, currency, description, last_updated
		FROM investments WHERE id = ?`, investmentID).
		Scan(&inv.ID, &inv.UserID, &inv.Type, &inv.InitialValue, &inv.CurrentValue,
			&inv.Currency, &inv.Description, &inv.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no investment found", http.StatusNotFound)
			return nil, false
		}
		utils.Logger.Errorf("error fetching investment: %v", err)
		utils.WriteError(w, "error fetching investment", http.StatusInternalServerError)
		return nil, false
	}

	if inv.UserID != userID {
		utils.WriteError(w, "unauthorized access", http.StatusForbidden)
		return nil, false
	}

	return &inv, true
}

// FUNC TO UPDATE AN INVESTMENT'S MARKET VALUE
func UpdateInvestmentValue(w http.ResponseWriter, r *http.Request) {
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

	inv, ok := loadOwnedInvestment(w, r, db, userID)
	if !ok {
		return
	}

	type request struct {
		CurrentValue decimal.Decimal `json:"current_value"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.CurrentValue.IsNegative() {
		utils.WriteError(w, "current value cannot be negative", http.StatusBadRequest)
		return
	}

	_, err := db.Exec("UPDATE investments SET current_value = ?, last_updated = ? WHERE id = ?",
		req.CurrentValue, time.Now().Format(services.TimeLayout), inv.ID)
	if err != nil {
		utils.Logger.Errorf("error updating investment: %v", err)
		utils.WriteError(w, "error updating investment, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "investment value updated successfully",
		"data": map[string]interface{}{
			"id":            inv.ID,
			"current_value": req.CurrentValue,
		},
	})
}

// FUNC TO EDIT AN INVESTMENT
func EditInvestment(w http.ResponseWriter, r *http.Request) {
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

	inv, ok := loadOwnedInvestment(w, r, db, userID)
	if !ok {
		return
	}

	type request struct {
		Type         string          `json:"type"`
		InitialValue decimal.Decimal `json:"initial_value"`
		CurrentValue decimal.Decimal `json:"current_value"`
		Currency     string          `json:"currency"`
		Description  string          `json:"description"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		req.Type = inv.Type
	}
	if req.InitialValue.IsZero() {
		req.InitialValue = inv.InitialValue
	}
	if req.CurrentValue.IsZero() {
		req.CurrentValue = inv.CurrentValue
	}
	if req.Currency == "" {
		req.Currency = inv.Currency
	}
	if req.Description == "" {
		req.Description = inv.Description
	}

	if req.InitialValue.IsNegative() || req.CurrentValue.IsNegative() {
		utils.WriteError(w, "values cannot be negative", http.StatusBadRequest)
		return
	}
	if err := handlers.ValidateCurrency(req.Currency); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := db.Exec(`
		UPDATE investments
		SET type = ?, initial_value = ?, current_value = ?, currency = ?, description = ?, last_updated = ?
		WHERE id = ?`,
		req.Type, req.InitialValue, req.CurrentValue, req.Currency, req.Description,
		time.Now().Format(services.TimeLayout), inv.ID)
	if err != nil {
		utils.Logger.Errorf("error updating investment: %v", err)
		utils.WriteError(w, "error updating investment, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "investment updated successfully",
	})
}

// FUNC TO DELETE AN INVESTMENT
func DeleteInvestment(w http.ResponseWriter, r *http.Request) {
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

	inv, ok := loadOwnedInvestment(w, r, db, userID)
	if !ok {
		return
	}

	if _, err := db.Exec("DELETE FROM investments WHERE id = ?", inv.ID); err != nil {
		utils.Logger.Errorf("error deleting investment: %v", err)
		utils.WriteError(w, "error deleting investment, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "investment deleted successfully",
	})
}
