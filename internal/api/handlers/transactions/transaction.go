package transactions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/events"
	"chikwama_finance/internal/models"
	"chikwama_finance/internal/services"
	"chikwama_finance/pkg/utils"

	"github.com/shopspring/decimal"
)

// FUNC TO GET ALL TRANSACTIONS FOR A USER
func GetAllUserTransactions(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	query := `
		SELECT id, type, amount, description, category_id, currency, source, date, archived
		FROM transactions
		WHERE user_id = ? AND archived = false
	`
	args := []interface{}{userID}

	if currency := r.URL.Query().Get("currency"); currency != "" {
		query += " AND currency = ?"
		args = append(args, currency)
	}

	sorted := utils.AddSorting(r, query, "date", "amount", "type")
	if sorted == query {
		sorted += " ORDER BY date DESC, id DESC"
	}
	query = sorted

	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching transactions: %v", err)
		utils.WriteError(w, "error fetching transactions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var transaction models.Transaction
		err = rows.Scan(&transaction.ID, &transaction.Type, &transaction.Amount, &transaction.Description,
			&transaction.CategoryID, &transaction.Currency, &transaction.Source, &transaction.Date, &transaction.Archived)
		if err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error fetching transaction", http.StatusInternalServerError)
			return
		}
		transactions = append(transactions, transaction)
	}

	response := struct {
		Status   string               `json:"status"`
		Count    int                  `json:"count"`
		Page     int                  `json:"page"`
		PageSize int                  `json:"page_size"`
		Data     []models.Transaction `json:"data"`
	}{
		Status:   "success",
		Count:    len(transactions),
		Page:     page,
		PageSize: limit,
		Data:     transactions,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO GET ONE TRANSACTION BY ID
func GetTransactionById(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	transactionID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var transaction models.Transaction
	err = db.QueryRowContext(ctx, `
		SELECT id, type, amount, description, category_id, currency, source, date, archived
		FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID).
		Scan(&transaction.ID, &transaction.Type, &transaction.Amount, &transaction.Description,
			&transaction.CategoryID, &transaction.Currency, &transaction.Source, &transaction.Date, &transaction.Archived)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no transaction found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching data: %v", err)
		utils.WriteError(w, "error fetching transaction", http.StatusInternalServerError)
		return
	}

	response := struct {
		Status string             `json:"status"`
		Data   models.Transaction `json:"data"`
	}{
		Status: "success",
		Data:   transaction,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO CREATE A TRANSACTION
func CreateTransaction(w http.ResponseWriter, r *http.Request) {
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
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Type        string          `json:"type"`
		CategoryID  int             `json:"category_id"`
		Source      string          `json:"source"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !req.Amount.IsPositive() {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if err := handlers.CheckBlankFields(req); err != nil {
		utils.WriteError(w, "please fill in all required fields", http.StatusBadRequest)
		return
	}
	if err := handlers.ValidateTransactionType(req.Type); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := handlers.ValidateSource(req.Source); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CategoryID != 0 {
		var categoryOwner int
		err := db.QueryRow("SELECT user_id FROM categories WHERE id = ?", req.CategoryID).Scan(&categoryOwner)
		if err != nil {
			utils.WriteError(w, "category not found", http.StatusNotFound)
			return
		}
		if categoryOwner != userID {
			utils.WriteError(w, "unauthorized access", http.StatusForbidden)
			return
		}
	}

	var currency string
	if err := db.QueryRow("SELECT default_currency FROM users WHERE id = ?", userID).Scan(&currency); err != nil {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result, err := services.RecordTransaction(tx, userID, services.TransactionInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Source:      req.Source,
		Currency:    currency,
		Date:        time.Now(),
	})
	if err != nil {
		tx.Rollback()
		switch {
		case errors.Is(err, services.ErrSourceNotFound),
			errors.Is(err, services.ErrInsufficientFunds),
			errors.Is(err, services.ErrNoActiveBudget),
			errors.Is(err, services.ErrNotBudgeted):
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
		default:
			utils.Logger.Errorf("error creating transaction: %v", err)
			utils.WriteError(w, "error creating transaction, please try again", http.StatusInternalServerError)
		}
		return
	}

	if err := tx.Commit(); err != nil {
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "error creating transaction, please try again", http.StatusInternalServerError)
		return
	}

	events.Default.PublishTransactionEvent(r.Context(), "created", result.TransactionID, userID)

	message := "transaction created successfully"
	if result.Message != "" {
		message = result.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "success",
		"message":     message,
		"over_budget": result.OverBudget,
		"data": map[string]interface{}{
			"id":       result.TransactionID,
			"amount":   req.Amount,
			"type":     req.Type,
			"source":   req.Source,
			"currency": currency,
		},
	})
}

// FUNC TO DELETE A TRANSACTION
func DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	transactionID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
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

	var txn models.Transaction
	err = db.QueryRow(`
		SELECT id, user_id, type, amount, description, category_id, currency, source, date
		FROM transactions WHERE id = ?`, transactionID).
		Scan(&txn.ID, &txn.UserID, &txn.Type, &txn.Amount, &txn.Description,
			&txn.CategoryID, &txn.Currency, &txn.Source, &txn.Date)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no transaction found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching transaction: %v", err)
		utils.WriteError(w, "error deleting transaction", http.StatusInternalServerError)
		return
	}

	if txn.UserID != userID {
		utils.WriteError(w, "unauthorized access", http.StatusForbidden)
		return
	}

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := services.ReverseTransaction(tx, userID, txn); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error reversing transaction: %v", err)
		utils.WriteError(w, "error deleting transaction", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "error deleting transaction", http.StatusInternalServerError)
		return
	}

	events.Default.PublishTransactionEvent(r.Context(), "deleted", int64(txn.ID), userID)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "transaction deleted successfully",
	})
}
