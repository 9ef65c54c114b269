package budgets

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/models"
	"chikwama_finance/internal/services"
	"chikwama_finance/pkg/utils"

	"github.com/shopspring/decimal"
)

// FUNC TO ADD A BUDGET ITEM
func AddBudgetItem(w http.ResponseWriter, r *http.Request) {
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
		BudgetID      int             `json:"budget_id"`
		CategoryID    int             `json:"category_id"`
		PlannedAmount decimal.Decimal `json:"planned_amount"`
		Description   string          `json:"description"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !req.PlannedAmount.IsPositive() {
		utils.WriteError(w, "planned amount must be greater than 0", http.StatusBadRequest)
		return
	}

	var budget models.Budget
	err := db.QueryRow(`
		SELECT id, user_id, total_amount, currency, archived
		FROM budgets WHERE id = ?`, req.BudgetID).
		Scan(&budget.ID, &budget.UserID, &budget.TotalAmount, &budget.Currency, &budget.Archived)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no budget found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error adding budget item", http.StatusInternalServerError)
		return
	}
	if budget.UserID != userID {
		utils.WriteError(w, "unauthorized access", http.StatusForbidden)
		return
	}
	if budget.Archived {
		utils.WriteError(w, "cannot modify an archived budget", http.StatusBadRequest)
		return
	}

	var categoryOwner int
	var categoryType string
	err = db.QueryRow("SELECT user_id, type FROM categories WHERE id = ?", req.CategoryID).
		Scan(&categoryOwner, &categoryType)
	if err != nil {
		utils.WriteError(w, "category not found", http.StatusNotFound)
		return
	}
	if categoryOwner != userID {
		utils.WriteError(w, "unauthorized access", http.StatusForbidden)
		return
	}
	if categoryType != "expense" {
		utils.WriteError(w, "budget items must use an expense category", http.StatusBadRequest)
		return
	}

	var count int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM budget_items
		WHERE budget_id = ? AND category_id = ? AND archived = false`, req.BudgetID, req.CategoryID).Scan(&count)
	if err != nil {
		utils.Logger.Errorf("error checking budget items: %v", err)
		utils.WriteError(w, "error adding budget item", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		utils.WriteError(w, "this category already has a budget item", http.StatusBadRequest)
		return
	}

	err = services.CheckAllocation(db, budget.ID, 0, budget.TotalAmount, req.PlannedAmount, budget.Currency)
	if err != nil {
		if errors.Is(err, services.ErrOverAllocation) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("error checking allocation: %v", err)
		utils.WriteError(w, "error adding budget item", http.StatusInternalServerError)
		return
	}

	res, err := db.Exec(`
		INSERT INTO budget_items (budget_id, category_id, planned_amount, spent_amount, description, archived)
		VALUES (?, ?, ?, ?, ?, false)`,
		req.BudgetID, req.CategoryID, req.PlannedAmount, decimal.Zero, req.Description)
	if err != nil {
		utils.Logger.Errorf("error adding budget item: %v", err)
		utils.WriteError(w, "error adding budget item, please try again", http.StatusInternalServerError)
		return
	}
	itemID, _ := res.LastInsertId()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "budget item added successfully",
		"data": map[string]interface{}{
			"id":             itemID,
			"budget_id":      req.BudgetID,
			"category_id":    req.CategoryID,
			"planned_amount": req.PlannedAmount,
		},
	})
}

func loadOwnedBudgetItem(w http.ResponseWriter, r *http.Request, db *sql.DB, userID int) (*models.BudgetItem, *models.Budget, bool) {
	idStr := r.PathValue("id")
	itemID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid budget item ID", http.StatusBadRequest)
		return nil, nil, false
	}

	var item models.BudgetItem
	err = db.QueryRow(`
		SELECT id, budget_id, category_id, planned_amount, spent_amount, description, archived
		FROM budget_items WHERE id = ?`, itemID).
		Scan(&item.ID, &item.BudgetID, &item.CategoryID, &item.PlannedAmount,
			&item.SpentAmount, &item.Description, &item.Archived)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no budget item found", http.StatusNotFound)
			return nil, nil, false
		}
		utils.Logger.Errorf("error fetching budget item: %v", err)
		utils.WriteError(w, "error fetching budget item", http.StatusInternalServerError)
		return nil, nil, false
	}

	var budget models.Budget
	err = db.QueryRow(`
		SELECT id, user_id, total_amount, currency, archived
		FROM budgets WHERE id = ?`, item.BudgetID).
		Scan(&budget.ID, &budget.UserID, &budget.TotalAmount, &budget.Currency, &budget.Archived)
	if err != nil {
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error fetching budget item", http.StatusInternalServerError)
		return nil, nil, false
	}

	if budget.UserID != userID {
		utils.WriteError(w, "unauthorized access", http.StatusForbidden)
		return nil, nil, false
	}

	return &item, &budget, true
}

// FUNC TO UPDATE A BUDGET ITEM
func UpdateBudgetItem(w http.ResponseWriter, r *http.Request) {
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

	item, budget, ok := loadOwnedBudgetItem(w, r, db, userID)
	if !ok {
		return
	}

	if budget.Archived {
		utils.WriteError(w, "cannot modify an archived budget", http.StatusBadRequest)
		return
	}

	type request struct {
		PlannedAmount decimal.Decimal `json:"planned_amount"`
		CategoryID    int             `json:"category_id"`
		Description   string          `json:"description"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.PlannedAmount.IsNegative() {
		utils.WriteError(w, "planned amount cannot be negative", http.StatusBadRequest)
		return
	}

	// category_id is optional; when present it moves the item to another
	// expense category of the same user
	categoryID := item.CategoryID
	if req.CategoryID != 0 && req.CategoryID != item.CategoryID {
		var categoryOwner int
		var categoryType string
		err := db.QueryRow("SELECT user_id, type FROM categories WHERE id = ?", req.CategoryID).
			Scan(&categoryOwner, &categoryType)
		if err != nil {
			utils.WriteError(w, "category not found", http.StatusNotFound)
			return
		}
		if categoryOwner != userID {
			utils.WriteError(w, "unauthorized access", http.StatusForbidden)
			return
		}
		if categoryType != "expense" {
			utils.WriteError(w, "budget items must use an expense category", http.StatusBadRequest)
			return
		}

		var count int
		err = db.QueryRow(`
			SELECT COUNT(*) FROM budget_items
			WHERE budget_id = ? AND category_id = ? AND archived = false AND id != ?`,
			budget.ID, req.CategoryID, item.ID).Scan(&count)
		if err != nil {
			utils.Logger.Errorf("error checking budget items: %v", err)
			utils.WriteError(w, "error updating budget item", http.StatusInternalServerError)
			return
		}
		if count > 0 {
			utils.WriteError(w, "this category already has a budget item", http.StatusBadRequest)
			return
		}

		categoryID = req.CategoryID
	}

	err := services.CheckAllocation(db, budget.ID, item.ID, budget.TotalAmount, req.PlannedAmount, budget.Currency)
	if err != nil {
		if errors.Is(err, services.ErrOverAllocation) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("error checking allocation: %v", err)
		utils.WriteError(w, "error updating budget item", http.StatusInternalServerError)
		return
	}

	_, err = db.Exec("UPDATE budget_items SET planned_amount = ?, category_id = ?, description = ? WHERE id = ?",
		req.PlannedAmount, categoryID, req.Description, item.ID)
	if err != nil {
		utils.Logger.Errorf("error updating budget item: %v", err)
		utils.WriteError(w, "error updating budget item, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget item updated successfully",
		"data": map[string]interface{}{
			"id":             item.ID,
			"category_id":    categoryID,
			"planned_amount": req.PlannedAmount,
		},
	})
}

// FUNC TO DELETE A BUDGET ITEM
func DeleteBudgetItem(w http.ResponseWriter, r *http.Request) {
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

	item, budget, ok := loadOwnedBudgetItem(w, r, db, userID)
	if !ok {
		return
	}

	if budget.Archived {
		utils.WriteError(w, "cannot modify an archived budget", http.StatusBadRequest)
		return
	}

	if _, err := db.Exec("DELETE FROM budget_items WHERE id = ?", item.ID); err != nil {
		utils.Logger.Errorf("error deleting budget item: %v", err)
		utils.WriteError(w, "error deleting budget item, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget item deleted successfully",
	})
}
