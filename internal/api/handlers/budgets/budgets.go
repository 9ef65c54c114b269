package budgets

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/models"
	"chikwama_finance/internal/services"
	"chikwama_finance/pkg/utils"

	"github.com/shopspring/decimal"
)

func currentBudgetRow(db *sql.DB, userID int) (*models.Budget, error) {
	month := services.MonthStart(time.Now())
	var budget models.Budget
	err := db.QueryRow(`
		SELECT id, user_id, month, total_amount, currency, archived
		FROM budgets WHERE user_id = ? AND month = ? AND archived = false`, userID, month).
		Scan(&budget.ID, &budget.UserID, &budget.Month, &budget.TotalAmount, &budget.Currency, &budget.Archived)
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func budgetItems(q services.Querier, budgetID int) ([]models.BudgetItem, error) {
	rows, err := q.Query(`
		SELECT bi.id, bi.budget_id, bi.category_id, bi.planned_amount, bi.spent_amount,
		       bi.description, bi.archived, c.name
		FROM budget_items bi
		JOIN categories c ON c.id = bi.category_id
		WHERE bi.budget_id = ? AND bi.archived = false
		ORDER BY bi.id`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.BudgetItem{}
	for rows.Next() {
		var item models.BudgetItem
		err = rows.Scan(&item.ID, &item.BudgetID, &item.CategoryID, &item.PlannedAmount,
			&item.SpentAmount, &item.Description, &item.Archived, &item.CategoryName)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FUNC TO GET THE CURRENT MONTH BUDGET WITH ITS ITEMS
func CurrentBudget(w http.ResponseWriter, r *http.Request) {
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

	budget, err := currentBudgetRow(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no budget set for this month", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error fetching budget", http.StatusInternalServerError)
		return
	}

	items, err := budgetItems(db, budget.ID)
	if err != nil {
		utils.Logger.Errorf("error fetching budget items: %v", err)
		utils.WriteError(w, "error fetching budget", http.StatusInternalServerError)
		return
	}

	planned := decimal.Zero
	spent := decimal.Zero
	for _, item := range items {
		planned = planned.Add(item.PlannedAmount)
		spent = spent.Add(item.SpentAmount)
	}

	response := struct {
		Status string `json:"status"`
		Data   struct {
			Budget       models.Budget       `json:"budget"`
			Items        []models.BudgetItem `json:"items"`
			TotalPlanned decimal.Decimal     `json:"total_planned"`
			TotalSpent   decimal.Decimal     `json:"total_spent"`
			Remaining    decimal.Decimal     `json:"total_remaining"`
			Unallocated  decimal.Decimal     `json:"available_for_budget"`
		} `json:"data"`
	}{Status: "success"}
	response.Data.Budget = *budget
	response.Data.Items = items
	response.Data.TotalPlanned = planned
	response.Data.TotalSpent = spent
	response.Data.Remaining = budget.TotalAmount.Sub(spent)
	response.Data.Unallocated = budget.TotalAmount.Sub(planned)

	utils.WriteJSON(w, response)
}

// FUNC TO GET ARCHIVED BUDGETS
func ArchivedBudgets(w http.ResponseWriter, r *http.Request) {
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
		SELECT id, user_id, month, total_amount, currency, archived
		FROM budgets WHERE user_id = ? AND archived = true
		ORDER BY month DESC`, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching budgets: %v", err)
		utils.WriteError(w, "error fetching budgets", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var budget models.Budget
		err = rows.Scan(&budget.ID, &budget.UserID, &budget.Month, &budget.TotalAmount, &budget.Currency, &budget.Archived)
		if err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error fetching budgets", http.StatusInternalServerError)
			return
		}
		budgets = append(budgets, budget)
	}

	response := struct {
		Status string          `json:"status"`
		Count  int             `json:"count"`
		Data   []models.Budget `json:"data"`
	}{
		Status: "success",
		Count:  len(budgets),
		Data:   budgets,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO CREATE A BUDGET FOR THE CURRENT MONTH
func CreateBudget(w http.ResponseWriter, r *http.Request) {
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
		TotalAmount decimal.Decimal `json:"total_amount"`
		Currency    string          `json:"currency"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !req.TotalAmount.IsPositive() {
		utils.WriteError(w, "total amount must be greater than 0", http.StatusBadRequest)
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

	month := services.MonthStart(time.Now())

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM budgets WHERE user_id = ? AND month = ? AND archived = false",
		userID, month).Scan(&count)
	if err != nil {
		utils.Logger.Errorf("error checking budget: %v", err)
		utils.WriteError(w, "error creating budget", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		utils.WriteError(w, "a budget already exists for this month", http.StatusConflict)
		return
	}

	res, err := db.Exec(`
		INSERT INTO budgets (user_id, month, total_amount, currency, archived)
		VALUES (?, ?, ?, ?, false)`, userID, month, req.TotalAmount, req.Currency)
	if err != nil {
		utils.Logger.Errorf("error creating budget: %v", err)
		utils.WriteError(w, "error creating budget, please try again", http.StatusInternalServerError)
		return
	}
	budgetID, _ := res.LastInsertId()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "budget created successfully",
		"data": map[string]interface{}{
			"id":           budgetID,
			"month":        month,
			"total_amount": req.TotalAmount,
			"currency":     req.Currency,
		},
	})
}

// FUNC TO INCREASE THE CURRENT BUDGET TOTAL
func IncreaseBudget(w http.ResponseWriter, r *http.Request) {
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
		Amount decimal.Decimal `json:"amount"`
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

	budget, err := currentBudgetRow(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no budget set for this month", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error updating budget", http.StatusInternalServerError)
		return
	}

	newTotal := budget.TotalAmount.Add(req.Amount)
	_, err = db.Exec("UPDATE budgets SET total_amount = ? WHERE id = ?", newTotal, budget.ID)
	if err != nil {
		utils.Logger.Errorf("error updating budget: %v", err)
		utils.WriteError(w, "error updating budget, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget increased successfully",
		"data": map[string]interface{}{
			"id":           budget.ID,
			"total_amount": newTotal,
		},
	})
}

// FUNC TO RESET THE CURRENT BUDGET TOTAL
func ResetBudget(w http.ResponseWriter, r *http.Request) {
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
		TotalAmount decimal.Decimal `json:"total_amount"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !req.TotalAmount.IsPositive() {
		utils.WriteError(w, "total amount must be greater than 0", http.StatusBadRequest)
		return
	}

	budget, err := currentBudgetRow(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no budget set for this month", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error updating budget", http.StatusInternalServerError)
		return
	}

	if err := services.CheckReset(db, budget.ID, req.TotalAmount, budget.Currency); err != nil {
		if errors.Is(err, services.ErrBelowAllocation) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("error checking budget reset: %v", err)
		utils.WriteError(w, "error updating budget", http.StatusInternalServerError)
		return
	}

	_, err = db.Exec("UPDATE budgets SET total_amount = ? WHERE id = ?", req.TotalAmount, budget.ID)
	if err != nil {
		utils.Logger.Errorf("error updating budget: %v", err)
		utils.WriteError(w, "error updating budget, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget reset successfully",
		"data": map[string]interface{}{
			"id":           budget.ID,
			"total_amount": req.TotalAmount,
		},
	})
}

func loadOwnedBudget(w http.ResponseWriter, r *http.Request, db *sql.DB, userID int) (*models.Budget, bool) {
	idStr := r.PathValue("id")
	budgetID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid budget ID", http.StatusBadRequest)
		return nil, false
	}

	var budget models.Budget
	err = db.QueryRow(`
		SELECT id, user_id, month, total_amount, currency, archived
		FROM budgets WHERE id = ?`, budgetID).
		Scan(&budget.ID, &budget.UserID, &budget.Month, &budget.TotalAmount, &budget.Currency, &budget.Archived)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no budget found", http.StatusNotFound)
			return nil, false
		}
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error fetching budget", http.StatusInternalServerError)
		return nil, false
	}

	if budget.UserID != userID {
		utils.WriteError(w, "unauthorized access", http.StatusForbidden)
		return nil, false
	}

	return &budget, true
}

// FUNC TO ARCHIVE A BUDGET
func ArchiveBudget(w http.ResponseWriter, r *http.Request) {
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

	budget, ok := loadOwnedBudget(w, r, db, userID)
	if !ok {
		return
	}

	if budget.Archived {
		utils.WriteError(w, "budget is already archived", http.StatusBadRequest)
		return
	}

	var itemCount int
	err := db.QueryRow("SELECT COUNT(*) FROM budget_items WHERE budget_id = ?", budget.ID).Scan(&itemCount)
	if err != nil {
		utils.Logger.Errorf("error checking budget items: %v", err)
		utils.WriteError(w, "error archiving budget", http.StatusInternalServerError)
		return
	}
	if itemCount == 0 {
		utils.WriteError(w, "cannot archive a budget with no items", http.StatusBadRequest)
		return
	}

	_, err = db.Exec("UPDATE budgets SET archived = true WHERE id = ?", budget.ID)
	if err != nil {
		utils.Logger.Errorf("error archiving budget: %v", err)
		utils.WriteError(w, "error archiving budget, please try again", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget archived successfully",
	})
}

// FUNC TO DELETE A BUDGET AND ITS ITEMS
func DeleteBudget(w http.ResponseWriter, r *http.Request) {
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

	budget, ok := loadOwnedBudget(w, r, db, userID)
	if !ok {
		return
	}

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := tx.Exec("DELETE FROM budget_items WHERE budget_id = ?", budget.ID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error deleting budget items: %v", err)
		utils.WriteError(w, "error deleting budget", http.StatusInternalServerError)
		return
	}

	if _, err := tx.Exec("DELETE FROM budgets WHERE id = ?", budget.ID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error deleting budget: %v", err)
		utils.WriteError(w, "error deleting budget", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "error deleting budget", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget deleted successfully",
	})
}

// FUNC TO CLONE AN OLD BUDGET INTO THE CURRENT MONTH
func UseBudgetTemplate(w http.ResponseWriter, r *http.Request) {
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

	template, ok := loadOwnedBudget(w, r, db, userID)
	if !ok {
		return
	}

	month := services.MonthStart(time.Now())

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM budgets WHERE user_id = ? AND month = ? AND archived = false",
		userID, month).Scan(&count)
	if err != nil {
		utils.Logger.Errorf("error checking budget: %v", err)
		utils.WriteError(w, "error creating budget", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		utils.WriteError(w, "a budget already exists for this month", http.StatusConflict)
		return
	}

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res, err := tx.Exec(`
		INSERT INTO budgets (user_id, month, total_amount, currency, archived)
		VALUES (?, ?, ?, ?, false)`, userID, month, template.TotalAmount, template.Currency)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error creating budget: %v", err)
		utils.WriteError(w, "error creating budget, please try again", http.StatusInternalServerError)
		return
	}
	newBudgetID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error creating budget: %v", err)
		utils.WriteError(w, "error creating budget, please try again", http.StatusInternalServerError)
		return
	}

	items, err := budgetItems(tx, template.ID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error fetching budget items: %v", err)
		utils.WriteError(w, "error creating budget", http.StatusInternalServerError)
		return
	}

	stmt, err := tx.Prepare(`
		INSERT INTO budget_items (budget_id, category_id, planned_amount, spent_amount, description, archived)
		VALUES (?, ?, ?, ?, ?, false)`)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error preparing statement: %v", err)
		utils.WriteError(w, "error creating budget", http.StatusInternalServerError)
		return
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(newBudgetID, item.CategoryID, item.PlannedAmount, decimal.Zero, item.Description); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("error copying budget item: %v", err)
			utils.WriteError(w, "error creating budget", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "error creating budget", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "budget created from template successfully",
		"data": map[string]interface{}{
			"id":           newBudgetID,
			"month":        month,
			"total_amount": template.TotalAmount,
			"currency":     template.Currency,
			"items":        len(items),
		},
	})
}
