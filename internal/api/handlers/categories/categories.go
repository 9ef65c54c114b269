package categories

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"chikwama_finance/internal/api/handlers"
	"chikwama_finance/internal/models"
	"chikwama_finance/pkg/utils"
)

// FUNC TO GET ALL CATEGORIES FOR A USER
func GetAllCategories(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.Query("SELECT id, name, type, is_default FROM categories WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		utils.Logger.Errorf("error fetching categories: %v", err)
		utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Type, &category.IsDefault); err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
			return
		}
		categories = append(categories, category)
	}

	response := struct {
		Status string            `json:"status"`
		Data   []models.Category `json:"data"`
	}{
		Status: "success",
		Data:   categories,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO GET CATEGORIES BY TYPE
func GetCategoriesByType(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	categoryType := r.PathValue("type")
	if categoryType != "income" && categoryType != "expense" {
		utils.WriteError(w, "type must be income or expense", http.StatusBadRequest)
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

	rows, err := db.Query("SELECT id, name, type, is_default FROM categories WHERE user_id = ? AND type = ? ORDER BY name", userID, categoryType)
	if err != nil {
		utils.Logger.Errorf("error fetching categories: %v", err)
		utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Type, &category.IsDefault); err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
			return
		}
		categories = append(categories, category)
	}

	response := struct {
		Status string            `json:"status"`
		Data   []models.Category `json:"data"`
	}{
		Status: "success",
		Data:   categories,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO ADD A CATEGORY
func AddCategory(w http.ResponseWriter, r *http.Request) {
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
		Name string `json:"name"`
		Type string `json:"type"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.ToLower(req.Type)

	if req.Name == "" {
		utils.WriteError(w, "invalid category details provided", http.StatusBadRequest)
		return
	}
	if err := handlers.ValidateTransactionType(req.Type); err != nil {
		utils.WriteError(w, "invalid category details provided", http.StatusBadRequest)
		return
	}

	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM categories WHERE user_id = ? AND name = ? AND type = ?", userID, req.Name, req.Type).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("error checking category: %v", err)
		utils.WriteError(w, "error adding category", http.StatusInternalServerError)
		return
	}
	if exists > 0 {
		utils.WriteError(w, "a "+req.Type+" category with this name already exists", http.StatusConflict)
		return
	}

	res, err := db.Exec("INSERT INTO categories (user_id, name, type, is_default) VALUES (?, ?, ?, false)", userID, req.Name, req.Type)
	if err != nil {
		utils.Logger.Errorf("error adding category: %v", err)
		utils.WriteError(w, "error adding category", http.StatusInternalServerError)
		return
	}

	id, _ := res.LastInsertId()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "category added successfully",
		"data": models.Category{
			ID:     int(id),
			UserID: userID,
			Name:   req.Name,
			Type:   req.Type,
		},
	})
}

// FUNC TO DELETE A CATEGORY
func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	categoryID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid category ID", http.StatusBadRequest)
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

	var ownerID int
	var isDefault bool
	err = db.QueryRow("SELECT user_id, is_default FROM categories WHERE id = ?", categoryID).Scan(&ownerID, &isDefault)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "category not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching category: %v", err)
		utils.WriteError(w, "error deleting category", http.StatusInternalServerError)
		return
	}

	if ownerID != userID {
		utils.WriteError(w, "unauthorized access", http.StatusForbidden)
		return
	}

	if isDefault {
		utils.WriteError(w, "cannot delete default categories", http.StatusBadRequest)
		return
	}

	var inUse int
	err = db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM transactions WHERE category_id = ?)
		     + (SELECT COUNT(*) FROM budget_items WHERE category_id = ?)`,
		categoryID, categoryID).Scan(&inUse)
	if err != nil {
		utils.Logger.Errorf("error checking category usage: %v", err)
		utils.WriteError(w, "error deleting category", http.StatusInternalServerError)
		return
	}
	if inUse > 0 {
		utils.WriteError(w, "cannot delete category that is in use, remove all transactions and budget items first", http.StatusBadRequest)
		return
	}

	if _, err := db.Exec("DELETE FROM categories WHERE id = ?", categoryID); err != nil {
		utils.Logger.Errorf("error deleting category: %v", err)
		utils.WriteError(w, "error deleting category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "category deleted successfully",
	})
}
