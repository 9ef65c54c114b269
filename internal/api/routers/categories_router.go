package routers

import (
	"net/http"

	"chikwama_finance/internal/api/handlers/categories"
)

func categoriesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/categories", categories.GetAllCategories)
	mux.HandleFunc("/categories/add", categories.AddCategory)
	mux.HandleFunc("/categories/delete/{id}", categories.DeleteCategory)
	mux.HandleFunc("/categories/{type}", categories.GetCategoriesByType)

	return mux
}
