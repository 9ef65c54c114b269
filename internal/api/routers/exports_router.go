package routers

import (
	"net/http"

	"chikwama_finance/internal/api/handlers/exports"
)

func exportsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/export/transactions", exports.ExportTransactions)
	mux.HandleFunc("/export/budgets", exports.ExportBudgets)

	return mux
}
