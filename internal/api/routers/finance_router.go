package routers

import (
	"net/http"

	"chikwama_finance/internal/api/handlers/finance"
)

func financeRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/finance/overview", finance.FinanceOverview)
	mux.HandleFunc("/finance/savings/update", finance.UpdateSavings)
	mux.HandleFunc("/finance/investment/add", finance.AddInvestment)
	mux.HandleFunc("/finance/investment/update/{id}", finance.UpdateInvestmentValue)
	mux.HandleFunc("/finance/investment/edit/{id}", finance.EditInvestment)
	mux.HandleFunc("/finance/investment/delete/{id}", finance.DeleteInvestment)

	return mux
}
