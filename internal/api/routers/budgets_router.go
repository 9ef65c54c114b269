package routers

import (
	"net/http"

	"chikwama_finance/internal/api/handlers/budgets"
)

func budgetsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/budgets/current", budgets.CurrentBudget)
	mux.HandleFunc("/budgets/archived", budgets.ArchivedBudgets)
	mux.HandleFunc("/budgets/create", budgets.CreateBudget)
	mux.HandleFunc("/budgets/increase", budgets.IncreaseBudget)
	mux.HandleFunc("/budgets/reset", budgets.ResetBudget)
	mux.HandleFunc("/budgets/archive/{id}", budgets.ArchiveBudget)
	mux.HandleFunc("/budgets/delete/{id}", budgets.DeleteBudget)
	mux.HandleFunc("/budgets/use-template/{id}", budgets.UseBudgetTemplate)

	mux.HandleFunc("/budgets/item/add", budgets.AddBudgetItem)
	mux.HandleFunc("/budgets/item/update/{id}", budgets.UpdateBudgetItem)
	mux.HandleFunc("/budgets/item/delete/{id}", budgets.DeleteBudgetItem)

	return mux
}
