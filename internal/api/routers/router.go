package routers

import (
	"net/http"

	"chikwama_finance/internal/api/handlers/dashboard"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	cRouter := categoriesRouter()
	mux.Handle("/categories/", cRouter)
	mux.Handle("/categories", cRouter)

	tRouter := transactionsRouter()
	mux.Handle("/transactions/", tRouter)
	mux.Handle("/transactions", tRouter)

	bRouter := budgetsRouter()
	mux.Handle("/budgets/", bRouter)

	fRouter := financeRouter()
	mux.Handle("/finance/", fRouter)

	eRouter := exportsRouter()
	mux.Handle("/export/", eRouter)

	mux.HandleFunc("/dashboard", dashboard.GetDashboard)

	return mux
}
