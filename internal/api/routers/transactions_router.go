package routers

import (
	"net/http"

	"chikwama_finance/internal/api/handlers/transactions"
)

func transactionsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/transactions", transactions.GetAllUserTransactions)
	mux.HandleFunc("/transactions/create", transactions.CreateTransaction)
	mux.HandleFunc("/transactions/delete/{id}", transactions.DeleteTransaction)
	mux.HandleFunc("/transactions/{id}", transactions.GetTransactionById)

	return mux
}
