package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"reflect"

	"chikwama_finance/internal/models"
	"chikwama_finance/internal/repositories/sqlconnect"
	"chikwama_finance/pkg/utils"
)

func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.String && field.String() == "" {
			return utils.ErrorHandler(errors.New("all fields are required"), "all fields are required")
		}
	}
	return nil
}

// RequireDB returns the shared database handle, answering 500 when the
// connection was never initialized.
func RequireDB(w http.ResponseWriter) (*sql.DB, bool) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return db, true
}

// RequireUserID extracts the authenticated user's id placed on the context by
// the JWT middleware, answering 401 when it is absent.
func RequireUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return int(idFloat), true
}

func ValidateTransactionType(t string) error {
	if t != "income" && t != "expense" {
		return errors.New("type must be income or expense")
	}
	return nil
}

func ValidateSource(source string) error {
	if !models.ValidSources[source] {
		return errors.New("source must be bank, mobile_money or cash")
	}
	return nil
}

func ValidateCurrency(code string) error {
	if !models.IsSupportedCurrency(code) {
		return errors.New("unsupported currency code")
	}
	return nil
}
