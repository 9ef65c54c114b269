package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"chikwama_finance/internal/repositories/sqlconnect"
	"chikwama_finance/pkg/utils"
)

func setupAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlconnect.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlconnect.DB = db
	t.Cleanup(func() {
		sqlconnect.DB = nil
		db.Close()
	})

	return MainRouter()
}

// authed stands in for the JWT middleware by putting the user id claim on the
// request context the way the middleware does.
func authed(r *http.Request, userID int) *http.Request {
	ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), float64(userID))
	return r.WithContext(ctx)
}

func doJSON(t *testing.T, h http.Handler, method, path string, userID int, body any, wantStatus int) map[string]any {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != 0 {
		req = authed(req, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s = %d, want %d; body: %s", method, path, rec.Code, wantStatus, rec.Body.String())
	}

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response of %s %s: %v", method, path, err)
		}
	}
	return out
}

func signupAndLogin(t *testing.T, h http.Handler) int {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	doJSON(t, h, http.MethodPost, "/users/signup", 0, map[string]any{
		"username": "Chanda",
		"email":    "chanda@example.com",
		"password": "Str0ng!Pass",
	}, http.StatusCreated)

	resp := doJSON(t, h, http.MethodPost, "/users/login", 0, map[string]any{
		"account_id": "chanda",
		"password":   "Str0ng!Pass",
	}, http.StatusOK)

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("login response missing user: %v", resp)
	}
	return int(user["id"].(float64))
}

func expenseCategoryID(t *testing.T, h http.Handler, userID int, name string) int {
	t.Helper()

	resp := doJSON(t, h, http.MethodGet, "/categories/expense", userID, nil, http.StatusOK)
	for _, raw := range resp["data"].([]any) {
		category := raw.(map[string]any)
		if category["name"] == name {
			return int(category["id"].(float64))
		}
	}
	t.Fatalf("no %q category in default set", name)
	return 0
}

func TestSignupSeedsDefaultCategories(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)

	income := doJSON(t, h, http.MethodGet, "/categories/income", userID, nil, http.StatusOK)
	if got := len(income["data"].([]any)); got != 5 {
		t.Errorf("income categories = %d, want 5", got)
	}

	expense := doJSON(t, h, http.MethodGet, "/categories/expense", userID, nil, http.StatusOK)
	if got := len(expense["data"].([]any)); got != 13 {
		t.Errorf("expense categories = %d, want 13", got)
	}
}

func TestSignupRejectsWeakPasswordAndDuplicates(t *testing.T) {
	h := setupAPI(t)

	req := map[string]any{
		"username": "bwalya",
		"email":    "bwalya@example.com",
		"password": "short",
	}
	doJSON(t, h, http.MethodPost, "/users/signup", 0, req, http.StatusBadRequest)

	req["password"] = "Str0ng!Pass"
	doJSON(t, h, http.MethodPost, "/users/signup", 0, req, http.StatusCreated)
	doJSON(t, h, http.MethodPost, "/users/signup", 0, req, http.StatusConflict)
}

func TestTransactionAndBudgetFlow(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)
	categoryID := expenseCategoryID(t, h, userID, "Food & Groceries")

	// no money yet, expense must be refused
	doJSON(t, h, http.MethodPost, "/transactions/create", userID, map[string]any{
		"amount":      "50",
		"description": "groceries",
		"type":        "expense",
		"source":      "bank",
	}, http.StatusBadRequest)

	// every string field is required
	doJSON(t, h, http.MethodPost, "/transactions/create", userID, map[string]any{
		"amount": "1000",
		"type":   "income",
		"source": "bank",
	}, http.StatusBadRequest)

	doJSON(t, h, http.MethodPost, "/transactions/create", userID, map[string]any{
		"amount":      "1000",
		"description": "salary",
		"type":        "income",
		"source":      "bank",
	}, http.StatusCreated)

	resp := doJSON(t, h, http.MethodPost, "/budgets/create", userID, map[string]any{
		"total_amount": "600",
	}, http.StatusCreated)
	budgetID := int(resp["data"].(map[string]any)["id"].(float64))

	// a second budget for the same month is refused
	doJSON(t, h, http.MethodPost, "/budgets/create", userID, map[string]any{
		"total_amount": "900",
	}, http.StatusConflict)

	doJSON(t, h, http.MethodPost, "/budgets/item/add", userID, map[string]any{
		"budget_id":      budgetID,
		"category_id":    categoryID,
		"planned_amount": "400",
	}, http.StatusCreated)

	// over-allocating the remaining 200 is refused with the headroom named
	errResp := doJSON(t, h, http.MethodPost, "/budgets/item/add", userID, map[string]any{
		"budget_id":      budgetID,
		"category_id":    expenseCategoryID(t, h, userID, "Transportation"),
		"planned_amount": "300",
	}, http.StatusBadRequest)
	if msg := errResp["message"].(string); !strings.Contains(msg, "200.00") {
		t.Errorf("over-allocation message = %q, want the 200.00 headroom", msg)
	}

	// categorized spend inside the plan reports remaining headroom
	resp = doJSON(t, h, http.MethodPost, "/transactions/create", userID, map[string]any{
		"amount":      "150",
		"description": "groceries",
		"type":        "expense",
		"category_id": categoryID,
		"source":      "bank",
	}, http.StatusCreated)
	if msg := resp["message"].(string); !strings.Contains(msg, "250.00") {
		t.Errorf("budget message = %q, want remaining 250.00", msg)
	}
	if resp["over_budget"].(bool) {
		t.Error("over_budget should be false")
	}

	current := doJSON(t, h, http.MethodGet, "/budgets/current", userID, nil, http.StatusOK)
	data := current["data"].(map[string]any)
	if spent := data["total_spent"].(string); spent != "150" {
		t.Errorf("total_spent = %q, want 150", spent)
	}
	if remaining := data["total_remaining"].(string); remaining != "450" {
		t.Errorf("total_remaining = %q, want 450", remaining)
	}

	// delete the expense and the ledger rolls back
	transactions := doJSON(t, h, http.MethodGet, "/transactions?sortBy=date&sortOrder=desc", userID, nil, http.StatusOK)
	var expenseID int
	for _, raw := range transactions["data"].([]any) {
		txn := raw.(map[string]any)
		if txn["type"] == "expense" {
			expenseID = int(txn["id"].(float64))
		}
	}
	if expenseID == 0 {
		t.Fatal("expense transaction not listed")
	}
	doJSON(t, h, http.MethodPost, "/transactions/delete/"+itoa(expenseID), userID, nil, http.StatusOK)

	overview := doJSON(t, h, http.MethodGet, "/finance/overview", userID, nil, http.StatusOK)
	balances := overview["data"].(map[string]any)["balances"].([]any)
	if len(balances) != 1 {
		t.Fatalf("balances = %d, want 1", len(balances))
	}
	if amount := balances[0].(map[string]any)["amount"].(string); amount != "1000" {
		t.Errorf("bank balance = %q, want 1000 after reversal", amount)
	}
}

func TestBudgetArchiveAndTemplate(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)
	categoryID := expenseCategoryID(t, h, userID, "Housing")

	resp := doJSON(t, h, http.MethodPost, "/budgets/create", userID, map[string]any{
		"total_amount": "800",
	}, http.StatusCreated)
	budgetID := int(resp["data"].(map[string]any)["id"].(float64))

	// an empty budget cannot be archived
	doJSON(t, h, http.MethodPost, "/budgets/archive/"+itoa(budgetID), userID, nil, http.StatusBadRequest)

	doJSON(t, h, http.MethodPost, "/budgets/item/add", userID, map[string]any{
		"budget_id":      budgetID,
		"category_id":    categoryID,
		"planned_amount": "500",
	}, http.StatusCreated)

	// cannot shrink below the allocation, equal is fine
	doJSON(t, h, http.MethodPost, "/budgets/reset", userID, map[string]any{
		"total_amount": "400",
	}, http.StatusBadRequest)
	doJSON(t, h, http.MethodPost, "/budgets/reset", userID, map[string]any{
		"total_amount": "500",
	}, http.StatusOK)

	doJSON(t, h, http.MethodPost, "/budgets/archive/"+itoa(budgetID), userID, nil, http.StatusOK)

	archived := doJSON(t, h, http.MethodGet, "/budgets/archived", userID, nil, http.StatusOK)
	if count := int(archived["count"].(float64)); count != 1 {
		t.Errorf("archived budgets = %d, want 1", count)
	}

	// the archived budget can seed this month's budget again
	resp = doJSON(t, h, http.MethodPost, "/budgets/use-template/"+itoa(budgetID), userID, nil, http.StatusCreated)
	if items := int(resp["data"].(map[string]any)["items"].(float64)); items != 1 {
		t.Errorf("cloned items = %d, want 1", items)
	}

	current := doJSON(t, h, http.MethodGet, "/budgets/current", userID, nil, http.StatusOK)
	items := current["data"].(map[string]any)["items"].([]any)
	if spent := items[0].(map[string]any)["spent_amount"].(string); spent != "0" {
		t.Errorf("cloned spent = %q, want 0", spent)
	}
}

func TestBudgetItemCategoryChange(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)
	housingID := expenseCategoryID(t, h, userID, "Housing")
	transportID := expenseCategoryID(t, h, userID, "Transportation")

	resp := doJSON(t, h, http.MethodPost, "/budgets/create", userID, map[string]any{
		"total_amount": "600",
	}, http.StatusCreated)
	budgetID := int(resp["data"].(map[string]any)["id"].(float64))

	resp = doJSON(t, h, http.MethodPost, "/budgets/item/add", userID, map[string]any{
		"budget_id":      budgetID,
		"category_id":    housingID,
		"planned_amount": "400",
	}, http.StatusCreated)
	itemID := int(resp["data"].(map[string]any)["id"].(float64))

	resp = doJSON(t, h, http.MethodPost, "/budgets/item/update/"+itoa(itemID), userID, map[string]any{
		"planned_amount": "400",
		"category_id":    transportID,
	}, http.StatusOK)
	if got := int(resp["data"].(map[string]any)["category_id"].(float64)); got != transportID {
		t.Errorf("category_id = %d, want %d", got, transportID)
	}

	current := doJSON(t, h, http.MethodGet, "/budgets/current", userID, nil, http.StatusOK)
	items := current["data"].(map[string]any)["items"].([]any)
	if name := items[0].(map[string]any)["category_name"].(string); name != "Transportation" {
		t.Errorf("category_name = %q, want Transportation", name)
	}

	// a second item cannot be moved onto an occupied category
	resp = doJSON(t, h, http.MethodPost, "/budgets/item/add", userID, map[string]any{
		"budget_id":      budgetID,
		"category_id":    housingID,
		"planned_amount": "100",
	}, http.StatusCreated)
	otherID := int(resp["data"].(map[string]any)["id"].(float64))
	doJSON(t, h, http.MethodPost, "/budgets/item/update/"+itoa(otherID), userID, map[string]any{
		"planned_amount": "100",
		"category_id":    transportID,
	}, http.StatusBadRequest)
}

func TestOwnershipIsEnforced(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)

	doJSON(t, h, http.MethodPost, "/users/signup", 0, map[string]any{
		"username": "intruder",
		"email":    "intruder@example.com",
		"password": "Str0ng!Pass",
	}, http.StatusCreated)
	intruderID := userID + 1

	resp := doJSON(t, h, http.MethodPost, "/budgets/create", userID, map[string]any{
		"total_amount": "500",
	}, http.StatusCreated)
	budgetID := int(resp["data"].(map[string]any)["id"].(float64))

	doJSON(t, h, http.MethodPost, "/budgets/delete/"+itoa(budgetID), intruderID, nil, http.StatusForbidden)
}

func TestInvestmentLifecycle(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)

	resp := doJSON(t, h, http.MethodPost, "/finance/investment/add", userID, map[string]any{
		"type":          "tbills",
		"initial_value": "5000",
	}, http.StatusCreated)
	investmentID := int(resp["data"].(map[string]any)["id"].(float64))

	doJSON(t, h, http.MethodPost, "/finance/investment/update/"+itoa(investmentID), userID, map[string]any{
		"current_value": "5400",
	}, http.StatusOK)

	overview := doJSON(t, h, http.MethodGet, "/finance/overview", userID, nil, http.StatusOK)
	data := overview["data"].(map[string]any)
	if got := data["invested_current"].(string); got != "5400" {
		t.Errorf("invested_current = %q, want 5400", got)
	}
	if got := data["invested_initial"].(string); got != "5000" {
		t.Errorf("invested_initial = %q, want 5000", got)
	}

	doJSON(t, h, http.MethodPost, "/finance/investment/delete/"+itoa(investmentID), userID, nil, http.StatusOK)

	overview = doJSON(t, h, http.MethodGet, "/finance/overview", userID, nil, http.StatusOK)
	if investments := overview["data"].(map[string]any)["investments"].([]any); len(investments) != 0 {
		t.Errorf("investments = %d, want 0", len(investments))
	}
}

func TestExportTransactionsCSV(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)

	doJSON(t, h, http.MethodPost, "/transactions/create", userID, map[string]any{
		"amount":      "1000",
		"description": "salary",
		"type":        "income",
		"source":      "bank",
	}, http.StatusCreated)

	req := authed(httptest.NewRequest(http.MethodGet, "/export/transactions", nil), userID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Error("csv should start with a UTF-8 BOM")
	}
	if !strings.Contains(body, "Date,Type,Amount,Currency,Description,Category,Source") {
		t.Error("csv header missing")
	}
	if !strings.Contains(body, "N/A") {
		t.Error("uncategorized rows should export category N/A")
	}
	if disposition := rec.Header().Get("Content-Disposition"); !strings.Contains(disposition, "attachment") {
		t.Errorf("Content-Disposition = %q, want an attachment", disposition)
	}
}

func TestExportBudgetsCSV(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)
	categoryID := expenseCategoryID(t, h, userID, "Utilities")

	resp := doJSON(t, h, http.MethodPost, "/budgets/create", userID, map[string]any{
		"total_amount": "600",
	}, http.StatusCreated)
	budgetID := int(resp["data"].(map[string]any)["id"].(float64))
	doJSON(t, h, http.MethodPost, "/budgets/item/add", userID, map[string]any{
		"budget_id":      budgetID,
		"category_id":    categoryID,
		"planned_amount": "200",
	}, http.StatusCreated)

	req := authed(httptest.NewRequest(http.MethodGet, "/export/budgets", nil), userID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Error("csv should start with a UTF-8 BOM")
	}
	if !strings.Contains(body, "Budget Month,Total Amount,Currency,Created At,Updated At,Status") {
		t.Error("summary header missing")
	}
	if !strings.Contains(body, "Category,Planned Amount,Spent Amount,Description") {
		t.Error("item header missing")
	}
	if !strings.Contains(body, "Active") {
		t.Error("budget status missing")
	}
	if !strings.Contains(body, "Utilities,200.00,0.00,N/A") {
		t.Error("item row with N/A description missing")
	}
}

func TestDashboard(t *testing.T) {
	h := setupAPI(t)
	userID := signupAndLogin(t, h)

	doJSON(t, h, http.MethodPost, "/transactions/create", userID, map[string]any{
		"amount":      "1000",
		"description": "salary",
		"type":        "income",
		"source":      "mobile_money",
	}, http.StatusCreated)

	dash := doJSON(t, h, http.MethodGet, "/dashboard", userID, nil, http.StatusOK)
	data := dash["data"].(map[string]any)

	if data["budget"] != nil {
		t.Error("budget should be null with none created")
	}
	if recent := data["recent_transactions"].([]any); len(recent) != 1 {
		t.Errorf("recent transactions = %d, want 1", len(recent))
	}
	if balances := data["balances"].([]any); len(balances) != 1 {
		t.Errorf("balances = %d, want 1", len(balances))
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
