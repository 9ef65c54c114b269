package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCheckAllocationHeadroom(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db)
	categoryID := seedCategory(t, db, userID, "Housing", "expense")
	budgetID := seedBudget(t, db, userID, MonthStart(time.Now()), "1000")
	seedBudgetItem(t, db, budgetID, categoryID, "600")

	err := CheckAllocation(db, budgetID, 0, mustDecimal(t, "1000"), mustDecimal(t, "500"), "ZMW")
	if !errors.Is(err, ErrOverAllocation) {
		t.Fatalf("err = %v, want ErrOverAllocation", err)
	}
	if !strings.Contains(err.Error(), "400.00") {
		t.Errorf("error should report the 400.00 headroom, got %q", err)
	}

	if err := CheckAllocation(db, budgetID, 0, mustDecimal(t, "1000"), mustDecimal(t, "400"), "ZMW"); err != nil {
		t.Errorf("allocating exactly the headroom should pass, got %v", err)
	}
}

func TestCheckAllocationExcludesEditedItem(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db)
	categoryID := seedCategory(t, db, userID, "Utilities", "expense")
	budgetID := seedBudget(t, db, userID, MonthStart(time.Now()), "1000")
	itemID := seedBudgetItem(t, db, budgetID, categoryID, "600")

	// the item's own planned amount must not count against its edit
	if err := CheckAllocation(db, budgetID, itemID, mustDecimal(t, "1000"), mustDecimal(t, "1000"), "ZMW"); err != nil {
		t.Errorf("editing the only item up to the total should pass, got %v", err)
	}

	err := CheckAllocation(db, budgetID, itemID, mustDecimal(t, "1000"), mustDecimal(t, "1001"), "ZMW")
	if !errors.Is(err, ErrOverAllocation) {
		t.Errorf("err = %v, want ErrOverAllocation", err)
	}
}

func TestCheckReset(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db)
	categoryID := seedCategory(t, db, userID, "Education", "expense")
	budgetID := seedBudget(t, db, userID, MonthStart(time.Now()), "1000")
	seedBudgetItem(t, db, budgetID, categoryID, "600")

	err := CheckReset(db, budgetID, mustDecimal(t, "500"), "ZMW")
	if !errors.Is(err, ErrBelowAllocation) {
		t.Fatalf("err = %v, want ErrBelowAllocation", err)
	}

	if err := CheckReset(db, budgetID, mustDecimal(t, "600"), "ZMW"); err != nil {
		t.Errorf("reset to the planned total should pass, got %v", err)
	}
	if err := CheckReset(db, budgetID, mustDecimal(t, "800"), "ZMW"); err != nil {
		t.Errorf("reset above the planned total should pass, got %v", err)
	}
}

func TestPlannedAndSpentTotals(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db)
	foodID := seedCategory(t, db, userID, "Food & Groceries", "expense")
	rentID := seedCategory(t, db, userID, "Housing", "expense")
	budgetID := seedBudget(t, db, userID, MonthStart(time.Now()), "1000")
	seedBudgetItem(t, db, budgetID, foodID, "250.25")
	seedBudgetItem(t, db, budgetID, rentID, "400")

	planned, err := PlannedTotal(db, budgetID, 0)
	if err != nil {
		t.Fatalf("planned total: %v", err)
	}
	if !planned.Equal(mustDecimal(t, "650.25")) {
		t.Errorf("planned = %s, want 650.25", planned)
	}

	spent, err := SpentTotal(db, budgetID)
	if err != nil {
		t.Fatalf("spent total: %v", err)
	}
	if !spent.IsZero() {
		t.Errorf("spent = %s, want 0", spent)
	}
}
