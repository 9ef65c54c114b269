package models

type Category struct {
	ID        int    `json:"id,omitempty" db:"id,omitempty"`
	UserID    int    `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name      string `json:"name,omitempty" db:"name,omitempty"`
	Type      string `json:"type,omitempty" db:"type,omitempty"` // income or expense
	IsDefault bool   `json:"is_default" db:"is_default"`
}

// DefaultCategories is the set seeded for every new user at signup.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Type: "income"},
		{Name: "Freelance", Type: "income"},
		{Name: "Investment", Type: "income"},
		{Name: "Business", Type: "income"},
		{Name: "Rental Income", Type: "income"},

		{Name: "Housing", Type: "expense"},
		{Name: "Utilities", Type: "expense"},
		{Name: "Transportation", Type: "expense"},
		{Name: "Food & Groceries", Type: "expense"},
		{Name: "Healthcare", Type: "expense"},
		{Name: "Entertainment", Type: "expense"},
		{Name: "Shopping", Type: "expense"},
		{Name: "Education", Type: "expense"},
		{Name: "Communication", Type: "expense"},
		{Name: "Personal Care", Type: "expense"},
		{Name: "Charity & Gifts", Type: "expense"},
		{Name: "Insurance", Type: "expense"},
		{Name: "Debt Payment", Type: "expense"},
	}
}
