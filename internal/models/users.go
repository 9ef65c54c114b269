package models

type User struct {
	ID                   int    `json:"id,omitempty" db:"id,omitempty"`
	Username             string `json:"username,omitempty" db:"username,omitempty"`
	Email                string `json:"email,omitempty" db:"email,omitempty"`
	Password             string `json:"password,omitempty" db:"password,omitempty"`
	DefaultCurrency      string `json:"default_currency,omitempty" db:"default_currency,omitempty"`
	PasswordResetToken   string `json:"-" db:"password_reset_token,omitempty"`
	PasswordTokenExpires string `json:"-" db:"password_token_expires,omitempty"`
	PasswordChangedAt    string `json:"-" db:"password_changed_at,omitempty"`
	CreatedAt            string `json:"created_at,omitempty" db:"created_at,omitempty"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
