package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.Contains(hashed, ".") {
		t.Fatalf("encoded hash should be salt.hash, got %q", hashed)
	}

	if err := VerifyPassword("Str0ng!Pass", hashed); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := VerifyPassword("Wr0ng!Pass", hashed); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should not match")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"strong", "Str0ng!Pass", false},
		{"too short", "S0r!t", true},
		{"no upper", "str0ng!pass", true},
		{"no lower", "STR0NG!PASS", true},
		{"no digit", "Strong!Pass", true},
		{"no special", "Str0ngPass1", true},
		{"common pattern", "Password1!x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr && err == nil {
				t.Errorf("ValidatePassword(%q) = nil, want error", tt.password)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidatePassword(%q) = %v, want nil", tt.password, err)
			}
		})
	}
}
