package auth

import (
	"strings"
	"testing"
)

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("franchise-reviews-2024")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash %q is not a bcrypt hash", hash)
	}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"matching password", "franchise-reviews-2024", false},
		{"wrong password", "franchise-reviews-2025", true},
		{"empty attempt", "", true},
		{"hash is not the password", hash, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(hash, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashPassword_SaltsEachHash(t *testing.T) {
	first, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password should differ by salt")
	}
	if err := CheckPassword(second, "same-input"); err != nil {
		t.Errorf("second hash should still verify: %v", err)
	}
}
