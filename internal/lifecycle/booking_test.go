package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/plotvista/plotvista/internal/lifecycle"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"98765-43210", "9876543210"},
		{"(987) 654-3210", "9876543210"},
		{"98 76 54 32 10", "9876543210"},
		{"abc", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := lifecycle.NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"9876543210", "123-456-7890", "(123) 456-7890"}
	for _, p := range valid {
		if !lifecycle.ValidatePhone(p) {
			t.Errorf("Expected %q to be valid", p)
		}
	}

	invalid := []string{"12345", "98765432101", "", "abcdefghij"}
	for _, p := range invalid {
		if lifecycle.ValidatePhone(p) {
			t.Errorf("Expected %q to be invalid", p)
		}
	}
}

func TestNewBookingRecordValidation(t *testing.T) {
	now := time.Now()

	if _, err := lifecycle.NewBookingRecord("", "9876543210", now); !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("Expected ErrValidation for empty name, got %v", err)
	}
	if _, err := lifecycle.NewBookingRecord("   ", "9876543210", now); !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("Expected ErrValidation for blank name, got %v", err)
	}
	if _, err := lifecycle.NewBookingRecord("Asha Rao", "12345", now); !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("Expected ErrValidation for short phone, got %v", err)
	}

	rec, err := lifecycle.NewBookingRecord("  Asha Rao  ", "98765-43210", now)
	if err != nil {
		t.Fatalf("Expected valid record, got %v", err)
	}
	if rec.Name != "Asha Rao" {
		t.Errorf("Expected trimmed name, got %q", rec.Name)
	}
}
