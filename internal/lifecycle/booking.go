package lifecycle

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// BookingRecord is a single customer's expression of interest in a plot.
// Records are immutable once created; edits replace the record wholesale.
type BookingRecord struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	BookingDate time.Time `json:"bookingDate"`
}

// NewBookingRecord validates name and phone and builds a record.
func NewBookingRecord(name, phone string, bookingDate time.Time) (BookingRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return BookingRecord{}, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if !ValidatePhone(phone) {
		return BookingRecord{}, fmt.Errorf("%w: phone number must contain exactly 10 digits", ErrValidation)
	}
	return BookingRecord{Name: name, Phone: phone, BookingDate: bookingDate}, nil
}

// NormalizePhone strips every non-digit character. All phone comparisons
// in the engine run over normalized values.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone reports whether the phone normalizes to exactly 10 digits.
func ValidatePhone(phone string) bool {
	return len(NormalizePhone(phone)) == 10
}

// samePhone compares two phone strings after normalization.
func samePhone(a, b string) bool {
	return NormalizePhone(a) == NormalizePhone(b)
}
