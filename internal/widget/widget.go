// =============================================================================
// Transaction Widget - Display Formatting Module
// =============================================================================
//
// This module formats transaction fields for display: masked card and
// account numbers, and dates in DD.MM.YYYY form.
//
// MASKING:
//   "Visa Platinum 7000792289606361"  -> "Visa Platinum 7000 79 ** **** 6361"
//   "Счет 73654108430135874305"       -> "Счет ** 4305"
//
// The masking helpers never return more than the first six and last four
// digits of a card, or the last four digits of an account.
//
// =============================================================================

package widget

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Errors returned by MaskAccountCard and FormatDate.
var (
	// ErrInvalidFormat means the value has no "<type> <number>" split.
	ErrInvalidFormat = errors.New("expected \"<type> <number>\"")

	// ErrNotDigits means the number contains something other than 0-9.
	ErrNotDigits = errors.New("number must contain only digits")

	// ErrAccountTooShort means an account has fewer than MinAccountDigits digits.
	ErrAccountTooShort = errors.New("account number is too short")

	// ErrCardTooShort means a card has fewer than MinCardDigits digits.
	ErrCardTooShort = errors.New("card number is too short")

	// ErrInvalidDate means the value does not start with YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

// Minimum lengths accepted by MaskAccountCard.
const (
	MinAccountDigits = 20
	MinCardDigits    = 16
)

// accountType is the label that marks an account rather than a card.
const accountType = "счет"

// MaskCardNumber keeps the first six and the last four digits of a card
// number: "7000792289606361" becomes "7000 79 ** **** 6361". A number too
// short to keep both ends is masked entirely.
func MaskCardNumber(number string) string {
	if len(number) < 10 {
		return strings.Repeat("*", len(number))
	}
	return fmt.Sprintf("%s %s ** **** %s", number[:4], number[4:6], number[len(number)-4:])
}

// MaskAccount keeps the last four digits of an account number:
// "73654108430135874305" becomes "** 4305". Shorter numbers are masked
// entirely.
func MaskAccount(number string) string {
	if len(number) <= 4 {
		return "** " + strings.Repeat("*", len(number))
	}
	return "** " + number[len(number)-4:]
}

// MaskAccountCard masks the number in a "<type> <number>" string such as
// "Visa Platinum 7000792289606361" or "Счет 73654108430135874305". The type
// is everything before the last space. A type of "Счет" (any case) marks an
// account; anything else is treated as a card.
func MaskAccountCard(info string) (string, error) {
	idx := strings.LastIndex(info, " ")
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, info)
	}

	kind := strings.TrimSpace(info[:idx])
	number := strings.TrimSpace(info[idx+1:])

	if number == "" || !isDigits(number) {
		return "", fmt.Errorf("%w: %q", ErrNotDigits, number)
	}

	if strings.ToLower(kind) == accountType {
		if len(number) < MinAccountDigits {
			return "", fmt.Errorf("%w: %d digits", ErrAccountTooShort, len(number))
		}
		return kind + " " + MaskAccount(number), nil
	}

	if len(number) < MinCardDigits {
		return "", fmt.Errorf("%w: %d digits", ErrCardTooShort, len(number))
	}
	return kind + " " + MaskCardNumber(number), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatDate converts an ISO-8601 timestamp such as
// "2024-03-11T02:26:18.671407" into "11.03.2024". Only the date part is read.
func FormatDate(value string) (string, error) {
	datePart, _, _ := strings.Cut(value, "T")
	t, err := time.Parse(time.DateOnly, datePart)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t.Format("02.01.2006"), nil
}
