// =============================================================================
// Transaction Widget - Validation Engine
// =============================================================================
//
// This module extracts the operation amount from a raw transaction record and
// rejects malformed records before any network activity takes place.
//
// VALIDATION STRATEGY:
//   1. Normalize: an adapter reads either accepted record shape into a
//      single RawAmount value (nested shape first, flat shape as fallback).
//   2. Validate: the amount is parsed as a decimal and the currency code is
//      trimmed and uppercased.
//
// ERROR HANDLING:
//   - Validation is strict and fail-fast: the first defect is returned.
//   - Every error is a *ValidationError that matches one of the sentinel
//     errors below through errors.Is.
//   - The reporting filters deliberately do NOT use this package; they skip
//     malformed records instead of failing.
//
// =============================================================================

package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

var (
	// ErrMissingField is returned when neither record shape provides the
	// amount or the currency.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidAmountFormat is returned when the amount cannot be parsed
	// as a decimal number.
	ErrInvalidAmountFormat = errors.New("invalid amount format")
)

// Rule names reported in ValidationError.Rule.
const (
	RuleRequired = "required"
	RuleDecimal  = "decimal"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Field is the record path that failed validation.
	Field string

	// Value is the offending value, formatted for display.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// Err is the sentinel kind (ErrMissingField or ErrInvalidAmountFormat).
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("field '%s': %s (value: '%s')", e.Field, e.Message, e.Value)
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// =============================================================================
// OPERATION AMOUNT
// =============================================================================

// RawAmount is the shape-independent view of a record produced by Normalize.
// Amount is still the untyped source value.
type RawAmount struct {
	Amount       any
	Currency     string
	AmountPath   string
	CurrencyPath string
}

// OperationAmount is the validated amount of a transaction.
type OperationAmount struct {
	Amount       decimal.Decimal
	CurrencyCode string
}

// =============================================================================
// RECORD ADAPTER
// =============================================================================

const (
	nestedAmountPath   = "operationAmount.amount"
	nestedCurrencyPath = "operationAmount.currency.code"
	flatAmountPath     = "amount"
	flatCurrencyPath   = "currency"
)

// Normalize reads the amount and currency of a record regardless of its shape.
//
// SHAPE RESOLUTION:
//   - Nested: operationAmount.amount and operationAmount.currency.code
//   - Flat:   amount and currency (a plain string)
//
// Each path is resolved independently, nested first. The record is not
// modified.
func Normalize(record types.Record) (RawAmount, error) {
	var raw RawAmount

	amount, amountPath, ok := lookupAmount(record)
	if !ok {
		return RawAmount{}, &ValidationError{
			Field:   flatAmountPath,
			Rule:    RuleRequired,
			Message: "transaction must contain an amount",
			Err:     ErrMissingField,
		}
	}
	raw.Amount = amount
	raw.AmountPath = amountPath

	currency, currencyPath, ok := lookupCurrency(record)
	if !ok {
		return RawAmount{}, &ValidationError{
			Field:   flatCurrencyPath,
			Rule:    RuleRequired,
			Message: "transaction must contain a currency code",
			Err:     ErrMissingField,
		}
	}
	raw.Currency = currency
	raw.CurrencyPath = currencyPath

	return raw, nil
}

func lookupAmount(record types.Record) (any, string, bool) {
	if value, ok := record.Nested(types.FieldOperationAmount, types.FieldAmount); ok && value != nil {
		return value, nestedAmountPath, true
	}
	if value, ok := record[types.FieldAmount]; ok && value != nil {
		return value, flatAmountPath, true
	}
	return nil, "", false
}

func lookupCurrency(record types.Record) (string, string, bool) {
	if code, ok := record.NestedString(types.FieldOperationAmount, types.FieldCurrency, types.FieldCode); ok {
		return code, nestedCurrencyPath, true
	}
	if code, ok := record.String(types.FieldCurrency); ok {
		return code, flatCurrencyPath, true
	}
	return "", "", false
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate extracts and checks the operation amount of a record.
//
// RETURNS:
//   - The parsed amount and the normalized (trimmed, uppercased) currency code.
//   - A *ValidationError matching ErrMissingField or ErrInvalidAmountFormat.
//
// Negative and zero amounts are accepted.
func Validate(record types.Record) (OperationAmount, error) {
	raw, err := Normalize(record)
	if err != nil {
		return OperationAmount{}, err
	}

	code := NormalizeCurrencyCode(raw.Currency)
	if code == "" {
		return OperationAmount{}, &ValidationError{
			Field:   raw.CurrencyPath,
			Value:   raw.Currency,
			Rule:    RuleRequired,
			Message: "currency code is empty",
			Err:     ErrMissingField,
		}
	}

	amount, err := ParseAmount(raw.Amount)
	if err != nil {
		return OperationAmount{}, &ValidationError{
			Field:   raw.AmountPath,
			Value:   fmt.Sprint(raw.Amount),
			Rule:    RuleDecimal,
			Message: fmt.Sprintf("invalid amount format: %v", raw.Amount),
			Err:     ErrInvalidAmountFormat,
		}
	}

	return OperationAmount{Amount: amount, CurrencyCode: code}, nil
}

// NormalizeCurrencyCode trims surrounding whitespace and uppercases a code.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// =============================================================================
// DATA TYPE VALIDATORS
// =============================================================================

// ParseAmount converts a loosely typed amount into a decimal.
//
// SUPPORTED TYPES:
//   - string (surrounding whitespace ignored)
//   - json.Number
//   - float32, float64 (NaN and infinities rejected)
//   - all signed and unsigned integer types
//
// Anything else, including bool and nil, is rejected.
func ParseAmount(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return fromUint(uint64(v)), nil
	case uint16:
		return fromUint(uint64(v)), nil
	case uint32:
		return fromUint(uint64(v)), nil
	case uint64:
		return fromUint(v), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", value)
	}
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("amount is not a finite number: %v", f)
	}
	return decimal.NewFromFloat(f), nil
}
