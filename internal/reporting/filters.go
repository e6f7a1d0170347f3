// =============================================================================
// Transaction Widget - Reporting Filters
// =============================================================================
//
// This module prepares raw transaction records for display and reporting.
//
// LENIENT POLICY:
//   Unlike the validation engine, the filters never fail. A record whose
//   field is missing or has the wrong type is simply left out (or, for
//   SortByDate, sorted as if its date were empty).
//
// LAZY SEQUENCES:
//   FilterByCurrency, Descriptions and CardNumbers return iter.Seq values.
//   Items are produced on demand; a consumer that stops early stops the
//   producer. Ranging over the same sequence again starts from the first
//   item.
//
// =============================================================================

package reporting

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/ginjaninja78/transaction-widget/internal/types"
)

// DefaultState is the state used by the CLI when none is given.
const DefaultState = "EXECUTED"

// Card number bounds. Every generated number has exactly sixteen digits.
const (
	MinCardNumber int64 = 0
	MaxCardNumber int64 = 9999999999999999
)

// =============================================================================
// FILTERS
// =============================================================================

// FilterByState returns the records whose state equals state exactly, in
// their original order. Records without a string state are excluded.
func FilterByState(records []types.Record, state string) []types.Record {
	filtered := make([]types.Record, 0, len(records))
	for _, record := range records {
		if s, ok := record.String(types.FieldState); ok && s == state {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// FilterByCurrency lazily yields the records whose
// operationAmount.currency.code matches code. Both sides are compared after
// trimming and uppercasing. Records with a missing or malformed currency
// path are skipped.
func FilterByCurrency(records []types.Record, code string) iter.Seq[types.Record] {
	want := normalizeCode(code)
	return func(yield func(types.Record) bool) {
		for _, record := range records {
			got, ok := record.CurrencyCode()
			if !ok || normalizeCode(got) != want {
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// =============================================================================
// SORTING
// =============================================================================

// SortByDate returns a new slice ordered by the date field. Dates are ISO-8601
// strings and compare lexicographically. The sort is stable: records with
// equal dates keep their relative order in both directions. Records without a
// string date sort as the empty string.
//
// The input slice is not modified.
func SortByDate(records []types.Record, descending bool) []types.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b types.Record) int {
		c := cmp.Compare(dateOf(a), dateOf(b))
		if descending {
			return -c
		}
		return c
	})
	return sorted
}

func dateOf(record types.Record) string {
	date, _ := record.String(types.FieldDate)
	return date
}

// =============================================================================
// SEQUENCES
// =============================================================================

// Descriptions lazily yields the description of each record. Records
// without a string description are skipped.
func Descriptions(records []types.Record) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, record := range records {
			description, ok := record.String(types.FieldDescription)
			if !ok {
				continue
			}
			if !yield(description) {
				return
			}
		}
	}
}

// CardNumbers lazily yields card numbers for every n in [start, stop],
// formatted as "dddd dddd dddd dddd". It yields nothing when start > stop.
// The range is clamped to [MinCardNumber, MaxCardNumber].
func CardNumbers(start, stop int64) iter.Seq[string] {
	start = max(start, MinCardNumber)
	stop = min(stop, MaxCardNumber)
	return func(yield func(string) bool) {
		for n := start; n <= stop; n++ {
			if !yield(FormatCardNumber(n)) {
				return
			}
		}
	}
}

// FormatCardNumber formats n as sixteen zero-padded digits in groups of four.
// n must lie within [MinCardNumber, MaxCardNumber].
func FormatCardNumber(n int64) string {
	digits := fmt.Sprintf("%016d", n)
	return digits[0:4] + " " + digits[4:8] + " " + digits[8:12] + " " + digits[12:16]
}
