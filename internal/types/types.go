// =============================================================================
// Transaction Widget - Shared Types
// =============================================================================
//
// This package contains the record types shared by the loaders, the
// validation engine, the reporting filters and the report writer. Keeping
// them here avoids import cycles between those packages.
//
// RECORD SHAPES:
//   Two shapes of transaction record are accepted by the pipeline:
//     flat:   {"amount": "100.0", "currency": "USD"}
//     nested: {"operationAmount": {"amount": "100.0",
//              "currency": {"name": "USD", "code": "USD"}}}
//
// =============================================================================

package types

// =============================================================================
// FIELD NAMES
// =============================================================================

// Field names used in bank operation exports.
const (
	FieldID              = "id"
	FieldState           = "state"
	FieldDate            = "date"
	FieldDescription     = "description"
	FieldFrom            = "from"
	FieldTo              = "to"
	FieldAmount          = "amount"
	FieldCurrency        = "currency"
	FieldOperationAmount = "operationAmount"
	FieldCode            = "code"
	FieldName            = "name"
)

// =============================================================================
// RECORD
// =============================================================================

// Record is a single transaction as supplied by a loader or caller.
// It is loosely typed on purpose: values come straight from JSON, CSV or
// XLSX sources. The pipeline treats records as read-only.
type Record map[string]any

// String returns the value of a top-level string field.
// The second return value is false when the field is missing or is not a string.
func (r Record) String(field string) (string, bool) {
	value, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// Nested returns the value found by walking the given path of object keys.
// Both Record and map[string]any are accepted at every level, so records
// decoded from JSON and records built by the CSV/XLSX loaders behave alike.
func (r Record) Nested(path ...string) (any, bool) {
	var current any = map[string]any(r)
	for _, key := range path {
		object, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// NestedString returns the string found at the given path.
func (r Record) NestedString(path ...string) (string, bool) {
	value, ok := r.Nested(path...)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// CurrencyCode returns operationAmount.currency.code, the path used by the
// reporting filters.
func (r Record) CurrencyCode() (string, bool) {
	return r.NestedString(FieldOperationAmount, FieldCurrency, FieldCode)
}

// asObject converts the supported object representations into a plain map.
func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Record:
		return map[string]any(v), true
	default:
		return nil, false
	}
}
