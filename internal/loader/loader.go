// =============================================================================
// Transaction Widget - Transaction Loader Module
// =============================================================================
//
// This module reads transaction records from bank operation exports.
//
// SUPPORTED FORMATS:
//   .json   A list of records in the nested shape
//   .csv    One operation per row (see csv_settings)
//   .xlsx   One operation per row on the configured sheet
//
// CSV and XLSX columns are mapped onto the nested shape:
//   id;state;date;amount;currency_name;currency_code;from;to;description
//
// Loading is lenient. A missing, unreadable, empty or malformed source
// yields an empty slice; the reason is reported to the logger.
//
// =============================================================================

package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ginjaninja78/transaction-widget/internal/config"
	"github.com/ginjaninja78/transaction-widget/internal/csvparser"
	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/ginjaninja78/transaction-widget/internal/xlsxparser"
	"go.uber.org/zap"
)

// Column names of tabular exports.
const (
	ColumnID           = "id"
	ColumnState        = "state"
	ColumnDate         = "date"
	ColumnAmount       = "amount"
	ColumnCurrencyName = "currency_name"
	ColumnCurrencyCode = "currency_code"
	ColumnFrom         = "from"
	ColumnTo           = "to"
	ColumnDescription  = "description"
)

// Loader reads transaction files.
type Loader struct {
	csv    config.CSVSettings
	xlsx   config.XLSXSettings
	logger *zap.Logger
}

// New creates a Loader. A nil logger discards diagnostics.
func New(csv config.CSVSettings, xlsx config.XLSXSettings, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{csv: csv, xlsx: xlsx, logger: logger}
}

// Load reads the records in path. The format is chosen by extension:
// .csv, .xlsx, anything else is read as JSON. It never fails; problems
// yield an empty slice.
func (l *Loader) Load(path string) []types.Record {
	records, err := l.load(path)
	if err != nil {
		l.logger.Warn("no transactions loaded", zap.String("file", path), zap.Error(err))
		return []types.Record{}
	}
	l.logger.Debug("transactions loaded", zap.String("file", path), zap.Int("count", len(records)))
	return records
}

func (l *Loader) load(path string) ([]types.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err := csvparser.Parse(path, l.csv)
		if err != nil {
			return nil, err
		}
		return rowsToRecords(data.Rows), nil
	case ".xlsx":
		data, err := xlsxparser.Parse(path, l.xlsx)
		if err != nil {
			return nil, err
		}
		return rowsToRecords(data.Rows), nil
	default:
		return loadJSON(path)
	}
}

// LoadTransactions reads a JSON list of records with default settings.
func LoadTransactions(path string) []types.Record {
	return New(config.Default().CSVSettings, config.XLSXSettings{}, nil).Load(path)
}

// =============================================================================
// JSON
// =============================================================================

func loadJSON(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON list, got %T", raw)
	}

	records := make([]types.Record, 0, len(list))
	for _, item := range list {
		// Non-object entries cannot be transactions.
		if object, ok := item.(map[string]any); ok {
			records = append(records, types.Record(object))
		}
	}
	return records, nil
}

// =============================================================================
// TABULAR EXPORTS
// =============================================================================

func rowsToRecords(rows []map[string]string) []types.Record {
	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToRecord(row))
	}
	return records
}

// rowToRecord maps one export row onto the nested record shape. Empty
// cells are left out so that the filters and validation see them as
// missing.
func rowToRecord(row map[string]string) types.Record {
	record := types.Record{}

	if id := row[ColumnID]; id != "" {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			record[types.FieldID] = n
		} else {
			record[types.FieldID] = id
		}
	}
	setIfPresent(record, types.FieldState, row[ColumnState])
	setIfPresent(record, types.FieldDate, row[ColumnDate])
	setIfPresent(record, types.FieldFrom, row[ColumnFrom])
	setIfPresent(record, types.FieldTo, row[ColumnTo])
	setIfPresent(record, types.FieldDescription, row[ColumnDescription])

	operation := map[string]any{}
	setIfPresent(operation, types.FieldAmount, row[ColumnAmount])

	currency := map[string]any{}
	setIfPresent(currency, types.FieldName, row[ColumnCurrencyName])
	setIfPresent(currency, types.FieldCode, row[ColumnCurrencyCode])
	if len(currency) > 0 {
		operation[types.FieldCurrency] = currency
	}

	if len(operation) > 0 {
		record[types.FieldOperationAmount] = operation
	}
	return record
}

func setIfPresent[M ~map[string]any](m M, key, value string) {
	if value != "" {
		m[key] = value
	}
}
