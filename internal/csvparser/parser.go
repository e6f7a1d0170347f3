// =============================================================================
// Transaction Widget - CSV Parser Module
// =============================================================================
//
// This module reads bank operation exports in CSV format into header-keyed
// rows. Mapping rows onto transaction records is done by internal/loader.
//
// SUPPORTED FEATURES:
//   - Configurable delimiters (";" by default, also ",", tab, pipe)
//   - Multiple header rows, joined per column
//   - Quoted fields and lazy quotes
//   - A UTF-8 byte order mark on the first header cell
//   - Empty row skipping
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/transaction-widget/internal/config"
)

const utf8BOM = "\ufeff"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData holds the parsed contents of a CSV file.
type CSVData struct {
	// Headers contains the column headers.
	Headers []string

	// Rows contains the data rows as header-keyed maps.
	Rows []map[string]string

	// SourceFile is the path to the source CSV file.
	SourceFile string
}

// =============================================================================
// MAIN PARSING FUNCTION
// =============================================================================

// Parse reads a CSV file and returns its header-keyed rows.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and header layout.
//
// RETURNS:
//   - A CSVData struct. A file with headers but no data rows yields no rows.
//   - An error if the file cannot be read or has no header row.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath
	return data, nil
}

// ParseReader is Parse for an already opened source.
func ParseReader(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	allRows[0][0] = strings.TrimPrefix(allRows[0][0], utf8BOM)

	headers, err := extractHeaders(allRows, settings.HeaderRows)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	start := settings.DataStartRow - 1
	if start < settings.HeaderRows {
		start = settings.HeaderRows
	}

	return &CSVData{
		Headers: headers,
		Rows:    extractDataRows(allRows, headers, start),
	}, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// configureReader applies the delimiter setting to the CSV reader.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch strings.ToLower(settings.Delimiter) {
	case "\\t", "tab":
		reader.Comma = '\t'
	case "pipe":
		reader.Comma = '|'
	case "semicolon", "":
		reader.Comma = ';'
	default:
		reader.Comma = []rune(settings.Delimiter)[0]
	}

	// Allow rows with a varying number of fields.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders builds the column names. With several header rows the
// non-empty cells of each column are joined with a space.
func extractHeaders(allRows [][]string, headerRows int) ([]string, error) {
	if headerRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}
	if len(allRows) < headerRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	maxCols := 0
	for _, row := range allRows[:headerRows] {
		maxCols = max(maxCols, len(row))
	}

	headers := make([]string, maxCols)
	for col := range headers {
		var parts []string
		for _, row := range allRows[:headerRows] {
			if col < len(row) {
				if value := strings.TrimSpace(row[col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
		if headers[col] == "" {
			headers[col] = fmt.Sprintf("Column_%d", col+1)
		}
	}
	return headers, nil
}

// extractDataRows converts rows from start onward into header-keyed maps.
// Empty rows are skipped; missing trailing cells become "".
func extractDataRows(allRows [][]string, headers []string, start int) []map[string]string {
	if start >= len(allRows) {
		return []map[string]string{}
	}

	dataRows := make([]map[string]string, 0, len(allRows)-start)
	for _, row := range allRows[start:] {
		if isRowEmpty(row) {
			continue
		}
		rowMap := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				rowMap[header] = strings.TrimSpace(row[i])
			} else {
				rowMap[header] = ""
			}
		}
		dataRows = append(dataRows, rowMap)
	}
	return dataRows
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
