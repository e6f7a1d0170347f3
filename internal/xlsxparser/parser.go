// =============================================================================
// Transaction Widget - XLSX Parser Module
// =============================================================================
//
// This module reads bank operation exports saved as Excel workbooks. The
// first row of the sheet holds the column headers; every following
// non-empty row is one operation.
//
// EXPECTED LAYOUT (see internal/loader for the column mapping):
//   | id | state | date | amount | currency_name | currency_code | from | to | description |
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/transaction-widget/internal/config"
	"github.com/xuri/excelize/v2"
)

// SheetData holds the header-keyed rows of one worksheet.
type SheetData struct {
	// SourceFile is the path to the workbook.
	SourceFile string

	// Sheet is the name of the worksheet that was read.
	Sheet string

	// Headers contains the column headers from the first row.
	Headers []string

	// Rows contains the data rows as header-keyed maps.
	Rows []map[string]string
}

// Parse reads a worksheet from an XLSX file.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - settings: Selects the worksheet. An empty sheet name means the first
//     sheet.
//
// RETURNS:
//   - A SheetData struct. A sheet without rows yields no headers and no rows.
//   - An error if the workbook or sheet cannot be read.
func Parse(path string, settings config.XLSXSettings) (*SheetData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	data := &SheetData{
		SourceFile: path,
		Sheet:      sheetName,
		Rows:       []map[string]string{},
	}
	if len(rows) == 0 {
		return data, nil
	}

	data.Headers = make([]string, len(rows[0]))
	for i, header := range rows[0] {
		data.Headers[i] = strings.TrimSpace(header)
	}

	for _, row := range rows[1:] {
		// Skip empty rows.
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(data.Headers))
		for i, header := range data.Headers {
			if header == "" {
				continue
			}
			if i < len(row) {
				rowMap[header] = strings.TrimSpace(row[i])
			} else {
				rowMap[header] = ""
			}
		}
		data.Rows = append(data.Rows, rowMap)
	}

	return data, nil
}

// isRowEmpty checks if a row is empty (all cells are empty or whitespace).
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
