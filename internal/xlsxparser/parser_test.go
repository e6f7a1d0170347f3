package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/transaction-widget/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "transactions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"id", "state", "amount", "currency_code", "description"},
		{650703, "EXECUTED", "16210", "PEN", "Перевод организации"},
		{},
		{3598919, "EXECUTED", "29740", "COP"},
	})

	data, err := Parse(path, config.XLSXSettings{})
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", data.Sheet)
	assert.Equal(t, []string{"id", "state", "amount", "currency_code", "description"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "650703", data.Rows[0]["id"])
	assert.Equal(t, "Перевод организации", data.Rows[0]["description"])
	assert.Equal(t, "COP", data.Rows[1]["currency_code"])
	assert.Equal(t, "", data.Rows[1]["description"])
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Operations", [][]any{
		{"id", "amount"},
		{1, "10.50"},
	})

	data, err := Parse(path, config.XLSXSettings{Sheet: "Operations"})
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "10.50", data.Rows[0]["amount"])

	_, err = Parse(path, config.XLSXSettings{Sheet: "Missing"})
	assert.ErrorContains(t, err, "not found")
}

func TestParse_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", nil)

	data, err := Parse(path, config.XLSXSettings{})
	require.NoError(t, err)
	assert.Empty(t, data.Headers)
	assert.Empty(t, data.Rows)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"), config.XLSXSettings{})
	assert.ErrorContains(t, err, "failed to open workbook")
}
