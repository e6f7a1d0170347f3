package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/transaction-widget/internal/config"
	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const operationsJSON = `[
  {
    "id": 441945886,
    "state": "EXECUTED",
    "date": "2019-08-26T10:50:58.294041",
    "operationAmount": {"amount": "31957.58", "currency": {"name": "руб.", "code": "RUB"}},
    "description": "Перевод организации",
    "from": "Maestro 1596837868705199",
    "to": "Счет 64686473678894779589"
  },
  {
    "id": 41428829,
    "state": "EXECUTED",
    "date": "2019-07-03T18:35:29.512364",
    "operationAmount": {"amount": "8221.37", "currency": {"name": "USD", "code": "USD"}},
    "description": "Перевод организации"
  },
  {},
  "not a record"
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newLoader() *Loader {
	return New(config.Default().CSVSettings, config.XLSXSettings{}, nil)
}

func TestLoad_JSON(t *testing.T) {
	records := newLoader().Load(writeFile(t, "operations.json", operationsJSON))
	require.Len(t, records, 3)

	assert.Equal(t, json.Number("441945886"), records[0][types.FieldID])
	code, ok := records[1].CurrencyCode()
	require.True(t, ok)
	assert.Equal(t, "USD", code)
	assert.Empty(t, records[2])
}

func TestLoad_Lenient(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.json")},
		{name: "directory", path: dir},
		{name: "empty", path: writeFile(t, "empty.json", "")},
		{name: "corrupt", path: writeFile(t, "corrupt.json", "[{\"id\": 1,")},
		{name: "object", path: writeFile(t, "object.json", `{"id": 1}`)},
		{name: "bad workbook", path: writeFile(t, "broken.xlsx", "not a zip")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := newLoader().Load(tt.path)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestLoadTransactions(t *testing.T) {
	records := LoadTransactions(writeFile(t, "operations.json", operationsJSON))
	assert.Len(t, records, 3)
	assert.Empty(t, LoadTransactions(filepath.Join(t.TempDir(), "none.json")))
}

func TestLoad_CSV(t *testing.T) {
	content := "id;state;date;amount;currency_name;currency_code;from;to;description\n" +
		"650703;EXECUTED;2023-09-05T11:30:32Z;16210;Sol;PEN;Счет 58803664561298323391;Счет 39745660563456619397;Перевод организации\n" +
		"5380041;CANCELED;2021-02-01T11:54:58Z;23789;Peso;UYU;;Счет 23294994494356835683;Открытие вклада\n"

	records := newLoader().Load(writeFile(t, "transactions.csv", content))
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(650703), first[types.FieldID])
	assert.Equal(t, "EXECUTED", first[types.FieldState])
	amount, ok := first.NestedString(types.FieldOperationAmount, types.FieldAmount)
	require.True(t, ok)
	assert.Equal(t, "16210", amount)
	code, ok := first.CurrencyCode()
	require.True(t, ok)
	assert.Equal(t, "PEN", code)
	name, ok := first.NestedString(types.FieldOperationAmount, types.FieldCurrency, types.FieldName)
	require.True(t, ok)
	assert.Equal(t, "Sol", name)

	_, hasFrom := records[1][types.FieldFrom]
	assert.False(t, hasFrom)
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"id", "state", "date", "amount", "currency_name", "currency_code", "from", "to", "description"},
		{4699552, "EXECUTED", "2022-03-23T08:29:37Z", "23423", "Peso", "PHP", "Discover 7269000803370165", "American Express 1963030970727681", "Перевод с карты на карту"},
		{"", "EXECUTED", "", "", "", "", "", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "transactions.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records := newLoader().Load(path)
	require.Len(t, records, 2)

	assert.Equal(t, int64(4699552), records[0][types.FieldID])
	code, ok := records[0].CurrencyCode()
	require.True(t, ok)
	assert.Equal(t, "PHP", code)

	assert.Equal(t, types.Record{types.FieldState: "EXECUTED"}, records[1])
}

func TestRowToRecord_NonNumericID(t *testing.T) {
	record := rowToRecord(map[string]string{ColumnID: "A-17", ColumnAmount: "5"})
	assert.Equal(t, "A-17", record[types.FieldID])
	assert.Equal(t, map[string]any{types.FieldAmount: "5"}, record[types.FieldOperationAmount])
}
