package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/transaction-widget/internal/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMainConfig_Defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadMainConfig(path)
		require.NoError(t, err)

		assert.Equal(t, exchange.DefaultBaseURL, cfg.ExchangeURL)
		assert.Equal(t, "RUB", cfg.TargetCurrency)
		assert.Equal(t, []string{"USD", "EUR"}, cfg.ConvertibleCurrencies)
		assert.Equal(t, "./data/operations.json", cfg.InputFile)
		assert.Equal(t, "./output", cfg.OutputDir)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "EXECUTED", cfg.DefaultState)
		assert.Equal(t, "report_{timestamp}_{uuid}.xml", cfg.ReportFileFormat)
		assert.Equal(t, ";", cfg.CSVSettings.Delimiter)
		assert.Equal(t, 1, cfg.CSVSettings.HeaderRows)
		assert.Equal(t, 2, cfg.CSVSettings.DataStartRow)
	}
}

func TestLoadMainConfig_FromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
exchange_url: http://localhost:9999/convert
target_currency: usd
convertible_currencies: [EUR, RUB]
input_file: ./data/transactions.csv
log_level: debug
call_log_file: ./logs/calls.log
default_state: CANCELED
csv_settings:
  delimiter: ","
  header_rows: 2
xlsx_settings:
  sheet: Operations
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/convert", cfg.ExchangeURL)
	assert.Equal(t, "USD", cfg.TargetCurrency)
	assert.Equal(t, []string{"EUR", "RUB"}, cfg.ConvertibleCurrencies)
	assert.Equal(t, "./data/transactions.csv", cfg.InputFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "./logs/calls.log", cfg.CallLogFile)
	assert.Equal(t, "CANCELED", cfg.DefaultState)
	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)
	assert.Equal(t, 2, cfg.CSVSettings.HeaderRows)
	assert.Equal(t, 3, cfg.CSVSettings.DataStartRow)
	assert.Equal(t, "Operations", cfg.XLSXSettings.Sheet)
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad yaml", content: "target_currency: [", want: "failed to parse config file"},
		{name: "target convertible", content: "convertible_currencies: [usd, rub]", want: "must not contain the target currency"},
		{name: "long delimiter", content: "csv_settings:\n  delimiter: ';;'", want: "single character"},
		{name: "data before header", content: "csv_settings:\n  header_rows: 2\n  data_start_row: 2", want: "data_start_row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := LoadMainConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMainConfig_Directory(t *testing.T) {
	_, err := LoadMainConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadCredential(t *testing.T) {
	t.Run("from env file", func(t *testing.T) {
		t.Setenv(CredentialEnvVar, "")
		os.Unsetenv(CredentialEnvVar)

		path := writeFile(t, t.TempDir(), ".env", "API_KEY=file-secret\n")
		key, err := LoadCredential(path)
		require.NoError(t, err)
		assert.Equal(t, "file-secret", key)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(CredentialEnvVar, "env-secret")

		path := writeFile(t, t.TempDir(), ".env", "API_KEY=file-secret\n")
		key, err := LoadCredential(path)
		require.NoError(t, err)
		assert.Equal(t, "env-secret", key)
	})

	t.Run("missing file tolerated", func(t *testing.T) {
		t.Setenv(CredentialEnvVar, "")
		os.Unsetenv(CredentialEnvVar)

		key, err := LoadCredential(filepath.Join(t.TempDir(), ".env"))
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "RUB", cfg.TargetCurrency)
	assert.NoError(t, validateMainConfig(cfg))
}
