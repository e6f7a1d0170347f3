// =============================================================================
// Transaction Widget - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES:
//   1. Main Config (config.yaml): Application settings. A missing file is
//      not an error; defaults are used instead.
//   2. Environment (.env + process environment): The exchange service
//      credential, API_KEY. It is never read from the YAML file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/transaction-widget/internal/converter"
	"github.com/ginjaninja78/transaction-widget/internal/exchange"
	"github.com/ginjaninja78/transaction-widget/internal/reporting"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CredentialEnvVar is the environment variable holding the exchange service
// credential.
const CredentialEnvVar = "API_KEY"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// EXCHANGE SETTINGS
	// =========================================================================

	// ExchangeURL is the conversion endpoint.
	// Default: exchange.DefaultBaseURL
	ExchangeURL string `yaml:"exchange_url"`

	// TargetCurrency is the canonical currency every amount is resolved into.
	// Default: "RUB"
	TargetCurrency string `yaml:"target_currency"`

	// ConvertibleCurrencies are converted through the exchange service. Any
	// other currency is rejected.
	// Default: ["USD", "EUR"]
	ConvertibleCurrencies []string `yaml:"convertible_currencies"`

	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the transactions file used when --file is not given.
	// The extension selects the loader: .json, .csv or .xlsx.
	// Default: "./data/operations.json"
	InputFile string `yaml:"input_file"`

	// OutputDir is the directory where XML reports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ReportFileFormat defines the report file name.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	//   {state}     - The state filter of the run
	// {uuid} is the run ID, which is also written into the report.
	// Default: "report_{timestamp}_{uuid}.xml"
	ReportFileFormat string `yaml:"report_file_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. Empty logs to stderr.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// CallLogFile, when set, receives one line per resolved transaction
	// ("<name> ok" or "<name> error: ...").
	CallLogFile string `yaml:"call_log_file"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// DefaultState is the state filter used when --state is not given.
	// Default: "EXECUTED"
	DefaultState string `yaml:"default_state"`

	// CSVSettings contains settings for reading CSV exports.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSettings contains settings for reading XLSX exports.
	XLSXSettings XLSXSettings `yaml:"xlsx_settings"`
}

// =============================================================================
// CSV / XLSX SETTINGS STRUCTURES
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Accepts a single character or one of "tab", "pipe", "semicolon".
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. Multiple header rows are
	// joined per column with a space.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`
}

// XLSXSettings contains settings for parsing XLSX files.
type XLSXSettings struct {
	// Sheet is the worksheet to read. Empty selects the first sheet.
	Sheet string `yaml:"sheet"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main application configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the config.yaml file. An empty path, or a
//     path that does not exist, yields the defaults.
//
// RETURNS:
//   - A pointer to the loaded MainConfig.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no config file exists.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyMainConfigDefaults sets default values for any unset fields.
func applyMainConfigDefaults(config *MainConfig) {
	if config.ExchangeURL == "" {
		config.ExchangeURL = exchange.DefaultBaseURL
	}
	if config.TargetCurrency == "" {
		config.TargetCurrency = converter.DefaultTargetCurrency
	}
	config.TargetCurrency = strings.ToUpper(strings.TrimSpace(config.TargetCurrency))
	if len(config.ConvertibleCurrencies) == 0 {
		config.ConvertibleCurrencies = append([]string(nil), converter.DefaultConvertibleCurrencies...)
	}
	if config.InputFile == "" {
		config.InputFile = "./data/operations.json"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ReportFileFormat == "" {
		config.ReportFileFormat = "report_{timestamp}_{uuid}.xml"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.DefaultState == "" {
		config.DefaultState = reporting.DefaultState
	}

	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ";"
	}
	if config.CSVSettings.HeaderRows == 0 {
		config.CSVSettings.HeaderRows = 1
	}
	if config.CSVSettings.DataStartRow == 0 {
		config.CSVSettings.DataStartRow = config.CSVSettings.HeaderRows + 1
	}
}

// validateMainConfig checks settings that have no sensible fallback.
func validateMainConfig(config *MainConfig) error {
	if config.TargetCurrency == "" {
		return fmt.Errorf("target_currency must not be empty")
	}
	for _, code := range config.ConvertibleCurrencies {
		if strings.EqualFold(strings.TrimSpace(code), config.TargetCurrency) {
			return fmt.Errorf("convertible_currencies must not contain the target currency %s", config.TargetCurrency)
		}
	}
	if config.CSVSettings.HeaderRows < 0 {
		return fmt.Errorf("csv_settings.header_rows must not be negative")
	}
	if config.CSVSettings.DataStartRow <= config.CSVSettings.HeaderRows {
		return fmt.Errorf("csv_settings.data_start_row must come after the header rows")
	}
	if !isKnownDelimiter(config.CSVSettings.Delimiter) {
		return fmt.Errorf("csv_settings.delimiter %q must be a single character", config.CSVSettings.Delimiter)
	}
	return nil
}

func isKnownDelimiter(d string) bool {
	switch strings.ToLower(d) {
	case "tab", "\\t", "pipe", "semicolon":
		return true
	}
	return utf8.RuneCountInString(d) == 1
}

// =============================================================================
// CREDENTIAL
// =============================================================================

// LoadCredential returns the exchange service credential.
//
// The given .env files (or ./.env when none are given) are loaded first;
// missing files are ignored and existing environment variables are never
// overridden. An empty result is not an error: the credential is only
// required once a conversion is attempted.
func LoadCredential(envFiles ...string) (string, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	key, _ := os.LookupEnv(CredentialEnvVar)
	return strings.TrimSpace(key), nil
}
