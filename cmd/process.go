// =============================================================================
// Transaction Widget - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the main command of the
// application. It loads a transactions file, selects and orders the
// operations to show, and optionally resolves their amounts into the
// canonical currency.
//
// COMMAND USAGE:
//   widget process [flags]
//
// FLAGS:
//   --file       Transactions file (.json, .csv or .xlsx). Default: input_file
//   --state      Keep only operations in this state. "ALL" keeps everything.
//   --currency   Keep only operations whose nested currency code matches
//   --sort       Date order: desc (default), asc or none
//   --convert    Resolve every amount into the target currency
//   --report     Write an XML report and a summary (implies --convert)
//
// PROCESSING PIPELINE:
//   1. Load the transactions file (never fails; problems yield no records)
//   2. Filter by state and currency, then sort by date
//   3. Resolve amounts through the exchange service (--convert)
//   4. Print each operation with masked card and account numbers
//   5. Write the XML report and processing summary (--report)
//
// =============================================================================

package cmd

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ginjaninja78/transaction-widget/internal/calllog"
	"github.com/ginjaninja78/transaction-widget/internal/config"
	"github.com/ginjaninja78/transaction-widget/internal/converter"
	"github.com/ginjaninja78/transaction-widget/internal/exchange"
	"github.com/ginjaninja78/transaction-widget/internal/logger"
	"github.com/ginjaninja78/transaction-widget/internal/reporting"
	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/ginjaninja78/transaction-widget/internal/validation"
	"github.com/ginjaninja78/transaction-widget/internal/widget"
	"github.com/ginjaninja78/transaction-widget/internal/xmlwriter"
	"github.com/ginjaninja78/transaction-widget/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// stateAll disables the state filter.
const stateAll = "ALL"

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// processOptions holds the flag values of the process command.
type processOptions struct {
	File     string
	State    string
	Currency string
	Sort     string
	Convert  bool
	Report   bool
}

var processOpts processOptions

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Show operations and resolve their amounts",
	Long: `Load a transactions file, filter and sort the operations, and print them
with masked card and account numbers.

With --convert every amount is resolved into the target currency. USD and
EUR amounts are converted through the exchange service (API_KEY must be set);
amounts already in the target currency pass through unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.close()
		return runProcess(cmd.Context(), cmd.OutOrStdout(), a, processOpts)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the process command and its flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processOpts.File, "file", "", "Transactions file to load (default: input_file from the config)")
	processCmd.Flags().StringVar(&processOpts.State, "state", "", `Operation state to keep, or "ALL" (default: default_state from the config)`)
	processCmd.Flags().StringVar(&processOpts.Currency, "currency", "", "Keep only operations in this currency")
	processCmd.Flags().StringVar(&processOpts.Sort, "sort", "desc", "Date order: desc, asc or none")
	processCmd.Flags().BoolVar(&processOpts.Convert, "convert", false, "Resolve amounts into the target currency")
	processCmd.Flags().BoolVar(&processOpts.Report, "report", false, "Write an XML report and processing summary (implies --convert)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the pipeline and prints to out.
func runProcess(ctx context.Context, out io.Writer, a *app, opts processOptions) error {
	startTime := time.Now()
	cfg := a.cfg

	// =========================================================================
	// STEP 1: LOAD TRANSACTIONS
	// =========================================================================

	inputFile := cmp.Or(opts.File, cfg.InputFile)
	state := cmp.Or(opts.State, cfg.DefaultState)

	fmt.Fprintln(out, "=== Transaction Widget ===")
	if !utils.FileExists(inputFile) {
		fmt.Fprintf(out, "Input file %s not found, nothing to show\n", inputFile)
	}
	records := a.loader().Load(inputFile)
	fmt.Fprintf(out, "Loaded %d transaction(s) from %s\n", len(records), inputFile)

	// =========================================================================
	// STEP 2: SELECT AND ORDER
	// =========================================================================

	selected, err := selectTransactions(records, state, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Selected %d transaction(s)\n\n", len(selected))

	// =========================================================================
	// STEP 3: RESOLVE AMOUNTS
	// =========================================================================

	var calls *calllog.Logger
	if cfg.CallLogFile != "" {
		calls, err = calllog.New(cfg.CallLogFile)
		if err != nil {
			return err
		}
		defer calls.Close()
	}

	var result *converter.Result
	if opts.Convert || opts.Report {
		res, err := resolveTransactions(ctx, a, calls, selected)
		if err != nil {
			return err
		}
		result = &res
	}

	// =========================================================================
	// STEP 4: PRINT
	// =========================================================================

	for i, record := range selected {
		var rr *converter.RecordResult
		if result != nil && i < len(result.Records) {
			rr = &result.Records[i]
		}
		printTransaction(out, record, rr, cfg.TargetCurrency)
	}

	if result == nil {
		return nil
	}
	printSummary(out, *result, cfg.TargetCurrency, time.Since(startTime))

	// =========================================================================
	// STEP 5: REPORT
	// =========================================================================

	if opts.Report {
		summary := utils.ProcessingSummary{
			RunID:          utils.NewRunID(),
			InputFile:      inputFile,
			TargetCurrency: cfg.TargetCurrency,
			StartTime:      startTime,
			EndTime:        time.Now(),
			Loaded:         len(records),
			Selected:       len(selected),
			Resolved:       result.Stats.RecordsProcessed - result.Stats.Failed(),
			Converted:      result.Stats.Converted,
			Passthrough:    result.Stats.Passthrough,
			Total:          result.Sum().StringFixed(2),
			Failed:         failedRecords(*result),
		}
		err := calls.WrapE("write_report", func() error {
			return writeReport(out, cfg, *result, summary, state)
		}, state)
		if err != nil {
			return err
		}
	}

	return result.Error
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// selectTransactions applies the state and currency filters and the sort order.
func selectTransactions(records []types.Record, state string, opts processOptions) ([]types.Record, error) {
	if !strings.EqualFold(state, stateAll) {
		records = reporting.FilterByState(records, state)
	}
	if opts.Currency != "" {
		records = slices.Collect(reporting.FilterByCurrency(records, opts.Currency))
	}

	switch strings.ToLower(opts.Sort) {
	case "desc":
		records = reporting.SortByDate(records, true)
	case "asc":
		records = reporting.SortByDate(records, false)
	case "", "none":
	default:
		return nil, fmt.Errorf("invalid sort order %q (use desc, asc or none)", opts.Sort)
	}
	return records, nil
}

// resolveTransactions builds the exchange client and the pipeline and runs
// it over records. Each record's resolution is written to calls.
func resolveTransactions(ctx context.Context, a *app, calls *calllog.Logger, records []types.Record) (converter.Result, error) {
	cfg := a.cfg

	apiKey, err := config.LoadCredential(envFiles...)
	if err != nil {
		return converter.Result{}, err
	}
	if apiKey == "" {
		a.logger.Warn("credential is not set, conversions will fail", zap.String("env", config.CredentialEnvVar))
	}

	client := exchange.NewClient(
		exchange.Config{BaseURL: cfg.ExchangeURL, APIKey: apiKey},
		exchange.WithLogger(a.logger),
	)
	resolver := converter.NewResolver(client,
		converter.WithTargetCurrency(cfg.TargetCurrency),
		converter.WithConvertibleCurrencies(cfg.ConvertibleCurrencies...),
	)

	pipeline := converter.NewPipeline(resolver,
		converter.WithLogger(logger.Sugared(a.logger)),
		converter.WithMiddleware(func(next converter.ResolveFunc) converter.ResolveFunc {
			return calllog.Wrap(calls, "resolve_record", next)
		}),
	)
	return pipeline.Run(ctx, records), nil
}

// printTransaction writes one operation:
//
//	26.08.2019 Перевод организации
//	Maestro 1596 83 ** **** 5199 -> Счет ** 9589
//	Amount: 31957.58 RUB
func printTransaction(out io.Writer, record types.Record, rr *converter.RecordResult, target string) {
	date, _ := record.String(types.FieldDate)
	if formatted, err := widget.FormatDate(date); err == nil {
		date = formatted
	}
	description, _ := record.String(types.FieldDescription)
	fmt.Fprintln(out, strings.TrimSpace(date+" "+description))

	if route := maskedRoute(record); route != "" {
		fmt.Fprintln(out, route)
	}
	fmt.Fprintf(out, "Amount: %s\n\n", amountLine(record, rr, target))
}

// maskedRoute joins the masked source and destination. Values that cannot
// be masked are left out.
func maskedRoute(record types.Record) string {
	var parts []string
	for _, field := range []string{types.FieldFrom, types.FieldTo} {
		value, ok := record.String(field)
		if !ok {
			continue
		}
		if masked, err := widget.MaskAccountCard(value); err == nil {
			parts = append(parts, masked)
		}
	}
	return strings.Join(parts, " -> ")
}

func amountLine(record types.Record, rr *converter.RecordResult, target string) string {
	amount, err := validation.Validate(record)
	if err != nil {
		return "n/a (" + err.Error() + ")"
	}

	line := amount.Amount.String() + " " + amount.CurrencyCode
	switch {
	case rr == nil:
	case rr.Err != nil:
		line += " [" + rr.Err.Error() + "]"
	case amount.CurrencyCode != target:
		line += " = " + rr.Canonical.StringFixed(2) + " " + target
	}
	return line
}

// printSummary writes the conversion statistics.
func printSummary(out io.Writer, result converter.Result, target string, elapsed time.Duration) {
	stats := result.Stats
	fmt.Fprintln(out, "=== Conversion Complete ===")
	fmt.Fprintf(out, "Processed:       %d\n", stats.RecordsProcessed)
	fmt.Fprintf(out, "Passthrough:     %d\n", stats.Passthrough)
	fmt.Fprintf(out, "Converted:       %d\n", stats.Converted)
	fmt.Fprintf(out, "Failed:          %d\n", stats.Failed())
	fmt.Fprintf(out, "Total (%s):     %s\n", target, result.Sum().StringFixed(2))
	fmt.Fprintf(out, "Time elapsed:    %s\n", elapsed)
}

func failedRecords(result converter.Result) []utils.FailedRecord {
	var failed []utils.FailedRecord
	for _, rr := range result.Records {
		if rr.OK() {
			continue
		}
		id := ""
		if v, ok := rr.Record[types.FieldID]; ok && v != nil {
			id = fmt.Sprint(v)
		}
		failed = append(failed, utils.FailedRecord{Index: rr.Index, ID: id, ErrorMessage: rr.Err.Error()})
	}
	return failed
}

// writeReport writes the XML report and the processing summary into the
// output directory. The report file name uses the run ID for {uuid}.
func writeReport(out io.Writer, cfg *config.MainConfig, result converter.Result, summary utils.ProcessingSummary, state string) error {
	if err := utils.EnsureDirectories(cfg.OutputDir); err != nil {
		return err
	}

	name := utils.GenerateOutputFileName(cfg.ReportFileFormat, map[string]string{
		"state": strings.ToUpper(state),
		"uuid":  summary.RunID,
	})
	reportPath := filepath.Join(cfg.OutputDir, name)

	report := xmlwriter.BuildReport(result, summary.RunID, cfg.TargetCurrency, summary.EndTime)
	if err := xmlwriter.WriteFile(reportPath, report, xmlwriter.DefaultGenerateOptions()); err != nil {
		return err
	}
	summary.ReportFile = reportPath

	summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nReport written to %s\n", reportPath)
	fmt.Fprintf(out, "Summary written to %s\n", summaryPath)
	return nil
}
