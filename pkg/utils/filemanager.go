// =============================================================================
// Transaction Widget - File Utilities
// =============================================================================
//
// This package provides file helpers for the CLI: directory creation,
// report file naming and the plain-text run summary.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the given directories if they don't exist.
// Empty entries are ignored.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// =============================================================================
// FILE NAMING
// =============================================================================

// NewRunID returns a random identifier for one processing run.
func NewRunID() string {
	return uuid.New().String()
}

// GenerateOutputFileName generates a report file name from a format string.
//
// PARAMETERS:
//   - format: The format string with placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - params: Extra placeholder values, e.g. {"state": "EXECUTED"} fills {state}.
//
// EXAMPLE:
//   format: "report_{state}_{date}_{uuid}.xml"
//   output: "report_EXECUTED_20240115_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xml"
func GenerateOutputFileName(format string, params map[string]string) string {
	return GenerateOutputFileNameAt(format, params, time.Now())
}

// GenerateOutputFileNameAt is GenerateOutputFileName with a fixed clock.
func GenerateOutputFileNameAt(format string, params map[string]string, now time.Time) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Ensure .xml extension.
	if !strings.HasSuffix(strings.ToLower(result), ".xml") {
		result += ".xml"
	}
	return result
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID          string
	InputFile      string
	ReportFile     string
	TargetCurrency string
	StartTime      time.Time
	EndTime        time.Time

	Loaded      int
	Selected    int
	Resolved    int
	Converted   int
	Passthrough int
	Total       string

	Failed []FailedRecord
}

// FailedRecord describes a transaction that could not be resolved.
type FailedRecord struct {
	Index        int
	ID           string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary to a text file in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Transaction Widget - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Input:          %s\n"+
		"  Report:         %s\n"+
		"  Start Time:     %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Loaded:         %d\n"+
		"  Selected:       %d\n"+
		"  Resolved:       %d\n"+
		"  Converted:      %d\n"+
		"  Passthrough:    %d\n"+
		"  Failed:         %d\n"+
		"  Total (%s):    %s\n\n",
		summary.RunID,
		summary.InputFile,
		summary.ReportFile,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.Loaded,
		summary.Selected,
		summary.Resolved,
		summary.Converted,
		summary.Passthrough,
		len(summary.Failed),
		summary.TargetCurrency,
		summary.Total)

	if len(summary.Failed) > 0 {
		writer.WriteString("Failed Transactions:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.Failed {
			fmt.Fprintf(writer, "  #%d (id=%s): %s\n", f.Index+1, f.ID, f.ErrorMessage)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return summaryPath, nil
}
