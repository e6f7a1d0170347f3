// =============================================================================
// Transaction Widget - XML Report Writer Module
// =============================================================================
//
// This module renders the outcome of a processing run as an XML report.
//
// REPORT STRUCTURE:
//   <report runId="..." generatedAt="..." targetCurrency="RUB">
//     <summary>
//       <total>5</total> <resolved>3</resolved> ... <sum>12345.67</sum>
//     </summary>
//     <transactions>
//       <transaction n="1" id="441945886">
//         <date>26.08.2019</date>
//         <description>Перевод организации</description>
//         <from>Maestro 1596 83 ** **** 5199</from>
//         <to>Счет ** 9589</to>
//         <amount currency="USD">100.00</amount>
//         <canonical>7500.00</canonical>      (or <error>...</error>)
//       </transaction>
//     </transactions>
//   </report>
//
// Card and account numbers are always masked. A from/to value that cannot
// be masked is left out of the report.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/ginjaninja78/transaction-widget/internal/converter"
	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/ginjaninja78/transaction-widget/internal/widget"
)

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation. Empty writes a single line.
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	IncludeXMLDeclaration bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// REPORT DOCUMENT
// =============================================================================

// Report is the root element of the XML report.
type Report struct {
	XMLName        xml.Name      `xml:"report"`
	RunID          string        `xml:"runId,attr,omitempty"`
	GeneratedAt    string        `xml:"generatedAt,attr"`
	TargetCurrency string        `xml:"targetCurrency,attr"`
	Summary        Summary       `xml:"summary"`
	Transactions   []Transaction `xml:"transactions>transaction"`
}

// Summary holds the run statistics.
type Summary struct {
	Total       int    `xml:"total"`
	Resolved    int    `xml:"resolved"`
	Converted   int    `xml:"converted"`
	Passthrough int    `xml:"passthrough"`
	Failed      int    `xml:"failed"`
	Sum         string `xml:"sum"`
}

// Transaction is one processed record.
type Transaction struct {
	N           int     `xml:"n,attr"`
	ID          string  `xml:"id,attr,omitempty"`
	Date        string  `xml:"date,omitempty"`
	Description string  `xml:"description,omitempty"`
	From        string  `xml:"from,omitempty"`
	To          string  `xml:"to,omitempty"`
	Amount      *Amount `xml:"amount,omitempty"`
	Canonical   string  `xml:"canonical,omitempty"`
	Error       string  `xml:"error,omitempty"`
}

// Amount is a source amount with its currency.
type Amount struct {
	Currency string `xml:"currency,attr"`
	Value    string `xml:",chardata"`
}

// =============================================================================
// REPORT BUILDING
// =============================================================================

// BuildReport converts a pipeline result into a report document.
//
// PARAMETERS:
//   - result: The pipeline result.
//   - runID: Identifier of the run, written as an attribute.
//   - target: The canonical currency.
//   - now: The generation time.
func BuildReport(result converter.Result, runID, target string, now time.Time) Report {
	stats := result.Stats
	report := Report{
		RunID:          runID,
		GeneratedAt:    now.Format(time.RFC3339),
		TargetCurrency: target,
		Summary: Summary{
			Total:       stats.RecordsProcessed,
			Resolved:    stats.RecordsProcessed - stats.Failed(),
			Converted:   stats.Converted,
			Passthrough: stats.Passthrough,
			Failed:      stats.Failed(),
			Sum:         result.Sum().StringFixed(2),
		},
		Transactions: make([]Transaction, 0, len(result.Records)),
	}

	for i, rr := range result.Records {
		report.Transactions = append(report.Transactions, buildTransaction(i+1, rr))
	}
	return report
}

func buildTransaction(n int, rr converter.RecordResult) Transaction {
	record := rr.Record
	tx := Transaction{N: n}

	if id, ok := record[types.FieldID]; ok && id != nil {
		tx.ID = fmt.Sprint(id)
	}
	if date, ok := record.String(types.FieldDate); ok {
		if formatted, err := widget.FormatDate(date); err == nil {
			tx.Date = formatted
		} else {
			tx.Date = date
		}
	}
	tx.Description, _ = record.String(types.FieldDescription)
	tx.From = maskedField(record, types.FieldFrom)
	tx.To = maskedField(record, types.FieldTo)

	if rr.Original != nil {
		tx.Amount = &Amount{
			Currency: rr.Original.CurrencyCode,
			Value:    rr.Original.Amount.String(),
		}
	}

	if rr.Err != nil {
		tx.Error = rr.Err.Error()
	} else {
		tx.Canonical = rr.Canonical.StringFixed(2)
	}
	return tx
}

func maskedField(record types.Record, field string) string {
	value, ok := record.String(field)
	if !ok {
		return ""
	}
	masked, err := widget.MaskAccountCard(value)
	if err != nil {
		return ""
	}
	return masked
}

// =============================================================================
// XML GENERATION
// =============================================================================

// Generate renders the report as XML.
func Generate(report Report, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	enc := xml.NewEncoder(&buffer)
	enc.Indent("", options.Indent)
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	buffer.WriteByte('\n')

	return buffer.Bytes(), nil
}

// WriteFile renders the report and writes it to path.
func WriteFile(path string, report Report, options GenerateOptions) error {
	data, err := Generate(report, options)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
