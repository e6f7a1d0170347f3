package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/transaction-widget/internal/logger"
	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/ginjaninja78/transaction-widget/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a batch of transactions.
type Result struct {
	// Records holds one entry per input record, in input order.
	Records []RecordResult

	// Success is true when every record was resolved.
	Success bool

	// Error is set when processing stopped early, e.g. because the context
	// was cancelled. Per-record failures are reported in Records instead.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// RecordResult is the outcome for a single transaction.
type RecordResult struct {
	// Index is the position of the record in the input.
	Index int

	// Record is the raw input record. It is never modified.
	Record types.Record

	// Original is the validated source amount. It is nil when validation
	// failed.
	Original *validation.OperationAmount

	// Canonical is the amount in the target currency. It is only
	// meaningful when Err is nil.
	Canonical decimal.Decimal

	// Err is the validation, policy or conversion error for this record.
	Err error
}

// OK reports whether the record was resolved.
func (r RecordResult) OK() bool {
	return r.Err == nil
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RecordsProcessed is the number of records handed to the resolver.
	RecordsProcessed int

	// Passthrough is the number of records already in the target currency.
	Passthrough int

	// Converted is the number of records converted through the client.
	Converted int

	// ValidationErrors is the number of malformed records.
	ValidationErrors int

	// UnsupportedCurrencies is the number of records rejected by policy.
	UnsupportedCurrencies int

	// ConversionErrors is the number of records whose conversion failed.
	ConversionErrors int

	// ProcessingTime is the time taken to process the batch.
	ProcessingTime time.Duration
}

// Failed returns the total number of records that were not resolved.
func (s ProcessingStats) Failed() int {
	return s.ValidationErrors + s.UnsupportedCurrencies + s.ConversionErrors
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger is an interface for logging.
// internal/logger provides the zap-backed implementation. Without
// WithLogger a pipeline logs to a no-op zap logger.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// PIPELINE
// =============================================================================

// ResolveFunc resolves one raw record into the target currency.
type ResolveFunc func(ctx context.Context, record types.Record) (decimal.Decimal, error)

// Pipeline resolves a batch of records one after another.
type Pipeline struct {
	resolver *Resolver
	resolve  ResolveFunc
	logger   Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMiddleware wraps the per-record resolve step, e.g. with call logging.
func WithMiddleware(wrap func(ResolveFunc) ResolveFunc) PipelineOption {
	return func(p *Pipeline) {
		if wrap != nil {
			p.resolve = wrap(p.resolve)
		}
	}
}

// NewPipeline creates a Pipeline backed by resolver.
func NewPipeline(resolver *Resolver, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		resolve:  resolver.ResolveRecord,
		logger:   logger.Sugared(zap.NewNop()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run resolves every record in order.
//
// RETURNS:
//   - A Result with one RecordResult per processed record. A failing record
//     does not stop the batch; a cancelled context does.
func (p *Pipeline) Run(ctx context.Context, records []types.Record) Result {
	startTime := time.Now()
	result := Result{
		Records: make([]RecordResult, 0, len(records)),
	}

	p.logger.Info("Resolving %d transactions into %s", len(records), p.resolver.Target())

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			result.Error = fmt.Errorf("processing stopped after %d of %d records: %w", i, len(records), err)
			break
		}

		rr := RecordResult{Index: i, Record: record}
		if op, err := validation.Validate(record); err == nil {
			rr.Original = &op
		}

		rr.Canonical, rr.Err = p.resolve(ctx, record)
		result.Stats.RecordsProcessed++
		p.count(&result.Stats, rr)

		if rr.Err != nil {
			p.logger.Warn("Record %d (id=%v): %v", i, record[types.FieldID], rr.Err)
		} else {
			p.logger.Debug("Record %d (id=%v): %s", i, record[types.FieldID], rr.Canonical.String())
		}

		result.Records = append(result.Records, rr)
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	result.Success = result.Error == nil && result.Stats.Failed() == 0

	p.logger.Info("Resolved %d/%d transactions (%d converted, %d failed) in %v",
		result.Stats.RecordsProcessed-result.Stats.Failed(), len(records),
		result.Stats.Converted, result.Stats.Failed(), result.Stats.ProcessingTime)

	return result
}

func (p *Pipeline) count(stats *ProcessingStats, rr RecordResult) {
	var vErr *validation.ValidationError
	switch {
	case rr.Err == nil && rr.Original != nil && rr.Original.CurrencyCode == p.resolver.Target():
		stats.Passthrough++
	case rr.Err == nil:
		stats.Converted++
	case errors.As(rr.Err, &vErr):
		stats.ValidationErrors++
	case errors.Is(rr.Err, ErrUnsupportedCurrency):
		stats.UnsupportedCurrencies++
	default:
		stats.ConversionErrors++
	}
}

// Sum adds up the canonical amounts of the resolved records.
func (r Result) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, rr := range r.Records {
		if rr.OK() {
			total = total.Add(rr.Canonical)
		}
	}
	return total
}
