// =============================================================================
// Transaction Widget - Converter Module
// =============================================================================
//
// This module contains the currency resolution logic. It turns a validated
// operation amount into an amount in the canonical currency, calling the
// external conversion service only when the source currency requires it.
//
// RESOLUTION POLICY:
//   - Target currency (RUB by default): returned unchanged, no network call.
//   - Convertible currencies (USD and EUR by default): exactly one call to
//     the conversion client; its result is returned unchanged.
//   - Any other currency: rejected with ErrUnsupportedCurrency.
//
// CONCURRENCY:
//   A Resolver holds no mutable state and may be shared between goroutines.
//   The Pipeline (pipeline.go) processes records sequentially.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/ginjaninja78/transaction-widget/internal/validation"
	"github.com/shopspring/decimal"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultTargetCurrency is the canonical currency.
const DefaultTargetCurrency = "RUB"

// DefaultConvertibleCurrencies are the currencies converted through the
// exchange service.
var DefaultConvertibleCurrencies = []string{"USD", "EUR"}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnsupportedCurrency is returned for currencies that are neither the
	// target currency nor convertible.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrNoClient is returned when a conversion is needed but the Resolver
	// was built without a client.
	ErrNoClient = errors.New("no conversion client configured")
)

// PolicyError reports a currency rejected by the resolution policy.
type PolicyError struct {
	// Currency is the normalized currency code that was rejected.
	Currency string

	// Supported lists the target currency followed by the convertible ones.
	Supported []string
}

// Error renders the message shown to users, e.g.
// "Unsupported currency: GBP. Only RUB, USD, EUR are supported".
func (e *PolicyError) Error() string {
	return fmt.Sprintf("Unsupported currency: %s. Only %s are supported",
		e.Currency, strings.Join(e.Supported, ", "))
}

// Is matches ErrUnsupportedCurrency.
func (e *PolicyError) Is(target error) bool {
	return target == ErrUnsupportedCurrency
}

// =============================================================================
// CLIENT INTERFACE
// =============================================================================

// Client converts an amount from one currency into another.
// exchange.Client satisfies this interface.
type Client interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver applies the resolution policy to operation amounts.
type Resolver struct {
	client      Client
	target      string
	convertible []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTargetCurrency overrides the canonical currency.
func WithTargetCurrency(code string) Option {
	return func(r *Resolver) {
		if code = validation.NormalizeCurrencyCode(code); code != "" {
			r.target = code
		}
	}
}

// WithConvertibleCurrencies overrides the set of currencies converted through
// the client. Empty codes are ignored.
func WithConvertibleCurrencies(codes ...string) Option {
	return func(r *Resolver) {
		r.convertible = r.convertible[:0]
		for _, code := range codes {
			if code = validation.NormalizeCurrencyCode(code); code != "" {
				r.convertible = append(r.convertible, code)
			}
		}
	}
}

// NewResolver creates a Resolver that uses client for conversions.
//
// PARAMETERS:
//   - client: The conversion client. It is only called for convertible
//     currencies. A nil client makes every conversion fail with ErrNoClient.
//     A nil *exchange.Client is also safe: it reports ErrConfiguration.
//   - opts: Optional overrides for the target and convertible currencies.
func NewResolver(client Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:      client,
		target:      DefaultTargetCurrency,
		convertible: append([]string(nil), DefaultConvertibleCurrencies...),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Target returns the canonical currency code.
func (r *Resolver) Target() string {
	return r.target
}

// Supported returns the target currency followed by the convertible ones.
func (r *Resolver) Supported() []string {
	return append([]string{r.target}, r.convertible...)
}

// Resolve returns amount expressed in the target currency.
//
// RETURNS:
//   - The amount unchanged when code is the target currency.
//   - The client's result when code is convertible. Client errors are
//     wrapped as "<FROM> to <TO> conversion failed: ..." and keep their kind.
//   - A *PolicyError for any other code.
func (r *Resolver) Resolve(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	code = validation.NormalizeCurrencyCode(code)

	if code == r.target {
		return amount, nil
	}

	if !r.isConvertible(code) {
		return decimal.Zero, &PolicyError{Currency: code, Supported: r.Supported()}
	}

	if r.client == nil {
		return decimal.Zero, fmt.Errorf("%s to %s conversion failed: %w", code, r.target, ErrNoClient)
	}

	converted, err := r.client.Convert(ctx, amount, code, r.target)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s to %s conversion failed: %w", code, r.target, err)
	}
	return converted, nil
}

// ResolveRecord validates a raw record and resolves its amount. A validation
// failure is returned before the client is consulted.
func (r *Resolver) ResolveRecord(ctx context.Context, record types.Record) (decimal.Decimal, error) {
	op, err := validation.Validate(record)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Resolve(ctx, op.Amount, op.CurrencyCode)
}

func (r *Resolver) isConvertible(code string) bool {
	return slices.Contains(r.convertible, code)
}
