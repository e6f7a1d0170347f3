package converter

import (
	"context"
	"errors"
	"testing"

	"github.com/ginjaninja78/transaction-widget/internal/exchange"
	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/ginjaninja78/transaction-widget/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type convertCall struct {
	amount   decimal.Decimal
	from, to string
}

type fakeClient struct {
	result decimal.Decimal
	err    error
	calls  []convertCall
}

func (f *fakeClient) Convert(_ context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	f.calls = append(f.calls, convertCall{amount: amount, from: from, to: to})
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.result, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolveRecord_ConvertsUSD(t *testing.T) {
	client := &fakeClient{result: dec("7500.0")}
	resolver := NewResolver(client)

	got, err := resolver.ResolveRecord(context.Background(), types.Record{"amount": "100.0", "currency": "USD"})
	require.NoError(t, err)

	assert.True(t, got.Equal(dec("7500")))
	require.Len(t, client.calls, 1)
	assert.True(t, client.calls[0].amount.Equal(dec("100")))
	assert.Equal(t, "USD", client.calls[0].from)
	assert.Equal(t, "RUB", client.calls[0].to)
}

func TestResolveRecord_RUBPassthrough(t *testing.T) {
	client := &fakeClient{result: dec("1")}
	resolver := NewResolver(client)

	got, err := resolver.ResolveRecord(context.Background(), types.Record{"amount": "1000.0", "currency": "RUB"})
	require.NoError(t, err)

	assert.True(t, got.Equal(dec("1000")))
	assert.Empty(t, client.calls)
}

func TestResolveRecord_MissingAmountBeforeNetwork(t *testing.T) {
	client := &fakeClient{result: dec("1")}
	resolver := NewResolver(client)

	_, err := resolver.ResolveRecord(context.Background(), types.Record{"currency": "USD"})
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrMissingField)
	assert.Empty(t, client.calls)
}

func TestResolveRecord_InvalidAmountBeforeNetwork(t *testing.T) {
	client := &fakeClient{result: dec("1")}
	resolver := NewResolver(client)

	_, err := resolver.ResolveRecord(context.Background(), types.Record{"amount": "ten", "currency": "EUR"})
	assert.ErrorIs(t, err, validation.ErrInvalidAmountFormat)
	assert.Empty(t, client.calls)
}

func TestResolveRecord_NestedEUR(t *testing.T) {
	client := &fakeClient{result: dec("8123.45")}
	resolver := NewResolver(client)

	record := types.Record{
		"id": 1,
		"operationAmount": map[string]any{
			"amount":   "85.00",
			"currency": map[string]any{"name": "EUR", "code": " eur "},
		},
	}
	got, err := resolver.ResolveRecord(context.Background(), record)
	require.NoError(t, err)

	assert.True(t, got.Equal(dec("8123.45")))
	require.Len(t, client.calls, 1)
	assert.Equal(t, "EUR", client.calls[0].from)
}

func TestResolve_Normalization(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantCalls int
	}{
		{name: "lowercase rub", code: "rub", wantCalls: 0},
		{name: "padded rub", code: " RUB ", wantCalls: 0},
		{name: "lowercase usd", code: "usd", wantCalls: 1},
		{name: "padded eur", code: "\tEur ", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{result: dec("42")}
			resolver := NewResolver(client)

			_, err := resolver.Resolve(context.Background(), dec("1"), tt.code)
			require.NoError(t, err)
			assert.Len(t, client.calls, tt.wantCalls)
		})
	}
}

func TestResolve_ZeroAndNegativeAmounts(t *testing.T) {
	client := &fakeClient{result: dec("-900")}
	resolver := NewResolver(client)

	got, err := resolver.Resolve(context.Background(), decimal.Zero, "RUB")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = resolver.Resolve(context.Background(), dec("-10"), "USD")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("-900")))
	require.Len(t, client.calls, 1)
	assert.True(t, client.calls[0].amount.Equal(dec("-10")))
}

func TestResolve_UnsupportedCurrency(t *testing.T) {
	client := &fakeClient{result: dec("1")}
	resolver := NewResolver(client)

	_, err := resolver.Resolve(context.Background(), dec("10"), "gbp")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
	assert.EqualError(t, err, "Unsupported currency: GBP. Only RUB, USD, EUR are supported")
	assert.Empty(t, client.calls)

	var pErr *PolicyError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "GBP", pErr.Currency)
}

func TestResolve_PreservesClientErrorKind(t *testing.T) {
	kinds := []error{
		exchange.ErrConfiguration,
		exchange.ErrNetwork,
		exchange.ErrMalformedResponse,
		exchange.ErrConversionFailed,
	}

	for _, kind := range kinds {
		t.Run(kind.Error(), func(t *testing.T) {
			client := &fakeClient{err: &exchange.ConversionError{Kind: kind, From: "USD", To: "RUB", Message: "boom"}}
			resolver := NewResolver(client)

			_, err := resolver.Resolve(context.Background(), dec("1"), "USD")
			require.Error(t, err)
			assert.ErrorIs(t, err, kind)
			assert.Contains(t, err.Error(), "USD to RUB conversion failed")

			var convErr *exchange.ConversionError
			require.True(t, errors.As(err, &convErr))
			assert.Equal(t, "boom", convErr.Message)
		})
	}
}

func TestResolve_NoClient(t *testing.T) {
	resolver := NewResolver(nil)

	got, err := resolver.Resolve(context.Background(), dec("5"), "RUB")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("5")))

	_, err = resolver.Resolve(context.Background(), dec("5"), "USD")
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestNewResolver_Options(t *testing.T) {
	client := &fakeClient{result: dec("3")}
	resolver := NewResolver(client,
		WithTargetCurrency("usd"),
		WithConvertibleCurrencies("rub", " ", "gbp"),
	)

	assert.Equal(t, "USD", resolver.Target())
	assert.Equal(t, []string{"USD", "RUB", "GBP"}, resolver.Supported())

	_, err := resolver.Resolve(context.Background(), dec("1"), "GBP")
	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	assert.Equal(t, "USD", client.calls[0].to)

	_, err = resolver.Resolve(context.Background(), dec("1"), "EUR")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestResolveRecord_DoesNotMutateRecord(t *testing.T) {
	client := &fakeClient{result: dec("7500")}
	resolver := NewResolver(client)

	record := types.Record{"amount": "100.0", "currency": " usd "}
	_, err := resolver.ResolveRecord(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, types.Record{"amount": "100.0", "currency": " usd "}, record)
}

func TestResolve_NilExchangeClient(t *testing.T) {
	var client *exchange.Client
	r := NewResolver(client)

	_, err := r.Resolve(context.Background(), decimal.NewFromInt(5), "EUR")
	assert.ErrorIs(t, err, exchange.ErrConfiguration)
	assert.Contains(t, err.Error(), "EUR to RUB conversion failed")
}
