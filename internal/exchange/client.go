// =============================================================================
// Transaction Widget - Exchange Client Module
// =============================================================================
//
// This module is a minimal client for the exchange-rate conversion service.
// One Convert call issues exactly one HTTP GET request:
//
//   GET <base>?from=USD&to=RUB&amount=100
//   apikey: <API_KEY>
//
//   {"success": true,  "result": 7500.5}
//   {"success": false, "error": {"info": "Invalid key"}}
//
// =============================================================================

package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultBaseURL is the conversion endpoint used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.apilayer.com/exchangerates_data/convert"

const (
	apiKeyHeader    = "apikey"
	unknownAPIError = "Unknown error"
)

// Config holds the connection settings for the conversion service.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client converts amounts between currencies through the remote service.
// It holds no state besides its configuration and is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client. A missing credential is not an error here;
// it is reported by Convert before any request is made.
func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type convertResponse struct {
	Success *bool           `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
}

// Convert asks the service to convert amount from one currency to another.
// The returned value is the service's result, unchanged.
func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, newError(ErrConfiguration, from, to, "client is not configured", nil)
	}
	if c.apiKey == "" {
		return decimal.Zero, newError(ErrConfiguration, from, to, "API_KEY is not set", nil)
	}

	endpoint, err := c.endpoint(amount, from, to)
	if err != nil {
		return decimal.Zero, newError(ErrConfiguration, from, to, "invalid exchange url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, newError(ErrNetwork, from, to, "failed to create request", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	c.logger.Debug("exchange request",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("amount", amount.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, newError(ErrNetwork, from, to, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, newError(ErrNetwork, from, to, "failed to read response", err)
	}

	c.logger.Debug("exchange response",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, newError(ErrNetwork, from, to,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	return parseResponse(body, from, to)
}

func (c *Client) endpoint(amount decimal.Decimal, from, to string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", amount.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseResponse(body []byte, from, to string) (decimal.Decimal, error) {
	var payload convertResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, newError(ErrMalformedResponse, from, to, "response is not a JSON object", err)
	}

	if payload.Success == nil {
		return decimal.Zero, newError(ErrMalformedResponse, from, to, "response has no success flag", nil)
	}

	if !*payload.Success {
		return decimal.Zero, newError(ErrConversionFailed, from, to, errorInfo(payload.Error), nil)
	}

	raw := bytes.TrimSpace(payload.Result)
	if !isJSONNumber(raw) {
		return decimal.Zero, newError(ErrMalformedResponse, from, to, "result is not a number", nil)
	}

	result, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, newError(ErrMalformedResponse, from, to, "result is not a number", err)
	}
	return result, nil
}

// errorInfo extracts error.info from a failed response.
func errorInfo(raw json.RawMessage) string {
	var detail struct {
		Info string `json:"info"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &detail) != nil || detail.Info == "" {
		return unknownAPIError
	}
	return detail.Info
}

func isJSONNumber(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	first := raw[0]
	return first == '-' || (first >= '0' && first <= '9')
}
