package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openmall/order-api-server/internal/domains/orders/ports"
)

var _ ports.PaymentGateway = (*Client)(nil)

// Client talks to the payment provider's unified-order endpoint to create
// payment intents for finalized orders.
type Client struct {
	baseURL    string
	appID      string
	merchantID string
	httpClient *http.Client
}

// Option configures the payment client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient instantiates the payment gateway client with sane defaults.
func NewClient(baseURL, appID, merchantID string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("payment gateway base URL is required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      strings.TrimSpace(appID),
		merchantID: strings.TrimSpace(merchantID),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type intentRequestBody struct {
	AppID       string `json:"app_id"`
	MerchantID  string `json:"merchant_id"`
	OutTradeNo  string `json:"out_trade_no"`
	TotalAmount string `json:"total_amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type intentResponseBody struct {
	PrepayID  string `json:"prepay_id"`
	NonceStr  string `json:"nonce_str"`
	Signature string `json:"sign"`
	Timestamp int64  `json:"timestamp"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// CreateIntent asks the provider for a prepay reference covering the order's
// charged amount. A 2xx answer without a reference is still a failure.
func (c *Client) CreateIntent(ctx context.Context, request ports.IntentRequest) (*ports.PaymentIntent, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("payment client not configured")
	}
	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("intent amount must be positive, got %s", request.Amount)
	}

	body, err := json.Marshal(intentRequestBody{
		AppID:       c.appID,
		MerchantID:  c.merchantID,
		OutTradeNo:  fmt.Sprintf("order-%d", request.OrderID),
		TotalAmount: request.Amount.StringFixed(2),
		Currency:    request.Currency,
		Description: request.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("encode intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/pay/transactions/unified", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	var decoded intentResponseBody
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, fmt.Errorf("decode gateway response: %w", err)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("payment gateway error: %s", gatewayMessage(decoded, resp.Status))
	}
	if strings.TrimSpace(decoded.PrepayID) == "" {
		return nil, ports.ErrIntentReferenceMissing
	}

	return &ports.PaymentIntent{
		OrderID:   request.OrderID,
		Reference: decoded.PrepayID,
		Signature: decoded.Signature,
		Nonce:     decoded.NonceStr,
		Timestamp: decoded.Timestamp,
	}, nil
}

func gatewayMessage(body intentResponseBody, fallback string) string {
	if msg := strings.TrimSpace(body.Message); msg != "" {
		if code := strings.TrimSpace(body.Code); code != "" {
			return fmt.Sprintf("%s: %s", code, msg)
		}
		return msg
	}
	return fallback
}
