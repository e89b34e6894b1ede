//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/openmall/order-api-server/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderLinePayload struct {
	ID             int64  `json:"id"`
	VariantID      int64  `json:"variantId"`
	ProductName    string `json:"productName"`
	Quantity       int32  `json:"quantity"`
	UnitPriceGross string `json:"unitPriceGross"`
}

type orderPayload struct {
	ID           int64              `json:"id"`
	Status       string             `json:"status"`
	ChargeStatus string             `json:"chargeStatus"`
	UserID       int64              `json:"userId"`
	Currency     string             `json:"currency"`
	TotalNet     string             `json:"totalNet"`
	TotalGross   string             `json:"totalGross"`
	Lines        []orderLinePayload `json:"lines"`
}

type supplierPayload struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	orderBodyMatcher := matchers.Map{
		"id":           matchers.Like(pacttest.ExistingOrderID),
		"status":       matchers.Term("unpaid", "unpaid|paid|fulfilled|canceled"),
		"chargeStatus": matchers.Term("none", "none|partial|full|overcharged"),
		"userId":       matchers.Like(pacttest.ExampleUserID),
		"currency":     matchers.Like(pacttest.ExampleCurrency),
		"totalNet":     matchers.Regex("10.00", `\d+\.\d{2}`),
		"totalGross":   matchers.Regex("10.00", `\d+\.\d{2}`),
		"lines": matchers.ArrayMinLike(matchers.Map{
			"id":             matchers.Like(int64(1)),
			"variantId":      matchers.Like(int64(100)),
			"productName":    matchers.Like(pacttest.ExampleProductName),
			"quantity":       matchers.Like(1),
			"unitPriceGross": matchers.Regex("10.00", `\d+\.\d{2}`),
		}, 1),
	}
	supplierBodyMatcher := matchers.Map{
		"id":     matchers.Like(pacttest.ExistingSupplierID),
		"name":   matchers.Like("Keyboard Works"),
		"email":  matchers.Like("orders@keyboardworks.example"),
		"active": matchers.Like(true),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.ExistingOrderID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateSuppliersBase).
		UponReceiving("a request to register a supplier").
		WithRequest("POST", "/v1/suppliers", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"name":  matchers.Like("Keyboard Works"),
				"email": matchers.Like("orders@keyboardworks.example"),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(supplierBodyMatcher)
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched == nil || fetched.ID == 0 {
			return fmt.Errorf("expected order id to be set, got %+v", fetched)
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); err == nil {
			return fmt.Errorf("expected 404 for order %d", pacttest.MissingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		created, err := client.CreateSupplier(ctx, supplierPayload{
			Name:  "Keyboard Works",
			Email: "orders@keyboardworks.example",
		})
		if err != nil {
			return fmt.Errorf("create supplier: %w", err)
		}
		if created == nil || created.ID == 0 || !created.Active {
			return fmt.Errorf("expected active supplier with id, got %+v", created)
		}

		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *orderClient) GetOrder(ctx context.Context, id int64) (*orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/orders/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload orderPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *orderClient) CreateSupplier(ctx context.Context, supplier supplierPayload) (*supplierPayload, error) {
	body, err := json.Marshal(supplier)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/suppliers", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload supplierPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
