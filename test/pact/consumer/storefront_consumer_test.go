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

	pacttest "github.com/Apurer/go-gin-commerce-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	UnitsInStock int     `json:"unitsInStock"`
}

type orderItemPayload struct {
	ID             int64   `json:"id,omitempty"`
	ProductID      int64   `json:"productId"`
	Quantity       int     `json:"quantity"`
	OrderItemPrice float64 `json:"orderItemPrice,omitempty"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status      int
	problemType string
	title       string
	detail      string
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

func TestStorefrontContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	requestProduct := productPayload{
		Name:         pacttest.ExampleProductName,
		Price:        pacttest.ExampleProductPrice,
		UnitsInStock: pacttest.ExampleProductStock,
	}
	productBodyMatcher := matchers.Map{
		"id":           matchers.Like(pacttest.ExistingProductID),
		"name":         matchers.Like(requestProduct.Name),
		"price":        matchers.Like(requestProduct.Price),
		"unitsInStock": matchers.Like(requestProduct.UnitsInStock),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.Regex("application/problem+json", "application\\/problem\\+json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateProductsBaseline).
		UponReceiving("a request to create a product").
		WithRequest("POST", "/api/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleProductPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductInStock).
		UponReceiving("a request to fetch an existing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductInStock).
		UponReceiving("a request to reserve more units than are in stock").
		WithRequest("POST", "/api/order-items", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"productId": pacttest.ExistingProductID, "quantity": pacttest.ExampleProductStock + 1})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/insufficient-stock"),
				"title":  matchers.S("Insufficient Stock"),
				"status": matchers.Like(http.StatusBadRequest),
				"detail": matchers.Like("insufficient stock: Not enough units in stock for product: " + pacttest.ExampleProductName),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newCommerceClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created := &productPayload{}
		if err := client.do(ctx, http.MethodPost, "/api/products", requestProduct, created); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if created.ID == 0 {
			return fmt.Errorf("expected created product ID to be set")
		}

		fetched := &productPayload{}
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", pacttest.ExistingProductID), nil, fetched); err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if fetched.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product id %d, got %+v", pacttest.ExistingProductID, fetched)
		}

		err := client.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", pacttest.MissingProductID), nil, &productPayload{})
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for product %d, got %v", pacttest.MissingProductID, err)
		}

		reserve := orderItemPayload{ProductID: pacttest.ExistingProductID, Quantity: pacttest.ExampleProductStock + 1}
		err = client.do(ctx, http.MethodPost, "/api/order-items", reserve, &orderItemPayload{})
		if apiErr, ok := err.(apiError); !ok || apiErr.problemType != "/problems/insufficient-stock" {
			return fmt.Errorf("expected insufficient stock problem, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type commerceClient struct {
	baseURL    string
	httpClient *http.Client
}

func newCommerceClient(config pactconsumer.MockServerConfig) *commerceClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &commerceClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *commerceClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status:      status,
		problemType: problem.Type,
		title:       problem.Title,
		detail:      problem.Detail,
	}
}
