// internal/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
)

// APIError is a non-2xx response from the commerce API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream API call failed with status %d: %s", e.StatusCode, e.Body)
}

// Client is the typed HTTP client for the commerce API the gateway
// fronts. Privileged calls carry the configured bearer token; public
// catalog reads do not.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient creates an upstream client from configuration
func NewClient(cfg config.UpstreamConfig, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CouponStatus checks a coupon code
func (c *Client) CouponStatus(ctx context.Context, code string) (*CouponStatusResponse, error) {
	var resp CouponStatusResponse
	err := c.call(ctx, http.MethodPost, "/coupon/status", false, CouponStatusRequest{Coupon: code}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrder submits an order draft and returns the pending order ID
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	err := c.call(ctx, http.MethodPost, "/orders/create-order", true, req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyPayment forwards a payment callback token triple for
// verification. The gateway never trusts the triple itself.
func (c *Client) VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	var resp VerifyPaymentResponse
	err := c.call(ctx, http.MethodPost, "/orders/verify-payment", true, req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// TrackOrder fetches an order with its status history
func (c *Client) TrackOrder(ctx context.Context, orderID string) (*TrackOrderResponse, error) {
	var resp TrackOrderResponse
	path := "/orders/track-order?orderId=" + url.QueryEscape(orderID)
	err := c.call(ctx, http.MethodGet, path, true, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AllProducts fetches the full catalog listing
func (c *Client) AllProducts(ctx context.Context) (*ProductListResponse, error) {
	var resp ProductListResponse
	err := c.call(ctx, http.MethodGet, "/product/all", false, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProductsByCategory fetches listings for one category slug
func (c *Client) ProductsByCategory(ctx context.Context, slug string) (*ProductListResponse, error) {
	var resp ProductListResponse
	err := c.call(ctx, http.MethodGet, "/product/category/"+url.PathEscape(slug), false, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchProducts fetches listings matching a keyword
func (c *Client) SearchProducts(ctx context.Context, keyword string) (*ProductListResponse, error) {
	var resp ProductListResponse
	path := "/product/search?keyword=" + url.QueryEscape(keyword)
	err := c.call(ctx, http.MethodGet, path, false, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// call makes an HTTP request to the commerce API and decodes the JSON
// response into out.
func (c *Client) call(ctx context.Context, method, path string, privileged bool, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if privileged && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call upstream API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"latency":     time.Since(start).String(),
	}).Debug("Upstream API call completed")

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse upstream response: %w", err)
		}
	}
	return nil
}
