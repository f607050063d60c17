// internal/upstream/client_test.go
package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewClient(config.UpstreamConfig{
		BaseURL: server.URL,
		Token:   "secret-token",
		Timeout: 5 * time.Second,
	}, logger)
}

func TestCouponStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/coupon/status", r.URL.Path)
		// Coupon checks are not privileged
		assert.Empty(t, r.Header.Get("Authorization"))

		var req CouponStatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SAVE10", req.Coupon)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"coupon": map[string]interface{}{
				"code":     "SAVE10",
				"discount": 10,
				"expiry":   time.Now().Add(time.Hour).Format(time.RFC3339),
			},
		})
	})

	resp, err := client.CouponStatus(context.Background(), "SAVE10")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "SAVE10", resp.Coupon.Code)
}

func TestCreateOrderSendsBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/create-order", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1080), req.Amount)
		require.Len(t, req.Products, 1)
		assert.Equal(t, "p1", req.Products[0].ProductID)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"orderId": "ord-42",
		})
	})

	resp, err := client.CreateOrder(context.Background(), &CreateOrderRequest{
		Products:       []DraftItem{{ProductID: "p1", Quantity: 2}},
		ShippingMethod: "Standard",
		Amount:         1080,
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "ord-42", resp.OrderID)
}

func TestVerifyPaymentForwardsTokenTriple(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/verify-payment", r.URL.Path)

		var req VerifyPaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pay_1", req.RazorpayPaymentID)
		assert.Equal(t, "order_1", req.RazorpayOrderID)
		assert.Equal(t, "sig_1", req.RazorpaySignature)

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	resp, err := client.VerifyPayment(context.Background(), &VerifyPaymentRequest{
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_1",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestTrackOrderEscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/track-order", r.URL.Path)
		assert.Equal(t, "ord/1 2", r.URL.Query().Get("orderId"))

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	resp, err := client.TrackOrder(context.Background(), "ord/1 2")

	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestCatalogEndpoints(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  true,
			"products": []map[string]interface{}{{"id": "p1", "title": "Test"}},
		})
	})
	ctx := context.Background()

	resp, err := client.AllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/product/all", gotPath)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "p1", resp.Products[0].ID)

	_, err = client.ProductsByCategory(ctx, "snacks")
	require.NoError(t, err)
	assert.Equal(t, "/product/category/snacks", gotPath)

	_, err = client.SearchProducts(ctx, "chips")
	require.NoError(t, err)
	assert.Equal(t, "/product/search", gotPath)
}

func TestErrorStatusBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	_, err := client.AllProducts(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "upstream exploded")
}

func TestMalformedResponseBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.AllProducts(context.Background())

	assert.Error(t, err)
}
