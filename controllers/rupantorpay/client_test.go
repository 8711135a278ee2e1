package rupantorpayControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanetx/Next-v/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.Config{
		BaseURL:         "https://shop.example.com",
		RupantorAPIKey:  "test-key",
		RupantorAPIURL:  srv.URL,
		RupantorTimeout: 2 * time.Second,
	})
}

func TestCreatePaymentSendsAuthHeaders(t *testing.T) {
	var gotAPIKey, gotClient string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-API-KEY")
		gotClient = r.Header.Get("X-CLIENT")
		assert.Equal(t, "/checkout", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"status":      1,
			"message":     "ok",
			"payment_url": "https://pay.example.com/abc",
		})
	})

	resp, err := client.CreatePayment(CheckoutRequest{Fullname: "Rahim", Email: "r@x.com", Amount: "4450"})
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "shop.example.com", gotClient)
	assert.True(t, bool(resp.Status))
	assert.Equal(t, "https://pay.example.com/abc", resp.PaymentURL)
}

func TestCreatePaymentProviderFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid API key",
		})
	})

	_, err := client.CreatePayment(CheckoutRequest{Fullname: "Rahim", Email: "r@x.com", Amount: "10"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestCreatePaymentEmptyURL(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": 1, "message": "ok"})
	})

	_, err := client.CreatePayment(CheckoutRequest{Fullname: "Rahim", Email: "r@x.com", Amount: "10"})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreatePaymentHTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CreatePayment(CheckoutRequest{Fullname: "Rahim", Email: "r@x.com", Amount: "10"})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestVerifyPaymentCompleted(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify-payment", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "TXN123", body["transaction_id"])
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "COMPLETED",
			"fullname":       "Rahim",
			"email":          "r@x.com",
			"amount":         "4450",
			"transaction_id": "TXN123",
			"trx_id":         "BKASH789",
			"currency":       "BDT",
			"payment_method": "bkash",
			"metadata":       map[string]any{"orderId": "ORD01ABC"},
		})
	})

	resp, err := client.VerifyPayment("TXN123")
	require.NoError(t, err)

	assert.True(t, IsPaymentSuccessful(resp))
	assert.Equal(t, "ORD01ABC", resp.Metadata.OrderID)
	assert.Equal(t, "BKASH789", resp.TrxID)
}

func TestVerifyPaymentPendingNotSuccessful(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "PENDING",
			"transaction_id": "TXN123",
		})
	})

	resp, err := client.VerifyPayment("TXN123")
	require.NoError(t, err)
	assert.False(t, IsPaymentSuccessful(resp))
}

func TestIsPaymentSuccessfulNil(t *testing.T) {
	assert.False(t, IsPaymentSuccessful(nil))
}

func TestFlagDecoding(t *testing.T) {
	var f Flag
	require.NoError(t, json.Unmarshal([]byte("1"), &f))
	assert.True(t, bool(f))
	require.NoError(t, json.Unmarshal([]byte("true"), &f))
	assert.True(t, bool(f))
	require.NoError(t, json.Unmarshal([]byte("false"), &f))
	assert.False(t, bool(f))
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &f))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "4450", FormatAmount(4450))
	assert.Equal(t, "4450.5", FormatAmount(4450.50))
	assert.Equal(t, "0.99", FormatAmount(0.99))
}
