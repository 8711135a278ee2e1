package rupantorpayControllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/raihanetx/Next-v/config"
	"github.com/raihanetx/Next-v/models"
)

// ErrProvider marks failures talking to RupantorPay: unreachable,
// non-200, or an explicit status:false response. Handlers map it to 502.
// Verification is never faked when the call fails.
var ErrProvider = errors.New("rupantorpay request failed")

// StatusCompleted is the only provider status that counts as paid.
const StatusCompleted = "COMPLETED"

// Client wraps RupantorPay's checkout-creation and verification API.
type Client struct {
	apiKey     string
	baseURL    string
	clientHost string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	host := cfg.BaseURL
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return &Client{
		apiKey:     cfg.RupantorAPIKey,
		baseURL:    cfg.RupantorAPIURL,
		clientHost: host,
		httpClient: &http.Client{Timeout: cfg.RupantorTimeout},
	}
}

// CheckoutRequest is the provider's payment-creation payload.
type CheckoutRequest struct {
	Fullname   string   `json:"fullname"`
	Email      string   `json:"email"`
	Amount     string   `json:"amount"`
	SuccessURL string   `json:"success_url"`
	CancelURL  string   `json:"cancel_url"`
	WebhookURL string   `json:"webhook_url,omitempty"`
	Metadata   Metadata `json:"metadata,omitempty"`
}

// Metadata rides along with the payment and comes back on verification.
// It is the only channel carrying the order through the gateway.
type Metadata struct {
	OrderID      string              `json:"orderId"`
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
	Items        []MetadataItem      `json:"items"`
	Timestamp    string              `json:"timestamp,omitempty"`
}

type MetadataItem struct {
	ProductID uint                   `json:"productId"`
	Name      string                 `json:"name"`
	Quantity  int                    `json:"quantity"`
	Pricing   models.PricingSnapshot `json:"pricing"`
}

// CheckoutResponse is the provider's creation response. Status is 1 on
// success and false on failure, so it needs a tolerant decoder.
type CheckoutResponse struct {
	Status     Flag   `json:"status"`
	Message    string `json:"message"`
	PaymentURL string `json:"payment_url"`
}

// Flag decodes the provider's bool-or-number status field.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		return fmt.Errorf("unexpected status value %s", data)
	}
	return nil
}

// VerifyResponse is the provider's canonical transaction record.
type VerifyResponse struct {
	Status        string   `json:"status"` // COMPLETED, PENDING or ERROR
	Fullname      string   `json:"fullname"`
	Email         string   `json:"email"`
	Amount        string   `json:"amount"`
	TransactionID string   `json:"transaction_id"`
	TrxID         string   `json:"trx_id"`
	Currency      string   `json:"currency"`
	PaymentMethod string   `json:"payment_method"`
	Metadata      Metadata `json:"metadata"`
}

func (c *Client) post(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var resp *http.Response
	// One retry on transport errors only; HTTP-level failures are final.
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-API-KEY", c.apiKey)
		req.Header.Set("X-CLIENT", c.clientHost)

		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}
		if attempt == 1 {
			return fmt.Errorf("%w: %v", ErrProvider, err)
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d: %s", ErrProvider, resp.StatusCode, raw)
	}

	// Error responses carry status:false with a message regardless of
	// which endpoint was called.
	var probe struct {
		Status  json.RawMessage `json:"status"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: parsing response: %v", ErrProvider, err)
	}
	if string(probe.Status) == "false" {
		msg := probe.Message
		if msg == "" {
			msg = "provider returned failure"
		}
		return fmt.Errorf("%w: %s", ErrProvider, msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: parsing response: %v", ErrProvider, err)
	}
	return nil
}

// CreatePayment asks the provider for a hosted checkout and returns the
// redirect URL the customer's browser is sent to.
func (c *Client) CreatePayment(req CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.post("/checkout", req, &resp); err != nil {
		return nil, err
	}
	if resp.PaymentURL == "" {
		return nil, fmt.Errorf("%w: empty payment URL", ErrProvider)
	}
	return &resp, nil
}

// VerifyPayment fetches the provider's transaction record. Callers
// decide success strictly via IsPaymentSuccessful.
func (c *Client) VerifyPayment(transactionID string) (*VerifyResponse, error) {
	var resp VerifyResponse
	payload := map[string]string{"transaction_id": transactionID}
	if err := c.post("/verify-payment", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IsPaymentSuccessful is true only for COMPLETED. PENDING, ERROR or a
// missing status never count as paid.
func IsPaymentSuccessful(resp *VerifyResponse) bool {
	return resp != nil && resp.Status == StatusCompleted
}

// FormatAmount renders an amount the way the provider expects: whole
// numbers unadorned, fractional amounts with minimal decimal digits.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
