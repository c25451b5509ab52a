package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Errors surfaced to the finalization workflow. Callers must not create a
// local order when creation fails, and must leave the order PENDING when
// verification fails.
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrSignatureInvalid   = errors.New("payment signature verification failed")
)

const devOrderIDPrefix = "fake_"

// Client wraps the remote payment gateway's order lifecycle. With no
// credentials configured it runs in development mode: CreateOrder mints a
// local placeholder ID instead of calling the remote service.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway client. An empty baseURL selects the
// production endpoint; the HTTP client carries a bounded timeout so a
// hung gateway call cannot stall a checkout indefinitely.
func NewClient(keyID, keySecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientFromEnv reads GATEWAY_KEY_ID / GATEWAY_KEY_SECRET /
// GATEWAY_BASE_URL. Missing credentials are allowed and put the client in
// development mode.
func NewClientFromEnv() *Client {
	return NewClient(
		os.Getenv("GATEWAY_KEY_ID"),
		os.Getenv("GATEWAY_KEY_SECRET"),
		os.Getenv("GATEWAY_BASE_URL"),
	)
}

// Configured reports whether real gateway credentials are present.
func (c *Client) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// KeyID is exposed for checkout responses (the frontend widget needs it).
func (c *Client) KeyID() string {
	return c.keyID
}

// IsDevOrderID reports whether an order ID was minted locally in
// development mode rather than by the remote gateway.
func IsDevOrderID(id string) bool {
	return strings.HasPrefix(id, devOrderIDPrefix)
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"` // minor currency units
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder creates a remote payment intent for the given amount in
// minor currency units and returns the remote order ID. Any transport or
// gateway failure is reported as ErrGatewayUnavailable; the caller must
// not persist anything in that case.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	if !c.Configured() {
		id := devOrderIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		log.Printf("payments: no gateway credentials configured, issuing development order ID %s", id)
		return id, nil
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:         amountMinor,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return "", fmt.Errorf("encode gateway order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gateway order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: gateway returned %d: %s", ErrGatewayUnavailable, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode gateway response: %v", ErrGatewayUnavailable, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: gateway response missing order id", ErrGatewayUnavailable)
	}

	return out.ID, nil
}

// VerifySignature checks the payment signature the gateway handed to the
// client after checkout. The expected value is HMAC-SHA256 over
// "<orderID>|<paymentID>" keyed with the shared secret, hex encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}
