// Package payment integrates the Razorpay gateway: order creation on the
// upgrade path and signature verification on the callback path.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// Gateway is the surface the payment service depends on. The production
// implementation talks to Razorpay; tests substitute a fake.
type Gateway interface {
	// CreateOrder registers an order with the gateway and returns its id.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	// VerifySignature checks the callback triple against the shared secret.
	VerifySignature(orderID, paymentID, signature string) bool
	// KeyID is the public key the checkout widget needs.
	KeyID() string
}

// Config holds the gateway credentials and endpoint.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string        // defaults to the Razorpay API host
	Timeout   time.Duration // defaults to 15s
}

// Client is the HTTP Razorpay client.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a Client with an explicit request timeout; the gateway
// is an external dependency and must never be an unbounded wait.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type orderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt,omitempty"`
	PaymentCapture int    `json:"payment_capture"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder POSTs to /v1/orders and returns the gateway order id.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	body, err := json.Marshal(orderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway order creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Read a bounded amount for the log trail; gateway errors are not client-visible.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gateway order creation failed: status %d: %s", resp.StatusCode, snippet)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("gateway order response malformed: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("gateway order response missing id")
	}
	return order.ID, nil
}

// VerifySignature implements the Razorpay callback scheme:
// hex(HMAC-SHA256(order_id + "|" + payment_id, key_secret)).
// The comparison is constant-time; the callback is adversarial input.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return verifySignature(orderID, paymentID, signature, c.cfg.KeySecret)
}

// KeyID returns the public key id.
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

func verifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
