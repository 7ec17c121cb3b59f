// Package gateway is the payment gateway client. Orders are registered with
// the gateway before checkout and payment callbacks are verified against the
// gateway's HMAC signature.
package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/dlatelier/storefront/config"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/http"
	"github.com/dlatelier/storefront/pkg/logger"
)

// Order is a gateway-side order as returned by the create call.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to the payment gateway's REST API.
type Client struct {
	baseURL string
	key     string
	secret  string
}

// NewClient builds a client with explicit credentials. Tests use this to
// avoid touching global config.
func NewClient(baseURL, key, secret string) *Client {
	return &Client{baseURL: baseURL, key: key, secret: secret}
}

var (
	mu      sync.RWMutex
	current *Client
)

// Init (re)builds the shared client from configuration. Call at boot after
// config is loaded, and again if gateway credentials change.
func Init() {
	key := config.GatewayKey()
	secret := config.GatewaySecret()
	if key == "" || secret == "" {
		logger.Warn("gateway: credentials not configured, order creation will fail upstream")
	}

	mu.Lock()
	current = NewClient(config.GatewayBaseURL(), key, secret)
	mu.Unlock()
}

// Reset drops the shared client so the next Default rebuilds it. Used by
// tests between credential changes.
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}

// Default returns the shared client, building it from config on first use.
func Default() *Client {
	mu.RLock()
	c := current
	mu.RUnlock()
	if c != nil {
		return c
	}

	Init()

	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Key returns the publishable key identifying this merchant. Checkout
// responses hand it to the frontend for the payment widget.
func (c *Client) Key() string { return c.key }

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder registers an order for the given minor-unit amount and returns
// the gateway's order record.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	if amountMinor <= 0 {
		return nil, apperr.New(apperr.InvalidInput, "Order amount must be positive")
	}

	resp, err := http.Post(c.baseURL+"/orders").
		BasicAuth(c.key, c.secret).
		JSON(createOrderRequest{Amount: amountMinor, Currency: currency, Receipt: receipt}).
		Timeout(15 * time.Second).
		Retry(1).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "Payment gateway unreachable")
	}
	if !resp.OK() {
		return nil, apperr.New(apperr.Upstream, "Payment gateway rejected order (status %d)", resp.StatusCode)
	}

	var order Order
	if err := resp.JSON(&order); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "Payment gateway returned malformed order")
	}
	if order.ID == "" {
		return nil, apperr.New(apperr.Upstream, "Payment gateway returned empty order id")
	}
	return &order, nil
}

// VerifySignature checks the callback signature for the given order and
// payment identifiers.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(orderID, paymentID, signature, c.secret)
}
