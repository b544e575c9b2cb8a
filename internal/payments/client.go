// AngelaMos | 2026
// client.go

package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gemfluence/backend/internal/config"
)

const defaultTimeout = 10 * time.Second

// Client talks to the payment gateway over JSON HTTP with bearer
// secret-key auth.
type Client struct {
	baseURL   string
	secretKey string
	currency  string
	http      *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		currency:  cfg.Currency,
		http:      &http.Client{Timeout: timeout},
	}
}

type chargeRequest struct {
	Amount        int               `json:"amount"`
	Currency      string            `json:"currency"`
	PaymentMethod string            `json:"payment_method"`
	Confirm       bool              `json:"confirm"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type intentRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type gatewayError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Charge performs an immediate charge against a stored payment method.
// amountMinor is in the currency's minor unit (cents).
func (c *Client) Charge(
	ctx context.Context,
	amountMinor int,
	paymentMethodID string,
	metadata map[string]string,
) (string, error) {
	body := chargeRequest{
		Amount:        amountMinor,
		Currency:      c.currency,
		PaymentMethod: paymentMethodID,
		Confirm:       true,
		Metadata:      metadata,
	}

	var resp chargeResponse
	if err := c.post(ctx, "/v1/payment_intents", body, &resp); err != nil {
		return "", err
	}

	return resp.ID, nil
}

// CreateIntent opens a client-confirmed payment flow and returns the
// client secret the frontend uses to complete it.
func (c *Client) CreateIntent(
	ctx context.Context,
	amountMinor int,
) (string, error) {
	body := intentRequest{
		Amount:   amountMinor,
		Currency: c.currency,
	}

	var resp intentResponse
	if err := c.post(ctx, "/v1/payment_intents", body, &resp); err != nil {
		return "", err
	}

	return resp.ClientSecret, nil
}

func (c *Client) post(
	ctx context.Context,
	path string,
	body, out any,
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var gwErr gatewayError
		if json.Unmarshal(raw, &gwErr) == nil && gwErr.Error.Message != "" {
			return fmt.Errorf(
				"payment gateway status %d: %s",
				res.StatusCode,
				gwErr.Error.Message,
			)
		}
		return fmt.Errorf("payment gateway status %d", res.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}

	return nil
}
