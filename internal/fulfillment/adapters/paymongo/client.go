package paymongo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

const defaultTimeout = 30 * time.Second

// Client talks to the PayMongo REST API. Each method is one round trip;
// retries belong to the caller.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// Config carries the provider connection settings.
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// NewClient constructs a PayMongo API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type apiEnvelope struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status     string `json:"status"`
			NextAction struct {
				Redirect struct {
					URL string `json:"url"`
				} `json:"redirect"`
			} `json:"next_action"`
			Payments []struct {
				Attributes struct {
					Status string `json:"status"`
				} `json:"attributes"`
			} `json:"payments"`
		} `json:"attributes"`
	} `json:"data"`
}

type apiError struct {
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// CreateIntent provisions a payment intent for a GCash payment and returns
// its id.
func (c *Client) CreateIntent(ctx context.Context, req ports.IntentRequest) (string, error) {
	payload := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"amount":                 req.AmountCents,
				"payment_method_allowed": []string{"gcash"},
				"currency":               req.Currency,
				"description":            req.Description,
				"metadata":               req.Metadata,
			},
		},
	}

	body, _, err := c.post(ctx, "/v1/payment_intents", payload)
	if err != nil {
		return "", err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", apperrors.NewGatewayError(apperrors.GatewayTransient, "malformed intent response", 0, err)
	}
	if envelope.Data.ID == "" {
		return "", apperrors.NewGatewayError(apperrors.GatewayTransient, "intent response missing id", 0, nil)
	}

	return envelope.Data.ID, nil
}

// CreatePaymentMethod registers a GCash payment method carrying the
// customer's billing details and returns its id.
func (c *Client) CreatePaymentMethod(ctx context.Context, billing ports.BillingInfo) (string, error) {
	payload := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"type": "gcash",
				"billing": map[string]any{
					"name":  billing.FullName,
					"email": billing.Email,
					"phone": billing.Phone,
				},
			},
		},
	}

	body, _, err := c.post(ctx, "/v1/payment_methods", payload)
	if err != nil {
		return "", err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", apperrors.NewGatewayError(apperrors.GatewayTransient, "malformed payment method response", 0, err)
	}
	if envelope.Data.ID == "" {
		return "", apperrors.NewGatewayError(apperrors.GatewayTransient, "payment method response missing id", 0, nil)
	}

	return envelope.Data.ID, nil
}

// Attach binds a payment method to an intent and returns the redirect URL
// the customer must visit to authorize the payment.
func (c *Client) Attach(ctx context.Context, intentID, methodID, returnURL string) (*ports.AttachResult, error) {
	payload := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"payment_method": methodID,
				"return_url":     returnURL,
			},
		},
	}

	body, _, err := c.post(ctx, "/v1/payment_intents/"+intentID+"/attach", payload)
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewGatewayError(apperrors.GatewayTransient, "malformed attach response", 0, err)
	}

	return &ports.AttachResult{
		RedirectURL: envelope.Data.Attributes.NextAction.Redirect.URL,
		RawResponse: string(body),
	}, nil
}

// IntentStatus fetches the current state of an intent. When the intent has
// already spawned a payment, the latest payment's status is authoritative.
func (c *Client) IntentStatus(ctx context.Context, intentID string) (*ports.IntentState, error) {
	body, err := c.get(ctx, "/v1/payment_intents/"+intentID)
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewGatewayError(apperrors.GatewayTransient, "malformed intent status response", 0, err)
	}

	status := envelope.Data.Attributes.Status
	if payments := envelope.Data.Attributes.Payments; len(payments) > 0 {
		if latest := payments[len(payments)-1].Attributes.Status; latest != "" {
			status = latest
		}
	}

	return &ports.IntentState{Status: status, RawResponse: string(body)}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authHeader())

	body, status, err := c.do(req)
	return body, status, err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())

	body, _, err := c.do(req)
	return body, err
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, apperrors.NewGatewayError(apperrors.GatewayTransient, "provider unreachable", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apperrors.NewGatewayError(apperrors.GatewayTransient, "read provider response", resp.StatusCode, err)
	}

	if resp.StatusCode >= 500 {
		return nil, resp.StatusCode, apperrors.NewGatewayError(apperrors.GatewayTransient,
			"provider error: "+errorDetail(body), resp.StatusCode, nil)
	}
	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, apperrors.NewGatewayError(apperrors.GatewayClientError,
			"provider rejected request: "+errorDetail(body), resp.StatusCode, nil)
	}

	return body, resp.StatusCode, nil
}

func (c *Client) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.secretKey+":"))
}

func errorDetail(body []byte) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return parsed.Errors[0].Detail
	}
	return "no detail provided"
}
