package ports

import "context"

// IntentRequest describes the payable intent to provision at the gateway.
type IntentRequest struct {
	AmountCents int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// AttachResult is the outcome of binding a payment method to an intent: the
// URL the customer must visit plus the raw provider response for audit.
type AttachResult struct {
	RedirectURL string
	RawResponse string
}

// IntentState is a point-in-time view of an intent at the gateway.
type IntentState struct {
	Status      string
	RawResponse string
}

// PaymentGateway is the three-step provider protocol plus a status lookup.
// Each call is a single network round trip with no internal retry; retry
// policy belongs to the orchestrator. Failures are *errors.GatewayError
// values classed transient or client_error.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (string, error)
	CreatePaymentMethod(ctx context.Context, billing BillingInfo) (string, error)
	Attach(ctx context.Context, intentID, methodID, returnURL string) (*AttachResult, error)
	IntentStatus(ctx context.Context, intentID string) (*IntentState, error)
}
