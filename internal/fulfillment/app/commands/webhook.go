package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// WebhookCommand carries a raw gateway event payload. Webhooks arrive
// unordered and possibly duplicated; processing them must be idempotent.
type WebhookCommand struct {
	Payload []byte
}

// WebhookResult reports what the delivery did.
type WebhookResult struct {
	TransactionID  string
	ExternalStatus string
	Payment        *domain.Payment
	PreviousStatus domain.PaymentStatus
	Applied        bool
	OrderAdvanced  bool
}

type WebhookHandler interface {
	Handle(ctx context.Context, cmd WebhookCommand) (*WebhookResult, error)
}

// WebhookCommandHandler maps a gateway event to an internal status signal
// and applies it through the same path confirm uses.
type WebhookCommandHandler struct {
	payments ports.PaymentRepository
	applier  *statusApplier
}

func NewWebhookCommandHandler(
	orders ports.OrderRepository,
	payments ports.PaymentRepository,
	events ports.EventBus,
	logger *slog.Logger,
) *WebhookCommandHandler {
	return &WebhookCommandHandler{
		payments: payments,
		applier: &statusApplier{
			orders:   orders,
			payments: payments,
			events:   events,
			logger:   logger,
		},
	}
}

// webhookEnvelope tolerates the two payload shapes the provider sends:
// the event resource wrapping the payment under data.attributes.data, and
// the bare resource with the payment directly under data.
type webhookEnvelope struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Type string `json:"type"`
			Data struct {
				ID         string `json:"id"`
				Attributes struct {
					Status string `json:"status"`
				} `json:"attributes"`
			} `json:"data"`
			Status string `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

func (h *WebhookCommandHandler) Handle(ctx context.Context, cmd WebhookCommand) (*WebhookResult, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(cmd.Payload, &envelope); err != nil {
		return nil, apperrors.NewValidationError("webhook payload is not valid JSON")
	}

	transactionID := envelope.Data.Attributes.Data.ID
	externalStatus := envelope.Data.Attributes.Data.Attributes.Status
	if transactionID == "" {
		transactionID = envelope.Data.ID
		externalStatus = envelope.Data.Attributes.Status
	}
	if transactionID == "" {
		return nil, apperrors.NewValidationError("webhook payload is missing a transaction id")
	}

	next := domain.MapGatewayStatus(externalStatus)

	outcome, err := h.applier.apply(ctx, func(ctx context.Context) (*domain.Payment, error) {
		return h.payments.GetByTransactionID(ctx, transactionID)
	}, next, externalStatus, string(cmd.Payload))
	if err != nil {
		// Unknown transaction ids are expected noise: the gateway notifies
		// about events this system does not track. The caller decides how
		// to acknowledge; this handler just reports not-found.
		return nil, err
	}

	return &WebhookResult{
		TransactionID:  transactionID,
		ExternalStatus: externalStatus,
		Payment:        outcome.Payment,
		PreviousStatus: outcome.Previous,
		Applied:        outcome.Applied,
		OrderAdvanced:  outcome.OrderAdvanced,
	}, nil
}
