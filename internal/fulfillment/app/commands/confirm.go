package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// ConfirmCommand asks the orchestrator to reconcile a payment's status,
// either from a user returning via redirect or from a manual/polled check.
// Gateway payments are addressed by transaction id, COD payments by order id.
type ConfirmCommand struct {
	OrderID       string
	TransactionID string
	PaymentMethod domain.PaymentMethod
}

func (c ConfirmCommand) Validate() error {
	switch c.PaymentMethod {
	case domain.MethodGatewayGCash:
		if strings.TrimSpace(c.TransactionID) == "" {
			return apperrors.NewValidationError("transaction_id is required for gateway confirm")
		}
	case domain.MethodCOD:
		if strings.TrimSpace(c.OrderID) == "" {
			return apperrors.NewValidationError("order_id is required for cod confirm")
		}
	default:
		return apperrors.NewValidationError("unsupported confirm method: " + string(c.PaymentMethod))
	}
	return nil
}

// ConfirmResult reports the reconciled pair plus what actually changed.
type ConfirmResult struct {
	Order          *domain.Order
	Payment        *domain.Payment
	PreviousStatus domain.PaymentStatus
	Applied        bool
	OrderAdvanced  bool
}

type ConfirmHandler interface {
	Handle(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error)
}

// ConfirmCommandHandler fetches the authoritative status from the gateway
// (or completes a COD payment directly) and applies it through the shared
// status applier.
type ConfirmCommandHandler struct {
	orders   ports.OrderRepository
	payments ports.PaymentRepository
	gateway  ports.PaymentGateway
	applier  *statusApplier
}

func NewConfirmCommandHandler(
	orders ports.OrderRepository,
	payments ports.PaymentRepository,
	gateway ports.PaymentGateway,
	events ports.EventBus,
	logger *slog.Logger,
) *ConfirmCommandHandler {
	return &ConfirmCommandHandler{
		orders:   orders,
		payments: payments,
		gateway:  gateway,
		applier: &statusApplier{
			orders:   orders,
			payments: payments,
			events:   events,
			logger:   logger,
		},
	}
}

func (h *ConfirmCommandHandler) Handle(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		outcome *applyOutcome
		err     error
	)

	switch cmd.PaymentMethod {
	case domain.MethodGatewayGCash:
		outcome, err = h.confirmGateway(ctx, cmd.TransactionID)
	case domain.MethodCOD:
		outcome, err = h.confirmCOD(ctx, cmd.OrderID)
	}
	if err != nil {
		return nil, err
	}

	order, err := h.orders.GetByID(ctx, outcome.Payment.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order after confirm: %w", err)
	}

	return &ConfirmResult{
		Order:          order,
		Payment:        outcome.Payment,
		PreviousStatus: outcome.Previous,
		Applied:        outcome.Applied,
		OrderAdvanced:  outcome.OrderAdvanced,
	}, nil
}

func (h *ConfirmCommandHandler) confirmGateway(ctx context.Context, transactionID string) (*applyOutcome, error) {
	state, err := h.gateway.IntentStatus(ctx, transactionID)
	if err != nil {
		// Gateway failure: surface it without touching the payment.
		return nil, err
	}

	next := domain.MapGatewayStatus(state.Status)

	return h.applier.apply(ctx, func(ctx context.Context) (*domain.Payment, error) {
		return h.payments.GetByTransactionID(ctx, transactionID)
	}, next, state.Status, state.RawResponse)
}

func (h *ConfirmCommandHandler) confirmCOD(ctx context.Context, orderID string) (*applyOutcome, error) {
	return h.applier.apply(ctx, func(ctx context.Context) (*domain.Payment, error) {
		return h.payments.GetByOrderID(ctx, orderID, domain.MethodCOD)
	}, domain.PaymentCompleted, "cod_confirmed", "")
}
