package commands

import (
	"context"
	"strings"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// CancelOrderCommand requests cancellation of an order. Cancelling is
// forbidden once the order has shipped.
type CancelOrderCommand struct {
	OrderID string
}

func (c CancelOrderCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return apperrors.NewValidationError("order_id is required")
	}
	return nil
}

type CancelOrderCommandHandler struct {
	orders ports.OrderRepository
}

func NewCancelOrderCommandHandler(orders ports.OrderRepository) *CancelOrderCommandHandler {
	return &CancelOrderCommandHandler{orders: orders}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var lastConflict error

	for attempt := 1; attempt <= maxStatusAttempts; attempt++ {
		if attempt > 1 {
			sleepWithJitter(statusBackoffs[attempt-1])
		}

		order, err := h.orders.GetByID(ctx, cmd.OrderID)
		if err != nil {
			return nil, err
		}

		next, err := domain.NextOrderStatus(order.Status, domain.EventCancel)
		if err != nil {
			return nil, err
		}

		at := time.Now().UTC()
		if err := h.orders.UpdateStatus(ctx, order.ID, order.Status, next, at); err != nil {
			if _, ok := apperrors.IsConflictError(err); ok {
				lastConflict = err
				continue
			}
			return nil, err
		}

		order.Status = next
		order.CancelledAt = &at
		order.UpdatedAt = at
		return order, nil
	}

	return nil, apperrors.NewConflictError("cancel exhausted retries: " + lastConflict.Error())
}
