package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// UpdateShipmentCommand moves a paid order through the fulfillment leg of
// its lifecycle: first to shipped, then to delivered.
type UpdateShipmentCommand struct {
	OrderID string
	Status  domain.OrderStatus
}

func (c UpdateShipmentCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return apperrors.NewValidationError("order_id is required")
	}
	if c.Status != domain.OrderShipped && c.Status != domain.OrderDelivered {
		return apperrors.NewValidationError(fmt.Sprintf("status must be %q or %q", domain.OrderShipped, domain.OrderDelivered))
	}
	return nil
}

type UpdateShipmentCommandHandler struct {
	orders ports.OrderRepository
}

func NewUpdateShipmentCommandHandler(orders ports.OrderRepository) *UpdateShipmentCommandHandler {
	return &UpdateShipmentCommandHandler{orders: orders}
}

func (h *UpdateShipmentCommandHandler) Handle(ctx context.Context, cmd UpdateShipmentCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	event := domain.EventShip
	if cmd.Status == domain.OrderDelivered {
		event = domain.EventDeliver
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

		next, err := domain.NextOrderStatus(order.Status, event)
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
		order.UpdatedAt = at
		switch next {
		case domain.OrderShipped:
			order.ShippedAt = &at
		case domain.OrderDelivered:
			order.DeliveredAt = &at
		}
		return order, nil
	}

	return nil, apperrors.NewConflictError("shipment update exhausted retries: " + lastConflict.Error())
}
