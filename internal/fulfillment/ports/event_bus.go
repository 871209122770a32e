package ports

import "context"

// EventBus publishes lifecycle events for downstream consumers.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID string) error
	PublishOrderPaid(ctx context.Context, orderID string, paymentID string) error
	PublishPaymentFailed(ctx context.Context, paymentID string, reason string) error
}
