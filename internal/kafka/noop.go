package kafka

import (
	"context"
	"log/slog"
)

// NoopEventBus logs events without sending them to Kafka. Useful for local dev before wiring Kafka.
type NoopEventBus struct{}

// NewNoopEventBus returns a new no-op event publisher.
func NewNoopEventBus() *NoopEventBus {
	return &NoopEventBus{}
}

func (n *NoopEventBus) PublishOrderCreated(_ context.Context, orderID string) error {
	slog.Debug("event::order_created", "order_id", orderID)
	return nil
}

func (n *NoopEventBus) PublishOrderPaid(_ context.Context, orderID string, paymentID string) error {
	slog.Debug("event::order_paid", "order_id", orderID, "payment_id", paymentID)
	return nil
}

func (n *NoopEventBus) PublishPaymentFailed(_ context.Context, paymentID string, reason string) error {
	slog.Debug("event::payment_failed", "payment_id", paymentID, "reason", reason)
	return nil
}
