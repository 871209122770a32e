package adapters

import (
	"context"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"
	"github.com/jentii16200/hive-fulfillment/internal/kafka"
	"github.com/jentii16200/hive-fulfillment/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderCreated")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("event.type", "order.created"),
		attribute.String("topic", "order.created"),
	)

	start := time.Now()
	err := e.bus.PublishOrderCreated(ctx, orderID)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "order.created", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (e *ObservableEventBus) PublishOrderPaid(ctx context.Context, orderID string, paymentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderPaid")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("payment.id", paymentID),
		attribute.String("event.type", "order.paid"),
		attribute.String("topic", "order.paid"),
	)

	start := time.Now()
	err := e.bus.PublishOrderPaid(ctx, orderID, paymentID)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "order.paid", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (e *ObservableEventBus) PublishPaymentFailed(ctx context.Context, paymentID string, reason string) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishPaymentFailed")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("payment.id", paymentID),
		attribute.String("event.type", "payment.failed"),
		attribute.String("topic", "payment.failed"),
		attribute.String("failure.reason", reason),
	)

	start := time.Now()
	err := e.bus.PublishPaymentFailed(ctx, paymentID, reason)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "payment.failed", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
