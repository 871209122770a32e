package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	checkoutsTotal           metric.Int64Counter
	checkoutDuration         metric.Float64Histogram
	paymentTransitionsTotal  metric.Int64Counter
	reconciliationFlagsTotal metric.Int64Counter
	webhookEventsTotal       metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.checkoutsTotal, err = meter.Int64Counter(
		"checkouts_total",
		metric.WithDescription("Total number of checkout attempts"),
		metric.WithUnit("{checkout}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkouts_total counter: %w", err)
	}

	m.checkoutDuration, err = meter.Float64Histogram(
		"checkout_duration_seconds",
		metric.WithDescription("Duration of checkout operations including gateway calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_duration histogram: %w", err)
	}

	m.paymentTransitionsTotal, err = meter.Int64Counter(
		"payment_transitions_total",
		metric.WithDescription("Payment status transitions applied, by source"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_transitions_total counter: %w", err)
	}

	m.reconciliationFlagsTotal, err = meter.Int64Counter(
		"payment_reconciliation_flags_total",
		metric.WithDescription("Conditions requiring operator reconciliation against the gateway"),
		metric.WithUnit("{flag}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_reconciliation_flags_total counter: %w", err)
	}

	m.webhookEventsTotal, err = meter.Int64Counter(
		"webhook_events_total",
		metric.WithDescription("Webhook deliveries by processing result"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create webhook_events_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordCheckout(ctx context.Context, method string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.checkoutsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordCheckoutDuration(ctx context.Context, durationSeconds float64) {
	m.checkoutDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordPaymentTransition(ctx context.Context, from, to, source string) {
	m.paymentTransitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
		attribute.String("source", source),
	))
}

func (m *Metrics) RecordReconciliationFlag(ctx context.Context) {
	m.reconciliationFlagsTotal.Add(ctx, 1)
}

func (m *Metrics) RecordWebhookEvent(ctx context.Context, result string) {
	m.webhookEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}
