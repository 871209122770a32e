package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/metrics"
	"github.com/jentii16200/hive-fulfillment/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

type ObservableCheckoutHandler struct {
	handler CheckoutHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCheckoutHandler(handler CheckoutHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCheckoutHandler {
	return &ObservableCheckoutHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "CheckoutCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordCheckoutDuration(ctx, duration)
		o.metrics.RecordCheckout(ctx, string(cmd.PaymentMethod), success)
	}()

	o.logger.InfoContext(ctx, "starting checkout",
		"user_id", cmd.UserID,
		"payment_method", cmd.PaymentMethod,
		"item_count", len(cmd.Items),
	)

	result, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		if _, ok := apperrors.IsReconciliationError(err); ok {
			o.metrics.RecordReconciliationFlag(ctx)
		}
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "checkout failed",
			"error", err,
			"user_id", cmd.UserID,
			"payment_method", cmd.PaymentMethod,
		)
		return result, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", result.Order.ID),
		attribute.String("order.status", string(result.Order.Status)),
		attribute.Int64("order.total_cents", result.Order.TotalCents),
		attribute.String("payment.method", string(cmd.PaymentMethod)),
	)

	o.logger.InfoContext(ctx, "checkout completed",
		"order_id", result.Order.ID,
		"order_status", result.Order.Status,
		"payment_method", cmd.PaymentMethod,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return result, nil
}
