package commands

import (
	"context"
	"log/slog"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/metrics"
	"github.com/jentii16200/hive-fulfillment/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableConfirmHandler struct {
	handler ConfirmHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableConfirmHandler(handler ConfirmHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableConfirmHandler {
	return &ObservableConfirmHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableConfirmHandler) Handle(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ConfirmCommand.Handle")
	defer span.End()

	o.logger.InfoContext(ctx, "confirming payment",
		"order_id", cmd.OrderID,
		"transaction_id", cmd.TransactionID,
		"payment_method", cmd.PaymentMethod,
	)

	result, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "payment confirmation failed",
			"error", err,
			"order_id", cmd.OrderID,
			"transaction_id", cmd.TransactionID,
		)
		return nil, err
	}

	if result.Applied {
		o.metrics.RecordPaymentTransition(ctx, string(result.PreviousStatus), string(result.Payment.Status), "confirm")
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("payment.id", result.Payment.ID),
		attribute.String("payment.status", string(result.Payment.Status)),
		attribute.Bool("payment.applied", result.Applied),
		attribute.Bool("order.advanced", result.OrderAdvanced),
	)

	o.logger.InfoContext(ctx, "payment confirmation processed",
		"payment_id", result.Payment.ID,
		"payment_status", result.Payment.Status,
		"applied", result.Applied,
		"order_advanced", result.OrderAdvanced,
	)

	telemetry.SetSpanSuccess(span)

	return result, nil
}
