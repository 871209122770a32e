package commands

import (
	"context"
	"log/slog"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/metrics"
	"github.com/jentii16200/hive-fulfillment/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

type ObservableWebhookHandler struct {
	handler WebhookHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableWebhookHandler(handler WebhookHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableWebhookHandler {
	return &ObservableWebhookHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableWebhookHandler) Handle(ctx context.Context, cmd WebhookCommand) (*WebhookResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "WebhookCommand.Handle")
	defer span.End()

	result, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		outcome := "error"
		if _, ok := apperrors.IsValidationError(err); ok {
			outcome = "malformed"
		} else if _, ok := apperrors.IsNotFoundError(err); ok {
			outcome = "unknown_transaction"
		}
		o.metrics.RecordWebhookEvent(ctx, outcome)

		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "webhook processing failed",
			"error", err,
			"outcome", outcome,
		)
		return nil, err
	}

	outcome := "ignored"
	if result.Applied {
		outcome = "applied"
		o.metrics.RecordPaymentTransition(ctx, string(result.PreviousStatus), string(result.Payment.Status), "webhook")
	}
	o.metrics.RecordWebhookEvent(ctx, outcome)

	telemetry.AddSpanAttributes(span,
		attribute.String("webhook.transaction_id", result.TransactionID),
		attribute.String("webhook.external_status", result.ExternalStatus),
		attribute.Bool("payment.applied", result.Applied),
		attribute.Bool("order.advanced", result.OrderAdvanced),
	)

	o.logger.InfoContext(ctx, "webhook processed",
		"transaction_id", result.TransactionID,
		"external_status", result.ExternalStatus,
		"outcome", outcome,
		"order_advanced", result.OrderAdvanced,
	)

	telemetry.SetSpanSuccess(span)

	return result, nil
}
