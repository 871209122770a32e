package commands

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

const maxStatusAttempts = 3

// Backoff intervals between optimistic-update attempts.
var statusBackoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// applyOutcome reports what a status signal actually did. Duplicate and
// stale signals come back with Applied=false and no error: delivering the
// same webhook twice must leave the same state as delivering it once.
type applyOutcome struct {
	Payment       *domain.Payment
	Previous      domain.PaymentStatus
	Applied       bool
	OrderAdvanced bool
}

// statusApplier is the single write path for payment status signals. Both
// confirm and webhook ingress funnel through it, so the read-map-write
// sequence and the order-advance rule cannot diverge between the two.
type statusApplier struct {
	orders   ports.OrderRepository
	payments ports.PaymentRepository
	events   ports.EventBus
	logger   *slog.Logger
}

// apply transitions the payment found by lookup to next, then advances the
// linked order when the payment first reaches completed. Writes are
// compare-and-swap on the previously read status; a lost race re-reads and
// retries a bounded number of times.
func (a *statusApplier) apply(
	ctx context.Context,
	lookup func(ctx context.Context) (*domain.Payment, error),
	next domain.PaymentStatus,
	external string,
	raw string,
) (*applyOutcome, error) {
	var lastConflict error

	for attempt := 1; attempt <= maxStatusAttempts; attempt++ {
		if attempt > 1 {
			sleepWithJitter(statusBackoffs[attempt-1])
		}

		payment, err := lookup(ctx)
		if err != nil {
			return nil, err
		}

		outcome := &applyOutcome{Payment: payment, Previous: payment.Status}

		if payment.Status == next {
			// Duplicate delivery. Nothing to write.
			return outcome, nil
		}

		if !domain.CanTransitionPayment(payment.Status, next) {
			// Out-of-order or stale signal, e.g. a "processing" webhook
			// arriving after the payment already completed. Never regress.
			a.logger.InfoContext(ctx, "ignoring stale payment signal",
				"payment_id", payment.ID,
				"current_status", payment.Status,
				"signaled_status", next,
			)
			return outcome, nil
		}

		update := ports.PaymentUpdate{RawResponse: raw}
		if next == domain.PaymentCompleted {
			paidAt := time.Now().UTC()
			update.PaidAt = &paidAt
		}
		if next == domain.PaymentFailed {
			update.ErrorMessage = "provider reported " + external
		}

		if err := a.payments.UpdateStatus(ctx, payment.ID, payment.Status, next, update); err != nil {
			if _, ok := apperrors.IsConflictError(err); ok {
				lastConflict = err
				a.logger.WarnContext(ctx, "payment status update lost optimistic race, retrying",
					"payment_id", payment.ID,
					"attempt", attempt,
					"max_attempts", maxStatusAttempts,
				)
				continue
			}
			return nil, err
		}

		updated := *payment
		updated.Status = next
		updated.RawResponse = raw
		updated.PaidAt = update.PaidAt
		if update.ErrorMessage != "" {
			updated.ErrorMessage = update.ErrorMessage
		}
		updated.UpdatedAt = time.Now().UTC()
		outcome.Payment = &updated
		outcome.Applied = true

		switch next {
		case domain.PaymentCompleted:
			advanced, err := a.advanceOrder(ctx, &updated)
			if err != nil {
				return outcome, err
			}
			outcome.OrderAdvanced = advanced
			if advanced {
				if err := a.events.PublishOrderPaid(ctx, updated.OrderID, updated.ID); err != nil {
					a.logger.ErrorContext(ctx, "failed to publish order paid event",
						"order_id", updated.OrderID, "error", err)
				}
			}
		case domain.PaymentFailed:
			if err := a.events.PublishPaymentFailed(ctx, updated.ID, updated.ErrorMessage); err != nil {
				a.logger.ErrorContext(ctx, "failed to publish payment failed event",
					"payment_id", updated.ID, "error", err)
			}
		}

		return outcome, nil
	}

	return nil, apperrors.NewConflictError("payment status update exhausted retries: " + lastConflict.Error())
}

// advanceOrder moves the linked order to paid once its payment has
// completed. Advancing is conditioned on the order's current status, so a
// confirm and a webhook racing on the same payment advance it exactly once.
func (a *statusApplier) advanceOrder(ctx context.Context, payment *domain.Payment) (bool, error) {
	var lastConflict error

	for attempt := 1; attempt <= maxStatusAttempts; attempt++ {
		if attempt > 1 {
			sleepWithJitter(statusBackoffs[attempt-1])
		}

		order, err := a.orders.GetByID(ctx, payment.OrderID)
		if err != nil {
			return false, err
		}

		if domain.AtOrPastPaid(order.Status) {
			return false, nil
		}
		if order.Status == domain.OrderCancelled {
			a.logger.WarnContext(ctx, "payment completed for a cancelled order",
				"order_id", order.ID, "payment_id", payment.ID)
			return false, nil
		}

		next, err := domain.NextOrderStatus(order.Status, domain.EventPaymentCompleted)
		if err != nil {
			return false, err
		}

		at := time.Now().UTC()
		if payment.PaidAt != nil {
			at = *payment.PaidAt
		}

		if err := a.orders.UpdateStatus(ctx, order.ID, order.Status, next, at); err != nil {
			if _, ok := apperrors.IsConflictError(err); ok {
				lastConflict = err
				continue
			}
			return false, err
		}
		return true, nil
	}

	return false, apperrors.NewConflictError("order advance exhausted retries: " + lastConflict.Error())
}

// sleepWithJitter pauses for the base interval plus up to 40% jitter to
// spread out colliding retries.
func sleepWithJitter(base time.Duration) {
	if base <= 0 {
		return
	}
	jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
	time.Sleep(jitter)
}
