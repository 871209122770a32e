package domain

import (
	"fmt"
	"time"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// PaymentStatus captures the lifecycle of a payment record.
type PaymentStatus string

const (
	PaymentPending        PaymentStatus = "pending"
	PaymentRequiresAction PaymentStatus = "requires_action"
	PaymentProcessing     PaymentStatus = "processing"
	PaymentCompleted      PaymentStatus = "completed"
	PaymentFailed         PaymentStatus = "failed"
	PaymentRefunded       PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentRequiresAction, PaymentProcessing,
		PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment records a funds movement (or the promise of one) tied to exactly
// one order. Payments are never deleted.
type Payment struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	AmountCents   int64         `json:"amount_cents"`
	Currency      string        `json:"currency"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	// TransactionID is the gateway intent id. It is assigned exactly once,
	// at intent creation, and all later updates are matched by it.
	TransactionID string        `json:"transaction_id,omitempty"`
	Status        PaymentStatus `json:"status"`
	Description   string        `json:"description,omitempty"`
	RawResponse   string        `json:"-"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Validate ensures the payment adheres to business constraints.
func (p Payment) Validate() error {
	if p.OrderID == "" {
		return apperrors.NewValidationError("payment requires an order reference")
	}
	if p.UserID == "" {
		return apperrors.NewValidationError("payment requires a user reference")
	}
	if p.AmountCents <= 0 {
		return apperrors.NewValidationError("payment amount must be positive")
	}
	switch p.PaymentMethod {
	case MethodCOD, MethodGatewayGCash:
	default:
		return apperrors.NewValidationError("unsupported payment method: " + string(p.PaymentMethod))
	}
	return nil
}

// IsTerminal indicates whether the payment can no longer change state,
// except for the reserved refund branch out of completed.
func (p Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

// MapGatewayStatus is the single place external provider statuses become
// internal payment statuses. Confirm and webhook ingress both go through it
// so the two paths can never diverge.
func MapGatewayStatus(external string) PaymentStatus {
	switch external {
	case "paid":
		return PaymentCompleted
	case "failed", "canceled", "cancelled":
		return PaymentFailed
	default:
		// awaiting_next_action, processing, awaiting_payment_method, unset
		return PaymentProcessing
	}
}

// CanTransitionPayment reports whether moving a payment from one status to
// another is inside the allowed graph. COD payments take the
// pending -> completed shortcut.
func CanTransitionPayment(current, next PaymentStatus) bool {
	switch current {
	case PaymentPending:
		return next == PaymentRequiresAction || next == PaymentCompleted
	case PaymentRequiresAction:
		return next == PaymentProcessing || next == PaymentCompleted || next == PaymentFailed
	case PaymentProcessing:
		return next == PaymentCompleted || next == PaymentFailed
	case PaymentCompleted:
		return next == PaymentRefunded
	default:
		// failed and refunded are terminal
		return false
	}
}

// NextPaymentStatus validates a transition and returns the new status, or an
// invariant violation if the move is outside the graph.
func NextPaymentStatus(current, next PaymentStatus) (PaymentStatus, error) {
	if !CanTransitionPayment(current, next) {
		return "", apperrors.NewInvariantViolationError(
			fmt.Sprintf("payment cannot move from %s to %s", current, next))
	}
	return next, nil
}
