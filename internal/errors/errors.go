package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects malformed input before any persistence or
// gateway call happens.
type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var ne *NotFoundError
	if stderrors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// ConflictError signals that a conditional status update lost the optimistic
// race and observed a different current status than expected.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// InvariantViolationError rejects a state transition outside the allowed
// graph. It is never coerced into a silent no-op.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string {
	return e.Message
}

func NewInvariantViolationError(message string) *InvariantViolationError {
	return &InvariantViolationError{Message: message}
}

func IsInvariantViolationError(err error) (*InvariantViolationError, bool) {
	var ie *InvariantViolationError
	if stderrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

type GatewayErrorClass string

const (
	// GatewayTransient covers network failures, timeouts and provider 5xx
	// responses. Retrying the same request may succeed.
	GatewayTransient GatewayErrorClass = "transient"
	// GatewayClientError covers provider rejections of the request itself.
	// Retrying without changing the input will not help.
	GatewayClientError GatewayErrorClass = "client_error"
)

// GatewayError is a normalized failure from the payment provider.
type GatewayError struct {
	Class      GatewayErrorClass
	Message    string
	StatusCode int
	Cause      error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway %s: %s", e.Class, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

func NewGatewayError(class GatewayErrorClass, message string, statusCode int, cause error) *GatewayError {
	return &GatewayError{
		Class:      class,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if stderrors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// ReconciliationError flags the case where the gateway may have provisioned
// a resource that the local records do not reflect. It is surfaced for
// operator replay, never auto-healed.
type ReconciliationError struct {
	Message  string
	IntentID string
	Cause    error
}

func (e *ReconciliationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (intent %s): %v", e.Message, e.IntentID, e.Cause)
	}
	return fmt.Sprintf("%s (intent %s)", e.Message, e.IntentID)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Cause
}

func NewReconciliationError(message, intentID string, cause error) *ReconciliationError {
	return &ReconciliationError{
		Message:  message,
		IntentID: intentID,
		Cause:    cause,
	}
}

func IsReconciliationError(err error) (*ReconciliationError, bool) {
	var re *ReconciliationError
	if stderrors.As(err, &re) {
		return re, true
	}
	return nil, false
}
