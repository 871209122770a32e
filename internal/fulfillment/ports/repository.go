package ports

import (
	"context"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
)

// OrderRepository exposes persistence operations for orders. UpdateStatus is
// a compare-and-swap: the write only lands if the stored status still equals
// expect, so concurrent deliveries cannot overwrite each other blindly.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	// UpdateStatus transitions the order from expect to next, stamping the
	// status timestamp at the given time. It returns a ConflictError when
	// the stored status no longer matches expect, and a NotFoundError when
	// the order does not exist.
	UpdateStatus(ctx context.Context, id string, expect, next domain.OrderStatus, at time.Time) error
	// AttachPayment sets the order's active payment back-reference.
	AttachPayment(ctx context.Context, orderID, paymentID string) error
}

// OrderFilter narrows list queries. Pagination is 1-based.
type OrderFilter struct {
	Status   *domain.OrderStatus
	UserID   string
	Page     int
	PageSize int
}

// PaymentUpdate carries the auxiliary fields written alongside a status
// transition. The amount is immutable and deliberately absent.
type PaymentUpdate struct {
	RawResponse  string
	ErrorMessage string
	PaidAt       *time.Time
}

// PaymentRepository exposes persistence operations for payments. Status
// writes follow the same compare-and-swap discipline as orders.
type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	// GetByOrderID returns the latest payment for an order and method.
	GetByOrderID(ctx context.Context, orderID string, method domain.PaymentMethod) (*domain.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
	// UpdateStatus transitions the payment from expect to next. It returns
	// a ConflictError when the stored status no longer matches expect, and
	// a NotFoundError when the payment does not exist.
	UpdateStatus(ctx context.Context, id string, expect, next domain.PaymentStatus, update PaymentUpdate) error
}

// PaymentFilter narrows payment list queries. Pagination is 1-based.
type PaymentFilter struct {
	Status   *domain.PaymentStatus
	OrderID  string
	UserID   string
	Page     int
	PageSize int
}
