package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// OrderRepository provides an in-memory store useful for local development
// and tests. Status writes honor the same compare-and-swap contract as the
// postgres adapter.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewOrderRepository constructs a new in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.Order)}
}

func (r *OrderRepository) Create(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found: " + id)
	}
	copy := order
	return &copy, nil
}

func (r *OrderRepository) List(_ context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Order
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[j].CreatedAt.Before(result[i].CreatedAt)
	})

	return paginate(result, filter.Page, filter.PageSize), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, expect, next domain.OrderStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return apperrors.NewNotFoundError("order not found: " + id)
	}
	if order.Status != expect {
		return apperrors.NewConflictError(fmt.Sprintf(
			"order %s status changed concurrently: expected %s, found %s", id, expect, order.Status))
	}

	order.Status = next
	order.UpdatedAt = time.Now().UTC()
	switch next {
	case domain.OrderPaid:
		order.PaidAt = &at
	case domain.OrderShipped:
		order.ShippedAt = &at
	case domain.OrderDelivered:
		order.DeliveredAt = &at
	case domain.OrderCancelled:
		order.CancelledAt = &at
	}
	r.orders[id] = order
	return nil
}

func (r *OrderRepository) AttachPayment(_ context.Context, orderID, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return apperrors.NewNotFoundError("order not found: " + orderID)
	}
	order.PaymentID = paymentID
	order.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = order
	return nil
}

// PaymentRepository is the in-memory counterpart of the postgres payment
// adapter.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]domain.Payment
}

// NewPaymentRepository constructs a new in-memory payment repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[string]domain.Payment)}
}

func (r *PaymentRepository) Create(_ context.Context, payment domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.TransactionID != "" {
		for _, existing := range r.payments {
			if existing.TransactionID == payment.TransactionID {
				return fmt.Errorf("duplicate transaction id: %s", payment.TransactionID)
			}
		}
	}
	r.payments[payment.ID] = payment
	return nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("payment not found: " + id)
	}
	copy := payment
	return &copy, nil
}

func (r *PaymentRepository) GetByOrderID(_ context.Context, orderID string, method domain.PaymentMethod) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.Payment
	for _, payment := range r.payments {
		if payment.OrderID != orderID || payment.PaymentMethod != method {
			continue
		}
		if latest == nil || payment.CreatedAt.After(latest.CreatedAt) {
			copy := payment
			latest = &copy
		}
	}
	if latest == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no %s payment for order %s", method, orderID))
	}
	return latest, nil
}

func (r *PaymentRepository) GetByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, payment := range r.payments {
		if payment.TransactionID == transactionID {
			copy := payment
			return &copy, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no payment for transaction: " + transactionID)
}

func (r *PaymentRepository) List(_ context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Payment
	for _, payment := range r.payments {
		if filter.Status != nil && payment.Status != *filter.Status {
			continue
		}
		if filter.OrderID != "" && payment.OrderID != filter.OrderID {
			continue
		}
		if filter.UserID != "" && payment.UserID != filter.UserID {
			continue
		}
		result = append(result, payment)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[j].CreatedAt.Before(result[i].CreatedAt)
	})

	return paginate(result, filter.Page, filter.PageSize), nil
}

func (r *PaymentRepository) UpdateStatus(_ context.Context, id string, expect, next domain.PaymentStatus, update ports.PaymentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return apperrors.NewNotFoundError("payment not found: " + id)
	}
	if payment.Status != expect {
		return apperrors.NewConflictError(fmt.Sprintf(
			"payment %s status changed concurrently: expected %s, found %s", id, expect, payment.Status))
	}

	payment.Status = next
	if update.RawResponse != "" {
		payment.RawResponse = update.RawResponse
	}
	if update.ErrorMessage != "" {
		payment.ErrorMessage = update.ErrorMessage
	}
	if update.PaidAt != nil {
		payment.PaidAt = update.PaidAt
	}
	payment.UpdatedAt = time.Now().UTC()
	r.payments[id] = payment
	return nil
}

// UserDirectory is a fixed in-memory user lookup for local development.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]ports.BillingInfo
}

// NewUserDirectory constructs an empty in-memory user directory.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]ports.BillingInfo)}
}

// Add registers billing details for a user.
func (d *UserDirectory) Add(id string, billing ports.BillingInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[id] = billing
}

func (d *UserDirectory) FindByID(_ context.Context, id string) (*ports.BillingInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	billing, ok := d.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found: " + id)
	}
	copy := billing
	return &copy, nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	slice := make([]T, end-start)
	copy(slice, items[start:end])
	return slice
}
