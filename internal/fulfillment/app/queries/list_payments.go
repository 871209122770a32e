package queries

import (
	"context"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// ListPaymentsQuery represents a request for a page of payments, optionally
// filtered by status, order or user.
type ListPaymentsQuery struct {
	Status   string
	OrderID  string
	UserID   string
	Page     int
	PageSize int
}

// Validate ensures the query has valid parameters and applies pagination
// defaults in place.
func (q *ListPaymentsQuery) Validate() error {
	if q.Status != "" && !domain.PaymentStatus(q.Status).Valid() {
		return apperrors.NewValidationError("unknown payment status: " + q.Status)
	}
	if q.Page < 0 || q.PageSize < 0 {
		return apperrors.NewValidationError("page and page_size must not be negative")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return nil
}

// ListPaymentsQueryHandler executes ListPaymentsQuery.
type ListPaymentsQueryHandler struct {
	repo ports.PaymentRepository
}

// NewListPaymentsQueryHandler constructs a ListPaymentsQueryHandler.
func NewListPaymentsQueryHandler(repo ports.PaymentRepository) *ListPaymentsQueryHandler {
	return &ListPaymentsQueryHandler{repo: repo}
}

// Handle executes the query and retrieves the matching page of payments.
func (h *ListPaymentsQueryHandler) Handle(ctx context.Context, query ListPaymentsQuery) ([]domain.Payment, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ports.PaymentFilter{
		OrderID:  query.OrderID,
		UserID:   query.UserID,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status := domain.PaymentStatus(query.Status)
		filter.Status = &status
	}

	return h.repo.List(ctx, filter)
}
