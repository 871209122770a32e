package queries

import (
	"context"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListOrdersQuery represents a request for a page of orders, optionally
// filtered by status or user.
type ListOrdersQuery struct {
	Status   string
	UserID   string
	Page     int
	PageSize int
}

// Validate ensures the query has valid parameters and applies pagination
// defaults in place.
func (q *ListOrdersQuery) Validate() error {
	if q.Status != "" && !domain.OrderStatus(q.Status).Valid() {
		return apperrors.NewValidationError("unknown order status: " + q.Status)
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

// ListOrdersQueryHandler executes ListOrdersQuery.
type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

// NewListOrdersQueryHandler constructs a ListOrdersQueryHandler.
func NewListOrdersQueryHandler(repo ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repo: repo}
}

// Handle executes the query and retrieves the matching page of orders.
func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ports.OrderFilter{
		UserID:   query.UserID,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status := domain.OrderStatus(query.Status)
		filter.Status = &status
	}

	return h.repo.List(ctx, filter)
}
