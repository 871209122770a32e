package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `
	id, user_id, items, shipping_address, payment_method, status, total_cents,
	payment_id, ordered_at, paid_at, shipped_at, delivered_at, cancelled_at,
	created_at, updated_at
`

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var paymentID *string
	if order.PaymentID != "" {
		paymentID = &order.PaymentID
	}

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.Items,
		order.ShippingAddress,
		order.PaymentMethod,
		order.Status,
		order.TotalCents,
		paymentID,
		order.OrderedAt,
		order.PaidAt,
		order.ShippedAt,
		order.DeliveredAt,
		order.CancelledAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("order not found: " + id)
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

func (r *OrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR user_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}
	var userFilter *string
	if filter.UserID != "" {
		userFilter = &filter.UserID
	}

	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, query, statusFilter, userFilter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus is a compare-and-swap on the stored status. The row only
// changes when the status still equals expect; zero rows affected means a
// concurrent writer won or the order does not exist, and a re-read decides
// which.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, expect, next domain.OrderStatus, at time.Time) error {
	stampColumn := ""
	switch next {
	case domain.OrderPaid:
		stampColumn = ", paid_at = $4"
	case domain.OrderShipped:
		stampColumn = ", shipped_at = $4"
	case domain.OrderDelivered:
		stampColumn = ", delivered_at = $4"
	case domain.OrderCancelled:
		stampColumn = ", cancelled_at = $4"
	}

	query := `
		UPDATE orders
		SET status = $1, updated_at = $2` + stampColumn + `
		WHERE id = $3 AND status = $5
	`
	args := []any{next, time.Now().UTC(), id, at, expect}
	if stampColumn == "" {
		query = `
			UPDATE orders
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
		`
		args = []any{next, time.Now().UTC(), id, expect}
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return apperrors.NewConflictError(fmt.Sprintf(
			"order %s status changed concurrently: expected %s, found %s", id, expect, current.Status))
	}

	return nil
}

func (r *OrderRepository) AttachPayment(ctx context.Context, orderID, paymentID string) error {
	query := `
		UPDATE orders
		SET payment_id = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, paymentID, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("attach payment to order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("order not found: " + orderID)
	}

	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var paymentID *string

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Items,
		&order.ShippingAddress,
		&order.PaymentMethod,
		&order.Status,
		&order.TotalCents,
		&paymentID,
		&order.OrderedAt,
		&order.PaidAt,
		&order.ShippedAt,
		&order.DeliveredAt,
		&order.CancelledAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentID != nil {
		order.PaymentID = *paymentID
	}

	return &order, nil
}
