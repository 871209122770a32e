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

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `
	id, order_id, user_id, amount_cents, currency, payment_method,
	transaction_id, status, description, raw_response, error_message,
	paid_at, created_at, updated_at
`

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var transactionID *string
	if payment.TransactionID != "" {
		transactionID = &payment.TransactionID
	}

	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.UserID,
		payment.AmountCents,
		payment.Currency,
		payment.PaymentMethod,
		transactionID,
		payment.Status,
		payment.Description,
		payment.RawResponse,
		payment.ErrorMessage,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment not found: " + id)
		}
		return nil, fmt.Errorf("select payment: %w", err)
	}

	return payment, nil
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string, method domain.PaymentMethod) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE order_id = $1 AND payment_method = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, orderID, method))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no %s payment for order %s", method, orderID))
		}
		return nil, fmt.Errorf("select payment by order: %w", err)
	}

	return payment, nil
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no payment for transaction: " + transactionID)
		}
		return nil, fmt.Errorf("select payment by transaction: %w", err)
	}

	return payment, nil
}

func (r *PaymentRepository) List(ctx context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR order_id = $2)
		  AND ($3::text IS NULL OR user_id = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}
	var orderFilter *string
	if filter.OrderID != "" {
		orderFilter = &filter.OrderID
	}
	var userFilter *string
	if filter.UserID != "" {
		userFilter = &filter.UserID
	}

	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, query, statusFilter, orderFilter, userFilter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

// UpdateStatus is a compare-and-swap on the stored status, mirroring the
// order repository. The amount column is never touched here.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, expect, next domain.PaymentStatus, update ports.PaymentUpdate) error {
	query := `
		UPDATE payments
		SET status = $1,
		    raw_response = CASE WHEN $2 <> '' THEN $2 ELSE raw_response END,
		    error_message = CASE WHEN $3 <> '' THEN $3 ELSE error_message END,
		    paid_at = COALESCE($4, paid_at),
		    updated_at = $5
		WHERE id = $6 AND status = $7
	`

	result, err := r.pool.Exec(ctx, query,
		next,
		update.RawResponse,
		update.ErrorMessage,
		update.PaidAt,
		time.Now().UTC(),
		id,
		expect,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return apperrors.NewConflictError(fmt.Sprintf(
			"payment %s status changed concurrently: expected %s, found %s", id, expect, current.Status))
	}

	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var transactionID *string

	err := row.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.UserID,
		&payment.AmountCents,
		&payment.Currency,
		&payment.PaymentMethod,
		&transactionID,
		&payment.Status,
		&payment.Description,
		&payment.RawResponse,
		&payment.ErrorMessage,
		&payment.PaidAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if transactionID != nil {
		payment.TransactionID = *transactionID
	}

	return &payment, nil
}
