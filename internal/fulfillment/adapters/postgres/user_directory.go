package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// UserDirectory resolves billing details from the users table.
type UserDirectory struct {
	pool *pgxpool.Pool
}

func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{pool: pool}
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (*ports.BillingInfo, error) {
	query := `
		SELECT full_name, email, phone
		FROM users
		WHERE id = $1
	`

	var billing ports.BillingInfo
	err := d.pool.QueryRow(ctx, query, id).Scan(
		&billing.FullName,
		&billing.Email,
		&billing.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user not found: " + id)
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	return &billing, nil
}
