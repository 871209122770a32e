package ports

import "context"

// BillingInfo is the slice of a user profile the gateway needs.
type BillingInfo struct {
	FullName string
	Email    string
	Phone    string
}

// UserDirectory looks up customer contact details for gateway billing.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*BillingInfo, error)
}
