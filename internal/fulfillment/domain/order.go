package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// OrderStatus captures the lifecycle of an order in the system.
type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderAwaitingPayment OrderStatus = "awaiting_payment"
	OrderAwaitingCOD     OrderStatus = "awaiting_cod"
	OrderPaid            OrderStatus = "paid"
	OrderShipped         OrderStatus = "shipped"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAwaitingPayment, OrderAwaitingCOD,
		OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderEvent is an input to the order status transition function.
type OrderEvent string

const (
	EventCheckoutCOD      OrderEvent = "checkout_cod"
	EventCheckoutGateway  OrderEvent = "checkout_gateway"
	EventPaymentCompleted OrderEvent = "payment_completed"
	EventCancel           OrderEvent = "cancel"
	EventShip             OrderEvent = "ship"
	EventDeliver          OrderEvent = "deliver"
)

// PaymentMethod selects how an order is paid for.
type PaymentMethod string

const (
	MethodCOD          PaymentMethod = "cod"
	MethodGatewayGCash PaymentMethod = "gateway_gcash"
)

// Shipping surcharge tiers in cents. Metro Manila addresses get the low tier.
const (
	ShippingSurchargeLowCents  int64 = 10000
	ShippingSurchargeHighCents int64 = 20000
)

// OrderItem is a single purchased line with the price captured at order time.
type OrderItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
	VariationID    string `json:"variation_id,omitempty"`
}

// ShippingAddress is the delivery target. Every field is required.
type ShippingAddress struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Province string `json:"province"`
	Region   string `json:"region"`
	Zip      string `json:"zip"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Validate checks that every address field is present.
func (a ShippingAddress) Validate() error {
	fields := map[string]string{
		"street":    a.Street,
		"city":      a.City,
		"province":  a.Province,
		"region":    a.Region,
		"zip":       a.Zip,
		"full_name": a.FullName,
		"phone":     a.Phone,
	}
	var details []apperrors.ValidationDetail
	for field, value := range fields {
		if strings.TrimSpace(value) == "" {
			details = append(details, apperrors.ValidationDetail{Field: field, Message: "is required"})
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("shipping address is incomplete", details...)
	}
	return nil
}

// Order represents a customer's purchase request managed by the system.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Status          OrderStatus     `json:"status"`
	TotalCents      int64           `json:"total_cents"`
	PaymentID       string          `json:"payment_id,omitempty"`
	OrderedAt       time.Time       `json:"ordered_at"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if len(o.Items) == 0 {
		return apperrors.NewValidationError("order must contain at least one item")
	}
	for i, item := range o.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return apperrors.NewValidationError(fmt.Sprintf("item %d is missing a product reference", i))
		}
		if item.Quantity < 1 {
			return apperrors.NewValidationError(fmt.Sprintf("item %d quantity must be at least 1", i))
		}
		if item.UnitPriceCents <= 0 {
			return apperrors.NewValidationError(fmt.Sprintf("item %d unit price must be positive", i))
		}
	}
	if err := o.ShippingAddress.Validate(); err != nil {
		return err
	}
	switch o.PaymentMethod {
	case MethodCOD, MethodGatewayGCash:
	default:
		return apperrors.NewValidationError("unsupported payment method: " + string(o.PaymentMethod))
	}
	if o.TotalCents <= 0 {
		return apperrors.NewValidationError("order total must be positive")
	}
	return nil
}

// ComputeTotalCents derives the order total from the line items plus the
// shipping surcharge for the address. Client-supplied totals are never
// trusted.
func ComputeTotalCents(items []OrderItem, address ShippingAddress) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total + ShippingSurchargeCents(address)
}

// ShippingSurchargeCents applies the two-tier flat fee based on the
// city/province text.
func ShippingSurchargeCents(address ShippingAddress) int64 {
	city := strings.ToLower(address.City)
	province := strings.ToLower(address.Province)
	if strings.Contains(city, "manila") || strings.Contains(province, "manila") {
		return ShippingSurchargeLowCents
	}
	return ShippingSurchargeHighCents
}

// NextOrderStatus is the total transition function for order statuses. Any
// (status, event) pair outside the graph is rejected with an invariant
// violation; it is never coerced.
func NextOrderStatus(current OrderStatus, event OrderEvent) (OrderStatus, error) {
	switch event {
	case EventCheckoutCOD:
		if current == OrderPending {
			return OrderAwaitingCOD, nil
		}
	case EventCheckoutGateway:
		if current == OrderPending {
			return OrderAwaitingPayment, nil
		}
	case EventPaymentCompleted:
		if current == OrderAwaitingPayment || current == OrderAwaitingCOD {
			return OrderPaid, nil
		}
	case EventCancel:
		switch current {
		case OrderShipped, OrderDelivered:
			return "", apperrors.NewInvariantViolationError(
				fmt.Sprintf("cannot cancel a %s order", current))
		case OrderCancelled:
			return "", apperrors.NewInvariantViolationError("order is already cancelled")
		default:
			return OrderCancelled, nil
		}
	case EventShip:
		if current == OrderPaid {
			return OrderShipped, nil
		}
	case EventDeliver:
		if current == OrderShipped {
			return OrderDelivered, nil
		}
	default:
		return "", apperrors.NewInvariantViolationError("unknown order event: " + string(event))
	}
	return "", apperrors.NewInvariantViolationError(
		fmt.Sprintf("event %s is not allowed while order is %s", event, current))
}

// InitialOrderStatus returns the status an order takes right after checkout
// for the given payment method.
func InitialOrderStatus(method PaymentMethod) (OrderStatus, error) {
	switch method {
	case MethodCOD:
		return NextOrderStatus(OrderPending, EventCheckoutCOD)
	case MethodGatewayGCash:
		return NextOrderStatus(OrderPending, EventCheckoutGateway)
	default:
		return "", apperrors.NewValidationError("unsupported payment method: " + string(method))
	}
}

// IsTerminal indicates whether the order can no longer change state.
func (o Order) IsTerminal() bool {
	switch o.Status {
	case OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

// AtOrPastPaid reports whether the status is paid or a later forward state.
// The order-advance step after a payment completes must be a no-op for these.
func AtOrPastPaid(status OrderStatus) bool {
	switch status {
	case OrderPaid, OrderShipped, OrderDelivered:
		return true
	default:
		return false
	}
}
