package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// CheckoutConfig carries the gateway parameters checkout needs.
type CheckoutConfig struct {
	ReturnURL string
	Currency  string
}

// CheckoutCommand is a customer's request to place an order.
type CheckoutCommand struct {
	UserID          string
	Items           []domain.OrderItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	Description     string
}

func (c CheckoutCommand) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return apperrors.NewValidationError("user_id is required")
	}
	if len(c.Items) == 0 {
		return apperrors.NewValidationError("order must contain at least one item")
	}
	for i, item := range c.Items {
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
	if err := c.ShippingAddress.Validate(); err != nil {
		return err
	}
	switch c.PaymentMethod {
	case domain.MethodCOD, domain.MethodGatewayGCash:
	default:
		return apperrors.NewValidationError("unsupported payment method: " + string(c.PaymentMethod))
	}
	return nil
}

// CheckoutResult is what checkout hands back to the caller. Order is
// populated even when a later step failed, so callers can reference the
// order that was already created.
type CheckoutResult struct {
	Order       *domain.Order
	Payment     *domain.Payment
	RedirectURL string
}

// CheckoutHandler is implemented by the core handler and its observable
// decorator.
type CheckoutHandler interface {
	Handle(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error)
}

// CheckoutCommandHandler creates the order, and for gateway payments drives
// the intent, method and attach calls in sequence before persisting the
// payment record.
type CheckoutCommandHandler struct {
	orders   ports.OrderRepository
	payments ports.PaymentRepository
	users    ports.UserDirectory
	gateway  ports.PaymentGateway
	events   ports.EventBus
	cfg      CheckoutConfig
}

func NewCheckoutCommandHandler(
	orders ports.OrderRepository,
	payments ports.PaymentRepository,
	users ports.UserDirectory,
	gateway ports.PaymentGateway,
	events ports.EventBus,
	cfg CheckoutConfig,
) *CheckoutCommandHandler {
	if cfg.Currency == "" {
		cfg.Currency = "php"
	}
	return &CheckoutCommandHandler{
		orders:   orders,
		payments: payments,
		users:    users,
		gateway:  gateway,
		events:   events,
		cfg:      cfg,
	}
}

func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	status, err := domain.InitialOrderStatus(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          cmd.UserID,
		Items:           cmd.Items,
		ShippingAddress: cmd.ShippingAddress,
		PaymentMethod:   cmd.PaymentMethod,
		Status:          status,
		TotalCents:      domain.ComputeTotalCents(cmd.Items, cmd.ShippingAddress),
		OrderedAt:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := h.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if cmd.PaymentMethod == domain.MethodCOD {
		return h.checkoutCOD(ctx, order, cmd)
	}
	return h.checkoutGateway(ctx, order, cmd)
}

func (h *CheckoutCommandHandler) checkoutCOD(ctx context.Context, order domain.Order, cmd CheckoutCommand) (*CheckoutResult, error) {
	now := time.Now().UTC()
	payment := domain.Payment{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		UserID:        order.UserID,
		AmountCents:   order.TotalCents,
		Currency:      strings.ToLower(h.cfg.Currency),
		PaymentMethod: domain.MethodCOD,
		Status:        domain.PaymentPending,
		Description:   cmd.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := payment.Validate(); err != nil {
		return &CheckoutResult{Order: &order}, err
	}
	if err := h.payments.Create(ctx, payment); err != nil {
		return &CheckoutResult{Order: &order}, fmt.Errorf("create payment: %w", err)
	}
	if err := h.orders.AttachPayment(ctx, order.ID, payment.ID); err != nil {
		return &CheckoutResult{Order: &order, Payment: &payment},
			fmt.Errorf("payment recorded but order back-reference not updated: %w", err)
	}
	order.PaymentID = payment.ID

	result := &CheckoutResult{Order: &order, Payment: &payment}
	if err := h.events.PublishOrderCreated(ctx, order.ID); err != nil {
		return result, fmt.Errorf("order saved but failed to publish event: %w", err)
	}
	return result, nil
}

// gatewayStep is one leg of the provider sequence. Steps run in order and
// the sequence aborts on the first failure; the order stays in
// awaiting_payment and no payment record exists, so the caller can retry.
type gatewayStep struct {
	name string
	run  func(ctx context.Context) error
}

func (h *CheckoutCommandHandler) checkoutGateway(ctx context.Context, order domain.Order, cmd CheckoutCommand) (*CheckoutResult, error) {
	billing, err := h.users.FindByID(ctx, order.UserID)
	if err != nil {
		return &CheckoutResult{Order: &order}, fmt.Errorf("billing lookup: %w", err)
	}

	description := cmd.Description
	if description == "" {
		description = "Order " + order.ID
	}

	var (
		intentID string
		methodID string
		attached *ports.AttachResult
	)

	steps := []gatewayStep{
		{
			name: "create intent",
			run: func(ctx context.Context) error {
				id, err := h.gateway.CreateIntent(ctx, ports.IntentRequest{
					AmountCents: order.TotalCents,
					Currency:    strings.ToLower(h.cfg.Currency),
					Description: description,
					Metadata: map[string]string{
						"order_id": order.ID,
						"user_id":  order.UserID,
					},
				})
				intentID = id
				return err
			},
		},
		{
			name: "create payment method",
			run: func(ctx context.Context) error {
				id, err := h.gateway.CreatePaymentMethod(ctx, *billing)
				methodID = id
				return err
			},
		},
		{
			name: "attach payment method",
			run: func(ctx context.Context) error {
				result, err := h.gateway.Attach(ctx, intentID, methodID, h.cfg.ReturnURL)
				attached = result
				return err
			},
		},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return &CheckoutResult{Order: &order}, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		UserID:        order.UserID,
		AmountCents:   order.TotalCents,
		Currency:      strings.ToLower(h.cfg.Currency),
		PaymentMethod: domain.MethodGatewayGCash,
		TransactionID: intentID,
		Status:        domain.PaymentRequiresAction,
		Description:   cmd.Description,
		RawResponse:   attached.RawResponse,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.payments.Create(ctx, payment); err != nil {
		// The gateway has provisioned an intent that local records do not
		// reflect. Flag for operator reconciliation instead of retrying.
		return &CheckoutResult{Order: &order, RedirectURL: attached.RedirectURL},
			apperrors.NewReconciliationError("gateway intent provisioned but payment record not persisted", intentID, err)
	}

	if err := h.orders.AttachPayment(ctx, order.ID, payment.ID); err != nil {
		return &CheckoutResult{Order: &order, Payment: &payment, RedirectURL: attached.RedirectURL},
			fmt.Errorf("payment recorded but order back-reference not updated: %w", err)
	}
	order.PaymentID = payment.ID

	result := &CheckoutResult{Order: &order, Payment: &payment, RedirectURL: attached.RedirectURL}
	if err := h.events.PublishOrderCreated(ctx, order.ID); err != nil {
		return result, fmt.Errorf("order saved but failed to publish event: %w", err)
	}
	return result, nil
}
