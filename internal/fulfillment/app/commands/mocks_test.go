package commands_test

import (
	"context"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"
)

type mockOrderRepository struct {
	createFn        func(ctx context.Context, order domain.Order) error
	getByIDFn       func(ctx context.Context, id string) (*domain.Order, error)
	listFn          func(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error)
	updateStatusFn  func(ctx context.Context, id string, expect, next domain.OrderStatus, at time.Time) error
	attachPaymentFn func(ctx context.Context, orderID, paymentID string) error
}

func (m *mockOrderRepository) Create(ctx context.Context, order domain.Order) error {
	if m.createFn != nil {
		return m.createFn(ctx, order)
	}
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Order{ID: id, Status: domain.OrderAwaitingPayment}, nil
}

func (m *mockOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, expect, next domain.OrderStatus, at time.Time) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, expect, next, at)
	}
	return nil
}

func (m *mockOrderRepository) AttachPayment(ctx context.Context, orderID, paymentID string) error {
	if m.attachPaymentFn != nil {
		return m.attachPaymentFn(ctx, orderID, paymentID)
	}
	return nil
}

type mockPaymentRepository struct {
	createFn             func(ctx context.Context, payment domain.Payment) error
	getByIDFn            func(ctx context.Context, id string) (*domain.Payment, error)
	getByOrderIDFn       func(ctx context.Context, orderID string, method domain.PaymentMethod) (*domain.Payment, error)
	getByTransactionIDFn func(ctx context.Context, transactionID string) (*domain.Payment, error)
	listFn               func(ctx context.Context, filter ports.PaymentFilter) ([]domain.Payment, error)
	updateStatusFn       func(ctx context.Context, id string, expect, next domain.PaymentStatus, update ports.PaymentUpdate) error
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment domain.Payment) error {
	if m.createFn != nil {
		return m.createFn(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentRepository) GetByOrderID(ctx context.Context, orderID string, method domain.PaymentMethod) (*domain.Payment, error) {
	if m.getByOrderIDFn != nil {
		return m.getByOrderIDFn(ctx, orderID, method)
	}
	return nil, nil
}

func (m *mockPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	if m.getByTransactionIDFn != nil {
		return m.getByTransactionIDFn(ctx, transactionID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) List(ctx context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockPaymentRepository) UpdateStatus(ctx context.Context, id string, expect, next domain.PaymentStatus, update ports.PaymentUpdate) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, expect, next, update)
	}
	return nil
}

type mockGateway struct {
	createIntentFn        func(ctx context.Context, req ports.IntentRequest) (string, error)
	createPaymentMethodFn func(ctx context.Context, billing ports.BillingInfo) (string, error)
	attachFn              func(ctx context.Context, intentID, methodID, returnURL string) (*ports.AttachResult, error)
	intentStatusFn        func(ctx context.Context, intentID string) (*ports.IntentState, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, req ports.IntentRequest) (string, error) {
	if m.createIntentFn != nil {
		return m.createIntentFn(ctx, req)
	}
	return "pi_test", nil
}

func (m *mockGateway) CreatePaymentMethod(ctx context.Context, billing ports.BillingInfo) (string, error) {
	if m.createPaymentMethodFn != nil {
		return m.createPaymentMethodFn(ctx, billing)
	}
	return "pm_test", nil
}

func (m *mockGateway) Attach(ctx context.Context, intentID, methodID, returnURL string) (*ports.AttachResult, error) {
	if m.attachFn != nil {
		return m.attachFn(ctx, intentID, methodID, returnURL)
	}
	return &ports.AttachResult{RedirectURL: "https://gateway.test/redirect", RawResponse: "{}"}, nil
}

func (m *mockGateway) IntentStatus(ctx context.Context, intentID string) (*ports.IntentState, error) {
	if m.intentStatusFn != nil {
		return m.intentStatusFn(ctx, intentID)
	}
	return &ports.IntentState{Status: "paid", RawResponse: "{}"}, nil
}

type mockUserDirectory struct {
	findByIDFn func(ctx context.Context, id string) (*ports.BillingInfo, error)
}

func (m *mockUserDirectory) FindByID(ctx context.Context, id string) (*ports.BillingInfo, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &ports.BillingInfo{FullName: "Test User", Email: "test@example.com", Phone: "+639170000000"}, nil
}

type mockEventBus struct {
	publishOrderCreatedFn  func(ctx context.Context, orderID string) error
	publishOrderPaidFn     func(ctx context.Context, orderID string, paymentID string) error
	publishPaymentFailedFn func(ctx context.Context, paymentID string, reason string) error
}

func (m *mockEventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	if m.publishOrderCreatedFn != nil {
		return m.publishOrderCreatedFn(ctx, orderID)
	}
	return nil
}

func (m *mockEventBus) PublishOrderPaid(ctx context.Context, orderID string, paymentID string) error {
	if m.publishOrderPaidFn != nil {
		return m.publishOrderPaidFn(ctx, orderID, paymentID)
	}
	return nil
}

func (m *mockEventBus) PublishPaymentFailed(ctx context.Context, paymentID string, reason string) error {
	if m.publishPaymentFailedFn != nil {
		return m.publishPaymentFailedFn(ctx, paymentID, reason)
	}
	return nil
}
