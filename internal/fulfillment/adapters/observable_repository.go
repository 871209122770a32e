package adapters

import (
	"context"
	"time"

	"github.com/jentii16200/hive-fulfillment/internal/database"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"
	"github.com/jentii16200/hive-fulfillment/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableOrderRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableOrderRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableOrderRepository {
	return &ObservableOrderRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableOrderRepository) Create(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Create")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("operation", "create"),
	)

	start := time.Now()
	err := r.repo.Create(ctx, order)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "create_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("operation", "get_by_id"),
	)

	start := time.Now()
	order, err := r.repo.GetByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_order_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.List")
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("operation", "list"),
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize),
	}
	if filter.Status != nil {
		attrs = append(attrs, attribute.String("filter.status", string(*filter.Status)))
	}
	telemetry.AddSpanAttributes(span, attrs...)

	start := time.Now()
	orders, err := r.repo.List(ctx, filter)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "list_orders", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(orders)))
	telemetry.SetSpanSuccess(span)
	return orders, nil
}

func (r *ObservableOrderRepository) UpdateStatus(ctx context.Context, id string, expect, next domain.OrderStatus, at time.Time) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("order.expected_status", string(expect)),
		attribute.String("order.new_status", string(next)),
		attribute.String("operation", "update_status"),
	)

	start := time.Now()
	err := r.repo.UpdateStatus(ctx, id, expect, next, at)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "update_order_status", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableOrderRepository) AttachPayment(ctx context.Context, orderID, paymentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.AttachPayment")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("payment.id", paymentID),
		attribute.String("operation", "attach_payment"),
	)

	start := time.Now()
	err := r.repo.AttachPayment(ctx, orderID, paymentID)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "attach_payment", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

type ObservablePaymentRepository struct {
	repo    ports.PaymentRepository
	metrics *database.Metrics
}

func NewObservablePaymentRepository(repo ports.PaymentRepository, metrics *database.Metrics) *ObservablePaymentRepository {
	return &ObservablePaymentRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservablePaymentRepository) Create(ctx context.Context, payment domain.Payment) error {
	ctx, span := telemetry.StartSpan(ctx, "PaymentRepository.Create")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("payment.id", payment.ID),
		attribute.String("operation", "create"),
	)

	start := time.Now()
	err := r.repo.Create(ctx, payment)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "create_payment", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservablePaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "PaymentRepository.GetByID")
	defer span.End()

	start := time.Now()
	payment, err := r.repo.GetByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_payment_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return payment, nil
}

func (r *ObservablePaymentRepository) GetByOrderID(ctx context.Context, orderID string, method domain.PaymentMethod) (*domain.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "PaymentRepository.GetByOrderID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("payment.method", string(method)),
	)

	start := time.Now()
	payment, err := r.repo.GetByOrderID(ctx, orderID, method)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_payment_by_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return payment, nil
}

func (r *ObservablePaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "PaymentRepository.GetByTransactionID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("payment.transaction_id", transactionID),
	)

	start := time.Now()
	payment, err := r.repo.GetByTransactionID(ctx, transactionID)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_payment_by_transaction", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return payment, nil
}

func (r *ObservablePaymentRepository) List(ctx context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "PaymentRepository.List")
	defer span.End()

	start := time.Now()
	payments, err := r.repo.List(ctx, filter)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "list_payments", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(payments)))
	telemetry.SetSpanSuccess(span)
	return payments, nil
}

func (r *ObservablePaymentRepository) UpdateStatus(ctx context.Context, id string, expect, next domain.PaymentStatus, update ports.PaymentUpdate) error {
	ctx, span := telemetry.StartSpan(ctx, "PaymentRepository.UpdateStatus")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("payment.id", id),
		attribute.String("payment.expected_status", string(expect)),
		attribute.String("payment.new_status", string(next)),
		attribute.String("operation", "update_status"),
	)

	start := time.Now()
	err := r.repo.UpdateStatus(ctx, id, expect, next, update)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "update_payment_status", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
