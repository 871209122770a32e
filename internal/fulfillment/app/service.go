package app

import (
	"context"
	"log/slog"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/app/commands"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/app/queries"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/metrics"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"
)

// Service bundles the fulfillment use cases exposed over the API.
type Service struct {
	checkoutHandler commands.CheckoutHandler
	confirmHandler  commands.ConfirmHandler
	webhookHandler  commands.WebhookHandler
	cancelHandler   *commands.CancelOrderCommandHandler
	shipmentHandler *commands.UpdateShipmentCommandHandler

	getOrder     *queries.GetOrderQueryHandler
	listOrders   *queries.ListOrdersQueryHandler
	listPayments *queries.ListPaymentsQueryHandler

	idemStore ports.IdempotencyStore
}

// NewService wires the command and query handlers with their observable
// decorators.
func NewService(
	orders ports.OrderRepository,
	payments ports.PaymentRepository,
	users ports.UserDirectory,
	gateway ports.PaymentGateway,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	checkoutCfg commands.CheckoutConfig,
) *Service {
	checkout := commands.NewCheckoutCommandHandler(orders, payments, users, gateway, events, checkoutCfg)
	confirm := commands.NewConfirmCommandHandler(orders, payments, gateway, events, logger)
	webhook := commands.NewWebhookCommandHandler(orders, payments, events, logger)

	return &Service{
		checkoutHandler: commands.NewObservableCheckoutHandler(checkout, logger, metrics),
		confirmHandler:  commands.NewObservableConfirmHandler(confirm, logger, metrics),
		webhookHandler:  commands.NewObservableWebhookHandler(webhook, logger, metrics),
		cancelHandler:   commands.NewCancelOrderCommandHandler(orders),
		shipmentHandler: commands.NewUpdateShipmentCommandHandler(orders),
		getOrder:        queries.NewGetOrderQueryHandler(orders),
		listOrders:      queries.NewListOrdersQueryHandler(orders),
		listPayments:    queries.NewListPaymentsQueryHandler(payments),
		idemStore:       idem,
	}
}

// Checkout places an order and, for gateway payments, provisions the
// provider intent.
func (s *Service) Checkout(ctx context.Context, cmd commands.CheckoutCommand) (*commands.CheckoutResult, error) {
	return s.checkoutHandler.Handle(ctx, cmd)
}

// ConfirmPayment reconciles a payment's status against the gateway, or
// completes a COD payment on delivery.
func (s *Service) ConfirmPayment(ctx context.Context, cmd commands.ConfirmCommand) (*commands.ConfirmResult, error) {
	return s.confirmHandler.Handle(ctx, cmd)
}

// ProcessWebhook applies a raw gateway event.
func (s *Service) ProcessWebhook(ctx context.Context, payload []byte) (*commands.WebhookResult, error) {
	return s.webhookHandler.Handle(ctx, commands.WebhookCommand{Payload: payload})
}

// CancelOrder cancels an order that has not shipped.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.cancelHandler.Handle(ctx, commands.CancelOrderCommand{OrderID: orderID})
}

// UpdateShipment moves a paid order to shipped or delivered.
func (s *Service) UpdateShipment(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	return s.shipmentHandler.Handle(ctx, commands.UpdateShipmentCommand{OrderID: orderID, Status: status})
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrder.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns a page of orders.
func (s *Service) ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]domain.Order, error) {
	return s.listOrders.Handle(ctx, query)
}

// ListPayments returns a page of payments.
func (s *Service) ListPayments(ctx context.Context, query queries.ListPaymentsQuery) ([]domain.Payment, error) {
	return s.listPayments.Handle(ctx, query)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
