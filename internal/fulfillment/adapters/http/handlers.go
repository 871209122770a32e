package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/app"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/app/commands"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/app/queries"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/ports"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

// Handler exposes HTTP endpoints for checkout, payments and order
// management.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the handlers to the provided router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/checkout", h.checkout)

		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders/{id}/cancel", h.cancelOrder)
		r.Post("/orders/{id}/status", h.updateShipment)

		r.Get("/payments", h.listPayments)
		r.Post("/payments/confirm", h.confirmPayment)

		r.Post("/webhooks/paymongo", h.webhook)
	})
}

type checkoutRequest struct {
	UserID          string                 `json:"user_id"`
	Items           []domain.OrderItem     `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	Description     string                 `json:"description"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey == "" {
		writeError(w, http.StatusBadRequest, "Idempotency-Key header required")
		return
	}

	if stored, err := h.service.GetIdempotentResponse(ctx, idemKey); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	} else if stored != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stored.StatusCode)
		_, _ = w.Write(stored.Body)
		return
	}

	var payload checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := h.service.Checkout(ctx, commands.CheckoutCommand{
		UserID:          payload.UserID,
		Items:           payload.Items,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(payload.PaymentMethod),
		Description:     payload.Description,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	response := map[string]any{
		"order":   result.Order,
		"payment": result.Payment,
	}
	if result.RedirectURL != "" {
		response["redirect_url"] = result.RedirectURL
	}

	body, err := json.Marshal(response)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stored := ports.StoredResponse{
		StatusCode: http.StatusCreated,
		Body:       body,
		OrderID:    result.Order.ID,
	}
	if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	query := queries.ListOrdersQuery{
		Status:   r.URL.Query().Get("status"),
		UserID:   r.URL.Query().Get("user_id"),
		Page:     intParam(r, "page"),
		PageSize: intParam(r, "page_size"),
	}

	orders, err := h.service.ListOrders(r.Context(), query)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

type shipmentRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateShipment(w http.ResponseWriter, r *http.Request) {
	var payload shipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.UpdateShipment(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(payload.Status))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	query := queries.ListPaymentsQuery{
		Status:   r.URL.Query().Get("status"),
		OrderID:  r.URL.Query().Get("order_id"),
		UserID:   r.URL.Query().Get("user_id"),
		Page:     intParam(r, "page"),
		PageSize: intParam(r, "page_size"),
	}

	payments, err := h.service.ListPayments(r.Context(), query)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

type confirmRequest struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var payload confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), commands.ConfirmCommand{
		OrderID:       payload.OrderID,
		TransactionID: payload.TransactionID,
		PaymentMethod: domain.PaymentMethod(payload.PaymentMethod),
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order":   result.Order,
		"payment": result.Payment,
		"applied": result.Applied,
	})
}

// webhook acknowledges every provider delivery with 200, including
// malformed payloads and processing failures, so the provider's retry loop
// does not hammer the endpoint. Failures are classified and logged by the
// observable webhook handler for replay.
func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"received": true, "tracked": false})
		return
	}

	result, err := h.service.ProcessWebhook(r.Context(), payload)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"received": true, "tracked": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"received": true,
		"tracked":  true,
		"applied":  result.Applied,
	})
}

func intParam(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeAppError maps the typed application errors onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	if _, ok := apperrors.IsValidationError(err); ok {
		return http.StatusBadRequest
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return http.StatusNotFound
	}
	if _, ok := apperrors.IsInvariantViolationError(err); ok {
		return http.StatusConflict
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		return http.StatusServiceUnavailable
	}
	if _, ok := apperrors.IsGatewayError(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
