package handler

import (
	"net/http"

	"jewelry-orders/internal/middleware"
	"jewelry-orders/internal/model"
	"jewelry-orders/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(checkout service.CheckoutService, orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests, finalizing the customer's
// cart into a pending_payment order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	var req model.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.checkout.Finalize(r.Context(), customerID, req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.NewOrderResponse(order))
}

// GetByID handles GET /api/orders/{id} requests. Customers only see
// their own orders.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeOrderNotFound, "invalid order ID format", h.logger)
		return
	}

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if order == nil || order.CustomerID != customerID {
		writeError(w, http.StatusNotFound, model.ErrCodeOrderNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.NewOrderResponse(order))
}

// ListByCustomer handles GET /api/orders/user requests, newest first.
func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	orders, err := h.orders.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	responses := make([]*model.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, model.NewOrderResponse(&orders[i]))
	}

	writeJSON(w, http.StatusOK, responses)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests. This is
// the back-office transition endpoint (ship, deliver, cancel); callers
// send the version they read so concurrent updates are detected.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeOrderNotFound, "invalid order ID format", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.Transition(r.Context(), orderID, req.Status, req.Version, nil)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.NewOrderResponse(order))
}
