package handler

import (
	"net/http"

	"jewelry-orders/internal/middleware"
	"jewelry-orders/internal/model"
	"jewelry-orders/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/orders/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	cart, err := h.service.Get(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Replace handles PUT /api/orders/cart requests, swapping the full cart.
func (h *CartHandler) Replace(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	var req model.ReplaceCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.Replace(r.Context(), customerID, req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/orders/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	var req model.CartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), customerID, req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/orders/cart/items requests. A quantity of
// zero removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	var req model.CartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.UpdateQty(r.Context(), customerID, req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/orders/cart/items/{productId} requests.
// The variant is passed as a query parameter since it may be empty.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeProductNotFound, "product ID is required", h.logger)
		return
	}
	variant := r.URL.Query().Get("variant")

	cart, err := h.service.RemoveItem(r.Context(), customerID, productID, variant)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// SetAddress handles POST /api/orders/cart/addresses requests.
func (h *CartHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerFromContext(r.Context())

	var addr model.Address
	if err := decodeJSON(r, &addr); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.SetAddress(r.Context(), customerID, addr); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	cart, err := h.service.Get(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}
