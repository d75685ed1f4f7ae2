package handler

import (
	"net/http"

	"jewelry-orders/internal/gateway/wompi"
	"jewelry-orders/internal/model"
	"jewelry-orders/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler handles gateway-facing HTTP requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// TokenResponse is the wire shape of an acquired gateway token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// Token handles POST /api/wompi/token requests, acquiring a fresh bearer
// token from the gateway's identity endpoint.
func (h *PaymentHandler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.AcquireToken(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	})
}

// PaymentForm is the charge form forwarded by the storefront.
type PaymentForm struct {
	OrderID     string `json:"orderId"`
	CardToken   string `json:"cardToken"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Payment3DSRequest is the payload for POST /api/wompi/payment3ds: a
// pre-acquired bearer token plus the charge form.
type Payment3DSRequest struct {
	Token    string      `json:"token"`
	FormData PaymentForm `json:"formData"`
}

// Payment3DS handles POST /api/wompi/payment3ds requests, submitting a
// tokenized 3-D Secure charge for a pending order.
func (h *PaymentHandler) Payment3DS(w http.ResponseWriter, r *http.Request) {
	var req Payment3DSRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	orderID, err := uuid.Parse(req.FormData.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeOrderNotFound, "invalid order ID format", h.logger)
		return
	}
	if req.FormData.CardToken == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "card token is required", h.logger)
		return
	}

	resp, err := h.service.Charge(r.Context(), service.ChargeParams{
		OrderID:     orderID,
		CardToken:   req.FormData.CardToken,
		Mode:        wompi.ModeThreeDS,
		Email:       req.FormData.Email,
		Name:        req.FormData.Name,
		RedirectURL: req.FormData.RedirectURL,
		Bearer:      req.Token,
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	status := http.StatusOK
	if resp.Outcome == service.OutcomePendingConfirmation {
		status = http.StatusAccepted
	}
	writeJSON(w, status, resp)
}
