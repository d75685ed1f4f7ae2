package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"jewelry-orders/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error to its HTTP status via the domain
// error code, falling back to 500 for anything unrecognised.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeEmptyCart,
		model.ErrCodeInvalidAddress,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeProductNotFound:
		status = http.StatusBadRequest
	case model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	case model.ErrCodeStaleVersion,
		model.ErrCodeDuplicateCharge,
		model.ErrCodeIllegalTransition:
		status = http.StatusConflict
	case model.ErrCodeOutOfStock:
		status = http.StatusUnprocessableEntity
	case model.ErrCodeTokenAcquisition:
		status = http.StatusBadGateway
	case model.ErrCodeChargeRejected:
		status = http.StatusPaymentRequired
	}

	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
