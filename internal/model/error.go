package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInvalidAddress    = "INVALID_ADDRESS"
	ErrCodeOutOfStock        = "OUT_OF_STOCK"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeStaleVersion      = "STALE_ORDER_VERSION"
	ErrCodeDuplicateCharge   = "DUPLICATE_CHARGE_ATTEMPT"
	ErrCodeIllegalTransition = "ILLEGAL_TRANSITION"
	ErrCodeTokenAcquisition  = "TOKEN_ACQUISITION_FAILED"
	ErrCodeChargeRejected    = "CHARGE_REJECTED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside the message so
// handlers can map business failures to HTTP statuses without string
// matching.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart has no items to check out")
	ErrInvalidAddress    = NewDomainError(ErrCodeInvalidAddress, "Shipping address is missing or incomplete")
	ErrOutOfStock        = NewDomainError(ErrCodeOutOfStock, "One or more items have insufficient stock")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrStaleOrderVersion = NewDomainError(ErrCodeStaleVersion, "Order was modified concurrently, re-fetch and retry")
	ErrDuplicateCharge   = NewDomainError(ErrCodeDuplicateCharge, "A charge for this order already succeeded or is in flight")
	ErrIllegalTransition = NewDomainError(ErrCodeIllegalTransition, "Order status transition is not allowed")
	ErrTokenAcquisition  = NewDomainError(ErrCodeTokenAcquisition, "Failed to acquire a gateway access token")
	ErrChargeRejected    = NewDomainError(ErrCodeChargeRejected, "The gateway rejected the charge")
)
