package wompi

import (
	"errors"

	"jewelry-orders/internal/model"
)

// StatusApproved is the gateway's terminal success status for a charge.
const StatusApproved = "APROBADA"

var (
	// ErrAmbiguousOutcome is returned when the charge request may have
	// reached the gateway but no response arrived. The caller must
	// reconcile before re-attempting; re-submitting risks a double debit.
	ErrAmbiguousOutcome = errors.New("charge outcome ambiguous: request may have reached the gateway")

	// ErrTransactionNotFound is returned by the reconciliation lookup
	// when the gateway has no record of the reference.
	ErrTransactionNotFound = errors.New("transaction not found at gateway")
)

// Token is a short-lived bearer token from the gateway identity endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ChargeMode selects between the direct tokenized charge and the
// 3DS-challenge charge.
type ChargeMode string

const (
	ModeDirect  ChargeMode = "direct"
	ModeThreeDS ChargeMode = "3ds"
)

// ChargeRequest is a tokenized-card payment request. Reference carries the
// order id and doubles as the de-duplication key; the gateway itself has
// no idempotency key.
type ChargeRequest struct {
	Mode        ChargeMode  `json:"-"`
	Reference   string      `json:"referencia"`
	CardToken   string      `json:"tokenPago"`
	AmountCents model.Cents `json:"montoCentavos"`
	Email       string      `json:"emailCliente,omitempty"`
	Name        string      `json:"nombreCliente,omitempty"`
	RedirectURL string      `json:"urlRedirect,omitempty"`
}

// Validate checks the request before serialization; loosely-typed payloads
// never reach the wire.
func (r *ChargeRequest) Validate() error {
	if r.Reference == "" {
		return errors.New("charge reference is required")
	}
	if r.CardToken == "" {
		return errors.New("card token is required")
	}
	if r.AmountCents <= 0 {
		return errors.New("charge amount must be positive")
	}
	switch r.Mode {
	case ModeDirect:
	case ModeThreeDS:
		if r.RedirectURL == "" {
			return errors.New("3ds charge requires a redirect URL")
		}
	default:
		return errors.New("unknown charge mode")
	}
	return nil
}

// ChargeResult is the gateway's answer to a charge or a reconciliation
// lookup.
type ChargeResult struct {
	TransactionID string `json:"idTransaccion"`
	Status        string `json:"estadoTransaccion"`
	Message       string `json:"mensaje,omitempty"`
	AuthCode      string `json:"codigoAutorizacion,omitempty"`
	ThreeDSURL    string `json:"urlCompletarPago3Ds,omitempty"`
}

// IsApproved reports whether the charge was approved.
func (r *ChargeResult) IsApproved() bool {
	return r.Status == StatusApproved
}
