// Package wompi is the HTTP client for the card-payment gateway: a
// client-credentials token leg followed by a tokenized charge leg. Both
// legs are plain HTTPS calls with no shared transport state.
package wompi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"jewelry-orders/internal/config"

	"github.com/rs/zerolog"
)

const (
	pathChargeDirect = "/TransaccionCompra/TokenizadaSin3Ds"
	pathCharge3DS    = "/TransaccionCompra/3Ds"
	pathTransaction  = "/TransaccionCompra"
	tokenAudience    = "wompi_api"
)

// Client talks to the gateway. Tokens are deliberately not cached across
// orders: a few hundred milliseconds of latency buys never presenting an
// expired token on a 3DS redirect.
type Client struct {
	cfg        config.WompiConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a gateway client from the explicit configuration
// struct built at startup.
func NewClient(cfg config.WompiConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		// Per-call timeouts come from the request contexts; the client
		// itself stays unbounded so the charge leg controls its own.
		httpClient: &http.Client{},
		logger:     logger.With().Str("gateway", "wompi").Logger(),
	}
}

// Token acquires a bearer token via the client-credentials grant. The
// identity endpoint is idempotent and side-effect-free, so callers may
// retry this leg freely.
func (c *Client) Token(ctx context.Context) (*Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TokenTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("audience", tokenAudience)
	form.Set("client_id", c.cfg.AppID)
	form.Set("client_secret", c.cfg.AppSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("token request failed")
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().Int("status", resp.StatusCode).Msg("identity endpoint rejected token request")
		return nil, fmt.Errorf("identity endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("identity endpoint returned an empty access token")
	}

	return &token, nil
}

// Charge submits a tokenized charge. It is never retried here: an
// ambiguous outcome surfaces as ErrAmbiguousOutcome and must be resolved
// via GetTransaction before any re-attempt.
func (c *Client) Charge(ctx context.Context, bearer string, chargeReq ChargeRequest) (*ChargeResult, error) {
	if err := chargeReq.Validate(); err != nil {
		return nil, fmt.Errorf("invalid charge request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ChargeTimeout)
	defer cancel()

	path := pathChargeDirect
	if chargeReq.Mode == ModeThreeDS {
		path = pathCharge3DS
	}

	payload, err := json.Marshal(chargeReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Once the request may have left the socket the outcome is
		// unknowable from here; the charge endpoint is not idempotent.
		if isAmbiguous(err) {
			c.logger.Error().
				Err(err).
				Str("reference", chargeReq.Reference).
				Msg("charge outcome ambiguous")
			return nil, fmt.Errorf("%w: %v", ErrAmbiguousOutcome, err)
		}
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: undecodable charge response: %v", ErrAmbiguousOutcome, err)
	}

	c.logger.Info().
		Str("reference", chargeReq.Reference).
		Str("transaction_id", result.TransactionID).
		Str("status", result.Status).
		Msg("charge completed")

	return &result, nil
}

// GetTransaction looks up a transaction by its order reference. Used to
// reconcile ambiguous charge outcomes.
func (c *Client) GetTransaction(ctx context.Context, bearer, reference string) (*ChargeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TokenTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+pathTransaction+"/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction lookup: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transaction lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrTransactionNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("transaction lookup returned %d: %s", resp.StatusCode, string(body))
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode transaction response: %w", err)
	}

	return &result, nil
}

// isAmbiguous reports whether a transport error leaves the charge outcome
// unknown. Timeouts and cancellations after Do may have hit the gateway;
// errors building the connection cannot have.
func isAmbiguous(err error) bool {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	if urlErr.Timeout() {
		return true
	}
	return errors.Is(urlErr.Err, context.DeadlineExceeded) || errors.Is(urlErr.Err, context.Canceled)
}
