package wompi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jewelry-orders/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(tokenURL, baseURL string) config.WompiConfig {
	return config.WompiConfig{
		AppID:         "app-id",
		AppSecret:     "app-secret",
		TokenURL:      tokenURL,
		BaseURL:       baseURL,
		TokenTimeout:  2 * time.Second,
		ChargeTimeout: 2 * time.Second,
	}
}

func TestToken_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "wompi_api", r.FormValue("audience"))
		assert.Equal(t, "app-id", r.FormValue("client_id"))
		assert.Equal(t, "app-secret", r.FormValue("client_secret"))

		json.NewEncoder(w).Encode(Token{
			AccessToken: "bearer-abc",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL), zerolog.Nop())

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bearer-abc", token.AccessToken)
	assert.Equal(t, 3600, token.ExpiresIn)
}

func TestToken_IdentityEndpointRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_client", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL), zerolog.Nop())

	_, err := client.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCharge_Approved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathChargeDirect, r.URL.Path)
		assert.Equal(t, "Bearer bearer-abc", r.Header.Get("Authorization"))

		var req ChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "order-1", req.Reference)
		assert.EqualValues(t, 4498, req.AmountCents)

		json.NewEncoder(w).Encode(ChargeResult{
			TransactionID: "txn-99",
			Status:        StatusApproved,
			AuthCode:      "123456",
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL), zerolog.Nop())

	result, err := client.Charge(context.Background(), "bearer-abc", ChargeRequest{
		Mode:        ModeDirect,
		Reference:   "order-1",
		CardToken:   "tok-1",
		AmountCents: 4498,
	})
	require.NoError(t, err)
	assert.True(t, result.IsApproved())
	assert.Equal(t, "txn-99", result.TransactionID)
}

func TestCharge_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChargeResult{
			TransactionID: "txn-100",
			Status:        "RECHAZADA",
			Message:       "fondos insuficientes",
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL), zerolog.Nop())

	result, err := client.Charge(context.Background(), "bearer-abc", ChargeRequest{
		Mode:        ModeDirect,
		Reference:   "order-2",
		CardToken:   "tok-1",
		AmountCents: 100,
	})
	require.NoError(t, err)
	assert.False(t, result.IsApproved())
	assert.Equal(t, "fondos insuficientes", result.Message)
}

func TestCharge_ThreeDSUsesChallengeEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathCharge3DS, r.URL.Path)
		json.NewEncoder(w).Encode(ChargeResult{
			TransactionID: "txn-3ds",
			Status:        StatusApproved,
			ThreeDSURL:    "https://challenge.example/3ds",
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL), zerolog.Nop())

	result, err := client.Charge(context.Background(), "bearer-abc", ChargeRequest{
		Mode:        ModeThreeDS,
		Reference:   "order-3",
		CardToken:   "tok-1",
		AmountCents: 100,
		RedirectURL: "https://shop.example/return",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://challenge.example/3ds", result.ThreeDSURL)
}

func TestCharge_TimeoutIsAmbiguous(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, server.URL)
	cfg.ChargeTimeout = 50 * time.Millisecond
	client := NewClient(cfg, zerolog.Nop())

	_, err := client.Charge(context.Background(), "bearer-abc", ChargeRequest{
		Mode:        ModeDirect,
		Reference:   "order-4",
		CardToken:   "tok-1",
		AmountCents: 100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousOutcome)
}

func TestCharge_ValidationBeforeWire(t *testing.T) {
	// No server: an invalid request must fail before any network call.
	client := NewClient(testConfig("http://127.0.0.1:1", "http://127.0.0.1:1"), zerolog.Nop())

	tests := []struct {
		name string
		req  ChargeRequest
	}{
		{"missing reference", ChargeRequest{Mode: ModeDirect, CardToken: "t", AmountCents: 1}},
		{"missing card token", ChargeRequest{Mode: ModeDirect, Reference: "o", AmountCents: 1}},
		{"zero amount", ChargeRequest{Mode: ModeDirect, Reference: "o", CardToken: "t"}},
		{"3ds without redirect", ChargeRequest{Mode: ModeThreeDS, Reference: "o", CardToken: "t", AmountCents: 1}},
		{"unknown mode", ChargeRequest{Reference: "o", CardToken: "t", AmountCents: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Charge(context.Background(), "bearer", tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid charge request")
		})
	}
}

func TestGetTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathTransaction + "/order-1":
			json.NewEncoder(w).Encode(ChargeResult{TransactionID: "txn-99", Status: StatusApproved})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL), zerolog.Nop())

	result, err := client.GetTransaction(context.Background(), "bearer", "order-1")
	require.NoError(t, err)
	assert.True(t, result.IsApproved())

	_, err = client.GetTransaction(context.Background(), "bearer", "missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
