package router

import (
	"net/http"

	"jewelry-orders/internal/handler"
	"jewelry-orders/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	adminAPIKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware in order: Recovery -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Storefront routes, scoped to the calling customer.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CustomerID(logger))

		r.Route("/api/orders/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Put("/", cartHandler.Replace)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items", cartHandler.UpdateItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
			r.Post("/addresses", cartHandler.SetAddress)
		})

		r.Post("/api/orders", orderHandler.Create)
		r.Get("/api/orders/user", orderHandler.ListByCustomer)
		r.Get("/api/orders/{id}", orderHandler.GetByID)
	})

	// Gateway routes: the bearer token never reaches the browser, so these
	// are reserved to the storefront backend via the admin API key.
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(adminAPIKey, logger))

		r.Post("/api/wompi/token", paymentHandler.Token)
		r.Post("/api/wompi/payment3ds", paymentHandler.Payment3DS)

		// Back-office lifecycle transitions (ship, deliver, cancel).
		r.Patch("/api/orders/{id}/status", orderHandler.UpdateStatus)
	})

	return r
}
