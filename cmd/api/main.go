package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jewelry-orders/internal/config"
	"jewelry-orders/internal/database"
	"jewelry-orders/internal/event"
	"jewelry-orders/internal/gateway/wompi"
	"jewelry-orders/internal/handler"
	"jewelry-orders/internal/idempotency"
	"jewelry-orders/internal/repository"
	"jewelry-orders/internal/router"
	"jewelry-orders/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting jewelry-orders API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Charge guard: Redis when available, in-process otherwise. A single
	// instance without Redis still gets duplicate suppression.
	var guard idempotency.Guard
	if cfg.Redis.Enabled {
		guard = idempotency.NewRedisGuard(cfg.Redis.Addr, cfg.Redis.LockTTL)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis charge guard")
	} else {
		guard = idempotency.NewMemoryGuard(cfg.Redis.LockTTL)
		logger.Info().Msg("using in-memory charge guard (redis disabled)")
	}

	// Notification dispatcher: Kafka when configured, log-only otherwise.
	var dispatcher event.Dispatcher
	if cfg.Kafka.Enabled {
		kafkaDispatcher := event.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer func() {
			if err := kafkaDispatcher.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close kafka dispatcher")
			}
		}()
		dispatcher = kafkaDispatcher
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("using kafka dispatcher")
	} else {
		dispatcher = event.NewLogDispatcher(logger)
		logger.Info().Msg("using log dispatcher (kafka disabled)")
	}

	// Initialize the payment gateway client
	gatewayClient := wompi.NewClient(cfg.Wompi, logger)

	// Initialize services
	cartService := service.NewCartService(cartRepo, catalogRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, catalogRepo, dispatcher, logger)
	orderService := service.NewOrderService(orderRepo, dispatcher, logger)
	paymentService := service.NewPaymentService(gatewayClient, orderService, guard, logger)

	// Initialize HTTP handlers
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	// Initialize router
	mux := router.New(cartHandler, orderHandler, paymentHandler, cfg.Auth.AdminAPIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
