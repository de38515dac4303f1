package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aayushshr101/digital-menu-backend/internal/auth"
	"github.com/Aayushshr101/digital-menu-backend/internal/config"
	"github.com/Aayushshr101/digital-menu-backend/internal/database"
	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/messaging"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/server"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/kitchen"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/menu"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/notification"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/order"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/payment"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/qrcode"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/tracking"
	"github.com/Aayushshr101/digital-menu-backend/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		mode              = flag.String("mode", "", "Service mode (order-service, kitchen-worker, notification-subscriber, table-client)")
		configPath        = flag.String("config", "config.yaml", "Path to the YAML config file")
		port              = flag.Int("port", 0, "HTTP port (overrides config)")
		workerName        = flag.String("worker-name", "", "Worker name (required for kitchen-worker mode)")
		heartbeatInterval = flag.Duration("heartbeat-interval", 30*time.Second, "Worker heartbeat interval")
		prefetch          = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
		apiURL            = flag.String("api-url", "http://localhost:3000", "Order service base URL (table-client mode)")
		orderID           = flag.String("order", "", "Order id to follow (table-client mode)")
		additions         addFlags
	)
	flag.Var(&additions, "add", "Item to add as itemID[:Group=Option,...] (table-client mode, repeatable)")
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "order-service":
		err = runOrderService(ctx, cfg, log)
	case "kitchen-worker":
		if *workerName == "" {
			log.Error("validation_failed", "worker-name is required for kitchen-worker mode", requestID, nil, nil)
			os.Exit(1)
		}
		err = runKitchenWorker(ctx, cfg, log, *workerName, *heartbeatInterval, *prefetch)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log)
	case "table-client":
		err = runTableClient(ctx, cfg, log, *apiURL, *orderID, additions)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runOrderService serves the HTTP API until ctx is done.
func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	m := metrics.New()
	publisher := messaging.NewPublisher(conn, log)

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to configure auth: %w", err)
	}
	authService := auth.NewService(auth.NewPostgresStore(db), tokens, log)
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUser, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	media, err := qrcode.NewLocalMedia(cfg.Media.Dir, cfg.Media.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to prepare media dir: %w", err)
	}

	catalog := menu.NewPostgresStore(db)
	orderService := order.NewService(order.NewPostgresStore(db), catalog, publisher, log, m)
	trackingService := tracking.NewService(tracking.NewPostgresStore(db), orderService, log, m, cfg.Sync.PollInterval)
	paymentService := payment.NewService(payment.NewPostgresStore(db), orderService, log)
	qrService := qrcode.NewService(qrcode.NewPostgresStore(db), media, log)

	router := server.NewRouter(cfg, log, m, server.Handlers{
		Auth:     auth.NewHandler(authService, log),
		Menu:     menu.NewHandler(catalog, log),
		Orders:   order.NewHandler(orderService, log),
		Tracking: tracking.NewHandler(trackingService, log),
		Payments: payment.NewHandler(paymentService, log),
		QRCodes:  qrcode.NewHandler(qrService, log),
	}, auth.RequireStaff(tokens, log))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("service_started", fmt.Sprintf("Order service listening on port %d", cfg.Server.Port), requestID, map[string]interface{}{
			"port":          cfg.Server.Port,
			"poll_interval": cfg.Sync.PollInterval.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runKitchenWorker consumes kitchen tickets until ctx is done.
func runKitchenWorker(ctx context.Context, cfg *config.Config, log *logger.Logger, name string, heartbeat time.Duration, prefetch int) error {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	publisher := messaging.NewPublisher(conn, log)
	orders := order.NewService(order.NewPostgresStore(db), menu.NewPostgresStore(db), publisher, log, nil)
	consumer := messaging.NewConsumer(conn, log, messaging.QueueKitchen, name, prefetch)

	worker := kitchen.NewWorker(name, heartbeat, kitchen.NewPostgresStore(db), consumer, orders, os.Stdout, log)
	return worker.Start(ctx)
}

// runNotificationSubscriber prints status updates until ctx is done.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.QueueNotifications, "notification-subscriber", 10)
	return notification.NewSubscriber(consumer, os.Stdout, log).Start(ctx)
}
