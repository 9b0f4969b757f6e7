package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/feiralivre/feiralivre-backend/api/controllers"
	"github.com/feiralivre/feiralivre-backend/api/routes"
	"github.com/feiralivre/feiralivre-backend/api/views"
	"github.com/feiralivre/feiralivre-backend/internal/auth"
	"github.com/feiralivre/feiralivre-backend/internal/catalog"
	product "github.com/feiralivre/feiralivre-backend/internal/products"
	vendor "github.com/feiralivre/feiralivre-backend/internal/vendors"
	pkgauth "github.com/feiralivre/feiralivre-backend/pkg/auth"
	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/db"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
	"github.com/feiralivre/feiralivre-backend/pkg/mailer"
	"github.com/feiralivre/feiralivre-backend/pkg/metrics"
	"github.com/feiralivre/feiralivre-backend/pkg/migrate"
	"github.com/feiralivre/feiralivre-backend/pkg/redis"
	"github.com/feiralivre/feiralivre-backend/pkg/storage"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	store, err := storage.NewFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}

	sessions, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	signer, err := pkgauth.NewSigner(cfg.Token)
	if err != nil {
		logg.Error(context.Background(), "failed to create token signer", err)
		os.Exit(1)
	}

	vendorRepo := vendor.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())

	authService, err := auth.NewService(vendorRepo, signer, mailer.New(cfg.SendGrid), logg, cfg.Token, cfg.Password, cfg.Server.BaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	vendorService, err := vendor.NewService(vendorRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}
	productService, err := product.NewService(productRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	renderer, err := views.New(imageURL(cfg.Storage))
	if err != nil {
		logg.Error(context.Background(), "failed to parse templates", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	base := &controllers.Base{
		Views:    renderer,
		Sessions: sessions,
		Store:    store,
		Logg:     logg,
		Cookie:   cfg.Session,
	}

	handler := routes.NewRouter(
		cfg, logg, base,
		redisClient, dbClient, vendorRepo,
		authService, vendorService, productService, catalogService,
		httpMetrics, registry,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

// imageURL maps a stored object key to the URL browsers fetch it from.
func imageURL(cfg config.StorageConfig) func(string) string {
	if cfg.Backend == config.StorageBackendGCS {
		return func(key string) string {
			return "https://storage.googleapis.com/" + cfg.GCSBucket + "/" + key
		}
	}
	return func(key string) string {
		return "/uploads/" + key
	}
}
