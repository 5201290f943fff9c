package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farmlink-co/farmlink-backend/api/controllers"
	"github.com/farmlink-co/farmlink-backend/api/routes"
	"github.com/farmlink-co/farmlink-backend/internal/catalog"
	"github.com/farmlink-co/farmlink-backend/internal/deliveries"
	"github.com/farmlink-co/farmlink-backend/internal/listings"
	"github.com/farmlink-co/farmlink-backend/internal/orders"
	"github.com/farmlink-co/farmlink-backend/internal/transports"
	"github.com/farmlink-co/farmlink-backend/pkg/config"
	"github.com/farmlink-co/farmlink-backend/pkg/db"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
	"github.com/farmlink-co/farmlink-backend/pkg/metrics"
	"github.com/farmlink-co/farmlink-backend/pkg/migrate"
	"github.com/farmlink-co/farmlink-backend/pkg/redis"
	"github.com/farmlink-co/farmlink-backend/pkg/stripe"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, cfg.Orders.PaymentTimeout, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	listingsRepo := listings.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	deliveriesRepo := deliveries.NewRepository(dbClient.DB())
	transportsRepo := transports.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listingsRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		ordersRepo,
		listingsRepo,
		orders.NewStockKeeper(),
		dbClient,
		stripeClient,
		cfg.Orders.DeliveryFeeAmount(),
		orderMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	deliveriesService, err := deliveries.NewService(deliveriesRepo, transportsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create deliveries service", err)
		os.Exit(1)
	}

	transportsService, err := transports.NewService(transportsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create transports service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			HTTPMetrics: httpMetrics,
			Readiness: map[string]controllers.Pinger{
				"db":    dbClient,
				"redis": redisClient,
			},
			Catalog:    catalogService,
			Listings:   listingsService,
			Orders:     ordersService,
			Deliveries: deliveriesService,
			Transports: transportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
