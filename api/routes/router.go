package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmlink-co/farmlink-backend/api/controllers"
	"github.com/farmlink-co/farmlink-backend/api/middleware"
	"github.com/farmlink-co/farmlink-backend/internal/catalog"
	"github.com/farmlink-co/farmlink-backend/internal/deliveries"
	"github.com/farmlink-co/farmlink-backend/internal/listings"
	"github.com/farmlink-co/farmlink-backend/internal/orders"
	"github.com/farmlink-co/farmlink-backend/internal/transports"
	"github.com/farmlink-co/farmlink-backend/pkg/config"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
	"github.com/farmlink-co/farmlink-backend/pkg/metrics"
	"github.com/farmlink-co/farmlink-backend/pkg/redis"
)

// Dependencies carries everything the route tree needs wired in.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Readiness   map[string]controllers.Pinger

	Catalog    catalog.Service
	Listings   listings.Service
	Orders     orders.Service
	Deliveries deliveries.Service
	Transports transports.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/", controllers.CatalogList(deps.Catalog, logg))
		r.Get("/{catalogId}/listings", controllers.CatalogListings(deps.Catalog, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleCustomer), logg))
		r.Use(middleware.RateLimit(cfg.RateSpec, deps.Redis, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Post("/", controllers.OrderCreate(deps.Orders, logg))
		r.Get("/", controllers.OrderList(deps.Orders, logg))
		r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
		r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))
	})

	r.Route("/api/v1/farmer", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleFarmer), logg))
		r.Use(middleware.RateLimit(cfg.RateSpec, deps.Redis, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", controllers.FarmerListingList(deps.Listings, logg))
			r.Post("/", controllers.FarmerListingCreate(deps.Listings, logg))
			r.Patch("/{listingId}", controllers.FarmerListingUpdate(deps.Listings, logg))
			r.Delete("/{listingId}", controllers.FarmerListingDelete(deps.Listings, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.FarmerOrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.FarmerOrderDetail(deps.Orders, logg))
			r.Post("/{orderId}/assign-transport", controllers.FarmerAssignTransport(deps.Deliveries, logg))
		})
		r.Get("/transport-providers", controllers.FarmerTransportProviders(deps.Transports, logg))
	})

	r.Route("/api/v1/transport", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleTransport), logg))
		r.Use(middleware.RateLimit(cfg.RateSpec, deps.Redis, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", controllers.TransportDeliveryList(deps.Deliveries, deps.Transports, logg))
			r.Patch("/{deliveryId}", controllers.TransportDeliveryUpdate(deps.Deliveries, deps.Transports, logg))
		})
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.TransportVehicleList(deps.Transports, logg))
			r.Post("/", controllers.TransportVehicleRegister(deps.Transports, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
		r.Use(middleware.RateLimit(cfg.RateSpec, deps.Redis, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderSetStatus(deps.Orders, logg))
		})
	})

	return r
}
