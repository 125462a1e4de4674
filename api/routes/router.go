package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdantlabs/seedmarket-backend/api/controllers"
	webhookcontrollers "github.com/verdantlabs/seedmarket-backend/api/controllers/webhooks"
	"github.com/verdantlabs/seedmarket-backend/api/middleware"
	"github.com/verdantlabs/seedmarket-backend/internal/orders"
	"github.com/verdantlabs/seedmarket-backend/internal/products"
	paymentwebhook "github.com/verdantlabs/seedmarket-backend/internal/webhooks/payments"
	"github.com/verdantlabs/seedmarket-backend/pkg/config"
	"github.com/verdantlabs/seedmarket-backend/pkg/db"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
	"github.com/verdantlabs/seedmarket-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	ordersService orders.Service,
	productsService products.Service,
	webhookService paymentwebhook.Service,
	webhookGuard *paymentwebhook.IdempotencyGuard,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.DomainContext(cfg.Storefront, logg))

		r.Get("/ping", controllers.PublicPing())

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create", controllers.PaymentsCreate(ordersService, logg))
			r.Get("/methods", controllers.PaymentMethods(logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(productsService, logg))
			r.Get("/{slug}", controllers.ProductDetail(productsService, logg))
		})

		// webhook deliveries carry no storefront host, the domain group is
		// only for the shared middleware chain
		r.Post("/webhooks/payments", webhookcontrollers.PaymentWebhook(webhookService, webhookGuard, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminJWT, logg))

		r.Get("/ping", controllers.AdminPing())
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(ordersService, logg))
			r.Get("/{orderCode}", controllers.AdminOrderDetail(ordersService, logg))
		})
	})

	return r
}
