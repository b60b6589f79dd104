package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user941211/delivery-sub004/api/controllers"
	cartcontrollers "github.com/user941211/delivery-sub004/api/controllers/cart"
	"github.com/user941211/delivery-sub004/api/middleware"
	"github.com/user941211/delivery-sub004/internal/cart"
	"github.com/user941211/delivery-sub004/pkg/config"
	"github.com/user941211/delivery-sub004/pkg/logger"
)

// Store is the redis surface the HTTP layer needs for idempotency and throttling.
type Store interface {
	controllers.Pinger
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(context.Context, ...string) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	store Store,
	cartService cart.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	cartPolicy := middleware.NewRateLimitPolicy(
		"cart",
		cfg.RateLimit.CartWindow,
		cfg.RateLimit.CartCustomerLimit,
		cfg.RateLimit.CartIPLimit,
	)

	var redisPinger controllers.Pinger
	if store != nil {
		redisPinger = store
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			if store != nil {
				r.Use(middleware.RateLimit(cartPolicy, store, logg))
			}
			// idempotency matches on the full route pattern, known only after routing
			idem := func(next http.Handler) http.Handler { return next }
			if store != nil {
				idem = middleware.Idempotency(store, logg)
			}

			r.Get("/", cartcontrollers.CartGet(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.With(idem).Post("/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(cartService, logg))
			r.With(idem).Post("/reorder", cartcontrollers.CartReorder(cartService, logg))
		})
	})

	return r
}
