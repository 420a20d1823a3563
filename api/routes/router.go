package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/elorielabs/elorie-backend/api/controllers"
	"github.com/elorielabs/elorie-backend/api/middleware"
	authsvc "github.com/elorielabs/elorie-backend/internal/auth"
	cartsvc "github.com/elorielabs/elorie-backend/internal/cart"
	ordersvc "github.com/elorielabs/elorie-backend/internal/orders"
	paymentsvc "github.com/elorielabs/elorie-backend/internal/payment"
	productsvc "github.com/elorielabs/elorie-backend/internal/products"
	"github.com/elorielabs/elorie-backend/pkg/auth/session"
	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	"github.com/elorielabs/elorie-backend/pkg/logger"
	"github.com/elorielabs/elorie-backend/pkg/redis"
)

// Store is the redis surface the router's middleware needs. Tests
// swap an in-memory implementation in.
type Store interface {
	redis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    Store
	Sessions session.Checker
	DB       controllers.Pinger

	Auth     authsvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Orders   ordersvc.Service
	Payment  paymentsvc.Service
}

// NewRouter mounts the storefront API: a public catalog, a customer
// surface behind the customer scope and an admin surface behind the
// admin scope.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.Products, logg))
		r.Get("/{productId}", controllers.ProductsGet(deps.Products, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.Register(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/admin/login", controllers.AdminLogin(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, enums.AuthScopeCustomer, deps.Sessions, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, logg))
			r.Get("/me", controllers.Me(deps.Auth, logg))
			r.Put("/me", controllers.UpdateMe(deps.Auth, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, enums.AuthScopeCustomer, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/", controllers.CartAdd(deps.Cart, logg))
			r.Put("/{productId}", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/{productId}", controllers.CartRemove(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrdersPlace(deps.Orders, logg))
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrdersGet(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrdersCancel(deps.Orders, logg))
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/create-order", controllers.PaymentCreateOrder(deps.Payment, logg))
			r.Post("/verify", controllers.PaymentVerify(deps.Payment, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, enums.AuthScopeAdmin, deps.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductsCreate(deps.Products, logg))
			r.Put("/{productId}", controllers.AdminProductsUpdate(deps.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductsDelete(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrdersGet(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrdersUpdateStatus(deps.Orders, logg))
			r.Patch("/{orderId}/tracking", controllers.AdminOrdersUpdateTracking(deps.Orders, logg))
		})
	})

	return r
}
