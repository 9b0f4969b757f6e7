package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feiralivre/feiralivre-backend/api/controllers"
	"github.com/feiralivre/feiralivre-backend/api/middleware"
	"github.com/feiralivre/feiralivre-backend/internal/auth"
	"github.com/feiralivre/feiralivre-backend/internal/catalog"
	product "github.com/feiralivre/feiralivre-backend/internal/products"
	vendor "github.com/feiralivre/feiralivre-backend/internal/vendors"
	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
	"github.com/feiralivre/feiralivre-backend/pkg/metrics"
	"github.com/feiralivre/feiralivre-backend/pkg/redis"
)

// NewRouter wires every page and endpoint. The base carries the rendering and
// session plumbing shared by all page handlers; vendorRepo backs the
// signed-in gate.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	base *controllers.Base,
	redisClient *redis.Client,
	dbPinger controllers.Pinger,
	vendorRepo *vendor.Repository,
	authService auth.Service,
	vendorService vendor.Service,
	productService product.Service,
	catalogService catalog.Service,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.Sessions(cfg.Session.CookieName),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisClient,
			"storage":  base.Store,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Public pages.
	r.Get("/", controllers.Home(base))
	r.Get("/login/", controllers.LoginPage(base))
	r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login/", controllers.Login(base, authService))
	r.Get("/logout/", controllers.Logout(base))
	r.Get("/cadastro/", controllers.RegisterPage(base))
	r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/cadastro/", controllers.Register(base, authService))
	r.Get("/ativar/{token}/", controllers.Activate(base, authService))
	r.Get("/password-reset/", controllers.ResetRequestPage(base))
	r.Post("/password-reset/", controllers.ResetRequest(base, authService))
	r.Get("/password-reset/{token}/", controllers.ResetConfirmPage(base, authService))
	r.Post("/password-reset/{token}/", controllers.ResetConfirm(base, authService))

	// Public storefront.
	r.Route("/cliente", func(r chi.Router) {
		r.Get("/", controllers.Catalog(base, catalogService))
		r.Get("/info-vendedores/", controllers.VendorsIndex(base, catalogService))
		r.Get("/produto/{id}/", controllers.PublicProduct(base, catalogService))
		r.Get("/vendedor/{id}/", controllers.PublicVendor(base, catalogService))
	})

	// Vendor back office.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireVendor(base.Sessions, vendorRepo, logg))

		r.Get("/painel/", controllers.Dashboard(base, productService))
		r.Get("/perfil/editar/", controllers.ProfileEditPage(base))
		r.Post("/perfil/editar/", controllers.ProfileEdit(base, vendorService))

		r.Route("/produtos", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(base, productService))
			r.Get("/novo/", controllers.ProductNewPage(base))
			r.Post("/novo/", controllers.ProductCreate(base, productService))
			r.Get("/{id}/editar/", controllers.ProductEditPage(base, productService))
			r.Post("/{id}/editar/", controllers.ProductUpdate(base, productService))
			r.Post("/{id}/excluir/", controllers.ProductDelete(base, productService))
		})
	})

	// Locally stored uploads are served straight from disk. GCS objects are
	// linked by their public URL instead.
	if cfg.Storage.Backend == config.StorageBackendLocal {
		r.Method(http.MethodGet, "/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.LocalDir))))
	}

	return r
}
