// Package storefront serves the shop as server-rendered pages: category
// navigation, product list and detail, the cart and checkout.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/internal/render"
	"Storefront/internal/session"
	"Storefront/internal/storage"
	"Storefront/pkg/kit"
	"Storefront/web"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry
	// Metrics is registered on Registry by the caller so the catalog client
	// can share it.
	Metrics *kit.Metrics

	MetricsEnabled   bool
	MetricsTokenHash string
}

// Catalog is the remote catalog as the storefront uses it. *catalog.Client
// satisfies it.
type Catalog interface {
	ListByCategory(ctx context.Context, category string) ([]catalog.Product, error)
	GetByID(ctx context.Context, id string) (catalog.Product, error)
	SubmitOrder(ctx context.Context, order any) (catalog.Confirmation, error)
	Ping(ctx context.Context) error
}

type Deps struct {
	Catalog Catalog
	Storage *storage.Adapter

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	CartKey             string
	Categories          []string
	CheckoutLimitPerMin int
	TrustedProxies      []string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	tmpl, err := LoadTemplates(context.Background(), render.NewPartials(web.FS, web.TemplatesDir))
	if err != nil {
		return nil, err
	}

	s := &Server{
		Catalog:    deps.Catalog,
		Storage:    deps.Storage,
		Partials:   render.NewPartials(web.FS, web.PartialsDir),
		Templates:  tmpl,
		CartKey:    deps.CartKey,
		Categories: deps.Categories,
		Checkout:   &checkout.Service{Orders: deps.Catalog, Log: httpDeps.Log},
		Log:        httpDeps.Log,
		Metrics:    httpDeps.Metrics,
	}

	sessions := &session.Middleware{
		Tokens: session.NewTokenMaker(deps.SessionSecret),
		TTL:    deps.SessionTTL,
		Secure: deps.SecureCookies,
		Log:    httpDeps.Log,
	}
	limiter := kit.NewIPRateLimiter(deps.CheckoutLimitPerMin, time.Minute)
	if err := limiter.TrustProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Group(func(pr chi.Router) {
		pr.Use(sessions.Handler)

		pr.Get("/", s.home)
		pr.Get("/products", s.productList)
		pr.Get("/products/{id}", s.productDetail)
		pr.Post("/products/{id}/events", s.productDetail)
		pr.Get("/cart", s.cart)
		pr.Post("/cart/events", s.cart)
		pr.Get("/checkout", s.checkoutForm)
		pr.With(limiter.Middleware).Post("/checkout", s.placeOrder)
	})

	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))
	}

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsTokenHash)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	log = kit.OrNop(log)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := probe(ctx, deps.Storage.Ping); err != nil {
			log.Warn("readyz failed: storage", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "storage not ready", nil)
			return
		}

		if err := probe(ctx, deps.Catalog.Ping); err != nil {
			log.Warn("readyz failed: catalog", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func probe(ctx context.Context, fn func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()
	return fn(cctx)
}
