package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"flabi/internal/http/handlers"
	"flabi/internal/middleware"
)

// Options configure the router around the handlers.
type Options struct {
	Logger   zerolog.Logger
	Sessions middleware.SessionResolver
	Country  middleware.CountryLookup
	// AllowedOrigins enables CORS on /v1 when non-empty.
	AllowedOrigins     []string
	RateLimitPerMinute int
	// StaticDir is served under /static when set (file storage driver).
	StaticDir string
	Metrics   prometheus.Gatherer
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// friends. Only safe behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		chimw.Recoverer,
		middleware.Session(opts.Sessions),
		middleware.Logger(opts.Logger),
	)

	public := func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMinute, time.Minute))
		r.Use(middleware.Country(opts.Country))
	}

	// Pages
	r.Get("/", app.Home)
	r.Get("/posts/{id}/gallery", app.Gallery)
	r.Group(func(r chi.Router) {
		public(r)
		r.Post("/pledges", app.PledgeSubmit)
		r.Post("/donations", app.DonationSubmit)
		r.Post("/login", app.Login)
	})
	r.Post("/logout", app.Logout)
	r.Route("/admin", func(r chi.Router) {
		r.Post("/posts", app.PostSubmit)
		r.Post("/posts/{id}", app.PostEditSubmit)
		r.Post("/posts/{id}/delete", app.PostDeleteSubmit)
		r.Post("/status", app.StatusSubmit)
		r.Post("/pledges/{id}/delete", app.PledgeDeleteSubmit)
		r.Post("/donations/{id}/delete", app.DonationDeleteSubmit)
	})

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.Dir(opts.StaticDir))))
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{}))
	}

	// JSON API
	r.Route("/v1", func(r chi.Router) {
		if len(opts.AllowedOrigins) > 0 {
			r.Use(middleware.CORS(opts.AllowedOrigins))
		}
		r.Get("/healthz", app.Health)
		r.Get("/readyz", app.Ready)
		r.Get("/snapshot", app.Snapshot)
		r.Get("/auth/session", app.AuthSession)
		r.Post("/auth/sign-out", app.AuthSignOut)

		r.Group(func(r chi.Router) {
			public(r)
			r.Post("/pledges", app.PledgesCreate)
			r.Post("/donations", app.DonationsCreate)
			r.Post("/auth/sign-in", app.AuthSignIn)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/posts", app.PostsCreate)
			r.Put("/posts/{id}", app.PostsUpdate)
			r.Delete("/posts/{id}", app.PostsDelete)
			r.Post("/uploads", app.ImagesUpload)
			r.Put("/status", app.StatusUpdate)
			r.Delete("/pledges/{id}", app.PledgesDelete)
			r.Delete("/donations/{id}", app.DonationsDelete)
		})
	})

	return r
}
