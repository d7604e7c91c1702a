package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"

	"flabi/internal/adapter/repo"
	"flabi/internal/adapter/sqlrepo"
	"flabi/internal/domain"
	"flabi/internal/http/handlers"
	httpapi "flabi/internal/http/httpapi"
	"flabi/internal/identity"
	"flabi/internal/infra"
	"flabi/internal/infra/geoip"
	"flabi/internal/middleware"
	"flabi/internal/site"
	"flabi/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug().Msgf(format, args...)
	})); err != nil {
		logger.Warn().Err(err).Msg("automaxprocs failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open database")
	}
	defer closeRepos()

	store, closeStore, err := openObjectStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open object storage")
	}
	defer closeStore()

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.Lookup
		defer resolver.Close()
	}

	auth, err := identity.NewService(repos.Admins, cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create identity service")
	}
	unsubscribe := auth.Subscribe(func(ev identity.Event) {
		logger.Info().
			Str("event", ev.Kind.String()).
			Str("admin", ev.Session.Email).
			Time("at", ev.At).
			Msg("session changed")
	})
	defer unsubscribe()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := site.NewService(repos, store, logger, site.NewMetrics(registry), site.Options{Timeout: cfg.CollaboratorTimeout})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create site service")
	}

	app := handlers.NewApp(svc, auth, logger)
	app.MaxUploadBytes = cfg.MaxUploadBytes()
	app.SecureCookies = cfg.SecureCookies

	opts := httpapi.Options{
		Logger:             logger,
		Sessions:           auth,
		Country:            lookup,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMin,
		Metrics:            registry,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	}
	if cfg.StorageDriver == infra.StorageDriverFile {
		opts.StaticDir = cfg.StorageDir
	}
	router := httpapi.NewRouter(app, opts)

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().
		Str("addr", server.Addr()).
		Str("store", cfg.StoreDriver).
		Str("storage", cfg.StorageDriver).
		Msg("flabi listening")
	if err := server.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}

func openRepositories(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (domain.Repositories, func(), error) {
	if cfg.StoreDriver == infra.StoreDriverSQLite {
		db, err := sqlrepo.Open(cfg.SQLitePath)
		if err != nil {
			return domain.Repositories{}, nil, err
		}
		return db.Repositories(), func() { _ = db.Close() }, nil
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return domain.Repositories{}, nil, err
	}
	runner := infra.NewSQLRunner(pool, logger)
	return repo.NewRepositories(runner), pool.Close, nil
}

func openObjectStore(ctx context.Context, cfg *infra.Config) (storage.ObjectStore, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StorageDriver {
	case infra.StorageDriverS3:
		s, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case infra.StorageDriverGCS:
		s, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := storage.NewFileStore(cfg.StorageDir, cfg.StorageBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
