package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/graphql-go/handler"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/catalog"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/config"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/graphql"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/loader"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/prometheus"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/ratelimit"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/seed"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

var (
	requestsTotal = promauto.NewCounterVec(
		promclient.CounterOpts{
			Name: "novel_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		promclient.HistogramOpts{
			Name:    "novel_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: promclient.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func main() {
	cfg := config.Load()

	logger := setupLogger(cfg)
	logger.WithField("environment", cfg.Environment).Info("Starting Novel GraphQL API")

	prometheus.Init()

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize document store")
	}

	ctx := context.Background()
	if err := st.HealthCheck(ctx); err != nil {
		logger.WithError(err).Warn("Initial store health check failed")
	} else {
		logger.WithField("driver", cfg.StoreDriver).Info("Document store ready")
	}

	if cfg.SeedEnabled {
		runSeed(ctx, cfg, st, logger)
	}

	instrumented := prometheus.NewStoreCollector(st)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiration)
	svc := catalog.New(loader.Invalidating(instrumented), tokens, catalog.Options{
		BcryptCost: cfg.BcryptCost,
		TokenTTL:   cfg.PasswordResetTTL,
	}, logger)

	gqlSchema := graphql.NewSchema(svc, instrumented, cfg, logger)

	srv := setupHTTPServer(cfg, gqlSchema, instrumented, tokens, logger)

	go startMetricsServer(cfg, logger)

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	waitForShutdown(srv, instrumented, cfg, logger)
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// openStore connects the configured driver. Postgres is migrated before use.
func openStore(cfg *config.Config, logger *logrus.Logger) (store.Store, error) {
	if cfg.StoreDriver != config.DriverPostgres {
		return store.NewMemoryStore(logger), nil
	}

	logger.Info("Applying database migrations")
	if err := store.Migrate(cfg.DatabaseURL, logger); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return store.NewPostgresStore(ctx, store.PostgresConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
	}, logger)
}

func runSeed(ctx context.Context, cfg *config.Config, st store.Store, logger *logrus.Logger) {
	spec, err := seed.LoadSpec(cfg.SeedFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load seed data")
	}

	seeder := seed.NewInitializer(st, cfg.BcryptCost, logger, 30*time.Second)
	if err := seeder.WaitForReady(ctx); err != nil {
		logger.WithError(err).Fatal("Document store never became ready")
	}
	if err := seeder.Initialize(ctx, spec); err != nil {
		logger.WithError(err).Error("Seeding failed")
	}
}

func setupHTTPServer(cfg *config.Config, gqlSchema *graphql.Schema, st store.Store, tokens *auth.TokenIssuer, logger *logrus.Logger) *http.Server {
	mux := http.NewServeMux()

	schema := gqlSchema.GetSchema()
	mux.Handle("/graphql", handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   !cfg.IsProduction(),
		GraphiQL: !cfg.IsProduction(),
	}))

	// liveness
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	// readiness reflects the store
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := st.HealthCheck(ctx); err != nil {
			logger.WithError(err).Warn("Readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
		})
	})

	// Apply middleware, outermost last
	resolver := auth.NewIdentityResolver(tokens, st, logger)
	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)

	var h http.Handler = mux
	h = loader.Middleware(st)(h)
	h = ratelimit.NewMiddleware(limiter, logger).Limit(h)
	h = auth.NewMiddleware(resolver, cfg.AuthCookieName, logger).Authenticate(h)
	h = observe(logger)(h)
	h = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		MaxAge:           3600,
	}).Handler(h)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func startMetricsServer(cfg *config.Config, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: mux,
	}

	logger.WithField("port", cfg.MetricsPort).Info("Starting metrics server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("Metrics server failed")
	}
}

// observe logs and records metrics for every request
func observe(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			elapsed := time.Since(start)
			requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.statusCode)).Inc()
			requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rw.statusCode,
				"duration":    elapsed.Milliseconds(),
				"remote_addr": r.RemoteAddr,
			}).Info("HTTP request")
		})
	}
}

// responseWriter captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func waitForShutdown(srv *http.Server, st store.Store, cfg *config.Config, logger *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.WithField("signal", sig.String()).Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}

	if err := st.Close(); err != nil {
		logger.WithError(err).Error("Store close failed")
	}

	logger.Info("Shutdown complete")
}
