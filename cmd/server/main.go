package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/naveen-gthb/khatabook/internal/auth"
	"github.com/naveen-gthb/khatabook/internal/config"
	"github.com/naveen-gthb/khatabook/internal/feed"
	"github.com/naveen-gthb/khatabook/internal/ledger"
	"github.com/naveen-gthb/khatabook/internal/metrics"
	"github.com/naveen-gthb/khatabook/internal/middleware"
	"github.com/naveen-gthb/khatabook/internal/reconcile"
	"github.com/naveen-gthb/khatabook/internal/service"
	"github.com/naveen-gthb/khatabook/internal/storage/sqlite"
	"github.com/naveen-gthb/khatabook/pkg/api/apiconnect"
	"github.com/naveen-gthb/khatabook/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		reg *prometheus.Registry
		m   *metrics.Metrics
	)
	if cfg.HTTP.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := sqlite.New(cfg.Store.Path,
		sqlite.WithMaxAttempts(cfg.Store.TxMaxAttempts),
		sqlite.WithRetryHook(func(attempt int, err error) {
			slog.Debug("Retrying store transaction", "attempt", attempt, "error", err)
			m.ObserveRetry()
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Store.Path)

	broker, err := newBroker(ctx, cfg.Feed)
	if err != nil {
		return err
	}
	defer broker.Close()

	reconciler := reconcile.New(store, m)
	if cfg.Reconcile.Schedule != "" {
		if err := reconciler.Start(cfg.Reconcile.Schedule); err != nil {
			return fmt.Errorf("failed to schedule reconciler: %w", err)
		}
		defer reconciler.Stop()
		slog.Info("Totals reconciler scheduled", "schedule", cfg.Reconcile.Schedule)
	}

	l := ledger.New(store, broker)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures...),
		middleware.LoggingInterceptor(m),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewContactServiceHandler(service.NewContactService(l), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(service.NewLedgerService(l), interceptors))
	mux.Handle(apiconnect.NewOrderServiceHandler(service.NewOrderService(l), interceptors))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if reg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newBroker fans change events out through Redis when configured, so live
// queries see writes made by other instances.
func newBroker(ctx context.Context, cfg config.FeedConfig) (feed.Broker, error) {
	if cfg.RedisAddr == "" {
		slog.Warn("REDIS_ADDR not set, live queries only see changes made by this instance")
		return feed.NewMemoryBroker(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	broker, err := feed.NewRedisBroker(connectCtx, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Change feed connected", "redis", cfg.RedisAddr)
	return broker, nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
