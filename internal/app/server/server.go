package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"taxease/internal/domain/auth"
	"taxease/internal/domain/calculations"
	"taxease/internal/domain/tax"
	"taxease/internal/platform/config"
	"taxease/internal/platform/db"
	"taxease/internal/platform/jobs"
	"taxease/internal/platform/logging"
	"taxease/internal/platform/metrics"
	authhandler "taxease/internal/transport/http/handlers/auth"
	incomeshandler "taxease/internal/transport/http/handlers/incomes"
	taxhandler "taxease/internal/transport/http/handlers/tax"
	"taxease/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config       config.Config
	Stores       *db.Stores
	Users        *auth.Service
	Calculations *calculations.Service
	Metrics      *metrics.Collector
	Jobs         *jobs.Service
	Router       http.Handler
}

// New opens storage, seeds the demo user and builds the router. The
// retention scheduler is created but not started.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	engine, err := tax.LoadEngine(cfg.TaxRegimeFile)
	if err != nil {
		return nil, fmt.Errorf("tax regime: %w", err)
	}

	stores, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	users := auth.NewService(stores.Users, cfg.JWTSecret, cfg.JWTTTL)
	if err := db.Seed(ctx, users, cfg); err != nil {
		stores.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	calcs := calculations.NewService(stores.Calculations, users, engine)

	app := &App{
		Config:       cfg,
		Stores:       stores,
		Users:        users,
		Calculations: calcs,
		Jobs:         jobs.New(calcs, cfg.HistoryRetention, cfg.RetentionSchedule),
	}
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
		calcs.Observer = app.Metrics
	}
	app.Router = app.routes()
	return app, nil
}

func (a *App) routes() http.Handler {
	cfg := a.Config

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if a.Metrics != nil {
		router.Use(middleware.Metrics(a.Metrics))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Stores.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.SensitiveRateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, middleware.WithScope("api")))

		authhandler.NewHandler(a.Users).RegisterRoutes(r)
		taxhandler.NewHandler(a.Calculations).RegisterRoutes(r)
		incomeshandler.NewHandler(a.Calculations).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}

// Close stops the scheduler and releases storage.
func (a *App) Close(ctx context.Context) {
	if a.Jobs != nil {
		a.Jobs.Stop(ctx)
	}
	if a.Stores != nil {
		a.Stores.Close()
	}
}

func Run() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.Close(closeCtx)
	}()

	if err := app.Jobs.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("TaxEase server listening", "addr", cfg.Addr, "backend", app.Stores.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		index := filepath.Join(h.staticPath, h.indexPath)
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
		return
	}

	http.NotFound(w, r)
}
