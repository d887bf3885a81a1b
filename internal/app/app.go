// Package app wires the storefront modules into a running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/storefront/internal/modules/alert"
	"github.com/georgemunganga/storefront/internal/modules/auth"
	"github.com/georgemunganga/storefront/internal/modules/cart"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/filter"
	"github.com/georgemunganga/storefront/internal/modules/media"
	"github.com/georgemunganga/storefront/internal/modules/notify"
	"github.com/georgemunganga/storefront/internal/modules/order"
	"github.com/georgemunganga/storefront/internal/modules/quickview"
	"github.com/georgemunganga/storefront/internal/modules/session"
	"github.com/georgemunganga/storefront/internal/modules/user"
	"github.com/georgemunganga/storefront/internal/platform/blobstore"
	"github.com/georgemunganga/storefront/internal/platform/config"
	"github.com/georgemunganga/storefront/internal/platform/database"
	"github.com/georgemunganga/storefront/internal/platform/logging"
	"github.com/georgemunganga/storefront/internal/platform/telemetry"
)

// blobTTL bounds how long an abandoned cart lingers in Redis.
const blobTTL = 90 * 24 * time.Hour

// App holds every long-lived component of the storefront.
type App struct {
	Config *config.Config
	Log    *zap.Logger

	DB       *database.DB
	Blobs    blobstore.Store
	Catalog  catalog.Service
	Engine   *filter.Engine
	Orders   order.Service
	Users    user.Service
	Auth     auth.Service
	Uploader media.Uploader
	Sessions *session.Registry
	Checker  *alert.Checker

	closers []io.Closer
}

// New connects to storage and builds every module. The caller owns Close.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db)
	if err := database.Migrate(ctx, db); err != nil {
		a.Close()
		return nil, err
	}

	// ── Visitor state storage ───────────────────────────────
	switch cfg.CartStorage {
	case "memory":
		a.Blobs = blobstore.NewMemory()
	case "redis":
		rb, err := blobstore.NewRedis(ctx, cfg.RedisURL, "storefront", blobTTL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Blobs = rb
		a.closers = append(a.closers, rb)
	default:
		a.Blobs = blobstore.NewSQL(db)
	}

	// ── Catalog & browsing ──────────────────────────────────
	a.Catalog = catalog.NewService(catalog.NewSQLRepository(db), cfg.Currency, log)
	a.Engine = filter.NewEngine(cfg.Locale)

	// ── Orders & admin identity ─────────────────────────────
	a.Orders = order.NewService(order.NewSQLRepository(db), cfg.WhatsAppPhone, cfg.Currency, log)
	userRepo := user.NewSQLRepository(db)
	a.Users = user.NewService(userRepo)
	a.Auth = auth.NewService(userRepo, cfg.JWTSecret, log)

	a.Uploader = media.Disabled()
	if cfg.S3Bucket != "" {
		up, err := media.NewS3Uploader(cfg.AWSRegion, cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Uploader = up
	}

	// ── Sessions & price alerts ─────────────────────────────
	a.Sessions = session.NewRegistry(a.Blobs, a.Catalog, session.Options{
		ToastTTL:   cfg.ToastTTL,
		CloseDelay: cfg.QuickViewCloseDelay,
	}, log)
	a.Checker = alert.NewChecker(a.Catalog, a.Sessions, cfg.Currency, log)

	if cfg.WhatsAppPhone == "" {
		log.Warn("WHATSAPP_PHONE is not set; checkout will be unavailable")
	}
	return a, nil
}

// Router builds the HTTP surface.
func (a *App) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.Middleware(a.Log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	catalogHandler := catalog.NewHandler(a.Catalog)
	orderHandler := order.NewHandler(a.Orders, a.Sessions)

	// ── Storefront ──────────────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(session.Middleware)
		catalogHandler.RegisterRoutes(r)
		filter.NewHandler(a.Catalog, a.Engine).RegisterRoutes(r)
		cart.NewHandler(a.Sessions, a.Catalog).RegisterRoutes(r)
		quickview.NewHandler(a.Sessions).RegisterRoutes(r)
		notify.NewHandler(a.Sessions).RegisterRoutes(r)
		alert.NewHandler(a.Sessions, a.Catalog).RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)
	})

	// ── Admin ───────────────────────────────────────────────
	auth.NewHandler(a.Auth).RegisterRoutes(router)
	router.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(auth.Middleware(a.Auth))
		catalogHandler.RegisterAdminRoutes(r)
		orderHandler.RegisterAdminRoutes(r)
		user.NewHandler(a.Users).RegisterAdminRoutes(r)
		media.NewHandler(a.Uploader, a.Log).RegisterAdminRoutes(r)
	})

	if a.Config.TracingEnabled {
		return telemetry.Handler(router)
	}
	return router
}

// Serve runs the HTTP server, the price alert checker and the idle session
// sweeper until ctx is cancelled or one of them fails.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.Checker.Run(ctx, a.Config.AlertCheckInterval)
	})
	g.Go(func() error {
		return a.Sessions.RunSweeper(ctx, a.Config.SessionIdleTimeout, time.Minute)
	})
	return g.Wait()
}

// Close releases sessions and storage connections.
func (a *App) Close() {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Log.Warn("close failed", zap.Error(err))
		}
	}
}
