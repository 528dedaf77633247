// AngelaMos | 2026
// app.go

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/analytics"
	"github.com/carterperez-dev/souk-api/internal/auth"
	"github.com/carterperez-dev/souk-api/internal/cart"
	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/config"
	"github.com/carterperez-dev/souk-api/internal/core"
	"github.com/carterperez-dev/souk-api/internal/health"
	"github.com/carterperez-dev/souk-api/internal/middleware"
	"github.com/carterperez-dev/souk-api/internal/order"
	"github.com/carterperez-dev/souk-api/internal/server"
	"github.com/carterperez-dev/souk-api/internal/store/memory"
	"github.com/carterperez-dev/souk-api/internal/store/postgres"
	"github.com/carterperez-dev/souk-api/internal/user"
)

const (
	orderPlaceRequests = 10
	orderPlaceBurst    = 3
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// App owns every long-lived dependency of the API process.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *server.Server
	health   *health.Handler
	db       *core.Database
	redis    *core.Redis
	limiters []*middleware.RateLimiter
}

type repositories struct {
	users     user.Repository
	catalog   catalog.Repository
	carts     cart.Repository
	orders    order.Repository
	tx        order.Transactor
	analytics analytics.Repository
	ping      func(ctx context.Context) error
	dbStats   func() *core.DBPoolStats
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

//nolint:funlen // wiring
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	repos, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	a.redis, err = core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.redis != nil {
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	}

	issuer, err := auth.NewIssuer(cfg.Token)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("token issuer initialized", "format", cfg.Token.Format)

	userSvc := user.NewService(repos.users)
	authSvc := auth.NewService(issuer, userSvc)
	catalogSvc := catalog.NewService(repos.catalog, cfg.Shop.Currency)
	cartSvc := cart.NewService(repos.carts, repos.catalog)
	orderSvc := order.NewService(
		repos.orders,
		repos.tx,
		order.PricingFromConfig(cfg.Shop),
		cfg.Shop.OrderPrefix,
	)
	analyticsSvc := analytics.NewService(repos.analytics)

	if cfg.Admin.Email != "" {
		admin, err := userSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		logger.Info("admin account ready", "email", admin.Email)
	}

	deps := []health.Dependency{{Name: cfg.Store.Driver, Checker: pingFunc(repos.ping)}}
	statsCfg := analytics.HandlerConfig{
		Service:     analyticsSvc,
		StoreDriver: cfg.Store.Driver,
		StorePing:   repos.ping,
		DBStats:     repos.dbStats,
	}

	if a.redis != nil {
		deps = append(deps, health.Dependency{Name: "redis", Checker: a.redis})
		statsCfg.RedisStats = a.redis.Stats
		statsCfg.RedisPing = a.redis.Ping
	}
	rdb := a.redis.Client()

	a.health = health.NewHandler(deps...)
	a.server = server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: a.health,
		Logger:        logger,
	})

	globalLimiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Limit:    middleware.NewLimit(cfg.RateLimit.Requests, cfg.RateLimit.Burst, cfg.RateLimit.Window),
		FailOpen: true,
	})
	placeLimiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(orderPlaceRequests, orderPlaceBurst),
		KeyFunc:  middleware.KeyByUserAndRoute,
		FailOpen: true,
	})
	a.limiters = append(a.limiters, globalLimiter, placeLimiter)

	router := a.server.Router()
	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(cfg.Otel.ServiceName))
	router.Use(middleware.Logger(logger))
	router.Use(globalLimiter.Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	a.health.RegisterRoutes(router)
	router.Get("/", a.serviceInfo)

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	authHandler := auth.NewHandler(authSvc)
	userHandler := user.NewHandler(userSvc)
	catalogHandler := catalog.NewHandler(catalogSvc)
	cartHandler := cart.NewHandler(cartSvc)
	orderHandler := order.NewHandler(orderSvc)
	analyticsHandler := analytics.NewHandler(statsCfg)

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		catalogHandler.RegisterRoutes(r)
		catalogHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		cartHandler.RegisterRoutes(r, authenticator)
		orderHandler.RegisterRoutes(r, authenticator, adminOnly, placeLimiter.Handler)
		analyticsHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	return a, nil
}

func (a *App) openStore(ctx context.Context) (*repositories, error) {
	switch a.cfg.Store.Driver {
	case config.StorePostgres:
		db, err := core.NewDatabase(ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.logger.Info("database connected",
			"max_open_conns", a.cfg.Database.MaxOpenConns,
			"max_idle_conns", a.cfg.Database.MaxIdleConns,
		)

		if a.cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db.DB); err != nil {
				a.Close()
				return nil, err
			}
		}

		return &repositories{
			users:     user.NewRepository(db.DB),
			catalog:   catalog.NewRepository(db.DB),
			carts:     cart.NewRepository(db.DB),
			orders:    order.NewRepository(db.DB),
			tx:        order.NewTransactor(db.DB),
			analytics: analytics.NewRepository(db.DB),
			ping:      db.Ping,
			dbStats:   db.Stats,
		}, nil

	case config.StoreMemory:
		store := memory.New()
		a.logger.Info("using in-memory store")

		return &repositories{
			users:     store.Users(),
			catalog:   store.Catalog(),
			carts:     store.Carts(),
			orders:    store.Orders(),
			tx:        store,
			analytics: store.Analytics(),
			ping:      store.Ping,
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
}

type ServiceInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Store       string `json:"store"`
	Status      string `json:"status"`
}

func (a *App) serviceInfo(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, ServiceInfo{
		Name:        a.cfg.App.Name,
		Version:     a.cfg.App.Version,
		Environment: a.cfg.App.Environment,
		Store:       a.cfg.Store.Driver,
		Status:      "running",
	})
}

func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run serves until ctx is cancelled, then drains and shuts the server down.
func (a *App) Run(ctx context.Context, drainDelay time.Duration) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- a.server.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		a.cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx, drainDelay); err != nil {
		a.logger.Error("server shutdown error", "error", err)
	}

	return nil
}

// Close releases the database, redis and limiter resources. It is safe to
// call on a partially constructed App.
func (a *App) Close() {
	for _, l := range a.limiters {
		l.Close()
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", "error", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("database close error", "error", err)
		}
	}
}
