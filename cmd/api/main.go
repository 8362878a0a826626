package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/config"
	"github.com/georgemunganga/printa-pos/internal/modules/auth"
	"github.com/georgemunganga/printa-pos/internal/modules/customer"
	"github.com/georgemunganga/printa-pos/internal/modules/product"
	"github.com/georgemunganga/printa-pos/internal/modules/receipt"
	"github.com/georgemunganga/printa-pos/internal/modules/register"
	"github.com/georgemunganga/printa-pos/internal/modules/sale"
	"github.com/georgemunganga/printa-pos/internal/modules/settings"
	"github.com/georgemunganga/printa-pos/internal/modules/suspend"
	"github.com/georgemunganga/printa-pos/internal/modules/till"
	"github.com/georgemunganga/printa-pos/internal/modules/user"
	"github.com/georgemunganga/printa-pos/internal/platform/database"
	"github.com/georgemunganga/printa-pos/internal/platform/events"
	"github.com/georgemunganga/printa-pos/internal/platform/logging"
	"github.com/georgemunganga/printa-pos/internal/platform/metrics"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, flush := logging.New(cfg.LogLevel)
	defer flush()
	if !envLoaded {
		logger.Warn("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL, cfg.MaxOpenConn, cfg.MaxIdleConn)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("connected to the database")

	rec := metrics.New(prometheus.DefaultRegisterer)

	// ── Shared infrastructure ───────────────────────────────
	var (
		bus      events.Publisher      = events.Nop{}
		cache    register.SummaryCache = register.NopCache{}
		redisBus *events.RedisBus
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, running without shared cache and events", zap.Error(err))
		} else {
			redisBus = events.NewRedisBus(rdb, logger)
			bus = redisBus
			cache = register.NewRedisCache(rdb)
		}
	}

	var printer receipt.Printer = receipt.NewLogPrinter(logger)
	if len(cfg.KafkaBrokers) > 0 {
		w := receipt.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaReceiptTopic)
		defer w.Close()
		printer = receipt.NewKafkaPrinter(w, logger)
	}

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, logger)
	if cfg.AdminEmail != "" {
		if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("admin bootstrap failed", zap.Error(err))
		}
	}
	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	// ── Store data ──────────────────────────────────────────
	settingsService := settings.NewService(settings.NewPostgresRepository(db), settings.Settings{
		StoreName:          cfg.StoreName,
		Address:            cfg.StoreAddress,
		Phone:              cfg.StorePhone,
		TaxRatePercent:     cfg.TaxRatePercent,
		DiscountCapPercent: cfg.DiscountCapPercent,
		ReceiptFooter:      cfg.ReceiptFooter,
		Currency:           cfg.Currency,
	}, logger)
	productService := product.NewService(product.NewPostgresRepository(db))
	customerService := customer.NewService(customer.NewPostgresRepository(db), logger)

	// ── Point of sale ───────────────────────────────────────
	saleService := sale.NewService(
		sale.NewPostgresRepository(db),
		customerService,
		settingsService,
		printer,
		bus,
		rec,
		logger,
	)
	registerService := register.NewService(register.NewPostgresRepository(db), cache, bus, rec, logger)
	suspendService := suspend.NewService(suspend.NewPostgresRepository(db), rec, logger)
	tillService := till.NewService(
		till.NewManager(),
		productService,
		customerService,
		saleService,
		registerService,
		suspendService,
		settingsService,
		logger,
	)

	if redisBus != nil {
		go func() {
			err := redisBus.Subscribe(ctx, func(e events.Event) {
				if e.Type == events.SaleCommitted {
					registerService.Invalidate(ctx, e.CashierID)
				}
			})
			if err != nil {
				logger.Error("event subscription ended", zap.Error(err))
			}
		}()
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(rec.Middleware)

	router.Handle("/metrics", metrics.Handler())
	auth.NewHandler(authService).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))

		settings.NewHandler(settingsService).RegisterRoutes(r)
		product.NewHandler(productService).RegisterRoutes(r)
		customer.NewHandler(customerService).RegisterRoutes(r)
		sale.NewHandler(saleService).RegisterRoutes(r)
		register.NewHandler(registerService).RegisterRoutes(r)
		suspend.NewHandler(suspendService).RegisterRoutes(r)
		till.NewHandler(tillService).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(user.RoleManager, user.RoleAdmin))
			user.NewHandler(userService, func(ctx context.Context) (user.Role, bool) {
				id, ok := auth.IdentityFrom(ctx)
				return id.Role, ok
			}).RegisterRoutes(r)
		})
	})

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("printa POS API starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
