package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mercaditoapp/mercadito-backend/api/routes"
	"github.com/mercaditoapp/mercadito-backend/internal/addresses"
	"github.com/mercaditoapp/mercadito-backend/internal/cart"
	"github.com/mercaditoapp/mercadito-backend/internal/catalog"
	"github.com/mercaditoapp/mercadito-backend/internal/commissions"
	"github.com/mercaditoapp/mercadito-backend/internal/notify"
	"github.com/mercaditoapp/mercadito-backend/internal/pickup"
	"github.com/mercaditoapp/mercadito-backend/internal/sellers"
	"github.com/mercaditoapp/mercadito-backend/internal/settings"
	"github.com/mercaditoapp/mercadito-backend/pkg/config"
	"github.com/mercaditoapp/mercadito-backend/pkg/db"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	"github.com/mercaditoapp/mercadito-backend/pkg/migrate"
	"github.com/mercaditoapp/mercadito-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gdb := dbClient.DB()

	catalogSvc, err := catalog.NewService(catalog.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	sellerSvc, err := sellers.NewService(sellers.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create sellers service", err)
		os.Exit(1)
	}

	settingsSvc, err := settings.NewService(settings.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	notifySvc, err := notify.NewService(notify.NewRepository(gdb), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	commissionSvc, err := commissions.NewService(commissions.NewRepository(gdb), sellerSvc, settingsSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create commissions service", err)
		os.Exit(1)
	}

	pickupSvc, err := pickup.NewService(pickup.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create pickup service", err)
		os.Exit(1)
	}

	addressSvc, err := addresses.NewService(addresses.NewRepository(gdb), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create addresses service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	cartSvc, err := cart.NewService(cartStore, catalogSvc, notifySvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Catalog:     catalogSvc,
			Cart:        cartSvc,
			Commissions: commissionSvc,
			Settings:    settingsSvc,
			Pickup:      pickupSvc,
			Addresses:   addressSvc,
			Notify:      notifySvc,
		}),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}
