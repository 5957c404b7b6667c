package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/notify"
	brandrepo "storefront/internal/repository/brand"
	cartrepo "storefront/internal/repository/cart"
	categoryrepo "storefront/internal/repository/category"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	cartsvc "storefront/internal/service/cart"
	ordersvc "storefront/internal/service/order"
	"storefront/internal/service/resolver"
	sessionsvc "storefront/internal/service/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBPool)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	// Redis only caches product snapshots; the API stays up without it.
	cache, err := db.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Printf("connect to redis: %v (snapshot caching disabled)", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	brandRepo := brandrepo.NewPostgres(dbpool)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)

	snapshotResolver := resolver.New(productRepo, cache, cfg.SnapshotTTL, logger)
	cartService := cartsvc.New(cartRepo, snapshotResolver)
	sessionService := sessionsvc.New(cfg.SessionTTL)

	var notifier notify.Sender = &notify.LogSender{Logger: logger}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		notifier = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}
	orderService := ordersvc.New(cartService, orderRepo, notifier, cfg.Pricing, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:      cartService,
		Products:   productRepo,
		Brands:     brandRepo,
		Categories: categoryRepo,
		Orders:     orderService,
		Sessions:   sessionService,
		Policy:     cfg.Pricing,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
