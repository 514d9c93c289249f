package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/cache"
	"github.com/avoronin/shopsync/internal/checkout"
	"github.com/avoronin/shopsync/internal/config"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
	"github.com/avoronin/shopsync/internal/payment"
	"github.com/avoronin/shopsync/internal/poller"
	"github.com/avoronin/shopsync/internal/session"
	"github.com/avoronin/shopsync/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.BackendURL, "BACKEND_URL")

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	localCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
		localCache = nil
	}

	client := api.NewClient(cfg.BackendURL)

	auth := store.NewAuth(client, localCache)
	cart := store.NewCart(client)
	products := store.NewProducts(client)
	orders := store.NewOrders(client, localCache)
	common := store.NewCommon(client)
	adminProducts := store.NewAdminProducts(client)
	adminOrders := store.NewAdminOrders(client)
	adminUsers := store.NewAdminUsers(client)

	callbacks := payment.NewCallbackServer(cfg.CallbackAddr, checkout.SuccessPage, checkout.FailurePage, logger)
	go func() {
		if err := callbacks.Start(); err != nil {
			logger.Error("callback server error", "error", err)
		}
	}()

	// The checkout flow resolves online payments through the callback
	// server; COD submissions navigate straight to the success page.
	flow := checkout.New(auth, cart, orders, callbacks, func(url string) {
		logger.Info("navigate", "url", url)
	})

	// Re-validate the session against the server unless the cookie is
	// known-good locally.
	if token, ok := client.SessionCookie("token"); !ok || session.Expired(token, time.Minute) {
		if err := auth.CheckAuth(ctx); err != nil {
			logger.Info("no active session", "error", err)
		}
	}

	if err := products.FetchFiltered(ctx, nil, ""); err != nil {
		logger.Warn("initial catalog fetch failed", "error", err)
	}
	if err := common.FetchCategories(ctx); err != nil {
		logger.Warn("categories fetch failed", "error", err)
	}

	// Smoke-check mode: place a COD order for the current cart against a
	// test backend.
	if os.Getenv("DEMO_CHECKOUT") == "1" {
		if snap := auth.Snapshot(); snap.User != nil {
			if err := cart.Fetch(ctx, snap.User.ID); err == nil {
				addr := models.AddressInfo{
					Address: config.EnvDefault("DEMO_ADDRESS", "1 Test Street"),
					City:    config.EnvDefault("DEMO_CITY", "Testville"),
					Pincode: config.EnvDefault("DEMO_PINCODE", "000000"),
					Phone:   config.EnvDefault("DEMO_PHONE", "0000000000"),
				}
				if err := flow.Submit(ctx, addr, models.PaymentMethodCOD); err != nil {
					logger.Error("demo checkout failed", "error", err)
				}
			}
		}
	}

	if snap := auth.Snapshot(); snap.User != nil && snap.User.Role == "admin" {
		dash := &poller.Dashboard{
			Products: adminProducts,
			Orders:   adminOrders,
			Users:    adminUsers,
			Interval: cfg.PollInterval,
		}
		go dash.Run(ctx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := callbacks.Shutdown(shutdownCtx); err != nil {
		logger.Error("callback server shutdown error", "error", err)
	}
}
