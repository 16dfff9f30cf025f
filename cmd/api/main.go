package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matcha-storefront/internal/bootstrap"
	"matcha-storefront/internal/config"
	"matcha-storefront/internal/httpserver"
	cartsvc "matcha-storefront/internal/service/cart"
	catalogsvc "matcha-storefront/internal/service/catalog"
	"matcha-storefront/internal/service/search"
	sessionsvc "matcha-storefront/internal/service/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger, err := bootstrap.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, closeClient, err := bootstrap.Commerce(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init commerce backend: %v", err)
	}
	defer closeClient()

	store, closeStore, err := bootstrap.SessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init session store: %v", err)
	}
	defer closeStore()

	carts := cartsvc.NewManager(client, store, logger)
	live := search.NewLive(search.NewQuickSearcher(client, cfg.Search.PageSize), cfg.Search.Debounce)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Store:         store,
		Carts:         carts,
		Catalog:       catalogsvc.New(client),
		Search:        search.NewAggregator(client, search.Options{PageSize: cfg.Search.PageSize}, logger),
		Live:          live,
		Sessions:      sessionsvc.New(cfg.CartIDTTL),
		CORSOrigins:   cfg.CORSOrigins,
		PageSize:      cfg.Search.PageSize,
		SecureCookies: len(cfg.CORSOrigins) > 0,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return carts.Run(gctx, cfg.SessionIdleTimeout/2, cfg.SessionIdleTimeout)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SessionIdleTimeout / 2)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				live.Sweep(cfg.SessionIdleTimeout)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		os.Exit(1)
	}
	logger.Info("server stopped")
}
