// Package bootstrap builds the long-lived dependencies shared by the binaries
// from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"matcha-storefront/internal/commerce"
	"matcha-storefront/internal/commerce/local"
	"matcha-storefront/internal/commerce/shopify"
	"matcha-storefront/internal/config"
	"matcha-storefront/internal/db"
	"matcha-storefront/internal/importer"
	"matcha-storefront/internal/repository/cartsession"
	"matcha-storefront/internal/seed"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to stdout at the given level and format.
func NewLogger(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
	return logger, nil
}

// Commerce connects to the configured backend. The returned func releases it.
func Commerce(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (commerce.Client, func(), error) {
	switch strings.ToLower(cfg.CommerceBackend) {
	case "shopify":
		client, err := shopify.New(cfg.Shopify, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("shopify client: %w", err)
		}
		return client, func() { _ = client.Close() }, nil
	case "local":
		backend := local.New(cfg.CheckoutBaseURL, logger)
		if err := loadCatalog(ctx, cfg, backend, logger); err != nil {
			return nil, nil, err
		}
		return backend, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported commerce backend %q", cfg.CommerceBackend)
	}
}

func loadCatalog(ctx context.Context, cfg config.Config, backend *local.Backend, logger logrus.FieldLogger) error {
	if cfg.CatalogFile == "" {
		if err := seed.Apply(ctx, backend); err != nil {
			return fmt.Errorf("seed demo catalog: %w", err)
		}
		logger.Info("local backend: demo catalog loaded")
		return nil
	}

	f, err := os.Open(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	count, err := importer.NewCSVImporter(f, backend, cfg.CatalogCurrency).Run(ctx)
	if err != nil {
		return fmt.Errorf("import catalog %s: %w", cfg.CatalogFile, err)
	}
	logger.WithField("products", count).Infof("local backend: imported %s", cfg.CatalogFile)
	return nil
}

// SessionStore opens the configured cart id store. The returned func closes it.
func SessionStore(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (cartsession.Repository, func(), error) {
	switch strings.ToLower(cfg.SessionStore) {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		return cartsession.NewPostgres(pool, cfg.CartIDTTL, logger), pool.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return cartsession.NewRedis(client, cfg.CartIDTTL), func() { _ = client.Close() }, nil
	case "memory":
		logger.Warn("session store: memory, carts are forgotten on restart")
		return cartsession.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}
}
