package main

import (
	"context"
	"fmt"
	"os"

	"matcha-storefront/internal/bootstrap"
	"matcha-storefront/internal/config"
	"matcha-storefront/internal/db"
	"matcha-storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger, err := bootstrap.NewLogger(cfg.LogLevel, "text")
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}

	withPool := func(fn func(ctx context.Context, pool *pgxpool.Pool) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			pool, err := db.Connect(c.Context, cfg.DBConnString)
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()
			return fn(c.Context, pool)
		}
	}

	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the cart session schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
					if err := migrate.Apply(ctx, pool); err != nil {
						return fmt.Errorf("apply migrations: %w", err)
					}
					logger.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					steps := c.Int("steps")
					return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
						if err := migrate.Rollback(ctx, pool, steps); err != nil {
							return fmt.Errorf("roll back migrations: %w", err)
						}
						logger.WithField("steps", steps).Info("migrations rolled back")
						return nil
					})(c)
				},
			},
			{
				Name:  "version",
				Usage: "print the applied schema version",
				Action: withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
					version, dirty, err := migrate.Version(ctx, pool)
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					logger.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("schema version")
					return nil
				}),
			},
		},
		DefaultCommand: "up",
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}
