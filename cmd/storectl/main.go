// Command storectl runs storefront queries against the configured commerce backend.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"matcha-storefront/internal/bootstrap"
	"matcha-storefront/internal/cartview"
	"matcha-storefront/internal/commerce"
	"matcha-storefront/internal/commerce/local"
	"matcha-storefront/internal/config"
	"matcha-storefront/internal/domain"
	"matcha-storefront/internal/importer"
	catalogsvc "matcha-storefront/internal/service/catalog"
	"matcha-storefront/internal/service/search"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "storectl",
		Usage: "query the storefront catalog from the command line",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "run the expanded multi-term search",
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "more", Usage: "number of \"show more\" pages to reveal"},
				},
				Action: withClient(func(c *cli.Context, client commerce.Client, cfg config.Config, logger logrus.FieldLogger) error {
					query, err := queryArg(c)
					if err != nil {
						return err
					}
					agg := search.NewAggregator(client, search.Options{PageSize: cfg.Search.PageSize}, logger)
					res, err := agg.Search(c.Context, query)
					if err != nil {
						return err
					}
					if res.Empty {
						fmt.Fprintf(out, "no products match %q\n", query)
						return nil
					}
					window := search.WindowAt(cfg.Search.PageSize, c.Int("more"), len(res.Products))
					visible := window.Slice(res.Products)
					tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "HANDLE\tTITLE\tPRICE\tTERM")
					for i, p := range visible {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Handle, p.Title, cartview.FormatPriceRange(p.PriceRange), res.Provenance[i].Term)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
					fmt.Fprintf(out, "showing %d of %d (terms: %s)\n", len(visible), len(res.Products), strings.Join(res.Terms, ", "))
					return nil
				}),
			},
			{
				Name:      "quick-search",
				Usage:     "run the single-query search used by the header dropdown",
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: search.DefaultQuickLimit},
				},
				Action: withClient(func(c *cli.Context, client commerce.Client, cfg config.Config, _ logrus.FieldLogger) error {
					query, err := queryArg(c)
					if err != nil {
						return err
					}
					products, err := search.NewQuickSearcher(client, cfg.Search.PageSize).Search(c.Context, query, c.Int("limit"))
					if err != nil {
						return err
					}
					return writeProducts(out, products)
				}),
			},
			{
				Name:      "collection",
				Usage:     "list the products of a collection",
				ArgsUsage: "HANDLE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit"},
				},
				Action: withClient(func(c *cli.Context, client commerce.Client, _ config.Config, _ logrus.FieldLogger) error {
					handle := c.Args().First()
					if handle == "" {
						return errors.New("collection handle required")
					}
					col, err := catalogsvc.New(client).Collection(c.Context, handle, c.Int("limit"))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\n", col.Title)
					return writeProducts(out, col.Products)
				}),
			},
			{
				Name:      "import",
				Usage:     "check that a product export CSV loads cleanly",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "currency", Value: "USD"},
				},
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return errors.New("csv file required")
					}
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("open csv: %w", err)
					}
					defer f.Close()

					backend := local.New("", logrus.New())
					n, err := importer.NewCSVImporter(f, backend, c.String("currency")).Run(c.Context)
					if err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					fmt.Fprintf(out, "%d products imported from %s\n", n, path)
					return nil
				},
			},
		},
	}
}

type clientAction func(c *cli.Context, client commerce.Client, cfg config.Config, logger logrus.FieldLogger) error

// withClient loads config and opens the commerce backend for a single command.
func withClient(fn clientAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		logger, err := bootstrap.NewLogger(cfg.LogLevel, "text")
		if err != nil {
			return err
		}
		logger.SetOutput(os.Stderr)

		client, closeClient, err := bootstrap.Commerce(c.Context, cfg, logger)
		if err != nil {
			return err
		}
		defer closeClient()
		return fn(c, client, cfg, logger)
	}
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", errors.New("search query required")
	}
	return query, nil
}

func writeProducts(out io.Writer, products []domain.Product) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HANDLE\tTITLE\tPRICE\tAVAILABILITY")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Handle, p.Title, cartview.FormatPriceRange(p.PriceRange), p.Availability())
	}
	return tw.Flush()
}
