package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"matcha-storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPageSize caps each term's remote search.
	DefaultPageSize = 24
	// tierWidth separates rank tiers so every hit of term i sorts before term i+1.
	tierWidth = 1000
)

// Searcher is the catalog search the aggregator fans out to.
type Searcher interface {
	SearchProducts(ctx context.Context, term string, limit int) ([]domain.Product, error)
}

type Options struct {
	PageSize int
	// IsolateTermErrors keeps the results of healthy terms when others fail.
	// The search still fails when every term fails.
	IsolateTermErrors bool
}

// Provenance records which term first produced a product.
type Provenance struct {
	Term      string `json:"term"`
	TermIndex int    `json:"termIndex"`
	Position  int    `json:"position"`
}

// Result is the merged outcome of one query. Provenance is aligned with Products.
type Result struct {
	Query      string           `json:"query"`
	Terms      []string         `json:"terms"`
	Products   []domain.Product `json:"products"`
	Provenance []Provenance     `json:"provenance"`
	Empty      bool             `json:"empty"`
}

type Aggregator struct {
	remote Searcher
	opts   Options
	logger logrus.FieldLogger
}

func NewAggregator(remote Searcher, opts Options, logger logrus.FieldLogger) *Aggregator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Aggregator{remote: remote, opts: opts, logger: logger}
}

// Search runs one remote search per expanded term concurrently and merges the
// results. A blank query makes no remote calls.
func (a *Aggregator) Search(ctx context.Context, query string) (Result, error) {
	terms := ExpandTerms(query)
	res := Result{Query: query, Terms: terms, Products: []domain.Product{}, Provenance: []Provenance{}}
	if len(terms) == 0 {
		res.Empty = true
		return res, nil
	}

	start := time.Now()
	perTerm := make([][]domain.Product, len(terms))
	failed := make([]error, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	for i, term := range terms {
		g.Go(func() error {
			products, err := a.remote.SearchProducts(gctx, term, a.opts.PageSize)
			if err != nil {
				if a.opts.IsolateTermErrors {
					a.logger.WithField("term", term).Warnf("search: term failed error=%v", err)
					failed[i] = err
					return nil
				}
				return fmt.Errorf("search term %q: %w", term, err)
			}
			perTerm[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if a.opts.IsolateTermErrors && allFailed(failed) {
		return Result{}, fmt.Errorf("search %q: %w", query, errors.Join(failed...))
	}

	res.Products, res.Provenance = merge(terms, perTerm)
	res.Empty = len(res.Products) == 0
	a.logger.WithFields(logrus.Fields{
		"terms":    len(terms),
		"products": len(res.Products),
		"duration": time.Since(start),
	}).Debug("search: merged")
	return res, nil
}

func allFailed(errs []error) bool {
	for _, err := range errs {
		if err == nil {
			return false
		}
	}
	return true
}

type ranked struct {
	product    domain.Product
	provenance Provenance
	rank       int
}

// merge keeps the first occurrence of every dedup key, walking term 0 first,
// and orders by rank = position + termIndex*tierWidth.
func merge(terms []string, perTerm [][]domain.Product) ([]domain.Product, []Provenance) {
	seen := make(map[string]struct{})
	var hits []ranked
	for idx, products := range perTerm {
		for pos, p := range products {
			key := DedupKey(p)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			hits = append(hits, ranked{
				product:    p,
				provenance: Provenance{Term: terms[idx], TermIndex: idx, Position: pos},
				rank:       pos + idx*tierWidth,
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })

	products := make([]domain.Product, len(hits))
	provenance := make([]Provenance, len(hits))
	for i, h := range hits {
		products[i] = h.product
		provenance[i] = h.provenance
	}
	return products, provenance
}
