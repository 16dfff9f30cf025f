package search

import (
	"context"
	"fmt"
	"strings"

	"matcha-storefront/internal/domain"
)

// DefaultQuickLimit is how many products the quick-search drawer shows.
const DefaultQuickLimit = 6

// QuickSearcher backs the inline drawer. It issues one literal search and keeps
// only products whose title, handle or description contains the keyword. The
// full search page does not filter and trusts the backend's ranking instead.
type QuickSearcher struct {
	remote   Searcher
	pageSize int
}

func NewQuickSearcher(remote Searcher, pageSize int) *QuickSearcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &QuickSearcher{remote: remote, pageSize: pageSize}
}

func (q *QuickSearcher) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	keyword := strings.ToLower(strings.TrimSpace(query))
	if keyword == "" {
		return []domain.Product{}, nil
	}
	if limit <= 0 {
		limit = DefaultQuickLimit
	}

	products, err := q.remote.SearchProducts(ctx, keyword, max(limit, q.pageSize))
	if err != nil {
		return nil, fmt.Errorf("quick search %q: %w", keyword, err)
	}

	out := make([]domain.Product, 0, limit)
	for _, p := range products {
		if !Contains(p, keyword) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Contains reports whether keyword, already lower-cased, occurs in the
// product's title, handle or description.
func Contains(p domain.Product, keyword string) bool {
	return strings.Contains(strings.ToLower(p.Title), keyword) ||
		strings.Contains(strings.ToLower(p.Handle), keyword) ||
		strings.Contains(strings.ToLower(p.Description), keyword)
}
