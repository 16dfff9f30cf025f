package search

import (
	"context"
	"sync"

	"matcha-storefront/internal/domain"
)

// fakeCatalog answers each term from a fixed table.
type fakeCatalog struct {
	mu      sync.Mutex
	results map[string][]domain.Product
	errs    map[string]error
	calls   []string
	limits  []int
}

func (f *fakeCatalog) SearchProducts(_ context.Context, term string, limit int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, term)
	f.limits = append(f.limits, limit)
	if err := f.errs[term]; err != nil {
		return nil, err
	}
	return f.results[term], nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func product(handle, title string) domain.Product {
	return domain.Product{ID: "gid://shopify/Product/" + handle, Handle: handle, Title: title}
}

func handles(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Handle
	}
	return out
}
