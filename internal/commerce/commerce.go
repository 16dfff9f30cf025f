// Package commerce describes the contract the storefront relies on from the
// hosted commerce backend. Every cart mutation returns the full cart.
package commerce

import (
	"context"

	"matcha-storefront/internal/domain"
)

type Carts interface {
	CreateCart(ctx context.Context, lines []domain.LineInput) (*domain.Cart, error)
	// GetCart returns domain.ErrCartNotFound when the backend no longer knows the id.
	GetCart(ctx context.Context, id string) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []domain.LineUpdate) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
}

type Catalog interface {
	// SearchProducts returns products in the backend's relevance order.
	SearchProducts(ctx context.Context, term string, limit int) ([]domain.Product, error)
	GetProduct(ctx context.Context, handle string) (*domain.Product, error)
	GetVariant(ctx context.Context, id string) (*domain.Variant, error)
	GetCollection(ctx context.Context, handle string, limit int) (*domain.Collection, error)
}

type Content interface {
	LatestArticles(ctx context.Context, limit int) ([]domain.Article, error)
	GetArticle(ctx context.Context, blogHandle, handle string) (*domain.Article, error)
	GetBlog(ctx context.Context, handle string, limit int) (*domain.Blog, error)
}

// Client is the full backend surface.
type Client interface {
	Carts
	Catalog
	Content
}
