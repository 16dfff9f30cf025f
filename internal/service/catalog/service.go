// Package catalog serves product, collection and blog reads straight from the
// commerce backend. Article HTML is passed through untouched.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"matcha-storefront/internal/domain"
)

const (
	DefaultCollectionLimit = 48
	DefaultArticleLimit    = 3
	DefaultBlogLimit       = 20
	maxLimit               = 250
)

type remote interface {
	GetProduct(ctx context.Context, handle string) (*domain.Product, error)
	GetVariant(ctx context.Context, id string) (*domain.Variant, error)
	GetCollection(ctx context.Context, handle string, limit int) (*domain.Collection, error)
	LatestArticles(ctx context.Context, limit int) ([]domain.Article, error)
	GetArticle(ctx context.Context, blogHandle, handle string) (*domain.Article, error)
	GetBlog(ctx context.Context, handle string, limit int) (*domain.Blog, error)
}

type Service struct {
	remote remote
}

func New(remote remote) *Service {
	return &Service{remote: remote}
}

func (s *Service) Product(ctx context.Context, handle string) (*domain.Product, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	return s.remote.GetProduct(ctx, handle)
}

func (s *Service) Variant(ctx context.Context, id string) (*domain.Variant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrVariantRequired
	}
	return s.remote.GetVariant(ctx, id)
}

func (s *Service) Collection(ctx context.Context, handle string, limit int) (*domain.Collection, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	return s.remote.GetCollection(ctx, handle, clamp(limit, DefaultCollectionLimit))
}

func (s *Service) LatestArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.remote.LatestArticles(ctx, clamp(limit, DefaultArticleLimit))
}

func (s *Service) Article(ctx context.Context, blogHandle, handle string) (*domain.Article, error) {
	blogHandle, err := normalizeHandle(blogHandle)
	if err != nil {
		return nil, err
	}
	handle, err = normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	return s.remote.GetArticle(ctx, blogHandle, handle)
}

func (s *Service) Blog(ctx context.Context, handle string, limit int) (*domain.Blog, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	return s.remote.GetBlog(ctx, handle, clamp(limit, DefaultBlogLimit))
}

// normalizeHandle lower-cases a URL handle. A blank handle cannot name anything.
func normalizeHandle(h string) (string, error) {
	h = strings.ToLower(strings.TrimSpace(h))
	if h == "" {
		return "", fmt.Errorf("empty handle: %w", domain.ErrNotFound)
	}
	return h, nil
}

func clamp(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}
