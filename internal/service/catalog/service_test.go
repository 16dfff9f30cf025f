package catalog

import (
	"context"
	"errors"
	"testing"

	"matcha-storefront/internal/domain"
)

type stubRemote struct {
	lastHandle string
	lastBlog   string
	lastLimit  int
	product    *domain.Product
	err        error
}

func (s *stubRemote) GetProduct(_ context.Context, handle string) (*domain.Product, error) {
	s.lastHandle = handle
	return s.product, s.err
}

func (s *stubRemote) GetVariant(_ context.Context, id string) (*domain.Variant, error) {
	s.lastHandle = id
	return &domain.Variant{ID: id}, s.err
}

func (s *stubRemote) GetCollection(_ context.Context, handle string, limit int) (*domain.Collection, error) {
	s.lastHandle, s.lastLimit = handle, limit
	return &domain.Collection{Handle: handle}, s.err
}

func (s *stubRemote) LatestArticles(_ context.Context, limit int) ([]domain.Article, error) {
	s.lastLimit = limit
	return nil, s.err
}

func (s *stubRemote) GetArticle(_ context.Context, blogHandle, handle string) (*domain.Article, error) {
	s.lastBlog, s.lastHandle = blogHandle, handle
	return &domain.Article{Handle: handle, BlogHandle: blogHandle}, s.err
}

func (s *stubRemote) GetBlog(_ context.Context, handle string, limit int) (*domain.Blog, error) {
	s.lastHandle, s.lastLimit = handle, limit
	return &domain.Blog{Handle: handle}, s.err
}

func TestProductNormalizesHandle(t *testing.T) {
	remote := &stubRemote{product: &domain.Product{Handle: "ceremonial-matcha"}}
	svc := New(remote)
	got, err := svc.Product(context.Background(), "  Ceremonial-Matcha ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remote.lastHandle != "ceremonial-matcha" || got.Handle != "ceremonial-matcha" {
		t.Fatalf("unexpected handle %q", remote.lastHandle)
	}
}

func TestBlankHandleIsNotFound(t *testing.T) {
	remote := &stubRemote{}
	svc := New(remote)
	if _, err := svc.Product(context.Background(), " "); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Article(context.Background(), "news", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if remote.lastHandle != "" {
		t.Fatal("blank handle reached the backend")
	}
}

func TestVariantRequiresID(t *testing.T) {
	svc := New(&stubRemote{})
	if _, err := svc.Variant(context.Background(), ""); !errors.Is(err, domain.ErrVariantRequired) {
		t.Fatalf("expected ErrVariantRequired, got %v", err)
	}
}

func TestLimits(t *testing.T) {
	remote := &stubRemote{}
	svc := New(remote)
	ctx := context.Background()

	if _, err := svc.Collection(ctx, "teaware", 0); err != nil {
		t.Fatalf("collection: %v", err)
	}
	if remote.lastLimit != DefaultCollectionLimit {
		t.Fatalf("expected default limit, got %d", remote.lastLimit)
	}
	if _, err := svc.Blog(ctx, "journal", 1000); err != nil {
		t.Fatalf("blog: %v", err)
	}
	if remote.lastLimit != maxLimit {
		t.Fatalf("expected clamped limit, got %d", remote.lastLimit)
	}
	if _, err := svc.LatestArticles(ctx, -1); err != nil {
		t.Fatalf("articles: %v", err)
	}
	if remote.lastLimit != DefaultArticleLimit {
		t.Fatalf("expected default article limit, got %d", remote.lastLimit)
	}
}

func TestErrorsPassThrough(t *testing.T) {
	svc := New(&stubRemote{err: domain.ErrNotFound})
	if _, err := svc.Blog(context.Background(), "journal", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
