package shopify

import (
	"context"
	"fmt"

	"matcha-storefront/internal/domain"
)

func (c *Client) SearchProducts(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	data, err := execute[struct {
		Products productConnection `json:"products"`
	}](ctx, c, opProductSearch, map[string]any{"query": term, "first": limit})
	if err != nil {
		return nil, err
	}
	return toProducts(data.Products)
}

func (c *Client) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	data, err := execute[struct {
		Product *productNode `json:"product"`
	}](ctx, c, opProductByHandle, map[string]any{"handle": handle})
	if err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, domain.ErrNotFound
	}
	p, err := toProduct(*data.Product)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetVariant(ctx context.Context, id string) (*domain.Variant, error) {
	data, err := execute[struct {
		Node *variantNode `json:"node"`
	}](ctx, c, opVariantByID, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	// A node of another type decodes with an empty id.
	if data.Node == nil || data.Node.ID == "" {
		return nil, domain.ErrNotFound
	}
	v, err := toVariant(*data.Node)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) GetCollection(ctx context.Context, handle string, limit int) (*domain.Collection, error) {
	data, err := execute[struct {
		Collection *struct {
			Handle      string            `json:"handle"`
			Title       string            `json:"title"`
			Description string            `json:"description"`
			Products    productConnection `json:"products"`
		} `json:"collection"`
	}](ctx, c, opCollection, map[string]any{"handle": handle, "first": limit})
	if err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, domain.ErrNotFound
	}
	products, err := toProducts(data.Collection.Products)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", handle, err)
	}
	return &domain.Collection{
		Handle:      data.Collection.Handle,
		Title:       data.Collection.Title,
		Description: data.Collection.Description,
		Products:    products,
	}, nil
}

func (c *Client) LatestArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	data, err := execute[struct {
		Articles articleConnection `json:"articles"`
	}](ctx, c, opLatestArticles, map[string]any{"first": limit})
	if err != nil {
		return nil, err
	}
	return toArticles(data.Articles), nil
}

func (c *Client) GetArticle(ctx context.Context, blogHandle, handle string) (*domain.Article, error) {
	data, err := execute[struct {
		Blog *struct {
			ArticleByHandle *articleNode `json:"articleByHandle"`
		} `json:"blog"`
	}](ctx, c, opArticleByHandle, map[string]any{"blog": blogHandle, "handle": handle})
	if err != nil {
		return nil, err
	}
	if data.Blog == nil || data.Blog.ArticleByHandle == nil {
		return nil, domain.ErrNotFound
	}
	a := toArticle(*data.Blog.ArticleByHandle)
	return &a, nil
}

func (c *Client) GetBlog(ctx context.Context, handle string, limit int) (*domain.Blog, error) {
	data, err := execute[struct {
		Blog *struct {
			Handle   string            `json:"handle"`
			Title    string            `json:"title"`
			Articles articleConnection `json:"articles"`
		} `json:"blog"`
	}](ctx, c, opBlogByHandle, map[string]any{"handle": handle, "first": limit})
	if err != nil {
		return nil, err
	}
	if data.Blog == nil {
		return nil, domain.ErrNotFound
	}
	return &domain.Blog{
		Handle:   data.Blog.Handle,
		Title:    data.Blog.Title,
		Articles: toArticles(data.Blog.Articles),
	}, nil
}
