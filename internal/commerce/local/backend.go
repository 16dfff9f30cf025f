// Package local is an in-process commerce backend used for offline development
// and end-to-end tests. It mirrors the remote semantics the storefront relies on.
package local

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"matcha-storefront/internal/commerce"
	"matcha-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	cartIDPrefix = "gid://storefront/Cart/"
	lineIDPrefix = "gid://storefront/CartLine/"
)

var _ commerce.Client = (*Backend)(nil)

type variantRef struct {
	product int
	variant int
}

type cartLine struct {
	id        string
	variantID string
	quantity  int
}

type cart struct {
	id    string
	lines []cartLine
}

type Backend struct {
	mu           sync.RWMutex
	products     []domain.Product
	byHandle     map[string]int
	variants     map[string]variantRef
	carts        map[string]*cart
	articles     []domain.Article
	blogTitles   map[string]string
	checkoutBase string
	logger       logrus.FieldLogger
}

func New(checkoutBase string, logger logrus.FieldLogger) *Backend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if checkoutBase == "" {
		checkoutBase = "http://localhost:8080/checkout/"
	}
	return &Backend{
		byHandle:     make(map[string]int),
		variants:     make(map[string]variantRef),
		carts:        make(map[string]*cart),
		blogTitles:   make(map[string]string),
		checkoutBase: checkoutBase,
		logger:       logger,
	}
}

// PutProduct inserts or replaces a product by handle.
func (b *Backend) PutProduct(_ context.Context, p domain.Product) error {
	if p.Handle == "" {
		return fmt.Errorf("product handle required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, ok := b.byHandle[p.Handle]
	if ok {
		for _, v := range b.products[idx].Variants {
			delete(b.variants, v.ID)
		}
		b.products[idx] = p
	} else {
		idx = len(b.products)
		b.products = append(b.products, p)
		b.byHandle[p.Handle] = idx
	}
	for i, v := range p.Variants {
		b.variants[v.ID] = variantRef{product: idx, variant: i}
	}
	return nil
}

// PutArticle adds an article to blogTitle's blog.
func (b *Backend) PutArticle(a domain.Article, blogTitle string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.articles = append(b.articles, a)
	if _, ok := b.blogTitles[a.BlogHandle]; !ok {
		b.blogTitles[a.BlogHandle] = blogTitle
	}
}

func (b *Backend) CreateCart(ctx context.Context, lines []domain.LineInput) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := &cart{id: cartIDPrefix + uuid.NewString()}
	if err := b.addLinesLocked(c, lines); err != nil {
		return nil, err
	}
	b.carts[c.id] = c
	b.logger.WithField("cart_id", c.id).Debug("local backend: cart created")
	return b.renderLocked(c), nil
}

func (b *Backend) GetCart(_ context.Context, id string) (*domain.Cart, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return b.renderLocked(c), nil
}

func (b *Backend) AddLines(_ context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	next := c.copy()
	if err := b.addLinesLocked(next, lines); err != nil {
		return nil, err
	}
	b.carts[cartID] = next
	return b.renderLocked(next), nil
}

func (b *Backend) UpdateLines(_ context.Context, cartID string, updates []domain.LineUpdate) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	next := c.copy()
	for _, u := range updates {
		i := next.lineIndex(u.LineID)
		if i < 0 {
			return nil, domain.UserErrors([]domain.UserError{{Field: []string{"lines", "id"}, Message: "The merchandise line does not exist."}})
		}
		if u.Quantity <= 0 {
			next.lines = append(next.lines[:i], next.lines[i+1:]...)
			continue
		}
		if err := b.checkStockLocked(next.lines[i].variantID, u.Quantity); err != nil {
			return nil, err
		}
		next.lines[i].quantity = u.Quantity
	}
	b.carts[cartID] = next
	return b.renderLocked(next), nil
}

func (b *Backend) RemoveLines(_ context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	next := c.copy()
	for _, id := range lineIDs {
		i := next.lineIndex(id)
		if i < 0 {
			return nil, domain.UserErrors([]domain.UserError{{Field: []string{"lineIds"}, Message: "The merchandise line does not exist."}})
		}
		next.lines = append(next.lines[:i], next.lines[i+1:]...)
	}
	b.carts[cartID] = next
	return b.renderLocked(next), nil
}

// Forget drops a cart, as the hosted backend does once a cart expires or is checked out.
func (b *Backend) Forget(cartID string) {
	b.mu.Lock()
	delete(b.carts, cartID)
	b.mu.Unlock()
}

func (b *Backend) addLinesLocked(c *cart, lines []domain.LineInput) error {
	for _, in := range lines {
		if in.Quantity <= 0 {
			return domain.UserErrors([]domain.UserError{{Field: []string{"lines", "quantity"}, Message: "Quantity must be greater than zero."}})
		}
		if _, ok := b.variants[in.VariantID]; !ok {
			return domain.UserErrors([]domain.UserError{{Field: []string{"lines", "merchandiseId"}, Message: fmt.Sprintf("The merchandise with id %s does not exist.", in.VariantID)}})
		}
		// Adding a variant that is already in the cart merges into its line.
		if i := c.variantIndex(in.VariantID); i >= 0 {
			qty := c.lines[i].quantity + in.Quantity
			if err := b.checkStockLocked(in.VariantID, qty); err != nil {
				return err
			}
			c.lines[i].quantity = qty
			continue
		}
		if err := b.checkStockLocked(in.VariantID, in.Quantity); err != nil {
			return err
		}
		c.lines = append(c.lines, cartLine{id: lineIDPrefix + uuid.NewString(), variantID: in.VariantID, quantity: in.Quantity})
	}
	return nil
}

func (b *Backend) checkStockLocked(variantID string, qty int) error {
	v := b.variantLocked(variantID)
	if !v.AvailableForSale {
		return domain.UserErrors([]domain.UserError{{Field: []string{"lines", "merchandiseId"}, Message: "The product is not available for sale."}})
	}
	if v.QuantityAvailable != nil && qty > *v.QuantityAvailable {
		return domain.UserErrors([]domain.UserError{{
			Field:   []string{"lines", "quantity"},
			Message: fmt.Sprintf("Only %d items could be added to your cart due to availability.", *v.QuantityAvailable),
		}})
	}
	return nil
}

func (b *Backend) variantLocked(id string) domain.Variant {
	ref := b.variants[id]
	return b.products[ref.product].Variants[ref.variant]
}

func (b *Backend) renderLocked(c *cart) *domain.Cart {
	out := &domain.Cart{
		ID:          c.id,
		CheckoutURL: b.checkoutBase + strings.TrimPrefix(c.id, cartIDPrefix),
		Lines:       make([]domain.CartLine, 0, len(c.lines)),
	}
	currency := "USD"
	subtotal := decimal.Zero
	for _, l := range c.lines {
		ref := b.variants[l.variantID]
		p := b.products[ref.product]
		v := p.Variants[ref.variant]
		currency = v.Price.CurrencyCode
		lineTotal := v.Price.Amount.Mul(decimal.NewFromInt(int64(l.quantity)))
		subtotal = subtotal.Add(lineTotal)

		img := v.Image
		if img == nil {
			img = p.FeaturedImage
		}
		out.Lines = append(out.Lines, domain.CartLine{
			ID:        l.id,
			VariantID: l.variantID,
			Quantity:  l.quantity,
			Cost:      domain.Money{Amount: lineTotal, CurrencyCode: v.Price.CurrencyCode},
			Merchandise: domain.LineMerchandise{
				VariantTitle:      v.Title,
				ProductID:         p.ID,
				ProductTitle:      p.Title,
				ProductHandle:     p.Handle,
				Image:             img,
				SelectedOptions:   v.SelectedOptions,
				UnitPrice:         v.Price,
				QuantityAvailable: v.QuantityAvailable,
			},
		})
		out.TotalQuantity += l.quantity
	}
	out.Cost = domain.CartCost{
		Subtotal: domain.Money{Amount: subtotal, CurrencyCode: currency},
		Total:    domain.Money{Amount: subtotal, CurrencyCode: currency},
	}
	return out.Clone()
}

func (c *cart) copy() *cart {
	return &cart{id: c.id, lines: append([]cartLine(nil), c.lines...)}
}

func (c *cart) lineIndex(id string) int {
	for i, l := range c.lines {
		if l.id == id {
			return i
		}
	}
	return -1
}

func (c *cart) variantIndex(variantID string) int {
	for i, l := range c.lines {
		if l.variantID == variantID {
			return i
		}
	}
	return -1
}

// SearchProducts matches any query token against title, handle, description
// and tags, ordered by number of matching tokens then catalog order.
func (b *Backend) SearchProducts(_ context.Context, term string, limit int) ([]domain.Product, error) {
	tokens := strings.Fields(strings.ToLower(term))
	if len(tokens) == 0 {
		return []domain.Product{}, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	type hit struct {
		product domain.Product
		score   int
	}
	var hits []hit
	for _, p := range b.products {
		haystack := strings.ToLower(strings.Join(append([]string{p.Title, p.Handle, p.Description}, p.Tags...), " "))
		score := 0
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{product: p, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]domain.Product, 0, len(hits))
	for _, h := range hits {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, h.product)
	}
	return out, nil
}

func (b *Backend) GetProduct(_ context.Context, handle string) (*domain.Product, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx, ok := b.byHandle[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := b.products[idx]
	return &p, nil
}

func (b *Backend) GetVariant(_ context.Context, id string) (*domain.Variant, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.variants[id]; !ok {
		return nil, domain.ErrNotFound
	}
	v := b.variantLocked(id)
	return &v, nil
}

// GetCollection serves "all" plus one collection per product tag, keyed by the slugged tag.
func (b *Backend) GetCollection(_ context.Context, handle string, limit int) (*domain.Collection, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	col := &domain.Collection{Handle: handle, Products: []domain.Product{}}
	if handle == "all" {
		col.Title = "All Products"
	}
	for _, p := range b.products {
		matched := handle == "all"
		for _, tag := range p.Tags {
			if slug(tag) == handle {
				matched = true
				if col.Title == "" {
					col.Title = tag
				}
			}
		}
		if !matched {
			continue
		}
		if limit > 0 && len(col.Products) == limit {
			break
		}
		col.Products = append(col.Products, p)
	}
	if col.Title == "" {
		return nil, domain.ErrNotFound
	}
	return col, nil
}

func (b *Backend) LatestArticles(_ context.Context, limit int) ([]domain.Article, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return latest(b.articles, "", limit), nil
}

func (b *Backend) GetArticle(_ context.Context, blogHandle, handle string) (*domain.Article, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, a := range b.articles {
		if a.BlogHandle == blogHandle && a.Handle == handle {
			out := a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *Backend) GetBlog(_ context.Context, handle string, limit int) (*domain.Blog, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	title, ok := b.blogTitles[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Blog{Handle: handle, Title: title, Articles: latest(b.articles, handle, limit)}, nil
}

func latest(articles []domain.Article, blogHandle string, limit int) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if blogHandle == "" || a.BlogHandle == blogHandle {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
