package shopify

import (
	"fmt"
	"time"

	"matcha-storefront/internal/domain"
)

// Wire shapes mirror the GraphQL selections above. They are narrowed to
// domain types right after decoding and never leave this package.

type moneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type optionNode struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type userErrorNode struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type variantNode struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	AvailableForSale  bool         `json:"availableForSale"`
	QuantityAvailable *int         `json:"quantityAvailable"`
	Price             moneyV2      `json:"price"`
	SelectedOptions   []optionNode `json:"selectedOptions"`
	Image             *imageNode   `json:"image"`
	Product           *struct {
		ID            string     `json:"id"`
		Title         string     `json:"title"`
		Handle        string     `json:"handle"`
		FeaturedImage *imageNode `json:"featuredImage"`
	} `json:"product"`
}

type productNode struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Handle        string     `json:"handle"`
	Description   string     `json:"description"`
	Tags          []string   `json:"tags"`
	FeaturedImage *imageNode `json:"featuredImage"`
	PriceRange    struct {
		MinVariantPrice moneyV2 `json:"minVariantPrice"`
		MaxVariantPrice moneyV2 `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productConnection struct {
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
}

type cartLineNode struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Cost     struct {
		TotalAmount moneyV2 `json:"totalAmount"`
	} `json:"cost"`
	Merchandise variantNode `json:"merchandise"`
}

type cartNode struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          struct {
		SubtotalAmount moneyV2  `json:"subtotalAmount"`
		TotalAmount    moneyV2  `json:"totalAmount"`
		TotalTaxAmount *moneyV2 `json:"totalTaxAmount"`
	} `json:"cost"`
	Lines struct {
		Edges []struct {
			Node cartLineNode `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

type cartPayload struct {
	Cart       *cartNode       `json:"cart"`
	UserErrors []userErrorNode `json:"userErrors"`
}

type articleNode struct {
	ID          string     `json:"id"`
	Handle      string     `json:"handle"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	ContentHTML string     `json:"contentHtml"`
	Tags        []string   `json:"tags"`
	PublishedAt time.Time  `json:"publishedAt"`
	Image       *imageNode `json:"image"`
	Blog        struct {
		Handle string `json:"handle"`
	} `json:"blog"`
}

type articleConnection struct {
	Edges []struct {
		Node articleNode `json:"node"`
	} `json:"edges"`
}

func toMoney(m moneyV2) (domain.Money, error) {
	out, err := domain.NewMoney(m.Amount, m.CurrencyCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("invalid amount %q: %w", m.Amount, err)
	}
	return out, nil
}

func toImage(img *imageNode) *domain.Image {
	if img == nil || img.URL == "" {
		return nil
	}
	return &domain.Image{URL: img.URL, AltText: img.AltText}
}

func toOptions(in []optionNode) []domain.SelectedOption {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.SelectedOption, 0, len(in))
	for _, o := range in {
		out = append(out, domain.SelectedOption{Name: o.Name, Value: o.Value})
	}
	return out
}

func toUserErrors(in []userErrorNode) []domain.UserError {
	out := make([]domain.UserError, 0, len(in))
	for _, e := range in {
		out = append(out, domain.UserError{Field: e.Field, Message: e.Message})
	}
	return out
}

func toVariant(n variantNode) (domain.Variant, error) {
	price, err := toMoney(n.Price)
	if err != nil {
		return domain.Variant{}, fmt.Errorf("variant %s: %w", n.ID, err)
	}
	v := domain.Variant{
		ID:                n.ID,
		Title:             n.Title,
		Price:             price,
		AvailableForSale:  n.AvailableForSale,
		QuantityAvailable: n.QuantityAvailable,
		SelectedOptions:   toOptions(n.SelectedOptions),
		Image:             toImage(n.Image),
	}
	if n.Product != nil {
		v.ProductID = n.Product.ID
	}
	return v, nil
}

func toProduct(n productNode) (domain.Product, error) {
	minPrice, err := toMoney(n.PriceRange.MinVariantPrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", n.ID, err)
	}
	maxPrice, err := toMoney(n.PriceRange.MaxVariantPrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", n.ID, err)
	}
	p := domain.Product{
		ID:            n.ID,
		Title:         n.Title,
		Handle:        n.Handle,
		Description:   n.Description,
		Tags:          n.Tags,
		FeaturedImage: toImage(n.FeaturedImage),
		PriceRange:    domain.PriceRange{Min: minPrice, Max: maxPrice},
		Variants:      make([]domain.Variant, 0, len(n.Variants.Edges)),
	}
	for _, e := range n.Variants.Edges {
		v, err := toVariant(e.Node)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %s: %w", n.ID, err)
		}
		v.ProductID = n.ID
		p.Variants = append(p.Variants, v)
	}
	return p, nil
}

func toProducts(conn productConnection) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		p, err := toProduct(e.Node)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func toCart(n *cartNode) (*domain.Cart, error) {
	subtotal, err := toMoney(n.Cost.SubtotalAmount)
	if err != nil {
		return nil, fmt.Errorf("cart %s subtotal: %w", n.ID, err)
	}
	total, err := toMoney(n.Cost.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("cart %s total: %w", n.ID, err)
	}
	cart := &domain.Cart{
		ID:            n.ID,
		CheckoutURL:   n.CheckoutURL,
		TotalQuantity: n.TotalQuantity,
		Cost:          domain.CartCost{Subtotal: subtotal, Total: total},
		Lines:         make([]domain.CartLine, 0, len(n.Lines.Edges)),
	}
	if n.Cost.TotalTaxAmount != nil && n.Cost.TotalTaxAmount.Amount != "" {
		tax, err := toMoney(*n.Cost.TotalTaxAmount)
		if err != nil {
			return nil, fmt.Errorf("cart %s tax: %w", n.ID, err)
		}
		cart.Cost.Tax = &tax
	}

	for _, e := range n.Lines.Edges {
		line, err := toCartLine(e.Node)
		if err != nil {
			return nil, fmt.Errorf("cart %s: %w", n.ID, err)
		}
		cart.Lines = append(cart.Lines, line)
	}
	return cart, nil
}

func toCartLine(n cartLineNode) (domain.CartLine, error) {
	cost, err := toMoney(n.Cost.TotalAmount)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("line %s: %w", n.ID, err)
	}
	unit, err := toMoney(n.Merchandise.Price)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("line %s: %w", n.ID, err)
	}
	m := domain.LineMerchandise{
		VariantTitle:      n.Merchandise.Title,
		Image:             toImage(n.Merchandise.Image),
		SelectedOptions:   toOptions(n.Merchandise.SelectedOptions),
		UnitPrice:         unit,
		QuantityAvailable: n.Merchandise.QuantityAvailable,
	}
	if p := n.Merchandise.Product; p != nil {
		m.ProductID = p.ID
		m.ProductTitle = p.Title
		m.ProductHandle = p.Handle
		if m.Image == nil {
			m.Image = toImage(p.FeaturedImage)
		}
	}
	return domain.CartLine{
		ID:          n.ID,
		VariantID:   n.Merchandise.ID,
		Quantity:    n.Quantity,
		Cost:        cost,
		Merchandise: m,
	}, nil
}

func toArticle(n articleNode) domain.Article {
	return domain.Article{
		ID:          n.ID,
		Handle:      n.Handle,
		Title:       n.Title,
		Excerpt:     n.Excerpt,
		ContentHTML: n.ContentHTML,
		Tags:        n.Tags,
		Image:       toImage(n.Image),
		PublishedAt: n.PublishedAt,
		BlogHandle:  n.Blog.Handle,
	}
}

func toArticles(conn articleConnection) []domain.Article {
	out := make([]domain.Article, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		out = append(out, toArticle(e.Node))
	}
	return out
}
