// Package seed fills an in-process catalog with a small matcha shop for local runs.
package seed

import (
	"context"
	"fmt"
	"time"

	"matcha-storefront/internal/domain"
)

// Catalog is anything that accepts demo products and articles.
type Catalog interface {
	PutProduct(ctx context.Context, p domain.Product) error
	PutArticle(a domain.Article, blogTitle string)
}

type variantSeed struct {
	Title string
	Price string
	Stock int
}

type productSeed struct {
	Handle      string
	Title       string
	Description string
	Tags        []string
	Option      string
	Variants    []variantSeed
}

const (
	currency  = "USD"
	blogTitle = "Journal"
	blog      = "journal"
)

var products = []productSeed{
	{
		Handle: "ceremonial-matcha", Title: "Ceremonial Matcha",
		Description: "Stone-ground first flush matcha from Uji.",
		Tags:        []string{"Matcha"}, Option: "Size",
		Variants: []variantSeed{{"30g", "28.00", 40}, {"100g", "72.00", 12}},
	},
	{
		Handle: "daily-matcha", Title: "Daily Matcha",
		Description: "A smooth everyday matcha for lattes.",
		Tags:        []string{"Matcha", "Latte"}, Option: "Size",
		Variants: []variantSeed{{"100g", "32.00", 80}},
	},
	{
		Handle: "bowl-chawan", Title: "Matcha Bowl",
		Description: "Hand-thrown chawan glazed in celadon.",
		Tags:        []string{"Teaware"},
		Variants:    []variantSeed{{"Default Title", "48.00", 6}},
	},
	{
		Handle: "bowls-set", Title: "Bowls Set",
		Description: "Two stacking bowls for sharing.",
		Tags:        []string{"Teaware"},
		Variants:    []variantSeed{{"Default Title", "84.00", 0}},
	},
	{
		Handle: "bamboo-whisk", Title: "Bamboo Whisk",
		Description: "Eighty-prong chasen for a fine foam.",
		Tags:        []string{"Teaware", "Chasen"},
		Variants:    []variantSeed{{"Default Title", "24.00", 25}},
	},
	{
		Handle: "yuzu-matcha", Title: "Yuzu Matcha",
		Description: "Seasonal blend, arriving this winter.",
		Tags:        []string{"Matcha"},
		Variants:    []variantSeed{{"Default Title", "0", 0}},
	},
}

var articles = []domain.Article{
	{
		Handle: "how-to-whisk", Title: "How to whisk matcha",
		Excerpt:     "Three minutes to a smooth bowl.",
		ContentHTML: "<p>Sift, add water at 80°C, whisk in a W motion.</p>",
		Tags:        []string{"Guide"},
		PublishedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	},
	{
		Handle: "iced-matcha-latte", Title: "Iced matcha latte",
		Excerpt:     "Our summer favourite.",
		ContentHTML: "<p>Whisk two grams with a splash of water, pour over milk and ice.</p>",
		Tags:        []string{"Recipe"},
		PublishedAt: time.Date(2026, 6, 14, 9, 0, 0, 0, time.UTC),
	},
}

// Apply loads the demo shop. It is idempotent: products are keyed by handle.
func Apply(ctx context.Context, catalog Catalog) error {
	for _, s := range products {
		p, err := s.product()
		if err != nil {
			return fmt.Errorf("seed product %s: %w", s.Handle, err)
		}
		if err := catalog.PutProduct(ctx, p); err != nil {
			return fmt.Errorf("put product %s: %w", s.Handle, err)
		}
	}
	for i, a := range articles {
		a.ID = fmt.Sprintf("gid://storefront/Article/%d", i+1)
		a.BlogHandle = blog
		catalog.PutArticle(a, blogTitle)
	}
	return nil
}

func (s productSeed) product() (domain.Product, error) {
	p := domain.Product{
		ID:          "gid://storefront/Product/" + s.Handle,
		Handle:      s.Handle,
		Title:       s.Title,
		Description: s.Description,
		Tags:        s.Tags,
	}
	for i, v := range s.Variants {
		price, err := domain.NewMoney(v.Price, currency)
		if err != nil {
			return domain.Product{}, err
		}
		stock := v.Stock
		variant := domain.Variant{
			ID:                fmt.Sprintf("gid://storefront/ProductVariant/%s-%d", s.Handle, i+1),
			Title:             v.Title,
			Price:             price,
			AvailableForSale:  stock > 0 || price.IsZero(),
			QuantityAvailable: &stock,
			ProductID:         p.ID,
		}
		if s.Option != "" {
			variant.SelectedOptions = []domain.SelectedOption{{Name: s.Option, Value: v.Title}}
		}
		p.Variants = append(p.Variants, variant)
		if i == 0 || price.Amount.LessThan(p.PriceRange.Min.Amount) {
			p.PriceRange.Min = price
		}
		if i == 0 || price.Amount.GreaterThan(p.PriceRange.Max.Amount) {
			p.PriceRange.Max = price
		}
	}
	return p, nil
}
