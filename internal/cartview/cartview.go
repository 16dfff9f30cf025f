// Package cartview projects a cart snapshot into display records. Every
// function is pure and accepts a nil cart.
package cartview

import (
	"matcha-storefront/internal/domain"
)

// defaultVariantTitle is what the backend reports for single-variant products.
const defaultVariantTitle = "Default Title"

// Line is one cart line ready for rendering.
type Line struct {
	ID            string                  `json:"id"`
	VariantID     string                  `json:"variantId"`
	Quantity      int                     `json:"quantity"`
	ProductTitle  string                  `json:"productTitle"`
	ProductHandle string                  `json:"productHandle"`
	VariantTitle  string                  `json:"variantTitle,omitempty"`
	Image         *domain.Image           `json:"image,omitempty"`
	Options       []domain.SelectedOption `json:"options,omitempty"`
	UnitPrice     string                  `json:"unitPrice"`
	LineTotal     string                  `json:"lineTotal"`
	// MaxQuantity caps the quantity stepper; nil when stock is not tracked.
	MaxQuantity *int `json:"maxQuantity,omitempty"`
}

// Totals are taken as-is from the backend's cost breakdown.
type Totals struct {
	ItemCount int           `json:"itemCount"`
	Subtotal  domain.Money  `json:"subtotal"`
	Tax       *domain.Money `json:"tax,omitempty"`
	Total     domain.Money  `json:"total"`
}

func FormatCartLines(cart *domain.Cart) []Line {
	if cart == nil {
		return []Line{}
	}
	out := make([]Line, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		m := l.Merchandise
		line := Line{
			ID:            l.ID,
			VariantID:     l.VariantID,
			Quantity:      l.Quantity,
			ProductTitle:  m.ProductTitle,
			ProductHandle: m.ProductHandle,
			UnitPrice:     FormatPrice(m.UnitPrice),
			LineTotal:     FormatPrice(l.Cost),
		}
		if m.VariantTitle != defaultVariantTitle {
			line.VariantTitle = m.VariantTitle
		}
		if m.Image != nil {
			img := *m.Image
			if img.AltText == "" {
				img.AltText = m.ProductTitle
			}
			line.Image = &img
		}
		for _, opt := range m.SelectedOptions {
			if opt.Value == defaultVariantTitle {
				continue
			}
			line.Options = append(line.Options, opt)
		}
		if m.QuantityAvailable != nil {
			limit := *m.QuantityAvailable
			line.MaxQuantity = &limit
		}
		out = append(out, line)
	}
	return out
}

func IsEmpty(cart *domain.Cart) bool {
	return cart == nil || len(cart.Lines) == 0
}

// CalculateCartTotals returns nil for an empty cart: there is nothing to show,
// which is not the same as a zero total.
func CalculateCartTotals(cart *domain.Cart) *Totals {
	if IsEmpty(cart) {
		return nil
	}
	t := &Totals{
		Subtotal: cart.Cost.Subtotal,
		Total:    cart.Cost.Total,
	}
	if cart.Cost.Tax != nil {
		tax := *cart.Cost.Tax
		t.Tax = &tax
	}
	for _, l := range cart.Lines {
		t.ItemCount += l.Quantity
	}
	return t
}
