package httpserver

import (
	"matcha-storefront/internal/cartview"
	"matcha-storefront/internal/domain"
	cartsvc "matcha-storefront/internal/service/cart"
)

type cartResponse struct {
	Lines       []cartview.Line `json:"lines"`
	Totals      *totalsView     `json:"totals"`
	ItemCount   int             `json:"itemCount"`
	IsEmpty     bool            `json:"isEmpty"`
	IsLoading   bool            `json:"isLoading"`
	Error       string          `json:"error,omitempty"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
}

type totalsView struct {
	ItemCount    int     `json:"itemCount"`
	Subtotal     string  `json:"subtotal"`
	Tax          *string `json:"tax,omitempty"`
	Total        string  `json:"total"`
	CurrencyCode string  `json:"currencyCode"`
}

func toCartResponse(st cartsvc.State) cartResponse {
	resp := cartResponse{
		Lines:     cartview.FormatCartLines(st.Cart),
		ItemCount: st.ItemCount,
		IsEmpty:   cartview.IsEmpty(st.Cart),
		IsLoading: st.Loading,
		Error:     st.Err,
	}
	if st.Cart != nil {
		resp.CheckoutURL = st.Cart.CheckoutURL
	}
	if t := cartview.CalculateCartTotals(st.Cart); t != nil {
		resp.Totals = &totalsView{
			ItemCount:    t.ItemCount,
			Subtotal:     cartview.FormatPrice(t.Subtotal),
			Total:        cartview.FormatPrice(t.Total),
			CurrencyCode: t.Total.CurrencyCode,
		}
		if t.Tax != nil {
			tax := cartview.FormatPrice(*t.Tax)
			resp.Totals.Tax = &tax
		}
	}
	return resp
}

type variantView struct {
	domain.Variant
	PriceText    string              `json:"priceText"`
	Availability domain.Availability `json:"availability"`
}

type productView struct {
	domain.Product
	Variants     []variantView       `json:"variants"`
	PriceText    string              `json:"priceText"`
	Availability domain.Availability `json:"availability"`
}

func toProductView(p domain.Product) productView {
	variants := make([]variantView, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, variantView{
			Variant:      v,
			PriceText:    cartview.FormatVariantPrice(v),
			Availability: v.Availability(),
		})
	}
	return productView{
		Product:      p,
		Variants:     variants,
		PriceText:    cartview.FormatPriceRange(p.PriceRange),
		Availability: p.Availability(),
	}
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}
