package domain

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type PriceRange struct {
	Min Money `json:"min"`
	Max Money `json:"max"`
}

// Product is read-only catalog data owned by the commerce backend.
type Product struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Handle        string     `json:"handle"`
	Description   string     `json:"description,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	FeaturedImage *Image     `json:"featuredImage,omitempty"`
	PriceRange    PriceRange `json:"priceRange"`
	Variants      []Variant  `json:"variants"`
}

type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Price             Money            `json:"price"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable *int             `json:"quantityAvailable,omitempty"`
	SelectedOptions   []SelectedOption `json:"selectedOptions,omitempty"`
	Image             *Image           `json:"image,omitempty"`
	ProductID         string           `json:"productId,omitempty"`
}

type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilitySoldOut    Availability = "sold_out"
	AvailabilityComingSoon Availability = "coming_soon"
)

// Availability maps the variant to the storefront's purchase state.
// A zero price means the variant has not been priced yet.
func (v Variant) Availability() Availability {
	if v.Price.IsZero() {
		return AvailabilityComingSoon
	}
	if !v.AvailableForSale {
		return AvailabilitySoldOut
	}
	if v.QuantityAvailable != nil && *v.QuantityAvailable <= 0 {
		return AvailabilitySoldOut
	}
	return AvailabilityInStock
}

// Availability of a product is in stock when any variant is, coming soon when every variant is unpriced.
func (p Product) Availability() Availability {
	if len(p.Variants) == 0 {
		return AvailabilitySoldOut
	}
	comingSoon := true
	for _, v := range p.Variants {
		switch v.Availability() {
		case AvailabilityInStock:
			return AvailabilityInStock
		case AvailabilitySoldOut:
			comingSoon = false
		}
	}
	if comingSoon {
		return AvailabilityComingSoon
	}
	return AvailabilitySoldOut
}

// Variant returns the variant with the given id.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

type Collection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Products    []Product `json:"products"`
}
