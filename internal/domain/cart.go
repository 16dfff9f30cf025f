package domain

// Cart is the shopper's order in progress as last reported by the commerce backend.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	TotalQuantity int        `json:"totalQuantity"`
	Cost          CartCost   `json:"cost"`
	Lines         []CartLine `json:"lines"`
}

// CartCost holds the backend-computed totals. Tax is nil when the backend does not report it.
type CartCost struct {
	Subtotal Money  `json:"subtotal"`
	Tax      *Money `json:"tax,omitempty"`
	Total    Money  `json:"total"`
}

// CartLine is one variant and its quantity. Merchandise is the denormalized
// display data returned alongside the line.
type CartLine struct {
	ID          string          `json:"id"`
	VariantID   string          `json:"variantId"`
	Quantity    int             `json:"quantity"`
	Cost        Money           `json:"cost"`
	Merchandise LineMerchandise `json:"merchandise"`
}

type LineMerchandise struct {
	VariantTitle      string           `json:"variantTitle"`
	ProductID         string           `json:"productId"`
	ProductTitle      string           `json:"productTitle"`
	ProductHandle     string           `json:"productHandle"`
	Image             *Image           `json:"image,omitempty"`
	SelectedOptions   []SelectedOption `json:"selectedOptions,omitempty"`
	UnitPrice         Money            `json:"unitPrice"`
	QuantityAvailable *int             `json:"quantityAvailable,omitempty"`
}

// LineInput adds a variant to a cart.
type LineInput struct {
	VariantID string
	Quantity  int
}

// LineUpdate sets the quantity of an existing line.
type LineUpdate struct {
	LineID   string
	Quantity int
}

// Clone returns a deep copy so the owner of a cart can hand it out without sharing mutable state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.Cost.Tax != nil {
		tax := *c.Cost.Tax
		out.Cost.Tax = &tax
	}
	if c.Lines != nil {
		out.Lines = make([]CartLine, len(c.Lines))
		for i, line := range c.Lines {
			out.Lines[i] = line.clone()
		}
	}
	return &out
}

func (l CartLine) clone() CartLine {
	m := l.Merchandise
	if m.Image != nil {
		img := *m.Image
		m.Image = &img
	}
	if m.SelectedOptions != nil {
		m.SelectedOptions = append([]SelectedOption(nil), m.SelectedOptions...)
	}
	if m.QuantityAvailable != nil {
		q := *m.QuantityAvailable
		m.QuantityAvailable = &q
	}
	l.Merchandise = m
	return l
}

// Line returns the line with the given id.
func (c *Cart) Line(id string) (CartLine, bool) {
	if c == nil {
		return CartLine{}, false
	}
	for _, line := range c.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return CartLine{}, false
}

// QuantityOf sums the quantity of every line holding variantID.
func (c *Cart) QuantityOf(variantID string) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, line := range c.Lines {
		if line.VariantID == variantID {
			total += line.Quantity
		}
	}
	return total
}
