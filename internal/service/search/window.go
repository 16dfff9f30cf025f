package search

import "matcha-storefront/internal/domain"

// Window reveals an already fetched result list a page at a time.
// "Show more" never triggers another remote call.
type Window struct {
	Visible int `json:"visible"`
	Step    int `json:"step"`
}

func NewWindow(step int) Window {
	if step <= 0 {
		step = DefaultPageSize
	}
	return Window{Visible: step, Step: step}
}

// WindowAt rebuilds the window after the given number of "show more" clicks
// over total results. Clicks past the last page are ignored.
func WindowAt(step, clicks, total int) Window {
	w := NewWindow(step)
	pages := (max(total, 0) + w.Step - 1) / w.Step
	clicks = min(max(clicks, 0), max(pages-1, 0))
	w.Visible = w.Step * (clicks + 1)
	return w
}

func (w Window) More() Window {
	w.Visible += w.Step
	return w
}

func (w Window) Slice(products []domain.Product) []domain.Product {
	if w.Visible >= len(products) {
		return products
	}
	return products[:w.Visible]
}

func (w Window) HasMore(total int) bool {
	return total > w.Visible
}
