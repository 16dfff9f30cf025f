package cart

import (
	"errors"
	"testing"

	"matcha-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

func TestValidateAdd(t *testing.T) {
	two := 2
	none := 0
	price := domain.Money{Amount: decimal.RequireFromString("18.00"), CurrencyCode: "USD"}

	cases := []struct {
		name    string
		variant domain.Variant
		inCart  int
		qty     int
		want    error
	}{
		{"ok", domain.Variant{ID: "v", Price: price, AvailableForSale: true, QuantityAvailable: &two}, 0, 2, nil},
		{"untracked stock", domain.Variant{ID: "v", Price: price, AvailableForSale: true}, 10, 5, nil},
		{"no variant", domain.Variant{}, 0, 1, domain.ErrVariantRequired},
		{"zero quantity", domain.Variant{ID: "v", Price: price, AvailableForSale: true}, 0, 0, domain.ErrInvalidQuantity},
		{"coming soon", domain.Variant{ID: "v", AvailableForSale: true}, 0, 1, domain.ErrComingSoon},
		{"not for sale", domain.Variant{ID: "v", Price: price}, 0, 1, domain.ErrVariantUnavailable},
		{"out of stock", domain.Variant{ID: "v", Price: price, AvailableForSale: true, QuantityAvailable: &none}, 0, 1, domain.ErrVariantUnavailable},
		{"exceeds with cart", domain.Variant{ID: "v", Price: price, AvailableForSale: true, QuantityAvailable: &two}, 1, 2, domain.ErrExceedsAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAdd(tc.variant, tc.inCart, tc.qty)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	three := 3
	line := domain.CartLine{ID: "l1", Quantity: 1, Merchandise: domain.LineMerchandise{QuantityAvailable: &three}}

	if err := ValidateUpdate(line, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateUpdate(line, 4); !errors.Is(err, domain.ErrExceedsAvailable) {
		t.Fatalf("expected ErrExceedsAvailable, got %v", err)
	}
	if err := ValidateUpdate(line, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := ValidateUpdate(domain.CartLine{ID: "l2"}, 50); err != nil {
		t.Fatalf("untracked stock: %v", err)
	}
}
