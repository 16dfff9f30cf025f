package cart

import (
	"fmt"

	"matcha-storefront/internal/domain"
)

// ValidateAdd rejects an add-to-cart request before it reaches the backend.
// inCart is the quantity of the variant already in the cart.
func ValidateAdd(v domain.Variant, inCart, quantity int) error {
	if v.ID == "" {
		return domain.ErrVariantRequired
	}
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	switch v.Availability() {
	case domain.AvailabilityComingSoon:
		return domain.ErrComingSoon
	case domain.AvailabilitySoldOut:
		return domain.ErrVariantUnavailable
	}
	if v.QuantityAvailable != nil && inCart+quantity > *v.QuantityAvailable {
		return fmt.Errorf("only %d available, %d already in cart: %w", *v.QuantityAvailable, inCart, domain.ErrExceedsAvailable)
	}
	return nil
}

// ValidateUpdate rejects a quantity change the line cannot take.
func ValidateUpdate(line domain.CartLine, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if avail := line.Merchandise.QuantityAvailable; avail != nil && quantity > *avail {
		return fmt.Errorf("only %d available: %w", *avail, domain.ErrExceedsAvailable)
	}
	return nil
}
