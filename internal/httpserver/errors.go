package httpserver

import (
	"context"
	"errors"
	"net/http"

	"matcha-storefront/internal/domain"
	cartsvc "matcha-storefront/internal/service/cart"
	"matcha-storefront/internal/service/search"

	"github.com/gin-gonic/gin"
)

const (
	msgCartFailed    = "Failed to update cart."
	msgSearchFailed  = "Search failed. Please try again."
	msgLoadFailed    = "Failed to load. Please try again."
	msgNotFound      = "Not found."
	msgInFlight      = "Your cart is still updating. Please wait."
	msgSuperseded    = "A newer search replaced this one."
	msgBadRequest    = "Invalid request."
	msgCheckoutEmpty = "Your cart is empty."
)

// validationMessages are the shopper-facing texts for guard failures.
var validationMessages = []struct {
	err error
	msg string
}{
	{domain.ErrVariantRequired, "Please select an option."},
	{domain.ErrInvalidQuantity, "Quantity must be at least 1."},
	{domain.ErrComingSoon, "This item is coming soon."},
	{domain.ErrVariantUnavailable, "This item is sold out."},
	{domain.ErrExceedsAvailable, "Not enough stock for that quantity."},
	{cartsvc.ErrEmptyCart, msgCheckoutEmpty},
}

// writeError maps a service error to a status and short text. Anything it
// does not recognise is treated as a backend failure and gets fallback.
func (h *handlers) writeError(c *gin.Context, err error, fallback string) {
	status, msg := classify(err, fallback)
	entry := h.logger.WithField("path", c.FullPath())
	if status >= http.StatusInternalServerError {
		entry.Errorf("http: request failed status=%d error=%v", status, err)
	} else {
		entry.Debugf("http: request rejected status=%d error=%v", status, err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func classify(err error, fallback string) (int, string) {
	var ue *domain.UserError
	switch {
	case errors.Is(err, domain.ErrMutationInFlight):
		return http.StatusConflict, msgInFlight
	case errors.Is(err, search.ErrSuperseded):
		return http.StatusConflict, msgSuperseded
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCartNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.As(err, &ue):
		return http.StatusUnprocessableEntity, ue.Message
	case errors.Is(err, context.Canceled):
		// 499 is nginx's "client closed request".
		return 499, fallback
	}
	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			return http.StatusUnprocessableEntity, v.msg
		}
	}
	return http.StatusBadGateway, fallback
}
