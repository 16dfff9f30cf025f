package httpserver

import (
	"net/http"

	"matcha-storefront/internal/domain"
	cartsvc "matcha-storefront/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type addLineRequest struct {
	VariantID string `json:"variantId"`
	Quantity  *int   `json:"quantity"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) session(c *gin.Context) *cartsvc.Session {
	return h.deps.Carts.Get(c.Request.Context(), sessionID(c))
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(h.session(c).State()))
}

func (h *handlers) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if req.VariantID == "" {
		h.writeError(c, domain.ErrVariantRequired, msgCartFailed)
		return
	}

	ctx := c.Request.Context()
	variant, err := h.deps.Catalog.Variant(ctx, req.VariantID)
	if err != nil {
		h.writeError(c, err, msgCartFailed)
		return
	}
	s := h.session(c)
	if err := cartsvc.ValidateAdd(*variant, s.Snapshot().QuantityOf(variant.ID), qty); err != nil {
		h.writeError(c, err, msgCartFailed)
		return
	}
	if err := s.AddItem(ctx, variant.ID, qty); err != nil {
		h.writeError(c, err, msgCartFailed)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(s.State()))
}

func (h *handlers) updateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	lineID := c.Param("lineId")
	s := h.session(c)
	if line, ok := s.Snapshot().Line(lineID); ok {
		if err := cartsvc.ValidateUpdate(line, req.Quantity); err != nil {
			h.writeError(c, err, msgCartFailed)
			return
		}
	}
	if err := s.UpdateItemQuantity(c.Request.Context(), lineID, req.Quantity); err != nil {
		h.writeError(c, err, msgCartFailed)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(s.State()))
}

func (h *handlers) removeLine(c *gin.Context) {
	s := h.session(c)
	if err := s.RemoveItem(c.Request.Context(), c.Param("lineId")); err != nil {
		h.writeError(c, err, msgCartFailed)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(s.State()))
}

func (h *handlers) clearCartError(c *gin.Context) {
	s := h.session(c)
	s.ClearError()
	c.JSON(http.StatusOK, toCartResponse(s.State()))
}

func (h *handlers) checkout(c *gin.Context) {
	url, err := h.session(c).Checkout(c.Request.Context())
	if err != nil {
		h.writeError(c, err, msgCartFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkoutUrl": url})
}
