package httpserver

import (
	"net/http"
	"strconv"

	"matcha-storefront/internal/service/search"

	"github.com/gin-gonic/gin"
)

type searchResponse struct {
	Query      string              `json:"query"`
	Terms      []string            `json:"terms"`
	Products   []productView       `json:"products"`
	Provenance []search.Provenance `json:"provenance"`
	Total      int                 `json:"total"`
	Window     search.Window       `json:"window"`
	HasMore    bool                `json:"hasMore"`
	Empty      bool                `json:"empty"`
	Message    string              `json:"message,omitempty"`
}

func (h *handlers) search(c *gin.Context) {
	query := c.Query("q")
	res, err := h.deps.Search.Search(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err, msgSearchFailed)
		return
	}

	clicks := intQuery(c, "more", 0)
	window := search.WindowAt(h.deps.PageSize, clicks, len(res.Products))
	resp := searchResponse{
		Query:      query,
		Terms:      res.Terms,
		Products:   toProductViews(res.Products),
		Provenance: res.Provenance,
		Total:      len(res.Products),
		Window:     window,
		HasMore:    window.HasMore(len(res.Products)),
		Empty:      res.Empty,
	}
	if resp.Terms == nil {
		resp.Terms = []string{}
	}
	if res.Empty {
		resp.Message = "No products found."
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) quickSearch(c *gin.Context) {
	query := c.Query("q")
	products, err := h.deps.Live.Search(c.Request.Context(), sessionID(c), query, intQuery(c, "limit", search.DefaultQuickLimit))
	if err != nil {
		h.writeError(c, err, msgSearchFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "products": toProductViews(products)})
}

// intQuery reads a non-negative integer query parameter.
func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
