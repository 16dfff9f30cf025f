package httpserver

import (
	"net/http"

	"matcha-storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Product(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.writeError(c, err, msgLoadFailed)
		return
	}
	c.JSON(http.StatusOK, toProductView(*p))
}

func (h *handlers) getCollection(c *gin.Context) {
	col, err := h.deps.Catalog.Collection(c.Request.Context(), c.Param("handle"), intQuery(c, "limit", 0))
	if err != nil {
		h.writeError(c, err, msgLoadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"handle":      col.Handle,
		"title":       col.Title,
		"description": col.Description,
		"products":    toProductViews(col.Products),
	})
}

func (h *handlers) latestArticles(c *gin.Context) {
	articles, err := h.deps.Catalog.LatestArticles(c.Request.Context(), intQuery(c, "limit", 0))
	if err != nil {
		h.writeError(c, err, msgLoadFailed)
		return
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

func (h *handlers) getBlog(c *gin.Context) {
	blog, err := h.deps.Catalog.Blog(c.Request.Context(), c.Param("blog"), intQuery(c, "limit", 0))
	if err != nil {
		h.writeError(c, err, msgLoadFailed)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (h *handlers) getArticle(c *gin.Context) {
	article, err := h.deps.Catalog.Article(c.Request.Context(), c.Param("blog"), c.Param("handle"))
	if err != nil {
		h.writeError(c, err, msgLoadFailed)
		return
	}
	c.JSON(http.StatusOK, article)
}
