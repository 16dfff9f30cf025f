package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"matcha-storefront/internal/domain"
	cartsvc "matcha-storefront/internal/service/cart"
	"matcha-storefront/internal/service/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type cartSessions interface {
	Get(ctx context.Context, sessionID string) *cartsvc.Session
}

type catalogService interface {
	Product(ctx context.Context, handle string) (*domain.Product, error)
	Variant(ctx context.Context, id string) (*domain.Variant, error)
	Collection(ctx context.Context, handle string, limit int) (*domain.Collection, error)
	LatestArticles(ctx context.Context, limit int) ([]domain.Article, error)
	Article(ctx context.Context, blogHandle, handle string) (*domain.Article, error)
	Blog(ctx context.Context, handle string, limit int) (*domain.Blog, error)
}

type productSearcher interface {
	Search(ctx context.Context, query string) (search.Result, error)
}

type liveSearcher interface {
	Search(ctx context.Context, sessionID, query string, limit int) ([]domain.Product, error)
}

type sessionIssuer interface {
	Issue() string
	Lookup(raw string) (string, error)
	MaxAgeSeconds() int
}

// Deps are the services the router dispatches to.
type Deps struct {
	Store    pinger
	Carts    cartSessions
	Catalog  catalogService
	Search   productSearcher
	Live     liveSearcher
	Sessions sessionIssuer

	CORSOrigins   []string
	PageSize      int
	SecureCookies bool
}

func (d Deps) validate() error {
	switch {
	case d.Carts == nil:
		return errors.New("httpserver: cart sessions required")
	case d.Catalog == nil:
		return errors.New("httpserver: catalog service required")
	case d.Search == nil || d.Live == nil:
		return errors.New("httpserver: search services required")
	case d.Sessions == nil:
		return errors.New("httpserver: session issuer required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.PageSize <= 0 {
		deps.PageSize = search.DefaultPageSize
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))

	h := &handlers{deps: deps, logger: logger}
	api := router.Group("/api", sessionMiddleware(deps.Sessions, deps.SecureCookies))

	api.GET("/cart", h.getCart)
	api.POST("/cart/lines", h.addLine)
	api.PATCH("/cart/lines/:lineId", h.updateLine)
	api.DELETE("/cart/lines/:lineId", h.removeLine)
	api.DELETE("/cart/error", h.clearCartError)
	api.POST("/cart/checkout", h.checkout)

	api.GET("/search", h.search)
	api.GET("/search/quick", h.quickSearch)

	api.GET("/products/:handle", h.getProduct)
	api.GET("/collections/:handle", h.getCollection)
	api.GET("/articles", h.latestArticles)
	api.GET("/blogs/:blog", h.getBlog)
	api.GET("/blogs/:blog/articles/:handle", h.getArticle)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger logrus.FieldLogger
}
