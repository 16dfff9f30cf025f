package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"matcha-storefront/internal/config"
	"matcha-storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Token string
	Body  graphQLRequest
}

type fakeStorefront struct {
	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string]string
	status    int
}

func (f *fakeStorefront) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body graphQLRequest
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Token: r.Header.Get(tokenHeader), Body: body})
	status := f.status
	resp, ok := f.responses[body.OperationName]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"errors":[{"message":"throttled"}]}`)
		return
	}
	if !ok {
		_, _ = io.WriteString(w, `{"errors":[{"message":"unexpected operation"}]}`)
		return
	}
	_, _ = io.WriteString(w, resp)
}

func (f *fakeStorefront) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, fake *fakeStorefront) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := New(config.ShopifyConfig{
		StoreDomain:     srv.URL,
		StorefrontToken: "test-token",
		APIVersion:      "2024-10",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

const cartJSON = `{
  "id": "gid://shopify/Cart/c1",
  "checkoutUrl": "https://shop.example/checkout/c1",
  "totalQuantity": 3,
  "cost": {
    "subtotalAmount": {"amount": "54.0", "currencyCode": "USD"},
    "totalAmount": {"amount": "58.32", "currencyCode": "USD"},
    "totalTaxAmount": {"amount": "4.32", "currencyCode": "USD"}
  },
  "lines": {"edges": [{"node": {
    "id": "gid://shopify/CartLine/l1",
    "quantity": 3,
    "cost": {"totalAmount": {"amount": "54.0", "currencyCode": "USD"}},
    "merchandise": {
      "id": "gid://shopify/ProductVariant/1",
      "title": "30g",
      "availableForSale": true,
      "quantityAvailable": 12,
      "price": {"amount": "18.0", "currencyCode": "USD"},
      "selectedOptions": [{"name": "Size", "value": "30g"}],
      "image": null,
      "product": {"id": "gid://shopify/Product/1", "title": "Ceremonial Matcha", "handle": "ceremonial-matcha",
        "featuredImage": {"url": "https://cdn.example/matcha.jpg", "altText": "tin"}}
    }
  }}]}
}`

func TestClient_GetCartNarrowsWireShape(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{
		opCartGet: `{"data":{"cart":` + cartJSON + `}}`,
	}}
	c := newTestClient(t, fake)

	cart, err := c.GetCart(context.Background(), "gid://shopify/Cart/c1")
	require.NoError(t, err)

	assert.Equal(t, "test-token", fake.last().Token)
	assert.Equal(t, "gid://shopify/Cart/c1", fake.last().Body.Variables["id"])

	assert.Equal(t, "https://shop.example/checkout/c1", cart.CheckoutURL)
	assert.Equal(t, "54", cart.Cost.Subtotal.Amount.String())
	require.NotNil(t, cart.Cost.Tax)
	assert.Equal(t, "4.32", cart.Cost.Tax.Amount.String())
	require.Len(t, cart.Lines, 1)

	line := cart.Lines[0]
	assert.Equal(t, "gid://shopify/ProductVariant/1", line.VariantID)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "Ceremonial Matcha", line.Merchandise.ProductTitle)
	require.NotNil(t, line.Merchandise.Image)
	assert.Equal(t, "https://cdn.example/matcha.jpg", line.Merchandise.Image.URL, "falls back to the product image")
	assert.Equal(t, []domain.SelectedOption{{Name: "Size", Value: "30g"}}, line.Merchandise.SelectedOptions)
}

func TestClient_GetCartMissingIsCartNotFound(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{
		opCartGet: `{"data":{"cart":null}}`,
	}}
	c := newTestClient(t, fake)

	_, err := c.GetCart(context.Background(), "gid://shopify/Cart/gone")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestClient_AddLinesSendsMerchandiseAndSurfacesUserErrors(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{
		opCartLinesAdd: `{"data":{"cartLinesAdd":{"cart":null,"userErrors":[{"field":["lines","0","quantity"],"message":"Only 2 items were added to your cart due to availability."}]}}}`,
	}}
	c := newTestClient(t, fake)

	_, err := c.AddLines(context.Background(), "gid://shopify/Cart/c1", []domain.LineInput{{VariantID: "gid://shopify/ProductVariant/1", Quantity: 5}})
	require.Error(t, err)

	var ue *domain.UserError
	require.True(t, errors.As(err, &ue))
	assert.Contains(t, ue.Message, "availability")

	lines, ok := fake.last().Body.Variables["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	first := lines[0].(map[string]any)
	assert.Equal(t, "gid://shopify/ProductVariant/1", first["merchandiseId"])
	assert.EqualValues(t, 5, first["quantity"])
}

func TestClient_MutationWithoutCartIsCartNotFound(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{
		opCartLinesRemove: `{"data":{"cartLinesRemove":{"cart":null,"userErrors":[]}}}`,
	}}
	c := newTestClient(t, fake)

	_, err := c.RemoveLines(context.Background(), "gid://shopify/Cart/c1", []string{"l1"})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestClient_GraphQLAndHTTPErrors(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{
		opProductSearch: `{"errors":[{"message":"Field 'products' doesn't accept argument 'foo'"}]}`,
	}}
	c := newTestClient(t, fake)

	_, err := c.SearchProducts(context.Background(), "matcha", 24)
	var gqlErr *GraphQLError
	require.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, opProductSearch, gqlErr.Operation)

	fake.mu.Lock()
	fake.status = http.StatusServiceUnavailable
	fake.mu.Unlock()
	_, err = c.SearchProducts(context.Background(), "matcha", 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestClient_SearchProductsKeepsRemoteOrder(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{
		opProductSearch: `{"data":{"products":{"edges":[
			{"node":{"id":"p2","title":"Matcha Bowl","handle":"bowl-chawan","priceRange":{"minVariantPrice":{"amount":"32.0","currencyCode":"USD"},"maxVariantPrice":{"amount":"32.0","currencyCode":"USD"}},"variants":{"edges":[{"node":{"id":"v2","title":"Default","availableForSale":true,"quantityAvailable":4,"price":{"amount":"32.0","currencyCode":"USD"}}}]}}},
			{"node":{"id":"p3","title":"Bowls Set","handle":"bowls-set","priceRange":{"minVariantPrice":{"amount":"0.0","currencyCode":"USD"},"maxVariantPrice":{"amount":"0.0","currencyCode":"USD"}},"variants":{"edges":[{"node":{"id":"v3","title":"Default","availableForSale":false,"price":{"amount":"0.0","currencyCode":"USD"}}}]}}}
		]}}}`,
	}}
	c := newTestClient(t, fake)

	products, err := c.SearchProducts(context.Background(), "bowl", 24)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "bowl-chawan", products[0].Handle)
	assert.Equal(t, "p2", products[0].Variants[0].ProductID)
	assert.Equal(t, domain.AvailabilityComingSoon, products[1].Availability())
	assert.EqualValues(t, 24, fake.last().Body.Variables["first"])
}

func TestClient_NotFoundLookups(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{
		opProductByHandle: `{"data":{"product":null}}`,
		opCollection:      `{"data":{"collection":null}}`,
		opArticleByHandle: `{"data":{"blog":{"articleByHandle":null}}}`,
		opVariantByID:     `{"data":{"node":{}}}`,
	}}
	c := newTestClient(t, fake)
	ctx := context.Background()

	_, err := c.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.GetCollection(ctx, "nope", 12)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.GetArticle(ctx, "news", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.GetVariant(ctx, "gid://shopify/Product/1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateDocuments(t *testing.T) {
	require.NoError(t, validateDocuments())
}

func TestEndpointFor(t *testing.T) {
	assert.Equal(t, "https://matcha.myshopify.com/api/2024-10/graphql.json", endpointFor("matcha.myshopify.com", ""))
	assert.Equal(t, "http://127.0.0.1:9000/api/2025-01/graphql.json", endpointFor("http://127.0.0.1:9000/", "2025-01"))
}

// cancelingLimiter cancels the caller's context while it hands out a slot.
type cancelingLimiter struct {
	cancel context.CancelFunc
}

func (l cancelingLimiter) Take() time.Time {
	l.cancel()
	return time.Now()
}

func TestRequestDroppedWhenCancelledWhileRateLimited(t *testing.T) {
	fake := &fakeStorefront{responses: map[string]string{}}
	c := newTestClient(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	c.rl = cancelingLimiter{cancel: cancel}

	_, err := c.SearchProducts(ctx, "matcha", 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Empty(t, fake.requests)
}
