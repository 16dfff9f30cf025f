package local

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"matcha-storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func usd(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.NewMoney(amount, "USD")
	require.NoError(t, err)
	return m
}

func seeded(t *testing.T) *Backend {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	b := New("https://shop.example/checkout/", logger)
	ctx := context.Background()

	require.NoError(t, b.PutProduct(ctx, domain.Product{
		ID: "p1", Handle: "ceremonial-matcha", Title: "Ceremonial Matcha", Tags: []string{"Matcha"},
		Variants: []domain.Variant{{ID: "v1", Title: "30g", Price: usd(t, "18.00"), AvailableForSale: true, QuantityAvailable: intPtr(5)}},
	}))
	require.NoError(t, b.PutProduct(ctx, domain.Product{
		ID: "p2", Handle: "bowl-chawan", Title: "Matcha Bowl", Tags: []string{"Teaware"},
		Variants: []domain.Variant{{ID: "v2", Title: "Default", Price: usd(t, "32.00"), AvailableForSale: true}},
	}))
	require.NoError(t, b.PutProduct(ctx, domain.Product{
		ID: "p3", Handle: "bowls-set", Title: "Bowls Set", Tags: []string{"Teaware"},
		Variants: []domain.Variant{{ID: "v3", Title: "Default", Price: usd(t, "60.00"), AvailableForSale: false}},
	}))
	return b
}

func TestBackend_AddMergesSameVariant(t *testing.T) {
	b := seeded(t)
	ctx := context.Background()

	cart, err := b.CreateCart(ctx, []domain.LineInput{{VariantID: "v1", Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	cart, err = b.AddLines(ctx, cart.ID, []domain.LineInput{{VariantID: "v1", Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, "54", cart.Cost.Subtotal.Amount.String())
	assert.Equal(t, "Ceremonial Matcha", cart.Lines[0].Merchandise.ProductTitle)
	assert.Contains(t, cart.CheckoutURL, "https://shop.example/checkout/")
}

func TestBackend_StockAndAvailabilityAreUserErrors(t *testing.T) {
	b := seeded(t)
	ctx := context.Background()

	_, err := b.CreateCart(ctx, []domain.LineInput{{VariantID: "v1", Quantity: 6}})
	var ue *domain.UserError
	require.True(t, errors.As(err, &ue), "got %v", err)

	_, err = b.CreateCart(ctx, []domain.LineInput{{VariantID: "v3", Quantity: 1}})
	require.True(t, errors.As(err, &ue), "got %v", err)

	_, err = b.CreateCart(ctx, []domain.LineInput{{VariantID: "missing", Quantity: 1}})
	require.True(t, errors.As(err, &ue), "got %v", err)
}

func TestBackend_FailedMutationLeavesCartUntouched(t *testing.T) {
	b := seeded(t)
	ctx := context.Background()

	cart, err := b.CreateCart(ctx, []domain.LineInput{{VariantID: "v1", Quantity: 4}, {VariantID: "v2", Quantity: 1}})
	require.NoError(t, err)

	_, err = b.AddLines(ctx, cart.ID, []domain.LineInput{{VariantID: "v2", Quantity: 1}, {VariantID: "v1", Quantity: 2}})
	require.Error(t, err)

	after, err := b.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.TotalQuantity, after.TotalQuantity)
}

func TestBackend_UpdateAndRemove(t *testing.T) {
	b := seeded(t)
	ctx := context.Background()

	cart, err := b.CreateCart(ctx, []domain.LineInput{{VariantID: "v2", Quantity: 1}})
	require.NoError(t, err)
	lineID := cart.Lines[0].ID

	cart, err = b.UpdateLines(ctx, cart.ID, []domain.LineUpdate{{LineID: lineID, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	cart, err = b.RemoveLines(ctx, cart.ID, []string{lineID})
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	_, err = b.RemoveLines(ctx, cart.ID, []string{lineID})
	assert.Error(t, err)
}

func TestBackend_UnknownCart(t *testing.T) {
	b := seeded(t)
	ctx := context.Background()

	cart, err := b.CreateCart(ctx, []domain.LineInput{{VariantID: "v2", Quantity: 1}})
	require.NoError(t, err)
	b.Forget(cart.ID)

	_, err = b.GetCart(ctx, cart.ID)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	_, err = b.AddLines(ctx, cart.ID, []domain.LineInput{{VariantID: "v2", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestBackend_SearchIsBroad(t *testing.T) {
	b := seeded(t)

	got, err := b.SearchProducts(context.Background(), "matcha bowl", 24)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "bowl-chawan", got[0].Handle, "two matching tokens rank first")
	assert.Equal(t, "ceremonial-matcha", got[1].Handle)
	assert.Equal(t, "bowls-set", got[2].Handle)

	got, err = b.SearchProducts(context.Background(), "   ", 24)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBackend_CollectionsAndArticles(t *testing.T) {
	b := seeded(t)
	ctx := context.Background()

	col, err := b.GetCollection(ctx, "teaware", 1)
	require.NoError(t, err)
	assert.Equal(t, "Teaware", col.Title)
	require.Len(t, col.Products, 1)

	_, err = b.GetCollection(ctx, "nope", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Now()
	b.PutArticle(domain.Article{Handle: "old", BlogHandle: "journal", PublishedAt: now.Add(-time.Hour)}, "Journal")
	b.PutArticle(domain.Article{Handle: "new", BlogHandle: "journal", PublishedAt: now}, "Journal")

	articles, err := b.LatestArticles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "new", articles[0].Handle)

	blog, err := b.GetBlog(ctx, "journal", 10)
	require.NoError(t, err)
	assert.Equal(t, "Journal", blog.Title)
	assert.Len(t, blog.Articles, 2)

	_, err = b.GetArticle(ctx, "journal", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
