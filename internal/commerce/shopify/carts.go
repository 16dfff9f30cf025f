package shopify

import (
	"context"
	"fmt"

	"matcha-storefront/internal/domain"
)

func lineInputs(lines []domain.LineInput) []map[string]any {
	out := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]any{"merchandiseId": l.VariantID, "quantity": l.Quantity})
	}
	return out
}

func (c *Client) CreateCart(ctx context.Context, lines []domain.LineInput) (*domain.Cart, error) {
	data, err := execute[struct {
		CartCreate cartPayload `json:"cartCreate"`
	}](ctx, c, opCartCreate, map[string]any{"lines": lineInputs(lines)})
	if err != nil {
		return nil, err
	}
	return cartFromPayload(opCartCreate, data.CartCreate)
}

func (c *Client) GetCart(ctx context.Context, id string) (*domain.Cart, error) {
	data, err := execute[struct {
		Cart *cartNode `json:"cart"`
	}](ctx, c, opCartGet, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if data.Cart == nil {
		return nil, domain.ErrCartNotFound
	}
	return toCart(data.Cart)
}

func (c *Client) AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error) {
	data, err := execute[struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}](ctx, c, opCartLinesAdd, map[string]any{"cartId": cartID, "lines": lineInputs(lines)})
	if err != nil {
		return nil, err
	}
	return cartFromPayload(opCartLinesAdd, data.CartLinesAdd)
}

func (c *Client) UpdateLines(ctx context.Context, cartID string, lines []domain.LineUpdate) (*domain.Cart, error) {
	updates := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		updates = append(updates, map[string]any{"id": l.LineID, "quantity": l.Quantity})
	}
	data, err := execute[struct {
		CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
	}](ctx, c, opCartLinesUpdate, map[string]any{"cartId": cartID, "lines": updates})
	if err != nil {
		return nil, err
	}
	return cartFromPayload(opCartLinesUpdate, data.CartLinesUpdate)
}

func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	data, err := execute[struct {
		CartLinesRemove cartPayload `json:"cartLinesRemove"`
	}](ctx, c, opCartLinesRemove, map[string]any{"cartId": cartID, "lineIds": lineIDs})
	if err != nil {
		return nil, err
	}
	return cartFromPayload(opCartLinesRemove, data.CartLinesRemove)
}

func cartFromPayload(op string, p cartPayload) (*domain.Cart, error) {
	if err := domain.UserErrors(toUserErrors(p.UserErrors)); err != nil {
		return nil, err
	}
	if p.Cart == nil {
		// Mutations against an expired cart come back without a cart and without user errors.
		return nil, fmt.Errorf("shopify %s: %w", op, domain.ErrCartNotFound)
	}
	return toCart(p.Cart)
}
