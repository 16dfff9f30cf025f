// Package cartsession persists which remote cart belongs to which browser session.
package cartsession

import "context"

// Repository stores the session → cart id token. Get returns domain.ErrNotFound
// when the session has no cart.
type Repository interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, cartID string) error
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
