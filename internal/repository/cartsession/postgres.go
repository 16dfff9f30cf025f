package cartsession

import (
	"context"
	"errors"
	"time"

	"matcha-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, ttl time.Duration, logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &postgresRepo{pool: pool, ttl: ttl, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, sessionID string) (string, error) {
	const q = `
SELECT cart_id
FROM cart_sessions
WHERE session_id = $1 AND (expires_at IS NULL OR expires_at > now())
`
	var cartID string
	if err := r.pool.QueryRow(ctx, q, sessionID).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		r.logger.WithField("session", sessionID).Errorf("cart session repo: get error=%v", err)
		return "", err
	}
	return cartID, nil
}

func (r *postgresRepo) Save(ctx context.Context, sessionID, cartID string) error {
	const q = `
INSERT INTO cart_sessions (session_id, cart_id, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (session_id) DO UPDATE
SET cart_id = EXCLUDED.cart_id,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()
`
	var expiresAt *time.Time
	if r.ttl > 0 {
		t := time.Now().UTC().Add(r.ttl)
		expiresAt = &t
	}
	if _, err := r.pool.Exec(ctx, q, sessionID, cartID, expiresAt); err != nil {
		r.logger.WithFields(logrus.Fields{"session": sessionID, "cart_id": cartID}).Errorf("cart session repo: save error=%v", err)
		return err
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_sessions WHERE session_id = $1`, sessionID)
	return err
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
